package detector

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"detection-service/internal/domain"
)

const strokeWidth = 2

// Annotate returns a copy of img with each detection's box and a
// "class confidence" label drawn in the given color.
func Annotate(img image.Image, detections []domain.Detection, col color.RGBA) *image.RGBA {
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, img, bounds.Min, draw.Src)

	for _, det := range detections {
		drawRect(out, det.Box, col)
		drawLabel(out, det, col)
	}
	return out
}

func drawRect(img *image.RGBA, b domain.Box, col color.RGBA) {
	for t := 0; t < strokeWidth; t++ {
		for x := b.X1; x <= b.X2; x++ {
			img.Set(x, b.Y1+t, col)
			img.Set(x, b.Y2-t, col)
		}
		for y := b.Y1; y <= b.Y2; y++ {
			img.Set(b.X1+t, y, col)
			img.Set(b.X2-t, y, col)
		}
	}
}

func drawLabel(img *image.RGBA, det domain.Detection, col color.RGBA) {
	label := fmt.Sprintf("%s %.2f", det.Class, det.Confidence)
	y := det.Box.Y1 - 5
	if y < basicfont.Face7x13.Height {
		y = det.Box.Y1 + basicfont.Face7x13.Height + 5
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(det.Box.X1, y),
	}
	d.DrawString(label)
}
