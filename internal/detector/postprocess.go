package detector

import (
	"sort"

	"detection-service/internal/domain"
)

// candidate is a raw prediction before non-max suppression, in source
// image pixel coordinates.
type candidate struct {
	classIdx   int
	confidence float32
	x1, y1     float32
	x2, y2     float32
}

// decodePredictions converts a YOLOv8 detection head output (row-major
// [4+numClasses][numAnchors]: cx, cy, w, h, then one score row per
// class, all in model input coordinates) into detections scaled back to
// the source image. Predictions below confTh are dropped, the rest go
// through per-class IoU suppression.
func decodePredictions(preds []float32, classes []string, numAnchors, inputSize, origW, origH int, confTh, iouTh float32) []domain.Detection {
	numClasses := len(classes)
	if len(preds) < (4+numClasses)*numAnchors {
		return nil
	}

	scaleX := float32(origW) / float32(inputSize)
	scaleY := float32(origH) / float32(inputSize)

	var cands []candidate
	for i := 0; i < numAnchors; i++ {
		best := -1
		bestScore := float32(0)
		for c := 0; c < numClasses; c++ {
			score := preds[(4+c)*numAnchors+i]
			if score > bestScore {
				bestScore = score
				best = c
			}
		}
		if best < 0 || bestScore < confTh {
			continue
		}

		cx := preds[i]
		cy := preds[numAnchors+i]
		w := preds[2*numAnchors+i]
		h := preds[3*numAnchors+i]

		cands = append(cands, candidate{
			classIdx:   best,
			confidence: bestScore,
			x1:         (cx - w/2) * scaleX,
			y1:         (cy - h/2) * scaleY,
			x2:         (cx + w/2) * scaleX,
			y2:         (cy + h/2) * scaleY,
		})
	}

	kept := suppress(cands, iouTh)

	out := make([]domain.Detection, 0, len(kept))
	for _, c := range kept {
		conf := float64(c.confidence)
		if conf > 1 {
			conf = 1
		}
		out = append(out, domain.Detection{
			Class:      classes[c.classIdx],
			Confidence: conf,
			Box:        clampBox(c, origW, origH),
		})
	}
	return out
}

// suppress runs greedy per-class non-max suppression, highest
// confidence first.
func suppress(cands []candidate, iouTh float32) []candidate {
	sort.Slice(cands, func(i, j int) bool {
		return cands[i].confidence > cands[j].confidence
	})

	var kept []candidate
	removed := make([]bool, len(cands))
	for i := range cands {
		if removed[i] {
			continue
		}
		kept = append(kept, cands[i])
		for j := i + 1; j < len(cands); j++ {
			if removed[j] || cands[j].classIdx != cands[i].classIdx {
				continue
			}
			if iou(cands[i], cands[j]) > iouTh {
				removed[j] = true
			}
		}
	}
	return kept
}

func iou(a, b candidate) float32 {
	ix1 := max32(a.x1, b.x1)
	iy1 := max32(a.y1, b.y1)
	ix2 := min32(a.x2, b.x2)
	iy2 := min32(a.y2, b.y2)

	iw := ix2 - ix1
	ih := iy2 - iy1
	if iw <= 0 || ih <= 0 {
		return 0
	}
	inter := iw * ih
	areaA := (a.x2 - a.x1) * (a.y2 - a.y1)
	areaB := (b.x2 - b.x1) * (b.y2 - b.y1)
	union := areaA + areaB - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

func clampBox(c candidate, w, h int) domain.Box {
	x1 := clampInt(int(c.x1), 0, w)
	y1 := clampInt(int(c.y1), 0, h)
	x2 := clampInt(int(c.x2), 0, w)
	y2 := clampInt(int(c.y2), 0, h)
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	if y2 < y1 {
		y1, y2 = y2, y1
	}
	return domain.Box{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
