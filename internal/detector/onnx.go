// Package detector implements the detection capability over ONNX
// Runtime sessions. One ONNXDetector is created per model weight file
// and holds a small pool of sessions so concurrent requests do not
// serialize on a single runtime binding.
package detector

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	ort "github.com/yalue/onnxruntime_go"

	"detection-service/internal/domain"
)

// Options configures an ONNXDetector.
type Options struct {
	InputSize           int
	ConfidenceThreshold float32
	IOUThreshold        float32
	PoolSize            int
	AcquireTimeout      time.Duration
}

func (o *Options) applyDefaults() {
	if o.InputSize <= 0 {
		o.InputSize = 640
	}
	if o.ConfidenceThreshold <= 0 {
		o.ConfidenceThreshold = 0.5
	}
	if o.IOUThreshold <= 0 {
		o.IOUThreshold = 0.7
	}
	if o.PoolSize <= 0 {
		o.PoolSize = 2
	}
	if o.AcquireTimeout <= 0 {
		o.AcquireTimeout = 5 * time.Second
	}
}

var (
	ortOnce    sync.Once
	ortInitErr error
)

// Initialize prepares the shared ONNX Runtime environment. Safe to call
// more than once; later calls return the first result.
func Initialize(libraryPath string) error {
	ortOnce.Do(func() {
		if libraryPath != "" {
			ort.SetSharedLibraryPath(libraryPath)
		}
		ortInitErr = ort.InitializeEnvironment()
	})
	return ortInitErr
}

type session struct {
	sess   *ort.AdvancedSession
	input  *ort.Tensor[float32]
	output *ort.Tensor[float32]
}

func (s *session) destroy() {
	if s.sess != nil {
		s.sess.Destroy()
	}
	if s.input != nil {
		s.input.Destroy()
	}
	if s.output != nil {
		s.output.Destroy()
	}
}

// ONNXDetector runs a YOLOv8 detection model.
type ONNXDetector struct {
	name     string
	classes  []string
	opts     Options
	anchors  int
	sessions chan *session
}

// NewONNX loads the model at weightsPath and builds its session pool.
// Initialize must have succeeded first.
func NewONNX(name, weightsPath string, classes []string, opts Options) (*ONNXDetector, error) {
	opts.applyDefaults()
	if len(classes) == 0 {
		return nil, fmt.Errorf("model %s: no class names configured", name)
	}

	// YOLOv8 emits 8400 anchors for a 640x640 input; the count scales
	// with the square of the input size.
	anchors := 8400 * opts.InputSize * opts.InputSize / (640 * 640)

	d := &ONNXDetector{
		name:     name,
		classes:  classes,
		opts:     opts,
		anchors:  anchors,
		sessions: make(chan *session, opts.PoolSize),
	}

	for i := 0; i < opts.PoolSize; i++ {
		s, err := d.newSession(weightsPath)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("model %s: create session %d: %w", name, i, err)
		}
		d.sessions <- s
	}
	return d, nil
}

func (d *ONNXDetector) newSession(weightsPath string) (*session, error) {
	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("create session options: %w", err)
	}
	defer options.Destroy()

	inputShape := ort.NewShape(1, 3, int64(d.opts.InputSize), int64(d.opts.InputSize))
	outputShape := ort.NewShape(1, int64(4+len(d.classes)), int64(d.anchors))

	inputTensor, err := ort.NewEmptyTensor[float32](inputShape)
	if err != nil {
		return nil, fmt.Errorf("create input tensor: %w", err)
	}
	outputTensor, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("create output tensor: %w", err)
	}

	sess, err := ort.NewAdvancedSession(
		weightsPath,
		[]string{"images"},
		[]string{"output0"},
		[]ort.ArbitraryTensor{inputTensor},
		[]ort.ArbitraryTensor{outputTensor},
		options,
	)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &session{sess: sess, input: inputTensor, output: outputTensor}, nil
}

// Classes returns the model's class labels.
func (d *ONNXDetector) Classes() []string {
	out := make([]string, len(d.classes))
	copy(out, d.classes)
	return out
}

// Detect runs one inference on img. Inference is not aborted once
// started; cancellation only applies while waiting for a session.
func (d *ONNXDetector) Detect(ctx context.Context, img image.Image) ([]domain.Detection, error) {
	s, err := d.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer d.release(s)

	resized := imaging.Resize(img, d.opts.InputSize, d.opts.InputSize, imaging.Linear)
	fillInput(resized, s.input.GetData(), d.opts.InputSize)

	if err := s.sess.Run(); err != nil {
		return nil, fmt.Errorf("model %s inference: %w", d.name, err)
	}

	bounds := img.Bounds()
	return decodePredictions(
		s.output.GetData(), d.classes, d.anchors, d.opts.InputSize,
		bounds.Dx(), bounds.Dy(),
		d.opts.ConfidenceThreshold, d.opts.IOUThreshold,
	), nil
}

func (d *ONNXDetector) acquire(ctx context.Context) (*session, error) {
	timer := time.NewTimer(d.opts.AcquireTimeout)
	defer timer.Stop()

	select {
	case s := <-d.sessions:
		return s, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, fmt.Errorf("model %s: session pool exhausted", d.name)
	}
}

func (d *ONNXDetector) release(s *session) {
	d.sessions <- s
}

// Close destroys all pooled sessions.
func (d *ONNXDetector) Close() {
	for {
		select {
		case s := <-d.sessions:
			s.destroy()
		default:
			return
		}
	}
}

// fillInput writes img into dst in CHW layout, normalized to [0, 1].
func fillInput(img *image.NRGBA, dst []float32, size int) {
	channel := size * size
	for y := 0; y < size; y++ {
		offset := y * size
		for x := 0; x < size; x++ {
			i := offset + x
			pix := img.NRGBAAt(x, y)
			dst[i] = float32(pix.R) / 255.0
			dst[channel+i] = float32(pix.G) / 255.0
			dst[2*channel+i] = float32(pix.B) / 255.0
		}
	}
}
