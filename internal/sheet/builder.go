package sheet

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"time"

	"github.com/dunamismax/spritesheet/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/image/draw"
)

var ErrZeroWidth = errors.New("scaled frame width is zero")

// Recorder receives build and frame counts. metrics.Metrics implements it.
type Recorder interface {
	FrameLoaded()
	FrameSkipped()
	BuildFinished(status string, frames int, elapsed time.Duration)
}

type Placement struct {
	Path         string
	Bounds       image.Rectangle
	SourceWidth  int
	SourceHeight int
}

type Result struct {
	Status      string
	OutputFile  string
	Width       int
	Height      int
	FrameCount  int
	FrameWidth  int
	FrameHeight int
	Placements  []Placement
	Skipped     []domain.FrameError
}

// Uniform reports whether every frame has the first frame's width.
func (r Result) Uniform() bool {
	for _, p := range r.Placements {
		if p.Bounds.Dx() != r.FrameWidth {
			return false
		}
	}
	return true
}

type Builder struct {
	logger    *log.Logger
	resampler Resampler
	recorder  Recorder
	tracer    trace.Tracer
}

func NewBuilder(logger *log.Logger, resampler Resampler, recorder Recorder) *Builder {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if resampler == nil {
		resampler = lanczosResampler{}
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Builder{
		logger:    logger,
		resampler: resampler,
		recorder:  recorder,
		tracer:    otel.Tracer("spritesheet/sheet"),
	}
}

type frame struct {
	path         string
	img          image.Image
	sourceWidth  int
	sourceHeight int
}

// Build packs the frames found in req.SourceDir into one horizontal sheet at
// req.OutputFile. Frames that fail to decode are reported in Result.Skipped.
// When no frame survives, the result has StatusEmpty and nothing is written.
// Only request, directory and output errors are returned.
func (b *Builder) Build(ctx context.Context, req domain.BuildRequest) (Result, error) {
	startedAt := time.Now()
	outcome := domain.StatusFailed
	frameCount := 0
	defer func() {
		b.recorder.BuildFinished(outcome, frameCount, time.Since(startedAt))
	}()

	if err := req.Validate(); err != nil {
		return Result{}, err
	}

	ctx, span := b.tracer.Start(ctx, "sheet.build")
	span.SetAttributes(
		attribute.String("sheet.source_dir", req.SourceDir),
		attribute.String("sheet.output_file", req.OutputFile),
		attribute.Int("sheet.target_height", req.TargetHeight),
	)
	defer span.End()

	fail := func(err error, msg string) (Result, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, msg)
		return Result{}, err
	}

	paths, err := ListFrames(req.SourceDir)
	if err != nil {
		return fail(err, "discover failed")
	}
	span.SetAttributes(attribute.Int("sheet.candidates", len(paths)))

	frames, skipped, err := b.loadFrames(ctx, paths, req.TargetHeight)
	if err != nil {
		return fail(err, "load cancelled")
	}

	if len(frames) == 0 {
		b.logger.Printf("no frames to pack source_dir=%s candidates=%d skipped=%d", req.SourceDir, len(paths), len(skipped))
		outcome = domain.StatusEmpty
		span.SetStatus(codes.Ok, "empty")
		return Result{Status: domain.StatusEmpty, Skipped: skipped}, nil
	}

	enc, err := encoderFor(req.OutputFile)
	if err != nil {
		return fail(err, "unsupported format")
	}

	canvas, placements := b.compose(ctx, frames, req.TargetHeight)

	_, encodeSpan := b.tracer.Start(ctx, "sheet.encode")
	err = writeSheet(req.OutputFile, canvas, enc)
	encodeSpan.End()
	if err != nil {
		return fail(err, "write failed")
	}

	bounds := canvas.Bounds()
	frameCount = len(placements)
	outcome = domain.StatusBuilt
	span.SetStatus(codes.Ok, "built")
	b.logger.Printf("sheet written output=%s width=%d height=%d frames=%d skipped=%d",
		req.OutputFile, bounds.Dx(), bounds.Dy(), frameCount, len(skipped))

	return Result{
		Status:      domain.StatusBuilt,
		OutputFile:  req.OutputFile,
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		FrameCount:  frameCount,
		FrameWidth:  placements[0].Bounds.Dx(),
		FrameHeight: placements[0].Bounds.Dy(),
		Placements:  placements,
		Skipped:     skipped,
	}, nil
}

func (b *Builder) loadFrames(ctx context.Context, paths []string, height int) ([]frame, []domain.FrameError, error) {
	ctx, span := b.tracer.Start(ctx, "sheet.load")
	defer span.End()

	frames := make([]frame, 0, len(paths))
	var skipped []domain.FrameError
	for _, path := range paths {
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		default:
		}

		f, err := b.loadFrame(path, height)
		if err != nil {
			b.logger.Printf("frame skipped path=%s err=%v", path, err)
			b.recorder.FrameSkipped()
			skipped = append(skipped, domain.FrameError{Path: path, Err: err})
			continue
		}
		b.recorder.FrameLoaded()
		frames = append(frames, f)
	}

	span.SetAttributes(
		attribute.Int("sheet.frames_loaded", len(frames)),
		attribute.Int("sheet.frames_skipped", len(skipped)),
	)
	return frames, skipped, nil
}

func (b *Builder) loadFrame(path string, height int) (frame, error) {
	src, err := decodeFrame(path)
	if err != nil {
		return frame{}, err
	}

	srcBounds := src.Bounds()
	width := ScaledWidth(srcBounds.Dx(), srcBounds.Dy(), height)
	if width <= 0 {
		return frame{}, fmt.Errorf("%dx%d at height %d: %w", srcBounds.Dx(), srcBounds.Dy(), height, ErrZeroWidth)
	}

	resized, err := b.resampler.Resize(src, width, height)
	if err != nil {
		return frame{}, fmt.Errorf("resize to %dx%d: %w", width, height, err)
	}

	return frame{
		path:         path,
		img:          resized,
		sourceWidth:  srcBounds.Dx(),
		sourceHeight: srcBounds.Dy(),
	}, nil
}

// compose copies frames onto a transparent canvas at their layout offsets and
// drops each frame once it has been placed.
func (b *Builder) compose(ctx context.Context, frames []frame, height int) (*image.NRGBA, []Placement) {
	_, span := b.tracer.Start(ctx, "sheet.compose")
	defer span.End()

	widths := make([]int, len(frames))
	for i, f := range frames {
		widths[i] = f.img.Bounds().Dx()
	}
	rects, totalWidth := Layout(widths, height)
	span.SetAttributes(attribute.Int("sheet.width", totalWidth))

	canvas := newCanvas(totalWidth, height)
	placements := make([]Placement, len(frames))
	for i := range frames {
		f := &frames[i]
		paste(canvas, rects[i], f.img)
		placements[i] = Placement{
			Path:         f.path,
			Bounds:       rects[i],
			SourceWidth:  f.sourceWidth,
			SourceHeight: f.sourceHeight,
		}
		f.img = nil
	}
	return canvas, placements
}

// newCanvas returns a fully transparent sheet. Pixels are stored
// non-premultiplied so pasted frames keep their exact colour.
func newCanvas(width, height int) *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, width, height))
}

// paste copies src into r. NRGBA frames are copied row by row, byte for
// byte; any other model goes through draw.Src.
func paste(dst *image.NRGBA, r image.Rectangle, src image.Image) {
	s, ok := src.(*image.NRGBA)
	if !ok || s.Bounds().Size() != r.Size() {
		draw.Draw(dst, r, src, src.Bounds().Min, draw.Src)
		return
	}

	sp := s.Bounds().Min
	rowBytes := r.Dx() * 4
	for y := 0; y < r.Dy(); y++ {
		d := dst.PixOffset(r.Min.X, r.Min.Y+y)
		o := s.PixOffset(sp.X, sp.Y+y)
		copy(dst.Pix[d:d+rowBytes], s.Pix[o:o+rowBytes])
	}
}

type nopRecorder struct{}

func (nopRecorder) FrameLoaded()                             {}
func (nopRecorder) FrameSkipped()                            {}
func (nopRecorder) BuildFinished(string, int, time.Duration) {}
