package sheet

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
)

const (
	FilterLanczos3   = "lanczos3"
	FilterCatmullRom = "catmullrom"
	FilterBilinear   = "bilinear"
	FilterVips       = "vips"
)

var (
	ErrUnknownFilter     = errors.New("unknown resampling filter")
	ErrFilterUnavailable = errors.New("resampling filter unavailable in this build")
)

// Resampler scales a decoded frame to exactly width x height.
type Resampler interface {
	Resize(src image.Image, width, height int) (image.Image, error)
}

// ParseFilter maps a filter name to its Resampler. An empty name selects
// Lanczos3.
func ParseFilter(name string) (Resampler, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", FilterLanczos3:
		return lanczosResampler{}, nil
	case FilterCatmullRom:
		return scalerResampler{scaler: draw.CatmullRom}, nil
	case FilterBilinear:
		return scalerResampler{scaler: draw.ApproxBiLinear}, nil
	case FilterVips:
		return newVipsResampler()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFilter, name)
	}
}

type lanczosResampler struct{}

func (lanczosResampler) Resize(src image.Image, width, height int) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("resize %dx%d: %w", width, height, ErrZeroWidth)
	}
	return resize.Resize(uint(width), uint(height), src, resize.Lanczos3), nil
}

type scalerResampler struct {
	scaler draw.Scaler
}

func (r scalerResampler) Resize(src image.Image, width, height int) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("resize %dx%d: %w", width, height, ErrZeroWidth)
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	r.scaler.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}
