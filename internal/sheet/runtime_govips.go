//go:build govips && cgo

package sheet

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"sync"

	"github.com/davidbyttow/govips/v2/vips"
)

var (
	startupOnce sync.Once
	shutdownMu  sync.Mutex
	started     bool
)

func Startup() error {
	startupOnce.Do(func() {
		vips.Startup(&vips.Config{
			MaxCacheFiles: 0,
			MaxCacheMem:   64 * 1024 * 1024,
			MaxCacheSize:  100,
		})

		shutdownMu.Lock()
		started = true
		shutdownMu.Unlock()
	})
	return nil
}

func Shutdown() {
	shutdownMu.Lock()
	defer shutdownMu.Unlock()
	if !started {
		return
	}
	vips.Shutdown()
	started = false
}

func newVipsResampler() (Resampler, error) {
	return vipsResampler{}, nil
}

type vipsResampler struct{}

func (vipsResampler) Resize(src image.Image, width, height int) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("resize %dx%d: %w", width, height, ErrZeroWidth)
	}

	ref, err := vipsImage(src)
	if err != nil {
		return nil, err
	}
	defer ref.Close()

	// SizeForce ignores the source aspect ratio so the output is exact.
	if err := ref.ThumbnailWithSize(width, height, vips.InterestingNone, vips.SizeForce); err != nil {
		return nil, fmt.Errorf("vips resize: %w", err)
	}

	data, _, err := ref.ExportPng(vips.NewPngExportParams())
	if err != nil {
		return nil, fmt.Errorf("vips export png: %w", err)
	}
	out, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode vips output: %w", err)
	}
	return out, nil
}

func platformEncoder(ext string) (encodeFunc, bool) {
	if ext != ".webp" {
		return nil, false
	}
	return encodeWebp, true
}

func encodeWebp(w io.Writer, img image.Image) error {
	ref, err := vipsImage(img)
	if err != nil {
		return err
	}
	defer ref.Close()

	params := vips.NewWebpExportParams()
	params.Lossless = true
	data, _, err := ref.ExportWebp(params)
	if err != nil {
		return fmt.Errorf("encode webp: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func vipsImage(img image.Image) (*vips.ImageRef, error) {
	var buf bytes.Buffer
	encoder := png.Encoder{CompressionLevel: png.NoCompression}
	if err := encoder.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("stage image for vips: %w", err)
	}
	ref, err := vips.NewImageFromBuffer(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("load image into vips: %w", err)
	}
	return ref, nil
}
