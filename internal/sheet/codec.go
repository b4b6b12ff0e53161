package sheet

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var ErrUnsupportedFormat = errors.New("unsupported output format")

type encodeFunc func(w io.Writer, img image.Image) error

// encoderFor picks the encoder from the output file extension.
func encoderFor(path string) (encodeFunc, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".png":
		return encodePNG, nil
	case ".jpg", ".jpeg":
		return encodeJPEG, nil
	case ".bmp":
		return bmp.Encode, nil
	case ".tif", ".tiff":
		return encodeTIFF, nil
	}
	if enc, ok := platformEncoder(ext); ok {
		return enc, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

func encodePNG(w io.Writer, img image.Image) error {
	encoder := png.Encoder{CompressionLevel: png.DefaultCompression}
	if err := encoder.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func encodeJPEG(w io.Writer, img image.Image) error {
	if err := jpeg.Encode(w, img, &jpeg.Options{Quality: 90}); err != nil {
		return fmt.Errorf("encode jpeg: %w", err)
	}
	return nil
}

func encodeTIFF(w io.Writer, img image.Image) error {
	if err := tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate}); err != nil {
		return fmt.Errorf("encode tiff: %w", err)
	}
	return nil
}

// decodeFrame reads one source image. The file is closed before returning.
func decodeFrame(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// writeSheet encodes img next to path and renames it into place, so a
// failed encode leaves any previous file at path untouched. An existing file
// keeps its permissions; a new one is created 0o666 minus the umask.
func writeSheet(path string, img image.Image, enc encodeFunc) (err error) {
	tmp, err := createTemp(filepath.Dir(path), filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("create output file %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	if err = enc(w, img); err != nil {
		return fmt.Errorf("write output file %s: %w", path, err)
	}
	if err = w.Flush(); err != nil {
		return fmt.Errorf("write output file %s: %w", path, err)
	}
	if info, statErr := os.Stat(path); statErr == nil && info.Mode().IsRegular() {
		if err = tmp.Chmod(info.Mode().Perm()); err != nil {
			return fmt.Errorf("chmod output file %s: %w", path, err)
		}
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close output file %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename output file %s: %w", path, err)
	}
	return nil
}

// createTemp opens a fresh hidden file in dir. Unlike os.CreateTemp it asks
// for 0o666, so the process umask decides the final mode.
func createTemp(dir, ext string) (*os.File, error) {
	var err error
	for i := 0; i < 10; i++ {
		name := filepath.Join(dir, fmt.Sprintf(".spritesheet-%d-%d%s", os.Getpid(), time.Now().UnixNano()+int64(i), ext))
		var f *os.File
		f, err = os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o666)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, err
		}
	}
	return nil, err
}
