package domain

import (
	"errors"
	"fmt"
	"strings"
)

const (
	StatusBuilt  = "built"
	StatusEmpty  = "empty"
	StatusFailed = "failed"

	DefaultTargetHeight = 64
	FrameExtension      = ".png"
)

var ErrInvalidRequest = errors.New("invalid build request")

type BuildRequest struct {
	SourceDir    string
	OutputFile   string
	TargetHeight int
}

func (r BuildRequest) Validate() error {
	if strings.TrimSpace(r.SourceDir) == "" {
		return fmt.Errorf("%w: source directory is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(r.OutputFile) == "" {
		return fmt.Errorf("%w: output file is required", ErrInvalidRequest)
	}
	if r.TargetHeight <= 0 {
		return fmt.Errorf("%w: target height must be > 0, got %d", ErrInvalidRequest, r.TargetHeight)
	}
	return nil
}

// FrameError records a source file that was left out of the sheet.
type FrameError struct {
	Path string
	Err  error
}

func (e FrameError) Error() string {
	return fmt.Sprintf("frame %s: %v", e.Path, e.Err)
}

func (e FrameError) Unwrap() error {
	return e.Err
}
