//go:build !govips || !cgo

package sheet

import "fmt"

func Startup() error {
	return nil
}

func Shutdown() {}

func newVipsResampler() (Resampler, error) {
	return nil, fmt.Errorf("%w: %s requires the govips build tag", ErrFilterUnavailable, FilterVips)
}

func platformEncoder(string) (encodeFunc, bool) {
	return nil, false
}
