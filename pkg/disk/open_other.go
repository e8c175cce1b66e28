//go:build !linux
// +build !linux

package disk

import (
	"os"

	"github.com/msarti/mandan/pkg/types"
)

func openSegmentFile(path string, flags int) (*os.File, error) {
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, types.NewIOError("open", path, err)
	}
	return f, nil
}
