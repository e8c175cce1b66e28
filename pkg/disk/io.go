package disk

import (
	"bufio"
	"errors"
	"io"

	"github.com/msarti/mandan/pkg/message"
	"github.com/msarti/mandan/pkg/types"
)

// Append seeks to the end of f, writes msg and flushes, returning the byte
// offset at which the record starts.
//
// Append is not safe for concurrent use on the same file: the seek and the
// write are separate steps. Serialize callers, e.g. through a Handler.
func Append(f io.WriteSeeker, msg *types.Message) (int64, error) {
	name := fileName(f)

	offset, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, types.NewIOError("seek", name, err)
	}

	w := bufio.NewWriterSize(f, min(message.EncodedSize(msg), 64*1024))
	if _, err := message.EncodeTo(w, msg); err != nil {
		return 0, types.NewIOError("write", name, err)
	}
	if err := w.Flush(); err != nil {
		return 0, types.NewIOError("flush", name, err)
	}
	return offset, nil
}

// ReadAt seeks f to offset and decodes one record. Running out of data
// before the header yields an IOError wrapping io.EOF; running out inside
// the record yields types.ErrTruncatedRecord.
func ReadAt(f io.ReadSeeker, offset int64) (*types.Message, error) {
	name := fileName(f)

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return nil, types.NewIOError("seek", name, err)
	}

	msg, err := message.ReadFrom(f)
	if err != nil {
		return nil, withPath(err, name)
	}
	return msg, nil
}

func fileName(v any) string {
	if n, ok := v.(interface{ Name() string }); ok {
		return n.Name()
	}
	return ""
}

func withPath(err error, path string) error {
	var ioErr *types.IOError
	if path != "" && errors.As(err, &ioErr) && ioErr.Path == "" {
		ioErr.Path = path
	}
	return err
}
