package disk_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/msarti/mandan/pkg/disk"
	"github.com/msarti/mandan/pkg/message"
	"github.com/msarti/mandan/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSegment(t *testing.T) (disk.SegmentIdentity, *os.File) {
	t.Helper()
	id := disk.NewSegmentIdentity(t.TempDir(), "io", 0, 0)
	require.NoError(t, id.CreateNew())
	f, err := id.Open()
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return id, f
}

func newMessage(t *testing.T, payload string) *types.Message {
	t.Helper()
	m, err := message.New([]byte(payload))
	require.NoError(t, err)
	return m
}

func TestAppendThenReadAt(t *testing.T) {
	id, f := openSegment(t)
	m := newMessage(t, "hello segment")

	offset, err := disk.Append(f, m)
	require.NoError(t, err)
	assert.Equal(t, int64(0), offset)

	r, err := id.OpenReader()
	require.NoError(t, err)
	defer r.Close()

	got, err := disk.ReadAt(r, offset)
	require.NoError(t, err)
	assert.Equal(t, m.Header, got.Header)
	assert.Equal(t, m.Payload, got.Payload)
	assert.True(t, message.Validate(got))
}

func TestSequentialAppendsIncreaseOffsets(t *testing.T) {
	id, f := openSegment(t)
	msgs := []*types.Message{
		newMessage(t, "first"),
		newMessage(t, ""),
		newMessage(t, "third with a longer payload"),
	}

	offsets := make([]int64, 0, len(msgs))
	for _, m := range msgs {
		off, err := disk.Append(f, m)
		require.NoError(t, err)
		offsets = append(offsets, off)
	}

	var want int64
	for i, m := range msgs {
		assert.Equal(t, want, offsets[i], "record %d", i)
		want += int64(message.EncodedSize(m))
	}

	r, err := id.OpenReader()
	require.NoError(t, err)
	defer r.Close()

	for i, off := range offsets {
		got, err := disk.ReadAt(r, off)
		require.NoError(t, err)
		assert.Equal(t, msgs[i].Header, got.Header)
		assert.True(t, bytes.Equal(msgs[i].Payload, got.Payload))
		assert.True(t, message.Validate(got))
	}
}

func TestAppendSeeksToEnd(t *testing.T) {
	_, f := openSegment(t)

	first, err := disk.Append(f, newMessage(t, "one"))
	require.NoError(t, err)

	_, err = f.Seek(0, io.SeekStart)
	require.NoError(t, err)

	second, err := disk.Append(f, newMessage(t, "two"))
	require.NoError(t, err)
	assert.Greater(t, second, first)
}

func TestReadAtPastEnd(t *testing.T) {
	id, f := openSegment(t)
	m := newMessage(t, "only record")
	_, err := disk.Append(f, m)
	require.NoError(t, err)

	r, err := id.OpenReader()
	require.NoError(t, err)
	defer r.Close()

	end := int64(message.EncodedSize(m))
	for _, off := range []int64{end, end + 100} {
		got, err := disk.ReadAt(r, off)
		require.Error(t, err)
		assert.Nil(t, got)
		assert.True(t, errors.Is(err, io.EOF), "offset %d: %v", off, err)

		var ioErr *types.IOError
		require.True(t, errors.As(err, &ioErr))
		assert.Equal(t, id.FilePath(), ioErr.Path)
	}
}

func TestReadAtTornRecord(t *testing.T) {
	id, f := openSegment(t)
	m := newMessage(t, "torn write")
	_, err := disk.Append(f, m)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(int64(message.EncodedSize(m)-3)))

	r, err := id.OpenReader()
	require.NoError(t, err)
	defer r.Close()

	got, err := disk.ReadAt(r, 0)
	assert.Nil(t, got)
	assert.True(t, errors.Is(err, types.ErrTruncatedRecord), "got %v", err)
}

func TestFlippedPayloadByteFailsValidateOnly(t *testing.T) {
	id, f := openSegment(t)
	m := newMessage(t, "do not tamper")
	offset, err := disk.Append(f, m)
	require.NoError(t, err)

	pos := offset + types.HeaderSize + 2
	b := make([]byte, 1)
	_, err = f.ReadAt(b, pos)
	require.NoError(t, err)
	b[0] ^= 0x01
	_, err = f.WriteAt(b, pos)
	require.NoError(t, err)

	r, err := id.OpenReader()
	require.NoError(t, err)
	defer r.Close()

	got, err := disk.ReadAt(r, offset)
	require.NoError(t, err)
	assert.Equal(t, m.Header.Size, got.Header.Size)
	assert.False(t, message.Validate(got))
	assert.True(t, errors.Is(message.Verify(got), types.ErrIntegrityCheckFailed))
}

type failingWriter struct{}

func (w *failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func (w *failingWriter) Seek(offset int64, whence int) (int64, error) {
	return 0, nil
}

func TestAppendPropagatesFlushError(t *testing.T) {
	_, err := disk.Append(&failingWriter{}, newMessage(t, "lost"))
	require.Error(t, err)

	var ioErr *types.IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "flush", ioErr.Op)
}
