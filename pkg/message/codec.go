package message

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/msarti/mandan/pkg/types"
)

// payloads above this size are read incrementally instead of preallocated
const maxPreallocPayload = 1 << 20

// EncodedSize returns the number of bytes Encode produces for m.
func EncodedSize(m *types.Message) int {
	return types.HeaderSize + len(m.Payload)
}

// Encode serializes m as
// [signature(2)][hash(8)][timestamp(8)][size(4)][payload], little-endian.
func Encode(m *types.Message) []byte {
	buf := make([]byte, EncodedSize(m))
	putHeader(buf[:types.HeaderSize], m.Header)
	copy(buf[types.HeaderSize:], m.Payload)
	return buf
}

// EncodeTo writes the header followed by the payload to w.
func EncodeTo(w io.Writer, m *types.Message) (int, error) {
	var hdr [types.HeaderSize]byte
	putHeader(hdr[:], m.Header)

	n, err := w.Write(hdr[:])
	if err != nil {
		return n, fmt.Errorf("write header: %w", err)
	}
	pn, err := w.Write(m.Payload)
	n += pn
	if err != nil {
		return n, fmt.Errorf("write payload: %w", err)
	}
	return n, nil
}

func putHeader(b []byte, h types.Header) {
	offset := 0
	binary.LittleEndian.PutUint16(b[offset:], h.Signature)
	offset += 2
	binary.LittleEndian.PutUint64(b[offset:], h.Hash)
	offset += 8
	binary.LittleEndian.PutUint64(b[offset:], h.Timestamp)
	offset += 8
	binary.LittleEndian.PutUint32(b[offset:], h.Size)
}

// DecodeHeader parses the fixed header from the first HeaderSize bytes of b.
func DecodeHeader(b []byte) (types.Header, error) {
	if len(b) < types.HeaderSize {
		return types.Header{}, fmt.Errorf("%w: header needs %d bytes, got %d", types.ErrTruncatedRecord, types.HeaderSize, len(b))
	}

	var h types.Header
	offset := 0
	h.Signature = binary.LittleEndian.Uint16(b[offset:])
	offset += 2
	h.Hash = binary.LittleEndian.Uint64(b[offset:])
	offset += 8
	h.Timestamp = binary.LittleEndian.Uint64(b[offset:])
	offset += 8
	h.Size = binary.LittleEndian.Uint32(b[offset:])
	return h, nil
}

// Decode reads the record starting at offset. It only checks that enough
// bytes are present; the hash is left to Validate.
func Decode(r io.ReaderAt, offset int64) (*types.Message, error) {
	var hdr [types.HeaderSize]byte
	n, err := r.ReadAt(hdr[:], offset)
	if n < types.HeaderSize {
		switch {
		case n == 0 && errors.Is(err, io.EOF):
			return nil, types.NewIOError("decode", "", io.EOF)
		case err == nil || errors.Is(err, io.EOF):
			return nil, fmt.Errorf("%w: header at offset %d has %d of %d bytes", types.ErrTruncatedRecord, offset, n, types.HeaderSize)
		default:
			return nil, types.NewIOError("decode", "", err)
		}
	}

	h, err := DecodeHeader(hdr[:])
	if err != nil {
		return nil, err
	}

	start := offset + types.HeaderSize
	limit, ok := readerLen(r)
	if !ok {
		// unknown length: grow incrementally so a forged size cannot force a
		// large allocation
		payload, err := readPayload(io.NewSectionReader(r, start, int64(h.Size)), int64(h.Size))
		if err != nil {
			return nil, err
		}
		return &types.Message{Header: h, Payload: payload}, nil
	}
	if start+int64(h.Size) > limit {
		return nil, fmt.Errorf("%w: payload at offset %d declares %d bytes, %d available",
			types.ErrTruncatedRecord, start, h.Size, max(limit-start, 0))
	}

	payload := make([]byte, h.Size)
	if h.Size > 0 {
		n, err = r.ReadAt(payload, start)
		if n < len(payload) {
			if err == nil || errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("%w: payload at offset %d has %d of %d bytes", types.ErrTruncatedRecord, start, n, h.Size)
			}
			return nil, types.NewIOError("decode", "", err)
		}
	}

	return &types.Message{Header: h, Payload: payload}, nil
}

// ReadFrom decodes the next record from a stream. A stream that ends before
// the first header byte returns an IOError wrapping io.EOF.
func ReadFrom(r io.Reader) (*types.Message, error) {
	var hdr [types.HeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		switch {
		case errors.Is(err, io.EOF):
			return nil, types.NewIOError("read header", "", err)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return nil, fmt.Errorf("%w: short header: %w", types.ErrTruncatedRecord, err)
		default:
			return nil, types.NewIOError("read header", "", err)
		}
	}

	h, err := DecodeHeader(hdr[:])
	if err != nil {
		return nil, err
	}

	payload, err := readPayload(r, int64(h.Size))
	if err != nil {
		return nil, err
	}
	return &types.Message{Header: h, Payload: payload}, nil
}

func readPayload(r io.Reader, size int64) ([]byte, error) {
	if size <= maxPreallocPayload {
		payload := make([]byte, size)
		if _, err := io.ReadFull(r, payload); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, fmt.Errorf("%w: payload declares %d bytes: %w", types.ErrTruncatedRecord, size, io.ErrUnexpectedEOF)
			}
			return nil, types.NewIOError("read payload", "", err)
		}
		return payload, nil
	}

	var buf bytes.Buffer
	buf.Grow(maxPreallocPayload)
	n, err := io.CopyN(&buf, r, size)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: payload has %d of %d bytes: %w", types.ErrTruncatedRecord, n, size, io.ErrUnexpectedEOF)
		}
		return nil, types.NewIOError("read payload", "", err)
	}
	return buf.Bytes(), nil
}

// readerLen reports the total length of r when r exposes it.
func readerLen(r io.ReaderAt) (int64, bool) {
	switch v := r.(type) {
	case interface{ Size() int64 }:
		return v.Size(), true
	case interface{ Len() int }:
		return int64(v.Len()), true
	}
	return 0, false
}
