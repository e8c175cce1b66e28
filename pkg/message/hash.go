package message

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/msarti/mandan/pkg/types"
)

// ComputeHash returns the xxHash64 (seed 0) of the little-endian signature,
// the little-endian timestamp and the payload, in that order.
func ComputeHash(signature uint16, timestamp uint64, payload []byte) uint64 {
	var prefix [10]byte
	binary.LittleEndian.PutUint16(prefix[0:2], signature)
	binary.LittleEndian.PutUint64(prefix[2:10], timestamp)

	d := xxhash.New()
	_, _ = d.Write(prefix[:])
	_, _ = d.Write(payload)
	return d.Sum64()
}

// Validate reports whether m carries the magic signature, a size matching its
// payload and a hash matching its content.
func Validate(m *types.Message) bool {
	return Verify(m) == nil
}

// Verify is Validate with the failing field reported as an error wrapping
// types.ErrIntegrityCheckFailed.
func Verify(m *types.Message) error {
	if m == nil {
		return fmt.Errorf("%w: nil message", types.ErrIntegrityCheckFailed)
	}
	h := m.Header
	if h.Signature != types.Magic {
		return fmt.Errorf("%w: bad signature 0x%04X", types.ErrIntegrityCheckFailed, h.Signature)
	}
	if int(h.Size) != len(m.Payload) {
		return fmt.Errorf("%w: size %d, payload %d bytes", types.ErrIntegrityCheckFailed, h.Size, len(m.Payload))
	}
	if sum := ComputeHash(h.Signature, h.Timestamp, m.Payload); sum != h.Hash {
		return fmt.Errorf("%w: hash mismatch (stored %016x, computed %016x)", types.ErrIntegrityCheckFailed, h.Hash, sum)
	}
	return nil
}
