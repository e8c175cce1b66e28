// Package message builds, frames and checks the records stored in a log
// segment.
package message

import (
	"fmt"
	"math"
	"time"

	"github.com/msarti/mandan/pkg/types"
)

// New builds a message stamped with the current wall-clock time.
func New(payload []byte) (*types.Message, error) {
	return NewWithClock(payload, time.Now)
}

// NewWithClock builds a message stamped by clock. A clock reading before the
// unix epoch yields types.ErrClock.
func NewWithClock(payload []byte, clock func() time.Time) (*types.Message, error) {
	now := clock()
	if now.Unix() < 0 {
		return nil, fmt.Errorf("%w: %s", types.ErrClock, now.UTC().Format(time.RFC3339))
	}
	return NewAt(payload, uint64(now.Unix()))
}

// NewAt builds a message with an explicit timestamp in unix seconds.
func NewAt(payload []byte, timestamp uint64) (*types.Message, error) {
	if uint64(len(payload)) > math.MaxUint32 {
		return nil, fmt.Errorf("payload too large: %d bytes", len(payload))
	}

	data := make([]byte, len(payload))
	copy(data, payload)

	return &types.Message{
		Header: types.Header{
			Signature: types.Magic,
			Hash:      ComputeHash(types.Magic, timestamp, data),
			Timestamp: timestamp,
			Size:      uint32(len(data)),
		},
		Payload: data,
	}, nil
}

// Clone returns a deep copy of m.
func Clone(m *types.Message) *types.Message {
	data := make([]byte, len(m.Payload))
	copy(data, m.Payload)
	return &types.Message{Header: m.Header, Payload: data}
}
