package types

const (
	// Magic marks the start of a structurally valid record header.
	Magic uint16 = 0xAFAF

	// HeaderSize is signature(2) + hash(8) + timestamp(8) + size(4).
	HeaderSize = 22

	// DefaultBasePath is used when a segment identity has no base path.
	DefaultBasePath = "/tmp"
)

// Header is the fixed-size prefix written in front of every payload.
type Header struct {
	Signature uint16
	Hash      uint64
	Timestamp uint64 // unix seconds
	Size      uint32
}

// Message is a single log record. Treat it as read-only once built; every
// decode produces a new instance with its own payload slice.
type Message struct {
	Header  Header
	Payload []byte
}

func (m *Message) String() string {
	return string(m.Payload)
}
