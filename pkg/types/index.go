package types

const (
	IndexRecordSize = 16 // id(8) + pos(8)
)

// IndexRecord maps a message id to the byte offset of its record.
// Reserved for an offset index; nothing in this module writes or reads it.
type IndexRecord struct {
	ID  uint64
	Pos uint64
}
