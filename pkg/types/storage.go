package types

// SegmentHandler is the single-writer view of one open segment file.
type SegmentHandler interface {
	Append(msg *Message) (int64, error)
	ReadAt(offset int64) (*Message, error)
	Size() (int64, error)
	Path() string

	Sync() error
	Close() error
}
