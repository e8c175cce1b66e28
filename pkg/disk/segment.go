package disk

import (
	"fmt"
	"os"

	"github.com/msarti/mandan/pkg/types"
	"github.com/msarti/mandan/util"
)

// SegmentIdentity names exactly one log file:
// {BasePath}/{Topic}/{Partition:08d}/{Segment:08d}.log
type SegmentIdentity struct {
	BasePath  string
	Topic     string
	Partition uint16
	Segment   uint16
}

// NewSegmentIdentity falls back to types.DefaultBasePath when basePath is empty.
func NewSegmentIdentity(basePath, topic string, partition, segment uint16) SegmentIdentity {
	if basePath == "" {
		basePath = types.DefaultBasePath
	}
	return SegmentIdentity{
		BasePath:  basePath,
		Topic:     topic,
		Partition: partition,
		Segment:   segment,
	}
}

func (id SegmentIdentity) String() string {
	return fmt.Sprintf("%s/%08d/%08d", id.Topic, id.Partition, id.Segment)
}

func (id SegmentIdentity) DirectoryPath() string {
	return fmt.Sprintf("%s/%s/%08d", id.BasePath, id.Topic, id.Partition)
}

func (id SegmentIdentity) FilePath() string {
	return fmt.Sprintf("%s/%08d.log", id.DirectoryPath(), id.Segment)
}

// CreateNew makes the partition directory and fails with
// types.ErrSegmentAlreadyExists if the segment file already holds data.
// An existing empty file is accepted. The check is not atomic; callers that
// may race another creator must hold their own lock.
func (id SegmentIdentity) CreateNew() error {
	dir := id.DirectoryPath()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return types.NewIOError("mkdir", dir, err)
	}

	path := id.FilePath()
	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		util.Debug("segment %s: new at %s", id, path)
		return nil
	case err != nil:
		return types.NewIOError("stat", path, err)
	case info.Size() > 0:
		return fmt.Errorf("%w: %s (%d bytes)", types.ErrSegmentAlreadyExists, path, info.Size())
	}
	return nil
}

// Open returns a read-write handle, creating the directory and file when
// missing. It performs no overwrite check; see CreateNew.
func (id SegmentIdentity) Open() (*os.File, error) {
	dir := id.DirectoryPath()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, types.NewIOError("mkdir", dir, err)
	}
	return openSegmentFile(id.FilePath(), os.O_CREATE|os.O_RDWR)
}

// OpenReader returns a read-only handle with its own file position.
func (id SegmentIdentity) OpenReader() (*os.File, error) {
	return openSegmentFile(id.FilePath(), os.O_RDONLY)
}

// Exists reports whether the segment file is present on disk.
func (id SegmentIdentity) Exists() bool {
	_, err := os.Stat(id.FilePath())
	return err == nil
}
