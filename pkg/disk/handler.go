package disk

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/msarti/mandan/pkg/config"
	"github.com/msarti/mandan/pkg/message"
	"github.com/msarti/mandan/pkg/metrics"
	"github.com/msarti/mandan/pkg/types"
	"github.com/msarti/mandan/util"
	"golang.org/x/exp/mmap"
)

var ErrHandlerClosed = errors.New("segment handler closed")

// Handler is the single owner of one segment file. Appends are serialized
// under mu; reads go through a shared read-only memory map and never touch
// the writer's file position.
type Handler struct {
	ID           SegmentIdentity
	syncOnAppend bool

	mu     sync.Mutex // file, appends
	file   *os.File
	closed bool

	mapMu  sync.RWMutex // mapper
	mapper *mmap.ReaderAt
	stale  atomic.Bool

	closeOnce sync.Once
}

// NewHandler opens (or creates) the segment without the overwrite guard, to
// continue appending to an existing segment.
func NewHandler(cfg *config.Config, id SegmentIdentity) (*Handler, error) {
	file, err := id.Open()
	if err != nil {
		return nil, err
	}

	h := &Handler{
		ID:           id,
		syncOnAppend: cfg.SyncOnAppend,
		file:         file,
	}
	h.stale.Store(true)

	metrics.OpenSegments.Inc()
	util.Debug("segment %s: handler opened at %s", id, id.FilePath())
	return h, nil
}

// CreateHandler runs the CreateNew guard before opening the segment.
func CreateHandler(cfg *config.Config, id SegmentIdentity) (*Handler, error) {
	if err := id.CreateNew(); err != nil {
		return nil, err
	}
	return NewHandler(cfg, id)
}

// Append writes msg at the end of the segment and returns its offset.
func (h *Handler) Append(msg *types.Message) (int64, error) {
	start := time.Now()

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return 0, ErrHandlerClosed
	}

	offset, err := Append(h.file, msg)
	if err != nil {
		metrics.ObserveError(h.ID.Topic, "append")
		return 0, err
	}
	h.stale.Store(true)

	if h.syncOnAppend {
		if err := h.file.Sync(); err != nil {
			metrics.ObserveError(h.ID.Topic, "sync")
			return 0, types.NewIOError("sync", h.file.Name(), err)
		}
	}

	metrics.ObserveAppend(h.ID.Topic, message.EncodedSize(msg), time.Since(start).Seconds())
	return offset, nil
}

// ReadAt decodes the record at offset. Safe for concurrent use.
func (h *Handler) ReadAt(offset int64) (*types.Message, error) {
	if offset < 0 {
		return nil, types.NewIOError("read", h.Path(), fmt.Errorf("negative offset %d", offset))
	}
	if h.stale.Load() {
		if err := h.refreshMapper(); err != nil {
			metrics.ObserveError(h.ID.Topic, "read")
			return nil, err
		}
	}

	h.mapMu.RLock()
	defer h.mapMu.RUnlock()

	if h.mapper == nil || offset >= int64(h.mapper.Len()) {
		if h.isClosed() {
			return nil, ErrHandlerClosed
		}
		metrics.ObserveError(h.ID.Topic, "read")
		return nil, types.NewIOError("read", h.ID.FilePath(), io.EOF)
	}

	msg, err := message.Decode(h.mapper, offset)
	if err != nil {
		metrics.ObserveError(h.ID.Topic, "read")
		return nil, withPath(err, h.ID.FilePath())
	}
	metrics.ObserveRead(h.ID.Topic)
	return msg, nil
}

// ReadValidated is ReadAt followed by message.Verify.
func (h *Handler) ReadValidated(offset int64) (*types.Message, error) {
	msg, err := h.ReadAt(offset)
	if err != nil {
		return nil, err
	}
	if err := message.Verify(msg); err != nil {
		metrics.ObserveIntegrityFailure(h.ID.Topic)
		return nil, fmt.Errorf("segment %s offset %d: %w", h.ID, offset, err)
	}
	return msg, nil
}

// refreshMapper remaps the segment so reads observe completed appends.
func (h *Handler) refreshMapper() error {
	h.mapMu.Lock()
	defer h.mapMu.Unlock()

	if !h.stale.Load() {
		return nil
	}
	if h.isClosed() {
		return ErrHandlerClosed
	}
	// cleared before mapping so an append racing with the remap marks it
	// stale again
	h.stale.Store(false)

	if h.mapper != nil {
		if err := h.mapper.Close(); err != nil {
			util.Error("failed to close mapper for %s: %v", h.ID, err)
		}
		h.mapper = nil
	}

	path := h.ID.FilePath()
	info, err := os.Stat(path)
	if err != nil {
		h.stale.Store(true)
		return types.NewIOError("stat", path, err)
	}
	if info.Size() == 0 {
		return nil
	}

	mapper, err := mmap.Open(path)
	if err != nil {
		h.stale.Store(true)
		return types.NewIOError("mmap", path, err)
	}
	h.mapper = mapper
	return nil
}

func (h *Handler) isClosed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

func (h *Handler) Path() string {
	return h.ID.FilePath()
}

// Size returns the current length of the segment file in bytes.
func (h *Handler) Size() (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return 0, ErrHandlerClosed
	}
	info, err := h.file.Stat()
	if err != nil {
		return 0, types.NewIOError("stat", h.file.Name(), err)
	}
	return info.Size(), nil
}

// Sync commits the segment to stable storage.
func (h *Handler) Sync() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHandlerClosed
	}
	return types.NewIOError("sync", h.file.Name(), h.file.Sync())
}
