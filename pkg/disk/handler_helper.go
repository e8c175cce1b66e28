package disk

import (
	"github.com/msarti/mandan/pkg/metrics"
	"github.com/msarti/mandan/pkg/types"
	"github.com/msarti/mandan/util"
)

// Close flushes the segment to disk and releases the file and the read map.
func (h *Handler) Close() error {
	var err error
	h.closeOnce.Do(func() {
		h.mu.Lock()
		h.closed = true
		if h.file != nil {
			if syncErr := h.file.Sync(); syncErr != nil {
				util.Error("sync error on close %s: %v", h.ID, syncErr)
				err = types.NewIOError("sync", h.file.Name(), syncErr)
			}
			if closeErr := h.file.Close(); closeErr != nil {
				util.Error("file close error %s: %v", h.ID, closeErr)
				if err == nil {
					err = types.NewIOError("close", h.file.Name(), closeErr)
				}
			}
		}
		h.mu.Unlock()

		h.mapMu.Lock()
		if h.mapper != nil {
			if mapErr := h.mapper.Close(); mapErr != nil {
				util.Error("failed to close mapper for %s: %v", h.ID, mapErr)
			}
			h.mapper = nil
		}
		h.mapMu.Unlock()

		metrics.OpenSegments.Dec()
		util.Debug("segment %s: handler closed", h.ID)
	})
	return err
}

var _ types.SegmentHandler = (*Handler)(nil)
