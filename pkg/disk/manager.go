package disk

import (
	"fmt"
	"sync"

	"github.com/msarti/mandan/pkg/config"
	"github.com/msarti/mandan/util"
)

// Manager keeps one Handler per segment so every segment has a single
// writer inside the process.
type Manager struct {
	mu       sync.Mutex
	handlers map[string]*Handler
	cfg      *config.Config
}

func NewManager(cfg *config.Config) *Manager {
	return &Manager{
		handlers: make(map[string]*Handler),
		cfg:      cfg,
	}
}

func (m *Manager) identity(topic string, partition, segment uint16) SegmentIdentity {
	return NewSegmentIdentity(m.cfg.LogDir, topic, partition, segment)
}

// GetHandler returns the open handler for the segment, opening it if needed.
func (m *Manager) GetHandler(topic string, partition, segment uint16) (*Handler, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.identity(topic, partition, segment)
	key := id.String()
	if h, ok := m.handlers[key]; ok {
		return h, nil
	}

	h, err := NewHandler(m.cfg, id)
	if err != nil {
		return nil, err
	}
	m.handlers[key] = h
	return h, nil
}

// CreateSegment registers a handler for a segment that must not already hold
// data. It fails if the segment is already open in this manager.
func (m *Manager) CreateSegment(topic string, partition, segment uint16) (*Handler, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.identity(topic, partition, segment)
	key := id.String()
	if _, ok := m.handlers[key]; ok {
		return nil, fmt.Errorf("segment %s is already open", key)
	}

	h, err := CreateHandler(m.cfg, id)
	if err != nil {
		return nil, err
	}
	m.handlers[key] = h
	return h, nil
}

// CloseHandler closes and forgets a single segment handler.
func (m *Manager) CloseHandler(topic string, partition, segment uint16) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := m.identity(topic, partition, segment).String()
	h, ok := m.handlers[key]
	if !ok {
		return nil
	}
	delete(m.handlers, key)
	return h.Close()
}

// CloseAllHandlers closes every open handler.
func (m *Manager) CloseAllHandlers() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for name, h := range m.handlers {
		util.Debug("Closing segment handler for %s", name)
		if err := h.Close(); err != nil {
			util.Error("close %s: %v", name, err)
		}
		delete(m.handlers, name)
	}
}
