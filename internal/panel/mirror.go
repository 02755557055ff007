package panel

import (
	"sync"

	"github.com/tinytelemetry/dronepanel/internal/model"
)

// Mirror publishes presenter snapshots to readers on other goroutines.
type Mirror struct {
	mu   sync.RWMutex
	snap model.Snapshot
}

// NewMirror returns a mirror holding an empty snapshot.
func NewMirror() *Mirror {
	return &Mirror{}
}

// Publish replaces the current snapshot.
func (m *Mirror) Publish(s model.Snapshot) {
	m.mu.Lock()
	m.snap = s
	m.mu.Unlock()
}

// Snapshot returns the last published snapshot.
func (m *Mirror) Snapshot() model.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap
}
