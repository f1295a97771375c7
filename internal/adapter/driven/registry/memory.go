package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/diillson/campaign-analytics-go/internal/domain/entity"
	"github.com/diillson/campaign-analytics-go/internal/shared/types"
)

// MemoryRegistry keeps reports for the lifetime of the process.
type MemoryRegistry struct {
	mu      sync.RWMutex
	order   []string
	reports map[string]entity.Report
}

// NewMemoryRegistry creates an empty registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{reports: map[string]entity.Report{}}
}

func (m *MemoryRegistry) Add(_ context.Context, r entity.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.reports[r.ID]; exists {
		return fmt.Errorf("report %s already exists", r.ID)
	}
	m.reports[r.ID] = r
	m.order = append(m.order, r.ID)
	return nil
}

func (m *MemoryRegistry) List(_ context.Context) ([]entity.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]entity.Report, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.reports[id])
	}
	return out, nil
}

func (m *MemoryRegistry) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.reports[id]; !ok {
		return fmt.Errorf("%w: %s", types.ErrReportNotFound, id)
	}
	delete(m.reports, id)
	for i, x := range m.order {
		if x == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemoryRegistry) Describe(_ context.Context) (string, error) {
	return "in-memory (reports are lost on exit)", nil
}
