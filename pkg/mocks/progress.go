package mocks

import (
	"sync"

	"github.com/user/timelapse/pkg/ports"
)

// ProgressObserver records every notification it receives.
type ProgressObserver struct {
	mu sync.Mutex

	FileStarts []FileStart
	Percents   []float64
}

// FileStart records a call to OnFileStart.
type FileStart struct {
	Index int
	Total int
	Name  string
}

func (m *ProgressObserver) OnFileStart(index, total int, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FileStarts = append(m.FileStarts, FileStart{Index: index, Total: total, Name: name})
}

func (m *ProgressObserver) OnProgress(percent float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Percents = append(m.Percents, percent)
}

var _ ports.ProgressObserver = (*ProgressObserver)(nil)
