// Package session owns the state of the single interactive dashboard
// session: the loaded dataset and its chart configurations.
package session

import (
	"errors"
	"sync"

	"github.com/KaramelBytes/insights-cli/internal/charts"
	"github.com/KaramelBytes/insights-cli/internal/dataset"
)

// ErrNoDataset is returned by operations that need an uploaded dataset.
var ErrNoDataset = errors.New("no dataset uploaded")

// Workspace holds the current dataset and chart store. It is safe for
// concurrent use.
type Workspace struct {
	mu    sync.RWMutex
	frame *dataset.Frame
	store *charts.Store
}

func NewWorkspace() *Workspace {
	return &Workspace{store: charts.NewStore()}
}

// Load replaces the dataset and clears all chart configs.
func (w *Workspace) Load(f *dataset.Frame) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.frame = f
	w.store.Reset()
}

// Frame returns the current dataset.
func (w *Workspace) Frame() (*dataset.Frame, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.frame == nil {
		return nil, ErrNoDataset
	}
	return w.frame, nil
}

// AddChart appends a default chart config and returns its index.
func (w *Workspace) AddChart() (int, charts.Config, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.frame == nil {
		return 0, charts.Config{}, ErrNoDataset
	}
	cfg := w.store.Add(w.frame)
	return w.store.Len() - 1, cfg, nil
}

// SetChart changes one field of chart index.
func (w *Workspace) SetChart(index int, field charts.Field, value string) (charts.Config, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.frame == nil {
		return charts.Config{}, ErrNoDataset
	}
	return w.store.Set(w.frame, index, field, value)
}

// SetChartFields applies several field edits to chart index and validates
// the result once, so a form post is all-or-nothing.
func (w *Workspace) SetChartFields(index int, values map[charts.Field]string) (charts.Config, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.frame == nil {
		return charts.Config{}, ErrNoDataset
	}
	cfg, err := w.store.Get(index)
	if err != nil {
		return charts.Config{}, err
	}
	for _, field := range charts.Fields {
		v, ok := values[field]
		if !ok {
			continue
		}
		if err := charts.ApplyField(&cfg, field, v); err != nil {
			return charts.Config{}, &charts.ValidationError{Errors: map[string]string{string(field): err.Error()}}
		}
	}
	return w.store.Update(w.frame, index, cfg)
}

// UpdateChart replaces chart index.
func (w *Workspace) UpdateChart(index int, cfg charts.Config) (charts.Config, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.frame == nil {
		return charts.Config{}, ErrNoDataset
	}
	return w.store.Update(w.frame, index, cfg)
}

// ApplyLayout appends every chart of l.
func (w *Workspace) ApplyLayout(l *charts.Layout) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.frame == nil {
		return ErrNoDataset
	}
	return l.Apply(w.frame, w.store)
}

// Charts returns the dataset together with a snapshot of its chart configs,
// so rendering can proceed without holding the lock.
func (w *Workspace) Charts() (*dataset.Frame, []charts.Config, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.frame == nil {
		return nil, nil, ErrNoDataset
	}
	return w.frame, w.store.List(), nil
}
