// Package metrics collects system readings for widgets to bind against.
// Providers are polled on the engine's coarse tick and publish samples
// under dotted names ("cpu.percent", "net.down"); the registry keeps
// the latest snapshot.
package metrics

import (
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Sample is one polled reading. Numeric metrics carry Value with Text
// as the display form; string metrics carry Text alone.
type Sample struct {
	Value   float64
	Text    string
	Numeric bool
	At      time.Time
}

// Number builds a numeric sample with its display form.
func Number(value float64, text string) Sample {
	return Sample{Value: value, Text: text, Numeric: true, At: time.Now()}
}

// Text builds a string-only sample.
func Text(text string) Sample {
	return Sample{Text: text, At: time.Now()}
}

// Provider supplies a family of metrics under dotted names.
type Provider interface {
	Name() string
	Collect() (map[string]Sample, error)
}

// Registry aggregates providers and keeps the most recent sample per
// metric. A provider that fails a poll keeps its previous samples; the
// failure is logged, not propagated.
type Registry struct {
	mu        sync.RWMutex
	logger    *slog.Logger
	providers []Provider
	samples   map[string]Sample
}

// NewRegistry creates an empty registry. A nil logger falls back to
// slog.Default.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		logger:  logger,
		samples: make(map[string]Sample),
	}
}

// Register adds a provider. Registration order is poll order.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers = append(r.providers, p)
}

// Poll collects from every provider and merges the results into the
// snapshot.
func (r *Registry) Poll() {
	r.mu.RLock()
	providers := make([]Provider, len(r.providers))
	copy(providers, r.providers)
	r.mu.RUnlock()

	for _, p := range providers {
		samples, err := p.Collect()
		if err != nil {
			r.logger.Warn("metric poll failed", "provider", p.Name(), "error", err)
			continue
		}
		r.mu.Lock()
		for name, s := range samples {
			r.samples[name] = s
		}
		r.mu.Unlock()
	}
}

// Get returns the latest sample for a metric name.
func (r *Registry) Get(name string) (Sample, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.samples[name]
	return s, ok
}

// Value returns the numeric value for a metric, 0 when absent or
// non-numeric.
func (r *Registry) Value(name string) float64 {
	s, ok := r.Get(name)
	if !ok || !s.Numeric {
		return 0
	}
	return s.Value
}

// Display returns the text form for a metric, empty when absent.
func (r *Registry) Display(name string) string {
	s, _ := r.Get(name)
	return s.Text
}

// Snapshot copies the current samples.
func (r *Registry) Snapshot() map[string]Sample {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Sample, len(r.samples))
	for name, s := range r.samples {
		out[name] = s
	}
	return out
}

// Names lists the known metric names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.samples))
	for name := range r.samples {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
