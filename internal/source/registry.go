// Package source holds the set of known video sources and their runtime
// enabled/disabled state.
package source

import (
	"errors"
	"sort"
	"sync"

	"github.com/Mentallyspammed1/neonsearch/internal/models"
)

// SelectionAll is the sentinel selection meaning "every enabled source".
const SelectionAll = "all"

// ErrUnknownSource is returned when a slug does not name a registered source.
var ErrUnknownSource = errors.New("unknown source")

// Descriptor describes one registered source.
type Descriptor struct {
	Slug       string
	DriverName string
	Enabled    bool
}

// Registry is the single process-wide holder of source state. Descriptors
// are registered once at startup and only their enabled flag mutates
// afterwards. All access is serialized through one lock.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	sources map[string]*Descriptor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sources: make(map[string]*Descriptor)}
}

// Register adds a source. Registering an existing slug replaces its
// descriptor but keeps its position in the registration order.
func (r *Registry) Register(slug, driverName string, enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sources[slug]; !ok {
		r.order = append(r.order, slug)
	}
	r.sources[slug] = &Descriptor{Slug: slug, DriverName: driverName, Enabled: enabled}
}

// List returns descriptor copies in registration order.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Descriptor, 0, len(r.order))
	for _, slug := range r.order {
		out = append(out, *r.sources[slug])
	}
	return out
}

// Infos returns the sources in registration order, shaped for the API.
func (r *Registry) Infos() []models.SourceInfo {
	descs := r.List()
	out := make([]models.SourceInfo, 0, len(descs))
	for _, d := range descs {
		out = append(out, models.SourceInfo{Name: d.Slug, Enabled: d.Enabled, DriverName: d.DriverName})
	}
	return out
}

// Resolve maps a requested selection to the sorted set of enabled slugs it
// names. An empty selection or one containing the "all" sentinel resolves to
// every enabled source. Slugs naming unknown or disabled sources are dropped
// silently; an empty result is not an error.
func (r *Registry) Resolve(selection []string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := len(selection) == 0
	for _, s := range selection {
		if s == SelectionAll {
			all = true
			break
		}
	}

	var resolved []string
	if all {
		for _, slug := range r.order {
			if r.sources[slug].Enabled {
				resolved = append(resolved, slug)
			}
		}
	} else {
		seen := make(map[string]bool, len(selection))
		for _, slug := range selection {
			desc, ok := r.sources[slug]
			if !ok || !desc.Enabled || seen[slug] {
				continue
			}
			seen[slug] = true
			resolved = append(resolved, slug)
		}
	}

	sort.Strings(resolved)
	return resolved
}

// SetEnabled mutates a source's enabled flag and returns the new state.
func (r *Registry) SetEnabled(slug string, enabled bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	desc, ok := r.sources[slug]
	if !ok {
		return false, ErrUnknownSource
	}
	desc.Enabled = enabled
	return desc.Enabled, nil
}

// Toggle flips a source's enabled flag and returns the new state.
func (r *Registry) Toggle(slug string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	desc, ok := r.sources[slug]
	if !ok {
		return false, ErrUnknownSource
	}
	desc.Enabled = !desc.Enabled
	return desc.Enabled, nil
}
