package timeline

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tartampluch/go-ilr/internal/config"
)

// ErrRangeConflict is returned when a registry already holds a timeline for a
// different window.
var ErrRangeConflict = errors.New(config.ErrRangeConflict)

type options struct {
	detached bool
}

// Option tunes a Registry.Get call.
type Option func(*options)

// Detached builds a fresh timeline that the registry neither returns from
// cache nor remembers.
func Detached() Option {
	return func(o *options) { o.detached = true }
}

// Registry hands out a single shared timeline per process so that every
// consumer sees the same classified state. The host owns it and passes it
// along; there is no package-level instance.
type Registry struct {
	mu      sync.Mutex
	current *Timeline
}

// Get returns the cached timeline when its window matches cfg, and builds and
// caches one when the registry is empty. A different window fails with
// ErrRangeConflict unless Detached is given or Reset was called first.
func (r *Registry) Get(cfg config.Residency, tripLookup TripLookup, visaLookup VisaLookup, opts ...Option) (*Timeline, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.detached {
		return New(cfg, tripLookup, visaLookup)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current != nil {
		have := r.current.cfg
		if have.StartYear != cfg.StartYear || have.EndYear != cfg.EndYear {
			return nil, fmt.Errorf("%w: have %d-%d, requested %d-%d", ErrRangeConflict,
				have.StartYear, have.EndYear, cfg.StartYear, cfg.EndYear)
		}
		return r.current, nil
	}

	t, err := New(cfg, tripLookup, visaLookup)
	if err != nil {
		return nil, err
	}
	r.current = t
	return t, nil
}

// Current returns the cached timeline, if any.
func (r *Registry) Current() (*Timeline, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current, r.current != nil
}

// Reset forgets the cached timeline.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = nil
}
