package coverage

import (
	"context"
	"sync"

	"github.com/openurban/facility-map/internal/facility"
)

// Sampler computes the coverage grid for a fixed record set at most once and
// serves the cached result thereafter. The cache lives for the process; the
// underlying facility set never changes after load, so there is no
// invalidation path.
//
// Concurrent callers while a computation is in flight wait on the first
// computation instead of starting a second one; a caller whose context is
// cancelled while waiting gets the cancellation, and the in-flight result is
// simply not delivered to it.
type Sampler struct {
	records []facility.Facility
	opts    Options

	mu        sync.Mutex
	grid      *Grid
	computing bool
	done      chan struct{}
}

// NewSampler builds a sampler over the full facility collection. Coverage is
// always estimated against the whole dataset, never a filtered subset.
func NewSampler(records []facility.Facility, opts Options) *Sampler {
	return &Sampler{records: records, opts: opts}
}

// Grid returns the cached coverage grid, computing it on first call.
func (s *Sampler) Grid(ctx context.Context) (*Grid, error) {
	for {
		s.mu.Lock()
		if s.grid != nil {
			g := s.grid
			s.mu.Unlock()
			return g, nil
		}
		if s.computing {
			done := s.done
			s.mu.Unlock()
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-done:
				continue
			}
		}
		s.computing = true
		s.done = make(chan struct{})
		s.mu.Unlock()
		break
	}

	grid, err := Compute(ctx, s.records, s.opts)

	s.mu.Lock()
	if err == nil {
		s.grid = grid
	}
	s.computing = false
	close(s.done)
	s.mu.Unlock()

	return grid, err
}

// Cached reports whether a grid has already been computed.
func (s *Sampler) Cached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid != nil
}
