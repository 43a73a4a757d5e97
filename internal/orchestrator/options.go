package orchestrator

import (
	"time"

	"github.com/jonesrussell/sourcegen/internal/events"
	"github.com/jonesrussell/sourcegen/internal/logger"
	"github.com/jonesrussell/sourcegen/internal/store"
)

// Option configures an Orchestrator at construction time.
type Option func(*Orchestrator)

// WithLogger sets the pipeline logger.
func WithLogger(log logger.Logger) Option {
	return func(o *Orchestrator) {
		if log != nil {
			o.log = log
		}
	}
}

// WithClock overrides the time source, used by tests for stable records.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// WithIDs overrides record ID generation.
func WithIDs(newID func() string) Option {
	return func(o *Orchestrator) {
		if newID != nil {
			o.newID = newID
		}
	}
}

// WithStore replaces the in-memory history with another RecordStore, such
// as the SQLite-backed one.
func WithStore(s store.RecordStore) Option {
	return func(o *Orchestrator) {
		if s != nil {
			o.records = s
		}
	}
}

// WithPublisher enables event publishing for finished runs. A nil
// publisher keeps events disabled.
func WithPublisher(p *events.Publisher) Option {
	return func(o *Orchestrator) {
		o.publisher = p
	}
}

// WithPoolSize sets the batch worker count, clamped to [1, 8].
func WithPoolSize(n int) Option {
	return func(o *Orchestrator) {
		switch {
		case n < minPoolSize:
			o.poolSize = minPoolSize
		case n > maxPoolSize:
			o.poolSize = maxPoolSize
		default:
			o.poolSize = n
		}
	}
}
