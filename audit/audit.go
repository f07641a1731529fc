// Package audit persists one record per skill invocation so hosts can
// answer "what ran, when, and how did it go" after the fact. The primary
// backend is SQLite; the Recorder adapter feeds records in from the SDK's
// invocation observer hook.
package audit

import (
	"context"
	"time"

	"github.com/petal-labs/petalskill"
)

// Record is one persisted invocation outcome.
type Record struct {
	InvocationID string    `json:"invocation_id"`
	Skill        string    `json:"skill"`
	Tool         string    `json:"tool"`
	Success      bool      `json:"success"`
	ErrorMessage string    `json:"error_message,omitempty"`
	DurationMS   int64     `json:"duration_ms"`
	RecordedAt   time.Time `json:"recorded_at"`
}

// Store persists invocation records.
type Store interface {
	// Append writes one record.
	Append(ctx context.Context, rec Record) error
	// List returns the most recent records, newest first, at most limit.
	// A non-positive limit returns all records.
	List(ctx context.Context, limit int) ([]Record, error)
	// Close releases the backing resources.
	Close() error
}

// Recorder adapts a Store to the SDK's invocation observer hook. Append
// failures are reported through the error callback when set and otherwise
// dropped; observation must never fail an invocation.
type Recorder struct {
	store   Store
	onError func(error)
}

// NewRecorder creates a Recorder writing to the given store.
func NewRecorder(store Store, opts ...RecorderOption) *Recorder {
	r := &Recorder{store: store}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithErrorHandler installs a callback invoked with append failures.
func WithErrorHandler(fn func(error)) RecorderOption {
	return func(r *Recorder) {
		r.onError = fn
	}
}

// ObserveInvoke implements petalskill.Observer.
func (r *Recorder) ObserveInvoke(observation petalskill.InvokeObservation) {
	rec := Record{
		InvocationID: observation.InvocationID,
		Skill:        observation.Skill,
		Tool:         observation.Tool,
		Success:      observation.Success,
		ErrorMessage: observation.ErrorMessage,
		DurationMS:   observation.DurationMS,
		RecordedAt:   time.Now().UTC(),
	}
	if err := r.store.Append(context.Background(), rec); err != nil && r.onError != nil {
		r.onError(err)
	}
}
