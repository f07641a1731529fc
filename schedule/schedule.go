// Package schedule runs skill tools on a cron schedule. Expressions are
// standard 5-field cron evaluated in UTC; results flow through the normal
// invocation path so observers and audit stores see scheduled runs exactly
// like host-driven ones.
package schedule

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/petal-labs/petalskill"
)

var standardCronParser = cron.NewParser(
	cron.Minute |
		cron.Hour |
		cron.Dom |
		cron.Month |
		cron.Dow,
)

// ParseExpression parses a 5-field cron expression evaluated in UTC.
// Timezone prefixes are rejected.
func ParseExpression(expr string) (cron.Schedule, error) {
	clean := strings.TrimSpace(expr)
	if clean == "" {
		return nil, fmt.Errorf("cron expression is required")
	}

	upper := strings.ToUpper(clean)
	if strings.Contains(upper, "CRON_TZ=") || strings.Contains(upper, "TZ=") {
		return nil, fmt.Errorf("cron expression must be UTC-only (timezone prefixes are not allowed)")
	}

	schedule, err := standardCronParser.Parse(clean)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression: %w", err)
	}
	return schedule, nil
}

// NextRun returns the next UTC run time of the expression after now.
func NextRun(expr string, now time.Time) (time.Time, error) {
	schedule, err := ParseExpression(expr)
	if err != nil {
		return time.Time{}, err
	}
	return schedule.Next(now.UTC()), nil
}

// Job describes one scheduled invocation: a tool on an instance with fixed
// arguments.
type Job struct {
	Expression string
	Tool       string
	Args       map[string]any
}

// Runner periodically invokes a tool according to a cron schedule.
type Runner struct {
	instance *petalskill.Instance
	job      Job
	schedule cron.Schedule
	onResult func(petalskill.Result)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithResultHandler installs a callback invoked with every scheduled
// result.
func WithResultHandler(fn func(petalskill.Result)) RunnerOption {
	return func(r *Runner) {
		r.onResult = fn
	}
}

// NewRunner validates the job and returns a stopped Runner.
func NewRunner(instance *petalskill.Instance, job Job, opts ...RunnerOption) (*Runner, error) {
	schedule, err := ParseExpression(job.Expression)
	if err != nil {
		return nil, err
	}
	if _, ok := instance.Definition().Tool(job.Tool); !ok {
		return nil, fmt.Errorf("unknown tool %q", job.Tool)
	}

	r := &Runner{
		instance: instance,
		job:      job,
		schedule: schedule,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Start begins scheduling. It returns immediately; invocations happen on a
// background goroutine until Stop or context cancellation.
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})

	go r.loop(ctx, r.done)
}

// Stop cancels the schedule and waits for an in-flight invocation to
// finish.
func (r *Runner) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	done := r.done
	r.cancel = nil
	r.done = nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (r *Runner) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	for {
		now := time.Now().UTC()
		next := r.schedule.Next(now)

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		result := r.instance.Invoke(ctx, r.job.Tool, r.job.Args)
		if r.onResult != nil {
			r.onResult(result)
		}
	}
}
