// Package arena fans a prompt out to several models, tracks every call, and
// optionally asks an evaluator model to rank or merge the answers.
package arena

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"

	"github.com/hpn/prompt-arena/internal/domain"
	"github.com/hpn/prompt-arena/internal/gateway"
)

// MinModels is the smallest comparison the orchestrator accepts.
const MinModels = 2

// DefaultCallTimeout bounds a single model call.
const DefaultCallTimeout = 90 * time.Second

// ComparisonRequest is one prompt sent to a set of models.
type ComparisonRequest struct {
	Prompt      string
	Models      []domain.ModelID
	MaxTokens   int
	Temperature float64
}

// Normalize trims the prompt, drops duplicate and blank model ids, and
// rejects requests that cannot form a comparison.
func (r ComparisonRequest) Normalize() (ComparisonRequest, error) {
	r.Prompt = strings.TrimSpace(r.Prompt)
	if r.Prompt == "" {
		return r, domain.NewValidationError("prompt", "prompt must not be empty")
	}

	seen := make(map[domain.ModelID]struct{}, len(r.Models))
	models := make([]domain.ModelID, 0, len(r.Models))
	for _, m := range r.Models {
		m = domain.ModelID(strings.TrimSpace(string(m)))
		if m == "" {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		models = append(models, m)
	}
	if len(models) < MinModels {
		return r, domain.NewValidationError("models", fmt.Sprintf("select at least %d models to compare", MinModels))
	}
	r.Models = models

	return r, nil
}

// Orchestrator runs comparisons against a Completer.
type Orchestrator struct {
	completer   gateway.Completer
	callTimeout time.Duration
	logger      *slog.Logger
	now         func() time.Time
	newID       func() string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithCallTimeout sets the per-call deadline. Zero disables it.
func WithCallTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d >= 0 {
			o.callTimeout = d
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// WithIDGenerator overrides run id generation.
func WithIDGenerator(gen func() string) Option {
	return func(o *Orchestrator) {
		if gen != nil {
			o.newID = gen
		}
	}
}

// NewOrchestrator creates an Orchestrator calling completer.
func NewOrchestrator(completer gateway.Completer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		completer:   completer,
		callTimeout: DefaultCallTimeout,
		logger:      slog.Default(),
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run validates req and launches every model call concurrently. Validation
// failures are returned before any call is made. Cancelling ctx abandons
// the calls still in flight.
func (o *Orchestrator) Run(ctx context.Context, req ComparisonRequest) (*Run, error) {
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}

	run := &Run{
		state:  domain.NewRunState(o.newID(), req.Models, o.now()),
		events: make(chan Event, 3*len(req.Models)),
		done:   make(chan struct{}),
		now:    o.now,
	}

	for _, m := range req.Models {
		run.publish(Event{Type: EventStatus, RunID: run.state.RunID, ModelID: m, Status: domain.StatusPending})
	}

	o.logger.Info("run started",
		slog.String("run_id", run.state.RunID),
		slog.Int("models", len(req.Models)),
	)

	go o.execute(ctx, run, req)

	return run, nil
}

func (o *Orchestrator) execute(ctx context.Context, run *Run, req ComparisonRequest) {
	var wg conc.WaitGroup
	for _, m := range req.Models {
		wg.Go(func() {
			o.call(ctx, run, req, m)
		})
	}
	wg.Wait()

	state := run.finish()
	o.logger.Info("run settled",
		slog.String("run_id", state.RunID),
		slog.Int("succeeded", len(state.Succeeded())),
		slog.Int("total", len(state.Order)),
		slog.Int64("elapsed_ms", state.ElapsedMs),
	)
}

// call performs one model call. A panic inside the completer is recovered
// here and settles only this model.
func (o *Orchestrator) call(ctx context.Context, run *Run, req ComparisonRequest, model domain.ModelID) {
	run.transition(model, domain.StatusInFlight, nil)

	callCtx, cancel := ctx, context.CancelFunc(func() {})
	if o.callTimeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, o.callTimeout)
	}
	defer cancel()

	var result domain.CompletionResult
	var pc panics.Catcher
	pc.Try(func() {
		result = o.completer.Complete(callCtx, domain.CompletionRequest{
			ModelID:     model,
			Prompt:      req.Prompt,
			MaxTokens:   req.MaxTokens,
			Temperature: req.Temperature,
		})
	})

	if r := pc.Recovered(); r != nil {
		o.logger.Error("model call panicked",
			slog.String("run_id", run.ID()),
			slog.String("model", string(model)),
			slog.Any("panic", r.Value),
		)
		result = domain.CompletionResult{
			Error:     fmt.Sprintf("internal error: %v", r.Value),
			ErrorKind: domain.ErrorKindTransport,
		}
	}

	status := domain.StatusSucceeded
	if !result.Succeeded() {
		status = domain.StatusFailed
		if result.Error == "" {
			result.Error = gateway.MsgUnknownError
			result.ErrorKind = domain.ErrorKindTransport
		}
	}

	run.transition(model, status, &result)
}

// Run is a comparison in progress.
type Run struct {
	mu       sync.Mutex
	state    *domain.RunState
	events   chan Event
	done     chan struct{}
	now      func() time.Time
	finished bool
}

// ID returns the run id.
func (r *Run) ID() string {
	return r.state.RunID
}

// Events streams every status transition in the order it happened. The
// channel is buffered for every transition of the run, so an idle consumer
// never stalls the calls. It is closed after the last terminal event.
func (r *Run) Events() <-chan Event {
	return r.events
}

// Done is closed once every model settled.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until every model settled and returns the final state.
func (r *Run) Wait() domain.RunState {
	<-r.done
	return r.Snapshot()
}

// Snapshot returns a copy of the current state.
func (r *Run) Snapshot() domain.RunState {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.state.Clone()
	if !r.finished {
		s.ElapsedMs = r.now().Sub(s.StartedAt).Milliseconds()
	}
	return s
}

func (r *Run) transition(model domain.ModelID, status domain.Status, result *domain.CompletionResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := r.state.Entries[model]
	entry.Status = status
	entry.Result = result

	ev := Event{Type: EventStatus, RunID: r.state.RunID, ModelID: model, Status: status}
	if result != nil {
		res := *result
		ev.Result = &res
	}
	r.events <- ev
}

func (r *Run) publish(ev Event) {
	r.events <- ev
}

func (r *Run) finish() domain.RunState {
	r.mu.Lock()
	r.state.ElapsedMs = r.now().Sub(r.state.StartedAt).Milliseconds()
	r.finished = true
	s := r.state.Clone()
	r.mu.Unlock()

	close(r.events)
	close(r.done)
	return s
}
