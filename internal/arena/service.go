package arena

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hpn/prompt-arena/internal/domain"
	"github.com/hpn/prompt-arena/internal/gateway"
)

// SubmitRequest is a comparison as submitted by a client.
type SubmitRequest struct {
	Prompt      string           `json:"prompt"`
	Models      []domain.ModelID `json:"models"`
	MaxTokens   float64          `json:"maxTokens"`
	Temperature *float64         `json:"temperature,omitempty"`
	Evaluator   domain.ModelID   `json:"evaluator"`
	Mode        domain.Mode      `json:"mode"`
}

// Limits bound the user-tunable parameters of a submission.
type Limits struct {
	MinMaxTokens       int
	MaxMaxTokens       int
	DefaultMaxTokens   int
	DefaultTemperature float64
}

// DefaultLimits returns the server defaults.
func DefaultLimits() Limits {
	return Limits{
		MinMaxTokens:       domain.MinMaxTokens,
		MaxMaxTokens:       domain.MaxMaxTokens,
		DefaultMaxTokens:   domain.DefaultMaxTokens,
		DefaultTemperature: domain.DefaultTemperature,
	}
}

// Service is the boundary used by the HTTP and CLI surfaces.
type Service struct {
	orchestrator *Orchestrator
	aggregator   *Aggregator
	limits       Limits
	logger       *slog.Logger
}

// NewService wires an orchestrator and aggregator over the same completer.
func NewService(completer gateway.Completer, limits Limits, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	opts = append([]Option{WithLogger(logger)}, opts...)
	return &Service{
		orchestrator: NewOrchestrator(completer, opts...),
		aggregator:   NewAggregator(completer, logger),
		limits:       limits,
		logger:       logger,
	}
}

// Limits returns the limits the service clamps submissions to.
func (s *Service) Limits() Limits {
	return s.limits
}

// Submit validates req and starts the run. The returned channel yields the
// status events, then at most one aggregation event, then a done event,
// and is then closed.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (<-chan Event, error) {
	mode := req.Mode
	if mode == "" {
		mode = domain.ModeRank
	}
	if !mode.IsValid() {
		return nil, domain.NewValidationError("mode", fmt.Sprintf("unknown mode %q", req.Mode))
	}

	maxTokens := domain.ClampMaxTokens(s.limits.DefaultMaxTokens, s.limits.MinMaxTokens, s.limits.MaxMaxTokens)
	if req.MaxTokens != 0 {
		maxTokens = domain.ClampMaxTokensFloat(req.MaxTokens, s.limits.MinMaxTokens, s.limits.MaxMaxTokens)
	}

	temperature := s.limits.DefaultTemperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	run, err := s.orchestrator.Run(ctx, ComparisonRequest{
		Prompt:      req.Prompt,
		Models:      req.Models,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return nil, err
	}

	out := make(chan Event, cap(run.Events())+2)
	go s.forward(ctx, run, req.Prompt, req.Evaluator, mode, out)

	return out, nil
}

func (s *Service) forward(ctx context.Context, run *Run, prompt string, evaluator domain.ModelID, mode domain.Mode, out chan<- Event) {
	defer close(out)

	for ev := range run.Events() {
		out <- ev
	}

	state := run.Wait()

	switch {
	case evaluator == "" || evaluator == domain.EvaluatorNone:
	case ctx.Err() != nil:
		s.logger.Info("aggregation skipped: submission cancelled",
			slog.String("run_id", state.RunID),
			slog.String("error", ctx.Err().Error()),
		)
	default:
		succeeded := state.Succeeded()
		responses := make([]LabeledResponse, 0, len(succeeded))
		for _, m := range succeeded {
			responses = append(responses, LabeledResponse{
				DisplayName: domain.DisplayName(m),
				Text:        state.Entries[m].Result.Text,
			})
		}

		if agg, ok := s.aggregator.Aggregate(ctx, mode, prompt, responses, evaluator); ok {
			out <- Event{Type: EventAggregation, RunID: state.RunID, Aggregation: agg}
		} else {
			s.logger.Info("aggregation skipped",
				slog.String("run_id", state.RunID),
				slog.Int("succeeded", len(succeeded)),
			)
		}
	}

	out <- Event{Type: EventDone, RunID: state.RunID, State: &state}
}
