package arena

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hpn/prompt-arena/internal/domain"
	"github.com/hpn/prompt-arena/internal/gateway"
)

// MsgEvaluationFailed is the verdict when the evaluator failed without a message.
const MsgEvaluationFailed = "Evaluation failed"

// LabeledResponse is one succeeded answer handed to the evaluator.
type LabeledResponse struct {
	DisplayName string
	Text        string
}

// modeSettings are the evaluator call parameters per mode.
var modeSettings = map[domain.Mode]struct {
	maxTokens   int
	temperature float64
}{
	domain.ModeRank:       {maxTokens: 512, temperature: 0.2},
	domain.ModeSynthesize: {maxTokens: 2048, temperature: 0.3},
}

// Aggregator issues the single evaluator call of a run.
type Aggregator struct {
	completer gateway.Completer
	logger    *slog.Logger
}

// NewAggregator creates an Aggregator calling completer.
func NewAggregator(completer gateway.Completer, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{completer: completer, logger: logger}
}

// Aggregate asks evaluator to rank or merge responses. It returns false
// without calling anything when fewer than two responses are given. A
// failed evaluator call is reported through the returned result, never as
// an error.
func (a *Aggregator) Aggregate(ctx context.Context, mode domain.Mode, prompt string, responses []LabeledResponse, evaluator domain.ModelID) (*domain.AggregationResult, bool) {
	if len(responses) < MinModels {
		return nil, false
	}
	if !mode.IsValid() {
		mode = domain.ModeRank
	}
	settings := modeSettings[mode]

	result := a.completer.Complete(ctx, domain.CompletionRequest{
		ModelID:     evaluator,
		Prompt:      BuildPrompt(mode, prompt, responses),
		MaxTokens:   settings.maxTokens,
		Temperature: settings.temperature,
	})

	agg := &domain.AggregationResult{
		EvaluatorModelID: evaluator,
		Mode:             mode,
		LatencyMs:        result.LatencyMs,
	}

	if result.Succeeded() {
		agg.Verdict = result.Text
	} else {
		agg.Failed = true
		agg.Verdict = result.Error
		if agg.Verdict == "" {
			agg.Verdict = MsgEvaluationFailed
		}
		a.logger.Warn("evaluation failed",
			slog.String("evaluator", string(evaluator)),
			slog.String("mode", string(mode)),
			slog.String("error", agg.Verdict),
		)
	}

	return agg, true
}

// Label returns the letter tag for the i-th response: A..Z, then AA, AB...
func Label(i int) string {
	label := ""
	for i >= 0 {
		label = string(rune('A'+i%26)) + label
		i = i/26 - 1
	}
	return label
}

// composite renders the labelled response blocks.
func composite(responses []LabeledResponse) string {
	parts := make([]string, len(responses))
	for i, r := range responses {
		parts[i] = fmt.Sprintf("--- Response %s (%s) ---\n%s", Label(i), r.DisplayName, r.Text)
	}
	return strings.Join(parts, "\n\n")
}

// BuildPrompt composes the evaluator prompt for mode.
func BuildPrompt(mode domain.Mode, prompt string, responses []LabeledResponse) string {
	prompt = strings.TrimSpace(prompt)
	parts := composite(responses)

	if mode == domain.ModeSynthesize {
		return "You are an expert editor. Several answers to the prompt below are provided. " +
			"Merge the strongest elements of all of them into one comprehensive, well-structured answer. " +
			"Do not mention that there were multiple responses or models; write it as a single answer.\n\n" +
			"Original Prompt: " + prompt + "\n\n" +
			parts + "\n\n" +
			"Write the combined answer now."
	}

	return "You are an impartial AI response evaluator. Compare these responses to the prompt below and pick the best one. " +
		"Be concise (3-4 sentences max).\n\n" +
		"Original Prompt: " + prompt + "\n\n" +
		parts + "\n\n" +
		"Evaluate on: accuracy, helpfulness, clarity. Declare a WINNER and briefly explain why."
}
