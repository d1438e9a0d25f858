package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/hpn/prompt-arena/internal/arena"
	"github.com/hpn/prompt-arena/internal/domain"
)

// Output formats for compare.
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// runReport is the machine-readable summary of a settled run.
type runReport struct {
	RunID     string         `json:"run_id" yaml:"run_id"`
	Prompt    string         `json:"prompt" yaml:"prompt"`
	ElapsedMs int64          `json:"elapsed_ms" yaml:"elapsed_ms"`
	Results   []reportResult `json:"results" yaml:"results"`
	Verdict   *reportVerdict `json:"verdict,omitempty" yaml:"verdict,omitempty"`
}

type reportResult struct {
	Model       domain.ModelID `json:"model" yaml:"model"`
	Name        string         `json:"name" yaml:"name"`
	Status      domain.Status  `json:"status" yaml:"status"`
	Text        string         `json:"text,omitempty" yaml:"text,omitempty"`
	Error       string         `json:"error,omitempty" yaml:"error,omitempty"`
	LatencyMs   int64          `json:"latency_ms" yaml:"latency_ms"`
	TotalTokens int            `json:"total_tokens,omitempty" yaml:"total_tokens,omitempty"`
}

type reportVerdict struct {
	Evaluator domain.ModelID `json:"evaluator" yaml:"evaluator"`
	Mode      domain.Mode    `json:"mode" yaml:"mode"`
	Text      string         `json:"text" yaml:"text"`
	Failed    bool           `json:"failed,omitempty" yaml:"failed,omitempty"`
}

// reportCollector accumulates stream events into a runReport.
type reportCollector struct {
	report runReport
}

func newReportCollector(prompt string) *reportCollector {
	return &reportCollector{report: runReport{Prompt: prompt}}
}

// Event records ev. Only the aggregation and done events carry report data.
func (c *reportCollector) Event(ev arena.Event) {
	switch ev.Type {
	case arena.EventAggregation:
		if agg := ev.Aggregation; agg != nil {
			c.report.Verdict = &reportVerdict{
				Evaluator: agg.EvaluatorModelID,
				Mode:      agg.Mode,
				Text:      agg.Verdict,
				Failed:    agg.Failed,
			}
		}
	case arena.EventDone:
		if ev.State == nil {
			return
		}
		c.report.RunID = ev.State.RunID
		c.report.ElapsedMs = ev.State.ElapsedMs
		c.report.Results = c.report.Results[:0]
		for _, m := range ev.State.Order {
			entry := ev.State.Entries[m]
			r := reportResult{Model: m, Name: domain.DisplayName(m)}
			if entry != nil {
				r.Status = entry.Status
				if res := entry.Result; res != nil {
					r.Text = res.Text
					r.Error = res.Error
					r.LatencyMs = res.LatencyMs
					if res.Usage != nil {
						r.TotalTokens = res.Usage.TotalTokens
					}
				}
			}
			c.report.Results = append(c.report.Results, r)
		}
	}
}

// Write encodes the report in format.
func (c *reportCollector) Write(w io.Writer, format string) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(c.report)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(c.report); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
