package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hpn/prompt-arena/internal/app"
	"github.com/hpn/prompt-arena/internal/arena"
	"github.com/hpn/prompt-arena/internal/config"
	"github.com/hpn/prompt-arena/internal/domain"
	"github.com/hpn/prompt-arena/internal/ui"
)

// compareOptions holds the compare flag values.
type compareOptions struct {
	models      []string
	preset      string
	judge       string
	mode        string
	maxTokens   int
	temperature float64
	output      string

	// temperatureSet reports whether --temperature was passed.
	temperatureSet bool
}

var compareOpts compareOptions

// compareCmd runs one comparison.
var compareCmd = &cobra.Command{
	Use:   "compare [prompt]",
	Short: "Compare models on a prompt",
	Long: `Compare sends the prompt to every selected model at once. Without
--models the preset is used. Pass "-" or no prompt to read it from stdin.`,
	Example: `  arena compare "Explain channels in Go"
  arena compare --preset free --judge none "Write a haiku"
  echo "Summarize TCP" | arena compare --models openai/gpt-4o-mini,google/gemma-3-27b-it:free --mode synthesize`,
	RunE: runCompareCmd,
}

func init() {
	f := compareCmd.Flags()
	f.StringSliceVarP(&compareOpts.models, "models", "m", nil, "comma-separated model ids")
	f.StringVarP(&compareOpts.preset, "preset", "p", string(domain.PresetBudget), "model preset: free, budget, flagship, all")
	f.StringVarP(&compareOpts.judge, "judge", "j", "", `judge model id, or "none" (default from config)`)
	f.StringVar(&compareOpts.mode, "mode", "", "judge mode: rank or synthesize (default from config)")
	f.IntVar(&compareOpts.maxTokens, "max-tokens", 0, "max output tokens per model, clamped to the server bounds")
	f.Float64Var(&compareOpts.temperature, "temperature", 0, "sampling temperature, passed through as given (default from config)")
	f.StringVarP(&compareOpts.output, "output", "o", outputText, "output format: text, json, yaml")
}

func runCompareCmd(cmd *cobra.Command, args []string) error {
	switch compareOpts.output {
	case outputText, outputJSON, outputYAML:
	default:
		return exitError(ExitInvalidArgs, "unknown output format %q", compareOpts.output)
	}

	prompt, err := readPrompt(args, cmd.InOrStdin())
	if err != nil {
		return exitError(ExitInvalidArgs, "%v", err)
	}

	cfg, err := config.GetConfigWithPath(configPath)
	if err != nil {
		return exitError(ExitConfig, "%v", err)
	}
	if err := cfg.RequireCredential(); err != nil {
		return exitError(ExitConfig, "%v", err)
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	logger := app.NewLogger(level, "text", cmd.ErrOrStderr())
	stack := app.NewStack(cfg, logger)

	compareOpts.temperatureSet = cmd.Flags().Changed("temperature")
	req, err := buildSubmitRequest(prompt, compareOpts, cfg)
	if err != nil {
		return exitError(ExitInvalidArgs, "%v", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sink eventSink
	var report *reportCollector
	if compareOpts.output == outputText {
		ui.PrintMiniBanner()
		printer := ui.NewRunPrinter(cmd.OutOrStdout())
		printer.Header(req.Prompt, req.Models)
		sink = printer
	} else {
		report = newReportCollector(req.Prompt)
		sink = report
	}

	state, err := runCompare(ctx, stack.Service, req, sink)
	if err != nil {
		return err
	}
	if report != nil {
		if err := report.Write(cmd.OutOrStdout(), compareOpts.output); err != nil {
			return exitError(ExitTotalFailure, "write report: %v", err)
		}
	}

	return exitStatus(state)
}

// readPrompt joins the positional arguments, or reads stdin for "-" or none.
func readPrompt(args []string, stdin io.Reader) (string, error) {
	prompt := strings.Join(args, " ")
	if prompt == "" || prompt == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read prompt from stdin: %w", err)
		}
		prompt = string(data)
	}
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt must not be empty")
	}
	return prompt, nil
}

// buildSubmitRequest resolves the flags against the configuration.
func buildSubmitRequest(prompt string, opts compareOptions, cfg *config.Configuration) (arena.SubmitRequest, error) {
	var models []domain.ModelID
	if len(opts.models) > 0 {
		for _, m := range opts.models {
			models = append(models, domain.ModelID(strings.TrimSpace(m)))
		}
	} else {
		models = domain.PresetModels(domain.Preset(opts.preset))
		if models == nil {
			return arena.SubmitRequest{}, fmt.Errorf("unknown preset %q", opts.preset)
		}
	}

	judge := domain.ModelID(opts.judge)
	if judge == "" {
		judge = domain.ModelID(cfg.Judge.Evaluator)
	}

	mode := domain.Mode(opts.mode)
	if mode == "" {
		mode = domain.Mode(cfg.Judge.Mode)
	}

	req := arena.SubmitRequest{
		Prompt:    prompt,
		Models:    models,
		MaxTokens: float64(opts.maxTokens),
		Evaluator: judge,
		Mode:      mode,
	}
	if opts.temperatureSet {
		t := opts.temperature
		req.Temperature = &t
	}
	return req, nil
}

// submitter starts a run.
type submitter interface {
	Submit(context.Context, arena.SubmitRequest) (<-chan arena.Event, error)
}

// eventSink consumes stream events as they arrive.
type eventSink interface {
	Event(arena.Event)
}

// runCompare submits req, hands every event to sink, and returns the final state.
func runCompare(ctx context.Context, svc submitter, req arena.SubmitRequest, sink eventSink) (domain.RunState, error) {
	events, err := svc.Submit(ctx, req)
	if err != nil {
		if domain.IsValidationError(err) {
			return domain.RunState{}, exitError(ExitInvalidArgs, "%v", err)
		}
		return domain.RunState{}, err
	}

	var final domain.RunState
	for ev := range events {
		sink.Event(ev)
		if ev.Type == arena.EventDone && ev.State != nil {
			final = *ev.State
		}
	}
	return final, nil
}

// exitStatus maps the settled run onto an exit code.
func exitStatus(state domain.RunState) error {
	ok := len(state.Succeeded())
	switch {
	case ok == len(state.Order):
		return nil
	case ok == 0:
		return exitError(ExitTotalFailure, "")
	default:
		return exitError(ExitPartialFailure, "")
	}
}
