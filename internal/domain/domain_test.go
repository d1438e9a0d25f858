package domain

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"
)

func TestClampMaxTokens(t *testing.T) {
	tests := []struct {
		input    int
		expected int
	}{
		{50, 100},
		{5000, 2048},
		{1024, 1024},
		{100, 100},
		{2048, 2048},
		{0, 100},
		{-7, 100},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.input), func(t *testing.T) {
			if got := ClampMaxTokens(tt.input, MinMaxTokens, MaxMaxTokens); got != tt.expected {
				t.Errorf("ClampMaxTokens(%d) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestClampMaxTokensFloat(t *testing.T) {
	tests := []struct {
		input    float64
		expected int
	}{
		{50, 100},
		{5000.5, 2048},
		{1e19, 2048},
		{1e300, 2048},
		{-1e19, 100},
		{math.Inf(1), 2048},
		{math.NaN(), 100},
		{700.9, 700},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.input), func(t *testing.T) {
			if got := ClampMaxTokensFloat(tt.input, MinMaxTokens, MaxMaxTokens); got != tt.expected {
				t.Errorf("ClampMaxTokensFloat(%v) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		id       ModelID
		expected string
	}{
		{"openai/gpt-4o-mini", "GPT-4o Mini"},
		{"google/gemma-3-27b-it:free", "Gemma 3 27B"},
		{"meta-llama/llama-4-scout:free", "llama-4-scout"},
		{"custom-model", "custom-model"},
		{"vendor/", "vendor/"},
	}

	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			if got := DisplayName(tt.id); got != tt.expected {
				t.Errorf("DisplayName(%s) = %s, want %s", tt.id, got, tt.expected)
			}
		})
	}
}

func TestPresetModels(t *testing.T) {
	if got := len(PresetModels(PresetAll)); got != len(Catalog) {
		t.Errorf("len(PresetModels(all)) = %d, want %d", got, len(Catalog))
	}

	budget := DefaultModels()
	if len(budget) != 6 {
		t.Fatalf("len(DefaultModels()) = %d, want 6", len(budget))
	}
	for _, id := range budget {
		m, ok := Lookup(id)
		if !ok || !m.HasPreset(PresetBudget) {
			t.Errorf("model %s is not in the budget preset", id)
		}
	}

	if got := PresetModels("nonexistent"); got != nil {
		t.Errorf("PresetModels(nonexistent) = %v, want nil", got)
	}
}

func TestModelIDProvider(t *testing.T) {
	if got := ModelID("anthropic/claude-sonnet-4").Provider(); got != "anthropic" {
		t.Errorf("Provider() = %q, want anthropic", got)
	}
	if got := ModelID("bare").Provider(); got != "" {
		t.Errorf("Provider() = %q, want empty", got)
	}
}

func TestRunState(t *testing.T) {
	models := []ModelID{"a/one", "b/two", "c/three"}
	s := NewRunState("run-1", models, time.Now())

	if s.Settled() {
		t.Fatal("fresh state should not be settled")
	}
	for _, m := range models {
		if s.Entries[m].Status != StatusPending {
			t.Errorf("Entries[%s].Status = %s, want pending", m, s.Entries[m].Status)
		}
	}

	s.Entries["c/three"] = &RunEntry{Status: StatusSucceeded, Result: &CompletionResult{Text: "3"}}
	s.Entries["b/two"] = &RunEntry{Status: StatusFailed, Result: &CompletionResult{Error: "boom"}}
	s.Entries["a/one"] = &RunEntry{Status: StatusSucceeded, Result: &CompletionResult{Text: "1"}}

	if !s.Settled() {
		t.Error("state should be settled once every entry is terminal")
	}

	got := s.Succeeded()
	if len(got) != 2 || got[0] != "a/one" || got[1] != "c/three" {
		t.Errorf("Succeeded() = %v, want [a/one c/three] in request order", got)
	}

	clone := s.Clone()
	clone.Entries["a/one"].Result.Text = "changed"
	if s.Entries["a/one"].Result.Text != "1" {
		t.Error("Clone() shares result pointers with the original")
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("prompt", "prompt is required")

	if !errors.Is(err, ErrValidation) {
		t.Error("errors.Is(err, ErrValidation) = false, want true")
	}
	if !IsValidationError(fmt.Errorf("wrapped: %w", err)) {
		t.Error("IsValidationError should see through wrapping")
	}
	if err.Error() != "prompt: prompt is required" {
		t.Errorf("Error() = %q", err.Error())
	}
	if IsValidationError(ErrRateLimited) {
		t.Error("ErrRateLimited is not a validation error")
	}
}
