// End-to-end tests: client → server → mocked OpenRouter.
package main

import (
	"bufio"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/hpn/prompt-arena/internal/adapter"
	"github.com/hpn/prompt-arena/internal/app"
	"github.com/hpn/prompt-arena/internal/arena"
	"github.com/hpn/prompt-arena/internal/config"
	"github.com/hpn/prompt-arena/internal/domain"
)

// ============================================================================
// SETUP HELPERS
// ============================================================================

// mockOpenRouter answers per model:
//   - "fail/*"  → 429 with an OpenRouter error body
//   - "empty/*" → 200 with empty content
//   - anything else → 200 with "answer from <model>"
//
// It records every prompt it receives.
type mockOpenRouter struct {
	mu      sync.Mutex
	prompts map[string][]string
}

func (m *mockOpenRouter) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req adapter.OpenAIRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("[MOCK PROVIDER] bad request body: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		m.mu.Lock()
		m.prompts[req.Model] = append(m.prompts[req.Model], req.Messages[0].Content)
		m.mu.Unlock()

		t.Logf("[MOCK PROVIDER] %s", req.Model)

		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasPrefix(req.Model, "fail/"):
			w.WriteHeader(http.StatusTooManyRequests)
			io.WriteString(w, `{"error":{"message":"Rate limit exceeded: free-models-per-min","code":429}}`)
		case strings.HasPrefix(req.Model, "empty/"):
			io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":""}}]}`)
		default:
			json.NewEncoder(w).Encode(map[string]interface{}{
				"id": "gen-" + req.Model,
				"choices": []map[string]interface{}{
					{"message": map[string]string{"role": "assistant", "content": "answer from " + req.Model}},
				},
				"usage": map[string]int{"prompt_tokens": 5, "completion_tokens": 4, "total_tokens": 9},
			})
		}
	}
}

func (m *mockOpenRouter) promptsFor(model string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts[model]...)
}

func setupServer(t *testing.T, apiKey string, capacity int) (*gin.Engine, *mockOpenRouter) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mock := &mockOpenRouter{prompts: make(map[string][]string)}
	upstream := httptest.NewServer(mock.handler(t))
	t.Cleanup(upstream.Close)

	cfg := &config.Configuration{
		OpenRouter: config.OpenRouterConfig{APIKey: apiKey, BaseURL: upstream.URL, Title: "Prompt Arena", TimeoutSeconds: 5},
		RateLimit:  config.RateLimitConfig{Capacity: capacity, WindowSeconds: 60},
		Completion: config.CompletionConfig{
			CallTimeoutSeconds: 5,
			MinMaxTokens:       100,
			MaxMaxTokens:       2048,
			DefaultMaxTokens:   1024,
			DefaultTemperature: 0.7,
		},
	}

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return newRouter(cfg, app.NewStack(cfg, logger), logger), mock
}

func post(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", "192.0.2.10")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// readEvents parses an SSE body into events.
func readEvents(t *testing.T, body string) []arena.Event {
	t.Helper()
	var events []arena.Event
	scanner := bufio.NewScanner(strings.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		data, ok := strings.CutPrefix(scanner.Text(), "data:")
		if !ok {
			continue
		}
		var ev arena.Event
		if err := json.Unmarshal([]byte(strings.TrimSpace(data)), &ev); err != nil {
			t.Fatalf("bad event payload %q: %v", data, err)
		}
		events = append(events, ev)
	}
	return events
}

// ============================================================================
// E2E TESTS
// ============================================================================

// TestE2E_ArenaRankRun runs three models, one of which fails upstream, and
// checks the judge sees only the two successes.
func TestE2E_ArenaRankRun(t *testing.T) {
	t.Log("=== TEST: Arena rank run ===")

	r, mock := setupServer(t, "sk-or-v1-e2e", 10)

	w := post(r, "/api/arena", `{
		"prompt": "What is a goroutine?",
		"models": ["openai/gpt-4o-mini", "fail/model", "google/gemma-3-27b-it:free"],
		"evaluator": "judge/model",
		"maxTokens": 5000
	}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	events := readEvents(t, w.Body.String())
	if len(events) != 3*3+2 {
		t.Fatalf("got %d events, want 11", len(events))
	}

	agg := events[len(events)-2]
	done := events[len(events)-1]
	if agg.Type != arena.EventAggregation || agg.Aggregation.Verdict != "answer from judge/model" {
		t.Errorf("aggregation event = %+v", agg)
	}
	if done.Type != arena.EventDone || done.State == nil {
		t.Fatalf("done event = %+v", done)
	}
	t.Log("✓ stream ends with aggregation then done")

	state := done.State
	if state.Entries["fail/model"].Status != domain.StatusFailed ||
		state.Entries["fail/model"].Result.Error != "Rate limit exceeded: free-models-per-min" {
		t.Errorf("failed entry = %+v", state.Entries["fail/model"].Result)
	}
	if got := state.Entries["openai/gpt-4o-mini"].Result; got.Text != "answer from openai/gpt-4o-mini" || got.Usage == nil || got.Usage.TotalTokens != 9 {
		t.Errorf("success entry = %+v", got)
	}
	t.Log("✓ per-model results recorded")

	judge := mock.promptsFor("judge/model")
	if len(judge) != 1 {
		t.Fatalf("judge calls = %d, want 1", len(judge))
	}
	if !strings.Contains(judge[0], "--- Response A (GPT-4o Mini) ---\nanswer from openai/gpt-4o-mini") ||
		!strings.Contains(judge[0], "--- Response B (Gemma 3 27B) ---") ||
		strings.Contains(judge[0], "Response C") {
		t.Errorf("judge prompt = %q", judge[0])
	}
	t.Log("✓ judge saw only the succeeded responses")

	t.Log("=== TEST PASSED: Arena rank run ===")
}

// TestE2E_ArenaSkipsJudgeBelowTwoSuccesses checks that no judge call is made
// when only one model succeeded.
func TestE2E_ArenaSkipsJudgeBelowTwoSuccesses(t *testing.T) {
	r, mock := setupServer(t, "sk-or-v1-e2e", 10)

	w := post(r, "/api/arena", `{"prompt":"hi","models":["ok/a","empty/b"],"evaluator":"judge/model"}`)

	events := readEvents(t, w.Body.String())
	for _, ev := range events {
		if ev.Type == arena.EventAggregation {
			t.Fatal("aggregation must be skipped with one success")
		}
	}
	done := events[len(events)-1]
	if done.State.Entries["empty/b"].Result.Error != "Empty response from model" {
		t.Errorf("empty entry = %+v", done.State.Entries["empty/b"].Result)
	}
	if len(mock.promptsFor("judge/model")) != 0 {
		t.Error("judge was called")
	}
}

func TestE2E_ArenaValidation(t *testing.T) {
	r, mock := setupServer(t, "sk-or-v1-e2e", 10)

	w := post(r, "/api/arena", `{"prompt":"   ","models":["ok/a","ok/b"]}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if len(mock.promptsFor("ok/a")) != 0 {
		t.Error("upstream called for an invalid submission")
	}
}

func TestE2E_CompareProxy(t *testing.T) {
	r, mock := setupServer(t, "sk-or-v1-e2e", 10)

	w := post(r, "/api/compare", `{"model":"openai/gpt-4o-mini","prompt":"hello"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body adapter.OpenAIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.FirstContent() != "answer from openai/gpt-4o-mini" {
		t.Errorf("content = %q", body.FirstContent())
	}

	w = post(r, "/api/compare", `{"model":"fail/x","prompt":"hello"}`)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("upstream 429 not passed through: %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "free-models-per-min") {
		t.Errorf("body = %s", w.Body.String())
	}

	if got := mock.promptsFor("openai/gpt-4o-mini"); len(got) != 1 || got[0] != "hello" {
		t.Errorf("upstream prompts = %v", got)
	}
}

func TestE2E_RateLimitSharedAcrossRoutes(t *testing.T) {
	r, _ := setupServer(t, "sk-or-v1-e2e", 2)

	post(r, "/api/compare", `{"model":"ok/a","prompt":"1"}`)
	post(r, "/api/arena", `{"prompt":"2","models":["ok/a","ok/b"]}`)

	w := post(r, "/api/compare", `{"model":"ok/a","prompt":"3"}`)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("third request: status = %d, want 429", w.Code)
	}
}

func TestE2E_MissingCredential(t *testing.T) {
	r, _ := setupServer(t, "", 10)

	w := post(r, "/api/arena", `{"prompt":"hi","models":["ok/a","ok/b"]}`)
	if w.Code != http.StatusInternalServerError || !strings.Contains(w.Body.String(), "Server API key not configured") {
		t.Errorf("status = %d, body = %s", w.Code, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	hw := httptest.NewRecorder()
	r.ServeHTTP(hw, req)
	if !strings.Contains(hw.Body.String(), `"credential_configured":false`) {
		t.Errorf("health = %s", hw.Body.String())
	}
}
