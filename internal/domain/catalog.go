package domain

import "strings"

// Preset names a pre-configured selection of models.
type Preset string

const (
	PresetFree     Preset = "free"
	PresetBudget   Preset = "budget"
	PresetFlagship Preset = "flagship"
	PresetAll      Preset = "all"
)

// EvaluatorNone disables the aggregation step.
const EvaluatorNone ModelID = "none"

// Model is a catalog entry. Price is a display string only.
type Model struct {
	ID       ModelID  `json:"id"`
	Name     string   `json:"name"`
	Provider string   `json:"provider"`
	Price    string   `json:"price"`
	Free     bool     `json:"free"`
	Presets  []Preset `json:"presets"`
}

// HasPreset reports whether the model belongs to preset p.
func (m Model) HasPreset(p Preset) bool {
	for _, mp := range m.Presets {
		if mp == p {
			return true
		}
	}
	return false
}

// Evaluator is a selectable judge model.
type Evaluator struct {
	ID    ModelID `json:"id"`
	Label string  `json:"label"`
}

// Catalog holds the models offered for comparison.
var Catalog = []Model{
	// Free models
	{ID: "google/gemma-3-27b-it:free", Name: "Gemma 3 27B", Provider: "Google", Price: "FREE", Free: true, Presets: []Preset{PresetFree, PresetBudget}},
	{ID: "qwen/qwen3-coder:free", Name: "Qwen 3 Coder", Provider: "Qwen", Price: "FREE", Free: true, Presets: []Preset{PresetFree, PresetBudget}},
	{ID: "qwen/qwen3-next-80b-a3b-instruct:free", Name: "Qwen 3 Next 80B", Provider: "Qwen", Price: "FREE", Free: true, Presets: []Preset{PresetFree, PresetBudget}},
	{ID: "deepseek/deepseek-r1-0528:free", Name: "DeepSeek R1", Provider: "DeepSeek", Price: "FREE", Free: true, Presets: []Preset{PresetFree, PresetBudget}},
	{ID: "nvidia/nemotron-3-nano-30b-a3b:free", Name: "Nemotron 3 Nano 30B", Provider: "NVIDIA", Price: "FREE", Free: true, Presets: []Preset{PresetFree}},
	{ID: "stepfun/step-3.5-flash:free", Name: "Step 3.5 Flash", Provider: "StepFun", Price: "FREE", Free: true, Presets: []Preset{PresetFree}},
	{ID: "openai/gpt-oss-120b:free", Name: "GPT-OSS 120B", Provider: "OpenAI", Price: "FREE", Free: true, Presets: []Preset{PresetFree}},
	{ID: "z-ai/glm-4.5-air:free", Name: "GLM 4.5 Air", Provider: "Zhipu AI", Price: "FREE", Free: true, Presets: []Preset{PresetFree}},

	// Budget paid models
	{ID: "openai/gpt-4o-mini", Name: "GPT-4o Mini", Provider: "OpenAI", Price: "$0.15/M in", Presets: []Preset{PresetBudget}},
	{ID: "anthropic/claude-3.5-haiku", Name: "Claude 3.5 Haiku", Provider: "Anthropic", Price: "$0.80/M in", Presets: []Preset{PresetBudget}},
	{ID: "deepseek/deepseek-chat", Name: "DeepSeek V3", Provider: "DeepSeek", Price: "$0.27/M in"},

	// Flagship paid models
	{ID: "openai/gpt-4o", Name: "GPT-4o", Provider: "OpenAI", Price: "$2.50/M in", Presets: []Preset{PresetFlagship}},
	{ID: "anthropic/claude-sonnet-4", Name: "Claude Sonnet 4", Provider: "Anthropic", Price: "$3.00/M in", Presets: []Preset{PresetFlagship}},
	{ID: "google/gemini-2.5-flash", Name: "Gemini 2.5 Flash", Provider: "Google", Price: "$0.15/M in", Presets: []Preset{PresetFlagship}},
	{ID: "mistralai/mistral-large-latest", Name: "Mistral Large", Provider: "Mistral", Price: "$2.00/M in", Presets: []Preset{PresetFlagship}},
}

// EvaluatorModels lists the judge choices. The first entry is the default.
var EvaluatorModels = []Evaluator{
	{ID: "mistralai/mistral-small-3.1-24b-instruct:free", Label: "Mistral Small 3.1 (free)"},
	{ID: "google/gemma-3-27b-it:free", Label: "Gemma 3 27B (free)"},
	{ID: EvaluatorNone, Label: "No judge"},
}

// Lookup returns the catalog entry for id.
func Lookup(id ModelID) (Model, bool) {
	for _, m := range Catalog {
		if m.ID == id {
			return m, true
		}
	}
	return Model{}, false
}

// DisplayName returns the catalog name for id, or the last path segment with
// any ":free" suffix removed for unknown models.
func DisplayName(id ModelID) string {
	if m, ok := Lookup(id); ok {
		return m.Name
	}
	s := string(id)
	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(s, ":free")
	if s == "" {
		return string(id)
	}
	return s
}

// PresetModels returns the ids in preset p, in catalog order.
// Unknown presets return nil.
func PresetModels(p Preset) []ModelID {
	out := make([]ModelID, 0, len(Catalog))
	for _, m := range Catalog {
		if p == PresetAll || m.HasPreset(p) {
			out = append(out, m.ID)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// DefaultModels returns the selection offered before the user picks.
func DefaultModels() []ModelID {
	return PresetModels(PresetBudget)
}

// Provider returns the provider segment of id ("openai" for "openai/gpt-4o").
func (id ModelID) Provider() string {
	s := string(id)
	if i := strings.Index(s, "/"); i > 0 {
		return s[:i]
	}
	return ""
}
