package planner

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vitalplan/internal/domain"
	"vitalplan/internal/llm"
	"vitalplan/internal/shared"
)

//go:embed plan_prompt.md
var planPrompt string

const agentName = "Dietitian"

var promptTmpl = template.Must(template.New("Dietitian").
	Funcs(template.FuncMap{"join": strings.Join}).
	Parse(planPrompt))

// LLMGenerator asks a language model for a plan tailored to the goals and
// profile. Unlike the mock, goal content shapes the result.
type LLMGenerator struct {
	textGen  llm.TextGenerator
	recorder MetaRecorder
	now      func() time.Time
}

// NewLLMGenerator wires a text generator. recorder may be nil.
func NewLLMGenerator(textGen llm.TextGenerator, recorder MetaRecorder) *LLMGenerator {
	return &LLMGenerator{textGen: textGen, recorder: recorder, now: time.Now}
}

type llmPlan struct {
	Meals       []domain.Meal       `json:"meals"`
	Supplements []domain.Supplement `json:"supplements"`
}

func (g *LLMGenerator) Generate(ctx context.Context, goals []domain.Goal, user *domain.User) (domain.DietPlan, error) {
	start := time.Now()
	prompt, err := buildPlanPrompt(goals, user)
	if err != nil {
		return domain.DietPlan{}, fmt.Errorf("failed to build plan prompt: %w", err)
	}

	resp, err := g.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return domain.DietPlan{}, fmt.Errorf("failed to generate plan: %w", err)
	}
	g.record(shared.AgentMeta{AgentName: agentName, Usage: resp.Usage, Latency: time.Since(start)})

	var out llmPlan
	if err := json.Unmarshal([]byte(extractJSON(resp.Content)), &out); err != nil {
		return domain.DietPlan{}, fmt.Errorf("failed to parse plan: %w", err)
	}
	if err := checkMeals(out.Meals); err != nil {
		return domain.DietPlan{}, err
	}

	for i := range out.Meals {
		if out.Meals[i].ID == "" {
			out.Meals[i].ID = fmt.Sprintf("meal-%d", i+1)
		}
	}
	for i := range out.Supplements {
		if out.Supplements[i].ID == "" {
			out.Supplements[i].ID = fmt.Sprintf("supp-%d", i+1)
		}
	}

	plan := domain.DietPlan{
		ID:          "plan-" + uuid.NewString(),
		Goals:       append([]domain.Goal(nil), goals...),
		Meals:       out.Meals,
		Supplements: out.Supplements,
		GeneratedAt: g.now(),
	}
	if user != nil {
		plan.UserID = user.ID
	}
	return Finalize(plan), nil
}

func (g *LLMGenerator) record(meta shared.AgentMeta) {
	zap.S().Debugw("plan generated", "model", meta.Usage.Model, "tokens", meta.Usage.Total(), "latency", meta.Latency)
	if g.recorder == nil {
		return
	}
	if err := g.recorder.RecordMeta(meta); err != nil {
		zap.S().Warnw("failed to record plan metrics", "error", err)
	}
}

func buildPlanPrompt(goals []domain.Goal, user *domain.User) (string, error) {
	data := struct {
		Goals []domain.Goal
		User  *domain.User
	}{Goals: goals, User: user}

	var buf bytes.Buffer
	if err := promptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func checkMeals(meals []domain.Meal) error {
	if len(meals) == 0 {
		return fmt.Errorf("plan has no meals")
	}
	for _, m := range meals {
		switch m.Type {
		case domain.MealBreakfast, domain.MealLunch, domain.MealDinner, domain.MealSnack:
		default:
			return fmt.Errorf("meal %q has unknown type %q", m.Name, m.Type)
		}
		if m.Calories < 0 {
			return fmt.Errorf("meal %q has negative calories", m.Name)
		}
	}
	return nil
}

// extractJSON strips a markdown code fence some models wrap around JSON.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
