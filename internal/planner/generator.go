// Package planner produces diet plans, either from a static catalog with
// simulated latency or from a language model.
package planner

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"vitalplan/internal/domain"
	"vitalplan/internal/shared"
)

// DefaultLatency is the simulated processing time of the mock generator.
const DefaultLatency = 2 * time.Second

// Generator builds a diet plan for the selected goals. user may be nil.
type Generator interface {
	Generate(ctx context.Context, goals []domain.Goal, user *domain.User) (domain.DietPlan, error)
}

// MetaRecorder receives execution metadata after each generation.
type MetaRecorder interface {
	RecordMeta(meta shared.AgentMeta) error
}

// Finalize recomputes the derived totals of a plan from its meals.
func Finalize(plan domain.DietPlan) domain.DietPlan {
	plan.TotalCalories = 0
	plan.Macros = domain.Macros{}
	for _, m := range plan.Meals {
		plan.TotalCalories += m.Calories
		plan.Macros = plan.Macros.Add(m.Macros)
	}
	return plan
}

// MockGenerator returns a plan built from the static catalog after a fixed
// delay. Goal content does not influence the meals.
type MockGenerator struct {
	latency time.Duration
	now     func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

// MockOption configures a MockGenerator.
type MockOption func(*MockGenerator)

// WithLatency overrides the simulated delay.
func WithLatency(d time.Duration) MockOption {
	return func(g *MockGenerator) { g.latency = d }
}

// WithRand makes meal selection reproducible.
func WithRand(r *rand.Rand) MockOption {
	return func(g *MockGenerator) { g.rnd = r }
}

// WithClock overrides the generation timestamp source.
func WithClock(now func() time.Time) MockOption {
	return func(g *MockGenerator) { g.now = now }
}

func NewMockGenerator(opts ...MockOption) *MockGenerator {
	g := &MockGenerator{
		latency: DefaultLatency,
		now:     time.Now,
		rnd:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate waits for the configured latency, then picks one meal per meal
// type. It returns ctx.Err() if the context ends first.
func (g *MockGenerator) Generate(ctx context.Context, goals []domain.Goal, user *domain.User) (domain.DietPlan, error) {
	if err := shared.Sleep(ctx, g.latency); err != nil {
		return domain.DietPlan{}, err
	}

	meals := make([]domain.Meal, 0, len(domain.MealTypes))
	g.mu.Lock()
	for _, t := range domain.MealTypes {
		options := mealsOfType(t)
		meals = append(meals, cloneMeal(options[g.rnd.IntN(len(options))]))
	}
	g.mu.Unlock()

	plan := domain.DietPlan{
		ID:          "plan-" + uuid.NewString(),
		Goals:       append([]domain.Goal(nil), goals...),
		Meals:       meals,
		Supplements: Supplements(),
		GeneratedAt: g.now(),
	}
	if user != nil {
		plan.UserID = user.ID
	}
	return Finalize(plan), nil
}
