// Package onboarding sequences first-time profile capture and goal selection
// and tracks which view of the application is active.
package onboarding

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"vitalplan/internal/domain"
)

// View is a top-level screen of the application.
type View string

const (
	ViewHome        View = "home"
	ViewProfile     View = "profile"
	ViewPlans       View = "plans"
	ViewMarketplace View = "marketplace"
	ViewScanner     View = "scanner"
	ViewOrders      View = "orders"
	ViewLogin       View = "login"
)

// Valid reports whether v names a known view.
func (v View) Valid() bool {
	switch v {
	case ViewHome, ViewProfile, ViewPlans, ViewMarketplace, ViewScanner, ViewOrders, ViewLogin:
		return true
	}
	return false
}

// Step is the onboarding progress. It only ever moves forward.
type Step int

const (
	StepProfile Step = iota
	StepGoals
	StepComplete
)

func (s Step) String() string {
	switch s {
	case StepProfile:
		return "profile"
	case StepGoals:
		return "goals"
	case StepComplete:
		return "complete"
	}
	return "unknown"
}

var (
	ErrNoGoalsSelected = errors.New("select at least one goal to continue")
	ErrGoalNotSelected = errors.New("goal is not selected")
	ErrUnknownView     = errors.New("unknown view")
	ErrProfileRequired = errors.New("save a profile before choosing goals")
)

// Machine holds the current view, the onboarding step and the goal
// selection. It is not safe for concurrent use; the owning store serialises
// access.
type Machine struct {
	view  View
	step  Step
	goals []domain.Goal
	newID func() string
}

// New returns a machine at Home, step 0.
func New() *Machine {
	return &Machine{
		view:  ViewHome,
		step:  StepProfile,
		newID: uuid.NewString,
	}
}

func (m *Machine) View() View { return m.view }
func (m *Machine) Step() Step { return m.step }

// Complete reports whether onboarding has finished.
func (m *Machine) Complete() bool { return m.step == StepComplete }

// EditOnly reports whether the profile view is shown without a continue
// action, which is the case once onboarding is complete.
func (m *Machine) EditOnly() bool {
	return m.view == ViewProfile && m.step == StepComplete
}

// GetStarted restarts onboarding at the profile form. The goal selection
// is kept so a returning user sees it preselected.
func (m *Machine) GetStarted() {
	m.view = ViewProfile
	m.step = StepProfile
}

// Navigate switches the active view without touching the onboarding step.
func (m *Machine) Navigate(target View) error {
	if !target.Valid() {
		return ErrUnknownView
	}
	m.view = target
	return nil
}

// Goals returns a copy of the selected goals in selection order.
func (m *Machine) Goals() []domain.Goal {
	out := make([]domain.Goal, len(m.goals))
	copy(out, m.goals)
	return out
}

// SetGoals replaces the selection wholesale, e.g. after loading from the backend.
func (m *Machine) SetGoals(goals []domain.Goal) {
	m.goals = make([]domain.Goal, len(goals))
	copy(m.goals, goals)
}

// SelectGoals replaces the selection with the requested goal types in the
// given order. A goal already selected keeps its id; a blank priority means
// medium. Duplicate types collapse onto the first occurrence. Nothing
// changes when any entry is invalid.
func (m *Machine) SelectGoals(requested []domain.Goal) error {
	current := make(map[domain.GoalType]domain.Goal, len(m.goals))
	for _, g := range m.goals {
		current[g.Type] = g
	}
	seen := make(map[domain.GoalType]bool, len(requested))
	out := make([]domain.Goal, 0, len(requested))
	for _, r := range requested {
		opt, ok := LookupGoal(r.Type)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownGoal, r.Type)
		}
		p := r.Priority
		if p == "" {
			p = domain.PriorityMedium
		}
		if !p.Valid() {
			return fmt.Errorf("%w: %s", ErrInvalidPriority, p)
		}
		if seen[r.Type] {
			continue
		}
		seen[r.Type] = true
		g, ok := current[r.Type]
		if !ok {
			g = domain.Goal{ID: m.newID(), Type: opt.Type, Title: opt.Title, Description: opt.Description}
		}
		g.Priority = p
		out = append(out, g)
	}
	m.goals = out
	return nil
}

// ToggleGoal selects the goal type with medium priority, or removes it if
// it is already selected.
func (m *Machine) ToggleGoal(t domain.GoalType) error {
	opt, ok := LookupGoal(t)
	if !ok {
		return ErrUnknownGoal
	}
	for i, g := range m.goals {
		if g.Type == t {
			m.goals = append(m.goals[:i:i], m.goals[i+1:]...)
			return nil
		}
	}
	m.goals = append(m.goals, domain.Goal{
		ID:          m.newID(),
		Type:        opt.Type,
		Title:       opt.Title,
		Description: opt.Description,
		Priority:    domain.PriorityMedium,
	})
	return nil
}

// SetPriority changes the priority of one selected goal.
func (m *Machine) SetPriority(t domain.GoalType, p domain.Priority) error {
	if !p.Valid() {
		return ErrInvalidPriority
	}
	for i := range m.goals {
		if m.goals[i].Type == t {
			m.goals[i].Priority = p
			return nil
		}
	}
	return ErrGoalNotSelected
}

// CanContinue reports whether the goal step may be left.
func (m *Machine) CanContinue() bool { return len(m.goals) > 0 }

// ContinueFromGoals completes onboarding and shows the plans view.
func (m *Machine) ContinueFromGoals() error {
	if m.step == StepProfile {
		return ErrProfileRequired
	}
	if !m.CanContinue() {
		return ErrNoGoalsSelected
	}
	m.step = StepComplete
	m.view = ViewPlans
	return nil
}

// profileSaved advances from step 0 to the goal step. Saving outside of
// step 0 keeps the step.
func (m *Machine) profileSaved() {
	if m.step == StepProfile {
		m.step = StepGoals
	}
}
