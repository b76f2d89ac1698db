package sequence

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rivertonapps/famcoin/internal/period"
)

// DraftSettings is the period/budget half of a draft.
type DraftSettings struct {
	Period         period.Kind `json:"period"`
	StartDate      time.Time   `json:"start_date"`
	BudgetCurrency float64     `json:"budget_currency"`
	CurrencyCode   string      `json:"currency_code"`
	// BudgetFamcoins is the display-side derived coin count. The engine
	// recomputes it from the configured rate at materialization.
	BudgetFamcoins int `json:"budget_famcoins"`
}

// DraftGroup is a group under construction. The ID is draft-local and
// temporary; persisted groups get fresh row ids.
type DraftGroup struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ActiveDays []int  `json:"active_days"`
}

// NewDraftGroupID mints a draft-local group id.
func NewDraftGroupID() string {
	return uuid.NewString()
}

// Draft is the wizard's in-progress sequence, mutable until submission.
type Draft struct {
	ChildID         int64              `json:"child_id"`
	Settings        DraftSettings      `json:"settings"`
	Groups          []DraftGroup       `json:"groups"`
	TaskAssignments map[string][]int64 `json:"task_assignments"`

	IsEditing         bool  `json:"is_editing"`
	EditingSequenceID int64 `json:"editing_sequence_id"`
}

// AssignedTasks returns the deduplicated task template ids for a group.
func (d *Draft) AssignedTasks(groupID string) []int64 {
	seen := make(map[int64]bool)
	var ids []int64
	for _, id := range d.TaskAssignments[groupID] {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

// HasChild reports whether the child step is complete.
func (d *Draft) HasChild() bool {
	return d.ChildID > 0
}

// HasSettings reports whether the settings step is complete: a known period,
// a start date, and a positive budget.
func (d *Draft) HasSettings() bool {
	return period.Valid(d.Settings.Period) &&
		!d.Settings.StartDate.IsZero() &&
		d.Settings.BudgetCurrency > 0
}

// HasGroups reports whether the groups step is complete: at least one group,
// each named uniquely and with at least one active day.
func (d *Draft) HasGroups() bool {
	if len(d.Groups) == 0 {
		return false
	}
	names := make(map[string]bool)
	for _, g := range d.Groups {
		name := strings.TrimSpace(g.Name)
		if name == "" || names[strings.ToLower(name)] || len(g.ActiveDays) == 0 {
			return false
		}
		names[strings.ToLower(name)] = true
	}
	return true
}

// HasTasks reports whether every group has at least one assigned task.
func (d *Draft) HasTasks() bool {
	if len(d.Groups) == 0 {
		return false
	}
	for _, g := range d.Groups {
		if len(d.AssignedTasks(g.ID)) == 0 {
			return false
		}
	}
	return true
}

// Validate checks the full submission invariant and returns the first
// violation as a ValidationError.
func Validate(d *Draft) error {
	if !d.HasChild() {
		return &ValidationError{Field: "child", Reason: "no child selected"}
	}
	if !period.Valid(d.Settings.Period) {
		return &ValidationError{Field: "settings.period", Reason: "unknown period kind"}
	}
	if d.Settings.StartDate.IsZero() {
		return &ValidationError{Field: "settings.start_date", Reason: "start date not set"}
	}
	if d.Settings.BudgetCurrency <= 0 {
		return &ValidationError{Field: "settings.budget", Reason: "budget must be positive"}
	}
	if len(d.Groups) == 0 {
		return &ValidationError{Field: "groups", Reason: "at least one group is required"}
	}

	names := make(map[string]bool)
	for _, g := range d.Groups {
		name := strings.TrimSpace(g.Name)
		if name == "" {
			return &ValidationError{Field: "groups.name", Reason: "group name is empty"}
		}
		if names[strings.ToLower(name)] {
			return &ValidationError{Field: "groups.name", Reason: "duplicate group name " + name}
		}
		names[strings.ToLower(name)] = true

		if len(g.ActiveDays) == 0 {
			return &ValidationError{Field: "groups.active_days", Reason: "group " + name + " has no active days"}
		}
		for _, day := range g.ActiveDays {
			if day < 1 || day > 7 {
				return &ValidationError{Field: "groups.active_days", Reason: "group " + name + " has weekday outside 1..7"}
			}
		}
		if len(d.AssignedTasks(g.ID)) == 0 {
			return &ValidationError{Field: "task_assignments", Reason: "group " + name + " has no tasks"}
		}
	}

	if d.IsEditing && d.EditingSequenceID <= 0 {
		return &ValidationError{Field: "editing_sequence_id", Reason: "editing without a sequence id"}
	}
	return nil
}
