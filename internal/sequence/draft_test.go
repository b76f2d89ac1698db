package sequence

import (
	"errors"
	"testing"
	"time"

	"github.com/rivertonapps/famcoin/internal/period"
)

func validDraft() *Draft {
	g := DraftGroup{ID: NewDraftGroupID(), Name: "Morning", ActiveDays: []int{1, 3, 5}}
	return &Draft{
		ChildID: 1,
		Settings: DraftSettings{
			Period:         period.Weekly,
			StartDate:      time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
			BudgetCurrency: 10,
			CurrencyCode:   "USD",
		},
		Groups:          []DraftGroup{g},
		TaskAssignments: map[string][]int64{g.ID: {1}},
	}
}

func TestValidateAcceptsCompleteDraft(t *testing.T) {
	if err := Validate(validDraft()); err != nil {
		t.Fatalf("valid draft rejected: %v", err)
	}
}

func TestValidateFirstViolation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Draft)
		field  string
	}{
		{"no child", func(d *Draft) { d.ChildID = 0 }, "child"},
		{"bad period", func(d *Draft) { d.Settings.Period = "daily" }, "settings.period"},
		{"no start date", func(d *Draft) { d.Settings.StartDate = time.Time{} }, "settings.start_date"},
		{"zero budget", func(d *Draft) { d.Settings.BudgetCurrency = 0 }, "settings.budget"},
		{"no groups", func(d *Draft) { d.Groups = nil }, "groups"},
		{"blank name", func(d *Draft) { d.Groups[0].Name = "  " }, "groups.name"},
		{"no active days", func(d *Draft) { d.Groups[0].ActiveDays = nil }, "groups.active_days"},
		{"day out of range", func(d *Draft) { d.Groups[0].ActiveDays = []int{8} }, "groups.active_days"},
		{"no tasks", func(d *Draft) { d.TaskAssignments = map[string][]int64{} }, "task_assignments"},
		{"editing without id", func(d *Draft) { d.IsEditing = true }, "editing_sequence_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(d)
			err := Validate(d)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("field = %q, want %q", verr.Field, tt.field)
			}
		})
	}
}

func TestValidateDuplicateGroupNames(t *testing.T) {
	d := validDraft()
	dup := DraftGroup{ID: NewDraftGroupID(), Name: "morning", ActiveDays: []int{2}}
	d.Groups = append(d.Groups, dup)
	d.TaskAssignments[dup.ID] = []int64{1}

	err := Validate(d)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "groups.name" {
		t.Errorf("field = %q, want groups.name", verr.Field)
	}
}

func TestAssignedTasksDeduplicates(t *testing.T) {
	d := validDraft()
	gid := d.Groups[0].ID
	d.TaskAssignments[gid] = []int64{3, 1, 3, 2, 1}

	got := d.AssignedTasks(gid)
	want := []int64{3, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v (first occurrence order)", got, want)
			break
		}
	}
}

func TestStepPredicates(t *testing.T) {
	d := &Draft{TaskAssignments: map[string][]int64{}}
	if d.HasChild() || d.HasSettings() || d.HasGroups() || d.HasTasks() {
		t.Error("empty draft should satisfy no step")
	}

	full := validDraft()
	if !full.HasChild() || !full.HasSettings() || !full.HasGroups() || !full.HasTasks() {
		t.Error("complete draft should satisfy every step")
	}
}
