package progress

import (
	"testing"
	"time"

	"github.com/rivertonapps/famcoin/internal/model"
	"github.com/rivertonapps/famcoin/internal/store"
)

var (
	monday  = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	tuesday = monday.AddDate(0, 0, 1)
)

func TestEffectiveStatus(t *testing.T) {
	tests := []struct {
		name   string
		status model.CompletionStatus
		due    time.Time
		today  time.Time
		want   Status
	}{
		{"pending today", model.CompletionPending, monday, monday, StatusPending},
		{"pending future", model.CompletionPending, tuesday, monday, StatusPending},
		{"pending past due", model.CompletionPending, monday, tuesday, StatusOverdue},
		{"completed past due stays completed", model.CompletionDone, monday, tuesday, StatusCompleted},
		{"approved", model.CompletionApproved, monday, monday, StatusApproved},
		{"rejected", model.CompletionRejected, monday, monday, StatusRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := model.TaskCompletion{Status: tt.status, DueDate: tt.due}
			if got := EffectiveStatus(c, tt.today); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEffectiveStatusIgnoresTimeOfDay(t *testing.T) {
	// Due late Monday, checked early Monday: same day, still pending.
	c := model.TaskCompletion{
		Status:  model.CompletionPending,
		DueDate: monday.Add(23 * time.Hour),
	}
	if got := EffectiveStatus(c, monday.Add(time.Minute)); got != StatusPending {
		t.Errorf("got %q, want pending", got)
	}
}

func TestBuildDayOverview(t *testing.T) {
	due := []store.DueCompletion{
		{
			Completion:   model.TaskCompletion{Status: model.CompletionPending, DueDate: monday},
			TemplateName: "Make bed",
			FamcoinValue: 10,
		},
		{
			Completion: model.TaskCompletion{
				Status:         model.CompletionApproved,
				DueDate:        monday,
				FamcoinsEarned: 12,
				BonusFamcoins:  1,
			},
			TemplateName: "Feed dog",
			FamcoinValue: 11,
		},
		{
			Completion:   model.TaskCompletion{Status: model.CompletionDone, DueDate: monday},
			TemplateName: "Homework",
			FamcoinValue: 10,
		},
	}

	o := BuildDayOverview(monday, due, monday)

	if o.TotalDue != 3 {
		t.Errorf("total due = %d, want 3", o.TotalDue)
	}
	if o.Completed != 2 {
		t.Errorf("completed = %d, want 2 (child-completed plus approved)", o.Completed)
	}
	if o.Approved != 1 {
		t.Errorf("approved = %d, want 1", o.Approved)
	}
	// 10 + (11 + 1 bonus) + 10.
	if o.FamcoinsAvailable != 32 {
		t.Errorf("famcoins available = %d, want 32", o.FamcoinsAvailable)
	}
	if o.FamcoinsEarned != 12 {
		t.Errorf("famcoins earned = %d, want 12", o.FamcoinsEarned)
	}
	if len(o.Items) != 3 {
		t.Fatalf("items = %d, want 3", len(o.Items))
	}
	if o.Items[0].Status != StatusPending {
		t.Errorf("first item status = %q", o.Items[0].Status)
	}
}

func TestBuildDayOverviewEmpty(t *testing.T) {
	o := BuildDayOverview(monday, nil, monday)
	if o.TotalDue != 0 || o.FamcoinsAvailable != 0 || len(o.Items) != 0 {
		t.Errorf("empty day should be zeroed: %+v", o)
	}
	if !o.Date.Equal(monday) {
		t.Errorf("date = %v", o.Date)
	}
}
