// Package progress derives read-side views over task completions: what a
// child owes on a given day and how their FAMCOIN tally for it stands.
// Everything here recomputes from rows on each call; the inputs are small and
// edited often, so there is nothing worth caching.
package progress

import (
	"time"

	"github.com/rivertonapps/famcoin/internal/model"
	"github.com/rivertonapps/famcoin/internal/store"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusOverdue   Status = "overdue"
	StatusCompleted Status = "completed"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

// EffectiveStatus folds the due date into a completion's stored status: a
// pending completion past its due day reads as overdue.
func EffectiveStatus(c model.TaskCompletion, today time.Time) Status {
	switch c.Status {
	case model.CompletionDone:
		return StatusCompleted
	case model.CompletionApproved:
		return StatusApproved
	case model.CompletionRejected:
		return StatusRejected
	}
	if startOfDay(c.DueDate).Before(startOfDay(today)) {
		return StatusOverdue
	}
	return StatusPending
}

// Item is one due completion with its derived status.
type Item struct {
	store.DueCompletion
	Status Status `json:"status"`
}

// DayOverview summarizes a child's slate for one calendar day.
type DayOverview struct {
	Date              time.Time `json:"date"`
	Items             []Item    `json:"items"`
	TotalDue          int       `json:"total_due"`
	Completed         int       `json:"completed"`
	Approved          int       `json:"approved"`
	FamcoinsAvailable int       `json:"famcoins_available"`
	FamcoinsEarned    int       `json:"famcoins_earned"`
}

// BuildDayOverview assembles the overview from the day's due completions.
func BuildDayOverview(date time.Time, due []store.DueCompletion, today time.Time) DayOverview {
	o := DayOverview{Date: startOfDay(date), TotalDue: len(due)}
	for _, d := range due {
		item := Item{DueCompletion: d, Status: EffectiveStatus(d.Completion, today)}
		o.Items = append(o.Items, item)

		o.FamcoinsAvailable += d.FamcoinValue + d.Completion.BonusFamcoins
		switch item.Status {
		case StatusCompleted:
			o.Completed++
		case StatusApproved:
			o.Completed++
			o.Approved++
			o.FamcoinsEarned += d.Completion.FamcoinsEarned
		}
	}
	return o
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
