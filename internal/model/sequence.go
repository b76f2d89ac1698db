package model

import "time"

type SequenceStatus string

const (
	SequenceActive    SequenceStatus = "active"
	SequenceCompleted SequenceStatus = "completed"
	SequenceCancelled SequenceStatus = "cancelled"
)

type CompletionStatus string

const (
	CompletionPending  CompletionStatus = "pending"
	CompletionDone     CompletionStatus = "child_completed"
	CompletionApproved CompletionStatus = "parent_approved"
	CompletionRejected CompletionStatus = "parent_rejected"
)

// Sequence is a time-boxed, budgeted schedule of recurring tasks for one child.
type Sequence struct {
	ID             int64          `json:"id"`
	ChildID        int64          `json:"child_id"`
	Period         string         `json:"period"`
	StartDate      time.Time      `json:"start_date"`
	EndDate        time.Time      `json:"end_date"`
	BudgetCurrency float64        `json:"budget_currency"`
	CurrencyCode   string         `json:"currency_code"`
	BudgetFamcoins int            `json:"budget_famcoins"`
	Status         SequenceStatus `json:"status"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// SequenceGroup is a named subset of a sequence's tasks that share one
// weekly active-day pattern. ActiveDays uses 1=Monday..7=Sunday.
type SequenceGroup struct {
	ID         int64     `json:"id"`
	SequenceID int64     `json:"sequence_id"`
	Name       string    `json:"name"`
	ActiveDays []int     `json:"active_days"`
	SortOrder  int       `json:"sort_order"`
	CreatedAt  time.Time `json:"created_at"`
}

// TaskInstance is the sequence-scoped occurrence of a task template. It
// snapshots the template attributes needed for scoring so later catalog edits
// do not rewrite history.
type TaskInstance struct {
	ID                 int64     `json:"id"`
	GroupID            int64     `json:"group_id"`
	TemplateID         int64     `json:"template_id"`
	PhotoProofRequired bool      `json:"photo_proof_required"`
	EffortScore        int       `json:"effort_score"`
	FamcoinValue       int       `json:"famcoin_value"`
	IsBonusTask        bool      `json:"is_bonus_task"`
	CreatedAt          time.Time `json:"created_at"`
}

// TaskCompletion is one due-date occurrence of a task instance. The engine
// creates them pending with zero coins earned; the approval workflow fills in
// the rest.
type TaskCompletion struct {
	ID             int64            `json:"id"`
	InstanceID     int64            `json:"instance_id"`
	ChildID        int64            `json:"child_id"`
	DueDate        time.Time        `json:"due_date"`
	Status         CompletionStatus `json:"status"`
	FamcoinsEarned int              `json:"famcoins_earned"`
	// BonusFamcoins is the extra coin this completion carries when the
	// remainder policy hands leftover budget to the first N completions.
	BonusFamcoins int        `json:"bonus_famcoins"`
	CompletedAt   *time.Time `json:"completed_at"`
	CreatedAt     time.Time  `json:"created_at"`
}
