package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rivertonapps/famcoin/internal/model"
	"github.com/rivertonapps/famcoin/internal/schedule"
)

// StepError reports which persistence step inside a multi-step write failed.
// The whole write runs in one transaction, so a StepError means nothing was
// committed.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// SequencePlan is a fully computed sequence tree ready to persist. The engine
// builds it; the store writes it atomically.
type SequencePlan struct {
	ChildID        int64
	Period         string
	StartDate      time.Time
	EndDate        time.Time
	BudgetCurrency float64
	CurrencyCode   string
	BudgetFamcoins int
	// BonusCompletions is how many completions, in insertion order, carry one
	// extra coin. Zero under the default unallocated-remainder policy.
	BonusCompletions int
	Groups           []GroupPlan
}

// GroupPlan carries one group's instances and the due dates every instance in
// the group shares.
type GroupPlan struct {
	Name       string
	ActiveDays []int
	SortOrder  int
	Instances  []InstancePlan
	DueDates   []time.Time
}

type InstancePlan struct {
	TemplateID         int64
	PhotoProofRequired bool
	EffortScore        int
	FamcoinValue       int
}

type SequenceStore struct {
	db *sql.DB
}

func NewSequenceStore(db *sql.DB) *SequenceStore {
	return &SequenceStore{db: db}
}

func scanSequence(scanner interface{ Scan(...any) error }) (*model.Sequence, error) {
	var s model.Sequence
	err := scanner.Scan(
		&s.ID, &s.ChildID, &s.Period, &s.StartDate, &s.EndDate,
		&s.BudgetCurrency, &s.CurrencyCode, &s.BudgetFamcoins, &s.Status,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

const sequenceCols = `id, child_id, period, start_date, end_date, budget_currency, currency_code, budget_famcoins, status, created_at, updated_at`

func (s *SequenceStore) GetByID(id int64) (*model.Sequence, error) {
	row := s.db.QueryRow(`SELECT `+sequenceCols+` FROM sequences WHERE id = ?`, id)
	seq, err := scanSequence(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get sequence: %w", err)
	}
	return seq, nil
}

func (s *SequenceStore) ListByChild(childID int64) ([]model.Sequence, error) {
	rows, err := s.db.Query(
		`SELECT `+sequenceCols+` FROM sequences WHERE child_id = ? ORDER BY start_date DESC`,
		childID,
	)
	if err != nil {
		return nil, fmt.Errorf("list sequences: %w", err)
	}
	defer rows.Close()

	var sequences []model.Sequence
	for rows.Next() {
		seq, err := scanSequence(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sequence: %w", err)
		}
		sequences = append(sequences, *seq)
	}
	return sequences, rows.Err()
}

// FindActiveByChild returns the child's active sequence, or nil when none
// exists. The at-most-one-active invariant is advisory; if it is ever
// violated the newest sequence wins.
func (s *SequenceStore) FindActiveByChild(childID int64) (*model.Sequence, error) {
	row := s.db.QueryRow(
		`SELECT `+sequenceCols+` FROM sequences WHERE child_id = ? AND status = ? ORDER BY created_at DESC LIMIT 1`,
		childID, model.SequenceActive,
	)
	seq, err := scanSequence(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find active sequence: %w", err)
	}
	return seq, nil
}

func (s *SequenceStore) UpdateStatus(id int64, status model.SequenceStatus) (*model.Sequence, error) {
	_, err := s.db.Exec(
		`UPDATE sequences SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update sequence status: %w", err)
	}
	return s.GetByID(id)
}

// CreateTree inserts a sequence and its full group/instance/completion tree in
// one transaction, returning the new sequence id.
func (s *SequenceStore) CreateTree(plan SequencePlan) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, &StepError{Step: "begin", Err: err}
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO sequences (child_id, period, start_date, end_date, budget_currency, currency_code, budget_famcoins, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		plan.ChildID, plan.Period, plan.StartDate.UTC(), plan.EndDate.UTC(),
		plan.BudgetCurrency, plan.CurrencyCode, plan.BudgetFamcoins, model.SequenceActive,
	)
	if err != nil {
		return 0, &StepError{Step: "insert sequence", Err: err}
	}
	sequenceID, err := result.LastInsertId()
	if err != nil {
		return 0, &StepError{Step: "insert sequence", Err: err}
	}

	if err := insertGroups(tx, sequenceID, plan); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, &StepError{Step: "commit", Err: err}
	}
	return sequenceID, nil
}

// ReplaceTree updates the sequence row and swaps its entire group tree for the
// plan's, in one transaction. A failure anywhere rolls the whole swap back, so
// the sequence never ends up with zero groups.
func (s *SequenceStore) ReplaceTree(sequenceID int64, plan SequencePlan) error {
	tx, err := s.db.Begin()
	if err != nil {
		return &StepError{Step: "begin", Err: err}
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`UPDATE sequences SET period = ?, start_date = ?, end_date = ?, budget_currency = ?, currency_code = ?, budget_famcoins = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		plan.Period, plan.StartDate.UTC(), plan.EndDate.UTC(),
		plan.BudgetCurrency, plan.CurrencyCode, plan.BudgetFamcoins, sequenceID,
	)
	if err != nil {
		return &StepError{Step: "update sequence", Err: err}
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return &StepError{Step: "update sequence", Err: err}
	}
	if affected == 0 {
		return &StepError{Step: "update sequence", Err: sql.ErrNoRows}
	}

	// Cascade removes the old instances and completions with their groups.
	if _, err := tx.Exec(`DELETE FROM sequence_groups WHERE sequence_id = ?`, sequenceID); err != nil {
		return &StepError{Step: "delete groups", Err: err}
	}

	if err := insertGroups(tx, sequenceID, plan); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return &StepError{Step: "commit", Err: err}
	}
	return nil
}

func insertGroups(tx *sql.Tx, sequenceID int64, plan SequencePlan) error {
	bonusLeft := plan.BonusCompletions
	for _, g := range plan.Groups {
		result, err := tx.Exec(
			`INSERT INTO sequence_groups (sequence_id, name, active_days, sort_order) VALUES (?, ?, ?, ?)`,
			sequenceID, g.Name, schedule.FormatDays(g.ActiveDays), g.SortOrder,
		)
		if err != nil {
			return &StepError{Step: "insert group", Err: err}
		}
		groupID, err := result.LastInsertId()
		if err != nil {
			return &StepError{Step: "insert group", Err: err}
		}

		for _, inst := range g.Instances {
			result, err := tx.Exec(
				`INSERT INTO task_instances (group_id, template_id, photo_proof_required, effort_score, famcoin_value, is_bonus_task)
				 VALUES (?, ?, ?, ?, ?, 0)`,
				groupID, inst.TemplateID, inst.PhotoProofRequired, inst.EffortScore, inst.FamcoinValue,
			)
			if err != nil {
				return &StepError{Step: "insert instance", Err: err}
			}
			instanceID, err := result.LastInsertId()
			if err != nil {
				return &StepError{Step: "insert instance", Err: err}
			}

			for _, due := range g.DueDates {
				bonus := 0
				if bonusLeft > 0 {
					bonus = 1
					bonusLeft--
				}
				if _, err := tx.Exec(
					`INSERT INTO task_completions (instance_id, child_id, due_date, status, famcoins_earned, bonus_famcoins)
					 VALUES (?, ?, ?, ?, 0, ?)`,
					instanceID, plan.ChildID, due.UTC(), model.CompletionPending, bonus,
				); err != nil {
					return &StepError{Step: "insert completion", Err: err}
				}
			}
		}
	}
	return nil
}

// SequenceTree is a sequence with its groups and each group's instances,
// loaded for editing or display.
type SequenceTree struct {
	Sequence model.Sequence
	Groups   []GroupTree
}

type GroupTree struct {
	Group     model.SequenceGroup
	Instances []model.TaskInstance
}

// GetTree loads the full sequence tree, or nil when the sequence is gone.
func (s *SequenceStore) GetTree(sequenceID int64) (*SequenceTree, error) {
	seq, err := s.GetByID(sequenceID)
	if err != nil {
		return nil, err
	}
	if seq == nil {
		return nil, nil
	}

	groups, err := s.ListGroups(sequenceID)
	if err != nil {
		return nil, err
	}

	tree := &SequenceTree{Sequence: *seq}
	for _, g := range groups {
		instances, err := s.ListInstances(g.ID)
		if err != nil {
			return nil, err
		}
		tree.Groups = append(tree.Groups, GroupTree{Group: g, Instances: instances})
	}
	return tree, nil
}

func (s *SequenceStore) ListGroups(sequenceID int64) ([]model.SequenceGroup, error) {
	rows, err := s.db.Query(
		`SELECT id, sequence_id, name, active_days, sort_order, created_at FROM sequence_groups WHERE sequence_id = ? ORDER BY sort_order ASC, id ASC`,
		sequenceID,
	)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	var groups []model.SequenceGroup
	for rows.Next() {
		var g model.SequenceGroup
		var days string
		if err := rows.Scan(&g.ID, &g.SequenceID, &g.Name, &days, &g.SortOrder, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		g.ActiveDays, err = schedule.ParseDays(days)
		if err != nil {
			return nil, fmt.Errorf("group %d active days: %w", g.ID, err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

const instanceCols = `id, group_id, template_id, photo_proof_required, effort_score, famcoin_value, is_bonus_task, created_at`

func (s *SequenceStore) ListInstances(groupID int64) ([]model.TaskInstance, error) {
	rows, err := s.db.Query(
		`SELECT `+instanceCols+` FROM task_instances WHERE group_id = ? ORDER BY id ASC`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("list instances: %w", err)
	}
	defer rows.Close()

	var instances []model.TaskInstance
	for rows.Next() {
		var inst model.TaskInstance
		if err := rows.Scan(
			&inst.ID, &inst.GroupID, &inst.TemplateID, &inst.PhotoProofRequired,
			&inst.EffortScore, &inst.FamcoinValue, &inst.IsBonusTask, &inst.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan instance: %w", err)
		}
		instances = append(instances, inst)
	}
	return instances, rows.Err()
}

const completionCols = `id, instance_id, child_id, due_date, status, famcoins_earned, bonus_famcoins, completed_at, created_at`

func scanCompletion(scanner interface{ Scan(...any) error }) (*model.TaskCompletion, error) {
	var c model.TaskCompletion
	var completedAt sql.NullTime
	err := scanner.Scan(
		&c.ID, &c.InstanceID, &c.ChildID, &c.DueDate, &c.Status,
		&c.FamcoinsEarned, &c.BonusFamcoins, &completedAt, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		c.CompletedAt = &completedAt.Time
	}
	return &c, nil
}

func (s *SequenceStore) ListCompletionsByInstance(instanceID int64) ([]model.TaskCompletion, error) {
	rows, err := s.db.Query(
		`SELECT `+completionCols+` FROM task_completions WHERE instance_id = ? ORDER BY due_date ASC`,
		instanceID,
	)
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	defer rows.Close()

	var completions []model.TaskCompletion
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		completions = append(completions, *c)
	}
	return completions, rows.Err()
}

// CountCompletions returns how many completion rows exist under a sequence.
func (s *SequenceStore) CountCompletions(sequenceID int64) (int, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM task_completions tc
		 JOIN task_instances ti ON ti.id = tc.instance_id
		 JOIN sequence_groups sg ON sg.id = ti.group_id
		 WHERE sg.sequence_id = ?`,
		sequenceID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count completions: %w", err)
	}
	return count, nil
}

// DueCompletion is a completion joined with the context a client renders.
type DueCompletion struct {
	Completion         model.TaskCompletion `json:"completion"`
	TemplateName       string               `json:"template_name"`
	GroupName          string               `json:"group_name"`
	FamcoinValue       int                  `json:"famcoin_value"`
	PhotoProofRequired bool                 `json:"photo_proof_required"`
}

// ListDueForChild returns the completions due for a child on one calendar day,
// with template and group context.
func (s *SequenceStore) ListDueForChild(childID int64, day time.Time) ([]DueCompletion, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	rows, err := s.db.Query(
		`SELECT tc.id, tc.instance_id, tc.child_id, tc.due_date, tc.status, tc.famcoins_earned, tc.bonus_famcoins, tc.completed_at, tc.created_at,
		        tt.name, sg.name, ti.famcoin_value, ti.photo_proof_required
		 FROM task_completions tc
		 JOIN task_instances ti ON ti.id = tc.instance_id
		 JOIN sequence_groups sg ON sg.id = ti.group_id
		 JOIN task_templates tt ON tt.id = ti.template_id
		 WHERE tc.child_id = ? AND tc.due_date >= ? AND tc.due_date < ?
		 ORDER BY sg.sort_order ASC, tt.name ASC`,
		childID, dayStart, dayEnd,
	)
	if err != nil {
		return nil, fmt.Errorf("list due completions: %w", err)
	}
	defer rows.Close()

	var due []DueCompletion
	for rows.Next() {
		var d DueCompletion
		var completedAt sql.NullTime
		if err := rows.Scan(
			&d.Completion.ID, &d.Completion.InstanceID, &d.Completion.ChildID,
			&d.Completion.DueDate, &d.Completion.Status, &d.Completion.FamcoinsEarned,
			&d.Completion.BonusFamcoins, &completedAt, &d.Completion.CreatedAt,
			&d.TemplateName, &d.GroupName, &d.FamcoinValue, &d.PhotoProofRequired,
		); err != nil {
			return nil, fmt.Errorf("scan due completion: %w", err)
		}
		if completedAt.Valid {
			d.Completion.CompletedAt = &completedAt.Time
		}
		due = append(due, d)
	}
	return due, rows.Err()
}
