// Package sequence generates and persists budgeted task schedules: it turns a
// validated draft into a sequence row, its groups, one task instance per
// assigned template, and one pending completion per instance per active
// calendar day.
package sequence

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rivertonapps/famcoin/internal/allocation"
	"github.com/rivertonapps/famcoin/internal/model"
	"github.com/rivertonapps/famcoin/internal/period"
	"github.com/rivertonapps/famcoin/internal/schedule"
	"github.com/rivertonapps/famcoin/internal/store"
)

type Service struct {
	sequences *store.SequenceStore
	templates *store.TemplateStore
	children  *store.ChildStore
	settings  *store.SettingsStore
	logger    *slog.Logger
}

func NewService(sequences *store.SequenceStore, templates *store.TemplateStore, children *store.ChildStore, settings *store.SettingsStore, logger *slog.Logger) *Service {
	return &Service{
		sequences: sequences,
		templates: templates,
		children:  children,
		settings:  settings,
		logger:    logger,
	}
}

// HasActiveSequence reports whether the child has a non-terminal sequence.
func (s *Service) HasActiveSequence(childID int64) (bool, error) {
	seq, err := s.sequences.FindActiveByChild(childID)
	if err != nil {
		return false, err
	}
	return seq != nil, nil
}

// GuardCreate enforces the one-active-sequence-per-child invariant before a
// create. Never called on the update path; editing the active sequence is the
// sanctioned way around the guard.
func (s *Service) GuardCreate(childID int64) error {
	seq, err := s.sequences.FindActiveByChild(childID)
	if err != nil {
		return err
	}
	if seq != nil {
		return &ConflictError{ChildID: childID, SequenceID: seq.ID}
	}
	return nil
}

// Materialize validates the draft, computes the full sequence tree, and
// persists it in one transaction. A draft with IsEditing set replaces the
// existing sequence's tree wholesale; otherwise a new active sequence is
// created. Returns the sequence id.
func (s *Service) Materialize(d *Draft) (int64, error) {
	if err := Validate(d); err != nil {
		return 0, err
	}

	child, err := s.children.GetByID(d.ChildID)
	if err != nil {
		return 0, err
	}
	if child == nil {
		return 0, &NotFoundError{Entity: "child", ID: d.ChildID}
	}

	if d.IsEditing {
		existing, err := s.sequences.GetByID(d.EditingSequenceID)
		if err != nil {
			return 0, err
		}
		if existing == nil {
			return 0, &NotFoundError{Entity: "sequence", ID: d.EditingSequenceID}
		}
		// A sequence keeps its owner for life; completions are scoped to that
		// child and an edit must not re-home them.
		if existing.ChildID != d.ChildID {
			return 0, &ValidationError{Field: "child", Reason: "sequence belongs to a different child"}
		}
	}

	plan, err := s.buildPlan(d)
	if err != nil {
		return 0, err
	}

	if d.IsEditing {
		if err := s.sequences.ReplaceTree(d.EditingSequenceID, plan); err != nil {
			var stepErr *store.StepError
			if errors.As(err, &stepErr) && errors.Is(stepErr.Err, sql.ErrNoRows) {
				return 0, &NotFoundError{Entity: "sequence", ID: d.EditingSequenceID}
			}
			return 0, wrapPersistence(err)
		}
		s.logger.Info("sequence updated",
			"sequence_id", d.EditingSequenceID,
			"child_id", d.ChildID,
			"groups", len(plan.Groups),
			"budget_famcoins", plan.BudgetFamcoins,
		)
		return d.EditingSequenceID, nil
	}

	sequenceID, err := s.sequences.CreateTree(plan)
	if err != nil {
		return 0, wrapPersistence(err)
	}
	s.logger.Info("sequence created",
		"sequence_id", sequenceID,
		"child_id", d.ChildID,
		"period", plan.Period,
		"groups", len(plan.Groups),
		"budget_famcoins", plan.BudgetFamcoins,
	)
	return sequenceID, nil
}

// buildPlan computes the pure materialization plan: end date, coin value per
// completion, and each group's due-date calendar.
func (s *Service) buildPlan(d *Draft) (store.SequencePlan, error) {
	rate, err := s.settings.ConversionRate()
	if err != nil {
		return store.SequencePlan{}, fmt.Errorf("conversion rate: %w", err)
	}
	policyVal, err := s.settings.RemainderPolicy()
	if err != nil {
		return store.SequencePlan{}, fmt.Errorf("remainder policy: %w", err)
	}
	policy := allocation.ParsePolicy(policyVal)

	budgetFamcoins := allocation.FamcoinsForBudget(d.Settings.BudgetCurrency, rate)
	endDate := period.EndDate(d.Settings.StartDate, d.Settings.Period)
	weeks := period.Weeks(d.Settings.Period)

	// The allocator works on the weeks-based estimate, not the expanded
	// calendar: monthly groups budget against the 4.34-week average even when
	// the concrete month contains more or fewer active days.
	var loads []allocation.GroupLoad
	for _, g := range d.Groups {
		loads = append(loads, allocation.GroupLoad{
			Tasks:      len(d.AssignedTasks(g.ID)),
			ActiveDays: len(g.ActiveDays),
			Weeks:      weeks,
		})
	}
	alloc := allocation.Allocate(budgetFamcoins, allocation.TotalCompletions(loads), policy)

	templateIDs := make(map[int64]bool)
	for _, g := range d.Groups {
		for _, id := range d.AssignedTasks(g.ID) {
			templateIDs[id] = true
		}
	}
	ids := make([]int64, 0, len(templateIDs))
	for id := range templateIDs {
		ids = append(ids, id)
	}
	templates, err := s.templates.GetByIDs(ids)
	if err != nil {
		return store.SequencePlan{}, err
	}
	for _, id := range ids {
		if _, ok := templates[id]; !ok {
			return store.SequencePlan{}, &NotFoundError{Entity: "task_template", ID: id}
		}
	}

	plan := store.SequencePlan{
		ChildID:          d.ChildID,
		Period:           string(d.Settings.Period),
		StartDate:        d.Settings.StartDate,
		EndDate:          endDate,
		BudgetCurrency:   d.Settings.BudgetCurrency,
		CurrencyCode:     d.Settings.CurrencyCode,
		BudgetFamcoins:   budgetFamcoins,
		BonusCompletions: alloc.BonusCompletions,
	}

	for i, g := range d.Groups {
		gp := store.GroupPlan{
			Name:       g.Name,
			ActiveDays: g.ActiveDays,
			SortOrder:  i,
			DueDates:   schedule.Expand(d.Settings.StartDate, endDate, g.ActiveDays),
		}
		for _, templateID := range d.AssignedTasks(g.ID) {
			t := templates[templateID]
			gp.Instances = append(gp.Instances, store.InstancePlan{
				TemplateID:         t.ID,
				PhotoProofRequired: t.PhotoProofRequired,
				EffortScore:        t.EffortScore,
				FamcoinValue:       alloc.PerCompletion,
			})
		}
		plan.Groups = append(plan.Groups, gp)
	}
	return plan, nil
}

// LoadForEditing reconstructs a draft from a persisted sequence so the wizard
// can re-open it at the review step.
func (s *Service) LoadForEditing(sequenceID int64) (*Draft, error) {
	tree, err := s.sequences.GetTree(sequenceID)
	if err != nil {
		return nil, err
	}
	if tree == nil {
		return nil, &NotFoundError{Entity: "sequence", ID: sequenceID}
	}

	d := &Draft{
		ChildID: tree.Sequence.ChildID,
		Settings: DraftSettings{
			Period:         period.Kind(tree.Sequence.Period),
			StartDate:      tree.Sequence.StartDate,
			BudgetCurrency: tree.Sequence.BudgetCurrency,
			CurrencyCode:   tree.Sequence.CurrencyCode,
			BudgetFamcoins: tree.Sequence.BudgetFamcoins,
		},
		TaskAssignments:   make(map[string][]int64),
		IsEditing:         true,
		EditingSequenceID: sequenceID,
	}

	for _, gt := range tree.Groups {
		dg := DraftGroup{
			ID:         NewDraftGroupID(),
			Name:       gt.Group.Name,
			ActiveDays: gt.Group.ActiveDays,
		}
		d.Groups = append(d.Groups, dg)
		for _, inst := range gt.Instances {
			if inst.IsBonusTask {
				// Bonus tasks are added outside the wizard and are not part
				// of the editable draft.
				continue
			}
			d.TaskAssignments[dg.ID] = append(d.TaskAssignments[dg.ID], inst.TemplateID)
		}
	}
	return d, nil
}

// Get returns a persisted sequence, or a NotFoundError.
func (s *Service) Get(sequenceID int64) (*model.Sequence, error) {
	seq, err := s.sequences.GetByID(sequenceID)
	if err != nil {
		return nil, err
	}
	if seq == nil {
		return nil, &NotFoundError{Entity: "sequence", ID: sequenceID}
	}
	return seq, nil
}

func wrapPersistence(err error) error {
	var stepErr *store.StepError
	if errors.As(err, &stepErr) {
		return &PersistenceError{Step: stepErr.Step, Err: stepErr.Err}
	}
	return &PersistenceError{Step: "store", Err: err}
}
