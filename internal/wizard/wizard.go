// Package wizard drives the multi-step sequence builder: child, settings,
// groups, per-group task assignment, review. Forward navigation is gated on
// per-step validity; edit mode loads a complete draft and skips the gates.
package wizard

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/rivertonapps/famcoin/internal/sequence"
	"github.com/rivertonapps/famcoin/internal/store"
)

type Step int

const (
	StepSelectChild Step = iota
	StepSettings
	StepGroups
	StepTasks
	StepReview
)

var stepNames = map[Step]string{
	StepSelectChild: "select_child",
	StepSettings:    "settings",
	StepGroups:      "groups",
	StepTasks:       "tasks",
	StepReview:      "review",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Controller holds one wizard session. Sessions are persisted between
// requests as JSON keyed by a draft id, never as ambient global state.
type Controller struct {
	id     string
	draft  *sequence.Draft
	step   Step
	engine *sequence.Service
	drafts *store.DraftStore
	logger *slog.Logger
}

// session is the persisted shape of a controller.
type session struct {
	Draft sequence.Draft `json:"draft"`
	Step  Step           `json:"step"`
}

// New starts a fresh wizard session and persists it.
func New(engine *sequence.Service, drafts *store.DraftStore, logger *slog.Logger) (*Controller, error) {
	c := &Controller{
		id:     store.NewDraftID(),
		draft:  emptyDraft(),
		step:   StepSelectChild,
		engine: engine,
		drafts: drafts,
		logger: logger,
	}
	if err := c.save(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load resumes a persisted session. Returns nil when the session is unknown.
func Load(id string, engine *sequence.Service, drafts *store.DraftStore, logger *slog.Logger) (*Controller, error) {
	payload, err := drafts.Load(id)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, nil
	}

	var sess session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return nil, fmt.Errorf("decode draft %s: %w", id, err)
	}
	if sess.Draft.TaskAssignments == nil {
		sess.Draft.TaskAssignments = make(map[string][]int64)
	}
	return &Controller{
		id:     id,
		draft:  &sess.Draft,
		step:   sess.Step,
		engine: engine,
		drafts: drafts,
		logger: logger,
	}, nil
}

func emptyDraft() *sequence.Draft {
	return &sequence.Draft{TaskAssignments: make(map[string][]int64)}
}

func (c *Controller) ID() string             { return c.id }
func (c *Controller) Draft() *sequence.Draft { return c.draft }
func (c *Controller) Step() Step             { return c.step }

func (c *Controller) save() error {
	payload, err := json.Marshal(session{Draft: *c.draft, Step: c.step})
	if err != nil {
		return fmt.Errorf("encode draft %s: %w", c.id, err)
	}
	return c.drafts.Save(c.id, payload)
}

// stepValid reports whether one step's own predicate holds.
func (c *Controller) stepValid(step Step) bool {
	switch step {
	case StepSelectChild:
		return c.draft.HasChild()
	case StepSettings:
		return c.draft.HasSettings()
	case StepGroups:
		return c.draft.HasGroups()
	case StepTasks:
		return c.draft.HasTasks()
	case StepReview:
		return sequence.Validate(c.draft) == nil
	}
	return false
}

// CanEnter reports whether navigation into step is permitted: all prior steps
// must be valid. The gate is suspended entirely in edit mode, which loads an
// already-valid draft in one shot.
func (c *Controller) CanEnter(step Step) bool {
	if c.draft.IsEditing {
		return true
	}
	for prior := StepSelectChild; prior < step; prior++ {
		if !c.stepValid(prior) {
			return false
		}
	}
	return true
}

// Goto navigates to the requested step, snapping back to the first invalid
// prior step when the jump is not permitted. Returns the step landed on.
func (c *Controller) Goto(step Step) (Step, error) {
	if step < StepSelectChild {
		step = StepSelectChild
	}
	if step > StepReview {
		step = StepReview
	}

	landed := step
	if !c.draft.IsEditing {
		for prior := StepSelectChild; prior < step; prior++ {
			if !c.stepValid(prior) {
				landed = prior
				break
			}
		}
	}

	c.step = landed
	return landed, c.save()
}

// SelectChild records the target child. Refused in edit mode: an edited
// sequence keeps its owner.
func (c *Controller) SelectChild(childID int64) error {
	if c.draft.IsEditing {
		return &sequence.ValidationError{Field: "child", Reason: "cannot change the child of an existing sequence"}
	}
	c.draft.ChildID = childID
	return c.save()
}

// SetSettings records the period/budget settings.
func (c *Controller) SetSettings(settings sequence.DraftSettings) error {
	c.draft.Settings = settings
	return c.save()
}

// SetGroups replaces the draft's groups. Assignments for groups that no
// longer exist are dropped; groups without ids get draft-local ones.
func (c *Controller) SetGroups(groups []sequence.DraftGroup) error {
	for i := range groups {
		if groups[i].ID == "" {
			groups[i].ID = sequence.NewDraftGroupID()
		}
	}
	c.draft.Groups = groups

	keep := make(map[string]bool, len(groups))
	for _, g := range groups {
		keep[g.ID] = true
	}
	for id := range c.draft.TaskAssignments {
		if !keep[id] {
			delete(c.draft.TaskAssignments, id)
		}
	}
	return c.save()
}

// AssignTasks replaces one group's task assignment.
func (c *Controller) AssignTasks(groupID string, templateIDs []int64) error {
	found := false
	for _, g := range c.draft.Groups {
		if g.ID == groupID {
			found = true
			break
		}
	}
	if !found {
		return &sequence.ValidationError{Field: "task_assignments", Reason: "unknown group " + groupID}
	}
	c.draft.TaskAssignments[groupID] = templateIDs
	return c.save()
}

// LoadForEditing replaces the session's draft with one reconstructed from a
// persisted sequence and seeds the wizard at the review step.
func (c *Controller) LoadForEditing(sequenceID int64) error {
	draft, err := c.engine.LoadForEditing(sequenceID)
	if err != nil {
		return err
	}
	c.draft = draft
	c.step = StepReview
	return c.save()
}

// Submit materializes the draft. Create mode runs the active-sequence guard
// first and resets the session on success; edit mode skips the guard and only
// clears the editing flags, keeping the draft intact.
func (c *Controller) Submit() (int64, error) {
	if c.draft.IsEditing {
		sequenceID, err := c.engine.Materialize(c.draft)
		if err != nil {
			return 0, err
		}
		c.draft.IsEditing = false
		c.draft.EditingSequenceID = 0
		return sequenceID, c.save()
	}

	if err := c.engine.GuardCreate(c.draft.ChildID); err != nil {
		return 0, err
	}
	sequenceID, err := c.engine.Materialize(c.draft)
	if err != nil {
		return 0, err
	}

	c.logger.Info("wizard submitted", "draft_id", c.id, "sequence_id", sequenceID)
	return sequenceID, c.Reset()
}

// Reset returns the session to its initial empty state.
func (c *Controller) Reset() error {
	c.draft = emptyDraft()
	c.step = StepSelectChild
	return c.save()
}

// Discard deletes the persisted session.
func (c *Controller) Discard() error {
	return c.drafts.Delete(c.id)
}
