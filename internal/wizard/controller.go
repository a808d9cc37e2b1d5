package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ms-event-setup/internal/addons"
	"ms-event-setup/internal/logger"
	"ms-event-setup/internal/models"
	"ms-event-setup/internal/schedule"
	"ms-event-setup/internal/tickets"

	"github.com/google/uuid"
)

var (
	ErrCannotRemoveLastSlot = errors.New("cannot remove last time slot")
	ErrSlotNotFound         = errors.New("time slot not found")
	ErrStepIncomplete       = errors.New("current step is incomplete")
	ErrNotAtConfirmation    = errors.New("wizard is not at the confirmation step")
	ErrAlreadyAtFirstStep   = errors.New("already at the first step")
)

// Launcher is the external publish collaborator: the single exit point
// for a completed configuration.
type Launcher interface {
	Launch(ctx context.Context, req models.LaunchRequest) (*models.LaunchResult, error)
}

// SlotPatch is a partial time-slot update. Nil fields are untouched;
// ClearEnd drops the end moment (flipping a slot to late does this).
type SlotPatch struct {
	Start    *time.Time
	End      *time.Time
	ClearEnd bool
	IsLate   *bool
}

// Controller owns the full state of one event-creation session and is
// its only writer. All operations run synchronously on the calling
// goroutine; every slot edit rematerializes the date set and reconciles
// ticket selections before returning.
type Controller struct {
	sessionID   string
	mode        models.EventMode
	event       models.EventDetails
	currentStep models.Step
	createdAt   time.Time

	slots       []models.TimeSlot
	scheduleErr error

	materializer *schedule.Materializer
	Tickets      *tickets.Catalog
	Addons       *addons.Catalog

	launcher Launcher
	log      *logger.Logger
}

// New starts a fresh wizard session: one editable slot, an empty ticket
// catalog, one placeholder addon row, positioned at the schedule step.
func New(mode models.EventMode, event models.EventDetails, maxScheduleDays int, launcher Launcher, log *logger.Logger) *Controller {
	c := &Controller{
		sessionID:    uuid.New().String(),
		mode:         mode,
		event:        event,
		currentStep:  models.StepSchedule,
		createdAt:    time.Now().UTC(),
		materializer: schedule.NewMaterializer(maxScheduleDays),
		Tickets:      tickets.NewCatalog(mode == models.ModeFree),
		launcher:     launcher,
		log:          log,
	}
	c.Addons = addons.NewCatalog(c.Tickets)
	c.Tickets.SetReconciler(c.Addons)
	c.slots = []models.TimeSlot{{SlotID: uuid.New().String()}}
	return c
}

// Restore rebuilds a controller from a persisted session state.
func Restore(state models.WizardState, maxScheduleDays int, launcher Launcher, log *logger.Logger) *Controller {
	c := &Controller{
		sessionID:    state.SessionID,
		mode:         state.Mode,
		event:        state.Event,
		currentStep:  state.CurrentStep,
		createdAt:    state.CreatedAt,
		materializer: schedule.NewMaterializer(maxScheduleDays),
		Tickets:      tickets.NewCatalog(state.Mode == models.ModeFree),
		launcher:     launcher,
		log:          log,
	}
	c.Addons = addons.NewCatalog(c.Tickets)
	c.Tickets.SetReconciler(c.Addons)
	c.slots = append([]models.TimeSlot(nil), state.Slots...)
	if len(c.slots) == 0 {
		c.slots = []models.TimeSlot{{SlotID: uuid.New().String()}}
	}
	c.Tickets.Restore(state.Tickets)
	c.Addons.Restore(state.Addons)
	c.rematerialize()
	return c
}

func (c *Controller) SessionID() string { return c.sessionID }

func (c *Controller) Mode() models.EventMode { return c.mode }

func (c *Controller) CurrentStep() models.Step { return c.currentStep }

func (c *Controller) MaterializedDates() []models.Date { return c.Tickets.MaterializedDates() }

// State snapshots the session for persistence. Backward navigation
// reloads committed drafts from exactly this structure.
func (c *Controller) State() models.WizardState {
	return models.WizardState{
		SessionID:   c.sessionID,
		Mode:        c.mode,
		Event:       c.event,
		CurrentStep: c.currentStep,
		Slots:       append([]models.TimeSlot(nil), c.slots...),
		Tickets:     c.Tickets.List(),
		Addons:      c.Addons.List(),
		CreatedAt:   c.createdAt,
	}
}

// ---------------- SCHEDULE ----------------

func (c *Controller) Slots() []models.TimeSlot {
	return append([]models.TimeSlot(nil), c.slots...)
}

func (c *Controller) AddSlot() models.TimeSlot {
	slot := models.TimeSlot{SlotID: uuid.New().String()}
	c.slots = append(c.slots, slot)
	// A blank slot is incomplete and cannot change the date set.
	return slot
}

func (c *Controller) UpdateSlot(id string, patch SlotPatch) (*models.TimeSlot, error) {
	idx := -1
	for i := range c.slots {
		if c.slots[i].SlotID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("slot %s: %w", id, ErrSlotNotFound)
	}

	slot := c.slots[idx]
	if patch.Start != nil {
		start := *patch.Start
		slot.Start = &start
	}
	if patch.ClearEnd {
		slot.End = nil
	} else if patch.End != nil {
		end := *patch.End
		slot.End = &end
	}
	if patch.IsLate != nil {
		slot.IsLate = *patch.IsLate
		if slot.IsLate {
			slot.End = nil
		}
	}
	if err := schedule.ValidateSlot(slot); err != nil {
		return nil, err
	}

	c.slots[idx] = slot
	c.rematerialize()
	updated := slot
	return &updated, nil
}

func (c *Controller) RemoveSlot(id string) error {
	idx := -1
	for i := range c.slots {
		if c.slots[i].SlotID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("slot %s: %w", id, ErrSlotNotFound)
	}
	if len(c.slots) == 1 {
		return ErrCannotRemoveLastSlot
	}
	c.slots = append(c.slots[:idx], c.slots[idx+1:]...)
	c.rematerialize()
	return nil
}

// rematerialize recomputes the date set and reconciles every ticket's
// selection in the same call, so no read can interleave between a slot
// edit and the cleanup it requires.
func (c *Controller) rematerialize() {
	dates, err := c.materializer.Materialize(c.slots)
	c.scheduleErr = err
	if err != nil {
		if c.log != nil {
			c.log.Warn("SCHEDULE", fmt.Sprintf("session %s: %v", c.sessionID, err))
		}
		dates = nil
	}
	c.Tickets.ReconcileDates(dates)
}

// ---------------- GATING ----------------

// StepStatus is the read-only completeness signal for one step.
func (c *Controller) StepStatus(step models.Step) models.StepStatus {
	status := models.StepStatus{Step: step, Complete: true}

	switch step {
	case models.StepSchedule:
		if c.scheduleErr != nil {
			status.Blockers = append(status.Blockers, c.scheduleErr.Error())
		}
		complete := 0
		for _, slot := range c.slots {
			if slot.IsComplete() {
				complete++
			}
		}
		if complete == 0 {
			status.Blockers = append(status.Blockers, "at least one complete time slot is required")
		}

	case models.StepTickets:
		if len(c.Tickets.MaterializedDates()) == 0 {
			status.Blockers = append(status.Blockers, "no event dates available: complete the schedule first")
		}
		list := c.Tickets.List()
		if len(list) == 0 {
			status.Blockers = append(status.Blockers, "at least one ticket type is required")
		}
		for _, t := range list {
			for _, b := range c.Tickets.Blockers(t) {
				status.Blockers = append(status.Blockers, fmt.Sprintf("ticket %q: %s", t.Name, b))
			}
			status.Warnings = append(status.Warnings, c.Tickets.Warnings(t)...)
		}

	case models.StepAddons:
		for i, a := range c.Addons.List() {
			if !addons.IsBlocking(a) {
				continue
			}
			for _, b := range addons.Blockers(a) {
				status.Blockers = append(status.Blockers, fmt.Sprintf("addon %d: %s", i+1, b))
			}
		}

	case models.StepConfirmation:
		// Terminal step: nothing left to complete.
	}

	status.Complete = len(status.Blockers) == 0
	return status
}

// Next advances the wizard one step if the current step's gating
// predicate passes. No forward skipping.
func (c *Controller) Next() error {
	status := c.StepStatus(c.currentStep)
	if !status.Complete {
		return fmt.Errorf("%w: %s", ErrStepIncomplete, status.Blockers[0])
	}
	next := c.currentStep.NextStep()
	if next == c.currentStep {
		return nil
	}
	if c.log != nil {
		c.log.LogWizard(c.sessionID, string(next), "advanced")
	}
	c.currentStep = next
	return nil
}

// Back navigates to the previous step. Always allowed; the committed
// draft for that step is whatever State() holds.
func (c *Controller) Back() error {
	prev := c.currentStep.PrevStep()
	if prev == c.currentStep {
		return ErrAlreadyAtFirstStep
	}
	c.currentStep = prev
	return nil
}
