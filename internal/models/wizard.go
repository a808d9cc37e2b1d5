package models

import "time"

// Step is one screen of the event-creation wizard, in forward order.
type Step string

const (
	StepSchedule     Step = "schedule"
	StepTickets      Step = "tickets"
	StepAddons       Step = "addons"
	StepConfirmation Step = "confirmation"
)

var stepOrder = []Step{StepSchedule, StepTickets, StepAddons, StepConfirmation}

// Index returns the step's position in the forward order, or -1.
func (s Step) Index() int {
	for i, step := range stepOrder {
		if step == s {
			return i
		}
	}
	return -1
}

// NextStep returns the following step, or the step itself if terminal.
func (s Step) NextStep() Step {
	i := s.Index()
	if i < 0 || i == len(stepOrder)-1 {
		return s
	}
	return stepOrder[i+1]
}

// PrevStep returns the preceding step, or the step itself if first.
func (s Step) PrevStep() Step {
	i := s.Index()
	if i <= 0 {
		return s
	}
	return stepOrder[i-1]
}

type EventMode string

const (
	ModePaid EventMode = "paid"
	ModeFree EventMode = "free"
)

// EventDetails is opaque metadata attached to the event. The wizard
// passes it through to the launcher without validating it.
type EventDetails struct {
	Name       string `json:"name"`
	Venue      string `json:"venue,omitempty"`
	Category   string `json:"category,omitempty"`
	Visibility string `json:"visibility,omitempty"`
}

// WizardState is the full state of one event-creation session. The
// wizard controller is its only writer; a session owns exactly one.
type WizardState struct {
	SessionID   string       `json:"session_id"`
	Mode        EventMode    `json:"mode"`
	Event       EventDetails `json:"event"`
	CurrentStep Step         `json:"current_step"`
	Slots       []TimeSlot   `json:"slots"`
	Tickets     []TicketType `json:"tickets"`
	Addons      []Addon      `json:"addons"`
	CreatedAt   time.Time    `json:"created_at"`
}

// StepStatus is the read-only completeness signal a wizard-shell UI uses
// to enable or disable its Next control.
type StepStatus struct {
	Step     Step     `json:"step"`
	Complete bool     `json:"complete"`
	Blockers []string `json:"blockers,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// SummaryRow is one confirmation-screen line, fully computed so the
// shell can render it without further arithmetic.
type SummaryRow struct {
	TicketID     string     `json:"ticket_id"`
	Name         string     `json:"name"`
	Kind         TicketKind `json:"kind"`
	IsVisible    bool       `json:"is_visible"`
	Quantity     int        `json:"quantity"`
	GroupSize    int        `json:"group_size,omitempty"`
	SaleStart    *time.Time `json:"sale_start,omitempty"`
	SaleEnd      *time.Time `json:"sale_end,omitempty"`
	Dates        []Date     `json:"dates"`
	PriceDisplay string     `json:"price_display"`
	FinalPrice   float64    `json:"final_price"`
}
