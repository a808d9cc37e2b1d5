package models

import (
	"time"

	"github.com/uptrace/bun"
)

// LaunchRequest is the finished wizard configuration handed to the
// launcher. It is the single exit point for a completed session.
type LaunchRequest struct {
	SessionID string       `json:"session_id"`
	Mode      EventMode    `json:"mode"`
	Event     EventDetails `json:"event"`
	Slots     []TimeSlot   `json:"slots"`
	Tickets   []TicketType `json:"tickets"`
	Addons    []Addon      `json:"addons"`
}

// LaunchedEvent is the persisted record of a published event.
type LaunchedEvent struct {
	bun.BaseModel `bun:"table:launched_events"`

	EventID    string    `bun:"event_id,pk" json:"event_id"`
	Slug       string    `bun:"slug,notnull" json:"slug"`
	Name       string    `bun:"name,notnull" json:"name"`
	Mode       EventMode `bun:"mode,notnull" json:"mode"`
	Config     []byte    `bun:"config" json:"-"`
	LaunchedAt time.Time `bun:"launched_at,notnull" json:"launched_at"`
}

// LaunchResult is returned to the wizard on a successful launch.
type LaunchResult struct {
	EventID   string `json:"event_id"`
	Slug      string `json:"slug"`
	PublicURL string `json:"public_url"`
	QRCode    []byte `json:"qr_code,omitempty"`
}
