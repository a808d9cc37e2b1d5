package models

import "time"

type TicketKind string

const (
	// KindSingle is valid for individual days: one unit per selected day.
	KindSingle TicketKind = "single"
	// KindPass unlocks every selected date with one unit of inventory.
	KindPass TicketKind = "pass"
	// KindGroup has pass date semantics; GroupSize multiplies headcount,
	// not inventory.
	KindGroup TicketKind = "group"
)

func (k TicketKind) Valid() bool {
	switch k {
	case KindSingle, KindPass, KindGroup:
		return true
	}
	return false
}

// TicketType is a purchasable product scoped to a subset of the
// materialized event dates. TicketID is the stable identity; Name is a
// display label that doubles as the add-on join key and must be unique
// within the catalog.
type TicketType struct {
	TicketID            string     `json:"ticket_id"`
	Name                string     `json:"name"`
	Kind                TicketKind `json:"kind"`
	BasePrice           *float64   `json:"base_price,omitempty"`
	DealDiscountPercent float64    `json:"deal_discount_percent"`
	Quantity            int        `json:"quantity"`
	MaxPerOrder         int        `json:"max_per_order,omitempty"`
	GroupSize           int        `json:"group_size,omitempty"`
	IsVisible           bool       `json:"is_visible"`
	IsSoldOut           bool       `json:"is_sold_out"`
	SaleStart           *time.Time `json:"sale_start,omitempty"`
	SaleEnd             *time.Time `json:"sale_end,omitempty"`
	SelectedDates       []Date     `json:"selected_dates"`
}

// HasDate reports whether the ticket's selection includes the given day.
func (t TicketType) HasDate(d Date) bool {
	for _, sel := range t.SelectedDates {
		if sel == d {
			return true
		}
	}
	return false
}
