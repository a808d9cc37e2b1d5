package models

// Addon is an optional purchasable extra scoped to a subset of ticket
// types, referenced by ticket name. Names are not unique across addons.
type Addon struct {
	AddonID             string   `json:"addon_id"`
	Name                string   `json:"name"`
	Price               *float64 `json:"price,omitempty"`
	Description         string   `json:"description,omitempty"`
	IsVisible           bool     `json:"is_visible"`
	EligibleTicketNames []string `json:"eligible_ticket_names"`
}

// IsTouched reports whether the organizer has entered anything into the
// row. An untouched placeholder row never blocks the wizard.
func (a Addon) IsTouched() bool {
	return a.Name != "" || a.Price != nil || a.Description != "" || len(a.EligibleTicketNames) > 0
}

// EligibleFor reports whether the addon may be purchased with the named
// ticket type.
func (a Addon) EligibleFor(ticketName string) bool {
	for _, name := range a.EligibleTicketNames {
		if name == ticketName {
			return true
		}
	}
	return false
}
