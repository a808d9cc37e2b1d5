package tickets

import (
	"fmt"

	"ms-event-setup/internal/models"
)

// Blockers lists everything still missing before the ticket type counts
// as complete. Free-event mode exempts pricing only; every other field
// is still required. Editing an incomplete ticket is always allowed;
// the list only gates wizard progression.
func (c *Catalog) Blockers(t models.TicketType) []string {
	var blockers []string

	if t.Name == "" {
		blockers = append(blockers, "name is required")
	}
	if !t.Kind.Valid() {
		blockers = append(blockers, "ticket type is required")
	}
	if !c.freeMode {
		if t.BasePrice == nil {
			blockers = append(blockers, "price is required")
		} else if *t.BasePrice < 0 {
			blockers = append(blockers, "price must not be negative")
		}
		if t.DealDiscountPercent < 0 || t.DealDiscountPercent > 100 {
			blockers = append(blockers, "deal discount must be between 0 and 100")
		}
	}
	if t.Quantity <= 0 {
		blockers = append(blockers, "total available quantity is required")
	}
	if t.MaxPerOrder < 0 {
		blockers = append(blockers, "max per order must be positive")
	}
	if t.Kind == models.KindGroup && t.GroupSize < 2 {
		blockers = append(blockers, "group size of at least 2 is required")
	}
	if t.SaleStart == nil {
		blockers = append(blockers, "sale start is required")
	}
	if t.SaleEnd == nil {
		blockers = append(blockers, "sale end is required")
	}
	if t.SaleStart != nil && t.SaleEnd != nil && t.SaleEnd.Before(*t.SaleStart) {
		blockers = append(blockers, "sale window ends before it starts")
	}
	if len(t.SelectedDates) == 0 {
		blockers = append(blockers, "at least one event date must be selected")
	}

	return blockers
}

// IsComplete is the gating predicate for one ticket type.
func (c *Catalog) IsComplete(t models.TicketType) bool {
	return len(c.Blockers(t)) == 0
}

// Warnings flags suspicious but permitted configurations, currently a
// sale window that only opens after every selected event date has
// passed. Warnings never block progression.
func (c *Catalog) Warnings(t models.TicketType) []string {
	var warnings []string
	if t.SaleStart != nil && len(t.SelectedDates) > 0 {
		last := t.SelectedDates[0]
		for _, d := range t.SelectedDates[1:] {
			if d.After(last) {
				last = d
			}
		}
		// End of the last event day.
		if t.SaleStart.After(last.Time().AddDate(0, 0, 1)) {
			warnings = append(warnings,
				fmt.Sprintf("ticket %q: sale starts after the last selected event date %s", t.Name, last))
		}
	}
	return warnings
}
