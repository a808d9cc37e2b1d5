package tickets

import (
	"errors"
	"fmt"
	"time"

	"ms-event-setup/internal/models"

	"github.com/google/uuid"
)

var (
	ErrDuplicateTicketName       = errors.New("duplicate ticket name")
	ErrTicketNotFound            = errors.New("ticket type not found")
	ErrCannotRemoveLastTicket    = errors.New("cannot remove last ticket type")
	ErrSaleWindowEndsBeforeStart = errors.New("sale window ends before it starts")
)

// AddonReconciler is how the catalog pushes referential cleanup into the
// addon side on removal or rename. Runs synchronously inside the
// mutating call, so addon eligibility can never observe a name that no
// longer exists.
type AddonReconciler interface {
	ReconcileAfterTicketRemoval(removedName string)
	ReconcileAfterTicketRename(oldName, newName string)
}

// Patch is a partial update applied through ApplyPatch. Nil fields are
// untouched. A single mutation entry point keeps every edit behind the
// same validation hooks.
type Patch struct {
	Name                *string
	Kind                *models.TicketKind
	BasePrice           *float64
	DealDiscountPercent *float64
	Quantity            *int
	MaxPerOrder         *int
	GroupSize           *int
	IsVisible           *bool
	IsSoldOut           *bool
	SaleStart           *time.Time
	SaleEnd             *time.Time
	SelectedDates       []models.Date
}

// Catalog owns the ordered collection of ticket types for one wizard
// session. It also tracks the current materialized date set so date
// selections can be intersected against it on every edit.
type Catalog struct {
	tickets  []models.TicketType
	dates    []models.Date
	addons   AddonReconciler
	freeMode bool
}

func NewCatalog(freeMode bool) *Catalog {
	return &Catalog{freeMode: freeMode}
}

// SetReconciler wires the addon catalog in. Must be called before any
// Remove; the wizard controller does this at construction.
func (c *Catalog) SetReconciler(r AddonReconciler) {
	c.addons = r
}

// Restore replaces the catalog contents from a persisted session.
func (c *Catalog) Restore(tickets []models.TicketType) {
	c.tickets = append([]models.TicketType(nil), tickets...)
}

// List returns a copy of the catalog in insertion order.
func (c *Catalog) List() []models.TicketType {
	return append([]models.TicketType(nil), c.tickets...)
}

func (c *Catalog) Get(id string) (*models.TicketType, error) {
	for i := range c.tickets {
		if c.tickets[i].TicketID == id {
			t := c.tickets[i]
			return &t, nil
		}
	}
	return nil, fmt.Errorf("ticket %s: %w", id, ErrTicketNotFound)
}

// HasTicketName reports whether a ticket with the exact name exists.
// Case-sensitive: "VIP" and "vip" are distinct products.
func (c *Catalog) HasTicketName(name string) bool {
	for i := range c.tickets {
		if c.tickets[i].Name == name {
			return true
		}
	}
	return false
}

// Names returns every ticket name in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.tickets))
	for i := range c.tickets {
		names = append(names, c.tickets[i].Name)
	}
	return names
}

// Add validates and appends a new ticket type, assigning its stable ID.
// Rejects a duplicate name before mutating anything.
func (c *Catalog) Add(draft models.TicketType) (*models.TicketType, error) {
	if draft.Name != "" && c.HasTicketName(draft.Name) {
		return nil, fmt.Errorf("ticket name %q: %w", draft.Name, ErrDuplicateTicketName)
	}
	draft.TicketID = uuid.New().String()
	if draft.Kind == "" {
		draft.Kind = models.KindSingle
	}
	draft.SelectedDates = c.intersectDates(draft.SelectedDates)
	c.tickets = append(c.tickets, draft)
	added := draft
	return &added, nil
}

// ApplyPatch applies a partial update to one ticket type. A rename is
// checked for uniqueness and cascaded into the addon catalog; a touched
// date selection is intersected against the current materialized set.
func (c *Catalog) ApplyPatch(id string, p Patch) (*models.TicketType, error) {
	idx := -1
	for i := range c.tickets {
		if c.tickets[i].TicketID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("ticket %s: %w", id, ErrTicketNotFound)
	}

	t := c.tickets[idx]
	oldName := t.Name

	if p.Name != nil && *p.Name != oldName {
		if *p.Name != "" && c.HasTicketName(*p.Name) {
			return nil, fmt.Errorf("ticket name %q: %w", *p.Name, ErrDuplicateTicketName)
		}
		t.Name = *p.Name
	}
	if p.Kind != nil && *p.Kind != t.Kind {
		t.Kind = *p.Kind
		// Date semantics differ per kind; selections start over.
		t.SelectedDates = nil
	}
	if p.BasePrice != nil {
		price := *p.BasePrice
		t.BasePrice = &price
	}
	if p.DealDiscountPercent != nil {
		t.DealDiscountPercent = *p.DealDiscountPercent
	}
	if p.Quantity != nil {
		t.Quantity = *p.Quantity
	}
	if p.MaxPerOrder != nil {
		t.MaxPerOrder = *p.MaxPerOrder
	}
	if p.GroupSize != nil {
		t.GroupSize = *p.GroupSize
	}
	if p.IsVisible != nil {
		t.IsVisible = *p.IsVisible
	}
	if p.IsSoldOut != nil {
		t.IsSoldOut = *p.IsSoldOut
	}
	if p.SaleStart != nil {
		start := *p.SaleStart
		t.SaleStart = &start
	}
	if p.SaleEnd != nil {
		end := *p.SaleEnd
		t.SaleEnd = &end
	}
	if t.SaleStart != nil && t.SaleEnd != nil && t.SaleEnd.Before(*t.SaleStart) {
		return nil, fmt.Errorf("ticket %s: %w", id, ErrSaleWindowEndsBeforeStart)
	}
	if p.SelectedDates != nil {
		t.SelectedDates = c.intersectDates(p.SelectedDates)
	}

	c.tickets[idx] = t
	if t.Name != oldName && oldName != "" && c.addons != nil {
		c.addons.ReconcileAfterTicketRename(oldName, t.Name)
	}
	updated := t
	return &updated, nil
}

// Remove deletes a ticket type. The catalog must never become empty, and
// a successful removal strips the name from every addon's eligibility
// set before returning.
func (c *Catalog) Remove(id string) error {
	idx := -1
	for i := range c.tickets {
		if c.tickets[i].TicketID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("ticket %s: %w", id, ErrTicketNotFound)
	}
	if len(c.tickets) == 1 {
		return ErrCannotRemoveLastTicket
	}

	removed := c.tickets[idx]
	c.tickets = append(c.tickets[:idx], c.tickets[idx+1:]...)
	if removed.Name != "" && c.addons != nil {
		c.addons.ReconcileAfterTicketRemoval(removed.Name)
	}
	return nil
}

// ReconcileDates installs a freshly materialized date set and drops any
// selected date that no longer exists in it, across the whole catalog.
// Called synchronously on every slot edit.
func (c *Catalog) ReconcileDates(dates []models.Date) {
	c.dates = append([]models.Date(nil), dates...)
	for i := range c.tickets {
		c.tickets[i].SelectedDates = c.intersectDates(c.tickets[i].SelectedDates)
	}
}

// MaterializedDates returns the date set the catalog currently validates
// selections against.
func (c *Catalog) MaterializedDates() []models.Date {
	return append([]models.Date(nil), c.dates...)
}

func (c *Catalog) intersectDates(selected []models.Date) []models.Date {
	if len(selected) == 0 {
		return nil
	}
	available := make(map[models.Date]struct{}, len(c.dates))
	for _, d := range c.dates {
		available[d] = struct{}{}
	}
	var kept []models.Date
	for _, d := range selected {
		if _, ok := available[d]; ok {
			kept = append(kept, d)
		}
	}
	return kept
}
