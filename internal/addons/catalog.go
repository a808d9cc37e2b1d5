package addons

import (
	"errors"
	"fmt"

	"ms-event-setup/internal/models"

	"github.com/google/uuid"
)

var (
	ErrAddonNotFound         = errors.New("addon not found")
	ErrCannotRemoveLastAddon = errors.New("cannot remove last addon row")
	ErrUnknownTicketName     = errors.New("unknown ticket name")
)

// TicketNameIndex answers whether a ticket name currently exists in the
// ticket catalog. Eligibility toggles are validated against it so an
// addon can never gain a reference to a name that was never there.
type TicketNameIndex interface {
	HasTicketName(name string) bool
}

// Patch is a partial addon update. Nil fields are untouched.
type Patch struct {
	Name        *string
	Price       *float64
	Description *string
	IsVisible   *bool
}

// Catalog owns the ordered collection of addon rows for one wizard
// session. Addon names are not unique. The catalog always keeps at
// least one row as an editable placeholder.
type Catalog struct {
	addons []models.Addon
	names  TicketNameIndex
}

func NewCatalog(names TicketNameIndex) *Catalog {
	c := &Catalog{names: names}
	c.addons = append(c.addons, blankRow())
	return c
}

func blankRow() models.Addon {
	return models.Addon{AddonID: uuid.New().String(), IsVisible: true}
}

// Restore replaces the catalog contents from a persisted session,
// reinstating the placeholder row if the stored list is empty.
func (c *Catalog) Restore(addons []models.Addon) {
	c.addons = append([]models.Addon(nil), addons...)
	if len(c.addons) == 0 {
		c.addons = append(c.addons, blankRow())
	}
}

// List returns a copy of the catalog in insertion order.
func (c *Catalog) List() []models.Addon {
	return append([]models.Addon(nil), c.addons...)
}

func (c *Catalog) Get(id string) (*models.Addon, error) {
	for i := range c.addons {
		if c.addons[i].AddonID == id {
			a := c.addons[i]
			return &a, nil
		}
	}
	return nil, fmt.Errorf("addon %s: %w", id, ErrAddonNotFound)
}

// Add appends a new addon row, assigning its ID. No name uniqueness.
// Eligibility names on the draft obey the same rule as ToggleEligibility:
// every name must exist in the ticket catalog, or the row would carry a
// reference the removal cascade can never clean up.
func (c *Catalog) Add(draft models.Addon) (*models.Addon, error) {
	if c.names != nil {
		for _, name := range draft.EligibleTicketNames {
			if !c.names.HasTicketName(name) {
				return nil, fmt.Errorf("ticket name %q: %w", name, ErrUnknownTicketName)
			}
		}
	}
	draft.AddonID = uuid.New().String()
	c.addons = append(c.addons, draft)
	added := draft
	return &added, nil
}

// ApplyPatch applies a partial update to one addon row.
func (c *Catalog) ApplyPatch(id string, p Patch) (*models.Addon, error) {
	for i := range c.addons {
		if c.addons[i].AddonID != id {
			continue
		}
		a := c.addons[i]
		if p.Name != nil {
			a.Name = *p.Name
		}
		if p.Price != nil {
			price := *p.Price
			a.Price = &price
		}
		if p.Description != nil {
			a.Description = *p.Description
		}
		if p.IsVisible != nil {
			a.IsVisible = *p.IsVisible
		}
		c.addons[i] = a
		updated := a
		return &updated, nil
	}
	return nil, fmt.Errorf("addon %s: %w", id, ErrAddonNotFound)
}

// Remove deletes an addon row. The last remaining row is the editable
// placeholder and cannot be removed, only cleared.
func (c *Catalog) Remove(id string) error {
	for i := range c.addons {
		if c.addons[i].AddonID != id {
			continue
		}
		if len(c.addons) == 1 {
			return ErrCannotRemoveLastAddon
		}
		c.addons = append(c.addons[:i], c.addons[i+1:]...)
		return nil
	}
	return fmt.Errorf("addon %s: %w", id, ErrAddonNotFound)
}

// Clear resets a row back to the untouched placeholder state, keeping
// its ID. This is how a dirty-but-incomplete row stops blocking the
// wizard without being deleted.
func (c *Catalog) Clear(id string) error {
	for i := range c.addons {
		if c.addons[i].AddonID == id {
			c.addons[i] = models.Addon{AddonID: id, IsVisible: true}
			return nil
		}
	}
	return fmt.Errorf("addon %s: %w", id, ErrAddonNotFound)
}

// ToggleEligibility adds or removes a ticket name from the addon's
// eligibility set. The name must exist in the ticket catalog at the
// time of the toggle.
func (c *Catalog) ToggleEligibility(addonID, ticketName string) (*models.Addon, error) {
	if c.names != nil && !c.names.HasTicketName(ticketName) {
		return nil, fmt.Errorf("ticket name %q: %w", ticketName, ErrUnknownTicketName)
	}
	for i := range c.addons {
		if c.addons[i].AddonID != addonID {
			continue
		}
		a := c.addons[i]
		if a.EligibleFor(ticketName) {
			kept := make([]string, 0, len(a.EligibleTicketNames)-1)
			for _, name := range a.EligibleTicketNames {
				if name != ticketName {
					kept = append(kept, name)
				}
			}
			a.EligibleTicketNames = kept
		} else {
			a.EligibleTicketNames = append(a.EligibleTicketNames, ticketName)
		}
		c.addons[i] = a
		updated := a
		return &updated, nil
	}
	return nil, fmt.Errorf("addon %s: %w", addonID, ErrAddonNotFound)
}

// ReconcileAfterTicketRemoval strips the removed ticket name from every
// addon's eligibility set. An addon left with an empty set becomes
// incomplete but is not auto-deleted; the organizer re-scopes or removes
// it manually.
func (c *Catalog) ReconcileAfterTicketRemoval(removedName string) {
	for i := range c.addons {
		if !c.addons[i].EligibleFor(removedName) {
			continue
		}
		var kept []string
		for _, name := range c.addons[i].EligibleTicketNames {
			if name != removedName {
				kept = append(kept, name)
			}
		}
		c.addons[i].EligibleTicketNames = kept
	}
}

// ReconcileAfterTicketRename rewrites references to a renamed ticket so
// eligibility follows the product, not the label.
func (c *Catalog) ReconcileAfterTicketRename(oldName, newName string) {
	for i := range c.addons {
		for j, name := range c.addons[i].EligibleTicketNames {
			if name == oldName {
				c.addons[i].EligibleTicketNames[j] = newName
			}
		}
	}
}

// Blockers lists what keeps a touched addon row from completeness.
func Blockers(a models.Addon) []string {
	var blockers []string
	if a.Name == "" {
		blockers = append(blockers, "name is required")
	}
	if a.Price == nil {
		blockers = append(blockers, "price is required")
	} else if *a.Price < 0 {
		blockers = append(blockers, "price must not be negative")
	}
	if len(a.EligibleTicketNames) == 0 {
		blockers = append(blockers, "at least one eligible ticket type is required")
	}
	return blockers
}

// IsComplete is the completeness invariant for one addon row.
func IsComplete(a models.Addon) bool {
	return len(Blockers(a)) == 0
}

// IsBlocking reports whether the row holds partial input that would be
// silently lost on advance: dirty but incomplete blocks, untouched does
// not.
func IsBlocking(a models.Addon) bool {
	return a.IsTouched() && !IsComplete(a)
}
