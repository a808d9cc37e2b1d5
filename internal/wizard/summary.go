package wizard

import (
	"context"
	"errors"
	"fmt"

	"ms-event-setup/internal/models"
	"ms-event-setup/internal/pricing"
)

// Summary builds the read-only confirmation view: one fully computed
// row per ticket type, renderable without further arithmetic. Prices
// are computed here, never stored on the ticket, so a base-price edit
// can never leave a stale total behind.
func (c *Controller) Summary() []models.SummaryRow {
	free := c.mode == models.ModeFree
	list := c.Tickets.List()
	rows := make([]models.SummaryRow, 0, len(list))
	for _, t := range list {
		base := 0.0
		if t.BasePrice != nil {
			base = *t.BasePrice
		}
		row := models.SummaryRow{
			TicketID:     t.TicketID,
			Name:         t.Name,
			Kind:         t.Kind,
			IsVisible:    t.IsVisible,
			Quantity:     t.Quantity,
			GroupSize:    t.GroupSize,
			SaleStart:    t.SaleStart,
			SaleEnd:      t.SaleEnd,
			Dates:        append([]models.Date(nil), t.SelectedDates...),
			PriceDisplay: pricing.Display(base, t.DealDiscountPercent, free),
		}
		if !free {
			row.FinalPrice = pricing.FinalPrice(base, t.DealDiscountPercent)
		}
		rows = append(rows, row)
	}
	return rows
}

// Launch hands the finished configuration to the publish collaborator.
// Only valid from the confirmation step. Three outcomes:
//   - success: the result is returned and the session may be discarded;
//   - failure: state is intact at confirmation, the organizer retries;
//   - cancellation: state is intact and the wizard navigates back to
//     the add-ons step, as if Next had never been pressed.
func (c *Controller) Launch(ctx context.Context) (*models.LaunchResult, error) {
	if c.currentStep != models.StepConfirmation {
		return nil, ErrNotAtConfirmation
	}

	req := models.LaunchRequest{
		SessionID: c.sessionID,
		Mode:      c.mode,
		Event:     c.event,
		Slots:     c.Slots(),
		Tickets:   c.Tickets.List(),
		Addons:    c.Addons.List(),
	}

	result, err := c.launcher.Launch(ctx, req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			c.currentStep = models.StepAddons
			return nil, err
		}
		if c.log != nil {
			c.log.Error("LAUNCH", fmt.Sprintf("session %s: launch failed: %v", c.sessionID, err))
		}
		return nil, fmt.Errorf("launch failed: %w", err)
	}

	if c.log != nil {
		c.log.LogLaunch(result.EventID, fmt.Sprintf("event published with slug %s", result.Slug))
	}
	return result, nil
}
