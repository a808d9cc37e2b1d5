package schedule

import (
	"errors"
	"fmt"
	"sort"

	"ms-event-setup/internal/models"
)

var (
	// ErrScheduleRangeTooLarge rejects a slot spanning more days than the
	// materializer is willing to walk.
	ErrScheduleRangeTooLarge = errors.New("schedule range too large")
	// ErrSlotEndsBeforeStart rejects a slot whose end precedes its start.
	ErrSlotEndsBeforeStart = errors.New("slot end is before its start")
)

// DefaultMaxDays caps how many calendar days a single slot may span.
const DefaultMaxDays = 370

// Materializer expands time slots into the set of concrete calendar days
// the event appears on.
type Materializer struct {
	MaxDays int
}

func NewMaterializer(maxDays int) *Materializer {
	if maxDays <= 0 {
		maxDays = DefaultMaxDays
	}
	return &Materializer{MaxDays: maxDays}
}

// ValidateSlot checks the ordering invariant of a single slot. Incomplete
// slots pass: they simply contribute no dates.
func ValidateSlot(slot models.TimeSlot) error {
	if slot.Start != nil && slot.End != nil && slot.End.Before(*slot.Start) {
		return fmt.Errorf("slot %s: %w", slot.SlotID, ErrSlotEndsBeforeStart)
	}
	return nil
}

// Materialize walks every complete slot day by day, from the start date
// through the end date inclusive, and returns the union of all days
// sorted ascending with duplicates collapsed. Late slots contribute
// exactly their start date. Incomplete slots contribute nothing. The
// function is pure: safe to recompute on every slot edit.
func (m *Materializer) Materialize(slots []models.TimeSlot) ([]models.Date, error) {
	seen := make(map[models.Date]struct{})

	for _, slot := range slots {
		if !slot.IsComplete() {
			continue
		}
		if err := ValidateSlot(slot); err != nil {
			return nil, err
		}

		start := models.DateOf(*slot.Start)
		end := start
		if !slot.IsLate && slot.End != nil {
			end = models.DateOf(*slot.End)
		}

		days := 0
		for d := start; !d.After(end); d = d.Next() {
			days++
			if days > m.MaxDays {
				return nil, fmt.Errorf("slot %s spans more than %d days: %w",
					slot.SlotID, m.MaxDays, ErrScheduleRangeTooLarge)
			}
			seen[d] = struct{}{}
		}
	}

	dates := make([]models.Date, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}
