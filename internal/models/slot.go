package models

import "time"

// TimeSlot is one calendar appearance of the event. A "late" slot has no
// defined end and runs open-ended into the night of its start date.
type TimeSlot struct {
	SlotID string     `json:"slot_id"`
	Start  *time.Time `json:"start,omitempty"`
	End    *time.Time `json:"end,omitempty"`
	IsLate bool       `json:"is_late"`
}

// IsComplete reports whether the slot carries enough data to materialize
// calendar dates: a start, and either an end or the late flag.
func (s TimeSlot) IsComplete() bool {
	if s.Start == nil {
		return false
	}
	return s.End != nil || s.IsLate
}
