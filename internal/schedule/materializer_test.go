package schedule_test

import (
	"testing"
	"time"

	"ms-event-setup/internal/models"
	"ms-event-setup/internal/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, value string) *time.Time {
	parsed, err := time.Parse("2006-01-02T15:04", value)
	require.NoError(t, err)
	return &parsed
}

func TestMaterializeTwoSlotsWithLateNight(t *testing.T) {
	m := schedule.NewMaterializer(0)

	slots := []models.TimeSlot{
		{SlotID: "1", Start: mustTime(t, "2025-03-01T20:00"), End: mustTime(t, "2025-03-01T23:00")},
		{SlotID: "2", Start: mustTime(t, "2025-03-02T20:00"), IsLate: true},
	}

	dates, err := m.Materialize(slots)
	require.NoError(t, err)
	assert.Equal(t, []models.Date{
		{Year: 2025, Month: time.March, Day: 1},
		{Year: 2025, Month: time.March, Day: 2},
	}, dates)
}

func TestMaterializeSpanProducesEveryDayInclusive(t *testing.T) {
	m := schedule.NewMaterializer(0)

	slots := []models.TimeSlot{
		{SlotID: "1", Start: mustTime(t, "2025-06-10T18:00"), End: mustTime(t, "2025-06-13T02:00")},
	}

	dates, err := m.Materialize(slots)
	require.NoError(t, err)
	require.Len(t, dates, 4)
	assert.Equal(t, "2025-06-10", dates[0].String())
	assert.Equal(t, "2025-06-13", dates[3].String())
}

func TestMaterializeDeduplicatesOverlappingSlots(t *testing.T) {
	m := schedule.NewMaterializer(0)

	slots := []models.TimeSlot{
		{SlotID: "1", Start: mustTime(t, "2025-06-10T18:00"), End: mustTime(t, "2025-06-11T23:00")},
		{SlotID: "2", Start: mustTime(t, "2025-06-11T10:00"), End: mustTime(t, "2025-06-12T12:00")},
	}

	dates, err := m.Materialize(slots)
	require.NoError(t, err)
	assert.Len(t, dates, 3)
}

func TestMaterializeIgnoresIncompleteSlots(t *testing.T) {
	m := schedule.NewMaterializer(0)

	slots := []models.TimeSlot{
		{SlotID: "1"}, // nothing entered yet
		{SlotID: "2", Start: mustTime(t, "2025-06-10T18:00")}, // no end, not late
		{SlotID: "3", Start: mustTime(t, "2025-06-11T18:00"), End: mustTime(t, "2025-06-11T23:00")},
	}

	dates, err := m.Materialize(slots)
	require.NoError(t, err)
	assert.Len(t, dates, 1)
	assert.Equal(t, "2025-06-11", dates[0].String())
}

func TestMaterializeEmptyWhenNoCompleteSlots(t *testing.T) {
	m := schedule.NewMaterializer(0)

	dates, err := m.Materialize([]models.TimeSlot{{SlotID: "1"}})
	require.NoError(t, err)
	assert.Empty(t, dates)
}

func TestMaterializeSameDaySlotContributesOneDate(t *testing.T) {
	m := schedule.NewMaterializer(0)

	slots := []models.TimeSlot{
		{SlotID: "1", Start: mustTime(t, "2025-06-10T10:00"), End: mustTime(t, "2025-06-10T23:00")},
	}

	dates, err := m.Materialize(slots)
	require.NoError(t, err)
	assert.Len(t, dates, 1)
}

func TestMaterializeIsIdempotent(t *testing.T) {
	m := schedule.NewMaterializer(0)

	slots := []models.TimeSlot{
		{SlotID: "2", Start: mustTime(t, "2025-03-02T20:00"), IsLate: true},
		{SlotID: "1", Start: mustTime(t, "2025-03-01T20:00"), End: mustTime(t, "2025-03-03T01:00")},
	}

	first, err := m.Materialize(slots)
	require.NoError(t, err)
	second, err := m.Materialize(slots)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestMaterializeRejectsOversizedRange(t *testing.T) {
	m := schedule.NewMaterializer(30)

	slots := []models.TimeSlot{
		{SlotID: "1", Start: mustTime(t, "2025-01-01T00:00"), End: mustTime(t, "2025-12-31T00:00")},
	}

	_, err := m.Materialize(slots)
	assert.ErrorIs(t, err, schedule.ErrScheduleRangeTooLarge)
}

func TestMaterializeRejectsEndBeforeStart(t *testing.T) {
	m := schedule.NewMaterializer(0)

	slots := []models.TimeSlot{
		{SlotID: "1", Start: mustTime(t, "2025-06-10T18:00"), End: mustTime(t, "2025-06-09T18:00")},
	}

	_, err := m.Materialize(slots)
	assert.ErrorIs(t, err, schedule.ErrSlotEndsBeforeStart)
}

func TestLateSlotNeverNeedsEndMoment(t *testing.T) {
	m := schedule.NewMaterializer(0)

	slots := []models.TimeSlot{
		{SlotID: "1", Start: mustTime(t, "2025-03-02T20:00"), IsLate: true, End: nil},
	}

	assert.NotPanics(t, func() {
		dates, err := m.Materialize(slots)
		require.NoError(t, err)
		assert.Len(t, dates, 1)
	})
}
