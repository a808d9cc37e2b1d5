package session_test

import (
	"context"
	"testing"
	"time"

	"ms-event-setup/internal/models"
	"ms-event-setup/internal/wizard/session"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func sampleState(sessionID string) models.WizardState {
	start := time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)
	end := start.Add(3 * time.Hour)
	price := 25.00
	return models.WizardState{
		SessionID:   sessionID,
		Mode:        models.ModePaid,
		Event:       models.EventDetails{Name: "Beirut Nights"},
		CurrentStep: models.StepTickets,
		Slots: []models.TimeSlot{
			{SlotID: "slot1", Start: &start, End: &end},
		},
		Tickets: []models.TicketType{
			{
				TicketID:      "t1",
				Name:          "VIP",
				Kind:          models.KindSingle,
				BasePrice:     &price,
				Quantity:      100,
				SelectedDates: []models.Date{{Year: 2025, Month: time.March, Day: 1}},
			},
		},
		Addons: []models.Addon{
			{AddonID: "a1", Name: "Parking", EligibleTicketNames: []string{"VIP"}},
		},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func assertStateEqual(t *testing.T, want models.WizardState, got *models.WizardState) {
	t.Helper()
	require.NotNil(t, got)
	assert.Equal(t, want.SessionID, got.SessionID)
	assert.Equal(t, want.CurrentStep, got.CurrentStep)
	assert.Equal(t, want.Mode, got.Mode)
	require.Len(t, got.Slots, 1)
	require.Len(t, got.Tickets, 1)
	assert.Equal(t, want.Tickets[0].SelectedDates, got.Tickets[0].SelectedDates)
	assert.Equal(t, want.Addons[0].EligibleTicketNames, got.Addons[0].EligibleTicketNames)
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := session.NewMemoryStore()
	state := sampleState("session1")

	require.NoError(t, store.Save(context.Background(), state))

	loaded, err := store.Load(context.Background(), "session1")
	require.NoError(t, err)
	assertStateEqual(t, state, loaded)
}

func TestMemoryStoreMissingSession(t *testing.T) {
	store := session.NewMemoryStore()

	_, err := store.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestMemoryStoreDelete(t *testing.T) {
	store := session.NewMemoryStore()
	state := sampleState("session1")

	require.NoError(t, store.Save(context.Background(), state))
	require.NoError(t, store.Delete(context.Background(), "session1"))

	_, err := store.Load(context.Background(), "session1")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestRedisStoreIntegration(t *testing.T) {
	// Skip if short test mode
	if testing.Short() {
		t.Skip("Skipping Redis integration test in short mode")
	}

	ctx := context.Background()
	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:latest",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("Failed to start Redis container: %v", err)
	}
	defer redisContainer.Terminate(ctx)

	host, err := redisContainer.Host(ctx)
	require.NoError(t, err)
	port, err := redisContainer.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: host + ":" + port.Port()})
	store := session.NewRedisStore(client, time.Hour, nil)

	state := sampleState("session-redis")
	require.NoError(t, store.Save(ctx, state))

	loaded, err := store.Load(ctx, "session-redis")
	require.NoError(t, err)
	assertStateEqual(t, state, loaded)

	require.NoError(t, store.Delete(ctx, "session-redis"))
	_, err = store.Load(ctx, "session-redis")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}
