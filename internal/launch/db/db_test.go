package db_test

import (
	"context"
	"database/sql"
	"ms-event-setup/internal/launch/db"
	"ms-event-setup/internal/models"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "github.com/uptrace/bun/driver/sqliteshim"
)

func setupTestDB(t *testing.T) (*db.DB, *bun.DB) {
	// Connect to an in-memory SQLite DB for testing
	sqldb, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to connect to in-memory database: %v", err)
	}

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = bunDB.NewCreateTable().Model((*models.LaunchedEvent)(nil)).Exec(context.Background())
	if err != nil {
		t.Fatalf("Failed to create launched_events table: %v", err)
	}

	return &db.DB{Bun: bunDB}, bunDB
}

func sampleEvent() models.LaunchedEvent {
	return models.LaunchedEvent{
		EventID:    uuid.New().String(),
		Slug:       "beirut-nights",
		Name:       "Beirut Nights",
		Mode:       models.ModePaid,
		Config:     []byte(`{"tickets":[]}`),
		LaunchedAt: time.Now(),
	}
}

func TestSaveAndGetLaunchedEvent(t *testing.T) {
	launchDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	ev := sampleEvent()
	err := launchDB.SaveLaunchedEvent(context.Background(), ev)
	assert.NoError(t, err)

	got, err := launchDB.GetLaunchedEvent(context.Background(), ev.EventID)
	assert.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, ev.EventID, got.EventID)
	assert.Equal(t, "beirut-nights", got.Slug)
	assert.Equal(t, models.ModePaid, got.Mode)

	// Non-existent event
	got, err = launchDB.GetLaunchedEvent(context.Background(), "non-existent")
	assert.Error(t, err)
	assert.Nil(t, got)
}

func TestGetLaunchedEventBySlug(t *testing.T) {
	launchDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	ev := sampleEvent()
	err := launchDB.SaveLaunchedEvent(context.Background(), ev)
	assert.NoError(t, err)

	got, err := launchDB.GetLaunchedEventBySlug(context.Background(), "beirut-nights")
	assert.NoError(t, err)
	assert.Equal(t, ev.EventID, got.EventID)

	got, err = launchDB.GetLaunchedEventBySlug(context.Background(), "missing-slug")
	assert.Error(t, err)
	assert.Nil(t, got)
}

func TestSlugExists(t *testing.T) {
	launchDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	taken, err := launchDB.SlugExists(context.Background(), "beirut-nights")
	assert.NoError(t, err)
	assert.False(t, taken)

	err = launchDB.SaveLaunchedEvent(context.Background(), sampleEvent())
	assert.NoError(t, err)

	taken, err = launchDB.SlugExists(context.Background(), "beirut-nights")
	assert.NoError(t, err)
	assert.True(t, taken)
}

func TestListLaunchedEvents(t *testing.T) {
	launchDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	first := sampleEvent()
	first.Slug = "first-event"
	first.LaunchedAt = time.Now().Add(-time.Hour)

	second := sampleEvent()
	second.Slug = "second-event"

	assert.NoError(t, launchDB.SaveLaunchedEvent(context.Background(), first))
	assert.NoError(t, launchDB.SaveLaunchedEvent(context.Background(), second))

	events, err := launchDB.ListLaunchedEvents(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 2, len(events))
	assert.Equal(t, "second-event", events[0].Slug)
	assert.Equal(t, "first-event", events[1].Slug)
}
