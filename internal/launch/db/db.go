package db

import (
	"context"
	"ms-event-setup/internal/models"

	"github.com/uptrace/bun"
)

type DB struct {
	Bun *bun.DB
}

// SaveLaunchedEvent → insert a newly launched event
func (d *DB) SaveLaunchedEvent(ctx context.Context, ev models.LaunchedEvent) error {
	_, err := d.Bun.NewInsert().Model(&ev).Exec(ctx)
	return err
}

// GetLaunchedEvent → fetch one launched event by its ID
func (d *DB) GetLaunchedEvent(ctx context.Context, id string) (*models.LaunchedEvent, error) {
	var ev models.LaunchedEvent
	err := d.Bun.NewSelect().
		Model(&ev).
		Where("event_id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// GetLaunchedEventBySlug → fetch one launched event by its public slug
func (d *DB) GetLaunchedEventBySlug(ctx context.Context, slug string) (*models.LaunchedEvent, error) {
	var ev models.LaunchedEvent
	err := d.Bun.NewSelect().
		Model(&ev).
		Where("slug = ?", slug).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// SlugExists → check whether a slug is already taken
func (d *DB) SlugExists(ctx context.Context, slug string) (bool, error) {
	count, err := d.Bun.NewSelect().
		Model((*models.LaunchedEvent)(nil)).
		Where("slug = ?", slug).
		Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListLaunchedEvents → fetch all launched events, newest first
func (d *DB) ListLaunchedEvents(ctx context.Context) ([]models.LaunchedEvent, error) {
	var events []models.LaunchedEvent
	err := d.Bun.NewSelect().
		Model(&events).
		Order("launched_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return events, nil
}
