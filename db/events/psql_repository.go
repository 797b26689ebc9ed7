package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gatepass/entity"
)

type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	if db == nil {
		panic("db is nil")
	}
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Store(ctx context.Context, event entity.CatalogEvent) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO events (event_id, name, date, venue, image_url, total_tickets)
		VALUES (:event_id, :name, :date, :venue, :image_url, :total_tickets)
		ON CONFLICT DO NOTHING -- ignore if already exists
	`, event)
	return err
}

func (r *PostgresRepository) Get(ctx context.Context, eventID string) (entity.CatalogEvent, error) {
	var event entity.CatalogEvent
	err := r.db.GetContext(ctx, &event, `
		SELECT event_id, name, date, venue, image_url, total_tickets
		FROM events
		WHERE event_id = $1
	`, eventID)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.CatalogEvent{}, entity.ErrNotFound
	}
	if err != nil {
		return entity.CatalogEvent{}, fmt.Errorf("could not get event: %w", err)
	}
	return event, nil
}
