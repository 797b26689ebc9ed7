package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

func InitializeDatabaseSchema(db *sqlx.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS events (
			event_id VARCHAR(255) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			date VARCHAR(255) NOT NULL DEFAULT '',
			venue VARCHAR(255) NOT NULL DEFAULT '',
			image_url TEXT NOT NULL DEFAULT '',
			total_tickets INT NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS bookings (
			transaction_id VARCHAR(255) PRIMARY KEY,
			event_id VARCHAR(255) NOT NULL,
			user_id VARCHAR(255) NOT NULL DEFAULT '',
			attendee_name VARCHAR(255) NOT NULL DEFAULT '',
			attendee_email VARCHAR(255) NOT NULL DEFAULT '',
			attendee_phone VARCHAR(64) NOT NULL DEFAULT '',
			attendee_gender VARCHAR(32) NOT NULL DEFAULT '',
			attendee_age INT NOT NULL DEFAULT 0,
			attendee_address TEXT NOT NULL DEFAULT '',
			payment_status VARCHAR(64) NOT NULL,
			amount VARCHAR(64) NOT NULL DEFAULT '',
			payment_method VARCHAR(64) NOT NULL DEFAULT '',
			qr_token TEXT NOT NULL DEFAULT '',
			status VARCHAR(64) NOT NULL,
			ticket_type VARCHAR(64) NOT NULL DEFAULT '',
			quantity INT NOT NULL DEFAULT 1,
			note TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("could not initialize database schema: %w", err)
	}

	return nil
}
