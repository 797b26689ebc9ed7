package bookings

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

func (r *PostgresRepository) Exists(ctx context.Context, transactionID string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (SELECT 1 FROM bookings WHERE transaction_id = $1)
	`, transactionID)
	if err != nil {
		return false, fmt.Errorf("could not check booking existence: %w", err)
	}
	return exists, nil
}

// Create inserts the booking if no row exists yet for its transaction id.
// The insert runs inside a serializable transaction together with the
// capacity check, and the ON CONFLICT guard makes it safe to race a duplicate
// callback: the loser observes created=false and must skip artifact and
// notification work.
func (r *PostgresRepository) Create(ctx context.Context, booking entity.Booking, capacity int) (created bool, err error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{
		Isolation: sql.LevelSerializable,
	})
	if err != nil {
		return false, fmt.Errorf("could not begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			rollbackErr := tx.Rollback()
			err = errors.Join(err, rollbackErr)
			return
		}
		err = tx.Commit()
	}()

	// a duplicate callback must read as "already booked", never as an
	// inventory conflict, so the existence check comes first
	var exists bool
	err = tx.GetContext(ctx, &exists, `
		SELECT EXISTS (SELECT 1 FROM bookings WHERE transaction_id = $1)
	`, booking.TransactionID)
	if err != nil {
		return false, fmt.Errorf("could not check booking existence: %w", err)
	}
	if exists {
		return false, nil
	}

	available, err := r.availableTickets(ctx, tx, booking.EventID, capacity)
	if err != nil {
		return false, fmt.Errorf("could not get available tickets: %w", err)
	}

	if available < booking.Quantity {
		return false, entity.ErrNoAvailableTickets
	}

	res, err := tx.NamedExecContext(ctx, `
		INSERT INTO bookings (
			transaction_id, event_id, user_id,
			attendee_name, attendee_email, attendee_phone,
			attendee_gender, attendee_age, attendee_address,
			payment_status, amount, payment_method,
			qr_token, status, ticket_type, quantity, note
		) VALUES (
			:transaction_id, :event_id, :user_id,
			:attendee_name, :attendee_email, :attendee_phone,
			:attendee_gender, :attendee_age, :attendee_address,
			:payment_status, :amount, :payment_method,
			:qr_token, :status, :ticket_type, :quantity, :note
		)
		ON CONFLICT (transaction_id) DO NOTHING
	`, booking)
	if err != nil {
		return false, fmt.Errorf("could not add booking: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not read rows affected: %w", err)
	}

	// zero rows means another callback for this transaction id won the race
	return rowsAffected == 1, nil
}

func (r *PostgresRepository) Get(ctx context.Context, transactionID string) (entity.Booking, error) {
	var booking entity.Booking
	err := r.db.GetContext(ctx, &booking, `
		SELECT * FROM bookings WHERE transaction_id = $1
	`, transactionID)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Booking{}, entity.ErrNotFound
	}
	if err != nil {
		return entity.Booking{}, fmt.Errorf("could not get booking: %w", err)
	}
	return booking, nil
}

func (r *PostgresRepository) availableTickets(ctx context.Context, tx *sqlx.Tx, eventID string, capacity int) (int, error) {
	var booked int
	err := tx.GetContext(ctx, &booked, `
		SELECT
		    COALESCE(SUM(quantity), 0)
		FROM
		    bookings
		WHERE
		    event_id = $1
		GROUP BY
		    event_id
	`, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return capacity, nil
		}
		return 0, fmt.Errorf("could not get booked tickets count: %w", err)
	}

	return capacity - booked, nil
}
