package entity

import "time"

// Booking is the persisted outcome of a reconciled payment callback,
// keyed by the transaction id. Exactly one row exists per transaction id.
type Booking struct {
	TransactionID   string    `db:"transaction_id" json:"transaction_id"`
	EventID         string    `db:"event_id" json:"event_id"`
	UserID          string    `db:"user_id" json:"user_id"`
	AttendeeName    string    `db:"attendee_name" json:"attendee_name"`
	AttendeeEmail   string    `db:"attendee_email" json:"attendee_email"`
	AttendeePhone   string    `db:"attendee_phone" json:"attendee_phone"`
	AttendeeGender  string    `db:"attendee_gender" json:"attendee_gender"`
	AttendeeAge     int       `db:"attendee_age" json:"attendee_age"`
	AttendeeAddress string    `db:"attendee_address" json:"attendee_address"`
	PaymentStatus   string    `db:"payment_status" json:"payment_status"`
	Amount          string    `db:"amount" json:"amount"`
	PaymentMethod   string    `db:"payment_method" json:"payment_method"`
	QRToken         string    `db:"qr_token" json:"qr_token"`
	Status          string    `db:"status" json:"status"`
	TicketType      string    `db:"ticket_type" json:"ticket_type"`
	Quantity        int       `db:"quantity" json:"quantity"`
	Note            string    `db:"note" json:"note"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

const (
	PaymentStatusCompleted = "completed"
	BookingStatusConfirmed = "confirmed"
)
