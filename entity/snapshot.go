package entity

// StoredSnapshot is the client-side copy of the booking context captured just
// before the payer was redirected to the gateway, and echoed back with the
// callback. It is untrusted: the reconciler consults it only when the
// verified transaction's carrier fields are blank.
type StoredSnapshot struct {
	EventID    string `json:"event_id"`
	UserID     string `json:"user_id"`
	TicketType string `json:"ticket_type"`
	Quantity   int    `json:"quantity"`

	AttendeeName    string `json:"attendee_name"`
	AttendeeEmail   string `json:"attendee_email"`
	AttendeePhone   string `json:"attendee_phone"`
	AttendeeGender  string `json:"attendee_gender"`
	AttendeeAge     int    `json:"attendee_age"`
	AttendeeAddress string `json:"attendee_address"`
}
