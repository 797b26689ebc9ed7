package entity

// CatalogEvent is the read-only catalog snapshot used while composing ticket
// artifacts. The catalog itself is owned by the admin side of the platform;
// this pipeline only reads it.
type CatalogEvent struct {
	EventID      string `db:"event_id" json:"event_id"`
	Name         string `db:"name" json:"name"`
	Date         string `db:"date" json:"date"`
	Venue        string `db:"venue" json:"venue"`
	ImageURL     string `db:"image_url" json:"image_url"`
	TotalTickets int    `db:"total_tickets" json:"total_tickets"`
}
