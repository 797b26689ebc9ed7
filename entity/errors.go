package entity

import "errors"

var (
	ErrNoAvailableTickets = errors.New("no available tickets")
	ErrNotFound           = errors.New("not found")
)
