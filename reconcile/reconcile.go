// Package reconcile merges the three candidate data sources of a payment
// callback into one persistable booking. It is pure: no I/O, no clocks.
package reconcile

import (
	"strconv"

	"github.com/samber/lo"

	"gatepass/entity"
)

// Placeholder attendee values. A verified payment is always captured as a
// booking, even when every source left the attendee fields blank.
const (
	PlaceholderName    = "Guest"
	PlaceholderEmail   = "guest@example.invalid"
	PlaceholderPhone   = "0000000000"
	PlaceholderGender  = "N/A"
	PlaceholderAddress = "N/A"
)

// Merge builds the candidate booking from the verified transaction, the
// client's pre-redirect stored snapshot, and the decoded product descriptor.
// Identifier-bearing fields resolve strictly in that order: the transaction's
// carrier fields win over the snapshot, which wins over the descriptor.
// Either lower-precedence source may be nil.
func Merge(verified entity.Transaction, stored *entity.StoredSnapshot, info *ProductInfo) entity.Booking {
	if stored == nil {
		stored = &entity.StoredSnapshot{}
	}
	if info == nil {
		info = &ProductInfo{}
	}

	quantity, ok := lo.Coalesce(atoi(verified.UDF4), stored.Quantity, info.Quantity)
	if !ok || quantity < 1 {
		quantity = 1
	}

	return entity.Booking{
		TransactionID: verified.ID,
		EventID:       first(verified.UDF1, stored.EventID, info.EventID),
		UserID:        first(verified.UDF2, stored.UserID, info.UserID),
		TicketType:    first(verified.UDF3, stored.TicketType, info.TicketType),
		Quantity:      quantity,

		AttendeeName:    first(verified.FirstName, stored.AttendeeName, PlaceholderName),
		AttendeeEmail:   first(verified.Email, stored.AttendeeEmail, PlaceholderEmail),
		AttendeePhone:   first(verified.UDF5, stored.AttendeePhone, PlaceholderPhone),
		AttendeeGender:  first(stored.AttendeeGender, PlaceholderGender),
		AttendeeAge:     stored.AttendeeAge,
		AttendeeAddress: first(stored.AttendeeAddress, PlaceholderAddress),

		PaymentStatus: paymentStatus(verified.Status),
		Amount:        verified.Amount,
		PaymentMethod: verified.Mode,
		Status:        entity.BookingStatusConfirmed,
		Note:          verified.ProductInfo,
	}
}

func paymentStatus(gatewayStatus string) string {
	if gatewayStatus == entity.TransactionStatusSuccess {
		return entity.PaymentStatusCompleted
	}
	return gatewayStatus
}

func first(values ...string) string {
	v, _ := lo.Coalesce(values...)
	return v
}

func atoi(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}
