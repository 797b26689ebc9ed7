// Package notification sends the booking-confirmation email. Dispatch is
// strictly best-effort: a failed send is reported in the returned attempt,
// never as an error, so the caller's acknowledgment is unaffected.
package notification

import (
	"context"
	"fmt"

	"gatepass/entity"
	"gatepass/log"
)

type Dispatcher struct {
	sender   Sender
	provider string
}

func NewDispatcher(sender Sender, provider string) *Dispatcher {
	return &Dispatcher{sender: sender, provider: provider}
}

// Dispatch makes the single delivery attempt for a newly created booking.
// pdf may be nil when artifact generation failed; the mail then goes out
// without an attachment.
func (d *Dispatcher) Dispatch(ctx context.Context, booking entity.Booking, event entity.CatalogEvent, pdf []byte) entity.NotificationAttempt {
	attempt := entity.NotificationAttempt{
		Attempted: true,
		Provider:  d.provider,
	}

	var attachments []Attachment
	if len(pdf) > 0 {
		attachments = append(attachments, Attachment{
			Filename: fmt.Sprintf("%s-ticket.pdf", booking.TransactionID),
			Data:     pdf,
		})
	}

	subject := fmt.Sprintf("Your tickets for %s", event.Name)
	result, err := d.sender.Send(ctx, booking.AttendeeEmail, subject, htmlBody(booking, event), attachments)
	if err != nil {
		log.FromContext(ctx).WithError(err).Error("notification delivery failed")
		attempt.Error = err.Error()
		return attempt
	}

	attempt.MessageID = result.MessageID
	attempt.PreviewURL = result.PreviewURL
	return attempt
}

func htmlBody(booking entity.Booking, event entity.CatalogEvent) string {
	return fmt.Sprintf(
		`<h1>Booking confirmed</h1>
<p>Hi %s,</p>
<p>Your booking for <strong>%s</strong> is confirmed.</p>
<ul>
<li>Date: %s</li>
<li>Venue: %s</li>
<li>Tickets: %d × %s</li>
<li>Reference: %s</li>
</ul>
<p>Your ticket is attached. Present the QR stub at the door.</p>`,
		booking.AttendeeName,
		event.Name,
		event.Date,
		event.Venue,
		booking.Quantity,
		booking.TicketType,
		booking.TransactionID,
	)
}
