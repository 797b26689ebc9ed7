// Package artifact produces the ephemeral ticket artifacts for a newly
// created booking: a QR raster and a composed PDF document. Artifacts are
// handed to the notification dispatcher and discarded, never persisted.
package artifact

import (
	"context"
	"fmt"
	"net/http"

	"gatepass/entity"
	"gatepass/log"
)

type Generator struct {
	banners *BannerFetcher
}

func NewGenerator(httpClient *http.Client) *Generator {
	return &Generator{banners: NewBannerFetcher(httpClient)}
}

// Generate composes the ticket PDF for a booking. Banner problems degrade to
// a placeholder block; any other failure is returned and the caller is
// expected to proceed without an attachment.
func (g *Generator) Generate(ctx context.Context, booking entity.Booking, event entity.CatalogEvent) ([]byte, error) {
	qr, err := QRCode(booking.QRToken)
	if err != nil {
		return nil, fmt.Errorf("could not generate QR raster: %w", err)
	}

	banner, err := g.banners.Fetch(ctx, event.ImageURL)
	if err != nil {
		log.FromContext(ctx).WithError(err).Warn("banner unavailable, using placeholder")
		banner = nil
	}

	pdf, err := ComposeTicket(booking, event, qr, banner)
	if err != nil {
		return nil, fmt.Errorf("could not compose ticket: %w", err)
	}

	return pdf, nil
}
