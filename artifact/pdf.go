package artifact

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"

	"gatepass/entity"
)

const (
	pageWidth    = 210.0 // A4 portrait, mm
	marginX      = 15.0
	bannerHeight = 50.0
	qrSizeMM     = 40.0
)

// ComposeTicket lays out the ticket document: banner, event details, attendee
// and payment summaries, and a separated stub region carrying the QR raster
// and the booking identifiers. A nil banner draws a placeholder block.
func ComposeTicket(booking entity.Booking, event entity.CatalogEvent, qrPNG []byte, banner *Banner) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Ticket %s", booking.TransactionID), true)
	pdf.AddPage()

	contentWidth := pageWidth - 2*marginX

	if banner != nil {
		name := "banner-" + uuid.NewString()
		pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: banner.Format}, bytes.NewReader(banner.Data))
		pdf.ImageOptions(name, marginX, 15, contentWidth, bannerHeight, false, fpdf.ImageOptions{ImageType: banner.Format}, 0, "")
	} else {
		pdf.SetFillColor(230, 230, 230)
		pdf.Rect(marginX, 15, contentWidth, bannerHeight, "F")
		pdf.SetFont("Helvetica", "B", 16)
		pdf.SetTextColor(120, 120, 120)
		pdf.SetXY(marginX, 15+bannerHeight/2-5)
		pdf.CellFormat(contentWidth, 10, event.Name, "", 0, "C", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginX, 15+bannerHeight+8)

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(contentWidth, 10, event.Name, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetX(marginX)
	pdf.CellFormat(contentWidth, 6, fmt.Sprintf("%s  |  %s", event.Date, event.Venue), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	writeSection(pdf, "Attendee", [][2]string{
		{"Name", booking.AttendeeName},
		{"Email", booking.AttendeeEmail},
		{"Phone", booking.AttendeePhone},
	})

	writeSection(pdf, "Payment", [][2]string{
		{"Status", booking.PaymentStatus},
		{"Amount", booking.Amount},
		{"Method", booking.PaymentMethod},
	})

	writeSection(pdf, "Booking", [][2]string{
		{"Transaction", booking.TransactionID},
		{"Ticket type", booking.TicketType},
		{"Quantity", fmt.Sprintf("%d", booking.Quantity)},
	})

	// stub region, separated by a perforation-style dashed line
	stubTop := pdf.GetY() + 8
	pdf.SetDashPattern([]float64{2, 2}, 0)
	pdf.Line(marginX, stubTop, pageWidth-marginX, stubTop)
	pdf.SetDashPattern([]float64{}, 0)

	qrName := "qr-" + uuid.NewString()
	pdf.RegisterImageOptionsReader(qrName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))
	pdf.ImageOptions(qrName, marginX, stubTop+6, qrSizeMM, qrSizeMM, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(marginX+qrSizeMM+6, stubTop+6)
	pdf.MultiCell(contentWidth-qrSizeMM-6, 5,
		fmt.Sprintf("Admit: %s\nTransaction: %s\nPresent this stub at the door.", booking.AttendeeName, booking.TransactionID),
		"", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("could not render ticket document: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSection(pdf *fpdf.Fpdf, title string, rows [][2]string) {
	pdf.SetX(marginX)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		pdf.SetX(marginX)
		pdf.CellFormat(35, 6, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)
}
