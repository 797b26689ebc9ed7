package artifact

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatepass/entity"
)

func TestVerificationToken(t *testing.T) {
	token := VerificationToken("T1", "secret")

	id, ok := VerifyToken(token, "secret")
	assert.True(t, ok)
	assert.Equal(t, "T1", id)

	_, ok = VerifyToken(token, "other-secret")
	assert.False(t, ok)

	_, ok = VerifyToken("T1:forged", "secret")
	assert.False(t, ok)

	_, ok = VerifyToken("garbage", "secret")
	assert.False(t, ok)
}

func TestQRCode(t *testing.T) {
	data, err := QRCode(VerificationToken("T1", "secret"))
	require.NoError(t, err)

	assert.Equal(t, "image/png", http.DetectContentType(data))
}

// 1x1 lossy webp
var webpBanner = []byte{
	0x52, 0x49, 0x46, 0x46, 0x24, 0x00, 0x00, 0x00, 0x57, 0x45, 0x42, 0x50,
	0x56, 0x50, 0x38, 0x20, 0x18, 0x00, 0x00, 0x00, 0x30, 0x01, 0x00, 0x9d,
	0x01, 0x2a, 0x01, 0x00, 0x01, 0x00, 0x02, 0x00, 0x34, 0x25, 0xa4, 0x00,
	0x03, 0x70, 0x00, 0xfe, 0xfb, 0xfd, 0x50, 0x00,
}

func TestBannerFetcher_PassThroughAndTranscode(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}

	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, img))

	var gifBuf bytes.Buffer
	palette := []color.Color{color.White, color.Black}
	paletted := image.NewPaletted(image.Rect(0, 0, 8, 8), palette)
	require.NoError(t, gif.Encode(&gifBuf, paletted, nil))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/banner.png":
			_, _ = w.Write(pngBuf.Bytes())
		case "/banner.gif":
			_, _ = w.Write(gifBuf.Bytes())
		case "/banner.webp":
			_, _ = w.Write(webpBanner)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	fetcher := NewBannerFetcher(srv.Client())

	banner, err := fetcher.Fetch(context.Background(), srv.URL+"/banner.png")
	require.NoError(t, err)
	assert.Equal(t, "PNG", banner.Format)
	assert.Equal(t, pngBuf.Bytes(), banner.Data)

	// gif is not embeddable, must come back transcoded to png
	banner, err = fetcher.Fetch(context.Background(), srv.URL+"/banner.gif")
	require.NoError(t, err)
	assert.Equal(t, "PNG", banner.Format)
	assert.Equal(t, "image/png", http.DetectContentType(banner.Data))

	// webp likewise comes back transcoded to png
	banner, err = fetcher.Fetch(context.Background(), srv.URL+"/banner.webp")
	require.NoError(t, err)
	assert.Equal(t, "PNG", banner.Format)
	assert.Equal(t, "image/png", http.DetectContentType(banner.Data))
	decoded, _, err := image.Decode(bytes.NewReader(banner.Data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 1, 1), decoded.Bounds())

	_, err = fetcher.Fetch(context.Background(), srv.URL+"/missing.png")
	assert.Error(t, err)
}

func TestGenerator_PlaceholderOnUnreachableBanner(t *testing.T) {
	generator := NewGenerator(nil)

	booking := entity.Booking{
		TransactionID: "T1",
		AttendeeName:  "Jane Doe",
		AttendeeEmail: "jane@test.io",
		PaymentStatus: entity.PaymentStatusCompleted,
		Amount:        "299",
		QRToken:       VerificationToken("T1", "secret"),
		TicketType:    "Regular",
		Quantity:      1,
	}
	event := entity.CatalogEvent{
		EventID:  "42",
		Name:     "Evening Show",
		Date:     "2026-09-01",
		Venue:    "Town Hall",
		ImageURL: "http://127.0.0.1:1/banner.png",
	}

	pdf, err := generator.Generate(context.Background(), booking, event)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestComposeTicket_WithBanner(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	qr, err := QRCode("T1")
	require.NoError(t, err)

	pdf, err := ComposeTicket(
		entity.Booking{TransactionID: "T1", AttendeeName: "Jane Doe", Quantity: 1},
		entity.CatalogEvent{Name: "Evening Show"},
		qr,
		&Banner{Data: buf.Bytes(), Format: "PNG"},
	)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}
