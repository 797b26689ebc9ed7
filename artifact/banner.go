package artifact

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/gif"
	"image/png"
	"io"
	"net/http"

	"golang.org/x/image/webp"
)

const maxBannerBytes = 10 << 20

// Banner is an image ready for embedding: PNG or JPEG bytes plus the format
// tag the PDF layer expects.
type Banner struct {
	Data   []byte
	Format string // "PNG" or "JPG"
}

// BannerFetcher downloads catalog banner images and transcodes encodings the
// document composer cannot embed directly.
type BannerFetcher struct {
	httpClient *http.Client
}

func NewBannerFetcher(httpClient *http.Client) *BannerFetcher {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &BannerFetcher{httpClient: httpClient}
}

// Fetch is best-effort: callers substitute a placeholder block on error.
func (f *BannerFetcher) Fetch(ctx context.Context, imageURL string) (*Banner, error) {
	if imageURL == "" {
		return nil, fmt.Errorf("no banner image configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("could not build banner request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not fetch banner: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code for GET %s: %d", imageURL, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBannerBytes))
	if err != nil {
		return nil, fmt.Errorf("could not read banner body: %w", err)
	}

	return transcode(data)
}

// transcode passes PNG and JPEG through untouched and re-encodes everything
// else (WebP, GIF) to PNG.
func transcode(data []byte) (*Banner, error) {
	switch contentType := http.DetectContentType(data); contentType {
	case "image/png":
		return &Banner{Data: data, Format: "PNG"}, nil
	case "image/jpeg":
		return &Banner{Data: data, Format: "JPG"}, nil
	case "image/webp":
		img, err := webp.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("could not decode webp banner: %w", err)
		}
		return encodePNG(img)
	case "image/gif":
		img, err := gif.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("could not decode gif banner: %w", err)
		}
		return encodePNG(img)
	default:
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("unsupported banner encoding %q", contentType)
		}
		return encodePNG(img)
	}
}

func encodePNG(img image.Image) (*Banner, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("could not re-encode banner as png: %w", err)
	}
	return &Banner{Data: buf.Bytes(), Format: "PNG"}, nil
}
