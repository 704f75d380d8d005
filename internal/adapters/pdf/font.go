package pdf

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-pdf/fpdf"
)

const maxFontBytes = 16 << 20

// bodyFont is the face used for all report text; data is nil for the built-in fallback
type bodyFont struct {
	family string
	data   []byte
}

var fallbackFont = bodyFont{family: "Helvetica"}

// fetchFont downloads a TrueType font and checks that fpdf can parse it
func (r *Renderer) fetchFont(ctx context.Context) (bodyFont, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.fontURL, nil)
	if err != nil {
		return bodyFont{}, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return bodyFont{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return bodyFont{}, fmt.Errorf("unexpected status %s", resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFontBytes))
	if err != nil {
		return bodyFont{}, err
	}

	probe := fpdf.New("P", "mm", "A4", "")
	probe.AddUTF8FontFromBytes("Body", "", data)
	if probe.Err() {
		return bodyFont{}, fmt.Errorf("unusable font: %w", probe.Error())
	}
	return bodyFont{family: "Body", data: data}, nil
}

// loadFont never fails: any problem is logged and the built-in font is used
func (r *Renderer) loadFont(ctx context.Context) bodyFont {
	if r.fontURL == "" {
		return fallbackFont
	}
	start := time.Now()
	f, err := r.fetchFont(ctx)
	if err != nil {
		r.log.Warn().Err(err).Str("url", r.fontURL).Msg("could not load report font, using default")
		return fallbackFont
	}
	r.log.Debug().Str("url", r.fontURL).Int("bytes", len(f.data)).Dur("took", time.Since(start)).Msg("report font loaded")
	return f
}
