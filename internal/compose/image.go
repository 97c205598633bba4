package compose

import (
	"bytes"
	"fmt"
	"image/png"
	"os"

	"github.com/fogleman/gg"

	"github.com/roadwatch/crashweekly/internal/domain"
)

// Fixed overlay layout: lines are centered horizontally and stacked from a
// fixed vertical anchor, spaced relative to the font size.
const (
	anchorXFrac = 0.5
	anchorYFrac = 0.35
	lineSpacing = 1.6
)

// renderImage loads the background template, overlays the window string and
// the six statistics as styled text at the fixed anchor, and serializes to
// PNG. Asset and overlay failures wrap domain.ErrRender.
func (c *Composer) renderImage(stats domain.AggregateStats, window string) ([]byte, error) {
	f, err := os.Open(c.templatePath)
	if err != nil {
		return nil, fmt.Errorf("%w: template asset: %w", domain.ErrRender, err)
	}
	defer f.Close()

	background, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: decode template: %w", domain.ErrRender, err)
	}

	lines := []string{
		fmt.Sprintf("Week %s", window),
		fmt.Sprintf("%d crashes", stats.WeeklyCrashes),
		fmt.Sprintf("%d fatalities", stats.WeeklyFatalities),
		fmt.Sprintf("%d injuries", stats.WeeklyInjuries),
		fmt.Sprintf("Year to date: %d crashes, %d fatalities, %d injuries",
			stats.YearToDateCrashes, stats.YearToDateFatalities, stats.YearToDateInjuries),
	}

	if err := c.checkGlyphs(lines); err != nil {
		return nil, err
	}

	dc := gg.NewContextForImage(background)
	dc.SetFontFace(c.face)
	dc.SetRGB(1, 1, 1)

	x := float64(dc.Width()) * anchorXFrac
	y := float64(dc.Height()) * anchorYFrac
	step := c.fontSize * lineSpacing
	for i, line := range lines {
		dc.DrawStringAnchored(line, x, y+float64(i)*step, 0.5, 0.5)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, fmt.Errorf("%w: encode png: %w", domain.ErrRender, err)
	}
	return buf.Bytes(), nil
}

// checkGlyphs rejects text the face cannot draw. Missing glyphs would
// otherwise render as replacement boxes without any signal.
func (c *Composer) checkGlyphs(lines []string) error {
	for _, line := range lines {
		for _, r := range line {
			if _, ok := c.face.GlyphAdvance(r); !ok {
				return fmt.Errorf("%w: unsupported glyph %q", domain.ErrRender, r)
			}
		}
	}
	return nil
}
