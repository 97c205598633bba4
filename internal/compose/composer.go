// Package compose renders aggregate statistics into the publishable
// text + image artifact.
package compose

import (
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/roadwatch/crashweekly/internal/config"
	"github.com/roadwatch/crashweekly/internal/domain"
)

// textTemplate fixes the message shape so the six statistics can always be
// recovered from a published message. Argument order: window, weekly
// crashes, municipality, weekly fatalities, weekly injuries, year-to-date
// crashes, year-to-date fatalities, year-to-date injuries.
const textTemplate = "Week %s: %d crashes in %s caused %d fatalities and %d injuries. Year to date: %d crashes, %d fatalities, %d injuries."

// Composer renders AggregateStats into the composed artifact using a fixed
// text template and a fixed background image. Rendering is deterministic for
// identical inputs.
type Composer struct {
	municipality string
	textLimit    int
	templatePath string
	face         font.Face
	fontSize     float64
}

// New builds a Composer from configuration. When no font path is configured
// the embedded Go Regular face is used, so rendering works without a bundled
// font file. Font failures wrap domain.ErrRender.
func New(cfg *config.Config) (*Composer, error) {
	face, err := loadFace(cfg.FontPath, cfg.FontSize)
	if err != nil {
		return nil, fmt.Errorf("%w: load font: %w", domain.ErrRender, err)
	}

	return &Composer{
		municipality: cfg.Municipality,
		textLimit:    cfg.TextLimit,
		templatePath: cfg.TemplateImagePath,
		face:         face,
		fontSize:     cfg.FontSize,
	}, nil
}

// Compose renders the statistics into the bounded text message and the
// annotated template image.
func (c *Composer) Compose(stats domain.AggregateStats, window string) (domain.ComposedArtifact, error) {
	text, err := c.composeText(stats, window)
	if err != nil {
		return domain.ComposedArtifact{}, err
	}

	image, err := c.renderImage(stats, window)
	if err != nil {
		return domain.ComposedArtifact{}, err
	}

	return domain.ComposedArtifact{Text: text, Image: image}, nil
}

// composeText substitutes the window string and the six statistics into the
// fixed template and enforces the platform length ceiling. Overflow is an
// error, never a truncation: cutting the message could drop a statistic and
// mislead readers.
func (c *Composer) composeText(stats domain.AggregateStats, window string) (string, error) {
	text := FormatText(c.municipality, window, stats)
	if n := utf8.RuneCountInString(text); n > c.textLimit {
		return "", fmt.Errorf("%w: %d runes, ceiling %d", domain.ErrContentTooLong, n, c.textLimit)
	}
	return text, nil
}

// FormatText renders the message text without the length check. Fixture
// tooling uses it to predict what a pipeline run would publish.
func FormatText(municipality, window string, stats domain.AggregateStats) string {
	return fmt.Sprintf(textTemplate,
		window,
		stats.WeeklyCrashes,
		municipality,
		stats.WeeklyFatalities,
		stats.WeeklyInjuries,
		stats.YearToDateCrashes,
		stats.YearToDateFatalities,
		stats.YearToDateInjuries,
	)
}

func loadFace(path string, size float64) (font.Face, error) {
	data := goregular.TTF
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		data = b
	}

	ft, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(ft, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
