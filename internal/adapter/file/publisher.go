// Package file writes composed artifacts to a local directory. It backs the
// dry-run publish mode and doubles as an archive sink.
package file

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/roadwatch/crashweekly/internal/domain"
)

// Publisher stores each artifact as a <id>.txt / <id>.png pair under dir.
// It implements pipeline.Publisher.
type Publisher struct {
	dir    string
	logger *slog.Logger
}

func NewPublisher(dir string, logger *slog.Logger) *Publisher {
	return &Publisher{dir: dir, logger: logger}
}

// Publish writes the text and image files and returns the receipt. A partial
// write (text landed, image failed) leaves the text file behind; the run
// still fails and the orphan is harmless.
func (p *Publisher) Publish(_ context.Context, artifact domain.ComposedArtifact) (domain.PublishReceipt, error) {
	receipt := domain.PublishReceipt{
		ID:          uuid.NewString(),
		PublishedAt: domain.Now(),
	}

	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return domain.PublishReceipt{}, fmt.Errorf("%w: create output dir: %w", domain.ErrPublish, err)
	}

	textPath := filepath.Join(p.dir, receipt.ID+".txt")
	if err := os.WriteFile(textPath, []byte(artifact.Text), 0o644); err != nil {
		return domain.PublishReceipt{}, fmt.Errorf("%w: write text: %w", domain.ErrPublish, err)
	}

	imagePath := filepath.Join(p.dir, receipt.ID+".png")
	if err := os.WriteFile(imagePath, artifact.Image, 0o644); err != nil {
		return domain.PublishReceipt{}, fmt.Errorf("%w: write image: %w", domain.ErrPublish, err)
	}

	p.logger.Info("artifact written",
		"receipt_id", receipt.ID,
		"text_path", textPath,
		"image_path", imagePath,
	)
	return receipt, nil
}
