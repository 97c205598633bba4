package file

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadwatch/crashweekly/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testArtifact() domain.ComposedArtifact {
	return domain.ComposedArtifact{
		Text:  "Week 06/02-12/02: 5 crashes in MADISON caused 3 fatalities and 2 injuries. Year to date: 120 crashes, 10 fatalities, 200 injuries.",
		Image: []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a},
	}
}

func TestPublish_WritesTextAndImage(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2022, time.February, 14, 9, 0, 0, 0, time.UTC))
	domain.SetClock(clock)
	t.Cleanup(func() { domain.SetClock(clockwork.NewRealClock()) })

	dir := t.TempDir()
	p := NewPublisher(dir, discardLogger())

	receipt, err := p.Publish(context.Background(), testArtifact())
	require.NoError(t, err)
	require.NotEmpty(t, receipt.ID)
	assert.True(t, receipt.PublishedAt.Equal(clock.Now()))

	text, err := os.ReadFile(filepath.Join(dir, receipt.ID+".txt"))
	require.NoError(t, err)
	assert.Equal(t, testArtifact().Text, string(text))

	image, err := os.ReadFile(filepath.Join(dir, receipt.ID+".png"))
	require.NoError(t, err)
	assert.Equal(t, testArtifact().Image, image)
}

func TestPublish_CreatesMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	p := NewPublisher(dir, discardLogger())

	_, err := p.Publish(context.Background(), testArtifact())
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestPublish_UniqueReceiptIDs(t *testing.T) {
	p := NewPublisher(t.TempDir(), discardLogger())

	first, err := p.Publish(context.Background(), testArtifact())
	require.NoError(t, err)
	second, err := p.Publish(context.Background(), testArtifact())
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestPublish_UnwritableDirectory(t *testing.T) {
	dir := t.TempDir()
	blocked := filepath.Join(dir, "blocked")
	require.NoError(t, os.WriteFile(blocked, nil, 0o644))

	// The output path collides with an existing file, so MkdirAll fails.
	p := NewPublisher(blocked, discardLogger())

	_, err := p.Publish(context.Background(), testArtifact())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPublish)
}
