package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testFeedURL  = "https://crash-feed.example.test/search/api"
	testTemplate = "assets/template.png"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("FEED_BASE_URL", testFeedURL)
	t.Setenv("COUNTY", "DANE")
	t.Setenv("MUNICIPALITY", "MADISON")
	t.Setenv("START_YEAR", "2022")
	t.Setenv("TEMPLATE_IMAGE_PATH", testTemplate)
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, testFeedURL, cfg.FeedBaseURL)
	assert.Equal(t, 30*time.Second, cfg.FeedTimeout)
	assert.Equal(t, "DANE", cfg.County)
	assert.Equal(t, "MADISON", cfg.Municipality)
	assert.Equal(t, 2022, cfg.StartYear)
	assert.Equal(t, []string{"K", "A", "B", "O"}, cfg.Severities)
	assert.Equal(t, time.Sunday, cfg.WeekStart)
	assert.Equal(t, 280, cfg.TextLimit)
	assert.Equal(t, testTemplate, cfg.TemplateImagePath)
	assert.Empty(t, cfg.FontPath)
	assert.Equal(t, 48.0, cfg.FontSize)
	assert.Equal(t, PublishModeFile, cfg.PublishMode)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "crash-report-artifacts", cfg.KafkaTopic)
	assert.Empty(t, cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_CustomEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("FEED_TIMEOUT", "5s")
	t.Setenv("SEVERITY_CLASSES", "K,A")
	t.Setenv("WEEK_START", "monday")
	t.Setenv("TEXT_LIMIT", "500")
	t.Setenv("FONT_PATH", "assets/custom.ttf")
	t.Setenv("FONT_SIZE", "36.5")
	t.Setenv("PUBLISH_MODE", "kafka")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "custom-artifacts")
	t.Setenv("HTTP_ADDR", ":8080")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.FeedTimeout)
	assert.Equal(t, []string{"K", "A"}, cfg.Severities)
	assert.Equal(t, time.Monday, cfg.WeekStart)
	assert.Equal(t, 500, cfg.TextLimit)
	assert.Equal(t, "assets/custom.ttf", cfg.FontPath)
	assert.Equal(t, 36.5, cfg.FontSize)
	assert.Equal(t, PublishModeKafka, cfg.PublishMode)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-artifacts", cfg.KafkaTopic)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_MissingRequired(t *testing.T) {
	tests := []struct {
		name  string
		unset string
		want  string
	}{
		{"feed url", "FEED_BASE_URL", "FEED_BASE_URL"},
		{"county", "COUNTY", "COUNTY"},
		{"municipality", "MUNICIPALITY", "MUNICIPALITY"},
		{"template image", "TEMPLATE_IMAGE_PATH", "TEMPLATE_IMAGE_PATH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.unset, "")

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_InvalidStartYear(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"unset", ""},
		{"not a number", "twenty22"},
		{"too small", "1800"},
		{"too large", "9999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv("START_YEAR", tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "START_YEAR")
		})
	}
}

func TestLoad_InvalidSeverityClass(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SEVERITY_CLASSES", "K,X")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SEVERITY_CLASSES")
}

func TestLoad_InvalidWeekStart(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("WEEK_START", "someday")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WEEK_START")
}

func TestLoad_WeekStartAnyWeekday(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("WEEK_START", "Wednesday")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, time.Wednesday, cfg.WeekStart)
}

func TestLoad_InvalidTextLimit(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TEXT_LIMIT", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TEXT_LIMIT")
}

func TestLoad_InvalidFeedTimeout(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("FEED_TIMEOUT", "not-a-duration")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FEED_TIMEOUT")
}

func TestLoad_InvalidPublishMode(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PUBLISH_MODE", "carrier-pigeon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PUBLISH_MODE")
}

func TestLoad_KafkaModeRequiresBrokers(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PUBLISH_MODE", "kafka")
	t.Setenv("KAFKA_BROKERS", " , ")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}
