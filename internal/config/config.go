package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/roadwatch/crashweekly/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	// Feed query scope.
	FeedBaseURL  string
	FeedTimeout  time.Duration
	County       string
	Municipality string
	StartYear    int
	Severities   []string

	// Reporting conventions.
	WeekStart time.Weekday
	TextLimit int

	// Image composition.
	TemplateImagePath string
	FontPath          string // empty: embedded fallback face
	FontSize          float64

	// Publishing.
	PublishMode  string // "kafka" or "file"
	KafkaBrokers []string
	KafkaTopic   string
	OutputDir    string

	// Operational.
	HTTPAddr        string // empty: health/metrics server disabled
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

const (
	PublishModeKafka = "kafka"
	PublishModeFile  = "file"
)

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	feedTimeout, err := parseDurationEnv("FEED_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := parseDurationEnv("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	startYear, err := parseIntEnv("START_YEAR", 0)
	if err != nil {
		return nil, err
	}

	textLimit, err := parseIntEnv("TEXT_LIMIT", 280)
	if err != nil {
		return nil, err
	}

	fontSize, err := parseFloatEnv("FONT_SIZE", 48)
	if err != nil {
		return nil, err
	}

	weekStart, err := parseWeekday(envOrDefault("WEEK_START", "sunday"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		FeedBaseURL:  os.Getenv("FEED_BASE_URL"),
		FeedTimeout:  feedTimeout,
		County:       os.Getenv("COUNTY"),
		Municipality: os.Getenv("MUNICIPALITY"),
		StartYear:    startYear,
		Severities:   splitList(envOrDefault("SEVERITY_CLASSES", "K,A,B,O")),

		WeekStart: weekStart,
		TextLimit: textLimit,

		TemplateImagePath: os.Getenv("TEMPLATE_IMAGE_PATH"),
		FontPath:          os.Getenv("FONT_PATH"),
		FontSize:          fontSize,

		PublishMode:  envOrDefault("PUBLISH_MODE", PublishModeFile),
		KafkaBrokers: splitList(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "crash-report-artifacts"),
		OutputDir:    envOrDefault("OUTPUT_DIR", "out"),

		HTTPAddr:        os.Getenv("HTTP_ADDR"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.FeedBaseURL == "" {
		return errors.New("FEED_BASE_URL is required")
	}
	if c.County == "" {
		return errors.New("COUNTY is required")
	}
	if c.Municipality == "" {
		return errors.New("MUNICIPALITY is required")
	}
	if c.StartYear < 1990 || c.StartYear > 2100 {
		return fmt.Errorf("START_YEAR %d is out of range", c.StartYear)
	}
	if len(c.Severities) == 0 {
		return errors.New("SEVERITY_CLASSES must list at least one class")
	}
	for _, s := range c.Severities {
		if !slices.Contains(domain.SeverityClasses, s) {
			return fmt.Errorf("SEVERITY_CLASSES: unknown class %q (want one of %s)",
				s, strings.Join(domain.SeverityClasses, ", "))
		}
	}
	if c.TextLimit <= 0 {
		return errors.New("TEXT_LIMIT must be positive")
	}
	if c.TemplateImagePath == "" {
		return errors.New("TEMPLATE_IMAGE_PATH is required")
	}
	if c.FontSize <= 0 {
		return errors.New("FONT_SIZE must be positive")
	}

	switch c.PublishMode {
	case PublishModeKafka:
		if len(c.KafkaBrokers) == 0 {
			return errors.New("KAFKA_BROKERS is required when PUBLISH_MODE is kafka")
		}
		if c.KafkaTopic == "" {
			return errors.New("KAFKA_TOPIC is required when PUBLISH_MODE is kafka")
		}
	case PublishModeFile:
		if c.OutputDir == "" {
			return errors.New("OUTPUT_DIR is required when PUBLISH_MODE is file")
		}
	default:
		return fmt.Errorf("PUBLISH_MODE %q is not one of kafka, file", c.PublishMode)
	}

	return nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseIntEnv(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func parseFloatEnv(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return f, nil
}

func parseWeekday(s string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sunday":
		return time.Sunday, nil
	case "monday":
		return time.Monday, nil
	case "tuesday":
		return time.Tuesday, nil
	case "wednesday":
		return time.Wednesday, nil
	case "thursday":
		return time.Thursday, nil
	case "friday":
		return time.Friday, nil
	case "saturday":
		return time.Saturday, nil
	}
	return time.Sunday, fmt.Errorf("invalid WEEK_START %q", s)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
