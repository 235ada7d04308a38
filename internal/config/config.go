package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	// Upstream Hydromet API.
	HydrometBaseURL string
	HydrometTimeout time.Duration

	// HTTP surface.
	HTTPAddr        string
	ShutdownTimeout time.Duration

	// Logging.
	LogLevel  string
	LogFormat string

	// Aggregation policy: return partial reports when a category fails, or
	// fail the whole request.
	ReportAllowPartial bool

	// Kafka report export (optional in the API server, required by the poller).
	KafkaEnabled     bool
	KafkaBrokers     []string
	KafkaReportTopic string

	// Cron spec for the poller binary.
	PollSchedule string
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	hydrometTimeout, err := parseDurationEnv("HYDROMET_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := parseDurationEnv("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	allowPartial, err := parseBoolEnv("REPORT_ALLOW_PARTIAL", true)
	if err != nil {
		return nil, err
	}

	brokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HydrometBaseURL:    envOrDefault("HYDROMET_BASE_URL", "https://hydromet.lcra.org"),
		HydrometTimeout:    hydrometTimeout,
		HTTPAddr:           envOrDefault("HTTP_ADDR", ":8080"),
		ShutdownTimeout:    shutdownTimeout,
		LogLevel:           envOrDefault("LOG_LEVEL", "info"),
		LogFormat:          envOrDefault("LOG_FORMAT", "json"),
		ReportAllowPartial: allowPartial,
		KafkaEnabled:       kafkaEnabled,
		KafkaBrokers:       brokers,
		KafkaReportTopic:   envOrDefault("KAFKA_REPORT_TOPIC", "flood-status-reports"),
		PollSchedule:       envOrDefault("POLL_SCHEDULE", "0 * * * *"),
	}

	u, err := url.Parse(cfg.HydrometBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.New("HYDROMET_BASE_URL must be an absolute URL")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaReportTopic == "" {
		return nil, errors.New("KAFKA_REPORT_TOPIC is required when Kafka is enabled")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return d, nil
}

func parseBoolEnv(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	switch v {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("invalid %s: %q", key, v)
	}
}

// parseBrokers splits a comma-separated broker list, dropping empty entries.
func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
