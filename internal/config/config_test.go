package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://hydromet.lcra.org", cfg.HydrometBaseURL)
	assert.Equal(t, 30*time.Second, cfg.HydrometTimeout)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.True(t, cfg.ReportAllowPartial)
	assert.False(t, cfg.KafkaEnabled)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "flood-status-reports", cfg.KafkaReportTopic)
	assert.Equal(t, "0 * * * *", cfg.PollSchedule)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HYDROMET_BASE_URL", "http://localhost:9999")
	t.Setenv("HYDROMET_TIMEOUT", "5s")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("REPORT_ALLOW_PARTIAL", "false")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_REPORT_TOPIC", "custom-reports")
	t.Setenv("POLL_SCHEDULE", "*/15 * * * *")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999", cfg.HydrometBaseURL)
	assert.Equal(t, 5*time.Second, cfg.HydrometTimeout)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.False(t, cfg.ReportAllowPartial)
	assert.True(t, cfg.KafkaEnabled, "brokers set implies Kafka enabled")
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-reports", cfg.KafkaReportTopic)
	assert.Equal(t, "*/15 * * * *", cfg.PollSchedule)
}

func TestLoad_KafkaDisabledOverride(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker1:9092")
	t.Setenv("KAFKA_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
}

func TestLoad_Invalid(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"relative base url", "HYDROMET_BASE_URL", "hydromet.lcra.org"},
		{"bad timeout", "HYDROMET_TIMEOUT", "soon"},
		{"negative timeout", "HYDROMET_TIMEOUT", "-5s"},
		{"bad shutdown timeout", "SHUTDOWN_TIMEOUT", "0s"},
		{"bad bool", "REPORT_ALLOW_PARTIAL", "maybe"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_KafkaEnabledWithoutBrokers(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	_, err := Load()
	assert.Error(t, err)
}
