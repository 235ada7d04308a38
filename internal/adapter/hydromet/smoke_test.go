//go:build hydromet

package hydromet

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/flood-status-service/internal/domain"
	"github.com/couchcryptid/flood-status-service/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the real Hydromet API and depend on its availability.
// Run with: go test -tags=hydromet ./internal/adapter/hydromet/ -v -count=1

func smokeClient() *Client {
	return NewClient(
		"https://hydromet.lcra.org",
		30*time.Second,
		observability.NewMetricsForTesting(),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func TestSmoke_LakeLevelsGateOps(t *testing.T) {
	payload, err := smokeClient().LakeLevelsGateOps(context.Background())
	require.NoError(t, err)

	levels, _, err := domain.ParseLakeLevels(payload)
	require.NoError(t, err)
	assert.NotEmpty(t, levels, "Hydromet should report at least one dam")
}

func TestSmoke_ForecastReferences(t *testing.T) {
	payload, err := smokeClient().ForecastReferences(context.Background())
	require.NoError(t, err)

	conditions, _, err := domain.ParseRiverConditions(payload)
	require.NoError(t, err)
	assert.NotEmpty(t, conditions)
}
