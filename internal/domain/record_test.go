package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestNewReport(t *testing.T) {
	frozen := time.Date(2026, 5, 4, 16, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(frozen))
	defer SetClock(nil)

	r := NewReport()
	assert.Equal(t, frozen, r.GeneratedAt)
	assert.NotEmpty(t, r.ID)

	// IDs are unique per report.
	assert.NotEqual(t, r.ID, NewReport().ID)
}
