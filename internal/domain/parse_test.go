package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(f float64) *float64 { return &f }

func TestParseFloat(t *testing.T) {
	cases := []struct {
		name  string
		input any
		want  *float64
	}{
		{"json number", 681.12, fptr(681.12)},
		{"plain string", "681.12", fptr(681.12)},
		{"unit suffix", "681.12 ft", fptr(681.12)},
		{"thousands separator", "1,530", fptr(1530)},
		{"negative", "-2.5", fptr(-2.5)},
		{"slash sentinel", "/", nil},
		{"na sentinel", "N/A", nil},
		{"dashes sentinel", "--", nil},
		{"empty string", "", nil},
		{"garbage", "closed", nil},
		{"nil value", nil, nil},
		{"array value", []any{1.0}, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := parseFloat(tc.input)
			if tc.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tc.want, *got, 1e-9)
		})
	}
}

func TestParseTime(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"rfc3339", "2026-05-04T15:10:00Z", time.Date(2026, 5, 4, 15, 10, 0, 0, time.UTC)},
		{"rfc3339 offset", "2026-05-04T15:10:00-05:00", time.Date(2026, 5, 4, 20, 10, 0, 0, time.UTC)},
		{"iso no zone", "2026-05-04T15:10:00", time.Date(2026, 5, 4, 15, 10, 0, 0, time.UTC)},
		{"us 12h seconds", "5/4/2026 3:10:00 PM", time.Date(2026, 5, 4, 15, 10, 0, 0, time.UTC)},
		{"us 12h", "5/4/2026 3:10 PM", time.Date(2026, 5, 4, 15, 10, 0, 0, time.UTC)},
		{"us 24h", "5/4/2026 15:10", time.Date(2026, 5, 4, 15, 10, 0, 0, time.UTC)},
		{"dashed 24h", "2026-05-04 15:10:00", time.Date(2026, 5, 4, 15, 10, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := parseTime(tc.input)
			require.NotNil(t, got)
			assert.True(t, tc.want.Equal(*got), "got %v, want %v", got, tc.want)
		})
	}

	for _, s := range []string{"", "/", "N/A", "--", "yesterday"} {
		assert.Nil(t, parseTime(s), "input %q", s)
	}
}

func TestParseLakeLevels(t *testing.T) {
	payload := []byte(`{"records":[
		{"dam":"Mansfield","lake":"Travis","lastDataUpdate":"2026-05-04T15:10:00","head":"681.12","tail":492.3,"gateOps":"No gates open"},
		{"dam":"","lake":"","head":"600.0"},
		{"dam":"Buchanan","lake":"Buchanan","head":"/","tail":"N/A","lastDataUpdate":"not a date"}
	]}`)

	levels, skipped, err := ParseLakeLevels(payload)
	require.NoError(t, err)
	assert.Equal(t, 1, skipped, "entry without identifiers is skipped")
	require.Len(t, levels, 2)

	first := levels[0]
	assert.Equal(t, "Mansfield/Travis", first.DamLakeName)
	require.NotNil(t, first.HeadElevation)
	assert.InDelta(t, 681.12, *first.HeadElevation, 1e-9)
	require.NotNil(t, first.TailElevation)
	assert.InDelta(t, 492.3, *first.TailElevation, 1e-9)
	assert.Equal(t, "No gates open", first.GateOperations)
	require.NotNil(t, first.MeasurementTime)
	assert.Equal(t, time.Date(2026, 5, 4, 15, 10, 0, 0, time.UTC), *first.MeasurementTime)

	second := levels[1]
	assert.Equal(t, "Buchanan/Buchanan", second.DamLakeName)
	assert.Nil(t, second.HeadElevation)
	assert.Nil(t, second.TailElevation)
	assert.Nil(t, second.MeasurementTime)
}

func TestParseLakeLevels_PartialIdentifier(t *testing.T) {
	payload := []byte(`{"records":[{"dam":"Tom Miller"},{"lake":"Austin"}]}`)

	levels, skipped, err := ParseLakeLevels(payload)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, levels, 2)
	assert.Equal(t, "Tom Miller", levels[0].DamLakeName)
	assert.Equal(t, "Austin", levels[1].DamLakeName)
}

func TestParseLakeLevels_MalformedDocument(t *testing.T) {
	_, _, err := ParseLakeLevels([]byte(`not-json{{{`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestParseRiverConditions(t *testing.T) {
	payload := []byte(`{"sites":[
		{"location":"Colorado River at Austin","stage":"4.2","flow":"1,530","bankfull":16,"floodStage":21,"dateTime":"5/4/2026 3:10 PM"},
		{"location":"Llano River at Llano","stage":18.0,"bankfull":10,"floodStage":15},
		{"location":"Pedernales River","stage":12.0,"bankfull":10,"floodStage":15},
		{"location":"","stage":1.0}
	]}`)

	conditions, skipped, err := ParseRiverConditions(payload)
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, conditions, 3)

	austin := conditions[0]
	assert.Equal(t, "Colorado River at Austin", austin.Location)
	assert.Equal(t, SourceLCRA, austin.DataSource)
	assert.Equal(t, "normal", austin.Status)
	require.NotNil(t, austin.CurrentFlow)
	assert.InDelta(t, 1530, *austin.CurrentFlow, 1e-9)
	require.NotNil(t, austin.ActionStage)
	assert.InDelta(t, 16, *austin.ActionStage, 1e-9)

	assert.Equal(t, "flood", conditions[1].Status)
	assert.Equal(t, "bankfull", conditions[2].Status)
}

func TestDeriveStatus_UnknownStage(t *testing.T) {
	assert.Empty(t, deriveStatus(nil, fptr(10), fptr(15)))
	assert.Equal(t, "normal", deriveStatus(fptr(5), nil, nil))
}

func TestParseFloodgateOperations(t *testing.T) {
	payload := []byte(`{"records":[
		{"dam":"Mansfield","lastUpdate":"2026-05-04T12:00:00","inflows":"12000","gateOps":"2 gates open","forecast":"Slowly rising","head":681.12},
		{"lake":"Travis","head":681.12}
	]}`)

	operations, skipped, err := ParseFloodgateOperations(payload)
	require.NoError(t, err)
	assert.Equal(t, 1, skipped, "entry without a dam name is skipped")
	require.Len(t, operations, 1)

	op := operations[0]
	assert.Equal(t, "Mansfield", op.DamName)
	assert.Equal(t, "2 gates open", op.GateOperations)
	assert.Equal(t, "Slowly rising", op.LakeLevelForecast)
	require.NotNil(t, op.Inflows)
	assert.InDelta(t, 12000, *op.Inflows, 1e-9)
	require.NotNil(t, op.CurrentElevation)
	assert.InDelta(t, 681.12, *op.CurrentElevation, 1e-9)
}

func TestParseNarrativeSummary(t *testing.T) {
	payload := []byte(`[{"lastUpdate":"2026-05-04T09:00:00","narrive_sum":"  Floodgate operations continue at Mansfield Dam.  "}]`)

	n, err := ParseNarrativeSummary(payload)
	require.NoError(t, err)
	assert.Equal(t, "Floodgate operations continue at Mansfield Dam.", n.Summary)
	require.NotNil(t, n.LastUpdate)
	assert.Equal(t, time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC), *n.LastUpdate)
}

func TestParseNarrativeSummary_Empty(t *testing.T) {
	n, err := ParseNarrativeSummary([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, n.Summary)
	assert.Nil(t, n.LastUpdate)

	_, err = ParseNarrativeSummary([]byte(`{"oops":true}`))
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestDamLakeName(t *testing.T) {
	assert.Equal(t, "Mansfield/Travis", damLakeName("Mansfield", "Travis"))
	assert.Equal(t, "Mansfield", damLakeName(" Mansfield ", ""))
	assert.Equal(t, "Travis", damLakeName("", "Travis"))
	assert.Empty(t, damLakeName(" ", ""))
}
