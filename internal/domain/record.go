package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors for the two whole-request failure modes. Per-entry
// validation failures are not errors; bad entries are skipped and counted.
var (
	// ErrUpstreamUnavailable indicates the Hydromet API could not be reached
	// or answered with a non-success status.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrMalformedPayload indicates upstream responded but the document does
	// not have the expected shape.
	ErrMalformedPayload = errors.New("malformed upstream payload")
)

// SourceLCRA identifies records measured by LCRA's own gauges.
const SourceLCRA = "LCRA"

// LakeLevel is the current state of one dam/reservoir pair on the Highland
// Lakes chain. Optional measurements are pointers; nil means upstream did not
// report a usable value.
type LakeLevel struct {
	DamLakeName     string     `json:"dam_lake_name"`
	MeasurementTime *time.Time `json:"measurement_time,omitempty"`
	HeadElevation   *float64   `json:"head_elevation,omitempty"`
	TailElevation   *float64   `json:"tail_elevation,omitempty"`
	GateOperations  string     `json:"gate_operations,omitempty"`
}

// RiverCondition is a stage/flow reading at one river gauge site.
type RiverCondition struct {
	Location        string     `json:"location"`
	CurrentStage    *float64   `json:"current_stage,omitempty"`
	CurrentFlow     *float64   `json:"current_flow,omitempty"`
	BankfullStage   *float64   `json:"bankfull_stage,omitempty"`
	FloodStage      *float64   `json:"flood_stage,omitempty"`
	ActionStage     *float64   `json:"action_stage,omitempty"`
	MeasurementTime *time.Time `json:"measurement_time,omitempty"`
	DataSource      string     `json:"data_source"`

	// Status classifies CurrentStage against the bankfull and flood stages:
	// "normal", "bankfull", "flood", or "" when the stage is unknown.
	Status string `json:"status,omitempty"`
}

// FloodgateOperation describes gate activity at one dam.
type FloodgateOperation struct {
	DamName           string     `json:"dam_name"`
	LastUpdate        *time.Time `json:"last_update,omitempty"`
	Inflows           *float64   `json:"inflows,omitempty"`
	GateOperations    string     `json:"gate_operations,omitempty"`
	LakeLevelForecast string     `json:"lake_level_forecast,omitempty"`
	CurrentElevation  *float64   `json:"current_elevation,omitempty"`
}

// Narrative is the operations narrative published alongside the numeric data.
type Narrative struct {
	LastUpdate *time.Time `json:"last_update,omitempty"`
	Summary    string     `json:"summary,omitempty"`
}

// Report aggregates the record categories fetched in one pass. Categories
// that were not requested, or that failed while partial reports are allowed,
// are omitted from the JSON encoding.
type Report struct {
	ID                  string               `json:"id"`
	GeneratedAt         time.Time            `json:"generated_at"`
	LastUpdate          *time.Time           `json:"last_update,omitempty"`
	Narrative           string               `json:"narrative,omitempty"`
	LakeLevels          []LakeLevel          `json:"lake_levels,omitempty"`
	RiverConditions     []RiverCondition     `json:"river_conditions,omitempty"`
	FloodgateOperations []FloodgateOperation `json:"floodgate_operations,omitempty"`

	// Warnings lists categories that failed to fetch when the service is
	// configured to return partial reports.
	Warnings []string `json:"warnings,omitempty"`
}

// NewReport creates an empty report with a fresh ID and generation timestamp.
func NewReport() Report {
	return Report{
		ID:          uuid.NewString(),
		GeneratedAt: clock.Now().UTC(),
	}
}
