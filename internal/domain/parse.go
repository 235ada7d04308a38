package domain

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Raw payload shapes. Hydromet is an external collaborator whose schema we do
// not control: numeric fields arrive as numbers or strings, timestamps in
// several formats, and missing values as "", "/", "N/A", or "--". Fields are
// therefore decoded as `any` and coerced by the parse helpers below.

type rawGateOpsPayload struct {
	Records []rawGateOpsRecord `json:"records"`
}

type rawGateOpsRecord struct {
	Dam            any `json:"dam"`
	Lake           any `json:"lake"`
	LastDataUpdate any `json:"lastDataUpdate"`
	Head           any `json:"head"`
	Tail           any `json:"tail"`
	GateOps        any `json:"gateOps"`
	LastUpdate     any `json:"lastUpdate"`
	Inflows        any `json:"inflows"`
	Forecast       any `json:"forecast"`
}

type rawForecastPayload struct {
	Sites []rawForecastSite `json:"sites"`
}

type rawForecastSite struct {
	Location   any `json:"location"`
	Stage      any `json:"stage"`
	Flow       any `json:"flow"`
	Bankfull   any `json:"bankfull"`
	FloodStage any `json:"floodStage"`
	DateTime   any `json:"dateTime"`
}

type rawNarrativeRecord struct {
	LastUpdate any `json:"lastUpdate"`
	Summary    any `json:"narrive_sum"` // sic, upstream field name
}

// ParseLakeLevels maps the GetLakeLevelsGateOps payload to lake level records.
// Entries without a dam or lake identifier are skipped; the skip count is
// returned so callers can report it. A record with a usable identifier is
// never rejected for unparseable measurements, those fields are just nil.
func ParseLakeLevels(payload []byte) ([]LakeLevel, int, error) {
	var doc rawGateOpsPayload
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, 0, fmt.Errorf("%w: decode lake levels: %v", ErrMalformedPayload, err)
	}

	levels := make([]LakeLevel, 0, len(doc.Records))
	skipped := 0
	for _, rec := range doc.Records {
		name := damLakeName(asString(rec.Dam), asString(rec.Lake))
		if name == "" {
			skipped++
			continue
		}
		levels = append(levels, LakeLevel{
			DamLakeName:     name,
			MeasurementTime: parseTime(asString(rec.LastDataUpdate)),
			HeadElevation:   parseFloat(rec.Head),
			TailElevation:   parseFloat(rec.Tail),
			GateOperations:  asString(rec.GateOps),
		})
	}
	return levels, skipped, nil
}

// ParseRiverConditions maps the GetForecastReferences payload to river
// condition records. Sites without a location name are skipped.
func ParseRiverConditions(payload []byte) ([]RiverCondition, int, error) {
	var doc rawForecastPayload
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, 0, fmt.Errorf("%w: decode river conditions: %v", ErrMalformedPayload, err)
	}

	conditions := make([]RiverCondition, 0, len(doc.Sites))
	skipped := 0
	for _, site := range doc.Sites {
		location := strings.TrimSpace(asString(site.Location))
		if location == "" {
			skipped++
			continue
		}
		stage := parseFloat(site.Stage)
		bankfull := parseFloat(site.Bankfull)
		floodStage := parseFloat(site.FloodStage)
		conditions = append(conditions, RiverCondition{
			Location:        location,
			CurrentStage:    stage,
			CurrentFlow:     parseFloat(site.Flow),
			BankfullStage:   bankfull,
			FloodStage:      floodStage,
			ActionStage:     bankfull, // Hydromet publishes no separate action stage
			MeasurementTime: parseTime(asString(site.DateTime)),
			DataSource:      SourceLCRA,
			Status:          deriveStatus(stage, bankfull, floodStage),
		})
	}
	return conditions, skipped, nil
}

// ParseFloodgateOperations maps the GetLakeLevelsGateOps payload to floodgate
// operation records. Entries without a dam name are skipped.
func ParseFloodgateOperations(payload []byte) ([]FloodgateOperation, int, error) {
	var doc rawGateOpsPayload
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, 0, fmt.Errorf("%w: decode floodgate operations: %v", ErrMalformedPayload, err)
	}

	operations := make([]FloodgateOperation, 0, len(doc.Records))
	skipped := 0
	for _, rec := range doc.Records {
		dam := strings.TrimSpace(asString(rec.Dam))
		if dam == "" {
			skipped++
			continue
		}
		operations = append(operations, FloodgateOperation{
			DamName:           dam,
			LastUpdate:        parseTime(asString(rec.LastUpdate)),
			Inflows:           parseFloat(rec.Inflows),
			GateOperations:    asString(rec.GateOps),
			LakeLevelForecast: asString(rec.Forecast),
			CurrentElevation:  parseFloat(rec.Head),
		})
	}
	return operations, skipped, nil
}

// ParseNarrativeSummary extracts the flood operations narrative. The payload
// is an array; only the first entry carries data. An empty array yields an
// empty Narrative, not an error.
func ParseNarrativeSummary(payload []byte) (Narrative, error) {
	var docs []rawNarrativeRecord
	if err := json.Unmarshal(payload, &docs); err != nil {
		return Narrative{}, fmt.Errorf("%w: decode narrative summary: %v", ErrMalformedPayload, err)
	}
	if len(docs) == 0 {
		return Narrative{}, nil
	}
	return Narrative{
		LastUpdate: parseTime(asString(docs[0].LastUpdate)),
		Summary:    strings.TrimSpace(asString(docs[0].Summary)),
	}, nil
}

// deriveStatus classifies a stage reading against the site's reference
// stages. Unknown stage means unknown status.
func deriveStatus(stage, bankfull, floodStage *float64) string {
	if stage == nil {
		return ""
	}
	if floodStage != nil && *stage >= *floodStage {
		return "flood"
	}
	if bankfull != nil && *stage >= *bankfull {
		return "bankfull"
	}
	return "normal"
}

// damLakeName joins the dam and lake identifiers as "dam/lake", tolerating
// either side being absent.
func damLakeName(dam, lake string) string {
	dam = strings.TrimSpace(dam)
	lake = strings.TrimSpace(lake)
	switch {
	case dam == "" && lake == "":
		return ""
	case dam == "":
		return lake
	case lake == "":
		return dam
	default:
		return dam + "/" + lake
	}
}

// Sentinels upstream uses for "no value".
var missingValues = map[string]struct{}{
	"": {}, "/": {}, "N/A": {}, "n/a": {}, "--": {},
}

var nonNumericRe = regexp.MustCompile(`[^0-9.\-]`)

// asString renders a decoded JSON value as a string. Numbers keep a compact
// representation; anything non-scalar is treated as absent.
func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

// parseFloat coerces a decoded JSON value into a float, stripping unit
// suffixes and separators from strings ("681.12 ft" → 681.12, "1,530" → 1530).
// Returns nil for sentinels and anything that still fails to parse.
func parseFloat(v any) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case string:
		s := strings.TrimSpace(n)
		if _, missing := missingValues[s]; missing {
			return nil
		}
		cleaned := nonNumericRe.ReplaceAllString(s, "")
		if cleaned == "" {
			return nil
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

// timeLayouts covers the formats observed from Hydromet: ISO-8601 with and
// without zone, US-style dates with 12h or 24h clocks, and dashed dates.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 3:04 PM",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// parseTime attempts each known layout in order, returning nil when no
// layout matches. Timestamps without zone information are taken as UTC.
func parseTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if _, missing := missingValues[s]; missing {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
