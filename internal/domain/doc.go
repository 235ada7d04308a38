// Package domain models LCRA Hydromet flood status data.
//
// # Data Source
//
// Records come from the LCRA Hydromet API (https://hydromet.lcra.org/api/),
// the Lower Colorado River Authority's public hydrological monitoring system
// for the Highland Lakes and the lower Colorado River basin in Texas. Three
// endpoints are consumed:
//
//	FloodStatus/GetLakeLevelsGateOps   dam/lake head and tail elevations,
//	                                   gate activity, inflows, forecasts
//	GetForecastReferences              river gauge sites: stage, flow, and
//	                                   the bankfull/flood reference stages
//	FloodStatus/GetNarrativeSummary    operations narrative text
//
// # Hydromet Data Conventions
//
// The API is not versioned and its field types drift: numeric columns arrive
// as JSON numbers or strings ("681.12", "681.12 ft", "1,530"), and missing
// values appear as "", "/", "N/A", or "--". Raw fields are decoded as `any`
// and coerced by tolerant helpers; values that cannot be coerced become nil
// rather than failing the entry.
//
// Timestamps appear as ISO-8601 (with or without zone designator) and as
// US-style "M/D/YYYY h:mm[:ss] [AM|PM]" strings. Zone-less timestamps are
// taken as UTC.
//
// The lake levels and floodgate operations categories share one upstream
// payload; they are parsed independently so a field problem in one view does
// not affect the other.
//
// # Validation Policy
//
// Parsing is best-effort per entry: an entry missing its identifier (dam or
// lake name, gauge location) is skipped and counted, and the remaining
// entries proceed. Only an undecodable document fails a category, reported
// as ErrMalformedPayload.
//
// # Status Classification
//
// RiverCondition.Status compares the current stage to the site's reference
// stages: at or above flood stage is "flood", at or above bankfull is
// "bankfull", below both is "normal". Sites without a stage reading have no
// status.
package domain
