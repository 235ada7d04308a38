// Package schema validates raw Hydromet payloads against embedded JSON
// Schemas before any field mapping happens. The schemas only pin the document
// shape (top-level container and entry types); field-level tolerance is the
// domain parser's job since upstream field types drift.
package schema

import (
	"embed"
	"fmt"
	"strings"

	"github.com/couchcryptid/flood-status-service/internal/domain"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Kind names one upstream payload shape.
type Kind string

const (
	KindGateOps            Kind = "gate_ops"
	KindForecastReferences Kind = "forecast_references"
	KindNarrativeSummary   Kind = "narrative_summary"
)

var compiled = map[Kind]*gojsonschema.Schema{}

func init() {
	for _, kind := range []Kind{KindGateOps, KindForecastReferences, KindNarrativeSummary} {
		raw, err := schemaFS.ReadFile(fmt.Sprintf("schemas/%s.json", kind))
		if err != nil {
			panic(fmt.Sprintf("schema: missing embedded schema for %s: %v", kind, err))
		}
		s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			panic(fmt.Sprintf("schema: compile %s: %v", kind, err))
		}
		compiled[kind] = s
	}
}

// Validate checks a raw payload against the schema for its kind. Violations
// are collected into a single error wrapping domain.ErrMalformedPayload.
func Validate(kind Kind, payload []byte) error {
	s, ok := compiled[kind]
	if !ok {
		return fmt.Errorf("schema: unknown payload kind %q", kind)
	}

	result, err := s.Validate(gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrMalformedPayload, kind, err)
	}
	if result.Valid() {
		return nil
	}

	var b strings.Builder
	for i, desc := range result.Errors() {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s: %s", desc.Field(), desc.Description())
	}
	return fmt.Errorf("%w: %s: %s", domain.ErrMalformedPayload, kind, b.String())
}
