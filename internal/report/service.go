// Package report assembles flood status reports from the upstream client.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/flood-status-service/internal/domain"
	"github.com/couchcryptid/flood-status-service/internal/observability"
	"github.com/couchcryptid/flood-status-service/internal/schema"
)

// Upstream provides raw Hydromet payloads. Implemented by hydromet.Client;
// tests substitute a fake.
type Upstream interface {
	LakeLevelsGateOps(ctx context.Context) ([]byte, error)
	ForecastReferences(ctx context.Context) ([]byte, error)
	NarrativeSummary(ctx context.Context) ([]byte, error)
	Ping(ctx context.Context) error
}

// Selection names the report categories to fetch.
type Selection struct {
	LakeLevels          bool
	RiverConditions     bool
	FloodgateOperations bool
	Narrative           bool
}

// AllCategories selects every category.
func AllCategories() Selection {
	return Selection{
		LakeLevels:          true,
		RiverConditions:     true,
		FloodgateOperations: true,
		Narrative:           true,
	}
}

// Any reports whether at least one category is selected.
func (s Selection) Any() bool {
	return s.LakeLevels || s.RiverConditions || s.FloodgateOperations || s.Narrative
}

// Service fetches, validates, and aggregates flood status data. It holds no
// state between requests; every report is built fresh from upstream.
type Service struct {
	upstream     Upstream
	logger       *slog.Logger
	metrics      *observability.Metrics
	allowPartial bool
}

// NewService creates the aggregation service. When allowPartial is true, a
// failed category is dropped from the report and noted in its warnings;
// when false, any category failure fails the whole build.
func NewService(upstream Upstream, logger *slog.Logger, metrics *observability.Metrics, allowPartial bool) *Service {
	return &Service{
		upstream:     upstream,
		logger:       logger,
		metrics:      metrics,
		allowPartial: allowPartial,
	}
}

// BuildReport fetches the selected categories concurrently and assembles a
// report. The category fetches are independent: they share no mutable state
// and each writes its own result slot.
func (s *Service) BuildReport(ctx context.Context, sel Selection) (domain.Report, error) {
	start := time.Now()
	report := domain.NewReport()

	var (
		wg sync.WaitGroup

		lakes    []domain.LakeLevel
		lakesErr error

		conditions    []domain.RiverCondition
		conditionsErr error

		operations    []domain.FloodgateOperation
		operationsErr error

		narrative    domain.Narrative
		narrativeErr error
	)

	if sel.LakeLevels {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lakes, lakesErr = s.LakeLevels(ctx)
		}()
	}
	if sel.RiverConditions {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conditions, conditionsErr = s.RiverConditions(ctx)
		}()
	}
	if sel.FloodgateOperations {
		wg.Add(1)
		go func() {
			defer wg.Done()
			operations, operationsErr = s.FloodgateOperations(ctx)
		}()
	}
	if sel.Narrative {
		wg.Add(1)
		go func() {
			defer wg.Done()
			narrative, narrativeErr = s.NarrativeSummary(ctx)
		}()
	}
	wg.Wait()

	failures := map[string]error{}
	if lakesErr != nil {
		failures[categoryLakeLevels] = lakesErr
	} else {
		report.LakeLevels = lakes
	}
	if conditionsErr != nil {
		failures[categoryRiverConditions] = conditionsErr
	} else {
		report.RiverConditions = conditions
	}
	if operationsErr != nil {
		failures[categoryFloodgateOps] = operationsErr
	} else {
		report.FloodgateOperations = operations
	}
	if narrativeErr != nil {
		failures[categoryNarrative] = narrativeErr
	} else {
		report.Narrative = narrative.Summary
		report.LastUpdate = narrative.LastUpdate
	}

	for category, err := range failures {
		s.metrics.CategoryErrors.WithLabelValues(category).Inc()
		if !s.allowPartial {
			return domain.Report{}, fmt.Errorf("build report: %s: %w", category, err)
		}
		s.logger.Warn("category failed, returning partial report", "category", category, "error", err)
		report.Warnings = append(report.Warnings, fmt.Sprintf("%s: %v", category, err))
	}
	if len(failures) > 0 {
		s.metrics.PartialReports.Inc()
	}

	s.metrics.ReportsBuilt.Inc()
	s.metrics.ReportBuildDuration.Observe(time.Since(start).Seconds())
	return report, nil
}

// Category names used in metrics, warnings, and the include query parameter.
const (
	categoryLakeLevels      = "lake_levels"
	categoryRiverConditions = "river_conditions"
	categoryFloodgateOps    = "floodgate_operations"
	categoryNarrative       = "narrative"
)

// LakeLevels fetches, validates, and parses the lake levels category.
func (s *Service) LakeLevels(ctx context.Context) ([]domain.LakeLevel, error) {
	payload, err := s.upstream.LakeLevelsGateOps(ctx)
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(schema.KindGateOps, payload); err != nil {
		return nil, err
	}
	levels, skipped, err := domain.ParseLakeLevels(payload)
	if err != nil {
		return nil, err
	}
	s.recordCounts(categoryLakeLevels, len(levels), skipped)
	return levels, nil
}

// RiverConditions fetches, validates, and parses the river conditions category.
func (s *Service) RiverConditions(ctx context.Context) ([]domain.RiverCondition, error) {
	payload, err := s.upstream.ForecastReferences(ctx)
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(schema.KindForecastReferences, payload); err != nil {
		return nil, err
	}
	conditions, skipped, err := domain.ParseRiverConditions(payload)
	if err != nil {
		return nil, err
	}
	s.recordCounts(categoryRiverConditions, len(conditions), skipped)
	return conditions, nil
}

// FloodgateOperations fetches, validates, and parses the floodgate category.
func (s *Service) FloodgateOperations(ctx context.Context) ([]domain.FloodgateOperation, error) {
	payload, err := s.upstream.LakeLevelsGateOps(ctx)
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(schema.KindGateOps, payload); err != nil {
		return nil, err
	}
	operations, skipped, err := domain.ParseFloodgateOperations(payload)
	if err != nil {
		return nil, err
	}
	s.recordCounts(categoryFloodgateOps, len(operations), skipped)
	return operations, nil
}

// NarrativeSummary fetches, validates, and parses the operations narrative.
func (s *Service) NarrativeSummary(ctx context.Context) (domain.Narrative, error) {
	payload, err := s.upstream.NarrativeSummary(ctx)
	if err != nil {
		return domain.Narrative{}, err
	}
	if err := schema.Validate(schema.KindNarrativeSummary, payload); err != nil {
		return domain.Narrative{}, err
	}
	return domain.ParseNarrativeSummary(payload)
}

// CheckUpstream probes Hydromet reachability for the health route.
func (s *Service) CheckUpstream(ctx context.Context) error {
	return s.upstream.Ping(ctx)
}

func (s *Service) recordCounts(category string, parsed, skipped int) {
	s.metrics.RecordsParsed.WithLabelValues(category).Add(float64(parsed))
	if skipped > 0 {
		s.metrics.RecordsSkipped.WithLabelValues(category).Add(float64(skipped))
		s.logger.Warn("skipped entries failing required-field checks",
			"category", category, "skipped", skipped, "parsed", parsed)
	}
}
