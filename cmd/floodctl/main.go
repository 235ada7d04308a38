// Command floodctl fetches LCRA flood status data and prints it to stdout or
// saves it as JSON. The output bytes match what the API server would return
// for the equivalent report request.
//
// Usage:
//
//	floodctl -report
//	floodctl -lake-levels -river-conditions -pretty
//	floodctl -report -save                    # flood_status_<timestamp>.json
//	floodctl -report -output travis.json
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/couchcryptid/flood-status-service/internal/adapter/hydromet"
	"github.com/couchcryptid/flood-status-service/internal/observability"
	"github.com/couchcryptid/flood-status-service/internal/report"
)

func main() {
	fullReport := flag.Bool("report", false, "fetch the full flood operations report")
	lakeLevels := flag.Bool("lake-levels", false, "fetch current lake levels")
	riverConditions := flag.Bool("river-conditions", false, "fetch current river conditions")
	floodgateOps := flag.Bool("floodgate-operations", false, "fetch floodgate operations")
	narrative := flag.Bool("narrative", false, "fetch the operations narrative")
	output := flag.String("output", "", "write JSON to this file instead of stdout")
	save := flag.Bool("save", false, "write JSON to a timestamped file")
	pretty := flag.Bool("pretty", false, "indent the JSON output")
	baseURL := flag.String("base-url", "https://hydromet.lcra.org", "Hydromet API base URL")
	timeout := flag.Duration("timeout", 30*time.Second, "per-request timeout")
	failFast := flag.Bool("fail-fast", false, "fail the whole report when any category fails")
	flag.Parse()

	sel := report.Selection{
		LakeLevels:          *lakeLevels,
		RiverConditions:     *riverConditions,
		FloodgateOperations: *floodgateOps,
		Narrative:           *narrative,
	}
	if *fullReport {
		sel = report.AllCategories()
	}
	if !sel.Any() {
		fmt.Fprintln(os.Stderr, "specify at least one data type to fetch, see -help for options")
		os.Exit(2)
	}

	os.Exit(run(sel, *baseURL, *timeout, !*failFast, *output, *save, *pretty))
}

func run(sel report.Selection, baseURL string, timeout time.Duration, allowPartial bool, output string, save, pretty bool) int {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	metrics := observability.NewMetrics()

	client := hydromet.NewClient(baseURL, timeout, metrics, logger)
	service := report.NewService(client, logger, metrics, allowPartial)

	ctx, cancel := context.WithTimeout(context.Background(), timeout+30*time.Second)
	defer cancel()

	built, err := service.BuildReport(ctx, sel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	data, err := encodeReport(built, pretty)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	switch {
	case output != "":
		return writeFile(output, data)
	case save:
		name := fmt.Sprintf("flood_status_%s.json", built.GeneratedAt.Format("20060102_150405"))
		return writeFile(name, data)
	default:
		_, _ = os.Stdout.Write(data)
		return 0
	}
}

// encodeReport renders the report exactly as the API server does, so saved
// files are byte-identical to the corresponding response body.
func encodeReport(r any, pretty bool) ([]byte, error) {
	if pretty {
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode report: %w", err)
		}
		return append(data, '\n'), nil
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(r); err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return buf.Bytes(), nil
}

func writeFile(name string, data []byte) int {
	if err := os.WriteFile(name, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error: write %s: %v\n", name, err)
		return 1
	}
	fmt.Fprintf(os.Stderr, "saved %s (%d bytes)\n", name, len(data))
	return 0
}
