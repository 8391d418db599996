package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/spatialbench/spatialbench-go/internal/bench"
)

// PrintSummary writes the plain-text comparison table shown at the end of
// a benchmark run.
func PrintSummary(w io.Writer, suites []bench.Suite) {
	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 80))
	fmt.Fprintln(w, "BENCHMARK SUMMARY")
	fmt.Fprintln(w, strings.Repeat("=", 80))

	byEngine := make(map[string]bench.Suite, len(suites))
	var engines []string
	for _, suite := range suites {
		byEngine[suite.Engine] = suite
		engines = append(engines, suite.Engine)
	}
	queries := allQueries(byEngine)
	index := resultIndex(byEngine)

	header := fmt.Sprintf("%-10s", "Query")
	for _, engine := range engines {
		header += fmt.Sprintf("%-15s", engine)
	}
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("-", len(header)))

	for _, query := range queries {
		row := fmt.Sprintf("%-10s", query)
		for _, engine := range engines {
			cell := "N/A"
			if r, ok := index[engine][query]; ok {
				if r.Status == bench.StatusSuccess {
					cell = formatTime(r.TimeSeconds)
				} else {
					cell = strings.ToUpper(r.Status)
				}
			}
			row += fmt.Sprintf("%-15s", cell)
		}
		fmt.Fprintln(w, row)
	}

	fmt.Fprintln(w, strings.Repeat("-", len(header)))
	total := fmt.Sprintf("%-10s", "Total")
	for _, engine := range engines {
		total += fmt.Sprintf("%-15s", fmt.Sprintf("%.2fs", byEngine[engine].TotalTime))
	}
	fmt.Fprintln(w, total)
}
