package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/spatialbench/spatialbench-go/internal/bench"
)

var engineIcons = map[string]string{
	"duckdb":   "🦆 DuckDB",
	"postgis":  "🐘 PostGIS",
	"geoframe": "🗺️ GeoFrame",
	"lazygeo":  "🐢 LazyGeo",
}

func displayName(engine string) string {
	if name, ok := engineIcons[engine]; ok {
		return name
	}
	if engine == "" {
		return engine
	}
	return strings.ToUpper(engine[:1]) + engine[1:]
}

func formatTime(seconds *float64) string {
	if seconds == nil {
		return "N/A"
	}
	if *seconds < 0.01 {
		return "<0.01s"
	}
	return fmt.Sprintf("%.2fs", *seconds)
}

// winner returns the fastest successful engine for a query, or "".
func winner(query string, index map[string]map[string]bench.Result, engines []string) string {
	best := ""
	bestTime := 0.0
	for _, engine := range engines {
		r, ok := index[engine][query]
		if !ok || r.Status != bench.StatusSuccess || r.TimeSeconds == nil {
			continue
		}
		if best == "" || *r.TimeSeconds < bestTime {
			best, bestTime = engine, *r.TimeSeconds
		}
	}
	return best
}

// Markdown renders the comparison report. Timeout and runs are reporting
// parameters carried over from the run configuration.
func Markdown(suites map[string]bench.Suite, timeout time.Duration, runs int) string {
	engines := engineNames(suites)
	if len(engines) == 0 {
		return "# 📊 SpatialBench Benchmark Results\n\n⚠️ No results found."
	}

	first := suites[engines[0]]
	queries := allQueries(suites)
	index := resultIndex(suites)

	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format+"\n", args...)
	}

	line("# 📊 SpatialBench Benchmark Results")
	line("")
	line("| Parameter | Value |")
	line("|-----------|-------|")
	line("| **Scale Factor** | %g |", first.ScaleFactor)
	line("| **Query Timeout** | %gs |", timeout.Seconds())
	line("| **Runs per Query** | %d |", runs)
	line("| **Timestamp** | %s |", first.Timestamp)
	line("| **Queries** | %d |", len(queries))
	line("")
	line("## 🔧 Software Versions")
	line("")
	line("| Engine | Version |")
	line("|--------|---------|")
	for _, engine := range engines {
		version := suites[engine].Version
		if version == "" {
			version = "unknown"
		}
		line("| %s | `%s` |", displayName(engine), version)
	}

	line("")
	line("## 🏁 Results Comparison")
	line("")
	header := "| Query |"
	sep := "|:------|"
	for _, engine := range engines {
		header += " " + displayName(engine) + " |"
		sep += ":---:|"
	}
	line("%s", header)
	line("%s", sep)

	for _, query := range queries {
		fastest := winner(query, index, engines)
		row := fmt.Sprintf("| **%s** |", strings.ToUpper(query))
		for _, engine := range engines {
			r, ok := index[engine][query]
			switch {
			case !ok:
				row += " — |"
			case r.Status == bench.StatusSuccess && engine == fastest:
				row += fmt.Sprintf(" **%s** |", formatTime(r.TimeSeconds))
			case r.Status == bench.StatusSuccess:
				row += fmt.Sprintf(" %s |", formatTime(r.TimeSeconds))
			case r.Status == bench.StatusTimeout:
				row += " ⏱️ TIMEOUT |"
			default:
				row += " ❌ ERROR |"
			}
		}
		line("%s", row)
	}

	wins := make(map[string]int, len(engines))
	for _, query := range queries {
		if fastest := winner(query, index, engines); fastest != "" {
			wins[fastest]++
		}
	}
	ranked := append([]string(nil), engines...)
	for i := range ranked {
		for j := i + 1; j < len(ranked); j++ {
			if wins[ranked[j]] > wins[ranked[i]] {
				ranked[i], ranked[j] = ranked[j], ranked[i]
			}
		}
	}

	line("")
	line("## 🥇 Performance Summary")
	line("")
	line("| Engine | Wins |")
	line("|--------|:----:|")
	for _, engine := range ranked {
		line("| %s | %d |", displayName(engine), wins[engine])
	}

	line("")
	line("## 📋 Detailed Results")
	line("")
	for _, engine := range engines {
		line("<details>")
		line("<summary><b>%s</b> - Click to expand</summary>", displayName(engine))
		line("")
		line("| Query | Time | Status | Rows |")
		line("|:------|-----:|:------:|-----:|")
		for _, query := range queries {
			r := index[engine][query]
			rowCount := "—"
			if r.RowCount != nil {
				rowCount = fmt.Sprintf("%d", *r.RowCount)
			}
			emoji := "❓"
			switch r.Status {
			case bench.StatusSuccess:
				emoji = "✅"
			case bench.StatusError:
				emoji = "❌"
			case bench.StatusTimeout:
				emoji = "⏱️"
			}
			line("| %s | %s | %s | %s |", strings.ToUpper(query), formatTime(r.TimeSeconds), emoji, rowCount)
		}
		line("")
		line("</details>")
		line("")
	}

	var errorSection strings.Builder
	for _, engine := range engines {
		var entries []string
		for _, query := range queries {
			r, ok := index[engine][query]
			if !ok || (r.Status != bench.StatusError && r.Status != bench.StatusTimeout) {
				continue
			}
			msg := "No details available"
			if r.ErrorMessage != nil {
				msg = *r.ErrorMessage
				if len(msg) > 200 {
					msg = msg[:200] + "..."
				}
			}
			entries = append(entries, fmt.Sprintf("- **%s**: `%s`", strings.ToUpper(query), msg))
		}
		if len(entries) > 0 {
			fmt.Fprintf(&errorSection, "### %s\n\n%s\n\n", displayName(engine), strings.Join(entries, "\n"))
		}
	}
	if errorSection.Len() > 0 {
		line("## ⚠️ Errors and Timeouts")
		line("")
		b.WriteString(errorSection.String())
	}

	line("---")
	line("")
	line("| Legend | Meaning |")
	line("|--------|---------|")
	line("| **bold** | Fastest for this query |")
	line("| ⏱️ TIMEOUT | Query exceeded timeout |")
	line("| ❌ ERROR | Query failed |")
	line("")
	line("*Generated by SpatialBench on %s*", time.Now().UTC().Format("2006-01-02 15:04:05 UTC"))

	return b.String()
}
