// Package report renders a run summary as an aligned text table.
package report

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"gigradar/internal/pipeline"
)

var header = []string{"SOURCE", "FOUND", "INSERTED", "UPDATED", "SKIPPED", "STATUS"}

// Summary renders one row per source result, padded to display width so
// the table stays aligned when source names or errors carry wide runes.
func Summary(results []pipeline.SourceResult) string {
	rows := [][]string{header}

	for _, res := range results {
		status := "ok"
		if res.Err != nil {
			status = "FAILED: " + res.Err.Error()
		}

		rows = append(rows, []string{
			res.Source,
			strconv.Itoa(res.Found),
			strconv.Itoa(res.Inserted),
			strconv.Itoa(res.Updated),
			strconv.Itoa(res.Skipped),
			status,
		})
	}

	widths := make([]int, len(header))
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var sb strings.Builder

	for rIdx, row := range rows {
		for i, cell := range row {
			sb.WriteString(cell)

			if i < len(row)-1 {
				sb.WriteString(strings.Repeat(" ", widths[i]-runewidth.StringWidth(cell)+2))
			}
		}

		sb.WriteString("\n")

		if rIdx == 0 {
			for i, w := range widths {
				sb.WriteString(strings.Repeat("-", w))

				if i < len(widths)-1 {
					sb.WriteString("  ")
				}
			}

			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// Totals sums the per-source counters of a run.
func Totals(results []pipeline.SourceResult) (found, inserted, updated, skipped, failed int) {
	for _, res := range results {
		found += res.Found
		inserted += res.Inserted
		updated += res.Updated
		skipped += res.Skipped

		if res.Err != nil {
			failed++
		}
	}

	return found, inserted, updated, skipped, failed
}
