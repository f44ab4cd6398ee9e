package report

import (
	"errors"
	"strings"
	"testing"

	"gigradar/internal/pipeline"
)

func TestSummaryAlignsColumns(t *testing.T) {
	results := []pipeline.SourceResult{
		{Source: "clubber.gr", Found: 12, Inserted: 10, Updated: 2},
		{Source: "iereiestisnychtas.com", Found: 5, Inserted: 5},
		{Source: "more.com", Err: errors.New("timeout")},
	}

	out := Summary(results)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	// Header, separator, one row per result.
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5:\n%s", len(lines), out)
	}

	if !strings.HasPrefix(lines[0], "SOURCE") {
		t.Errorf("header missing: %q", lines[0])
	}

	if !strings.Contains(out, "FAILED: timeout") {
		t.Errorf("failed source not marked:\n%s", out)
	}

	// The longest source name sets the first column width; every row's
	// second column must start where the header's FOUND column starts.
	offset := strings.Index(lines[0], "FOUND")
	if offset < 0 {
		t.Fatalf("FOUND column missing from header: %q", lines[0])
	}

	for _, line := range lines[2:] {
		if len(line) <= offset || line[offset] == ' ' {
			t.Errorf("row misaligned at column %d: %q", offset, line)
		}
	}
}

func TestTotals(t *testing.T) {
	results := []pipeline.SourceResult{
		{Source: "a", Found: 3, Inserted: 2, Updated: 1},
		{Source: "b", Found: 4, Inserted: 0, Updated: 3, Skipped: 1},
		{Source: "c", Err: errors.New("boom")},
	}

	found, inserted, updated, skipped, failed := Totals(results)

	if found != 7 || inserted != 2 || updated != 4 || skipped != 1 || failed != 1 {
		t.Errorf("Totals() = %d, %d, %d, %d, %d", found, inserted, updated, skipped, failed)
	}
}
