// Package cli provides output helpers for the resumatch command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/resumatch/internal/keyword"
)

// OutputFormat is the format for score output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat validates a -output flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(s)) {
	case OutputText, "":
		return OutputText, nil
	case OutputJSON:
		return OutputJSON, nil
	}
	return "", fmt.Errorf("unknown output format %q (use text or json)", s)
}

// ScoreReport is the result of scoring one résumé against one job description.
type ScoreReport struct {
	Resume         string            `json:"resume"`
	JobDescription string            `json:"job_description"`
	Score          float64           `json:"score"`
	Coverage       *keyword.Coverage `json:"coverage,omitempty"`
}

// WriteScoreReport writes r to w in the given format.
func WriteScoreReport(w io.Writer, r *ScoreReport, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	default:
		writeScoreReportText(w, r)
		return nil
	}
}

func writeScoreReportText(w io.Writer, r *ScoreReport) {
	fmt.Fprintf(w, "Resume:          %s\n", r.Resume)
	fmt.Fprintf(w, "Job description: %s\n", r.JobDescription)
	fmt.Fprintf(w, "Match score:     %.2f%%\n", r.Score)
	if c := r.Coverage; c != nil {
		fmt.Fprintf(w, "Keyword coverage: %.2f%% (%d of %d terms)\n", c.Percent, len(c.Matched), c.Total)
		if len(c.Missing) > 0 {
			fmt.Fprintf(w, "Missing: %s\n", TruncateWords(strings.Join(c.Missing, " "), 30))
		}
	}
}

// TruncateWords returns up to maxWords from the space-separated string.
func TruncateWords(s string, maxWords int) string {
	words := strings.Fields(s)
	if len(words) <= maxWords {
		return s
	}
	return strings.Join(words[:maxWords], " ") + "..."
}
