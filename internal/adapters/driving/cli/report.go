package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/term"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
	"github.com/custodia-labs/autoname-cli/internal/core/services"
)

const defaultWidth = 80

// terminalWidth returns the width of w when it is a terminal.
func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 20 {
			return width
		}
	}
	return defaultWidth
}

// writeReport prints one block per file followed by a summary line.
func writeReport(w io.Writer, report *domain.RunReport, width int) {
	for i := range report.Results {
		writeResult(w, &report.Results[i], width)
	}
	fmt.Fprintln(w, summary(report))
}

func writeResult(w io.Writer, res *domain.FileResult, width int) {
	switch res.Kind {
	case domain.ResultRenamed, domain.ResultWouldRename:
		fmt.Fprintln(w, services.FormatDelta(*res.Delta))
		fmt.Fprintf(w, "  rule: %s (score %.2f, coverage %.0f%%)\n", res.Rule, res.Score, res.Coverage*100)
	case domain.ResultUnchanged:
		fmt.Fprintf(w, "= %s\n", displayName(res))
	case domain.ResultSkipped:
		fmt.Fprintf(w, "skipped %s\n", res.Path)
		fmt.Fprintln(w, wrapReason(reason(res), width))
	case domain.ResultFailed:
		fmt.Fprintf(w, "failed %s\n", res.Path)
		fmt.Fprintln(w, wrapReason(reason(res), width))
	}
}

func displayName(res *domain.FileResult) string {
	if res.Delta != nil {
		return res.Delta.NewBasename
	}
	return res.Path
}

func reason(res *domain.FileResult) string {
	if res.Reason != "" {
		return res.Reason
	}
	if res.Err != nil {
		return res.Err.Error()
	}
	return "no reason given"
}

// wrapReason wraps and indents a reason under its file line.
func wrapReason(s string, width int) string {
	const pad = 2
	return indent.String(wordwrap.String(s, width-pad), pad)
}

// summary counts results by kind.
func summary(report *domain.RunReport) string {
	var parts []string
	add := func(n int, label string) {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%s %s", humanize.Comma(int64(n)), label))
		}
	}
	add(report.Count(domain.ResultRenamed), "renamed")
	add(report.Count(domain.ResultWouldRename), "would be renamed")
	add(report.Count(domain.ResultUnchanged), "unchanged")
	add(report.Count(domain.ResultSkipped), "skipped")
	add(report.Count(domain.ResultFailed), "failed")
	if len(parts) == 0 {
		parts = append(parts, "no files")
	}

	line := strings.Join(parts, ", ")
	if !report.FinishedAt.IsZero() {
		line += fmt.Sprintf(" in %s", report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))
	}
	if report.Cancelled {
		line += " (aborted)"
	}
	return line
}

type resultJSON struct {
	Path        string  `json:"path"`
	Result      string  `json:"result"`
	NewBasename string  `json:"new_basename,omitempty"`
	Rule        string  `json:"rule,omitempty"`
	Score       float64 `json:"score,omitempty"`
	Coverage    float64 `json:"coverage,omitempty"`
	Reason      string  `json:"reason,omitempty"`
}

type reportJSON struct {
	ID        string       `json:"id"`
	StartedAt time.Time    `json:"started_at"`
	Cancelled bool         `json:"cancelled,omitempty"`
	Results   []resultJSON `json:"results"`
}

func writeReportJSON(w io.Writer, report *domain.RunReport) error {
	out := reportJSON{
		ID:        report.ID,
		StartedAt: report.StartedAt,
		Cancelled: report.Cancelled,
		Results:   make([]resultJSON, 0, len(report.Results)),
	}
	for i := range report.Results {
		res := &report.Results[i]
		r := resultJSON{
			Path:     res.Path,
			Result:   string(res.Kind),
			Rule:     res.Rule,
			Score:    res.Score,
			Coverage: res.Coverage,
		}
		if res.Delta != nil {
			r.NewBasename = res.Delta.NewBasename
		}
		if res.Kind == domain.ResultSkipped || res.Kind == domain.ResultFailed {
			r.Reason = reason(res)
		}
		out.Results = append(out.Results, r)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
