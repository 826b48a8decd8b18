package loop

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"github.com/amplerelife/ai-story-tool/internal/history"
)

// RenderReport formats a history report for the terminal. Metric values are
// rounded to two decimal places for presentation.
func RenderReport(r *history.Report) string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Version history: %d version(s)\n", r.VersionCount)
	if r.VersionCount == 0 {
		return buf.String()
	}

	buf.WriteString("\nContent length trend:\n")
	for _, p := range r.LengthTrend {
		fmt.Fprintf(&buf, "  v%d\t%d chars\n", p.Version, p.Length)
	}

	if len(r.Changes) > 0 {
		buf.WriteString("\nVersion changes:\n")
		w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  FROM\tTO\tOVERLAP\tCHANGE\tLCS-F\tUNIGRAM-F\tBIGRAM-F")
		for _, c := range r.Changes {
			fmt.Fprintf(w, "  v%d\tv%d\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\n",
				c.FromVersion, c.ToVersion,
				c.OverlapScore, c.ChangeRate,
				c.Overlap.LCS, c.Overlap.Unigram, c.Overlap.Bigram)
		}
		w.Flush()
	}

	if len(r.Feedback) > 0 {
		buf.WriteString("\nFeedback history:\n")
		for _, f := range r.Feedback {
			fmt.Fprintf(&buf, "  v%d: %s\n", f.Version, f.Feedback)
		}
	}

	return buf.String()
}
