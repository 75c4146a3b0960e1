package engine

import (
	"fmt"
	"math"
	"strings"
)

// ============================================================================
// TEXT BUILDER — One-line reply for text output
// ============================================================================

// BuildReply describes a ranking in one sentence.
func BuildReply(ranking Ranking, metric string, unit string, rows int, precision int) string {
	if len(ranking) == 0 {
		return "No data available to analyze."
	}

	top := ranking[0]
	if math.IsNaN(top.Mean) {
		return fmt.Sprintf("No %s values in the %s selected rows.", metric, FormatInt(rows))
	}

	value := FormatNumber(top.Mean, precision)
	if unit != "" {
		value += " " + unit
	}

	if len(ranking) == 1 {
		return fmt.Sprintf("%s averages %s %s over %s rows.", top.Label, value, metric, FormatInt(rows))
	}

	rest := make([]string, 0, len(ranking)-1)
	for _, e := range ranking[1:] {
		rest = append(rest, fmt.Sprintf("%s %s", e.Label, FormatNumber(e.Mean, precision)))
	}
	return fmt.Sprintf("%s leads with an average %s of %s over %s rows, followed by %s.",
		top.Label, metric, value, FormatInt(rows), strings.Join(rest, ", "))
}

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	if n < 0 {
		return "-" + FormatInt(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", FormatInt(n/1000), n%1000)
}
