package wca

import (
	"fmt"
	"strconv"
)

// FormatClock renders a centisecond value as a human-readable clock time,
// m:ss.cc above one minute and s.cc below.
func FormatClock(cs int) string {
	if cs >= DNF {
		return "DNF"
	}
	if cs < 0 {
		return "DNF"
	}
	minutes := cs / 6000
	rem := cs % 6000
	if minutes > 0 {
		return fmt.Sprintf("%d:%05.2f", minutes, float64(rem)/100)
	}
	return fmt.Sprintf("%.2f", float64(cs)/100)
}

// FormatMoves renders a scaled FMC value (moves x100) as a move count.
// Whole counts print as integers, means keep two decimals.
func FormatMoves(v int) string {
	if v >= DNF || v < 0 {
		return "DNF"
	}
	if v%100 == 0 {
		return strconv.Itoa(v / 100)
	}
	return fmt.Sprintf("%.2f", float64(v)/100)
}

// FormatResult renders a result value for display, picking clock or move
// formatting by event class.
func FormatResult(v int, fmc bool) string {
	if fmc {
		return FormatMoves(v)
	}
	return FormatClock(v)
}
