package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders a run report as a Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Simulation Run Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Units: %d | Trades: %d\n\n", r.UnitCount, r.TradeCount))

	// Trade Summary
	sb.WriteString("## Trade Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total Trades | %d |\n", r.TradeCount))
	sb.WriteString(fmt.Sprintf("| Total P&L | %.2f |\n", r.TotalPnL))
	if r.DateStart != "" {
		sb.WriteString(fmt.Sprintf("| Date Range | %s to %s |\n", r.DateStart, r.DateEnd))
	}
	sb.WriteString("\n")

	// Status breakdown in a fixed order so output is deterministic.
	if len(r.StatusCount) > 0 {
		sb.WriteString("### Status Breakdown\n\n")
		sb.WriteString("| Status | Count |\n")
		sb.WriteString("|--------|-------|\n")
		for _, status := range []string{"TARGET-HIT", "SL-HIT", "COB-CLOSE", "OPEN", "INVALID"} {
			if n, ok := r.StatusCount[status]; ok {
				sb.WriteString(fmt.Sprintf("| %s | %d |\n", status, n))
			}
		}
		sb.WriteString("\n")
	}

	// Statistics
	sb.WriteString("## Statistics\n\n")
	if len(r.Stats) > 0 {
		sb.WriteString("| Instrument | Strategy | Trades | Entry% | L Trades | L Success% | L PnL | S Trades | S Success% | S PnL |\n")
		sb.WriteString("|------------|----------|--------|--------|----------|------------|-------|----------|------------|-------|\n")
		for _, s := range r.Stats {
			sb.WriteString(fmt.Sprintf("| %s | %s | %d | %.2f | %d | %.2f | %.2f | %d | %.2f | %.2f |\n",
				s.Instrument, s.Strategy, s.Trades, s.EntryPct,
				s.LongTrades, s.LongPctSuccess, s.LongPnL,
				s.ShortTrades, s.ShortPctSuccess, s.ShortPnL))
		}
	} else {
		sb.WriteString("No statistics available.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}
