package reporting

import (
	"fmt"
	"strconv"
	"strings"

	"intraday-signal-lab/internal/domain"
)

// RenderTradesCSV renders the combined trade table as a CSV string. Exit
// fields of trades that never entered or never closed are left empty.
func RenderTradesCSV(trades []*domain.Trade) string {
	var sb strings.Builder

	// Header
	sb.WriteString("instrument,strategy,tick,date,direction,target,bod_sl,sl_range,trail_sl,strength,")
	sb.WriteString("entry_time,entry_price,status,exit_price,exit_time,pnl,sl,sl_update_cnt,max_mtm,max_mtm_pct\n")

	// Rows
	for _, t := range trades {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%d,%s,%s,%s,%s,%s,%d,%s,%s,%s,%s,%s,%s,%d,%s,%s\n",
			t.Instrument,
			t.Strategy,
			num(t.Tick),
			t.Date,
			t.Direction,
			num(t.Target),
			num(t.BodSL),
			num(t.SLRange),
			num(t.TrailSL),
			num(t.Strength),
			t.EntryTime,
			num(t.EntryPrice),
			t.Status,
			optNum(t.ExitPrice),
			optInt(t.ExitTime),
			optNum(t.PnL),
			num(t.SL),
			t.SLUpdateCount,
			num(t.MaxMTM),
			num(t.MaxMTMPct),
		))
	}

	return sb.String()
}

// RenderStatsCSV renders per-pair statistics as a CSV string.
func RenderStatsCSV(stats []*domain.StatsRecord) string {
	var sb strings.Builder

	sb.WriteString("instrument,strategy,trades,entry_pct,")
	sb.WriteString("l_trades,l_entry_pct,l_pct_success,l_avg_cost,l_pnl,l_pct,")
	sb.WriteString("s_trades,s_entry_pct,s_pct_success,s_avg_cost,s_pnl,s_pct\n")

	for _, s := range stats {
		sb.WriteString(fmt.Sprintf("%s,%s,%d,%s,%d,%s,%s,%s,%s,%s,%d,%s,%s,%s,%s,%s\n",
			s.Instrument,
			s.Strategy,
			s.Trades,
			num(s.EntryPct),
			s.Long.Trades,
			num(s.Long.EntryPct),
			num(s.Long.PctSuccess),
			num(s.Long.AvgCost),
			num(s.Long.PnL),
			num(s.Long.Pct),
			s.Short.Trades,
			num(s.Short.EntryPct),
			num(s.Short.PctSuccess),
			num(s.Short.AvgCost),
			num(s.Short.PnL),
			num(s.Short.Pct),
		))
	}

	return sb.String()
}

// RenderMtmCSV renders per-bar mark-to-market rows as a CSV string.
func RenderMtmCSV(records []*domain.MtmRecord) string {
	var sb strings.Builder

	sb.WriteString("instrument,strategy,date,timestamp,direction,open,high,low,close,")
	sb.WriteString("target,target_met,entry_price,mtm,mtm_pct\n")

	for _, m := range records {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%d,%d,%s,%s,%s,%s,%s,%t,%s,%s,%s\n",
			m.Instrument,
			m.Strategy,
			m.Date,
			m.Timestamp,
			m.Direction,
			num(m.Open),
			num(m.High),
			num(m.Low),
			num(m.Close),
			num(m.Target),
			m.TargetMet,
			num(m.EntryPrice),
			num(m.MTM),
			num(m.MTMPct),
		))
	}

	return sb.String()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func optNum(v *float64) string {
	if v == nil {
		return ""
	}
	return num(*v)
}

func optInt(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}
