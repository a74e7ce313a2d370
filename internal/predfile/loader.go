// Package predfile reads raw prediction CSV files produced by the model
// training jobs, one file per (strategy, instrument).
package predfile

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"intraday-signal-lab/internal/domain"
)

// Path returns the conventional location of a prediction file inside dir:
// <dir>/<instrument>/<strategy>.<instrument>_Raw_Pred.csv.
func Path(dir, instrument, strategy string) string {
	name := fmt.Sprintf("%s.%s_Raw_Pred.csv", strategy, instrument)
	return filepath.Join(dir, instrument, name)
}

// Load reads one prediction file. Columns are resolved by header name; rows
// keep file order, which is expected to be chronological.
func Load(path string) ([]domain.Prediction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open prediction file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read prediction file %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	col := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		col[name] = i
	}
	for _, name := range []string{"time", "signal", "target"} {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("prediction file %s: missing column %q", path, name)
		}
	}

	preds := make([]domain.Prediction, 0, len(rows)-1)
	for n, row := range rows[1:] {
		p, err := parseRow(row, col)
		if err != nil {
			return nil, fmt.Errorf("prediction file %s row %d: %w", path, n+2, err)
		}
		preds = append(preds, p)
	}
	return preds, nil
}

func parseRow(row []string, col map[string]int) (domain.Prediction, error) {
	var p domain.Prediction

	t, err := parseFloat(row[col["time"]])
	if err != nil {
		return p, fmt.Errorf("time: %w", err)
	}
	p.Time = int64(t)

	signal, err := parseFloat(row[col["signal"]])
	if err != nil {
		return p, fmt.Errorf("signal: %w", err)
	}
	p.Direction = int(signal)

	if p.Target, err = parseFloat(row[col["target"]]); err != nil {
		return p, fmt.Errorf("target: %w", err)
	}

	// Stop fields are optional; a missing stop price falls back to the
	// simulator's percent-based default.
	if i, ok := col["sl"]; ok && row[i] != "" {
		if p.StopLoss, err = parseFloat(row[i]); err != nil {
			return p, fmt.Errorf("sl: %w", err)
		}
	}
	if i, ok := col["trail_sl"]; ok && row[i] != "" {
		if p.TrailSL, err = parseFloat(row[i]); err != nil {
			return p, fmt.Errorf("trail_sl: %w", err)
		}
	}
	return p, nil
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
