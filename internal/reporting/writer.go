package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"intraday-signal-lab/internal/domain"
)

// WriteAll writes the run's CSV tables and Markdown summary into dir,
// creating it if needed. Mark-to-market rows are flattened across units in
// key order so the output is deterministic.
func (g *Generator) WriteAll(dir string, trades []*domain.Trade, stats []*domain.StatsRecord, mtm map[string][]*domain.MtmRecord) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}

	files := map[string]string{
		"trades.csv": RenderTradesCSV(trades),
		"stats.csv":  RenderStatsCSV(stats),
		"mtm.csv":    RenderMtmCSV(flattenMtm(mtm)),
		"report.md":  RenderMarkdown(g.Generate(trades, stats)),
	}

	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

func flattenMtm(mtm map[string][]*domain.MtmRecord) []*domain.MtmRecord {
	keys := make([]string, 0, len(mtm))
	for k := range mtm {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var all []*domain.MtmRecord
	for _, k := range keys {
		all = append(all, mtm[k]...)
	}
	return all
}
