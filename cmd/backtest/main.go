// Package main runs a full backtest: prediction files are aligned against
// historical bars, simulated per unit, and written out as CSV and Markdown
// reports.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"intraday-signal-lab/internal/config"
	"intraday-signal-lab/internal/observability"
	"intraday-signal-lab/internal/predfile"
	"intraday-signal-lab/internal/reporting"
	"intraday-signal-lab/internal/runner"
	"intraday-signal-lab/internal/storage/clickhouse"
)

func main() {
	manifestPath := flag.String("manifest", "run.yaml", "Run manifest file")
	outputDir := flag.String("output-dir", "", "Output directory (overrides manifest)")
	flag.Parse()

	if err := run(*manifestPath, *outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(manifestPath, outputDir string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(cfg.LogLevel)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	manifest, err := config.LoadManifest(manifestPath)
	if err != nil {
		return err
	}
	if outputDir == "" {
		outputDir = manifest.OutputDir
	}
	if outputDir == "" {
		outputDir = "out"
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := clickhouse.NewConn(ctx, cfg.ClickHouseDSN)
	if err != nil {
		return err
	}
	defer conn.Close()

	go serveMetrics(cfg.MetricsAddr, logger)

	units := loadUnits(manifest, logger)

	r := runner.New(runner.Options{
		Bars:         clickhouse.NewBarStore(conn),
		Workers:      cfg.Workers,
		Location:     loc,
		TickSize:     manifest.TickSize,
		DefaultSLPct: manifest.DefaultSLPct,
		Logger:       logger,
	})

	start := time.Now()
	res := r.RunBacktest(ctx, units)
	observability.RecordRun("backtest", "ok", time.Since(start).Seconds())

	if err := reporting.NewGenerator().WriteAll(outputDir, res.Trades, res.Stats, res.MTM); err != nil {
		return err
	}

	fmt.Println("Backtest completed:")
	fmt.Printf("  Units:  %d\n", len(units))
	fmt.Printf("  Trades: %d\n", len(res.Trades))
	fmt.Printf("  Output: %s\n", outputDir)
	return nil
}

// loadUnits reads one prediction file per instrument/strategy pair. A missing
// file only skips that pair.
func loadUnits(m *config.RunManifest, logger *logrus.Logger) []runner.Unit {
	var units []runner.Unit
	for _, instrument := range m.Instruments {
		for _, strategy := range m.Strategies {
			path := predfile.Path(m.PredictionsDir, instrument, strategy)
			preds, err := predfile.Load(path)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					logger.WithField("path", path).Warn("no prediction file, skipping pair")
				} else {
					logger.WithError(err).WithField("path", path).Error("failed to load prediction file")
				}
				continue
			}

			units = append(units, runner.Unit{
				Instrument:  instrument,
				Strategy:    strategy,
				Predictions: preds,
			})
		}
	}
	return units
}

func serveMetrics(addr string, logger *logrus.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.WithError(err).Warn("metrics server stopped")
	}
}

func newLogger(level string) *logrus.Logger {
	logger := logrus.New()
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}
