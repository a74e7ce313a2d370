// Package main re-evaluates the day's executed live entries at close of
// business: each filled entry is replayed against the day's bars in same-day
// mode and reported alongside its statistics.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"intraday-signal-lab/internal/config"
	"intraday-signal-lab/internal/domain"
	"intraday-signal-lab/internal/observability"
	"intraday-signal-lab/internal/reporting"
	"intraday-signal-lab/internal/runner"
	"intraday-signal-lab/internal/storage/clickhouse"
	"intraday-signal-lab/internal/storage/postgres"
)

func main() {
	account := flag.String("account", "", "Trading account to evaluate")
	date := flag.String("date", "", "Trading date YYYY-MM-DD (defaults to today)")
	outputDir := flag.String("output-dir", "out", "Output directory")
	flag.Parse()

	if *account == "" {
		fmt.Fprintln(os.Stderr, "Error: -account is required")
		os.Exit(1)
	}

	if err := run(*account, *date, *outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(account, date, outputDir string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(cfg.LogLevel)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	if date == "" {
		date = time.Now().In(loc).Format("2006-01-02")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	conn, err := clickhouse.NewConn(ctx, cfg.ClickHouseDSN)
	if err != nil {
		return err
	}
	defer conn.Close()

	entries, err := postgres.NewSignalLogStore(pool).GetByDate(ctx, account, date)
	if err != nil {
		return err
	}

	r := runner.New(runner.Options{
		Bars:     clickhouse.NewBarStore(conn),
		Workers:  cfg.Workers,
		Location: loc,
		Logger:   logger,
	})

	liveEntries := make([]domain.LiveEntry, len(entries))
	for i, e := range entries {
		liveEntries[i] = *e
	}

	start := time.Now()
	res := r.RunCloseOfBusiness(ctx, liveEntries)
	observability.RecordRun("cob", "ok", time.Since(start).Seconds())

	if err := reporting.NewGenerator().WriteAll(outputDir, res.Trades, res.Stats, res.MTM); err != nil {
		return err
	}

	fmt.Println("Close-of-business evaluation completed:")
	fmt.Printf("  Account: %s\n", account)
	fmt.Printf("  Date:    %s\n", date)
	fmt.Printf("  Entries: %d\n", len(entries))
	fmt.Printf("  Trades:  %d\n", len(res.Trades))
	fmt.Printf("  Output:  %s\n", outputDir)
	return nil
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
