// Package main loads historical bar CSVs into ClickHouse. Files carry one
// bar per row with columns instrument,timestamp,open,high,low,close.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"intraday-signal-lab/internal/config"
	"intraday-signal-lab/internal/domain"
	"intraday-signal-lab/internal/observability"
	"intraday-signal-lab/internal/storage/clickhouse"
)

func main() {
	ticksPath := flag.String("ticks", "", "Minute bar CSV file")
	dailyPath := flag.String("daily", "", "Daily bar CSV file")
	flag.Parse()

	if *ticksPath == "" && *dailyPath == "" {
		fmt.Fprintln(os.Stderr, "Error: at least one of -ticks or -daily is required")
		os.Exit(1)
	}

	if err := run(*ticksPath, *dailyPath); err != nil {
		observability.RecordIngestionError()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ticksPath, dailyPath string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := clickhouse.NewConn(ctx, cfg.ClickHouseDSN)
	if err != nil {
		return err
	}
	defer conn.Close()

	store := clickhouse.NewBarStore(conn)

	if ticksPath != "" {
		bars, err := loadBars(ticksPath)
		if err != nil {
			return err
		}
		if err := store.InsertTicks(ctx, bars); err != nil {
			return fmt.Errorf("insert minute bars: %w", err)
		}
		observability.RecordBarsIngested("tick", len(bars))
		fmt.Printf("Ingested %d minute bars from %s\n", len(bars), ticksPath)
	}

	if dailyPath != "" {
		bars, err := loadBars(dailyPath)
		if err != nil {
			return err
		}
		if err := store.InsertDaily(ctx, bars); err != nil {
			return fmt.Errorf("insert daily bars: %w", err)
		}
		observability.RecordBarsIngested("daily", len(bars))
		fmt.Printf("Ingested %d daily bars from %s\n", len(bars), dailyPath)
	}

	return nil
}

func loadBars(path string) ([]*domain.PriceBar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bar file: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read bar file %s: %w", path, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("bar file %s: no data rows", path)
	}

	bars := make([]*domain.PriceBar, 0, len(rows)-1)
	for n, row := range rows[1:] {
		if len(row) < 6 {
			return nil, fmt.Errorf("bar file %s row %d: expected 6 columns", path, n+2)
		}

		b := &domain.PriceBar{Instrument: row[0]}
		if b.Timestamp, err = strconv.ParseInt(row[1], 10, 64); err != nil {
			return nil, fmt.Errorf("bar file %s row %d: timestamp: %w", path, n+2, err)
		}

		prices := []*float64{&b.Open, &b.High, &b.Low, &b.Close}
		for i, p := range prices {
			if *p, err = strconv.ParseFloat(row[2+i], 64); err != nil {
				return nil, fmt.Errorf("bar file %s row %d: %w", path, n+2, err)
			}
		}
		bars = append(bars, b)
	}
	return bars, nil
}
