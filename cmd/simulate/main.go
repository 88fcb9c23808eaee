// Command simulate runs matchup simulations from the command line without
// starting the HTTP server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/joho/godotenv"
	app "github.com/okian/matchup/internal/app"
	"github.com/okian/matchup/internal/batch"
	"github.com/okian/matchup/internal/config"
	"github.com/okian/matchup/internal/domain/model"
	"github.com/okian/matchup/pkg/logger"
)

type matchupList []model.Matchup

func (l *matchupList) String() string { return fmt.Sprint(len(*l)) }

func (l *matchupList) Set(s string) error {
	m, err := batch.ParseMatchup(s)
	if err != nil {
		return err
	}
	*l = append(*l, m)
	return nil
}

func main() {
	var matchups matchupList
	var (
		file    = flag.String("file", "", "File with one Home:Season@Away:Season matchup per line")
		workers = flag.Int("workers", runtime.NumCPU(), "Number of concurrent simulations")
		xlsx    = flag.String("xlsx", "", "Also write results to this workbook")
		verbose = flag.Bool("verbose", false, "Enable debug logging")
	)
	flag.Var(&matchups, "matchup", "Matchup as Home:Season@Away:Season (repeatable)")
	flag.Parse()

	if err := logger.Init(logger.WithWriter(os.Stderr)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, matchups, *file, *workers, *xlsx, *verbose); err != nil {
		logger.Get().Error(ctx, "simulate failed", logger.Error(err))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, matchups []model.Matchup, file string, workers int, xlsx string, verbose bool) error {
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return fmt.Errorf("open matchups: %w", err)
		}
		more, err := batch.ReadMatchups(f)
		_ = f.Close()
		if err != nil {
			return err
		}
		matchups = append(matchups, more...)
	}
	if len(matchups) == 0 {
		return errors.New("no matchups given; use -matchup or -file")
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	if err := logger.SetLevelString(level); err != nil {
		return err
	}

	store, closeStore, err := app.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	svc, err := app.NewFromConfig(cfg, store, logger.Named("service"))
	if err != nil {
		return err
	}

	results, err := batch.NewRunner(svc, batch.WithWorkers(workers)).Run(ctx, matchups)
	if err != nil {
		return err
	}
	if err := batch.WriteJSON(os.Stdout, results); err != nil {
		return err
	}
	if xlsx != "" {
		if err := batch.WriteWorkbook(xlsx, results); err != nil {
			return err
		}
		logger.Get().Info(ctx, "wrote workbook", logger.String("path", xlsx), logger.Int("matchups", len(results)))
	}
	return nil
}
