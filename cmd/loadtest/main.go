package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/okian/matchup/internal/loadtest"
)

// Default configuration constants.
const (
	defaultRequests    = 1000
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:9080", "Base URL of the service")
		matchups = flag.String("matchups", "", "Comma-separated Home:Season@Away:Season list")
		requests = flag.Int("requests", defaultRequests, "Number of prediction requests")
		workers  = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile  = flag.String("log", "", "Log file for test output (default: loadtest_TIMESTAMP.log)")
		verbose  = flag.Bool("verbose", false, "Log every failed request")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		loadtest.ShowHelp()
		return
	}

	if err := run(*baseURL, *matchups, *requests, *workers, *timeout, *logFile, *verbose); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Test failed: "+err.Error())
		os.Exit(1)
	}
}

func run(baseURL, list string, requests, workers int, timeout time.Duration, logFile string, verbose bool) error {
	ms, err := loadtest.ParseMatchups(list)
	if err != nil {
		return err
	}
	if len(ms) == 0 {
		return fmt.Errorf("no matchups given, use -matchups")
	}

	closeLog, err := loadtest.SetupLogging(logFile, verbose)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	stats, err := loadtest.Run(ctx, &loadtest.Config{
		BaseURL:  baseURL,
		Matchups: ms,
		Requests: requests,
		Workers:  workers,
		Timeout:  timeout,
		Verbose:  verbose,
	})
	if err != nil {
		return err
	}
	if bad := stats.Invalid + stats.Failed; bad > 0 {
		return fmt.Errorf("%d of %d requests failed", bad, stats.Requests)
	}
	return nil
}
