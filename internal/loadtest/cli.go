package loadtest

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/okian/matchup/internal/batch"
	"github.com/okian/matchup/internal/domain/model"
	"github.com/okian/matchup/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0o600
)

// SetupLogging sends log output to both stdout and a file. If logFile is
// empty, a timestamped filename is generated. The returned func closes it.
func SetupLogging(logFile string, verbose bool) (func() error, error) {
	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "loadtest_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	if err := logger.Init(logger.WithWriter(io.MultiWriter(os.Stdout, file))); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return file.Close, nil
}

// ParseMatchups parses a comma-separated list of Home:Season@Away:Season specs.
func ParseMatchups(list string) ([]model.Matchup, error) {
	var out []model.Matchup
	for _, raw := range strings.Split(list, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		m, err := batch.ParseMatchup(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// ShowHelp prints usage information for the load test tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Matchup Load Test Tool
======================

Fires concurrent prediction requests at a running matchup service and
verifies every response body.

Usage:
  go run ./cmd/loadtest [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -matchups string
        Comma-separated Home:Season@Away:Season list
  -requests int
        Number of prediction requests (default 1000)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -log string
        Log file for test output (default: loadtest_TIMESTAMP.log)
  -verbose
        Log every failed request
  -help
        Show this help message

Examples:
  go run ./cmd/loadtest -matchups "Kansas:2019@Duke:2019"

  go run ./cmd/loadtest -requests 5000 -workers 16 \
    -matchups "Kansas:2019@Duke:2019,Gonzaga:2021@Baylor:2021"
`)
}
