package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/acumen-hq/acumen/internal/simulate"
	"github.com/acumen-hq/acumen/pkg/logger"
)

// Default configuration constants.
const (
	defaultUsers      = 6
	defaultDays       = 14
	defaultWorkers    = 4
	defaultTimeout    = 10 * time.Second
	defaultRunTimeout = 5 * time.Minute
)

func main() {
	var (
		baseURL   = flag.String("url", "http://localhost:9080", "Base URL of the engine")
		users     = flag.Int("users", defaultUsers, "Number of simulated users")
		archetype = flag.String("archetype", "mixed", "Usage archetype: novice, practitioner, power or mixed")
		days      = flag.Int("days", defaultDays, "Simulated days of activity per user")
		workers   = flag.Int("workers", defaultWorkers, "Number of concurrent submitters")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose   = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &simulate.Config{
		BaseURL:   *baseURL,
		Users:     *users,
		Archetype: *archetype,
		Days:      *days,
		Workers:   *workers,
		Timeout:   *timeout,
		Verbose:   *verbose,
	}

	if err := simulate.Run(ctx, config); err != nil {
		logger.Get().Error(ctx, "simulation failed", logger.Error(err))
		os.Exit(1)
	}
}
