package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vmarchenko/brickwave/internal/config"
	"github.com/vmarchenko/brickwave/internal/game"
	"github.com/vmarchenko/brickwave/internal/harness"
)

var (
	flagHarnessAddr   string
	flagHarnessConfig string
	flagHarnessQuiet  bool
)

var harnessCmd = &cobra.Command{
	Use:   "harness",
	Short: "Run the automation harness server",
	Long: `Run a headless game behind an HTTP automation harness.

Endpoints:
  GET  /state    - Current runtime state as JSON
  POST /control  - Invoke a hook: {"action": "start"}
  WS   /events   - Stream every simulation event as JSON

Actions: start, pause, resume, force-launch, skip-level,
force-life-loss, drain-lives, quit.

Examples:
  brickwave harness
  brickwave harness --addr :8089 --seed 42
  curl -X POST -d '{"action":"start"}' localhost:8089/control`,
	Run: runHarness,
}

func init() {
	harnessCmd.Flags().StringVar(&flagHarnessAddr, "addr", ":8089", "Harness listen address (host:port)")
	harnessCmd.Flags().StringVar(&flagHarnessConfig, "config", "", "Path to custom config YAML")
	harnessCmd.Flags().BoolVar(&flagHarnessQuiet, "quiet", false, "Suppress log output")
}

func runHarness(_ *cobra.Command, _ []string) {
	cfg, err := config.Load(flagHarnessConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "brickwave-harness",
	})
	if flagHarnessQuiet {
		logger = log.New(io.Discard)
	}

	seed := uint64(flagSeed)
	if flagSeed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	g := game.New(game.Options{
		Config: cfg,
		Seed:   seed,
		Logger: logger,
	})

	srv := harness.NewServer(g, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting harness", "addr", flagHarnessAddr, "seed", seed)
	if err := srv.Run(ctx, flagHarnessAddr); err != nil {
		fmt.Fprintf(os.Stderr, "Harness error: %v\n", err)
		os.Exit(1)
	}
}
