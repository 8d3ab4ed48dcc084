package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vmarchenko/brickwave/internal/audio"
	"github.com/vmarchenko/brickwave/internal/config"
	"github.com/vmarchenko/brickwave/internal/foreshadow"
	"github.com/vmarchenko/brickwave/internal/platform/tui"
	"github.com/vmarchenko/brickwave/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagNoAudio    bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the current terminal",
	Long: `Start a game in the current terminal.

Controls:
  Left/Right or A/D  - Move paddle
  Space              - Launch ball
  P/Esc              - Pause
  M                  - Mute audio cues
  Tab                - Top rounds
  R                  - Restart (after game over)
  Q/Ctrl+C           - Quit

Difficulty options:
  easy   - More lives, slower ball
  normal - Defaults
  hard   - Fewer lives, faster ball
  fixed  - No per-round speed progression

Examples:
  brickwave play
  brickwave play --difficulty hard
  brickwave play --seed 42 --no-audio
  brickwave play --config ./my-brickwave.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().BoolVar(&flagNoAudio, "no-audio", false, "Disable audio cues")
}

func runPlay(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if flagDifficulty != "" {
		config.ApplyPreset(&cfg, config.DifficultyPreset(flagDifficulty))
	}

	// Probe terminal size so the first frame fits before any resize event
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	// The speaker is the one hard dependency; refusing to start beats
	// silently playing without the foreshadowing cues.
	var (
		sink  foreshadow.Sink
		muter tui.Muter
	)
	if !flagNoAudio {
		engine, audioErr := audio.NewEngine()
		if audioErr != nil {
			fmt.Fprintf(os.Stderr, "Error initializing audio: %v\n", audioErr)
			fmt.Fprintln(os.Stderr, "Run with --no-audio to play silently.")
			os.Exit(1)
		}
		defer engine.Close()
		sink = engine
		muter = engine
	}

	// Open round storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open rounds database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	seed := uint64(flagSeed)
	if flagSeed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	runErr := tui.Run(tui.Options{
		Config: cfg,
		Seed:   seed,
		FPS:    flagFPS,
		Width:  width,
		Height: height,
		Store:  store,
		Sink:   sink,
		Muter:  muter,
	})

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
