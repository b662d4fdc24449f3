package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/brensch/snek-arcade/audio"
	"github.com/brensch/snek-arcade/game"
	"github.com/brensch/snek-arcade/logging"
	"github.com/brensch/snek-arcade/scores"
	"github.com/brensch/snek-arcade/session"
	"github.com/brensch/snek-arcade/spectate"
	"github.com/brensch/snek-arcade/tui"
)

func main() {
	variant := flag.String("variant", getEnvOrDefault("SNAKE_VARIANT", "basic"), "Game variant: basic, enhanced or resizable")
	width := flag.Int("width", getEnvIntOrDefault("SNAKE_WIDTH", 0), "Board width in units (0 = variant default)")
	height := flag.Int("height", getEnvIntOrDefault("SNAKE_HEIGHT", 0), "Board height in units (0 = variant default)")
	unit := flag.Int("unit", getEnvIntOrDefault("SNAKE_UNIT", 0), "Cell size in units (0 = variant default)")
	rate := flag.Int("rate", getEnvIntOrDefault("SNAKE_RATE", 0), "Starting tick rate in Hz (0 = variant default)")
	seed := flag.Int64("seed", int64(getEnvIntOrDefault("SNAKE_SEED", 0)), "Food placement seed (0 = random)")
	highScorePath := flag.String("highscore", getEnvOrDefault("SNAKE_HIGHSCORE", "highscore.txt"), "High score file")
	historyPath := flag.String("history", getEnvOrDefault("SNAKE_HISTORY", "data/history.parquet"), "Finished game history parquet (empty to disable)")
	replayDir := flag.String("replays", getEnvOrDefault("SNAKE_REPLAYS", ""), "Directory for per-game replay parquet files (empty to disable)")
	logPath := flag.String("log", getEnvOrDefault("SNAKE_LOG", "snake.log"), "Log file (- for stderr, off to disable)")
	logLevel := flag.String("log-level", getEnvOrDefault("SNAKE_LOG_LEVEL", "info"), "Log level: debug, info, warn, error")
	logPretty := flag.Bool("log-pretty", getEnvBoolOrDefault("SNAKE_LOG_PRETTY", false), "Indent JSON log records")
	spectateAddr := flag.String("spectate-addr", getEnvOrDefault("SNAKE_SPECTATE_ADDR", ""), "Serve a spectator websocket on this address (empty to disable)")
	mute := flag.Bool("mute", getEnvBoolOrDefault("SNAKE_MUTE", false), "Disable sound")
	eatSound := flag.String("eat-sound", getEnvOrDefault("SNAKE_EAT_SOUND", "eat.wav"), "WAV played on eating (synthesized if missing)")
	gameOverSound := flag.String("game-over-sound", getEnvOrDefault("SNAKE_GAME_OVER_SOUND", "game_over.wav"), "WAV played on game over (synthesized if missing)")
	flag.Parse()

	if err := run(options{
		variant:       *variant,
		width:         *width,
		height:        *height,
		unit:          *unit,
		rate:          *rate,
		seed:          *seed,
		highScorePath: *highScorePath,
		historyPath:   *historyPath,
		replayDir:     *replayDir,
		logPath:       *logPath,
		logLevel:      *logLevel,
		logPretty:     *logPretty,
		spectateAddr:  *spectateAddr,
		mute:          *mute,
		eatSound:      *eatSound,
		gameOverSound: *gameOverSound,
	}); err != nil {
		fmt.Fprintln(os.Stderr, "snake:", err)
		os.Exit(1)
	}
}

type options struct {
	variant                 string
	width, height, unit     int
	rate                    int
	seed                    int64
	highScorePath           string
	historyPath             string
	replayDir               string
	logPath, logLevel       string
	logPretty               bool
	spectateAddr            string
	mute                    bool
	eatSound, gameOverSound string
}

func buildConfig(o options) (game.Config, error) {
	v, err := game.ParseVariant(strings.ToLower(strings.TrimSpace(o.variant)))
	if err != nil {
		return game.Config{}, err
	}
	cfg := game.DefaultConfig(v)
	if o.width > 0 {
		cfg.Width = int32(o.width)
	}
	if o.height > 0 {
		cfg.Height = int32(o.height)
	}
	if o.unit > 0 {
		cfg.Unit = int32(o.unit)
	}
	if o.rate > 0 {
		cfg.TickRateHz = o.rate
	}
	if err := cfg.Validate(); err != nil {
		return game.Config{}, err
	}
	return cfg, nil
}

func run(o options) error {
	cfg, err := buildConfig(o)
	if err != nil {
		return err
	}

	log, logCloser, err := logging.Open(o.logPath, o.logLevel, o.logPretty)
	if err != nil {
		return err
	}
	defer logCloser.Close()
	slog.SetDefault(log)

	seed := o.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log.Info("starting", "variant", cfg.Variant.String(), "width", cfg.Width, "height", cfg.Height, "unit", cfg.Unit, "tick_rate_hz", cfg.TickRateHz, "seed", seed)

	opts := session.Options{
		Store:  scores.NewTextStore(o.highScorePath),
		Logger: log,
		Rand:   rand.New(rand.NewSource(seed)),
	}

	if o.historyPath != "" {
		opts.History = scores.NewHistory(o.historyPath)
	}
	if o.replayDir != "" {
		rw, err := scores.NewReplayWriter(o.replayDir)
		if err != nil {
			return err
		}
		opts.Recorder = rw
	}

	sounds := audio.NewSoundManager()
	sounds.SetMuted(o.mute)
	if !o.mute {
		if err := sounds.LoadSamples(o.eatSound, o.gameOverSound); err != nil {
			log.Warn("sound samples unusable; using synthesized cues", "error", err)
		}
		if err := sounds.Initialize(); err != nil {
			log.Warn("audio unavailable; continuing without sound", "error", err)
		}
	}
	defer sounds.Cleanup()
	opts.Sounds = sounds

	var hub *spectate.Hub
	if o.spectateAddr != "" {
		hub = spectate.NewHub(log)
		opts.Observers = append(opts.Observers, hub)
	}

	sess, err := session.New(cfg, opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	program := tea.NewProgram(tui.New(sess, log), tea.WithAltScreen(), tea.WithContext(gctx))
	g.Go(func() error {
		// Leaving the game stops everything else.
		defer cancel()
		_, err := program.Run()
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	})

	if hub != nil {
		var ranker spectate.Ranker
		if o.historyPath != "" {
			ranker = scores.FileRanker{Paths: []string{o.historyPath}}
		}
		srv := spectate.NewServer(hub, ranker, log)
		g.Go(func() error {
			if err := srv.Run(gctx, o.spectateAddr); err != nil {
				return fmt.Errorf("spectator server: %w", err)
			}
			return nil
		})
	}

	err = g.Wait()
	snap := sess.Snapshot()
	log.Info("exiting", "games", sess.Games(), "score", snap.Score, "high_score", snap.HighScore)
	return err
}

// Environment variable helpers
func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		var i int
		if _, err := fmt.Sscanf(val, "%d", &i); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBoolOrDefault(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}
