// Package session runs one player's games: it owns the simulation and fans
// its events out to sound, persistence, replay and spectator collaborators.
//
// A Session is single-owner. Handle, Tick and Resize must be called from one
// goroutine, normally the UI loop.
package session

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/brensch/snek-arcade/game"
	"github.com/brensch/snek-arcade/rules"
	"github.com/brensch/snek-arcade/scores"
)

// HighScoreStore persists the best score across runs.
type HighScoreStore interface {
	LoadHighScore() (int, error)
	SaveHighScore(v int) error
}

type Sounds interface {
	FoodEaten(kind game.FoodKind)
	GameOver()
}

// Recorder captures per-tick frames of the current game.
type Recorder interface {
	Record(gameID string, snap game.Snapshot)
	Flush() (string, error)
}

type History interface {
	Append(row scores.ScoreRow) error
}

// Observer receives every frame. Implementations must not block.
type Observer interface {
	Frame(gameID string, snap game.Snapshot)
	GameEnd(gameID string, snap game.Snapshot)
}

type Options struct {
	Store     HighScoreStore
	Sounds    Sounds
	Recorder  Recorder
	History   History
	Observers []Observer
	Logger    *slog.Logger
	Rand      *rand.Rand

	// NewID and Now default to uuid.NewString and time.Now.
	NewID func() string
	Now   func() time.Time
}

type Session struct {
	sim    *rules.Simulation
	opts   Options
	log    *slog.Logger
	gameID string
	games  int
}

func New(cfg game.Config, opts Options) (*Session, error) {
	sim, err := rules.NewSimulation(cfg, opts.Rand)
	if err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Session{
		sim:  sim,
		opts: opts,
		log:  opts.Logger.With("variant", cfg.Variant.String()),
	}
	s.startGame()
	s.publish()
	return s, nil
}

func (s *Session) GameID() string                { return s.gameID }
func (s *Session) Games() int                    { return s.games }
func (s *Session) Config() game.Config           { return s.sim.Config() }
func (s *Session) Snapshot() game.Snapshot       { return s.sim.Snapshot() }
func (s *Session) Interval() time.Duration       { return s.sim.Interval() }
func (s *Session) State() *game.GameState        { return s.sim.State() }
func (s *Session) Simulation() *rules.Simulation { return s.sim }

// Handle applies one input. It returns true when the player asked to quit.
func (s *Session) Handle(in rules.Input) bool {
	if in.Kind == rules.InputQuit {
		s.log.Info("quit requested", "game_id", s.gameID, "score", s.sim.State().Score)
		return true
	}

	before := s.sim.State()
	events := s.sim.Apply(in)
	s.dispatch(events)

	after := s.sim.State()
	if after.TickRateHz != before.TickRateHz || after.Difficulty != before.Difficulty {
		s.log.Debug("speed changed", "game_id", s.gameID, "tick_rate_hz", after.TickRateHz, "difficulty", after.Difficulty.String())
	}
	s.publish()
	return false
}

// Tick advances the game one step and returns the events it produced.
func (s *Session) Tick() []rules.Event {
	before := s.sim.State().Ticks
	events := s.sim.Tick()
	snap := s.sim.Snapshot()
	if snap.Tick != before && s.opts.Recorder != nil {
		s.opts.Recorder.Record(s.gameID, snap)
	}
	s.dispatch(events)
	s.publish()
	return events
}

// Resize applies new board bounds for variants that support it.
func (s *Session) Resize(width, height int32) error {
	events, err := s.sim.Resize(width, height)
	if err != nil {
		return err
	}
	s.log.Info("board resized", "game_id", s.gameID, "width", width, "height", height)
	s.dispatch(events)
	s.publish()
	return nil
}

func (s *Session) dispatch(events []rules.Event) {
	for _, ev := range events {
		switch ev.Kind {
		case rules.EventFoodEaten:
			if s.opts.Sounds != nil {
				s.opts.Sounds.FoodEaten(ev.Food.Kind)
			}
			s.log.Debug("food eaten", "game_id", s.gameID, "kind", ev.Food.Kind.String(), "points", ev.Points, "score", ev.Score)
		case rules.EventGameOver:
			s.gameOver(ev)
		case rules.EventReset:
			s.startGame()
		}
	}
}

// startGame takes a fresh id, refreshes the high score from the store and
// records the opening board. The simulation has already been reset.
func (s *Session) startGame() {
	s.gameID = s.opts.NewID()
	s.games++
	if s.opts.Store != nil {
		v, err := s.opts.Store.LoadHighScore()
		if err != nil {
			s.log.Warn("load high score failed; using 0", "error", err)
			v = 0
		}
		s.sim.SetHighScore(v)
	}
	if s.opts.Recorder != nil {
		s.opts.Recorder.Record(s.gameID, s.sim.Snapshot())
	}
	st := s.sim.State()
	s.log.Info("game started", "game_id", s.gameID, "high_score", st.HighScore, "tick_rate_hz", st.TickRateHz)
}

func (s *Session) gameOver(ev rules.Event) {
	st := s.sim.State()
	log := s.log.With("game_id", s.gameID)
	log.Info("game over",
		"outcome", ev.Outcome.String(),
		"score", ev.Score,
		"high_score", ev.HighScore,
		"length", len(st.Snake),
		"ticks", ev.Tick,
	)

	if s.opts.Sounds != nil {
		s.opts.Sounds.GameOver()
	}
	if s.opts.Store != nil {
		if err := s.opts.Store.SaveHighScore(ev.HighScore); err != nil {
			log.Error("save high score failed", "error", err)
		}
	}
	if s.opts.History != nil {
		row := scores.ScoreRow{
			GameID:     s.gameID,
			Variant:    s.sim.Config().Variant.String(),
			Difficulty: st.Difficulty.String(),
			Score:      int32(ev.Score),
			Length:     int32(len(st.Snake)),
			Ticks:      ev.Tick,
			Outcome:    ev.Outcome.String(),
			EndedAtNs:  s.opts.Now().UnixNano(),
		}
		if err := s.opts.History.Append(row); err != nil {
			log.Error("append history failed", "error", err)
		}
	}
	if s.opts.Recorder != nil {
		path, err := s.opts.Recorder.Flush()
		if err != nil {
			log.Error("write replay failed", "error", err)
		} else if path != "" {
			log.Info("replay written", "path", path)
		}
	}

	snap := s.sim.Snapshot()
	for _, o := range s.opts.Observers {
		o.GameEnd(s.gameID, snap)
	}
}

func (s *Session) publish() {
	if len(s.opts.Observers) == 0 {
		return
	}
	snap := s.sim.Snapshot()
	for _, o := range s.opts.Observers {
		o.Frame(s.gameID, snap)
	}
}
