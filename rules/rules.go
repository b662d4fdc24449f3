// Package rules advances a single-player snake game one tick at a time.
//
// A Simulation owns its GameState and is driven by exactly one caller: input
// events and ticks must not be issued concurrently. The simulation performs
// no I/O; everything a collaborator needs to react to (sounds, persistence)
// is returned as Events.
package rules

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"time"

	"github.com/brensch/snek-arcade/game"
)

var ErrNotResizable = errors.New("variant does not support resizing")

type EventKind uint8

const (
	EventFoodEaten EventKind = iota
	EventGameOver
	EventReset
)

func (k EventKind) String() string {
	switch k {
	case EventFoodEaten:
		return "food_eaten"
	case EventGameOver:
		return "game_over"
	case EventReset:
		return "reset"
	}
	return fmt.Sprintf("event(%d)", uint8(k))
}

// Event is a notification produced by a state transition.
type Event struct {
	Kind      EventKind
	Tick      int64
	Food      game.Food    // food eaten (EventFoodEaten)
	Points    int          // points awarded (EventFoodEaten)
	Score     int          // score after the transition
	HighScore int          // max(score, previous high) (EventGameOver)
	Outcome   game.Outcome // why the game ended (EventGameOver)
}

// initialOccupancy is the starting size of the occupancy index. It grows
// with the snake.
const initialOccupancy = 64

type Simulation struct {
	cfg   game.Config
	state game.GameState
	occ   *game.Occupancy
	rng   *rand.Rand

	// heading is the direction of the last completed move. Reversal is
	// checked against it as well as the pending direction, so two quick
	// turns between ticks cannot fold the head back onto the neck.
	heading game.Direction
}

// NewSimulation builds a fresh game. A nil rng seeds from the clock.
func NewSimulation(cfg game.Config, rng *rand.Rand) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s := &Simulation{
		cfg: cfg,
		occ: game.NewOccupancy(initialOccupancy),
		rng: rng,
	}
	s.state.TickRateHz = cfg.TickRateHz
	s.state.Difficulty = game.Normal
	s.Reset()
	if cfg.SelectSpeed {
		s.state.Phase = game.PhaseSelectingSpeed
	}
	return s, nil
}

// Restore builds a simulation around an existing state, e.g. a saved game
// or a hand-built board in tests. The state is copied.
func Restore(cfg game.Config, state *game.GameState, rng *rand.Rand) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if state == nil || len(state.Snake) == 0 {
		return nil, errors.New("state has no snake")
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s := &Simulation{
		cfg:     cfg,
		state:   *state.Clone(),
		occ:     game.NewOccupancy(max(initialOccupancy, 2*len(state.Snake))),
		rng:     rng,
		heading: state.Direction,
	}
	if s.state.TickRateHz == 0 {
		s.state.TickRateHz = cfg.TickRateHz
	}
	s.occ.Reset(s.state.Snake)
	return s, nil
}

func (s *Simulation) Config() game.Config { return s.cfg }

// State returns a deep copy of the current state.
func (s *Simulation) State() *game.GameState { return s.state.Clone() }

func (s *Simulation) Snapshot() game.Snapshot { return game.NewSnapshot(s.cfg, &s.state) }

// TickInterval is the wait between ticks at the given rate.
func TickInterval(hz int) time.Duration {
	if hz < 1 {
		hz = 1
	}
	return time.Second / time.Duration(hz)
}

// Interval is the wait before the next tick at the current rate.
func (s *Simulation) Interval() time.Duration { return TickInterval(s.state.TickRateHz) }

// SetDirection changes the heading used by the next tick. Reversals and
// requests while the game is over or selecting speed are ignored.
func (s *Simulation) SetDirection(d game.Direction) {
	switch s.state.Phase {
	case game.PhaseGameOver, game.PhaseSelectingSpeed:
		return
	}
	if d == s.state.Direction.Opposite() || d == s.heading.Opposite() {
		return
	}
	s.state.Direction = d
}

// Tick advances the game by one step. It is a no-op unless the game is
// playing.
func (s *Simulation) Tick() []Event {
	st := &s.state
	if st.Phase != game.PhasePlaying {
		return nil
	}
	st.Ticks++

	head := st.Snake[0]
	dx, dy := st.Direction.Delta()
	newHead := game.Cell{X: head.X + dx*s.cfg.Unit, Y: head.Y + dy*s.cfg.Unit}
	s.heading = st.Direction

	// Every current segment is body once the new head goes in front.
	hitSelf := s.occ.Has(newHead)

	st.Snake = slices.Insert(st.Snake, 0, newHead)
	s.occ.Add(newHead)

	if !s.cfg.InBounds(newHead) {
		return s.finish(game.OutcomeWall)
	}
	if hitSelf {
		return s.finish(game.OutcomeSelf)
	}

	if st.Food.Present() && newHead == st.Food.Pos {
		points := s.points(st.Food.Kind)
		st.Score += points
		events := []Event{{
			Kind:   EventFoodEaten,
			Tick:   st.Ticks,
			Food:   st.Food,
			Points: points,
			Score:  st.Score,
		}}
		if !s.spawnFood() {
			events = append(events, s.finish(game.OutcomeBoardFull)...)
		}
		return events
	}

	tail := st.Snake[len(st.Snake)-1]
	st.Snake = st.Snake[:len(st.Snake)-1]
	s.occ.Remove(tail)
	return nil
}

func (s *Simulation) points(kind game.FoodKind) int {
	p := kind.Points()
	if s.cfg.DifficultyControls && s.state.Difficulty == game.Hard {
		p *= 2
	}
	return p
}

func (s *Simulation) finish(outcome game.Outcome) []Event {
	st := &s.state
	st.Phase = game.PhaseGameOver
	st.Outcome = outcome
	if outcome == game.OutcomeBoardFull {
		st.Food = game.Food{}
	}
	if st.Score > st.HighScore {
		st.HighScore = st.Score
	}
	return []Event{{
		Kind:      EventGameOver,
		Tick:      st.Ticks,
		Score:     st.Score,
		HighScore: st.HighScore,
		Outcome:   outcome,
	}}
}

// SetHighScore raises the remembered high score. Lower values are ignored.
func (s *Simulation) SetHighScore(v int) {
	if v > s.state.HighScore {
		s.state.HighScore = v
	}
}

// Reset starts a new game: a three cell snake heading right, score zero and
// fresh food. The high score, tick rate and difficulty carry over.
func (s *Simulation) Reset() {
	st := &s.state
	if st.Score > st.HighScore {
		st.HighScore = st.Score
	}

	u := s.cfg.Unit
	col := min(int32(10), s.cfg.Cols()/2)
	row := min(int32(5), s.cfg.Rows()/2)
	st.Snake = []game.Cell{
		{X: col * u, Y: row * u},
		{X: (col - 1) * u, Y: row * u},
		{X: (col - 2) * u, Y: row * u},
	}
	st.Direction = game.Right
	s.heading = game.Right
	st.Score = 0
	st.Phase = game.PhasePlaying
	st.Outcome = game.OutcomeNone
	st.Ticks = 0
	st.Food = game.Food{}
	s.occ.Reset(st.Snake)

	if !s.spawnFood() {
		s.finish(game.OutcomeBoardFull)
	}
}

// TogglePause flips between playing and paused.
func (s *Simulation) TogglePause() {
	if !s.cfg.Pausable {
		return
	}
	switch s.state.Phase {
	case game.PhasePlaying:
		s.state.Phase = game.PhasePaused
	case game.PhasePaused:
		s.state.Phase = game.PhasePlaying
	}
}

// SetDifficulty picks a difficulty and the tick rate that goes with it.
func (s *Simulation) SetDifficulty(d game.Difficulty) {
	if !s.cfg.DifficultyControls {
		return
	}
	switch s.state.Phase {
	case game.PhasePlaying, game.PhasePaused:
	default:
		return
	}
	s.state.Difficulty = d
	s.state.TickRateHz = d.TickRate()
}

// AdjustSpeed nudges the tick rate, clamped to [MinTickRate, MaxTickRate].
func (s *Simulation) AdjustSpeed(delta int) {
	if !s.cfg.DifficultyControls || s.state.Phase == game.PhaseGameOver {
		return
	}
	s.state.TickRateHz = min(game.MaxTickRate, max(game.MinTickRate, s.state.TickRateHz+delta))
}

// ConfirmSpeed leaves the speed selection screen and starts play.
func (s *Simulation) ConfirmSpeed() {
	if s.state.Phase == game.PhaseSelectingSpeed {
		s.state.Phase = game.PhasePlaying
	}
}

// Resize changes the board bounds. A snake that no longer fits ends the game;
// food that falls outside the new spawn area is moved.
func (s *Simulation) Resize(width, height int32) ([]Event, error) {
	if !s.cfg.Resizable {
		return nil, ErrNotResizable
	}
	next := s.cfg
	next.Width, next.Height = width, height
	if err := next.Validate(); err != nil {
		return nil, fmt.Errorf("resize to %dx%d: %w", width, height, err)
	}
	s.cfg = next

	st := &s.state
	if st.Phase == game.PhaseGameOver {
		return nil, nil
	}
	for _, c := range st.Snake {
		if !s.cfg.InBounds(c) {
			return s.finish(game.OutcomeResize), nil
		}
	}
	if st.Food.Present() && !s.cfg.InSpawnArea(st.Food.Pos) {
		if !s.spawnFood() {
			return s.finish(game.OutcomeBoardFull), nil
		}
	}
	return nil, nil
}
