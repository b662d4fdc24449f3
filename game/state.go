// Package game defines the core state types for the arcade snake.
//
// These types hold plain data only; the transition rules live in package
// rules. The state is cheap to clone so renderers, recorders and the
// spectator stream can keep copies without sharing memory with the
// simulation.
package game

import "fmt"

// Cell is a grid-aligned coordinate. Coordinates are in board units (the same
// units as Config.Width/Height), so neighbouring cells differ by Config.Unit.
// (0,0) is the top-left corner and Y grows downward.
type Cell struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}

// Key packs the cell into a single integer for the occupancy index.
// Negative coordinates are preserved (they only occur on a terminal head).
func (c Cell) Key() uint64 {
	return (uint64(uint32(c.X)) << 32) | uint64(uint32(c.Y))
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Opposite returns the reverse heading.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	default:
		return Left
	}
}

// Delta is the unit step for the direction.
func (d Direction) Delta() (dx, dy int32) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	default:
		return 1, 0
	}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("direction(%d)", uint8(d))
}

func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

type Difficulty uint8

const (
	Easy Difficulty = iota
	Normal
	Hard
)

// TickRate is the simulation rate a difficulty selects.
func (d Difficulty) TickRate() int {
	switch d {
	case Easy:
		return 8
	case Hard:
		return 16
	default:
		return 12
	}
}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Normal:
		return "normal"
	case Hard:
		return "hard"
	}
	return fmt.Sprintf("difficulty(%d)", uint8(d))
}

func (d Difficulty) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// ParseDifficulty accepts the names produced by Difficulty.String.
func ParseDifficulty(s string) (Difficulty, error) {
	switch s {
	case "easy":
		return Easy, nil
	case "normal", "":
		return Normal, nil
	case "hard":
		return Hard, nil
	}
	return Normal, fmt.Errorf("unknown difficulty %q", s)
}

// Phase is the top-level state machine position.
// SelectingSpeed -> Playing <-> Paused, Playing -> GameOver -> (reset) -> Playing.
type Phase uint8

const (
	PhasePlaying Phase = iota
	PhasePaused
	PhaseSelectingSpeed
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	case PhaseSelectingSpeed:
		return "selecting_speed"
	case PhaseGameOver:
		return "game_over"
	}
	return fmt.Sprintf("phase(%d)", uint8(p))
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// Outcome records why a game ended.
type Outcome uint8

const (
	OutcomeNone Outcome = iota
	OutcomeWall
	OutcomeSelf
	OutcomeBoardFull // every spawnable cell is covered: the player won
	OutcomeResize    // the board shrank underneath the snake
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeWall:
		return "wall"
	case OutcomeSelf:
		return "self"
	case OutcomeBoardFull:
		return "board_full"
	case OutcomeResize:
		return "resize"
	}
	return fmt.Sprintf("outcome(%d)", uint8(o))
}

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// GameState is everything the rules need to advance a game.
type GameState struct {
	Snake      []Cell // head first
	Direction  Direction
	Food       Food
	Score      int
	HighScore  int
	Phase      Phase
	Outcome    Outcome
	TickRateHz int
	Difficulty Difficulty
	Ticks      int64
}

func (s *GameState) IsOver() bool           { return s.Phase == PhaseGameOver }
func (s *GameState) IsPaused() bool         { return s.Phase == PhasePaused }
func (s *GameState) IsSelectingSpeed() bool { return s.Phase == PhaseSelectingSpeed }

// Head returns the first snake cell. The snake is never empty once a game has
// been reset.
func (s *GameState) Head() Cell {
	return s.Snake[0]
}

// Clone performs a deep copy of the game state.
func (s *GameState) Clone() *GameState {
	if s == nil {
		return nil
	}

	out := *s
	if len(s.Snake) > 0 {
		out.Snake = make([]Cell, len(s.Snake))
		copy(out.Snake, s.Snake)
	}
	return &out
}
