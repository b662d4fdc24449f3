package rules

import (
	"fmt"

	"github.com/brensch/snek-arcade/game"
)

type InputKind uint8

const (
	InputDirection InputKind = iota
	InputPause
	InputReset
	InputQuit
	InputSpeed
	InputDifficulty
	InputConfirmSpeed
)

func (k InputKind) String() string {
	switch k {
	case InputDirection:
		return "direction"
	case InputPause:
		return "pause"
	case InputReset:
		return "reset"
	case InputQuit:
		return "quit"
	case InputSpeed:
		return "speed"
	case InputDifficulty:
		return "difficulty"
	case InputConfirmSpeed:
		return "confirm_speed"
	}
	return fmt.Sprintf("input(%d)", uint8(k))
}

// Input is a discrete player request delivered between ticks.
type Input struct {
	Kind       InputKind
	Direction  game.Direction
	Delta      int
	Difficulty game.Difficulty
}

func DirectionRequested(d game.Direction) Input { return Input{Kind: InputDirection, Direction: d} }
func PauseToggled() Input                       { return Input{Kind: InputPause} }
func ResetRequested() Input                     { return Input{Kind: InputReset} }
func QuitRequested() Input                      { return Input{Kind: InputQuit} }
func SpeedAdjusted(delta int) Input             { return Input{Kind: InputSpeed, Delta: delta} }
func SpeedConfirmed() Input                     { return Input{Kind: InputConfirmSpeed} }
func DifficultySelected(d game.Difficulty) Input {
	return Input{Kind: InputDifficulty, Difficulty: d}
}

// Apply routes an input to its handler. Inputs that do not apply in the
// current phase are dropped. Reset only applies once the game is over; quit
// is left to the caller.
func (s *Simulation) Apply(in Input) []Event {
	switch in.Kind {
	case InputDirection:
		s.SetDirection(in.Direction)
	case InputPause:
		s.TogglePause()
	case InputReset:
		if s.state.Phase != game.PhaseGameOver {
			return nil
		}
		s.Reset()
		return []Event{{Kind: EventReset, HighScore: s.state.HighScore}}
	case InputSpeed:
		s.AdjustSpeed(in.Delta)
	case InputDifficulty:
		s.SetDifficulty(in.Difficulty)
	case InputConfirmSpeed:
		s.ConfirmSpeed()
	}
	return nil
}
