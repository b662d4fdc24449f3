package tui

import (
	"github.com/brensch/snek-arcade/game"
	"github.com/brensch/snek-arcade/rules"
)

// InputForKey maps a key name as reported by tea.KeyMsg.String to a game
// input.
func InputForKey(key string) (rules.Input, bool) {
	switch key {
	case "up", "w", "k":
		return rules.DirectionRequested(game.Up), true
	case "down", "s", "j":
		return rules.DirectionRequested(game.Down), true
	case "left", "a", "h":
		return rules.DirectionRequested(game.Left), true
	case "right", "d", "l":
		return rules.DirectionRequested(game.Right), true
	case "p", " ":
		return rules.PauseToggled(), true
	case "r":
		return rules.ResetRequested(), true
	case "q", "esc", "ctrl+c":
		return rules.QuitRequested(), true
	case "+", "=":
		return rules.SpeedAdjusted(1), true
	case "-", "_":
		return rules.SpeedAdjusted(-1), true
	case "1":
		return rules.DifficultySelected(game.Easy), true
	case "2":
		return rules.DifficultySelected(game.Normal), true
	case "3":
		return rules.DifficultySelected(game.Hard), true
	case "enter":
		return rules.SpeedConfirmed(), true
	}
	return rules.Input{}, false
}
