package tui

import (
	"log/slog"
	"math/rand"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brensch/snek-arcade/game"
	"github.com/brensch/snek-arcade/rules"
	"github.com/brensch/snek-arcade/session"
)

func newModel(t *testing.T, v game.Variant) (Model, *session.Session) {
	t.Helper()
	log := slog.New(slog.DiscardHandler)
	sess, err := session.New(game.DefaultConfig(v), session.Options{
		Logger: log,
		Rand:   rand.New(rand.NewSource(1)),
	})
	require.NoError(t, err)
	return New(sess, log), sess
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInputForKey(t *testing.T) {
	cases := map[string]rules.Input{
		"up":    rules.DirectionRequested(game.Up),
		"a":     rules.DirectionRequested(game.Left),
		"p":     rules.PauseToggled(),
		"r":     rules.ResetRequested(),
		"q":     rules.QuitRequested(),
		"+":     rules.SpeedAdjusted(1),
		"-":     rules.SpeedAdjusted(-1),
		"3":     rules.DifficultySelected(game.Hard),
		"enter": rules.SpeedConfirmed(),
	}
	for key, want := range cases {
		got, ok := InputForKey(key)
		assert.True(t, ok, key)
		assert.Equal(t, want, got, key)
	}
	_, ok := InputForKey("x")
	assert.False(t, ok)
}

func TestQuitKey(t *testing.T) {
	m, _ := newModel(t, game.VariantBasic)
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestArrowKeyTurnsSnake(t *testing.T) {
	m, sess := newModel(t, game.VariantBasic)
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, game.Down, sess.Snapshot().Direction)

	// Reversal is ignored.
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, game.Down, sess.Snapshot().Direction)
}

func TestTickAdvancesAndReschedules(t *testing.T) {
	m, sess := newModel(t, game.VariantBasic)
	require.NotNil(t, m.Init())

	_, cmd := m.Update(tickMsg{})
	assert.NotNil(t, cmd, "next tick scheduled")
	snap := sess.Snapshot()
	assert.Equal(t, int64(1), snap.Tick)
	assert.Equal(t, game.Cell{X: 110, Y: 50}, snap.Snake[0])
}

func TestEnhancedSpeedSelection(t *testing.T) {
	m, sess := newModel(t, game.VariantEnhanced)
	assert.Contains(t, m.View(), "Select speed: 12")

	m.Update(runes("+"))
	m.Update(runes("+"))
	assert.Contains(t, m.View(), "Select speed: 14")

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, sess.Snapshot().SelectingSpeed)

	m.Update(runes("1"))
	view := m.View()
	assert.Contains(t, view, "Difficulty: easy")
	assert.Contains(t, view, "Speed: 8")
}

func TestGameOverBanner(t *testing.T) {
	m, sess := newModel(t, game.VariantBasic)
	for i := 0; i < 200 && !sess.Snapshot().Over; i++ {
		m.Update(tickMsg{})
	}
	require.True(t, sess.Snapshot().Over)
	view := m.View()
	assert.Contains(t, view, "GAME OVER (wall)")
	assert.Contains(t, view, "R to restart / Q to quit")

	m.Update(runes("r"))
	assert.False(t, sess.Snapshot().Over)
	assert.NotContains(t, m.View(), "GAME OVER")
}

func TestWindowResize(t *testing.T) {
	m, sess := newModel(t, game.VariantResizable)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 82, Height: 35})
	m = next.(Model)

	cfg := sess.Config()
	assert.Equal(t, int32(40), cfg.Cols())
	assert.Equal(t, int32(30), cfg.Rows())

	// Fixed-size variants ignore the terminal.
	m2, sess2 := newModel(t, game.VariantBasic)
	m2.Update(tea.WindowSizeMsg{Width: 40, Height: 20})
	assert.Equal(t, int32(640), sess2.Config().Width)
}

func TestRenderBoard(t *testing.T) {
	snap := game.Snapshot{
		Width: 40, Height: 30, Unit: 10,
		Snake: []game.Cell{{X: 20, Y: 10}, {X: 10, Y: 10}},
		Food:  game.Food{Pos: game.Cell{X: 30, Y: 20}, Kind: game.FoodNormal},
	}
	lines := strings.Split(RenderBoard(snap), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "        ", lines[0])
	assert.Equal(t, "  ██▓▓  ", lines[1])
	assert.Equal(t, "      ● ", lines[2])
}
