// Package tui is the terminal front end: a bubbletea program that owns the
// session, turns key presses into inputs and drives the tick clock.
package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/brensch/snek-arcade/game"
	"github.com/brensch/snek-arcade/session"
)

// tickMsg is one beat of the game clock.
type tickMsg time.Time

type Model struct {
	sess *session.Session
	log  *slog.Logger

	termW, termH int
}

func New(sess *session.Session, log *slog.Logger) Model {
	if log == nil {
		log = slog.Default()
	}
	return Model{sess: sess, log: log}
}

// tickCmd schedules the next beat at the session's current rate, so speed
// changes take effect on the following tick.
func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.sess.Interval(), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		in, ok := InputForKey(msg.String())
		if !ok {
			return m, nil
		}
		if m.sess.Handle(in) {
			return m, tea.Quit
		}
		return m, nil
	case tickMsg:
		m.sess.Tick()
		return m, m.tickCmd()
	case tea.WindowSizeMsg:
		m.termW, m.termH = msg.Width, msg.Height
		m.resize()
		return m, nil
	}
	return m, nil
}

// resize fits the board to the terminal for variants that allow it. Each
// cell is two columns wide; four rows are kept for the border and status.
func (m Model) resize() {
	cfg := m.sess.Config()
	if !cfg.Resizable || m.termW <= 0 || m.termH <= 0 {
		return
	}
	cols := int32(max(0, (m.termW-2)/2))
	rows := int32(max(0, m.termH-5))
	if cols == cfg.Cols() && rows == cfg.Rows() {
		return
	}
	if err := m.sess.Resize(cols*cfg.Unit, rows*cfg.Unit); err != nil {
		m.log.Warn("terminal too small for board", "cols", cols, "rows", rows, "error", err)
	}
}

var (
	boardStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63"))
	headStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true)
	bodyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	foodStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	bonusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	bannerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("160")).Bold(true).Padding(0, 1)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

func (m Model) View() string {
	snap := m.sess.Snapshot()
	var b strings.Builder
	b.WriteString(boardStyle.Render(RenderBoard(snap)))
	b.WriteByte('\n')
	b.WriteString(statusStyle.Render(StatusLine(snap)))
	b.WriteByte('\n')
	if banner := Banner(snap); banner != "" {
		b.WriteString(bannerStyle.Render(banner))
		b.WriteByte('\n')
	}
	b.WriteString(hintStyle.Render(hints(snap)))
	return b.String()
}

// RenderBoard draws the grid, two terminal columns per cell.
func RenderBoard(snap game.Snapshot) string {
	if snap.Unit <= 0 {
		return ""
	}
	cols, rows := int(snap.Width/snap.Unit), int(snap.Height/snap.Unit)
	grid := make([][]string, rows)
	for y := range grid {
		grid[y] = make([]string, cols)
		for x := range grid[y] {
			grid[y][x] = "  "
		}
	}
	put := func(c game.Cell, s string) {
		x, y := int(c.X/snap.Unit), int(c.Y/snap.Unit)
		if c.X < 0 || c.Y < 0 || y >= rows || x >= cols {
			return
		}
		grid[y][x] = s
	}

	if snap.Food.Present() {
		if snap.Food.Kind == game.FoodBonus {
			put(snap.Food.Pos, bonusStyle.Render("★ "))
		} else {
			put(snap.Food.Pos, foodStyle.Render("● "))
		}
	}
	for i := len(snap.Snake) - 1; i >= 1; i-- {
		put(snap.Snake[i], bodyStyle.Render("██"))
	}
	if head, ok := snap.Head(); ok {
		put(head, headStyle.Render("▓▓"))
	}

	lines := make([]string, rows)
	for y := range grid {
		lines[y] = strings.Join(grid[y], "")
	}
	return strings.Join(lines, "\n")
}

func StatusLine(snap game.Snapshot) string {
	s := fmt.Sprintf("Score: %d  High: %d", snap.Score, snap.HighScore)
	switch snap.Variant {
	case game.VariantEnhanced:
		s += fmt.Sprintf("  Speed: %d  Difficulty: %s", snap.TickRateHz, snap.Difficulty)
	case game.VariantResizable:
		s += fmt.Sprintf("  Board: %dx%d", snap.Width/snap.Unit, snap.Height/snap.Unit)
	}
	return s
}

// Banner is the overlay text for the current phase, or "" while playing.
func Banner(snap game.Snapshot) string {
	switch {
	case snap.Over && snap.Outcome == game.OutcomeBoardFull:
		return fmt.Sprintf("BOARD CLEARED! Score %d. R to restart / Q to quit", snap.Score)
	case snap.Over:
		return fmt.Sprintf("GAME OVER (%s). R to restart / Q to quit", snap.Outcome)
	case snap.SelectingSpeed:
		return fmt.Sprintf("Select speed: %d. +/- to change, Enter to start", snap.TickRateHz)
	case snap.Paused:
		return "PAUSED. P to resume"
	}
	return ""
}

func hints(snap game.Snapshot) string {
	switch snap.Variant {
	case game.VariantEnhanced:
		return "arrows/wasd move  p pause  +/- speed  1/2/3 difficulty  q quit"
	case game.VariantResizable:
		return "arrows/wasd move  p pause  resize the terminal to resize the board  q quit"
	}
	return "arrows/wasd move  q quit"
}
