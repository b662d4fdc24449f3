package scores

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"github.com/brensch/snek-arcade/game"
)

// ReplayRow is the board after one tick of one game. Body coordinates are
// head first.
type ReplayRow struct {
	GameID   string  `parquet:"game_id,dict"`
	Tick     int64   `parquet:"tick"`
	Width    int32   `parquet:"width"`
	Height   int32   `parquet:"height"`
	Unit     int32   `parquet:"unit"`
	BodyX    []int32 `parquet:"body_x"`
	BodyY    []int32 `parquet:"body_y"`
	FoodX    int32   `parquet:"food_x"`
	FoodY    int32   `parquet:"food_y"`
	FoodKind string  `parquet:"food_kind,dict"`
	Score    int32   `parquet:"score"`
	Phase    string  `parquet:"phase,dict"`
}

// NewReplayRow flattens a snapshot into a row.
func NewReplayRow(gameID string, snap game.Snapshot) ReplayRow {
	row := ReplayRow{
		GameID:   gameID,
		Tick:     snap.Tick,
		Width:    snap.Width,
		Height:   snap.Height,
		Unit:     snap.Unit,
		BodyX:    make([]int32, len(snap.Snake)),
		BodyY:    make([]int32, len(snap.Snake)),
		FoodX:    snap.Food.Pos.X,
		FoodY:    snap.Food.Pos.Y,
		FoodKind: snap.Food.Kind.String(),
		Score:    int32(snap.Score),
		Phase:    snap.Phase.String(),
	}
	for i, c := range snap.Snake {
		row.BodyX[i] = c.X
		row.BodyY[i] = c.Y
	}
	return row
}

// Body rebuilds the snake cells.
func (r ReplayRow) Body() []game.Cell {
	n := min(len(r.BodyX), len(r.BodyY))
	out := make([]game.Cell, n)
	for i := range n {
		out[i] = game.Cell{X: r.BodyX[i], Y: r.BodyY[i]}
	}
	return out
}

// ReplayWriter buffers the rows of the game in progress and writes one
// parquet file per game into its output directory. Files are staged in
// outDir/tmp and renamed into place.
type ReplayWriter struct {
	mu     sync.Mutex
	outDir string
	tmpDir string

	gameID string
	rows   []ReplayRow
}

func NewReplayWriter(outDir string) (*ReplayWriter, error) {
	if outDir == "" {
		return nil, errors.New("replay dir is required")
	}
	absOut, err := filepath.Abs(outDir)
	if err != nil {
		absOut = outDir
	}
	tmpDir := filepath.Join(absOut, "tmp")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return nil, fmt.Errorf("create tmp dir: %w", err)
	}
	return &ReplayWriter{outDir: absOut, tmpDir: tmpDir}, nil
}

func (w *ReplayWriter) Dir() string { return w.outDir }

// Buffered is the number of rows waiting for Flush.
func (w *ReplayWriter) Buffered() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.rows)
}

// Record buffers one tick. Switching to a new game id drops rows of the
// previous game that were never flushed.
func (w *ReplayWriter) Record(gameID string, snap game.Snapshot) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if gameID != w.gameID {
		w.gameID = gameID
		w.rows = w.rows[:0]
	}
	w.rows = append(w.rows, NewReplayRow(gameID, snap))
}

// Flush writes the buffered game and clears the buffer. It returns the final
// path, or "" when nothing was buffered.
func (w *ReplayWriter) Flush() (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.rows) == 0 {
		return "", nil
	}

	name := replayFileName(w.gameID)
	finalPath := filepath.Join(w.outDir, name)
	tmpPath := filepath.Join(w.tmpDir, name+".tmp")
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, w.rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", "replay_tick_v1"),
	); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("write replay: %w", err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("rename replay: %w", err)
	}

	w.rows = w.rows[:0]
	return finalPath, nil
}

func replayFileName(gameID string) string {
	id := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, gameID)
	if id == "" {
		id = "game"
	}
	return "replay_" + id + ".parquet"
}

// ReadReplay loads every row of a replay file in tick order.
func ReadReplay(path string) ([]ReplayRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("open replay parquet: %w", err)
	}

	reader := parquet.NewGenericReader[ReplayRow](pf)
	defer reader.Close()

	rows := make([]ReplayRow, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read replay: %w", err)
	}
	return rows[:n], nil
}

// Snapshot rebuilds the board for rendering. Unknown enum names decode to
// their zero values.
func (r ReplayRow) Snapshot() game.Snapshot {
	var kind game.FoodKind
	_ = kind.UnmarshalText([]byte(r.FoodKind))
	var phase game.Phase
	_ = phase.UnmarshalText([]byte(r.Phase))
	return game.Snapshot{
		Width:  r.Width,
		Height: r.Height,
		Unit:   r.Unit,
		Snake:  r.Body(),
		Food:   game.Food{Pos: game.Cell{X: r.FoodX, Y: r.FoodY}, Kind: kind},
		Score:  int(r.Score),
		Phase:  phase,
		Over:   phase == game.PhaseGameOver,
		Paused: phase == game.PhasePaused,
		Tick:   r.Tick,
	}
}
