package scores

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brensch/snek-arcade/game"
)

func TestTextStore_MissingIsZero(t *testing.T) {
	s := NewTextStore(filepath.Join(t.TempDir(), "highscore.txt"))
	v, err := s.LoadHighScore()
	require.NoError(t, err)
	assert.Equal(t, 0, v)
}

func TestTextStore_CorruptIsZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "highscore.txt")
	require.NoError(t, os.WriteFile(path, []byte("not a number"), 0o644))

	v, err := NewTextStore(path).LoadHighScore()
	assert.Error(t, err)
	assert.Equal(t, 0, v)
}

func TestTextStore_SaveIsMonotonic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "highscore.txt")
	s := NewTextStore(path)

	require.NoError(t, s.SaveHighScore(12))
	require.NoError(t, s.SaveHighScore(7))

	v, err := s.LoadHighScore()
	require.NoError(t, err)
	assert.Equal(t, 12, v)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "12", string(b))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "tmp file left behind")
}

func TestTextStore_ReadsPlainInteger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "highscore.txt")
	require.NoError(t, os.WriteFile(path, []byte("42\n"), 0o644))

	v, err := NewTextStore(path).LoadHighScore()
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	// A corrupt file is overwritten by the next save.
	require.NoError(t, os.WriteFile(path, []byte("??"), 0o644))
	require.NoError(t, NewTextStore(path).SaveHighScore(3))
	v, err = NewTextStore(path).LoadHighScore()
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestHistory_AppendAndHighScore(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "history.parquet"))

	_, err := h.Rows()
	assert.ErrorIs(t, err, ErrNoHistory)
	v, err := h.LoadHighScore()
	require.NoError(t, err)
	assert.Equal(t, 0, v)

	for i, score := range []int32{4, 11, 2} {
		require.NoError(t, h.Append(ScoreRow{
			GameID:     "g" + string(rune('a'+i)),
			Variant:    "enhanced",
			Difficulty: "normal",
			Score:      score,
			Length:     3 + score,
			Ticks:      int64(100 * (i + 1)),
			Outcome:    "wall",
			EndedAtNs:  int64(i),
		}))
	}

	rows, err := h.Rows()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "ga", rows[0].GameID)
	assert.Equal(t, int32(2), rows[2].Score)

	best, err := h.HighScore()
	require.NoError(t, err)
	assert.Equal(t, 11, best)
	assert.NoError(t, h.SaveHighScore(99))
	best, _ = h.LoadHighScore()
	assert.Equal(t, 11, best)
}

func TestReplayWriter_FlushAndRead(t *testing.T) {
	w, err := NewReplayWriter(t.TempDir())
	require.NoError(t, err)

	path, err := w.Flush()
	require.NoError(t, err)
	assert.Empty(t, path, "empty flush should not write a file")

	cfg := game.DefaultConfig(game.VariantBasic)
	for tick := int64(1); tick <= 3; tick++ {
		st := &game.GameState{
			Snake: []game.Cell{{X: int32(100 + 10*tick), Y: 50}, {X: int32(90 + 10*tick), Y: 50}},
			Food:  game.Food{Pos: game.Cell{X: 300, Y: 200}, Kind: game.FoodBonus},
			Score: int(tick),
			Ticks: tick,
		}
		w.Record("game/1", game.NewSnapshot(cfg, st))
	}
	assert.Equal(t, 3, w.Buffered())

	path, err = w.Flush()
	require.NoError(t, err)
	assert.Equal(t, "replay_game_1.parquet", filepath.Base(path))
	assert.Equal(t, 0, w.Buffered())

	rows, err := ReadReplay(path)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, int64(2), rows[1].Tick)
	assert.Equal(t, "bonus", rows[1].FoodKind)
	assert.Equal(t, []game.Cell{{X: 130, Y: 50}, {X: 120, Y: 50}}, rows[2].Body())
	assert.Equal(t, int32(10), rows[0].Unit)

	entries, err := os.ReadDir(filepath.Join(w.Dir(), "tmp"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReplayWriter_NewGameDropsUnflushed(t *testing.T) {
	w, err := NewReplayWriter(t.TempDir())
	require.NoError(t, err)

	cfg := game.DefaultConfig(game.VariantBasic)
	st := &game.GameState{Snake: []game.Cell{{X: 10, Y: 10}}}
	w.Record("a", game.NewSnapshot(cfg, st))
	w.Record("a", game.NewSnapshot(cfg, st))
	w.Record("b", game.NewSnapshot(cfg, st))
	assert.Equal(t, 1, w.Buffered())
}

func TestReplayRowSnapshot(t *testing.T) {
	cfg := game.DefaultConfig(game.VariantEnhanced)
	st := &game.GameState{
		Snake: []game.Cell{{X: 40, Y: 40}, {X: 20, Y: 40}},
		Food:  game.Food{Pos: game.Cell{X: 80, Y: 80}, Kind: game.FoodBonus},
		Score: 6,
		Phase: game.PhaseGameOver,
		Ticks: 12,
	}
	snap := NewReplayRow("g", game.NewSnapshot(cfg, st)).Snapshot()
	assert.Equal(t, st.Snake, snap.Snake)
	assert.Equal(t, st.Food, snap.Food)
	assert.True(t, snap.Over)
	assert.Equal(t, int64(12), snap.Tick)
	assert.Equal(t, int32(20), snap.Unit)
}
