package scores

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenLeaderboard_NoFiles(t *testing.T) {
	_, err := OpenLeaderboard(filepath.Join(t.TempDir(), "missing.parquet"), "")
	assert.ErrorIs(t, err, ErrNoHistory)
}

func TestLeaderboard_TopAndSummary(t *testing.T) {
	dir := t.TempDir()
	a := NewHistory(filepath.Join(dir, "a.parquet"))
	b := NewHistory(filepath.Join(dir, "b.parquet"))

	rows := []struct {
		h        *History
		id, diff string
		score    int32
		ticks    int64
	}{
		{a, "g1", "easy", 5, 50},
		{a, "g2", "hard", 14, 90},
		{b, "g3", "normal", 9, 70},
		{b, "g4", "hard", 14, 60},
	}
	for i, r := range rows {
		require.NoError(t, r.h.Append(ScoreRow{
			GameID: r.id, Variant: "enhanced", Difficulty: r.diff,
			Score: r.score, Length: 3 + r.score, Ticks: r.ticks,
			Outcome: "self", EndedAtNs: int64(i),
		}))
	}

	lb, err := OpenLeaderboard(a.Path(), b.Path())
	require.NoError(t, err)
	defer lb.Close()

	top, err := lb.Top(t.Context(), 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "g4", top[0].GameID, "tie broken by fewer ticks")
	assert.Equal(t, "g2", top[1].GameID)
	assert.Equal(t, "g3", top[2].GameID)
	assert.Equal(t, 3, top[2].Rank)
	assert.Equal(t, 17, top[0].Length)

	sum, err := lb.Summary(t.Context())
	require.NoError(t, err)
	assert.Equal(t, int64(4), sum.Games)
	assert.Equal(t, 14, sum.Best)
	assert.InDelta(t, 10.5, sum.Average, 1e-9)
	assert.Equal(t, map[string]int{"easy": 5, "hard": 14, "normal": 9}, sum.BestByDifficulty)
}

func TestFileRanker(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.parquet")
	r := FileRanker{Paths: []string{path}}

	top, err := r.Top(t.Context(), 5)
	require.NoError(t, err)
	assert.Empty(t, top)

	require.NoError(t, NewHistory(path).Append(ScoreRow{GameID: "only", Score: 3, Difficulty: "normal"}))
	top, err = r.Top(t.Context(), 5)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "only", top[0].GameID)
}
