package scores

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

var ErrNoHistory = errors.New("no score history")

// ScoreRow is one finished game.
type ScoreRow struct {
	GameID     string `parquet:"game_id,dict"`
	Variant    string `parquet:"variant,dict"`
	Difficulty string `parquet:"difficulty,dict"`
	Score      int32  `parquet:"score"`
	Length     int32  `parquet:"length"`
	Ticks      int64  `parquet:"ticks"`
	Outcome    string `parquet:"outcome,dict"`
	EndedAtNs  int64  `parquet:"ended_at_ns"`
}

// History is a parquet file of ScoreRows. Each Append rewrites the file
// through a temp file so readers never see a partial write.
//
// History also works as a high-score store: the high score is the best row.
type History struct {
	mu   sync.Mutex
	path string
}

func NewHistory(path string) *History {
	return &History{path: path}
}

func (h *History) Path() string { return h.path }

// Rows returns every recorded game in append order. A missing file returns
// ErrNoHistory.
func (h *History) Rows() ([]ScoreRow, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return readScoreRows(h.path)
}

func (h *History) Append(row ScoreRow) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	rows, err := readScoreRows(h.path)
	if err != nil && !errors.Is(err, ErrNoHistory) {
		return err
	}
	rows = append(rows, row)
	return writeParquetAtomic(h.path, rows, "score_row_v1")
}

// HighScore is the best score on record, or 0 with no history.
func (h *History) HighScore() (int, error) {
	rows, err := h.Rows()
	if errors.Is(err, ErrNoHistory) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	best := 0
	for _, r := range rows {
		best = max(best, int(r.Score))
	}
	return best, nil
}

func (h *History) LoadHighScore() (int, error) { return h.HighScore() }

// SaveHighScore is a no-op: scores reach the history through Append.
func (h *History) SaveHighScore(int) error { return nil }

func readScoreRows(path string) ([]ScoreRow, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoHistory
	}
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat history: %w", err)
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("open history parquet: %w", err)
	}

	reader := parquet.NewGenericReader[ScoreRow](pf)
	defer reader.Close()

	rows := make([]ScoreRow, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read history: %w", err)
	}
	return rows[:n], nil
}

func writeParquetAtomic[T any](outPath string, rows []T, schema string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmpPath := outPath + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", schema),
	); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write parquet: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename parquet: %w", err)
	}
	return nil
}
