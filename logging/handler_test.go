package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m), "line: %s", line)
		out = append(out, m)
	}
	return out
}

func TestJSONLineHandler_Compact(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewJSONLineHandler(&buf, false, nil))

	log.Info("food eaten", "score", 3, "bonus", true)
	log.Debug("hidden")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "food eaten", lines[0]["msg"])
	assert.Equal(t, "INFO", lines[0]["level"])
	assert.EqualValues(t, 3, lines[0]["score"])
	assert.Equal(t, true, lines[0]["bonus"])
}

func TestJSONLineHandler_GroupsAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewJSONLineHandler(&buf, false, &slog.HandlerOptions{Level: slog.LevelDebug}))

	log.With("game_id", "g1").WithGroup("round").With("variant", "basic").Debug("over", "outcome", "wall", "err", errors.New("boom"))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "g1", lines[0]["game_id"])
	round, ok := lines[0]["round"].(map[string]any)
	require.True(t, ok, "round group missing: %v", lines[0])
	assert.Equal(t, "basic", round["variant"])
	assert.Equal(t, "wall", round["outcome"])
	assert.Equal(t, "boom", round["err"])
}

func TestJSONLineHandler_Pretty(t *testing.T) {
	var buf bytes.Buffer
	slog.New(NewJSONLineHandler(&buf, true, nil)).Warn("resized", "width", 400)

	assert.Contains(t, buf.String(), "\n  \"msg\": \"resized\"")
	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	assert.Equal(t, "WARN", m["level"])
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "snake.log")
	log, closer, err := Open(path, "info", false)
	require.NoError(t, err)
	log.Info("started", "variant", "enhanced")
	require.NoError(t, closer.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"variant":"enhanced"`)
}

func TestOpen_Off(t *testing.T) {
	log, closer, err := Open("off", "debug", false)
	require.NoError(t, err)
	assert.False(t, log.Enabled(t.Context(), slog.LevelError))
	assert.NoError(t, closer.Close())
}
