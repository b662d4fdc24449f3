package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/brensch/snek-arcade/scores"
	"github.com/brensch/snek-arcade/tui"
)

func main() {
	history := flag.String("history", getEnvOrDefault("SNAKE_HISTORY", "data/history.parquet"), "Comma-separated history parquet files")
	top := flag.Int("top", getEnvIntOrDefault("LEADERBOARD_TOP", 10), "Number of games to list")
	replay := flag.String("replay", "", "Print the final board of a replay parquet file instead")
	timeout := flag.Duration("timeout", getEnvDurationOrDefault("LEADERBOARD_TIMEOUT", 30*time.Second), "Query timeout")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var err error
	if *replay != "" {
		err = printReplay(os.Stdout, *replay)
	} else {
		err = printLeaderboard(ctx, os.Stdout, strings.Split(*history, ","), *top)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "leaderboard:", err)
		os.Exit(1)
	}
}

var titleStyle = lipgloss.NewStyle().Bold(true)

func printLeaderboard(ctx context.Context, w io.Writer, paths []string, n int) error {
	lb, err := scores.OpenLeaderboard(paths...)
	if errors.Is(err, scores.ErrNoHistory) {
		fmt.Fprintln(w, "No games recorded yet.")
		return nil
	}
	if err != nil {
		return err
	}
	defer lb.Close()

	entries, err := lb.Top(ctx, n)
	if err != nil {
		return err
	}
	sum, err := lb.Summary(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Top %d", len(entries))))
	fmt.Fprintln(w, renderTable(entries))
	fmt.Fprintf(w, "Games: %d  Best: %d  Average: %.1f\n", sum.Games, sum.Best, sum.Average)
	for _, d := range []string{"easy", "normal", "hard"} {
		if v, ok := sum.BestByDifficulty[d]; ok {
			fmt.Fprintf(w, "  best on %-6s %d\n", d+":", v)
		}
	}
	return nil
}

func renderTable(entries []scores.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			strconv.Itoa(e.Rank),
			strconv.Itoa(e.Score),
			strconv.Itoa(e.Length),
			strconv.FormatInt(e.Ticks, 10),
			e.Variant,
			e.Difficulty,
			e.Outcome,
			time.Unix(0, e.EndedAtNs).Format("2006-01-02 15:04"),
		})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "SCORE", "LENGTH", "TICKS", "VARIANT", "DIFFICULTY", "OUTCOME", "ENDED").
		Rows(rows...).
		String()
}

func printReplay(w io.Writer, path string) error {
	rows, err := scores.ReadReplay(path)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("replay %s is empty", path)
	}
	last := rows[len(rows)-1]
	snap := last.Snapshot()
	fmt.Fprintf(w, "Game %s: %d ticks, final score %d, length %d\n", last.GameID, len(rows), last.Score, len(snap.Snake))
	fmt.Fprintln(w, lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Render(tui.RenderBoard(snap)))
	return nil
}

// Environment variable helpers
func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		var i int
		if _, err := fmt.Sscanf(val, "%d", &i); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
