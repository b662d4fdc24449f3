package game

// Snapshot is the read-only view handed to renderers, recorders and
// spectators. It never aliases simulation memory.
type Snapshot struct {
	Variant        Variant    `json:"variant"`
	Width          int32      `json:"width"`
	Height         int32      `json:"height"`
	Unit           int32      `json:"unit"`
	Snake          []Cell     `json:"snake"` // head first
	Direction      Direction  `json:"direction"`
	Food           Food       `json:"food"`
	Score          int        `json:"score"`
	HighScore      int        `json:"high_score"`
	Phase          Phase      `json:"phase"`
	Over           bool       `json:"over"`
	Paused         bool       `json:"paused"`
	SelectingSpeed bool       `json:"selecting_speed"`
	Outcome        Outcome    `json:"outcome"`
	TickRateHz     int        `json:"tick_rate_hz"`
	Difficulty     Difficulty `json:"difficulty"`
	Tick           int64      `json:"tick"`
}

// NewSnapshot copies state and board settings into a Snapshot.
func NewSnapshot(cfg Config, s *GameState) Snapshot {
	snake := make([]Cell, len(s.Snake))
	copy(snake, s.Snake)
	return Snapshot{
		Variant:        cfg.Variant,
		Width:          cfg.Width,
		Height:         cfg.Height,
		Unit:           cfg.Unit,
		Snake:          snake,
		Direction:      s.Direction,
		Food:           s.Food,
		Score:          s.Score,
		HighScore:      s.HighScore,
		Phase:          s.Phase,
		Over:           s.IsOver(),
		Paused:         s.IsPaused(),
		SelectingSpeed: s.IsSelectingSpeed(),
		Outcome:        s.Outcome,
		TickRateHz:     s.TickRateHz,
		Difficulty:     s.Difficulty,
		Tick:           s.Ticks,
	}
}

// Head returns the snake head, or false for an empty snapshot.
func (s Snapshot) Head() (Cell, bool) {
	if len(s.Snake) == 0 {
		return Cell{}, false
	}
	return s.Snake[0], true
}
