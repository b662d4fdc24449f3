package game

import (
	"errors"
	"fmt"
)

// Board defaults shared by every variant (in board units).
const (
	DefaultWidth  = 640
	DefaultHeight = 480
)

// Tick rate limits for speed adjustment.
const (
	MinTickRate = 5
	MaxTickRate = 25
)

// BonusChance is the probability that a spawned food is a bonus.
const BonusChance = 0.2

// Smallest board that still fits the starting snake plus one food.
const (
	minCols = 4
	minRows = 2
)

// Largest board, in cells, along either axis.
const (
	MaxCols = 1024
	MaxRows = 1024
)

var (
	ErrGridTooSmall = errors.New("grid too small")
	ErrGridTooLarge = errors.New("grid too large")
	ErrUnaligned    = errors.New("board size is not a multiple of the unit")
)

// Variant selects which game flavour is being played.
type Variant uint8

const (
	VariantBasic Variant = iota
	VariantEnhanced
	VariantResizable
)

func (v Variant) String() string {
	switch v {
	case VariantBasic:
		return "basic"
	case VariantEnhanced:
		return "enhanced"
	case VariantResizable:
		return "resizable"
	}
	return fmt.Sprintf("variant(%d)", uint8(v))
}

func (v Variant) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func ParseVariant(s string) (Variant, error) {
	switch s {
	case "basic", "":
		return VariantBasic, nil
	case "enhanced":
		return VariantEnhanced, nil
	case "resizable":
		return VariantResizable, nil
	}
	return VariantBasic, fmt.Errorf("unknown variant %q", s)
}

// Config is fixed at simulation construction, except Width/Height which a
// resizable game may change.
type Config struct {
	Variant    Variant
	Width      int32 // board width in units; valid X is [0, Width)
	Height     int32 // board height in units; valid Y is [0, Height)
	Unit       int32 // distance between neighbouring cells
	TickRateHz int

	BonusFood          bool
	BonusChance        float64
	DifficultyControls bool // difficulty keys and speed adjustment
	SelectSpeed        bool // start in the speed selection screen
	Pausable           bool
	Resizable          bool
}

// DefaultConfig returns the settings each variant shipped with.
func DefaultConfig(v Variant) Config {
	cfg := Config{
		Variant: v,
		Width:   DefaultWidth,
		Height:  DefaultHeight,
	}
	switch v {
	case VariantEnhanced:
		cfg.Unit = 20
		cfg.TickRateHz = Normal.TickRate()
		cfg.BonusFood = true
		cfg.BonusChance = BonusChance
		cfg.DifficultyControls = true
		cfg.SelectSpeed = true
		cfg.Pausable = true
	case VariantResizable:
		cfg.Unit = 20
		cfg.TickRateHz = 10
		cfg.Pausable = true
		cfg.Resizable = true
	default:
		cfg.Unit = 10
		cfg.TickRateHz = 15
	}
	return cfg
}

// Cols is the number of whole cells across the board.
func (c Config) Cols() int32 {
	if c.Unit <= 0 {
		return 0
	}
	return c.Width / c.Unit
}

// Rows is the number of whole cells down the board.
func (c Config) Rows() int32 {
	if c.Unit <= 0 {
		return 0
	}
	return c.Height / c.Unit
}

// Cells is the number of whole cells on the board.
func (c Config) Cells() int { return int(c.Cols()) * int(c.Rows()) }

// InBounds reports whether p lies on the board.
func (c Config) InBounds(p Cell) bool {
	return p.X >= 0 && p.X < c.Width && p.Y >= 0 && p.Y < c.Height
}

// InSpawnArea reports whether food may be placed at p. Column and row zero
// are never used for food.
func (c Config) InSpawnArea(p Cell) bool {
	if c.Unit <= 0 || p.X%c.Unit != 0 || p.Y%c.Unit != 0 {
		return false
	}
	x, y := p.X/c.Unit, p.Y/c.Unit
	return x >= 1 && x < c.Cols() && y >= 1 && y < c.Rows()
}

func (c Config) Validate() error {
	if c.Unit <= 0 {
		return fmt.Errorf("unit must be positive, got %d", c.Unit)
	}
	if c.Width%c.Unit != 0 || c.Height%c.Unit != 0 {
		return fmt.Errorf("%w: %dx%d with unit %d", ErrUnaligned, c.Width, c.Height, c.Unit)
	}
	if c.Cols() < minCols || c.Rows() < minRows {
		return fmt.Errorf("%w: %dx%d cells (need at least %dx%d)", ErrGridTooSmall, c.Cols(), c.Rows(), minCols, minRows)
	}
	if c.Cols() > MaxCols || c.Rows() > MaxRows {
		return fmt.Errorf("%w: %dx%d cells (at most %dx%d)", ErrGridTooLarge, c.Cols(), c.Rows(), MaxCols, MaxRows)
	}
	if c.TickRateHz < MinTickRate || c.TickRateHz > MaxTickRate {
		return fmt.Errorf("tick rate %d outside [%d, %d]", c.TickRateHz, MinTickRate, MaxTickRate)
	}
	if c.BonusChance < 0 || c.BonusChance > 1 {
		return fmt.Errorf("bonus chance %v outside [0, 1]", c.BonusChance)
	}
	return nil
}
