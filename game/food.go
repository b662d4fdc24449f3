// food.go defines food kinds and their point values.

package game

import "fmt"

type FoodKind uint8

const (
	FoodNone FoodKind = iota // no food on the board (only after the board fills)
	FoodNormal
	FoodBonus
)

// Points is the base value of eating the food, before difficulty scaling.
func (k FoodKind) Points() int {
	switch k {
	case FoodNormal:
		return 1
	case FoodBonus:
		return 3
	}
	return 0
}

func (k FoodKind) String() string {
	switch k {
	case FoodNone:
		return "none"
	case FoodNormal:
		return "normal"
	case FoodBonus:
		return "bonus"
	}
	return fmt.Sprintf("food(%d)", uint8(k))
}

func (k FoodKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

type Food struct {
	Pos  Cell     `json:"pos"`
	Kind FoodKind `json:"kind"`
}

// Present reports whether the food is on the board.
func (f Food) Present() bool {
	return f.Kind != FoodNone
}
