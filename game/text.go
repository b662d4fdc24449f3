package game

import "fmt"

// Enum types encode as their names so snapshots read well as JSON.

func parseName[T fmt.Stringer](b []byte, dst *T, kind string, all ...T) error {
	for _, v := range all {
		if v.String() == string(b) {
			*dst = v
			return nil
		}
	}
	return fmt.Errorf("unknown %s %q", kind, b)
}

func (d *Direction) UnmarshalText(b []byte) error {
	return parseName(b, d, "direction", Up, Down, Left, Right)
}

func (d *Difficulty) UnmarshalText(b []byte) error {
	return parseName(b, d, "difficulty", Easy, Normal, Hard)
}

func (p *Phase) UnmarshalText(b []byte) error {
	return parseName(b, p, "phase", PhasePlaying, PhasePaused, PhaseSelectingSpeed, PhaseGameOver)
}

func (o *Outcome) UnmarshalText(b []byte) error {
	return parseName(b, o, "outcome", OutcomeNone, OutcomeWall, OutcomeSelf, OutcomeBoardFull, OutcomeResize)
}

func (k *FoodKind) UnmarshalText(b []byte) error {
	return parseName(b, k, "food kind", FoodNone, FoodNormal, FoodBonus)
}

func (v *Variant) UnmarshalText(b []byte) error {
	return parseName(b, v, "variant", VariantBasic, VariantEnhanced, VariantResizable)
}
