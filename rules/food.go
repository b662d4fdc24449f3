package rules

import (
	"github.com/brensch/snek-arcade/game"
)

// maxSpawnAttempts bounds rejection sampling before falling back to a scan
// of the free cells. Random draws almost always succeed early; the scan
// only runs on a crowded board.
const maxSpawnAttempts = 64

// spawnFood places new food on a free cell of the spawn area. It returns
// false when every spawnable cell is covered by the snake.
func (s *Simulation) spawnFood() bool {
	kind := game.FoodNormal
	if s.cfg.BonusFood && s.rng.Float64() < s.cfg.BonusChance {
		kind = game.FoodBonus
	}

	cols, rows := s.cfg.Cols(), s.cfg.Rows()
	u := s.cfg.Unit
	for range maxSpawnAttempts {
		p := game.Cell{
			X: (1 + s.rng.Int31n(cols-1)) * u,
			Y: (1 + s.rng.Int31n(rows-1)) * u,
		}
		if !s.occ.Has(p) {
			s.state.Food = game.Food{Pos: p, Kind: kind}
			return true
		}
	}

	free := 0
	s.eachFreeCell(func(game.Cell) bool { free++; return true })
	if free == 0 {
		return false
	}
	pick := s.rng.Intn(free)
	s.eachFreeCell(func(p game.Cell) bool {
		if pick == 0 {
			s.state.Food = game.Food{Pos: p, Kind: kind}
			return false
		}
		pick--
		return true
	})
	return true
}

// eachFreeCell walks the spawn area in row order, calling fn for every cell
// the snake does not cover until fn returns false.
func (s *Simulation) eachFreeCell(fn func(game.Cell) bool) {
	cols, rows := s.cfg.Cols(), s.cfg.Rows()
	u := s.cfg.Unit
	for y := int32(1); y < rows; y++ {
		for x := int32(1); x < cols; x++ {
			p := game.Cell{X: x * u, Y: y * u}
			if s.occ.Has(p) {
				continue
			}
			if !fn(p) {
				return
			}
		}
	}
}
