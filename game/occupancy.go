package game

import "github.com/kamstrup/intmap"

// Occupancy indexes the cells covered by the snake. It keeps a count per
// cell so a body that briefly overlaps itself (the terminal self-collision
// head, or a restored stacked spawn) still unwinds correctly on Remove.
type Occupancy struct {
	cells *intmap.Map[uint64, int32]
	size  int
}

func NewOccupancy(capacity int) *Occupancy {
	if capacity < 16 {
		capacity = 16
	}
	return &Occupancy{cells: intmap.New[uint64, int32](capacity)}
}

// Reset rebuilds the index from a body.
func (o *Occupancy) Reset(body []Cell) {
	o.cells.Clear()
	o.size = 0
	for _, c := range body {
		o.Add(c)
	}
}

func (o *Occupancy) Add(c Cell) {
	k := c.Key()
	n, _ := o.cells.Get(k)
	o.cells.Put(k, n+1)
	o.size++
}

func (o *Occupancy) Remove(c Cell) {
	k := c.Key()
	n, ok := o.cells.Get(k)
	if !ok {
		return
	}
	if n <= 1 {
		o.cells.Del(k)
	} else {
		o.cells.Put(k, n-1)
	}
	o.size--
}

func (o *Occupancy) Has(c Cell) bool {
	_, ok := o.cells.Get(c.Key())
	return ok
}

// Count is how many segments sit on c.
func (o *Occupancy) Count(c Cell) int {
	n, _ := o.cells.Get(c.Key())
	return int(n)
}

// Distinct is the number of different cells covered.
func (o *Occupancy) Distinct() int { return o.cells.Len() }

// Segments is the total number of segments indexed.
func (o *Occupancy) Segments() int { return o.size }
