package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// ChirpGenerator sweeps a sine from one frequency to another over a fixed
// duration with a short attack and an exponential release. It keeps
// streaming silence once the sweep is done; wrap it in beep.Take.
type ChirpGenerator struct {
	sr        beep.SampleRate
	from, to  float64
	samples   int
	pos       int
	phase     float64
	amplitude float64
}

func NewChirpGenerator(sr beep.SampleRate, fromHz, toHz float64, d time.Duration) *ChirpGenerator {
	return &ChirpGenerator{
		sr:        sr,
		from:      fromHz,
		to:        toHz,
		samples:   max(1, sr.N(d)),
		amplitude: 0.25,
	}
}

func (g *ChirpGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	attack := float64(g.sr.N(5 * time.Millisecond))
	for i := range samples {
		sample := 0.0
		if g.pos < g.samples {
			p := float64(g.pos) / float64(g.samples)
			freq := g.from + (g.to-g.from)*p
			g.phase += 2 * math.Pi * freq / float64(g.sr)
			if g.phase > 2*math.Pi {
				g.phase -= 2 * math.Pi
			}

			env := math.Exp(-3 * p)
			if a := float64(g.pos) / attack; a < 1 {
				env *= a
			}
			sample = g.amplitude * env * math.Sin(g.phase)
		}
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *ChirpGenerator) Err() error {
	return nil
}
