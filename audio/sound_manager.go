// Package audio plays the game's sound cues through the system speaker.
package audio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"

	"github.com/brensch/snek-arcade/game"
)

const (
	sampleRate = beep.SampleRate(44100)

	speakerBufferDuration = 100 * time.Millisecond
	eatDuration           = 90 * time.Millisecond
	bonusDuration         = 160 * time.Millisecond
	gameOverDuration      = 600 * time.Millisecond
)

// SoundManager owns the speaker mixer. Every method is safe to call before
// Initialize, after Cleanup or when no audio device exists; cues are then
// dropped.
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	muted       bool

	// Optional recorded cues; synthesized tones are used when nil.
	eatSample      *beep.Buffer
	gameOverSample *beep.Buffer
}

func NewSoundManager() *SoundManager {
	return &SoundManager{
		mixer: &beep.Mixer{},
	}
}

// Initialize opens the speaker. A second call is a no-op.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(speakerBufferDuration)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// LoadSamples replaces the synthesized cues with WAV files. Empty or missing
// paths keep the synthesized cue.
func (sm *SoundManager) LoadSamples(eatPath, gameOverPath string) error {
	eat, err := loadWAV(eatPath)
	if err != nil {
		return err
	}
	over, err := loadWAV(gameOverPath)
	if err != nil {
		return err
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()
	if eat != nil {
		sm.eatSample = eat
	}
	if over != nil {
		sm.gameOverSample = over
	}
	return nil
}

func (sm *SoundManager) SetMuted(muted bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.muted = muted
	if muted && sm.initialized {
		speaker.Lock()
		sm.mixer.Clear()
		speaker.Unlock()
	}
}

func (sm *SoundManager) Muted() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.muted
}

// Cleanup stops playback. beep has no speaker close; clearing the mixer is
// enough to silence it.
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	sm.initialized = false
}

// FoodEaten plays a short rising chirp, brighter for bonus food.
func (sm *SoundManager) FoodEaten(kind game.FoodKind) {
	sm.play(func() beep.Streamer {
		if sm.eatSample != nil {
			return sm.eatSample.Streamer(0, sm.eatSample.Len())
		}
		return eatCue(kind)
	})
}

// GameOver plays a falling tone.
func (sm *SoundManager) GameOver() {
	sm.play(func() beep.Streamer {
		if sm.gameOverSample != nil {
			return sm.gameOverSample.Streamer(0, sm.gameOverSample.Len())
		}
		return gameOverCue()
	})
}

func (sm *SoundManager) play(build func() beep.Streamer) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized || sm.muted {
		return
	}
	s := build()
	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}

func eatCue(kind game.FoodKind) beep.Streamer {
	if kind == game.FoodBonus {
		return beep.Take(sampleRate.N(bonusDuration), NewChirpGenerator(sampleRate, 660, 1320, bonusDuration))
	}
	return beep.Take(sampleRate.N(eatDuration), NewChirpGenerator(sampleRate, 440, 880, eatDuration))
}

func gameOverCue() beep.Streamer {
	return beep.Take(sampleRate.N(gameOverDuration), NewChirpGenerator(sampleRate, 392, 98, gameOverDuration))
}

func loadWAV(path string) (*beep.Buffer, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open sample: %w", err)
	}
	defer f.Close()

	streamer, format, err := wav.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	defer streamer.Close()

	buf := beep.NewBuffer(beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2})
	var src beep.Streamer = streamer
	if format.SampleRate != sampleRate {
		src = beep.Resample(4, format.SampleRate, sampleRate, streamer)
	}
	buf.Append(src)
	return buf, nil
}
