package audio

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/borgmon/schedule-reminder/pkg/logging"
	"github.com/ebitengine/oto/v3"
)

// ErrNoAudio is returned when the audio device could not be opened
var ErrNoAudio = errors.New("audio output unavailable")

// Global audio context singleton: oto allows one context per process
var (
	globalAudioCtx     *oto.Context
	globalAudioCtxOnce sync.Once
	globalAudioCtxErr  error
	audioUnavailable   atomic.Bool
)

// initAudioContext opens the audio device once and waits until it is ready
func initAudioContext(logger *slog.Logger) error {
	globalAudioCtxOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   SampleRate,
			ChannelCount: 1,
			Format:       oto.FormatSignedInt16LE,
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			globalAudioCtxErr = fmt.Errorf("%w: %v", ErrNoAudio, err)
			audioUnavailable.Store(true)
			logger.Error("failed to initialize audio context", "error", err)
			return
		}

		// Wait for the hardware audio devices to be ready
		<-readyChan

		globalAudioCtx = ctx
		logger.Debug("audio context initialized")
	})
	return globalAudioCtxErr
}

// Player plays the notification chime without blocking the caller
type Player struct {
	logger *slog.Logger
	pcm    []byte

	mu      sync.Mutex
	playing int
}

// NewPlayer creates a chime player. The audio device is opened on first Play.
func NewPlayer(logger *slog.Logger) *Player {
	return &Player{
		logger: logging.Component(logger, "audio"),
		pcm:    SynthesizeChime(),
	}
}

// Play starts the chime in the background. It only fails when an earlier
// attempt to open the audio device already failed.
func (p *Player) Play() error {
	if p == nil {
		return nil
	}
	if audioUnavailable.Load() {
		return ErrNoAudio
	}

	p.mu.Lock()
	p.playing++
	p.mu.Unlock()

	go p.playOnce()
	return nil
}

// Playing reports how many chimes are queued or sounding
func (p *Player) Playing() int {
	if p == nil {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// WaitIdle blocks until every started chime has finished or timeout passes.
// It reports whether the player went idle.
func (p *Player) WaitIdle(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for p.Playing() > 0 {
		if !time.Now().Before(deadline) {
			return false
		}
		time.Sleep(10 * time.Millisecond)
	}
	return true
}

func (p *Player) playOnce() {
	defer func() {
		p.mu.Lock()
		p.playing--
		p.mu.Unlock()
	}()

	if err := initAudioContext(p.logger); err != nil {
		return
	}

	player := globalAudioCtx.NewPlayer(bytes.NewReader(p.pcm))
	player.Play()

	// Wait for the sound to finish playing
	deadline := time.Now().Add(ChimeDuration() + time.Second)
	for player.IsPlaying() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	if err := player.Close(); err != nil {
		p.logger.Warn("failed to close audio player", "error", err)
	}
}
