// Package audio implements the CHIP-8 buzzer as a square wave tone.
package audio

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"
)

const (
	sampleRate   = 44100
	channelCount = 2
	// DefaultFrequency is the tone frequency of the buzzer in Hz.
	DefaultFrequency = 440
	amplitude        = 0x1800
)

// oto context singleton, oto allows only one context per process
var (
	otoCtx      *oto.Context
	otoInitOnce sync.Once
	otoInitErr  error
)

// ensureOtoContext initializes the oto audio context on first use.
func ensureOtoContext() (*oto.Context, error) {
	otoInitOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channelCount,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   40 * time.Millisecond,
		}
		var readyChan chan struct{}
		otoCtx, readyChan, otoInitErr = oto.NewContext(op)
		if otoInitErr != nil {
			return
		}
		<-readyChan
	})
	return otoCtx, otoInitErr
}

// Beeper plays a tone while it is active.
type Beeper struct {
	player *oto.Player
	wave   *squareWave
}

// NewBeeper creates a beeper playing a tone of the given frequency.
// It fails if no audio device is available.
func NewBeeper(frequency int) (*Beeper, error) {
	ctx, err := ensureOtoContext()
	if err != nil {
		return nil, fmt.Errorf("oto audio not available: %w", err)
	}

	wave := newSquareWave(frequency, sampleRate)
	player := ctx.NewPlayer(wave)
	// about 33ms of samples
	player.SetBufferSize(sampleRate * channelCount * 2 / 30)
	player.Play()

	return &Beeper{
		player: player,
		wave:   wave,
	}, nil
}

// SetActive starts or stops the tone.
func (b *Beeper) SetActive(active bool) {
	b.wave.active.Store(active)
}

// Close stops the playback.
func (b *Beeper) Close() error {
	if err := b.player.Close(); err != nil {
		return fmt.Errorf("closing audio player: %w", err)
	}
	return nil
}

// squareWave is an endless stream of signed 16-bit little endian stereo
// samples. It outputs silence while inactive.
type squareWave struct {
	active     atomic.Bool
	halfPeriod int // samples per half wave
	position   int
}

func newSquareWave(frequency, rate int) *squareWave {
	return &squareWave{
		halfPeriod: max(1, rate/(2*frequency)),
	}
}

// Read implements io.Reader.
func (s *squareWave) Read(buf []byte) (int, error) {
	const frameSize = channelCount * 2
	frames := len(buf) / frameSize
	active := s.active.Load()

	for i := range frames {
		var sample int16
		if active {
			sample = amplitude
			if (s.position/s.halfPeriod)%2 == 1 {
				sample = -amplitude
			}
		}
		s.position = (s.position + 1) % (2 * s.halfPeriod)

		offset := i * frameSize
		for ch := range channelCount {
			buf[offset+ch*2] = byte(sample)
			buf[offset+ch*2+1] = byte(uint16(sample) >> 8)
		}
	}
	return frames * frameSize, nil
}
