// Package runner drives a CPU in real time and is the single point through
// which frontends exchange input, video and control requests with it.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/savestate"
	"github.com/retroenv/retrogolib/log"
)

// DefaultInstructionsPerSecond is a speed most CHIP-8 programs are written for.
const DefaultInstructionsPerSecond = 700

// FrameRate is the number of frames per second, one timer tick per frame.
const FrameRate = chip8.TimerFrequency

// ErrNoStore is returned by SaveState and LoadState when the runner has no
// state store, for example when the ROM was not loaded from a file.
var ErrNoStore = errors.New("no state store available")

// Config configures the runner.
type Config struct {
	// InstructionsPerSecond sets the instruction rate, spread evenly over
	// the frames.
	InstructionsPerSecond int
	// CoupledTimers is set when the CPU ticks its timers on every cycle,
	// the runner then does not tick them per frame.
	CoupledTimers bool
}

// NewConfig returns the default runner configuration.
func NewConfig() Config {
	return Config{
		InstructionsPerSecond: DefaultInstructionsPerSecond,
	}
}

// Runner owns a CPU and serializes all access to it.
type Runner struct {
	logger *log.Logger
	cfg    Config
	store  *savestate.Store

	mu      sync.Mutex
	cpu     *chip8.CPU
	paused  bool
	frames  uint64
	pending int // instruction budget remainder carried to the next frame
	message string
}

// New returns a runner for the CPU. The store is optional, without it save
// and load state requests fail with ErrNoStore.
func New(logger *log.Logger, cpu *chip8.CPU, store *savestate.Store, cfg Config) *Runner {
	if cfg.InstructionsPerSecond <= 0 {
		cfg.InstructionsPerSecond = DefaultInstructionsPerSecond
	}
	return &Runner{
		logger: logger,
		cfg:    cfg,
		store:  store,
		cpu:    cpu,
	}
}

// FrameFunc is called by Run after every frame with the error of the frame.
// A returned error stops Run.
type FrameFunc func(frameErr error) error

// Run executes frames at FrameRate until the context is canceled or the
// frame callback returns an error. Without a callback Run stops on the first
// fatal CPU error.
func (r *Runner) Run(ctx context.Context, onFrame FrameFunc) error {
	ticker := time.NewTicker(time.Second / FrameRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			err := r.RunFrame()
			if onFrame != nil {
				err = onFrame(err)
			}
			if err != nil {
				return err
			}
		}
	}
}

// RunFrame executes the instructions of one frame and ticks the timers once.
// Nothing is executed while paused.
func (r *Runner) RunFrame() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.paused {
		return r.cpu.Halted()
	}

	r.pending += r.cfg.InstructionsPerSecond
	count := r.pending / FrameRate
	r.pending %= FrameRate

	if err := r.cycles(count); err != nil {
		return err
	}
	if !r.cfg.CoupledTimers {
		r.cpu.TickTimers()
	}
	r.frames++
	return nil
}

// RunCycles executes the given number of instructions as fast as possible,
// ticking the timers as often as the configured instruction rate would.
func (r *Runner) RunCycles(count int) error {
	for count > 0 {
		r.mu.Lock()
		r.pending += r.cfg.InstructionsPerSecond
		frame := r.pending / FrameRate
		r.pending %= FrameRate
		frame = min(frame, count)

		err := r.cycles(frame)
		if err == nil && !r.cfg.CoupledTimers {
			r.cpu.TickTimers()
		}
		r.frames++
		r.mu.Unlock()

		if err != nil {
			return err
		}
		count -= frame
	}
	return nil
}

func (r *Runner) cycles(count int) error {
	for range count {
		if err := r.cpu.Cycle(); err != nil {
			return fmt.Errorf("cycle failed: %w", err)
		}
	}
	return nil
}

// SetKey updates the pressed state of a keypad key.
func (r *Runner) SetKey(key byte, pressed bool) {
	r.mu.Lock()
	r.cpu.SetKey(key, pressed)
	r.mu.Unlock()
}

// Frame returns a copy of the current display content.
func (r *Runner) Frame() chip8.Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cpu.Frame()
}

// SoundActive returns whether the buzzer should sound. It is silent while
// paused.
func (r *Runner) SoundActive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.paused && r.cpu.SoundActive()
}

// TogglePause pauses or resumes the execution and returns the new paused state.
func (r *Runner) TogglePause() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.paused = !r.paused
	if r.paused {
		r.message = "paused"
	} else {
		r.message = "running"
	}
	r.logger.Debug("Pause toggled", log.String("state", r.message))
	return r.paused
}

// Paused returns whether the execution is paused.
func (r *Runner) Paused() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.paused
}

// Step executes a single instruction and leaves the runner paused.
func (r *Runner) Step() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.paused = true
	if err := r.cycles(1); err != nil {
		return err
	}

	text, _ := chip8.Disassemble(r.cpu.NextOpcode())
	r.message = fmt.Sprintf("step, next: %s", text)
	return nil
}

// SaveState writes a snapshot of the machine to the state store.
func (r *Runner) SaveState() error {
	if r.store == nil {
		return ErrNoStore
	}

	r.mu.Lock()
	snapshot := r.cpu.Snapshot()
	r.mu.Unlock()

	if err := r.store.Save(snapshot); err != nil {
		r.setMessage("saving state failed")
		return fmt.Errorf("saving state: %w", err)
	}

	r.setMessage("state saved")
	r.logger.Info("State saved", log.String("file", r.store.Path()))
	return nil
}

// LoadState restores the machine from the state store.
func (r *Runner) LoadState() error {
	if r.store == nil {
		return ErrNoStore
	}

	snapshot, err := r.store.Load()
	if err != nil {
		if errors.Is(err, savestate.ErrNoState) {
			r.setMessage("no saved state found")
		} else {
			r.setMessage("loading state failed")
		}
		return fmt.Errorf("loading state: %w", err)
	}

	r.mu.Lock()
	err = r.cpu.Restore(snapshot)
	r.mu.Unlock()
	if err != nil {
		r.setMessage("loading state failed")
		return fmt.Errorf("restoring state: %w", err)
	}

	r.setMessage("state loaded")
	r.logger.Info("State loaded", log.String("file", r.store.Path()))
	return nil
}

func (r *Runner) setMessage(message string) {
	r.mu.Lock()
	r.message = message
	r.mu.Unlock()
}

// Status returns a summary of the execution state for status lines.
func (r *Runner) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	return Status{
		Paused:         r.paused,
		State:          r.cpu.State(),
		PC:             r.cpu.PC(),
		Frames:         r.frames,
		UnknownOpcodes: r.cpu.UnknownOpcodes(),
		Halted:         r.cpu.Halted(),
		Message:        r.message,
	}
}
