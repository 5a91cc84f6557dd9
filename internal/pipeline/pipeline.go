// Package pipeline wires the emulator components for a program run.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/retroenv/retrochip8/internal/audio"
	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/frontend"
	"github.com/retroenv/retrochip8/internal/frontend/desktop"
	"github.com/retroenv/retrochip8/internal/frontend/headless"
	"github.com/retroenv/retrochip8/internal/frontend/terminal"
	"github.com/retroenv/retrochip8/internal/listing"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrochip8/internal/savestate"
	"github.com/retroenv/retrogolib/log"
	"github.com/spf13/afero"
)

// BuzzerConstructor creates the sound output of a run.
type BuzzerConstructor func() (Buzzer, error)

// Buzzer is a sound output that can be released.
type Buzzer interface {
	frontend.Buzzer
	io.Closer
}

// Pipeline orchestrates loading a ROM and running or listing it.
type Pipeline struct {
	logger    *log.Logger
	fs        afero.Fs
	loader    *loader.Loader
	out       io.Writer
	newBuzzer BuzzerConstructor
}

// New creates a new pipeline reading files from the given filesystem and
// writing listings and headless output to out.
func New(logger *log.Logger, fs afero.Fs, out io.Writer) *Pipeline {
	return &Pipeline{
		logger: logger,
		fs:     fs,
		loader: loader.New(logger, fs),
		out:    out,
		newBuzzer: func() (Buzzer, error) {
			return audio.NewBeeper(audio.DefaultFrequency)
		},
	}
}

// SetBuzzerConstructor replaces the audio output used by interactive
// frontends.
func (p *Pipeline) SetBuzzerConstructor(constructor BuzzerConstructor) {
	p.newBuzzer = constructor
}

// Execute runs the complete workflow for the given options.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program) error {
	if opts.Input == "" && opts.Frontend == options.FrontendDesktop {
		path, err := desktop.ChooseROM()
		if err != nil {
			return fmt.Errorf("selecting ROM: %w", err)
		}
		opts.Input = path
	}

	rom, err := p.loader.Load(opts.Input)
	if err != nil {
		return fmt.Errorf("loading ROM: %w", err)
	}
	p.printInfo(opts, rom)

	if opts.Disasm {
		if err := listing.Write(p.out, rom.Name, rom.Data); err != nil {
			return fmt.Errorf("writing listing: %w", err)
		}
		return nil
	}

	return p.ExecuteWithROM(ctx, opts, rom)
}

// ExecuteWithROM runs an already loaded ROM on the selected frontend.
func (p *Pipeline) ExecuteWithROM(ctx context.Context, opts options.Program, rom loader.ROM) error {
	machine, err := p.createMachine(opts, rom)
	if err != nil {
		return fmt.Errorf("creating machine: %w", err)
	}

	buzzer := p.createBuzzer(opts)
	if buzzer != nil {
		defer func() {
			if err := buzzer.Close(); err != nil {
				p.logger.Error("Closing audio failed", log.Err(err))
			}
		}()
	}

	fe, err := p.createFrontend(opts, machine, buzzer, rom)
	if err != nil {
		return fmt.Errorf("creating frontend: %w", err)
	}

	if err := fe.Run(ctx); err != nil {
		return fmt.Errorf("running %s frontend: %w", opts.Frontend, err)
	}
	return nil
}

// createMachine loads the ROM into a new CPU and wraps it in a runner that
// stores its save states next to the ROM file.
func (p *Pipeline) createMachine(opts options.Program, rom loader.ROM) (*runner.Runner, error) {
	cpu := chip8.New(p.logger, config.EmulatorOptions(p.logger, opts))
	if err := cpu.LoadROM(rom.Data); err != nil {
		return nil, fmt.Errorf("loading program into memory: %w", err)
	}

	store := savestate.New(p.fs, rom.Path)
	if store.Exists() && !opts.Quiet {
		p.logger.Info("Saved state available, press F9 to load it", log.String("file", store.Path()))
	}
	return runner.New(p.logger, cpu, store, config.RunnerConfig(opts)), nil
}

// createBuzzer returns the audio output for interactive frontends. A
// missing audio device only disables the sound.
func (p *Pipeline) createBuzzer(opts options.Program) Buzzer {
	if opts.Mute || opts.Frontend == options.FrontendHeadless || p.newBuzzer == nil {
		return nil
	}

	buzzer, err := p.newBuzzer()
	if err != nil {
		p.logger.Warn("Audio disabled", log.Err(err))
		return nil
	}
	return buzzer
}

func (p *Pipeline) createFrontend(opts options.Program, machine *runner.Runner,
	buzzer Buzzer, rom loader.ROM) (frontend.Frontend, error) {

	switch opts.Frontend {
	case options.FrontendDesktop:
		scale := opts.Scale
		if scale <= 0 {
			scale = options.DefaultScale
		}
		return desktop.New(p.logger, machine, buzzer, scale, "retrochip8 - "+rom.Name), nil
	case options.FrontendTerminal:
		return terminal.New(p.logger, machine, buzzer), nil
	case options.FrontendHeadless:
		return headless.New(p.logger, machine, opts.Cycles, p.out), nil
	default:
		return nil, fmt.Errorf("unsupported frontend '%s'", opts.Frontend)
	}
}

// printInfo prints information about the ROM being processed.
func (p *Pipeline) printInfo(opts options.Program, rom loader.ROM) {
	if opts.Quiet {
		return
	}

	p.logger.Info("Loaded CHIP-8 ROM",
		log.String("file", rom.Path),
		log.String("name", rom.Name),
		log.String("format", string(rom.Format)),
		log.Int("size", len(rom.Data)),
	)
}
