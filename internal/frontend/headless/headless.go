// Package headless implements a frontend without display that runs a fixed
// number of instructions and prints the resulting framebuffer.
package headless

import (
	"context"
	"fmt"
	"io"

	"github.com/retroenv/retrochip8/internal/frontend"
	"github.com/retroenv/retrogolib/log"
)

// chunkCycles is the number of instructions executed between checks of
// the context.
const chunkCycles = 1000

// Headless runs the machine as fast as possible.
type Headless struct {
	logger  *log.Logger
	machine frontend.Machine
	cycles  int
	out     io.Writer
}

// New returns a headless frontend that executes the given number of
// instructions and writes the display to out.
func New(logger *log.Logger, machine frontend.Machine, cycles int, out io.Writer) *Headless {
	return &Headless{
		logger:  logger,
		machine: machine,
		cycles:  cycles,
		out:     out,
	}
}

// Run executes the instructions and prints the display and status. The
// display is also printed when the machine halts with a fatal error.
func (h *Headless) Run(ctx context.Context) error {
	runErr := h.execute(ctx)
	if err := h.print(); err != nil {
		return err
	}
	return runErr
}

func (h *Headless) execute(ctx context.Context) error {
	remaining := h.cycles
	for remaining > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		count := min(remaining, chunkCycles)
		if err := h.machine.RunCycles(count); err != nil {
			return fmt.Errorf("running machine: %w", err)
		}
		remaining -= count
	}

	h.logger.Debug("Headless run finished", log.Int("cycles", h.cycles))
	return nil
}

func (h *Headless) print() error {
	frame := h.machine.Frame()
	if _, err := fmt.Fprint(h.out, frame.String()); err != nil {
		return fmt.Errorf("writing display: %w", err)
	}
	if _, err := fmt.Fprintln(h.out, h.machine.Status().String()); err != nil {
		return fmt.Errorf("writing status: %w", err)
	}
	return nil
}
