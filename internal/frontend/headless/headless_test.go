package headless

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

// drawZero draws the font sprite of digit 0 at the origin and loops.
var drawZero = []byte{
	0x00, 0xE0, // cls
	0x60, 0x00, // ld V0, $00
	0xF0, 0x29, // ld F, V0
	0xD0, 0x05, // drw V0, V0, $5
	0x12, 0x08, // jp $208
}

func newTestRunner(t *testing.T, rom []byte) *runner.Runner {
	t.Helper()

	cpu := chip8.New(log.NewTestLogger(t), chip8.NewOptions())
	assert.NoError(t, cpu.LoadROM(rom))
	return runner.New(log.NewTestLogger(t), cpu, nil, runner.NewConfig())
}

func TestHeadless_Run(t *testing.T) {
	var buf bytes.Buffer
	h := New(log.NewTestLogger(t), newTestRunner(t, drawZero), 10, &buf)
	assert.NoError(t, h.Run(context.Background()))

	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, chip8.DisplayHeight+2, len(lines))

	dots := strings.Repeat(".", chip8.DisplayWidth-4)
	assert.Equal(t, "####"+dots, lines[0])
	assert.Equal(t, "#..#"+dots, lines[1])
	assert.Equal(t, "#..#"+dots, lines[3])
	assert.Equal(t, "####"+dots, lines[4])
	assert.Equal(t, strings.Repeat(".", chip8.DisplayWidth), lines[5])
	assert.Equal(t, "running | PC $208", lines[chip8.DisplayHeight])
	assert.Equal(t, "", lines[chip8.DisplayHeight+1])
}

func TestHeadless_HaltPrintsDisplay(t *testing.T) {
	// ret with an empty stack
	var buf bytes.Buffer
	h := New(log.NewTestLogger(t), newTestRunner(t, []byte{0x00, 0xEE}), 5000, &buf)

	err := h.Run(context.Background())
	assert.True(t, errors.Is(err, chip8.ErrStackUnderflow))
	assert.Contains(t, buf.String(), "halted | PC $202")
}

func TestHeadless_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	h := New(log.NewTestLogger(t), newTestRunner(t, drawZero), 10, &buf)

	err := h.Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Contains(t, buf.String(), "PC $200")
}
