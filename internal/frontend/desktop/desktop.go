// Package desktop implements a windowed frontend based on Ebitengine.
package desktop

import (
	"context"
	"errors"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/frontend"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/image/font/basicfont"
)

const statusHeight = 16

var (
	foreground  = color.RGBA{R: 0x33, G: 0xFF, B: 0x66, A: 0xFF}
	statusColor = color.RGBA{R: 0xC0, G: 0xC0, B: 0xC0, A: 0xFF}
)

// keypadKeys maps every keypad key to the keyboard key that presses it.
var keypadKeys = [chip8.KeyCount]ebiten.Key{
	0x1: ebiten.Key1, 0x2: ebiten.Key2, 0x3: ebiten.Key3, 0xC: ebiten.Key4,
	0x4: ebiten.KeyQ, 0x5: ebiten.KeyW, 0x6: ebiten.KeyE, 0xD: ebiten.KeyR,
	0x7: ebiten.KeyA, 0x8: ebiten.KeyS, 0x9: ebiten.KeyD, 0xE: ebiten.KeyF,
	0xA: ebiten.KeyZ, 0x0: ebiten.KeyX, 0xB: ebiten.KeyC, 0xF: ebiten.KeyV,
}

var hotkeys = []struct {
	key    ebiten.Key
	hotkey frontend.Hotkey
}{
	{ebiten.KeyP, frontend.Pause},
	{ebiten.KeyN, frontend.Step},
	{ebiten.KeyF5, frontend.SaveState},
	{ebiten.KeyF9, frontend.LoadState},
	{ebiten.KeyEscape, frontend.Quit},
}

// Desktop shows the machine in a window. It implements ebiten.Game.
type Desktop struct {
	logger  *log.Logger
	machine frontend.Machine
	buzzer  frontend.Buzzer
	scale   int
	title   string

	ctx     context.Context
	halted  bool
	display *ebiten.Image
	pixels  []byte
	face    text.Face
}

// New returns a desktop frontend. The buzzer is optional.
func New(logger *log.Logger, machine frontend.Machine, buzzer frontend.Buzzer, scale int, title string) *Desktop {
	return &Desktop{
		logger:  logger,
		machine: machine,
		buzzer:  buzzer,
		scale:   scale,
		title:   title,
		pixels:  make([]byte, chip8.DisplayWidth*chip8.DisplayHeight*4),
		face:    text.NewGoXFace(basicfont.Face7x13),
	}
}

// Run opens the window and blocks until it is closed, the user quits or
// the context is canceled.
func (d *Desktop) Run(ctx context.Context) error {
	d.ctx = ctx
	d.display = ebiten.NewImage(chip8.DisplayWidth, chip8.DisplayHeight)

	width, height := d.size()
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle(d.title)
	ebiten.SetTPS(runner.FrameRate)

	if err := ebiten.RunGame(d); err != nil {
		return fmt.Errorf("running window: %w", err)
	}
	if d.buzzer != nil {
		d.buzzer.SetActive(false)
	}
	return ctx.Err()
}

// Update implements ebiten.Game and advances the machine by one frame.
func (d *Desktop) Update() error {
	if d.ctx.Err() != nil {
		return ebiten.Termination
	}

	for _, hk := range hotkeys {
		if !inpututil.IsKeyJustPressed(hk.key) {
			continue
		}
		err := frontend.HandleHotkey(d.logger, d.machine, hk.hotkey)
		if errors.Is(err, frontend.ErrQuit) {
			return ebiten.Termination
		}
		if err != nil {
			d.reportHalt(err)
		}
	}

	for key, ebitenKey := range keypadKeys {
		d.machine.SetKey(byte(key), ebiten.IsKeyPressed(ebitenKey))
	}

	if err := d.machine.RunFrame(); err != nil {
		d.reportHalt(err)
	} else {
		// a loaded state resumes a halted machine
		d.halted = false
	}
	if d.buzzer != nil {
		d.buzzer.SetActive(d.machine.SoundActive())
	}
	return nil
}

// reportHalt logs a fatal machine error once, the window stays open to
// show the final display and status.
func (d *Desktop) reportHalt(err error) {
	if d.halted {
		return
	}
	d.halted = true
	d.logger.Error("Machine halted", log.Err(err))
}

// Draw implements ebiten.Game.
func (d *Desktop) Draw(screen *ebiten.Image) {
	frame := d.machine.Frame()
	fillPixels(d.pixels, &frame)
	d.display.WritePixels(d.pixels)

	var op ebiten.DrawImageOptions
	op.GeoM.Scale(float64(d.scale), float64(d.scale))
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(d.display, &op)

	var top text.DrawOptions
	top.GeoM.Translate(2, float64(chip8.DisplayHeight*d.scale+2))
	top.ColorScale.ScaleWithColor(statusColor)
	text.Draw(screen, d.machine.Status().String(), d.face, &top)
}

// Layout implements ebiten.Game.
func (d *Desktop) Layout(_, _ int) (int, int) {
	return d.size()
}

func (d *Desktop) size() (int, int) {
	return chip8.DisplayWidth * d.scale, chip8.DisplayHeight*d.scale + statusHeight
}

// fillPixels converts the frame to RGBA pixels, cleared pixels are
// transparent.
func fillPixels(pixels []byte, frame *chip8.Frame) {
	i := 0
	for y := range chip8.DisplayHeight {
		for x := range chip8.DisplayWidth {
			var c color.RGBA
			if frame.Pixel(x, y) {
				c = foreground
			}
			pixels[i] = c.R
			pixels[i+1] = c.G
			pixels[i+2] = c.B
			pixels[i+3] = c.A
			i += 4
		}
	}
}
