// Package terminal implements a text mode frontend based on termbox.
package terminal

import (
	"context"
	"errors"
	"fmt"

	"github.com/nsf/termbox-go"
	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/frontend"
	"github.com/retroenv/retrogolib/log"
)

// holdFrames is the number of frames a key stays pressed after a key
// event. Terminals report no key releases, held keys are kept pressed by
// the key repeat of the terminal.
const holdFrames = 12

// Terminal shows the machine in the terminal, every pixel is drawn as two
// cells to roughly keep the aspect ratio.
type Terminal struct {
	logger  *log.Logger
	machine frontend.Machine
	buzzer  frontend.Buzzer

	halted  bool
	keyHold [chip8.KeyCount]int
}

// New returns a terminal frontend. The buzzer is optional.
func New(logger *log.Logger, machine frontend.Machine, buzzer frontend.Buzzer) *Terminal {
	return &Terminal{
		logger:  logger,
		machine: machine,
		buzzer:  buzzer,
	}
}

// Run takes over the terminal and blocks until the user quits or the
// context is canceled.
func (t *Terminal) Run(ctx context.Context) error {
	if err := termbox.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	defer termbox.Close()

	events := make(chan termbox.Event, 16)
	stop := make(chan struct{})
	done := make(chan struct{})
	go pollEvents(events, stop, done)
	defer func() {
		close(stop)
		termbox.Interrupt()
		<-done
	}()

	err := t.machine.Run(ctx, func(frameErr error) error {
		if err := t.update(events, frameErr); err != nil {
			return err
		}
		t.draw()
		return nil
	})
	if errors.Is(err, frontend.ErrQuit) {
		return nil
	}
	return err
}

// update processes the result of a machine frame and all pending terminal
// events.
func (t *Terminal) update(events <-chan termbox.Event, frameErr error) error {
	if frameErr != nil {
		t.reportHalt(frameErr)
	} else {
		// a loaded state resumes a halted machine
		t.halted = false
	}
	if t.buzzer != nil {
		t.buzzer.SetActive(t.machine.SoundActive())
	}
	t.releaseKeys()

	for {
		select {
		case ev := <-events:
			if err := t.handleEvent(ev); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

// pollEvents forwards terminal events until it receives the interrupt
// event. Events arriving after stop was closed are dropped, the poller
// keeps running to receive the interrupt.
func pollEvents(events chan<- termbox.Event, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		ev := termbox.PollEvent()
		if ev.Type == termbox.EventInterrupt {
			return
		}
		select {
		case events <- ev:
		case <-stop:
		}
	}
}

// handleEvent processes a terminal event. Fatal machine errors are
// reported and do not end the session.
func (t *Terminal) handleEvent(ev termbox.Event) error {
	switch ev.Type {
	case termbox.EventError:
		return fmt.Errorf("terminal event: %w", ev.Err)
	case termbox.EventKey:
	default:
		return nil
	}

	hotkey := frontend.NoHotkey
	switch ev.Key {
	case termbox.KeyEsc, termbox.KeyCtrlC:
		hotkey = frontend.Quit
	case termbox.KeyF5:
		hotkey = frontend.SaveState
	case termbox.KeyF9:
		hotkey = frontend.LoadState
	default:
		if key, ok := frontend.KeyForRune(ev.Ch); ok {
			t.keyHold[key] = holdFrames
			t.machine.SetKey(key, true)
			return nil
		}
		hotkey = frontend.HotkeyForRune(ev.Ch)
	}

	err := frontend.HandleHotkey(t.logger, t.machine, hotkey)
	if err != nil && !errors.Is(err, frontend.ErrQuit) {
		t.reportHalt(err)
		return nil
	}
	return err
}

// releaseKeys releases all keys whose hold time ran out.
func (t *Terminal) releaseKeys() {
	for key, hold := range t.keyHold {
		if hold == 0 {
			continue
		}
		t.keyHold[key] = hold - 1
		if hold == 1 {
			t.machine.SetKey(byte(key), false)
		}
	}
}

func (t *Terminal) reportHalt(err error) {
	if t.halted {
		return
	}
	t.halted = true
	t.logger.Error("Machine halted", log.Err(err))
}

func (t *Terminal) draw() {
	_ = termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)

	frame := t.machine.Frame()
	for y := range chip8.DisplayHeight {
		for x := range chip8.DisplayWidth {
			if frame.Pixel(x, y) {
				termbox.SetCell(2*x, y, ' ', termbox.ColorDefault, termbox.ColorWhite)
				termbox.SetCell(2*x+1, y, ' ', termbox.ColorDefault, termbox.ColorWhite)
			}
		}
	}

	column := 0
	for _, r := range t.machine.Status().String() {
		termbox.SetCell(column, chip8.DisplayHeight, r, termbox.ColorDefault, termbox.ColorDefault)
		column++
	}

	_ = termbox.Flush()
}
