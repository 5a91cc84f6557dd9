// Package frontend contains the shared input mapping and control handling
// of the user interfaces that display a running machine.
package frontend

import (
	"context"
	"errors"
	"unicode"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrogolib/log"
)

// Frontend displays a machine and forwards user input to it until the
// context is canceled or the user quits.
type Frontend interface {
	Run(ctx context.Context) error
}

// Machine is the part of the runner that frontends use.
type Machine interface {
	Run(ctx context.Context, onFrame runner.FrameFunc) error
	RunFrame() error
	RunCycles(count int) error
	SetKey(key byte, pressed bool)
	Frame() chip8.Frame
	SoundActive() bool
	TogglePause() bool
	Step() error
	SaveState() error
	LoadState() error
	Status() runner.Status
}

// Buzzer plays the sound of the machine.
type Buzzer interface {
	SetActive(active bool)
}

// keyLayout maps the QWERTY keys to the hex keypad:
//
//	1 2 3 4      1 2 3 C
//	Q W E R  ->  4 5 6 D
//	A S D F      7 8 9 E
//	Z X C V      A 0 B F
var keyLayout = map[rune]byte{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// KeyForRune returns the keypad key that the keyboard character maps to.
func KeyForRune(r rune) (byte, bool) {
	key, ok := keyLayout[unicode.ToLower(r)]
	return key, ok
}

// KeyRunes returns the keyboard characters of all keypad keys, indexed by
// keypad key.
func KeyRunes() [chip8.KeyCount]rune {
	var runes [chip8.KeyCount]rune
	for r, key := range keyLayout {
		runes[key] = r
	}
	return runes
}

// Hotkey is a control request of the user.
type Hotkey int

// Supported hotkeys.
const (
	NoHotkey Hotkey = iota
	Pause           // P
	Step            // N
	SaveState       // F5
	LoadState       // F9
	Quit            // Esc
)

// HotkeyForRune returns the hotkey of a character key.
func HotkeyForRune(r rune) Hotkey {
	switch unicode.ToLower(r) {
	case 'p':
		return Pause
	case 'n':
		return Step
	default:
		return NoHotkey
	}
}

// ErrQuit is returned by HandleHotkey when the user requested to quit.
var ErrQuit = errors.New("quit requested")

// HandleHotkey executes a control request. Failing state saves and loads
// are logged and do not stop the machine, a fatal CPU error while stepping
// is returned.
func HandleHotkey(logger *log.Logger, m Machine, hotkey Hotkey) error {
	switch hotkey {
	case Pause:
		m.TogglePause()
	case Step:
		if err := m.Step(); err != nil {
			return err
		}
	case SaveState:
		if err := m.SaveState(); err != nil {
			logger.Error("Saving state failed", log.Err(err))
		}
	case LoadState:
		if err := m.LoadState(); err != nil {
			logger.Error("Loading state failed", log.Err(err))
		}
	case Quit:
		return ErrQuit
	case NoHotkey:
	}
	return nil
}
