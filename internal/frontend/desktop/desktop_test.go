package desktop

import (
	"strings"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/frontend"
	"github.com/retroenv/retrogolib/assert"
)

func TestFillPixels(t *testing.T) {
	var frame chip8.Frame
	frame[0] = 1 << 63 // x 0, y 0
	frame[chip8.DisplayHeight-1] = 1

	pixels := make([]byte, chip8.DisplayWidth*chip8.DisplayHeight*4)
	for i := range pixels {
		pixels[i] = 0xAA
	}
	fillPixels(pixels, &frame)

	pixel := func(x, y int) []byte {
		offset := (y*chip8.DisplayWidth + x) * 4
		return pixels[offset : offset+4]
	}

	on := []byte{foreground.R, foreground.G, foreground.B, foreground.A}
	assert.Equal(t, on, pixel(0, 0))
	assert.Equal(t, on, pixel(chip8.DisplayWidth-1, chip8.DisplayHeight-1))

	// cleared pixels are transparent
	off := []byte{0, 0, 0, 0}
	assert.Equal(t, off, pixel(1, 0))
	assert.Equal(t, off, pixel(0, 1))
	assert.Equal(t, off, pixel(chip8.DisplayWidth-2, chip8.DisplayHeight-1))
}

func TestKeypadKeys(t *testing.T) {
	runes := frontend.KeyRunes()
	seen := map[ebiten.Key]bool{}

	for key, ebitenKey := range keypadKeys {
		name := strings.ToLower(strings.TrimPrefix(ebitenKey.String(), "Digit"))
		assert.Equal(t, string(runes[key]), name)

		assert.False(t, seen[ebitenKey])
		seen[ebitenKey] = true
	}
}

func TestHotkeys(t *testing.T) {
	want := map[ebiten.Key]frontend.Hotkey{
		ebiten.KeyP:      frontend.Pause,
		ebiten.KeyN:      frontend.Step,
		ebiten.KeyF5:     frontend.SaveState,
		ebiten.KeyF9:     frontend.LoadState,
		ebiten.KeyEscape: frontend.Quit,
	}

	assert.Len(t, hotkeys, len(want))
	for _, hk := range hotkeys {
		assert.Equal(t, want[hk.key], hk.hotkey)
	}

	// hotkeys never shadow a keypad key
	for _, ebitenKey := range keypadKeys {
		_, ok := want[ebitenKey]
		assert.False(t, ok)
	}

	// character hotkeys match the ones of the terminal
	assert.Equal(t, frontend.Pause, frontend.HotkeyForRune('p'))
	assert.Equal(t, frontend.Step, frontend.HotkeyForRune('n'))
}
