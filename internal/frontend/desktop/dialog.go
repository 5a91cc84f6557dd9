package desktop

import (
	"errors"
	"fmt"

	"github.com/sqweek/dialog"
)

// ErrNoROMSelected is returned when the ROM selection dialog was canceled.
var ErrNoROMSelected = errors.New("no ROM selected")

// ChooseROM asks the user for a ROM file using the native file dialog.
func ChooseROM() (string, error) {
	path, err := dialog.File().
		Filter("CHIP-8 ROM", "ch8", "c8", "chip8", "rom", "bin").
		Filter("Archive", "zip", "7z", "rar", "gz", "xz", "lz4").
		Title("Open CHIP-8 ROM").
		Load()
	if err != nil {
		if errors.Is(err, dialog.ErrCancelled) {
			return "", ErrNoROMSelected
		}
		return "", fmt.Errorf("opening file dialog: %w", err)
	}
	return path, nil
}
