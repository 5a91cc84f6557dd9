// Package listing writes disassembly listings of CHIP-8 programs.
package listing

import (
	"fmt"
	"io"

	"github.com/retroenv/retrochip8/internal/chip8"
)

// Write writes one line per 16-bit word of the program, starting at the
// program start address. Words that do not decode to an instruction are
// written as data words, trailing zero bytes are omitted.
func Write(w io.Writer, name string, rom []byte) error {
	if _, err := fmt.Fprintf(w, "; CHIP-8 disassembly of %s\n", name); err != nil {
		return fmt.Errorf("writing header comment: %w", err)
	}
	if _, err := fmt.Fprintf(w, "; Program starts at $%03X in CHIP-8 memory space\n\n", chip8.ProgramStart); err != nil {
		return fmt.Errorf("writing memory space comment: %w", err)
	}

	end := endIndex(rom)
	for i := 0; i < end; i += 2 {
		address := chip8.ProgramStart + i
		if i+1 >= len(rom) {
			if err := writeLine(w, address, fmt.Sprintf("%02X   ", rom[i]), fmt.Sprintf(".byte $%02X", rom[i])); err != nil {
				return err
			}
			break
		}

		opcode := uint16(rom[i])<<8 | uint16(rom[i+1])
		text, _ := chip8.Disassemble(opcode)
		if err := writeLine(w, address, fmt.Sprintf("%02X %02X", rom[i], rom[i+1]), text); err != nil {
			return err
		}
	}

	if omitted := len(rom) - end; omitted > 0 {
		if _, err := fmt.Fprintf(w, "\n; %d trailing zero bytes omitted\n", omitted); err != nil {
			return fmt.Errorf("writing trailer comment: %w", err)
		}
	}
	return nil
}

func writeLine(w io.Writer, address int, bytes, text string) error {
	if _, err := fmt.Fprintf(w, "$%03X  %s  %s\n", address, bytes, text); err != nil {
		return fmt.Errorf("writing line for address $%03X: %w", address, err)
	}
	return nil
}

// endIndex finds the end of the last word that contains a non zero byte.
func endIndex(rom []byte) int {
	for i := len(rom) - 1; i >= 0; i-- {
		if rom[i] != 0 {
			end := i + 1
			if end%2 != 0 && end < len(rom) {
				end++
			}
			return end
		}
	}
	return 0
}
