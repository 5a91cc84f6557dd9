package runner

import (
	"fmt"
	"strings"

	"github.com/retroenv/retrochip8/internal/chip8"
)

// Status is a point in time summary of the runner.
type Status struct {
	Paused         bool
	State          chip8.State
	PC             uint16
	Frames         uint64
	UnknownOpcodes uint64
	Halted         error
	Message        string // result of the last user request
}

// String formats the status as a single line.
func (s Status) String() string {
	var sb strings.Builder

	switch {
	case s.Halted != nil:
		sb.WriteString("halted")
	case s.Paused:
		sb.WriteString("paused")
	default:
		sb.WriteString(s.State.String())
	}
	fmt.Fprintf(&sb, " | PC $%03X", s.PC)

	if s.UnknownOpcodes > 0 {
		fmt.Fprintf(&sb, " | %d unknown", s.UnknownOpcodes)
	}
	if s.Message != "" {
		sb.WriteString(" | ")
		sb.WriteString(s.Message)
	}
	return sb.String()
}
