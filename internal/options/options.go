// Package options contains the program options.
package options

// Frontend names selectable with the -f flag.
const (
	FrontendDesktop  = "desktop"
	FrontendTerminal = "terminal"
	FrontendHeadless = "headless"
)

// Frontends lists all supported frontend names.
var Frontends = []string{FrontendDesktop, FrontendTerminal, FrontendHeadless}

// Default option values.
const (
	DefaultScale          = 10
	DefaultHeadlessCycles = 1000
)

// Parameters contains file path options.
type Parameters struct {
	Input string `flag:"i" usage:"input ROM file or archive"`
}

// Flags contains behavior options.
type Flags struct {
	Frontend string `flag:"f" usage:"frontend: desktop, terminal, headless" default:"desktop"`
	Disasm   bool   `flag:"disasm" usage:"print a disassembly listing of the ROM and exit"`
	Mute     bool   `flag:"mute" usage:"disable the buzzer"`
	Trace    bool   `flag:"trace" usage:"log every executed instruction, implies -debug"`
	Debug    bool   `flag:"debug" usage:"enable debug logging"`
	Quiet    bool   `flag:"q" usage:"quiet mode"`
}

// Machine contains emulation options.
type Machine struct {
	InstructionsPerSecond int  `flag:"ips" usage:"instructions executed per second" default:"700"`
	CoupledTimers         bool `flag:"coupled" usage:"tick the timers once per instruction instead of at 60 Hz"`
	StackLimit            int  `flag:"stack" usage:"maximum call stack depth, 0 for unlimited" default:"16"`
	Scale                 int  `flag:"scale" usage:"desktop window scale factor" default:"10"`
	Cycles                int  `flag:"cycles" usage:"instructions to execute in headless mode" default:"1000"`
}

// Program options of the emulator.
type Program struct {
	Parameters
	Flags
	Machine
}
