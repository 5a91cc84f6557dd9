package chip8

import (
	"fmt"
	"math/rand/v2"

	"github.com/retroenv/retrogolib/log"
)

// RegisterCount is the number of general purpose V registers.
const RegisterCount = 16

// flagRegister is the index of VF, the carry, borrow and collision flag.
const flagRegister = 0xF

// State is the execution state of the CPU.
type State uint8

const (
	// Running executes one instruction per cycle.
	Running State = iota
	// WaitingForKey blocks instruction execution until any key is pressed,
	// entered by the LD Vx, K instruction.
	WaitingForKey
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case WaitingForKey:
		return "waiting for key"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Options configures the behavior of the CPU.
type Options struct {
	// StackLimit is the maximum call depth, 0 disables the limit.
	StackLimit int
	// CoupledTimers ticks the timers once per executed cycle instead of
	// leaving the 60 Hz ticking to the host via TickTimers.
	CoupledTimers bool
	// Trace logs every executed instruction at debug level.
	Trace bool
	// Random returns the random bytes used by RND, defaults to math/rand.
	Random func() byte
	// UnknownOpcode gets called for every fetched opcode that does not
	// match any instruction. Execution continues after the call.
	UnknownOpcode func(address, opcode uint16)
}

// NewOptions returns the default CPU options.
func NewOptions() Options {
	return Options{
		StackLimit: DefaultStackLimit,
	}
}

// CPU is the CHIP-8 virtual machine. It owns all machine state and is not
// safe for concurrent use.
type CPU struct {
	logger *log.Logger
	opts   Options

	memory  Memory
	v       [RegisterCount]byte
	i       uint16
	pc      uint16
	stack   Stack
	timers  Timers
	display Display
	keypad  Keypad

	state        State
	waitRegister byte
	halted       error

	unknownOpcodes uint64
}

// New returns a new CPU in its power-on state.
func New(logger *log.Logger, opts Options) *CPU {
	if logger == nil {
		cfg := log.DefaultConfig()
		cfg.Level = log.ErrorLevel
		logger = log.NewWithConfig(cfg)
	}
	if opts.Random == nil {
		opts.Random = func() byte {
			return byte(rand.UintN(256))
		}
	}

	c := &CPU{
		logger: logger,
		opts:   opts,
	}
	c.Reset()
	return c
}

// Reset clears all state, installs the font sprites and sets the program
// counter to the program start.
func (c *CPU) Reset() {
	c.memory = newMemory()
	c.v = [RegisterCount]byte{}
	c.i = 0
	c.pc = ProgramStart
	c.stack = newStack(c.opts.StackLimit)
	c.timers = Timers{}
	c.display = Display{}
	c.keypad = Keypad{}
	c.state = Running
	c.waitRegister = 0
	c.halted = nil
	c.unknownOpcodes = 0
}

// LoadROM resets the CPU and copies the ROM to the program start address.
// A ROM that does not fit into the program memory is rejected before any
// state is modified.
func (c *CPU) LoadROM(rom []byte) error {
	if len(rom) == 0 {
		return ErrEmptyROM
	}
	if len(rom) > MaxROMSize {
		return fmt.Errorf("%w: %d bytes exceed the maximum of %d bytes", ErrROMTooLarge, len(rom), MaxROMSize)
	}

	c.Reset()
	copy(c.memory[ProgramStart:], rom)

	c.logger.Debug("ROM loaded",
		log.Int("size", len(rom)),
		log.Hex("start", uint16(ProgramStart)))
	return nil
}

// Cycle executes one instruction. While waiting for a key press it only
// checks the keypad. Fatal errors like a stack underflow halt the CPU,
// all following calls return the same error until Reset, LoadROM or
// Restore is called. Unknown opcodes are not an error.
func (c *CPU) Cycle() error {
	if c.halted != nil {
		return c.halted
	}

	switch c.state {
	case WaitingForKey:
		c.checkKeyWait()
	default:
		if err := c.step(); err != nil {
			c.halted = err
			return err
		}
	}

	if c.opts.CoupledTimers {
		c.timers.Tick()
	}
	return nil
}

// step fetches, decodes and executes the instruction at the program counter.
func (c *CPU) step() error {
	address := c.pc
	opcode := Opcode(c.memory.ReadWord(address))
	c.setPC(address + opcodeSize)

	op, ok := lookup(opcode)
	if !ok {
		c.unknownOpcode(address, opcode)
		return nil
	}

	if c.opts.Trace {
		text, _ := Disassemble(uint16(opcode))
		c.logger.Debug("Executing instruction",
			log.Hex("address", address),
			log.Hex("opcode", uint16(opcode)),
			log.String("instruction", text))
	}

	if err := op.execute(c, opcode); err != nil {
		return fmt.Errorf("executing %s at address 0x%03X: %w", op.name(), address, err)
	}
	return nil
}

func (c *CPU) unknownOpcode(address uint16, opcode Opcode) {
	c.unknownOpcodes++
	c.logger.Debug("Unknown opcode",
		log.Hex("address", address),
		log.Hex("opcode", uint16(opcode)))
	if c.opts.UnknownOpcode != nil {
		c.opts.UnknownOpcode(address, uint16(opcode))
	}
}

// checkKeyWait completes a pending LD Vx, K once any key is pressed.
func (c *CPU) checkKeyWait() {
	key, ok := c.keypad.FirstPressed()
	if !ok {
		return
	}
	c.v[c.waitRegister] = key
	c.state = Running
}

// TickTimers decrements the delay and sound timers, it is meant to be
// called at TimerFrequency independent of the instruction rate.
func (c *CPU) TickTimers() {
	c.timers.Tick()
}

// SetKey updates the pressed state of a keypad key.
func (c *CPU) SetKey(key byte, pressed bool) {
	c.keypad.Set(key, pressed)
}

// KeyPressed returns whether a keypad key is held down.
func (c *CPU) KeyPressed(key byte) bool {
	return c.keypad.Pressed(key)
}

// Frame returns a copy of the display content.
func (c *CPU) Frame() Frame {
	return c.display.Frame()
}

// SoundActive returns whether the sound timer is running and the buzzer
// should be audible.
func (c *CPU) SoundActive() bool {
	return c.timers.Sound > 0
}

// Timers returns the current timer values.
func (c *CPU) Timers() Timers {
	return c.timers
}

// Registers returns a copy of the V registers.
func (c *CPU) Registers() [RegisterCount]byte {
	return c.v
}

// Index returns the I register.
func (c *CPU) Index() uint16 {
	return c.i
}

// PC returns the program counter.
func (c *CPU) PC() uint16 {
	return c.pc
}

// StackDepth returns the number of return addresses on the stack.
func (c *CPU) StackDepth() int {
	return c.stack.Depth()
}

// State returns the execution state.
func (c *CPU) State() State {
	return c.state
}

// Halted returns the fatal error that stopped the CPU, or nil.
func (c *CPU) Halted() error {
	return c.halted
}

// UnknownOpcodes returns how many unknown opcodes were fetched since the
// last reset.
func (c *CPU) UnknownOpcodes() uint64 {
	return c.unknownOpcodes
}

// ReadMemory returns the byte at the given address.
func (c *CPU) ReadMemory(address uint16) byte {
	return c.memory.Read(address)
}

// NextOpcode returns the opcode at the program counter.
func (c *CPU) NextOpcode() uint16 {
	return c.memory.ReadWord(c.pc)
}

func (c *CPU) setPC(address uint16) {
	c.pc = address & addressMask
}

func (c *CPU) setI(address uint16) {
	c.i = address & addressMask
}
