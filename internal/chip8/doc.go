// Package chip8 implements the CHIP-8 virtual machine.
//
// # Architecture Overview
//
// CHIP-8 is an interpreted programming language developed in the 1970s for
// simple games on early microcomputers. This package emulates the
// interpreter: memory, registers, call stack, timers, the monochrome display
// and the hexadecimal keypad.
//
// # Memory Layout
//
// The machine has 4KB of memory (0x000-MaxAddress):
//   - 0x000-0x04F: Font sprites for the hex digits 0-F
//   - ProgramStart-MaxAddress: User program and data area
//
// Every address is masked to 12 bits when it is used, so no instruction can
// access memory outside of the address space.
//
// # Instruction Set
//
// All 35 CHIP-8 opcodes are supported:
//   - All instructions are 2 bytes (16 bits), stored big-endian
//   - 16 general-purpose 8-bit registers (V0-VF), VF doubles as flag register
//   - Special-purpose registers: I (12-bit), PC, the delay and sound timers
//
// Opcodes that do not decode to an instruction are skipped and reported
// through Options.UnknownOpcode, they never stop the machine.
//
// # Timing
//
// Cycle executes one instruction. The timers are decremented by TickTimers,
// which the host calls at TimerFrequency independent of the instruction rate.
// Options.CoupledTimers restores the behavior of ticking the timers once per
// cycle instead.
//
// # Usage Example
//
//	cpu := chip8.New(logger, chip8.NewOptions())
//	if err := cpu.LoadROM(rom); err != nil {
//		return fmt.Errorf("loading rom: %w", err)
//	}
//	for {
//		if err := cpu.Cycle(); err != nil {
//			return err
//		}
//	}
package chip8
