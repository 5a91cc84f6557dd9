package chip8

import (
	"fmt"

	chip8cpu "github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// opcodeSize is the size of CHIP-8 instructions in bytes.
const opcodeSize = 2

// Opcode is a 16-bit instruction word.
type Opcode uint16

// X returns the second nibble, the first register operand.
func (o Opcode) X() byte {
	return byte((o & 0x0F00) >> 8)
}

// Y returns the third nibble, the second register operand.
func (o Opcode) Y() byte {
	return byte((o & 0x00F0) >> 4)
}

// N returns the lowest nibble.
func (o Opcode) N() byte {
	return byte(o & 0x000F)
}

// NN returns the lowest byte.
func (o Opcode) NN() byte {
	return byte(o & 0x00FF)
}

// NNN returns the lowest 12 bits, an address.
func (o Opcode) NNN() uint16 {
	return uint16(o & 0x0FFF)
}

// operation is one entry of the dispatch table.
type operation struct {
	info        chip8cpu.OpcodeInfo
	instruction *chip8cpu.Instruction // nil for SYS which has no mnemonic in the instruction set
	execute     func(c *CPU, op Opcode) error
	format      func(op Opcode) string
}

func (o operation) name() string {
	if o.instruction == nil {
		return "sys"
	}
	return o.instruction.Name
}

// matches returns whether the opcode is handled by the operation.
func (o operation) matches(op Opcode) bool {
	return uint16(op)&o.info.Mask == o.info.Value
}

// handler executes and formats the instruction of one opcode pattern.
type handler struct {
	execute func(c *CPU, op Opcode) error
	format  func(op Opcode) string
}

// handlers maps the opcode pattern values of the instruction set to their
// implementation.
var handlers = map[uint16]handler{
	0x00E0: {(*CPU).cls, formatNone},
	0x00EE: {(*CPU).ret, formatNone},
	0x1000: {(*CPU).jp, formatAddress},
	0x2000: {(*CPU).call, formatAddress},
	0x3000: {(*CPU).seImmediate, formatRegisterByte},
	0x4000: {(*CPU).sneImmediate, formatRegisterByte},
	0x5000: {(*CPU).seRegister, formatRegisterRegister},
	0x6000: {(*CPU).ldImmediate, formatRegisterByte},
	0x7000: {(*CPU).addImmediate, formatRegisterByte},
	0x8000: {(*CPU).ldRegister, formatRegisterRegister},
	0x8001: {(*CPU).or, formatRegisterRegister},
	0x8002: {(*CPU).and, formatRegisterRegister},
	0x8003: {(*CPU).xor, formatRegisterRegister},
	0x8004: {(*CPU).addRegister, formatRegisterRegister},
	0x8005: {(*CPU).sub, formatRegisterRegister},
	0x8006: {(*CPU).shr, formatRegister},
	0x8007: {(*CPU).subn, formatRegisterRegister},
	0x800E: {(*CPU).shl, formatRegister},
	0x9000: {(*CPU).sneRegister, formatRegisterRegister},
	0xA000: {(*CPU).ldIndex, formatIndexAddress},
	0xB000: {(*CPU).jpOffset, formatOffsetAddress},
	0xC000: {(*CPU).rnd, formatRegisterByte},
	0xD000: {(*CPU).drw, formatDraw},
	0xE09E: {(*CPU).skp, formatRegister},
	0xE0A1: {(*CPU).sknp, formatRegister},
	0xF007: {(*CPU).ldFromDelay, formatOperands("V%[1]X, DT")},
	0xF00A: {(*CPU).ldKey, formatOperands("V%[1]X, K")},
	0xF015: {(*CPU).ldToDelay, formatOperands("DT, V%[1]X")},
	0xF018: {(*CPU).ldToSound, formatOperands("ST, V%[1]X")},
	0xF01E: {(*CPU).addIndex, formatOperands("I, V%[1]X")},
	0xF029: {(*CPU).ldFont, formatOperands("F, V%[1]X")},
	0xF033: {(*CPU).ldBCD, formatOperands("B, V%[1]X")},
	0xF055: {(*CPU).storeRegisters, formatOperands("[I], V%[1]X")},
	0xF065: {(*CPU).loadRegisters, formatOperands("V%[1]X, [I]")},
}

// sysOperation handles 0nnn, which is not part of the instruction set
// table. It is matched after the more specific CLS and RET patterns.
var sysOperation = operation{
	info:    chip8cpu.OpcodeInfo{Value: 0x0000, Mask: 0xF000},
	execute: (*CPU).sys,
	format:  formatAddress,
}

// operations maps the first nibble of an opcode to the operations it can
// decode to. Within a nibble the entries are ordered from the most to the
// least specific mask so that no pattern shadows another.
var operations = buildOperations()

func buildOperations() [16][]operation {
	var table [16][]operation
	for nibble, opcodes := range chip8cpu.Opcodes {
		for _, opcode := range opcodes {
			h, ok := handlers[opcode.Info.Value]
			if !ok {
				panic(fmt.Sprintf("missing handler for opcode $%04X", opcode.Info.Value))
			}
			table[nibble] = append(table[nibble], operation{
				info:        opcode.Info,
				instruction: opcode.Instruction,
				execute:     h.execute,
				format:      h.format,
			})
		}
	}
	table[0] = append(table[0], sysOperation)
	return table
}

// lookup returns the operation that handles the opcode.
func lookup(op Opcode) (operation, bool) {
	for _, candidate := range operations[op>>12] {
		if candidate.matches(op) {
			return candidate, true
		}
	}
	return operation{}, false
}
