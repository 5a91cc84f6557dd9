package chip8

import "fmt"

// Disassemble formats the opcode as an assembly instruction, for example
// "jp $234", "se V2, $34" or "ld I, $234". The second return value is false
// for opcodes that do not decode to any instruction, in which case the
// opcode is returned as a data word.
func Disassemble(opcode uint16) (string, bool) {
	op, ok := lookup(Opcode(opcode))
	if !ok {
		return fmt.Sprintf(".word $%04X", opcode), false
	}

	name := op.name()
	if params := op.format(Opcode(opcode)); params != "" {
		return fmt.Sprintf("%s %s", name, params), true
	}
	return name, true
}

// formatNone formats instructions without parameters (CLS, RET).
func formatNone(Opcode) string {
	return ""
}

// formatAddress formats instructions with an absolute address (SYS, JP, CALL).
func formatAddress(op Opcode) string {
	return fmt.Sprintf("$%03X", op.NNN())
}

// formatOffsetAddress formats the jump relative to V0 (JP V0, addr).
func formatOffsetAddress(op Opcode) string {
	return fmt.Sprintf("V0, $%03X", op.NNN())
}

// formatIndexAddress formats the load of the index register (LD I, addr).
func formatIndexAddress(op Opcode) string {
	return fmt.Sprintf("I, $%03X", op.NNN())
}

// formatRegisterByte formats instructions with a register and an immediate
// byte (SE, SNE, LD, ADD, RND).
func formatRegisterByte(op Opcode) string {
	return fmt.Sprintf("V%X, $%02X", op.X(), op.NN())
}

// formatRegisterRegister formats register to register instructions.
func formatRegisterRegister(op Opcode) string {
	return fmt.Sprintf("V%X, V%X", op.X(), op.Y())
}

// formatRegister formats instructions with a single register operand
// (SHR, SHL, SKP, SKNP).
func formatRegister(op Opcode) string {
	return fmt.Sprintf("V%X", op.X())
}

// formatDraw formats draw instructions (DRW).
func formatDraw(op Opcode) string {
	return fmt.Sprintf("V%X, V%X, $%X", op.X(), op.Y(), op.N())
}

// formatOperands returns a formatter for the Fx instructions that use a
// special register next to Vx.
func formatOperands(layout string) func(Opcode) string {
	return func(op Opcode) string {
		return fmt.Sprintf(layout, op.X())
	}
}
