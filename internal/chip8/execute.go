package chip8

// sys jumps to a machine code routine on the original hardware and is
// ignored by interpreters.
func (c *CPU) sys(Opcode) error {
	return nil
}

func (c *CPU) cls(Opcode) error {
	c.display.Clear()
	return nil
}

func (c *CPU) ret(Opcode) error {
	address, err := c.stack.Pop()
	if err != nil {
		return err
	}
	c.setPC(address)
	return nil
}

func (c *CPU) jp(op Opcode) error {
	c.setPC(op.NNN())
	return nil
}

func (c *CPU) call(op Opcode) error {
	if err := c.stack.Push(c.pc); err != nil {
		return err
	}
	c.setPC(op.NNN())
	return nil
}

// skipIf skips the next instruction if the condition is met.
func (c *CPU) skipIf(condition bool) {
	if condition {
		c.setPC(c.pc + opcodeSize)
	}
}

func (c *CPU) seImmediate(op Opcode) error {
	c.skipIf(c.v[op.X()] == op.NN())
	return nil
}

func (c *CPU) sneImmediate(op Opcode) error {
	c.skipIf(c.v[op.X()] != op.NN())
	return nil
}

func (c *CPU) seRegister(op Opcode) error {
	c.skipIf(c.v[op.X()] == c.v[op.Y()])
	return nil
}

func (c *CPU) sneRegister(op Opcode) error {
	c.skipIf(c.v[op.X()] != c.v[op.Y()])
	return nil
}

func (c *CPU) ldImmediate(op Opcode) error {
	c.v[op.X()] = op.NN()
	return nil
}

func (c *CPU) addImmediate(op Opcode) error {
	c.v[op.X()] += op.NN()
	return nil
}

func (c *CPU) ldRegister(op Opcode) error {
	c.v[op.X()] = c.v[op.Y()]
	return nil
}

func (c *CPU) or(op Opcode) error {
	c.v[op.X()] |= c.v[op.Y()]
	return nil
}

func (c *CPU) and(op Opcode) error {
	c.v[op.X()] &= c.v[op.Y()]
	return nil
}

func (c *CPU) xor(op Opcode) error {
	c.v[op.X()] ^= c.v[op.Y()]
	return nil
}

// setResult writes an arithmetic result and its flag. The flag is written
// last so that it is preserved when the destination is VF.
func (c *CPU) setResult(x, result byte, flag bool) {
	c.v[x] = result
	c.v[flagRegister] = boolByte(flag)
}

func (c *CPU) addRegister(op Opcode) error {
	vx, vy := c.v[op.X()], c.v[op.Y()]
	sum := uint16(vx) + uint16(vy)
	c.setResult(op.X(), byte(sum), sum > 0xFF)
	return nil
}

func (c *CPU) sub(op Opcode) error {
	vx, vy := c.v[op.X()], c.v[op.Y()]
	c.setResult(op.X(), vx-vy, vx >= vy)
	return nil
}

func (c *CPU) subn(op Opcode) error {
	vx, vy := c.v[op.X()], c.v[op.Y()]
	c.setResult(op.X(), vy-vx, vy >= vx)
	return nil
}

func (c *CPU) shr(op Opcode) error {
	vx := c.v[op.X()]
	c.setResult(op.X(), vx>>1, vx&0x01 != 0)
	return nil
}

func (c *CPU) shl(op Opcode) error {
	vx := c.v[op.X()]
	c.setResult(op.X(), vx<<1, vx&0x80 != 0)
	return nil
}

func (c *CPU) ldIndex(op Opcode) error {
	c.setI(op.NNN())
	return nil
}

func (c *CPU) jpOffset(op Opcode) error {
	c.setPC(op.NNN() + uint16(c.v[0]))
	return nil
}

func (c *CPU) rnd(op Opcode) error {
	c.v[op.X()] = c.opts.Random() & op.NN()
	return nil
}

func (c *CPU) drw(op Opcode) error {
	n := uint16(op.N())
	sprite := make([]byte, n)
	for row := range n {
		sprite[row] = c.memory.Read(c.i + row)
	}
	collision := c.display.Draw(c.v[op.X()], c.v[op.Y()], sprite)
	c.v[flagRegister] = boolByte(collision)
	return nil
}

func (c *CPU) skp(op Opcode) error {
	c.skipIf(c.keypad.Pressed(c.v[op.X()]))
	return nil
}

func (c *CPU) sknp(op Opcode) error {
	c.skipIf(!c.keypad.Pressed(c.v[op.X()]))
	return nil
}

func (c *CPU) ldFromDelay(op Opcode) error {
	c.v[op.X()] = c.timers.Delay
	return nil
}

// ldKey stores the lowest pressed key in Vx. Without a pressed key the CPU
// switches to the waiting state and completes the load in a later cycle.
func (c *CPU) ldKey(op Opcode) error {
	if key, ok := c.keypad.FirstPressed(); ok {
		c.v[op.X()] = key
		return nil
	}
	c.state = WaitingForKey
	c.waitRegister = op.X()
	return nil
}

func (c *CPU) ldToDelay(op Opcode) error {
	c.timers.Delay = c.v[op.X()]
	return nil
}

func (c *CPU) ldToSound(op Opcode) error {
	c.timers.Sound = c.v[op.X()]
	return nil
}

func (c *CPU) addIndex(op Opcode) error {
	sum := c.i + uint16(c.v[op.X()])
	c.setI(sum)
	c.v[flagRegister] = boolByte(sum > MaxAddress)
	return nil
}

func (c *CPU) ldFont(op Opcode) error {
	c.setI(fontAddress(c.v[op.X()]))
	return nil
}

func (c *CPU) ldBCD(op Opcode) error {
	value := c.v[op.X()]
	c.memory.Write(c.i, value/100)
	c.memory.Write(c.i+1, (value/10)%10)
	c.memory.Write(c.i+2, value%10)
	return nil
}

func (c *CPU) storeRegisters(op Opcode) error {
	for x := range uint16(op.X()) + 1 {
		c.memory.Write(c.i+x, c.v[x])
	}
	return nil
}

func (c *CPU) loadRegisters(op Opcode) error {
	for x := range uint16(op.X()) + 1 {
		c.v[x] = c.memory.Read(c.i + x)
	}
	return nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
