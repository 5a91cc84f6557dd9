package chip8

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

// Save state format constants
const (
	stateVersion    = 1
	stateMagic      = "RCHIP8STATE\x00"
	stateHeaderSize = 18 // magic(12) + version(2) + dataCRC(4)

	// memory + V + I(2) + PC(2) + delay(1) + sound(1) + state(1) +
	// waitRegister(1) + keys(2) + display rows + stack depth(2)
	stateFixedSize = MemorySize + RegisterCount + 2 + 2 + 1 + 1 + 1 + 1 + 2 + DisplayHeight*8 + 2
)

// machineState holds all state that is part of a snapshot.
type machineState struct {
	memory       Memory
	v            [RegisterCount]byte
	i            uint16
	pc           uint16
	timers       Timers
	state        State
	waitRegister byte
	keypad       Keypad
	display      Display
	stack        []uint16
}

// Snapshot serializes the complete machine state: memory, registers, I,
// PC, stack, timers, display, keypad and the key wait state.
func (c *CPU) Snapshot() []byte {
	size := stateHeaderSize + stateFixedSize + 2*c.stack.Depth()
	data := make([]byte, size)

	copy(data[0:12], stateMagic)
	binary.LittleEndian.PutUint16(data[12:14], stateVersion)

	offset := stateHeaderSize
	offset += copy(data[offset:], c.memory[:])
	offset += copy(data[offset:], c.v[:])

	binary.LittleEndian.PutUint16(data[offset:], c.i)
	offset += 2
	binary.LittleEndian.PutUint16(data[offset:], c.pc)
	offset += 2

	data[offset] = c.timers.Delay
	data[offset+1] = c.timers.Sound
	data[offset+2] = byte(c.state)
	data[offset+3] = c.waitRegister
	offset += 4

	binary.LittleEndian.PutUint16(data[offset:], c.keypad.mask())
	offset += 2

	for _, row := range c.display.rows {
		binary.LittleEndian.PutUint64(data[offset:], row)
		offset += 8
	}

	binary.LittleEndian.PutUint16(data[offset:], uint16(c.stack.Depth()))
	offset += 2
	for _, address := range c.stack.entries {
		binary.LittleEndian.PutUint16(data[offset:], address)
		offset += 2
	}

	dataCRC := crc32.ChecksumIEEE(data[stateHeaderSize:])
	binary.LittleEndian.PutUint32(data[14:18], dataCRC)
	return data
}

// Restore replaces the complete machine state with a snapshot created by
// Snapshot. The snapshot is validated and decoded before any state is
// replaced, an invalid snapshot leaves the CPU unchanged. A restored CPU is
// no longer halted.
func (c *CPU) Restore(data []byte) error {
	st, err := decodeState(data, c.opts.StackLimit)
	if err != nil {
		return err
	}

	c.memory = st.memory
	c.v = st.v
	c.i = st.i
	c.pc = st.pc
	c.timers = st.timers
	c.state = st.state
	c.waitRegister = st.waitRegister
	c.keypad = st.keypad
	c.display = st.display
	c.stack = Stack{entries: st.stack, limit: c.opts.StackLimit}
	c.halted = nil
	return nil
}

// VerifyState checks if a snapshot is valid without loading it.
func VerifyState(data []byte) error {
	if len(data) < stateHeaderSize+stateFixedSize {
		return fmt.Errorf("%w: too short", ErrInvalidState)
	}
	if string(data[0:12]) != stateMagic {
		return fmt.Errorf("%w: invalid magic", ErrInvalidState)
	}
	version := binary.LittleEndian.Uint16(data[12:14])
	if version > stateVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidState, version)
	}
	expectedCRC := binary.LittleEndian.Uint32(data[14:18])
	if crc32.ChecksumIEEE(data[stateHeaderSize:]) != expectedCRC {
		return fmt.Errorf("%w: data is corrupted", ErrInvalidState)
	}
	return nil
}

func decodeState(data []byte, stackLimit int) (machineState, error) {
	var st machineState
	if err := VerifyState(data); err != nil {
		return st, err
	}

	offset := stateHeaderSize
	offset += copy(st.memory[:], data[offset:])
	offset += copy(st.v[:], data[offset:])

	st.i = binary.LittleEndian.Uint16(data[offset:]) & addressMask
	offset += 2
	st.pc = binary.LittleEndian.Uint16(data[offset:]) & addressMask
	offset += 2

	st.timers.Delay = data[offset]
	st.timers.Sound = data[offset+1]
	st.state = State(data[offset+2])
	st.waitRegister = data[offset+3] & 0x0F
	offset += 4
	if st.state != Running && st.state != WaitingForKey {
		return st, fmt.Errorf("%w: unknown execution state %d", ErrInvalidState, st.state)
	}

	st.keypad = keypadFromMask(binary.LittleEndian.Uint16(data[offset:]))
	offset += 2

	for row := range st.display.rows {
		st.display.rows[row] = binary.LittleEndian.Uint64(data[offset:])
		offset += 8
	}

	depth := int(binary.LittleEndian.Uint16(data[offset:]))
	offset += 2
	if len(data)-offset != 2*depth {
		return st, fmt.Errorf("%w: stack depth %d does not match data size", ErrInvalidState, depth)
	}
	if stackLimit > 0 && depth > stackLimit {
		return st, fmt.Errorf("%w: stack depth %d exceeds limit %d", ErrInvalidState, depth, stackLimit)
	}

	st.stack = make([]uint16, depth)
	for i := range st.stack {
		st.stack[i] = binary.LittleEndian.Uint16(data[offset:]) & addressMask
		offset += 2
	}
	return st, nil
}
