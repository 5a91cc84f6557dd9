package chip8

import (
	"math/rand/v2"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

// execute runs a single opcode with the given register presets.
func execute(t *testing.T, opcode uint16, registers map[byte]byte) *CPU {
	t.Helper()

	c := newTestCPU(t, NewOptions(), byte(opcode>>8), byte(opcode))
	for register, value := range registers {
		c.v[register] = value
	}
	assert.NoError(t, c.Cycle())
	return c
}

func TestExecute_ALU(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint16
		vx, vy byte
		want   byte
		flag   byte
	}{
		{"ld", 0x8120, 0x11, 0x22, 0x22, 0xAA},
		{"or", 0x8121, 0xF0, 0x0F, 0xFF, 0xAA},
		{"and", 0x8122, 0xF3, 0x3F, 0x33, 0xAA},
		{"xor", 0x8123, 0xFF, 0x0F, 0xF0, 0xAA},
		{"add no carry", 0x8124, 128, 127, 255, 0},
		{"add carry", 0x8124, 255, 1, 0, 1},
		{"add zero", 0x8124, 0, 0, 0, 0},
		{"add carry wraps", 0x8124, 200, 100, 44, 1},
		{"sub no borrow", 0x8125, 10, 3, 7, 1},
		{"sub equal", 0x8125, 5, 5, 0, 1},
		{"sub borrow", 0x8125, 3, 10, 249, 0},
		{"shr odd", 0x8126, 0x05, 0x00, 0x02, 1},
		{"shr even", 0x8126, 0x04, 0x00, 0x02, 0},
		{"subn no borrow", 0x8127, 3, 10, 7, 1},
		{"subn equal", 0x8127, 5, 5, 0, 1},
		{"subn borrow", 0x8127, 10, 3, 249, 0},
		{"shl msb set", 0x812E, 0x81, 0x00, 0x02, 1},
		{"shl msb clear", 0x812E, 0x41, 0x00, 0x82, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := execute(t, tt.opcode, map[byte]byte{1: tt.vx, 2: tt.vy, 0xF: 0xAA})
			assert.Equal(t, tt.want, c.v[1])
			assert.Equal(t, tt.flag, c.v[0xF])
		})
	}
}

func TestExecute_FlagWinsOverResult(t *testing.T) {
	// ADD VF, V1 with carry: the flag replaces the sum
	c := execute(t, 0x8F14, map[byte]byte{0xF: 0xFF, 1: 0x02})
	assert.Equal(t, byte(1), c.v[0xF])

	// SUB VF, V1 without borrow
	c = execute(t, 0x8F15, map[byte]byte{0xF: 0x10, 1: 0x01})
	assert.Equal(t, byte(1), c.v[0xF])
}

func TestExecute_ArithmeticWraparound(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	aluOps := []uint16{0x0, 0x1, 0x2, 0x3, 0x4, 0x5, 0x6, 0x7, 0xE}

	for range 500 {
		x := byte(rng.UintN(0xF))
		y := byte(rng.UintN(0xF))
		vx := byte(rng.UintN(256))
		vy := byte(rng.UintN(256))
		op := aluOps[rng.IntN(len(aluOps))]
		opcode := 0x8000 | uint16(x)<<8 | uint16(y)<<4 | op

		c := execute(t, opcode, map[byte]byte{x: vx, y: vy})

		var want byte
		var flag byte
		switch op {
		case 0x4:
			sum := int(valueBefore(x, y, vx, vy)) + int(vy)
			want, flag = byte(sum%256), boolByte(sum > 255)
		case 0x5:
			a := valueBefore(x, y, vx, vy)
			want, flag = byte((int(a)-int(vy)+256)%256), boolByte(a >= vy)
		default:
			continue
		}
		assert.Equal(t, want, c.v[x])
		assert.Equal(t, flag, c.v[0xF])
	}
}

// valueBefore returns the value Vx had before execution, taking into account
// that x and y can name the same register.
func valueBefore(x, y, vx, vy byte) byte {
	if x == y {
		return vy
	}
	return vx
}

func TestExecute_Immediate(t *testing.T) {
	c := execute(t, 0x6A42, nil)
	assert.Equal(t, byte(0x42), c.v[0xA])

	c = execute(t, 0x7AFF, map[byte]byte{0xA: 0x02, 0xF: 0x55})
	assert.Equal(t, byte(0x01), c.v[0xA])
	assert.Equal(t, byte(0x55), c.v[0xF]) // ADD Vx, byte does not touch VF
}

func TestExecute_Skips(t *testing.T) {
	tests := []struct {
		name      string
		opcode    uint16
		registers map[byte]byte
		keys      []byte
		skip      bool
	}{
		{"se imm equal", 0x3142, map[byte]byte{1: 0x42}, nil, true},
		{"se imm not equal", 0x3142, map[byte]byte{1: 0x41}, nil, false},
		{"sne imm equal", 0x4142, map[byte]byte{1: 0x42}, nil, false},
		{"sne imm not equal", 0x4142, map[byte]byte{1: 0x41}, nil, true},
		{"se reg equal", 0x5120, map[byte]byte{1: 7, 2: 7}, nil, true},
		{"se reg not equal", 0x5120, map[byte]byte{1: 7, 2: 8}, nil, false},
		{"sne reg equal", 0x9120, map[byte]byte{1: 7, 2: 7}, nil, false},
		{"sne reg not equal", 0x9120, map[byte]byte{1: 7, 2: 8}, nil, true},
		{"skp pressed", 0xE19E, map[byte]byte{1: 0xC}, []byte{0xC}, true},
		{"skp not pressed", 0xE19E, map[byte]byte{1: 0xC}, nil, false},
		{"sknp pressed", 0xE1A1, map[byte]byte{1: 0xC}, []byte{0xC}, false},
		{"sknp not pressed", 0xE1A1, map[byte]byte{1: 0xC}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCPU(t, NewOptions(), byte(tt.opcode>>8), byte(tt.opcode))
			for register, value := range tt.registers {
				c.v[register] = value
			}
			for _, key := range tt.keys {
				c.SetKey(key, true)
			}
			assert.NoError(t, c.Cycle())

			want := uint16(ProgramStart + 2)
			if tt.skip {
				want += 2
			}
			assert.Equal(t, want, c.PC())
		})
	}
}

func TestExecute_Jumps(t *testing.T) {
	c := execute(t, 0x1ABC, nil)
	assert.Equal(t, uint16(0xABC), c.PC())

	c = execute(t, 0xB300, map[byte]byte{0: 0x20})
	assert.Equal(t, uint16(0x320), c.PC())

	// the target is masked to the address space
	c = execute(t, 0xBFFF, map[byte]byte{0: 0x02})
	assert.Equal(t, uint16(0x001), c.PC())
}

func TestExecute_Index(t *testing.T) {
	c := execute(t, 0xA123, nil)
	assert.Equal(t, uint16(0x123), c.Index())

	c = newTestCPU(t, NewOptions(), 0xF1, 0x1E)
	c.i = 0xFFE
	c.v[1] = 0x03
	c.v[0xF] = 0x55
	assert.NoError(t, c.Cycle())
	assert.Equal(t, uint16(0x001), c.Index())
	assert.Equal(t, byte(1), c.v[0xF])

	c = newTestCPU(t, NewOptions(), 0xF1, 0x1E)
	c.i = 0x100
	c.v[1] = 0x10
	c.v[0xF] = 0x55
	assert.NoError(t, c.Cycle())
	assert.Equal(t, uint16(0x110), c.Index())
	assert.Equal(t, byte(0), c.v[0xF])
}

func TestExecute_Font(t *testing.T) {
	c := execute(t, 0xF529, map[byte]byte{5: 0xA})
	assert.Equal(t, uint16(50), c.Index())
	assert.Equal(t, byte(0xF0), c.ReadMemory(c.Index()))
}

func TestExecute_Random(t *testing.T) {
	opts := NewOptions()
	opts.Random = func() byte { return 0xAB }
	c := newTestCPU(t, opts, 0xC3, 0x0F)

	assert.NoError(t, c.Cycle())
	assert.Equal(t, byte(0x0B), c.v[3])
}

func TestExecute_Timers(t *testing.T) {
	c := execute(t, 0xF215, map[byte]byte{2: 30})
	assert.Equal(t, byte(30), c.Timers().Delay)

	c = execute(t, 0xF218, map[byte]byte{2: 20})
	assert.Equal(t, byte(20), c.Timers().Sound)

	c = newTestCPU(t, NewOptions(), 0xF3, 0x07)
	c.timers.Delay = 17
	assert.NoError(t, c.Cycle())
	assert.Equal(t, byte(17), c.v[3])
}

func TestExecute_StoreAndLoadRegisters(t *testing.T) {
	// LD [I], V3 with I = $400
	c := newTestCPU(t, NewOptions(), 0xF3, 0x55, 0xF2, 0x65)
	c.i = 0x400
	c.v = [RegisterCount]byte{1, 2, 3, 4, 5}
	assert.NoError(t, c.Cycle())

	for i := range uint16(4) {
		assert.Equal(t, byte(i+1), c.ReadMemory(0x400+i))
	}
	assert.Equal(t, byte(0), c.ReadMemory(0x404))
	assert.Equal(t, uint16(0x400), c.Index())

	// LD V2, [I] loads V0-V2 only
	c.v = [RegisterCount]byte{}
	c.memory.Write(0x400, 9)
	assert.NoError(t, c.Cycle())
	assert.Equal(t, byte(9), c.v[0])
	assert.Equal(t, byte(2), c.v[1])
	assert.Equal(t, byte(3), c.v[2])
	assert.Equal(t, byte(0), c.v[3])
}

func TestExecute_MemoryAccessWraps(t *testing.T) {
	c := newTestCPU(t, NewOptions(), 0xF2, 0x55)
	c.i = 0xFFE
	c.v[0], c.v[1], c.v[2] = 0x11, 0x22, 0x33
	assert.NoError(t, c.Cycle())

	assert.Equal(t, byte(0x11), c.ReadMemory(0xFFE))
	assert.Equal(t, byte(0x22), c.ReadMemory(0xFFF))
	assert.Equal(t, byte(0x33), c.ReadMemory(0x000))
}

func TestExecute_DrawCollision(t *testing.T) {
	// LD I, $300; DRW V0, V1, 1; DRW V0, V1, 1
	c := newTestCPU(t, NewOptions(), 0xA3, 0x00, 0xD0, 0x11, 0xD0, 0x11)
	c.memory.Write(0x300, 0xFF)
	c.v[0], c.v[1] = 10, 5

	runCycles(t, c, 2)
	assert.Equal(t, byte(0), c.v[0xF])
	for x := 10; x < 18; x++ {
		assert.True(t, c.display.rows.Pixel(x, 5))
	}

	runCycles(t, c, 1)
	assert.Equal(t, byte(1), c.v[0xF])
	assert.Equal(t, Frame{}, c.Frame())
}

func TestExecute_DrawFont(t *testing.T) {
	// LD V0, $0; LD F, V0; DRW V1, V1, 5
	c := newTestCPU(t, NewOptions(), 0x60, 0x00, 0xF0, 0x29, 0xD1, 0x15)
	runCycles(t, c, 3)

	frame := c.Frame()
	assert.Equal(t, uint64(0xF0)<<56, frame[0])
	assert.Equal(t, uint64(0x90)<<56, frame[1])
	assert.Equal(t, uint64(0xF0)<<56, frame[4])
	assert.Equal(t, uint64(0), frame[5])
}

func TestExecute_ClearScreenIdempotent(t *testing.T) {
	c := newTestCPU(t, NewOptions(), 0x00, 0xE0, 0x00, 0xE0)
	c.display.Draw(0, 0, []byte{0xFF, 0x81, 0xFF})

	runCycles(t, c, 1)
	once := c.Frame()
	assert.Equal(t, Frame{}, once)

	runCycles(t, c, 1)
	assert.Equal(t, once, c.Frame())
}
