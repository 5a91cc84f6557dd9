package chip8

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestStack(t *testing.T) {
	s := newStack(2)

	_, err := s.Pop()
	assert.True(t, errors.Is(err, ErrStackUnderflow))

	assert.NoError(t, s.Push(0x202))
	assert.NoError(t, s.Push(0x304))
	assert.True(t, errors.Is(s.Push(0x400), ErrStackOverflow))
	assert.Equal(t, []uint16{0x202, 0x304}, s.entries)

	address, err := s.Pop()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x304), address)
	assert.Equal(t, 1, s.Depth())
}

func TestStack_Unlimited(t *testing.T) {
	s := newStack(0)
	for i := range DefaultStackLimit + 1 {
		assert.NoError(t, s.Push(uint16(0x200+2*i)))
	}
	assert.Equal(t, DefaultStackLimit+1, s.Depth())

	address, err := s.Pop()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x200+2*DefaultStackLimit), address)
}

func TestKeypad(t *testing.T) {
	var k Keypad

	_, ok := k.FirstPressed()
	assert.False(t, ok)

	k.Set(0x1C, true) // masked to 0xC
	assert.True(t, k.Pressed(0xC))
	k.Set(0x3, true)

	key, ok := k.FirstPressed()
	assert.True(t, ok)
	assert.Equal(t, byte(0x3), key)

	assert.Equal(t, uint16(1<<3|1<<12), k.mask())
	assert.Equal(t, k, keypadFromMask(k.mask()))
}

func TestTimers_Tick(t *testing.T) {
	timers := Timers{Delay: 1, Sound: 0}
	timers.Tick()
	assert.Equal(t, Timers{}, timers)
	timers.Tick()
	assert.Equal(t, Timers{}, timers)
}

func TestMemory_Wraps(t *testing.T) {
	m := newMemory()
	m.Write(0x1FFF, 0xAB)
	assert.Equal(t, byte(0xAB), m.Read(0xFFF))

	m.Write(0x000, 0xCD)
	assert.Equal(t, uint16(0xABCD), m.ReadWord(0xFFF))
}
