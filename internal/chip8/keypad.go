package chip8

// KeyCount is the number of keys of the hexadecimal keypad.
const KeyCount = 16

// Keypad holds the pressed state of the 16 hex keys 0x0-0xF.
// It is written by the host and only read by instructions.
type Keypad [KeyCount]bool

// Set updates the state of a key. Key values are masked to 4 bits.
func (k *Keypad) Set(key byte, pressed bool) {
	k[key&0x0F] = pressed
}

// Pressed returns whether the key is currently held down.
func (k *Keypad) Pressed(key byte) bool {
	return k[key&0x0F]
}

// FirstPressed returns the lowest pressed key.
func (k *Keypad) FirstPressed() (byte, bool) {
	for i, pressed := range k {
		if pressed {
			return byte(i), true
		}
	}
	return 0, false
}

// mask returns the key states as a bit mask with key 0 in bit 0.
func (k *Keypad) mask() uint16 {
	var m uint16
	for i, pressed := range k {
		if pressed {
			m |= 1 << i
		}
	}
	return m
}

func keypadFromMask(m uint16) Keypad {
	var k Keypad
	for i := range k {
		k[i] = m&(1<<i) != 0
	}
	return k
}
