package chip8

// CHIP-8 memory layout constants.
//
// CHIP-8 memory map (4KB total):
//
//	0x000-0x04F: Font sprites for the hex digits 0-F
//	0x050-0x1FF: Reserved for the interpreter
//	0x200-0xFFF: User program space (3584 bytes)
const (
	// MemorySize is the size of the addressable memory in bytes.
	MemorySize = 0x1000

	// ProgramStart is the memory address where CHIP-8 programs are loaded
	// and where execution begins.
	ProgramStart = 0x200

	// MaxAddress is the highest valid address in CHIP-8 memory space.
	MaxAddress = 0xFFF

	// MaxROMSize is the largest program that fits between ProgramStart and
	// the end of memory.
	MaxROMSize = MemorySize - ProgramStart

	// FontStart is the address of the first font sprite.
	FontStart = 0x000

	// FontSpriteSize is the number of bytes of one hex digit sprite.
	FontSpriteSize = 5

	addressMask = 0x0FFF
)

// fontSet contains the 4x5 pixel sprites of the hex digits 0-F.
var fontSet = [16 * FontSpriteSize]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Memory is the flat 4KB address space of the machine.
// All accessors mask the address to 12 bits, an access outside of the
// address space wraps around instead of faulting.
type Memory [MemorySize]byte

// newMemory returns a zeroed memory with the font sprites installed.
func newMemory() Memory {
	var m Memory
	copy(m[FontStart:], fontSet[:])
	return m
}

// Read returns the byte at the given address.
func (m *Memory) Read(address uint16) byte {
	return m[address&addressMask]
}

// ReadWord returns the big-endian 16-bit word at the given address.
func (m *Memory) ReadWord(address uint16) uint16 {
	return uint16(m.Read(address))<<8 | uint16(m.Read(address+1))
}

// Write sets the byte at the given address.
func (m *Memory) Write(address uint16, value byte) {
	m[address&addressMask] = value
}

// fontAddress returns the address of the sprite for the given hex digit.
func fontAddress(digit byte) uint16 {
	return (FontStart + uint16(digit)*FontSpriteSize) & addressMask
}
