package chip8

import (
	"math/bits"
	"strings"
)

// Display dimensions in pixels.
const (
	DisplayWidth  = 64
	DisplayHeight = 32
)

// Frame is a snapshot of the monochrome display. Each row is stored in a
// uint64 with column 0 in the most significant bit.
type Frame [DisplayHeight]uint64

// Pixel returns whether the pixel at the given coordinates is set.
// Coordinates wrap around the display edges.
func (f *Frame) Pixel(x, y int) bool {
	x = wrap(x, DisplayWidth)
	y = wrap(y, DisplayHeight)
	return f[y]&columnBit(x) != 0
}

// String renders the frame as text, one line per row, using '#' for set
// and '.' for cleared pixels.
func (f *Frame) String() string {
	var sb strings.Builder
	sb.Grow(DisplayHeight * (DisplayWidth + 1))
	for y := range DisplayHeight {
		for x := range DisplayWidth {
			if f[y]&columnBit(x) != 0 {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Display is the 64x32 framebuffer. It is only mutated by the CLS and DRW
// instructions.
type Display struct {
	rows Frame
}

// Clear resets all pixels.
func (d *Display) Clear() {
	d.rows = Frame{}
}

// Frame returns a copy of the current display content.
func (d *Display) Frame() Frame {
	return d.rows
}

// Draw XORs the sprite onto the display with its top left corner at x, y.
// Every sprite byte is one row of 8 pixels, most significant bit first.
// Pixels that leave the display wrap around to the opposite edge.
// It returns whether any set pixel was cleared by the draw.
func (d *Display) Draw(x, y byte, sprite []byte) bool {
	originX := int(x) % DisplayWidth
	originY := int(y) % DisplayHeight

	collision := false
	for i, data := range sprite {
		if data == 0 {
			continue
		}
		row := (originY + i) % DisplayHeight
		mask := bits.RotateLeft64(uint64(data)<<56, -originX)
		if d.rows[row]&mask != 0 {
			collision = true
		}
		d.rows[row] ^= mask
	}
	return collision
}

func columnBit(x int) uint64 {
	return 1 << (DisplayWidth - 1 - x)
}

func wrap(value, size int) int {
	value %= size
	if value < 0 {
		value += size
	}
	return value
}
