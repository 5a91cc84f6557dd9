package chip8

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestDisassemble(t *testing.T) {
	tests := []struct {
		opcode uint16
		want   string
	}{
		{0x00E0, "cls"},
		{0x00EE, "ret"},
		{0x0123, "sys $123"},
		{0x1234, "jp $234"},
		{0x2ABC, "call $ABC"},
		{0x3234, "se V2, $34"},
		{0x4A0F, "sne VA, $0F"},
		{0x5120, "se V1, V2"},
		{0x6F01, "ld VF, $01"},
		{0x7C80, "add VC, $80"},
		{0x8120, "ld V1, V2"},
		{0x8121, "or V1, V2"},
		{0x8122, "and V1, V2"},
		{0x8123, "xor V1, V2"},
		{0x8124, "add V1, V2"},
		{0x8125, "sub V1, V2"},
		{0x8126, "shr V1"},
		{0x8127, "subn V1, V2"},
		{0x812E, "shl V1"},
		{0x9340, "sne V3, V4"},
		{0xA234, "ld I, $234"},
		{0xB300, "jp V0, $300"},
		{0xC7FF, "rnd V7, $FF"},
		{0xD125, "drw V1, V2, $5"},
		{0xE59E, "skp V5"},
		{0xE5A1, "sknp V5"},
		{0xF207, "ld V2, DT"},
		{0xF20A, "ld V2, K"},
		{0xF215, "ld DT, V2"},
		{0xF218, "ld ST, V2"},
		{0xF21E, "add I, V2"},
		{0xF229, "ld F, V2"},
		{0xF233, "ld B, V2"},
		{0xF255, "ld [I], V2"},
		{0xF265, "ld V2, [I]"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			text, ok := Disassemble(tt.opcode)
			assert.True(t, ok)
			assert.Equal(t, tt.want, text)
		})
	}
}

func TestDisassemble_Unknown(t *testing.T) {
	tests := []struct {
		opcode uint16
		want   string
	}{
		{0xFFFF, ".word $FFFF"},
		{0x8008, ".word $8008"},
		{0xE000, ".word $E000"},
		{0xF0FF, ".word $F0FF"},
		{0x5121, ".word $5121"},
	}

	for _, tt := range tests {
		text, ok := Disassemble(tt.opcode)
		assert.False(t, ok)
		assert.Equal(t, tt.want, text)
	}
}
