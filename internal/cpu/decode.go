// decode.go - mechanical 32-bit instruction field extraction.

// Package cpu implements the RV32IM fetch/decode/execute/step engine: a
// declarative opcode-pattern table compiled to (mask, value) pairs, a
// unified execute datapath dispatching on small tagged-variant selectors,
// and a cooperative single-step driver with pipeline stall semantics.
package cpu

// Decoded holds the mechanically-extracted fields of one 32-bit
// instruction word. Fields that don't apply to a given opcode are simply
// unused by the execute stage for that row.
type Decoded struct {
	Raw    uint32
	Valid  bool
	RS1    uint32
	RS2    uint32
	RD     uint32
	Funct3 uint32
	Funct7 uint32
	CSRID  uint32
	UImm   uint32 // zero-extended rs1 field, used by CSRxI variants
	Shamt  uint32

	ImmI int32
	ImmS int32
	ImmB int32
	ImmJ int32
	ImmU uint32
}

func signExtend(v uint32, bits uint) int32 {
	shift := 32 - bits
	return int32(v<<shift) >> shift
}

// Decode extracts every field a RV32IM instruction word might need. The
// low two bits must be 0b11 (the 32-bit instruction marker); anything
// else reports Valid=false.
func Decode(instr uint32) Decoded {
	d := Decoded{Raw: instr}

	if instr&0x3 != 0x3 {
		return d
	}
	d.Valid = true

	d.RS1 = (instr >> 15) & 0x1F
	d.RS2 = (instr >> 20) & 0x1F
	d.RD = (instr >> 7) & 0x1F
	d.Funct3 = (instr >> 12) & 0x7
	d.Funct7 = (instr >> 25) & 0x7F
	d.CSRID = (instr >> 20) & 0xFFF
	d.UImm = d.RS1
	d.Shamt = d.RS2

	d.ImmI = signExtend(instr>>20, 12)

	immS := ((instr >> 25) << 5) | ((instr >> 7) & 0x1F)
	d.ImmS = signExtend(immS, 12)

	immB := ((instr >> 31) << 12) |
		(((instr >> 7) & 0x1) << 11) |
		(((instr >> 25) & 0x3F) << 5) |
		(((instr >> 8) & 0xF) << 1)
	d.ImmB = signExtend(immB, 13)

	immJ := ((instr >> 31) << 20) |
		(((instr >> 12) & 0xFF) << 12) |
		(((instr >> 20) & 0x1) << 11) |
		(((instr >> 21) & 0x3FF) << 1)
	d.ImmJ = signExtend(immJ, 21)

	d.ImmU = instr & 0xFFFFF000

	return d
}
