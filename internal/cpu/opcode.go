// opcode.go - the declarative opcode-pattern table, compiled once at
// init time into (mask, value) integer pairs for linear-scan dispatch.

package cpu

import "fmt"

// ALUMode selects the execute stage's arithmetic/logic result.
type ALUMode int

const (
	ALUAdd ALUMode = iota
	ALUSub
	ALUSLL
	ALUSRL
	ALUSRA
	ALUXor
	ALUOr
	ALUAnd
	ALUSeq
	ALUSlt
	ALUSltu
	ALUMul
	ALUMulh
	ALUMulhsu
	ALUMulhu
	ALUDiv
	ALUDivu
	ALURem
	ALURemu
	ALUNextI
	ALUPCU20
	ALUU20
	ALUCSRRead
	ALUNul
)

// CSRMode selects the CSR writeback computation.
type CSRMode int

const (
	CSRNop CSRMode = iota
	CSRRW
	CSRRS
	CSRRC
	CSRRWI
	CSRRSI
	CSRRCI
)

// PCMode selects which candidate PC value is committed at writeback.
type PCMode int

const (
	PCNextI PCMode = iota
	PCCondJump
	PCCondJumpInv
	PCRelJump
	PCIndirect
)

// MemoryMode selects whether the execute stage issues a load or store.
type MemoryMode int

const (
	MemNone MemoryMode = iota
	MemLoad
	MemStore
)

// OpcodeRow is one declarative entry of the opcode table: a 32-character
// bit pattern over {'0','1','-'} plus the control fields the execute
// stage dispatches on.
type OpcodeRow struct {
	Name string
	Spec string

	OP2Immediate bool
	ALUMode      ALUMode
	StoreResult  bool
	PCMode       PCMode
	CSRMode      CSRMode
	MemoryMode   MemoryMode
	MemoryMask   uint32
	LoadSignBit  uint32

	mask  uint32
	value uint32
}

// Matches reports whether instr matches this row's compiled mask/value.
func (r *OpcodeRow) Matches(instr uint32) bool {
	return instr&r.mask == r.value
}

// compile turns the row's 32-character spec into (mask, value). Returns
// an error if the spec isn't exactly 32 characters of {'0','1','-'}.
func (r *OpcodeRow) compile() error {
	if len(r.Spec) != 32 {
		return fmt.Errorf("cpu: opcode %q: spec length %d, want 32", r.Name, len(r.Spec))
	}
	var mask, value uint32
	for _, c := range r.Spec {
		mask <<= 1
		value <<= 1
		switch c {
		case '0':
			mask |= 1
		case '1':
			mask |= 1
			value |= 1
		case '-':
		default:
			return fmt.Errorf("cpu: opcode %q: invalid character %q in spec", r.Name, c)
		}
	}
	r.mask, r.value = mask, value
	return nil
}

// Table holds the compiled opcode rows in dispatch order; the catch-all
// "all dashes" row is always last.
type Table struct {
	Rows []OpcodeRow
}

// baseTable is the uninitialised declarative form; NewTable compiles it.
var baseTable = []OpcodeRow{
	{Name: "AUIPC", Spec: "-------------------------0010111", ALUMode: ALUPCU20, StoreResult: true, PCMode: PCNextI},
	{Name: "LUI", Spec: "-------------------------0110111", ALUMode: ALUU20, StoreResult: true, PCMode: PCNextI},
	{Name: "JAL", Spec: "-------------------------1101111", ALUMode: ALUNextI, StoreResult: true, PCMode: PCRelJump},
	{Name: "JALR", Spec: "-----------------000-----1100111", ALUMode: ALUNextI, StoreResult: true, PCMode: PCIndirect},

	{Name: "BEQ", Spec: "-----------------000-----1100011", ALUMode: ALUSeq, PCMode: PCCondJump},
	{Name: "BNE", Spec: "-----------------001-----1100011", ALUMode: ALUSeq, PCMode: PCCondJumpInv},
	{Name: "BLT", Spec: "-----------------100-----1100011", ALUMode: ALUSlt, PCMode: PCCondJump},
	{Name: "BGE", Spec: "-----------------101-----1100011", ALUMode: ALUSlt, PCMode: PCCondJumpInv},
	{Name: "BLTU", Spec: "-----------------110-----1100011", ALUMode: ALUSltu, PCMode: PCCondJump},
	{Name: "BGEU", Spec: "-----------------111-----1100011", ALUMode: ALUSltu, PCMode: PCCondJumpInv},

	{Name: "LB", Spec: "-----------------000-----0000011", ALUMode: ALUNul, StoreResult: true, PCMode: PCNextI, MemoryMode: MemLoad, MemoryMask: 0x000000FF, LoadSignBit: 0x00000080},
	{Name: "LH", Spec: "-----------------001-----0000011", ALUMode: ALUNul, StoreResult: true, PCMode: PCNextI, MemoryMode: MemLoad, MemoryMask: 0x0000FFFF, LoadSignBit: 0x00008000},
	{Name: "LW", Spec: "-----------------010-----0000011", ALUMode: ALUNul, StoreResult: true, PCMode: PCNextI, MemoryMode: MemLoad, MemoryMask: 0xFFFFFFFF},
	{Name: "LBU", Spec: "-----------------100-----0000011", ALUMode: ALUNul, StoreResult: true, PCMode: PCNextI, MemoryMode: MemLoad, MemoryMask: 0x000000FF},
	{Name: "LHU", Spec: "-----------------101-----0000011", ALUMode: ALUNul, StoreResult: true, PCMode: PCNextI, MemoryMode: MemLoad, MemoryMask: 0x0000FFFF},

	{Name: "SB", Spec: "-----------------000-----0100011", ALUMode: ALUNul, PCMode: PCNextI, MemoryMode: MemStore, MemoryMask: 0x000000FF},
	{Name: "SH", Spec: "-----------------001-----0100011", ALUMode: ALUNul, PCMode: PCNextI, MemoryMode: MemStore, MemoryMask: 0x0000FFFF},
	{Name: "SW", Spec: "-----------------010-----0100011", ALUMode: ALUNul, PCMode: PCNextI, MemoryMode: MemStore, MemoryMask: 0xFFFFFFFF},

	{Name: "ADDI", Spec: "-----------------000-----0010011", OP2Immediate: true, ALUMode: ALUAdd, StoreResult: true, PCMode: PCNextI},
	{Name: "SLTI", Spec: "-----------------010-----0010011", OP2Immediate: true, ALUMode: ALUSlt, StoreResult: true, PCMode: PCNextI},
	{Name: "SLTIU", Spec: "-----------------011-----0010011", OP2Immediate: true, ALUMode: ALUSltu, StoreResult: true, PCMode: PCNextI},
	{Name: "XORI", Spec: "-----------------100-----0010011", OP2Immediate: true, ALUMode: ALUXor, StoreResult: true, PCMode: PCNextI},
	{Name: "ORI", Spec: "-----------------110-----0010011", OP2Immediate: true, ALUMode: ALUOr, StoreResult: true, PCMode: PCNextI},
	{Name: "ANDI", Spec: "-----------------111-----0010011", OP2Immediate: true, ALUMode: ALUAnd, StoreResult: true, PCMode: PCNextI},
	{Name: "SLLI", Spec: "0000000----------001-----0010011", OP2Immediate: true, ALUMode: ALUSLL, StoreResult: true, PCMode: PCNextI},
	{Name: "SRLI", Spec: "0000000----------101-----0010011", OP2Immediate: true, ALUMode: ALUSRL, StoreResult: true, PCMode: PCNextI},
	{Name: "SRAI", Spec: "0100000----------101-----0010011", OP2Immediate: true, ALUMode: ALUSRA, StoreResult: true, PCMode: PCNextI},

	{Name: "ADD", Spec: "0000000----------000-----0110011", ALUMode: ALUAdd, StoreResult: true, PCMode: PCNextI},
	{Name: "SUB", Spec: "0100000----------000-----0110011", ALUMode: ALUSub, StoreResult: true, PCMode: PCNextI},
	{Name: "SLL", Spec: "0000000----------001-----0110011", ALUMode: ALUSLL, StoreResult: true, PCMode: PCNextI},
	{Name: "SLT", Spec: "0000000----------010-----0110011", ALUMode: ALUSlt, StoreResult: true, PCMode: PCNextI},
	{Name: "SLTU", Spec: "0000000----------011-----0110011", ALUMode: ALUSltu, StoreResult: true, PCMode: PCNextI},
	{Name: "XOR", Spec: "0000000----------100-----0110011", ALUMode: ALUXor, StoreResult: true, PCMode: PCNextI},
	{Name: "SRL", Spec: "0000000----------101-----0110011", ALUMode: ALUSRL, StoreResult: true, PCMode: PCNextI},
	{Name: "SRA", Spec: "0100000----------101-----0110011", ALUMode: ALUSRA, StoreResult: true, PCMode: PCNextI},
	{Name: "OR", Spec: "0000000----------110-----0110011", ALUMode: ALUOr, StoreResult: true, PCMode: PCNextI},
	{Name: "AND", Spec: "0000000----------111-----0110011", ALUMode: ALUAnd, StoreResult: true, PCMode: PCNextI},

	{Name: "FENCE", Spec: "0000--------00000000000000001111", ALUMode: ALUNul, PCMode: PCNextI},
	{Name: "FENCEI", Spec: "00000000000000000001000000001111", ALUMode: ALUNul, PCMode: PCNextI},

	{Name: "ECALL", Spec: "00000000000000000000000001110011", ALUMode: ALUNul, PCMode: PCNextI},
	{Name: "EBREAK", Spec: "00000000000100000000000001110011", ALUMode: ALUNul, PCMode: PCNextI},

	{Name: "CSRRW", Spec: "-----------------001-----1110011", ALUMode: ALUCSRRead, StoreResult: true, PCMode: PCNextI, CSRMode: CSRRW},
	{Name: "CSRRS", Spec: "-----------------010-----1110011", ALUMode: ALUCSRRead, StoreResult: true, PCMode: PCNextI, CSRMode: CSRRS},
	{Name: "CSRRC", Spec: "-----------------011-----1110011", ALUMode: ALUCSRRead, StoreResult: true, PCMode: PCNextI, CSRMode: CSRRC},
	{Name: "CSRRWI", Spec: "-----------------101-----1110011", ALUMode: ALUCSRRead, StoreResult: true, PCMode: PCNextI, CSRMode: CSRRWI},
	{Name: "CSRRSI", Spec: "-----------------110-----1110011", ALUMode: ALUCSRRead, StoreResult: true, PCMode: PCNextI, CSRMode: CSRRSI},
	{Name: "CSRRCI", Spec: "-----------------111-----1110011", ALUMode: ALUCSRRead, StoreResult: true, PCMode: PCNextI, CSRMode: CSRRCI},

	{Name: "MUL", Spec: "0000001----------000-----0110011", ALUMode: ALUMul, StoreResult: true, PCMode: PCNextI},
	{Name: "MULH", Spec: "0000001----------001-----0110011", ALUMode: ALUMulh, StoreResult: true, PCMode: PCNextI},
	{Name: "MULHSU", Spec: "0000001----------010-----0110011", ALUMode: ALUMulhsu, StoreResult: true, PCMode: PCNextI},
	{Name: "MULHU", Spec: "0000001----------011-----0110011", ALUMode: ALUMulhu, StoreResult: true, PCMode: PCNextI},
	{Name: "DIV", Spec: "0000001----------100-----0110011", ALUMode: ALUDiv, StoreResult: true, PCMode: PCNextI},
	{Name: "DIVU", Spec: "0000001----------101-----0110011", ALUMode: ALUDivu, StoreResult: true, PCMode: PCNextI},
	{Name: "REM", Spec: "0000001----------110-----0110011", ALUMode: ALURem, StoreResult: true, PCMode: PCNextI},
	{Name: "REMU", Spec: "0000001----------111-----0110011", ALUMode: ALURemu, StoreResult: true, PCMode: PCNextI},

	// Catch-all: must stay last. Matches every 32-bit word.
	{Name: "UNKNOWN", Spec: "--------------------------------", ALUMode: ALUNul, PCMode: PCNextI},
}

// NewTable compiles baseTable's patterns into (mask, value) pairs.
// Compilation is deterministic and happens once; the result is immutable.
func NewTable() (*Table, error) {
	rows := make([]OpcodeRow, len(baseTable))
	copy(rows, baseTable)
	for i := range rows {
		if err := rows[i].compile(); err != nil {
			return nil, err
		}
	}
	return &Table{Rows: rows}, nil
}

// Lookup returns the first row whose compiled pattern matches instr. The
// catch-all row guarantees this never fails to find a match.
func (t *Table) Lookup(instr uint32) *OpcodeRow {
	for i := range t.Rows {
		if t.Rows[i].Matches(instr) {
			return &t.Rows[i]
		}
	}
	return &t.Rows[len(t.Rows)-1]
}

// IsUnknown reports whether row is the ECALL, EBREAK, or catch-all
// unknown-opcode row — the three rows that raise an exception and halt.
func (r *OpcodeRow) IsUnknown() bool {
	return r.Name == "UNKNOWN" || r.Name == "ECALL" || r.Name == "EBREAK"
}
