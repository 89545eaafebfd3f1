// execute.go - the unified execute datapath: one combinational mapping
// from decoded fields plus the matched opcode row's control bits to an
// ALU/CSR result, a load/store interaction with the memory front-end,
// and a writeback (guarded by the stall flag).

package cpu

// execute runs the unified datapath for the currently decoded
// instruction (c.cur) against the currently matched row (c.row). The
// unknown-opcode/exception rows never reach it (doOp halts on them
// first). Returns false only if a store could not be enqueued after the
// write FIFO reported room; a full FIFO is an ordinary stall (FIFO
// enqueue failure is folded into stall, per the reference
// implementation).
func (c *CPU) execute() bool {
	d := c.cur
	row := c.row

	pcNext := c.PC + 4
	pcCond := c.PC + uint32(d.ImmB)
	pcRel := c.PC + uint32(d.ImmJ)
	pcInd := (c.Regs[d.RS1] + uint32(d.ImmI)) &^ 1

	op1 := c.Regs[d.RS1]
	var op2 uint32
	if row.OP2Immediate {
		op2 = uint32(d.ImmI)
	} else {
		op2 = c.Regs[d.RS2]
	}

	res := aluEval(row.ALUMode, op1, op2, pcNext, c.PC, d.ImmU, c.CSR[d.CSRID])

	var csrRes uint32
	switch row.CSRMode {
	case CSRRW:
		csrRes = op1
	case CSRRS:
		csrRes = c.CSR[d.CSRID] | op1
	case CSRRC:
		csrRes = c.CSR[d.CSRID] &^ op1
	case CSRRWI:
		csrRes = d.UImm
	case CSRRSI:
		csrRes = c.CSR[d.CSRID] | d.UImm
	case CSRRCI:
		csrRes = c.CSR[d.CSRID] &^ d.UImm
	}
	if row.CSRMode != CSRNop {
		c.log.Logf("CSR 0x%03x accessed", d.CSRID)
	}

	if row.MemoryMode == MemStore {
		if c.mem.WriteFull() {
			c.stalled = true
		} else {
			c.stalled = false
			addr := c.Regs[d.RS1] + uint32(d.ImmS)
			if unalignedStore(addr, row.MemoryMask) {
				c.log.Logf("Unaligned write at %#08x %#08x", addr, row.MemoryMask)
			}
			if !c.mem.WriteRequest(addr, maskWidth(row.MemoryMask), c.Regs[d.RS2]) {
				return false
			}
		}
	}

	if row.MemoryMode == MemLoad && d.RD != 0 {
		if !c.readDispatched {
			addr := c.Regs[d.RS1] + uint32(d.ImmI)
			c.stalled = true
			if unalignedStore(addr, row.MemoryMask) {
				c.log.Logf("Unaligned read at %#08x %#08x", addr, row.MemoryMask)
			}
			if c.mem.ReadRequest(addr) {
				c.readDispatched = true
			}
		} else if !c.mem.ReadDataEmpty() {
			c.stalled = false
			v := c.mem.ReadData() & row.MemoryMask
			if v&row.LoadSignBit != 0 {
				v |= ^row.MemoryMask
			}
			res = v
		}
	}

	if !c.stalled {
		if row.StoreResult {
			c.setReg(d.RD, res)
		}

		switch row.CSRMode {
		case CSRRW, CSRRS, CSRRC:
			if d.RS1 != 0 {
				c.CSR[d.CSRID] = csrRes
			}
		case CSRRWI, CSRRSI, CSRRCI:
			c.CSR[d.CSRID] = csrRes
		}

		switch row.PCMode {
		case PCNextI:
			c.PC = pcNext
		case PCCondJump:
			if res != 0 {
				c.PC = pcCond
			} else {
				c.PC = pcNext
			}
		case PCCondJumpInv:
			if res != 0 {
				c.PC = pcNext
			} else {
				c.PC = pcCond
			}
		case PCRelJump:
			c.PC = pcRel
		case PCIndirect:
			c.PC = pcInd
		}
	}
	_ = pcInd

	return true
}

// aluEval computes the ALU result for the given mode. Shifts use the low
// five bits of op2; SLT/DIV/REM are signed, SLTU/DIVU/REMU unsigned;
// high-half multiplies widen to 64 bits before shifting. Division and
// remainder by zero both yield 0xFFFFFFFF. SRA is always a true
// arithmetic shift (the reference source has one variant where SRA
// degenerates to SRL; the arithmetic form is preferred throughout here).
func aluEval(mode ALUMode, op1, op2, pcNext, pc uint32, immU uint32, csrVal uint32) uint32 {
	switch mode {
	case ALUAdd:
		return op1 + op2
	case ALUSub:
		return op1 - op2
	case ALUSLL:
		return op1 << (op2 & 0x1F)
	case ALUSRL:
		return op1 >> (op2 & 0x1F)
	case ALUSRA:
		return uint32(int32(op1) >> (op2 & 0x1F))
	case ALUXor:
		return op1 ^ op2
	case ALUOr:
		return op1 | op2
	case ALUAnd:
		return op1 & op2
	case ALUSeq:
		if op1 == op2 {
			return 1
		}
		return 0
	case ALUSlt:
		if int32(op1) < int32(op2) {
			return 1
		}
		return 0
	case ALUSltu:
		if op1 < op2 {
			return 1
		}
		return 0
	case ALUMul:
		return uint32(uint64(op1) * uint64(op2))
	case ALUMulh:
		return uint32((int64(int32(op1)) * int64(int32(op2))) >> 32)
	case ALUMulhsu:
		return uint32((int64(int32(op1)) * int64(uint64(op2))) >> 32)
	case ALUMulhu:
		return uint32((uint64(op1) * uint64(op2)) >> 32)
	case ALUDiv:
		if op2 == 0 {
			return 0xFFFFFFFF
		}
		return uint32(int32(op1) / int32(op2))
	case ALUDivu:
		if op2 == 0 {
			return 0xFFFFFFFF
		}
		return op1 / op2
	case ALURem:
		if op2 == 0 {
			return 0xFFFFFFFF
		}
		return uint32(int32(op1) % int32(op2))
	case ALURemu:
		if op2 == 0 {
			return 0xFFFFFFFF
		}
		return op1 % op2
	case ALUNextI:
		return pcNext
	case ALUPCU20:
		return pc + immU
	case ALUU20:
		return immU
	case ALUCSRRead:
		return csrVal
	default:
		return 0
	}
}

// maskWidth turns a sign-extension mask (0xFF/0xFFFF/0xFFFFFFFF) into the
// access width in bytes the memory map's split-write path expects.
func maskWidth(memMask uint32) uint32 {
	switch memMask {
	case 0xFF:
		return 1
	case 0xFFFF:
		return 2
	default:
		return 4
	}
}

// unalignedStore reports whether addr/width combination crosses the
// aligned-word boundary, for logging purposes only — the memory map
// still attempts the access via its split path.
func unalignedStore(addr, memMask uint32) bool {
	switch addr & 3 {
	case 1, 2:
		return memMask == 0xFFFFFFFF
	case 3:
		return memMask != 0xFF
	}
	return false
}
