// opcodes.go - direct-decode instruction table (the "alternative implementation"
// lineage spec.md §4.1 permits in place of the four microcode ROMs)

// License: GPLv3 or later

package main

// Register reference space shared by MOV/PUSH/POP/ALU operand decoding.
// Indices 0-3 are the GPRs; 4-5 are the transfer byte views; 6-9 are the
// word-wide special registers. RA (10) is never assembler-visible (spec.md
// invariant I5: pc_ra_flip is hardware-controlled only) but is needed
// internally for CALL/RET.
const (
	regA = iota
	regB
	regC
	regD
	regTL
	regTH
	regSP
	regSI
	regDI
	regTX
	regRA
)

// AluOp enumerates the ALU operations, matching spec.md §4.1's op table.
type AluOp int

const (
	aluNop AluOp = iota
	aluShl
	aluShr
	aluAdd
	aluAddC
	aluInc
	aluIncC
	aluSub
	aluSubB
	aluDec
	aluAnd
	aluOr
	aluXor
	aluNot
	aluClc
	aluCmp
	aluTest
)

// instrKind tags the closed instruction set spec.md §4.1 enumerates for the
// direct-decode lineage.
type instrKind int

const (
	kNop instrKind = iota
	kMovImm8
	kMovReg
	kMovWord
	kSubae
	kOut
	kIn
	kIncWord
	kDecWord
	kBreak
	kMovIndirect
	kAddac
	kLodsb
	kStosb
	kCall
	kRet
	kPrebranch
	kJmp
	kCondJump
	kPush
	kPop
	kStosbNop // reserved/unassigned opcode, behaves as NOP
	kAlu
)

// ioReg identifies a port-mapped I/O register.
type ioReg int

const (
	ioVGA ioReg = iota
	ioGPIO
	ioUartData
	ioUartCtrl
	ioAudioData
	ioCntrlData
)

// decoded is the result of decoding one opcode byte: everything the CPU
// needs to execute the instruction, plus its emit_size in bytes (shared
// with the assembler's encoder so decode/encode can never drift apart).
type decoded struct {
	kind    instrKind
	size    int
	dst     int
	src     int
	aluOp   AluOp
	cond    int
	io      ioReg
	addrReg int
	load    bool // kMovIndirect only: true for [addr]->reg, false for reg->[addr]
}

// gprPairs is the canonical ordering of the 12 ordered (dst,src) GPR pairs
// used by every "GPR-GPR" opcode range (MOV, ADD, ADDC, SUB, SUBB, CMP),
// grounded on original_source/src/cpu.rs's register-index layout.
var gprPairs = [12][2]int{
	{regA, regB}, {regB, regA},
	{regA, regC}, {regC, regA},
	{regA, regD}, {regD, regA},
	{regB, regC}, {regC, regB},
	{regB, regD}, {regD, regB},
	{regC, regD}, {regD, regC},
}

// gprs is the canonical ordering of GPRs used by the 4-wide ranges (SHL/SHR,
// INC/INCC, DEC, NOT, TEST).
var gprs = [4]int{regA, regB, regC, regD}

// condNames enumerates the 16 conditional-jump mnemonics in opcode order
// (0x61..0x70), matching spec.md §8's named condition codes.
var condNames = [16]string{
	"jo", "jno", "js", "jns", "jz", "jnz", "jc", "jnc",
	"jna", "ja", "jl", "jge", "jle", "jg", "jlc", "jnlc",
}

// decodeOpcode builds the full instruction descriptor for one opcode byte.
// The ranges below are the canonical 256-entry table this module commits to
// (DESIGN.md's Open Question resolution #4), covering every range spec.md
// §6 names literally.
func decodeOpcode(op byte) decoded {
	switch {
	case op == 0x00:
		return decoded{kind: kNop, size: 1}

	case op >= 0x01 && op <= 0x04:
		return decoded{kind: kMovImm8, size: 2, dst: gprs[op-0x01]}
	case op == 0x05:
		return decoded{kind: kMovImm8, size: 2, dst: regTL}
	case op == 0x06:
		return decoded{kind: kMovImm8, size: 2, dst: regTH}

	case op >= 0x07 && op <= 0x12:
		p := gprPairs[op-0x07]
		return decoded{kind: kMovReg, size: 1, dst: p[0], src: p[1]}

	case op >= 0x13 && op <= 0x22:
		return decodeTransferMove(op)

	case op >= 0x23 && op <= 0x2E:
		return decodeWordMove(op)

	case op == 0x2F:
		return decoded{kind: kSubae, size: 1, dst: regD, src: regC}

	case op == 0x30:
		return decoded{kind: kOut, size: 1, io: ioVGA}
	case op == 0x31:
		return decoded{kind: kIn, size: 1, io: ioVGA}

	case op == 0x32:
		return decoded{kind: kDecWord, size: 1, dst: regSI}
	case op == 0x33:
		return decoded{kind: kDecWord, size: 1, dst: regDI}
	case op == 0x34:
		return decoded{kind: kIncWord, size: 1, dst: regSP}
	case op == 0x35:
		return decoded{kind: kIncWord, size: 1, dst: regSI}
	case op == 0x36:
		return decoded{kind: kIncWord, size: 1, dst: regDI}

	case op == 0x37:
		return decoded{kind: kOut, size: 1, io: ioGPIO}
	case op == 0x38:
		return decoded{kind: kNop, size: 1} // reserved, unassigned in this ISA revision
	case op == 0x39:
		return decoded{kind: kOut, size: 1, io: ioUartData}
	case op == 0x3A:
		return decoded{kind: kIn, size: 1, io: ioUartData}
	case op == 0x3B:
		return decoded{kind: kIn, size: 1, io: ioUartCtrl}
	case op == 0x3C:
		return decoded{kind: kOut, size: 1, io: ioAudioData}
	case op == 0x3D:
		return decoded{kind: kIn, size: 1, io: ioCntrlData}
	case op == 0x3E:
		return decoded{kind: kIn, size: 1, io: ioGPIO}
	case op == 0x3F:
		return decoded{kind: kBreak, size: 1}

	case op >= 0x40 && op <= 0x57:
		return decodeIndirectMove(op)

	case op == 0x58:
		return decoded{kind: kAddac, size: 1, dst: regC, src: regA}
	case op == 0x59 || op == 0x5A:
		return decoded{kind: kNop, size: 1} // reserved

	case op == 0x5B:
		return decoded{kind: kLodsb, size: 1}
	case op == 0x5C:
		return decoded{kind: kCall, size: 1, addrReg: regTX}
	case op == 0x5D:
		return decoded{kind: kCall, size: 1, addrReg: regDI}
	case op == 0x5E:
		return decoded{kind: kRet, size: 1}
	case op == 0x5F:
		return decoded{kind: kPrebranch, size: 1}
	case op == 0x60:
		return decoded{kind: kJmp, size: 1, addrReg: regTX}

	case op >= 0x61 && op <= 0x70:
		return decoded{kind: kCondJump, size: 1, cond: int(op - 0x61), addrReg: regTX}

	case op == 0x71:
		return decoded{kind: kJmp, size: 1, addrReg: regDI}

	case op >= 0x72 && op <= 0x7D:
		return decodePushPop(op)

	case op == 0x7E:
		return decoded{kind: kStosb, size: 1}
	case op == 0x7F:
		return decoded{kind: kAlu, size: 1, aluOp: aluClc}

	case op >= 0x80 && op <= 0x87:
		r := gprs[(op-0x80)/2]
		if (op-0x80)%2 == 0 {
			return decoded{kind: kAlu, size: 1, aluOp: aluShl, dst: r}
		}
		return decoded{kind: kAlu, size: 1, aluOp: aluShr, dst: r}

	case op >= 0x88 && op <= 0x93:
		p := gprPairs[op-0x88]
		return decoded{kind: kAlu, size: 1, aluOp: aluAdd, dst: p[0], src: p[1]}
	case op >= 0x94 && op <= 0x9F:
		p := gprPairs[op-0x94]
		return decoded{kind: kAlu, size: 1, aluOp: aluAddC, dst: p[0], src: p[1]}

	case op >= 0xA0 && op <= 0xA7:
		r := gprs[(op-0xA0)/2]
		if (op-0xA0)%2 == 0 {
			return decoded{kind: kAlu, size: 1, aluOp: aluInc, dst: r}
		}
		return decoded{kind: kAlu, size: 1, aluOp: aluIncC, dst: r}

	case op >= 0xA8 && op <= 0xBF:
		idx := op - 0xA8
		p := gprPairs[idx%12]
		if idx < 12 {
			return decoded{kind: kAlu, size: 1, aluOp: aluSub, dst: p[0], src: p[1]}
		}
		return decoded{kind: kAlu, size: 1, aluOp: aluSubB, dst: p[0], src: p[1]}

	case op >= 0xC0 && op <= 0xC3:
		return decoded{kind: kAlu, size: 1, aluOp: aluDec, dst: gprs[op-0xC0]}

	case op >= 0xC4 && op <= 0xEB:
		idx := op - 0xC4
		group := idx / 12
		if group > 2 {
			return decoded{kind: kNop, size: 1} // reserved tail of this range
		}
		p := gprPairs[idx%12]
		ops := [3]AluOp{aluAnd, aluOr, aluXor}
		return decoded{kind: kAlu, size: 1, aluOp: ops[group], dst: p[0], src: p[1]}

	case op >= 0xEC && op <= 0xEF:
		return decoded{kind: kAlu, size: 1, aluOp: aluNot, dst: gprs[op-0xEC]}

	case op >= 0xF0 && op <= 0xFB:
		p := gprPairs[op-0xF0]
		return decoded{kind: kAlu, size: 1, aluOp: aluCmp, dst: p[0], src: p[1]}

	case op >= 0xFC && op <= 0xFF:
		return decoded{kind: kAlu, size: 1, aluOp: aluTest, dst: gprs[op-0xFC]}
	}
	return decoded{kind: kNop, size: 1}
}

func decodeTransferMove(op byte) decoded {
	idx := int(op - 0x13)
	tb := regTL
	if idx >= 8 {
		tb = regTH
		idx -= 8
	}
	r := gprs[idx/2]
	if idx%2 == 0 {
		return decoded{kind: kMovReg, size: 1, dst: tb, src: r}
	}
	return decoded{kind: kMovReg, size: 1, dst: r, src: tb}
}

func decodeWordMove(op byte) decoded {
	switch op {
	case 0x23:
		return decoded{kind: kMovWord, size: 1, dst: regTX, src: regDI}
	case 0x24:
		return decoded{kind: kMovWord, size: 1, dst: regDI, src: regTX}
	case 0x25:
		return decoded{kind: kMovWord, size: 1, dst: regTX, src: regSP}
	case 0x26:
		return decoded{kind: kMovWord, size: 1, dst: regSP, src: regTX}
	case 0x27:
		return decoded{kind: kMovWord, size: 1, dst: regSI, src: regTX}
	case 0x28:
		return decoded{kind: kMovWord, size: 1, dst: regTX, src: regSI}
	case 0x29:
		return decoded{kind: kMovWord, size: 1, dst: regSP, src: regSI}
	case 0x2A:
		return decoded{kind: kMovWord, size: 1, dst: regSI, src: regSP}
	case 0x2B:
		return decoded{kind: kMovWord, size: 1, dst: regSP, src: regDI}
	case 0x2C:
		return decoded{kind: kMovWord, size: 1, dst: regDI, src: regSP}
	case 0x2D:
		return decoded{kind: kMovWord, size: 1, dst: regSI, src: regDI}
	case 0x2E:
		return decoded{kind: kMovWord, size: 1, dst: regDI, src: regSI}
	}
	return decoded{kind: kNop, size: 1}
}

func decodeIndirectMove(op byte) decoded {
	idx := int(op - 0x40)
	addrRegs := [3]int{regSI, regDI, regTX}
	addr := addrRegs[idx/8]
	sub := idx % 8
	g := gprs[sub/2]
	if sub%2 == 0 {
		return decoded{kind: kMovIndirect, size: 1, dst: g, addrReg: addr, load: true} // load: reg <- [addr]
	}
	return decoded{kind: kMovIndirect, size: 1, src: g, addrReg: addr} // store: [addr] <- reg
}

func decodePushPop(op byte) decoded {
	regsOrder := [6]int{regA, regB, regC, regD, regTL, regTH}
	idx := int(op - 0x72)
	r := regsOrder[idx/2]
	if idx%2 == 0 {
		return decoded{kind: kPush, size: 1, dst: r}
	}
	return decoded{kind: kPop, size: 1, dst: r}
}

// emitSize returns the byte count an instruction of this kind takes in its
// single-opcode form (the assembler's multi-byte pseudo-forms — immediate
// loads via MOV TX,#imm16 sequences, CALL/JMP/branch-to-immediate sequences
// — build on top of these atomic sizes; see assembler/ast.go).
func (d decoded) emitSize() int { return d.size }
