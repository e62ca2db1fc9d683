// encode.go - mnemonic+operands -> opcode byte, the assembler-side dual of
// the engine's opcodes.go decode table.

/*
encode.go is the encoding mirror of the engine's direct-decode instruction
table: every opcode byte it can produce round-trips through opcodes.go's
decodeOpcode to the same instruction. The two tables are necessarily
duplicated across packages (the assembler cannot import package main), so
DESIGN.md records this file and opcodes.go as a single canonical table kept
in sync by hand; both are grounded on the same original_source snapshot
reconciliation (DESIGN.md Open Question resolution #4).

MOV to a 16-bit register, JMP/CALL to an immediate address, and conditional
branches to an immediate address have no direct opcode of their own: the ISA
only branches/calls through TX (or DI), so the assembler expands these into
the TL/TH load sequence spec.md §4.1 specifies, and emitSize below must
track each expansion's byte count exactly.
*/

// License: GPLv3 or later

package assembler

import "fmt"

var gprPairs = [12][2]Reg{
	{RegA, RegB}, {RegB, RegA},
	{RegA, RegC}, {RegC, RegA},
	{RegA, RegD}, {RegD, RegA},
	{RegB, RegC}, {RegC, RegB},
	{RegB, RegD}, {RegD, RegB},
	{RegC, RegD}, {RegD, RegC},
}

var gprs4 = [4]Reg{RegA, RegB, RegC, RegD}

func gprPairIndex(dst, src Reg) (int, bool) {
	for i, p := range gprPairs {
		if p[0] == dst && p[1] == src {
			return i, true
		}
	}
	return 0, false
}

func gprIndex(r Reg) (int, bool) {
	for i, g := range gprs4 {
		if g == r {
			return i, true
		}
	}
	return 0, false
}

// encodeInstruction resolves a parsed instruction statement to its opcode
// byte(s). imm16, when the instruction carries an immediate operand, is its
// fully resolved 16-bit value; 8-bit immediate forms use its low byte, and
// the JMP/CALL/conditional-branch/16-bit-MOV pseudo-forms below expand into
// the TL/TH load sequence spec.md §4.1 documents, using both bytes.
func encodeInstruction(mnemonic string, ops []Operand, imm16 uint16) ([]byte, error) {
	lo, hi := byte(imm16), byte(imm16>>8)
	reg := func(i int) Reg {
		if i < len(ops) && ops[i].Kind == OperandReg {
			return ops[i].Reg
		}
		return -1
	}
	io := func(i int) IOReg {
		if i < len(ops) && ops[i].Kind == OperandIOReg {
			return ops[i].IOReg
		}
		return -1
	}

	switch mnemonic {
	case "nop":
		return []byte{0x00}, nil

	case "mov":
		if len(ops) != 2 {
			break
		}
		dst, src := reg(0), reg(1)
		if ops[1].Kind == OperandImm {
			switch dst {
			case RegA:
				return []byte{0x01, lo}, nil
			case RegB:
				return []byte{0x02, lo}, nil
			case RegC:
				return []byte{0x03, lo}, nil
			case RegD:
				return []byte{0x04, lo}, nil
			case RegTL:
				return []byte{0x05, lo}, nil
			case RegTH:
				return []byte{0x06, lo}, nil
			case RegTX:
				// MOV TX,#imm16: the TL/TH load IS the TX load, per spec.md §4.1.
				return []byte{0x05, lo, 0x06, hi}, nil
			case RegSI:
				return []byte{0x05, lo, 0x06, hi, 0x27}, nil
			case RegDI:
				return []byte{0x05, lo, 0x06, hi, 0x24}, nil
			case RegSP:
				return []byte{0x05, lo, 0x06, hi, 0x26}, nil
			}
			return nil, fmt.Errorf("invalid register for MOV immediate")
		}
		if idx, ok := gprPairIndex(dst, src); ok {
			return []byte{byte(0x07 + idx)}, nil
		}
		if b, ok := encodeTransferMove(dst, src); ok {
			return []byte{b}, nil
		}
		if b, ok := encodeWordMove(dst, src); ok {
			return []byte{b}, nil
		}
		if b, ok, load := indirectOpcode(dst, src, ops); ok {
			_ = load
			return []byte{b}, nil
		}
		return nil, fmt.Errorf("invalid operands for MOV")

	case "subae":
		return []byte{0x2F}, nil
	case "addac":
		return []byte{0x58}, nil

	case "out":
		switch io(0) {
		case IOVga:
			return []byte{0x30}, nil
		case IOGpio:
			return []byte{0x37}, nil
		case IOUartData:
			return []byte{0x39}, nil
		case IOAudioData:
			return []byte{0x3C}, nil
		}
		return nil, fmt.Errorf("invalid OUT port")
	case "in":
		switch io(1) {
		case IOVga:
			return []byte{0x31}, nil
		case IOUartData:
			return []byte{0x3A}, nil
		case IOUartCtrl:
			return []byte{0x3B}, nil
		case IOCntrlData:
			return []byte{0x3D}, nil
		case IOGpio:
			return []byte{0x3E}, nil
		}
		return nil, fmt.Errorf("invalid IN port")

	case "decw":
		switch reg(0) {
		case RegSI:
			return []byte{0x32}, nil
		case RegDI:
			return []byte{0x33}, nil
		}
		return nil, fmt.Errorf("invalid register for DECW")
	case "incw":
		switch reg(0) {
		case RegSP:
			return []byte{0x34}, nil
		case RegSI:
			return []byte{0x35}, nil
		case RegDI:
			return []byte{0x36}, nil
		}
		return nil, fmt.Errorf("invalid register for INCW")

	case "break":
		return []byte{0x3F}, nil

	case "lodsb":
		return []byte{0x5B}, nil
	case "stosb":
		return []byte{0x7E}, nil
	case "ret":
		return []byte{0x5E}, nil
	case "prebranch":
		return []byte{0x5F}, nil
	case "clc":
		return []byte{0x7F}, nil

	case "call":
		if len(ops) == 1 && ops[0].Kind == OperandImm {
			// CALL imm16: load TX via TL/TH, CALL TX, then the two padding
			// bytes spec.md §4.1 documents for this pseudo-form.
			return []byte{0x05, lo, 0x06, hi, 0x5C, 0x00, 0x00}, nil
		}
		switch reg(0) {
		case RegTX:
			return []byte{0x5C}, nil
		case RegDI:
			return []byte{0x5D}, nil
		}
		return nil, fmt.Errorf("invalid register for CALL")
	case "jmp":
		if len(ops) == 1 && ops[0].Kind == OperandImm {
			// JMP imm16: load TX via TL/TH, PREBRANCH, JMP TX.
			return []byte{0x05, lo, 0x06, hi, 0x5F, 0x60}, nil
		}
		switch reg(0) {
		case RegTX:
			return []byte{0x60}, nil
		case RegDI:
			return []byte{0x71}, nil
		}
		return nil, fmt.Errorf("invalid register for JMP")

	case "push":
		if b, ok := pushPopOpcode(reg(0), true); ok {
			return []byte{b}, nil
		}
		return nil, fmt.Errorf("invalid register for PUSH")
	case "pop":
		if b, ok := pushPopOpcode(reg(0), false); ok {
			return []byte{b}, nil
		}
		return nil, fmt.Errorf("invalid register for POP")

	case "shl", "shr":
		if idx, ok := gprIndex(reg(0)); ok {
			base := byte(0x80 + idx*2)
			if mnemonic == "shr" {
				base++
			}
			return []byte{base}, nil
		}
	case "inc", "incc":
		if idx, ok := gprIndex(reg(0)); ok {
			base := byte(0xA0 + idx*2)
			if mnemonic == "incc" {
				base++
			}
			return []byte{base}, nil
		}
	case "dec":
		if idx, ok := gprIndex(reg(0)); ok {
			return []byte{byte(0xC0 + idx)}, nil
		}
	case "not":
		if idx, ok := gprIndex(reg(0)); ok {
			return []byte{byte(0xEC + idx)}, nil
		}
	case "test":
		if idx, ok := gprIndex(reg(0)); ok {
			return []byte{byte(0xFC + idx)}, nil
		}

	case "add", "addc", "sub", "subb", "and", "or", "xor", "cmp":
		if idx, ok := gprPairIndex(reg(0), reg(1)); ok {
			return []byte{aluPairOpcode(mnemonic, idx)}, nil
		}
		return nil, fmt.Errorf("invalid register pair for %s", mnemonic)

	default:
		if cond, ok := condNames[mnemonic]; ok {
			if len(ops) == 1 && ops[0].Kind == OperandImm {
				// Conditional branch to imm16: load TX via TL/TH, PREBRANCH,
				// then the conditional opcode itself (which branches to TX).
				return []byte{0x05, lo, 0x06, hi, 0x5F, byte(0x61 + cond)}, nil
			}
			return []byte{byte(0x61 + cond)}, nil
		}
	}
	return nil, fmt.Errorf("invalid operands for %s", mnemonic)
}

func aluPairOpcode(mnemonic string, idx int) byte {
	switch mnemonic {
	case "add":
		return byte(0x88 + idx)
	case "addc":
		return byte(0x94 + idx)
	case "sub":
		return byte(0xA8 + idx)
	case "subb":
		return byte(0xA8 + 12 + idx)
	case "and":
		return byte(0xC4 + idx)
	case "or":
		return byte(0xC4 + 12 + idx)
	case "xor":
		return byte(0xC4 + 24 + idx)
	case "cmp":
		return byte(0xF0 + idx)
	}
	return 0x00
}

func encodeTransferMove(dst, src Reg) (byte, bool) {
	// 0x13-0x1A: TL<->{A,B,C,D}; 0x1B-0x22: TH<->{A,B,C,D}
	try := func(tb Reg, base byte) (byte, bool) {
		if dst == tb {
			if idx, ok := gprIndex(src); ok {
				return base + byte(idx*2), true
			}
		}
		if src == tb {
			if idx, ok := gprIndex(dst); ok {
				return base + byte(idx*2) + 1, true
			}
		}
		return 0, false
	}
	if b, ok := try(RegTL, 0x13); ok {
		return b, true
	}
	if b, ok := try(RegTH, 0x1B); ok {
		return b, true
	}
	return 0, false
}

var wordMoveOpcodes = []struct {
	op       byte
	dst, src Reg
}{
	{0x23, RegTX, RegDI}, {0x24, RegDI, RegTX},
	{0x25, RegTX, RegSP}, {0x26, RegSP, RegTX},
	{0x27, RegSI, RegTX}, {0x28, RegTX, RegSI},
	{0x29, RegSP, RegSI}, {0x2A, RegSI, RegSP},
	{0x2B, RegSP, RegDI}, {0x2C, RegDI, RegSP},
	{0x2D, RegSI, RegDI}, {0x2E, RegDI, RegSI},
}

func encodeWordMove(dst, src Reg) (byte, bool) {
	for _, e := range wordMoveOpcodes {
		if e.dst == dst && e.src == src {
			return e.op, true
		}
	}
	return 0, false
}

// indirectOpcode handles MOV reg,[addrReg] and MOV [addrReg],reg forms; by
// this assembler's syntax an indirect operand is written as a register
// wrapped in parens, e.g. `mov a,(si)` / `mov (di),b`. The parser surfaces
// this as an OperandReg whose Span text the caller already validated; here
// dst/src carry the two registers and the caller's operand list is used
// only to detect which side is the parenthesized address register via
// ops[i].Kind == OperandReg with an addr-capable register identity.
func indirectOpcode(dst, src Reg, ops []Operand) (byte, bool, bool) {
	addrRegs := map[Reg]int{RegSI: 0, RegDI: 1, RegTX: 2}
	// Load: dst is a GPR, src is an address register -> reg <- [addr]
	if gi, gok := gprIndex(dst); gok {
		if ai, aok := addrRegs[src]; aok {
			return byte(0x40 + ai*8 + gi*2), true, true
		}
	}
	// Store: dst is an address register, src is a GPR -> [addr] <- reg
	if ai, aok := addrRegs[dst]; aok {
		if gi, gok := gprIndex(src); gok {
			return byte(0x40 + ai*8 + gi*2 + 1), true, false
		}
	}
	return 0, false, false
}

func pushPopOpcode(r Reg, push bool) (byte, bool) {
	order := [6]Reg{RegA, RegB, RegC, RegD, RegTL, RegTH}
	for i, g := range order {
		if g == r {
			base := byte(0x72 + i*2)
			if !push {
				base++
			}
			return base, true
		}
	}
	return 0, false
}

// emitSize returns the byte length mnemonic's encoding occupies, used by
// the layout pass before any label value is known. This must stay in exact
// sync with encodeInstruction's byte counts for every pseudo-form below, per
// spec.md's emit_size/encode consistency requirement.
func emitSize(mnemonic string, ops []Operand) int {
	if mnemonic == "mov" && len(ops) == 2 && ops[1].Kind == OperandImm {
		if ops[0].Kind == OperandReg {
			switch ops[0].Reg {
			case RegTX:
				return 4
			case RegSI, RegDI, RegSP:
				return 5
			}
		}
		return 2
	}
	if len(ops) == 1 && ops[0].Kind == OperandImm {
		switch mnemonic {
		case "jmp":
			return 6
		case "call":
			return 7
		default:
			if _, ok := condNames[mnemonic]; ok {
				return 6
			}
		}
	}
	return 1
}
