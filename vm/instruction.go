// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package vm

import (
	"fmt"
	"iter"
	"strings"
)

// Instruction is a single decoded instruction from a program buffer.
type Instruction struct {
	Pc       int    // Offset of the opcode byte.
	Code     byte   // Raw opcode byte.
	Opcode   Opcode // Decoded opcode.
	Operands []byte // Operand bytes, possibly fewer than Width() at end of program.
}

// DecodeInstruction decodes the instruction at pc. pc must be within the program.
func DecodeInstruction(program []byte, pc int) (instr Instruction) {
	code := program[pc]
	op := Decode(code)

	end := min(pc+1+op.Width(), len(program))

	instr = Instruction{
		Pc:       pc,
		Code:     code,
		Opcode:   op,
		Operands: program[pc+1 : end],
	}

	return
}

// Complete returns true if all of the operand bytes are present.
func (instr Instruction) Complete() bool {
	return len(instr.Operands) == instr.Opcode.Width()
}

// Len returns the encoded length of the instruction.
func (instr Instruction) Len() int {
	return 1 + instr.Opcode.Width()
}

// Register returns operand n as a register index.
func (instr Instruction) Register(n int) Register {
	return Register(instr.Operands[n])
}

// Immediate returns the big-endian 16-bit immediate of a LOAD.
func (instr Instruction) Immediate() uint16 {
	return (uint16(instr.Operands[1]) << 8) | uint16(instr.Operands[2])
}

// String returns the assembly language representation of the instruction.
func (instr Instruction) String() string {
	op := instr.Opcode
	if !op.Legal() {
		return fmt.Sprintf("igl 0x%02x", instr.Code)
	}

	words := []string{op.String()}

	operand := func(n int, imm bool) string {
		switch {
		case imm && len(instr.Operands) < 3:
			return "#?"
		case imm:
			return fmt.Sprintf("#%d", instr.Immediate())
		case n >= len(instr.Operands):
			return "?"
		}
		return instr.Register(n).String()
	}

	switch {
	case op == HLT:
	case op == LOAD:
		words = append(words, operand(0, false), operand(1, true))
	case op.Compare():
		words = append(words, operand(0, false), operand(1, false))
	case op.Jump():
		words = append(words, operand(0, false))
	default:
		words = append(words, operand(0, false), operand(1, false), operand(2, false))
	}

	return strings.Join(words, " ")
}

// Disassemble walks a program buffer from the start, one instruction at a time.
func Disassemble(program []byte) iter.Seq2[int, Instruction] {
	return func(yield func(pc int, instr Instruction) bool) {
		for pc := 0; pc < len(program); {
			instr := DecodeInstruction(program, pc)
			if !yield(pc, instr) {
				return
			}
			pc += instr.Len()
		}
	}
}
