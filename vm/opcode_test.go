package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		code  byte
		op    Opcode
		name  string
		width int
	}){
		{0, HLT, "hlt", 0},
		{1, LOAD, "load", 3},
		{2, ADD, "add", 3},
		{3, SUB, "sub", 3},
		{4, MUL, "mul", 3},
		{5, DIV, "div", 3},
		{6, JMP, "jmp", 1},
		{7, JMPF, "jmpf", 1},
		{8, JMPB, "jmpb", 1},
		{9, EQ, "eq", 3},
		{10, NEQ, "neq", 3},
		{11, GT, "gt", 3},
		{12, LT, "lt", 3},
		{13, GTQ, "gtq", 3},
		{14, LTQ, "ltq", 3},
		{15, JEQ, "jeq", 1},
	}

	for _, entry := range table {
		op := Decode(entry.code)
		assert.Equal(entry.op, op, entry.name)
		assert.True(op.Legal(), entry.name)
		assert.Equal(entry.name, op.String())
		assert.Equal(entry.width, op.Width(), entry.name)

		back, ok := LookupOpcode(entry.name)
		assert.True(ok, entry.name)
		assert.Equal(entry.op, back, entry.name)
	}
}

func TestDecode_Illegal(t *testing.T) {
	assert := assert.New(t)

	for code := 16; code < 256; code++ {
		op := Decode(byte(code))
		assert.Equal(IGL, op, code)
		assert.False(op.Legal(), code)
		assert.Equal(0, op.Width(), code)
		assert.Equal("igl", op.String(), code)
	}

	_, ok := LookupOpcode("igl")
	assert.False(ok)
	_, ok = LookupOpcode("LOAD")
	assert.False(ok)
}

func TestOpcode_Class(t *testing.T) {
	assert := assert.New(t)

	for code := range 256 {
		op := Decode(byte(code))
		switch op {
		case EQ, NEQ, GT, LT, GTQ, LTQ:
			assert.True(op.Compare(), op)
			assert.False(op.Jump(), op)
		case JMP, JMPF, JMPB, JEQ:
			assert.False(op.Compare(), op)
			assert.True(op.Jump(), op)
		default:
			assert.False(op.Compare(), op)
			assert.False(op.Jump(), op)
		}
	}
}
