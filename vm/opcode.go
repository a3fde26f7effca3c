// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package vm

// Opcode is the operation identity of an instruction's first byte.
type Opcode uint8

const (
	HLT  = Opcode(0)  // hlt
	LOAD = Opcode(1)  // load $dst #imm16
	ADD  = Opcode(2)  // add $a $b $dst
	SUB  = Opcode(3)  // sub $a $b $dst
	MUL  = Opcode(4)  // mul $a $b $dst
	DIV  = Opcode(5)  // div $a $b $dst
	JMP  = Opcode(6)  // jmp $target
	JMPF = Opcode(7)  // jmpf $delta
	JMPB = Opcode(8)  // jmpb $delta
	EQ   = Opcode(9)  // eq $a $b
	NEQ  = Opcode(10) // neq $a $b
	GT   = Opcode(11) // gt $a $b
	LT   = Opcode(12) // lt $a $b
	GTQ  = Opcode(13) // gtq $a $b
	LTQ  = Opcode(14) // ltq $a $b
	JEQ  = Opcode(15) // jeq $target
	IGL  = Opcode(0xff)
)

// opcodeInfo describes the encoding of a single opcode.
type opcodeInfo struct {
	name  string
	width int // Operand bytes following the opcode byte.
}

var opcodeTable = [...]opcodeInfo{
	HLT:  {"hlt", 0},
	LOAD: {"load", 3},
	ADD:  {"add", 3},
	SUB:  {"sub", 3},
	MUL:  {"mul", 3},
	DIV:  {"div", 3},
	JMP:  {"jmp", 1},
	JMPF: {"jmpf", 1},
	JMPB: {"jmpb", 1},
	EQ:   {"eq", 3},
	NEQ:  {"neq", 3},
	GT:   {"gt", 3},
	LT:   {"lt", 3},
	GTQ:  {"gtq", 3},
	LTQ:  {"ltq", 3},
	JEQ:  {"jeq", 1},
}

var mnemonicMap = func() map[string]Opcode {
	m := make(map[string]Opcode, len(opcodeTable))
	for n, info := range opcodeTable {
		m[info.name] = Opcode(n)
	}
	return m
}()

// Decode maps any byte to its opcode. Unmapped values decode to IGL.
func Decode(b byte) Opcode {
	if int(b) >= len(opcodeTable) {
		return IGL
	}
	return Opcode(b)
}

// LookupOpcode returns the opcode for a lower case mnemonic.
func LookupOpcode(mnemonic string) (op Opcode, ok bool) {
	op, ok = mnemonicMap[mnemonic]
	return
}

// Legal returns true if the opcode is a member of the instruction set.
func (op Opcode) Legal() bool {
	return int(op) < len(opcodeTable)
}

// Width returns the number of operand bytes following the opcode byte.
func (op Opcode) Width() int {
	if !op.Legal() {
		return 0
	}
	return opcodeTable[op].width
}

// Compare returns true if the opcode is a comparison that sets the flag.
func (op Opcode) Compare() bool {
	return op >= EQ && op <= LTQ
}

// Jump returns true if the opcode may replace the program counter.
func (op Opcode) Jump() bool {
	switch op {
	case JMP, JMPF, JMPB, JEQ:
		return true
	}
	return false
}

func (op Opcode) String() string {
	if !op.Legal() {
		return "igl"
	}
	return opcodeTable[op].name
}
