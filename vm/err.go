// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package vm

import (
	"errors"

	"github.com/ezrec/iridium/translate"
)

var f = translate.From

var (
	// Execution faults
	ErrDivideByZero    = errors.New(f("divide by zero"))
	ErrRegisterInvalid = errors.New(f("register invalid"))
	ErrPcUnderflow     = errors.New(f("pc underflow"))
	ErrJumpTarget      = errors.New(f("jump target invalid"))
)

// ErrInstruction locates a fault at the instruction that raised it.
type ErrInstruction struct {
	Pc     int
	Opcode Opcode
}

func (err ErrInstruction) Error() string {
	return f("pc 0x%04x opcode 0x%02x %v", err.Pc, uint8(err.Opcode), err.Opcode.String())
}

func (err ErrInstruction) Is(target error) (ok bool) {
	_, ok = target.(ErrInstruction)
	return
}
