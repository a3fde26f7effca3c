// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package vm

import (
	"fmt"
)

const (
	REGISTER_COUNT = 32 // Number of general purpose registers.
)

// Register is a register index, as encoded in an operand byte.
type Register uint8

// Valid returns true if the register index is within the register file.
func (r Register) Valid() bool {
	return int(r) < REGISTER_COUNT
}

func (r Register) String() string {
	return fmt.Sprintf("$%d", uint8(r))
}

// RegisterFile is the bank of general purpose registers.
type RegisterFile [REGISTER_COUNT]int32

// Get returns the value of a register.
func (rf *RegisterFile) Get(r Register) (value int32, err error) {
	if !r.Valid() {
		err = ErrRegisterInvalid
		return
	}

	value = rf[r]
	return
}

// Set writes the value of a register.
func (rf *RegisterFile) Set(r Register, value int32) (err error) {
	if !r.Valid() {
		err = ErrRegisterInvalid
		return
	}

	rf[r] = value
	return
}

// Reset zeros all registers.
func (rf *RegisterFile) Reset() {
	clear(rf[:])
}
