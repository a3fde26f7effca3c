// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package vm implements the iridium register virtual machine.
//
// The machine has 32 signed 32-bit registers ($0-$31), a program counter
// (PC) into a flat byte encoded program, a remainder register written by
// division, and a comparison flag consulted by conditional jumps.
//
// Each instruction is a single opcode byte followed by a fixed number of
// operand bytes. Immediates are 16-bit big-endian. Execution is driven by
// the caller, one Step() at a time, or Run() until the machine halts.
package vm
