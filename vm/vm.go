// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package vm

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
)

// VM is the simulation context for the iridium register machine.
//
// A VM is owned by a single caller; it has no internal locking.
type VM struct {
	Verbose bool // Set to enable verbose logging.

	Registers RegisterFile // Register bank.
	Program   []byte       // Program buffer.
	Pc        int          // Offset of the next byte to decode. Never negative.
	Remainder uint32       // Remainder of the most recent DIV.
	Flag      bool         // Result of the most recent comparison.

	Ticks int // Executed instruction counter.
}

// NewVM creates a new VM with an empty program.
func NewVM() (vm *VM) {
	vm = &VM{}

	return
}

// AddByte appends a single byte to the program.
func (vm *VM) AddByte(b byte) {
	vm.Program = append(vm.Program, b)
}

// Append appends bytes to the program.
func (vm *VM) Append(bs ...byte) {
	vm.Program = append(vm.Program, bs...)
}

// Reset the VM state.
// - Clears the registers, remainder and flag.
// - Rewinds the PC to the start of the program.
// - Zeros the tick counter.
// The program buffer is retained.
func (vm *VM) Reset() {
	if vm.Verbose {
		log.Printf("vm: reset")
	}

	vm.Registers.Reset()
	vm.Pc = 0
	vm.Remainder = 0
	vm.Flag = false
	vm.Ticks = 0
}

// String returns the current VM state as a string.
func (vm *VM) String() (text string) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "   pc: %04x\n", vm.Pc)
	fmt.Fprintf(&sb, " flag: %v\n", vm.Flag)
	fmt.Fprintf(&sb, "  rem: %d\n", vm.Remainder)
	for n, val := range vm.Registers {
		fmt.Fprintf(&sb, "% 5s: %-11d", Register(n).String(), val)
		if n%4 == 3 {
			sb.WriteString("\n")
		} else {
			sb.WriteString(" ")
		}
	}

	text = sb.String()
	return
}

// Fetch decodes the instruction at the PC.
// Returns StatusEnd if there is no complete instruction at the PC.
func (vm *VM) Fetch() (instr Instruction, status Status) {
	if vm.Pc >= len(vm.Program) {
		status = StatusEnd
		return
	}

	instr = DecodeInstruction(vm.Program, vm.Pc)
	if instr.Opcode.Legal() && !instr.Complete() {
		status = StatusEnd
		return
	}

	status = StatusRunning
	return
}

// Step executes a single instruction cycle.
func (vm *VM) Step() (status Status, err error) {
	instr, status := vm.Fetch()
	if status != StatusRunning {
		if vm.Verbose {
			log.Printf("%04x: end of program", vm.Pc)
		}
		return
	}

	status, err = vm.Execute(instr)
	return
}

// Run executes instructions until the VM halts.
func (vm *VM) Run() (status Status, err error) {
	for {
		status, err = vm.Step()
		if status.Halted() {
			return
		}
	}
}

// Execute executes a single decoded instruction.
//
// The VM state is only modified if the instruction succeeds; on a fault
// the PC still addresses the faulting instruction.
func (vm *VM) Execute(instr Instruction) (status Status, err error) {
	defer func() {
		if err != nil {
			status = StatusFault
			err = errors.Join(ErrInstruction{Pc: instr.Pc, Opcode: instr.Opcode}, err)
		}
	}()

	// Operands not yet appended.
	if instr.Opcode.Legal() && !instr.Complete() {
		status = StatusEnd
		return
	}

	if vm.Verbose {
		log.Printf("%04x: %v", instr.Pc, instr)
	}

	next_pc := instr.Pc + 1
	if instr.Opcode.Legal() {
		next_pc = instr.Pc + instr.Len()
	}

	status = StatusRunning

	switch op := instr.Opcode; op {
	case HLT:
		if vm.Verbose {
			log.Printf("%04x: halt", instr.Pc)
		}
		status = StatusHalt
	case LOAD:
		err = vm.Registers.Set(instr.Register(0), int32(instr.Immediate()))
		if err != nil {
			return
		}
	case ADD, SUB, MUL, DIV:
		var a, b int32
		a, b, err = vm.sources(instr)
		if err != nil {
			return
		}
		var value int32
		var remainder uint32
		switch op {
		case ADD:
			value = a + b
		case SUB:
			value = a - b
		case MUL:
			value = a * b
		case DIV:
			if b == 0 {
				err = ErrDivideByZero
				return
			}
			value = a / b
			remainder = uint32(a % b)
		}
		err = vm.Registers.Set(instr.Register(2), value)
		if err != nil {
			return
		}
		if op == DIV {
			vm.Remainder = remainder
		}
	case JMP, JEQ:
		var target int32
		target, err = vm.Registers.Get(instr.Register(0))
		if err != nil {
			return
		}
		if op == JEQ && !vm.Flag {
			break
		}
		if target < 0 {
			err = ErrJumpTarget
			return
		}
		next_pc = int(target)
	case JMPF, JMPB:
		var delta int32
		delta, err = vm.Registers.Get(instr.Register(0))
		if err != nil {
			return
		}
		pc := int64(next_pc)
		if op == JMPF {
			pc += int64(delta)
		} else {
			pc -= int64(delta)
		}
		if pc < 0 {
			err = ErrPcUnderflow
			return
		}
		if pc > math.MaxInt {
			err = ErrJumpTarget
			return
		}
		next_pc = int(pc)
	case EQ, NEQ, GT, LT, GTQ, LTQ:
		var a, b int32
		a, b, err = vm.sources(instr)
		if err != nil {
			return
		}
		// The third operand byte is padding.
		switch op {
		case EQ:
			vm.Flag = a == b
		case NEQ:
			vm.Flag = a != b
		case GT:
			vm.Flag = a > b
		case LT:
			vm.Flag = a < b
		case GTQ:
			vm.Flag = a >= b
		case LTQ:
			vm.Flag = a <= b
		}
	default:
		if vm.Verbose {
			log.Printf("%04x: illegal opcode 0x%02x", instr.Pc, instr.Code)
		}
		vm.Pc = next_pc
		status = StatusIllegal
		return
	}

	vm.Pc = next_pc
	vm.Ticks += 1

	return
}

// sources gets the values of the first two register operands.
func (vm *VM) sources(instr Instruction) (a, b int32, err error) {
	a, err = vm.Registers.Get(instr.Register(0))
	if err != nil {
		return
	}

	b, err = vm.Registers.Get(instr.Register(1))
	return
}
