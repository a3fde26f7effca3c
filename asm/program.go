// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"iter"

	"github.com/ezrec/iridium/vm"
)

// Line is a single line of assembled code with its source location and generated bytes.
type Line struct {
	LineNo    int
	Pc        int
	Words     []string
	Bytes     []byte
	LinkLabel string
}

// Program is an assembled program listing.
type Program struct {
	Lines []Line
}

type Debug struct {
	*Line
	Index int
}

// Debug returns the line that generated the byte at pc.
func (prog *Program) Debug(pc int) (dbg Debug) {
	for n, line := range prog.Lines {
		if pc >= line.Pc && pc < line.Pc+len(line.Bytes) {
			dbg = Debug{
				Line:  &prog.Lines[n],
				Index: pc - line.Pc,
			}
			break
		}
	}

	return
}

// Binary returns the program buffer.
func (prog *Program) Binary() (bin []byte) {
	for _, line := range prog.Lines {
		bin = append(bin, line.Bytes...)
	}

	return
}

// Instructions iterates over the decoded instructions of each line.
func (prog *Program) Instructions() iter.Seq2[*Line, vm.Instruction] {
	return func(yield func(line *Line, instr vm.Instruction) bool) {
		bin := prog.Binary()
		for pc, instr := range vm.Disassemble(bin) {
			dbg := prog.Debug(pc)
			if !yield(dbg.Line, instr) {
				return
			}
		}
	}
}
