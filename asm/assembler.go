// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package asm implements a line assembler for the iridium virtual machine.
//
// Each line holds at most one instruction, optionally preceded by labels:
//
//	loop:   add $0 $2 $0    ; comment
//	        load $3 #@loop
//	        jmp $3
//
// Registers are written $N, immediates #N. An immediate #@label resolves
// to the label's byte offset. The directives .equ and .byte
// define constants and emit raw bytes, and $(...) evaluates a compile-time
// expression.
package asm

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/iridium/vm"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":         "0",
	"REGISTER_COUNT": fmt.Sprintf("%d", vm.REGISTER_COUNT),
}

// Assembler is a line assembler for the iridium VM. Labels are resolved
// by a link pass after the last line is read.
type Assembler struct {
	Verbose bool   // If set, verbosely logs the assembler actions.
	Line    []Line // List of generated lines.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of jump labels to byte offsets.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	equate, ok := asm.Equate[word]
	if ok {
		word = equate
	}

	value, err = strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	return
}

// register parses a $N register operand.
func (asm *Assembler) register(word string) (reg byte, err error) {
	equate, ok := asm.Equate[word]
	if ok {
		word = equate
	}

	if !strings.HasPrefix(word, "$") {
		err = ErrRegisterInvalid
		return
	}

	value, err := asm.valueOf(word[1:])
	if err != nil {
		return
	}

	if value < 0 || value >= vm.REGISTER_COUNT {
		err = ErrRegisterInvalid
		return
	}

	reg = byte(value)
	return
}

// immediate parses a #N immediate operand, or a #@label reference.
func (asm *Assembler) immediate(word string) (imm uint16, label string, err error) {
	equate, ok := asm.Equate[word]
	if ok {
		word = equate
	}

	if !strings.HasPrefix(word, "#") {
		err = ErrImmediateInvalid
		return
	}

	word = word[1:]
	if len(word) == 0 {
		err = ErrOpcodeValueMissing
		return
	}

	if word[0] == '@' {
		if !isLabel(word[1:]) {
			err = ErrTargetInvalid
			return
		}
		label = word[1:]
		return
	}

	value, err := asm.valueOf(word)
	if err != nil {
		return
	}

	if value < 0 || value > 0xffff {
		err = ErrImmediateInvalid
		return
	}

	imm = uint16(value)
	return
}

var labelRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// isLabel returns true if the word is a valid label name.
func isLabel(word string) bool {
	return labelRe.MatchString(word)
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value64 int64
		value64, err = strconv.ParseInt(str, 0, 64)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(value64)
	}
	err = nil
	for key, pc := range asm.Label {
		if _, ok := pred[key]; !ok {
			pred[key] = starlark.MakeInt(pc)
		}
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

var parenRe = regexp.MustCompile(`\$\([^\$]*\)`)

// parseLine splits a line into words, handling labels and directives.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	line = parenRe.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words = slices.DeleteFunc(strings.Split(line, " "), func(a string) bool { return len(a) == 0 })

	for len(words) > 0 && strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		if !isLabel(label) {
			err = ErrTargetInvalid
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.currentPc()
		words = words[1:]
	}

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	return
}

// currentPc gets the byte offset of the next generated line.
func (asm *Assembler) currentPc() int {
	if len(asm.Line) == 0 {
		return 0
	}

	last := asm.Line[len(asm.Line)-1]

	return last.Pc + len(last.Bytes)
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Line = asm.Line[:0]
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(strings.ReplaceAll(text_comment[0], "\t", " "))

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of label immediates.
	for n := range asm.Line {
		ln := &asm.Line[n]

		if len(ln.LinkLabel) == 0 {
			continue
		}
		label := ln.LinkLabel
		pc, ok := asm.Label[label]
		if !ok {
			lineno = ln.LineNo
			line = strings.Join(ln.Words, " ")
			err = ErrLabelMissing(label)
			return
		}
		if pc > 0xffff {
			lineno = ln.LineNo
			line = strings.Join(ln.Words, " ")
			err = ErrTargetInvalid
			return
		}
		ln.Bytes[2] = byte(pc >> 8)
		ln.Bytes[3] = byte(pc >> 0)
	}

	prog = &Program{
		Lines: slices.Clone(asm.Line),
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var code []byte
	var label string

	// no-op
	if len(words) == 0 {
		return
	}

	defer func() {
		if len(code) == 0 {
			return
		}
		line := Line{LineNo: lineno, Pc: asm.currentPc(), Words: words, Bytes: code, LinkLabel: label}
		asm.Line = append(asm.Line, line)
	}()

	if words[0] == ".byte" {
		if len(words) < 2 {
			err = ErrOpcodeValueMissing
			return
		}
		for _, word := range words[1:] {
			var value int64
			value, err = asm.valueOf(word)
			if err != nil {
				code = nil
				return
			}
			if value < 0 || value > 0xff {
				code = nil
				err = ErrByteInvalid
				return
			}
			code = append(code, byte(value))
		}
		return
	}

	op, ok := vm.LookupOpcode(strings.ToLower(words[0]))
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	args := words[1:]

	var want int
	switch {
	case op == vm.HLT:
		want = 0
	case op == vm.LOAD, op.Compare():
		want = 2
	case op.Jump():
		want = 1
	default:
		want = 3
	}

	if len(args) < want {
		err = ErrOpcodeValueMissing
		return
	}
	if len(args) > want {
		err = ErrOpcodeExtraArgs
		return
	}

	out := make([]byte, 1, 1+op.Width())
	out[0] = byte(op)

	switch {
	case op == vm.LOAD:
		var reg byte
		var imm uint16
		reg, err = asm.register(args[0])
		if err != nil {
			return
		}
		imm, label, err = asm.immediate(args[1])
		if err != nil {
			return
		}
		out = append(out, reg, byte(imm>>8), byte(imm>>0))
	default:
		for _, arg := range args {
			var reg byte
			reg, err = asm.register(arg)
			if err != nil {
				return
			}
			out = append(out, reg)
		}
		// Comparisons carry a padding byte.
		for len(out) < 1+op.Width() {
			out = append(out, 0)
		}
	}

	code = out
	return
}
