// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package repl provides an interactive front-end to the iridium VM.
//
// Each input line is either a dot command, or a list of hex bytes which
// are appended to the program and followed by a single step.
package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ezrec/iridium/asm"
	"github.com/ezrec/iridium/translate"
	"github.com/ezrec/iridium/vm"
)

const (
	Prompt = ">>> "
)

var ErrHexInvalid = errors.New(translate.From("hex byte invalid"))

// LineReader reads a single line of user input.
type LineReader interface {
	Readline() (string, error)
}

// ScannerReader is a LineReader over a plain io.Reader.
type ScannerReader struct {
	scanner *bufio.Scanner
	out     io.Writer
	prompt  string
}

// NewScannerReader creates a LineReader that writes prompt to out before each line.
func NewScannerReader(in io.Reader, out io.Writer, prompt string) *ScannerReader {
	return &ScannerReader{
		scanner: bufio.NewScanner(in),
		out:     out,
		prompt:  prompt,
	}
}

// Readline reads the next line. Returns io.EOF at end of input.
func (sr *ScannerReader) Readline() (line string, err error) {
	if sr.out != nil {
		fmt.Fprint(sr.out, sr.prompt)
	}

	if !sr.scanner.Scan() {
		err = sr.scanner.Err()
		if err == nil {
			err = io.EOF
		}
		return
	}

	line = sr.scanner.Text()
	return
}

// REPL is the interactive read-eval-print loop state.
type REPL struct {
	Verbose bool     // If set, the VM logs each instruction.
	VM      *vm.VM   // VM receiving the program bytes.
	History []string // Every command entered.
}

// New creates a new REPL with an empty VM.
func New() *REPL {
	return &REPL{
		VM: vm.NewVM(),
	}
}

// ParseHex parses a line of space separated hex bytes.
func ParseHex(line string) (bytes []byte, err error) {
	for _, word := range strings.Fields(line) {
		var value uint64
		value, err = strconv.ParseUint(word, 16, 8)
		if err != nil {
			err = errors.Join(ErrHexInvalid, err)
			bytes = nil
			return
		}
		bytes = append(bytes, byte(value))
	}

	return
}

// Start runs the loop until .quit or the end of input.
func (r *REPL) Start(in LineReader, out io.Writer) (err error) {
	translate.Fprintln(out, "Welcome to Iridium! Let's be productive!")

	for {
		var line string
		line, err = in.Readline()
		if errors.Is(err, io.EOF) {
			err = nil
			return
		}
		if err != nil {
			return
		}

		if r.Execute(line, out) {
			return
		}
	}
}

// Execute evaluates a single input line. Returns true when the user asked to quit.
func (r *REPL) Execute(line string, out io.Writer) (quit bool) {
	line = strings.TrimSpace(line)
	if len(line) == 0 {
		return
	}

	r.History = append(r.History, line)
	r.VM.Verbose = r.Verbose

	words := strings.Fields(line)

	switch words[0] {
	case ".quit":
		translate.Fprintln(out, "Farewell! Have a great day!")
		quit = true
	case ".history":
		for _, command := range r.History {
			fmt.Fprintln(out, command)
		}
	case ".program":
		for _, b := range r.VM.Program {
			fmt.Fprintln(out, b)
		}
		translate.Fprintln(out, "End of Program Listing")
	case ".disasm":
		for pc, instr := range vm.Disassemble(r.VM.Program) {
			marker := " "
			if pc == r.VM.Pc {
				marker = ">"
			}
			fmt.Fprintf(out, "%v%04x: %v\n", marker, pc, instr)
		}
		translate.Fprintln(out, "End of Program Listing")
	case ".registers":
		translate.Fprintln(out, "Listing registers and all contents:")
		fmt.Fprint(out, r.VM.String())
		translate.Fprintln(out, "End of Register Listing")
	case ".reset":
		r.VM.Reset()
	case ".run":
		status, err := r.VM.Run()
		r.report(out, status, err)
	case ".asm":
		as := &asm.Assembler{}
		prog, err := as.Parse(strings.NewReader(strings.Join(words[1:], " ")))
		if err != nil {
			translate.Fprintf(out, "Unable to assemble: %v\n", err)
			return
		}
		r.VM.Append(prog.Binary()...)
		r.step(out)
	default:
		bytes, err := ParseHex(line)
		if err != nil {
			translate.Fprintln(out, "Unable to decode hex string. Please enter groups of 2 hex characters.")
		} else {
			r.VM.Append(bytes...)
		}
		r.step(out)
	}

	return
}

// step executes a single instruction, and reports any halt.
func (r *REPL) step(out io.Writer) {
	status, err := r.VM.Step()
	r.report(out, status, err)
}

// report describes a halted status.
func (r *REPL) report(out io.Writer, status vm.Status, err error) {
	switch status {
	case vm.StatusHalt:
		translate.Fprintln(out, "HLT encountered!")
	case vm.StatusEnd:
		translate.Fprintln(out, "End of program.")
	case vm.StatusIllegal:
		translate.Fprintf(out, "Unrecognized opcode 0x%02x! Terminating!\n", r.VM.Program[r.VM.Pc-1])
	case vm.StatusFault:
		translate.Fprintf(out, "Fault: %v\n", err)
	}
}
