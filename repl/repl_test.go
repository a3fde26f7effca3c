package repl

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/iridium/vm"
)

func TestParseHex(t *testing.T) {
	assert := assert.New(t)

	bs, err := ParseHex("01 00 01 F4")
	assert.NoError(err)
	assert.Equal([]byte{1, 0, 1, 0xf4}, bs)

	bs, err = ParseHex("  0a   ff ")
	assert.NoError(err)
	assert.Equal([]byte{0x0a, 0xff}, bs)

	bs, err = ParseHex("01 zz")
	assert.True(errors.Is(err, ErrHexInvalid))
	assert.Nil(bs)

	_, err = ParseHex("100")
	assert.True(errors.Is(err, ErrHexInvalid))
}

func TestREPL(t *testing.T) {
	assert := assert.New(t)

	r := New()

	in := strings.Join([]string{
		"01 00 01 F4",
		"01 01 00 0A",
		"",
		"02 00 01 02",
		".registers",
		".history",
		".quit",
		"01 03 00 01",
	}, "\n")
	out := &bytes.Buffer{}

	err := r.Start(NewScannerReader(strings.NewReader(in), out, Prompt), out)
	assert.NoError(err)

	assert.Equal(int32(500), r.VM.Registers[0])
	assert.Equal(int32(10), r.VM.Registers[1])
	assert.Equal(int32(510), r.VM.Registers[2])
	assert.Equal(int32(0), r.VM.Registers[3])
	assert.Equal(12, r.VM.Pc)

	assert.Equal([]string{
		"01 00 01 F4",
		"01 01 00 0A",
		"02 00 01 02",
		".registers",
		".history",
		".quit",
	}, r.History)

	text := out.String()
	assert.True(strings.HasPrefix(text, "Welcome to Iridium! Let's be productive!\n>>> "))
	assert.Contains(text, "Listing registers and all contents:\n")
	assert.Contains(text, "   $2: 510")
	assert.Contains(text, "End of Register Listing\n")
	assert.Contains(text, "01 01 00 0A\n02 00 01 02\n.registers\n.history\n")
	assert.True(strings.HasSuffix(text, "Farewell! Have a great day!\n"))
}

func TestREPL_EOF(t *testing.T) {
	assert := assert.New(t)

	r := New()
	out := &bytes.Buffer{}

	err := r.Start(NewScannerReader(strings.NewReader("00"), out, Prompt), out)
	assert.NoError(err)
	assert.Contains(out.String(), "HLT encountered!\n")
}

type errReader struct{}

func (errReader) Readline() (string, error) {
	return "", io.ErrClosedPipe
}

func TestREPL_ReadError(t *testing.T) {
	assert := assert.New(t)

	r := New()
	err := r.Start(errReader{}, io.Discard)
	assert.ErrorIs(err, io.ErrClosedPipe)
}

func TestREPL_Execute(t *testing.T) {
	table := [](struct {
		name   string
		lines  []string
		output string
		status vm.Status
	}){
		{"bad_hex", []string{"01 0g"}, "Unable to decode hex string. Please enter groups of 2 hex characters.\n", vm.StatusEnd},
		{"hlt", []string{"00"}, "HLT encountered!\n", vm.StatusHalt},
		{"partial", []string{"01 00"}, "End of program.\n", vm.StatusEnd},
		{"illegal", []string{"20"}, "Unrecognized opcode 0x20! Terminating!\n", vm.StatusIllegal},
		{"fault", []string{"05 00 01 02"}, "Fault: ", vm.StatusFault},
		{"asm", []string{".asm load $4 #7", ".asm hlt"}, "HLT encountered!\n", vm.StatusHalt},
		{"asm_error", []string{".asm jmp $40"}, "Unable to assemble: ", vm.StatusEnd},
		{"run", []string{"01 00", "00 05", ".reset", "00", ".reset", ".run"}, "HLT encountered!\n", vm.StatusHalt},
	}

	for _, entry := range table {
		assert := assert.New(t)

		r := New()
		out := &bytes.Buffer{}
		for _, line := range entry.lines {
			quit := r.Execute(line, out)
			assert.False(quit, entry.name)
		}

		assert.Contains(out.String(), entry.output, entry.name)

		// End of program stays put until more bytes arrive.
		if entry.status != vm.StatusEnd {
			continue
		}
		status, _ := r.VM.Step()
		assert.Equal(entry.status, status, entry.name)
	}
}

func TestREPL_BadHexSteps(t *testing.T) {
	assert := assert.New(t)

	r := New()
	out := &bytes.Buffer{}

	r.Execute("01 00 00 05", out)
	r.Execute(".reset", out)
	assert.Equal(int32(0), r.VM.Registers[0])
	out.Reset()

	// Rejected input still runs the pending instruction.
	quit := r.Execute("zz", out)
	assert.False(quit)
	assert.Equal("Unable to decode hex string. Please enter groups of 2 hex characters.\n", out.String())
	assert.Equal(int32(5), r.VM.Registers[0])
	assert.Equal(4, r.VM.Pc)
	assert.Len(r.VM.Program, 4)

	out.Reset()
	r.Execute("zz", out)
	assert.Contains(out.String(), "End of program.\n")
	assert.Equal(4, r.VM.Pc)
}

func TestREPL_Program(t *testing.T) {
	assert := assert.New(t)

	r := New()
	out := &bytes.Buffer{}

	r.Execute("01 00 00 05", out)
	r.Execute("00", out)
	out.Reset()

	r.Execute(".program", out)
	assert.Equal("1\n0\n0\n5\n0\nEnd of Program Listing\n", out.String())

	out.Reset()
	r.Execute(".disasm", out)
	assert.Equal(" 0000: load $0 #5\n 0004: hlt\nEnd of Program Listing\n", out.String())

	out.Reset()
	r.Execute(".reset", out)
	r.Execute(".disasm", out)
	assert.Equal(">0000: load $0 #5\n 0004: hlt\nEnd of Program Listing\n", out.String())
	assert.Equal(int32(0), r.VM.Registers[0])
}
