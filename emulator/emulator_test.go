package emulator

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/iridium/asm"
	"github.com/ezrec/iridium/vm"
)

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.NotNil(emu.VM)
	assert.NotNil(emu.Listing)
	assert.Equal(0, emu.LineNo())
}

func doLoad(emu *Emulator, program []string, t *testing.T) {
	assert := assert.New(t)

	as := &asm.Assembler{}
	prog, err := as.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}
	emu.Listing = prog
	emu.Reset()
}

func TestEmulatorSingle(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	program := []string{
		"load $0 #10",
		"load $1 #3",
		"; remainder",
		"div $0 $1 $2",
		"hlt",
	}

	doLoad(emu, program, t)

	for _, line := range emu.Listing.Lines[:3] {
		assert.Equal(line.LineNo, emu.LineNo())
		assert.Equal(line.Pc, emu.VM.Pc)
		done, err := emu.Tick()
		assert.NoError(err)
		assert.False(done, program[line.LineNo-1])
	}

	assert.Equal(5, emu.LineNo())
	done, err := emu.Tick()
	assert.NoError(err)
	assert.True(done)
	assert.Equal(vm.StatusHalt, emu.Status)
	assert.Equal(int32(3), emu.Registers[2])
	assert.Equal(uint32(1), emu.Remainder)
}

func TestEmulatorFault(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	program := []string{
		"load $0 #10",
		"",
		"div $0 $1 $2",
		"hlt",
	}

	doLoad(emu, program, t)

	status, err := emu.Run()
	assert.Equal(vm.StatusFault, status)
	assert.True(errors.Is(err, vm.ErrDivideByZero))

	var rt *ErrRuntime
	assert.True(errors.As(err, &rt))
	assert.Equal(3, rt.LineNo)
	assert.Equal(4, emu.VM.Pc)
}

func TestEmulatorEnd(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	doLoad(emu, []string{"load $0 #1", ".byte 0x20"}, t)

	status, err := emu.Run()
	assert.NoError(err)
	assert.Equal(vm.StatusIllegal, status)
	assert.Equal(5, emu.VM.Pc)

	doLoad(emu, []string{"load $0 #1"}, t)

	status, err = emu.Run()
	assert.NoError(err)
	assert.Equal(vm.StatusEnd, status)
	assert.Equal(0, emu.LineNo())
	assert.Equal(1, emu.Ticks)
}

func TestEmulatorLimit(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Limit = 100

	program := []string{
		"spin: load $0 #@spin",
		"      jmp $0",
	}

	doLoad(emu, program, t)

	status, err := emu.Run()
	assert.True(errors.Is(err, ErrTickLimit))
	assert.Equal(vm.StatusRunning, status)
	assert.Equal(100, emu.Ticks)

	// Reset restores the program start.
	emu.Reset()
	assert.Equal(0, emu.VM.Pc)
	assert.Equal(0, emu.Ticks)
	assert.Equal(vm.StatusRunning, emu.Status)
}
