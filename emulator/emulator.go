// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator runs assembled programs on the iridium VM.
package emulator

import (
	"log"

	"github.com/ezrec/iridium/asm"
	"github.com/ezrec/iridium/vm"
)

// Emulator state. VM + program listing.
type Emulator struct {
	Verbose bool         // If set, enables verbose logging.
	*vm.VM               // Reference to the VM simulation.
	Listing *asm.Program // Reference to the currently running program listing.

	Limit  int       // Maximum ticks for Run(). Zero is unlimited.
	Status vm.Status // Status of the most recent tick.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		VM:      vm.NewVM(),
		Listing: &asm.Program{},
	}

	return
}

// Reset the emulator, and load the listing into the VM.
func (emu *Emulator) Reset() {
	emu.VM.Verbose = emu.Verbose
	emu.VM.Program = emu.Listing.Binary()
	emu.VM.Reset()
	emu.Status = vm.StatusRunning
}

// LineNo returns the current line number for the executing instruction.
func (emu *Emulator) LineNo() int {
	dbg := emu.Listing.Debug(emu.VM.Pc)
	if dbg.Line == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set VM verbosity
	emu.VM.Verbose = emu.Verbose

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	emu.Status, err = emu.VM.Step()
	if err != nil {
		done = true
		return
	}

	done = emu.Status.Halted()
	if done && emu.Verbose {
		log.Printf("emulator: line %d: %v", lineno, emu.Status)
	}

	return
}

// Run ticks the emulator until the program halts, or the tick limit is reached.
func (emu *Emulator) Run() (status vm.Status, err error) {
	for ticks := 0; ; ticks++ {
		if emu.Limit > 0 && ticks >= emu.Limit {
			err = &ErrRuntime{LineNo: emu.LineNo(), Err: ErrTickLimit}
			status = emu.Status
			return
		}

		var done bool
		done, err = emu.Tick()
		if done {
			status = emu.Status
			return
		}
	}
}
