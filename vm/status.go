// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package vm

// Status is the outcome of a single Step().
type Status int

const (
	StatusRunning = Status(0) // More instructions to execute.
	StatusHalt    = Status(1) // Explicit HLT instruction.
	StatusEnd     = Status(2) // No complete instruction at PC.
	StatusIllegal = Status(3) // Unmapped opcode byte.
	StatusFault   = Status(4) // Fatal execution fault.
)

var statusNames = [...]string{
	StatusRunning: "running",
	StatusHalt:    "halt",
	StatusEnd:     "end",
	StatusIllegal: "illegal",
	StatusFault:   "fault",
}

// Halted returns true if the machine stopped executing.
func (s Status) Halted() bool {
	return s != StatusRunning
}

// Resumable returns true if appending more program bytes would allow
// execution to continue from the current PC.
func (s Status) Resumable() bool {
	return s == StatusEnd
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}
