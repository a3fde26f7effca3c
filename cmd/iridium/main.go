// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/chzyer/readline"

	"github.com/ezrec/iridium/asm"
	"github.com/ezrec/iridium/emulator"
	"github.com/ezrec/iridium/repl"
)

func main() {
	var compile string
	var binary string
	var history string
	var limit int
	var verbose bool

	flag.StringVar(&compile, "c", "", ".iasm file to assemble and run")
	flag.StringVar(&binary, "x", "", "raw bytecode file to run")
	flag.StringVar(&history, "history", filepath.Join(os.TempDir(), "iridium_history.txt"), "REPL history file")
	flag.IntVar(&limit, "limit", 0, "Maximum instructions to execute, 0 for unlimited")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(compile) != 0 && len(binary) != 0 {
		log.Fatalf("%v: -c and -x are exclusive", os.Args[0])
	}

	if len(compile) == 0 && len(binary) == 0 {
		err := interactive(history, verbose)
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.Limit = limit

	// Assemble a new instruction stream.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		as := &asm.Assembler{Verbose: verbose}
		emu.Listing, err = as.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		emu.Reset()
	} else {
		data, err := os.ReadFile(binary)
		if err != nil {
			log.Fatalf("%v: %v", binary, err)
		}
		emu.Reset()
		emu.VM.Append(data...)
	}

	status, err := emu.Run()
	fmt.Print(emu.VM.String())
	if err != nil {
		log.Fatal(err)
	}
	if verbose {
		log.Printf("%v: %v after %d ticks", os.Args[0], status, emu.Ticks)
	}
}

// interactive runs the REPL on a readline terminal.
func interactive(history string, verbose bool) (err error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      repl.Prompt,
		HistoryFile: history,
	})
	if err != nil {
		return
	}
	defer rl.Close()

	r := repl.New()
	r.Verbose = verbose

	err = r.Start(rl, rl.Stdout())
	if errors.Is(err, readline.ErrInterrupt) {
		err = nil
	}

	return
}
