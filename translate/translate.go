// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package translate localizes the user visible text of the iridium tools.
package translate

import (
	"io"
	"log"
	"sync"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/message"
)

var (
	printer     *message.Printer
	printerOnce sync.Once
)

// setup selects the message printer from the user's locales.
func setup() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("iridium: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{"en-US"}
	}

	printer = message.NewPrinter(message.MatchLanguage(locales...))
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	printerOnce.Do(setup)
	return printer.Sprintf(key, args...)
}

// Fprintf translates an en-US Fprintf() format, and writes it to w.
func Fprintf(w io.Writer, key message.Reference, args ...any) (n int, err error) {
	printerOnce.Do(setup)
	return printer.Fprintf(w, key, args...)
}

// Fprintln translates a single en-US message, and writes it to w with a newline.
func Fprintln(w io.Writer, key message.Reference) (n int, err error) {
	return Fprintf(w, "%v\n", From(key))
}
