package logging

import (
	"io"
	"log"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
)

// New returns a logger writing to stderr. Verbose enables V(1) messages.
func New(verbose bool) logr.Logger {
	return NewWithWriter(os.Stderr, verbose)
}

// NewWithWriter returns a logger writing to w.
func NewWithWriter(w io.Writer, verbose bool) logr.Logger {
	logger := stdr.New(log.New(w, "navtree ", log.LstdFlags))
	if verbose {
		stdr.SetVerbosity(1)
	} else {
		stdr.SetVerbosity(0)
	}
	return logger.WithName("cli")
}
