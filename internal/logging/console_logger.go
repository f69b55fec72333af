package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/vvka-141/taxlien/pkg/taxlien"
)

var (
	_ taxlien.Logger = (*ConsoleLogger)(nil)
	_ taxlien.Logger = (*NullLogger)(nil)
)

// ConsoleLogger writes Info messages to its output stream and Verbose/Error
// messages to its diagnostic stream.
// Safe for concurrent use by multiple goroutines.
type ConsoleLogger struct {
	verbose bool
	out     io.Writer
	diag    io.Writer
	runID   string
	mu      *sync.Mutex
}

// NewConsoleLogger creates a ConsoleLogger writing to stdout and stderr.
// If verbose is false, Verbose() calls are no-ops.
func NewConsoleLogger(verbose bool) *ConsoleLogger {
	return NewConsoleLoggerTo(os.Stdout, os.Stderr, verbose)
}

// NewConsoleLoggerTo creates a ConsoleLogger with explicit streams.
func NewConsoleLoggerTo(out, diag io.Writer, verbose bool) *ConsoleLogger {
	return &ConsoleLogger{
		verbose: verbose,
		out:     out,
		diag:    diag,
		mu:      &sync.Mutex{},
	}
}

// WithRunID returns a logger that tags verbose lines with the run ID.
func (l *ConsoleLogger) WithRunID(runID string) *ConsoleLogger {
	return &ConsoleLogger{
		verbose: l.verbose,
		out:     l.out,
		diag:    l.diag,
		runID:   runID,
		mu:      l.mu,
	}
}

// Verbose logs detailed diagnostic information if verbose mode is enabled.
func (l *ConsoleLogger) Verbose(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	prefix := "[VERBOSE] "
	if l.runID != "" {
		prefix = "[VERBOSE " + l.runID[:min(8, len(l.runID))] + "] "
	}
	l.write(l.diag, prefix, format, args)
}

// Info logs informational messages about normal operations.
func (l *ConsoleLogger) Info(format string, args ...interface{}) {
	l.write(l.out, "", format, args)
}

// Error logs error messages.
func (l *ConsoleLogger) Error(format string, args ...interface{}) {
	l.write(l.diag, "[ERROR] ", format, args)
}

func (l *ConsoleLogger) write(w io.Writer, prefix, format string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(args) > 0 {
		fmt.Fprintf(w, prefix+format+"\n", args...)
	} else {
		fmt.Fprint(w, prefix+format+"\n")
	}
}
