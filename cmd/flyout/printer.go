package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/dukex/flyout/pkg/eventlog"
)

// Printer renders events as one line each, optionally followed by their detail.
type Printer struct {
	mu      sync.Mutex
	out     io.Writer
	verbose bool
	prefix  string
}

func NewPrinter(out io.Writer, verbose bool) *Printer {
	return &Printer{out: out, verbose: verbose}
}

// WithPrefix returns a printer sharing p's writer that starts every line with prefix.
func (p *Printer) WithPrefix(prefix string) *Printer {
	return &Printer{out: p.out, verbose: p.verbose, prefix: prefix}
}

func (p *Printer) Emit(_ context.Context, event eventlog.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	line := fmt.Sprintf("%s%s %-7s", p.prefix, event.Timestamp.Format("15:04:05"), strings.ToUpper(string(event.Kind)))
	if event.Step != "" {
		line += " [" + event.Step + "]"
	}

	if _, err := fmt.Fprintf(p.out, "%s %s\n", line, event.Message); err != nil {
		return err
	}

	if !p.verbose || event.Detail == nil {
		return nil
	}

	detail, err := json.MarshalIndent(event.Detail, "    ", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(p.out, "    %s\n", detail)

	return err
}
