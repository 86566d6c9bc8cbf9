// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/alf

package main

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// console prints user facing diagnostics with colored prefixes.
// Colors are dropped when the writer is not a terminal.
type console struct {
	w   io.Writer
	out *termenv.Output
}

func newConsole(w io.Writer) *console {
	return &console{w: w, out: termenv.NewOutput(w)}
}

// Warnf prints a non-fatal diagnostic.
func (c *console) Warnf(format string, args ...any) {
	c.printf(c.out.String("warning:").Foreground(c.out.Color("3")).Bold(), format, args...)
}

// Errorf prints a fatal diagnostic.
func (c *console) Errorf(format string, args ...any) {
	c.printf(c.out.String("error:").Foreground(c.out.Color("1")).Bold(), format, args...)
}

func (c *console) printf(prefix termenv.Style, format string, args ...any) {
	_, _ = fmt.Fprintf(c.w, "%s %s\n", prefix, fmt.Sprintf(format, args...))
}
