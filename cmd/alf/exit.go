// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/alf

package main

import (
	"errors"

	"github.com/woozymasta/alf"
)

// Process exit statuses, one per failure class.
const (
	exitOK                = 0
	exitUsage             = 1
	exitIO                = 2
	exitBadMagic          = 3
	exitUnexpectedEOF     = 4
	exitCompressed        = 5
	exitNotFound          = 6
	exitSizeMismatch      = 7
	exitMissingCapability = 8
	exitInvalidPath       = 9
)

// exitError carries the process exit status of a failed invocation.
type exitError struct {
	err  error
	code int
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// ExitCode returns process exit status.
func (e *exitError) ExitCode() int {
	return e.code
}

// usageError marks err as a command line misuse.
func usageError(err error) error {
	return &exitError{code: exitUsage, err: err}
}

// exitCodeFor classifies err by the sentinel it wraps.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, alf.ErrBadMagic):
		return exitBadMagic
	case errors.Is(err, alf.ErrMalformed):
		return exitUnexpectedEOF
	case errors.Is(err, alf.ErrCompressedUnsupported):
		return exitCompressed
	case errors.Is(err, alf.ErrEntryNotFound):
		return exitNotFound
	case errors.Is(err, alf.ErrSizeMismatch), errors.Is(err, alf.ErrSizeOverflow):
		return exitSizeMismatch
	case errors.Is(err, alf.ErrMissingCapability):
		return exitMissingCapability
	case errors.Is(err, alf.ErrPathTooLong), errors.Is(err, alf.ErrInvalidExtractPath):
		return exitInvalidPath
	case errors.Is(err, alf.ErrInvalidPathConversion), errors.Is(err, alf.ErrInvalidFilterPattern):
		return exitUsage
	default:
		return exitIO
	}
}

// exitStatus returns process exit status for a run result.
func exitStatus(err error) int {
	if err == nil {
		return exitOK
	}

	if coder, ok := err.(interface{ ExitCode() int }); ok {
		return coder.ExitCode()
	}

	return exitUsage
}
