// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/alf

package alf

import (
	"errors"
	"fmt"
)

// Sentinel errors for ALF operations. Use errors.Is in callers.
var (
	// ErrMalformed means archive bytes do not follow the ALF layout.
	ErrMalformed = errors.New("malformed ALF archive")
	// ErrBadMagic means the header does not start with the "KAI!" tag.
	ErrBadMagic = fmt.Errorf("%w: bad magic", ErrMalformed)
	// ErrUnexpectedEOF means the header or directory table ended early.
	ErrUnexpectedEOF = fmt.Errorf("%w: unexpected end of data", ErrMalformed)
	// ErrCompressedUnsupported means the archive declares compressed payload.
	ErrCompressedUnsupported = errors.New("compressed ALF archives are not supported")
	// ErrEntryNotFound means the entry is not found.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrSizeMismatch means streamed source size differs from its stat size.
	ErrSizeMismatch = errors.New("source size changed while packing")
	// ErrMissingCapability means a required runtime capability is unavailable.
	ErrMissingCapability = errors.New("missing capability")
	// ErrPathTooLong means the stored entry path exceeds 255 bytes.
	ErrPathTooLong = errors.New("entry path exceeds 255 bytes")
	// ErrSizeOverflow means the size or offset does not fit ALF 32-bit fields.
	ErrSizeOverflow = errors.New("size exceeds ALF 32-bit field limit")
	// ErrInvalidPathConversion means the path conversion policy name is unknown.
	ErrInvalidPathConversion = errors.New("invalid path conversion policy")
	// ErrInvalidExtractPath means archive entry path is invalid for extraction destination.
	ErrInvalidExtractPath = errors.New("invalid extract path")
	// ErrInvalidFilterPattern means one or more filter rules are invalid.
	ErrInvalidFilterPattern = errors.New("invalid filter rules")
	// ErrNilReader means the reader is nil.
	ErrNilReader = errors.New("reader is nil")
	// ErrNilWriter means the writer is nil.
	ErrNilWriter = errors.New("writer is nil")
	// ErrClosed means the reader or resource is already closed.
	ErrClosed = errors.New("reader or resource already closed")
)
