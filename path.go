// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/alf

package alf

import (
	"fmt"
	"strings"
)

// PathConversion controls separator translation of stored entry paths.
type PathConversion string

// Path conversion policies.
const (
	// PathConversionNever stores paths verbatim in host convention.
	PathConversionNever PathConversion = "never"
	// PathConversionWrite stores Windows-style paths and looks entries up by Windows form.
	PathConversionWrite PathConversion = "write"
	// PathConversionAlways stores Windows-style paths and converts back to POSIX on every read.
	PathConversionAlways PathConversion = "always"
)

// ParsePathConversion parses policy name; empty string selects PathConversionWrite.
func ParsePathConversion(raw string) (PathConversion, error) {
	switch PathConversion(strings.ToLower(strings.TrimSpace(raw))) {
	case "", PathConversionWrite:
		return PathConversionWrite, nil
	case PathConversionNever:
		return PathConversionNever, nil
	case PathConversionAlways:
		return PathConversionAlways, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPathConversion, raw)
	}
}

// Unsafe reports whether policy produces archives bound to host separator convention.
func (c PathConversion) Unsafe() bool {
	return c == PathConversionNever
}

// ToWindows replaces every "/" with "\".
// Literal backslashes inside names are indistinguishable from separators.
func ToWindows(path string) string {
	return strings.ReplaceAll(path, "/", `\`)
}

// ToPOSIX replaces every "\" with "/".
// Literal backslashes inside names are indistinguishable from separators.
func ToPOSIX(path string) string {
	return strings.ReplaceAll(path, `\`, "/")
}

// StoredPath converts source path to stored form: rooted with a separator, converted per policy.
func (c PathConversion) StoredPath(source string) string {
	rooted := "/" + trimSourcePath(source)
	if c == PathConversionNever {
		return rooted
	}

	return ToWindows(rooted)
}

// lookupKey returns the key compared against indexed stored paths.
func (c PathConversion) lookupKey(requested string) string {
	if !strings.HasPrefix(requested, "/") && !strings.HasPrefix(requested, `\`) {
		requested = "/" + requested
	}

	if c == PathConversionAlways {
		return ToPOSIX(requested)
	}

	return ToWindows(requested)
}

// indexKey returns the key a stored path is indexed by.
func (c PathConversion) indexKey(stored string) string {
	if c == PathConversionAlways {
		return ToPOSIX(stored)
	}

	return stored
}

// trimSourcePath drops leading "./" segments and separators from a source path.
func trimSourcePath(source string) string {
	for {
		switch {
		case strings.HasPrefix(source, "./"), strings.HasPrefix(source, `.\`):
			source = source[2:]
		case strings.HasPrefix(source, "/"), strings.HasPrefix(source, `\`):
			source = source[1:]
		default:
			return source
		}
	}
}
