// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/alf

package alf

import (
	"fmt"
	"hash"

	billy "gopkg.in/src-d/go-billy.v4"
)

// Capabilities reports optional runtime support available to readers and writers.
type Capabilities struct {
	// Checksum reports whether a checksum constructor is available for packing.
	Checksum bool `json:"checksum" yaml:"checksum"`
	// CreateDirs reports whether filesystem can create missing directories on extract.
	CreateDirs bool `json:"create_dirs" yaml:"create_dirs"`
}

// ProbeCapabilities inspects filesystem and checksum constructor once at startup.
func ProbeCapabilities(fs billy.Basic, newChecksum func() hash.Hash32) Capabilities {
	var caps Capabilities
	if newChecksum != nil {
		caps.Checksum = newChecksum() != nil
	}

	if fs != nil {
		_, caps.CreateDirs = fs.(billy.Dir)
	}

	return caps
}

// RequireDirs returns directory support of fs or ErrMissingCapability.
func RequireDirs(fs billy.Basic) (billy.Dir, error) {
	dirs, ok := fs.(billy.Dir)
	if !ok {
		return nil, fmt.Errorf("%w: filesystem cannot create directories", ErrMissingCapability)
	}

	return dirs, nil
}
