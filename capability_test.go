// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/alf

package alf

import (
	"errors"
	"hash"
	"testing"

	"gopkg.in/src-d/go-billy.v4/memfs"
)

func TestProbeCapabilities(t *testing.T) {
	t.Parallel()

	full := ProbeCapabilities(memfs.New(), NewChecksum)
	if !full.Checksum || !full.CreateDirs {
		t.Fatalf("memfs caps=%+v, want all", full)
	}

	basic := ProbeCapabilities(basicOnlyFS{Basic: memfs.New()}, nil)
	if basic.Checksum || basic.CreateDirs {
		t.Fatalf("basic caps=%+v, want none", basic)
	}

	broken := ProbeCapabilities(nil, func() hash.Hash32 { return nil })
	if broken.Checksum {
		t.Fatal("nil hash constructor result must not report checksum support")
	}
}

func TestRequireDirs(t *testing.T) {
	t.Parallel()

	if _, err := RequireDirs(memfs.New()); err != nil {
		t.Fatalf("RequireDirs memfs: %v", err)
	}

	if _, err := RequireDirs(basicOnlyFS{Basic: memfs.New()}); !errors.Is(err, ErrMissingCapability) {
		t.Fatalf("expected ErrMissingCapability, got %v", err)
	}
}
