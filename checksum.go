// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/alf

package alf

import (
	"hash"
	"hash/crc32"
	"io"
)

// NewChecksum returns streaming CRC-32 (IEEE, zlib/gzip variant) state.
func NewChecksum() hash.Hash32 {
	return crc32.NewIEEE()
}

// Checksum computes CRC-32 (IEEE) over the whole stream.
func Checksum(r io.Reader) (uint32, error) {
	h := NewChecksum()
	if _, err := io.Copy(h, r); err != nil {
		return 0, err
	}

	return h.Sum32(), nil
}

// checksumWriter forwards writes to archive output and feeds the same bytes to hash.
type checksumWriter struct {
	w io.Writer
	h hash.Hash32
	n int64
}

// Write writes p to underlying writer and updates checksum with written bytes.
func (c *checksumWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	if n > 0 {
		_, _ = c.h.Write(p[:n])
		c.n += int64(n)
	}

	return n, err
}
