// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/alf

/*
Package alf provides read, list, extract and pack operations for ALF archives:
a fixed header, raw file payloads, and a flat directory table of
checksum/size/offset/path records.

Layout (all integers little-endian):

	header    16 bytes   magic "KAI!", flags u32, entry_count u32, table_offset i32
	payloads  ...        raw file contents, back to back
	table     ...        per entry: checksum u32, size u32, offset i32, path_len u8, path

Flag bit 0 declares compressed payload. Compression is not implemented:
Open rejects such archives with ErrCompressedUnsupported and Pack never sets it.

# Paths

Stored paths start with a separator. PathConversion selects their convention:
  - PathConversionWrite (default) stores Windows-style "\" paths;
  - PathConversionAlways stores the same and compares POSIX forms on lookup;
  - PathConversionNever stores host paths verbatim.

Conversion is a plain separator swap without escaping, so a literal backslash
inside a POSIX file name does not survive a round trip.

# Reading

	r, err := alf.Open("data.alf")
	if err != nil {
	    return err
	}
	defer r.Close()
	for e := range r.List() {
	    fmt.Printf("%08x %d %s\n", e.Checksum, e.Size, e.POSIXPath())
	}
	data, err := r.ReadEntry("dir/b.txt")

Extract writes every entry under a destination directory, creating parents:

	err = r.ExtractTo(ctx, "out", alf.ExtractOptions{})

# Packing

	_, err := alf.PackFile(ctx, "data.alf", osfs.New("."), []string{"a.txt", "dir/b.txt"}, alf.PackOptions{})

Each payload is streamed with a running CRC-32 (IEEE). A source whose streamed
size differs from its stat size fails the whole pack with ErrSizeMismatch.
Entry checksums are stored but never verified on read.
*/
package alf
