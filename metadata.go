// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/alf

package alf

import (
	"io"
)

// ReadHeader opens an ALF and returns only the fixed header without parsing directory table.
func ReadHeader(path string) (Header, error) {
	f, _, err := openFileWithSize(path)
	if err != nil {
		return Header{}, err
	}
	defer func() { _ = f.Close() }()

	return ReadHeaderFromReaderAt(f)
}

// ReadHeaderFromReaderAt reads only the fixed header from a random-access source.
func ReadHeaderFromReaderAt(ra io.ReaderAt) (Header, error) {
	if ra == nil {
		return Header{}, ErrNilReader
	}

	return parseHeader(ra)
}

// ListEntries opens an ALF and returns directory entries without payload reads.
func ListEntries(path string) ([]EntryInfo, error) {
	f, size, err := openFileWithSize(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return ListEntriesFromReaderAt(f, size)
}

// ListEntriesFromReaderAt parses directory entries from a random-access source.
func ListEntriesFromReaderAt(ra io.ReaderAt, size int64) ([]EntryInfo, error) {
	header, err := ReadHeaderFromReaderAt(ra)
	if err != nil {
		return nil, err
	}

	return parseTable(ra, size, header)
}
