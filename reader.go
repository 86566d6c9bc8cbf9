// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/alf

package alf

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"iter"
	"os"
	"sync"
)

const (
	// readerTableBufferSize is a sequential read buffer for directory table parsing.
	readerTableBufferSize = 64 * 1024
)

var (
	// tableReaderPool reuses buffered readers for sequential table parsing.
	tableReaderPool = sync.Pool{
		New: func() any {
			return bufio.NewReaderSize(bytes.NewReader(nil), readerTableBufferSize)
		},
	}
)

// Reader provides read-only access to a parsed ALF file.
type Reader struct {
	// ra is the underlying random-access reader used for payload reads.
	ra io.ReaderAt
	// file is set when Reader owns an *os.File opened via Open.
	file *os.File
	// index maps lookup key to position of the last entry with that key.
	index map[string]int
	// entries stores parsed immutable entries in table order.
	entries []EntryInfo
	// header stores the parsed fixed header.
	header Header
	// opts stores lookup convention.
	opts ReaderOptions
	// size is total source size in bytes.
	size int64
	// mu guards closed state and close operation.
	mu sync.Mutex
	// closed reports whether Close was already called.
	closed bool
}

// Open opens ALF file by path and parses header and directory table.
func Open(path string) (*Reader, error) {
	return OpenWithOptions(path, ReaderOptions{})
}

// OpenWithOptions opens ALF file by path using explicit reader options.
func OpenWithOptions(path string, opts ReaderOptions) (*Reader, error) {
	f, size, err := openFileWithSize(path)
	if err != nil {
		return nil, err
	}

	r, err := NewReaderFromReaderAtWithOptions(f, size, opts)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	r.file = f
	return r, nil
}

// NewReaderFromReaderAt parses ALF from existing ReaderAt and known size.
func NewReaderFromReaderAt(ra io.ReaderAt, size int64) (*Reader, error) {
	return NewReaderFromReaderAtWithOptions(ra, size, ReaderOptions{})
}

// NewReaderFromReaderAtWithOptions parses ALF from existing ReaderAt and known size using explicit reader options.
func NewReaderFromReaderAtWithOptions(ra io.ReaderAt, size int64, opts ReaderOptions) (*Reader, error) {
	if ra == nil {
		return nil, ErrNilReader
	}

	opts.applyDefaults()
	if _, err := ParsePathConversion(string(opts.PathConversion)); err != nil {
		return nil, err
	}

	r := &Reader{ra: ra, size: size, opts: opts}
	if err := r.parse(); err != nil {
		return nil, err
	}

	return r, nil
}

// Header returns parsed archive header.
func (r *Reader) Header() Header {
	if r == nil {
		return Header{}
	}

	return r.header
}

// Entries returns a copy of parsed entries in table order.
func (r *Reader) Entries() []EntryInfo {
	if r == nil {
		return nil
	}

	entries := make([]EntryInfo, len(r.entries))
	copy(entries, r.entries)
	return entries
}

// Len returns number of parsed entries.
func (r *Reader) Len() int {
	if r == nil {
		return 0
	}

	return len(r.entries)
}

// List yields parsed entries in table order without touching the archive again.
// The sequence can be ranged over any number of times.
func (r *Reader) List() iter.Seq[EntryInfo] {
	return func(yield func(EntryInfo) bool) {
		if r == nil {
			return
		}

		for _, e := range r.entries {
			if !yield(e) {
				return
			}
		}
	}
}

// Close closes the underlying file if reader owns one.
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}

	r.closed = true
	if r.file != nil {
		return r.file.Close()
	}

	return nil
}

// isClosed reports whether Close was called.
func (r *Reader) isClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.closed
}

// parse reads header and directory table from ReaderAt.
func (r *Reader) parse() error {
	header, err := parseHeader(r.ra)
	if err != nil {
		return err
	}
	r.header = header

	entries, err := parseTable(r.ra, r.size, header)
	if err != nil {
		return err
	}
	r.entries = entries

	r.index = make(map[string]int, len(entries))
	for i := range entries {
		// Later entries overwrite earlier ones with the same key.
		r.index[r.opts.PathConversion.indexKey(entries[i].Path)] = i
	}

	return nil
}

// parseHeader reads fixed header and rejects compressed archives.
func parseHeader(ra io.ReaderAt) (Header, error) {
	buf := make([]byte, HeaderSize)
	n, err := ra.ReadAt(buf, 0)
	if err != nil && err != io.EOF {
		return Header{}, fmt.Errorf("read header: %w", err)
	}

	header, err := DecodeHeader(buf[:n])
	if err != nil {
		return Header{}, err
	}

	if header.IsCompressed() {
		return Header{}, fmt.Errorf("%w: flags 0x%08x", ErrCompressedUnsupported, header.Flags)
	}

	return header, nil
}

// parseTable reads header.EntryCount directory records starting at header.TableOffset.
func parseTable(ra io.ReaderAt, size int64, header Header) ([]EntryInfo, error) {
	tableOffset := int64(header.TableOffset)
	if tableOffset < 0 || tableOffset > size {
		return nil, fmt.Errorf("%w: table offset %d outside archive of %d bytes", ErrUnexpectedEOF, tableOffset, size)
	}

	sr := io.NewSectionReader(ra, tableOffset, size-tableOffset)
	br := tableReaderPool.Get().(*bufio.Reader) //nolint:forcetypeassert // pool contains only *bufio.Reader
	br.Reset(sr)
	defer func() {
		br.Reset(bytes.NewReader(nil))
		tableReaderPool.Put(br)
	}()

	entries := make([]EntryInfo, 0, estimateEntryCapacity(header.EntryCount, size-tableOffset))
	for i := uint32(0); i < header.EntryCount; i++ {
		entry, err := readEntryRecord(br)
		if err != nil {
			return nil, fmt.Errorf("entry %d of %d: %w", i, header.EntryCount, err)
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// estimateEntryCapacity bounds initial slice capacity by bytes that can hold records.
func estimateEntryCapacity(count uint32, remainingBytes int64) int {
	maxRecords := remainingBytes / EntryPrefixSize
	if int64(count) < maxRecords {
		return int(count)
	}

	return int(maxRecords)
}

// openFileWithSize opens a file and returns a handle plus current size.
func openFileWithSize(path string) (*os.File, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open ALF: %w", err)
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, fmt.Errorf("stat: %w", err)
	}

	return f, fi.Size(), nil
}
