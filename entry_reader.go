// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/alf

package alf

import (
	"fmt"
	"io"
)

// Lookup resolves one entry by requested path using reader path conversion policy.
func (r *Reader) Lookup(name string) (EntryInfo, bool) {
	if r == nil {
		return EntryInfo{}, false
	}

	i, ok := r.index[r.opts.PathConversion.lookupKey(name)]
	if !ok {
		return EntryInfo{}, false
	}

	return r.entries[i], true
}

// OpenEntry opens named entry content for reading.
func (r *Reader) OpenEntry(name string) (io.ReadCloser, error) {
	if r == nil || r.ra == nil {
		return nil, ErrNilReader
	}

	if r.isClosed() {
		return nil, ErrClosed
	}

	info, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, r.opts.PathConversion.lookupKey(name))
	}

	return r.openEntryByInfo(info)
}

// OpenEntryInfo opens entry content by already resolved metadata.
func (r *Reader) OpenEntryInfo(info EntryInfo) (io.ReadCloser, error) {
	if r == nil || r.ra == nil {
		return nil, ErrNilReader
	}

	if r.isClosed() {
		return nil, ErrClosed
	}

	return r.openEntryByInfo(info)
}

// ReadEntry reads full content of the named entry.
func (r *Reader) ReadEntry(name string) ([]byte, error) {
	rc, err := r.OpenEntry(name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read entry %s: %w", name, err)
	}

	return data, nil
}

// openEntryByInfo returns exact-size content stream for entry.
func (r *Reader) openEntryByInfo(info EntryInfo) (io.ReadCloser, error) {
	if info.Offset < 0 {
		return nil, fmt.Errorf("%w: entry %s has negative offset %d", ErrMalformed, info.Path, info.Offset)
	}

	sr := io.NewSectionReader(r.ra, int64(info.Offset), int64(info.Size))
	return &exactReader{r: sr, remaining: int64(info.Size), path: info.Path}, nil
}

// exactReader turns early EOF on entry content into ErrUnexpectedEOF.
type exactReader struct {
	r         io.Reader
	path      string
	remaining int64
}

// Read reads entry content and reports truncated payload.
func (e *exactReader) Read(p []byte) (int, error) {
	if e.remaining <= 0 {
		return 0, io.EOF
	}

	if int64(len(p)) > e.remaining {
		p = p[:e.remaining]
	}

	n, err := e.r.Read(p)
	e.remaining -= int64(n)
	if err == io.EOF && e.remaining > 0 {
		return n, fmt.Errorf("%w: entry %s content ends %d bytes early", ErrUnexpectedEOF, e.path, e.remaining)
	}
	if err == io.EOF {
		err = nil
	}

	return n, err
}

// Close closes exactReader (no-op).
func (e *exactReader) Close() error {
	return nil
}
