// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/alf

package alf

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// EncodeHeader serializes header into fixed 16-byte little-endian form.
func EncodeHeader(h Header) []byte {
	buf := make([]byte, HeaderSize)
	copy(buf[0:4], h.Magic[:])
	binary.LittleEndian.PutUint32(buf[4:8], h.Flags)
	binary.LittleEndian.PutUint32(buf[8:12], h.EntryCount)
	binary.LittleEndian.PutUint32(buf[12:16], uint32(h.TableOffset)) //nolint:gosec // wire keeps sign bit as-is

	return buf
}

// DecodeHeader parses fixed header bytes and validates magic.
// Flags are returned as stored; compression policy is checked by the reader.
func DecodeHeader(b []byte) (Header, error) {
	var h Header
	if len(b) < HeaderSize {
		return h, fmt.Errorf("%w: header has %d of %d bytes", ErrUnexpectedEOF, len(b), HeaderSize)
	}

	copy(h.Magic[:], b[0:4])
	if h.Magic != Magic {
		return h, fmt.Errorf("%w: got %q", ErrBadMagic, h.Magic[:])
	}

	h.Flags = binary.LittleEndian.Uint32(b[4:8])
	h.EntryCount = binary.LittleEndian.Uint32(b[8:12])
	h.TableOffset = int32(binary.LittleEndian.Uint32(b[12:16])) //nolint:gosec // wire keeps sign bit as-is

	return h, nil
}

// EncodeEntry serializes one directory record. Caller guarantees len(e.Path) <= MaxPathLen.
func EncodeEntry(e EntryInfo) []byte {
	buf := make([]byte, EntryPrefixSize+len(e.Path))
	binary.LittleEndian.PutUint32(buf[0:4], e.Checksum)
	binary.LittleEndian.PutUint32(buf[4:8], e.Size)
	binary.LittleEndian.PutUint32(buf[8:12], uint32(e.Offset)) //nolint:gosec // wire keeps sign bit as-is
	buf[12] = byte(len(e.Path))
	copy(buf[EntryPrefixSize:], e.Path)

	return buf
}

// DecodeEntryPrefix parses fixed 13-byte record prefix.
func DecodeEntryPrefix(b []byte) (EntryPrefix, error) {
	var p EntryPrefix
	if len(b) < EntryPrefixSize {
		return p, fmt.Errorf("%w: entry record has %d of %d bytes", ErrUnexpectedEOF, len(b), EntryPrefixSize)
	}

	p.Checksum = binary.LittleEndian.Uint32(b[0:4])
	p.Size = binary.LittleEndian.Uint32(b[4:8])
	p.Offset = int32(binary.LittleEndian.Uint32(b[8:12])) //nolint:gosec // wire keeps sign bit as-is
	p.PathLength = b[12]

	return p, nil
}

// readEntryRecord reads one record prefix and its path bytes from stream.
func readEntryRecord(r io.Reader) (EntryInfo, error) {
	var prefix [EntryPrefixSize]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return EntryInfo{}, shortReadError("read entry record", err)
	}

	p, err := DecodeEntryPrefix(prefix[:])
	if err != nil {
		return EntryInfo{}, err
	}

	path := make([]byte, p.PathLength)
	if _, err := io.ReadFull(r, path); err != nil {
		return EntryInfo{}, shortReadError("read entry path", err)
	}

	return EntryInfo{
		Path:     string(path),
		Checksum: p.Checksum,
		Size:     p.Size,
		Offset:   p.Offset,
	}, nil
}

// shortReadError maps io EOF conditions to ErrUnexpectedEOF and keeps other I/O errors.
func shortReadError(op string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %s", ErrUnexpectedEOF, op)
	}

	return fmt.Errorf("%s: %w", op, err)
}
