// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/alf

package alf

import (
	"hash"
	"io"
	"time"
)

// Binary layout and format limits.
const (
	HeaderSize      = 16  // fixed ALF header size in bytes
	EntryPrefixSize = 13  // fixed directory record size before path bytes
	MaxPathLen      = 255 // max stored path length (uint8 length field)

	maxOffset = 1<<31 - 1 // offsets are stored as signed 32-bit values
)

// Magic is the 4-byte tag at the start of every ALF archive.
var Magic = [4]byte{'K', 'A', 'I', '!'}

// Header flag bits.
const (
	// FlagCompressed marks LZ4-compressed payload. Reserved and never written.
	FlagCompressed uint32 = 1 << 0
)

// Default writer tuning values.
const (
	DefaultChunkSize   = 1024 * 1024
	DefaultWriteBuffer = 4 * 1024 * 1024
)

// Header is the fixed 16-byte archive header.
type Header struct {
	// Magic must equal Magic.
	Magic [4]byte `json:"magic" yaml:"magic"`
	// Flags holds format flag bits.
	Flags uint32 `json:"flags,omitempty" yaml:"flags,omitempty"`
	// EntryCount is number of directory records.
	EntryCount uint32 `json:"entry_count" yaml:"entry_count"`
	// TableOffset is absolute offset of the directory table.
	TableOffset int32 `json:"table_offset" yaml:"table_offset"`
}

// IsCompressed reports whether the header declares compressed payload.
func (h Header) IsCompressed() bool {
	return h.Flags&FlagCompressed != 0
}

// EntryPrefix is the fixed part of one directory record.
type EntryPrefix struct {
	Checksum   uint32
	Size       uint32
	Offset     int32
	PathLength uint8
}

// EntryInfo describes a single parsed ALF directory entry.
type EntryInfo struct {
	// Path is the entry path as stored in the directory table.
	Path string `json:"path" yaml:"path"`
	// Checksum is CRC-32 (IEEE) of entry content.
	Checksum uint32 `json:"checksum" yaml:"checksum"`
	// Size is content length in bytes.
	Size uint32 `json:"size" yaml:"size"`
	// Offset is absolute byte offset of entry content.
	Offset int32 `json:"offset" yaml:"offset"`
}

// POSIXPath returns stored path with "/" separators.
func (e EntryInfo) POSIXPath() string {
	return ToPOSIX(e.Path)
}

// Input describes one source stream to be packed into an ALF entry.
type Input struct {
	// Open returns raw source stream for this entry.
	Open func() (io.ReadCloser, error) `json:"-" yaml:"-"`
	// Path is source path relative to the archive root.
	Path string `json:"path" yaml:"path"`
	// Size is expected content size; negative disables the size check.
	Size int64 `json:"size" yaml:"size"`
}

// PackEntryProgress contains one completed entry write event from pack flow.
type PackEntryProgress struct {
	// SourcePath is input path as supplied by caller.
	SourcePath string `json:"source_path" yaml:"source_path"`
	// Path is stored entry path.
	Path string `json:"path" yaml:"path"`
	// Checksum is CRC-32 of written content.
	Checksum uint32 `json:"checksum" yaml:"checksum"`
	// Size is written content size.
	Size uint32 `json:"size" yaml:"size"`
	// Offset is content offset in resulting archive.
	Offset int32 `json:"offset" yaml:"offset"`
}

// SkipReason explains why an input was not packed.
type SkipReason string

// Input skip reasons.
const (
	// SkipNotRegular marks directories, devices, sockets and other non-regular files.
	SkipNotRegular SkipReason = "not a regular file"
	// SkipFiltered marks inputs rejected by PackOptions.Filter.
	SkipFiltered SkipReason = "excluded by filter"
)

// PackOptions configures pack behavior.
type PackOptions struct {
	// OnEntryDone is called after one entry is fully written to archive payload.
	OnEntryDone func(entry PackEntryProgress) `json:"-" yaml:"-"`
	// OnSkip is called for every input that is not packed.
	OnSkip func(path string, reason SkipReason) `json:"-" yaml:"-"`
	// NewChecksum constructs the streaming checksum; defaults to CRC-32 IEEE.
	NewChecksum func() hash.Hash32 `json:"-" yaml:"-"`
	// Filter limits packed inputs; nil packs everything.
	Filter *Filter `json:"-" yaml:"-"`
	// PathConversion controls stored path separators.
	PathConversion PathConversion `json:"path_conversion,omitempty" yaml:"path_conversion,omitempty"`
	// ChunkSize is streaming copy chunk size in bytes.
	ChunkSize int `json:"chunk_size,omitempty" yaml:"chunk_size,omitempty"`
	// WriterBufferSize is buffered writer size in bytes.
	WriterBufferSize int `json:"writer_buffer_size,omitempty" yaml:"writer_buffer_size,omitempty"`
}

// PackResult contains pack output statistics.
type PackResult struct {
	// WrittenEntries is number of entries written to archive.
	WrittenEntries int `json:"written_entries" yaml:"written_entries"`
	// SkippedEntries is number of inputs reported through OnSkip.
	SkippedEntries int `json:"skipped_entries,omitempty" yaml:"skipped_entries,omitempty"`
	// DataSize is total payload bytes written.
	DataSize int64 `json:"data_size" yaml:"data_size"`
	// IndexSize is total directory table bytes written.
	IndexSize int64 `json:"index_size" yaml:"index_size"`
	// TableOffset is final directory table offset.
	TableOffset int32 `json:"table_offset" yaml:"table_offset"`
	// Duration is end-to-end pack core duration.
	Duration time.Duration `json:"duration,omitempty" yaml:"duration,omitempty"`
}

// ReaderOptions configures reader lookup behavior.
type ReaderOptions struct {
	// PathConversion selects single-file lookup convention.
	PathConversion PathConversion `json:"path_conversion,omitempty" yaml:"path_conversion,omitempty"`
}

// ExtractOptions configures Extract behavior.
type ExtractOptions struct {
	// OnEntryDone is called after one entry is fully written to destination.
	OnEntryDone func(entry EntryInfo, written int64, outputPath string) `json:"-" yaml:"-"`
	// Filter limits extracted entries; nil extracts everything.
	Filter *Filter `json:"-" yaml:"-"`
	// ContinueOnError keeps extracting after a failed entry and returns joined errors.
	// Default is fail-fast.
	ContinueOnError bool `json:"continue_on_error,omitempty" yaml:"continue_on_error,omitempty"`
}

// applyDefaults fills zero-valued pack options with defaults.
func (opts *PackOptions) applyDefaults() {
	if opts.PathConversion == "" {
		opts.PathConversion = PathConversionWrite
	}

	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}

	if opts.WriterBufferSize < 4096 {
		opts.WriterBufferSize = DefaultWriteBuffer
	}

	if opts.NewChecksum == nil {
		opts.NewChecksum = NewChecksum
	}
}

// applyDefaults fills zero-valued reader options with defaults.
func (opts *ReaderOptions) applyDefaults() {
	if opts.PathConversion == "" {
		opts.PathConversion = PathConversionWrite
	}
}
