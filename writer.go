// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/alf

package alf

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	billy "gopkg.in/src-d/go-billy.v4"
)

// Pack writes an ALF archive to out from inputs in the given order.
// out is rewound to offset 0 first; the archive always starts there.
func Pack(ctx context.Context, out io.WriteSeeker, inputs []Input, opts PackOptions) (*PackResult, error) {
	if out == nil {
		return nil, ErrNilWriter
	}

	if ctx == nil {
		ctx = context.Background()
	}

	opts.applyDefaults()
	if _, err := ParsePathConversion(string(opts.PathConversion)); err != nil {
		return nil, err
	}

	return writeArchive(ctx, out, inputs, opts)
}

// PackFiles writes an ALF archive to out from source paths resolved on src.
// Paths rejected by opts.Filter are skipped before stat; paths that are not regular
// files are skipped too. Both are reported through opts.OnSkip.
func PackFiles(ctx context.Context, out io.WriteSeeker, src billy.Basic, paths []string, opts PackOptions) (*PackResult, error) {
	if src == nil {
		return nil, ErrNilReader
	}

	inputs := make([]Input, 0, len(paths))
	skipped := 0
	for _, p := range paths {
		if !opts.Filter.Match(p) {
			skipped++
			if opts.OnSkip != nil {
				opts.OnSkip(p, SkipFiltered)
			}

			continue
		}

		fi, err := src.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}

		if !fi.Mode().IsRegular() {
			skipped++
			if opts.OnSkip != nil {
				opts.OnSkip(p, SkipNotRegular)
			}

			continue
		}

		name := p
		inputs = append(inputs, Input{
			Path: name,
			Size: fi.Size(),
			Open: func() (io.ReadCloser, error) {
				return src.Open(name)
			},
		})
	}

	res, err := Pack(ctx, out, inputs, opts)
	if err != nil {
		return nil, err
	}

	res.SkippedEntries += skipped
	return res, nil
}

// PackFile creates outPath and writes an ALF archive from source paths resolved on src.
// The partially written file is removed on failure.
func PackFile(ctx context.Context, outPath string, src billy.Basic, paths []string, opts PackOptions) (*PackResult, error) {
	f, err := os.OpenFile(outPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create ALF file: %w", err)
	}

	res, err := PackFiles(ctx, f, src, paths, opts)
	if err == nil {
		err = f.Sync()
	}

	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("close ALF file: %w", closeErr)
	}

	if err != nil {
		_ = os.Remove(outPath)
		return nil, err
	}

	return res, nil
}

// writeArchive runs the write protocol: placeholder header, payloads, header rewrite, directory table.
func writeArchive(ctx context.Context, out io.WriteSeeker, inputs []Input, opts PackOptions) (*PackResult, error) {
	startedAt := time.Now()

	if _, err := out.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek to start: %w", err)
	}

	if _, err := out.Write(make([]byte, HeaderSize)); err != nil {
		return nil, fmt.Errorf("write placeholder header: %w", err)
	}

	w := bufio.NewWriterSize(out, opts.WriterBufferSize)
	chunk := make([]byte, opts.ChunkSize)
	entries := make([]EntryInfo, 0, len(inputs))
	cursor := int64(HeaderSize)
	skipped := 0

	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if !opts.Filter.Match(in.Path) {
			skipped++
			if opts.OnSkip != nil {
				opts.OnSkip(in.Path, SkipFiltered)
			}

			continue
		}

		entry, err := writeInputPayload(w, in, opts, cursor, chunk)
		if err != nil {
			return nil, err
		}

		entries = append(entries, entry)
		cursor += int64(entry.Size)

		if opts.OnEntryDone != nil {
			opts.OnEntryDone(PackEntryProgress{
				SourcePath: in.Path,
				Path:       entry.Path,
				Checksum:   entry.Checksum,
				Size:       entry.Size,
				Offset:     entry.Offset,
			})
		}
	}

	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("flush payloads: %w", err)
	}

	if cursor > maxOffset {
		return nil, fmt.Errorf("%w: table offset %d", ErrSizeOverflow, cursor)
	}

	header := Header{
		Magic:       Magic,
		EntryCount:  uint32(len(entries)), //nolint:gosec // bounded by table offset check above
		TableOffset: int32(cursor),
	}

	if _, err := out.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek to header: %w", err)
	}

	if _, err := out.Write(EncodeHeader(header)); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	if _, err := out.Seek(cursor, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek to table: %w", err)
	}

	w.Reset(out)
	var indexSize int64
	for i := range entries {
		n, err := w.Write(EncodeEntry(entries[i]))
		indexSize += int64(n)
		if err != nil {
			return nil, fmt.Errorf("write entry %d: %w", i, err)
		}
	}

	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("flush table: %w", err)
	}

	return &PackResult{
		WrittenEntries: len(entries),
		SkippedEntries: skipped,
		DataSize:       cursor - HeaderSize,
		IndexSize:      indexSize,
		TableOffset:    header.TableOffset,
		Duration:       time.Since(startedAt),
	}, nil
}

// writeInputPayload streams one input into dst and returns its directory entry.
func writeInputPayload(dst io.Writer, in Input, opts PackOptions, cursor int64, chunk []byte) (EntryInfo, error) {
	stored := opts.PathConversion.StoredPath(in.Path)
	if len(stored) > MaxPathLen {
		return EntryInfo{}, fmt.Errorf("%w: %s (%d bytes)", ErrPathTooLong, in.Path, len(stored))
	}

	if _, err := normalizeExtractEntryPath(ToPOSIX(stored)); err != nil {
		return EntryInfo{}, fmt.Errorf("%w: %s cannot be extracted as %s", err, in.Path, stored)
	}

	if cursor > maxOffset {
		return EntryInfo{}, fmt.Errorf("%w: entry %s offset %d", ErrSizeOverflow, in.Path, cursor)
	}

	if in.Open == nil {
		return EntryInfo{}, fmt.Errorf("input %s: Open is nil", in.Path)
	}

	rc, err := in.Open()
	if err != nil {
		return EntryInfo{}, fmt.Errorf("open input %s: %w", in.Path, err)
	}

	cw := &checksumWriter{w: dst, h: opts.NewChecksum()}
	streamErr := copyChunks(cw, rc, chunk)
	closeErr := rc.Close()
	if streamErr != nil {
		return EntryInfo{}, fmt.Errorf("stream input %s: %w", in.Path, streamErr)
	}

	if closeErr != nil {
		return EntryInfo{}, fmt.Errorf("close input %s: %w", in.Path, closeErr)
	}

	if in.Size >= 0 && cw.n != in.Size {
		return EntryInfo{}, fmt.Errorf("%w: %s streamed %d bytes, stat reported %d", ErrSizeMismatch, in.Path, cw.n, in.Size)
	}

	if cw.n > int64(^uint32(0)) || cursor+cw.n > maxOffset {
		return EntryInfo{}, fmt.Errorf("%w: entry %s size %d at offset %d", ErrSizeOverflow, in.Path, cw.n, cursor)
	}

	return EntryInfo{
		Path:     stored,
		Checksum: cw.h.Sum32(),
		Size:     uint32(cw.n),
		Offset:   int32(cursor),
	}, nil
}

// copyChunks streams src into dst in fixed-size chunks.
func copyChunks(dst io.Writer, src io.Reader, chunk []byte) error {
	for {
		n, readErr := src.Read(chunk)
		if n > 0 {
			nw, writeErr := dst.Write(chunk[:n])
			if writeErr != nil {
				return writeErr
			}

			if nw != n {
				return io.ErrShortWrite
			}
		}

		if errors.Is(readErr, io.EOF) {
			return nil
		}

		if readErr != nil {
			return readErr
		}
	}
}
