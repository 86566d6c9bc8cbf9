// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/alf

package alf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	billy "gopkg.in/src-d/go-billy.v4"
	"gopkg.in/src-d/go-billy.v4/osfs"
)

// extractCopyBufferSize defines buffer size for file copy during extraction.
const extractCopyBufferSize = 64 * 1024

// extractWorkItem stores one selected entry with prepared output relative paths.
type extractWorkItem struct {
	relPath string
	relDir  string
	entry   EntryInfo
}

// ExtractTo writes entries into dstDir on the host filesystem.
func (r *Reader) ExtractTo(ctx context.Context, dstDir string, opts ExtractOptions) error {
	return r.Extract(ctx, osfs.New(dstDir), opts)
}

// Extract writes every entry (or every entry passing opts.Filter) to dst in table order.
// Stored paths are converted to POSIX form regardless of reader policy.
// By default the first failure stops extraction, and unsafe entry paths fail it before
// anything is written. With opts.ContinueOnError those entries are skipped instead.
func (r *Reader) Extract(ctx context.Context, dst billy.Basic, opts ExtractOptions) error {
	if r == nil || r.ra == nil {
		return ErrNilReader
	}

	if dst == nil {
		return ErrNilWriter
	}

	if r.isClosed() {
		return ErrClosed
	}

	if ctx == nil {
		ctx = context.Background()
	}

	workItems, errs := prepareExtractWorkItems(r.entries, opts.Filter)
	if len(errs) > 0 && !opts.ContinueOnError {
		return errs[0]
	}

	if err := prepareExtractDirs(dst, workItems); err != nil {
		return err
	}

	copyBuf := make([]byte, extractCopyBufferSize)
	for _, task := range workItems {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := r.extractPreparedEntry(dst, task, copyBuf, opts.OnEntryDone); err != nil {
			if !opts.ContinueOnError {
				return err
			}

			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// prepareExtractWorkItems selects entries and prepares relative slash paths.
// Entries with unsafe paths are left out and reported in errs, in table order.
func prepareExtractWorkItems(entries []EntryInfo, filter *Filter) ([]extractWorkItem, []error) {
	workItems := make([]extractWorkItem, 0, len(entries))
	var errs []error
	for _, entry := range entries {
		posixPath := entry.POSIXPath()
		if !filter.Match(posixPath) {
			continue
		}

		relPath, err := normalizeExtractEntryPath(posixPath)
		if err != nil {
			errs = append(errs, fmt.Errorf("normalize entry path %s: %w", entry.Path, err))
			continue
		}

		relDir := path.Dir(relPath)
		if relDir == "." {
			relDir = ""
		}

		workItems = append(workItems, extractWorkItem{
			entry:   entry,
			relPath: relPath,
			relDir:  relDir,
		})
	}

	return workItems, errs
}

// prepareExtractDirs creates all unique parent directories needed by work items.
func prepareExtractDirs(dst billy.Basic, workItems []extractWorkItem) error {
	var dirs billy.Dir
	seen := make(map[string]struct{}, len(workItems))
	for _, task := range workItems {
		if task.relDir == "" {
			continue
		}

		if _, exists := seen[task.relDir]; exists {
			continue
		}
		seen[task.relDir] = struct{}{}

		if dirs == nil {
			var err error
			if dirs, err = RequireDirs(dst); err != nil {
				return fmt.Errorf("create output directory %s: %w", task.relDir, err)
			}
		}

		if err := dirs.MkdirAll(task.relDir, 0o755); err != nil {
			return fmt.Errorf("create output directory %s: %w", task.relDir, err)
		}
	}

	return nil
}

// extractPreparedEntry copies one entry payload into destination file.
func (r *Reader) extractPreparedEntry(
	dst billy.Basic,
	task extractWorkItem,
	copyBuf []byte,
	onEntryDone func(entry EntryInfo, written int64, outputPath string),
) error {
	rc, err := r.openEntryByInfo(task.entry)
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()

	file, err := dst.OpenFile(task.relPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", task.relPath, err)
	}

	written, copyErr := io.CopyBuffer(file, rc, copyBuf)
	closeErr := file.Close()
	if copyErr != nil {
		return fmt.Errorf("write %s: %w", task.relPath, copyErr)
	}

	if closeErr != nil {
		return fmt.Errorf("close %s: %w", task.relPath, closeErr)
	}

	if onEntryDone != nil {
		onEntryDone(task.entry, written, dst.Join(task.relPath))
	}

	return nil
}

// normalizeExtractEntryPath drops the stored root separator and rejects traversal inputs.
func normalizeExtractEntryPath(entryPath string) (string, error) {
	raw := strings.TrimLeft(entryPath, "/")
	if raw == "" || strings.ContainsRune(raw, 0) {
		return "", ErrInvalidExtractPath
	}

	if hasWindowsAbsDrivePrefix(raw) {
		return "", ErrInvalidExtractPath
	}

	parts := strings.Split(raw, "/")
	cleanParts := make([]string, 0, len(parts))
	for _, part := range parts {
		switch part {
		case "", ".":
			continue
		case "..":
			return "", ErrInvalidExtractPath
		default:
			cleanParts = append(cleanParts, part)
		}
	}
	if len(cleanParts) == 0 {
		return "", ErrInvalidExtractPath
	}

	return strings.Join(cleanParts, "/"), nil
}

// hasWindowsAbsDrivePrefix reports whether path starts with drive-root prefix like C:/.
func hasWindowsAbsDrivePrefix(p string) bool {
	if len(p) < 3 {
		return false
	}

	return isASCIIAlpha(p[0]) && p[1] == ':' && p[2] == '/'
}

// isASCIIAlpha reports whether byte is ASCII latin letter.
func isASCIIAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
