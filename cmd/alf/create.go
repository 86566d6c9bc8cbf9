// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/alf

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"gopkg.in/src-d/go-billy.v4/osfs"

	"github.com/woozymasta/alf"
)

// create writes a new archive from source paths listed on stdin.
func (a *app) create(ctx context.Context) error {
	policy, err := a.pathConversion()
	if err != nil {
		return err
	}

	if policy.Unsafe() {
		a.console.Warnf("path conversion %q stores host separators, archive may not be portable", policy)
	}

	filter, err := a.filter()
	if err != nil {
		return usageError(err)
	}

	paths, err := readSourcePaths(a.stdin)
	if err != nil {
		return err
	}

	// Sources resolve against the working directory; parent traversal fails as an invalid path.
	src := &osfs.OS{}
	if !alf.ProbeCapabilities(src, alf.NewChecksum).Checksum {
		return fmt.Errorf("%w: checksum support unavailable", alf.ErrMissingCapability)
	}

	log := a.log.WithField("archive", a.opts.Args.Archive)
	log.WithField("sources", len(paths)).Debug("creating archive")

	res, err := alf.PackFile(ctx, a.opts.Args.Archive, src, paths, alf.PackOptions{
		PathConversion: policy,
		Filter:         filter,
		OnEntryDone: func(entry alf.PackEntryProgress) {
			log.WithFields(logrus.Fields{
				"path":     entry.Path,
				"size":     entry.Size,
				"offset":   entry.Offset,
				"checksum": fmt.Sprintf("%08x", entry.Checksum),
			}).Debug("packed")
		},
		OnSkip: func(path string, reason alf.SkipReason) {
			if reason == alf.SkipNotRegular {
				a.console.Warnf("skipping %s: %s", path, reason)
				return
			}

			log.WithField("path", path).Debugf("skipped: %s", reason)
		},
	})
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"entries":  res.WrittenEntries,
		"skipped":  res.SkippedEntries,
		"data":     humanize.IBytes(uint64(res.DataSize)),
		"index":    humanize.IBytes(uint64(res.IndexSize)),
		"duration": res.Duration,
	}).Info("archive written")

	return nil
}

// readSourcePaths returns non-blank lines of r with trailing CR removed.
func readSourcePaths(r io.Reader) ([]string, error) {
	var paths []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		paths = append(paths, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read source list: %w", err)
	}

	return paths, nil
}
