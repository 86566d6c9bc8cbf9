// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/alf

package main

import (
	"context"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"gopkg.in/src-d/go-billy.v4/osfs"

	"github.com/woozymasta/alf"
)

// extract writes every selected entry under the destination directory.
func (a *app) extract(ctx context.Context) error {
	filter, err := a.filter()
	if err != nil {
		return usageError(err)
	}

	r, err := a.openArchive()
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	dir := a.opts.Directory
	if dir == "" {
		dir = defaultExtractDir(a.opts.Args.Archive)
	}

	dst := osfs.New(dir)
	if !alf.ProbeCapabilities(dst, nil).CreateDirs {
		a.console.Warnf("destination %s cannot create directories, nested entries will fail", dir)
	}

	log := a.log.WithFields(logrus.Fields{
		"archive":     a.opts.Args.Archive,
		"destination": dir,
	})

	return r.Extract(ctx, dst, alf.ExtractOptions{
		Filter:          filter,
		ContinueOnError: a.opts.ContinueOnError,
		OnEntryDone: func(entry alf.EntryInfo, written int64, outputPath string) {
			log.WithField("path", outputPath).Debugf("extracted %s", humanize.IBytes(uint64(written)))
		},
	})
}

// defaultExtractDir derives destination from archive name: foo.alf -> foo, foo -> foo.d.
func defaultExtractDir(archive string) string {
	ext := filepath.Ext(archive)
	if ext == "" || ext == filepath.Base(archive) {
		return archive + ".d"
	}

	return archive[:len(archive)-len(ext)]
}
