// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/alf

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/woozymasta/alf"
)

// read copies one archived file to stdout.
func (a *app) read(_ context.Context) error {
	r, err := a.openArchive()
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	rc, err := r.OpenEntry(a.opts.Read)
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()

	n, err := io.Copy(a.stdout, rc)
	if err != nil {
		return fmt.Errorf("read %s: %w", a.opts.Read, err)
	}

	a.log.WithField("path", a.opts.Read).Debugf("wrote %d bytes", n)
	return nil
}

// openArchive opens the positional archive with the selected lookup policy.
func (a *app) openArchive() (*alf.Reader, error) {
	policy, err := a.pathConversion()
	if err != nil {
		return nil, err
	}

	r, err := alf.OpenWithOptions(a.opts.Args.Archive, alf.ReaderOptions{PathConversion: policy})
	if err != nil {
		return nil, err
	}

	header := r.Header()
	a.log.WithField("archive", a.opts.Args.Archive).Debugf(
		"parsed %d entries, table at offset %d", header.EntryCount, header.TableOffset,
	)

	return r, nil
}
