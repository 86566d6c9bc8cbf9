// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/alf

package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
)

// list prints checksum, size and POSIX path of every entry in table order.
func (a *app) list(_ context.Context) error {
	filter, err := a.filter()
	if err != nil {
		return usageError(err)
	}

	r, err := a.openArchive()
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	for entry := range r.List() {
		if !filter.Match(entry.Path) {
			continue
		}

		if _, err := fmt.Fprintf(a.stdout, "%08x  %10s  %s\n",
			entry.Checksum,
			humanize.IBytes(uint64(entry.Size)),
			entry.POSIXPath(),
		); err != nil {
			return fmt.Errorf("write listing: %w", err)
		}
	}

	return nil
}
