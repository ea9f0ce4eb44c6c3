// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package sync

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tomtom215/carbonoffset/internal/breaker"
	"github.com/tomtom215/carbonoffset/internal/logging"
)

// DownloadToFile saves the configured CSV to path, for building a static
// catalog offline.
func (s *Syncer) DownloadToFile(ctx context.Context, path string) (int64, error) {
	body, err := breaker.Execute(s.breaker, func() (io.ReadCloser, error) {
		return s.download(ctx)
	})
	if err != nil {
		return 0, err
	}
	defer body.Close()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("create download directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}

	n, copyErr := io.Copy(f, body)
	closeErr := f.Close()
	if copyErr != nil {
		return n, fmt.Errorf("%w: %v", ErrDownloadFailed, copyErr)
	}
	if closeErr != nil {
		return n, fmt.Errorf("close %s: %w", path, closeErr)
	}

	logging.Ctx(ctx).Info().Str("path", path).Int64("bytes", n).Msg("EPA CSV downloaded")
	return n, nil
}
