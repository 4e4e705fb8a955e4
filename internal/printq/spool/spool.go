/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */

// Package spool is the printerless printq.Device: each artifact lands
// as a file in a spool directory for an out of band print daemon (or a
// booth attendant with a USB stick) to drain.
package spool

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mikeb26/midway/internal/printq"
	"go.uber.org/zap"
)

type Device struct {
	dir string
	log *zap.Logger
}

var _ printq.Device = (*Device)(nil)

func New(dir string, log *zap.Logger) *Device {
	return &Device{dir: dir, log: log}
}

func (d *Device) Connect(ctx context.Context) error {
	return os.MkdirAll(d.dir, 0o755)
}

func (d *Device) Disconnect() error {
	return nil
}

// Busy never reports busy; the filesystem takes everything we throw at
// it.
func (d *Device) Busy() (bool, error) {
	return false, nil
}

// Submit writes the artifact atomically via a temporary file + rename
// so the draining side never sees a partial card.
func (d *Device) Submit(ctx context.Context, job printq.Job,
	art printq.Artifact) error {

	name := fmt.Sprintf("%s-%s%s", job.Queued.Format("20060102-150405"),
		job.ID, extFor(art.MIME))
	path := filepath.Join(d.dir, name)

	tmpPath := path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY,
		0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(art.Data); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}

	d.log.Info("card spooled", zap.String("file", path))
	return nil
}

func extFor(mime string) string {
	switch mime {
	case "image/png":
		return ".png"
	case "text/html":
		return ".html"
	case "text/plain":
		return ".txt"
	}
	return ".bin"
}
