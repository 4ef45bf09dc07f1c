// Copyright 2025 the NMdata authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package fileio is the disk boundary: reading control streams into
// Documents, writing Documents back with normalized line endings, and the
// backup-before-overwrite copy.
package fileio

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/andersone1/NMdata/pkg/ctl"
)

// DefaultBackupDir is the sibling directory that receives pre-edit copies.
const DefaultBackupDir = "NMdata_backup"

// ReadDocument reads the file at path into a Document. CRLF terminators
// are normalized away on read.
func ReadDocument(ctx context.Context, path string) (ctl.Document, error) {
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("reading control stream")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", path, err)
	}
	return ctl.ParseText(string(data)), nil
}

// WriteDocument writes doc to path with a single LF terminating every
// line, regardless of platform.
func WriteDocument(ctx context.Context, path string, doc ctl.Document) error {
	zerolog.Ctx(ctx).Debug().Str("path", path).Int("lines", len(doc)).Msg("writing control stream")

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Errorf("creating parent directories for %s: %w", path, err)
		}
	}
	if err := os.WriteFile(path, []byte(doc.Text()), 0o644); err != nil {
		return errors.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Backup copies the pristine file at path into a sibling directory named
// dirName (DefaultBackupDir when empty), overwriting any previous backup
// of the same base name, and returns the backup path. The directory is
// created if absent; a non-directory occupying its path is an error.
func Backup(ctx context.Context, path string, dirName string) (string, error) {
	if dirName == "" {
		dirName = DefaultBackupDir
	}
	backupDir := filepath.Join(filepath.Dir(path), dirName)

	info, err := os.Stat(backupDir)
	switch {
	case err == nil:
		if !info.IsDir() {
			return "", errors.Errorf("backup path %s exists and is not a directory", backupDir)
		}
	case os.IsNotExist(err):
		if err := os.MkdirAll(backupDir, 0o755); err != nil {
			return "", errors.Errorf("creating backup directory %s: %w", backupDir, err)
		}
	default:
		return "", errors.Errorf("checking backup directory %s: %w", backupDir, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Errorf("reading %s for backup: %w", path, err)
	}

	backupPath := filepath.Join(backupDir, filepath.Base(path))
	if err := os.WriteFile(backupPath, data, 0o644); err != nil {
		return "", errors.Errorf("writing backup %s: %w", backupPath, err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Str("backup", backupPath).Msg("backed up original")
	return backupPath, nil
}
