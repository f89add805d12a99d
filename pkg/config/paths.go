// Copyright 2026 Teradata
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config resolves filesystem paths for sift data.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// GetDataDir returns the sift data directory.
//
// Priority:
// 1. SIFT_DATA_DIR environment variable (if set and non-empty)
// 2. ~/.sift (default)
//
// The returned path is absolute. Tilde (~) in SIFT_DATA_DIR is expanded to
// the user's home directory.
func GetDataDir() string {
	if dataDir := os.Getenv("SIFT_DATA_DIR"); dataDir != "" {
		return expandPath(dataDir)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".sift"
	}
	return filepath.Join(homeDir, ".sift")
}

// EnsureDataDir creates the data directory if it does not exist and returns
// its path.
func EnsureDataDir() (string, error) {
	dir := GetDataDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// DefaultDatabasePath is where ingested data lands when no location is
// configured.
func DefaultDatabasePath() string {
	return filepath.Join(GetDataDir(), "sift.db")
}

// expandPath expands a leading tilde and returns an absolute path.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		if homeDir, err := os.UserHomeDir(); err == nil {
			if path == "~" {
				path = homeDir
			} else {
				path = filepath.Join(homeDir, path[2:])
			}
		}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
