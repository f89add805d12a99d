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
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetDataDirFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SIFT_DATA_DIR", dir)

	if got := GetDataDir(); got != dir {
		t.Errorf("GetDataDir() = %q, want %q", got, dir)
	}
}

func TestGetDataDirDefault(t *testing.T) {
	t.Setenv("SIFT_DATA_DIR", "")

	got := GetDataDir()
	if !strings.HasSuffix(got, ".sift") {
		t.Errorf("GetDataDir() = %q, want ~/.sift", got)
	}
}

func TestGetDataDirExpandsTilde(t *testing.T) {
	t.Setenv("SIFT_DATA_DIR", "~/sift-data")

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	want := filepath.Join(home, "sift-data")
	if got := GetDataDir(); got != want {
		t.Errorf("GetDataDir() = %q, want %q", got, want)
	}
}

func TestEnsureDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	t.Setenv("SIFT_DATA_DIR", dir)

	got, err := EnsureDataDir()
	if err != nil {
		t.Fatal(err)
	}
	if got != dir {
		t.Errorf("EnsureDataDir() = %q, want %q", got, dir)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Errorf("data dir was not created: %v", err)
	}
}

func TestDefaultDatabasePath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SIFT_DATA_DIR", dir)

	want := filepath.Join(dir, "sift.db")
	if got := DefaultDatabasePath(); got != want {
		t.Errorf("DefaultDatabasePath() = %q, want %q", got, want)
	}
}
