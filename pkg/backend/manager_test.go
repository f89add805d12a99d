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
package backend

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	_ "github.com/teradata-labs/sift/internal/sqlitedriver"
)

// unreachableCandidate is a sqlite path inside a directory that does not
// exist, so opening it fails at ping time.
func unreachableCandidate(t *testing.T) Candidate {
	t.Helper()
	return Candidate{
		Driver: "sqlite3",
		DSN:    filepath.Join(t.TempDir(), "missing", "nested", "no.db"),
	}
}

func fileCandidate(t *testing.T) Candidate {
	t.Helper()
	return Candidate{
		Driver: "sqlite3",
		DSN:    filepath.Join(t.TempDir(), "test.db"),
	}
}

func TestNewManagerRequiresCandidates(t *testing.T) {
	if _, err := NewManager(ManagerConfig{}); err == nil {
		t.Fatal("expected error for empty candidate list")
	}
}

func TestGetFailsOver(t *testing.T) {
	bad := unreachableCandidate(t)
	good := fileCandidate(t)

	m, err := NewManager(ManagerConfig{Candidates: []Candidate{bad, good}})
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	h, err := m.Get(context.Background(), "worker-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if h.Location() != good.Location() {
		t.Errorf("handle bound to %s, want %s", h.Location(), good.Location())
	}
}

func TestGetCachesPerWorker(t *testing.T) {
	m, err := NewManager(ManagerConfig{Candidates: []Candidate{fileCandidate(t)}})
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	ctx := context.Background()
	first, err := m.Get(ctx, "worker-1")
	if err != nil {
		t.Fatal(err)
	}
	second, err := m.Get(ctx, "worker-1")
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("second Get returned a different handle for the same worker")
	}

	other, err := m.Get(ctx, "worker-2")
	if err != nil {
		t.Fatal(err)
	}
	if other == first {
		t.Error("distinct workers share a handle")
	}
}

func TestGetAllCandidatesFail(t *testing.T) {
	candidates := []Candidate{unreachableCandidate(t), unreachableCandidate(t)}
	m, err := NewManager(ManagerConfig{Candidates: candidates})
	if err != nil {
		t.Fatal(err)
	}

	_, err = m.Get(context.Background(), "worker-1")
	if err == nil {
		t.Fatal("expected NoDataSourceError")
	}

	var noSource *NoDataSourceError
	if !errors.As(err, &noSource) {
		t.Fatalf("error type %T, want *NoDataSourceError", err)
	}
	if len(noSource.Attempts) != len(candidates) {
		t.Errorf("recorded %d attempts, want %d", len(noSource.Attempts), len(candidates))
	}
	for i, att := range noSource.Attempts {
		if att.Location != candidates[i].Location() {
			t.Errorf("attempt %d location = %s, want %s", i, att.Location, candidates[i].Location())
		}
		if att.Err == nil {
			t.Errorf("attempt %d has nil error", i)
		}
	}
}

func TestCapabilityActivation(t *testing.T) {
	m, err := NewManager(ManagerConfig{
		Candidates:   []Candidate{fileCandidate(t)},
		Capabilities: []string{"PRAGMA foreign_keys = ON"},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	h, err := m.Get(context.Background(), "worker-1")
	if err != nil {
		t.Fatalf("Get with capabilities: %v", err)
	}

	var enabled int
	if err := h.DB().QueryRow("PRAGMA foreign_keys").Scan(&enabled); err != nil {
		t.Fatal(err)
	}
	if enabled != 1 {
		t.Error("capability statement did not take effect")
	}
}

func TestFailingCapabilityFailsCandidate(t *testing.T) {
	m, err := NewManager(ManagerConfig{
		Candidates:   []Candidate{fileCandidate(t)},
		Capabilities: []string{"THIS IS NOT SQL"},
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = m.Get(context.Background(), "worker-1")
	var noSource *NoDataSourceError
	if !errors.As(err, &noSource) {
		t.Fatalf("error type %T, want *NoDataSourceError", err)
	}
}

func TestRelease(t *testing.T) {
	m, err := NewManager(ManagerConfig{Candidates: []Candidate{fileCandidate(t)}})
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	ctx := context.Background()
	first, err := m.Get(ctx, "worker-1")
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Release("worker-1"); err != nil {
		t.Fatal(err)
	}

	// Releasing an unknown worker is a no-op.
	if err := m.Release("never-seen"); err != nil {
		t.Fatal(err)
	}

	second, err := m.Get(ctx, "worker-1")
	if err != nil {
		t.Fatal(err)
	}
	if second == first {
		t.Error("Get after Release returned the released handle")
	}
}
