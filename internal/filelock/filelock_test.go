package filelock

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAtomicWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "summary.csv")

	if err := AtomicWrite(path, []byte("first")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "first" {
		t.Errorf("content = %q", data)
	}

	// Overwrite replaces content in full.
	if err := AtomicWrite(path, []byte("second")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "second" {
		t.Errorf("content after overwrite = %q", data)
	}

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the target file, found %d entries", len(entries))
	}
}

func TestLockAndWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.csv")
	if err := LockAndWrite(path, []byte("data")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "data" {
		t.Errorf("read back: %q, %v", data, err)
	}
}

func TestLockAndWriteCreatesDirectory(t *testing.T) {
	// The lock file sits next to the target, so a missing parent directory
	// must be created before the lock is acquired.
	path := filepath.Join(t.TempDir(), "out", "nested", "summary.csv")
	if err := LockAndWrite(path, []byte("data")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "data" {
		t.Errorf("read back: %q, %v", data, err)
	}
}

func TestTryLockContention(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "summary.csv.lock")

	first := New(lockPath)
	if err := first.Lock(); err != nil {
		t.Fatalf("first lock: %v", err)
	}
	defer first.Unlock()

	second := New(lockPath)
	acquired, err := second.TryLock()
	if err != nil {
		t.Fatalf("try lock: %v", err)
	}
	if acquired {
		second.Unlock()
		t.Error("second lock should not be acquirable while first is held")
	}
}
