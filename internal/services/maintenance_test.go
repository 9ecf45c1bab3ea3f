package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestSweepTemp(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalPhotoStorage(dir)
	if err != nil {
		t.Fatalf("NewLocalPhotoStorage failed: %v", err)
	}

	old := time.Now().Add(-time.Hour)
	write := func(name string, mtime time.Time) {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		if err := os.Chtimes(p, mtime, mtime); err != nil {
			t.Fatalf("Chtimes failed: %v", err)
		}
	}
	write(".tmp-abandoned", old)
	write(".tmp-in-flight", time.Now())
	write("100.jpg", old)

	n, err := s.SweepTemp(10 * time.Minute)
	if err != nil {
		t.Fatalf("SweepTemp failed: %v", err)
	}
	if n != 1 {
		t.Errorf("removed: got %d, want 1", n)
	}
	for name, want := range map[string]bool{".tmp-abandoned": false, ".tmp-in-flight": true, "100.jpg": true} {
		_, err := os.Stat(filepath.Join(dir, name))
		if exists := err == nil; exists != want {
			t.Errorf("%s exists=%v, want %v", name, exists, want)
		}
	}
}

func TestStartMaintenance_RejectsBadSchedule(t *testing.T) {
	s, err := NewLocalPhotoStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalPhotoStorage failed: %v", err)
	}
	if _, err := StartMaintenance("not a schedule", s, zap.NewNop()); err == nil {
		t.Fatal("expected error")
	}

	c, err := StartMaintenance("@hourly", s, zap.NewNop())
	if err != nil {
		t.Fatalf("StartMaintenance failed: %v", err)
	}
	c.Stop()
}
