package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalPhotoStorage(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalPhotoStorage(dir)
	if err != nil {
		t.Fatalf("NewLocalPhotoStorage failed: %v", err)
	}
	ctx := context.Background()

	ok, err := s.Exists(ctx, "100.jpg")
	if err != nil || ok {
		t.Fatalf("Exists before save: %v, %v", ok, err)
	}

	if err := s.Save(ctx, "100.jpg", strings.NewReader("image-data")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	ok, err = s.Exists(ctx, "100.jpg")
	if err != nil || !ok {
		t.Fatalf("Exists after save: %v, %v", ok, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the photo in dir, got %d entries", len(entries))
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/static/images/100.jpg", nil)
	if err := s.ServeImage(rec, req, "100.jpg"); err != nil {
		t.Fatalf("ServeImage failed: %v", err)
	}
	if rec.Code != http.StatusOK || rec.Body.String() != "image-data" {
		t.Errorf("ServeImage: %d %q", rec.Code, rec.Body.String())
	}
}

func TestLocalPhotoStorage_Missing(t *testing.T) {
	s, err := NewLocalPhotoStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalPhotoStorage failed: %v", err)
	}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if err := s.ServeImage(rec, req, "404.jpg"); !errors.Is(err, ErrPhotoNotFound) {
		t.Errorf("got %v, want ErrPhotoNotFound", err)
	}
}

func TestLocalPhotoStorage_RejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	secret := filepath.Join(filepath.Dir(dir), "secret.jpg")
	if err := os.WriteFile(secret, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	t.Cleanup(func() { os.Remove(secret) })

	s, err := NewLocalPhotoStorage(dir)
	if err != nil {
		t.Fatalf("NewLocalPhotoStorage failed: %v", err)
	}

	for _, name := range []string{"../secret.jpg", "..", "a/b.jpg", `..\secret.jpg`, "", ".hidden"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if err := s.ServeImage(rec, req, name); !errors.Is(err, ErrInvalidPhotoName) {
			t.Errorf("%q: got %v, want ErrInvalidPhotoName", name, err)
		}
		if err := s.Save(context.Background(), name, strings.NewReader("x")); !errors.Is(err, ErrInvalidPhotoName) {
			t.Errorf("%q: Save got %v, want ErrInvalidPhotoName", name, err)
		}
	}
}

func TestPhotoFileName(t *testing.T) {
	if got := PhotoFileName("100"); got != "100.jpg" {
		t.Errorf("got %q", got)
	}
}
