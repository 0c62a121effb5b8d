package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMemoryKV(t *testing.T) {
	t.Run("GetAbsent", func(t *testing.T) {
		kv := NewMemoryKV()
		_, ok, err := kv.Get("missing")
		if err != nil {
			t.Errorf("Expected no error, got: %v", err)
		}
		if ok {
			t.Error("Expected absent key to report ok=false")
		}
	})

	t.Run("SetAndGet", func(t *testing.T) {
		kv := NewMemoryKV()
		if err := kv.Set("k", "v"); err != nil {
			t.Errorf("Expected no error, got: %v", err)
		}

		value, ok, err := kv.Get("k")
		if err != nil {
			t.Errorf("Expected no error, got: %v", err)
		}
		if !ok || value != "v" {
			t.Errorf("Expected (v, true), got (%s, %v)", value, ok)
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		kv := NewMemoryKV()
		_ = kv.Set("k", "old")
		_ = kv.Set("k", "new")

		value, _, _ := kv.Get("k")
		if value != "new" {
			t.Errorf("Expected new, got %s", value)
		}
	})

	t.Run("DeleteMulti", func(t *testing.T) {
		kv := NewMemoryKV()
		_ = kv.Set("a", "1")
		_ = kv.Set("b", "2")
		_ = kv.Set("c", "3")

		if err := kv.Delete("a", "b", "missing"); err != nil {
			t.Errorf("Expected no error, got: %v", err)
		}

		if _, ok, _ := kv.Get("a"); ok {
			t.Error("Expected a to be deleted")
		}
		if _, ok, _ := kv.Get("b"); ok {
			t.Error("Expected b to be deleted")
		}
		if _, ok, _ := kv.Get("c"); !ok {
			t.Error("Expected c to survive")
		}
	})
}

func TestFileKV(t *testing.T) {
	t.Run("EmptyDir", func(t *testing.T) {
		_, err := NewFileKV("")
		if err == nil {
			t.Error("Expected error for empty directory")
		}
	})

	t.Run("RoundTrip", func(t *testing.T) {
		kv, err := NewFileKV(t.TempDir())
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}

		if err := kv.Set("strava_access_token", "tok-123"); err != nil {
			t.Errorf("Expected no error, got: %v", err)
		}

		value, ok, err := kv.Get("strava_access_token")
		if err != nil {
			t.Errorf("Expected no error, got: %v", err)
		}
		if !ok || value != "tok-123" {
			t.Errorf("Expected (tok-123, true), got (%s, %v)", value, ok)
		}
	})

	t.Run("GetAbsent", func(t *testing.T) {
		kv, _ := NewFileKV(t.TempDir())
		_, ok, err := kv.Get("missing")
		if err != nil {
			t.Errorf("Expected no error, got: %v", err)
		}
		if ok {
			t.Error("Expected absent key to report ok=false")
		}
	})

	t.Run("FilePermissions", func(t *testing.T) {
		dir := t.TempDir()
		kv, _ := NewFileKV(dir)
		_ = kv.Set("secret", "value")

		info, err := os.Stat(filepath.Join(dir, "secret.val"))
		if err != nil {
			t.Fatalf("Expected value file to exist, got: %v", err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("Expected 0600 permissions, got %o", info.Mode().Perm())
		}
	})

	t.Run("DeleteMulti", func(t *testing.T) {
		kv, _ := NewFileKV(t.TempDir())
		_ = kv.Set("a", "1")
		_ = kv.Set("b", "2")

		if err := kv.Delete("a", "b", "missing"); err != nil {
			t.Errorf("Expected no error, got: %v", err)
		}
		if _, ok, _ := kv.Get("a"); ok {
			t.Error("Expected a to be deleted")
		}
	})

	t.Run("SanitizesKeys", func(t *testing.T) {
		kv, _ := NewFileKV(t.TempDir())
		if err := kv.Set("weird/key:name", "v"); err != nil {
			t.Errorf("Expected no error, got: %v", err)
		}
		value, ok, _ := kv.Get("weird/key:name")
		if !ok || value != "v" {
			t.Errorf("Expected (v, true), got (%s, %v)", value, ok)
		}
	})
}
