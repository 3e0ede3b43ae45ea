package registry

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/treykane/devbox/internal/model"
)

func TestLoadMissingFileReturnsEmpty(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	reg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(reg.Containers) != 0 {
		t.Fatalf("expected empty registry, got %+v", reg.Containers)
	}
	if reg.Containers == nil {
		t.Fatal("containers map must be initialized")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	reg := model.NewRegistry()
	reg.Containers["hostA"] = []string{"web", "db", ""}
	reg.Containers["hostB"] = []string{}
	if err := Save(reg); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got.Containers["hostA"], []string{"web", "db", ""}) {
		t.Fatalf("hostA mismatch: %+v", got.Containers["hostA"])
	}
	if got.Containers["hostB"] == nil || len(got.Containers["hostB"]) != 0 {
		t.Fatalf("hostB should round-trip as empty list, got %+v", got.Containers["hostB"])
	}
}

func TestLoadCorruptFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if err := os.WriteFile(filepath.Join(home, StorageFileName), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for corrupt file")
	}
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}

func TestReplaceOverwritesWholeEntry(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := Replace("hostA", []string{"web", "db"}); err != nil {
		t.Fatalf("first replace: %v", err)
	}
	if err := Replace("hostA", []string{"cache"}); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	reg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(reg.Containers["hostA"], []string{"cache"}) {
		t.Fatalf("expected replacement, not merge: %+v", reg.Containers["hostA"])
	}
}

func TestReplaceIdempotent(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := Replace("hostA", []string{"web", "db"}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	first, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if err := Replace("hostA", []string{"web", "db"}); err != nil {
		t.Fatalf("replace again: %v", err)
	}
	second, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("registry changed across identical inits:\nfirst=%+v\nsecond=%+v", first, second)
	}
}
