package doctor

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRunFlagsCorruptStorage(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	if err := os.WriteFile(filepath.Join(home, ".devbox_storage.json"), []byte("{broken"), 0o600); err != nil {
		t.Fatal(err)
	}

	report, err := Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	found := false
	for _, is := range report.Issues {
		if is.Check == "storage-corrupt" && is.Severity == SeverityHigh {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected storage-corrupt issue, got %+v", report.Issues)
	}
}

func TestRunFlagsEmptyHosts(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	if err := os.WriteFile(filepath.Join(home, ".devbox_storage.json"),
		[]byte(`{"containers":{"hostA":[],"hostB":["web"]}}`), 0o600); err != nil {
		t.Fatal(err)
	}

	report, err := Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var empties []string
	for _, is := range report.Issues {
		if is.Check == "empty-host" {
			empties = append(empties, is.Target)
		}
	}
	if len(empties) != 1 || empties[0] != "hostA" {
		t.Fatalf("expected only hostA flagged, got %v", empties)
	}
}

func TestRunSortsBySeverity(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	// Corrupt storage (high) plus broad permissions (medium).
	if err := os.WriteFile(filepath.Join(home, ".devbox_storage.json"), []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	report, err := Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(report.Issues) < 2 {
		t.Fatalf("expected at least two issues, got %+v", report.Issues)
	}
	last := 4
	for _, is := range report.Issues {
		r := severityRank(is.Severity)
		if r > last {
			t.Fatalf("issues not sorted by severity: %+v", report.Issues)
		}
		last = r
	}
}
