package security

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAuditFlagsBroadRegistryPermissions(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	path := filepath.Join(home, ".devbox_storage.json")
	if err := os.WriteFile(path, []byte(`{"containers":{}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	report, err := RunLocalAudit()
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	found := false
	for _, f := range report.Findings {
		if f.Target == path && f.Severity == SeverityMedium {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected finding for %s, got %+v", path, report.Findings)
	}
}

func TestAuditCleanState(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	path := filepath.Join(home, ".devbox_storage.json")
	if err := os.WriteFile(path, []byte(`{"containers":{}}`), 0o600); err != nil {
		t.Fatal(err)
	}

	report, err := RunLocalAudit()
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if len(report.Findings) != 0 {
		t.Fatalf("expected no findings, got %+v", report.Findings)
	}
	if report.HasHigh() {
		t.Fatal("no high findings expected")
	}
}
