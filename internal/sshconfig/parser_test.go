package sshconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseConcreteAliases(t *testing.T) {
	path := writeConfig(t, strings.Join([]string{
		"Host devbox1",
		"  HostName 10.0.0.5",
		"Host devbox2 dev*",
		"  HostName 10.0.0.6",
		"Host *",
		"  User fallback",
		"",
	}, "\n"))

	res, err := ParseFile(path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(res.Hosts) != 2 {
		t.Fatalf("expected 2 concrete hosts, got %+v", res.Hosts)
	}
	if res.Hosts[0].Alias != "devbox1" || res.Hosts[0].HostName != "10.0.0.5" {
		t.Fatalf("unexpected first host: %+v", res.Hosts[0])
	}
	if res.Hosts[1].Alias != "devbox2" || res.Hosts[1].HostName != "10.0.0.6" {
		t.Fatalf("unexpected second host: %+v", res.Hosts[1])
	}
}

func TestParseFirstHostnameWins(t *testing.T) {
	path := writeConfig(t, strings.Join([]string{
		"Host box",
		"  HostName first.example",
		"  HostName second.example",
		"",
	}, "\n"))

	res, err := ParseFile(path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if res.Hosts[0].HostName != "first.example" {
		t.Fatalf("expected first value to win, got %s", res.Hosts[0].HostName)
	}
}

func TestParseMissingFileIsWarning(t *testing.T) {
	res, err := ParseFile(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("expected one warning, got %v", res.Warnings)
	}
}

func TestParseInvalidDirectiveWarns(t *testing.T) {
	path := writeConfig(t, "Host box\n  garbage\n")
	res, err := ParseFile(path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "invalid directive") {
		t.Fatalf("expected invalid directive warning, got %v", res.Warnings)
	}
}

func TestParseInlineComments(t *testing.T) {
	path := writeConfig(t, "Host box # primary dev machine\n  HostName 10.1.1.1 # lan\n")
	res, err := ParseFile(path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(res.Hosts) != 1 || res.Hosts[0].HostName != "10.1.1.1" {
		t.Fatalf("unexpected hosts: %+v", res.Hosts)
	}
}
