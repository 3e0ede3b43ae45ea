// Package sshconfig extracts candidate SSH destinations from the user's
// ~/.ssh/config. devbox host identifiers are plain ssh aliases, so the
// parser only collects concrete Host aliases and their HostName.
// Pattern expansion and Include chasing are left to the ssh binary,
// which resolves the full config when commands actually run.
package sshconfig

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Host is one concrete destination from ssh config.
type Host struct {
	Alias    string
	HostName string
}

// ParseResult carries parsed hosts plus non-fatal warnings.
type ParseResult struct {
	Hosts    []Host
	Warnings []string
}

// ParseDefault parses ~/.ssh/config.
func ParseDefault() (ParseResult, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return ParseResult{}, fmt.Errorf("resolve home dir: %w", err)
	}
	return ParseFile(filepath.Join(home, ".ssh", "config"))
}

// ParseFile parses one SSH config file. A missing file is a warning,
// not an error.
func ParseFile(path string) (ParseResult, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ParseResult{Warnings: []string{fmt.Sprintf("config file not found: %s", path)}}, nil
		}
		return ParseResult{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var (
		res     ParseResult
		byAlias = map[string]int{}
		current []string
	)

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = stripInlineComment(line)
		if line == "" {
			continue
		}

		key, value, ok := splitDirective(line)
		if !ok {
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s:%d invalid directive", path, lineNo))
			continue
		}

		switch strings.ToLower(key) {
		case "host":
			current = nil
			for _, p := range strings.Fields(value) {
				if !isConcreteAlias(p) {
					continue
				}
				if _, seen := byAlias[p]; !seen {
					byAlias[p] = len(res.Hosts)
					res.Hosts = append(res.Hosts, Host{Alias: p, HostName: p})
				}
				current = append(current, p)
			}
		case "hostname":
			// First obtained value wins, matching OpenSSH semantics.
			for _, alias := range current {
				idx := byAlias[alias]
				if res.Hosts[idx].HostName == alias {
					res.Hosts[idx].HostName = value
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("scan %s: %w", path, err)
	}

	sort.Slice(res.Hosts, func(i, j int) bool { return res.Hosts[i].Alias < res.Hosts[j].Alias })
	return res, nil
}

func isConcreteAlias(pattern string) bool {
	if strings.HasPrefix(pattern, "!") {
		return false
	}
	if strings.ContainsAny(pattern, "*?") {
		return false
	}
	return pattern != ""
}

func splitDirective(line string) (key, value string, ok bool) {
	if i := strings.IndexAny(line, " \t"); i > 0 {
		key = strings.TrimSpace(line[:i])
		value = strings.TrimSpace(line[i+1:])
		return key, value, key != "" && value != ""
	}
	if i := strings.Index(line, "="); i > 0 {
		key = strings.TrimSpace(line[:i])
		value = strings.TrimSpace(line[i+1:])
		return key, value, key != "" && value != ""
	}
	return "", "", false
}

func stripInlineComment(line string) string {
	inQuote := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			inQuote = !inQuote
		case '#':
			if !inQuote {
				return strings.TrimSpace(line[:i])
			}
		}
	}
	return strings.TrimSpace(line)
}
