// Package registry persists the host → container-list mapping that init
// refreshes and list prints. The file lives at a fixed path in the user's
// home directory so it survives config-dir relocation.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/treykane/devbox/internal/model"
)

// StorageFileName is the fixed file name under the user's home directory.
const StorageFileName = ".devbox_storage.json"

// ErrCorrupt reports a storage file that exists but cannot be parsed.
// Callers should surface this rather than treat the registry as empty,
// so a damaged file is never silently overwritten by the next init.
var ErrCorrupt = errors.New("storage file is corrupted")

// FilePath returns the absolute path of the registry file.
func FilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home: %w", err)
	}
	return filepath.Join(home, StorageFileName), nil
}

// Load reads the registry from disk. A missing file yields an empty
// registry, not an error.
func Load() (model.Registry, error) {
	path, err := FilePath()
	if err != nil {
		return model.Registry{}, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.NewRegistry(), nil
		}
		return model.Registry{}, err
	}
	var reg model.Registry
	if err := json.Unmarshal(b, &reg); err != nil {
		return model.Registry{}, fmt.Errorf("parse %s: %w", path, ErrCorrupt)
	}
	if reg.Containers == nil {
		reg.Containers = map[string][]string{}
	}
	return reg, nil
}

// Save serializes the full registry and overwrites the file.
// Truncate-and-write; there is no partial-write protection and no
// locking, so the last writer wins.
func Save(reg model.Registry) error {
	path, err := FilePath()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}

// Replace overwrites the host's entry wholesale and persists the result.
// Prior containers for the host are discarded, never merged.
func Replace(host string, containers []string) error {
	reg, err := Load()
	if err != nil {
		return err
	}
	reg.Containers[host] = containers
	return Save(reg)
}
