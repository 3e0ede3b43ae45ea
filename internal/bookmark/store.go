// Package bookmark stores named host/container shortcuts so frequent
// targets can be addressed as @name in nvim and fp.
package bookmark

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/treykane/devbox/internal/appconfig"
	"gopkg.in/yaml.v3"
)

// Entry names one host/container pair, optionally with a default
// forward port.
type Entry struct {
	Name      string `yaml:"name" json:"name"`
	Host      string `yaml:"host" json:"host"`
	Container string `yaml:"container" json:"container"`
	Port      string `yaml:"port,omitempty" json:"port,omitempty"`
}

type fileModel struct {
	Bookmarks map[string]Entry `yaml:"bookmarks"`
}

func filePath() (string, error) {
	dir, err := appconfig.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "bookmarks.yaml"), nil
}

// LoadAll returns all bookmarks sorted by name.
func LoadAll() ([]Entry, error) {
	fm, err := loadFile()
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(fm.Bookmarks))
	for _, e := range fm.Bookmarks {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Get fetches one bookmark by name.
func Get(name string) (Entry, error) {
	fm, err := loadFile()
	if err != nil {
		return Entry{}, err
	}
	e, ok := fm.Bookmarks[name]
	if !ok {
		return Entry{}, fmt.Errorf("bookmark not found: %s", name)
	}
	return e, nil
}

// Create adds or replaces a bookmark.
func Create(e Entry) error {
	e.Name = strings.TrimSpace(e.Name)
	e.Host = strings.TrimSpace(e.Host)
	e.Container = strings.TrimSpace(e.Container)
	e.Port = strings.TrimSpace(e.Port)
	if e.Name == "" {
		return fmt.Errorf("bookmark name cannot be empty")
	}
	if e.Host == "" {
		return fmt.Errorf("bookmark %s missing host", e.Name)
	}
	if e.Container == "" {
		return fmt.Errorf("bookmark %s missing container", e.Name)
	}

	fm, err := loadFile()
	if err != nil {
		return err
	}
	fm.Bookmarks[e.Name] = e
	return saveFile(fm)
}

// Delete removes a bookmark by name.
func Delete(name string) error {
	fm, err := loadFile()
	if err != nil {
		return err
	}
	if _, ok := fm.Bookmarks[name]; !ok {
		return fmt.Errorf("bookmark not found: %s", name)
	}
	delete(fm.Bookmarks, name)
	return saveFile(fm)
}

func loadFile() (fileModel, error) {
	path, err := filePath()
	if err != nil {
		return fileModel{}, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fileModel{Bookmarks: map[string]Entry{}}, nil
		}
		return fileModel{}, err
	}
	var fm fileModel
	if err := yaml.Unmarshal(b, &fm); err != nil {
		return fileModel{}, fmt.Errorf("parse bookmarks: %w", err)
	}
	if fm.Bookmarks == nil {
		fm.Bookmarks = map[string]Entry{}
	}
	return fm, nil
}

func saveFile(fm fileModel) error {
	path, err := filePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	b, err := yaml.Marshal(fm)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}
