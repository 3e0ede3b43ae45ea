// Package forward tracks detached port-forward processes across devbox
// invocations. Each invocation loads forwards.json, acts, and writes it
// back; there is no locking, so concurrent invocations race and the
// last writer wins.
package forward

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/treykane/devbox/internal/appconfig"
	"github.com/treykane/devbox/internal/model"
	"github.com/treykane/devbox/internal/sshexec"
)

// ShellStarter abstracts detached shell-command spawning for testing.
type ShellStarter interface {
	StartShellDetached(command string) (*exec.Cmd, error)
}

// Manager starts, lists, and stops detached forwards.
type Manager struct {
	starter ShellStarter
}

// NewManager creates a forward manager backed by the given starter.
func NewManager(starter ShellStarter) *Manager {
	return &Manager{starter: starter}
}

// RuntimeID identifies one forward by its host, container, and port.
func RuntimeID(host, container, port string) string {
	return fmt.Sprintf("%s|%s|%s", host, container, port)
}

// Start launches the forward command detached and records its runtime.
// If the same forward is already up with a live process, the existing
// entry is returned untouched.
func (m *Manager) Start(host, container, port, ip string) (model.ForwardRuntime, error) {
	entries, err := load()
	if err != nil {
		return model.ForwardRuntime{}, err
	}

	id := RuntimeID(host, container, port)
	for _, rt := range entries {
		if rt.ID == id && rt.State == model.ForwardUp && processAlive(rt.PID) {
			return rt, nil
		}
	}

	cmd := sshexec.BuildForwardCommand(host, ip, port)
	proc, err := m.starter.StartShellDetached(cmd)
	if err != nil {
		return model.ForwardRuntime{}, fmt.Errorf("start forward: %w", err)
	}

	rt := model.ForwardRuntime{
		ID:        id,
		Host:      host,
		Container: container,
		Port:      port,
		IP:        ip,
		PID:       proc.Process.Pid,
		State:     model.ForwardUp,
		StartedAt: time.Now(),
	}
	entries = upsert(entries, rt)
	if err := persist(entries); err != nil {
		return rt, err
	}
	return rt, nil
}

// List returns all recorded forwards sorted by ID, with state refreshed
// against process liveness. Entries whose process died are marked down
// and the refreshed state is written back.
func (m *Manager) List() ([]model.ForwardRuntime, error) {
	entries, err := load()
	if err != nil {
		return nil, err
	}
	changed := false
	for i, rt := range entries {
		if rt.State == model.ForwardUp && !processAlive(rt.PID) {
			entries[i].State = model.ForwardDown
			entries[i].PID = 0
			changed = true
		}
	}
	if changed {
		if err := persist(entries); err != nil {
			return nil, err
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

// Stop terminates forwards matching idOrHost: a full runtime ID when
// it contains "|", otherwise every forward for that host.
func (m *Manager) Stop(idOrHost string) error {
	entries, err := load()
	if err != nil {
		return err
	}
	stopped := 0
	for i, rt := range entries {
		if rt.ID != idOrHost && rt.Host != idOrHost {
			continue
		}
		if rt.State != model.ForwardUp {
			continue
		}
		if rt.PID > 0 && processAlive(rt.PID) {
			if p, err := os.FindProcess(rt.PID); err == nil {
				_ = p.Signal(syscall.SIGTERM)
			}
		}
		entries[i].State = model.ForwardDown
		entries[i].PID = 0
		stopped++
	}
	if stopped == 0 {
		return fmt.Errorf("no active forward for %s", idOrHost)
	}
	return persist(entries)
}

func upsert(entries []model.ForwardRuntime, rt model.ForwardRuntime) []model.ForwardRuntime {
	for i := range entries {
		if entries[i].ID == rt.ID {
			entries[i] = rt
			return entries
		}
	}
	return append(entries, rt)
}

func load() ([]model.ForwardRuntime, error) {
	path, err := appconfig.ForwardsFilePath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var entries []model.ForwardRuntime
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("parse forwards: %w", err)
	}
	return entries, nil
}

func persist(entries []model.ForwardRuntime) error {
	path, err := appconfig.ForwardsFilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}

func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return p.Signal(syscall.Signal(0)) == nil
}
