package model

import (
	"sort"
	"time"
)

// Registry is the persisted host → container-name mapping. Keys are SSH
// destination names; values keep the order the remote listing returned,
// blank entries included.
type Registry struct {
	Containers map[string][]string `json:"containers"`
}

// NewRegistry returns an empty registry ready for inserts.
func NewRegistry() Registry {
	return Registry{Containers: map[string][]string{}}
}

// Hosts returns the registry's host names in lexical order.
func (r Registry) Hosts() []string {
	out := make([]string, 0, len(r.Containers))
	for h := range r.Containers {
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}

type ForwardState string

const (
	ForwardUp   ForwardState = "up"
	ForwardDown ForwardState = "down"
)

// ForwardRuntime records one detached port-forward process.
type ForwardRuntime struct {
	ID        string       `json:"id"`
	Host      string       `json:"host"`
	Container string       `json:"container"`
	Port      string       `json:"port"`
	IP        string       `json:"ip"`
	PID       int          `json:"pid,omitempty"`
	State     ForwardState `json:"state"`
	StartedAt time.Time    `json:"started_at"`
}
