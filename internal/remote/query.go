// Package remote issues the SSH round-trips that discover container
// state on a host: the container listing behind init and the two-step
// network-name/IP resolution behind fp.
package remote

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrRemoteCommand reports an SSH process that exited non-zero. Host
// unreachable, authentication failure, and a failing remote command all
// collapse into this one kind; the wrapped exec error carries detail.
var ErrRemoteCommand = errors.New("remote command failed")

// ErrNotFound reports a remote query that succeeded but yielded an
// empty result where a value was expected.
var ErrNotFound = errors.New("not found")

// listCommand lists all containers, running or stopped, one name per line.
const listCommand = "docker ps -a --format {{.Names}}"

// Runner abstracts SSH command execution for testing.
type Runner interface {
	Query(ctx context.Context, host, remoteCommand string) ([]byte, error)
}

// ListContainers returns the container names reported by the host, in
// remote order. Each line is trimmed of surrounding whitespace; blank
// lines are kept as empty entries rather than filtered, so the stored
// registry mirrors the remote output verbatim.
func ListContainers(ctx context.Context, r Runner, host string) ([]string, error) {
	out, err := r.Query(ctx, host, listCommand)
	if err != nil {
		return nil, fmt.Errorf("list containers on %s: %w: %v", host, ErrRemoteCommand, err)
	}
	// Only the final newline is stripped before splitting: a doubled
	// newline in the remote output still yields an empty entry.
	lines := strings.Split(strings.TrimSuffix(string(out), "\n"), "\n")
	names := make([]string, 0, len(lines))
	for _, line := range lines {
		names = append(names, strings.TrimSpace(line))
	}
	if len(names) == 1 && names[0] == "" {
		return []string{}, nil
	}
	return names, nil
}

// ResolveContainerIP resolves a container's IP address in two
// sequential round-trips: first the name of the container's first
// network, then that network's IP entry. The second query is not
// attempted when the first yields nothing.
func ResolveContainerIP(ctx context.Context, r Runner, host, container string) (string, error) {
	netCmd := fmt.Sprintf(
		"docker inspect %s | jq -r '.[0].NetworkSettings.Networks | keys_unsorted[0]'",
		container,
	)
	out, err := r.Query(ctx, host, netCmd)
	if err != nil {
		return "", fmt.Errorf("query network name for %s on %s: %w: %v", container, host, ErrRemoteCommand, err)
	}
	network := cleanResult(out)
	if network == "" {
		return "", fmt.Errorf("no network found for container %s: %w", container, ErrNotFound)
	}

	ipCmd := fmt.Sprintf(
		`docker inspect %s | jq -r '.[0].NetworkSettings.Networks["%s"].IPAddress'`,
		container, network,
	)
	out, err = r.Query(ctx, host, ipCmd)
	if err != nil {
		return "", fmt.Errorf("query IP for %s on %s: %w: %v", container, host, ErrRemoteCommand, err)
	}
	ip := cleanResult(out)
	if ip == "" {
		return "", fmt.Errorf("no IP address for container %s on network %s: %w", container, network, ErrNotFound)
	}
	return ip, nil
}

// cleanResult trims a one-line jq result. jq prints the literal "null"
// for absent keys, which counts as empty here.
func cleanResult(out []byte) string {
	s := strings.TrimSpace(string(out))
	if s == "null" {
		return ""
	}
	return s
}
