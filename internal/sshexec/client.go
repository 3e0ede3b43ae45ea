// Package sshexec launches SSH processes. It does not implement the
// SSH protocol: shelling out to the system "ssh" binary keeps the
// user's configuration (keys, agents, ProxyJump chains, aliases) in
// effect.
//
// Three execution paths exist:
//
//   - Query: runs a remote command via ssh argv with captured output.
//     Used by internal/remote to list containers and resolve IPs.
//
//   - RunShell: hands a flat command string to "sh -c" with inherited
//     stdio. This is the path behind nvim and fp. Host, container and
//     port values are interpolated verbatim with no escaping, so shell
//     expansion in these fields reaches the composed command.
//
//   - RunInteractive: a PTY-backed interactive session for devbox
//     shell, so password prompts and remote line editing behave.
package sshexec

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/creack/pty"
)

// Client launches SSH processes. It is stateless and safe for
// concurrent use; each method creates an independent exec.Cmd.
type Client struct{}

// New creates a new SSH process client.
func New() *Client { return &Client{} }

// EnsureSSHBinary checks that "ssh" is available on PATH. Called early
// so a missing client fails with a clear message instead of a confusing
// exec error mid-operation.
func EnsureSSHBinary() error {
	if _, err := exec.LookPath("ssh"); err != nil {
		return fmt.Errorf("ssh binary not found in PATH")
	}
	return nil
}

// Query runs remoteCommand on host over SSH and returns its stdout.
// The host and command are passed as separate argv entries; on a
// non-zero exit the returned error is an *exec.ExitError with stderr
// attached.
func (c *Client) Query(ctx context.Context, host, remoteCommand string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "ssh", host, remoteCommand)
	return cmd.Output()
}

// RunShell spawns "sh -c command" with the caller's stdin/stdout/stderr
// and blocks until the child exits; for the fp tunnel that is when the
// tunnel closes. A one-line outcome is printed using label for context.
func (c *Client) RunShell(command, label string) error {
	cmd := exec.Command("sh", "-c", command)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	err := cmd.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to execute %s command.\n", label)
		return err
	}
	fmt.Printf("Successfully executed %s command.\n", label)
	return nil
}

// StartShellDetached spawns "sh -c command" with no stdio attached and
// returns without waiting. The child keeps running after devbox exits;
// the caller records the PID and reaps it by signal later.
func (c *Client) StartShellDetached(command string) (*exec.Cmd, error) {
	cmd := exec.Command("sh", "-c", command)
	cmd.Stdin = nil
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return cmd, nil
}

// RunInteractive starts "ssh host -t remoteCommand" inside a PTY and
// connects it to the user's terminal. Blocks until the session ends.
// If ctx is cancelled while the session is active the process is killed.
func (c *Client) RunInteractive(ctx context.Context, host, remoteCommand string) error {
	cmd := exec.Command("ssh", host, "-t", remoteCommand)

	f, err := pty.Start(cmd)
	if err != nil {
		return err
	}
	defer f.Close()

	// Keystrokes flow into the PTY master; the goroutine ends when the
	// PTY closes after the SSH process exits.
	go func() {
		_, _ = io.Copy(f, os.Stdin)
	}()

	_, _ = io.Copy(os.Stdout, f)

	if ctx.Err() != nil {
		_ = cmd.Process.Kill()
	}
	return cmd.Wait()
}
