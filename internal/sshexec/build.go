package sshexec

import "fmt"

// DefaultSession is the tmux session name used when no configuration
// overrides it.
const DefaultSession = "nvim"

// BuildAttachCommand composes the shell command that attaches (or
// creates) the tmux session inside a container through an interactive
// SSH session. Values are interpolated verbatim.
//
// Example: ssh hostA -t 'docker exec -it web bash -c "tmux
// attach-session -t nvim || tmux new-session -s nvim"'
func BuildAttachCommand(host, container, session string) string {
	return fmt.Sprintf(
		`ssh %s -t 'docker exec -it %s bash -c "tmux attach-session -t %s || tmux new-session -s %s"'`,
		host, container, session, session,
	)
}

// BuildForwardCommand composes the shell command that forwards the
// local port to the same port on the container's resolved IP. No remote
// command runs; -N keeps the session open purely to hold the tunnel.
//
// Example: ssh -L 8080:172.17.0.2:8080 hostA -N
func BuildForwardCommand(host, ip, port string) string {
	return fmt.Sprintf("ssh -L %s:%s:%s %s -N", port, ip, port, host)
}

// BuildContainerShellCommand composes the remote command for an
// interactive shell inside a container, executed through RunInteractive.
func BuildContainerShellCommand(container, shell string) string {
	return fmt.Sprintf("docker exec -it %s %s", container, shell)
}
