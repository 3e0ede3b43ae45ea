// Package main is the entry point for the devbox binary.
//
// devbox remembers which containers exist on each remote SSH host and
// issues pre-built SSH/Docker command lines to attach a tmux session
// inside a container or forward a local port to it.
//
// Usage:
//
//	devbox init <sshname>                  refresh stored container list
//	devbox nvim <sshname> <container>      attach the tmux session
//	devbox fp <sshname> <container> <port> forward a local port
//	devbox list                            print stored mappings
//
// The command tree is constructed in internal/cli.
package main

import (
	"fmt"
	"os"

	"github.com/treykane/devbox/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
