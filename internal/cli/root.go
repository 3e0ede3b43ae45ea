// Package cli provides the command-line interface for devbox.
package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/treykane/devbox/internal/appconfig"
	"github.com/treykane/devbox/internal/bookmark"
	"github.com/treykane/devbox/internal/doctor"
	"github.com/treykane/devbox/internal/forward"
	"github.com/treykane/devbox/internal/history"
	"github.com/treykane/devbox/internal/journal"
	"github.com/treykane/devbox/internal/registry"
	"github.com/treykane/devbox/internal/remote"
	"github.com/treykane/devbox/internal/sshconfig"
	"github.com/treykane/devbox/internal/sshexec"
	"github.com/treykane/devbox/internal/ui"
	"github.com/treykane/devbox/internal/util"
)

// NewRootCommand creates the root cobra command.
//
// Operational failures (unreachable host, damaged storage) are reported
// as a single line on stderr inside each handler and the process
// proceeds to a normal exit; only usage errors propagate to main.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "devbox",
		Short: "Remembers per-host containers and issues SSH/Docker attach and forward commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(os.Stderr, "no valid subcommand was provided")
			return nil
		},
	}

	root.AddCommand(newInitCmd())
	root.AddCommand(newNvimCmd())
	root.AddCommand(newFpCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newShellCmd())
	root.AddCommand(newHostsCmd())
	root.AddCommand(newForwardsCmd())
	root.AddCommand(newBookmarkCmd())
	root.AddCommand(newJournalCmd())
	root.AddCommand(newDoctorCmd())
	root.AddCommand(newUICmd())
	return root
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init <sshname>",
		Short: "Refresh the stored container list for a host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			host := args[0]
			containers, err := remote.ListContainers(cmd.Context(), sshexec.New(), host)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error initializing containers: %v\n", err)
				return nil
			}
			if err := registry.Replace(host, containers); err != nil {
				fmt.Fprintf(os.Stderr, "Error initializing containers: %v\n", err)
				return nil
			}
			fmt.Printf("Initialized containers for SSH name: %s\n", host)
			recordActivity("init", host, "", fmt.Sprintf("stored %d containers", len(containers)))
			return nil
		},
	}
}

func newNvimCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nvim <sshname> <container>",
		Short: "Attach or create the tmux session inside a container",
		Long:  "Attach or create the tmux session inside a container.\nA single @name argument expands a bookmark.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			host, container, err := resolveTarget(args)
			if err != nil {
				return err
			}
			cfg, err := appconfig.Load()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
				return nil
			}
			attach := sshexec.BuildAttachCommand(host, container, cfg.Session)
			label := fmt.Sprintf("Neovim in container '%s'", container)
			if err := sshexec.New().RunShell(attach, label); err == nil {
				recordActivity("attach", host, container, "")
			}
			return nil
		},
	}
}

func newFpCmd() *cobra.Command {
	var detach bool
	cmd := &cobra.Command{
		Use:   "fp <sshname> <container> <port>",
		Short: "Forward a local port to the container's same port",
		Long:  "Forward a local port to the container's same port via its resolved IP.\nA single @name argument expands a bookmark that carries a port.",
		Args:  cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			host, container, port, err := resolveForwardTarget(args)
			if err != nil {
				return err
			}
			client := sshexec.New()
			ip, err := remote.ResolveContainerIP(cmd.Context(), client, host, container)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error forwarding port: %v\n", err)
				return nil
			}

			if detach {
				mgr := forward.NewManager(client)
				rt, err := mgr.Start(host, container, port, ip)
				if err != nil {
					fmt.Fprintf(os.Stderr, "Error forwarding port: %v\n", err)
					return nil
				}
				fmt.Printf("started %s pid=%d local:%s -> %s:%s\n", rt.ID, rt.PID, rt.Port, rt.IP, rt.Port)
				recordActivity("forward", host, container, "detached port "+port)
				return nil
			}

			fwd := sshexec.BuildForwardCommand(host, ip, port)
			label := fmt.Sprintf("port forward for container '%s'", container)
			recordActivity("forward", host, container, "port "+port)
			_ = client.RunShell(fwd, label)
			return nil
		},
	}
	cmd.Flags().BoolVar(&detach, "detach", false, "run the tunnel in the background and track it (see `devbox forwards`)")
	return cmd
}

func newListCmd() *cobra.Command {
	var recent bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print all stored host → container mappings",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.Load()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error loading storage: %v\n", err)
				return nil
			}
			hosts := reg.Hosts()
			if recent {
				lastUsed, err := history.LastUsed()
				if err == nil {
					hosts = history.SortHostsRecent(hosts, lastUsed)
				}
			}
			fmt.Println("Stored containers by SSH name:")
			for _, h := range hosts {
				fmt.Printf("- %s: %s\n", h, util.EmptyDash(strings.Join(reg.Containers[h], ", ")))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&recent, "recent", false, "order hosts by most recent activity")
	return cmd
}

func newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell <sshname> <container>",
		Short: "Open an interactive shell inside a container",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			host, container := args[0], args[1]
			cfg, err := appconfig.Load()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
				return nil
			}
			remoteCmd := sshexec.BuildContainerShellCommand(container, cfg.RemoteShell)
			if err := sshexec.New().RunInteractive(cmd.Context(), host, remoteCmd); err != nil {
				fmt.Fprintf(os.Stderr, "Error running shell in container '%s': %v\n", container, err)
				return nil
			}
			recordActivity("shell", host, container, "")
			return nil
		},
	}
}

func newHostsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hosts",
		Short: "List candidate SSH destinations from ~/.ssh/config",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := sshconfig.ParseDefault()
			if err != nil {
				return err
			}
			reg, regErr := registry.Load()
			fmt.Printf("%-24s %-32s %s\n", "ALIAS", "HOSTNAME", "STORED")
			for _, h := range res.Hosts {
				stored := "-"
				if regErr == nil {
					if containers, ok := reg.Containers[h.Alias]; ok {
						stored = fmt.Sprintf("%d containers", len(containers))
					}
				}
				fmt.Printf("%-24s %-32s %s\n", h.Alias, h.HostName, stored)
			}
			if len(res.Warnings) > 0 {
				fmt.Fprintln(os.Stderr, "warnings:")
				for _, w := range res.Warnings {
					fmt.Fprintf(os.Stderr, "  - %s\n", w)
				}
			}
			return nil
		},
	}
}

func newForwardsCmd() *cobra.Command {
	mgr := forward.NewManager(sshexec.New())
	root := &cobra.Command{
		Use:   "forwards",
		Short: "Show detached port forwards",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := mgr.List()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error listing forwards: %v\n", err)
				return nil
			}
			fmt.Printf("%-28s %-16s %-16s %-8s %-16s %-8s %-8s\n", "ID", "HOST", "CONTAINER", "PORT", "IP", "STATE", "PID")
			for _, rt := range entries {
				fmt.Printf("%-28s %-16s %-16s %-8s %-16s %-8s %-8d\n", rt.ID, rt.Host, rt.Container, rt.Port, rt.IP, rt.State, rt.PID)
			}
			return nil
		},
	}

	stop := &cobra.Command{
		Use:   "stop <host|id>",
		Short: "Stop detached forward(s) by host or full ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := mgr.Stop(args[0]); err != nil {
				return err
			}
			fmt.Printf("stopped forwards for %s\n", args[0])
			return nil
		},
	}

	root.AddCommand(stop)
	return root
}

func newBookmarkCmd() *cobra.Command {
	root := &cobra.Command{Use: "bookmark", Short: "Manage @name shortcuts for nvim and fp"}

	add := &cobra.Command{
		Use:   "add <name> <sshname> <container> [port]",
		Short: "Add or replace a bookmark",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := bookmark.Entry{Name: args[0], Host: args[1], Container: args[2]}
			if len(args) == 4 {
				e.Port = args[3]
			}
			if err := bookmark.Create(e); err != nil {
				return err
			}
			fmt.Printf("bookmarked @%s -> %s/%s\n", e.Name, e.Host, e.Container)
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List bookmarks",
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := bookmark.LoadAll()
			if err != nil {
				return err
			}
			fmt.Printf("%-16s %-20s %-20s %s\n", "NAME", "HOST", "CONTAINER", "PORT")
			for _, e := range all {
				fmt.Printf("%-16s %-20s %-20s %s\n", e.Name, e.Host, e.Container, util.EmptyDash(e.Port))
			}
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := bookmark.Delete(args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted bookmark %s\n", args[0])
			return nil
		},
	}

	root.AddCommand(add, list, del)
	return root
}

func newJournalCmd() *cobra.Command {
	var (
		host    string
		limit   int
		jsonOut bool
	)
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Show recent devbox activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := journal.NewStore().Read(journal.Query{Host: host, Limit: limit})
			if err != nil {
				return err
			}
			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(events)
			}
			for _, evt := range events {
				fmt.Printf("%s %-8s %-16s %-16s %s\n",
					evt.Timestamp.Format("2006-01-02 15:04:05"),
					evt.Action, util.EmptyDash(evt.Host), util.EmptyDash(evt.Container), evt.Message)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "filter by host")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum events to show (0 = all)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output JSON")
	return cmd
}

func newDoctorCmd() *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run local diagnostics",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := doctor.Run()
			if err != nil {
				return err
			}
			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			if len(report.Issues) == 0 {
				fmt.Println("no issues found")
				return nil
			}
			for _, is := range report.Issues {
				fmt.Printf("[%s] %s %s: %s (%s)\n", is.Severity, is.Check, is.Target, is.Message, is.Recommendation)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output JSON")
	return cmd
}

func newUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ui.Run()
		},
	}
}

// resolveTarget expands a lone @name bookmark or passes host/container
// positionals through.
func resolveTarget(args []string) (host, container string, err error) {
	if len(args) == 1 {
		if !strings.HasPrefix(args[0], "@") {
			return "", "", fmt.Errorf("expected <sshname> <container> or a single @bookmark")
		}
		e, err := bookmark.Get(strings.TrimPrefix(args[0], "@"))
		if err != nil {
			return "", "", err
		}
		return e.Host, e.Container, nil
	}
	return args[0], args[1], nil
}

// resolveForwardTarget expands a lone @name bookmark carrying a port,
// or passes host/container/port positionals through.
func resolveForwardTarget(args []string) (host, container, port string, err error) {
	switch len(args) {
	case 1:
		if !strings.HasPrefix(args[0], "@") {
			return "", "", "", fmt.Errorf("expected <sshname> <container> <port> or a single @bookmark")
		}
		e, err := bookmark.Get(strings.TrimPrefix(args[0], "@"))
		if err != nil {
			return "", "", "", err
		}
		if e.Port == "" {
			return "", "", "", fmt.Errorf("bookmark %s has no port; pass one or re-add with a port", e.Name)
		}
		return e.Host, e.Container, e.Port, nil
	case 3:
		return args[0], args[1], args[2], nil
	default:
		return "", "", "", fmt.Errorf("expected <sshname> <container> <port> or a single @bookmark")
	}
}

// recordActivity updates history and the journal after a successful
// action. Both are best-effort: failures are logged, never surfaced.
func recordActivity(action, host, container, message string) {
	if err := history.Touch(host); err != nil {
		slog.Warn("failed to record history", "error", err)
	}
	if err := journal.NewStore().Append(journal.Event{Host: host, Container: container, Action: action, Message: message}); err != nil {
		slog.Warn("failed to append journal event", "error", err)
	}
}
