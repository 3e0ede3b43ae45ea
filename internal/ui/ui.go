// Package ui implements the interactive devbox dashboard: pick a host,
// pick a container, press Enter to attach the tmux session.
package ui

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/treykane/devbox/internal/appconfig"
	"github.com/treykane/devbox/internal/history"
	"github.com/treykane/devbox/internal/model"
	"github.com/treykane/devbox/internal/registry"
	"github.com/treykane/devbox/internal/remote"
	"github.com/treykane/devbox/internal/sshexec"
)

type pane int

const (
	paneHosts pane = iota
	paneContainers
)

type statusMsg string

type initDoneMsg struct {
	host  string
	count int
	err   error
}

type modelUI struct {
	reg      model.Registry
	hosts    []string
	filtered []string

	selHost      int
	selContainer int
	focus        pane

	filterInput textinput.Model
	filterMode  bool
	initInput   textinput.Model
	initMode    bool

	status string
	width  int
	height int

	cfg appconfig.Config
	ssh *sshexec.Client
}

func initialModel() modelUI {
	cfg, _ := appconfig.Load()

	fi := textinput.New()
	fi.Placeholder = "filter hosts"
	fi.CharLimit = 64
	fi.Width = 30

	ii := textinput.New()
	ii.Placeholder = "ssh host alias"
	ii.CharLimit = 128
	ii.Width = 40

	m := modelUI{
		cfg:         cfg,
		ssh:         sshexec.New(),
		filterInput: fi,
		initInput:   ii,
	}
	m.reloadRegistry()
	m.status = "Ready. Enter opens a host; Enter on a container attaches tmux."
	return m
}

func (m *modelUI) reloadRegistry() {
	reg, err := registry.Load()
	if err != nil {
		m.status = "storage error: " + err.Error()
		reg = model.NewRegistry()
	}
	m.reg = reg
	lastUsed, _ := history.LastUsed()
	m.hosts = history.SortHostsRecent(reg.Hosts(), lastUsed)
	m.applyFilter()
}

func (m *modelUI) applyFilter() {
	f := strings.ToLower(strings.TrimSpace(m.filterInput.Value()))
	if f == "" {
		m.filtered = append([]string(nil), m.hosts...)
	} else {
		m.filtered = nil
		for _, h := range m.hosts {
			if strings.Contains(strings.ToLower(h), f) {
				m.filtered = append(m.filtered, h)
			}
		}
	}
	if m.selHost >= len(m.filtered) {
		m.selHost = len(m.filtered) - 1
	}
	if m.selHost < 0 {
		m.selHost = 0
	}
	m.clampContainerSel()
}

func (m *modelUI) clampContainerSel() {
	n := len(m.selectedContainers())
	if m.selContainer >= n {
		m.selContainer = n - 1
	}
	if m.selContainer < 0 {
		m.selContainer = 0
	}
}

func (m modelUI) selectedHost() string {
	if len(m.filtered) == 0 {
		return ""
	}
	return m.filtered[m.selHost]
}

func (m modelUI) selectedContainers() []string {
	h := m.selectedHost()
	if h == "" {
		return nil
	}
	return m.reg.Containers[h]
}

func (m modelUI) Init() tea.Cmd {
	return nil
}

func initHostCmd(host string) tea.Cmd {
	return func() tea.Msg {
		containers, err := remote.ListContainers(context.Background(), sshexec.New(), host)
		if err != nil {
			return initDoneMsg{host: host, err: err}
		}
		if err := registry.Replace(host, containers); err != nil {
			return initDoneMsg{host: host, err: err}
		}
		return initDoneMsg{host: host, count: len(containers)}
	}
}

func (m modelUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case initDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("init %s failed: %v", msg.host, msg.err)
		} else {
			m.status = fmt.Sprintf("init %s: stored %d containers", msg.host, msg.count)
			m.reloadRegistry()
		}
		return m, nil
	case statusMsg:
		m.status = string(msg)
		return m, nil
	case tea.KeyMsg:
		if m.filterMode {
			return m.updateFilter(msg)
		}
		if m.initMode {
			return m.updateInitPrompt(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m modelUI) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.filterMode = false
		m.filterInput.Blur()
		m.applyFilter()
		return m, nil
	default:
		var cmd tea.Cmd
		m.filterInput, cmd = m.filterInput.Update(msg)
		m.applyFilter()
		return m, cmd
	}
}

func (m modelUI) updateInitPrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.initMode = false
		m.initInput.Blur()
		m.initInput.SetValue("")
		return m, nil
	case "enter":
		host := strings.TrimSpace(m.initInput.Value())
		m.initMode = false
		m.initInput.Blur()
		m.initInput.SetValue("")
		if host == "" {
			m.status = "init cancelled: empty host"
			return m, nil
		}
		m.status = "initializing " + host + "..."
		return m, initHostCmd(host)
	default:
		var cmd tea.Cmd
		m.initInput, cmd = m.initInput.Update(msg)
		return m, cmd
	}
}

func (m modelUI) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "j", "down":
		if m.focus == paneHosts {
			if m.selHost < len(m.filtered)-1 {
				m.selHost++
				m.selContainer = 0
			}
		} else if m.selContainer < len(m.selectedContainers())-1 {
			m.selContainer++
		}
	case "k", "up":
		if m.focus == paneHosts {
			if m.selHost > 0 {
				m.selHost--
				m.selContainer = 0
			}
		} else if m.selContainer > 0 {
			m.selContainer--
		}
	case "h", "left":
		m.focus = paneHosts
	case "l", "right":
		if len(m.selectedContainers()) > 0 {
			m.focus = paneContainers
		}
	case "/":
		m.filterMode = true
		m.filterInput.Focus()
		return m, m.filterInput.Cursor.BlinkCmd()
	case "a":
		m.initMode = true
		m.initInput.Focus()
		return m, m.initInput.Cursor.BlinkCmd()
	case "i":
		h := m.selectedHost()
		if h == "" {
			break
		}
		m.status = "initializing " + h + "..."
		return m, initHostCmd(h)
	case "r":
		m.reloadRegistry()
		m.status = "Reloaded registry"
	case "enter":
		if m.focus == paneHosts {
			if len(m.selectedContainers()) > 0 {
				m.focus = paneContainers
			} else {
				m.status = "no stored containers; press i to initialize this host"
			}
			break
		}
		h := m.selectedHost()
		containers := m.selectedContainers()
		if h == "" || len(containers) == 0 {
			break
		}
		container := containers[m.selContainer]
		attach := sshexec.BuildAttachCommand(h, container, m.cfg.Session)
		cmd := exec.Command("sh", "-c", attach)
		if err := history.Touch(h); err != nil {
			m.status = "history: " + err.Error()
		}
		return m, tea.ExecProcess(cmd, func(err error) tea.Msg {
			if err != nil {
				return statusMsg("attach exited: " + err.Error())
			}
			return statusMsg("attach session closed")
		})
	}
	return m, nil
}

func (m modelUI) View() string {
	head := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Render("devbox dashboard")
	subhead := fmt.Sprintf("hosts=%d shown=%d session=%s", len(m.hosts), len(m.filtered), m.cfg.Session)

	hostsPanel := strings.Builder{}
	for i, h := range m.filtered {
		cursor := " "
		if i == m.selHost {
			cursor = ">"
		}
		focusMark := " "
		if m.focus == paneHosts && i == m.selHost {
			focusMark = "*"
		}
		hostsPanel.WriteString(fmt.Sprintf("%s%s %-24s (%d)\n", cursor, focusMark, h, len(m.reg.Containers[h])))
	}
	if len(m.filtered) == 0 {
		hostsPanel.WriteString("  (no hosts; press a to init one)\n")
	}

	containersPanel := strings.Builder{}
	containers := m.selectedContainers()
	for i, c := range containers {
		cursor := " "
		if m.focus == paneContainers && i == m.selContainer {
			cursor = ">"
		}
		name := c
		if strings.TrimSpace(name) == "" {
			name = "(blank)"
		}
		containersPanel.WriteString(fmt.Sprintf("%s %s\n", cursor, name))
	}
	if len(containers) == 0 {
		containersPanel.WriteString("  (none; press i to initialize)\n")
	}

	filterLine := "Filter: " + m.filterInput.Value()
	if m.filterMode {
		filterLine = "Filter: " + m.filterInput.View()
	}

	prompt := ""
	if m.initMode {
		prompt = m.renderPanel("Init host", m.initInput.View(), m.effectiveWidth(), lipgloss.Color("214"))
	}

	quickHelp := "Keys: Enter select/attach | i init host | a init new | / filter | r reload | q quit"
	main := m.renderMainPanels(hostsPanel.String(), containersPanel.String())
	status := m.renderPanel("Status", m.status, m.effectiveWidth(), lipgloss.Color("205"))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		head,
		subhead,
		filterLine,
		quickHelp,
		main,
		prompt,
		status,
	)
}

func (m modelUI) renderMainPanels(hostsPanel, containersPanel string) string {
	width := m.effectiveWidth()
	if width < 96 {
		return lipgloss.JoinVertical(
			lipgloss.Left,
			m.renderPanel("Hosts", hostsPanel, width, lipgloss.Color("39")),
			m.renderPanel("Containers", containersPanel, width, lipgloss.Color("69")),
		)
	}
	leftWidth := width / 2
	rightWidth := width - leftWidth
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderPanel("Hosts", hostsPanel, leftWidth, lipgloss.Color("39")),
		m.renderPanel("Containers", containersPanel, rightWidth, lipgloss.Color("69")),
	)
}

func (m modelUI) effectiveWidth() int {
	if m.width <= 0 {
		return 100
	}
	return m.width
}

func (m modelUI) renderPanel(title, body string, width int, accent lipgloss.Color) string {
	if width < 24 {
		width = 24
	}
	header := lipgloss.NewStyle().Bold(true).Foreground(accent).Render(title)
	content := strings.TrimSuffix(body, "\n")
	panel := strings.TrimSpace(header + "\n" + content)
	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1).
		Render(panel)
}

// Run launches the dashboard.
func Run() error {
	if err := sshexec.EnsureSSHBinary(); err != nil {
		return err
	}
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
