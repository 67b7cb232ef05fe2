// Package tui is a terminal rendition of the status view for machines
// without a desktop session.
package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"frpcpanel/internal/app"
	"frpcpanel/internal/frpc"
	"frpcpanel/internal/i18n"
)

const pollInterval = 500 * time.Millisecond

type tickMsg time.Time

type toggleDoneMsg struct{ err error }

type copiedMsg struct {
	addr string
	err  error
}

type Model struct {
	ctl  *app.App
	keys keyMap
	logs viewport.Model

	snap  frpc.StatusSnapshot
	flash string
	err   error

	width, height int
}

func New(ctl *app.App) Model {
	return Model{
		ctl:  ctl,
		keys: defaultKeyMap(),
		logs: viewport.New(80, 12),
		snap: ctl.Snapshot(),
	}
}

// Run blocks until the user quits.
func Run(ctl *app.App) error {
	_, err := tea.NewProgram(New(ctl), tea.WithAltScreen()).Run()
	return err
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) t(key string) string {
	return i18n.T(m.ctl.Language(), key)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.logs.Width = max(msg.Width-4, 20)
		m.logs.Height = max(msg.Height-12, 5)
		return m, nil

	case tickMsg:
		m.refresh()
		return m, tick()

	case toggleDoneMsg:
		m.err = nil
		var verr *frpc.ValidationError
		if errors.As(msg.err, &verr) {
			m.err = verr
		}
		m.refresh()
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.flash = m.t("copied") + ": " + msg.addr
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Toggle):
		if m.snap.Busy {
			return m, nil
		}
		m.snap.Busy = true
		ctl := m.ctl
		return m, func() tea.Msg {
			return toggleDoneMsg{err: ctl.Toggle()}
		}

	case key.Matches(msg, m.keys.Copy):
		if m.snap.Status != frpc.StatusRunning {
			return m, nil
		}
		n, _ := strconv.Atoi(msg.String())
		entries := m.ctl.RemoteAddresses()
		if n < 1 || n > len(entries) {
			return m, nil
		}
		ctl, idx := m.ctl, entries[n-1].Index
		return m, func() tea.Msg {
			addr, err := ctl.CopyRemoteAddress(idx)
			return copiedMsg{addr: addr, err: err}
		}

	case key.Matches(msg, m.keys.Language):
		m.ctl.ToggleLanguage()
		return m, nil
	}

	var cmd tea.Cmd
	m.logs, cmd = m.logs.Update(msg)
	return m, cmd
}

func (m *Model) refresh() {
	m.snap = m.ctl.Snapshot()
	atBottom := m.logs.AtBottom()
	m.logs.SetContent(app.FormatLogs(m.snap.Logs))
	if atBottom {
		m.logs.GotoBottom()
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.t("app_title")))
	b.WriteString("  ")
	b.WriteString(statusStyle(m.snap.Status).Render("● " + m.t("status_"+string(m.snap.Status))))
	if m.snap.Busy {
		b.WriteString("  " + helpStyle.Render(m.t("busy")))
	}
	b.WriteString("\n\n")

	b.WriteString(panelStyle.Render(m.remotesView()))
	b.WriteString("\n")
	b.WriteString(panelStyle.Render(m.logs.View()))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()) + "\n")
	} else if m.flash != "" {
		b.WriteString(flashStyle.Render(m.flash) + "\n")
	}
	b.WriteString(helpStyle.Render(m.t("help_tui")))
	return b.String()
}

func (m Model) remotesView() string {
	title := m.t("remote_addresses")
	if m.snap.Status != frpc.StatusRunning {
		return title + "\n-"
	}
	entries := m.ctl.RemoteAddresses()
	if len(entries) == 0 {
		return title + "\n-"
	}
	lines := []string{title}
	for i, e := range entries {
		if i >= 9 {
			break
		}
		lines = append(lines, fmt.Sprintf("[%d] %-16s %s", i+1, e.Name, e.Address))
	}
	return strings.Join(lines, "\n")
}
