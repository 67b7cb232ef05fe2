package app

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"frpcpanel/internal/frpc"
)

const logTimeLayout = "15:04:05"

// FormatLogLine renders an entry for display: colour codes stripped and a
// clock prefix added.
func FormatLogLine(e frpc.LogEntry) string {
	msg := strings.TrimRight(ansi.Strip(e.Message), "\r\n")
	return "[" + e.Time.Format(logTimeLayout) + "] " + msg
}

func FormatLogs(entries []frpc.LogEntry) string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = FormatLogLine(e)
	}
	return strings.Join(lines, "\n")
}

type RemoteEntry struct {
	Index   int
	Name    string
	Address string
}

// RemoteAddresses lists every tunnel that has somewhere to be reached at.
func (a *App) RemoteAddresses() []RemoteEntry {
	cfg := a.Config()
	out := make([]RemoteEntry, 0, len(cfg.Proxies))
	for i, p := range cfg.Proxies {
		addr := a.RemoteAddress(p)
		if p.Type.UsesRemotePort() && strings.TrimSpace(p.RemotePortValue()) == "" {
			continue
		}
		if addr == "" {
			continue
		}
		out = append(out, RemoteEntry{Index: i, Name: p.Name, Address: addr})
	}
	return out
}
