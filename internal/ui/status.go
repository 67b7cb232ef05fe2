package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"frpcpanel/internal/app"
	"frpcpanel/internal/frpc"
)

type statusView struct {
	w *Window

	dot       *canvas.Text
	label     *widget.Label
	toggleBtn *widget.Button
	remotes   *fyne.Container
	logEntry  *widget.Entry

	lastLogs    string
	lastRemotes []app.RemoteEntry
	lastStatus  frpc.Status
}

func newStatusView(w *Window) *statusView {
	v := &statusView{w: w}
	v.dot = canvas.NewText("●", statusColor(frpc.StatusStopped))
	v.dot.TextSize = 18
	v.label = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	v.toggleBtn = widget.NewButtonWithIcon(w.t("start"), theme.MediaPlayIcon(), w.toggle)
	v.toggleBtn.Importance = widget.HighImportance
	v.remotes = container.NewVBox()

	v.logEntry = widget.NewMultiLineEntry()
	v.logEntry.Wrapping = fyne.TextWrapOff
	v.logEntry.SetMinRowsVisible(12)
	v.logEntry.Disable()
	return v
}

func (v *statusView) content() fyne.CanvasObject {
	head := container.NewHBox(v.dot, v.label, layout.NewSpacer(), v.toggleBtn)
	remotes := widget.NewCard(v.w.t("remote_addresses"), "", v.remotes)
	logs := widget.NewCard(v.w.t("logs"), "", v.logEntry)
	return container.NewBorder(container.NewVBox(head, remotes), nil, nil, nil, logs)
}

func (v *statusView) update(snap frpc.StatusSnapshot) {
	v.dot.Color = statusColor(snap.Status)
	v.dot.Refresh()
	v.label.SetText(v.w.t("status_" + string(snap.Status)))

	switch {
	case snap.Busy:
		v.toggleBtn.SetText(v.w.t("busy"))
		v.toggleBtn.Disable()
	case snap.Status == frpc.StatusStopped:
		v.toggleBtn.SetText(v.w.t("start"))
		v.toggleBtn.SetIcon(theme.MediaPlayIcon())
		v.toggleBtn.Enable()
	default:
		v.toggleBtn.SetText(v.w.t("stop"))
		v.toggleBtn.SetIcon(theme.MediaStopIcon())
		v.toggleBtn.Enable()
	}

	v.updateRemotes(snap.Status)

	text := app.FormatLogs(snap.Logs)
	if text != v.lastLogs {
		v.lastLogs = text
		v.logEntry.SetText(text)
		v.logEntry.CursorRow = len(snap.Logs)
	}
}

// updateRemotes only shows addresses while frpc is up, and rebuilds the
// rows only when they changed so copy buttons stay clickable.
func (v *statusView) updateRemotes(st frpc.Status) {
	var entries []app.RemoteEntry
	if st == frpc.StatusRunning {
		entries = v.w.ctl.RemoteAddresses()
	}
	if st == v.lastStatus && sameRemotes(entries, v.lastRemotes) && len(v.remotes.Objects) > 0 {
		return
	}
	v.lastStatus = st
	v.lastRemotes = entries

	v.remotes.RemoveAll()
	if len(entries) == 0 {
		v.remotes.Add(widget.NewLabel("-"))
		return
	}
	for _, e := range entries {
		idx := e.Index
		copyBtn := widget.NewButtonWithIcon(v.w.t("copy"), theme.ContentCopyIcon(), nil)
		copyBtn.OnTapped = func() {
			if _, err := v.w.ctl.CopyRemoteAddress(idx); err == nil {
				copyBtn.SetText(v.w.t("copied"))
			}
		}
		v.remotes.Add(container.NewHBox(
			widget.NewLabelWithStyle(e.Name, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabel(e.Address),
			layout.NewSpacer(),
			copyBtn,
		))
	}
}

func sameRemotes(a, b []app.RemoteEntry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
