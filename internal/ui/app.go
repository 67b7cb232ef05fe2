// Package ui is the fyne desktop window: a status tab with the start/stop
// switch and frpc's log, and a config tab editing server and tunnels.
package ui

import (
	"errors"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"frpcpanel/internal/app"
	"frpcpanel/internal/frpc"
	"frpcpanel/internal/i18n"
)

const pollInterval = 500 * time.Millisecond

type Window struct {
	ctl *app.App
	fa  fyne.App
	win fyne.Window

	status *statusView
	editor *configEditor
	tabs   *container.AppTabs
}

// Run shows the window and blocks until the user quits.
func Run(ctl *app.App) {
	fa := fyneapp.NewWithID("frpcpanel")
	fa.Settings().SetTheme(newPanelTheme())

	w := &Window{
		ctl: ctl,
		fa:  fa,
		win: fa.NewWindow(i18n.T(ctl.Language(), "app_title")),
	}
	w.build()
	w.setupTray()

	stop := make(chan struct{})
	go w.poll(stop)

	w.win.Resize(fyne.NewSize(760, 560))
	w.win.ShowAndRun()
	close(stop)
}

func (w *Window) t(key string) string {
	return i18n.T(w.ctl.Language(), key)
}

func (w *Window) build() {
	w.status = newStatusView(w)
	w.editor = newConfigEditor(w)

	langBtn := widget.NewButton(w.t("language"), func() {
		w.ctl.ToggleLanguage()
		w.build()
		w.setupTray()
	})

	w.tabs = container.NewAppTabs(
		container.NewTabItem(w.t("tab_status"), w.status.content()),
		container.NewTabItem(w.t("tab_config"), w.editor.content()),
	)
	w.win.SetTitle(w.t("app_title"))
	w.win.SetContent(container.NewBorder(container.NewHBox(layout.NewSpacer(), langBtn), nil, nil, nil, w.tabs))
	w.status.update(w.ctl.Snapshot())
}

func (w *Window) poll(stop <-chan struct{}) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			snap := w.ctl.Snapshot()
			fyne.Do(func() {
				w.status.update(snap)
			})
		}
	}
}

// toggle runs off the UI goroutine since stopping a previous frpc can block.
func (w *Window) toggle() {
	go func() {
		err := w.ctl.Toggle()
		var verr *frpc.ValidationError
		switch {
		case err == nil, errors.Is(err, frpc.ErrBusy):
		case errors.As(err, &verr):
			fyne.Do(func() {
				dialog.ShowError(verr, w.win)
			})
		}
	}()
}

func (w *Window) setupTray() {
	desk, ok := w.fa.(desktop.App)
	if !ok {
		return
	}
	menu := fyne.NewMenu(w.t("app_title"),
		fyne.NewMenuItem(w.t("show"), func() { w.win.Show() }),
		fyne.NewMenuItem(w.t("hide"), func() { w.win.Hide() }),
		fyne.NewMenuItem(w.t("start"), func() {
			go func() { _ = w.ctl.Start() }()
		}),
		fyne.NewMenuItem(w.t("stop"), func() {
			go func() { _ = w.ctl.Stop() }()
		}),
		fyne.NewMenuItem(w.t("quit"), func() { w.fa.Quit() }),
	)
	desk.SetSystemTrayMenu(menu)
	w.win.SetCloseIntercept(func() { w.win.Hide() })
}
