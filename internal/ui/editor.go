package ui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"frpcpanel/internal/app"
	"frpcpanel/internal/config"
)

type proxyCard struct {
	remoteRow  *fyne.Container
	domainRow  *fyne.Container
	localHint  *widget.Label
	remoteHint *widget.Label
	domainHint *widget.Label
}

type configEditor struct {
	w *Window

	portHint *widget.Label
	list     *fyne.Container
	cards    []*proxyCard
}

func newConfigEditor(w *Window) *configEditor {
	return &configEditor{w: w, list: container.NewVBox()}
}

func hintLabel() *widget.Label {
	l := widget.NewLabel("")
	l.Importance = widget.DangerImportance
	l.Hide()
	return l
}

func (e *configEditor) content() fyne.CanvasObject {
	cfg := e.w.ctl.Config()

	addr := widget.NewEntry()
	addr.SetPlaceHolder("1.2.3.4")
	addr.SetText(cfg.ServerAddr)
	addr.OnChanged = func(s string) {
		e.w.ctl.SetServerAddr(s)
		e.refreshHints()
	}

	port := widget.NewEntry()
	port.SetPlaceHolder("7000")
	port.SetText(cfg.ServerPort)
	port.OnChanged = func(s string) {
		e.w.ctl.SetServerPort(s)
		e.refreshHints()
	}
	e.portHint = hintLabel()

	token := widget.NewPasswordEntry()
	token.SetText(cfg.Token)
	token.OnChanged = e.w.ctl.SetToken

	server := widget.NewCard(e.w.t("server"), "", &widget.Form{
		Items: []*widget.FormItem{
			{Text: e.w.t("server_addr"), Widget: addr},
			{Text: e.w.t("server_port"), Widget: container.NewVBox(port, e.portHint)},
			{Text: e.w.t("token"), Widget: token},
		},
	})

	addBtn := widget.NewButtonWithIcon(e.w.t("add_tunnel"), theme.ContentAddIcon(), func() {
		e.w.ctl.AddProxy()
		e.rebuildList()
	})

	e.rebuildList()
	body := container.NewVBox(server, widget.NewLabelWithStyle(e.w.t("tunnels"), fyne.TextAlignLeading, fyne.TextStyle{Bold: true}), e.list, addBtn)
	return container.NewVScroll(body)
}

func (e *configEditor) rebuildList() {
	cfg := e.w.ctl.Config()
	e.list.RemoveAll()
	e.cards = e.cards[:0]
	if len(cfg.Proxies) == 0 {
		e.list.Add(widget.NewLabel(e.w.t("no_tunnels")))
	}
	for i, p := range cfg.Proxies {
		card, obj := e.buildCard(i, p)
		e.cards = append(e.cards, card)
		e.list.Add(obj)
	}
	e.refreshHints()
}

func (e *configEditor) buildCard(index int, p config.ProxyItem) (*proxyCard, fyne.CanvasObject) {
	c := &proxyCard{
		localHint:  hintLabel(),
		remoteHint: hintLabel(),
		domainHint: hintLabel(),
	}
	update := func(field app.ProxyField) func(string) {
		return func(s string) {
			if err := e.w.ctl.UpdateProxy(index, field, s); err != nil {
				return
			}
			e.refreshHints()
		}
	}

	name := widget.NewEntry()
	name.SetText(p.Name)
	name.OnChanged = update(app.FieldName)

	localIP := widget.NewEntry()
	localIP.SetPlaceHolder("127.0.0.1")
	localIP.SetText(p.LocalIP)
	localIP.OnChanged = update(app.FieldLocalIP)

	localPort := widget.NewEntry()
	localPort.SetText(p.LocalPort)
	localPort.OnChanged = update(app.FieldLocalPort)

	remotePort := widget.NewEntry()
	remotePort.SetPlaceHolder("6000")
	remotePort.SetText(p.RemotePortValue())
	remotePort.OnChanged = update(app.FieldRemotePort)

	domain := widget.NewEntry()
	domain.SetPlaceHolder("www.example.com")
	domain.SetText(p.CustomDomainsValue())
	domain.OnChanged = update(app.FieldCustomDomains)

	c.remoteRow = container.NewVBox(labelled(e.w.t("remote_port"), remotePort), c.remoteHint)
	c.domainRow = container.NewVBox(labelled(e.w.t("custom_domains"), domain), c.domainHint)

	types := make([]string, len(config.ProxyTypes))
	for i, t := range config.ProxyTypes {
		types[i] = string(t)
	}
	typeSel := widget.NewSelect(types, nil)
	typeSel.SetSelected(string(p.Type))
	typeSel.OnChanged = func(s string) {
		if err := e.w.ctl.UpdateProxy(index, app.FieldType, s); err != nil {
			return
		}
		c.showTypeRows(config.ProxyType(s))
		e.refreshHints()
	}
	c.showTypeRows(p.Type)

	title := strings.TrimSpace(p.Name)
	if title == "" {
		title = fmt.Sprintf("#%d", index+1)
	}
	deleteBtn := widget.NewButtonWithIcon(e.w.t("delete"), theme.DeleteIcon(), func() {
		msg := fmt.Sprintf(e.w.t("delete_confirm"), title)
		dialog.ShowConfirm(e.w.t("delete"), msg, func(ok bool) {
			if !ok {
				return
			}
			if err := e.w.ctl.RemoveProxy(index); err == nil {
				e.rebuildList()
			}
		}, e.w.win)
	})
	deleteBtn.Importance = widget.DangerImportance

	body := container.NewVBox(
		container.NewGridWithColumns(2, labelled(e.w.t("name"), name), labelled(e.w.t("type"), typeSel)),
		container.NewGridWithColumns(2,
			labelled(e.w.t("local_ip"), localIP),
			container.NewVBox(labelled(e.w.t("local_port"), localPort), c.localHint),
		),
		c.remoteRow,
		c.domainRow,
		container.NewHBox(deleteBtn),
	)
	return c, widget.NewCard("", "", body)
}

func (c *proxyCard) showTypeRows(t config.ProxyType) {
	if t.UsesDomain() {
		c.remoteRow.Hide()
		c.domainRow.Show()
		return
	}
	c.domainRow.Hide()
	c.remoteRow.Show()
}

func labelled(text string, obj fyne.CanvasObject) fyne.CanvasObject {
	return container.NewBorder(nil, nil, widget.NewLabel(text), nil, obj)
}

// refreshHints re-runs the live validator and shows a message under every
// flagged field.
func (e *configEditor) refreshHints() {
	errs := e.w.ctl.FieldErrors()
	setHint(e.portHint, e.w.t, errs.Server.ServerPort)
	for i, c := range e.cards {
		pe := errs.Proxies[i]
		setHint(c.localHint, e.w.t, pe.LocalPort)
		setHint(c.remoteHint, e.w.t, pe.RemotePort)
		setHint(c.domainHint, e.w.t, pe.CustomDomains)
	}
}

func setHint(l *widget.Label, t func(string) string, code string) {
	if l == nil {
		return
	}
	if code == "" {
		l.SetText("")
		l.Hide()
		return
	}
	l.SetText(t(code))
	l.Show()
}
