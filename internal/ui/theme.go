package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"frpcpanel/internal/frpc"
)

var (
	colorStopped    = color.NRGBA{R: 0x6E, G: 0x7A, B: 0x88, A: 0xFF}
	colorConnecting = color.NRGBA{R: 0xF2, G: 0xC0, B: 0x38, A: 0xFF}
	colorRunning    = color.NRGBA{R: 0x2E, G: 0xD5, B: 0x73, A: 0xFF}
	colorDanger     = color.NRGBA{R: 0xFF, G: 0x5D, B: 0x6C, A: 0xFF}
)

// palette ties the widget colours to the status light, so buttons, hints
// and the dot agree on what green, amber and red mean.
var palette = map[fyne.ThemeColorName]color.Color{
	theme.ColorNameBackground:      color.NRGBA{R: 0x0B, G: 0x10, B: 0x16, A: 0xFF},
	theme.ColorNameForeground:      color.NRGBA{R: 0xE9, G: 0xEE, B: 0xF4, A: 0xFF},
	theme.ColorNameInputBackground: color.NRGBA{R: 0x10, G: 0x18, B: 0x22, A: 0xFF},
	theme.ColorNamePrimary:         colorRunning,
	theme.ColorNameSuccess:         colorRunning,
	theme.ColorNameWarning:         colorConnecting,
	theme.ColorNameError:           colorDanger,
	theme.ColorNameDisabled:        colorStopped,
	theme.ColorNamePlaceHolder:     colorStopped,
}

var sizes = map[fyne.ThemeSizeName]float32{
	theme.SizeNamePadding: 8,
	theme.SizeNameText:    13,
}

// panelTheme is the dark default theme with the palette and sizes above.
type panelTheme struct {
	fyne.Theme
}

func newPanelTheme() fyne.Theme {
	return panelTheme{Theme: theme.DefaultTheme()}
}

func (t panelTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	if c, ok := palette[name]; ok {
		return c
	}
	return t.Theme.Color(name, theme.VariantDark)
}

func (t panelTheme) Size(name fyne.ThemeSizeName) float32 {
	if s, ok := sizes[name]; ok {
		return s
	}
	return t.Theme.Size(name)
}

func statusColor(s frpc.Status) color.Color {
	switch s {
	case frpc.StatusConnecting:
		return colorConnecting
	case frpc.StatusRunning:
		return colorRunning
	default:
		return colorStopped
	}
}
