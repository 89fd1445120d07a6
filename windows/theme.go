package windows

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// CustomTheme is the pqedit look: a light grid on a neutral background with
// a blue accent for selection and focus.
type CustomTheme struct{}

var _ fyne.Theme = (*CustomTheme)(nil)

func (m CustomTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if variant == theme.VariantLight {
		switch name {
		case theme.ColorNameBackground:
			return color.NRGBA{R: 0xf5, G: 0xf5, B: 0xf5, A: 0xff}
		case theme.ColorNamePrimary, theme.ColorNameButton:
			return color.NRGBA{R: 0x00, G: 0x78, B: 0xd7, A: 0xff}
		case theme.ColorNameHover:
			return color.NRGBA{R: 0xe5, G: 0xf1, B: 0xfb, A: 0xff}
		case theme.ColorNameFocus:
			return color.NRGBA{R: 0x00, G: 0x5a, B: 0x9e, A: 0xff}
		case theme.ColorNameForeground:
			return color.NRGBA{R: 0x1f, G: 0x1f, B: 0x1f, A: 0xff}
		case theme.ColorNameInputBackground, theme.ColorNameHeaderBackground:
			return color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
		case theme.ColorNameSelection:
			return color.NRGBA{R: 0xcc, G: 0xe4, B: 0xf7, A: 0xff}
		case theme.ColorNameForegroundOnPrimary:
			return color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
		}
	} else {
		switch name {
		case theme.ColorNameBackground:
			return color.NRGBA{R: 0x1f, G: 0x1f, B: 0x1f, A: 0xff}
		case theme.ColorNamePrimary, theme.ColorNameButton:
			return color.NRGBA{R: 0x3a, G: 0x96, B: 0xdd, A: 0xff}
		case theme.ColorNameHover:
			return color.NRGBA{R: 0x2b, G: 0x2b, B: 0x2b, A: 0xff}
		case theme.ColorNameFocus:
			return color.NRGBA{R: 0x60, G: 0xcd, B: 0xff, A: 0xff}
		case theme.ColorNameForeground:
			return color.NRGBA{R: 0xe6, G: 0xe6, B: 0xe6, A: 0xff}
		case theme.ColorNameInputBackground, theme.ColorNameHeaderBackground:
			return color.NRGBA{R: 0x2b, G: 0x2b, B: 0x2b, A: 0xff}
		case theme.ColorNameSelection:
			return color.NRGBA{R: 0x00, G: 0x4e, B: 0x8c, A: 0xff}
		}
	}
	return theme.DefaultTheme().Color(name, variant)
}

func (m CustomTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (m CustomTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (m CustomTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 4
	case theme.SizeNameInlineIcon:
		return 20
	case theme.SizeNameScrollBar:
		return 10
	case theme.SizeNameSeparatorThickness:
		return 1
	}
	return theme.DefaultTheme().Size(name)
}
