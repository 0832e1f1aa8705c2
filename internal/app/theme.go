package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// ViewerTheme is the application theme: default fyne styling with a muted
// primary color that does not compete with region overlays.
type ViewerTheme struct{}

var _ fyne.Theme = (*ViewerTheme)(nil)

func (t *ViewerTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		if variant == theme.VariantDark {
			return color.NRGBA{R: 0x90, G: 0xA4, B: 0xAE, A: 0xFF}
		}
		return color.NRGBA{R: 0x45, G: 0x5A, B: 0x64, A: 0xFF}
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0x90, G: 0xA4, B: 0xAE, A: 0x60}
	case theme.ColorNameBackground:
		// Image windows letterbox against the background; keep it neutral.
		if variant == theme.VariantDark {
			return color.NRGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xFF}
		}
		return color.NRGBA{R: 0xEE, G: 0xEE, B: 0xEE, A: 0xFF}
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *ViewerTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *ViewerTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *ViewerTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 13 // Dense band and region lists
	default:
		return theme.DefaultTheme().Size(name)
	}
}
