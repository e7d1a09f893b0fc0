package gdraw

import "image/color"

// ---- Styles (palettes) ----

type Palette struct {
	Bg         color.RGBA
	WhiteTile  color.RGBA
	BlackTile  color.RGBA
	Highlight  color.NRGBA
	BannerFill color.RGBA
	BannerText color.RGBA
}

var ClassicPalette = Palette{
	Bg:         color.RGBA{0x7f, 0x7f, 0x7f, 0xff},
	WhiteTile:  color.RGBA{125, 125, 125, 0xff},
	BlackTile:  color.RGBA{80, 80, 80, 0xff},
	Highlight:  color.NRGBA{255, 131, 21, 0x80},
	BannerFill: color.RGBA{0xff, 0xff, 0xff, 0xff},
	BannerText: color.RGBA{0x00, 0x00, 0x00, 0xff},
}

var WoodPalette = Palette{
	Bg:         color.RGBA{0x12, 0x12, 0x12, 0xff},
	WhiteTile:  color.RGBA{233, 207, 163, 0xff},
	BlackTile:  color.RGBA{187, 136, 96, 0xff},
	Highlight:  color.NRGBA{255, 228, 120, 140},
	BannerFill: color.RGBA{0xff, 0xff, 0xff, 0xff},
	BannerText: color.RGBA{0x22, 0x22, 0x22, 0xff},
}

func (p Palette) String() string {
	switch p {
	case ClassicPalette:
		return "classic"
	case WoodPalette:
		return "wood"
	default:
	}
	return ""
}

func PaletteFromString(p string) Palette {
	switch p {
	case "wood":
		return WoodPalette
	default:
	}
	return ClassicPalette
}
