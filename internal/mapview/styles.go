package mapview

const (
	NormalWeight  = 3
	NormalOpacity = 0.45
	HoverWeight   = 5
	HoverOpacity  = 0.6

	// HoverLineWeight is the width of the invisible line catching mouse events around a route
	HoverLineWeight = 30

	ArrowPixelSize = 13
	ArrowRepeat    = 60
)

type RouteStyle struct {
	Color   string  `json:"color"`
	Weight  int     `json:"weight"`
	Opacity float64 `json:"opacity"`
}

type ArrowStyle struct {
	PixelSize   int     `json:"pixelSize"`
	Repeat      int     `json:"repeat"`
	Color       string  `json:"color"`
	FillOpacity float64 `json:"fillOpacity"`
	Weight      int     `json:"weight"`
}

type Palette struct {
	Color      string `json:"color"`
	HoverColor string `json:"hoverColor"`
}

var (
	DefaultPalette   = Palette{Color: "lime", HoverColor: "orangered"}
	SatellitePalette = Palette{Color: "magenta", HoverColor: "yellow"}
)

func (p Palette) Normal() RouteStyle {
	return RouteStyle{Color: p.Color, Weight: NormalWeight, Opacity: NormalOpacity}
}

func (p Palette) Hovered() RouteStyle {
	return RouteStyle{Color: p.HoverColor, Weight: HoverWeight, Opacity: HoverOpacity}
}

// Style returns the route style for the hover state
func (p Palette) Style(hovered bool) RouteStyle {
	if hovered {
		return p.Hovered()
	}
	return p.Normal()
}

type RouteStyles struct {
	Normal  RouteStyle `json:"normal"`
	Hovered RouteStyle `json:"hovered"`
}

func (p Palette) Styles() RouteStyles {
	return RouteStyles{Normal: p.Normal(), Hovered: p.Hovered()}
}

// Arrow is drawn along a hovered route, filled like the line it decorates
func Arrow(style RouteStyle) ArrowStyle {
	return ArrowStyle{
		PixelSize:   ArrowPixelSize,
		Repeat:      ArrowRepeat,
		Color:       style.Color,
		FillOpacity: style.Opacity,
		Weight:      0,
	}
}

// PaletteFor picks the palette contrasting with the base layer
func PaletteFor(baseLayerKey string) Palette {
	if baseLayerKey == BaseLayerSatellite {
		return SatellitePalette
	}
	return DefaultPalette
}
