package graph

import colorful "github.com/lucasb-eyer/go-colorful"

// Config holds the dimension and color settings used while laying out a
// railroad diagram.
type Config struct {
	Padding       float64
	HorizontalGap float64
	CornerRadius  float64

	FontFamily string
	FontSize   float64

	TextColor string
	LineColor string
	LineWidth float64

	LiteralFill      string
	CharsetFill      string
	EscapeFill       string
	AnchorFill       string
	SubexpStroke     string
	SubexpColors     []string
	AnyCharFill      string
	RecursiveRefFill string
	BacktrackFill    string
	ConditionalFill  string
}

// DefaultConfig returns the default styling, generating the nested-group
// color wheel from evenly spaced hues rather than hand-picked hex values so
// it scales to any nesting depth.
func DefaultConfig() *Config {
	return &Config{
		Padding:       10,
		HorizontalGap: 10,
		CornerRadius:  3,

		FontFamily: "monospace",
		FontSize:   14,

		TextColor: "#000",
		LineColor: "#000",
		LineWidth: 2,

		LiteralFill:      "#ff6b6b",
		CharsetFill:      "#cbcbba",
		EscapeFill:       "#bada55",
		AnchorFill:       "#6b6659",
		SubexpStroke:     "#908c83",
		SubexpColors:     subexpPalette(6),
		AnyCharFill:      "#dae9e5",
		RecursiveRefFill: "#c9b3ff",
		BacktrackFill:    "#ffb3a7",
		ConditionalFill:  "#b3e5fc",
	}
}

// subexpPalette generates n pastel colors spread evenly around the hue
// wheel, used to give each group nesting depth its own color without
// repeating a hand-authored list.
func subexpPalette(n int) []string {
	colors := make([]string, n)
	for i := 0; i < n; i++ {
		hue := float64(i) * (360.0 / float64(n))
		c := colorful.Hsv(hue, 0.35, 0.96)
		colors[i] = c.Hex()
	}
	return colors
}

// colorForDepth cycles through the palette, wrapping around for deeply
// nested groups.
func (c *Config) colorForDepth(depth int) string {
	if len(c.SubexpColors) == 0 {
		return "none"
	}
	return c.SubexpColors[depth%len(c.SubexpColors)]
}
