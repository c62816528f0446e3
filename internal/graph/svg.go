package graph

import (
	"fmt"
	"html"
	"strconv"
	"strings"
)

// fmtFloat formats a float64 for SVG attributes, trimming trailing zeros so
// output is stable across platforms (avoids FMA-related digit noise).
func fmtFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', 10, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimRight(s, ".")
	}
	return s
}

type SVGElement interface {
	Render() string
}

type Group struct {
	Class     string
	Transform string
	Children  []SVGElement
}

func (g *Group) Render() string {
	var attrs []string
	if g.Class != "" {
		attrs = append(attrs, fmt.Sprintf(`class="%s"`, g.Class))
	}
	if g.Transform != "" {
		attrs = append(attrs, fmt.Sprintf(`transform="%s"`, g.Transform))
	}
	var children strings.Builder
	for _, child := range g.Children {
		children.WriteString(child.Render())
	}
	attrStr := ""
	if len(attrs) > 0 {
		attrStr = " " + strings.Join(attrs, " ")
	}
	return fmt.Sprintf("<g%s>%s</g>", attrStr, children.String())
}

type Rect struct {
	X, Y          float64
	Width, Height float64
	Rx, Ry        float64
	Fill          string
	Stroke        string
	StrokeWidth   float64
	Class         string
}

func (r *Rect) Render() string {
	attrs := []string{
		`x="` + fmtFloat(r.X) + `"`,
		`y="` + fmtFloat(r.Y) + `"`,
		`width="` + fmtFloat(r.Width) + `"`,
		`height="` + fmtFloat(r.Height) + `"`,
	}
	if r.Rx > 0 {
		attrs = append(attrs, `rx="`+fmtFloat(r.Rx)+`"`)
	}
	if r.Fill != "" {
		attrs = append(attrs, fmt.Sprintf(`fill="%s"`, r.Fill))
	}
	if r.Stroke != "" {
		attrs = append(attrs, fmt.Sprintf(`stroke="%s"`, r.Stroke))
	}
	if r.StrokeWidth > 0 {
		attrs = append(attrs, `stroke-width="`+fmtFloat(r.StrokeWidth)+`"`)
	}
	if r.Class != "" {
		attrs = append(attrs, fmt.Sprintf(`class="%s"`, r.Class))
	}
	return fmt.Sprintf("<rect %s/>", strings.Join(attrs, " "))
}

type Text struct {
	X, Y       float64
	Content    string
	FontFamily string
	FontSize   float64
	Fill       string
	Anchor     string
	Class      string
}

func (t *Text) Render() string {
	attrs := []string{`x="` + fmtFloat(t.X) + `"`, `y="` + fmtFloat(t.Y) + `"`}
	if t.FontFamily != "" {
		attrs = append(attrs, fmt.Sprintf(`font-family="%s"`, t.FontFamily))
	}
	if t.FontSize > 0 {
		attrs = append(attrs, `font-size="`+fmtFloat(t.FontSize)+`"`)
	}
	if t.Fill != "" {
		attrs = append(attrs, fmt.Sprintf(`fill="%s"`, t.Fill))
	}
	if t.Anchor != "" {
		attrs = append(attrs, fmt.Sprintf(`text-anchor="%s"`, t.Anchor))
	}
	if t.Class != "" {
		attrs = append(attrs, fmt.Sprintf(`class="%s"`, t.Class))
	}
	return fmt.Sprintf("<text %s>%s</text>", strings.Join(attrs, " "), html.EscapeString(t.Content))
}

type Path struct {
	D           string
	Fill        string
	Stroke      string
	StrokeWidth float64
}

func (p *Path) Render() string {
	attrs := []string{fmt.Sprintf(`d="%s"`, p.D)}
	if p.Fill != "" {
		attrs = append(attrs, fmt.Sprintf(`fill="%s"`, p.Fill))
	} else {
		attrs = append(attrs, `fill="none"`)
	}
	if p.Stroke != "" {
		attrs = append(attrs, fmt.Sprintf(`stroke="%s"`, p.Stroke))
	}
	if p.StrokeWidth > 0 {
		attrs = append(attrs, `stroke-width="`+fmtFloat(p.StrokeWidth)+`"`)
	}
	return fmt.Sprintf("<path %s/>", strings.Join(attrs, " "))
}

type Line struct {
	X1, Y1      float64
	X2, Y2      float64
	Stroke      string
	StrokeWidth float64
}

func (l *Line) Render() string {
	attrs := []string{
		`x1="` + fmtFloat(l.X1) + `"`, `y1="` + fmtFloat(l.Y1) + `"`,
		`x2="` + fmtFloat(l.X2) + `"`, `y2="` + fmtFloat(l.Y2) + `"`,
	}
	if l.Stroke != "" {
		attrs = append(attrs, fmt.Sprintf(`stroke="%s"`, l.Stroke))
	}
	if l.StrokeWidth > 0 {
		attrs = append(attrs, `stroke-width="`+fmtFloat(l.StrokeWidth)+`"`)
	}
	return fmt.Sprintf("<line %s/>", strings.Join(attrs, " "))
}

type SVG struct {
	Width    float64
	Height   float64
	Children []SVGElement
}

func (s *SVG) Render() string {
	attrs := []string{`xmlns="http://www.w3.org/2000/svg"`}
	if s.Width > 0 {
		attrs = append(attrs, `width="`+fmtFloat(s.Width)+`"`)
	}
	if s.Height > 0 {
		attrs = append(attrs, `height="`+fmtFloat(s.Height)+`"`)
	}
	attrs = append(attrs, fmt.Sprintf(`viewBox="0 0 %s %s"`, fmtFloat(s.Width), fmtFloat(s.Height)))
	var children strings.Builder
	for _, child := range s.Children {
		children.WriteString(child.Render())
	}
	return fmt.Sprintf("<svg %s>%s</svg>", strings.Join(attrs, " "), children.String())
}
