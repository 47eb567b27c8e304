package chart

import (
	"html/template"
	"io"
)

const (
	chartWidth  = 960
	chartHeight = 420
	marginLeft  = 56
	marginBelow = 90
	marginAbove = 20
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Messenger Analysis</title>
<style>
body { font-family: sans-serif; margin: 2em; }
rect.bar { fill: #636efa; }
rect.bar:hover { fill: #ef553b; }
text { font-size: 11px; }
</style>
</head>
<body>
<h1>Messenger Analysis</h1>
<h2>{{.Title}}</h2>
<svg width="{{.Width}}" height="{{.Height}}" role="img" aria-label="{{.Title}}">
  <line x1="{{.Left}}" y1="{{.Base}}" x2="{{.Width}}" y2="{{.Base}}" stroke="#444"/>
  <text x="4" y="{{.Top}}">{{.Max}}</text>
  <text x="4" y="{{.Base}}">0</text>
  {{range .Bars}}
  <g>
    <title>{{.Label}}: {{.Count}}</title>
    <rect class="bar" x="{{.X}}" y="{{.Y}}" width="{{.W}}" height="{{.H}}"/>
    {{if .ShowLabel}}<text x="{{.X}}" y="{{.LabelY}}" transform="rotate(60 {{.X}} {{.LabelY}})">{{.Label}}</text>{{end}}
  </g>
  {{end}}
</svg>
<p>{{.XLabel}} / {{.YLabel}}</p>
</body>
</html>
`))

type pageBar struct {
	Bar
	X, Y, W, H float64
	LabelY     float64
	ShowLabel  bool
}

type pageData struct {
	Series
	Width, Height int
	Left          int
	Top, Base     int
	Max           int
	Bars          []pageBar
}

// layout computes the bar geometry. Labels are thinned out so that at
// most about 40 are drawn on long daily series.
func layout(s Series) pageData {
	data := pageData{
		Series: s,
		Width:  chartWidth,
		Height: chartHeight,
		Left:   marginLeft,
		Top:    marginAbove,
		Base:   chartHeight - marginBelow,
		Max:    s.Max(),
	}
	if len(s.Bars) == 0 {
		return data
	}

	plotW := float64(chartWidth - marginLeft)
	plotH := float64(chartHeight - marginBelow - marginAbove)
	step := plotW / float64(len(s.Bars))

	every := len(s.Bars)/40 + 1
	for i, b := range s.Bars {
		h := 0.0
		if data.Max > 0 {
			h = plotH * float64(b.Count) / float64(data.Max)
		}
		data.Bars = append(data.Bars, pageBar{
			Bar:       b,
			X:         float64(marginLeft) + float64(i)*step,
			Y:         float64(data.Base) - h,
			W:         step * 0.9,
			H:         h,
			LabelY:    float64(data.Base) + 12,
			ShowLabel: i%every == 0,
		})
	}
	return data
}

// Render writes the series as a standalone HTML page
func Render(w io.Writer, s Series) error {
	return pageTemplate.Execute(w, layout(s))
}
