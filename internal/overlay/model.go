// Package overlay defines the draw-operation model the frame processor emits.
// Annotations are kept as data (lines, circles, labels, banners) so the
// rendering layer stays free to rasterise however it likes.
package overlay

import "github.com/formsense/repcoach/internal/pose"

// Color is an RGB triple.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Named palette shared by all overlay producers.
var (
	Blue       = Color{0, 127, 255}
	Red        = Color{255, 50, 50}
	Green      = Color{0, 255, 127}
	LightGreen = Color{100, 233, 127}
	Yellow     = Color{255, 255, 0}
	Magenta    = Color{255, 0, 255}
	White      = Color{255, 255, 255}
	Cyan       = Color{0, 255, 255}
	LightBlue  = Color{102, 204, 255}
	Orange     = Color{255, 165, 0}
)

// Line is a solid segment between two pixel points.
type Line struct {
	From  pose.Point `json:"from"`
	To    pose.Point `json:"to"`
	Color Color      `json:"color"`
	Width int        `json:"width"`
}

// DottedLine is a vertical dotted guide through X, spanning [StartY, EndY].
type DottedLine struct {
	X      float64 `json:"x"`
	StartY float64 `json:"start_y"`
	EndY   float64 `json:"end_y"`
	Color  Color   `json:"color"`
}

// Circle marks a joint.
type Circle struct {
	Center pose.Point `json:"center"`
	Radius int        `json:"radius"`
	Color  Color      `json:"color"`
}

// Label is free-standing text anchored at a pixel position, used for
// numeric angle readouts.
type Label struct {
	Text  string     `json:"text"`
	At    pose.Point `json:"at"`
	Color Color      `json:"color"`
}

// Banner is a boxed feedback message with a background fill.
type Banner struct {
	Text       string     `json:"text"`
	At         pose.Point `json:"at"`
	Color      Color      `json:"color"`
	Background Color      `json:"background"`
}

// Annotations is everything the processor wants drawn over one frame.
type Annotations struct {
	Lines       []Line       `json:"lines,omitempty"`
	DottedLines []DottedLine `json:"dotted_lines,omitempty"`
	Circles     []Circle     `json:"circles,omitempty"`
	Labels      []Label      `json:"labels,omitempty"`
	Banners     []Banner     `json:"banners,omitempty"`
}

// AddBanner appends a boxed feedback message.
func (a *Annotations) AddBanner(text string, at pose.Point, bg Color) {
	a.Banners = append(a.Banners, Banner{Text: text, At: at, Color: Color{R: 255, G: 255, B: 230}, Background: bg})
}
