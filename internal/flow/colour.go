package flow

import "fmt"

// palette is a cycle of pastel colours assigned to reading labels by
// their first character, grounded on textual_flow.py's COLOURS/COLOURMAP.
var palette = []string{
	"#FF8A8A", "#FF86E3", "#FF86C2", "#FE8BF0", "#EA8DFE", "#DD88FD", "#AD8BFE",
	"#FFA4FF", "#EAA6EA", "#D698FE", "#CEA8F4", "#BCB4F3", "#A9C5EB", "#8CD1E6",
	"#8C8CFF", "#99C7FF", "#99E0FF", "#63E9FC", "#74FEF8", "#62FDCE", "#72FE95",
	"#4AE371", "#80B584", "#89FC63", "#36F200", "#66FF00", "#DFDF00", "#DFE32D",
}

const defaultColour = "#cccccc"

// colourFor returns the fill colour for a reading label, keyed by its
// first lowercase letter (e.g. "b1" and "b" share a colour).
func colourFor(label string) string {
	if label == "" {
		return defaultColour
	}
	c := label[0]
	if c < 'a' || c > 'z' {
		return defaultColour
	}
	idx := (int(c-'a') * 10) % len(palette)
	return palette[idx]
}

// darken reduces each RGB channel of a "#rrggbb" colour by amount
// (clamped at 0), used for node border colour against its fill.
func darken(hexColour string, amount int) string {
	if len(hexColour) != 7 || hexColour[0] != '#' {
		return hexColour
	}
	var r, g, b int
	fmt.Sscanf(hexColour[1:3], "%x", &r)
	fmt.Sscanf(hexColour[3:5], "%x", &g)
	fmt.Sscanf(hexColour[5:7], "%x", &b)

	dark := func(x int) int {
		x -= amount
		if x < 0 {
			return 0
		}
		return x
	}
	return fmt.Sprintf("#%02x%02x%02x", dark(r), dark(g), dark(b))
}
