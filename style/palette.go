package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/sbskip/sbskip/color"
	"github.com/sbskip/sbskip/segment"
)

var categoryColors = map[segment.Category]lipgloss.Color{
	segment.Sponsor:       color.Sponsor,
	segment.SelfPromo:     color.SelfPromo,
	segment.Interaction:   color.Interaction,
	segment.Intro:         color.Intro,
	segment.Outro:         color.Outro,
	segment.Preview:       color.Preview,
	segment.MusicOfftopic: color.MusicOfftopic,
}

// CategoryColor returns the display color of c, gray for unknown categories.
func CategoryColor(c segment.Category) lipgloss.Color {
	if col, ok := categoryColors[c]; ok {
		return col
	}
	return color.Gray
}

// Category renders s as a tag in the color of c.
func Category(c segment.Category) func(string) string {
	return Tag(color.Black, CategoryColor(c))
}
