// Package icon renders status symbols in the variant chosen by the user.
//
// Icons can be displayed as emoji, nerd-font glyphs, plain ASCII, kaomoji,
// or Unicode squares.
package icon

import (
	"github.com/sbskip/sbskip/key"
	"github.com/spf13/viper"
)

const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	kaomoji = "kaomoji"
	squares = "squares"
)

// AvailableVariants returns every supported variant name.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, kaomoji, squares}
}

// Icon identifies a symbol in the registry.
type Icon int

const (
	Fail Icon = iota
	Success
	Progress
	Skip
	Segment
	Video
)

type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	kaomoji string
	squares string
}

var icons = map[Icon]*iconDef{
	Fail:     {emoji: "💀", nerd: "", plain: "X", kaomoji: "(×﹏×)", squares: "🟥"},
	Success:  {emoji: "🎉", nerd: "", plain: "✓", kaomoji: "(ᵔ◡ᵔ)", squares: "🟩"},
	Progress: {emoji: "👾", nerd: "", plain: "...", kaomoji: "(・ω・)", squares: "🟦"},
	Skip:     {emoji: "⏭️", nerd: "", plain: ">>", kaomoji: "(ﾉ>ω<)ﾉ", squares: "🟨"},
	Segment:  {emoji: "🧩", nerd: "", plain: "#", kaomoji: "(￣▽￣)", squares: "🟪"},
	Video:    {emoji: "📺", nerd: "", plain: "~", kaomoji: "(⌐■_■)", squares: "⬛"},
}

// Get renders d in the configured variant. Unknown variants render as empty.
func (d *iconDef) Get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	case kaomoji:
		return d.kaomoji
	case squares:
		return d.squares
	default:
		return ""
	}
}

// Get renders i in the configured variant.
func Get(i Icon) string {
	d, ok := icons[i]
	if !ok {
		return ""
	}
	return d.Get()
}
