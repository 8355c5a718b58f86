// Package color holds the terminal palette and segment category colors.
package color

import "github.com/charmbracelet/lipgloss"

// New wraps an ANSI code or hex value.
func New(value string) lipgloss.Color {
	return lipgloss.Color(value)
}

var (
	Red    = New("1")
	Green  = New("2")
	Yellow = New("3")
	Blue   = New("4")
	Purple = New("5")
	Cyan   = New("6")
	Black  = New("8")

	HiRed    = New("9")
	HiPurple = New("13")

	Gray = New("#808080")
)

// Category colors, as the SponsorBlock clients draw them on the seek bar.
var (
	Sponsor       = New("#00d400")
	SelfPromo     = New("#ffff00")
	Interaction   = New("#cc00ff")
	Intro         = New("#00ffff")
	Outro         = New("#0202ed")
	Preview       = New("#008fd6")
	MusicOfftopic = New("#ff9900")
)
