package theme

import "errors"

// Palette name constants for the UI color themes.
const (
	Violet = "violet"
	Bleu   = "bleu"
	Vert   = "vert"
	Rose   = "rose"
	Orange = "orange"
)

// Palettes lists the selectable palettes in display order.
var Palettes = []string{Violet, Bleu, Vert, Rose, Orange}

// ColorHex maps a palette name to its primary accent color.
var ColorHex = map[string]string{
	Violet: "#7c3aed",
	Bleu:   "#2563eb",
	Vert:   "#16a34a",
	Rose:   "#db2777",
	Orange: "#ea580c",
}

// ErrUnknownPalette is returned when a theme name is not in Palettes.
var ErrUnknownPalette = errors.New("unknown theme palette")

// IsValid reports whether name is a known palette.
func IsValid(name string) bool {
	for _, p := range Palettes {
		if p == name {
			return true
		}
	}
	return false
}

// Settings holds the display preferences stored with the planner data.
type Settings struct {
	Palette  string
	DarkMode bool
}

// Validate checks the settings' invariants.
// POST: Returns ErrUnknownPalette for an unknown palette name, nil otherwise
func (s Settings) Validate() error {
	if !IsValid(s.Palette) {
		return ErrUnknownPalette
	}
	return nil
}
