package anchor

// MaxRecentColors is the maximum number of colors remembered in the
// preferences record.
const MaxRecentColors = 5

// DefaultColor is the marker color used when neither the caller nor the
// preferences record supplies one.
const DefaultColor = "#ffff00"

// Preferences is the single global preferences record.
type Preferences struct {
	// LastColor is the color used by the most recent successful mark.
	LastColor string `json:"lastColor"`

	// Recents holds up to MaxRecentColors recently used colors,
	// most recent first.
	Recents []string `json:"recents,omitempty"`
}

// DefaultPreferences returns the preferences used before any mark exists.
func DefaultPreferences() Preferences {
	return Preferences{LastColor: DefaultColor}
}

// Touch records that color was just used: it becomes LastColor and moves to
// the front of Recents, deduplicated and capped at MaxRecentColors.
// Invalid colors are ignored so a bad caller cannot corrupt the record.
func (p *Preferences) Touch(color string) {
	if !ValidColor(color) {
		return
	}

	p.LastColor = color

	recents := make([]string, 0, MaxRecentColors)
	recents = append(recents, color)
	for _, c := range p.Recents {
		if c == color {
			continue
		}
		recents = append(recents, c)
		if len(recents) == MaxRecentColors {
			break
		}
	}
	p.Recents = recents
}
