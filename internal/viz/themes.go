package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme colours the sidebar, the box wireframe and the trail. Trail is the
// colour of the newest trail point; older points fade toward Background.
type Theme struct {
	Name       string
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Box        lipgloss.Color
	Trail      lipgloss.Color
}

// newTheme derives the muted and box tones by mixing text into the background.
func newTheme(name, bg, text, primary, trail, accent string) Theme {
	return Theme{
		Name:       name,
		Primary:    lipgloss.Color(primary),
		Secondary:  lipgloss.Color(trail),
		Accent:     lipgloss.Color(accent),
		Background: lipgloss.Color(bg),
		Text:       lipgloss.Color(text),
		Muted:      lipgloss.Color(blend(bg, text, 0.4)),
		Box:        lipgloss.Color(blend(bg, text, 0.55)),
		Trail:      lipgloss.Color(trail),
	}
}

var (
	ThemeCyberpunk  = newTheme("cyberpunk", "#0a0a0a", "#f4f4f4", "#ff00ff", "#00ffff", "#ffff00")
	ThemeRetroGreen = newTheme("retro", "#001100", "#33ff33", "#00ff00", "#88ff88", "#ccffcc")
	ThemeMinimal    = newTheme("minimal", "#000000", "#e8e8e8", "#ffffff", "#ffffff", "#0088ff")
	ThemeOcean      = newTheme("ocean", "#001a33", "#e0f0ff", "#0077be", "#ffd700", "#00a8cc")
	ThemeSunset     = newTheme("sunset", "#2d1b2e", "#fff5f5", "#ff6b6b", "#feca57", "#ff9ff3")

	Themes = []Theme{ThemeCyberpunk, ThemeRetroGreen, ThemeMinimal, ThemeOcean, ThemeSunset}
)

// GetTheme returns a theme by name, falling back to cyberpunk.
func GetTheme(name string) Theme {
	for i := range Themes {
		if Themes[i].Name == name {
			return Themes[i]
		}
	}
	return Themes[0]
}

// NextTheme returns the theme after t in Themes, wrapping around.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	var names []string
	for _, t := range Themes {
		names = append(names, t.Name)
	}
	return names
}

// TrailColor blends from the background (fade 0) to the trail colour (fade 1).
func (t Theme) TrailColor(fade float64) string {
	return blend(string(t.Background), string(t.Trail), fade)
}

func blend(from, to string, f float64) string {
	a, err := colorful.Hex(from)
	if err != nil {
		return to
	}
	b, err := colorful.Hex(to)
	if err != nil {
		return to
	}
	if f <= 0 {
		return a.Hex()
	}
	if f >= 1 {
		return b.Hex()
	}
	return a.BlendRgb(b, f).Clamped().Hex()
}
