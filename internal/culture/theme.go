package culture

import "image/color"

// Theme is the colour palette used when rendering scene frames and
// placeholder art for a culture.
type Theme struct {
	Background string `json:"background"`
	Accent     string `json:"accent"`
	Text       string `json:"text"`
	Secondary  string `json:"secondary"`
}

var themes = map[string]Theme{
	"indian":          {Background: "#2D1B00", Accent: "#FF6B35", Text: "#FFD700", Secondary: "#8B4513"},
	"japanese":        {Background: "#1A1A2E", Accent: "#DC143C", Text: "#FFB7C5", Secondary: "#4A0E2E"},
	"african":         {Background: "#1C1C1C", Accent: "#E07C24", Text: "#FFD700", Secondary: "#3D2914"},
	"celtic":          {Background: "#0D1B2A", Accent: "#228B22", Text: "#C0C0C0", Secondary: "#1B4332"},
	"chinese":         {Background: "#1A0A0A", Accent: "#DC143C", Text: "#FFD700", Secondary: "#4A0E0E"},
	"greek":           {Background: "#0A1628", Accent: "#0066CC", Text: "#FFFFFF", Secondary: "#1A365D"},
	"arabian":         {Background: "#1A1A2E", Accent: "#C19A6B", Text: "#FFD700", Secondary: "#3D2914"},
	"native_american": {Background: "#1C1C1C", Accent: "#CD853F", Text: "#40E0D0", Secondary: "#2F1810"},
}

// Gradient endpoints for the placeholder scene art, top colour to bottom
// colour.
var gradients = map[string][2]color.RGBA{
	"indian":          {{R: 255, G: 153, B: 51, A: 255}, {R: 128, G: 0, B: 128, A: 255}},
	"japanese":        {{R: 255, G: 183, B: 197, A: 255}, {R: 100, G: 149, B: 237, A: 255}},
	"african":         {{R: 255, G: 140, B: 0, A: 255}, {R: 139, G: 69, B: 19, A: 255}},
	"celtic":          {{R: 34, G: 139, B: 34, A: 255}, {R: 75, G: 0, B: 130, A: 255}},
	"chinese":         {{R: 255, G: 0, B: 0, A: 255}, {R: 255, G: 215, B: 0, A: 255}},
	"greek":           {{R: 30, G: 144, B: 255, A: 255}, {R: 255, G: 255, B: 255, A: 255}},
	"arabian":         {{R: 193, G: 154, B: 107, A: 255}, {R: 0, G: 100, B: 0, A: 255}},
	"native_american": {{R: 210, G: 105, B: 30, A: 255}, {R: 34, G: 139, B: 34, A: 255}},
}

var defaultGradient = [2]color.RGBA{{R: 50, G: 50, B: 100, A: 255}, {R: 100, G: 50, B: 80, A: 255}}

// LookupTheme returns the colour theme for a culture, falling back to the
// default entry for unknown names.
func LookupTheme(name string) Theme {
	if t, ok := themes[Normalize(name)]; ok {
		return t
	}
	return themes[DefaultKey]
}

// GradientPalette returns the two gradient endpoint colours used by the
// placeholder illustrator for a culture.
func GradientPalette(name string) (top, bottom color.RGBA) {
	if g, ok := gradients[Normalize(name)]; ok {
		return g[0], g[1]
	}
	return defaultGradient[0], defaultGradient[1]
}
