package weather

// DefaultGlyph is shown for icon codes the table does not know.
const DefaultGlyph = "❓"

// Provider icon codes are a two-digit condition code plus a day/night
// suffix. Only clear skies render differently at night; every other code
// maps by condition alone.
var icons = map[string]string{
	"01d": "☀️",
	"01n": "🌙",
	"02":  "⛅",
	"03":  "☁️",
	"04":  "☁️",
	"09":  "🌧️",
	"10":  "🌦️",
	"11":  "⛈️",
	"13":  "❄️",
	"50":  "🌫️",
}

// Glyph maps a provider icon code to its emoji, falling back to
// DefaultGlyph for unrecognized codes.
func Glyph(icon string) string {
	if g, ok := icons[icon]; ok {
		return g
	}
	if len(icon) >= 2 {
		if g, ok := icons[icon[:2]]; ok {
			return g
		}
	}
	return DefaultGlyph
}
