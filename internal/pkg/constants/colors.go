package constants

// Marker colours on the globe.
const (
	MarkerDefault         = "#ff6600"
	MarkerDefaultGlow     = "#442200"
	MarkerHighlighted     = "#00ffff"
	MarkerHighlightedGlow = "#004444"
	FallbackColor         = "#808080"
)

// SoilColors is the legend palette per soil classification.
var SoilColors = map[string]string{
	"clay":      "#8B4513",
	"sand":      "#F4A460",
	"rock":      "#696969",
	"loam":      "#654321",
	"mixed":     "#A0522D",
	"limestone": "#D3CBB8",
	"granite":   "#8A8A8A",
	"silt":      "#B8A07E",
}

// StatusColors is the legend palette per project status.
var StatusColors = map[string]string{
	"planning":  "#FFD700",
	"active":    "#00FF00",
	"completed": "#0000FF",
	"suspended": "#FF0000",
	"delayed":   "#FFA500",
}

// StatusTones maps statuses to the detail panel's text tone. Delayed has no
// tone of its own and renders muted.
var StatusTones = map[string]string{
	"planning":  "warning",
	"active":    "success",
	"completed": "accent",
	"suspended": "destructive",
}

// ColorFor returns palette[key], or FallbackColor when the key has no entry.
func ColorFor(palette map[string]string, key string) string {
	if c, ok := palette[key]; ok {
		return c
	}
	return FallbackColor
}

// ToneFor returns the status tone, "muted" for anything unmapped.
func ToneFor(status string) string {
	if t, ok := StatusTones[status]; ok {
		return t
	}
	return "muted"
}
