package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorFor(t *testing.T) {
	assert.Equal(t, "#8B4513", ColorFor(SoilColors, "clay"))
	assert.Equal(t, FallbackColor, ColorFor(SoilColors, "unknown"))
	assert.Equal(t, "#00FF00", ColorFor(StatusColors, "active"))
}

func TestToneFor(t *testing.T) {
	assert.Equal(t, "success", ToneFor("active"))
	assert.Equal(t, "destructive", ToneFor("suspended"))
	assert.Equal(t, "muted", ToneFor("unknown"))
	assert.Equal(t, "muted", ToneFor("delayed"))
}
