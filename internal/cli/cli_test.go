package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("ATLAS_SEED_FILE", "")
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSearch_Table(t *testing.T) {
	out, err := run(t, "search", "--filter", "region=Europe")
	require.NoError(t, err)
	assert.Contains(t, out, "Thames Riverside Development")
	assert.NotContains(t, out, "Tokyo Sky District")
	assert.Contains(t, out, "1 of 7 projects")
}

func TestSearch_JSONWithText(t *testing.T) {
	out, err := run(t, "search", "steel", "-f", "soilLevel=sand", "--json")
	require.NoError(t, err)
	var res struct {
		HighlightedIDs []string `json:"highlightedIds"`
		Visible        int      `json:"visible"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, []string{"4", "6"}, res.HighlightedIDs)
	assert.Equal(t, 2, res.Visible)
}

func TestSearch_UnknownKey(t *testing.T) {
	_, err := run(t, "search", "--filter", "budget=1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown filter key")
}

func TestProject(t *testing.T) {
	out, err := run(t, "project", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Thames Riverside Development")
	assert.Contains(t, out, "$85,000,000")
	assert.Contains(t, out, "+4.1%")

	_, err = run(t, "project", "999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Project not found")
}

func TestStats(t *testing.T) {
	out, err := run(t, "stats", "--json")
	require.NoError(t, err)
	var s map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, float64(7), s["totalProjects"])
	assert.Equal(t, float64(5), s["activeSites"])
}

func TestLocate(t *testing.T) {
	out, err := run(t, "locate", "--lon", "0", "--lat", "0")
	require.NoError(t, err)
	assert.Equal(t, "2.000000 0.000000 0.000000\n", out)

	_, err = run(t, "locate", "--radius", "0")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "atlasctl dev\n", out)
}
