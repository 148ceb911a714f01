package catalog

import (
	"context"
	"errors"
	"testing"

	"geobuild-atlas/internal/domain"
	"geobuild-atlas/internal/infrastructure/seed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSource struct{}

func (failingSource) Projects(context.Context) ([]domain.Project, error) {
	return nil, errors.New("db down")
}

func loadSeed(t *testing.T) *Catalog {
	projects, err := seed.Embedded()
	require.NoError(t, err)
	c, err := Load(context.Background(), StaticSource(projects))
	require.NoError(t, err)
	return c
}

func TestLoad_PreservesOrder(t *testing.T) {
	c := loadSeed(t)
	require.Equal(t, 7, c.Len())
	all := c.All()
	for i, p := range all {
		assert.Equal(t, i, p.Position)
	}
	assert.Equal(t, "1", all[0].ID)
	assert.Equal(t, "7", all[6].ID)
}

func TestLoad_SourceError(t *testing.T) {
	_, err := Load(context.Background(), failingSource{})
	assert.EqualError(t, err, "db down")
}

func TestNew_RejectsDuplicateIDs(t *testing.T) {
	_, err := New([]domain.Project{{ID: "1"}, {ID: "2"}, {ID: "1"}})
	assert.ErrorIs(t, err, domain.ErrDuplicateID)
}

func TestByID(t *testing.T) {
	c := loadSeed(t)
	p, err := c.ByID("6")
	require.NoError(t, err)
	assert.Equal(t, "Dubai Solar Park", p.Name)

	_, err = c.ByID("nope")
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestAll_ReturnsCopyOfSlice(t *testing.T) {
	c := loadSeed(t)
	all := c.All()
	all[0] = nil
	assert.NotNil(t, c.All()[0])
}

func TestStats(t *testing.T) {
	s := loadSeed(t).Stats()
	assert.Equal(t, 7, s.TotalProjects)
	assert.Equal(t, 5, s.ActiveSites)
	assert.Equal(t, 7, s.Regions)
	assert.Equal(t, 7, s.Countries)
	assert.Equal(t, 2, s.ByStatus["planning"])
	assert.Equal(t, 2, s.BySoilLevel["clay"])
	assert.Equal(t, 3, s.ByProjectType["commercial"])
	assert.Equal(t, 1, s.ByRegion["Europe"])
	assert.Equal(t, "Africa", s.RegionNames[0])
	assert.Equal(t, 870000000.0, s.TotalBudget)
}

func TestFingerprint(t *testing.T) {
	projects, err := seed.Embedded()
	require.NoError(t, err)
	a, err := New(projects)
	require.NoError(t, err)
	b, err := New(projects)
	require.NoError(t, err)
	assert.Len(t, a.Fingerprint(), 16)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	projects[0].Client = "Someone Else"
	edited, err := New(projects)
	require.NoError(t, err)
	assert.NotEqual(t, a.Fingerprint(), edited.Fingerprint())

	projects[0], projects[1] = projects[1], projects[0]
	reordered, err := New(projects)
	require.NoError(t, err)
	assert.NotEqual(t, edited.Fingerprint(), reordered.Fingerprint())
}
