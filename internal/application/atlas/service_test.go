package atlas

import (
	"context"
	"testing"
	"time"

	"geobuild-atlas/internal/application/catalog"
	"geobuild-atlas/internal/cache"
	"geobuild-atlas/internal/domain"
	"geobuild-atlas/internal/filter"
	"geobuild-atlas/internal/geo"
	"geobuild-atlas/internal/infrastructure/seed"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func newService(t *testing.T, c cache.Cache) *Service {
	projects, err := seed.Embedded()
	require.NoError(t, err)
	cat, err := catalog.New(projects)
	require.NoError(t, err)
	return &Service{
		Catalog:  cat,
		Cache:    c,
		CacheTTL: time.Minute,
		Now:      func() time.Time { return fixedNow },
	}
}

func TestView_RegionScenario(t *testing.T) {
	svc := newService(t, nil)
	ctx := context.Background()

	state := State{}.SetFilter(filter.KeyRegion, "Europe")
	v, err := svc.View(ctx, state)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Visible)
	assert.Equal(t, 7, v.Total)
	assert.Equal(t, 1, v.ActiveFilters)
	assert.Equal(t, []string{"2"}, v.HighlightedIDs)
	require.Len(t, v.Markers, 7)

	state = state.ClearFilters()
	v, err = svc.View(ctx, state)
	require.NoError(t, err)
	assert.Equal(t, 7, v.Visible)
	assert.Equal(t, 0, v.ActiveFilters)
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6", "7"}, v.HighlightedIDs)
}

func TestSetFilter_AllSentinelRemoves(t *testing.T) {
	state := State{}.SetFilter(filter.KeyStatus, "active").SetFilter(filter.KeyRegion, "Asia")
	assert.Equal(t, 2, state.Filters.Len())
	state = state.SetFilter(filter.KeyRegion, filter.All)
	assert.Equal(t, []filter.Key{filter.KeyStatus}, state.Filters.ActiveKeys())
	state = state.RemoveFilter(filter.KeyStatus)
	assert.True(t, state.Filters.IsEmpty())
}

func TestReplaceFilters_DoesNotTouchPrevious(t *testing.T) {
	before := State{}.SetFilter(filter.KeyClient, "apex")
	after := before.ReplaceFilters(filter.MustParse(map[string]string{"status": "planning"}))
	v, _ := before.Filters.Get(filter.KeyClient)
	assert.Equal(t, "apex", v)
	_, ok := after.Filters.Get(filter.KeyClient)
	assert.False(t, ok)
}

func TestMarkers_AnchorsAndHighlight(t *testing.T) {
	svc := newService(t, nil)
	markers := svc.Markers(context.Background(), filter.MustParse(map[string]string{"client": "apex"}))
	require.Len(t, markers, 7)

	m := markers[0]
	assert.Equal(t, "1", m.ID)
	assert.True(t, m.Highlighted)
	assert.Equal(t, "#00ffff", m.Color)
	require.NotNil(t, m.Label)
	assert.Equal(t, "Manhattan Tower Complex", m.Label.Name)
	want := geo.Project(geo.Coordinate{Longitude: -74.006, Latitude: 40.7128}, geo.MarkerRadius)
	assert.Equal(t, want.Array(), m.Position)

	for _, other := range markers[1:] {
		assert.False(t, other.Highlighted)
		assert.Equal(t, "#ff6600", other.Color)
		assert.Nil(t, other.Label)
	}
}

func TestMarkersAt_Radius(t *testing.T) {
	svc := newService(t, nil)
	markers, err := svc.MarkersAt(context.Background(), filter.Spec{}, 5)
	require.NoError(t, err)
	want := geo.Project(geo.Coordinate{Longitude: 3.3792, Latitude: 6.5244}, 5)
	assert.Equal(t, want.Array(), markers[6].Position)

	_, err = svc.MarkersAt(context.Background(), filter.Spec{}, 0)
	assert.ErrorIs(t, err, ErrInvalidRadius)
}

func TestMarkers_ConfiguredRadius(t *testing.T) {
	svc := newService(t, nil)
	svc.MarkerRadius = 3
	markers := svc.Markers(context.Background(), filter.Spec{})
	want := geo.Project(geo.Coordinate{Longitude: -74.006, Latitude: 40.7128}, 3)
	assert.Equal(t, want.Array(), markers[0].Position)
}

func TestSelect_IndependentOfHighlight(t *testing.T) {
	svc := newService(t, nil)
	ctx := context.Background()
	state := State{}.SetFilter(filter.KeyRegion, "Europe")

	before, err := svc.View(ctx, state)
	require.NoError(t, err)

	state, err = svc.Select(state, "6")
	require.NoError(t, err)
	after, err := svc.View(ctx, state)
	require.NoError(t, err)

	assert.Equal(t, before.HighlightedIDs, after.HighlightedIDs)
	require.NotNil(t, after.Selection)
	assert.Equal(t, "6", after.Selection.Project.ID)
	assert.False(t, after.Selection.Highlighted)

	state = state.CloseDetail()
	closed, err := svc.View(ctx, state)
	require.NoError(t, err)
	assert.Nil(t, closed.Selection)
}

func TestSelect_UnknownProject(t *testing.T) {
	svc := newService(t, nil)
	state := State{SelectedID: "1"}
	next, err := svc.Select(state, "999")
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
	assert.Equal(t, "1", next.SelectedID)
}

func TestView_StaleSelectionDropped(t *testing.T) {
	svc := newService(t, nil)
	v, err := svc.View(context.Background(), State{SelectedID: "gone"})
	require.NoError(t, err)
	assert.Nil(t, v.Selection)
}

func TestDetail(t *testing.T) {
	svc := newService(t, nil)
	ctx := context.Background()

	d, err := svc.Detail(ctx, "2", filter.Spec{})
	require.NoError(t, err)
	assert.True(t, d.Highlighted)
	assert.Equal(t, "$85,000,000", d.Budget)
	require.NotNil(t, d.ActualCost)
	assert.Equal(t, "$88,500,000", *d.ActualCost)
	require.NotNil(t, d.BudgetVariance)
	assert.Equal(t, 4.1, *d.BudgetVariance)
	assert.Equal(t, "success", d.StatusTone)
	assert.Equal(t, "#8B4513", d.SoilColor)
	assert.Equal(t, 1, d.MilestonesCompleted)
	assert.Equal(t, 2, d.MilestonesTotal)

	d, err = svc.Detail(ctx, "6", filter.Spec{})
	require.NoError(t, err)
	assert.Equal(t, 100, d.Progress)
	assert.Equal(t, -4.4, *d.BudgetVariance)

	d, err = svc.Detail(ctx, "1", filter.Spec{})
	require.NoError(t, err)
	assert.Nil(t, d.ActualCost)
	assert.Nil(t, d.BudgetVariance)
	assert.Greater(t, d.Progress, 0)
	assert.Less(t, d.Progress, 100)

	_, err = svc.Detail(ctx, "404", filter.Spec{})
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestFormatUSD(t *testing.T) {
	assert.Equal(t, "$150,000,000", FormatUSD(150000000))
	assert.Equal(t, "$0", FormatUSD(0))
	assert.Equal(t, "$1,235", FormatUSD(1234.6))
	assert.Equal(t, "-$500", FormatUSD(-500))
}

func TestHighlight_MemoisedEqualsFresh(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	svc := newService(t, cache.NewRedisCache(rdb))
	ctx := context.Background()
	spec := filter.MustParse(map[string]string{"material": "steel", "status": "active"})

	first := svc.Highlight(ctx, spec)
	assert.True(t, mr.Exists(HighlightKey(svc.Catalog, spec)))
	second := svc.Highlight(ctx, spec)
	fresh := filter.Apply(svc.Catalog.All(), spec)

	assert.Equal(t, fresh.Highlighted.IDs(), first.Highlighted.IDs())
	assert.Equal(t, fresh.Highlighted.IDs(), second.Highlighted.IDs())
	assert.Equal(t, fresh.Matches, second.Matches)
}

func TestHighlight_EditedDatasetDoesNotReuseMemo(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	shared := cache.NewRedisCache(rdb)
	ctx := context.Background()
	spec := filter.MustParse(map[string]string{"region": "Europe"})

	before := newService(t, shared)
	assert.Equal(t, []string{"2"}, before.Highlight(ctx, spec).Highlighted.IDs())

	projects, err := seed.Embedded()
	require.NoError(t, err)
	for i := range projects {
		switch projects[i].ID {
		case "2":
			projects[i].Region = "North America"
		case "3":
			projects[i].Region = "Europe"
		}
	}
	cat, err := catalog.New(projects)
	require.NoError(t, err)
	after := &Service{Catalog: cat, Cache: shared, CacheTTL: time.Minute}

	assert.NotEqual(t, before.Catalog.Fingerprint(), after.Catalog.Fingerprint())
	assert.Equal(t, []string{"3"}, after.Highlight(ctx, spec).Highlighted.IDs())
	assert.Equal(t, []string{"2"}, before.Highlight(ctx, spec).Highlighted.IDs())
}

func TestHighlight_CorruptCacheEntryRecomputed(t *testing.T) {
	mem := cache.NewMemoryCache(time.Minute, time.Minute)
	svc := newService(t, mem)
	ctx := context.Background()
	spec := filter.MustParse(map[string]string{"region": "Asia"})

	require.NoError(t, mem.Set(ctx, HighlightKey(svc.Catalog, spec), []byte(`["missing-id"]`), 0))
	res := svc.Highlight(ctx, spec)
	assert.Equal(t, []string{"3"}, res.Highlighted.IDs())
}

func TestSearch(t *testing.T) {
	svc := newService(t, cache.NewMemoryCache(time.Minute, time.Minute))
	res := svc.Search(context.Background(), filter.MustParse(map[string]string{"search": "steel", "soilLevel": "sand"}))
	assert.Equal(t, 2, res.Visible)
	assert.Equal(t, 7, res.Total)
	assert.Equal(t, []string{"4", "6"}, res.HighlightedIDs)
}

func TestLegend(t *testing.T) {
	l := newService(t, nil).Legend()
	assert.Equal(t, "#8B4513", l.SoilLevels["clay"])
	assert.Equal(t, "#FFA500", l.Statuses["delayed"])
	assert.Contains(t, l.FilterKeys, filter.KeySearch)
	assert.Len(t, l.FilterValues["region"], 7)
}
