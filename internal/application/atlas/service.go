package atlas

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"geobuild-atlas/internal/application/catalog"
	"geobuild-atlas/internal/cache"
	"geobuild-atlas/internal/domain"
	"geobuild-atlas/internal/filter"
	"geobuild-atlas/internal/geo"
	"geobuild-atlas/internal/pkg/constants"
	"geobuild-atlas/internal/pkg/validation"

	"github.com/rs/zerolog/log"
)

var ErrInvalidRadius = errors.New("Radius must be a positive number")

// Service derives everything the globe and panels render from the catalog and
// a visitor State. It holds no per-visitor data.
type Service struct {
	Catalog *catalog.Catalog
	// Cache memoises highlight sets by dataset fingerprint and spec digest; nil disables it.
	Cache    cache.Cache
	CacheTTL time.Duration
	// MarkerRadius is the shell markers sit on; zero means geo.MarkerRadius.
	MarkerRadius float64
	Now          func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) radius() float64 {
	if s.MarkerRadius > 0 {
		return s.MarkerRadius
	}
	return geo.MarkerRadius
}

// Highlight runs the Filter Engine over the whole catalog, consulting the memo cache first.
func (s *Service) Highlight(ctx context.Context, spec filter.Spec) filter.Result {
	all := s.Catalog.All()
	if spec.IsEmpty() || s.Cache == nil {
		return filter.Apply(all, spec)
	}
	key := HighlightKey(s.Catalog, spec)
	if b, ok := s.Cache.Get(ctx, key); ok {
		var ids []string
		if err := json.Unmarshal(b, &ids); err == nil {
			if res, ok := s.fromIDs(ids); ok {
				return res
			}
		}
		log.Warn().Str("key", key).Msg("Discarding unusable highlight cache entry")
	}
	res := filter.Apply(all, spec)
	if b, err := json.Marshal(res.Highlighted.IDs()); err == nil {
		if err := s.Cache.Set(ctx, key, b, s.CacheTTL); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Highlight cache write failed")
		}
	}
	return res
}

// HighlightKey is the memo key for spec over cat's working set.
func HighlightKey(cat *catalog.Catalog, spec filter.Spec) string {
	return cache.Key("highlight", cat.Fingerprint(), spec.Key())
}

func (s *Service) fromIDs(ids []string) (filter.Result, bool) {
	out := make([]*domain.Project, 0, len(ids))
	for _, id := range ids {
		p, err := s.Catalog.ByID(id)
		if err != nil {
			return filter.Result{}, false
		}
		out = append(out, p)
	}
	return filter.Result{Matches: out, Highlighted: filter.NewHighlightSet(ids)}, true
}

// SearchResult is the stateless search response.
type SearchResult struct {
	Projects       []*domain.Project `json:"projects"`
	HighlightedIDs []string          `json:"highlightedIds"`
	Visible        int               `json:"visible"`
	Total          int               `json:"total"`
	Filters        filter.Spec       `json:"filters"`
}

func (s *Service) Search(ctx context.Context, spec filter.Spec) SearchResult {
	res := s.Highlight(ctx, spec)
	return SearchResult{
		Projects:       res.Matches,
		HighlightedIDs: res.Highlighted.IDs(),
		Visible:        len(res.Matches),
		Total:          s.Catalog.Len(),
		Filters:        spec,
	}
}

// MarkerLabel is the floating card shown next to highlighted markers.
type MarkerLabel struct {
	Name   string `json:"name"`
	Client string `json:"client"`
	Region string `json:"region"`
	Status string `json:"status"`
}

// Marker is one globe marker: anchor point plus render hints.
type Marker struct {
	ID          string       `json:"id"`
	Position    [3]float64   `json:"position"`
	Coordinates [2]float64   `json:"coordinates"`
	Highlighted bool         `json:"highlighted"`
	Color       string       `json:"color"`
	Glow        string       `json:"glow"`
	Label       *MarkerLabel `json:"label,omitempty"`
}

// Markers returns one marker per catalog record, highlighted or not.
func (s *Service) Markers(ctx context.Context, spec filter.Spec) []Marker {
	return s.markers(s.Catalog.All(), s.Highlight(ctx, spec).Highlighted, s.radius())
}

// MarkersAt is Markers with an explicit shell radius.
func (s *Service) MarkersAt(ctx context.Context, spec filter.Spec, radius float64) ([]Marker, error) {
	if !validation.IsValidRadius(radius) {
		return nil, ErrInvalidRadius
	}
	return s.markers(s.Catalog.All(), s.Highlight(ctx, spec).Highlighted, radius), nil
}

func (s *Service) markers(all []*domain.Project, hl filter.HighlightSet, radius float64) []Marker {
	out := make([]Marker, len(all))
	for i, p := range all {
		pt := geo.Project(geo.Coordinate{Longitude: p.Longitude, Latitude: p.Latitude}, radius)
		m := Marker{
			ID:          p.ID,
			Position:    pt.Array(),
			Coordinates: [2]float64{p.Longitude, p.Latitude},
			Color:       constants.MarkerDefault,
			Glow:        constants.MarkerDefaultGlow,
		}
		if hl.Contains(p.ID) {
			m.Highlighted = true
			m.Color = constants.MarkerHighlighted
			m.Glow = constants.MarkerHighlightedGlow
			m.Label = &MarkerLabel{Name: p.Name, Client: p.Client, Region: p.Region, Status: string(p.Status)}
		}
		out[i] = m
	}
	return out
}

// Select opens id in the detail panel. The project need not be highlighted.
func (s *Service) Select(state State, id string) (State, error) {
	if _, err := s.Catalog.ByID(id); err != nil {
		return state, err
	}
	state.SelectedID = id
	return state, nil
}

// View is the whole dashboard for one visitor.
type View struct {
	Visible        int         `json:"visible"`
	Total          int         `json:"total"`
	ActiveFilters  int         `json:"activeFilters"`
	Filters        filter.Spec `json:"filters"`
	HighlightedIDs []string    `json:"highlightedIds"`
	Markers        []Marker    `json:"markers"`
	Selection      *Detail     `json:"selection"`
}

func (s *Service) View(ctx context.Context, state State) (*View, error) {
	res := s.Highlight(ctx, state.Filters)
	v := &View{
		Visible:        len(res.Matches),
		Total:          s.Catalog.Len(),
		ActiveFilters:  state.Filters.Len(),
		Filters:        state.Filters,
		HighlightedIDs: res.Highlighted.IDs(),
		Markers:        s.markers(s.Catalog.All(), res.Highlighted, s.radius()),
	}
	if state.HasSelection() {
		d, err := s.detail(state.SelectedID, res.Highlighted)
		if err != nil {
			// A selection can outlive a reloaded dataset; drop it rather than fail the view.
			if errors.Is(err, domain.ErrProjectNotFound) {
				return v, nil
			}
			return nil, err
		}
		v.Selection = d
	}
	return v, nil
}
