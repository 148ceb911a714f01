package atlas

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"

	atlassvc "geobuild-atlas/internal/application/atlas"
	"geobuild-atlas/internal/domain"
	"geobuild-atlas/internal/filter"
	"geobuild-atlas/internal/geo"
	"geobuild-atlas/internal/middleware"
	"geobuild-atlas/internal/pkg/response"
	"geobuild-atlas/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Handlers bundles the atlas endpoints. Visitor state lives in the session.
type Handlers struct {
	Service *atlassvc.Service
}

// Register mounts every atlas route on r.
func (h *Handlers) Register(r fiber.Router) {
	r.Get("/view", h.View)
	r.Get("/markers", h.Markers)
	r.Get("/projects", h.Projects)
	r.Get("/projects/:id", h.ProjectByID)
	r.Get("/filters", h.GetFilters)
	r.Put("/filters", h.ReplaceFilters)
	r.Patch("/filters", h.SetFilter)
	r.Delete("/filters/:key", h.RemoveFilter)
	r.Delete("/filters", h.ClearFilters)
	r.Post("/search", h.Search)
	r.Get("/selection", h.GetSelection)
	r.Put("/selection", h.Select)
	r.Delete("/selection", h.CloseDetail)
	r.Get("/stats", h.Stats)
	r.Get("/legend", h.Legend)
	r.Get("/project", h.ProjectCoordinate)
}

func loadState(c *fiber.Ctx) atlassvc.State {
	var st atlassvc.State
	b := middleware.GetSessionData(c)
	if b == nil {
		return st
	}
	if err := json.Unmarshal(b, &st); err != nil {
		log.Warn().Err(err).Str("trace_id", middleware.GetTraceID(c)).Msg("Discarding unreadable session state")
		return atlassvc.State{}
	}
	return st
}

func saveState(c *fiber.Ctx, st atlassvc.State) {
	b, err := json.Marshal(st)
	if err != nil {
		log.Warn().Err(err).Msg("Session state encode failed")
		return
	}
	middleware.SetSessionData(c, b)
}

func filterError(c *fiber.Ctx, err error) error {
	if errors.Is(err, filter.ErrUnknownKey) {
		return response.BadRequest(c, err.Error(), fiber.Map{"allowedKeys": filter.Keys()})
	}
	return response.BadRequest(c, "Invalid filter payload", nil)
}

// View GET /api/v1/atlas/view
func (h *Handlers) View(c *fiber.Ctx) error {
	st := loadState(c)
	v, err := h.Service.View(c.Context(), st)
	if err != nil {
		return err
	}
	if v.Selection == nil && st.HasSelection() {
		saveState(c, st.CloseDetail())
	}
	return response.Success(c, "Atlas view fetched successfully", v, nil)
}

// Markers GET /api/v1/atlas/markers?radius=
func (h *Handlers) Markers(c *fiber.Ctx) error {
	st := loadState(c)
	raw := c.Query("radius")
	if raw == "" {
		return response.Success(c, "Markers fetched successfully", h.Service.Markers(c.Context(), st.Filters), nil)
	}
	radius, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return response.BadRequest(c, atlassvc.ErrInvalidRadius.Error(), nil)
	}
	markers, err := h.Service.MarkersAt(c.Context(), st.Filters, radius)
	if err != nil {
		return response.BadRequest(c, err.Error(), nil)
	}
	return response.Success(c, "Markers fetched successfully", markers, nil)
}

// Projects GET /api/v1/atlas/projects?region=Europe&status=active
// Stateless: the query string is the whole filter.
func (h *Handlers) Projects(c *fiber.Ctx) error {
	spec, err := filter.Parse(c.Queries())
	if err != nil {
		return filterError(c, err)
	}
	res := h.Service.Search(c.Context(), spec)
	return response.Success(c, "Projects fetched successfully", res, fiber.Map{
		"visible": res.Visible,
		"total":   res.Total,
	})
}

// ProjectByID GET /api/v1/atlas/projects/:id
func (h *Handlers) ProjectByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if !validation.IsValidProjectID(id) {
		return response.BadRequest(c, "Invalid project id", nil)
	}
	d, err := h.Service.Detail(c.Context(), id, loadState(c).Filters)
	if err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			return response.NotFound(c, err.Error())
		}
		return err
	}
	return response.Success(c, "Project fetched successfully", d, nil)
}

// GetFilters GET /api/v1/atlas/filters
func (h *Handlers) GetFilters(c *fiber.Ctx) error {
	st := loadState(c)
	return response.Success(c, "Filters fetched successfully", st.Filters, fiber.Map{"active": st.Filters.Len()})
}

// ReplaceFilters PUT /api/v1/atlas/filters with a JSON object of key/value pairs.
func (h *Handlers) ReplaceFilters(c *fiber.Ctx) error {
	var spec filter.Spec
	if err := json.Unmarshal(c.Body(), &spec); err != nil {
		return filterError(c, err)
	}
	st := loadState(c).ReplaceFilters(spec)
	saveState(c, st)
	return response.Success(c, "Filters updated successfully", st.Filters, fiber.Map{"active": st.Filters.Len()})
}

type setFilterRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// SetFilter PATCH /api/v1/atlas/filters {key, value}; value "all" removes the key.
func (h *Handlers) SetFilter(c *fiber.Ctx) error {
	var req setFilterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body", nil)
	}
	key, err := filter.ParseKey(req.Key)
	if err != nil {
		return filterError(c, err)
	}
	st := loadState(c).SetFilter(key, req.Value)
	saveState(c, st)
	return response.Success(c, "Filter updated successfully", st.Filters, fiber.Map{"active": st.Filters.Len()})
}

// RemoveFilter DELETE /api/v1/atlas/filters/:key
func (h *Handlers) RemoveFilter(c *fiber.Ctx) error {
	key, err := filter.ParseKey(c.Params("key"))
	if err != nil {
		return filterError(c, err)
	}
	st := loadState(c).RemoveFilter(key)
	saveState(c, st)
	return response.Success(c, "Filter removed successfully", st.Filters, fiber.Map{"active": st.Filters.Len()})
}

// ClearFilters DELETE /api/v1/atlas/filters
func (h *Handlers) ClearFilters(c *fiber.Ctx) error {
	st := loadState(c).ClearFilters()
	saveState(c, st)
	return response.Success(c, "Filters cleared successfully", st.Filters, fiber.Map{"active": 0})
}

type searchRequest struct {
	Query string `json:"query"`
}

// Search POST /api/v1/atlas/search {query}. Sets the session's free-text filter.
func (h *Handlers) Search(c *fiber.Ctx) error {
	var req searchRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body", nil)
	}
	st := loadState(c).SetFilter(filter.KeySearch, req.Query)
	saveState(c, st)
	res := h.Service.Search(c.Context(), st.Filters)
	return response.Success(c, "Search completed successfully", res, fiber.Map{
		"visible": res.Visible,
		"total":   res.Total,
	})
}

// GetSelection GET /api/v1/atlas/selection; data is null when nothing is open.
func (h *Handlers) GetSelection(c *fiber.Ctx) error {
	st := loadState(c)
	if !st.HasSelection() {
		return response.Success(c, "No project selected", nil, nil)
	}
	d, err := h.Service.Detail(c.Context(), st.SelectedID, st.Filters)
	if err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			saveState(c, st.CloseDetail())
			return response.Success(c, "No project selected", nil, nil)
		}
		return err
	}
	return response.Success(c, "Selection fetched successfully", d, nil)
}

type selectRequest struct {
	ID string `json:"id"`
}

// Select PUT /api/v1/atlas/selection {id}
func (h *Handlers) Select(c *fiber.Ctx) error {
	var req selectRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body", nil)
	}
	if !validation.IsValidProjectID(req.ID) {
		return response.BadRequest(c, "Invalid project id", nil)
	}
	st, err := h.Service.Select(loadState(c), req.ID)
	if err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			return response.NotFound(c, err.Error())
		}
		return err
	}
	saveState(c, st)
	d, err := h.Service.Detail(c.Context(), st.SelectedID, st.Filters)
	if err != nil {
		return err
	}
	return response.Success(c, "Project selected successfully", d, nil)
}

// CloseDetail DELETE /api/v1/atlas/selection
func (h *Handlers) CloseDetail(c *fiber.Ctx) error {
	saveState(c, loadState(c).CloseDetail())
	return response.Success(c, "Selection cleared successfully", nil, nil)
}

// Stats GET /api/v1/atlas/stats
func (h *Handlers) Stats(c *fiber.Ctx) error {
	return response.Success(c, "Stats fetched successfully", h.Service.Catalog.Stats(), nil)
}

// Legend GET /api/v1/atlas/legend
func (h *Handlers) Legend(c *fiber.Ctx) error {
	return response.Success(c, "Legend fetched successfully", h.Service.Legend(), nil)
}

type projectionResult struct {
	Input    geo.Coordinate `json:"input"`
	Used     geo.Coordinate `json:"used"`
	Clamped  bool           `json:"clamped"`
	Radius   float64        `json:"radius"`
	Position [3]float64     `json:"position"`
}

// ProjectCoordinate GET /api/v1/atlas/project?lon=&lat=&radius=
func (h *Handlers) ProjectCoordinate(c *fiber.Ctx) error {
	lon, ok := finite(c.Query("lon"))
	if !ok {
		return response.BadRequest(c, "lon must be a number", nil)
	}
	lat, ok := finite(c.Query("lat"))
	if !ok {
		return response.BadRequest(c, "lat must be a number", nil)
	}
	radius := geo.GlobeRadius
	if raw := c.Query("radius"); raw != "" {
		radius, ok = finite(raw)
		if !ok || !validation.IsValidRadius(radius) {
			return response.BadRequest(c, atlassvc.ErrInvalidRadius.Error(), nil)
		}
	}
	in := geo.Coordinate{Longitude: lon, Latitude: lat}
	used := in.Clamp()
	return response.Success(c, "Coordinate projected successfully", projectionResult{
		Input:    in,
		Used:     used,
		Clamped:  !in.InRange(),
		Radius:   radius,
		Position: geo.Project(in, radius).Array(),
	}, nil)
}

func finite(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
