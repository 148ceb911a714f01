package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"geobuild-atlas/internal/domain"

	"github.com/rs/zerolog/log"
)

// Source supplies the working set. Any loader returning records in dataset order works.
type Source interface {
	Projects(ctx context.Context) ([]domain.Project, error)
}

// StaticSource serves an in-memory slice.
type StaticSource []domain.Project

func (s StaticSource) Projects(context.Context) ([]domain.Project, error) {
	return append([]domain.Project(nil), s...), nil
}

// Catalog is the read-only working set. It is built once and safe for concurrent reads.
type Catalog struct {
	projects    []*domain.Project
	byID        map[string]*domain.Project
	fingerprint string
}

// Load reads every project from src and builds the catalog.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	projects, err := src.Projects(ctx)
	if err != nil {
		return nil, err
	}
	c, err := New(projects)
	if err != nil {
		return nil, err
	}
	log.Info().Int("projects", c.Len()).Msg("Catalog loaded")
	return c, nil
}

// New builds a catalog from projects, rejecting duplicate ids.
func New(projects []domain.Project) (*Catalog, error) {
	c := &Catalog{
		projects: make([]*domain.Project, 0, len(projects)),
		byID:     make(map[string]*domain.Project, len(projects)),
	}
	for i := range projects {
		p := projects[i]
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateID, p.ID)
		}
		c.projects = append(c.projects, &p)
		c.byID[p.ID] = &p
	}
	fp, err := fingerprint(c.projects)
	if err != nil {
		return nil, err
	}
	c.fingerprint = fp
	return c, nil
}

// fingerprint digests every record in dataset order. Any edit to a record,
// or to the order, yields a different value.
func fingerprint(projects []*domain.Project) (string, error) {
	h := sha256.New()
	for _, p := range projects {
		b, err := json.Marshal(p)
		if err != nil {
			return "", fmt.Errorf("fingerprint %s: %w", p.ID, err)
		}
		h.Write(b)
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))[:16], nil
}

// Fingerprint identifies this working set. Derived data cached outside the
// process must be keyed by it.
func (c *Catalog) Fingerprint() string { return c.fingerprint }

// All returns the records in dataset order. The slice is a copy; records are shared.
func (c *Catalog) All() []*domain.Project {
	return append([]*domain.Project(nil), c.projects...)
}

func (c *Catalog) ByID(id string) (*domain.Project, error) {
	p, ok := c.byID[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	return p, nil
}

func (c *Catalog) Len() int { return len(c.projects) }

// Stats is the quick-stats panel: totals plus breakdowns per categorical field.
type Stats struct {
	TotalProjects int            `json:"totalProjects"`
	ActiveSites   int            `json:"activeSites"`
	Regions       int            `json:"regions"`
	Countries     int            `json:"countries"`
	TotalBudget   float64        `json:"totalBudget"`
	ByStatus      map[string]int `json:"byStatus"`
	BySoilLevel   map[string]int `json:"bySoilLevel"`
	ByProjectType map[string]int `json:"byProjectType"`
	ByRegion      map[string]int `json:"byRegion"`
	RegionNames   []string       `json:"regionNames"`
}

func (c *Catalog) Stats() Stats {
	s := Stats{
		TotalProjects: len(c.projects),
		ByStatus:      map[string]int{},
		BySoilLevel:   map[string]int{},
		ByProjectType: map[string]int{},
		ByRegion:      map[string]int{},
	}
	countries := map[string]struct{}{}
	for _, p := range c.projects {
		if p.Status == domain.StatusActive {
			s.ActiveSites++
		}
		s.TotalBudget += p.Budget
		s.ByStatus[string(p.Status)]++
		s.BySoilLevel[string(p.SoilLevel)]++
		s.ByProjectType[string(p.ProjectType)]++
		if p.Region != "" {
			s.ByRegion[p.Region]++
		}
		if p.Country != "" {
			countries[p.Country] = struct{}{}
		}
	}
	s.Regions = len(s.ByRegion)
	s.Countries = len(countries)
	s.RegionNames = make([]string, 0, len(s.ByRegion))
	for r := range s.ByRegion {
		s.RegionNames = append(s.RegionNames, r)
	}
	sort.Strings(s.RegionNames)
	return s
}
