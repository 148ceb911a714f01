package atlas

import (
	"context"
	"math"

	"geobuild-atlas/internal/domain"
	"geobuild-atlas/internal/filter"
	"geobuild-atlas/internal/pkg/constants"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var usd = message.NewPrinter(language.AmericanEnglish)

// FormatUSD renders a whole-dollar amount with grouping, e.g. $150,000,000.
func FormatUSD(amount float64) string {
	if amount < 0 {
		return "-" + FormatUSD(-amount)
	}
	return usd.Sprintf("$%d", int64(math.Round(amount)))
}

// Detail is the detail panel payload for the selected project.
type Detail struct {
	Project             *domain.Project `json:"project"`
	Highlighted         bool            `json:"highlighted"`
	Progress            int             `json:"progress"`
	Budget              string          `json:"budget"`
	ActualCost          *string         `json:"actualCost"`
	BudgetVariance      *float64        `json:"budgetVariance"`
	StatusTone          string          `json:"statusTone"`
	StatusColor         string          `json:"statusColor"`
	SoilColor           string          `json:"soilColor"`
	MilestonesCompleted int             `json:"milestonesCompleted"`
	MilestonesTotal     int             `json:"milestonesTotal"`
}

// Detail builds the panel for id, flagging whether spec highlights it.
func (s *Service) Detail(ctx context.Context, id string, spec filter.Spec) (*Detail, error) {
	return s.detail(id, s.Highlight(ctx, spec).Highlighted)
}

func (s *Service) detail(id string, hl filter.HighlightSet) (*Detail, error) {
	p, err := s.Catalog.ByID(id)
	if err != nil {
		return nil, err
	}
	d := &Detail{
		Project:             p,
		Highlighted:         hl.Contains(p.ID),
		Progress:            p.ProgressPercent(s.now()),
		Budget:              FormatUSD(p.Budget),
		StatusTone:          constants.ToneFor(string(p.Status)),
		StatusColor:         constants.ColorFor(constants.StatusColors, string(p.Status)),
		SoilColor:           constants.ColorFor(constants.SoilColors, string(p.SoilLevel)),
		MilestonesCompleted: p.CompletedMilestones(),
		MilestonesTotal:     len(p.Milestones),
	}
	if p.ActualCost != nil {
		cost := FormatUSD(*p.ActualCost)
		d.ActualCost = &cost
		if p.Budget != 0 {
			v := math.Round((*p.ActualCost-p.Budget)/p.Budget*1000) / 10
			d.BudgetVariance = &v
		}
	}
	return d, nil
}

// Legend is the colour key shown beside the globe.
type Legend struct {
	Marker       map[string]string   `json:"marker"`
	SoilLevels   map[string]string   `json:"soilLevels"`
	Statuses     map[string]string   `json:"statuses"`
	FilterKeys   []filter.Key        `json:"filterKeys"`
	FilterValues map[string][]string `json:"filterValues"`
}

func (s *Service) Legend() Legend {
	soils := map[string]string{}
	for _, v := range domain.SoilLevels() {
		soils[string(v)] = constants.ColorFor(constants.SoilColors, string(v))
	}
	statuses := map[string]string{}
	for _, v := range domain.Statuses() {
		statuses[string(v)] = constants.ColorFor(constants.StatusColors, string(v))
	}
	return Legend{
		Marker: map[string]string{
			"default":     constants.MarkerDefault,
			"highlighted": constants.MarkerHighlighted,
		},
		SoilLevels: soils,
		Statuses:   statuses,
		FilterKeys: filter.Keys(),
		FilterValues: map[string][]string{
			string(filter.KeyRegion):              s.Catalog.Stats().RegionNames,
			string(filter.KeyProjectType):         names(domain.ProjectTypes()),
			string(filter.KeySoilLevel):           names(domain.SoilLevels()),
			string(filter.KeyStatus):              names(domain.Statuses()),
			string(filter.KeyEnvironmentalImpact): {string(domain.ImpactLow), string(domain.ImpactMedium), string(domain.ImpactHigh)},
		},
	}
}

func names[T ~string](ordered []T) []string {
	out := make([]string, len(ordered))
	for i, v := range ordered {
		out[i] = string(v)
	}
	return out
}
