package filter

import (
	"strings"

	"geobuild-atlas/internal/domain"
)

type matcher func(p *domain.Project, value string) bool

var matchers = map[Key]matcher{
	KeyClient:   func(p *domain.Project, v string) bool { return containsFold(p.Client, v) },
	KeyMaterial: func(p *domain.Project, v string) bool { return anyContainsFold(p.Materials, v) },
	KeySupplier: func(p *domain.Project, v string) bool { return anyContainsFold(p.Suppliers, v) },

	KeyRegion:              func(p *domain.Project, v string) bool { return p.Region == v },
	KeyProjectType:         func(p *domain.Project, v string) bool { return string(p.ProjectType) == v },
	KeyStatus:              func(p *domain.Project, v string) bool { return string(p.Status) == v },
	KeySoilLevel:           func(p *domain.Project, v string) bool { return string(p.SoilLevel) == v },
	KeyEnvironmentalImpact: func(p *domain.Project, v string) bool { return string(p.EnvironmentalImpact) == v },
	KeyContractor:          func(p *domain.Project, v string) bool { return p.Contractor == v },
	KeyCountry:             func(p *domain.Project, v string) bool { return p.Country == v },

	KeySearch: func(p *domain.Project, v string) bool {
		return containsFold(p.Name, v) || containsFold(p.Client, v) ||
			anyContainsFold(p.Materials, v) || anyContainsFold(p.Suppliers, v)
	},
}

// Matches reports whether p satisfies every constraint in s. Absent fields
// (empty strings) never equal a constraint because specs hold no blank values.
// Enum fields compare their parsed value: "unknown" selects every record whose
// raw value was unrecognised at load, and the raw value itself matches nothing.
func Matches(p *domain.Project, s Spec) bool {
	for k, v := range s.values {
		m, ok := matchers[k]
		if !ok || !m(p, v) {
			return false
		}
	}
	return true
}

// Result is the filtered subset and its Highlight Set.
type Result struct {
	Matches     []*domain.Project
	Highlighted HighlightSet
}

// Apply keeps the records satisfying s, preserving input order.
func Apply(records []*domain.Project, s Spec) Result {
	out := make([]*domain.Project, 0, len(records))
	for _, p := range records {
		if Matches(p, s) {
			out = append(out, p)
		}
	}
	return Result{Matches: out, Highlighted: NewHighlightSet(idsOf(out))}
}

func idsOf(ps []*domain.Project) []string {
	ids := make([]string, len(ps))
	for i, p := range ps {
		ids[i] = p.ID
	}
	return ids
}

// HighlightSet is the set of record ids satisfying a spec, kept in record order.
type HighlightSet struct {
	ids []string
	set map[string]struct{}
}

func NewHighlightSet(ids []string) HighlightSet {
	h := HighlightSet{ids: append([]string(nil), ids...), set: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		h.set[id] = struct{}{}
	}
	return h
}

func (h HighlightSet) Contains(id string) bool {
	_, ok := h.set[id]
	return ok
}

func (h HighlightSet) IDs() []string { return append([]string(nil), h.ids...) }

func (h HighlightSet) Len() int { return len(h.ids) }

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func anyContainsFold(list []string, sub string) bool {
	for _, s := range list {
		if containsFold(s, sub) {
			return true
		}
	}
	return false
}
