package seed

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"geobuild-atlas/internal/domain"
	"geobuild-atlas/internal/pkg/validation"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
)

//go:embed projects.yaml
var embedded []byte

const dateLayout = "2006-01-02"

type file struct {
	Projects []record `yaml:"projects"`
}

// record mirrors the dataset shape; enums and dates are plain strings until converted.
type record struct {
	ID                   string      `yaml:"id"`
	Name                 string      `yaml:"name"`
	Client               string      `yaml:"client"`
	Coordinates          [2]float64  `yaml:"coordinates"`
	Region               string      `yaml:"region"`
	Country              string      `yaml:"country"`
	City                 string      `yaml:"city"`
	SoilLevel            string      `yaml:"soilLevel"`
	Materials            []string    `yaml:"materials"`
	Suppliers            []string    `yaml:"suppliers"`
	ProjectType          string      `yaml:"projectType"`
	StartDate            string      `yaml:"startDate"`
	EstimatedCompletion  string      `yaml:"estimatedCompletion"`
	Budget               float64     `yaml:"budget"`
	ActualCost           *float64    `yaml:"actualCost"`
	Status               string      `yaml:"status"`
	Elevation            float64     `yaml:"elevation"`
	SurfaceArea          float64     `yaml:"surfaceArea"`
	Floors               int         `yaml:"floors"`
	Units                *int        `yaml:"units"`
	Contractor           string      `yaml:"contractor"`
	Architect            string      `yaml:"architect"`
	Engineer             string      `yaml:"engineer"`
	Permits              []string    `yaml:"permits"`
	EnvironmentalImpact  string      `yaml:"environmentalImpact"`
	SustainabilityRating *string     `yaml:"sustainabilityRating"`
	WeatherConditions    []string    `yaml:"weatherConditions"`
	AccessRoads          bool        `yaml:"accessRoads"`
	Utilities            []string    `yaml:"utilities"`
	NearbyInfrastructure []string    `yaml:"nearbyInfrastructure"`
	RiskFactors          []string    `yaml:"riskFactors"`
	Milestones           []milestone `yaml:"milestones"`
	Workforce            workforce   `yaml:"workforce"`
	EquipmentUsed        []string    `yaml:"equipmentUsed"`
	TransportationNeeds  []string    `yaml:"transportationNeeds"`
}

type milestone struct {
	Name      string `yaml:"name"`
	Date      string `yaml:"date"`
	Completed bool   `yaml:"completed"`
}

type workforce struct {
	Total           int `yaml:"total"`
	Skilled         int `yaml:"skilled"`
	Unskilled       int `yaml:"unskilled"`
	SafetyIncidents int `yaml:"safety_incidents"`
}

// Embedded returns the dataset compiled into the binary.
func Embedded() ([]domain.Project, error) {
	return Parse(embedded)
}

// Load returns the dataset at path, or the embedded one when path is empty.
func Load(path string) ([]domain.Project, error) {
	if path == "" {
		return Embedded()
	}
	return LoadFile(path)
}

// LoadFile reads a dataset in the same YAML shape from disk.
func LoadFile(path string) ([]domain.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML dataset. Unknown enum values fall back to their
// "unknown" variant and out-of-range coordinates are kept; both are logged.
func Parse(data []byte) ([]domain.Project, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	out := make([]domain.Project, 0, len(f.Projects))
	for i, r := range f.Projects {
		p, err := r.toDomain()
		if err != nil {
			return nil, fmt.Errorf("project %d (%q): %w", i, r.ID, err)
		}
		p.Position = i
		out = append(out, p)
	}
	return out, nil
}

func (r record) toDomain() (domain.Project, error) {
	if r.ID == "" {
		return domain.Project{}, fmt.Errorf("missing id")
	}
	start, err := parseDate(r.StartDate)
	if err != nil {
		return domain.Project{}, fmt.Errorf("startDate: %w", err)
	}
	end, err := parseDate(r.EstimatedCompletion)
	if err != nil {
		return domain.Project{}, fmt.Errorf("estimatedCompletion: %w", err)
	}
	milestones := make([]domain.Milestone, 0, len(r.Milestones))
	for _, m := range r.Milestones {
		d, err := parseDate(m.Date)
		if err != nil {
			return domain.Project{}, fmt.Errorf("milestone %q: %w", m.Name, err)
		}
		milestones = append(milestones, domain.Milestone{Name: m.Name, Date: d, Completed: m.Completed})
	}

	lon, lat := r.Coordinates[0], r.Coordinates[1]
	if !validation.IsValidLongitude(lon) || !validation.IsValidLatitude(lat) {
		log.Warn().Str("project_id", r.ID).Float64("lon", lon).Float64("lat", lat).Msg("Coordinates out of range; marker will be clamped")
	}

	soil, ok := domain.ParseSoilLevel(r.SoilLevel)
	if !ok {
		warnEnum(r.ID, "soilLevel", r.SoilLevel)
	}
	ptype, ok := domain.ParseProjectType(r.ProjectType)
	if !ok {
		warnEnum(r.ID, "projectType", r.ProjectType)
	}
	status, ok := domain.ParseStatus(r.Status)
	if !ok {
		warnEnum(r.ID, "status", r.Status)
	}
	impact, ok := domain.ParseEnvironmentalImpact(r.EnvironmentalImpact)
	if !ok {
		warnEnum(r.ID, "environmentalImpact", r.EnvironmentalImpact)
	}

	return domain.Project{
		ID:                   r.ID,
		Name:                 r.Name,
		Client:               r.Client,
		Longitude:            lon,
		Latitude:             lat,
		Region:               r.Region,
		Country:              r.Country,
		City:                 r.City,
		SoilLevel:            soil,
		ProjectType:          ptype,
		Status:               status,
		EnvironmentalImpact:  impact,
		Materials:            list(r.Materials),
		Suppliers:            list(r.Suppliers),
		Permits:              list(r.Permits),
		RiskFactors:          list(r.RiskFactors),
		Utilities:            list(r.Utilities),
		WeatherConditions:    list(r.WeatherConditions),
		NearbyInfrastructure: list(r.NearbyInfrastructure),
		EquipmentUsed:        list(r.EquipmentUsed),
		TransportationNeeds:  list(r.TransportationNeeds),
		Budget:               r.Budget,
		ActualCost:           r.ActualCost,
		Elevation:            r.Elevation,
		SurfaceArea:          r.SurfaceArea,
		Floors:               r.Floors,
		Units:                r.Units,
		Contractor:           r.Contractor,
		Architect:            r.Architect,
		Engineer:             r.Engineer,
		SustainabilityRating: r.SustainabilityRating,
		AccessRoads:          r.AccessRoads,
		StartDate:            start,
		EstimatedCompletion:  end,
		Milestones:           datatypes.JSONSlice[domain.Milestone](milestones),
		Workforce: datatypes.NewJSONType(domain.Workforce{
			Total:           r.Workforce.Total,
			Skilled:         r.Workforce.Skilled,
			Unskilled:       r.Workforce.Unskilled,
			SafetyIncidents: r.Workforce.SafetyIncidents,
		}),
	}, nil
}

func warnEnum(id, field, value string) {
	log.Warn().Str("project_id", id).Str("field", field).Str("value", value).Msg("Unrecognised value; stored as unknown")
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// list never returns nil so empty collections serialise as [].
func list(in []string) datatypes.JSONSlice[string] {
	if in == nil {
		return datatypes.JSONSlice[string]{}
	}
	return datatypes.JSONSlice[string](in)
}
