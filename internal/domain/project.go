package domain

import (
	"encoding/json"
	"math"
	"time"

	"gorm.io/datatypes"
)

// Milestone is one scheduled checkpoint of a project.
type Milestone struct {
	Name      string    `json:"name"`
	Date      time.Time `json:"date"`
	Completed bool      `json:"completed"`
}

// Workforce summarises site staffing.
type Workforce struct {
	Total           int `json:"total"`
	Skilled         int `json:"skilled"`
	Unskilled       int `json:"unskilled"`
	SafetyIncidents int `json:"safety_incidents"`
}

// Project is one construction project plotted on the atlas. Records are loaded
// once and never modified; filtering and selection only hold pointers to them.
type Project struct {
	ID        string  `gorm:"column:id;primaryKey" json:"id"`
	Position  int     `gorm:"column:position;index" json:"-"`
	Name      string  `gorm:"column:name;not null" json:"name"`
	Client    string  `gorm:"column:client;not null;index" json:"client"`
	Longitude float64 `gorm:"column:longitude;not null" json:"-"`
	Latitude  float64 `gorm:"column:latitude;not null" json:"-"`
	Region    string  `gorm:"column:region;index" json:"region"`
	Country   string  `gorm:"column:country" json:"country,omitempty"`
	City      string  `gorm:"column:city" json:"city,omitempty"`

	SoilLevel           SoilLevel           `gorm:"column:soil_level;type:varchar(16)" json:"soilLevel"`
	ProjectType         ProjectType         `gorm:"column:project_type;type:varchar(32)" json:"projectType"`
	Status              Status              `gorm:"column:status;type:varchar(16);index" json:"status"`
	EnvironmentalImpact EnvironmentalImpact `gorm:"column:environmental_impact;type:varchar(16)" json:"environmentalImpact,omitempty"`

	Materials            datatypes.JSONSlice[string] `gorm:"column:materials" json:"materials"`
	Suppliers            datatypes.JSONSlice[string] `gorm:"column:suppliers" json:"suppliers"`
	Permits              datatypes.JSONSlice[string] `gorm:"column:permits" json:"permits"`
	RiskFactors          datatypes.JSONSlice[string] `gorm:"column:risk_factors" json:"riskFactors"`
	Utilities            datatypes.JSONSlice[string] `gorm:"column:utilities" json:"utilities"`
	WeatherConditions    datatypes.JSONSlice[string] `gorm:"column:weather_conditions" json:"weatherConditions"`
	NearbyInfrastructure datatypes.JSONSlice[string] `gorm:"column:nearby_infrastructure" json:"nearbyInfrastructure"`
	EquipmentUsed        datatypes.JSONSlice[string] `gorm:"column:equipment_used" json:"equipmentUsed"`
	TransportationNeeds  datatypes.JSONSlice[string] `gorm:"column:transportation_needs" json:"transportationNeeds"`

	Budget               float64  `gorm:"column:budget;not null" json:"budget"`
	ActualCost           *float64 `gorm:"column:actual_cost" json:"actualCost"`
	Elevation            float64  `gorm:"column:elevation" json:"elevation"`
	SurfaceArea          float64  `gorm:"column:surface_area" json:"surfaceArea"`
	Floors               int      `gorm:"column:floors" json:"floors"`
	Units                *int     `gorm:"column:units" json:"units"`
	Contractor           string   `gorm:"column:contractor" json:"contractor,omitempty"`
	Architect            string   `gorm:"column:architect" json:"architect,omitempty"`
	Engineer             string   `gorm:"column:engineer" json:"engineer,omitempty"`
	SustainabilityRating *string  `gorm:"column:sustainability_rating" json:"sustainabilityRating"`
	AccessRoads          bool     `gorm:"column:access_roads" json:"accessRoads"`

	StartDate           time.Time `gorm:"column:start_date" json:"startDate"`
	EstimatedCompletion time.Time `gorm:"column:estimated_completion" json:"estimatedCompletion"`

	Milestones datatypes.JSONSlice[Milestone] `gorm:"column:milestones" json:"milestones"`
	Workforce  datatypes.JSONType[Workforce]  `gorm:"column:workforce" json:"workforce"`
}

func (Project) TableName() string {
	return "projects"
}

// MarshalJSON writes coordinates as a [longitude, latitude] pair, the shape the globe expects.
func (p Project) MarshalJSON() ([]byte, error) {
	type plain Project
	return json.Marshal(struct {
		plain
		Coordinates [2]float64 `json:"coordinates"`
	}{plain: plain(p), Coordinates: [2]float64{p.Longitude, p.Latitude}})
}

// ProgressPercent derives schedule progress at now. Dates are not validated
// against each other: an inverted range reports 0 or 100.
func (p *Project) ProgressPercent(now time.Time) int {
	if now.Before(p.StartDate) {
		return 0
	}
	if now.After(p.EstimatedCompletion) {
		return 100
	}
	total := p.EstimatedCompletion.Sub(p.StartDate)
	if total <= 0 {
		return 100
	}
	elapsed := now.Sub(p.StartDate)
	return int(math.Round(float64(elapsed) / float64(total) * 100))
}

// CompletedMilestones counts milestones flagged as done.
func (p *Project) CompletedMilestones() int {
	n := 0
	for _, m := range p.Milestones {
		if m.Completed {
			n++
		}
	}
	return n
}
