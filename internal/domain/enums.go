package domain

// SoilLevel is the soil classification at a construction site.
type SoilLevel string

const (
	SoilClay      SoilLevel = "clay"
	SoilSand      SoilLevel = "sand"
	SoilRock      SoilLevel = "rock"
	SoilLoam      SoilLevel = "loam"
	SoilMixed     SoilLevel = "mixed"
	SoilLimestone SoilLevel = "limestone"
	SoilGranite   SoilLevel = "granite"
	SoilSilt      SoilLevel = "silt"
	SoilUnknown   SoilLevel = "unknown"
)

var soilLevels = []SoilLevel{SoilClay, SoilSand, SoilRock, SoilLoam, SoilMixed, SoilLimestone, SoilGranite, SoilSilt}

// ParseSoilLevel returns SoilUnknown and false for unrecognised values.
func ParseSoilLevel(s string) (SoilLevel, bool) {
	for _, v := range soilLevels {
		if string(v) == s {
			return v, true
		}
	}
	return SoilUnknown, false
}

// ProjectType is the kind of building or works.
type ProjectType string

const (
	TypeResidential    ProjectType = "residential"
	TypeCommercial     ProjectType = "commercial"
	TypeIndustrial     ProjectType = "industrial"
	TypeInfrastructure ProjectType = "infrastructure"
	TypeMixedUse       ProjectType = "mixed-use"
	TypeHealthcare     ProjectType = "healthcare"
	TypeEducation      ProjectType = "education"
	TypeUnknown        ProjectType = "unknown"
)

var projectTypes = []ProjectType{TypeResidential, TypeCommercial, TypeIndustrial, TypeInfrastructure, TypeMixedUse, TypeHealthcare, TypeEducation}

func ParseProjectType(s string) (ProjectType, bool) {
	for _, v := range projectTypes {
		if string(v) == s {
			return v, true
		}
	}
	return TypeUnknown, false
}

// Status is the lifecycle state of a project.
type Status string

const (
	StatusPlanning  Status = "planning"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusSuspended Status = "suspended"
	StatusDelayed   Status = "delayed"
	StatusUnknown   Status = "unknown"
)

var statuses = []Status{StatusPlanning, StatusActive, StatusCompleted, StatusSuspended, StatusDelayed}

func ParseStatus(s string) (Status, bool) {
	for _, v := range statuses {
		if string(v) == s {
			return v, true
		}
	}
	return StatusUnknown, false
}

// EnvironmentalImpact is optional on a record; the zero value means not assessed.
type EnvironmentalImpact string

const (
	ImpactNone    EnvironmentalImpact = ""
	ImpactLow     EnvironmentalImpact = "low"
	ImpactMedium  EnvironmentalImpact = "medium"
	ImpactHigh    EnvironmentalImpact = "high"
	ImpactUnknown EnvironmentalImpact = "unknown"
)

// ParseEnvironmentalImpact accepts the empty string as ImpactNone.
func ParseEnvironmentalImpact(s string) (EnvironmentalImpact, bool) {
	switch EnvironmentalImpact(s) {
	case ImpactNone, ImpactLow, ImpactMedium, ImpactHigh:
		return EnvironmentalImpact(s), true
	}
	return ImpactUnknown, false
}

// SoilLevels returns the recognised soil classifications in display order.
func SoilLevels() []SoilLevel { return append([]SoilLevel(nil), soilLevels...) }

// Statuses returns the recognised statuses in display order.
func Statuses() []Status { return append([]Status(nil), statuses...) }

// ProjectTypes returns the recognised project types in display order.
func ProjectTypes() []ProjectType { return append([]ProjectType(nil), projectTypes...) }
