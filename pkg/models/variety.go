package models

type Fertilizer struct {
	NPKRatio string `json:"npk_ratio" yaml:"npk_ratio"`
	Schedule string `json:"schedule" yaml:"schedule"`
}

// Variety is a grape variety from the built-in catalog.
type Variety struct {
	Name               string       `json:"name" yaml:"name"`
	Type               string       `json:"type" yaml:"type"`
	GrowingPeriod      string       `json:"growing_period" yaml:"growing_period"`
	RecommendedSpacing PlantSpacing `json:"recommended_spacing" yaml:"recommended_spacing"`
	ClimatePreference  string       `json:"climate_preference" yaml:"climate_preference"`
	DiseaseResistance  string       `json:"disease_resistance" yaml:"disease_resistance"`
	Fertilizer         Fertilizer   `json:"fertilizer_recommendations" yaml:"fertilizer_recommendations"`
}
