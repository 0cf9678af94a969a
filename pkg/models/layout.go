package models

// LayoutResult holds plant counts and area usage derived from farm and spacing dimensions.
type LayoutResult struct {
	MaxPlantsWidth  int     `json:"max_plants_width"`
	MaxPlantsLength int     `json:"max_plants_length"`
	MaxCapacity     int     `json:"max_capacity"`
	UsedWidth       float64 `json:"used_width"`
	UsedLength      float64 `json:"used_length"`
	UsedArea        float64 `json:"used_area"`
	TotalArea       float64 `json:"total_area"`
	Utilization     float64 `json:"utilization"` // Percentage of total area
}

// SeasonalActivity is the advisory text for a point in the grape-growing year.
type SeasonalActivity struct {
	Phase    string   `json:"phase" yaml:"phase"`
	Current  []string `json:"current" yaml:"current"`
	Upcoming []string `json:"upcoming" yaml:"upcoming"`
}
