package advisor

import "strings"

// Weather is the subset of a weather report the farming rules look at.
type Weather struct {
	Temperature float64 `json:"temp" validate:"gte=-90,lte=60"`       // Celsius
	Humidity    float64 `json:"humidity" validate:"gte=0,lte=100"`    // Percent
	WindSpeed   float64 `json:"wind_speed" validate:"gte=0"`          // m/s
	Condition   string  `json:"condition" validate:"required,max=64"` // e.g. "Rain", "Clear"
}

// Recommendation keys. Later rules overwrite earlier ones with the same key.
const (
	IrrigationAdvice      = "irrigation"
	CropStressAdvice      = "crop_stress"
	FrostProtectionAdvice = "frost_protection"
	PlantingAdvice        = "planting"
	DiseaseRiskAdvice     = "disease_risk"
	SprayingAdvice        = "spraying"
	ProtectionAdvice      = "protection"
	FieldWorkAdvice       = "field_work"
	SoilErosionAdvice     = "soil_erosion"
)

// FarmingRecommendations turns current weather into field advice keyed by topic.
func FarmingRecommendations(w Weather) map[string]string {
	rec := make(map[string]string)

	switch {
	case w.Temperature > 30:
		rec[IrrigationAdvice] = "Increase irrigation by 20%. Water early morning or late evening to reduce evaporation."
		rec[CropStressAdvice] = "High temperature stress likely for crops. Consider shade cloth for sensitive plants."
	case w.Temperature > 25:
		rec[IrrigationAdvice] = "Maintain regular irrigation schedule. Monitor soil moisture closely."
	case w.Temperature < 5:
		rec[FrostProtectionAdvice] = "Risk of frost damage. Cover sensitive crops and consider using frost protection methods."
	case w.Temperature < 10:
		rec[PlantingAdvice] = "Cool conditions may slow germination. Delay planting heat-loving crops."
	}

	switch {
	case w.Humidity > 80:
		rec[DiseaseRiskAdvice] = "High risk of fungal diseases due to high humidity. Monitor crops closely."
		rec[SprayingAdvice] = "Consider preventative fungicide application if appropriate for your farming system."
	case w.Humidity < 30:
		rec[IrrigationAdvice] = "Low humidity may increase water loss. Consider increasing irrigation frequency."
	}

	if w.WindSpeed > 10 {
		rec[ProtectionAdvice] = "Strong winds can damage crops. Consider temporary windbreaks for vulnerable plants."
	}

	condition := strings.ToLower(w.Condition)
	switch {
	case strings.Contains(condition, "rain"):
		rec[FieldWorkAdvice] = "Postpone field operations that require dry conditions."
		rec[SoilErosionAdvice] = "Monitor fields for potential erosion. Ensure proper drainage."
	case strings.Contains(condition, "clear"), strings.Contains(condition, "sun"):
		rec[IrrigationAdvice] = "Check soil moisture levels as evaporation rates will be higher."
	}

	return rec
}
