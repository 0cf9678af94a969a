package advisor_test

import (
	"testing"

	"github.com/ignatij/vineyard/pkg/advisor"
	"github.com/stretchr/testify/assert"
)

func TestFarmingRecommendations(t *testing.T) {
	tests := []struct {
		name    string
		weather advisor.Weather
		want    map[string]string
	}{
		{
			name:    "MildAndCloudy",
			weather: advisor.Weather{Temperature: 20, Humidity: 50, WindSpeed: 3, Condition: "Clouds"},
			want:    map[string]string{},
		},
		{
			name:    "HotDryClear",
			weather: advisor.Weather{Temperature: 35, Humidity: 20, WindSpeed: 12, Condition: "Clear"},
			want: map[string]string{
				advisor.IrrigationAdvice: "Check soil moisture levels as evaporation rates will be higher.",
				advisor.CropStressAdvice: "High temperature stress likely for crops. Consider shade cloth for sensitive plants.",
				advisor.ProtectionAdvice: "Strong winds can damage crops. Consider temporary windbreaks for vulnerable plants.",
			},
		},
		{
			name:    "WarmHumidRain",
			weather: advisor.Weather{Temperature: 27, Humidity: 90, WindSpeed: 2, Condition: "Light Rain"},
			want: map[string]string{
				advisor.IrrigationAdvice:  "Maintain regular irrigation schedule. Monitor soil moisture closely.",
				advisor.DiseaseRiskAdvice: "High risk of fungal diseases due to high humidity. Monitor crops closely.",
				advisor.SprayingAdvice:    "Consider preventative fungicide application if appropriate for your farming system.",
				advisor.FieldWorkAdvice:   "Postpone field operations that require dry conditions.",
				advisor.SoilErosionAdvice: "Monitor fields for potential erosion. Ensure proper drainage.",
			},
		},
		{
			name:    "Frost",
			weather: advisor.Weather{Temperature: 2, Humidity: 60, Condition: "Snow"},
			want: map[string]string{
				advisor.FrostProtectionAdvice: "Risk of frost damage. Cover sensitive crops and consider using frost protection methods.",
			},
		},
		{
			name:    "Cool",
			weather: advisor.Weather{Temperature: 8, Humidity: 60, Condition: "Mist"},
			want: map[string]string{
				advisor.PlantingAdvice: "Cool conditions may slow germination. Delay planting heat-loving crops.",
			},
		},
		{
			name:    "LowHumidityOverridesTemperatureIrrigation",
			weather: advisor.Weather{Temperature: 28, Humidity: 25, Condition: "Haze"},
			want: map[string]string{
				advisor.IrrigationAdvice: "Low humidity may increase water loss. Consider increasing irrigation frequency.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, advisor.FarmingRecommendations(tt.weather))
		})
	}
}

func TestDiseaseRecommendations(t *testing.T) {
	t.Run("KnownDisease", func(t *testing.T) {
		got := advisor.DiseaseRecommendations("black rot")
		assert.Len(t, got, 4)
		assert.Equal(t, "Remove infected leaves and fruit to reduce spread", got[0])
	})

	t.Run("UnknownDisease", func(t *testing.T) {
		assert.Equal(t, []string{"No specific recommendations available for this condition"},
			advisor.DiseaseRecommendations("Powdery Mildew"))
	})

	t.Run("EveryListedDiseaseHasAdvice", func(t *testing.T) {
		assert.Equal(t, []string{"Black Rot", "ESCA", "Healthy", "Leaf Blight"}, advisor.Diseases())
		for _, d := range advisor.Diseases() {
			assert.Len(t, advisor.DiseaseRecommendations(d), 4, d)
		}
	})
}
