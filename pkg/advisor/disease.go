package advisor

import (
	"sort"
	"strings"
)

var diseaseAdvice = map[string][]string{
	"Black Rot": {
		"Remove infected leaves and fruit to reduce spread",
		"Apply fungicides containing captan or myclobutanil",
		"Ensure proper air circulation by pruning",
		"Avoid overhead irrigation",
	},
	"Leaf Blight": {
		"Apply copper-based fungicides as preventative measure",
		"Improve air circulation in the vineyard",
		"Remove infected plant material promptly",
		"Avoid wetting leaves during irrigation",
	},
	"ESCA": {
		"Apply sulfur or potassium bicarbonate-based fungicides",
		"Increase sunlight exposure through proper pruning",
		"Maintain good air circulation in the vineyard",
		"Monitor humidity levels and ventilate as needed",
	},
	"Healthy": {
		"Continue regular monitoring",
		"Maintain balanced fertilization",
		"Implement preventative measures based on weather conditions",
		"Follow recommended vineyard management practices",
	},
}

const noDiseaseAdvice = "No specific recommendations available for this condition"

// DiseaseRecommendations returns treatment steps for a classified leaf disease.
// The name is matched case-insensitively against the classifier labels.
func DiseaseRecommendations(disease string) []string {
	for name, steps := range diseaseAdvice {
		if strings.EqualFold(name, strings.TrimSpace(disease)) {
			return append([]string(nil), steps...)
		}
	}
	return []string{noDiseaseAdvice}
}

// Diseases lists the labels with specific advice, sorted.
func Diseases() []string {
	names := make([]string, 0, len(diseaseAdvice))
	for name := range diseaseAdvice {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
