package planner

import (
	_ "embed"
	"strings"

	"github.com/ignatij/vineyard/pkg/models"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed varieties.yaml
var varietiesYAML []byte

var catalog = mustLoadVarieties(varietiesYAML)

// DefaultSpacing is used for farms whose variety is not in the catalog.
var DefaultSpacing = models.PlantSpacing{Width: 1.8, Length: 2.4}

// Varieties lists the built-in grape variety catalog.
func Varieties() []models.Variety {
	return append([]models.Variety(nil), catalog...)
}

// LookupVariety finds a catalog variety by name, ignoring case.
func LookupVariety(name string) (models.Variety, bool) {
	for _, v := range catalog {
		if strings.EqualFold(v.Name, strings.TrimSpace(name)) {
			return v, true
		}
	}
	return models.Variety{}, false
}

// RecommendedSpacing returns the catalog spacing of a variety or DefaultSpacing.
func RecommendedSpacing(name string) models.PlantSpacing {
	if v, ok := LookupVariety(name); ok {
		return v.RecommendedSpacing
	}
	return DefaultSpacing
}

func mustLoadVarieties(data []byte) []models.Variety {
	var out []models.Variety
	if err := yaml.Unmarshal(data, &out); err != nil {
		panic(errors.Wrap(err, "parse variety catalog"))
	}
	return out
}
