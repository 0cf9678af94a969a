package planner

import (
	"math"

	"github.com/ignatij/vineyard/pkg/models"
)

// CalculateLayout fits vines on a grid over a rectangular farm. All inputs
// are meters and must be positive; callers validate them.
func CalculateLayout(farmLength, farmWidth, plantLengthSpacing, plantWidthSpacing float64) models.LayoutResult {
	maxWidth := int(math.Floor(farmWidth / plantWidthSpacing))
	maxLength := int(math.Floor(farmLength / plantLengthSpacing))

	usedWidth := float64(maxWidth) * plantWidthSpacing
	usedLength := float64(maxLength) * plantLengthSpacing
	usedArea := usedWidth * usedLength
	totalArea := farmWidth * farmLength

	return models.LayoutResult{
		MaxPlantsWidth:  maxWidth,
		MaxPlantsLength: maxLength,
		MaxCapacity:     maxWidth * maxLength,
		UsedWidth:       usedWidth,
		UsedLength:      usedLength,
		UsedArea:        usedArea,
		TotalArea:       totalArea,
		Utilization:     usedArea / totalArea * 100,
	}
}

// FarmLayout is CalculateLayout for a stored farm.
func FarmLayout(f models.Farm) models.LayoutResult {
	return CalculateLayout(f.Length, f.Width, f.PlantSpacing.Length, f.PlantSpacing.Width)
}
