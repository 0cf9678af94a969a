package planner_test

import (
	"testing"

	"github.com/ignatij/vineyard/pkg/models"
	"github.com/ignatij/vineyard/pkg/planner"
	"github.com/stretchr/testify/assert"
)

func TestCalculateLayout(t *testing.T) {
	t.Run("ExactFit", func(t *testing.T) {
		got := planner.CalculateLayout(10, 10, 2, 2)
		assert.Equal(t, models.LayoutResult{
			MaxPlantsWidth:  5,
			MaxPlantsLength: 5,
			MaxCapacity:     25,
			UsedWidth:       10,
			UsedLength:      10,
			UsedArea:        100,
			TotalArea:       100,
			Utilization:     100,
		}, got)
	})

	t.Run("FloorsPartialRows", func(t *testing.T) {
		got := planner.CalculateLayout(7, 9, 2, 2)
		assert.Equal(t, 4, got.MaxPlantsWidth)
		assert.Equal(t, 3, got.MaxPlantsLength)
		assert.Equal(t, 12, got.MaxCapacity)
		assert.Equal(t, 8.0, got.UsedWidth)
		assert.Equal(t, 6.0, got.UsedLength)
		assert.Equal(t, 48.0, got.UsedArea)
		assert.Equal(t, 63.0, got.TotalArea)
		assert.InDelta(t, 76.19, got.Utilization, 0.01)
	})

	t.Run("WidthUsesWidthSpacing", func(t *testing.T) {
		got := planner.CalculateLayout(10.5, 7.3, 2.4, 1.8)
		assert.Equal(t, 4, got.MaxPlantsWidth)
		assert.Equal(t, 4, got.MaxPlantsLength)
		assert.InDelta(t, 7.2, got.UsedWidth, 1e-9)
		assert.InDelta(t, 9.6, got.UsedLength, 1e-9)
		assert.LessOrEqual(t, got.Utilization, 100.0)
	})

	t.Run("FarmLayout", func(t *testing.T) {
		farm := models.Farm{Length: 7, Width: 9, PlantSpacing: models.PlantSpacing{Width: 2, Length: 2}}
		assert.Equal(t, planner.CalculateLayout(7, 9, 2, 2), planner.FarmLayout(farm))
	})
}
