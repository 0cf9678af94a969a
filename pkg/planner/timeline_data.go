package planner

import "github.com/ignatij/vineyard/pkg/models"

// varietyToken is replaced by the grape variety in task descriptions.
const varietyToken = "{variety}"

type anchor int

const (
	plantingAnchor   anchor = iota // planting date
	secondYearAnchor               // planting date, year + 1
	thirdYearAnchor                // planting date, year + 2
)

// taskTemplate describes one generated task. Start and due are day offsets
// from the anchor date, or from the start of the month for monthly tasks.
type taskTemplate struct {
	title       string
	description string
	category    models.TaskCategory
	anchor      anchor
	start       int
	due         int
}

// Pre-planting, planting day and early establishment.
var establishmentTasks = []taskTemplate{
	{"Soil Testing", "Conduct soil pH test, check nutrient levels", models.PreparationCategory, plantingAnchor, -14, -10},
	{"Land Preparation", "Deep plowing, leveling, and adding organic matter", models.PreparationCategory, plantingAnchor, -10, -3},
	{"Install Irrigation System", "Set up drip irrigation system for water efficiency", models.PreparationCategory, plantingAnchor, -7, -1},
	{"Planting Day", "Plant " + varietyToken + " vines with proper spacing", models.PlantingCategory, plantingAnchor, 0, 0},
	{"Deep Watering", "Provide 10-15 liters per plant", models.WaterCategory, plantingAnchor, 0, 1},
	{"Apply Mulch", "Apply organic mulch around plants to retain moisture", models.SoilCategory, plantingAnchor, 1, 3},
	{"Regular Watering", "Water every 3-4 days (5-10 liters per vine)", models.WaterCategory, plantingAnchor, 3, 30},
	{"First Fertilization", "Apply NPK 10-10-10 (half dose)", models.FertilizeCategory, plantingAnchor, 10, 10},
	{"Install Trellis System", "Set up wooden posts with wires for vine training", models.StructureCategory, plantingAnchor, 30, 45},
	{"Shoot Training", "Train primary shoots onto trellis", models.TrainingCategory, plantingAnchor, 45, 60},
}

// First-year growth months. Month m spans days 30*(m-1) to 30*m after planting.
const (
	firstGrowthMonth = 4
	lastGrowthMonth  = 12
	daysPerMonth     = 30
)

// Summer months water more often and more heavily.
const (
	firstSummerMonth = 6
	lastSummerMonth  = 9
)

type wateringPlan struct {
	interval string // days between waterings
	amount   string // liters per vine
}

var (
	summerWatering  = wateringPlan{interval: "7-10", amount: "10-12"}
	regularWatering = wateringPlan{interval: "10-14", amount: "8-10"}
)

// monthlyTasks are emitted after the watering task of their month. Offsets
// are relative to the start of the month, 30*(m-1) days after planting.
var monthlyTasks = map[int][]taskTemplate{
	6: {
		{"First Summer Pruning", "Remove extra shoots, keeping only 2-3 strongest", models.PruneCategory, plantingAnchor, 15, 20},
	},
	7: {
		{"Summer Fertilization", "Apply NPK 10-10-10 (full dose) + micronutrients", models.FertilizeCategory, plantingAnchor, 10, 15},
	},
	8: {
		{"Pest Control", "Spray neem oil or organic insecticides", models.PestCategory, plantingAnchor, 5, 10},
	},
	11: {
		{"Winter Pruning", "Prune back vines to shape for next year", models.PruneCategory, plantingAnchor, 10, 15},
		{"Winter Fertilization", "Apply potassium-based fertilizer for winter hardiness", models.FertilizeCategory, plantingAnchor, 20, 25},
	},
}

// Year 2 and year 3 key events.
var milestoneTasks = []taskTemplate{
	{"Year 2 - Winter Pruning", "Remove weak and overcrowded branches", models.PruneCategory, secondYearAnchor, 15, 20},
	{"Year 2 - Spring Fertilization", "Apply NPK 15-15-15 + organic manure", models.FertilizeCategory, secondYearAnchor, 30, 35},
	{"Year 2 - Flowering Stage", "Monitor flower buds appearance", models.MonitorCategory, secondYearAnchor, 100, 120},
	{"Year 2 - Fruit Set", "Apply Calcium & Magnesium fertilizers", models.FertilizeCategory, secondYearAnchor, 150, 155},
	{"Year 2 - First Small Harvest", "Harvest small amount of " + varietyToken + " grapes", models.HarvestCategory, secondYearAnchor, 240, 260},
	{"Year 3 - Full Production Preparation", "Ensure trellis system can support full yield", models.StructureCategory, thirdYearAnchor, 30, 45},
	{"Year 3 - First Full Harvest", "Harvest mature " + varietyToken + " grapes (15-20 kg per vine)", models.HarvestCategory, thirdYearAnchor, 240, 260},
}
