package planner

import (
	"fmt"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/ignatij/vineyard/pkg/models"
	"github.com/pkg/errors"
)

// ScheduleYears is the span of a generated timeline.
const ScheduleYears = 3

// GenerateTimeline builds the farming timeline of a vineyard planted with
// variety on plantingDate. Task ids are "1".."N" in emission order and
// every task starts out pending.
func GenerateTimeline(variety string, plantingDate civil.Date) ([]models.Task, error) {
	if !plantingDate.IsValid() {
		return nil, errors.Wrapf(ErrInvalidDate, "%s", plantingDate)
	}

	b := &timelineBuilder{
		variety: variety,
		anchors: map[anchor]civil.Date{
			plantingAnchor:   plantingDate,
			secondYearAnchor: AddYears(plantingDate, 1),
			thirdYearAnchor:  AddYears(plantingDate, 2),
		},
	}

	for _, tpl := range establishmentTasks {
		b.emit(tpl, 0)
	}
	for month := firstGrowthMonth; month <= lastGrowthMonth; month++ {
		base := daysPerMonth * (month - 1)
		b.emit(monthlyWatering(month), base)
		for _, tpl := range monthlyTasks[month] {
			b.emit(tpl, base)
		}
	}
	for _, tpl := range milestoneTasks {
		b.emit(tpl, 0)
	}
	return b.tasks, nil
}

// GenerateTimelineFromString is GenerateTimeline for an ISO YYYY-MM-DD date.
func GenerateTimelineFromString(variety, plantingDate string) ([]models.Task, error) {
	d, err := ParseDate(plantingDate)
	if err != nil {
		return nil, err
	}
	return GenerateTimeline(variety, d)
}

// EndDate is the last day covered by a schedule planted on plantingDate.
func EndDate(plantingDate civil.Date) civil.Date {
	return AddYears(plantingDate, ScheduleYears)
}

func monthlyWatering(month int) taskTemplate {
	plan := regularWatering
	if month >= firstSummerMonth && month <= lastSummerMonth {
		plan = summerWatering
	}
	return taskTemplate{
		title:       fmt.Sprintf("Month %d Watering", month),
		description: fmt.Sprintf("Water every %s days (%s liters per vine)", plan.interval, plan.amount),
		category:    models.WaterCategory,
		anchor:      plantingAnchor,
		start:       0,
		due:         daysPerMonth,
	}
}

type timelineBuilder struct {
	variety string
	anchors map[anchor]civil.Date
	tasks   []models.Task
}

// emit appends tpl shifted by base days from its anchor.
func (b *timelineBuilder) emit(tpl taskTemplate, base int) {
	from := b.anchors[tpl.anchor]
	b.tasks = append(b.tasks, models.Task{
		ID:          strconv.Itoa(len(b.tasks) + 1),
		Title:       tpl.title,
		Description: strings.ReplaceAll(tpl.description, varietyToken, b.variety),
		Category:    tpl.category,
		StartDate:   from.AddDays(base + tpl.start),
		DueDate:     from.AddDays(base + tpl.due),
		Status:      models.PendingTaskStatus,
	})
}
