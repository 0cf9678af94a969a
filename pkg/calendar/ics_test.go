package calendar_test

import (
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/ignatij/vineyard/pkg/calendar"
	"github.com/ignatij/vineyard/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestBuildScheduleICS(t *testing.T) {
	farm := models.Farm{ID: "f1", Name: "North Block"}
	sched := models.Schedule{
		ID: "s1",
		Tasks: []models.Task{
			{
				ID:          "1",
				Title:       "Soil Testing",
				Description: "Conduct soil pH test, check nutrient levels",
				Category:    models.PreparationCategory,
				StartDate:   civil.Date{Year: 2024, Month: 2, Day: 16},
				DueDate:     civil.Date{Year: 2024, Month: 2, Day: 20},
				Status:      models.PendingTaskStatus,
			},
			{
				ID:        "2",
				Title:     "Planting Day",
				Category:  models.PlantingCategory,
				StartDate: civil.Date{Year: 2024, Month: 3, Day: 1},
				DueDate:   civil.Date{Year: 2024, Month: 3, Day: 1},
				Status:    models.CompletedTaskStatus,
			},
		},
	}
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	out := calendar.BuildScheduleICS(farm, sched, now)

	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR\r\n"))
	assert.True(t, strings.HasSuffix(out, "END:VCALENDAR\r\n"))
	assert.Equal(t, 2, strings.Count(out, "BEGIN:VEVENT"))
	assert.Contains(t, out, "X-WR-CALNAME:North Block schedule")
	assert.Contains(t, out, "UID:s1-task-1@vineyard")
	assert.Contains(t, out, "DTSTAMP:20240102T030405Z")
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20240216\r\nDTEND;VALUE=DATE:20240221")
	assert.Contains(t, out, "DESCRIPTION:Conduct soil pH test\\, check nutrient levels")
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20240301\r\nDTEND;VALUE=DATE:20240302")
	assert.Contains(t, out, "CATEGORIES:PLANTING\r\nSTATUS:CONFIRMED")
	assert.Contains(t, out, "STATUS:TENTATIVE")
}
