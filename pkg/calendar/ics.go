package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/ignatij/vineyard/pkg/models"
)

const icsDateLayout = "20060102"

// BuildScheduleICS renders a schedule as an iCalendar document with one
// all-day event per task. DTEND is exclusive, so it is the day after the due date.
func BuildScheduleICS(farm models.Farm, s models.Schedule, now time.Time) string {
	name := strings.TrimSpace(farm.Name)
	if name == "" {
		name = "Vineyard"
	}

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Vineyard//Farm Schedule//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"X-WR-CALNAME:" + escapeICSText(name+" schedule"),
	}
	stamp := now.UTC().Format("20060102T150405Z")
	for _, t := range s.Tasks {
		lines = append(lines,
			"BEGIN:VEVENT",
			fmt.Sprintf("UID:%s-task-%s@vineyard", escapeICSText(s.ID), escapeICSText(t.ID)),
			"DTSTAMP:"+stamp,
			"SUMMARY:"+escapeICSText(t.Title),
			"DTSTART;VALUE=DATE:"+t.StartDate.In(time.UTC).Format(icsDateLayout),
			"DTEND;VALUE=DATE:"+t.DueDate.AddDays(1).In(time.UTC).Format(icsDateLayout),
			"CATEGORIES:"+strings.ToUpper(string(t.Category)),
		)
		if desc := strings.TrimSpace(t.Description); desc != "" {
			lines = append(lines, "DESCRIPTION:"+escapeICSText(desc))
		}
		if t.Status == models.CompletedTaskStatus {
			lines = append(lines, "STATUS:CONFIRMED")
		} else {
			lines = append(lines, "STATUS:TENTATIVE")
		}
		lines = append(lines, "END:VEVENT")
	}
	lines = append(lines, "END:VCALENDAR", "")

	return strings.Join(lines, "\r\n")
}

func escapeICSText(s string) string {
	repl := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\r\n", "\\n",
		"\n", "\\n",
		"\r", "\\n",
	)
	return repl.Replace(s)
}
