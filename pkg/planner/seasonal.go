package planner

import (
	_ "embed"

	"cloud.google.com/go/civil"
	"github.com/ignatij/vineyard/pkg/models"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed seasonal.yaml
var seasonalYAML []byte

var seasons = mustLoadCalendar(seasonalYAML)

// SeasonalActivities returns the advisory text for the given day of the year.
func SeasonalActivities(date civil.Date) models.SeasonalActivity {
	return seasons.lookup(int(date.Month), date.Day)
}

type calendar struct {
	Fallback models.SeasonalActivity `yaml:"fallback"`
	Months   map[int]seasonalEntry   `yaml:"months"`
}

type seasonalEntry struct {
	Phase            string         `yaml:"phase"`
	Current          []seasonalLine `yaml:"current"`
	Upcoming         []string       `yaml:"upcoming"`
	UpcomingLateFrom int            `yaml:"upcoming_late_from"`
	LateUpcoming     []string       `yaml:"late_upcoming"`
}

// seasonalLine is either a fixed text or a text that changes mid-month.
type seasonalLine struct {
	Early    string `yaml:"early"`
	Late     string `yaml:"late"`
	LateFrom int    `yaml:"late_from"`
}

func (l *seasonalLine) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		l.Early = value.Value
		return nil
	}
	type plain seasonalLine
	return value.Decode((*plain)(l))
}

func (l seasonalLine) text(day int) string {
	if l.LateFrom > 0 && day >= l.LateFrom {
		return l.Late
	}
	return l.Early
}

func (c calendar) lookup(month, day int) models.SeasonalActivity {
	entry, ok := c.Months[month]
	if !ok {
		return models.SeasonalActivity{
			Phase:    c.Fallback.Phase,
			Current:  append([]string(nil), c.Fallback.Current...),
			Upcoming: append([]string(nil), c.Fallback.Upcoming...),
		}
	}

	current := make([]string, 0, len(entry.Current))
	for _, line := range entry.Current {
		current = append(current, line.text(day))
	}
	upcoming := entry.Upcoming
	if entry.UpcomingLateFrom > 0 && day >= entry.UpcomingLateFrom {
		upcoming = entry.LateUpcoming
	}
	return models.SeasonalActivity{
		Phase:    entry.Phase,
		Current:  current,
		Upcoming: append([]string(nil), upcoming...),
	}
}

func loadCalendar(data []byte) (calendar, error) {
	var c calendar
	if err := yaml.Unmarshal(data, &c); err != nil {
		return calendar{}, errors.Wrap(err, "parse seasonal calendar")
	}
	if c.Fallback.Phase == "" {
		return calendar{}, errors.New("seasonal calendar has no fallback phase")
	}
	for month, entry := range c.Months {
		if month < 1 || month > 12 {
			return calendar{}, errors.Errorf("seasonal calendar: month %d out of range", month)
		}
		if entry.UpcomingLateFrom > 0 && len(entry.LateUpcoming) == 0 {
			return calendar{}, errors.Errorf("seasonal calendar: month %d switches to an empty upcoming list", month)
		}
	}
	return c, nil
}

func mustLoadCalendar(data []byte) calendar {
	c, err := loadCalendar(data)
	if err != nil {
		panic(err)
	}
	return c
}
