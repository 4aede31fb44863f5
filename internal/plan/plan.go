package plan

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// PlannedExercise is one prescribed movement in a session
type PlannedExercise struct {
	Name string `yaml:"name" json:"name"`
	Sets int    `yaml:"sets" json:"sets"`
	Reps string `yaml:"reps" json:"reps"`
}

// Day is one entry of the weekly split. A session of "Rest" (or an
// empty one) counts as a rest day.
type Day struct {
	Day       string            `yaml:"day" json:"day"`
	Session   string            `yaml:"session" json:"session"`
	Exercises []PlannedExercise `yaml:"exercises,omitempty" json:"exercises,omitempty"`
}

// Plan is the weekly training split loaded from YAML
type Plan struct {
	Name string `yaml:"name" json:"name"`
	Week []Day  `yaml:"week" json:"week"`
}

// Load reads and parses a training plan file
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read training plan: %w", err)
	}

	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse training plan: %w", err)
	}
	if len(p.Week) == 0 {
		return nil, fmt.Errorf("training plan has no days")
	}
	return &p, nil
}

// SessionsPerWeek counts the non-rest days, used as the adherence target
func (p *Plan) SessionsPerWeek() int {
	count := 0
	for _, d := range p.Week {
		if !d.IsRest() {
			count++
		}
	}
	return count
}

// ForWeekday returns the plan entry for the given weekday, or nil if
// the plan does not name that day.
func (p *Plan) ForWeekday(weekday time.Weekday) *Day {
	name := weekday.String()
	for i := range p.Week {
		if strings.EqualFold(p.Week[i].Day, name) {
			return &p.Week[i]
		}
	}
	return nil
}

// IsRest reports whether this day has no prescribed session
func (d *Day) IsRest() bool {
	return d.Session == "" || strings.EqualFold(d.Session, "rest")
}
