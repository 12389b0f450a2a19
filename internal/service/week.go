package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

// DefaultPlannerTimezone pins week boundaries so that a plan resolves to the
// same week start wherever the client runs.
const DefaultPlannerTimezone = "Europe/Berlin"

const weekLayout = "2006-01-02"

var dayNames = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

var dayAliases = map[string]int{
	"mon": 0, "mo": 0, "montag": 0,
	"tue": 1, "di": 1, "dienstag": 1,
	"wed": 2, "mi": 2, "mittwoch": 2,
	"thu": 3, "do": 3, "donnerstag": 3,
	"fri": 4, "fr": 4, "freitag": 4,
	"sat": 5, "sa": 5, "samstag": 5,
	"sun": 6, "so": 6, "sonntag": 6,
}

func LoadPlannerLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultPlannerTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load planner timezone %q: %w", name, err)
	}
	return loc, nil
}

// WeekStart returns the Monday of t's ISO week in loc as YYYY-MM-DD.
func WeekStart(t time.Time, loc *time.Location) string {
	t = t.In(loc)
	offset := (int(t.Weekday()) + 6) % 7
	return time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, loc).Format(weekLayout)
}

// ParseWeek resolves any YYYY-MM-DD date to its week start. An empty value
// means the week containing now.
func ParseWeek(value string, now time.Time, loc *time.Location) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return WeekStart(now, loc), nil
	}
	t, err := time.ParseInLocation(weekLayout, value, loc)
	if err != nil {
		return "", fmt.Errorf("invalid week %q (expected YYYY-MM-DD)", value)
	}
	return WeekStart(t, loc), nil
}

func validateWeekStart(week string) error {
	t, err := time.Parse(weekLayout, strings.TrimSpace(week))
	if err != nil {
		return fmt.Errorf("invalid week start %q (expected YYYY-MM-DD)", week)
	}
	if t.Weekday() != time.Monday {
		return fmt.Errorf("week start %q is not a Monday", week)
	}
	return nil
}

// ParseDay accepts English or German day names and their short forms, or an
// ISO weekday number 1 (Monday) to 7 (Sunday). It returns 0 for Monday.
func ParseDay(value string) (int, error) {
	v := normalizeName(value)
	if n, err := strconv.Atoi(v); err == nil {
		if n < 1 || n > 7 {
			return 0, fmt.Errorf("day number must be between 1 and 7")
		}
		return n - 1, nil
	}
	for i, name := range dayNames {
		if v == name {
			return i, nil
		}
	}
	if d, ok := dayAliases[v]; ok {
		return d, nil
	}
	return 0, fmt.Errorf("unknown day %q", value)
}

func DayName(day int) string {
	if day < 0 || day >= len(dayNames) {
		return strconv.Itoa(day)
	}
	return dayNames[day]
}
