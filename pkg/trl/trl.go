// Package trl resolves technology readiness levels from an entity's
// TRL3/TRL6/TRL9 milestone dates.
package trl

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the only accepted milestone and query date format.
const DateLayout = "2006-01-02"

// NotPlanned is reported by DateFor callers when a level has no date.
const NotPlanned = "Not Planned"

var (
	ErrMissingQueryDate = errors.New("query date is required")
	ErrInvalidLevel     = errors.New("trl level must be one of TRL 3, TRL 6, TRL 9")
)

type Level int

const (
	NotStarted Level = iota
	TRL3
	TRL6
	TRL9
)

// Levels lists every state in progression order.
var Levels = []Level{NotStarted, TRL3, TRL6, TRL9}

// Milestone levels, highest first.
var milestoneLevels = []Level{TRL9, TRL6, TRL3}

func (l Level) String() string {
	switch l {
	case NotStarted:
		return "Not Started"
	case TRL3:
		return "TRL 3"
	case TRL6:
		return "TRL 6"
	case TRL9:
		return "TRL 9"
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		if strings.EqualFold(strings.TrimSpace(string(text)), NotStarted.String()) {
			*l = NotStarted
			return nil
		}
		return err
	}
	*l = parsed
	return nil
}

// ParseLevel accepts "TRL 6", "TRL6", "trl-6" or "6". Only milestone levels
// parse; NotStarted is not something a query can ask for.
func ParseLevel(s string) (Level, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	normalized = strings.TrimPrefix(normalized, "TRL")
	normalized = strings.TrimLeft(normalized, " -_")

	switch normalized {
	case "3":
		return TRL3, nil
	case "6":
		return TRL6, nil
	case "9":
		return TRL9, nil
	}
	return NotStarted, fmt.Errorf("%w: got %q", ErrInvalidLevel, s)
}

// Milestones holds the raw stored date strings. Nil or empty means absent.
type Milestones struct {
	TRL3 *string
	TRL6 *string
	TRL9 *string
}

func (m Milestones) raw(level Level) (string, bool) {
	var value *string
	switch level {
	case TRL3:
		value = m.TRL3
	case TRL6:
		value = m.TRL6
	case TRL9:
		value = m.TRL9
	}
	if value == nil || strings.TrimSpace(*value) == "" {
		return "", false
	}
	return strings.TrimSpace(*value), true
}

// MilestoneError reports milestone strings that could not be parsed. The
// level computed alongside it ignored those milestones.
type MilestoneError struct {
	Invalid map[Level]string
}

func (e *MilestoneError) Error() string {
	parts := make([]string, 0, len(e.Invalid))
	for _, level := range []Level{TRL3, TRL6, TRL9} {
		if value, ok := e.Invalid[level]; ok {
			parts = append(parts, fmt.Sprintf("%s date %q is not YYYY-MM-DD", level, value))
		}
	}
	return "malformed milestone: " + strings.Join(parts, ", ")
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// AchievedAt returns the highest level whose milestone date is on or before
// at. Malformed milestones count as absent and are reported as a
// *MilestoneError next to the level.
func AchievedAt(m Milestones, at time.Time) (Level, error) {
	if at.IsZero() {
		return NotStarted, ErrMissingQueryDate
	}
	at = truncateDay(at)

	var invalid map[Level]string
	result := NotStarted
	for _, level := range milestoneLevels {
		raw, ok := m.raw(level)
		if !ok {
			continue
		}
		date, err := ParseDate(raw)
		if err != nil {
			if invalid == nil {
				invalid = map[Level]string{}
			}
			invalid[level] = raw
			continue
		}
		if result == NotStarted && !at.Before(date) {
			result = level
		}
	}

	if invalid != nil {
		return result, &MilestoneError{Invalid: invalid}
	}
	return result, nil
}

// DateFor returns the stored date for level. false means the level is not
// planned.
func DateFor(m Milestones, level Level) (string, bool, error) {
	if level != TRL3 && level != TRL6 && level != TRL9 {
		return "", false, ErrInvalidLevel
	}
	raw, ok := m.raw(level)
	return raw, ok, nil
}

// Dated is a milestone that parsed.
type Dated struct {
	Level Level
	Date  time.Time
}

// Valid returns the parseable milestones in level order, skipping the rest.
func Valid(m Milestones) []Dated {
	var out []Dated
	for _, level := range []Level{TRL3, TRL6, TRL9} {
		raw, ok := m.raw(level)
		if !ok {
			continue
		}
		date, err := ParseDate(raw)
		if err != nil {
			continue
		}
		out = append(out, Dated{Level: level, Date: date})
	}
	return out
}

// CheckOrder warns about milestones that go backwards in time, e.g. a TRL 6
// date before the TRL 3 date.
func CheckOrder(m Milestones) []string {
	dated := Valid(m)
	var warnings []string
	for i := 0; i < len(dated); i++ {
		for j := i + 1; j < len(dated); j++ {
			if dated[j].Date.Before(dated[i].Date) {
				warnings = append(warnings, fmt.Sprintf("%s date %s is before %s date %s",
					dated[j].Level, dated[j].Date.Format(DateLayout), dated[i].Level, dated[i].Date.Format(DateLayout)))
			}
		}
	}
	return warnings
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
