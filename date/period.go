package date

import (
	"fmt"
	"strings"
)

// Preset is a well known report period, relative to today.
type Preset int

const (
	// CompleteHistory covers every transaction, with no bounds.
	CompleteHistory Preset = iota
	// ThisMonth runs from the first day of the current month to today.
	ThisMonth
	// Last30Days runs from 30 days ago to today.
	Last30Days
)

func (p Preset) String() string {
	switch p {
	case CompleteHistory:
		return "all"
	case ThisMonth:
		return "month"
	case Last30Days:
		return "30d"
	default:
		panic(fmt.Sprintf("unknown preset %d", p))
	}
}

// ParsePreset parses a preset name.
func ParsePreset(p string) (Preset, error) {
	switch strings.ToLower(p) {
	case "all", "complete", "history":
		return CompleteHistory, nil
	case "month", "this-month":
		return ThisMonth, nil
	case "30d", "30", "last-30-days":
		return Last30Days, nil
	default:
		return CompleteHistory, fmt.Errorf("unknown period %q, want one of all, month, 30d", p)
	}
}

// Range returns the preset's range as of today.
func (p Preset) Range(today Date) Range {
	switch p {
	case ThisMonth:
		return Range{From: today.FirstOfMonth(), To: today}
	case Last30Days:
		return Range{From: today.Add(-30), To: today}
	default:
		return Range{}
	}
}

// CustomStart returns the default start of a custom range: the first day of
// the current month, but never before floor.
func CustomStart(floor, today Date) Date {
	start := today.FirstOfMonth()
	if floor.After(start) {
		return floor
	}
	return start
}
