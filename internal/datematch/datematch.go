package datematch

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/sandeepkv93/tasktrack/internal/model"
)

var (
	ErrDayOutOfRange   = errors.New("datematch: day out of range")
	ErrMonthOutOfRange = errors.New("datematch: month out of range")
	ErrImpossibleDate  = errors.New("datematch: date does not exist")
)

// Day first, then month, then a 2-4 digit year. Separators may be mixed.
var timelineDatePattern = regexp.MustCompile(`(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{2,4})`)

// IsTaskOnDate reports whether a task belongs on the calendar day of date.
// Timestamps are compared in date's location.
func IsTaskOnDate(task model.Task, date time.Time) bool {
	if SameDay(task.CreatedAt, date) || SameDay(task.UpdatedAt, date) {
		return true
	}
	if timelineHasDate(task.Metadata.Timeline, date) {
		return true
	}
	for _, st := range task.SubTasks {
		if timelineHasDate(st.Timeline, date) {
			return true
		}
	}
	return false
}

func TasksOnDate(tasks []model.Task, date time.Time) []model.Task {
	out := make([]model.Task, 0)
	for _, task := range tasks {
		if IsTaskOnDate(task, date) {
			out = append(out, task)
		}
	}
	return out
}

// SameDay compares year, month and day of a (moved into b's location) and b.
func SameDay(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	ay, am, ad := a.In(b.Location()).Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func timelineHasDate(text string, date time.Time) bool {
	if text == "" {
		return false
	}
	for _, d := range ParseTimelineDates(text, date.Location()) {
		if SameDay(d, date) {
			return true
		}
	}
	return false
}

// ParseTimelineDates extracts every valid day-month-year date embedded in
// free text. Matches that do not form a real calendar date are skipped.
func ParseTimelineDates(text string, loc *time.Location) []time.Time {
	matches := timelineDatePattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]time.Time, 0, len(matches))
	for _, m := range matches {
		d, err := ParseDayMonthYear(m[1], m[2], m[3], loc)
		if err != nil {
			continue
		}
		out = append(out, d)
	}
	return out
}

// ParseDayMonthYear builds a date at midnight in loc. Two-digit years are
// read as 20YY.
func ParseDayMonthYear(dayText, monthText, yearText string, loc *time.Location) (time.Time, error) {
	day, err := strconv.Atoi(dayText)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse day %q: %w", dayText, err)
	}
	month, err := strconv.Atoi(monthText)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse month %q: %w", monthText, err)
	}
	year, err := strconv.Atoi(yearText)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse year %q: %w", yearText, err)
	}
	if year < 100 {
		year += 2000
	}
	if day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("%w: %d", ErrDayOutOfRange, day)
	}
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("%w: %d", ErrMonthOutOfRange, month)
	}
	if loc == nil {
		loc = time.Local
	}
	out := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if out.Day() != day || out.Month() != time.Month(month) {
		return time.Time{}, fmt.Errorf("%w: %02d/%02d/%d", ErrImpossibleDate, day, month, year)
	}
	return out, nil
}
