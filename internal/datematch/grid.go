package datematch

import (
	"time"

	"github.com/sandeepkv93/tasktrack/internal/model"
)

// MonthGrid returns the days shown for anchor's month: whole Sunday-first
// weeks, padded with trailing days of the previous month and leading days of
// the next one.
func MonthGrid(anchor time.Time) []time.Time {
	loc := anchor.Location()
	year, month, _ := anchor.Date()
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1)

	days := make([]time.Time, 0, 42)
	for i := int(first.Weekday()); i > 0; i-- {
		days = append(days, first.AddDate(0, 0, -i))
	}
	for d := 1; d <= last.Day(); d++ {
		days = append(days, time.Date(year, month, d, 0, 0, 0, 0, loc))
	}
	for i := 1; i < 7-int(last.Weekday()); i++ {
		days = append(days, last.AddDate(0, 0, i))
	}
	return days
}

// DaysWithTasks marks, index for index, the days that have at least one task.
func DaysWithTasks(tasks []model.Task, days []time.Time) []bool {
	out := make([]bool, len(days))
	for i, day := range days {
		for _, task := range tasks {
			if IsTaskOnDate(task, day) {
				out[i] = true
				break
			}
		}
	}
	return out
}

func InMonth(day, anchor time.Time) bool {
	return day.Year() == anchor.Year() && day.Month() == anchor.Month()
}

// ShiftMonth moves anchor by delta months, clamping the day to the target
// month's length instead of overflowing into the following month.
func ShiftMonth(anchor time.Time, delta int) time.Time {
	year, month, day := anchor.Date()
	first := time.Date(year, month, 1, 0, 0, 0, 0, anchor.Location()).AddDate(0, delta, 0)
	lastDay := first.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return first.AddDate(0, 0, day-1)
}
