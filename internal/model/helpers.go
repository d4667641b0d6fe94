package model

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"
)

// Palette is the set of default category colors offered when none is chosen.
var Palette = []string{
	"#4299E1",
	"#48BB78",
	"#ED8936",
	"#9F7AEA",
	"#F56565",
	"#38B2AC",
	"#ED64A6",
	"#ECC94B",
}

// PickColor cycles through Palette; negative n wraps from the end.
func PickColor(n int) string {
	size := len(Palette)
	return Palette[(n%size+size)%size]
}

const bulletMarkers = "•-*+>◦‣⁃⦿⦾⁌⁍⧫⬧⬢⬣⭗⭘⬤○◎◉◌◍◆◇◈◘◙◚◛◜◝◞◟◠◡◢◣◤◥◧◨◩◪◫◬◭◮◯◰◱◲◳◴◵◶◷◸◹◺◻◼◽◾◿"

// ParseBulletPoints splits free text into bullet lines, dropping blank lines
// and any leading bullet glyphs.
func ParseBulletPoints(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	out := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		stripped := strings.TrimLeft(line, bulletMarkers)
		if stripped != line {
			line = strings.TrimLeftFunc(stripped, unicode.IsSpace)
		}
		out = append(out, line)
	}
	return out
}

// DaysLeft counts whole calendar days from today until due, in today's location.
func DaysLeft(due, today time.Time) int {
	loc := today.Location()
	y, m, d := today.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	dy, dm, dd := due.In(loc).Date()
	end := time.Date(dy, dm, dd, 0, 0, 0, 0, loc)
	return int(math.Round(end.Sub(start).Hours() / 24))
}

func FormatDaysLeft(days int) string {
	switch {
	case days < 0:
		return "Overdue"
	case days == 0:
		return "Due today"
	case days == 1:
		return "Due tomorrow"
	default:
		return fmt.Sprintf("%d days left", days)
	}
}

// ParseDueDate accepts the date layouts the step editor produces.
func ParseDueDate(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006/01/02"} {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
