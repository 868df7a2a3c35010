package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/arthavgonda/timetable-gateway/internal/models"
)

// WeekDates maps the six working-day labels to "DD/MM" display strings,
// walking forward from the anchor date and skipping any calendar Sunday.
// Anchors come in either DD-MM-YYYY or YYYY-MM-DD form; a four-character first
// component marks the ISO order. An empty or structurally unusable anchor
// yields an empty map. Components that fail to parse default to zero and flow
// through time.Date normalisation, so garbage in produces best-effort output
// rather than a panic.
func WeekDates(anchor string) map[string]string {
	anchor = strings.TrimSpace(anchor)
	if anchor == "" {
		return map[string]string{}
	}
	parts := strings.Split(anchor, "-")
	if len(parts) != 3 {
		return map[string]string{}
	}

	var year, month, day int
	if len(parts[0]) == 4 {
		year = atoiLenient(parts[0])
		month = atoiLenient(parts[1])
		day = atoiLenient(parts[2])
	} else {
		day = atoiLenient(parts[0])
		month = atoiLenient(parts[1])
		year = atoiLenient(parts[2])
	}

	cursor := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	dates := make(map[string]string, len(models.Weekdays))
	for _, label := range models.Weekdays {
		for cursor.Weekday() == time.Sunday {
			cursor = cursor.AddDate(0, 0, 1)
		}
		dates[label] = fmt.Sprintf("%02d/%02d", cursor.Day(), int(cursor.Month()))
		cursor = cursor.AddDate(0, 0, 1)
	}
	return dates
}

func atoiLenient(raw string) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return value
}
