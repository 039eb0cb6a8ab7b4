package moderation

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"mod-helper/model"
)

// durationPattern matches <integer><unit> tokens. "mo" must come before "m"
// so "1mo" is not read as one minute plus a stray 'o'.
var durationPattern = regexp.MustCompile(`(\d+)(mo|y|w|d|h|m|s)`)

var unitSeconds = map[string]int64{
	"mo": 30 * 86400,
	"y":  365 * 86400,
	"w":  7 * 86400,
	"d":  86400,
	"h":  3600,
	"m":  60,
	"s":  1,
}

// ParseDuration converts a free-text duration such as "3mo 1d 2h 4m 5s" into
// a sanction window starting now. Characters between tokens are skipped, not
// rejected. An empty string, or one with no recognizable tokens, yields the
// permanent marker; this function never fails.
func ParseDuration(durationString string) model.SanctionWindow {
	now := time.Now()

	var total int64
	for _, match := range durationPattern.FindAllStringSubmatch(durationString, -1) {
		value, err := strconv.ParseInt(match[1], 10, 64)
		if err != nil {
			continue
		}
		total += value * unitSeconds[match[2]]
	}

	if total == 0 {
		return model.SanctionWindow{DurationSeconds: 0, StartTime: now, EndTime: nil}
	}

	end := now.Add(time.Duration(total) * time.Second)
	return model.SanctionWindow{DurationSeconds: total, StartTime: now, EndTime: &end}
}

// FormatDuration renders a second count using its largest whole unit.
func FormatDuration(seconds int64) string {
	plural := func(n int64, unit string) string {
		if n == 1 {
			return fmt.Sprintf("%d %s", n, unit)
		}
		return fmt.Sprintf("%d %ss", n, unit)
	}

	switch {
	case seconds >= 86400:
		return plural(seconds/86400, "day")
	case seconds >= 3600:
		return plural(seconds/3600, "hour")
	case seconds >= 60:
		return plural(seconds/60, "minute")
	default:
		return plural(seconds, "second")
	}
}
