package parser

import (
	"fmt"
	"strconv"
	"time"

	"github.com/buzunser/otagen/internal/models"
)

// BuildTimestamp converts a YYYYMMDD date and an HHMM clock into UNIX seconds (UTC)
func BuildTimestamp(date, clock string) (int64, error) {
	if len(date) != 8 {
		return 0, models.NewError(models.ErrTimestamp, "",
			fmt.Errorf("date %q is not in YYYYMMDD form", date))
	}
	if len(clock) != 4 {
		return 0, models.NewError(models.ErrTimestamp, "",
			fmt.Errorf("time %q is not in HHMM form", clock))
	}

	fields := []struct {
		name  string
		value string
		min   int
		max   int
	}{
		{"year", date[:4], 1, 9999},
		{"month", date[4:6], 1, 12},
		{"day", date[6:], 1, 31},
		{"hour", clock[:2], 0, 23},
		{"minute", clock[2:], 0, 59},
	}

	values := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f.value)
		if err != nil {
			return 0, models.NewError(models.ErrTimestamp, "",
				fmt.Errorf("invalid %s %q: %w", f.name, f.value, err))
		}
		if n < f.min || n > f.max {
			return 0, models.NewError(models.ErrTimestamp, "",
				fmt.Errorf("%s %d out of range", f.name, n))
		}
		values[i] = n
	}

	t := time.Date(values[0], time.Month(values[1]), values[2], values[3], values[4], 0, 0, time.UTC)

	// time.Date normalizes Feb 30 into March
	if t.Day() != values[2] {
		return 0, models.NewError(models.ErrTimestamp, "",
			fmt.Errorf("day %d out of range for %04d-%02d", values[2], values[0], values[1]))
	}

	return t.Unix(), nil
}
