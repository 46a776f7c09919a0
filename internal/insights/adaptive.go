package insights

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/codestreak-ml/internal/types"
)

// DefaultReminderHour is used for events whose date carries no readable hour
const DefaultReminderHour = 19

// DefaultWindow is returned for an empty log
var DefaultWindow = reminderWindow(DefaultReminderHour)

// ReminderWindow picks the hour of day with the best success rate and returns a
// two-hour window starting there, e.g. "19-21". The first hour seen wins ties.
func ReminderWindow(log types.ActivityLog) string {
	type bucket struct {
		hour      int
		successes float64
		attempts  int
	}

	var order []*bucket
	byHour := make(map[int]*bucket)
	for _, ev := range log {
		h := eventHour(ev.Date)
		b, ok := byHour[h]
		if !ok {
			b = &bucket{hour: h}
			byHour[h] = b
			order = append(order, b)
		}
		b.successes += ev.Success.Float()
		b.attempts++
	}
	if len(order) == 0 {
		return DefaultWindow
	}

	best := order[0]
	bestRate := best.successes / float64(best.attempts)
	for _, b := range order[1:] {
		if rate := b.successes / float64(b.attempts); rate > bestRate {
			best, bestRate = b, rate
		}
	}
	return reminderWindow(best.hour)
}

// eventHour reads the two characters following the first "T" of the date
func eventHour(date string) int {
	_, rest, ok := strings.Cut(date, "T")
	if !ok {
		return DefaultReminderHour
	}
	if i := strings.IndexByte(rest, 'T'); i >= 0 {
		rest = rest[:i]
	}
	if len(rest) > 2 {
		rest = rest[:2]
	}
	h, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil {
		return DefaultReminderHour
	}
	return h
}

func reminderWindow(hour int) string {
	return fmt.Sprintf("%d-%d", hour, ((hour+2)%24+24)%24)
}
