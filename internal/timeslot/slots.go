// Package timeslot defines the half-hour booking grid shared by the
// reservation scheduler and the quick-book flow. Slots are "HH:MM" labels
// between Open and Close; because they are zero padded and same-day, lexical
// comparison orders them correctly.
package timeslot

import (
	"fmt"
	"time"
)

const (
	// Open is the first bookable slot of the day.
	Open = "08:00"
	// Close is the last slot of the day; reservations end at or before it.
	Close = "20:00"
	// FullDayEnd is the end label applied by the full-day quick-book bucket.
	FullDayEnd = "17:00"

	// DateLayout is the calendar-day format used by reservations.
	DateLayout = "2006-01-02"

	slotLayout = "15:04"
)

// Universe returns every slot label from Open to Close inclusive.
func Universe() []string {
	slots := make([]string, 0, 25)
	for h := 8; h <= 20; h++ {
		slots = append(slots, fmt.Sprintf("%02d:00", h))
		if h < 20 {
			slots = append(slots, fmt.Sprintf("%02d:30", h))
		}
	}
	return slots
}

// IsValid reports whether label is a member of the slot universe.
func IsValid(label string) bool {
	if len(label) != 5 || label[2] != ':' {
		return false
	}
	t, err := time.Parse(slotLayout, label)
	if err != nil {
		return false
	}
	if label < Open || label > Close {
		return false
	}
	m := t.Minute()
	return m == 0 || m == 30
}

// IsValidDate reports whether value is a well-formed calendar day.
func IsValidDate(value string) bool {
	_, err := time.Parse(DateLayout, value)
	return err == nil
}

// Floor returns the slot at or immediately before t. The boolean is false
// when t falls outside the operating window; there is no slot before Open.
func Floor(t time.Time) (string, bool) {
	if t.Format(slotLayout) < Open {
		return "", false
	}
	label := fmt.Sprintf("%02d:%02d", t.Hour(), (t.Minute()/30)*30)
	if label >= Close {
		return "", false
	}
	return label, true
}

// Duration identifies a quick-book duration bucket.
type Duration string

const (
	DurationHalfHour   Duration = "30m"
	DurationOneHour    Duration = "1h"
	DurationTwoHours   Duration = "2h"
	DurationThreeHours Duration = "3h"
	DurationFullDay    Duration = "day"
)

// IsValid reports whether d names a known duration bucket.
func (d Duration) IsValid() bool {
	switch d {
	case DurationHalfHour, DurationOneHour, DurationTwoHours, DurationThreeHours, DurationFullDay:
		return true
	}
	return false
}

// EndLabel computes the occupancy end label for a booking made at now.
// The full-day bucket always maps to FullDayEnd; other buckets add their
// span to now and clamp the result to Close.
func (d Duration) EndLabel(now time.Time) (string, error) {
	if !d.IsValid() {
		return "", fmt.Errorf("timeslot: unknown duration %q", string(d))
	}
	if d == DurationFullDay {
		return FullDayEnd, nil
	}

	var span time.Duration
	switch d {
	case DurationHalfHour:
		span = 30 * time.Minute
	case DurationOneHour:
		span = time.Hour
	case DurationTwoHours:
		span = 2 * time.Hour
	case DurationThreeHours:
		span = 3 * time.Hour
	}

	end := now.Add(span)
	label := end.Format(slotLayout)
	if label > Close || end.Day() != now.Day() {
		label = Close
	}
	return label, nil
}

// Ceil returns the slot at or immediately after the given "HH:MM" label,
// clamped to Close. Labels past Close report false.
func Ceil(label string) (string, bool) {
	if label > Close {
		return "", false
	}
	if label <= Open {
		return Open, true
	}
	t, err := time.Parse(slotLayout, label)
	if err != nil {
		return "", false
	}
	if m := t.Minute(); m%30 != 0 {
		t = t.Add(time.Duration(30-m%30) * time.Minute)
	}
	out := t.Format(slotLayout)
	if out > Close {
		out = Close
	}
	return out, true
}
