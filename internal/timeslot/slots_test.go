package timeslot

import (
	"testing"
	"time"
)

func TestUniverse(t *testing.T) {
	slots := Universe()

	if len(slots) != 25 {
		t.Fatalf("expected 25 slots between 08:00 and 20:00, got %d", len(slots))
	}
	if slots[0] != Open {
		t.Fatalf("expected first slot %q, got %q", Open, slots[0])
	}
	if slots[len(slots)-1] != Close {
		t.Fatalf("expected last slot %q, got %q", Close, slots[len(slots)-1])
	}

	for i := 1; i < len(slots); i++ {
		if slots[i-1] >= slots[i] {
			t.Fatalf("expected lexical ordering, got %q before %q", slots[i-1], slots[i])
		}
	}
}

func TestIsValid(t *testing.T) {
	tests := map[string]struct {
		label string
		want  bool
	}{
		"opening slot":      {label: "08:00", want: true},
		"closing slot":      {label: "20:00", want: true},
		"half hour":         {label: "14:30", want: true},
		"before opening":    {label: "07:30", want: false},
		"after closing":     {label: "20:30", want: false},
		"off grid":          {label: "09:15", want: false},
		"not zero padded":   {label: "9:00", want: false},
		"garbage":           {label: "noon", want: false},
		"empty":             {label: "", want: false},
		"missing separator": {label: "09-00", want: false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := IsValid(tc.label); got != tc.want {
				t.Fatalf("IsValid(%q) = %v, want %v", tc.label, got, tc.want)
			}
		})
	}
}

func TestIsValidDate(t *testing.T) {
	if !IsValidDate("2025-05-14") {
		t.Fatalf("expected 2025-05-14 to be valid")
	}
	if IsValidDate("14/05/2025") {
		t.Fatalf("expected 14/05/2025 to be rejected")
	}
	if IsValidDate("") {
		t.Fatalf("expected empty date to be rejected")
	}
}

func TestFloor(t *testing.T) {
	tests := map[string]struct {
		at   time.Time
		want string
		ok   bool
	}{
		"mid slot":        {at: time.Date(2025, 5, 14, 10, 17, 0, 0, time.UTC), want: "10:00", ok: true},
		"second half":     {at: time.Date(2025, 5, 14, 10, 45, 0, 0, time.UTC), want: "10:30", ok: true},
		"before opening":  {at: time.Date(2025, 5, 14, 6, 0, 0, 0, time.UTC), ok: false},
		"just before":     {at: time.Date(2025, 5, 14, 7, 59, 0, 0, time.UTC), ok: false},
		"at closing":      {at: time.Date(2025, 5, 14, 20, 0, 0, 0, time.UTC), ok: false},
		"past closing":    {at: time.Date(2025, 5, 14, 22, 30, 0, 0, time.UTC), ok: false},
		"exactly on slot": {at: time.Date(2025, 5, 14, 9, 30, 0, 0, time.UTC), want: "09:30", ok: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, ok := Floor(tc.at)
			if ok != tc.ok {
				t.Fatalf("Floor(%v) ok = %v, want %v", tc.at, ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Fatalf("Floor(%v) = %q, want %q", tc.at, got, tc.want)
			}
		})
	}
}

func TestDurationEndLabel(t *testing.T) {
	morning := time.Date(2025, 5, 14, 9, 0, 0, 0, time.UTC)

	tests := map[string]struct {
		duration Duration
		now      time.Time
		want     string
	}{
		"half hour":        {duration: DurationHalfHour, now: morning, want: "09:30"},
		"one hour":         {duration: DurationOneHour, now: morning, want: "10:00"},
		"two hours":        {duration: DurationTwoHours, now: morning, want: "11:00"},
		"three hours":      {duration: DurationThreeHours, now: morning, want: "12:00"},
		"full day":         {duration: DurationFullDay, now: morning, want: FullDayEnd},
		"clamped to close": {duration: DurationThreeHours, now: time.Date(2025, 5, 14, 18, 30, 0, 0, time.UTC), want: Close},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := tc.duration.EndLabel(tc.now)
			if err != nil {
				t.Fatalf("expected success, got %v", err)
			}
			if got != tc.want {
				t.Fatalf("EndLabel = %q, want %q", got, tc.want)
			}
		})
	}

	t.Run("unknown bucket", func(t *testing.T) {
		if _, err := Duration("45m").EndLabel(morning); err == nil {
			t.Fatalf("expected error for unknown duration")
		}
	})
}

func TestCeil(t *testing.T) {
	tests := map[string]struct {
		label string
		want  string
		ok    bool
	}{
		"already aligned": {label: "09:30", want: "09:30", ok: true},
		"rounds up":       {label: "09:05", want: "09:30", ok: true},
		"before opening":  {label: "06:00", want: Open, ok: true},
		"past closing":    {label: "21:00", ok: false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, ok := Ceil(tc.label)
			if ok != tc.ok {
				t.Fatalf("Ceil(%q) ok = %v, want %v", tc.label, ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Fatalf("Ceil(%q) = %q, want %q", tc.label, got, tc.want)
			}
		})
	}
}
