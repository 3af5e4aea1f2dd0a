// Package scheduler implements conflict detection for room reservations.
package scheduler

// Booking is the minimal reservation shape needed for conflict checks.
type Booking struct {
	ID     string
	RoomID string
	Date   string
	Start  string
	End    string
}

// Conflict identifies an existing booking that overlaps a candidate.
type Conflict struct {
	WithReservationID string
	RoomID            string
	Date              string
	Start             string
	End               string
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Slot labels are zero-padded "HH:MM" strings on
// the same day, so lexical comparison is ordering-correct. Unlike the
// asymmetric test this replaces, full containment is detected.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && aEnd > bStart
}

// DetectConflicts returns every existing booking that shares the candidate's
// room and date and overlaps its interval. A booking never conflicts with
// itself, so updates can pass the stored set unchanged.
func DetectConflicts(existing []Booking, candidate Booking) []Conflict {
	var conflicts []Conflict
	for _, booking := range existing {
		if booking.ID == candidate.ID {
			continue
		}
		if booking.RoomID != candidate.RoomID || booking.Date != candidate.Date {
			continue
		}
		if !Overlaps(candidate.Start, candidate.End, booking.Start, booking.End) {
			continue
		}
		conflicts = append(conflicts, Conflict{
			WithReservationID: booking.ID,
			RoomID:            booking.RoomID,
			Date:              booking.Date,
			Start:             booking.Start,
			End:               booking.End,
		})
	}
	return conflicts
}
