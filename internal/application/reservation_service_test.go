package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/roomradar/internal/persistence"
	"github.com/example/roomradar/internal/timeslot"
)

type reservationRepoStub struct {
	createErr error
	created   Reservation

	getReservation Reservation
	getErr         error

	list       []Reservation
	listErr    error
	lastFilter ReservationFilter

	deleteErr error
	deletedID string
}

func (r *reservationRepoStub) CreateReservation(ctx context.Context, reservation Reservation) (Reservation, error) {
	if r.createErr != nil {
		return Reservation{}, r.createErr
	}
	r.created = reservation
	return reservation, nil
}

func (r *reservationRepoStub) GetReservation(ctx context.Context, id string) (Reservation, error) {
	if r.getErr != nil {
		return Reservation{}, r.getErr
	}
	if r.getReservation.ID == "" {
		return Reservation{}, ErrNotFound
	}
	return r.getReservation, nil
}

func (r *reservationRepoStub) ListReservations(ctx context.Context, filter ReservationFilter) ([]Reservation, error) {
	r.lastFilter = filter
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]Reservation, 0, len(r.list))
	for _, reservation := range r.list {
		if filter.RoomID != "" && reservation.RoomID != filter.RoomID {
			continue
		}
		if filter.Date != "" && reservation.Date != filter.Date {
			continue
		}
		out = append(out, reservation)
	}
	return out, nil
}

func (r *reservationRepoStub) DeleteReservation(ctx context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.deletedID = id
	return nil
}

func bookParams() BookRoomParams {
	return BookRoomParams{
		Principal: Principal{UserID: "user-1"},
		RoomID:    "room-1",
		TeamID:    "team-1",
		Date:      "2025-05-14",
		StartTime: "09:00",
		EndTime:   "10:00",
	}
}

func TestReservationService_BookRoom(t *testing.T) {
	room := Room{ID: "room-1", Name: "Salle Harmonie", Capacity: 8}
	team := Team{ID: "team-1", Name: "Marketing"}

	t.Run("validates date and slot labels", func(t *testing.T) {
		svc := NewReservationService(&reservationRepoStub{}, nil, nil, nil, nil)

		params := bookParams()
		params.Date = "14/05/2025"
		params.StartTime = "09:15"
		params.EndTime = "21:00"

		_, err := svc.BookRoom(context.Background(), params)

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		for _, field := range []string{"date", "start_time", "end_time"} {
			if _, ok := vErr.FieldErrors[field]; !ok {
				t.Fatalf("expected %s validation error, got %v", field, vErr.FieldErrors)
			}
		}
	})

	t.Run("requires room and team identifiers", func(t *testing.T) {
		svc := NewReservationService(&reservationRepoStub{}, &roomRepoStub{getRoom: room}, &teamRepoStub{getTeam: team}, nil, nil)

		params := bookParams()
		params.RoomID = "  "
		params.TeamID = ""

		_, err := svc.BookRoom(context.Background(), params)

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		for _, field := range []string{"room_id", "team_id"} {
			if _, ok := vErr.FieldErrors[field]; !ok {
				t.Fatalf("expected %s validation error, got %v", field, vErr.FieldErrors)
			}
		}
	})

	t.Run("rejects inverted and empty intervals", func(t *testing.T) {
		svc := NewReservationService(&reservationRepoStub{}, nil, nil, nil, nil)

		for name, tc := range map[string]struct{ start, end string }{
			"inverted": {start: "10:00", end: "09:00"},
			"empty":    {start: "10:00", end: "10:00"},
		} {
			t.Run(name, func(t *testing.T) {
				params := bookParams()
				params.StartTime = tc.start
				params.EndTime = tc.end

				_, err := svc.BookRoom(context.Background(), params)

				var vErr *ValidationError
				if !errors.As(err, &vErr) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				if _, ok := vErr.FieldErrors["end_time"]; !ok {
					t.Fatalf("expected end_time validation error, got %v", vErr.FieldErrors)
				}
			})
		}
	})

	t.Run("requires an existing room", func(t *testing.T) {
		rooms := &roomRepoStub{getErr: persistence.ErrNotFound}
		teams := &teamRepoStub{getTeam: team}
		svc := NewReservationService(&reservationRepoStub{}, rooms, teams, nil, nil)

		_, err := svc.BookRoom(context.Background(), bookParams())
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("requires an existing team", func(t *testing.T) {
		rooms := &roomRepoStub{getRoom: room}
		teams := &teamRepoStub{getErr: persistence.ErrNotFound}
		svc := NewReservationService(&reservationRepoStub{}, rooms, teams, nil, nil)

		_, err := svc.BookRoom(context.Background(), bookParams())
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("rejects overlapping reservations with ErrConflict", func(t *testing.T) {
		existing := Reservation{ID: "res-1", RoomID: "room-1", TeamID: "team-2", Date: "2025-05-14", StartTime: "09:30", EndTime: "11:00"}

		overlaps := map[string]struct{ start, end string }{
			"left overlap":     {start: "09:00", end: "10:00"},
			"right overlap":    {start: "10:30", end: "11:30"},
			"contained":        {start: "10:00", end: "10:30"},
			"fully containing": {start: "09:00", end: "12:00"},
			"identical":        {start: "09:30", end: "11:00"},
		}

		for name, tc := range overlaps {
			t.Run(name, func(t *testing.T) {
				repo := &reservationRepoStub{list: []Reservation{existing}}
				rooms := &roomRepoStub{getRoom: room}
				teams := &teamRepoStub{getTeam: team}
				svc := NewReservationService(repo, rooms, teams, nil, nil)

				params := bookParams()
				params.StartTime = tc.start
				params.EndTime = tc.end

				_, err := svc.BookRoom(context.Background(), params)
				if !errors.Is(err, ErrConflict) {
					t.Fatalf("expected ErrConflict, got %v", err)
				}
				if repo.created.ID != "" {
					t.Fatalf("expected no reservation to be written, got %+v", repo.created)
				}
			})
		}
	})

	t.Run("allows adjacent intervals and other rooms or days", func(t *testing.T) {
		existing := Reservation{ID: "res-1", RoomID: "room-1", TeamID: "team-2", Date: "2025-05-14", StartTime: "09:30", EndTime: "11:00"}

		free := map[string]BookRoomParams{
			"ends at existing start": func() BookRoomParams { p := bookParams(); p.StartTime, p.EndTime = "08:30", "09:30"; return p }(),
			"starts at existing end": func() BookRoomParams { p := bookParams(); p.StartTime, p.EndTime = "11:00", "12:00"; return p }(),
			"same slots different day": func() BookRoomParams {
				p := bookParams()
				p.Date = "2025-05-15"
				p.StartTime, p.EndTime = "09:30", "11:00"
				return p
			}(),
		}

		for name, params := range free {
			t.Run(name, func(t *testing.T) {
				repo := &reservationRepoStub{list: []Reservation{existing}}
				rooms := &roomRepoStub{getRoom: room}
				teams := &teamRepoStub{getTeam: team}
				now := time.Date(2025, time.May, 14, 8, 0, 0, 0, time.UTC)
				svc := NewReservationService(repo, rooms, teams, func() string { return "res-2" }, func() time.Time { return now })

				created, err := svc.BookRoom(context.Background(), params)
				if err != nil {
					t.Fatalf("expected success, got %v", err)
				}
				if created.ID != "res-2" {
					t.Fatalf("expected generated ID, got %q", created.ID)
				}
				if !repo.created.CreatedAt.Equal(now) {
					t.Fatalf("expected injected clock, got %v", repo.created.CreatedAt)
				}
			})
		}
	})
}

func TestReservationService_QuickBook(t *testing.T) {
	room := Room{ID: "room-1", Name: "Salle Harmonie", Capacity: 8}
	team := Team{ID: "team-1", Name: "Marketing"}

	quickParams := func() QuickBookParams {
		return QuickBookParams{
			Principal: Principal{UserID: "user-1"},
			RoomID:    "room-1",
			TeamID:    "team-1",
			Duration:  timeslot.DurationOneHour,
		}
	}

	t.Run("rejects unknown duration buckets", func(t *testing.T) {
		svc := NewReservationService(&reservationRepoStub{}, &roomRepoStub{getRoom: room}, nil, nil, nil)

		params := quickParams()
		params.Duration = "45m"

		_, err := svc.QuickBook(context.Background(), params)

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := vErr.FieldErrors["duration"]; !ok {
			t.Fatalf("expected duration validation error, got %v", vErr.FieldErrors)
		}
	})

	t.Run("rejects bookings after closing time", func(t *testing.T) {
		now := time.Date(2025, time.May, 14, 20, 15, 0, 0, time.UTC)
		svc := NewReservationService(&reservationRepoStub{}, &roomRepoStub{getRoom: room}, nil, nil, func() time.Time { return now })

		_, err := svc.QuickBook(context.Background(), quickParams())

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("rejects bookings before opening time", func(t *testing.T) {
		now := time.Date(2025, time.May, 14, 7, 0, 0, 0, time.UTC)
		repo := &reservationRepoStub{}
		rooms := &roomRepoStub{getRoom: room}
		svc := NewReservationService(repo, rooms, nil, nil, func() time.Time { return now })

		params := quickParams()
		params.Duration = timeslot.DurationHalfHour

		_, err := svc.QuickBook(context.Background(), params)

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if repo.created.ID != "" {
			t.Fatalf("expected no reservation to be written, got %+v", repo.created)
		}
		if rooms.updated.Occupied {
			t.Fatalf("expected no occupancy update, got %+v", rooms.updated)
		}
	})

	t.Run("clamps bookings that run past closing time", func(t *testing.T) {
		now := time.Date(2025, time.May, 14, 19, 45, 0, 0, time.UTC)
		repo := &reservationRepoStub{}
		rooms := &roomRepoStub{getRoom: room}
		teams := &teamRepoStub{getTeam: team}
		svc := NewReservationService(repo, rooms, teams, func() string { return "res-1" }, func() time.Time { return now })

		params := quickParams()
		params.Duration = timeslot.DurationHalfHour

		created, err := svc.QuickBook(context.Background(), params)
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if created.StartTime != "19:30" || created.EndTime != "20:00" {
			t.Fatalf("expected [19:30, 20:00], got [%s, %s]", created.StartTime, created.EndTime)
		}
		if rooms.updated.OccupiedUntil == nil || *rooms.updated.OccupiedUntil != "20:00" {
			t.Fatalf("expected occupancy until 20:00, got %v", rooms.updated.OccupiedUntil)
		}
	})

	t.Run("rejects rooms that are already occupied", func(t *testing.T) {
		occupant := "Design"
		until := "12:00"
		occupied := room
		occupied.Occupied = true
		occupied.OccupiedBy = &occupant
		occupied.OccupiedUntil = &until

		now := time.Date(2025, time.May, 14, 10, 0, 0, 0, time.UTC)
		svc := NewReservationService(&reservationRepoStub{}, &roomRepoStub{getRoom: occupied}, &teamRepoStub{getTeam: team}, nil, func() time.Time { return now })

		_, err := svc.QuickBook(context.Background(), quickParams())
		if !errors.Is(err, ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("rejects overlaps with existing reservations", func(t *testing.T) {
		now := time.Date(2025, time.May, 14, 10, 12, 0, 0, time.UTC)
		repo := &reservationRepoStub{list: []Reservation{
			{ID: "res-1", RoomID: "room-1", TeamID: "team-2", Date: "2025-05-14", StartTime: "10:30", EndTime: "11:30"},
		}}
		svc := NewReservationService(repo, &roomRepoStub{getRoom: room}, &teamRepoStub{getTeam: team}, nil, func() time.Time { return now })

		_, err := svc.QuickBook(context.Background(), quickParams())
		if !errors.Is(err, ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("books the current slot and marks the room occupied", func(t *testing.T) {
		now := time.Date(2025, time.May, 14, 10, 12, 0, 0, time.UTC)
		repo := &reservationRepoStub{}
		rooms := &roomRepoStub{getRoom: room}
		teams := &teamRepoStub{getTeam: team}
		svc := NewReservationService(repo, rooms, teams, func() string { return "res-1" }, func() time.Time { return now })

		created, err := svc.QuickBook(context.Background(), quickParams())
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}

		if created.Date != "2025-05-14" {
			t.Fatalf("expected today's date, got %q", created.Date)
		}
		if created.StartTime != "10:00" {
			t.Fatalf("expected start to floor to the current slot, got %q", created.StartTime)
		}
		if created.EndTime != "11:30" {
			t.Fatalf("expected end to snap up to the grid, got %q", created.EndTime)
		}

		if !rooms.updated.Occupied {
			t.Fatalf("expected room to be marked occupied, got %+v", rooms.updated)
		}
		if rooms.updated.OccupiedBy == nil || *rooms.updated.OccupiedBy != "Marketing" {
			t.Fatalf("expected occupant to be the team name, got %v", rooms.updated.OccupiedBy)
		}
		if rooms.updated.OccupiedUntil == nil || *rooms.updated.OccupiedUntil != "11:12" {
			t.Fatalf("expected exact occupancy end label, got %v", rooms.updated.OccupiedUntil)
		}
	})

	t.Run("maps the full-day bucket to the end of the workday", func(t *testing.T) {
		now := time.Date(2025, time.May, 14, 8, 45, 0, 0, time.UTC)
		repo := &reservationRepoStub{}
		rooms := &roomRepoStub{getRoom: room}
		teams := &teamRepoStub{getTeam: team}
		svc := NewReservationService(repo, rooms, teams, func() string { return "res-1" }, func() time.Time { return now })

		params := quickParams()
		params.Duration = timeslot.DurationFullDay

		created, err := svc.QuickBook(context.Background(), params)
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}

		if created.StartTime != "08:30" || created.EndTime != "17:00" {
			t.Fatalf("expected [08:30, 17:00], got [%s, %s]", created.StartTime, created.EndTime)
		}
		if rooms.updated.OccupiedUntil == nil || *rooms.updated.OccupiedUntil != "17:00" {
			t.Fatalf("expected occupancy until 17:00, got %v", rooms.updated.OccupiedUntil)
		}
	})
}

func TestReservationService_ReleaseRoom(t *testing.T) {
	t.Run("propagates ErrNotFound when the room is missing", func(t *testing.T) {
		rooms := &roomRepoStub{getErr: persistence.ErrNotFound}
		svc := NewReservationService(&reservationRepoStub{}, rooms, nil, nil, nil)

		err := svc.ReleaseRoom(context.Background(), Principal{UserID: "user-1"}, "missing")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("clears the occupancy fields", func(t *testing.T) {
		occupant := "Marketing"
		until := "14:00"
		rooms := &roomRepoStub{getRoom: Room{
			ID:            "room-1",
			Name:          "Salle Harmonie",
			Capacity:      8,
			Occupied:      true,
			OccupiedBy:    &occupant,
			OccupiedUntil: &until,
		}}
		now := time.Date(2025, time.May, 14, 12, 0, 0, 0, time.UTC)
		svc := NewReservationService(&reservationRepoStub{}, rooms, nil, nil, func() time.Time { return now })

		if err := svc.ReleaseRoom(context.Background(), Principal{UserID: "user-1"}, "room-1"); err != nil {
			t.Fatalf("expected success, got %v", err)
		}

		if rooms.updated.Occupied || rooms.updated.OccupiedBy != nil || rooms.updated.OccupiedUntil != nil {
			t.Fatalf("expected occupancy to be cleared, got %+v", rooms.updated)
		}
		if !rooms.updated.UpdatedAt.Equal(now) {
			t.Fatalf("expected injected clock, got %v", rooms.updated.UpdatedAt)
		}
	})
}

func TestReservationService_CancelReservation(t *testing.T) {
	t.Run("propagates ErrNotFound when the reservation is missing", func(t *testing.T) {
		repo := &reservationRepoStub{deleteErr: persistence.ErrNotFound}
		svc := NewReservationService(repo, nil, nil, nil, nil)

		err := svc.CancelReservation(context.Background(), Principal{UserID: "user-1"}, "missing")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("removes reservations regardless of owner", func(t *testing.T) {
		repo := &reservationRepoStub{}
		svc := NewReservationService(repo, nil, nil, nil, nil)

		if err := svc.CancelReservation(context.Background(), Principal{UserID: "user-2"}, "res-1"); err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if repo.deletedID != "res-1" {
			t.Fatalf("expected repository to receive reservation ID, got %q", repo.deletedID)
		}
	})
}

func TestReservationService_ListReservations(t *testing.T) {
	t.Run("rejects malformed date filters", func(t *testing.T) {
		svc := NewReservationService(&reservationRepoStub{}, nil, nil, nil, nil)

		_, err := svc.ListReservations(context.Background(), ListReservationsParams{
			Principal: Principal{UserID: "user-1"},
			Date:      "not-a-date",
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("forwards room and date filters to the repository", func(t *testing.T) {
		repo := &reservationRepoStub{list: []Reservation{
			{ID: "res-1", RoomID: "room-1", Date: "2025-05-14", StartTime: "09:00", EndTime: "10:00"},
			{ID: "res-2", RoomID: "room-2", Date: "2025-05-14", StartTime: "09:00", EndTime: "10:00"},
		}}
		svc := NewReservationService(repo, nil, nil, nil, nil)

		got, err := svc.ListReservations(context.Background(), ListReservationsParams{
			Principal: Principal{UserID: "user-1"},
			RoomID:    "room-1",
			Date:      "2025-05-14",
		})
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if repo.lastFilter.RoomID != "room-1" || repo.lastFilter.Date != "2025-05-14" {
			t.Fatalf("expected filters to be forwarded, got %+v", repo.lastFilter)
		}
		if len(got) != 1 || got[0].ID != "res-1" {
			t.Fatalf("expected filtered reservations, got %+v", got)
		}
	})
}
