package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/roomradar/internal/persistence"
	"github.com/example/roomradar/internal/scheduler"
	"github.com/example/roomradar/internal/timeslot"
)

// ReservationFilter narrows reservation listings by room, date, or both.
type ReservationFilter struct {
	RoomID string
	Date   string
}

// ReservationRepository captures the persistence operations needed by the service.
type ReservationRepository interface {
	CreateReservation(ctx context.Context, reservation Reservation) (Reservation, error)
	GetReservation(ctx context.Context, id string) (Reservation, error)
	ListReservations(ctx context.Context, filter ReservationFilter) ([]Reservation, error)
	DeleteReservation(ctx context.Context, id string) error
}

// ReservationService owns every booking path: slot range bookings, immediate
// claims, releases, and cancellations all run through the same conflict check.
type ReservationService struct {
	reservations ReservationRepository
	rooms        RoomRepository
	teams        TeamRepository
	idGenerator  func() string
	now          func() time.Time
	logger       *slog.Logger
}

// NewReservationService constructs a reservation service with the provided dependencies.
func NewReservationService(reservations ReservationRepository, rooms RoomRepository, teams TeamRepository, idGenerator func() string, now func() time.Time) *ReservationService {
	return NewReservationServiceWithLogger(reservations, rooms, teams, idGenerator, now, nil)
}

// NewReservationServiceWithLogger constructs a reservation service with a specified logger.
func NewReservationServiceWithLogger(reservations ReservationRepository, rooms RoomRepository, teams TeamRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ReservationService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ReservationService{
		reservations: reservations,
		rooms:        rooms,
		teams:        teams,
		idGenerator:  idGenerator,
		now:          now,
		logger:       defaultLogger(logger),
	}
}

func (s *ReservationService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ReservationService", operation, attrs...)
}

// BookRoom validates a slot range booking, rejects overlaps with existing
// reservations for the same room and date, and persists the reservation.
func (s *ReservationService) BookRoom(ctx context.Context, params BookRoomParams) (reservation Reservation, err error) {
	if s == nil {
		err = fmt.Errorf("ReservationService is nil")
		return
	}
	if s.reservations == nil {
		err = fmt.Errorf("reservation repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "BookRoom",
		"principal_id", params.Principal.UserID,
		"room_id", params.RoomID,
		"team_id", params.TeamID,
		"res_date", params.Date,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to book room", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("reservation_id", reservation.ID).InfoContext(ctx, "room booked")
	}()

	vErr := validateBookingInput(params.Date, params.StartTime, params.EndTime)
	if strings.TrimSpace(params.RoomID) == "" {
		vErr.add("room_id", "room is required")
	}
	if strings.TrimSpace(params.TeamID) == "" {
		vErr.add("team_id", "team is required")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	if err = s.ensureRoomExists(ctx, params.RoomID); err != nil {
		return
	}
	if err = s.ensureTeamExists(ctx, params.TeamID); err != nil {
		return
	}

	candidate := Reservation{
		ID:        s.idGenerator(),
		RoomID:    params.RoomID,
		TeamID:    params.TeamID,
		Date:      params.Date,
		StartTime: params.StartTime,
		EndTime:   params.EndTime,
		CreatedAt: s.now(),
	}

	if err = s.rejectConflicts(ctx, candidate); err != nil {
		return
	}

	reservation, err = s.reservations.CreateReservation(ctx, candidate)
	if err != nil {
		err = mapReservationRepoError(err)
		return
	}
	return
}

// QuickBook claims a room starting at the current half-hour slot for a preset
// duration. It records a reservation for today and marks the room occupied
// until the reservation ends.
func (s *ReservationService) QuickBook(ctx context.Context, params QuickBookParams) (reservation Reservation, err error) {
	if s == nil {
		err = fmt.Errorf("ReservationService is nil")
		return
	}
	if s.reservations == nil {
		err = fmt.Errorf("reservation repository not configured")
		return
	}
	if s.rooms == nil {
		err = fmt.Errorf("room repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "QuickBook",
		"principal_id", params.Principal.UserID,
		"room_id", params.RoomID,
		"team_id", params.TeamID,
		"duration", string(params.Duration),
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to quick book room", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("reservation_id", reservation.ID).InfoContext(ctx, "room quick booked")
	}()

	vErr := &ValidationError{}
	if strings.TrimSpace(params.RoomID) == "" {
		vErr.add("room_id", "room is required")
	}
	if strings.TrimSpace(params.TeamID) == "" {
		vErr.add("team_id", "team is required")
	}
	if !params.Duration.IsValid() {
		vErr.add("duration", "duration must be one of 30m, 1h, 2h, 3h, day")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	now := s.now()
	start, ok := timeslot.Floor(now)
	if !ok {
		vErr.add("duration", "rooms are closed at this time")
		err = vErr
		return
	}
	var end string
	end, err = params.Duration.EndLabel(now)
	if err != nil {
		vErr.add("duration", "duration does not fit in the remaining day")
		err = vErr
		return
	}
	// The occupancy label keeps the exact end time; the stored reservation
	// snaps to the next slot so the interval stays on the half-hour grid.
	slotEnd, ok := timeslot.Ceil(end)
	if !ok || slotEnd <= start {
		slotEnd = timeslot.Close
	}

	var room Room
	room, err = s.rooms.GetRoom(ctx, params.RoomID)
	if err != nil {
		err = mapRoomRepoError(err)
		return
	}
	if room.Occupied {
		err = ErrConflict
		return
	}

	var team Team
	if s.teams != nil {
		team, err = s.teams.GetTeam(ctx, params.TeamID)
		if err != nil {
			err = mapTeamRepoError(err)
			return
		}
	}

	candidate := Reservation{
		ID:        s.idGenerator(),
		RoomID:    params.RoomID,
		TeamID:    params.TeamID,
		Date:      now.Format(timeslot.DateLayout),
		StartTime: start,
		EndTime:   slotEnd,
		CreatedAt: now,
	}

	if err = s.rejectConflicts(ctx, candidate); err != nil {
		return
	}

	reservation, err = s.reservations.CreateReservation(ctx, candidate)
	if err != nil {
		err = mapReservationRepoError(err)
		return
	}

	occupant := team.Name
	if occupant == "" {
		occupant = params.TeamID
	}
	room.Occupied = true
	room.OccupiedBy = &occupant
	room.OccupiedUntil = &end
	room.UpdatedAt = now

	if _, err = s.rooms.UpdateRoom(ctx, room); err != nil {
		err = mapRoomRepoError(err)
		return
	}
	return
}

// ReleaseRoom clears a room's occupancy state without touching its reservations.
func (s *ReservationService) ReleaseRoom(ctx context.Context, principal Principal, roomID string) error {
	if s == nil {
		return fmt.Errorf("ReservationService is nil")
	}
	if s.rooms == nil {
		return fmt.Errorf("room repository not configured")
	}

	logger := s.loggerWith(ctx, "ReleaseRoom",
		"principal_id", principal.UserID,
		"room_id", roomID,
	)

	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		err = mapRoomRepoError(err)
		logger.ErrorContext(ctx, "failed to release room", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	room.Occupied = false
	room.OccupiedBy = nil
	room.OccupiedUntil = nil
	room.UpdatedAt = s.now()

	if _, err := s.rooms.UpdateRoom(ctx, room); err != nil {
		err = mapRoomRepoError(err)
		logger.ErrorContext(ctx, "failed to release room", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "room released")
	return nil
}

// CancelReservation removes a reservation regardless of who created it.
func (s *ReservationService) CancelReservation(ctx context.Context, principal Principal, reservationID string) error {
	if s == nil {
		return fmt.Errorf("ReservationService is nil")
	}
	if s.reservations == nil {
		return fmt.Errorf("reservation repository not configured")
	}

	logger := s.loggerWith(ctx, "CancelReservation",
		"principal_id", principal.UserID,
		"reservation_id", reservationID,
	)

	if err := s.reservations.DeleteReservation(ctx, reservationID); err != nil {
		err = mapReservationRepoError(err)
		logger.ErrorContext(ctx, "failed to cancel reservation", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "reservation cancelled")
	return nil
}

// ListReservations returns reservations matching the optional room and date filters.
func (s *ReservationService) ListReservations(ctx context.Context, params ListReservationsParams) (reservations []Reservation, err error) {
	if s == nil {
		err = fmt.Errorf("ReservationService is nil")
		return
	}
	if s.reservations == nil {
		return nil, nil
	}

	logger := s.loggerWith(ctx, "ListReservations",
		"principal_id", params.Principal.UserID,
		"room_id", params.RoomID,
		"res_date", params.Date,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list reservations", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(reservations)).InfoContext(ctx, "reservations listed")
	}()

	if params.Date != "" && !timeslot.IsValidDate(params.Date) {
		vErr := &ValidationError{}
		vErr.add("date", "date must use the YYYY-MM-DD format")
		err = vErr
		return
	}

	reservations, err = s.reservations.ListReservations(ctx, ReservationFilter{RoomID: params.RoomID, Date: params.Date})
	return
}

// rejectConflicts loads same-room same-day reservations and returns ErrConflict
// when the candidate interval overlaps any of them.
func (s *ReservationService) rejectConflicts(ctx context.Context, candidate Reservation) error {
	existing, err := s.reservations.ListReservations(ctx, ReservationFilter{RoomID: candidate.RoomID, Date: candidate.Date})
	if err != nil {
		return err
	}

	bookings := make([]scheduler.Booking, 0, len(existing))
	for _, reservation := range existing {
		bookings = append(bookings, scheduler.Booking{
			ID:     reservation.ID,
			RoomID: reservation.RoomID,
			Date:   reservation.Date,
			Start:  reservation.StartTime,
			End:    reservation.EndTime,
		})
	}

	conflicts := scheduler.DetectConflicts(bookings, scheduler.Booking{
		ID:     candidate.ID,
		RoomID: candidate.RoomID,
		Date:   candidate.Date,
		Start:  candidate.StartTime,
		End:    candidate.EndTime,
	})
	if len(conflicts) > 0 {
		return ErrConflict
	}
	return nil
}

func (s *ReservationService) ensureRoomExists(ctx context.Context, roomID string) error {
	if s.rooms == nil {
		return nil
	}
	if _, err := s.rooms.GetRoom(ctx, roomID); err != nil {
		return mapRoomRepoError(err)
	}
	return nil
}

func (s *ReservationService) ensureTeamExists(ctx context.Context, teamID string) error {
	if s.teams == nil {
		return nil
	}
	if _, err := s.teams.GetTeam(ctx, teamID); err != nil {
		return mapTeamRepoError(err)
	}
	return nil
}

func validateBookingInput(date, start, end string) *ValidationError {
	vErr := &ValidationError{}

	if !timeslot.IsValidDate(date) {
		vErr.add("date", "date must use the YYYY-MM-DD format")
	}
	if !timeslot.IsValid(start) {
		vErr.add("start_time", "start time must be a half-hour slot between 08:00 and 20:00")
	}
	if !timeslot.IsValid(end) {
		vErr.add("end_time", "end time must be a half-hour slot between 08:00 and 20:00")
	}
	if timeslot.IsValid(start) && timeslot.IsValid(end) && start >= end {
		vErr.add("end_time", "end time must be after start time")
	}

	return vErr
}

func mapReservationRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrAlreadyExists
	}
	if errors.Is(err, persistence.ErrConstraintViolation) {
		vErr := &ValidationError{}
		vErr.add("end_time", "end time must be after start time")
		return vErr
	}
	return err
}
