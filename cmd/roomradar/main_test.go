package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/example/roomradar/internal/application"
	"github.com/example/roomradar/internal/persistence/sqlite"
	"github.com/example/roomradar/internal/testfixtures"
)

type testEnv struct {
	rooms        *application.RoomService
	teams        *application.TeamService
	reservations *application.ReservationService
	users        *application.UserService
	auth         *application.AuthService
	clock        *testfixtures.Clock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	pool, err := sqlite.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if cerr := pool.Close(); cerr != nil {
			t.Errorf("failed to close database: %v", cerr)
		}
	})
	if err := pool.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}

	clock := testfixtures.NewClock(time.Date(2025, time.May, 14, 10, 0, 0, 0, time.UTC))
	idGenerator := testfixtures.NewIDGenerator("id").NextFunc()
	tokenGenerator := testfixtures.NewIDGenerator("token").NextFunc()
	now := clock.NowFunc()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	roomRepo := newRoomRepositoryAdapter(sqlite.NewRoomRepository(pool))
	teamRepo := newTeamRepositoryAdapter(sqlite.NewTeamRepository(pool))
	reservationRepo := newReservationRepositoryAdapter(sqlite.NewReservationRepository(pool))
	userRepo := newUserRepositoryAdapter(sqlite.NewUserRepository(pool))
	sessionRepo := newSessionRepositoryAdapter(sqlite.NewSessionRepository(pool))
	credentialStore := newCredentialStoreAdapter(sqlite.NewUserRepository(pool))

	if err := application.EnsureDefaultAccounts(context.Background(), credentialStore, idGenerator, now, logger); err != nil {
		t.Fatalf("failed to seed accounts: %v", err)
	}

	return &testEnv{
		rooms:        application.NewRoomServiceWithLogger(roomRepo, idGenerator, now, logger),
		teams:        application.NewTeamServiceWithLogger(teamRepo, idGenerator, now, logger),
		reservations: application.NewReservationServiceWithLogger(reservationRepo, roomRepo, teamRepo, idGenerator, now, logger),
		users:        application.NewUserServiceWithLogger(userRepo, now, logger),
		auth:         application.NewAuthServiceWithLogger(credentialStore, sessionRepo, nil, tokenGenerator, now, 24*time.Hour, logger),
		clock:        clock,
	}
}

func (e *testEnv) loginAdmin(t *testing.T) application.Principal {
	t.Helper()
	result, err := e.auth.Authenticate(context.Background(), application.AuthenticateParams{
		Username: "Admin",
		Password: "SkyEngPro_Admin",
	})
	if err != nil {
		t.Fatalf("admin login failed: %v", err)
	}
	return application.Principal{UserID: result.User.ID, IsAdmin: result.User.IsAdmin()}
}

func TestBookingFlowAgainstSQLite(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.loginAdmin(t)

	room, err := env.rooms.CreateRoom(ctx, application.CreateRoomParams{
		Principal: admin,
		Input:     application.RoomInput{Name: "Salle Zen", Capacity: 6},
	})
	if err != nil {
		t.Fatalf("failed to create room: %v", err)
	}

	team, err := env.teams.CreateTeam(ctx, application.CreateTeamParams{
		Principal: admin,
		Input:     application.TeamInput{Name: "Marketing"},
	})
	if err != nil {
		t.Fatalf("failed to create team: %v", err)
	}

	reservation, err := env.reservations.BookRoom(ctx, application.BookRoomParams{
		Principal: admin,
		RoomID:    room.ID,
		TeamID:    team.ID,
		Date:      "2025-06-02",
		StartTime: "10:00",
		EndTime:   "11:00",
	})
	if err != nil {
		t.Fatalf("failed to book room: %v", err)
	}

	_, err = env.reservations.BookRoom(ctx, application.BookRoomParams{
		Principal: admin,
		RoomID:    room.ID,
		TeamID:    team.ID,
		Date:      "2025-06-02",
		StartTime: "10:30",
		EndTime:   "12:00",
	})
	if !errors.Is(err, application.ErrConflict) {
		t.Fatalf("expected conflict for overlapping booking, got %v", err)
	}

	listed, err := env.reservations.ListReservations(ctx, application.ListReservationsParams{
		Principal: admin,
		RoomID:    room.ID,
		Date:      "2025-06-02",
	})
	if err != nil {
		t.Fatalf("failed to list reservations: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != reservation.ID {
		t.Fatalf("unexpected reservations: %+v", listed)
	}

	if err := env.reservations.CancelReservation(ctx, admin, reservation.ID); err != nil {
		t.Fatalf("failed to cancel reservation: %v", err)
	}

	if _, err := env.reservations.BookRoom(ctx, application.BookRoomParams{
		Principal: admin,
		RoomID:    room.ID,
		TeamID:    team.ID,
		Date:      "2025-06-02",
		StartTime: "10:30",
		EndTime:   "12:00",
	}); err != nil {
		t.Fatalf("expected freed slot range to be bookable, got %v", err)
	}
}

func TestQuickBookFlowAgainstSQLite(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.loginAdmin(t)

	room, err := env.rooms.CreateRoom(ctx, application.CreateRoomParams{
		Principal: admin,
		Input:     application.RoomInput{Name: "Salle Sud", Capacity: 4},
	})
	if err != nil {
		t.Fatalf("failed to create room: %v", err)
	}
	team, err := env.teams.CreateTeam(ctx, application.CreateTeamParams{
		Principal: admin,
		Input:     application.TeamInput{Name: "Design"},
	})
	if err != nil {
		t.Fatalf("failed to create team: %v", err)
	}

	reservation, err := env.reservations.QuickBook(ctx, application.QuickBookParams{
		Principal: admin,
		RoomID:    room.ID,
		TeamID:    team.ID,
		Duration:  "1h",
	})
	if err != nil {
		t.Fatalf("quick book failed: %v", err)
	}
	if reservation.StartTime != "10:00" || reservation.EndTime != "11:00" {
		t.Fatalf("unexpected reservation window: %s-%s", reservation.StartTime, reservation.EndTime)
	}

	occupied, err := env.rooms.GetRoom(ctx, admin, room.ID)
	if err != nil {
		t.Fatalf("failed to fetch room: %v", err)
	}
	if !occupied.Occupied || occupied.OccupiedBy == nil || *occupied.OccupiedBy != "Design" {
		t.Fatalf("expected room to be occupied by the team, got %+v", occupied)
	}

	if _, err := env.reservations.QuickBook(ctx, application.QuickBookParams{
		Principal: admin,
		RoomID:    room.ID,
		TeamID:    team.ID,
		Duration:  "30m",
	}); !errors.Is(err, application.ErrConflict) {
		t.Fatalf("expected conflict for occupied room, got %v", err)
	}

	if err := env.reservations.ReleaseRoom(ctx, admin, room.ID); err != nil {
		t.Fatalf("failed to release room: %v", err)
	}
	released, err := env.rooms.GetRoom(ctx, admin, room.ID)
	if err != nil {
		t.Fatalf("failed to fetch room: %v", err)
	}
	if released.Occupied || released.OccupiedBy != nil || released.OccupiedUntil != nil {
		t.Fatalf("expected occupancy to be cleared, got %+v", released)
	}
}

func TestAuthRejectionsAgainstSQLite(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.auth.Authenticate(ctx, application.AuthenticateParams{
		Username: "Nobody",
		Password: "whatever",
	}); !errors.Is(err, application.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown username, got %v", err)
	}

	if _, err := env.auth.ValidateSession(ctx, "token-never-issued"); !errors.Is(err, application.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for unknown token, got %v", err)
	}
}

func TestAccountFlowAgainstSQLite(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.loginAdmin(t)

	users, err := env.users.ListUsers(ctx, admin)
	if err != nil {
		t.Fatalf("failed to list users: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected the two seeded accounts, got %d", len(users))
	}

	var standard application.User
	for _, user := range users {
		if user.Username == "Users" {
			standard = user
		}
	}
	if standard.ID == "" {
		t.Fatalf("seeded standard account not found")
	}
	if standard.IsAdmin() {
		t.Fatalf("standard account should not start as admin")
	}

	promoted, err := env.users.PromoteToAdmin(ctx, admin, standard.ID)
	if err != nil {
		t.Fatalf("failed to promote account: %v", err)
	}
	if !promoted.IsAdmin() {
		t.Fatalf("expected promoted account to be admin")
	}

	result, err := env.auth.Authenticate(ctx, application.AuthenticateParams{
		Username: "Users",
		Password: "SkyEngPro",
	})
	if err != nil {
		t.Fatalf("standard login failed: %v", err)
	}
	if !result.User.IsAdmin() {
		t.Fatalf("expected promotion to be visible at login")
	}

	principal, err := env.auth.ValidateSession(ctx, result.Session.Token)
	if err != nil {
		t.Fatalf("failed to validate session: %v", err)
	}
	if principal.UserID != result.User.ID || !principal.IsAdmin {
		t.Fatalf("unexpected principal: %+v", principal)
	}

	if err := env.auth.RevokeSession(ctx, result.Session.Token); err != nil {
		t.Fatalf("failed to revoke session: %v", err)
	}
	if _, err := env.auth.ValidateSession(ctx, result.Session.Token); err == nil {
		t.Fatalf("expected revoked session to be rejected")
	}
}
