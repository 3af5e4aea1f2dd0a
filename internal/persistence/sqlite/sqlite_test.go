package sqlite

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/example/roomradar/internal/persistence"
)

func openTestPool(t *testing.T) *ConnectionPool {
	t.Helper()

	pool, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() {
		if err := pool.Close(); err != nil {
			t.Errorf("failed to close pool: %v", err)
		}
	})

	if err := pool.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}

	return pool
}

func testTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("bad test timestamp %q: %v", value, err)
	}
	return parsed
}

func TestRoomRepository_RoundTrip(t *testing.T) {
	pool := openTestPool(t)
	repo := NewRoomRepository(pool)
	ctx := context.Background()

	occupiedBy := "Marketing"
	occupiedUntil := "14:00"
	rooms := []persistence.Room{
		{
			ID:        "room-1",
			Name:      "Salle Harmonie",
			Capacity:  8,
			CreatedAt: testTime(t, "2025-05-14T08:00:00Z"),
			UpdatedAt: testTime(t, "2025-05-14T08:00:00Z"),
		},
		{
			ID:            "room-2",
			Name:          "Salle Créativité",
			Capacity:      6,
			Occupied:      true,
			OccupiedBy:    &occupiedBy,
			OccupiedUntil: &occupiedUntil,
			CreatedAt:     testTime(t, "2025-05-14T08:01:00Z"),
			UpdatedAt:     testTime(t, "2025-05-14T09:00:00Z"),
		},
	}

	for _, room := range rooms {
		if err := repo.CreateRoom(ctx, room); err != nil {
			t.Fatalf("failed to create room %s: %v", room.ID, err)
		}
	}

	for _, want := range rooms {
		got, err := repo.GetRoom(ctx, want.ID)
		if err != nil {
			t.Fatalf("failed to get room %s: %v", want.ID, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("round trip mismatch for %s:\n got %+v\nwant %+v", want.ID, got, want)
		}
	}
}

func TestRoomRepository_CapacityConstraint(t *testing.T) {
	pool := openTestPool(t)
	repo := NewRoomRepository(pool)

	err := repo.CreateRoom(context.Background(), persistence.Room{
		ID:        "room-1",
		Name:      "Tiny",
		Capacity:  0,
		CreatedAt: testTime(t, "2025-05-14T08:00:00Z"),
		UpdatedAt: testTime(t, "2025-05-14T08:00:00Z"),
	})
	if !errors.Is(err, persistence.ErrConstraintViolation) {
		t.Fatalf("expected ErrConstraintViolation, got %v", err)
	}
}

func TestRoomRepository_UpdateMissing(t *testing.T) {
	pool := openTestPool(t)
	repo := NewRoomRepository(pool)

	err := repo.UpdateRoom(context.Background(), persistence.Room{
		ID:        "missing",
		Name:      "Ghost",
		Capacity:  4,
		UpdatedAt: testTime(t, "2025-05-14T08:00:00Z"),
	})
	if !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteRoom_LeavesReservationsInPlace(t *testing.T) {
	pool := openTestPool(t)
	rooms := NewRoomRepository(pool)
	reservations := NewReservationRepository(pool)
	ctx := context.Background()

	if err := rooms.CreateRoom(ctx, persistence.Room{
		ID:        "room-1",
		Name:      "Salle Harmonie",
		Capacity:  8,
		CreatedAt: testTime(t, "2025-05-14T08:00:00Z"),
		UpdatedAt: testTime(t, "2025-05-14T08:00:00Z"),
	}); err != nil {
		t.Fatalf("failed to create room: %v", err)
	}

	if err := reservations.CreateReservation(ctx, persistence.Reservation{
		ID:        "res-1",
		RoomID:    "room-1",
		TeamID:    "team-1",
		Date:      "2025-05-14",
		StartTime: "09:00",
		EndTime:   "10:00",
		CreatedAt: testTime(t, "2025-05-14T08:30:00Z"),
	}); err != nil {
		t.Fatalf("failed to create reservation: %v", err)
	}

	if err := rooms.DeleteRoom(ctx, "room-1"); err != nil {
		t.Fatalf("failed to delete room: %v", err)
	}

	orphan, err := reservations.GetReservation(ctx, "res-1")
	if err != nil {
		t.Fatalf("expected orphaned reservation to survive room deletion, got %v", err)
	}
	if orphan.RoomID != "room-1" {
		t.Fatalf("expected orphan to keep its room reference, got %q", orphan.RoomID)
	}
}

func TestTeamRepository_RoundTripAndDeleteAll(t *testing.T) {
	pool := openTestPool(t)
	repo := NewTeamRepository(pool)
	ctx := context.Background()

	teams := []persistence.Team{
		{ID: "team-1", Name: "Marketing", CreatedAt: testTime(t, "2025-05-14T08:00:00Z"), UpdatedAt: testTime(t, "2025-05-14T08:00:00Z")},
		{ID: "team-2", Name: "Design", CreatedAt: testTime(t, "2025-05-14T08:01:00Z"), UpdatedAt: testTime(t, "2025-05-14T08:01:00Z")},
		{ID: "team-3", Name: "Marketing", CreatedAt: testTime(t, "2025-05-14T08:02:00Z"), UpdatedAt: testTime(t, "2025-05-14T08:02:00Z")},
	}
	for _, team := range teams {
		if err := repo.CreateTeam(ctx, team); err != nil {
			t.Fatalf("failed to create team %s: %v", team.ID, err)
		}
	}

	listed, err := repo.ListTeams(ctx)
	if err != nil {
		t.Fatalf("failed to list teams: %v", err)
	}
	if !reflect.DeepEqual(listed, teams) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", listed, teams)
	}

	if err := repo.DeleteAllTeams(ctx); err != nil {
		t.Fatalf("failed to delete all teams: %v", err)
	}

	listed, err = repo.ListTeams(ctx)
	if err != nil {
		t.Fatalf("failed to list teams after delete: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("expected empty team list, got %d entries", len(listed))
	}
}

func TestReservationRepository_FilterAndOrdering(t *testing.T) {
	pool := openTestPool(t)
	repo := NewReservationRepository(pool)
	ctx := context.Background()

	created := testTime(t, "2025-05-14T07:00:00Z")
	seed := []persistence.Reservation{
		{ID: "res-1", RoomID: "room-1", TeamID: "team-1", Date: "2025-05-14", StartTime: "14:00", EndTime: "15:00", CreatedAt: created},
		{ID: "res-2", RoomID: "room-1", TeamID: "team-2", Date: "2025-05-14", StartTime: "09:00", EndTime: "10:00", CreatedAt: created},
		{ID: "res-3", RoomID: "room-2", TeamID: "team-1", Date: "2025-05-14", StartTime: "08:00", EndTime: "09:00", CreatedAt: created},
		{ID: "res-4", RoomID: "room-1", TeamID: "team-1", Date: "2025-05-15", StartTime: "08:00", EndTime: "09:00", CreatedAt: created},
	}
	for _, reservation := range seed {
		if err := repo.CreateReservation(ctx, reservation); err != nil {
			t.Fatalf("failed to create reservation %s: %v", reservation.ID, err)
		}
	}

	t.Run("filters by room and date", func(t *testing.T) {
		got, err := repo.ListReservations(ctx, persistence.ReservationFilter{RoomID: "room-1", Date: "2025-05-14"})
		if err != nil {
			t.Fatalf("failed to list reservations: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected two reservations, got %d", len(got))
		}
		if got[0].ID != "res-2" || got[1].ID != "res-1" {
			t.Fatalf("expected start-time ordering, got %q then %q", got[0].ID, got[1].ID)
		}
	})

	t.Run("filters by date only", func(t *testing.T) {
		got, err := repo.ListReservations(ctx, persistence.ReservationFilter{Date: "2025-05-15"})
		if err != nil {
			t.Fatalf("failed to list reservations: %v", err)
		}
		if len(got) != 1 || got[0].ID != "res-4" {
			t.Fatalf("expected only res-4, got %+v", got)
		}
	})

	t.Run("delete removes the row", func(t *testing.T) {
		if err := repo.DeleteReservation(ctx, "res-3"); err != nil {
			t.Fatalf("failed to delete reservation: %v", err)
		}
		if _, err := repo.GetReservation(ctx, "res-3"); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("rejects inverted interval", func(t *testing.T) {
		err := repo.CreateReservation(ctx, persistence.Reservation{
			ID: "res-bad", RoomID: "room-1", TeamID: "team-1",
			Date: "2025-05-14", StartTime: "10:00", EndTime: "09:00", CreatedAt: created,
		})
		if !errors.Is(err, persistence.ErrConstraintViolation) {
			t.Fatalf("expected ErrConstraintViolation, got %v", err)
		}
	})
}

func TestUserRepository_RoundTripAndUniqueness(t *testing.T) {
	pool := openTestPool(t)
	repo := NewUserRepository(pool)
	ctx := context.Background()

	admin := persistence.User{
		ID:           "user-1",
		Username:     "Admin",
		DisplayName:  "Admin",
		Role:         "admin",
		PasswordHash: "$argon2id$stub",
		CreatedAt:    testTime(t, "2025-05-14T08:00:00Z"),
		UpdatedAt:    testTime(t, "2025-05-14T08:00:00Z"),
	}
	if err := repo.CreateUser(ctx, admin); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	got, err := repo.GetUserByUsername(ctx, "Admin")
	if err != nil {
		t.Fatalf("failed to get user by username: %v", err)
	}
	if !reflect.DeepEqual(got, admin) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, admin)
	}

	duplicate := admin
	duplicate.ID = "user-2"
	if err := repo.CreateUser(ctx, duplicate); !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for reused username, got %v", err)
	}

	got.Role = "user"
	got.UpdatedAt = testTime(t, "2025-05-14T09:00:00Z")
	if err := repo.UpdateUser(ctx, got); err != nil {
		t.Fatalf("failed to update user: %v", err)
	}
	updated, err := repo.GetUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("failed to get updated user: %v", err)
	}
	if updated.Role != "user" {
		t.Fatalf("expected role to be updated, got %q", updated.Role)
	}
}

func TestSessionRepository_Lifecycle(t *testing.T) {
	pool := openTestPool(t)
	repo := NewSessionRepository(pool)
	ctx := context.Background()

	session := persistence.Session{
		ID:        "sess-1",
		UserID:    "user-1",
		Token:     "token-1",
		ExpiresAt: testTime(t, "2025-05-15T08:00:00Z"),
		CreatedAt: testTime(t, "2025-05-14T08:00:00Z"),
		UpdatedAt: testTime(t, "2025-05-14T08:00:00Z"),
	}

	stored, err := repo.CreateSession(ctx, session)
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	if stored.Token != "token-1" || stored.RevokedAt != nil {
		t.Fatalf("unexpected stored session: %+v", stored)
	}

	revoked, err := repo.RevokeSession(ctx, "token-1", testTime(t, "2025-05-14T10:00:00Z"))
	if err != nil {
		t.Fatalf("failed to revoke session: %v", err)
	}
	if revoked.RevokedAt == nil {
		t.Fatalf("expected revoked_at to be set")
	}

	if _, err := repo.RevokeSession(ctx, "missing", testTime(t, "2025-05-14T10:00:00Z")); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown token, got %v", err)
	}

	if err := repo.DeleteExpiredSessions(ctx, testTime(t, "2025-05-16T00:00:00Z")); err != nil {
		t.Fatalf("failed to prune sessions: %v", err)
	}
	if _, err := repo.GetSession(ctx, "token-1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected session to be pruned, got %v", err)
	}
}
