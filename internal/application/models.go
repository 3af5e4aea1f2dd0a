package application

import (
	"time"

	"github.com/example/roomradar/internal/timeslot"
)

// Role identifies the permission level attached to an account.
type Role string

const (
	// RoleAdmin grants full management access to rooms, teams, and users.
	RoleAdmin Role = "admin"
	// RoleUser grants booking access without management rights.
	RoleUser Role = "user"
)

// Principal represents the authenticated user invoking a service method.
type Principal struct {
	UserID  string
	IsAdmin bool
}

// RoomInput captures caller provided room fields.
type RoomInput struct {
	Name     string
	Capacity int
}

// Room represents a bookable room together with its live occupancy state.
// OccupiedBy and OccupiedUntil are set exactly when Occupied is true.
type Room struct {
	ID            string
	Name          string
	Capacity      int
	Occupied      bool
	OccupiedBy    *string
	OccupiedUntil *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CreateRoomParams wraps the data required to create a room.
type CreateRoomParams struct {
	Principal Principal
	Input     RoomInput
}

// UpdateRoomParams wraps the data required to update a room.
type UpdateRoomParams struct {
	Principal Principal
	RoomID    string
	Input     RoomInput
}

// TeamInput captures caller provided team fields.
type TeamInput struct {
	Name string
}

// Team represents an organizational group that can hold bookings.
type Team struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateTeamParams wraps the data required to create a team.
type CreateTeamParams struct {
	Principal Principal
	Input     TeamInput
}

// Reservation represents a half-open booking of a room by a team on one day.
type Reservation struct {
	ID        string
	RoomID    string
	TeamID    string
	Date      string
	StartTime string
	EndTime   string
	CreatedAt time.Time
}

// BookRoomParams wraps the data required to reserve a room for a slot range.
type BookRoomParams struct {
	Principal Principal
	RoomID    string
	TeamID    string
	Date      string
	StartTime string
	EndTime   string
}

// QuickBookParams wraps the data required to claim a room starting now.
type QuickBookParams struct {
	Principal Principal
	RoomID    string
	TeamID    string
	Duration  timeslot.Duration
}

// ListReservationsParams wraps the filters accepted when listing reservations.
type ListReservationsParams struct {
	Principal Principal
	RoomID    string
	Date      string
}

// User represents an account exposed by the application services.
type User struct {
	ID          string
	Username    string
	DisplayName string
	Role        Role
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserCredentials models the authentication attributes persisted for a user.
type UserCredentials struct {
	User         User
	PasswordHash string
}

// Session represents an authenticated session issued to a user.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}

// AuthenticateParams captures the data required to authenticate a user.
type AuthenticateParams struct {
	Username string
	Password string
}

// AuthenticateResult captures the outcome of a successful authentication attempt.
type AuthenticateResult struct {
	User    User
	Session Session
}
