package persistence

import "time"

// User represents one of the fixed accounts stored with its credentials.
type User struct {
	ID           string
	Username     string
	DisplayName  string
	Role         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Room represents a bookable room together with its live occupancy state.
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

// Team represents an organizational group that can hold bookings.
type Team struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Reservation represents a time-bounded claim of a room by a team.
// RoomID and TeamID are not foreign keys: deleting a room or team leaves
// its reservations in place.
type Reservation struct {
	ID        string
	RoomID    string
	TeamID    string
	Date      string
	StartTime string
	EndTime   string
	CreatedAt time.Time
}

// Session represents an authentication session persisted for a user.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}
