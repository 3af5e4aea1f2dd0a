package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/example/roomradar/internal/persistence"
)

// TeamRepository implements persistence.TeamRepository using SQLite.
type TeamRepository struct {
	pool *ConnectionPool
}

// NewTeamRepository creates a SQLite backed team repository.
func NewTeamRepository(pool *ConnectionPool) *TeamRepository {
	return &TeamRepository{pool: pool}
}

// CreateTeam inserts a new team. Team names are not unique.
func (r *TeamRepository) CreateTeam(ctx context.Context, team persistence.Team) error {
	if team.ID == "" {
		return persistence.ErrConstraintViolation
	}

	query := `INSERT INTO teams (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`

	_, err := r.pool.db.ExecContext(ctx, query,
		team.ID,
		team.Name,
		team.CreatedAt.UTC().Format(time.RFC3339),
		team.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return mapError(err)
	}

	return nil
}

// GetTeam retrieves a team by ID.
func (r *TeamRepository) GetTeam(ctx context.Context, id string) (persistence.Team, error) {
	if id == "" {
		return persistence.Team{}, persistence.ErrNotFound
	}

	query := `SELECT id, name, created_at, updated_at FROM teams WHERE id = ?`

	var (
		team      persistence.Team
		createdAt string
		updatedAt string
	)
	if err := r.pool.db.QueryRowContext(ctx, query, id).Scan(&team.ID, &team.Name, &createdAt, &updatedAt); err != nil {
		return persistence.Team{}, mapError(err)
	}

	var err error
	if team.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return persistence.Team{}, fmt.Errorf("sqlite: failed to parse created_at: %w", err)
	}
	if team.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return persistence.Team{}, fmt.Errorf("sqlite: failed to parse updated_at: %w", err)
	}

	return team, nil
}

// ListTeams returns all teams ordered by creation time then ID.
func (r *TeamRepository) ListTeams(ctx context.Context) ([]persistence.Team, error) {
	query := `SELECT id, name, created_at, updated_at FROM teams ORDER BY created_at ASC, id ASC`

	rows, err := r.pool.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var teams []persistence.Team
	for rows.Next() {
		var (
			team      persistence.Team
			createdAt string
			updatedAt string
		)
		if err := rows.Scan(&team.ID, &team.Name, &createdAt, &updatedAt); err != nil {
			return nil, mapError(err)
		}
		if team.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("sqlite: failed to parse created_at: %w", err)
		}
		if team.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: failed to parse updated_at: %w", err)
		}
		teams = append(teams, team)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return teams, nil
}

// DeleteTeam removes a team by ID. Reservations referencing the team are
// left untouched.
func (r *TeamRepository) DeleteTeam(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.pool.db.ExecContext(ctx, "DELETE FROM teams WHERE id = ?", id)
	if err != nil {
		return mapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}

	return nil
}

// DeleteAllTeams removes every team.
func (r *TeamRepository) DeleteAllTeams(ctx context.Context) error {
	if _, err := r.pool.db.ExecContext(ctx, "DELETE FROM teams"); err != nil {
		return mapError(err)
	}
	return nil
}
