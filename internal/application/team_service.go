package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/roomradar/internal/persistence"
)

// TeamRepository captures the persistence operations needed by the service.
type TeamRepository interface {
	CreateTeam(ctx context.Context, team Team) (Team, error)
	GetTeam(ctx context.Context, id string) (Team, error)
	ListTeams(ctx context.Context) ([]Team, error)
	DeleteTeam(ctx context.Context, id string) error
	DeleteAllTeams(ctx context.Context) error
}

// TeamService orchestrates validation, authorization, and persistence for teams.
type TeamService struct {
	teams       TeamRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewTeamService constructs a team service with the provided dependencies.
func NewTeamService(teams TeamRepository, idGenerator func() string, now func() time.Time) *TeamService {
	return NewTeamServiceWithLogger(teams, idGenerator, now, nil)
}

// NewTeamServiceWithLogger constructs a team service with a specified logger.
func NewTeamServiceWithLogger(teams TeamRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *TeamService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &TeamService{teams: teams, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

func (s *TeamService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "TeamService", operation, attrs...)
}

// CreateTeam validates input and persists a new team for administrators.
func (s *TeamService) CreateTeam(ctx context.Context, params CreateTeamParams) (team Team, err error) {
	if s == nil {
		err = fmt.Errorf("TeamService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateTeam",
		"principal_id", params.Principal.UserID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create team", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("team_id", team.ID).InfoContext(ctx, "team created")
	}()

	if !params.Principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	vErr := &ValidationError{}
	if strings.TrimSpace(params.Input.Name) == "" {
		vErr.add("name", "name is required")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	team = Team{
		ID:        s.idGenerator(),
		Name:      strings.TrimSpace(params.Input.Name),
		CreatedAt: s.now(),
	}
	team.UpdatedAt = team.CreatedAt

	if s.teams == nil {
		return
	}

	var persisted Team
	persisted, err = s.teams.CreateTeam(ctx, team)
	if err != nil {
		err = mapTeamRepoError(err)
		return
	}

	team = persisted
	return
}

// ListTeams returns every team in creation order for any authenticated user.
func (s *TeamService) ListTeams(ctx context.Context, principal Principal) (teams []Team, err error) {
	if s == nil {
		err = fmt.Errorf("TeamService is nil")
		return
	}
	if s.teams == nil {
		return nil, nil
	}

	logger := s.loggerWith(ctx, "ListTeams",
		"principal_id", principal.UserID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list teams", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(teams)).InfoContext(ctx, "teams listed")
	}()

	teams, err = s.teams.ListTeams(ctx)
	return
}

// DeleteTeam removes an existing team when requested by an administrator.
// Reservations referencing the team are left in place.
func (s *TeamService) DeleteTeam(ctx context.Context, principal Principal, teamID string) error {
	if s == nil {
		return fmt.Errorf("TeamService is nil")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}
	if s.teams == nil {
		return fmt.Errorf("team repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteTeam",
		"principal_id", principal.UserID,
		"team_id", teamID,
	)

	if err := s.teams.DeleteTeam(ctx, teamID); err != nil {
		err = mapTeamRepoError(err)
		logger.ErrorContext(ctx, "failed to delete team", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "team deleted")
	return nil
}

// DeleteAllTeams clears the whole team roster when requested by an administrator.
func (s *TeamService) DeleteAllTeams(ctx context.Context, principal Principal) error {
	if s == nil {
		return fmt.Errorf("TeamService is nil")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}
	if s.teams == nil {
		return fmt.Errorf("team repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteAllTeams",
		"principal_id", principal.UserID,
	)

	if err := s.teams.DeleteAllTeams(ctx); err != nil {
		logger.ErrorContext(ctx, "failed to delete all teams", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "all teams deleted")
	return nil
}

func mapTeamRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrAlreadyExists
	}
	return err
}
