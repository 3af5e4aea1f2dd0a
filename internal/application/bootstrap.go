package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// AccountSeeder exposes the credential operations needed to seed fixed accounts.
type AccountSeeder interface {
	GetUserCredentialsByUsername(ctx context.Context, username string) (UserCredentials, error)
	CreateUserCredentials(ctx context.Context, creds UserCredentials) (User, error)
}

type seedAccount struct {
	Username    string
	DisplayName string
	Password    string
	Role        Role
}

// defaultAccounts are the two fixed accounts the service ships with.
var defaultAccounts = []seedAccount{
	{Username: "Admin", DisplayName: "Administrator", Password: "SkyEngPro_Admin", Role: RoleAdmin},
	{Username: "Users", DisplayName: "Standard User", Password: "SkyEngPro", Role: RoleUser},
}

// EnsureDefaultAccounts creates the fixed accounts on first start. Accounts
// that already exist are left untouched, so role promotions survive restarts.
func EnsureDefaultAccounts(ctx context.Context, store AccountSeeder, idGenerator func() string, now func() time.Time, logger *slog.Logger) error {
	if store == nil {
		return fmt.Errorf("account store not configured")
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	logger = defaultLogger(logger)

	for _, account := range defaultAccounts {
		_, err := store.GetUserCredentialsByUsername(ctx, account.Username)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("look up account %s: %w", account.Username, err)
		}

		hash, err := CreatePasswordHash(account.Password, DefaultArgon2idParams)
		if err != nil {
			return fmt.Errorf("hash password for account %s: %w", account.Username, err)
		}

		created := now()
		user, err := store.CreateUserCredentials(ctx, UserCredentials{
			User: User{
				ID:          idGenerator(),
				Username:    account.Username,
				DisplayName: account.DisplayName,
				Role:        account.Role,
				CreatedAt:   created,
				UpdatedAt:   created,
			},
			PasswordHash: hash,
		})
		if err != nil {
			if errors.Is(err, ErrAlreadyExists) {
				continue
			}
			return fmt.Errorf("create account %s: %w", account.Username, err)
		}

		logger.InfoContext(ctx, "seeded account", "user_id", user.ID, "username", user.Username, "role", string(user.Role))
	}

	return nil
}
