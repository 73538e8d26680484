package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/njprem/Portfolio_APP_BackEnd/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, email, name string, passwordHash, passwordSalt []byte, role domain.Role) (*domain.User, error)
	UpsertGoogleUser(ctx context.Context, email, name string, image *string, googleID string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, name *string, image *string) (*domain.User, error)

	// ChangePassword replaces the hash and bumps password_changed_at,
	// invalidating every token issued before the call.
	ChangePassword(ctx context.Context, id uuid.UUID, passwordHash, passwordSalt []byte) (*domain.User, error)
	// CreatePassword sets a first password on a password-less account. The
	// update is conditional on no hash being present; a concurrent or
	// repeated call finds no row.
	CreatePassword(ctx context.Context, id uuid.UUID, passwordHash, passwordSalt []byte) (*domain.User, error)

	// SetResetCode stores a new reset-code digest with its expiry,
	// overwriting any previous code and clearing the verified flag.
	SetResetCode(ctx context.Context, id uuid.UUID, codeHash string, expiresAt time.Time) error
	// VerifyResetCode flips the verified flag iff the digest matches and the
	// code has not expired. Returns false without mutating otherwise.
	VerifyResetCode(ctx context.Context, id uuid.UUID, codeHash string, now time.Time) (bool, error)
	// ResetPassword sets the new hash, clears all reset-code state and bumps
	// password_changed_at, conditional on a previously verified code.
	ResetPassword(ctx context.Context, id uuid.UUID, passwordHash, passwordSalt []byte) (*domain.User, error)
}
