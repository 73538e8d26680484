package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/njprem/Portfolio_APP_BackEnd/internal/apperr"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/domain"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/repository/ports"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/util"
)

// UserService is the admin-facing account management surface. Listing and
// generic mutations ride the shared CRUD layer; credential operations go
// through the user repository so hashing and freshness stay in one place.
type UserService struct {
	crud  *CrudService[domain.User]
	users ports.UserRepository
}

func NewUserService(crud *CrudService[domain.User], users ports.UserRepository) *UserService {
	return &UserService{crud: crud, users: users}
}

func (s *UserService) Crud() *CrudService[domain.User] { return s.crud }

func (s *UserService) Create(ctx context.Context, email, name, password string, role domain.Role) (*domain.User, error) {
	if err := util.ValidatePassword(password); err != nil {
		return nil, apperr.Wrap(apperr.Validation, err.Error(), err)
	}
	hash, salt, err := util.DerivePassword(password)
	if err != nil {
		return nil, err
	}
	user, err := s.users.Create(ctx, email, name, hash, salt, role)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, apperr.New(apperr.Validation, "email already in use")
		}
		return nil, err
	}
	return user, nil
}

// ChangePassword sets a new password on behalf of an admin. The bump of
// password_changed_at forces the target user to log in again.
func (s *UserService) ChangePassword(ctx context.Context, id uuid.UUID, password string) (*domain.User, error) {
	if err := util.ValidatePassword(password); err != nil {
		return nil, apperr.Wrap(apperr.Validation, err.Error(), err)
	}
	hash, salt, err := util.DerivePassword(password)
	if err != nil {
		return nil, err
	}
	user, err := s.users.ChangePassword(ctx, id, hash, salt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.NotFound, "document not found")
		}
		return nil, err
	}
	return user, nil
}
