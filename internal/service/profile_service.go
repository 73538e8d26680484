package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/njprem/Portfolio_APP_BackEnd/internal/apperr"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/domain"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/repository/ports"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/token"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/util"
)

type ProfileService struct {
	users  ports.UserRepository
	tokens *token.Manager
}

func NewProfileService(users ports.UserRepository, tokens *token.Manager) *ProfileService {
	return &ProfileService{users: users, tokens: tokens}
}

func (s *ProfileService) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.NotFound, "document not found")
		}
		return nil, err
	}
	return user, nil
}

func (s *ProfileService) Update(ctx context.Context, id uuid.UUID, name, image *string) (*domain.User, error) {
	user, err := s.users.UpdateProfile(ctx, id, name, image)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.NotFound, "document not found")
		}
		return nil, err
	}
	return user, nil
}

// CreatePassword gives an OAuth-only account its first password. The update
// is conditional on the account having none; a lost race or a repeat call
// is rejected rather than silently overwriting.
func (s *ProfileService) CreatePassword(ctx context.Context, id uuid.UUID, password string) (*domain.User, error) {
	if err := util.ValidatePassword(password); err != nil {
		return nil, apperr.Wrap(apperr.Validation, err.Error(), err)
	}
	hash, salt, err := util.DerivePassword(password)
	if err != nil {
		return nil, err
	}
	user, err := s.users.CreatePassword(ctx, id, hash, salt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.Forbidden, "account already has a password")
		}
		return nil, err
	}
	return user, nil
}

// ChangePassword replaces the caller's password and returns a fresh access
// token, since the bump of password_changed_at invalidates the one used to
// make this request.
func (s *ProfileService) ChangePassword(ctx context.Context, id uuid.UUID, password string) (*domain.User, string, error) {
	if err := util.ValidatePassword(password); err != nil {
		return nil, "", apperr.Wrap(apperr.Validation, err.Error(), err)
	}
	hash, salt, err := util.DerivePassword(password)
	if err != nil {
		return nil, "", err
	}
	user, err := s.users.ChangePassword(ctx, id, hash, salt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", apperr.New(apperr.NotFound, "document not found")
		}
		return nil, "", err
	}
	access, err := s.tokens.IssueAccess(user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, access, nil
}
