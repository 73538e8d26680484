package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"google.golang.org/api/idtoken"

	"github.com/njprem/Portfolio_APP_BackEnd/internal/apperr"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/domain"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/repository/ports"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/token"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/util"
)

// ResetCodeTTL bounds how long an emailed reset code stays redeemable.
const ResetCodeTTL = 10 * time.Minute

const uniqueViolation = "23505"

// ResetCodeMailer is the out-of-band delivery channel for reset codes.
type ResetCodeMailer interface {
	SendResetCode(ctx context.Context, email, code string) error
}

type TokenPair struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type AuthService struct {
	users     ports.UserRepository
	tokens    *token.Manager
	mailer    ResetCodeMailer
	googleAud string
	log       zerolog.Logger
	now       func() time.Time

	// validateGoogleToken is swapped in tests; production uses the Google
	// idtoken verifier.
	validateGoogleToken func(ctx context.Context, idTok, audience string) (*idtoken.Payload, error)
}

func NewAuthService(users ports.UserRepository, tokens *token.Manager, mailer ResetCodeMailer, googleAud string, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:               users,
		tokens:              tokens,
		mailer:              mailer,
		googleAud:           googleAud,
		log:                 log,
		now:                 time.Now,
		validateGoogleToken: idtoken.Validate,
	}
}

func (s *AuthService) Signup(ctx context.Context, email, name, password string) (*domain.User, TokenPair, error) {
	if err := util.ValidatePassword(password); err != nil {
		return nil, TokenPair{}, apperr.Wrap(apperr.Validation, err.Error(), err)
	}
	hash, salt, err := util.DerivePassword(password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	user, err := s.users.Create(ctx, email, name, hash, salt, domain.RoleUser)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, TokenPair{}, apperr.New(apperr.Validation, "email already in use")
		}
		return nil, TokenPair{}, err
	}
	pair, err := s.issuePair(user)
	return user, pair, err
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, TokenPair, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, TokenPair{}, apperr.New(apperr.InvalidCredentials, "incorrect email or password")
		}
		return nil, TokenPair{}, err
	}
	if !user.HasPassword() || !util.VerifyPassword(password, user.PasswordSalt, user.PasswordHash) {
		return nil, TokenPair{}, apperr.New(apperr.InvalidCredentials, "incorrect email or password")
	}
	if !user.Active {
		return nil, TokenPair{}, apperr.New(apperr.Forbidden, "account is deactivated")
	}
	pair, err := s.issuePair(user)
	return user, pair, err
}

// AdminLogin is the login variant for the admin panel: identical checks plus
// a role requirement, reported as bad credentials to avoid confirming that
// an email belongs to an administrator.
func (s *AuthService) AdminLogin(ctx context.Context, email, password string) (*domain.User, TokenPair, error) {
	user, pair, err := s.Login(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	if user.Role != domain.RoleAdmin {
		return nil, TokenPair{}, apperr.New(apperr.InvalidCredentials, "incorrect email or password")
	}
	return user, pair, nil
}

func (s *AuthService) LoginWithGoogle(ctx context.Context, idTok string) (*domain.User, TokenPair, error) {
	payload, err := s.validateGoogleToken(ctx, idTok, s.googleAud)
	if err != nil {
		return nil, TokenPair{}, apperr.Wrap(apperr.InvalidCredentials, "invalid google token", err)
	}
	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	if email == "" {
		return nil, TokenPair{}, apperr.New(apperr.InvalidCredentials, "invalid google token")
	}
	var image *string
	if picture, ok := payload.Claims["picture"].(string); ok && picture != "" {
		image = &picture
	}
	user, err := s.users.UpsertGoogleUser(ctx, email, name, image, payload.Subject)
	if err != nil {
		return nil, TokenPair{}, err
	}
	if !user.Active {
		return nil, TokenPair{}, apperr.New(apperr.Forbidden, "account is deactivated")
	}
	pair, err := s.issuePair(user)
	return user, pair, err
}

// Refresh exchanges a refresh token for a new access token. Any failure
// means the client session is stale and must be cleared.
func (s *AuthService) Refresh(refreshToken string) (string, error) {
	return s.tokens.Refresh(refreshToken)
}

// Authenticate resolves a bearer access token to a live user: valid
// signature and lifetime, an existing subject, and no password change after
// issuance. Role and active checks belong to the route middleware.
func (s *AuthService) Authenticate(ctx context.Context, bearer string) (*domain.User, error) {
	claims, err := s.tokens.Verify(bearer, token.KindAccess)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.InvalidToken, "user no longer exists")
		}
		return nil, err
	}
	if !user.PasswordFresh(claims.IssuedAt.Unix()) {
		return nil, apperr.New(apperr.InvalidToken, "password changed recently, please log in again")
	}
	return user, nil
}

// ForgotPassword starts the reset flow: a fresh 6-digit code is emailed and
// stored (digest only), and a short-lived reset token scoping the rest of
// the flow to this user is returned. The code is persisted only after a
// successful send so an email failure leaves no dangling state.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", apperr.New(apperr.Validation, "no account found with that email")
		}
		return "", err
	}

	code, err := util.GenerateResetCode()
	if err != nil {
		return "", err
	}
	if err := s.mailer.SendResetCode(ctx, user.Email, code); err != nil {
		s.log.Error().Err(err).Str("email", user.Email).Msg("send reset code")
		return "", apperr.Wrap(apperr.Upstream, "failed to send reset email", err)
	}
	if err := s.users.SetResetCode(ctx, user.ID, util.HashResetCode(code), s.now().Add(ResetCodeTTL)); err != nil {
		return "", err
	}
	return s.tokens.IssueReset(user.ID)
}

// VerifyResetCode checks the submitted code against the stored digest. The
// verified flag flips in the same conditional update that checks the digest
// and the expiry, so nothing mutates on a miss.
func (s *AuthService) VerifyResetCode(ctx context.Context, resetToken, code string) error {
	claims, err := s.tokens.Verify(resetToken, token.KindReset)
	if err != nil {
		return err
	}
	ok, err := s.users.VerifyResetCode(ctx, claims.UserID, util.HashResetCode(code), s.now())
	if err != nil {
		return err
	}
	if !ok {
		return apperr.New(apperr.Validation, "reset code is invalid or expired")
	}
	return nil
}

// ResetPassword completes the flow. It requires a verified code for the
// token's subject; the update clears all reset state and bumps
// password_changed_at, invalidating every previously issued token. A fresh
// pair is issued so the client lands logged in.
func (s *AuthService) ResetPassword(ctx context.Context, resetToken, password string) (*domain.User, TokenPair, error) {
	claims, err := s.tokens.Verify(resetToken, token.KindReset)
	if err != nil {
		return nil, TokenPair{}, err
	}
	if err := util.ValidatePassword(password); err != nil {
		return nil, TokenPair{}, apperr.Wrap(apperr.Validation, err.Error(), err)
	}
	hash, salt, err := util.DerivePassword(password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	user, err := s.users.ResetPassword(ctx, claims.UserID, hash, salt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, TokenPair{}, apperr.New(apperr.Forbidden, "reset code has not been verified")
		}
		return nil, TokenPair{}, err
	}
	pair, err := s.issuePair(user)
	return user, pair, err
}

func (s *AuthService) issuePair(user *domain.User) (TokenPair, error) {
	access, err := s.tokens.IssueAccess(user.ID, user.Role)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.tokens.IssueRefresh(user.ID, user.Role)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Token: access, RefreshToken: refresh}, nil
}
