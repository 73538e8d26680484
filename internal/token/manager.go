package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/njprem/Portfolio_APP_BackEnd/internal/apperr"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/domain"
)

// Kind selects the signing secret and the fixed lifetime of a token. The
// lifetimes are deliberately constants: the verifier checks exp-iat against
// them exactly, so a token signed with one kind's secret can never pass as
// another kind even if the secrets were ever reused.
type Kind int

const (
	KindAccess Kind = iota
	KindRefresh
	KindReset
)

const (
	AccessTTL  = 24 * time.Hour
	RefreshTTL = 30 * 24 * time.Hour
	ResetTTL   = 30 * time.Minute
)

func (k Kind) ttl() time.Duration {
	switch k {
	case KindRefresh:
		return RefreshTTL
	case KindReset:
		return ResetTTL
	default:
		return AccessTTL
	}
}

type Claims struct {
	UserID uuid.UUID   `json:"_id"`
	Role   domain.Role `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type Manager struct {
	accessSecret  []byte
	refreshSecret []byte
	resetSecret   []byte
	now           func() time.Time
}

func NewManager(accessSecret, refreshSecret, resetSecret string) *Manager {
	return &Manager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		resetSecret:   []byte(resetSecret),
		now:           time.Now,
	}
}

func (m *Manager) secret(kind Kind) []byte {
	switch kind {
	case KindRefresh:
		return m.refreshSecret
	case KindReset:
		return m.resetSecret
	default:
		return m.accessSecret
	}
}

func (m *Manager) IssueAccess(userID uuid.UUID, role domain.Role) (string, error) {
	return m.issue(KindAccess, userID, role)
}

func (m *Manager) IssueRefresh(userID uuid.UUID, role domain.Role) (string, error) {
	return m.issue(KindRefresh, userID, role)
}

// IssueReset mints the capability token that scopes the reset workflow to a
// single subject. It carries no role and never satisfies the access check.
func (m *Manager) IssueReset(userID uuid.UUID) (string, error) {
	return m.issue(KindReset, userID, "")
}

func (m *Manager) issue(kind Kind, userID uuid.UUID, role domain.Role) (string, error) {
	issuedAt := m.now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(kind.ttl())),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(m.secret(kind))
}

// Verify parses and validates a token of the expected kind. Beyond the
// signature and absolute expiry, the issuance delta must equal the kind's
// lifetime exactly; any other delta means the claims were re-signed or the
// token belongs to a different kind.
func (m *Manager) Verify(tokenString string, kind Kind) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret(kind), nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, apperr.Wrap(apperr.InvalidToken, "invalid or expired token", err)
	}
	if !tok.Valid {
		return nil, apperr.New(apperr.InvalidToken, "invalid or expired token")
	}
	if err := checkDelta(claims, kind); err != nil {
		return nil, err
	}
	return claims, nil
}

// Refresh exchanges a refresh token for a new access token. Mirroring the
// login flow it decodes the claims without signature verification, then
// re-checks the issuance delta and the absolute expiry; any malformed,
// expired or wrong-delta token yields InvalidToken and the caller must clear
// the client session.
func (m *Manager) Refresh(refreshToken string) (string, error) {
	if refreshToken == "" || refreshToken == "null" {
		return "", apperr.New(apperr.InvalidToken, "invalid or expired token")
	}
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(refreshToken, claims); err != nil {
		return "", apperr.Wrap(apperr.InvalidToken, "invalid or expired token", err)
	}
	if err := checkDelta(claims, KindRefresh); err != nil {
		return "", err
	}
	if claims.ExpiresAt.Time.Before(m.now()) {
		return "", apperr.New(apperr.InvalidToken, "invalid or expired token")
	}
	return m.IssueAccess(claims.UserID, claims.Role)
}

func checkDelta(claims *Claims, kind Kind) error {
	if claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return apperr.New(apperr.InvalidToken, "invalid or expired token")
	}
	delta := claims.ExpiresAt.Unix() - claims.IssuedAt.Unix()
	if delta != int64(kind.ttl()/time.Second) {
		return apperr.New(apperr.InvalidToken, "invalid or expired token")
	}
	return nil
}
