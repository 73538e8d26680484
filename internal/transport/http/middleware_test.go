package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/njprem/Portfolio_APP_BackEnd/internal/domain"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/service"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/token"
)

// stubUserRepo serves a single user by id; everything else is unsupported.
type stubUserRepo struct {
	user *domain.User
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	if r.user != nil && r.user.ID == id {
		return r.user, nil
	}
	return nil, sql.ErrNoRows
}

func (r *stubUserRepo) Create(context.Context, string, string, []byte, []byte, domain.Role) (*domain.User, error) {
	return nil, sql.ErrNoRows
}
func (r *stubUserRepo) UpsertGoogleUser(context.Context, string, string, *string, string) (*domain.User, error) {
	return nil, sql.ErrNoRows
}
func (r *stubUserRepo) FindByEmail(context.Context, string) (*domain.User, error) {
	return nil, sql.ErrNoRows
}
func (r *stubUserRepo) UpdateProfile(context.Context, uuid.UUID, *string, *string) (*domain.User, error) {
	return nil, sql.ErrNoRows
}
func (r *stubUserRepo) ChangePassword(context.Context, uuid.UUID, []byte, []byte) (*domain.User, error) {
	return nil, sql.ErrNoRows
}
func (r *stubUserRepo) CreatePassword(context.Context, uuid.UUID, []byte, []byte) (*domain.User, error) {
	return nil, sql.ErrNoRows
}
func (r *stubUserRepo) SetResetCode(context.Context, uuid.UUID, string, time.Time) error {
	return sql.ErrNoRows
}
func (r *stubUserRepo) VerifyResetCode(context.Context, uuid.UUID, string, time.Time) (bool, error) {
	return false, nil
}
func (r *stubUserRepo) ResetPassword(context.Context, uuid.UUID, []byte, []byte) (*domain.User, error) {
	return nil, sql.ErrNoRows
}

type noopMailer struct{}

func (noopMailer) SendResetCode(context.Context, string, string) error { return nil }

func newTestServer(t *testing.T, role domain.Role, active bool) (*stubUserRepo, *token.Manager, http.Handler) {
	t.Helper()
	repo := &stubUserRepo{user: &domain.User{
		ID:     uuid.New(),
		Email:  "a@b.co",
		Name:   "Ada",
		Role:   role,
		Active: active,
	}}
	tokens := token.NewManager("access", "refresh", "reset")
	auth := service.NewAuthService(repo, tokens, noopMailer{}, "", zerolog.Nop())

	e := NewRouter([]string{"*"}, zerolog.Nop(), false)
	g := e.Group("/secure", RequireAuth(auth), CheckActive(), AllowedTo(domain.RoleAdmin))
	g.GET("", func(c echo.Context) error {
		user, _ := CurrentUser(c)
		return c.JSON(http.StatusOK, map[string]any{"id": user.ID})
	})
	return repo, tokens, e
}

func doRequest(handler http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, rec.Body.String())
	}
	return body
}

func TestRequireAuthMissingHeader(t *testing.T) {
	_, _, handler := newTestServer(t, domain.RoleAdmin, true)
	rec := doRequest(handler, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	body := decodeError(t, rec)
	if body.Status != "fail" || body.StatusCode != http.StatusUnauthorized {
		t.Errorf("body = %+v", body)
	}
}

func TestRequireAuthValidToken(t *testing.T) {
	repo, tokens, handler := newTestServer(t, domain.RoleAdmin, true)
	access, err := tokens.IssueAccess(repo.user.ID, repo.user.Role)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	rec := doRequest(handler, "Bearer "+access)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestRequireAuthRejectsRefreshToken(t *testing.T) {
	repo, tokens, handler := newTestServer(t, domain.RoleAdmin, true)
	refresh, err := tokens.IssueRefresh(repo.user.ID, repo.user.Role)
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}
	rec := doRequest(handler, "Bearer "+refresh)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAllowedToRejectsNonAdmin(t *testing.T) {
	repo, tokens, handler := newTestServer(t, domain.RoleUser, true)
	access, err := tokens.IssueAccess(repo.user.ID, repo.user.Role)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	rec := doRequest(handler, "Bearer "+access)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if body := decodeError(t, rec); body.Status != "fail" {
		t.Errorf("status word = %q, want fail", body.Status)
	}
}

func TestCheckActiveRejectsDeactivated(t *testing.T) {
	repo, tokens, handler := newTestServer(t, domain.RoleAdmin, false)
	access, err := tokens.IssueAccess(repo.user.ID, repo.user.Role)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	rec := doRequest(handler, "Bearer "+access)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestUnknownRoute(t *testing.T) {
	_, _, handler := newTestServer(t, domain.RoleAdmin, true)
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	body := decodeError(t, rec)
	if body.Message != "route not found" {
		t.Errorf("message = %q", body.Message)
	}
}
