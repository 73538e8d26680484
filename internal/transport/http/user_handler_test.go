package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/njprem/Portfolio_APP_BackEnd/internal/domain"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/query"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/repository/postgres"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/service"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/token"
)

// fakeResourceRepo serves one record and captures the fields of the last
// write.
type fakeResourceRepo[T any] struct {
	record *T
	fields map[string]any
}

func (r *fakeResourceRepo[T]) Select(context.Context, query.Options) ([]map[string]any, error) {
	return nil, nil
}
func (r *fakeResourceRepo[T]) SelectAll(context.Context, query.Options) ([]map[string]any, error) {
	return nil, nil
}
func (r *fakeResourceRepo[T]) Count(context.Context, query.Options) (int, error) { return 0, nil }
func (r *fakeResourceRepo[T]) FindByID(context.Context, uuid.UUID) (*T, error) {
	return r.record, nil
}
func (r *fakeResourceRepo[T]) Insert(_ context.Context, fields map[string]any) (*T, error) {
	r.fields = fields
	return r.record, nil
}
func (r *fakeResourceRepo[T]) UpdateByID(_ context.Context, _ uuid.UUID, fields map[string]any) (*T, error) {
	r.fields = fields
	return r.record, nil
}
func (r *fakeResourceRepo[T]) DeleteByID(context.Context, uuid.UUID) (*T, error) {
	return r.record, nil
}
func (r *fakeResourceRepo[T]) AddImages(context.Context, uuid.UUID, []string) (*T, error) {
	return r.record, nil
}
func (r *fakeResourceRepo[T]) RemoveImage(context.Context, uuid.UUID, string) (*T, error) {
	return r.record, nil
}

func TestUserUpdateServedOnPatch(t *testing.T) {
	admin := &domain.User{ID: uuid.New(), Email: "a@b.co", Role: domain.RoleAdmin, Active: true}
	repo := &stubUserRepo{user: admin}
	tokens := token.NewManager("access", "refresh", "reset")
	auth := service.NewAuthService(repo, tokens, noopMailer{}, "", zerolog.Nop())

	target := &domain.User{ID: uuid.New(), Email: "c@d.co", Role: domain.RoleUser, Active: true}
	accounts := &fakeResourceRepo[domain.User]{record: target}
	crud := service.NewCrudService[domain.User](accounts, postgres.UserSpec, nil, "", nil, zerolog.Nop())
	users := service.NewUserService(crud, repo)

	e := NewRouter([]string{"*"}, zerolog.Nop(), false)
	RegisterUsers(e, auth, users)

	access, err := tokens.IssueAccess(admin.ID, admin.Role)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/users/"+target.ID.String(), strings.NewReader(`{"name":"Beta"}`))
	req.Header.Set("Authorization", "Bearer "+access)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("PATCH status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if accounts.fields["name"] != "Beta" {
		t.Errorf("persisted fields = %v", accounts.fields)
	}
}
