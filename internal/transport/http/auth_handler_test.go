package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/njprem/Portfolio_APP_BackEnd/internal/domain"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/service"
	"github.com/njprem/Portfolio_APP_BackEnd/internal/token"
)

func TestRefreshTokenServedOnPost(t *testing.T) {
	user := &domain.User{ID: uuid.New(), Email: "a@b.co", Role: domain.RoleUser, Active: true}
	repo := &stubUserRepo{user: user}
	tokens := token.NewManager("access", "refresh", "reset")
	auth := service.NewAuthService(repo, tokens, noopMailer{}, "", zerolog.Nop())

	e := NewRouter([]string{"*"}, zerolog.Nop(), false)
	RegisterAuth(e, auth, false, nil)

	refresh, err := tokens.IssueRefresh(user.ID, user.Role)
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh-token", nil)
	req.Header.Set("Authorization", "Refresh "+refresh)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if _, err := tokens.Verify(body.Token, token.KindAccess); err != nil {
		t.Errorf("minted token does not verify as access: %v", err)
	}
}
