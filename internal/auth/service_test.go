package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

const testSecret = "test-secret-key-for-testing-only"

func newTestService() (*Service, *InMemoryUserRepository) {
	repo := NewInMemoryUserRepository()
	return NewService(repo, NewTokens(testSecret, time.Hour), nil), repo
}

func TestPasswordIsHashedBeforeSaving(t *testing.T) {
	service, repo := newTestService()

	password := "Password@123"

	_, err := service.Register(context.Background(), "Test User", "test@example.com", password, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	user := repo.users["test@example.com"]
	if user == nil {
		t.Fatalf("user not found")
	}

	if user.Password == password {
		t.Fatalf("password was stored in plain text")
	}
	if user.Role != RoleSupervisor {
		t.Fatalf("default role %q", user.Role)
	}
}

func TestRegister_Errors(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	if _, err := service.Register(ctx, "", "a@b.c", "x", ""); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("got %v", err)
	}
	if _, err := service.Register(ctx, "A", "a@b.c", "x", "OWNER"); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("got %v", err)
	}
	if _, err := service.Register(ctx, "A", "a@b.c", "x", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := service.Register(ctx, "A", "A@B.C ", "x", ""); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("got %v", err)
	}
}

func TestLogin(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	if _, err := service.Register(ctx, "Ana", "ana@example.com", "secret", RoleAdmin); err != nil {
		t.Fatal(err)
	}

	if _, _, err := service.Login(ctx, "ana@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: %v", err)
	}
	if _, _, err := service.Login(ctx, "nobody@example.com", "secret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user: %v", err)
	}

	user, token, err := service.Login(ctx, "ana@example.com", "secret")
	if err != nil {
		t.Fatal(err)
	}

	claims, err := service.tokens.Validate(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != user.ID || claims.Role != RoleAdmin {
		t.Fatalf("claims %+v", claims)
	}
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	service, repo := newTestService()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := service.EnsureAdmin(ctx, "admin@example.com", "pw"); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
	if len(repo.users) != 1 || repo.users["admin@example.com"].Role != RoleAdmin {
		t.Fatalf("users %v", repo.users)
	}
	if err := service.EnsureAdmin(ctx, "", ""); err != nil {
		t.Fatal(err)
	}
}

func TestTokens(t *testing.T) {
	tokens := NewTokens(testSecret, time.Hour)

	if _, err := tokens.Generate("", "a@b.c", RoleAdmin); err == nil {
		t.Fatal("expected error for empty user id")
	}

	tok, err := tokens.Generate("u1", "a@b.c", RoleSupervisor)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewTokens("other-secret", time.Hour).Validate(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("foreign secret: %v", err)
	}

	expired := NewTokens(testSecret, time.Hour)
	expired.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := expired.Validate(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired token: %v", err)
	}
}

func setupTestRouter() (*gin.Engine, *Service) {
	gin.SetMode(gin.TestMode)
	service, _ := newTestService()
	h := NewHandler(service)

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	return r, service
}

func postJSON(r *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterHandler(t *testing.T) {
	r, _ := setupTestRouter()

	payload := map[string]string{
		"name":     "Test User",
		"email":    "test@example.com",
		"password": "Password@123",
	}

	if w := postJSON(r, "/auth/register", payload); w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", w.Code)
	}
	if w := postJSON(r, "/auth/register", payload); w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", w.Code)
	}
	if w := postJSON(r, "/auth/register", map[string]string{"email": "x@y.z"}); w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestLoginHandler(t *testing.T) {
	r, service := setupTestRouter()
	if _, err := service.Register(context.Background(), "Ana", "ana@example.com", "secret", ""); err != nil {
		t.Fatal(err)
	}

	w := postJSON(r, "/auth/login", map[string]string{"email": "ana@example.com", "password": "secret"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var resp struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Token == "" || resp.User.Email != "ana@example.com" {
		t.Fatalf("response %s", w.Body.String())
	}
	if bytes.Contains(w.Body.Bytes(), []byte("password")) {
		t.Fatal("password hash leaked in response")
	}

	w = postJSON(r, "/auth/login", map[string]string{"email": "ana@example.com", "password": "nope"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}
