package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	authdomain "github.com/dlsistemas/comisiones/internal/auth/domain"
)

type fakeAuthService struct {
	loginErr    error
	validTokens map[string]bool
	loginCalls  int
}

func (f *fakeAuthService) Login(ctx context.Context, username, password string) (*authdomain.Session, error) {
	f.loginCalls++
	_ = ctx
	_ = username
	_ = password
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &authdomain.Session{
		Token:     "session-token",
		ExpiresAt: time.Now().Add(12 * time.Hour),
	}, nil
}

func (f *fakeAuthService) Logout(ctx context.Context, token string) {
	_ = ctx
	delete(f.validTokens, token)
}

func (f *fakeAuthService) Validate(ctx context.Context, token string) bool {
	_ = ctx
	return f.validTokens[token]
}

func newAuthRouter(svc authdomain.Service) (*Server, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	srv := &Server{authSvc: svc}
	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/auth/login", srv.Login)
	return srv, router
}

func TestLoginReturnsSession(t *testing.T) {
	svc := &fakeAuthService{}
	_, router := newAuthRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(`{"username":"admin","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var body struct {
		Data authdomain.Session `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Data.Token != "session-token" {
		t.Fatalf("expected session token, got %q", body.Data.Token)
	}
	if svc.loginCalls != 1 {
		t.Fatalf("expected one login call, got %d", svc.loginCalls)
	}
}

func TestLoginInvalidCredentialsReturns401(t *testing.T) {
	svc := &fakeAuthService{loginErr: authdomain.ErrInvalidCredentials}
	_, router := newAuthRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(`{"username":"admin","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}
}

func TestLoginLockedOutReturns429(t *testing.T) {
	svc := &fakeAuthService{loginErr: authdomain.ErrLockedOut}
	_, router := newAuthRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(`{"username":"admin","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", resp.Code)
	}
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &Server{authSvc: &fakeAuthService{validTokens: map[string]bool{"good": true}}}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.GET("/api/settings", srv.RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/api/settings", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/settings", nil)
	req.Header.Set("Authorization", "Bearer bad")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 for unknown token, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/settings", nil)
	req.Header.Set("Authorization", "Bearer good")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for valid token, got %d", resp.Code)
	}
}
