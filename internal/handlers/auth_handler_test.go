package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/P4t4m8n/buff-buddy-api/internal/models"
	"github.com/P4t4m8n/buff-buddy-api/internal/services"
)

type stubAuthService struct {
	result       *services.AuthResult
	err          error
	signUpCalls  int
	lastSignIn   models.SignInInput
	lastCode     string
	lastVerifier string
}

func (s *stubAuthService) SignUp(_ context.Context, _ models.SignUpInput) (*services.AuthResult, error) {
	s.signUpCalls++
	return s.result, s.err
}

func (s *stubAuthService) SignIn(_ context.Context, input models.SignInInput) (*services.AuthResult, error) {
	s.lastSignIn = input
	return s.result, s.err
}

func (s *stubAuthService) UpdateProfile(_ context.Context, actor models.Actor, input models.UpdateUserInput) (*models.SessionUser, error) {
	return &models.SessionUser{ID: actor.UserID, FirstName: input.FirstName}, s.err
}

func (s *stubAuthService) ChangePassword(_ context.Context, _ models.Actor, _ models.ChangePasswordInput) error {
	return s.err
}

func (s *stubAuthService) BeginExternalSignIn() (*services.ExternalAuthRequest, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &services.ExternalAuthRequest{
		URL:      "https://accounts.google.com/o/oauth2/auth?state=abc",
		State:    "abc",
		Verifier: "verifier-1",
	}, nil
}

func (s *stubAuthService) ExternalSignIn(_ context.Context, code, verifier string) (*services.AuthResult, error) {
	s.lastCode = code
	s.lastVerifier = verifier
	return s.result, s.err
}

func newAuthApp(service *stubAuthService, user *models.SessionUser) *fiber.App {
	handler := NewAuthHandler(service, nil, true, "http://localhost:5173")
	app := fiber.New()
	withUser(app, user)
	app.Post("/auth/sign-up", handler.SignUp)
	app.Post("/auth/sign-in", handler.SignIn)
	app.Post("/auth/sign-out", handler.SignOut)
	app.Get("/auth/session-user", handler.SessionUser)
	app.Put("/auth/me", handler.UpdateMe)
	app.Get("/auth/google", handler.GoogleRedirect)
	app.Get("/auth/google/callback", handler.GoogleCallback)
	return app
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func TestSignUpRejectsMismatchedPasswords(t *testing.T) {
	service := &stubAuthService{}
	app := newAuthApp(service, nil)

	resp, body := doJSON(t, app, http.MethodPost, "/auth/sign-up", `{
		"email": "lifter@example.com",
		"password": "Passw0rd!",
		"confirmPassword": "Passw0rd?",
		"firstName": "Ada",
		"lastName": "Lovelace"
	}`)

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if body.Errors["confirmPassword"] != "Passwords do not match" {
		t.Fatalf("unexpected errors %v", body.Errors)
	}
	if service.signUpCalls != 0 {
		t.Fatal("expected service not to be called")
	}
}

func TestSignInSetsSessionCookie(t *testing.T) {
	service := &stubAuthService{result: &services.AuthResult{
		User:  &models.SessionUser{ID: "user-1", Email: "lifter@example.com"},
		Token: "signed-token",
	}}
	app := newAuthApp(service, nil)

	resp, body := doJSON(t, app, http.MethodPost, "/auth/sign-in", `{"email": " Lifter@Example.com ", "password": "Passw0rd!"}`)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", resp.StatusCode, body.Errors)
	}
	if service.lastSignIn.Email != "lifter@example.com" {
		t.Fatalf("expected normalized email, got %q", service.lastSignIn.Email)
	}
	cookie := findCookie(resp, "token")
	if cookie == nil || cookie.Value != "signed-token" {
		t.Fatalf("expected token cookie, got %v", resp.Cookies())
	}
	if !cookie.HttpOnly || !cookie.Secure || cookie.SameSite != http.SameSiteStrictMode {
		t.Fatalf("unexpected cookie attributes %+v", cookie)
	}
	if cookie.MaxAge != 7*24*60*60 {
		t.Fatalf("expected 7 day cookie, got %d", cookie.MaxAge)
	}
}

func TestSignInUnknownAccountIsUnauthorized(t *testing.T) {
	app := newAuthApp(&stubAuthService{err: services.ErrAccountNotFound}, nil)

	resp, body := doJSON(t, app, http.MethodPost, "/auth/sign-in", `{"email": "a@b.co", "password": "x"}`)

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if body.Message != "Invalid email or password" {
		t.Fatalf("unexpected message %q", body.Message)
	}
}

func TestSessionUserRequiresSession(t *testing.T) {
	resp, _ := doJSON(t, newAuthApp(&stubAuthService{}, nil), http.MethodGet, "/auth/session-user", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	user := &models.SessionUser{ID: "user-1", Email: "lifter@example.com"}
	resp, body := doJSON(t, newAuthApp(&stubAuthService{}, user), http.MethodGet, "/auth/session-user", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(body.Data), `"lifter@example.com"`) {
		t.Fatalf("unexpected data %s", body.Data)
	}
}

func TestSignOutClearsCookie(t *testing.T) {
	resp, _ := doJSON(t, newAuthApp(&stubAuthService{}, nil), http.MethodPost, "/auth/sign-out", "")

	cookie := findCookie(resp, "token")
	if cookie == nil || cookie.Value != "" || cookie.Expires.After(time.Now()) {
		t.Fatalf("expected expired token cookie, got %+v", cookie)
	}
}

func TestGoogleRedirectStoresState(t *testing.T) {
	app := newAuthApp(&stubAuthService{}, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/auth/google", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusTemporaryRedirect {
		t.Fatalf("expected 307, got %d", resp.StatusCode)
	}
	if !strings.HasPrefix(resp.Header.Get("Location"), "https://accounts.google.com/") {
		t.Fatalf("unexpected location %q", resp.Header.Get("Location"))
	}
	if cookie := findCookie(resp, "oauth_state"); cookie == nil || cookie.Value != "abc" {
		t.Fatalf("expected state cookie, got %v", resp.Cookies())
	}
}

func TestGoogleCallbackChecksState(t *testing.T) {
	service := &stubAuthService{result: &services.AuthResult{
		User:  &models.SessionUser{ID: "user-1"},
		Token: "signed-token",
	}}
	app := newAuthApp(service, nil)

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=forged&code=c", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "abc"})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for mismatched state, got %d", resp.StatusCode)
	}
	if service.lastCode != "" {
		t.Fatal("expected no code exchange")
	}

	req = httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=abc&code=c", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "abc"})
	req.AddCookie(&http.Cookie{Name: "oauth_verifier", Value: "verifier-1"})
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.StatusCode)
	}
	if service.lastCode != "c" || service.lastVerifier != "verifier-1" {
		t.Fatalf("unexpected exchange input %q %q", service.lastCode, service.lastVerifier)
	}
	if cookie := findCookie(resp, "token"); cookie == nil || cookie.Value != "signed-token" {
		t.Fatalf("expected token cookie, got %v", resp.Cookies())
	}
}
