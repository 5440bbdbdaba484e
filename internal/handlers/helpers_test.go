package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/P4t4m8n/buff-buddy-api/internal/models"
)

const (
	programID  = "7d2f9f3c-5a4e-4a53-9c49-8f2b3e1d6a10"
	exerciseID = "0b6f4a2e-1c3d-4e5f-8a9b-0c1d2e3f4a5b"
)

type envelope struct {
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

// withUser mounts a stand-in for the session middleware.
func withUser(app *fiber.App, user *models.SessionUser) {
	app.Use(func(c *fiber.Ctx) error {
		if user != nil {
			c.Locals("session_user", user)
		}
		return c.Next()
	})
}

func doJSON(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, envelope) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test %s %s: %v", method, target, err)
	}
	defer resp.Body.Close()

	var decoded envelope
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode body %q: %v", raw, err)
		}
	}
	return resp, decoded
}
