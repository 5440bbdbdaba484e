package observability

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareRecordsRoutePattern(t *testing.T) {
	metrics := NewMetrics()
	app := fiber.New()
	app.Use(metrics.Middleware())
	app.Get("/programs/:id", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/metrics", metrics.Handler())

	for _, id := range []string{"a", "b"} {
		resp, err := app.Test(httptest.NewRequest("GET", "/programs/"+id, nil))
		if err != nil {
			t.Fatalf("app.Test returned error: %v", err)
		}
		resp.Body.Close()
	}

	got := testutil.ToFloat64(metrics.requests.WithLabelValues("GET", "/programs/:id", "204"))
	if got != 2 {
		t.Fatalf("expected 2 requests recorded, got %v", got)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	if err != nil {
		t.Fatalf("app.Test returned error: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "buff_buddy_http_requests_total") {
		t.Fatalf("expected metrics output to contain request counter")
	}
}

func TestReconciledCounter(t *testing.T) {
	metrics := NewMetrics()
	metrics.Reconciled("core_set", "create")
	metrics.Reconciled("core_set", "create")
	metrics.Reconciled("program_exercise", "delete")

	if got := testutil.ToFloat64(metrics.reconciled.WithLabelValues("core_set", "create")); got != 2 {
		t.Fatalf("expected 2 core set creates, got %v", got)
	}
}
