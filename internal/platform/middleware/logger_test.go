package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/healthbridge/healthbridge/internal/platform/auth"
)

func TestLogger_EmitsRequestLine(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	handler := Logger(zerolog.New(&buf))(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/patients", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("request_id", "req-1")

	if err := handler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	line := buf.String()
	for _, want := range []string{`"request_id":"req-1"`, `"method":"GET"`, `"path":"/api/patients"`, `"status":200`} {
		if !strings.Contains(line, want) {
			t.Errorf("log line missing %s: %s", want, line)
		}
	}
}

func TestLogger_TagsCallerOrganization(t *testing.T) {
	var buf bytes.Buffer
	secret := []byte("logger-test-secret")
	e := echo.New()

	token, err := auth.SignToken(secret, auth.Identity{UserID: "u1", OrganizationID: "org-9"}, time.Minute)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	handler := Logger(zerolog.New(&buf))(auth.Middleware(secret)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), `"org_id":"org-9"`) {
		t.Errorf("log line should carry the caller organization: %s", buf.String())
	}
}
