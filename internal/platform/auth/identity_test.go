package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

var testSecret = []byte("test-secret")

func resolveThrough(t *testing.T, secret []byte, header string) Identity {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got Identity
	h := Middleware(secret)(func(c echo.Context) error {
		got = FromRequest(c)
		return nil
	})
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return got
}

func TestMiddleware_ValidToken(t *testing.T) {
	token, err := SignToken(testSecret, Identity{UserID: "u1", SessionID: "s1", OrganizationID: "org-7"}, time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	ident := resolveThrough(t, testSecret, "Bearer "+token)
	if ident.Anonymous() {
		t.Fatal("expected resolved identity")
	}
	if ident.UserID != "u1" || ident.SessionID != "s1" || ident.OrganizationID != "org-7" {
		t.Errorf("unexpected identity: %+v", ident)
	}
}

func TestMiddleware_NoTokenIsAnonymousNotError(t *testing.T) {
	ident := resolveThrough(t, testSecret, "")
	if !ident.Anonymous() {
		t.Error("expected anonymous identity without credentials")
	}
}

func TestMiddleware_GarbageTokenIsAnonymous(t *testing.T) {
	ident := resolveThrough(t, testSecret, "Bearer not.a.token")
	if !ident.Anonymous() {
		t.Error("expected anonymous identity for unparseable token")
	}
}

func TestMiddleware_WrongSecretIsAnonymous(t *testing.T) {
	token, _ := SignToken([]byte("other-secret"), Identity{UserID: "u1"}, time.Hour)
	ident := resolveThrough(t, testSecret, "Bearer "+token)
	if !ident.Anonymous() {
		t.Error("expected anonymous identity for wrong signature")
	}
}

func TestMiddleware_ExpiredTokenIsAnonymous(t *testing.T) {
	token, _ := SignToken(testSecret, Identity{UserID: "u1"}, -time.Minute)
	ident := resolveThrough(t, testSecret, "Bearer "+token)
	if !ident.Anonymous() {
		t.Error("expected anonymous identity for expired token")
	}
}

func TestFromContext_Empty(t *testing.T) {
	ident := FromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	if !ident.Anonymous() {
		t.Error("expected anonymous identity from bare context")
	}
}
