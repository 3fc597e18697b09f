package hospital

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/healthbridge/healthbridge/internal/validate"
	"github.com/healthbridge/healthbridge/pkg/webapi"
)

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validate.New()
	return e
}

func TestHandlerCreate_MissingLicense(t *testing.T) {
	e := newTestEcho()
	h := NewHandler(NewService(newMockRepo()))

	body := `{"organizationId": "org-1", "facilityName": "General"}`
	req := httptest.NewRequest(http.MethodPost, "/api/hospitals", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.Create(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandlerCreate_DuplicateIs409(t *testing.T) {
	e := newTestEcho()
	svc := NewService(newMockRepo())
	h := NewHandler(svc)

	body, _ := json.Marshal(validCreateInput("org-1"))
	for i, want := range []int{http.StatusCreated, http.StatusConflict} {
		req := httptest.NewRequest(http.MethodPost, "/api/hospitals", strings.NewReader(string(body)))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		if err := h.Create(e.NewContext(req, rec)); err != nil {
			t.Fatalf("attempt %d: %v", i, err)
		}
		if rec.Code != want {
			t.Fatalf("attempt %d: expected %d, got %d", i, want, rec.Code)
		}
	}
}

func TestHandlerGet_SerializesLists(t *testing.T) {
	e := newTestEcho()
	svc := NewService(newMockRepo())
	h := NewHandler(svc)

	in := validCreateInput("org-1")
	in.Specialties = []string{"Cardiology"}
	if _, err := svc.Create(httptest.NewRequest(http.MethodGet, "/", nil).Context(), in); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	if err := h.Get(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var env webapi.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("bad envelope: %v", err)
	}
	data, _ := json.Marshal(env.Data)
	var got struct {
		Specialties []string `json:"specialties"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("bad hospital payload: %v", err)
	}
	if len(got.Specialties) != 1 || got.Specialties[0] != "Cardiology" {
		t.Errorf("specialties should round-trip as a JSON array, got %v", got.Specialties)
	}
}
