package appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/healthbridge/healthbridge/internal/validate"
	"github.com/healthbridge/healthbridge/pkg/pagination"
	"github.com/healthbridge/healthbridge/pkg/webapi"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// RegisterRoutes wires the appointment surface.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.PATCH("/:id/status", h.UpdateStatus)
	g.GET("/:id/encounters", h.ListEncounters)
}

// RegisterEncounterRoutes wires the clinical-encounter surface.
func (h *Handler) RegisterEncounterRoutes(g *echo.Group) {
	g.POST("", h.CreateEncounter)
	g.GET("/:id", h.GetEncounter)
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("id must be a positive integer")
	}
	return id, nil
}

func respondErr(c echo.Context, err error) error {
	var violations validate.Violations
	switch {
	case errors.As(err, &violations):
		return webapi.Fail(c, http.StatusBadRequest, violations.Error())
	case errors.Is(err, ErrCancellationReason),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrInvalidReference),
		errors.Is(err, ErrEncounterParentClosed):
		return webapi.Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrTerminalState):
		return webapi.Fail(c, http.StatusConflict, err.Error())
	case errors.Is(err, ErrNotFound):
		return webapi.Fail(c, http.StatusNotFound, ErrNotFound.Error())
	case errors.Is(err, ErrEncounterNotFound):
		return webapi.Fail(c, http.StatusNotFound, ErrEncounterNotFound.Error())
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("appointment request failed")
		return webapi.Fail(c, http.StatusInternalServerError, "internal server error")
	}
}

func parseFilter(c echo.Context) (Filter, error) {
	f := Filter{
		Status:   c.QueryParam("status"),
		Date:     c.QueryParam("date"),
		Unit:     c.QueryParam("unit"),
		Priority: c.QueryParam("priority"),
	}
	if f.Status != "" && !Status(f.Status).Valid() {
		return f, errors.New("unknown status filter")
	}
	for param, dst := range map[string]**int64{
		"patientId":  &f.PatientID,
		"hospitalId": &f.HospitalID,
	} {
		raw := c.QueryParam(param)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 1 {
			return f, errors.New(param + " must be a positive integer")
		}
		*dst = &id
	}
	return f, nil
}

func (h *Handler) List(c echo.Context) error {
	page, err := pagination.Parse(c)
	if err != nil {
		return webapi.Fail(c, http.StatusBadRequest, err.Error())
	}
	f, err := parseFilter(c)
	if err != nil {
		return webapi.Fail(c, http.StatusBadRequest, err.Error())
	}

	items, total, err := h.svc.List(c.Request().Context(), f, page.Limit, page.Offset)
	if err != nil {
		return respondErr(c, err)
	}
	if items == nil {
		items = []*Appointment{}
	}
	return webapi.OKList(c, items, total)
}

func (h *Handler) Create(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return webapi.Fail(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&in); err != nil {
		return respondErr(c, err)
	}

	a, err := h.svc.Create(c.Request().Context(), &in)
	if err != nil {
		return respondErr(c, err)
	}
	return webapi.OK(c, http.StatusCreated, a)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return webapi.Fail(c, http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return webapi.OK(c, http.StatusOK, a)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return webapi.Fail(c, http.StatusBadRequest, err.Error())
	}
	var in UpdateInput
	if err := c.Bind(&in); err != nil {
		return webapi.Fail(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&in); err != nil {
		return respondErr(c, err)
	}

	a, err := h.svc.Update(c.Request().Context(), id, &in)
	if err != nil {
		return respondErr(c, err)
	}
	return webapi.OK(c, http.StatusOK, a)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return webapi.Fail(c, http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return respondErr(c, err)
	}
	return webapi.OK(c, http.StatusOK, map[string]int64{"id": id})
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return webapi.Fail(c, http.StatusBadRequest, err.Error())
	}
	var in StatusInput
	if err := c.Bind(&in); err != nil {
		return webapi.Fail(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&in); err != nil {
		return respondErr(c, err)
	}

	a, err := h.svc.UpdateStatus(c.Request().Context(), id, &in)
	if err != nil {
		return respondErr(c, err)
	}
	return webapi.OK(c, http.StatusOK, a)
}

func (h *Handler) ListEncounters(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return webapi.Fail(c, http.StatusBadRequest, err.Error())
	}
	items, err := h.svc.ListEncounters(c.Request().Context(), id)
	if err != nil {
		return respondErr(c, err)
	}
	if items == nil {
		items = []*ClinicalEncounter{}
	}
	return webapi.OK(c, http.StatusOK, items)
}

func (h *Handler) CreateEncounter(c echo.Context) error {
	var in CreateEncounterInput
	if err := c.Bind(&in); err != nil {
		return webapi.Fail(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&in); err != nil {
		return respondErr(c, err)
	}

	e, err := h.svc.CreateEncounter(c.Request().Context(), &in)
	if err != nil {
		return respondErr(c, err)
	}
	return webapi.OK(c, http.StatusCreated, e)
}

func (h *Handler) GetEncounter(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return webapi.Fail(c, http.StatusBadRequest, err.Error())
	}
	e, err := h.svc.GetEncounter(c.Request().Context(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return webapi.OK(c, http.StatusOK, e)
}
