package patient

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

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.GET("/:id/stats", h.Stats)
	g.GET("/:id/history", h.History)
	g.GET("/:id/dashboard", h.Dashboard)
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
	case errors.Is(err, ErrNotFound):
		return webapi.Fail(c, http.StatusNotFound, ErrNotFound.Error())
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("patient request failed")
		return webapi.Fail(c, http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handler) List(c echo.Context) error {
	page, err := pagination.Parse(c)
	if err != nil {
		return webapi.Fail(c, http.StatusBadRequest, err.Error())
	}

	items, total, err := h.svc.List(c.Request().Context(), c.QueryParam("search"), page.Limit, page.Offset)
	if err != nil {
		return respondErr(c, err)
	}
	if items == nil {
		items = []*Patient{}
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

	p, err := h.svc.Create(c.Request().Context(), &in)
	if err != nil {
		return respondErr(c, err)
	}
	return webapi.OK(c, http.StatusCreated, p)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return webapi.Fail(c, http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return webapi.OK(c, http.StatusOK, p)
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

	p, err := h.svc.Update(c.Request().Context(), id, &in)
	if err != nil {
		return respondErr(c, err)
	}
	return webapi.OK(c, http.StatusOK, p)
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

func (h *Handler) Stats(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return webapi.Fail(c, http.StatusBadRequest, err.Error())
	}
	st, err := h.svc.Stats(c.Request().Context(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return webapi.OK(c, http.StatusOK, st)
}

func (h *Handler) History(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return webapi.Fail(c, http.StatusBadRequest, err.Error())
	}
	items, err := h.svc.History(c.Request().Context(), id)
	if err != nil {
		return respondErr(c, err)
	}
	if items == nil {
		items = []HistoryEntry{}
	}
	return webapi.OK(c, http.StatusOK, items)
}

func (h *Handler) Dashboard(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return webapi.Fail(c, http.StatusBadRequest, err.Error())
	}
	d, err := h.svc.Dashboard(c.Request().Context(), id)
	if err != nil {
		return respondErr(c, err)
	}
	if d.Appointments == nil {
		d.Appointments = []AppointmentRow{}
	}
	return webapi.OK(c, http.StatusOK, d)
}
