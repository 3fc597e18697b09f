package hmo

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/healthbridge/healthbridge/internal/platform/auth"
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
	g.POST("/:id/upload-insurance-license", h.UploadInsuranceLicense)
	g.POST("/:id/upload-financial-statement", h.UploadFinancialStatement)
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
	case errors.Is(err, ErrDuplicateOrganization):
		return webapi.Fail(c, http.StatusConflict, ErrDuplicateOrganization.Error())
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("hmo request failed")
		return webapi.Fail(c, http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handler) List(c echo.Context) error {
	page, err := pagination.Parse(c)
	if err != nil {
		return webapi.Fail(c, http.StatusBadRequest, err.Error())
	}

	items, total, err := h.svc.List(c.Request().Context(), auth.FromRequest(c), page.Limit, page.Offset)
	if err != nil {
		return respondErr(c, err)
	}
	if items == nil {
		items = []*HMO{}
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

	out, err := h.svc.Create(c.Request().Context(), &in)
	if err != nil {
		return respondErr(c, err)
	}
	return webapi.OK(c, http.StatusCreated, out)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return webapi.Fail(c, http.StatusBadRequest, err.Error())
	}
	out, err := h.svc.Get(c.Request().Context(), auth.FromRequest(c), id)
	if err != nil {
		return respondErr(c, err)
	}
	return webapi.OK(c, http.StatusOK, out)
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

	out, err := h.svc.Update(c.Request().Context(), auth.FromRequest(c), id, &in)
	if err != nil {
		return respondErr(c, err)
	}
	return webapi.OK(c, http.StatusOK, out)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return webapi.Fail(c, http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Delete(c.Request().Context(), auth.FromRequest(c), id); err != nil {
		return respondErr(c, err)
	}
	return webapi.OK(c, http.StatusOK, map[string]int64{"id": id})
}

func (h *Handler) UploadInsuranceLicense(c echo.Context) error {
	return h.upload(c, DocumentInsuranceLicense)
}

func (h *Handler) UploadFinancialStatement(c echo.Context) error {
	return h.upload(c, DocumentFinancialStatement)
}

func (h *Handler) upload(c echo.Context, doc Document) error {
	id, err := parseID(c)
	if err != nil {
		return webapi.Fail(c, http.StatusBadRequest, err.Error())
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return webapi.Fail(c, http.StatusBadRequest, "file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return respondErr(c, err)
	}
	defer f.Close()

	out, err := h.svc.UploadDocument(c.Request().Context(), auth.FromRequest(c), id, doc,
		fh.Filename, fh.Header.Get("Content-Type"), f)
	if err != nil {
		return respondErr(c, err)
	}
	return webapi.OK(c, http.StatusOK, out)
}
