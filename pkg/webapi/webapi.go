// Package webapi holds the response envelope shared by every endpoint:
// {"success": bool, "data": ..., "error": "..."}.
package webapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// TotalCountHeader carries the unpaginated row count on list responses.
const TotalCountHeader = "X-Total-Count"

// Envelope is the wire shape of every API response.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// OK writes a success envelope with the given status and payload.
func OK(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, Envelope{Success: true, Data: data})
}

// OKList writes a success envelope whose data is the list itself. The
// unpaginated total travels in the X-Total-Count header so the body stays a
// flat array.
func OKList(c echo.Context, items interface{}, total int64) error {
	c.Response().Header().Set(TotalCountHeader, strconv.FormatInt(total, 10))
	return OK(c, http.StatusOK, items)
}

// Fail writes a failure envelope with the given status and message.
func Fail(c echo.Context, status int, message string) error {
	return c.JSON(status, Envelope{Success: false, Error: message})
}
