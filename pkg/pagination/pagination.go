// Package pagination converts page/limit query parameters into limit/offset
// pairs for list endpoints. Parsing is strict: a non-numeric value is a
// validation failure, never silently replaced with a default.
package pagination

import (
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	DefaultLimit = 50
	MaxLimit     = 100
)

// Params holds pagination parameters extracted from a request.
type Params struct {
	Page   int
	Limit  int
	Offset int
}

// Parse extracts page/limit from the query string. Absent parameters fall
// back to page 1 and DefaultLimit; present but non-numeric parameters are
// rejected.
func Parse(c echo.Context) (Params, error) {
	page := 1
	if raw := c.QueryParam("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Params{}, fmt.Errorf("page must be a number, got %q", raw)
		}
		if n < 1 {
			return Params{}, fmt.Errorf("page must be >= 1, got %d", n)
		}
		page = n
	}

	limit := DefaultLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Params{}, fmt.Errorf("limit must be a number, got %q", raw)
		}
		if n < 1 {
			return Params{}, fmt.Errorf("limit must be >= 1, got %d", n)
		}
		limit = n
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Params{Page: page, Limit: limit, Offset: (page - 1) * limit}, nil
}

// HasNext returns true if there are more results after the current page.
func (p Params) HasNext(total int) bool {
	return p.Offset+p.Limit < total
}

// HasPrevious returns true if there are results before the current page.
func (p Params) HasPrevious() bool {
	return p.Offset > 0
}
