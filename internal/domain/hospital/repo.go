package hospital

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no hospital matches the given id within the
// caller's visibility.
var ErrNotFound = errors.New("hospital not found")

// ErrDuplicateOrganization is returned when the organization already has a
// facility profile.
var ErrDuplicateOrganization = errors.New("organization already has a hospital profile")

type Repository interface {
	Create(ctx context.Context, h *Hospital) error
	// GetByID returns the hospital; a non-empty orgID restricts visibility
	// to that organization's profile.
	GetByID(ctx context.Context, id int64, orgID string) (*Hospital, error)
	Update(ctx context.Context, id int64, orgID string, set map[string]interface{}) (*Hospital, error)
	Delete(ctx context.Context, id int64, orgID string) error
	List(ctx context.Context, orgID string, limit, offset int) ([]*Hospital, int64, error)
}
