package hmo

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no HMO matches the given id within the
// caller's visibility.
var ErrNotFound = errors.New("hmo not found")

// ErrDuplicateOrganization is returned when the organization already has an
// HMO profile.
var ErrDuplicateOrganization = errors.New("organization already has an hmo profile")

type Repository interface {
	Create(ctx context.Context, h *HMO) error
	GetByID(ctx context.Context, id int64, orgID string) (*HMO, error)
	Update(ctx context.Context, id int64, orgID string, set map[string]interface{}) (*HMO, error)
	Delete(ctx context.Context, id int64, orgID string) error
	List(ctx context.Context, orgID string, limit, offset int) ([]*HMO, int64, error)
	// SetDocumentURL records the blob store URL for one of the two uploaded
	// documents and returns the URL it replaced, if any.
	SetDocumentURL(ctx context.Context, id int64, doc Document, url string) (*string, error)
}
