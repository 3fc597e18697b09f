package patient

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no patient matches the given id.
var ErrNotFound = errors.New("patient not found")

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id int64) (*Patient, error)
	Update(ctx context.Context, id int64, in *UpdateInput, metadata *string) (*Patient, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, search string, limit, offset int) ([]*Patient, int64, error)
	Stats(ctx context.Context, patientID int64) (*Stats, error)
	History(ctx context.Context, patientID int64) ([]HistoryEntry, error)
	Appointments(ctx context.Context, patientID int64) ([]AppointmentRow, error)
}
