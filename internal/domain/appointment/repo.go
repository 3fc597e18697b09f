package appointment

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no appointment matches the given id.
var ErrNotFound = errors.New("appointment not found")

// ErrEncounterNotFound is returned when no encounter matches the given id.
var ErrEncounterNotFound = errors.New("encounter not found")

// ErrInvalidReference is returned when a booking names a patient or hospital
// that does not exist.
var ErrInvalidReference = errors.New("patient or hospital does not exist")

// PatientContact is the slice of the patient record the confirmation email
// needs.
type PatientContact struct {
	FullName string
	Email    *string
}

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id int64) (*Appointment, error)
	Update(ctx context.Context, id int64, set map[string]interface{}) (*Appointment, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f Filter, limit, offset int) ([]*Appointment, int64, error)
	PatientContact(ctx context.Context, patientID int64) (*PatientContact, error)

	CreateEncounter(ctx context.Context, e *ClinicalEncounter) error
	GetEncounter(ctx context.Context, id int64) (*ClinicalEncounter, error)
	ListEncounters(ctx context.Context, appointmentID int64) ([]*ClinicalEncounter, error)
}
