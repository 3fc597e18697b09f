package patient

import (
	"context"
	"encoding/json"
	"fmt"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service { return &Service{repo: repo} }

func encodeMetadata(m map[string]interface{}) (string, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}
	return string(b), nil
}

// Create registers a patient. Privacy-policy consent defaults to granted,
// the other consents to withheld, matching the intake form.
func (s *Service) Create(ctx context.Context, in *CreateInput) (*Patient, error) {
	meta, err := encodeMetadata(in.Metadata)
	if err != nil {
		return nil, err
	}

	p := &Patient{
		FullName:              in.FullName,
		PhoneNumber:           in.PhoneNumber,
		Email:                 in.Email,
		DateOfBirth:           in.DateOfBirth,
		Gender:                in.Gender,
		Occupation:            in.Occupation,
		Address:               in.Address,
		EmergencyContactName:  in.EmergencyContactName,
		EmergencyPhone:        in.EmergencyPhone,
		PrimaryCarePhysician:  in.PrimaryCarePhysician,
		InsuranceProvider:     in.InsuranceProvider,
		InsurancePolicyNumber: in.InsurancePolicyNumber,
		Allergies:             in.Allergies,
		CurrentMedications:    in.CurrentMedications,
		FamilyMedicalHistory:  in.FamilyMedicalHistory,
		PastMedicalHistory:    in.PastMedicalHistory,
		IdentificationType:    in.IdentificationType,
		IdentificationNumber:  in.IdentificationNumber,
		IDDocumentURL:         in.IDDocumentURL,
		ConsentPrivacyPolicy:  true,
		Metadata:              meta,
	}
	if in.ConsentReceiveTreatment != nil {
		p.ConsentReceiveTreatment = *in.ConsentReceiveTreatment
	}
	if in.ConsentUseDisclosure != nil {
		p.ConsentUseDisclosure = *in.ConsentUseDisclosure
	}
	if in.ConsentPrivacyPolicy != nil {
		p.ConsentPrivacyPolicy = *in.ConsentPrivacyPolicy
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, in *UpdateInput) (*Patient, error) {
	var meta *string
	if in.Metadata != nil {
		m, err := encodeMetadata(in.Metadata)
		if err != nil {
			return nil, err
		}
		meta = &m
	}
	return s.repo.Update(ctx, id, in, meta)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, search string, limit, offset int) ([]*Patient, int64, error) {
	return s.repo.List(ctx, search, limit, offset)
}

func (s *Service) Stats(ctx context.Context, id int64) (*Stats, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.Stats(ctx, id)
}

func (s *Service) History(ctx context.Context, id int64) ([]HistoryEntry, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.History(ctx, id)
}

// Dashboard assembles the profile, the appointment rows, and the
// upcoming/past split. Upcoming means the appointment is still live
// (pending through in-progress); everything terminal counts as past.
func (s *Service) Dashboard(ctx context.Context, id int64) (*Dashboard, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	appts, err := s.repo.Appointments(ctx, id)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{Patient: p, Appointments: appts}
	for _, a := range appts {
		switch a.Status {
		case "completed", "cancelled", "no-show":
			d.Past++
		default:
			d.Upcoming++
		}
	}
	return d, nil
}
