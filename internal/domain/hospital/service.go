package hospital

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/healthbridge/healthbridge/internal/platform/auth"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service { return &Service{repo: repo} }

func encodeList(v []string) (string, error) {
	if v == nil {
		return "[]", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode list: %w", err)
	}
	return string(b), nil
}

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

// Create registers a facility profile. One profile per organization; the
// store's unique key on organization_id backs that rule.
func (s *Service) Create(ctx context.Context, in *CreateInput) (*Hospital, error) {
	specialties, err := encodeList(in.Specialties)
	if err != nil {
		return nil, err
	}
	insurance, err := encodeList(in.AcceptedInsurance)
	if err != nil {
		return nil, err
	}
	certs, err := encodeList(in.Certifications)
	if err != nil {
		return nil, err
	}
	services, err := encodeList(in.ServicesOffered)
	if err != nil {
		return nil, err
	}
	meta, err := encodeMetadata(in.Metadata)
	if err != nil {
		return nil, err
	}

	h := &Hospital{
		OrganizationID:         in.OrganizationID,
		FacilityName:           in.FacilityName,
		LicenseNumber:          in.LicenseNumber,
		FacilityType:           in.FacilityType,
		TaxID:                  in.TaxID,
		YearEstablished:        in.YearEstablished,
		Address:                in.Address,
		City:                   in.City,
		State:                  in.State,
		ZipCode:                in.ZipCode,
		Country:                "Nigeria",
		PrimaryPhone:           in.PrimaryPhone,
		AlternatePhone:         in.AlternatePhone,
		Email:                  in.Email,
		Website:                in.Website,
		RepresentativeName:     in.RepresentativeName,
		RepresentativePosition: in.RepresentativePosition,
		RepresentativePhone:    in.RepresentativePhone,
		RepresentativeEmail:    in.RepresentativeEmail,
		Specialties:            specialties,
		AcceptedInsurance:      insurance,
		Certifications:         certs,
		ServicesOffered:        services,
		BedCount:               in.BedCount,
		StaffCount:             in.StaffCount,
		Metadata:               meta,
	}
	if in.Country != nil {
		h.Country = *in.Country
	}
	if in.ConsentTerms != nil {
		h.ConsentTerms = *in.ConsentTerms
	}
	if in.ConsentDataSharing != nil {
		h.ConsentDataSharing = *in.ConsentDataSharing
	}
	if in.ConsentVerification != nil {
		h.ConsentVerification = *in.ConsentVerification
	}

	if err := s.repo.Create(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *Service) Get(ctx context.Context, ident auth.Identity, id int64) (*Hospital, error) {
	return s.repo.GetByID(ctx, id, ident.OrganizationID)
}

func (s *Service) Update(ctx context.Context, ident auth.Identity, id int64, in *UpdateInput) (*Hospital, error) {
	set := map[string]interface{}{}
	strCol := func(col string, v *string) {
		if v != nil {
			set[col] = *v
		}
	}
	intCol := func(col string, v *int) {
		if v != nil {
			set[col] = *v
		}
	}
	boolCol := func(col string, v *bool) {
		if v != nil {
			set[col] = *v
		}
	}

	strCol("facility_name", in.FacilityName)
	strCol("license_number", in.LicenseNumber)
	strCol("facility_type", in.FacilityType)
	strCol("tax_id", in.TaxID)
	intCol("year_established", in.YearEstablished)
	strCol("address", in.Address)
	strCol("city", in.City)
	strCol("state", in.State)
	strCol("zip_code", in.ZipCode)
	strCol("country", in.Country)
	strCol("primary_phone", in.PrimaryPhone)
	strCol("alternate_phone", in.AlternatePhone)
	strCol("email", in.Email)
	strCol("website", in.Website)
	strCol("representative_name", in.RepresentativeName)
	strCol("representative_position", in.RepresentativePosition)
	strCol("representative_phone", in.RepresentativePhone)
	strCol("representative_email", in.RepresentativeEmail)
	intCol("bed_count", in.BedCount)
	intCol("staff_count", in.StaffCount)
	boolCol("consent_terms", in.ConsentTerms)
	boolCol("consent_data_sharing", in.ConsentDataSharing)
	boolCol("consent_verification", in.ConsentVerification)

	for col, v := range map[string][]string{
		"specialties":        in.Specialties,
		"accepted_insurance": in.AcceptedInsurance,
		"certifications":     in.Certifications,
		"services_offered":   in.ServicesOffered,
	} {
		if v != nil {
			enc, err := encodeList(v)
			if err != nil {
				return nil, err
			}
			set[col] = enc
		}
	}
	if in.Metadata != nil {
		enc, err := encodeMetadata(in.Metadata)
		if err != nil {
			return nil, err
		}
		set["metadata"] = enc
	}

	return s.repo.Update(ctx, id, ident.OrganizationID, set)
}

func (s *Service) Delete(ctx context.Context, ident auth.Identity, id int64) error {
	return s.repo.Delete(ctx, id, ident.OrganizationID)
}

func (s *Service) List(ctx context.Context, ident auth.Identity, limit, offset int) ([]*Hospital, int64, error) {
	return s.repo.List(ctx, ident.OrganizationID, limit, offset)
}
