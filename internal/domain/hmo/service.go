package hmo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/healthbridge/healthbridge/internal/platform/auth"
	"github.com/healthbridge/healthbridge/internal/platform/blobstore"
)

type Service struct {
	repo  Repository
	blobs blobstore.Store
}

func NewService(repo Repository, blobs blobstore.Store) *Service {
	return &Service{repo: repo, blobs: blobs}
}

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

// Create registers an insurer profile. One profile per organization.
func (s *Service) Create(ctx context.Context, in *CreateInput) (*HMO, error) {
	lists := map[string]*string{}
	encode := func(name string, v []string) error {
		enc, err := encodeList(v)
		if err != nil {
			return err
		}
		lists[name] = &enc
		return nil
	}
	for name, v := range map[string][]string{
		"states": in.StatesCovered, "plans": in.PlanTypes,
		"hospitals": in.HospitalPartners, "pharmacies": in.PharmacyPartners,
		"labs": in.LaboratoryPartners, "specialists": in.SpecialistPartners,
	} {
		if err := encode(name, v); err != nil {
			return nil, err
		}
	}
	meta, err := encodeMetadata(in.Metadata)
	if err != nil {
		return nil, err
	}

	h := &HMO{
		OrganizationID:         in.OrganizationID,
		CompanyName:            in.CompanyName,
		RegistrationNumber:     in.RegistrationNumber,
		TaxID:                  in.TaxID,
		YearEstablished:        in.YearEstablished,
		HeadquartersAddress:    in.HeadquartersAddress,
		City:                   in.City,
		State:                  in.State,
		ZipCode:                in.ZipCode,
		Country:                "Nigeria",
		PrimaryPhone:           in.PrimaryPhone,
		CustomerServicePhone:   in.CustomerServicePhone,
		Email:                  in.Email,
		Website:                in.Website,
		RepresentativeName:     in.RepresentativeName,
		RepresentativePosition: in.RepresentativePosition,
		RepresentativePhone:    in.RepresentativePhone,
		RepresentativeEmail:    in.RepresentativeEmail,
		StatesCovered:          *lists["states"],
		PlanTypes:              *lists["plans"],
		MemberCount:            in.MemberCount,
		NetworkSize:            in.NetworkSize,
		AnnualRevenue:          in.AnnualRevenue,
		ClaimsProcessed:        in.ClaimsProcessed,
		AverageProcessingTime:  in.AverageProcessingTime,
		HospitalPartners:       *lists["hospitals"],
		PharmacyPartners:       *lists["pharmacies"],
		LaboratoryPartners:     *lists["labs"],
		SpecialistPartners:     *lists["specialists"],
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

func (s *Service) Get(ctx context.Context, ident auth.Identity, id int64) (*HMO, error) {
	return s.repo.GetByID(ctx, id, ident.OrganizationID)
}

func (s *Service) Update(ctx context.Context, ident auth.Identity, id int64, in *UpdateInput) (*HMO, error) {
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

	strCol("company_name", in.CompanyName)
	strCol("registration_number", in.RegistrationNumber)
	strCol("tax_id", in.TaxID)
	intCol("year_established", in.YearEstablished)
	strCol("headquarters_address", in.HeadquartersAddress)
	strCol("city", in.City)
	strCol("state", in.State)
	strCol("zip_code", in.ZipCode)
	strCol("country", in.Country)
	strCol("primary_phone", in.PrimaryPhone)
	strCol("customer_service_phone", in.CustomerServicePhone)
	strCol("email", in.Email)
	strCol("website", in.Website)
	strCol("representative_name", in.RepresentativeName)
	strCol("representative_position", in.RepresentativePosition)
	strCol("representative_phone", in.RepresentativePhone)
	strCol("representative_email", in.RepresentativeEmail)
	intCol("member_count", in.MemberCount)
	intCol("network_size", in.NetworkSize)
	if in.AnnualRevenue != nil {
		set["annual_revenue"] = *in.AnnualRevenue
	}
	intCol("claims_processed", in.ClaimsProcessed)
	intCol("average_processing_time", in.AverageProcessingTime)
	boolCol("consent_terms", in.ConsentTerms)
	boolCol("consent_data_sharing", in.ConsentDataSharing)
	boolCol("consent_verification", in.ConsentVerification)

	for col, v := range map[string][]string{
		"states_covered":      in.StatesCovered,
		"plan_types":          in.PlanTypes,
		"hospital_partners":   in.HospitalPartners,
		"pharmacy_partners":   in.PharmacyPartners,
		"laboratory_partners": in.LaboratoryPartners,
		"specialist_partners": in.SpecialistPartners,
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

func (s *Service) List(ctx context.Context, ident auth.Identity, limit, offset int) ([]*HMO, int64, error) {
	return s.repo.List(ctx, ident.OrganizationID, limit, offset)
}

// UploadDocument stores the file in the blob store, records its URL on the
// profile, and removes the document it replaced. A failed delete of the old
// blob is logged and otherwise ignored; the new document is already live.
func (s *Service) UploadDocument(ctx context.Context, ident auth.Identity, id int64, doc Document, filename, contentType string, content io.Reader) (*HMO, error) {
	if _, err := s.repo.GetByID(ctx, id, ident.OrganizationID); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("hmos/%d/%s/%s%s", id, doc, uuid.NewString(), path.Ext(filename))
	url, err := s.blobs.Put(ctx, key, contentType, content)
	if err != nil {
		return nil, fmt.Errorf("store %s: %w", doc, err)
	}

	prior, err := s.repo.SetDocumentURL(ctx, id, doc, url)
	if err != nil {
		return nil, err
	}
	if prior != nil && *prior != "" {
		if key := s.blobs.KeyFromURL(*prior); key != "" {
			if err := s.blobs.Delete(ctx, key); err != nil {
				log.Warn().Err(err).Str("key", key).Int64("hmo_id", id).
					Msg("failed to delete replaced document")
			}
		}
	}

	return s.repo.GetByID(ctx, id, ident.OrganizationID)
}
