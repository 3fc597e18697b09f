package hmo

import (
	"encoding/json"
	"time"
)

// HMO is a health-maintenance-organization profile keyed by its owning
// organization. Partner and coverage lists are JSON-encoded text columns;
// the two document URLs are issued by the blob store on upload.
type HMO struct {
	ID                 int64   `db:"id" json:"id"`
	OrganizationID     string  `db:"organization_id" json:"organizationId"`
	CompanyName        string  `db:"company_name" json:"companyName"`
	RegistrationNumber string  `db:"registration_number" json:"registrationNumber"`
	TaxID              *string `db:"tax_id" json:"taxId,omitempty"`
	YearEstablished    *int    `db:"year_established" json:"yearEstablished,omitempty"`

	HeadquartersAddress *string `db:"headquarters_address" json:"headquartersAddress,omitempty"`
	City                *string `db:"city" json:"city,omitempty"`
	State               *string `db:"state" json:"state,omitempty"`
	ZipCode             *string `db:"zip_code" json:"zipCode,omitempty"`
	Country             string  `db:"country" json:"country"`

	PrimaryPhone         *string `db:"primary_phone" json:"primaryPhone,omitempty"`
	CustomerServicePhone *string `db:"customer_service_phone" json:"customerServicePhone,omitempty"`
	Email                *string `db:"email" json:"email,omitempty"`
	Website              *string `db:"website" json:"website,omitempty"`

	RepresentativeName     *string `db:"representative_name" json:"representativeName,omitempty"`
	RepresentativePosition *string `db:"representative_position" json:"representativePosition,omitempty"`
	RepresentativePhone    *string `db:"representative_phone" json:"representativePhone,omitempty"`
	RepresentativeEmail    *string `db:"representative_email" json:"representativeEmail,omitempty"`

	StatesCovered string `db:"states_covered" json:"-"`
	PlanTypes     string `db:"plan_types" json:"-"`
	MemberCount   *int   `db:"member_count" json:"memberCount,omitempty"`
	NetworkSize   *int   `db:"network_size" json:"networkSize,omitempty"`

	AnnualRevenue         *int64 `db:"annual_revenue" json:"annualRevenue,omitempty"`
	ClaimsProcessed       *int   `db:"claims_processed" json:"claimsProcessed,omitempty"`
	AverageProcessingTime *int   `db:"average_processing_time" json:"averageProcessingTime,omitempty"`

	HospitalPartners   string `db:"hospital_partners" json:"-"`
	PharmacyPartners   string `db:"pharmacy_partners" json:"-"`
	LaboratoryPartners string `db:"laboratory_partners" json:"-"`
	SpecialistPartners string `db:"specialist_partners" json:"-"`

	InsuranceLicenseURL   *string `db:"insurance_license_url" json:"insuranceLicenseUrl,omitempty"`
	FinancialStatementURL *string `db:"financial_statement_url" json:"financialStatementUrl,omitempty"`

	ConsentTerms        bool `db:"consent_terms" json:"consentTerms"`
	ConsentDataSharing  bool `db:"consent_data_sharing" json:"consentDataSharing"`
	ConsentVerification bool `db:"consent_verification" json:"consentVerification"`

	Metadata  string    `db:"metadata" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// MarshalJSON inlines the JSON-text columns as arrays/objects.
func (h *HMO) MarshalJSON() ([]byte, error) {
	type alias HMO
	return json.Marshal(struct {
		*alias
		StatesCovered      json.RawMessage `json:"statesCovered"`
		PlanTypes          json.RawMessage `json:"planTypes"`
		HospitalPartners   json.RawMessage `json:"hospitalPartners"`
		PharmacyPartners   json.RawMessage `json:"pharmacyPartners"`
		LaboratoryPartners json.RawMessage `json:"laboratoryPartners"`
		SpecialistPartners json.RawMessage `json:"specialistPartners"`
		Metadata           json.RawMessage `json:"metadata"`
	}{
		(*alias)(h),
		rawOr(h.StatesCovered, "[]"),
		rawOr(h.PlanTypes, "[]"),
		rawOr(h.HospitalPartners, "[]"),
		rawOr(h.PharmacyPartners, "[]"),
		rawOr(h.LaboratoryPartners, "[]"),
		rawOr(h.SpecialistPartners, "[]"),
		rawOr(h.Metadata, "{}"),
	})
}

func rawOr(s, fallback string) json.RawMessage {
	if s == "" {
		return json.RawMessage(fallback)
	}
	return json.RawMessage(s)
}

// CreateInput is the insurer registration payload.
type CreateInput struct {
	OrganizationID     string  `json:"organizationId" validate:"required"`
	CompanyName        string  `json:"companyName" validate:"required"`
	RegistrationNumber string  `json:"registrationNumber" validate:"required"`
	TaxID              *string `json:"taxId"`
	YearEstablished    *int    `json:"yearEstablished" validate:"omitempty,gte=1800"`

	HeadquartersAddress *string `json:"headquartersAddress"`
	City                *string `json:"city"`
	State               *string `json:"state"`
	ZipCode             *string `json:"zipCode"`
	Country             *string `json:"country"`

	PrimaryPhone         *string `json:"primaryPhone"`
	CustomerServicePhone *string `json:"customerServicePhone"`
	Email                *string `json:"email" validate:"omitempty,email"`
	Website              *string `json:"website" validate:"omitempty,url"`

	RepresentativeName     *string `json:"representativeName"`
	RepresentativePosition *string `json:"representativePosition"`
	RepresentativePhone    *string `json:"representativePhone"`
	RepresentativeEmail    *string `json:"representativeEmail" validate:"omitempty,email"`

	StatesCovered []string `json:"statesCovered"`
	PlanTypes     []string `json:"planTypes"`
	MemberCount   *int     `json:"memberCount" validate:"omitempty,gte=0"`
	NetworkSize   *int     `json:"networkSize" validate:"omitempty,gte=0"`

	AnnualRevenue         *int64 `json:"annualRevenue" validate:"omitempty,gte=0"`
	ClaimsProcessed       *int   `json:"claimsProcessed" validate:"omitempty,gte=0"`
	AverageProcessingTime *int   `json:"averageProcessingTime" validate:"omitempty,gte=0"`

	HospitalPartners   []string `json:"hospitalPartners"`
	PharmacyPartners   []string `json:"pharmacyPartners"`
	LaboratoryPartners []string `json:"laboratoryPartners"`
	SpecialistPartners []string `json:"specialistPartners"`

	ConsentTerms        *bool `json:"consentTerms"`
	ConsentDataSharing  *bool `json:"consentDataSharing"`
	ConsentVerification *bool `json:"consentVerification"`

	Metadata map[string]interface{} `json:"metadata"`
}

// UpdateInput carries a partial update; nil fields stay unchanged. The
// organization key and document URLs are not client-settable here; documents
// change only through the upload endpoints.
type UpdateInput struct {
	CompanyName        *string `json:"companyName" validate:"omitempty,min=1"`
	RegistrationNumber *string `json:"registrationNumber" validate:"omitempty,min=1"`
	TaxID              *string `json:"taxId"`
	YearEstablished    *int    `json:"yearEstablished" validate:"omitempty,gte=1800"`

	HeadquartersAddress *string `json:"headquartersAddress"`
	City                *string `json:"city"`
	State               *string `json:"state"`
	ZipCode             *string `json:"zipCode"`
	Country             *string `json:"country"`

	PrimaryPhone         *string `json:"primaryPhone"`
	CustomerServicePhone *string `json:"customerServicePhone"`
	Email                *string `json:"email" validate:"omitempty,email"`
	Website              *string `json:"website" validate:"omitempty,url"`

	RepresentativeName     *string `json:"representativeName"`
	RepresentativePosition *string `json:"representativePosition"`
	RepresentativePhone    *string `json:"representativePhone"`
	RepresentativeEmail    *string `json:"representativeEmail" validate:"omitempty,email"`

	StatesCovered []string `json:"statesCovered"`
	PlanTypes     []string `json:"planTypes"`
	MemberCount   *int     `json:"memberCount" validate:"omitempty,gte=0"`
	NetworkSize   *int     `json:"networkSize" validate:"omitempty,gte=0"`

	AnnualRevenue         *int64 `json:"annualRevenue" validate:"omitempty,gte=0"`
	ClaimsProcessed       *int   `json:"claimsProcessed" validate:"omitempty,gte=0"`
	AverageProcessingTime *int   `json:"averageProcessingTime" validate:"omitempty,gte=0"`

	HospitalPartners   []string `json:"hospitalPartners"`
	PharmacyPartners   []string `json:"pharmacyPartners"`
	LaboratoryPartners []string `json:"laboratoryPartners"`
	SpecialistPartners []string `json:"specialistPartners"`

	ConsentTerms        *bool `json:"consentTerms"`
	ConsentDataSharing  *bool `json:"consentDataSharing"`
	ConsentVerification *bool `json:"consentVerification"`

	Metadata map[string]interface{} `json:"metadata"`
}

// Document identifies which uploaded document an operation targets.
type Document string

const (
	DocumentInsuranceLicense   Document = "insurance-license"
	DocumentFinancialStatement Document = "financial-statement"
)
