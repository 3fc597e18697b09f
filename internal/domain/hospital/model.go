package hospital

import (
	"encoding/json"
	"time"
)

// Hospital is a care facility profile keyed by its owning organization.
// List-valued attributes (specialties, accepted insurance, ...) are stored
// as JSON-encoded text columns.
type Hospital struct {
	ID              int64   `db:"id" json:"id"`
	OrganizationID  string  `db:"organization_id" json:"organizationId"`
	FacilityName    string  `db:"facility_name" json:"facilityName"`
	LicenseNumber   string  `db:"license_number" json:"licenseNumber"`
	FacilityType    *string `db:"facility_type" json:"facilityType,omitempty"`
	TaxID           *string `db:"tax_id" json:"taxId,omitempty"`
	YearEstablished *int    `db:"year_established" json:"yearEstablished,omitempty"`

	Address *string `db:"address" json:"address,omitempty"`
	City    *string `db:"city" json:"city,omitempty"`
	State   *string `db:"state" json:"state,omitempty"`
	ZipCode *string `db:"zip_code" json:"zipCode,omitempty"`
	Country string  `db:"country" json:"country"`

	PrimaryPhone   *string `db:"primary_phone" json:"primaryPhone,omitempty"`
	AlternatePhone *string `db:"alternate_phone" json:"alternatePhone,omitempty"`
	Email          *string `db:"email" json:"email,omitempty"`
	Website        *string `db:"website" json:"website,omitempty"`

	RepresentativeName     *string `db:"representative_name" json:"representativeName,omitempty"`
	RepresentativePosition *string `db:"representative_position" json:"representativePosition,omitempty"`
	RepresentativePhone    *string `db:"representative_phone" json:"representativePhone,omitempty"`
	RepresentativeEmail    *string `db:"representative_email" json:"representativeEmail,omitempty"`

	Specialties       string `db:"specialties" json:"-"`
	AcceptedInsurance string `db:"accepted_insurance" json:"-"`
	Certifications    string `db:"certifications" json:"-"`
	ServicesOffered   string `db:"services_offered" json:"-"`
	BedCount          *int   `db:"bed_count" json:"bedCount,omitempty"`
	StaffCount        *int   `db:"staff_count" json:"staffCount,omitempty"`

	ConsentTerms        bool `db:"consent_terms" json:"consentTerms"`
	ConsentDataSharing  bool `db:"consent_data_sharing" json:"consentDataSharing"`
	ConsentVerification bool `db:"consent_verification" json:"consentVerification"`

	Metadata  string    `db:"metadata" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// MarshalJSON inlines the JSON-text columns as arrays/objects.
func (h *Hospital) MarshalJSON() ([]byte, error) {
	type alias Hospital
	return json.Marshal(struct {
		*alias
		Specialties       json.RawMessage `json:"specialties"`
		AcceptedInsurance json.RawMessage `json:"acceptedInsurance"`
		Certifications    json.RawMessage `json:"certifications"`
		ServicesOffered   json.RawMessage `json:"servicesOffered"`
		Metadata          json.RawMessage `json:"metadata"`
	}{
		(*alias)(h),
		rawOr(h.Specialties, "[]"),
		rawOr(h.AcceptedInsurance, "[]"),
		rawOr(h.Certifications, "[]"),
		rawOr(h.ServicesOffered, "[]"),
		rawOr(h.Metadata, "{}"),
	})
}

func rawOr(s, fallback string) json.RawMessage {
	if s == "" {
		return json.RawMessage(fallback)
	}
	return json.RawMessage(s)
}

// CreateInput is the facility registration payload.
type CreateInput struct {
	OrganizationID  string  `json:"organizationId" validate:"required"`
	FacilityName    string  `json:"facilityName" validate:"required"`
	LicenseNumber   string  `json:"licenseNumber" validate:"required"`
	FacilityType    *string `json:"facilityType"`
	TaxID           *string `json:"taxId"`
	YearEstablished *int    `json:"yearEstablished" validate:"omitempty,gte=1800"`

	Address *string `json:"address"`
	City    *string `json:"city"`
	State   *string `json:"state"`
	ZipCode *string `json:"zipCode"`
	Country *string `json:"country"`

	PrimaryPhone   *string `json:"primaryPhone"`
	AlternatePhone *string `json:"alternatePhone"`
	Email          *string `json:"email" validate:"omitempty,email"`
	Website        *string `json:"website" validate:"omitempty,url"`

	RepresentativeName     *string `json:"representativeName"`
	RepresentativePosition *string `json:"representativePosition"`
	RepresentativePhone    *string `json:"representativePhone"`
	RepresentativeEmail    *string `json:"representativeEmail" validate:"omitempty,email"`

	Specialties       []string `json:"specialties"`
	AcceptedInsurance []string `json:"acceptedInsurance"`
	Certifications    []string `json:"certifications"`
	ServicesOffered   []string `json:"servicesOffered"`
	BedCount          *int     `json:"bedCount" validate:"omitempty,gte=0"`
	StaffCount        *int     `json:"staffCount" validate:"omitempty,gte=0"`

	ConsentTerms        *bool `json:"consentTerms"`
	ConsentDataSharing  *bool `json:"consentDataSharing"`
	ConsentVerification *bool `json:"consentVerification"`

	Metadata map[string]interface{} `json:"metadata"`
}

// UpdateInput carries a partial update; nil fields stay unchanged. The
// organization key is immutable.
type UpdateInput struct {
	FacilityName    *string `json:"facilityName" validate:"omitempty,min=1"`
	LicenseNumber   *string `json:"licenseNumber" validate:"omitempty,min=1"`
	FacilityType    *string `json:"facilityType"`
	TaxID           *string `json:"taxId"`
	YearEstablished *int    `json:"yearEstablished" validate:"omitempty,gte=1800"`

	Address *string `json:"address"`
	City    *string `json:"city"`
	State   *string `json:"state"`
	ZipCode *string `json:"zipCode"`
	Country *string `json:"country"`

	PrimaryPhone   *string `json:"primaryPhone"`
	AlternatePhone *string `json:"alternatePhone"`
	Email          *string `json:"email" validate:"omitempty,email"`
	Website        *string `json:"website" validate:"omitempty,url"`

	RepresentativeName     *string `json:"representativeName"`
	RepresentativePosition *string `json:"representativePosition"`
	RepresentativePhone    *string `json:"representativePhone"`
	RepresentativeEmail    *string `json:"representativeEmail" validate:"omitempty,email"`

	Specialties       []string `json:"specialties"`
	AcceptedInsurance []string `json:"acceptedInsurance"`
	Certifications    []string `json:"certifications"`
	ServicesOffered   []string `json:"servicesOffered"`
	BedCount          *int     `json:"bedCount" validate:"omitempty,gte=0"`
	StaffCount        *int     `json:"staffCount" validate:"omitempty,gte=0"`

	ConsentTerms        *bool `json:"consentTerms"`
	ConsentDataSharing  *bool `json:"consentDataSharing"`
	ConsentVerification *bool `json:"consentVerification"`

	Metadata map[string]interface{} `json:"metadata"`
}
