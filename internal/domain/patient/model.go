package patient

import (
	"encoding/json"
	"time"
)

// Patient maps to the patients table. Medical-history fields are required
// intake data; demographic extras are optional. Deleting a patient cascades
// to their appointments and, through those, clinical encounters.
type Patient struct {
	ID                    int64   `db:"id" json:"id"`
	FullName              string  `db:"full_name" json:"fullName"`
	PhoneNumber           string  `db:"phone_number" json:"phoneNumber"`
	Email                 *string `db:"email" json:"email,omitempty"`
	DateOfBirth           *string `db:"date_of_birth" json:"dateOfBirth,omitempty"`
	Gender                *string `db:"gender" json:"gender,omitempty"`
	Occupation            *string `db:"occupation" json:"occupation,omitempty"`
	Address               *string `db:"address" json:"address,omitempty"`
	EmergencyContactName  *string `db:"emergency_contact_name" json:"emergencyContactName,omitempty"`
	EmergencyPhone        *string `db:"emergency_phone" json:"emergencyPhone,omitempty"`
	PrimaryCarePhysician  string  `db:"primary_care_physician" json:"primaryCarePhysician"`
	InsuranceProvider     string  `db:"insurance_provider" json:"insuranceProvider"`
	InsurancePolicyNumber string  `db:"insurance_policy_number" json:"insurancePolicyNumber"`
	Allergies             string  `db:"allergies" json:"allergies"`
	CurrentMedications    string  `db:"current_medications" json:"currentMedications"`
	FamilyMedicalHistory  string  `db:"family_medical_history" json:"familyMedicalHistory"`
	PastMedicalHistory    string  `db:"past_medical_history" json:"pastMedicalHistory"`
	IdentificationType    *string `db:"identification_type" json:"identificationType,omitempty"`
	IdentificationNumber  *string `db:"identification_number" json:"identificationNumber,omitempty"`
	IDDocumentURL         *string `db:"id_document_url" json:"idDocumentUrl,omitempty"`

	ConsentReceiveTreatment bool `db:"consent_receive_treatment" json:"consentReceiveTreatment"`
	ConsentUseDisclosure    bool `db:"consent_use_disclosure" json:"consentUseDisclosure"`
	ConsentPrivacyPolicy    bool `db:"consent_privacy_policy" json:"consentPrivacyPolicy"`

	Metadata  string    `db:"metadata" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// MarshalJSON inlines the metadata column as a JSON object.
func (p *Patient) MarshalJSON() ([]byte, error) {
	type alias Patient
	meta := json.RawMessage(p.Metadata)
	if len(meta) == 0 {
		meta = json.RawMessage("{}")
	}
	return json.Marshal(struct {
		*alias
		Metadata json.RawMessage `json:"metadata"`
	}{(*alias)(p), meta})
}

// CreateInput is the registration payload.
type CreateInput struct {
	FullName             string  `json:"fullName" validate:"required"`
	PhoneNumber          string  `json:"phoneNumber" validate:"required"`
	Email                *string `json:"email" validate:"omitempty,email"`
	DateOfBirth          *string `json:"dateOfBirth" validate:"omitempty,date"`
	Gender               *string `json:"gender" validate:"omitempty,oneof=Male Female Other"`
	Occupation           *string `json:"occupation"`
	Address              *string `json:"address"`
	EmergencyContactName *string `json:"emergencyContactName"`
	EmergencyPhone       *string `json:"emergencyPhone"`

	PrimaryCarePhysician  string `json:"primaryCarePhysician" validate:"required"`
	InsuranceProvider     string `json:"insuranceProvider" validate:"required"`
	InsurancePolicyNumber string `json:"insurancePolicyNumber" validate:"required"`
	Allergies             string `json:"allergies" validate:"required"`
	CurrentMedications    string `json:"currentMedications" validate:"required"`
	FamilyMedicalHistory  string `json:"familyMedicalHistory" validate:"required"`
	PastMedicalHistory    string `json:"pastMedicalHistory" validate:"required"`

	IdentificationType   *string `json:"identificationType"`
	IdentificationNumber *string `json:"identificationNumber"`
	IDDocumentURL        *string `json:"idDocumentUrl" validate:"omitempty,url"`

	ConsentReceiveTreatment *bool `json:"consentReceiveTreatment"`
	ConsentUseDisclosure    *bool `json:"consentUseDisclosure"`
	ConsentPrivacyPolicy    *bool `json:"consentPrivacyPolicy"`

	Metadata map[string]interface{} `json:"metadata"`
}

// UpdateInput carries a partial update; nil fields stay unchanged.
type UpdateInput struct {
	FullName             *string `json:"fullName" validate:"omitempty,min=1"`
	PhoneNumber          *string `json:"phoneNumber" validate:"omitempty,min=1"`
	Email                *string `json:"email" validate:"omitempty,email"`
	DateOfBirth          *string `json:"dateOfBirth" validate:"omitempty,date"`
	Gender               *string `json:"gender" validate:"omitempty,oneof=Male Female Other"`
	Occupation           *string `json:"occupation"`
	Address              *string `json:"address"`
	EmergencyContactName *string `json:"emergencyContactName"`
	EmergencyPhone       *string `json:"emergencyPhone"`

	PrimaryCarePhysician  *string `json:"primaryCarePhysician" validate:"omitempty,min=1"`
	InsuranceProvider     *string `json:"insuranceProvider" validate:"omitempty,min=1"`
	InsurancePolicyNumber *string `json:"insurancePolicyNumber" validate:"omitempty,min=1"`
	Allergies             *string `json:"allergies"`
	CurrentMedications    *string `json:"currentMedications"`
	FamilyMedicalHistory  *string `json:"familyMedicalHistory"`
	PastMedicalHistory    *string `json:"pastMedicalHistory"`

	IdentificationType   *string `json:"identificationType"`
	IdentificationNumber *string `json:"identificationNumber"`
	IDDocumentURL        *string `json:"idDocumentUrl" validate:"omitempty,url"`

	ConsentReceiveTreatment *bool `json:"consentReceiveTreatment"`
	ConsentUseDisclosure    *bool `json:"consentUseDisclosure"`
	ConsentPrivacyPolicy    *bool `json:"consentPrivacyPolicy"`

	Metadata map[string]interface{} `json:"metadata"`
}

// Empty reports whether the update carries no changes.
func (in *UpdateInput) Empty() bool {
	return in.FullName == nil && in.PhoneNumber == nil && in.Email == nil &&
		in.DateOfBirth == nil && in.Gender == nil && in.Occupation == nil &&
		in.Address == nil && in.EmergencyContactName == nil && in.EmergencyPhone == nil &&
		in.PrimaryCarePhysician == nil && in.InsuranceProvider == nil &&
		in.InsurancePolicyNumber == nil && in.Allergies == nil &&
		in.CurrentMedications == nil && in.FamilyMedicalHistory == nil &&
		in.PastMedicalHistory == nil && in.IdentificationType == nil &&
		in.IdentificationNumber == nil && in.IDDocumentURL == nil &&
		in.ConsentReceiveTreatment == nil && in.ConsentUseDisclosure == nil &&
		in.ConsentPrivacyPolicy == nil && in.Metadata == nil
}

// Stats buckets a patient's appointments by lifecycle state.
type Stats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Confirmed  int `json:"confirmed"`
	Waiting    int `json:"waiting"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
	Cancelled  int `json:"cancelled"`
	NoShow     int `json:"noShow"`
}

// HistoryEntry is one completed visit in the patient's care history.
type HistoryEntry struct {
	AppointmentID   int64      `json:"appointmentId"`
	HospitalID      int64      `json:"hospitalId"`
	AppointmentType string     `json:"appointmentType"`
	Unit            string     `json:"unit"`
	Reason          string     `json:"reason"`
	ScheduledDate   string     `json:"scheduledDate"`
	ScheduledTime   string     `json:"scheduledTime"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
	Provider        *string    `json:"assignedProvider,omitempty"`
}

// AppointmentRow is the slim appointment projection on the dashboard.
type AppointmentRow struct {
	ID              int64  `json:"id"`
	HospitalID      int64  `json:"hospitalId"`
	AppointmentType string `json:"appointmentType"`
	Unit            string `json:"unit"`
	ScheduledDate   string `json:"scheduledDate"`
	ScheduledTime   string `json:"scheduledTime"`
	Status          string `json:"status"`
	Priority        string `json:"priority"`
}

// Dashboard is the profile + appointment summary payload.
type Dashboard struct {
	Patient      *Patient         `json:"patient"`
	Upcoming     int              `json:"upcomingAppointments"`
	Past         int              `json:"pastAppointments"`
	Appointments []AppointmentRow `json:"appointments"`
}
