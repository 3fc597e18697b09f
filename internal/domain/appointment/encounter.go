package appointment

import (
	"encoding/json"
	"time"
)

// ClinicalEncounter is the immutable record of what happened during a visit.
// Temperature and BMI are fixed-point (value × 100); weight is grams, height
// centimeters. Encounters are never updated or deleted directly; they go
// away only when their appointment cascade-deletes.
type ClinicalEncounter struct {
	ID            int64  `db:"id" json:"id"`
	AppointmentID int64  `db:"appointment_id" json:"appointmentId"`
	EncounterDate string `db:"encounter_date" json:"encounterDate"`
	EncounterTime string `db:"encounter_time" json:"encounterTime"`

	BloodPressureSystolic  *int `db:"blood_pressure_systolic" json:"bloodPressureSystolic,omitempty"`
	BloodPressureDiastolic *int `db:"blood_pressure_diastolic" json:"bloodPressureDiastolic,omitempty"`
	HeartRate              *int `db:"heart_rate" json:"heartRate,omitempty"`
	Temperature            *int `db:"temperature" json:"temperature,omitempty"`
	RespiratoryRate        *int `db:"respiratory_rate" json:"respiratoryRate,omitempty"`
	OxygenSaturation       *int `db:"oxygen_saturation" json:"oxygenSaturation,omitempty"`
	Weight                 *int `db:"weight" json:"weight,omitempty"`
	Height                 *int `db:"height" json:"height,omitempty"`
	BMI                    *int `db:"bmi" json:"bmi,omitempty"`

	ChiefComplaint          string  `db:"chief_complaint" json:"chiefComplaint"`
	HistoryOfPresentIllness *string `db:"history_of_present_illness" json:"historyOfPresentIllness,omitempty"`
	PastMedicalHistory      *string `db:"past_medical_history" json:"pastMedicalHistory,omitempty"`
	Medications             *string `db:"medications" json:"medications,omitempty"`
	Allergies               *string `db:"allergies" json:"allergies,omitempty"`
	FamilyHistory           *string `db:"family_history" json:"familyHistory,omitempty"`
	PhysicalExamination     *string `db:"physical_examination" json:"physicalExamination,omitempty"`

	PrimaryDiagnosis   *string `db:"primary_diagnosis" json:"primaryDiagnosis,omitempty"`
	SecondaryDiagnoses string  `db:"secondary_diagnoses" json:"-"`
	TreatmentPlan      *string `db:"treatment_plan" json:"treatmentPlan,omitempty"`
	Prescriptions      string  `db:"prescriptions" json:"-"`
	Procedures         string  `db:"procedures" json:"-"`

	FollowUpInstructions *string `db:"follow_up_instructions" json:"followUpInstructions,omitempty"`
	ReferralTo           *string `db:"referral_to" json:"referralTo,omitempty"`
	ReferralReason       *string `db:"referral_reason" json:"referralReason,omitempty"`

	ProviderName      string  `db:"provider_name" json:"providerName"`
	ProviderSpecialty *string `db:"provider_specialty" json:"providerSpecialty,omitempty"`
	ProviderLicense   *string `db:"provider_license" json:"providerLicense,omitempty"`

	Metadata  string    `db:"metadata" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// MarshalJSON inlines the JSON-text columns.
func (e *ClinicalEncounter) MarshalJSON() ([]byte, error) {
	type alias ClinicalEncounter
	return json.Marshal(struct {
		*alias
		SecondaryDiagnoses json.RawMessage `json:"secondaryDiagnoses"`
		Prescriptions      json.RawMessage `json:"prescriptions"`
		Procedures         json.RawMessage `json:"procedures"`
		Metadata           json.RawMessage `json:"metadata"`
	}{
		(*alias)(e),
		rawOr(e.SecondaryDiagnoses, "[]"),
		rawOr(e.Prescriptions, "[]"),
		rawOr(e.Procedures, "[]"),
		rawOr(e.Metadata, "{}"),
	})
}

func rawOr(s, fallback string) json.RawMessage {
	if s == "" {
		return json.RawMessage(fallback)
	}
	return json.RawMessage(s)
}

// Prescription is one prescribed medication in an encounter.
type Prescription struct {
	Medication string `json:"medication" validate:"required"`
	Dosage     string `json:"dosage" validate:"required"`
	Frequency  string `json:"frequency" validate:"required"`
	Duration   string `json:"duration" validate:"required"`
}

// CreateEncounterInput is the encounter documentation payload. Vital-sign
// bounds follow the clinical intake form.
type CreateEncounterInput struct {
	AppointmentID int64  `json:"appointmentId" validate:"required,gt=0"`
	EncounterDate string `json:"encounterDate" validate:"required,date"`
	EncounterTime string `json:"encounterTime" validate:"required,time12h"`

	BloodPressureSystolic  *int `json:"bloodPressureSystolic" validate:"omitempty,gte=60,lte=250"`
	BloodPressureDiastolic *int `json:"bloodPressureDiastolic" validate:"omitempty,gte=40,lte=150"`
	HeartRate              *int `json:"heartRate" validate:"omitempty,gte=40,lte=200"`
	Temperature            *int `json:"temperature" validate:"omitempty,gte=3500,lte=4200"`
	RespiratoryRate        *int `json:"respiratoryRate" validate:"omitempty,gte=8,lte=60"`
	OxygenSaturation       *int `json:"oxygenSaturation" validate:"omitempty,gte=70,lte=100"`
	Weight                 *int `json:"weight" validate:"omitempty,gte=1000,lte=300000"`
	Height                 *int `json:"height" validate:"omitempty,gte=30,lte=250"`
	BMI                    *int `json:"bmi" validate:"omitempty,gte=1000,lte=6000"`

	ChiefComplaint          string  `json:"chiefComplaint" validate:"required"`
	HistoryOfPresentIllness *string `json:"historyOfPresentIllness"`
	PastMedicalHistory      *string `json:"pastMedicalHistory"`
	Medications             *string `json:"medications"`
	Allergies               *string `json:"allergies"`
	FamilyHistory           *string `json:"familyHistory"`
	PhysicalExamination     *string `json:"physicalExamination"`

	PrimaryDiagnosis   *string        `json:"primaryDiagnosis"`
	SecondaryDiagnoses []string       `json:"secondaryDiagnoses"`
	TreatmentPlan      *string        `json:"treatmentPlan"`
	Prescriptions      []Prescription `json:"prescriptions" validate:"omitempty,dive"`
	Procedures         []string       `json:"procedures"`

	FollowUpInstructions *string `json:"followUpInstructions"`
	ReferralTo           *string `json:"referralTo"`
	ReferralReason       *string `json:"referralReason"`

	ProviderName      string  `json:"providerName" validate:"required"`
	ProviderSpecialty *string `json:"providerSpecialty"`
	ProviderLicense   *string `json:"providerLicense"`

	Metadata map[string]interface{} `json:"metadata"`
}
