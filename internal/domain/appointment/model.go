package appointment

import (
	"encoding/json"
	"time"
)

// Status is the appointment lifecycle state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusWaiting    Status = "waiting"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no-show"
)

// Priority orders appointments for triage.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Type is the visit category.
type Type string

const (
	TypeConsultation       Type = "consultation"
	TypeFollowUp           Type = "follow-up"
	TypeEmergency          Type = "emergency"
	TypeRoutineCheckup     Type = "routine-checkup"
	TypeSpecialistReferral Type = "specialist-referral"
)

// Appointment links a patient to a hospital visit. The coverage snapshot
// (hmoPlan, coveragePercentage, estimatedCost) is stored exactly as supplied
// at booking time and never recomputed.
type Appointment struct {
	ID              int64   `db:"id" json:"id"`
	PatientID       int64   `db:"patient_id" json:"patientId"`
	HospitalID      int64   `db:"hospital_id" json:"hospitalId"`
	AppointmentType Type    `db:"appointment_type" json:"appointmentType"`
	Unit            string  `db:"unit" json:"unit"`
	Reason          string  `db:"reason" json:"reason"`
	AdditionalNotes *string `db:"additional_notes" json:"additionalNotes,omitempty"`

	ScheduledDate string `db:"scheduled_date" json:"scheduledDate"`
	ScheduledTime string `db:"scheduled_time" json:"scheduledTime"`
	Duration      int    `db:"duration" json:"duration"`

	Status   Status   `db:"status" json:"status"`
	Priority Priority `db:"priority" json:"priority"`

	HMOPlan            *string `db:"hmo_plan" json:"hmoPlan,omitempty"`
	CoveragePercentage *int    `db:"coverage_percentage" json:"coveragePercentage,omitempty"`
	EstimatedCost      *int64  `db:"estimated_cost" json:"estimatedCost,omitempty"`

	AssignedProvider  *string `db:"assigned_provider" json:"assignedProvider,omitempty"`
	ProviderSpecialty *string `db:"provider_specialty" json:"providerSpecialty,omitempty"`

	CheckInTime        *time.Time `db:"check_in_time" json:"checkInTime,omitempty"`
	CompletedAt        *time.Time `db:"completed_at" json:"completedAt,omitempty"`
	CancelledAt        *time.Time `db:"cancelled_at" json:"cancelledAt,omitempty"`
	CancellationReason *string    `db:"cancellation_reason" json:"cancellationReason,omitempty"`

	RequiresFollowUp bool    `db:"requires_follow_up" json:"requiresFollowUp"`
	FollowUpDate     *string `db:"follow_up_date" json:"followUpDate,omitempty"`
	FollowUpNotes    *string `db:"follow_up_notes" json:"followUpNotes,omitempty"`

	Metadata  string    `db:"metadata" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// FollowUpPending reports a follow-up that was requested but never scheduled.
func (a *Appointment) FollowUpPending() bool {
	return a.RequiresFollowUp && (a.FollowUpDate == nil || *a.FollowUpDate == "")
}

// MarshalJSON inlines the metadata column and the followUpPending flag.
func (a *Appointment) MarshalJSON() ([]byte, error) {
	type alias Appointment
	meta := json.RawMessage(a.Metadata)
	if len(meta) == 0 {
		meta = json.RawMessage("{}")
	}
	return json.Marshal(struct {
		*alias
		Metadata        json.RawMessage `json:"metadata"`
		FollowUpPending bool            `json:"followUpPending"`
	}{(*alias)(a), meta, a.FollowUpPending()})
}

// CreateInput is the booking payload. The lifecycle state is not
// client-settable: every appointment starts pending.
type CreateInput struct {
	PatientID       int64   `json:"patientId" validate:"required,gt=0"`
	HospitalID      int64   `json:"hospitalId" validate:"required,gt=0"`
	AppointmentType string  `json:"appointmentType" validate:"required,oneof=consultation follow-up emergency routine-checkup specialist-referral"`
	Unit            string  `json:"unit" validate:"required"`
	Reason          string  `json:"reason" validate:"required"`
	AdditionalNotes *string `json:"additionalNotes"`

	ScheduledDate string `json:"scheduledDate" validate:"required,date"`
	ScheduledTime string `json:"scheduledTime" validate:"required,time12h"`
	Duration      *int   `json:"duration" validate:"omitempty,gte=15,lte=480"`

	Priority *string `json:"priority" validate:"omitempty,oneof=low normal high urgent"`

	HMOPlan            *string `json:"hmoPlan" validate:"omitempty,oneof=Gold Silver Platinum"`
	CoveragePercentage *int    `json:"coveragePercentage" validate:"omitempty,gte=0,lte=100"`
	EstimatedCost      *int64  `json:"estimatedCost" validate:"omitempty,gte=0"`

	AssignedProvider  *string `json:"assignedProvider"`
	ProviderSpecialty *string `json:"providerSpecialty"`

	RequiresFollowUp *bool   `json:"requiresFollowUp"`
	FollowUpDate     *string `json:"followUpDate" validate:"omitempty,date"`
	FollowUpNotes    *string `json:"followUpNotes"`

	Metadata map[string]interface{} `json:"metadata"`
}

// UpdateInput carries a partial update; nil fields stay unchanged. Lifecycle
// state changes only through the status operation.
type UpdateInput struct {
	AppointmentType *string `json:"appointmentType" validate:"omitempty,oneof=consultation follow-up emergency routine-checkup specialist-referral"`
	Unit            *string `json:"unit" validate:"omitempty,min=1"`
	Reason          *string `json:"reason" validate:"omitempty,min=1"`
	AdditionalNotes *string `json:"additionalNotes"`

	ScheduledDate *string `json:"scheduledDate" validate:"omitempty,date"`
	ScheduledTime *string `json:"scheduledTime" validate:"omitempty,time12h"`
	Duration      *int    `json:"duration" validate:"omitempty,gte=15,lte=480"`

	Priority *string `json:"priority" validate:"omitempty,oneof=low normal high urgent"`

	HMOPlan            *string `json:"hmoPlan" validate:"omitempty,oneof=Gold Silver Platinum"`
	CoveragePercentage *int    `json:"coveragePercentage" validate:"omitempty,gte=0,lte=100"`
	EstimatedCost      *int64  `json:"estimatedCost" validate:"omitempty,gte=0"`

	AssignedProvider  *string `json:"assignedProvider"`
	ProviderSpecialty *string `json:"providerSpecialty"`

	RequiresFollowUp *bool   `json:"requiresFollowUp"`
	FollowUpDate     *string `json:"followUpDate" validate:"omitempty,date"`
	FollowUpNotes    *string `json:"followUpNotes"`

	Metadata map[string]interface{} `json:"metadata"`
}

// StatusInput is the dedicated status-transition payload.
type StatusInput struct {
	Status             string  `json:"status" validate:"required,oneof=pending confirmed waiting in-progress completed cancelled no-show"`
	CancellationReason *string `json:"cancellationReason"`
}

// Filter narrows appointment listings. Nil/empty fields are unconstrained.
type Filter struct {
	Status     string
	PatientID  *int64
	HospitalID *int64
	Date       string
	Unit       string
	Priority   string
}
