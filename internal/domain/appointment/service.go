package appointment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/healthbridge/healthbridge/internal/platform/mailer"
)

// ErrTerminalState is returned for transitions out of completed, cancelled
// or no-show.
var ErrTerminalState = errors.New("appointment is in a terminal state")

// ErrInvalidTransition is returned for transitions that skip the lifecycle
// chain.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrCancellationReason is returned when a cancellation carries no reason.
var ErrCancellationReason = errors.New("cancellationReason is required to cancel")

// ErrEncounterParentClosed is returned when documenting an encounter against
// a cancelled or no-show appointment.
var ErrEncounterParentClosed = errors.New("cannot document an encounter for a cancelled or no-show appointment")

// TxRunner executes fn atomically. The production runner wraps fn in a
// database transaction carried on the context; tests pass PassthroughTx.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// PassthroughTx runs fn without transactional guarantees.
func PassthroughTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type Service struct {
	repo Repository
	mail mailer.Mailer
	inTx TxRunner
}

func NewService(repo Repository, mail mailer.Mailer, inTx TxRunner) *Service {
	return &Service{repo: repo, mail: mail, inTx: inTx}
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

func encodeJSONList(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode list: %w", err)
	}
	return string(b), nil
}

// Create books an appointment. The lifecycle state is forced to pending
// regardless of payload; a confirmation email is attempted when the patient
// has one on file, and email failures never fail the booking.
func (s *Service) Create(ctx context.Context, in *CreateInput) (*Appointment, error) {
	meta, err := encodeMetadata(in.Metadata)
	if err != nil {
		return nil, err
	}

	a := &Appointment{
		PatientID:          in.PatientID,
		HospitalID:         in.HospitalID,
		AppointmentType:    Type(in.AppointmentType),
		Unit:               in.Unit,
		Reason:             in.Reason,
		AdditionalNotes:    in.AdditionalNotes,
		ScheduledDate:      in.ScheduledDate,
		ScheduledTime:      in.ScheduledTime,
		Duration:           30,
		Status:             StatusPending,
		Priority:           PriorityNormal,
		HMOPlan:            in.HMOPlan,
		CoveragePercentage: in.CoveragePercentage,
		EstimatedCost:      in.EstimatedCost,
		AssignedProvider:   in.AssignedProvider,
		ProviderSpecialty:  in.ProviderSpecialty,
		FollowUpDate:       in.FollowUpDate,
		FollowUpNotes:      in.FollowUpNotes,
		Metadata:           meta,
	}
	if in.Duration != nil {
		a.Duration = *in.Duration
	}
	if in.Priority != nil {
		a.Priority = Priority(*in.Priority)
	}
	if in.RequiresFollowUp != nil {
		a.RequiresFollowUp = *in.RequiresFollowUp
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.sendConfirmation(ctx, a)
	return a, nil
}

func (s *Service) sendConfirmation(ctx context.Context, a *Appointment) {
	contact, err := s.repo.PatientContact(ctx, a.PatientID)
	if err != nil || contact.Email == nil || *contact.Email == "" {
		return
	}
	html := fmt.Sprintf(
		"<p>Dear %s,</p><p>Your %s appointment at the %s unit is booked for %s at %s.</p>",
		contact.FullName, a.AppointmentType, a.Unit, a.ScheduledDate, a.ScheduledTime)
	if err := s.mail.Send(ctx, *contact.Email, "Appointment confirmation", html); err != nil {
		log.Warn().Err(err).Int64("appointment_id", a.ID).Msg("confirmation email failed")
	}
}

func (s *Service) Get(ctx context.Context, id int64) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, in *UpdateInput) (*Appointment, error) {
	set := map[string]interface{}{}
	strCol := func(col string, v *string) {
		if v != nil {
			set[col] = *v
		}
	}
	strCol("appointment_type", in.AppointmentType)
	strCol("unit", in.Unit)
	strCol("reason", in.Reason)
	strCol("additional_notes", in.AdditionalNotes)
	strCol("scheduled_date", in.ScheduledDate)
	strCol("scheduled_time", in.ScheduledTime)
	if in.Duration != nil {
		set["duration"] = *in.Duration
	}
	strCol("priority", in.Priority)
	strCol("hmo_plan", in.HMOPlan)
	if in.CoveragePercentage != nil {
		set["coverage_percentage"] = *in.CoveragePercentage
	}
	if in.EstimatedCost != nil {
		set["estimated_cost"] = *in.EstimatedCost
	}
	strCol("assigned_provider", in.AssignedProvider)
	strCol("provider_specialty", in.ProviderSpecialty)
	if in.RequiresFollowUp != nil {
		set["requires_follow_up"] = *in.RequiresFollowUp
	}
	strCol("follow_up_date", in.FollowUpDate)
	strCol("follow_up_notes", in.FollowUpNotes)
	if in.Metadata != nil {
		meta, err := encodeMetadata(in.Metadata)
		if err != nil {
			return nil, err
		}
		set["metadata"] = meta
	}

	return s.repo.Update(ctx, id, set)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*Appointment, int64, error) {
	return s.repo.List(ctx, f, limit, offset)
}

// UpdateStatus applies one lifecycle transition, stamping the timestamp the
// target state carries. Transitions out of a terminal state are rejected;
// skipping ahead in the chain is rejected; marking a no-show before the
// scheduled time is allowed but logged as a data-quality signal. Re-asserting
// the current state is a no-op, so a retried PATCH after a success returns
// the stored row instead of a terminal-state conflict.
func (s *Service) UpdateStatus(ctx context.Context, id int64, in *StatusInput) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	to := Status(in.Status)
	if to == a.Status {
		return a, nil
	}
	if !CanTransition(a.Status, to) {
		if a.Status.Terminal() {
			return nil, fmt.Errorf("%w: %s", ErrTerminalState, a.Status)
		}
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, to)
	}

	now := time.Now().UTC()
	set := map[string]interface{}{"status": string(to)}
	switch to {
	case StatusCancelled:
		if in.CancellationReason == nil || strings.TrimSpace(*in.CancellationReason) == "" {
			return nil, ErrCancellationReason
		}
		set["cancellation_reason"] = *in.CancellationReason
		set["cancelled_at"] = now
	case StatusCompleted:
		set["completed_at"] = now
	case StatusWaiting:
		if a.CheckInTime == nil {
			set["check_in_time"] = now
		}
	case StatusNoShow:
		if at, ok := scheduledAt(a); ok && now.Before(at) {
			log.Warn().Int64("appointment_id", a.ID).Time("scheduled_at", at).
				Msg("appointment marked no-show before its scheduled time")
		}
	}

	return s.repo.Update(ctx, id, set)
}

// scheduledAt combines the stored date and 12-hour time. Rows with
// unparseable schedule values report no instant.
func scheduledAt(a *Appointment) (time.Time, bool) {
	date := a.ScheduledDate
	if t, err := time.Parse(time.RFC3339, date); err == nil {
		date = t.Format("2006-01-02")
	}
	at, err := time.Parse("2006-01-02 3:04 PM", date+" "+strings.ToUpper(a.ScheduledTime))
	if err != nil {
		return time.Time{}, false
	}
	return at, true
}

// CreateEncounter documents a clinical encounter. Writing the encounter and
// completing its parent appointment happen in one transaction: a visit with
// documented clinical findings is over. Already-completed parents attach
// without re-stamping; cancelled and no-show parents reject documentation.
func (s *Service) CreateEncounter(ctx context.Context, in *CreateEncounterInput) (*ClinicalEncounter, error) {
	meta, err := encodeMetadata(in.Metadata)
	if err != nil {
		return nil, err
	}
	diagnoses, err := encodeJSONList(orEmpty(in.SecondaryDiagnoses))
	if err != nil {
		return nil, err
	}
	prescriptions, err := encodeJSONList(orEmptyRx(in.Prescriptions))
	if err != nil {
		return nil, err
	}
	procedures, err := encodeJSONList(orEmpty(in.Procedures))
	if err != nil {
		return nil, err
	}

	e := &ClinicalEncounter{
		AppointmentID:           in.AppointmentID,
		EncounterDate:           in.EncounterDate,
		EncounterTime:           in.EncounterTime,
		BloodPressureSystolic:   in.BloodPressureSystolic,
		BloodPressureDiastolic:  in.BloodPressureDiastolic,
		HeartRate:               in.HeartRate,
		Temperature:             in.Temperature,
		RespiratoryRate:         in.RespiratoryRate,
		OxygenSaturation:        in.OxygenSaturation,
		Weight:                  in.Weight,
		Height:                  in.Height,
		BMI:                     in.BMI,
		ChiefComplaint:          in.ChiefComplaint,
		HistoryOfPresentIllness: in.HistoryOfPresentIllness,
		PastMedicalHistory:      in.PastMedicalHistory,
		Medications:             in.Medications,
		Allergies:               in.Allergies,
		FamilyHistory:           in.FamilyHistory,
		PhysicalExamination:     in.PhysicalExamination,
		PrimaryDiagnosis:        in.PrimaryDiagnosis,
		SecondaryDiagnoses:      diagnoses,
		TreatmentPlan:           in.TreatmentPlan,
		Prescriptions:           prescriptions,
		Procedures:              procedures,
		FollowUpInstructions:    in.FollowUpInstructions,
		ReferralTo:              in.ReferralTo,
		ReferralReason:          in.ReferralReason,
		ProviderName:            in.ProviderName,
		ProviderSpecialty:       in.ProviderSpecialty,
		ProviderLicense:         in.ProviderLicense,
		Metadata:                meta,
	}

	err = s.inTx(ctx, func(ctx context.Context) error {
		a, err := s.repo.GetByID(ctx, in.AppointmentID)
		if err != nil {
			return err
		}
		switch a.Status {
		case StatusCancelled, StatusNoShow:
			return ErrEncounterParentClosed
		}

		if err := s.repo.CreateEncounter(ctx, e); err != nil {
			return err
		}
		if a.Status != StatusCompleted {
			_, err = s.repo.Update(ctx, a.ID, map[string]interface{}{
				"status":       string(StatusCompleted),
				"completed_at": time.Now().UTC(),
			})
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

func orEmpty(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func orEmptyRx(v []Prescription) []Prescription {
	if v == nil {
		return []Prescription{}
	}
	return v
}

func (s *Service) GetEncounter(ctx context.Context, id int64) (*ClinicalEncounter, error) {
	return s.repo.GetEncounter(ctx, id)
}

// ListEncounters returns the encounters documented against an appointment.
func (s *Service) ListEncounters(ctx context.Context, appointmentID int64) ([]*ClinicalEncounter, error) {
	if _, err := s.repo.GetByID(ctx, appointmentID); err != nil {
		return nil, err
	}
	return s.repo.ListEncounters(ctx, appointmentID)
}
