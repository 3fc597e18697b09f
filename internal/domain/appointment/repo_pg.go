package appointment

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/healthbridge/healthbridge/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const apptCols = `id, patient_id, hospital_id, appointment_type, unit, reason, additional_notes,
	scheduled_date, scheduled_time, duration, status, priority,
	hmo_plan, coverage_percentage, estimated_cost,
	assigned_provider, provider_specialty,
	check_in_time, completed_at, cancelled_at, cancellation_reason,
	requires_follow_up, follow_up_date, follow_up_notes,
	metadata, created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.HospitalID, &a.AppointmentType, &a.Unit, &a.Reason,
		&a.AdditionalNotes, &a.ScheduledDate, &a.ScheduledTime, &a.Duration, &a.Status, &a.Priority,
		&a.HMOPlan, &a.CoveragePercentage, &a.EstimatedCost,
		&a.AssignedProvider, &a.ProviderSpecialty,
		&a.CheckInTime, &a.CompletedAt, &a.CancelledAt, &a.CancellationReason,
		&a.RequiresFollowUp, &a.FollowUpDate, &a.FollowUpNotes,
		&a.Metadata, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &a, err
}

func isFKViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO appointments (patient_id, hospital_id, appointment_type, unit, reason,
			additional_notes, scheduled_date, scheduled_time, duration, status, priority,
			hmo_plan, coverage_percentage, estimated_cost,
			assigned_provider, provider_specialty,
			requires_follow_up, follow_up_date, follow_up_notes, metadata)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
		RETURNING id, created_at, updated_at`,
		a.PatientID, a.HospitalID, a.AppointmentType, a.Unit, a.Reason,
		a.AdditionalNotes, a.ScheduledDate, a.ScheduledTime, a.Duration, a.Status, a.Priority,
		a.HMOPlan, a.CoveragePercentage, a.EstimatedCost,
		a.AssignedProvider, a.ProviderSpecialty,
		a.RequiresFollowUp, a.FollowUpDate, a.FollowUpNotes, a.Metadata,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if isFKViolation(err) {
		return ErrInvalidReference
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Appointment, error) {
	return scanAppointment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+apptCols+` FROM appointments WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, id int64, set map[string]interface{}) (*Appointment, error) {
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}

	cols := make([]string, 0, len(set))
	for col := range set {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	clause := ""
	args := []interface{}{id}
	for _, col := range cols {
		args = append(args, set[col])
		clause += fmt.Sprintf(", %s = $%d", col, len(args))
	}

	return scanAppointment(r.conn(ctx).QueryRow(ctx,
		fmt.Sprintf(`UPDATE appointments SET updated_at = NOW()%s WHERE id = $1 RETURNING `+apptCols, clause),
		args...))
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Appointment, int64, error) {
	where := ` WHERE 1=1`
	var args []interface{}
	add := func(clause string, v interface{}) {
		args = append(args, v)
		where += fmt.Sprintf(clause, len(args))
	}
	if f.Status != "" {
		add(` AND status = $%d`, f.Status)
	}
	if f.PatientID != nil {
		add(` AND patient_id = $%d`, *f.PatientID)
	}
	if f.HospitalID != nil {
		add(` AND hospital_id = $%d`, *f.HospitalID)
	}
	if f.Date != "" {
		add(` AND scheduled_date = $%d`, f.Date)
	}
	if f.Unit != "" {
		add(` AND unit = $%d`, f.Unit)
	}
	if f.Priority != "" {
		add(` AND priority = $%d`, f.Priority)
	}

	var total int64
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM appointments`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+apptCols+` FROM appointments%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}

func (r *repoPG) PatientContact(ctx context.Context, patientID int64) (*PatientContact, error) {
	var pc PatientContact
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT full_name, email FROM patients WHERE id = $1`, patientID).
		Scan(&pc.FullName, &pc.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInvalidReference
	}
	return &pc, err
}

const encounterCols = `id, appointment_id, encounter_date, encounter_time,
	blood_pressure_systolic, blood_pressure_diastolic, heart_rate, temperature,
	respiratory_rate, oxygen_saturation, weight, height, bmi,
	chief_complaint, history_of_present_illness, past_medical_history, medications,
	allergies, family_history, physical_examination,
	primary_diagnosis, secondary_diagnoses, treatment_plan, prescriptions, procedures,
	follow_up_instructions, referral_to, referral_reason,
	provider_name, provider_specialty, provider_license,
	metadata, created_at, updated_at`

func scanEncounter(row pgx.Row) (*ClinicalEncounter, error) {
	var e ClinicalEncounter
	err := row.Scan(&e.ID, &e.AppointmentID, &e.EncounterDate, &e.EncounterTime,
		&e.BloodPressureSystolic, &e.BloodPressureDiastolic, &e.HeartRate, &e.Temperature,
		&e.RespiratoryRate, &e.OxygenSaturation, &e.Weight, &e.Height, &e.BMI,
		&e.ChiefComplaint, &e.HistoryOfPresentIllness, &e.PastMedicalHistory, &e.Medications,
		&e.Allergies, &e.FamilyHistory, &e.PhysicalExamination,
		&e.PrimaryDiagnosis, &e.SecondaryDiagnoses, &e.TreatmentPlan, &e.Prescriptions, &e.Procedures,
		&e.FollowUpInstructions, &e.ReferralTo, &e.ReferralReason,
		&e.ProviderName, &e.ProviderSpecialty, &e.ProviderLicense,
		&e.Metadata, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEncounterNotFound
	}
	return &e, err
}

func (r *repoPG) CreateEncounter(ctx context.Context, e *ClinicalEncounter) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO clinical_encounters (appointment_id, encounter_date, encounter_time,
			blood_pressure_systolic, blood_pressure_diastolic, heart_rate, temperature,
			respiratory_rate, oxygen_saturation, weight, height, bmi,
			chief_complaint, history_of_present_illness, past_medical_history, medications,
			allergies, family_history, physical_examination,
			primary_diagnosis, secondary_diagnoses, treatment_plan, prescriptions, procedures,
			follow_up_instructions, referral_to, referral_reason,
			provider_name, provider_specialty, provider_license, metadata)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,
			$21,$22,$23,$24,$25,$26,$27,$28,$29,$30,$31)
		RETURNING id, created_at, updated_at`,
		e.AppointmentID, e.EncounterDate, e.EncounterTime,
		e.BloodPressureSystolic, e.BloodPressureDiastolic, e.HeartRate, e.Temperature,
		e.RespiratoryRate, e.OxygenSaturation, e.Weight, e.Height, e.BMI,
		e.ChiefComplaint, e.HistoryOfPresentIllness, e.PastMedicalHistory, e.Medications,
		e.Allergies, e.FamilyHistory, e.PhysicalExamination,
		e.PrimaryDiagnosis, e.SecondaryDiagnoses, e.TreatmentPlan, e.Prescriptions, e.Procedures,
		e.FollowUpInstructions, e.ReferralTo, e.ReferralReason,
		e.ProviderName, e.ProviderSpecialty, e.ProviderLicense, e.Metadata,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if isFKViolation(err) {
		return ErrNotFound
	}
	return err
}

func (r *repoPG) GetEncounter(ctx context.Context, id int64) (*ClinicalEncounter, error) {
	return scanEncounter(r.conn(ctx).QueryRow(ctx,
		`SELECT `+encounterCols+` FROM clinical_encounters WHERE id = $1`, id))
}

func (r *repoPG) ListEncounters(ctx context.Context, appointmentID int64) ([]*ClinicalEncounter, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+encounterCols+` FROM clinical_encounters WHERE appointment_id = $1 ORDER BY created_at DESC`,
		appointmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*ClinicalEncounter
	for rows.Next() {
		e, err := scanEncounter(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}
