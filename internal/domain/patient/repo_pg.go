package patient

import (
	"context"
	"errors"
	"fmt"

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

const patientCols = `id, full_name, phone_number, email, date_of_birth, gender, occupation,
	address, emergency_contact_name, emergency_phone,
	primary_care_physician, insurance_provider, insurance_policy_number,
	allergies, current_medications, family_medical_history, past_medical_history,
	identification_type, identification_number, id_document_url,
	consent_receive_treatment, consent_use_disclosure, consent_privacy_policy,
	metadata, created_at, updated_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.FullName, &p.PhoneNumber, &p.Email, &p.DateOfBirth, &p.Gender,
		&p.Occupation, &p.Address, &p.EmergencyContactName, &p.EmergencyPhone,
		&p.PrimaryCarePhysician, &p.InsuranceProvider, &p.InsurancePolicyNumber,
		&p.Allergies, &p.CurrentMedications, &p.FamilyMedicalHistory, &p.PastMedicalHistory,
		&p.IdentificationType, &p.IdentificationNumber, &p.IDDocumentURL,
		&p.ConsentReceiveTreatment, &p.ConsentUseDisclosure, &p.ConsentPrivacyPolicy,
		&p.Metadata, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO patients (full_name, phone_number, email, date_of_birth, gender, occupation,
			address, emergency_contact_name, emergency_phone,
			primary_care_physician, insurance_provider, insurance_policy_number,
			allergies, current_medications, family_medical_history, past_medical_history,
			identification_type, identification_number, id_document_url,
			consent_receive_treatment, consent_use_disclosure, consent_privacy_policy, metadata)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23)
		RETURNING id, created_at, updated_at`,
		p.FullName, p.PhoneNumber, p.Email, p.DateOfBirth, p.Gender, p.Occupation,
		p.Address, p.EmergencyContactName, p.EmergencyPhone,
		p.PrimaryCarePhysician, p.InsuranceProvider, p.InsurancePolicyNumber,
		p.Allergies, p.CurrentMedications, p.FamilyMedicalHistory, p.PastMedicalHistory,
		p.IdentificationType, p.IdentificationNumber, p.IDDocumentURL,
		p.ConsentReceiveTreatment, p.ConsentUseDisclosure, p.ConsentPrivacyPolicy, p.Metadata,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Patient, error) {
	return scanPatient(r.conn(ctx).QueryRow(ctx, `SELECT `+patientCols+` FROM patients WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, id int64, in *UpdateInput, metadata *string) (*Patient, error) {
	set := ""
	var args []interface{}
	add := func(col string, v interface{}) {
		args = append(args, v)
		set += fmt.Sprintf(", %s = $%d", col, len(args))
	}
	if in.FullName != nil {
		add("full_name", *in.FullName)
	}
	if in.PhoneNumber != nil {
		add("phone_number", *in.PhoneNumber)
	}
	if in.Email != nil {
		add("email", *in.Email)
	}
	if in.DateOfBirth != nil {
		add("date_of_birth", *in.DateOfBirth)
	}
	if in.Gender != nil {
		add("gender", *in.Gender)
	}
	if in.Occupation != nil {
		add("occupation", *in.Occupation)
	}
	if in.Address != nil {
		add("address", *in.Address)
	}
	if in.EmergencyContactName != nil {
		add("emergency_contact_name", *in.EmergencyContactName)
	}
	if in.EmergencyPhone != nil {
		add("emergency_phone", *in.EmergencyPhone)
	}
	if in.PrimaryCarePhysician != nil {
		add("primary_care_physician", *in.PrimaryCarePhysician)
	}
	if in.InsuranceProvider != nil {
		add("insurance_provider", *in.InsuranceProvider)
	}
	if in.InsurancePolicyNumber != nil {
		add("insurance_policy_number", *in.InsurancePolicyNumber)
	}
	if in.Allergies != nil {
		add("allergies", *in.Allergies)
	}
	if in.CurrentMedications != nil {
		add("current_medications", *in.CurrentMedications)
	}
	if in.FamilyMedicalHistory != nil {
		add("family_medical_history", *in.FamilyMedicalHistory)
	}
	if in.PastMedicalHistory != nil {
		add("past_medical_history", *in.PastMedicalHistory)
	}
	if in.IdentificationType != nil {
		add("identification_type", *in.IdentificationType)
	}
	if in.IdentificationNumber != nil {
		add("identification_number", *in.IdentificationNumber)
	}
	if in.IDDocumentURL != nil {
		add("id_document_url", *in.IDDocumentURL)
	}
	if in.ConsentReceiveTreatment != nil {
		add("consent_receive_treatment", *in.ConsentReceiveTreatment)
	}
	if in.ConsentUseDisclosure != nil {
		add("consent_use_disclosure", *in.ConsentUseDisclosure)
	}
	if in.ConsentPrivacyPolicy != nil {
		add("consent_privacy_policy", *in.ConsentPrivacyPolicy)
	}
	if metadata != nil {
		add("metadata", *metadata)
	}
	if len(args) == 0 {
		return r.GetByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE patients SET updated_at = NOW()%s WHERE id = $%d RETURNING `+patientCols, set, len(args))
	return scanPatient(r.conn(ctx).QueryRow(ctx, query, args...))
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, search string, limit, offset int) ([]*Patient, int64, error) {
	where := ""
	var args []interface{}
	if search != "" {
		args = append(args, "%"+search+"%")
		where = ` WHERE full_name ILIKE $1 OR email ILIKE $1 OR phone_number ILIKE $1`
	}

	var total int64
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patients`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+patientCols+` FROM patients%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

func (r *repoPG) Stats(ctx context.Context, patientID int64) (*Stats, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT status, COUNT(*) FROM appointments WHERE patient_id = $1 GROUP BY status`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var st Stats
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		st.Total += n
		switch status {
		case "pending":
			st.Pending = n
		case "confirmed":
			st.Confirmed = n
		case "waiting":
			st.Waiting = n
		case "in-progress":
			st.InProgress = n
		case "completed":
			st.Completed = n
		case "cancelled":
			st.Cancelled = n
		case "no-show":
			st.NoShow = n
		}
	}
	return &st, rows.Err()
}

func (r *repoPG) History(ctx context.Context, patientID int64) ([]HistoryEntry, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, hospital_id, appointment_type, unit, reason, scheduled_date, scheduled_time,
			completed_at, assigned_provider
		FROM appointments
		WHERE patient_id = $1 AND status = 'completed'
		ORDER BY completed_at DESC NULLS LAST`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []HistoryEntry
	for rows.Next() {
		var h HistoryEntry
		if err := rows.Scan(&h.AppointmentID, &h.HospitalID, &h.AppointmentType, &h.Unit,
			&h.Reason, &h.ScheduledDate, &h.ScheduledTime, &h.CompletedAt, &h.Provider); err != nil {
			return nil, err
		}
		items = append(items, h)
	}
	return items, rows.Err()
}

func (r *repoPG) Appointments(ctx context.Context, patientID int64) ([]AppointmentRow, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, hospital_id, appointment_type, unit, scheduled_date, scheduled_time, status, priority
		FROM appointments
		WHERE patient_id = $1
		ORDER BY created_at DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []AppointmentRow
	for rows.Next() {
		var a AppointmentRow
		if err := rows.Scan(&a.ID, &a.HospitalID, &a.AppointmentType, &a.Unit,
			&a.ScheduledDate, &a.ScheduledTime, &a.Status, &a.Priority); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}
