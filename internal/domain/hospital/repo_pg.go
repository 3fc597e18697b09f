package hospital

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

const hospitalCols = `id, organization_id, facility_name, license_number, facility_type, tax_id,
	year_established, address, city, state, zip_code, country,
	primary_phone, alternate_phone, email, website,
	representative_name, representative_position, representative_phone, representative_email,
	specialties, accepted_insurance, certifications, services_offered, bed_count, staff_count,
	consent_terms, consent_data_sharing, consent_verification,
	metadata, created_at, updated_at`

func scanHospital(row pgx.Row) (*Hospital, error) {
	var h Hospital
	err := row.Scan(&h.ID, &h.OrganizationID, &h.FacilityName, &h.LicenseNumber, &h.FacilityType,
		&h.TaxID, &h.YearEstablished, &h.Address, &h.City, &h.State, &h.ZipCode, &h.Country,
		&h.PrimaryPhone, &h.AlternatePhone, &h.Email, &h.Website,
		&h.RepresentativeName, &h.RepresentativePosition, &h.RepresentativePhone, &h.RepresentativeEmail,
		&h.Specialties, &h.AcceptedInsurance, &h.Certifications, &h.ServicesOffered,
		&h.BedCount, &h.StaffCount,
		&h.ConsentTerms, &h.ConsentDataSharing, &h.ConsentVerification,
		&h.Metadata, &h.CreatedAt, &h.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &h, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *repoPG) Create(ctx context.Context, h *Hospital) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO hospitals (organization_id, facility_name, license_number, facility_type, tax_id,
			year_established, address, city, state, zip_code, country,
			primary_phone, alternate_phone, email, website,
			representative_name, representative_position, representative_phone, representative_email,
			specialties, accepted_insurance, certifications, services_offered, bed_count, staff_count,
			consent_terms, consent_data_sharing, consent_verification, metadata)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28,$29)
		RETURNING id, created_at, updated_at`,
		h.OrganizationID, h.FacilityName, h.LicenseNumber, h.FacilityType, h.TaxID,
		h.YearEstablished, h.Address, h.City, h.State, h.ZipCode, h.Country,
		h.PrimaryPhone, h.AlternatePhone, h.Email, h.Website,
		h.RepresentativeName, h.RepresentativePosition, h.RepresentativePhone, h.RepresentativeEmail,
		h.Specialties, h.AcceptedInsurance, h.Certifications, h.ServicesOffered, h.BedCount, h.StaffCount,
		h.ConsentTerms, h.ConsentDataSharing, h.ConsentVerification, h.Metadata,
	).Scan(&h.ID, &h.CreatedAt, &h.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateOrganization
	}
	return err
}

func orgFilter(orgID string, args []interface{}) (string, []interface{}) {
	if orgID == "" {
		return "", args
	}
	args = append(args, orgID)
	return fmt.Sprintf(" AND organization_id = $%d", len(args)), args
}

func (r *repoPG) GetByID(ctx context.Context, id int64, orgID string) (*Hospital, error) {
	args := []interface{}{id}
	filter, args := orgFilter(orgID, args)
	return scanHospital(r.conn(ctx).QueryRow(ctx,
		`SELECT `+hospitalCols+` FROM hospitals WHERE id = $1`+filter, args...))
}

func (r *repoPG) Update(ctx context.Context, id int64, orgID string, set map[string]interface{}) (*Hospital, error) {
	if len(set) == 0 {
		return r.GetByID(ctx, id, orgID)
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
	filter, args := orgFilter(orgID, args)

	return scanHospital(r.conn(ctx).QueryRow(ctx,
		fmt.Sprintf(`UPDATE hospitals SET updated_at = NOW()%s WHERE id = $1%s RETURNING `+hospitalCols, clause, filter),
		args...))
}

func (r *repoPG) Delete(ctx context.Context, id int64, orgID string) error {
	args := []interface{}{id}
	filter, args := orgFilter(orgID, args)
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM hospitals WHERE id = $1`+filter, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, orgID string, limit, offset int) ([]*Hospital, int64, error) {
	where := ""
	var args []interface{}
	if orgID != "" {
		args = append(args, orgID)
		where = ` WHERE organization_id = $1`
	}

	var total int64
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM hospitals`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+hospitalCols+` FROM hospitals%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Hospital
	for rows.Next() {
		h, err := scanHospital(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, h)
	}
	return items, total, rows.Err()
}
