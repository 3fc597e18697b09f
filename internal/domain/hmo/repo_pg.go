package hmo

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

const hmoCols = `id, organization_id, company_name, registration_number, tax_id, year_established,
	headquarters_address, city, state, zip_code, country,
	primary_phone, customer_service_phone, email, website,
	representative_name, representative_position, representative_phone, representative_email,
	states_covered, plan_types, member_count, network_size,
	annual_revenue, claims_processed, average_processing_time,
	hospital_partners, pharmacy_partners, laboratory_partners, specialist_partners,
	insurance_license_url, financial_statement_url,
	consent_terms, consent_data_sharing, consent_verification,
	metadata, created_at, updated_at`

func scanHMO(row pgx.Row) (*HMO, error) {
	var h HMO
	err := row.Scan(&h.ID, &h.OrganizationID, &h.CompanyName, &h.RegistrationNumber, &h.TaxID,
		&h.YearEstablished, &h.HeadquartersAddress, &h.City, &h.State, &h.ZipCode, &h.Country,
		&h.PrimaryPhone, &h.CustomerServicePhone, &h.Email, &h.Website,
		&h.RepresentativeName, &h.RepresentativePosition, &h.RepresentativePhone, &h.RepresentativeEmail,
		&h.StatesCovered, &h.PlanTypes, &h.MemberCount, &h.NetworkSize,
		&h.AnnualRevenue, &h.ClaimsProcessed, &h.AverageProcessingTime,
		&h.HospitalPartners, &h.PharmacyPartners, &h.LaboratoryPartners, &h.SpecialistPartners,
		&h.InsuranceLicenseURL, &h.FinancialStatementURL,
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

func (r *repoPG) Create(ctx context.Context, h *HMO) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO hmos (organization_id, company_name, registration_number, tax_id, year_established,
			headquarters_address, city, state, zip_code, country,
			primary_phone, customer_service_phone, email, website,
			representative_name, representative_position, representative_phone, representative_email,
			states_covered, plan_types, member_count, network_size,
			annual_revenue, claims_processed, average_processing_time,
			hospital_partners, pharmacy_partners, laboratory_partners, specialist_partners,
			consent_terms, consent_data_sharing, consent_verification, metadata)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,
			$21,$22,$23,$24,$25,$26,$27,$28,$29,$30,$31,$32,$33)
		RETURNING id, created_at, updated_at`,
		h.OrganizationID, h.CompanyName, h.RegistrationNumber, h.TaxID, h.YearEstablished,
		h.HeadquartersAddress, h.City, h.State, h.ZipCode, h.Country,
		h.PrimaryPhone, h.CustomerServicePhone, h.Email, h.Website,
		h.RepresentativeName, h.RepresentativePosition, h.RepresentativePhone, h.RepresentativeEmail,
		h.StatesCovered, h.PlanTypes, h.MemberCount, h.NetworkSize,
		h.AnnualRevenue, h.ClaimsProcessed, h.AverageProcessingTime,
		h.HospitalPartners, h.PharmacyPartners, h.LaboratoryPartners, h.SpecialistPartners,
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

func (r *repoPG) GetByID(ctx context.Context, id int64, orgID string) (*HMO, error) {
	args := []interface{}{id}
	filter, args := orgFilter(orgID, args)
	return scanHMO(r.conn(ctx).QueryRow(ctx,
		`SELECT `+hmoCols+` FROM hmos WHERE id = $1`+filter, args...))
}

func (r *repoPG) Update(ctx context.Context, id int64, orgID string, set map[string]interface{}) (*HMO, error) {
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

	return scanHMO(r.conn(ctx).QueryRow(ctx,
		fmt.Sprintf(`UPDATE hmos SET updated_at = NOW()%s WHERE id = $1%s RETURNING `+hmoCols, clause, filter),
		args...))
}

func (r *repoPG) Delete(ctx context.Context, id int64, orgID string) error {
	args := []interface{}{id}
	filter, args := orgFilter(orgID, args)
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM hmos WHERE id = $1`+filter, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, orgID string, limit, offset int) ([]*HMO, int64, error) {
	where := ""
	var args []interface{}
	if orgID != "" {
		args = append(args, orgID)
		where = ` WHERE organization_id = $1`
	}

	var total int64
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM hmos`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+hmoCols+` FROM hmos%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*HMO
	for rows.Next() {
		h, err := scanHMO(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, h)
	}
	return items, total, rows.Err()
}

func (r *repoPG) SetDocumentURL(ctx context.Context, id int64, doc Document, url string) (*string, error) {
	col := "insurance_license_url"
	if doc == DocumentFinancialStatement {
		col = "financial_statement_url"
	}

	var prior *string
	err := r.conn(ctx).QueryRow(ctx, fmt.Sprintf(`
		WITH prior AS (SELECT %s AS url FROM hmos WHERE id = $1)
		UPDATE hmos SET %s = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING (SELECT url FROM prior)`, col, col),
		id, url).Scan(&prior)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return prior, err
}
