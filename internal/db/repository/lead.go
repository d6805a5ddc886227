package repository

import (
	"context"
	"database/sql"
	"time"

	"apexcrm/internal/domain"
)

type LeadRepo struct {
	db  *sql.DB // write pool
	rdb *sql.DB // read pool
}

func NewLeadRepo(write, read *sql.DB) *LeadRepo {
	return &LeadRepo{db: write, rdb: read}
}

const leadColumns = `id, contact_name, email, company, phone, source, notes, type, status, proposal_content, created_at`

func scanLead(row interface{ Scan(...any) error }) (*domain.Lead, error) {
	var l domain.Lead
	var leadType, status string
	var phone, notes, proposal sql.NullString
	if err := row.Scan(&l.ID, &l.ContactName, &l.Email, &l.Company, &phone, &l.Source,
		&notes, &leadType, &status, &proposal, &l.CreatedAt); err != nil {
		return nil, err
	}
	l.Type = domain.LeadType(leadType)
	l.Status = domain.LeadStatus(status)
	l.Phone = nullString(phone)
	l.Notes = nullString(notes)
	l.ProposalContent = nullString(proposal)
	return &l, nil
}

func (r *LeadRepo) Create(ctx context.Context, l *domain.Lead) (*domain.Lead, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO leads (id, contact_name, email, company, phone, source, notes, type, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.ContactName, l.Email, l.Company, toNullString(l.Phone), l.Source,
		toNullString(l.Notes), string(l.Type), string(l.Status))
	if err != nil {
		return nil, mapDBError(err)
	}
	return r.GetByID(ctx, l.ID)
}

func (r *LeadRepo) GetByID(ctx context.Context, id string) (*domain.Lead, error) {
	row := r.rdb.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = ?`, id)
	l, err := scanLead(row)
	if err != nil {
		return nil, mapDBError(err)
	}
	return l, nil
}

func (r *LeadRepo) ListByType(ctx context.Context, leadType domain.LeadType, page domain.PageRequest) ([]domain.Lead, int64, error) {
	var total int64
	if err := r.rdb.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM leads WHERE type = ?`, string(leadType)).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.rdb.QueryContext(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE type = ? ORDER BY created_at DESC, id LIMIT ? OFFSET ?`,
		string(leadType), page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var leads []domain.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, 0, err
		}
		leads = append(leads, *l)
	}
	return leads, total, rows.Err()
}

func (r *LeadRepo) SetStatus(ctx context.Context, id string, status domain.LeadStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE leads SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return mapDBError(err)
	}
	return requireRowAffected(res, "lead", id)
}

// SetProposal stores the proposal draft and optionally advances the status in
// the same statement (save-and-send).
func (r *LeadRepo) SetProposal(ctx context.Context, id string, content string, status *domain.LeadStatus) error {
	var res sql.Result
	var err error
	if status != nil {
		res, err = r.db.ExecContext(ctx,
			`UPDATE leads SET proposal_content = ?, status = ? WHERE id = ?`, content, string(*status), id)
	} else {
		res, err = r.db.ExecContext(ctx,
			`UPDATE leads SET proposal_content = ? WHERE id = ?`, content, id)
	}
	if err != nil {
		return mapDBError(err)
	}
	return requireRowAffected(res, "lead", id)
}

func (r *LeadRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM leads WHERE id = ?`, id)
	return mapDBError(err)
}

func (r *LeadRepo) CountByStatus(ctx context.Context, leadType *domain.LeadType) (map[domain.LeadStatus]int64, error) {
	query := `SELECT status, COUNT(*) FROM leads GROUP BY status`
	args := []any{}
	if leadType != nil {
		query = `SELECT status, COUNT(*) FROM leads WHERE type = ? GROUP BY status`
		args = append(args, string(*leadType))
	}

	rows, err := r.rdb.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.LeadStatus]int64)
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[domain.LeadStatus(status)] = n
	}
	return counts, rows.Err()
}

func (r *LeadRepo) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.rdb.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM leads WHERE created_at >= ?`, since).Scan(&n)
	return n, err
}
