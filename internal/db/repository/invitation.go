package repository

import (
	"context"
	"database/sql"

	"apexcrm/internal/domain"
)

type InvitationRepo struct {
	db  *sql.DB // write pool
	rdb *sql.DB // read pool
}

func NewInvitationRepo(write, read *sql.DB) *InvitationRepo {
	return &InvitationRepo{db: write, rdb: read}
}

// Put creates or replaces the registry entry for the email. Administrators may
// re-invite with a different role ahead of first login.
func (r *InvitationRepo) Put(ctx context.Context, inv *domain.Invitation) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_roles (email, role) VALUES (?, ?)
		 ON CONFLICT (email) DO UPDATE SET role = excluded.role`,
		inv.Email, string(inv.Role))
	return mapDBError(err)
}

func (r *InvitationRepo) GetByEmail(ctx context.Context, email string) (*domain.Invitation, error) {
	var inv domain.Invitation
	var role string
	err := r.rdb.QueryRowContext(ctx,
		`SELECT email, role, created_at FROM user_roles WHERE email = ?`, email).
		Scan(&inv.Email, &role, &inv.CreatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	inv.Role = domain.Role(role)
	return &inv, nil
}

func (r *InvitationRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.Invitation, int64, error) {
	var total int64
	if err := r.rdb.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_roles`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.rdb.QueryContext(ctx,
		`SELECT email, role, created_at FROM user_roles ORDER BY created_at, email LIMIT ? OFFSET ?`,
		page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var invs []domain.Invitation
	for rows.Next() {
		var inv domain.Invitation
		var role string
		if err := rows.Scan(&inv.Email, &role, &inv.CreatedAt); err != nil {
			return nil, 0, err
		}
		inv.Role = domain.Role(role)
		invs = append(invs, inv)
	}
	return invs, total, rows.Err()
}

func (r *InvitationRepo) Delete(ctx context.Context, email string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM user_roles WHERE email = ?`, email)
	return mapDBError(err)
}
