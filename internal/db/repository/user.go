package repository

import (
	"context"
	"database/sql"

	"apexcrm/internal/domain"
)

type UserRepo struct {
	db  *sql.DB // write pool
	rdb *sql.DB // read pool
}

// NewUserRepo wires the repo onto a write pool and a read pool. Callers with
// a single handle pass it twice.
func NewUserRepo(write, read *sql.DB) *UserRepo {
	return &UserRepo{db: write, rdb: read}
}

const userColumns = `id, name, email, role, disabled, email_verified, avatar, readme, created_at`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var u domain.User
	var role string
	var avatar, readme sql.NullString
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &role, &u.Disabled, &u.EmailVerified, &avatar, &readme, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	u.Avatar = nullString(avatar)
	u.Readme = nullString(readme)
	return &u, nil
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, role, disabled, email_verified, avatar, readme)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, string(u.Role), u.Disabled, u.EmailVerified,
		toNullString(u.Avatar), toNullString(u.Readme))
	if err != nil {
		return nil, mapDBError(err)
	}
	return r.GetByID(ctx, u.ID)
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.rdb.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return nil, mapDBError(err)
	}
	return u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.rdb.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err != nil {
		return nil, mapDBError(err)
	}
	return u, nil
}

func (r *UserRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.User, int64, error) {
	var total int64
	if err := r.rdb.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.rdb.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at, id LIMIT ? OFFSET ?`,
		page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *u)
	}
	return users, total, rows.Err()
}

func (r *UserRepo) UpdateProfile(ctx context.Context, id string, req domain.UpdateProfileRequest) error {
	// Build only the assignments for fields that are actually changing.
	set := ""
	args := []any{}
	if req.Name != nil {
		set += "name = ?"
		args = append(args, *req.Name)
	}
	if req.Readme != nil {
		if set != "" {
			set += ", "
		}
		set += "readme = ?"
		args = append(args, *req.Readme)
	}
	if req.Avatar != nil {
		if set != "" {
			set += ", "
		}
		set += "avatar = ?"
		args = append(args, *req.Avatar)
	}
	if set == "" {
		return nil
	}
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, `UPDATE users SET `+set+` WHERE id = ?`, args...)
	if err != nil {
		return mapDBError(err)
	}
	return requireRowAffected(res, "user", id)
}

func (r *UserRepo) SetEmailVerified(ctx context.Context, id string, verified bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET email_verified = ? WHERE id = ?`, verified, id)
	if err != nil {
		return mapDBError(err)
	}
	return requireRowAffected(res, "user", id)
}

func (r *UserRepo) SetDisabled(ctx context.Context, id string, disabled bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET disabled = ? WHERE id = ?`, disabled, id)
	if err != nil {
		return mapDBError(err)
	}
	return requireRowAffected(res, "user", id)
}

// SetRole updates the account record and mirrors the role into the registry
// entry in one transaction, so the two writes cannot drift.
func (r *UserRepo) SetRole(ctx context.Context, id, email string, role domain.Role) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, `UPDATE users SET role = ? WHERE id = ?`, string(role), id)
	if err != nil {
		return mapDBError(err)
	}
	if err := requireRowAffected(res, "user", id); err != nil {
		return err
	}
	// dev never enters the registry; the allow-list is the only source of dev.
	if role != domain.RoleDev {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user_roles (email, role) VALUES (?, ?)
			 ON CONFLICT (email) DO UPDATE SET role = excluded.role`,
			email, string(role)); err != nil {
			return mapDBError(err)
		}
	}
	return tx.Commit()
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	return mapDBError(err)
}

func requireRowAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound("%s %s not found", kind, id)
	}
	return nil
}
