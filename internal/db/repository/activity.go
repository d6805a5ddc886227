package repository

import (
	"context"
	"database/sql"

	"apexcrm/internal/domain"
)

type ActivityRepo struct {
	db  *sql.DB // write pool
	rdb *sql.DB // read pool
}

func NewActivityRepo(write, read *sql.DB) *ActivityRepo {
	return &ActivityRepo{db: write, rdb: read}
}

func (r *ActivityRepo) Insert(ctx context.Context, a *domain.Activity) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO activities (id, type, description, actor_email, actor_name)
		 VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.Type, a.Description, a.ActorEmail, a.ActorName)
	return mapDBError(err)
}

func (r *ActivityRepo) List(ctx context.Context, filter domain.ActivityFilter) ([]domain.Activity, int64, error) {
	where := ""
	args := []any{}
	if filter.Type != nil {
		where = ` WHERE type = ?`
		args = append(args, *filter.Type)
	}
	if filter.ActorEmail != nil {
		if where == "" {
			where = ` WHERE actor_email = ?`
		} else {
			where += ` AND actor_email = ?`
		}
		args = append(args, *filter.ActorEmail)
	}

	var total int64
	if err := r.rdb.QueryRowContext(ctx, `SELECT COUNT(*) FROM activities`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listArgs := append(args, filter.Page.Limit(), filter.Page.Offset())
	rows, err := r.rdb.QueryContext(ctx,
		`SELECT id, type, description, actor_email, actor_name, created_at
		 FROM activities`+where+` ORDER BY created_at DESC, id LIMIT ? OFFSET ?`,
		listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var activities []domain.Activity
	for rows.Next() {
		var a domain.Activity
		if err := rows.Scan(&a.ID, &a.Type, &a.Description, &a.ActorEmail, &a.ActorName, &a.CreatedAt); err != nil {
			return nil, 0, err
		}
		activities = append(activities, a)
	}
	return activities, total, rows.Err()
}
