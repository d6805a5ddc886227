package repository

import (
	"context"
	"database/sql"

	"apexcrm/internal/domain"
)

type EmployeeRepo struct {
	db  *sql.DB // write pool
	rdb *sql.DB // read pool
}

func NewEmployeeRepo(write, read *sql.DB) *EmployeeRepo {
	return &EmployeeRepo{db: write, rdb: read}
}

const employeeColumns = `id, name, email, title, department, status, created_at`

func scanEmployee(row interface{ Scan(...any) error }) (*domain.Employee, error) {
	var e domain.Employee
	var status string
	if err := row.Scan(&e.ID, &e.Name, &e.Email, &e.Title, &e.Department, &status, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.Status = domain.EmployeeStatus(status)
	return &e, nil
}

func (r *EmployeeRepo) Create(ctx context.Context, e *domain.Employee) (*domain.Employee, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO employees (id, name, email, title, department, status) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Name, e.Email, e.Title, e.Department, string(e.Status))
	if err != nil {
		return nil, mapDBError(err)
	}
	return r.GetByID(ctx, e.ID)
}

func (r *EmployeeRepo) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	row := r.rdb.QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = ?`, id)
	e, err := scanEmployee(row)
	if err != nil {
		return nil, mapDBError(err)
	}
	return e, nil
}

func (r *EmployeeRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.Employee, int64, error) {
	var total int64
	if err := r.rdb.QueryRowContext(ctx, `SELECT COUNT(*) FROM employees`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.rdb.QueryContext(ctx,
		`SELECT `+employeeColumns+` FROM employees ORDER BY name, id LIMIT ? OFFSET ?`,
		page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var employees []domain.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		employees = append(employees, *e)
	}
	return employees, total, rows.Err()
}

func (r *EmployeeRepo) Update(ctx context.Context, e *domain.Employee) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE employees SET name = ?, email = ?, title = ?, department = ?, status = ? WHERE id = ?`,
		e.Name, e.Email, e.Title, e.Department, string(e.Status), e.ID)
	if err != nil {
		return mapDBError(err)
	}
	return requireRowAffected(res, "employee", e.ID)
}

func (r *EmployeeRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id)
	return mapDBError(err)
}
