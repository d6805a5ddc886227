package repository

import (
	"context"
	"database/sql"

	"apexcrm/internal/domain"
)

type CustomerRepo struct {
	db  *sql.DB // write pool
	rdb *sql.DB // read pool
}

func NewCustomerRepo(write, read *sql.DB) *CustomerRepo {
	return &CustomerRepo{db: write, rdb: read}
}

const customerColumns = `id, name, email, company, segment, status, created_at`

func scanCustomer(row interface{ Scan(...any) error }) (*domain.Customer, error) {
	var c domain.Customer
	var status string
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Company, &c.Segment, &status, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.Status = domain.CustomerStatus(status)
	return &c, nil
}

func (r *CustomerRepo) Create(ctx context.Context, c *domain.Customer) (*domain.Customer, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO customers (id, name, email, company, segment, status) VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Email, c.Company, c.Segment, string(c.Status))
	if err != nil {
		return nil, mapDBError(err)
	}
	return r.GetByID(ctx, c.ID)
}

func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	row := r.rdb.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = ?`, id)
	c, err := scanCustomer(row)
	if err != nil {
		return nil, mapDBError(err)
	}
	return c, nil
}

func (r *CustomerRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.Customer, int64, error) {
	var total int64
	if err := r.rdb.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.rdb.QueryContext(ctx,
		`SELECT `+customerColumns+` FROM customers ORDER BY name, id LIMIT ? OFFSET ?`,
		page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		customers = append(customers, *c)
	}
	return customers, total, rows.Err()
}

func (r *CustomerRepo) Update(ctx context.Context, c *domain.Customer) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE customers SET name = ?, email = ?, company = ?, segment = ?, status = ? WHERE id = ?`,
		c.Name, c.Email, c.Company, c.Segment, string(c.Status), c.ID)
	if err != nil {
		return mapDBError(err)
	}
	return requireRowAffected(res, "customer", c.ID)
}

func (r *CustomerRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	return mapDBError(err)
}
