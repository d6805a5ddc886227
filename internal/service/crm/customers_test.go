package crm

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	req "github.com/stretchr/testify/require"

	internaldb "apexcrm/internal/db"
	"apexcrm/internal/db/repository"
	"apexcrm/internal/domain"
)

func setupCustomers(t *testing.T) (*CustomerService, *repository.ActivityRepo) {
	t.Helper()
	db, rdb := internaldb.OpenTestSQLite(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	activities := repository.NewActivityRepo(db, rdb)
	return NewCustomerService(repository.NewCustomerRepo(db, rdb), activities, logger), activities
}

func TestCustomerCRUD(t *testing.T) {
	svc, activities := setupCustomers(t)
	sales := ctxAs(domain.RoleSales)

	created, err := svc.Create(sales, domain.UpsertCustomerRequest{
		Name: "Mason Builders", Email: "office@mason.example.com", Segment: "Construction",
	})
	req.NoError(t, err)
	assert.Equal(t, domain.CustomerNew, created.Status)

	updated, err := svc.Update(sales, created.ID, domain.UpsertCustomerRequest{
		Name: "Mason Builders", Email: "office@mason.example.com",
		Segment: "Construction", Status: "Active",
	})
	req.NoError(t, err)
	assert.Equal(t, domain.CustomerActive, updated.Status)

	req.NoError(t, svc.Delete(sales, created.ID))
	var notFound *domain.NotFoundError
	_, err = svc.Get(context.Background(), created.ID)
	assert.ErrorAs(t, err, &notFound)

	// Create, update, and delete each leave an audit entry.
	recorded, _, err := activities.List(context.Background(), domain.ActivityFilter{})
	req.NoError(t, err)
	assert.Len(t, recorded, 3)
}

func TestCustomerWrites_GatedFromHR(t *testing.T) {
	svc, _ := setupCustomers(t)
	hr := ctxAs(domain.RoleHR)

	_, err := svc.Create(hr, domain.UpsertCustomerRequest{Name: "X"})
	var accessDenied *domain.AccessDeniedError
	assert.ErrorAs(t, err, &accessDenied)

	// Reads stay open to every signed-in role.
	_, _, err = svc.List(hr, domain.PageRequest{})
	assert.NoError(t, err)
}

func TestCustomerCreate_UnknownStatus(t *testing.T) {
	svc, _ := setupCustomers(t)
	_, err := svc.Create(ctxAs(domain.RoleAdmin), domain.UpsertCustomerRequest{
		Name: "X", Status: "Dormant",
	})
	var validation *domain.ValidationError
	assert.ErrorAs(t, err, &validation)
}
