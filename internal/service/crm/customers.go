package crm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"apexcrm/internal/domain"
)

type CustomerService struct {
	repo   domain.CustomerRepository
	audit  domain.ActivityRepository
	logger *slog.Logger
}

func NewCustomerService(repo domain.CustomerRepository, audit domain.ActivityRepository, logger *slog.Logger) *CustomerService {
	return &CustomerService{repo: repo, audit: audit, logger: logger.With("component", "customers")}
}

func (s *CustomerService) Create(ctx context.Context, req domain.UpsertCustomerRequest) (*domain.Customer, error) {
	if err := require(ctx, domain.ActionManageCustomers); err != nil {
		return nil, err
	}
	status, err := req.Validate()
	if err != nil {
		return nil, err
	}
	customer, err := s.repo.Create(ctx, &domain.Customer{
		ID:      uuid.NewString(),
		Name:    req.Name,
		Email:   req.Email,
		Company: req.Company,
		Segment: req.Segment,
		Status:  status,
	})
	if err != nil {
		return nil, err
	}
	recordActivity(ctx, s.audit, s.logger, domain.ActivityCustomerCreated,
		fmt.Sprintf("Added customer %s", customer.Name))
	return customer, nil
}

func (s *CustomerService) Get(ctx context.Context, id string) (*domain.Customer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CustomerService) List(ctx context.Context, page domain.PageRequest) ([]domain.Customer, int64, error) {
	return s.repo.List(ctx, page)
}

func (s *CustomerService) Update(ctx context.Context, id string, req domain.UpsertCustomerRequest) (*domain.Customer, error) {
	if err := require(ctx, domain.ActionManageCustomers); err != nil {
		return nil, err
	}
	status, err := req.Validate()
	if err != nil {
		return nil, err
	}
	customer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	customer.Name = req.Name
	customer.Email = req.Email
	customer.Company = req.Company
	customer.Segment = req.Segment
	customer.Status = status
	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, err
	}
	recordActivity(ctx, s.audit, s.logger, domain.ActivityCustomerUpdated,
		fmt.Sprintf("Updated customer %s", customer.Name))
	return customer, nil
}

func (s *CustomerService) Delete(ctx context.Context, id string) error {
	if err := require(ctx, domain.ActionManageCustomers); err != nil {
		return err
	}
	customer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	recordActivity(ctx, s.audit, s.logger, domain.ActivityCustomerDeleted,
		fmt.Sprintf("Removed customer %s", customer.Name))
	return nil
}
