package crm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"apexcrm/internal/domain"
)

type EmployeeService struct {
	repo   domain.EmployeeRepository
	audit  domain.ActivityRepository
	logger *slog.Logger
}

func NewEmployeeService(repo domain.EmployeeRepository, audit domain.ActivityRepository, logger *slog.Logger) *EmployeeService {
	return &EmployeeService{repo: repo, audit: audit, logger: logger.With("component", "employees")}
}

func (s *EmployeeService) Create(ctx context.Context, req domain.UpsertEmployeeRequest) (*domain.Employee, error) {
	if err := require(ctx, domain.ActionManageEmployees); err != nil {
		return nil, err
	}
	status, err := req.Validate()
	if err != nil {
		return nil, err
	}
	employee, err := s.repo.Create(ctx, &domain.Employee{
		ID:         uuid.NewString(),
		Name:       req.Name,
		Email:      req.Email,
		Title:      req.Title,
		Department: req.Department,
		Status:     status,
	})
	if err != nil {
		return nil, err
	}
	recordActivity(ctx, s.audit, s.logger, domain.ActivityEmployeeCreated,
		fmt.Sprintf("Added employee %s", employee.Name))
	return employee, nil
}

func (s *EmployeeService) Get(ctx context.Context, id string) (*domain.Employee, error) {
	if err := require(ctx, domain.ActionManageEmployees); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *EmployeeService) List(ctx context.Context, page domain.PageRequest) ([]domain.Employee, int64, error) {
	if err := require(ctx, domain.ActionManageEmployees); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, page)
}

func (s *EmployeeService) Update(ctx context.Context, id string, req domain.UpsertEmployeeRequest) (*domain.Employee, error) {
	if err := require(ctx, domain.ActionManageEmployees); err != nil {
		return nil, err
	}
	status, err := req.Validate()
	if err != nil {
		return nil, err
	}
	employee, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	employee.Name = req.Name
	employee.Email = req.Email
	employee.Title = req.Title
	employee.Department = req.Department
	employee.Status = status
	if err := s.repo.Update(ctx, employee); err != nil {
		return nil, err
	}
	recordActivity(ctx, s.audit, s.logger, domain.ActivityEmployeeUpdated,
		fmt.Sprintf("Updated employee %s", employee.Name))
	return employee, nil
}

func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	if err := require(ctx, domain.ActionManageEmployees); err != nil {
		return err
	}
	employee, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	recordActivity(ctx, s.audit, s.logger, domain.ActivityEmployeeDeleted,
		fmt.Sprintf("Removed employee %s", employee.Name))
	return nil
}
