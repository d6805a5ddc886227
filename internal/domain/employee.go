package domain

import (
	"strings"
	"time"
)

// EmployeeStatus is the closed set of employment states.
type EmployeeStatus string

const (
	EmployeeActive     EmployeeStatus = "Active"
	EmployeeOnLeave    EmployeeStatus = "On Leave"
	EmployeeTerminated EmployeeStatus = "Terminated"
)

// ParseEmployeeStatus validates a wire-format employee status.
func ParseEmployeeStatus(s string) (EmployeeStatus, error) {
	switch EmployeeStatus(s) {
	case EmployeeActive, EmployeeOnLeave, EmployeeTerminated:
		return EmployeeStatus(s), nil
	}
	return "", ErrValidation("unknown employee status %q", s)
}

// Employee is an HR employee record. Title is the free-form job title, not an
// application role.
type Employee struct {
	ID         string
	Name       string
	Email      string
	Title      string
	Department string
	Status     EmployeeStatus
	CreatedAt  time.Time
}

// UpsertEmployeeRequest holds parameters for creating or updating an employee.
type UpsertEmployeeRequest struct {
	Name       string
	Email      string
	Title      string
	Department string
	Status     string
}

// Validate checks the request and returns the parsed status.
// An empty status defaults to Active.
func (r *UpsertEmployeeRequest) Validate() (EmployeeStatus, error) {
	if strings.TrimSpace(r.Name) == "" {
		return "", ErrValidation("employee name is required")
	}
	if r.Status == "" {
		return EmployeeActive, nil
	}
	return ParseEmployeeStatus(r.Status)
}
