package domain

import (
	"strings"
	"time"
)

// CustomerStatus is the closed set of customer lifecycle states.
type CustomerStatus string

const (
	CustomerActive  CustomerStatus = "Active"
	CustomerNew     CustomerStatus = "New"
	CustomerChurned CustomerStatus = "Churned"
)

// ParseCustomerStatus validates a wire-format customer status.
func ParseCustomerStatus(s string) (CustomerStatus, error) {
	switch CustomerStatus(s) {
	case CustomerActive, CustomerNew, CustomerChurned:
		return CustomerStatus(s), nil
	}
	return "", ErrValidation("unknown customer status %q", s)
}

// Customer is a CRM customer record.
type Customer struct {
	ID        string
	Name      string
	Email     string
	Company   string
	Segment   string
	Status    CustomerStatus
	CreatedAt time.Time
}

// UpsertCustomerRequest holds parameters for creating or updating a customer.
type UpsertCustomerRequest struct {
	Name    string
	Email   string
	Company string
	Segment string
	Status  string
}

// Validate checks the request and returns the parsed status.
// An empty status defaults to New.
func (r *UpsertCustomerRequest) Validate() (CustomerStatus, error) {
	if strings.TrimSpace(r.Name) == "" {
		return "", ErrValidation("customer name is required")
	}
	if r.Status == "" {
		return CustomerNew, nil
	}
	return ParseCustomerStatus(r.Status)
}
