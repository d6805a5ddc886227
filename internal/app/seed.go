package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"apexcrm/internal/domain"
	"apexcrm/internal/idp"
)

// seedManifest is the YAML shape of a seed file. Every section is optional.
type seedManifest struct {
	Users []struct {
		Name     string `yaml:"name"`
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
		Role     string `yaml:"role"`
	} `yaml:"users"`
	Customers []struct {
		Name    string `yaml:"name"`
		Email   string `yaml:"email"`
		Company string `yaml:"company"`
		Segment string `yaml:"segment"`
		Status  string `yaml:"status"`
	} `yaml:"customers"`
	Employees []struct {
		Name       string `yaml:"name"`
		Email      string `yaml:"email"`
		Title      string `yaml:"title"`
		Department string `yaml:"department"`
		Status     string `yaml:"status"`
	} `yaml:"employees"`
	Leads []struct {
		ContactName string `yaml:"contact_name"`
		Email       string `yaml:"email"`
		Company     string `yaml:"company"`
		Source      string `yaml:"source"`
		Type        string `yaml:"type"`
		Status      string `yaml:"status"`
	} `yaml:"leads"`
}

type seedTargets struct {
	idp       *idp.LocalProvider
	users     domain.UserRepository
	invites   domain.InvitationRepository
	customers domain.CustomerRepository
	employees domain.EmployeeRepository
	leads     domain.LeadRepository
}

// applySeedFile loads the YAML manifest and creates anything that does not
// exist yet. Idempotent: existing users are matched by email, CRM records by
// presence of any data in their table.
func applySeedFile(ctx context.Context, path string, t seedTargets, logger *slog.Logger) error {
	raw, err := os.ReadFile(path) //nolint:gosec // path comes from config
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	var manifest seedManifest
	if err := yaml.Unmarshal(raw, &manifest); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	logger = logger.With("component", "seed")

	for _, u := range manifest.Users {
		if _, err := t.users.GetByEmail(ctx, u.Email); err == nil {
			continue
		}
		role, err := domain.ParseRole(u.Role)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", u.Email, err)
		}

		principal, err := t.idp.CreateAccount(ctx, u.Email, u.Password, u.Name)
		if err != nil {
			var conflict *domain.ConflictError
			if !errors.As(err, &conflict) {
				return fmt.Errorf("seed user %s: %w", u.Email, err)
			}
			continue
		}
		if err := t.idp.MarkVerified(ctx, u.Email); err != nil {
			return fmt.Errorf("seed user %s: %w", u.Email, err)
		}
		if role != domain.RoleDev {
			if err := t.invites.Put(ctx, &domain.Invitation{Email: principal.Email, Role: role}); err != nil {
				return fmt.Errorf("seed user %s: %w", u.Email, err)
			}
		}
		_, err = t.users.Create(ctx, &domain.User{
			ID:            principal.ID,
			Name:          u.Name,
			Email:         principal.Email,
			Role:          role,
			EmailVerified: true,
		})
		if err != nil {
			return fmt.Errorf("seed user %s: %w", u.Email, err)
		}
		logger.Info("seeded user", "email", u.Email, "role", role)
	}

	if _, total, err := t.customers.List(ctx, domain.PageRequest{MaxResults: 1}); err == nil && total == 0 {
		for _, c := range manifest.Customers {
			status, err := domain.ParseCustomerStatus(c.Status)
			if err != nil {
				status = domain.CustomerNew
			}
			_, err = t.customers.Create(ctx, &domain.Customer{
				ID:      uuid.NewString(),
				Name:    c.Name,
				Email:   c.Email,
				Company: c.Company,
				Segment: c.Segment,
				Status:  status,
			})
			if err != nil {
				return fmt.Errorf("seed customer %s: %w", c.Name, err)
			}
		}
		if len(manifest.Customers) > 0 {
			logger.Info("seeded customers", "count", len(manifest.Customers))
		}
	}

	if _, total, err := t.employees.List(ctx, domain.PageRequest{MaxResults: 1}); err == nil && total == 0 {
		for _, e := range manifest.Employees {
			status, err := domain.ParseEmployeeStatus(e.Status)
			if err != nil {
				status = domain.EmployeeActive
			}
			_, err = t.employees.Create(ctx, &domain.Employee{
				ID:         uuid.NewString(),
				Name:       e.Name,
				Email:      e.Email,
				Title:      e.Title,
				Department: e.Department,
				Status:     status,
			})
			if err != nil {
				return fmt.Errorf("seed employee %s: %w", e.Name, err)
			}
		}
		if len(manifest.Employees) > 0 {
			logger.Info("seeded employees", "count", len(manifest.Employees))
		}
	}

	// Seed leads only into empty product lines.
	emptyTypes := map[domain.LeadType]bool{}
	for _, leadType := range []domain.LeadType{domain.LeadScaffolding, domain.LeadFormwork} {
		existing, _, err := t.leads.ListByType(ctx, leadType, domain.PageRequest{MaxResults: 1})
		if err != nil {
			return err
		}
		emptyTypes[leadType] = len(existing) == 0
	}

	seededLeads := 0
	for _, l := range manifest.Leads {
		leadType, err := domain.ParseLeadType(l.Type)
		if err != nil {
			return fmt.Errorf("seed lead %s: %w", l.ContactName, err)
		}
		if !emptyTypes[leadType] {
			continue
		}
		status := domain.LeadNew
		if l.Status != "" {
			if status, err = domain.ParseLeadStatus(l.Status); err != nil {
				return fmt.Errorf("seed lead %s: %w", l.ContactName, err)
			}
		}
		_, err = t.leads.Create(ctx, &domain.Lead{
			ID:          uuid.NewString(),
			ContactName: l.ContactName,
			Email:       l.Email,
			Company:     l.Company,
			Source:      l.Source,
			Type:        leadType,
			Status:      status,
		})
		if err != nil {
			return fmt.Errorf("seed lead %s: %w", l.ContactName, err)
		}
		seededLeads++
	}
	if seededLeads > 0 {
		logger.Info("seeded leads", "count", seededLeads)
	}
	return nil
}
