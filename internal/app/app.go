// Package app provides application-level wiring for the CRM server.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"apexcrm/internal/config"
	"apexcrm/internal/db/repository"
	"apexcrm/internal/idp"
	"apexcrm/internal/middleware"
	"apexcrm/internal/service/crm"
	"apexcrm/internal/service/directory"
	"apexcrm/internal/service/identity"
)

// Deps holds the external dependencies that main() must provide: database
// handles, config, and the logger.
type Deps struct {
	Cfg     *config.Config
	WriteDB *sql.DB
	ReadDB  *sql.DB
	Logger  *slog.Logger
}

// Services groups the service pointers the API handler and UI need.
type Services struct {
	Auth        *identity.AuthService
	Resolver    *identity.Resolver
	Users       *directory.UserService
	Invitations *directory.InvitationService
	Customers   *crm.CustomerService
	Employees   *crm.EmployeeService
	Leads       *crm.LeadService
	Dashboard   *crm.DashboardService
	Reconciler  *directory.Reconciler
}

// App holds the fully-wired application.
type App struct {
	Services  Services
	Validator middleware.JWTValidator
	UserRepo  *repository.UserRepo
}

// New wires repositories, the identity provider, and services from the
// provided deps. It also applies the optional seed manifest.
func New(ctx context.Context, deps Deps) (*App, error) {
	cfg := deps.Cfg

	// Repositories. Writes serialize on the single-connection write pool;
	// reads fan out over the read pool.
	userRepo := repository.NewUserRepo(deps.WriteDB, deps.ReadDB)
	invitationRepo := repository.NewInvitationRepo(deps.WriteDB, deps.ReadDB)
	customerRepo := repository.NewCustomerRepo(deps.WriteDB, deps.ReadDB)
	employeeRepo := repository.NewEmployeeRepo(deps.WriteDB, deps.ReadDB)
	leadRepo := repository.NewLeadRepo(deps.WriteDB, deps.ReadDB)
	activityRepo := repository.NewActivityRepo(deps.WriteDB, deps.ReadDB)

	// Identity provider and token issuance.
	mail := idp.NewLogMailSender(deps.Logger)
	provider := idp.NewLocalProvider(deps.WriteDB, mail, cfg.BaseURL, deps.Logger)
	tokens := idp.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.BaseURL, "apexcrm", cfg.Auth.TokenTTL)

	// Session token validation: OIDC when an external issuer is configured,
	// the local HS256 secret otherwise.
	validator, err := newValidator(ctx, cfg)
	if err != nil {
		return nil, err
	}

	resolver := identity.NewResolver(provider, userRepo, invitationRepo, cfg.Auth.DevAllowlist, deps.Logger)
	authSvc := identity.NewAuthService(provider, invitationRepo, resolver, tokens, activityRepo, deps.Logger)

	userSvc := directory.NewUserService(userRepo, invitationRepo, provider, activityRepo, deps.Logger)
	invitationSvc := directory.NewInvitationService(invitationRepo, userRepo, activityRepo, deps.Logger)
	reconciler := directory.NewReconciler(userRepo, invitationRepo, deps.Logger)

	customerSvc := crm.NewCustomerService(customerRepo, activityRepo, deps.Logger)
	employeeSvc := crm.NewEmployeeService(employeeRepo, activityRepo, deps.Logger)
	leadSvc := crm.NewLeadService(leadRepo, activityRepo, deps.Logger)
	dashboardSvc := crm.NewDashboardService(userRepo, leadRepo, activityRepo)

	if cfg.SeedFile != "" {
		if err := applySeedFile(ctx, cfg.SeedFile, seedTargets{
			idp:       provider,
			users:     userRepo,
			invites:   invitationRepo,
			customers: customerRepo,
			employees: employeeRepo,
			leads:     leadRepo,
		}, deps.Logger); err != nil {
			return nil, fmt.Errorf("apply seed file: %w", err)
		}
	}

	return &App{
		Services: Services{
			Auth:        authSvc,
			Resolver:    resolver,
			Users:       userSvc,
			Invitations: invitationSvc,
			Customers:   customerSvc,
			Employees:   employeeSvc,
			Leads:       leadSvc,
			Dashboard:   dashboardSvc,
			Reconciler:  reconciler,
		},
		Validator: validator,
		UserRepo:  userRepo,
	}, nil
}

func newValidator(ctx context.Context, cfg *config.Config) (middleware.JWTValidator, error) {
	auth := cfg.Auth
	switch {
	case auth.JWKSURL != "":
		return middleware.NewOIDCValidatorFromJWKS(ctx, auth.JWKSURL, auth.IssuerURL, auth.Audience, auth.AllowedIssuers)
	case auth.IssuerURL != "":
		return middleware.NewOIDCValidator(ctx, auth.IssuerURL, auth.Audience, auth.AllowedIssuers)
	default:
		return middleware.NewHS256Validator(auth.JWTSecret)
	}
}
