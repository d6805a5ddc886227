package directory

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"apexcrm/internal/domain"
)

// Reconciler mirrors role registry entries onto account records. Role changes
// made through this application write both rows in one transaction, but
// external provisioning tooling still edits the registry alone; the job
// closes that drift.
type Reconciler struct {
	users   domain.UserRepository
	invites domain.InvitationRepository
	logger  *slog.Logger
}

func NewReconciler(users domain.UserRepository, invites domain.InvitationRepository, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		users:   users,
		invites: invites,
		logger:  logger.With("component", "reconciler"),
	}
}

// Run walks every registry entry and aligns the matching account record's
// role. Entries without an account record are pending first logins and are
// left alone. Developer records are never touched.
func (r *Reconciler) Run(ctx context.Context) error {
	start := time.Now()
	var checked, updated int

	page := domain.PageRequest{MaxResults: domain.MaxMaxResults}
	for {
		invites, total, err := r.invites.List(ctx, page)
		if err != nil {
			return err
		}
		for i := range invites {
			inv := &invites[i]
			checked++

			user, err := r.users.GetByEmail(ctx, inv.Email)
			var notFound *domain.NotFoundError
			if errors.As(err, &notFound) {
				continue
			}
			if err != nil {
				return err
			}
			if user.Role == domain.RoleDev || user.Role == inv.Role {
				continue
			}

			if err := r.users.SetRole(ctx, user.ID, user.Email, inv.Role); err != nil {
				r.logger.Error("role reconciliation failed", "email", inv.Email, "error", err)
				continue
			}
			r.logger.Info("role reconciled", "email", inv.Email, "from", user.Role, "to", inv.Role)
			updated++
		}

		page.PageToken = domain.NextPageToken(page.Offset(), page.Limit(), total)
		if page.PageToken == "" {
			break
		}
	}

	r.logger.Info("reconciliation pass complete",
		"checked", checked, "updated", updated, "duration", time.Since(start))
	return nil
}
