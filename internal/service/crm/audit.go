// Package crm implements the sales-side services: customers, employees, the
// lead pipeline with its stage transitions, proposals, and the dashboard.
package crm

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"apexcrm/internal/domain"
)

// recordActivity writes an audit entry attributed to the real signed-in
// account. Attribution never follows an impersonation overlay. Best effort:
// a failed write is logged, never surfaced.
func recordActivity(ctx context.Context, audit domain.ActivityRepository, logger *slog.Logger, activityType, description string) {
	ident, ok := domain.IdentityFromContext(ctx)
	if !ok {
		return
	}
	err := audit.Insert(ctx, &domain.Activity{
		ID:          uuid.NewString(),
		Type:        activityType,
		Description: description,
		ActorEmail:  ident.Email,
		ActorName:   ident.Name,
	})
	if err != nil {
		logger.Warn("activity write failed", "type", activityType, "error", err)
	}
}

// require checks the effective role's capability for the action.
func require(ctx context.Context, action domain.Action) error {
	ident, ok := domain.IdentityFromContext(ctx)
	if !ok {
		return domain.ErrAccessDenied("not signed in")
	}
	if !ident.Can(action) {
		return domain.ErrAccessDenied("role %s may not %s", ident.EffectiveRole(), action)
	}
	return nil
}
