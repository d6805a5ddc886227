package api

import (
	"net/http"

	"apexcrm/internal/domain"
)

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	var leadType *domain.LeadType
	if raw := r.URL.Query().Get("type"); raw != "" {
		parsed, err := domain.ParseLeadType(raw)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		leadType = &parsed
	}

	overview, err := h.dashboard.Overview(r.Context(), leadType)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboardToAPI(overview))
}

func (h *Handler) ListActivities(w http.ResponseWriter, r *http.Request) {
	page := pageFromRequest(r)
	filter := domain.ActivityFilter{Page: page}
	if raw := r.URL.Query().Get("activity_type"); raw != "" {
		filter.Type = &raw
	}
	if raw := r.URL.Query().Get("actor"); raw != "" {
		filter.ActorEmail = &raw
	}

	activities, total, err := h.dashboard.Activities(r.Context(), filter)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	items := make([]activityJSON, 0, len(activities))
	for i := range activities {
		items = append(items, activityToAPI(&activities[i]))
	}
	writeJSON(w, http.StatusOK, newListEnvelope(items, total, page))
}
