package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"apexcrm/internal/domain"
)

type captureLeadRequest struct {
	ContactName string `json:"contactName"`
	Email       string `json:"email,omitempty"`
	Company     string `json:"company"`
	Phone       string `json:"phone,omitempty"`
	Source      string `json:"source"`
	Notes       string `json:"notes,omitempty"`
	Type        string `json:"type"`
}

func (h *Handler) CaptureLead(w http.ResponseWriter, r *http.Request) {
	var req captureLeadRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	lead, err := h.leads.Capture(r.Context(), domain.CaptureLeadRequest{
		ContactName: req.ContactName,
		Email:       req.Email,
		Company:     req.Company,
		Phone:       req.Phone,
		Source:      req.Source,
		Notes:       req.Notes,
		Type:        req.Type,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, leadToAPI(lead))
}

func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	leadType, err := domain.ParseLeadType(r.URL.Query().Get("type"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	page := pageFromRequest(r)
	leads, total, err := h.leads.ListByType(r.Context(), leadType, page)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	items := make([]leadJSON, 0, len(leads))
	for i := range leads {
		items = append(items, leadToAPI(&leads[i]))
	}
	writeJSON(w, http.StatusOK, newListEnvelope(items, total, page))
}

func (h *Handler) GetLead(w http.ResponseWriter, r *http.Request) {
	lead, err := h.leads.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, leadToAPI(lead))
}

func (h *Handler) DeleteLead(w http.ResponseWriter, r *http.Request) {
	if err := h.leads.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type transitionRequest struct {
	Transition string `json:"transition"`
}

func (h *Handler) TransitionLead(w http.ResponseWriter, r *http.Request) {
	var req transitionRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	lead, err := h.leads.Transition(r.Context(), chi.URLParam(r, "id"), req.Transition)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, leadToAPI(lead))
}

// Pipeline returns the board: leads grouped by stage in fixed stage order.
func (h *Handler) Pipeline(w http.ResponseWriter, r *http.Request) {
	leadType, err := domain.ParseLeadType(r.URL.Query().Get("type"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	board, err := h.leads.Pipeline(r.Context(), leadType)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	type stageJSON struct {
		Stage string     `json:"stage"`
		Leads []leadJSON `json:"leads"`
	}
	stages := make([]stageJSON, 0, len(domain.PipelineStages))
	for _, stage := range domain.PipelineStages {
		leads := board[stage]
		items := make([]leadJSON, 0, len(leads))
		for i := range leads {
			items = append(items, leadToAPI(&leads[i]))
		}
		stages = append(stages, stageJSON{Stage: string(stage), Leads: items})
	}
	writeJSON(w, http.StatusOK, map[string]any{"type": string(leadType), "stages": stages})
}

type proposalRequest struct {
	Content string `json:"content"`
	Send    bool   `json:"send,omitempty"`
}

// SaveProposal stores a proposal draft; with send=true it also advances the
// lead to Proposal Sent.
func (h *Handler) SaveProposal(w http.ResponseWriter, r *http.Request) {
	var req proposalRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	id := chi.URLParam(r, "id")

	var (
		lead *domain.Lead
		err  error
	)
	if req.Send {
		lead, err = h.leads.SendProposal(r.Context(), id, req.Content)
	} else {
		lead, err = h.leads.SaveProposal(r.Context(), id, req.Content)
	}
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, leadToAPI(lead))
}
