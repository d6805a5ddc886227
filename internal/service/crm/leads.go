package crm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"apexcrm/internal/domain"
)

// Transition names accepted by Transition. Each maps to exactly one edge of
// the pipeline; anything else is rejected.
const (
	TransitionQualify = "qualify"
	TransitionAccept  = "accept"
	TransitionReject  = "reject"
	TransitionWon     = "won"
	TransitionLost    = "lost"
)

type stageEdge struct {
	from   domain.LeadStatus
	to     domain.LeadStatus
	action domain.Action
}

// transitions is the closed stage transition table. A transition applies only
// from its exact source stage and only for roles holding its action.
var transitions = map[string]stageEdge{
	TransitionQualify: {from: domain.LeadNew, to: domain.LeadQualified, action: domain.ActionQualifyLead},
	TransitionAccept:  {from: domain.LeadProposalSent, to: domain.LeadNegotiation, action: domain.ActionDecideProposal},
	TransitionReject:  {from: domain.LeadProposalSent, to: domain.LeadLost, action: domain.ActionDecideProposal},
	TransitionWon:     {from: domain.LeadNegotiation, to: domain.LeadWon, action: domain.ActionCloseLead},
	TransitionLost:    {from: domain.LeadNegotiation, to: domain.LeadLost, action: domain.ActionCloseLead},
}

type LeadService struct {
	repo   domain.LeadRepository
	audit  domain.ActivityRepository
	logger *slog.Logger
}

func NewLeadService(repo domain.LeadRepository, audit domain.ActivityRepository, logger *slog.Logger) *LeadService {
	return &LeadService{repo: repo, audit: audit, logger: logger.With("component", "leads")}
}

// Capture creates a lead in the New Lead stage.
func (s *LeadService) Capture(ctx context.Context, req domain.CaptureLeadRequest) (*domain.Lead, error) {
	if err := require(ctx, domain.ActionCaptureLead); err != nil {
		return nil, err
	}
	leadType, err := req.Validate()
	if err != nil {
		return nil, err
	}

	lead := &domain.Lead{
		ID:          uuid.NewString(),
		ContactName: strings.TrimSpace(req.ContactName),
		Email:       req.Email,
		Company:     strings.TrimSpace(req.Company),
		Source:      req.Source,
		Type:        leadType,
		Status:      domain.LeadNew,
	}
	if req.Phone != "" {
		lead.Phone = &req.Phone
	}
	if req.Notes != "" {
		lead.Notes = &req.Notes
	}

	created, err := s.repo.Create(ctx, lead)
	if err != nil {
		return nil, err
	}
	recordActivity(ctx, s.audit, s.logger, domain.ActivityLeadCreated,
		fmt.Sprintf("New %s lead from %s (%s)", created.Type, created.ContactName, created.Company))
	return created, nil
}

func (s *LeadService) Get(ctx context.Context, id string) (*domain.Lead, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *LeadService) ListByType(ctx context.Context, leadType domain.LeadType, page domain.PageRequest) ([]domain.Lead, int64, error) {
	return s.repo.ListByType(ctx, leadType, page)
}

// Pipeline returns the board for one product line: leads grouped by stage,
// every stage present even when empty. Lost leads stay off the board.
func (s *LeadService) Pipeline(ctx context.Context, leadType domain.LeadType) (domain.Pipeline, error) {
	leads, _, err := s.repo.ListByType(ctx, leadType, domain.PageRequest{MaxResults: domain.MaxMaxResults})
	if err != nil {
		return nil, err
	}
	board := make(domain.Pipeline, len(domain.PipelineStages))
	for _, stage := range domain.PipelineStages {
		board[stage] = []domain.Lead{}
	}
	for _, lead := range leads {
		if _, onBoard := board[lead.Status]; onBoard {
			board[lead.Status] = append(board[lead.Status], lead)
		}
	}
	return board, nil
}

// Transition applies a named stage transition to a lead. The edge must exist,
// the lead must sit on its exact source stage, and the caller's effective role
// must hold the edge's action.
func (s *LeadService) Transition(ctx context.Context, id, name string) (*domain.Lead, error) {
	edge, ok := transitions[strings.ToLower(name)]
	if !ok {
		return nil, domain.ErrValidation("unknown transition %q", name)
	}
	if err := require(ctx, edge.action); err != nil {
		return nil, err
	}

	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lead.Status != edge.from {
		return nil, domain.ErrConflict("cannot %s a lead in stage %q", name, lead.Status)
	}

	if err := s.repo.SetStatus(ctx, id, edge.to); err != nil {
		return nil, err
	}
	lead.Status = edge.to
	recordActivity(ctx, s.audit, s.logger, domain.ActivityStatusChange,
		fmt.Sprintf("%s (%s) moved from %s to %s", lead.ContactName, lead.Company, edge.from, edge.to))
	return lead, nil
}

func (s *LeadService) Delete(ctx context.Context, id string) error {
	if err := require(ctx, domain.ActionDeleteLead); err != nil {
		return err
	}
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	recordActivity(ctx, s.audit, s.logger, domain.ActivityLeadDeleted,
		fmt.Sprintf("Deleted lead %s (%s)", lead.ContactName, lead.Company))
	return nil
}

// SaveProposal stores a proposal draft on the lead without moving it.
func (s *LeadService) SaveProposal(ctx context.Context, id, content string) (*domain.Lead, error) {
	if err := require(ctx, domain.ActionEditProposal); err != nil {
		return nil, err
	}
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetProposal(ctx, id, content, nil); err != nil {
		return nil, err
	}
	lead.ProposalContent = &content
	recordActivity(ctx, s.audit, s.logger, domain.ActivityProposalSaved,
		fmt.Sprintf("Saved proposal draft for %s (%s)", lead.ContactName, lead.Company))
	return lead, nil
}

// SendProposal stores the proposal and advances the lead to Proposal Sent.
// Only qualified leads can be sent a proposal.
func (s *LeadService) SendProposal(ctx context.Context, id, content string) (*domain.Lead, error) {
	if err := require(ctx, domain.ActionEditProposal); err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, domain.ErrValidation("proposal content is required")
	}
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lead.Status != domain.LeadQualified {
		return nil, domain.ErrConflict("cannot send a proposal for a lead in stage %q", lead.Status)
	}

	sent := domain.LeadProposalSent
	if err := s.repo.SetProposal(ctx, id, content, &sent); err != nil {
		return nil, err
	}
	lead.ProposalContent = &content
	lead.Status = sent
	recordActivity(ctx, s.audit, s.logger, domain.ActivityProposalSent,
		fmt.Sprintf("Sent proposal to %s (%s)", lead.ContactName, lead.Company))
	return lead, nil
}
