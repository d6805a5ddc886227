package domain

import (
	"strings"
	"time"
)

// LeadType distinguishes the two product lines leads are captured for.
type LeadType string

const (
	LeadScaffolding LeadType = "Scaffolding"
	LeadFormwork    LeadType = "Formwork"
)

// ParseLeadType validates a wire-format lead type.
func ParseLeadType(s string) (LeadType, error) {
	switch LeadType(s) {
	case LeadScaffolding, LeadFormwork:
		return LeadType(s), nil
	}
	return "", ErrValidation("unknown lead type %q", s)
}

// LeadStatus is the closed set of pipeline stages.
type LeadStatus string

const (
	LeadNew          LeadStatus = "New Lead"
	LeadQualified    LeadStatus = "Qualified"
	LeadProposalSent LeadStatus = "Proposal Sent"
	LeadNegotiation  LeadStatus = "Negotiation"
	LeadWon          LeadStatus = "Won"
	LeadLost         LeadStatus = "Lost"
)

// PipelineStages lists the stages rendered as pipeline board columns, in order.
// Lost leads are kept for auditing but not shown on the board.
var PipelineStages = []LeadStatus{LeadNew, LeadQualified, LeadProposalSent, LeadNegotiation, LeadWon}

// ParseLeadStatus validates a wire-format lead status.
func ParseLeadStatus(s string) (LeadStatus, error) {
	switch LeadStatus(s) {
	case LeadNew, LeadQualified, LeadProposalSent, LeadNegotiation, LeadWon, LeadLost:
		return LeadStatus(s), nil
	}
	return "", ErrValidation("unknown lead status %q", s)
}

// Lead is a sales lead moving through the pipeline. ProposalContent holds the
// proposal draft attached to the lead by a proposal engineer.
type Lead struct {
	ID              string
	ContactName     string
	Email           string
	Company         string
	Phone           *string
	Source          string
	Notes           *string
	Type            LeadType
	Status          LeadStatus
	ProposalContent *string
	CreatedAt       time.Time
}

// Pipeline groups leads by stage for board rendering.
type Pipeline map[LeadStatus][]Lead

// CaptureLeadRequest holds parameters for creating a lead.
type CaptureLeadRequest struct {
	ContactName string
	Email       string
	Company     string
	Phone       string
	Source      string
	Notes       string
	Type        string
}

// Validate checks the request and returns the parsed lead type.
func (r *CaptureLeadRequest) Validate() (LeadType, error) {
	if strings.TrimSpace(r.ContactName) == "" {
		return "", ErrValidation("contact name is required")
	}
	if strings.TrimSpace(r.Company) == "" {
		return "", ErrValidation("company is required")
	}
	if r.Source == "" {
		return "", ErrValidation("lead source is required")
	}
	return ParseLeadType(r.Type)
}
