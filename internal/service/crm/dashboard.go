package crm

import (
	"context"
	"time"

	"apexcrm/internal/domain"
)

// Dashboard aggregates the overview page numbers in one call.
type Dashboard struct {
	TotalUsers     int64
	LeadsThisWeek  int64
	PipelineCounts map[domain.LeadStatus]int64
	ProposalQueue  int64
	RecentActivity []domain.Activity
}

type DashboardService struct {
	users      domain.UserRepository
	leads      domain.LeadRepository
	activities domain.ActivityRepository
}

func NewDashboardService(users domain.UserRepository, leads domain.LeadRepository, activities domain.ActivityRepository) *DashboardService {
	return &DashboardService{users: users, leads: leads, activities: activities}
}

// Overview computes the dashboard aggregates. leadType narrows the pipeline
// counts to one product line; nil counts both.
func (s *DashboardService) Overview(ctx context.Context, leadType *domain.LeadType) (*Dashboard, error) {
	if err := require(ctx, domain.ActionViewDashboard); err != nil {
		return nil, err
	}

	_, totalUsers, err := s.users.List(ctx, domain.PageRequest{MaxResults: 1})
	if err != nil {
		return nil, err
	}

	weekAgo := time.Now().AddDate(0, 0, -7)
	leadsThisWeek, err := s.leads.CountCreatedSince(ctx, weekAgo)
	if err != nil {
		return nil, err
	}

	counts, err := s.leads.CountByStatus(ctx, leadType)
	if err != nil {
		return nil, err
	}

	recent, _, err := s.activities.List(ctx, domain.ActivityFilter{Page: domain.PageRequest{MaxResults: 10}})
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		TotalUsers:     totalUsers,
		LeadsThisWeek:  leadsThisWeek,
		PipelineCounts: counts,
		ProposalQueue:  counts[domain.LeadQualified],
		RecentActivity: recent,
	}, nil
}

// Activities returns the paginated audit feed.
func (s *DashboardService) Activities(ctx context.Context, filter domain.ActivityFilter) ([]domain.Activity, int64, error) {
	if err := require(ctx, domain.ActionViewDashboard); err != nil {
		return nil, 0, err
	}
	return s.activities.List(ctx, filter)
}
