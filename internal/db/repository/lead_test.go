package repository

import (
	"context"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "apexcrm/internal/db"
	"apexcrm/internal/domain"
)

func insertLead(t *testing.T, repo *LeadRepo, id string, leadType domain.LeadType, status domain.LeadStatus) *domain.Lead {
	t.Helper()
	lead, err := repo.Create(context.Background(), &domain.Lead{
		ID:          id,
		ContactName: "Contact " + id,
		Email:       id + "@example.com",
		Company:     "Co " + id,
		Source:      "Web",
		Type:        leadType,
		Status:      status,
	})
	require.NoError(t, err)
	return lead
}

func TestLeadRepo_ListByTypeIsolatesProductLines(t *testing.T) {
	db, rdb := internaldb.OpenTestSQLite(t)
	repo := NewLeadRepo(db, rdb)

	insertLead(t, repo, "s1", domain.LeadScaffolding, domain.LeadNew)
	insertLead(t, repo, "s2", domain.LeadScaffolding, domain.LeadQualified)
	insertLead(t, repo, "f1", domain.LeadFormwork, domain.LeadNew)

	leads, total, err := repo.ListByType(context.Background(), domain.LeadScaffolding, domain.PageRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	for _, l := range leads {
		assert.Equal(t, domain.LeadScaffolding, l.Type)
	}
}

func TestLeadRepo_SetProposalWithAndWithoutAdvance(t *testing.T) {
	db, rdb := internaldb.OpenTestSQLite(t)
	repo := NewLeadRepo(db, rdb)
	ctx := context.Background()

	insertLead(t, repo, "l1", domain.LeadScaffolding, domain.LeadQualified)

	require.NoError(t, repo.SetProposal(ctx, "l1", "Draft", nil))
	lead, err := repo.GetByID(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, domain.LeadQualified, lead.Status)
	require.NotNil(t, lead.ProposalContent)
	assert.Equal(t, "Draft", *lead.ProposalContent)

	sent := domain.LeadProposalSent
	require.NoError(t, repo.SetProposal(ctx, "l1", "Final", &sent))
	lead, err = repo.GetByID(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, domain.LeadProposalSent, lead.Status)
	assert.Equal(t, "Final", *lead.ProposalContent)
}

func TestLeadRepo_CountByStatus(t *testing.T) {
	db, rdb := internaldb.OpenTestSQLite(t)
	repo := NewLeadRepo(db, rdb)
	ctx := context.Background()

	insertLead(t, repo, "s1", domain.LeadScaffolding, domain.LeadNew)
	insertLead(t, repo, "s2", domain.LeadScaffolding, domain.LeadNew)
	insertLead(t, repo, "s3", domain.LeadScaffolding, domain.LeadWon)
	insertLead(t, repo, "f1", domain.LeadFormwork, domain.LeadNew)

	all, err := repo.CountByStatus(ctx, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 3, all[domain.LeadNew])
	assert.EqualValues(t, 1, all[domain.LeadWon])

	scaffolding := domain.LeadScaffolding
	scoped, err := repo.CountByStatus(ctx, &scaffolding)
	require.NoError(t, err)
	assert.EqualValues(t, 2, scoped[domain.LeadNew])
}

func TestLeadRepo_CountCreatedSince(t *testing.T) {
	db, rdb := internaldb.OpenTestSQLite(t)
	repo := NewLeadRepo(db, rdb)
	ctx := context.Background()

	insertLead(t, repo, "l1", domain.LeadScaffolding, domain.LeadNew)
	insertLead(t, repo, "l2", domain.LeadFormwork, domain.LeadNew)

	recent, err := repo.CountCreatedSince(ctx, time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 2, recent)

	none, err := repo.CountCreatedSince(ctx, time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 0, none)
}

func TestLeadRepo_SetStatusUnknownLead(t *testing.T) {
	db, rdb := internaldb.OpenTestSQLite(t)
	repo := NewLeadRepo(db, rdb)

	err := repo.SetStatus(context.Background(), "missing", domain.LeadWon)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}
