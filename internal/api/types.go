package api

import (
	"time"

	"apexcrm/internal/domain"
	"apexcrm/internal/service/crm"
)

// Wire types use camelCase field names so exported data stays
// interchangeable with downstream reporting tooling.

type userJSON struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	Disabled      bool      `json:"disabled"`
	EmailVerified bool      `json:"emailVerified"`
	Avatar        *string   `json:"avatar,omitempty"`
	Readme        *string   `json:"readme,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

func userToAPI(u *domain.User) userJSON {
	return userJSON{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Role:          string(u.Role),
		Disabled:      u.Disabled,
		EmailVerified: u.EmailVerified,
		Avatar:        u.Avatar,
		Readme:        u.Readme,
		CreatedAt:     u.CreatedAt,
	}
}

type identityJSON struct {
	UserID        string `json:"userId"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	EffectiveRole string `json:"effectiveRole"`
	Impersonating bool   `json:"impersonating"`
}

func identityToAPI(id domain.Identity) identityJSON {
	return identityJSON{
		UserID:        id.UserID,
		Name:          id.Name,
		Email:         id.Email,
		Role:          string(id.Role),
		EffectiveRole: string(id.EffectiveRole()),
		Impersonating: id.Impersonating(),
	}
}

type invitationJSON struct {
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func invitationToAPI(inv *domain.Invitation) invitationJSON {
	return invitationJSON{Email: inv.Email, Role: string(inv.Role), CreatedAt: inv.CreatedAt}
}

type customerJSON struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Company   string    `json:"company"`
	Segment   string    `json:"segment"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func customerToAPI(c *domain.Customer) customerJSON {
	return customerJSON{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Company:   c.Company,
		Segment:   c.Segment,
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt,
	}
}

type employeeJSON struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Title      string    `json:"title"`
	Department string    `json:"department"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

func employeeToAPI(e *domain.Employee) employeeJSON {
	return employeeJSON{
		ID:         e.ID,
		Name:       e.Name,
		Email:      e.Email,
		Title:      e.Title,
		Department: e.Department,
		Status:     string(e.Status),
		CreatedAt:  e.CreatedAt,
	}
}

type leadJSON struct {
	ID              string    `json:"id"`
	ContactName     string    `json:"contactName"`
	Email           string    `json:"email"`
	Company         string    `json:"company"`
	Phone           *string   `json:"phone,omitempty"`
	Source          string    `json:"source"`
	Notes           *string   `json:"notes,omitempty"`
	Type            string    `json:"type"`
	Status          string    `json:"status"`
	ProposalContent *string   `json:"proposalContent,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

func leadToAPI(l *domain.Lead) leadJSON {
	return leadJSON{
		ID:              l.ID,
		ContactName:     l.ContactName,
		Email:           l.Email,
		Company:         l.Company,
		Phone:           l.Phone,
		Source:          l.Source,
		Notes:           l.Notes,
		Type:            string(l.Type),
		Status:          string(l.Status),
		ProposalContent: l.ProposalContent,
		CreatedAt:       l.CreatedAt,
	}
}

type activityJSON struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	UserID      string    `json:"userId"`
	UserName    string    `json:"userName"`
	Timestamp   time.Time `json:"timestamp"`
}

func activityToAPI(a *domain.Activity) activityJSON {
	return activityJSON{
		ID:          a.ID,
		Type:        a.Type,
		Description: a.Description,
		UserID:      a.ActorEmail,
		UserName:    a.ActorName,
		Timestamp:   a.CreatedAt,
	}
}

type dashboardJSON struct {
	TotalUsers     int64            `json:"totalUsers"`
	LeadsThisWeek  int64            `json:"leadsThisWeek"`
	PipelineCounts map[string]int64 `json:"pipelineCounts"`
	ProposalQueue  int64            `json:"proposalQueue"`
	RecentActivity []activityJSON   `json:"recentActivity"`
}

func dashboardToAPI(d *crm.Dashboard) dashboardJSON {
	counts := make(map[string]int64, len(d.PipelineCounts))
	for status, n := range d.PipelineCounts {
		counts[string(status)] = n
	}
	recent := make([]activityJSON, 0, len(d.RecentActivity))
	for i := range d.RecentActivity {
		recent = append(recent, activityToAPI(&d.RecentActivity[i]))
	}
	return dashboardJSON{
		TotalUsers:     d.TotalUsers,
		LeadsThisWeek:  d.LeadsThisWeek,
		PipelineCounts: counts,
		ProposalQueue:  d.ProposalQueue,
		RecentActivity: recent,
	}
}
