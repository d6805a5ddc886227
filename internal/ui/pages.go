package ui

import (
	"fmt"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"apexcrm/internal/domain"
	"apexcrm/internal/service/crm"
)

func layout(title string, ident domain.Identity, body ...Node) Node {
	navItems := []Node{
		A(Href("/ui"), Text("Overview")),
		A(Href("/ui/pipeline"), Text("Pipeline")),
	}
	if ident.Can(domain.ActionManageCustomers) {
		navItems = append(navItems, A(Href("/ui/customers"), Text("Customers")))
	}
	if ident.Can(domain.ActionManageUsers) {
		navItems = append(navItems, A(Href("/ui/users"), Text("Users")))
	}
	navItems = append(navItems, A(Href("/ui/settings"), Text("Settings")))

	header := []Node{
		Nav(Group(navItems)),
		Span(Class("who"), Text(fmt.Sprintf("%s (%s)", ident.Name, ident.EffectiveRole().DisplayName()))),
	}
	if ident.Impersonating() {
		header = append(header, Span(Class("impersonating"),
			Text(fmt.Sprintf("viewing as %s", ident.EffectiveRole()))))
	}
	header = append(header, Form(Method("post"), Action("/ui/logout"),
		Button(Type("submit"), Text("Sign out"))))

	return HTML(
		Lang("en"),
		Head(
			Meta(Charset("utf-8")),
			Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
			TitleEl(Text(title+" | ApexCRM")),
			Link(Rel("stylesheet"), Href("https://cdn.jsdelivr.net/npm/@primer/css@22.1.0/dist/primer.min.css")),
		),
		Body(
			Header(Class("topbar"), Group(header)),
			Main(Group(body)),
		),
	)
}

func loginPage(errMsg string) Node {
	content := []Node{
		H1(Text("ApexCRM")),
		Form(
			Method("post"),
			Action("/ui/login"),
			Label(Text("Email")),
			Input(Type("email"), Name("email"), Required()),
			Label(Text("Password")),
			Input(Type("password"), Name("password"), Required()),
			Button(Type("submit"), Class("btn btn-primary"), Text("Sign In")),
		),
	}
	if errMsg != "" {
		content = append([]Node{P(Class("flash flash-error"), Text(errMsg))}, content...)
	}
	return HTML(
		Lang("en"),
		Head(
			Meta(Charset("utf-8")),
			TitleEl(Text("Sign in | ApexCRM")),
			Link(Rel("stylesheet"), Href("https://cdn.jsdelivr.net/npm/@primer/css@22.1.0/dist/primer.min.css")),
		),
		Body(Main(Group(content))),
	)
}

func overviewPage(ident domain.Identity, dashboard *crm.Dashboard) Node {
	cards := []Node{
		statCard("Total users", dashboard.TotalUsers),
		statCard("Leads this week", dashboard.LeadsThisWeek),
		statCard("Proposal queue", dashboard.ProposalQueue),
	}

	activityRows := make([]Node, 0, len(dashboard.RecentActivity))
	for _, a := range dashboard.RecentActivity {
		activityRows = append(activityRows, Tr(
			Td(Text(a.Type)),
			Td(Text(a.Description)),
			Td(Text(a.ActorName)),
			Td(Text(a.CreatedAt.Format("2006-01-02 15:04"))),
		))
	}

	body := []Node{
		H1(Text("Overview")),
		Div(Class("stat-cards"), Group(cards)),
		H2(Text("Recent activity")),
		Table(
			THead(Tr(Th(Text("Type")), Th(Text("Description")), Th(Text("By")), Th(Text("When")))),
			TBody(Group(activityRows)),
		),
	}
	if ident.Role == domain.RoleDev {
		body = append(body, actAsPicker(ident))
	}
	return layout("Overview", ident, body...)
}

func statCard(label string, value int64) Node {
	return Div(Class("stat-card"),
		Span(Class("stat-value"), Text(fmt.Sprintf("%d", value))),
		Span(Class("stat-label"), Text(label)),
	)
}

// actAsPicker renders the impersonation control shown only to developers.
func actAsPicker(ident domain.Identity) Node {
	options := []Node{Option(Value(""), Text("(no impersonation)"))}
	for _, role := range domain.Roles {
		opt := Option(Value(string(role)), Text(role.DisplayName()))
		if ident.Impersonating() && ident.EffectiveRole() == role {
			opt = Option(Value(string(role)), Selected(), Text(role.DisplayName()))
		}
		options = append(options, opt)
	}
	return Div(Class("act-as"),
		H2(Text("View as role")),
		Form(
			Method("post"),
			Action("/ui/act-as"),
			Select(Name("role"), Group(options)),
			Button(Type("submit"), Text("Apply")),
		),
	)
}

func customersPage(ident domain.Identity, customers []domain.Customer) Node {
	rows := make([]Node, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, Tr(
			Td(Text(c.Name)),
			Td(Text(c.Email)),
			Td(Text(c.Company)),
			Td(Text(c.Segment)),
			Td(Text(string(c.Status))),
		))
	}
	return layout("Customers", ident,
		H1(Text("Customers")),
		Table(
			THead(Tr(Th(Text("Name")), Th(Text("Email")), Th(Text("Company")), Th(Text("Segment")), Th(Text("Status")))),
			TBody(Group(rows)),
		),
	)
}

func pipelinePage(ident domain.Identity, leadType domain.LeadType, board domain.Pipeline) Node {
	columns := make([]Node, 0, len(domain.PipelineStages))
	for _, stage := range domain.PipelineStages {
		cards := make([]Node, 0, len(board[stage]))
		for _, lead := range board[stage] {
			cards = append(cards, Div(Class("lead-card"),
				Strong(Text(lead.ContactName)),
				Br(),
				Text(lead.Company),
			))
		}
		columns = append(columns, Div(Class("pipeline-column"),
			H3(Text(fmt.Sprintf("%s (%d)", stage, len(board[stage])))),
			Group(cards),
		))
	}

	other := domain.LeadFormwork
	if leadType == domain.LeadFormwork {
		other = domain.LeadScaffolding
	}
	return layout("Pipeline", ident,
		H1(Text(fmt.Sprintf("%s pipeline", leadType))),
		P(A(Href("/ui/pipeline?type="+string(other)), Text(fmt.Sprintf("Switch to %s", other)))),
		Div(Class("pipeline-board"), Group(columns)),
	)
}

func usersPage(ident domain.Identity, users []domain.User, invites []domain.Invitation) Node {
	userRows := make([]Node, 0, len(users))
	for _, u := range users {
		status := "active"
		if u.Disabled {
			status = "restricted"
		}
		userRows = append(userRows, Tr(
			Td(Text(u.Name)),
			Td(Text(u.Email)),
			Td(Text(u.Role.DisplayName())),
			Td(Text(status)),
		))
	}
	inviteRows := make([]Node, 0, len(invites))
	for _, inv := range invites {
		inviteRows = append(inviteRows, Tr(
			Td(Text(inv.Email)),
			Td(Text(inv.Role.DisplayName())),
			Td(Text(inv.CreatedAt.Format("2006-01-02"))),
		))
	}
	return layout("Users", ident,
		H1(Text("Users")),
		Table(
			THead(Tr(Th(Text("Name")), Th(Text("Email")), Th(Text("Role")), Th(Text("Status")))),
			TBody(Group(userRows)),
		),
		H2(Text("Pending invitations")),
		Table(
			THead(Tr(Th(Text("Email")), Th(Text("Role")), Th(Text("Invited")))),
			TBody(Group(inviteRows)),
		),
	)
}

func errorBody(msg string) Node {
	return Div(
		H1(Text("Something went wrong")),
		P(Class("flash flash-error"), Text(msg)),
		P(A(Href("/ui"), Text("Back to overview"))),
	)
}

func settingsPage(ident domain.Identity, user *domain.User, saved bool) Node {
	readme := ""
	if user.Readme != nil {
		readme = *user.Readme
	}
	body := []Node{
		H1(Text("Settings")),
		Form(
			Method("post"),
			Action("/ui/settings"),
			Label(Text("Name")),
			Input(Type("text"), Name("name"), Value(user.Name), Required()),
			Label(Text("Readme")),
			Textarea(Name("readme"), Text(readme)),
			Button(Type("submit"), Class("btn btn-primary"), Text("Save")),
		),
	}
	if saved {
		body = append([]Node{P(Class("flash"), Text("Profile saved."))}, body...)
	}
	return layout("Settings", ident, body...)
}
