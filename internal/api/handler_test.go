package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "apexcrm/internal/db"
	"apexcrm/internal/db/repository"
	"apexcrm/internal/domain"
	"apexcrm/internal/idp"
	"apexcrm/internal/middleware"
	"apexcrm/internal/service/crm"
	"apexcrm/internal/service/directory"
	"apexcrm/internal/service/identity"
)

type apiFixture struct {
	srv      *httptest.Server
	provider *idp.LocalProvider
}

func setupAPI(t *testing.T) *apiFixture {
	t.Helper()
	db, rdb := internaldb.OpenTestSQLite(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	userRepo := repository.NewUserRepo(db, rdb)
	invitationRepo := repository.NewInvitationRepo(db, rdb)
	customerRepo := repository.NewCustomerRepo(db, rdb)
	employeeRepo := repository.NewEmployeeRepo(db, rdb)
	leadRepo := repository.NewLeadRepo(db, rdb)
	activityRepo := repository.NewActivityRepo(db, rdb)

	provider := idp.NewLocalProvider(db, idp.NewLogMailSender(logger), "http://localhost:8080", logger)
	tokens := idp.NewTokenIssuer("test-secret", "http://localhost:8080", "apexcrm", time.Hour)
	validator, err := middleware.NewHS256Validator("test-secret")
	require.NoError(t, err)

	resolver := identity.NewResolver(provider, userRepo, invitationRepo, nil, logger)
	authSvc := identity.NewAuthService(provider, invitationRepo, resolver, tokens, activityRepo, logger)
	userSvc := directory.NewUserService(userRepo, invitationRepo, provider, activityRepo, logger)
	invitationSvc := directory.NewInvitationService(invitationRepo, userRepo, activityRepo, logger)
	customerSvc := crm.NewCustomerService(customerRepo, activityRepo, logger)
	employeeSvc := crm.NewEmployeeService(employeeRepo, activityRepo, logger)
	leadSvc := crm.NewLeadService(leadRepo, activityRepo, logger)
	dashboardSvc := crm.NewDashboardService(userRepo, leadRepo, activityRepo)

	h := NewHandler(authSvc, userSvc, invitationSvc, customerSvc, employeeSvc, leadSvc, dashboardSvc, logger)
	auth := middleware.NewAuthenticator(validator, userRepo, resolver.IsDeveloper, logger)

	r := chi.NewRouter()
	MountRoutes(r, h, auth.Middleware)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &apiFixture{srv: srv, provider: provider}
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, f.srv.URL+path, buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

// signUpAndLogin provisions a verified account with the given role and returns
// a session token for it.
func (f *apiFixture) signUpAndLogin(t *testing.T, email, role string) string {
	t.Helper()
	resp, _ := f.do(t, http.MethodPost, "/v1/auth/signup", "", map[string]string{
		"name": "Test " + role, "email": email, "password": "password123", "role": role,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NoError(t, f.provider.MarkVerified(context.Background(), email))

	resp, body := f.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": email, "password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestAPI_LoginBeforeVerificationDenied(t *testing.T) {
	f := setupAPI(t)
	resp, _ := f.do(t, http.MethodPost, "/v1/auth/signup", "", map[string]string{
		"name": "A", "email": "a@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := f.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": "a@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "verify_email", body["reason"])
}

func TestAPI_MeReflectsRole(t *testing.T) {
	f := setupAPI(t)
	token := f.signUpAndLogin(t, "rep@example.com", "sales")

	resp, body := f.do(t, http.MethodGet, "/v1/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "sales", body["role"])
	assert.Equal(t, "sales", body["effectiveRole"])
	assert.Equal(t, false, body["impersonating"])
}

func TestAPI_UserAdminRequiresAdminRole(t *testing.T) {
	f := setupAPI(t)
	salesToken := f.signUpAndLogin(t, "rep@example.com", "sales")
	adminToken := f.signUpAndLogin(t, "boss@example.com", "admin")

	resp, _ := f.do(t, http.MethodGet, "/v1/users", salesToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := f.do(t, http.MethodGet, "/v1/users", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 2, body["total_count"])
}

func TestAPI_LeadLifecycle(t *testing.T) {
	f := setupAPI(t)
	salesToken := f.signUpAndLogin(t, "rep@example.com", "sales")
	adminToken := f.signUpAndLogin(t, "boss@example.com", "admin")

	resp, lead := f.do(t, http.MethodPost, "/v1/leads", salesToken, map[string]string{
		"contactName": "Pat Mason", "company": "Mason Builders",
		"source": "Referral", "type": "Scaffolding",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id, _ := lead["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "New Lead", lead["status"])

	resp, lead = f.do(t, http.MethodPost, "/v1/leads/"+id+"/transition", salesToken, map[string]string{
		"transition": "qualify",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Qualified", lead["status"])

	// Sales cannot send proposals.
	resp, _ = f.do(t, http.MethodPut, "/v1/leads/"+id+"/proposal", salesToken, map[string]any{
		"content": "Scope", "send": true,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, lead = f.do(t, http.MethodPut, "/v1/leads/"+id+"/proposal", adminToken, map[string]any{
		"content": "Scope of works", "send": true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Proposal Sent", lead["status"])

	// Repeating a transition from the wrong stage conflicts.
	resp, _ = f.do(t, http.MethodPost, "/v1/leads/"+id+"/transition", salesToken, map[string]string{
		"transition": "qualify",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestAPI_RejectsUnknownFields(t *testing.T) {
	f := setupAPI(t)
	resp, _ := f.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": "a@example.com", "password": "x", "bogus": "y",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_InvitationFlow(t *testing.T) {
	f := setupAPI(t)
	adminToken := f.signUpAndLogin(t, "boss@example.com", "admin")

	resp, inv := f.do(t, http.MethodPost, "/v1/invitations", adminToken, map[string]string{
		"email": "new@example.com", "role": "hr",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "hr", inv["role"])

	// The invited email materializes with the registered role on first login.
	hrToken := f.signUpAndLogin(t, "new@example.com", "hr")
	resp, me := f.do(t, http.MethodGet, "/v1/me", hrToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "hr", me["role"])

	resp, _ = f.do(t, http.MethodDelete, "/v1/invitations/stale@example.com", adminToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestAPI_PipelineRequiresType(t *testing.T) {
	f := setupAPI(t)
	token := f.signUpAndLogin(t, "rep@example.com", "sales")

	resp, _ := f.do(t, http.MethodGet, "/v1/pipeline", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := f.do(t, http.MethodGet, "/v1/pipeline?type=Scaffolding", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stages, ok := body["stages"].([]any)
	require.True(t, ok)
	assert.Len(t, stages, len(domain.PipelineStages))
}

func TestAPI_DashboardCounts(t *testing.T) {
	f := setupAPI(t)
	token := f.signUpAndLogin(t, "rep@example.com", "sales")

	resp, _ := f.do(t, http.MethodPost, "/v1/leads", token, map[string]string{
		"contactName": "Pat Mason", "company": "Mason Builders",
		"source": "Referral", "type": "Formwork",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := f.do(t, http.MethodGet, "/v1/dashboard", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["totalUsers"])
	assert.EqualValues(t, 1, body["leadsThisWeek"])
}
