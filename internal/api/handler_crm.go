package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"apexcrm/internal/domain"
)

type upsertCustomerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Company string `json:"company,omitempty"`
	Segment string `json:"segment,omitempty"`
	Status  string `json:"status,omitempty"`
}

func (r upsertCustomerRequest) toDomain() domain.UpsertCustomerRequest {
	return domain.UpsertCustomerRequest{
		Name:    r.Name,
		Email:   r.Email,
		Company: r.Company,
		Segment: r.Segment,
		Status:  r.Status,
	}
}

func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req upsertCustomerRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	customer, err := h.customers.Create(r.Context(), req.toDomain())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, customerToAPI(customer))
}

func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	page := pageFromRequest(r)
	customers, total, err := h.customers.List(r.Context(), page)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	items := make([]customerJSON, 0, len(customers))
	for i := range customers {
		items = append(items, customerToAPI(&customers[i]))
	}
	writeJSON(w, http.StatusOK, newListEnvelope(items, total, page))
}

func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := h.customers.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, customerToAPI(customer))
}

func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var req upsertCustomerRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	customer, err := h.customers.Update(r.Context(), chi.URLParam(r, "id"), req.toDomain())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, customerToAPI(customer))
}

func (h *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := h.customers.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type upsertEmployeeRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Title      string `json:"title,omitempty"`
	Department string `json:"department,omitempty"`
	Status     string `json:"status,omitempty"`
}

func (r upsertEmployeeRequest) toDomain() domain.UpsertEmployeeRequest {
	return domain.UpsertEmployeeRequest{
		Name:       r.Name,
		Email:      r.Email,
		Title:      r.Title,
		Department: r.Department,
		Status:     r.Status,
	}
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req upsertEmployeeRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	employee, err := h.employees.Create(r.Context(), req.toDomain())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, employeeToAPI(employee))
}

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	page := pageFromRequest(r)
	employees, total, err := h.employees.List(r.Context(), page)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	items := make([]employeeJSON, 0, len(employees))
	for i := range employees {
		items = append(items, employeeToAPI(&employees[i]))
	}
	writeJSON(w, http.StatusOK, newListEnvelope(items, total, page))
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	employee, err := h.employees.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, employeeToAPI(employee))
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var req upsertEmployeeRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	employee, err := h.employees.Update(r.Context(), chi.URLParam(r, "id"), req.toDomain())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, employeeToAPI(employee))
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	if err := h.employees.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
