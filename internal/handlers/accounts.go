package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mwicker/ledgerpass/internal/auth"
	"github.com/mwicker/ledgerpass/internal/models"
	"github.com/mwicker/ledgerpass/internal/services"
	pkghttp "github.com/mwicker/ledgerpass/pkg/http"
)

// AccountServiceInterface defines the interface for account business logic
type AccountServiceInterface interface {
	GetAccountByID(ctx context.Context, id string) (*models.Account, error)
	ListAccounts(ctx context.Context, limit, offset int) ([]*models.Account, error)
	UpdateAccount(ctx context.Context, id string, update *services.AccountUpdate) (*models.Account, error)
	DeleteAccount(ctx context.Context, id string) error
	ChangeRole(ctx context.Context, id, role string) (*models.Account, error)
}

// AccountHandler handles account-related HTTP requests
type AccountHandler struct {
	service AccountServiceInterface
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(service AccountServiceInterface) *AccountHandler {
	return &AccountHandler{service: service}
}

// UpdateAccountRequest represents the request body for a profile update.
// Absent fields leave the stored value untouched.
type UpdateAccountRequest struct {
	FirstName   *string               `json:"first_name" validate:"omitempty,min=1"`
	LastName    *string               `json:"last_name" validate:"omitempty,min=1"`
	MobilePhone *string               `json:"mobile_phone" validate:"omitempty,min=1"`
	Country     *string               `json:"country" validate:"omitempty,min=1"`
	City        *string               `json:"city" validate:"omitempty,min=1"`
	PhotoURL    *string               `json:"photo_url" validate:"omitempty,url"`
	Employment  *EmploymentProfileDTO `json:"employment"`
	Practice    *PracticeProfileDTO   `json:"practice"`
}

// ChangeRoleRequest represents the request body for a role change
type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

// checkAccountAccess allows an account to act on itself and admins to act on
// anyone.
func (h *AccountHandler) checkAccountAccess(r *http.Request, accountID string) error {
	caller := auth.AccountFromContext(r)
	if caller == nil {
		return models.ErrUnauthorized
	}
	if caller.ID == accountID || caller.Role == models.RoleAdmin {
		return nil
	}
	return models.ErrForbidden
}

// GetAccount retrieves an account by ID
// @Summary Get account by ID
// @Param id path string true "Account ID"
// @Produce json
// @Success 200 {object} AccountResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /users/{id} [get]
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		pkghttp.WriteBadRequest(w, "Account ID is required")
		return
	}

	if err := h.checkAccountAccess(r, accountID); err != nil {
		pkghttp.WriteForbidden(w, "You cannot access this resource")
		return
	}

	account, err := h.service.GetAccountByID(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Account not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(accountModelToResponse(account))
}

// ListAccounts retrieves a page of accounts (admin only)
// @Summary List accounts
// @Param limit query int false "Limit (default 10)"
// @Param offset query int false "Offset (default 0)"
// @Produce json
// @Success 200 {object} ListAccountsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /users [get]
func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	limit := 10
	offset := 0

	if l := r.URL.Query().Get("limit"); l != "" {
		if err := parseIntParam(l, &limit, 1, 100); err != nil {
			pkghttp.WriteBadRequest(w, "Invalid limit parameter")
			return
		}
	}

	if o := r.URL.Query().Get("offset"); o != "" {
		if err := parseIntParam(o, &offset, 0, 10000); err != nil {
			pkghttp.WriteBadRequest(w, "Invalid offset parameter")
			return
		}
	}

	accounts, err := h.service.ListAccounts(r.Context(), limit, offset)
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	response := &ListAccountsResponse{
		Accounts: make([]*AccountResponse, len(accounts)),
		Total:    len(accounts),
	}
	for i, account := range accounts {
		response.Accounts[i] = accountModelToResponse(account)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// UpdateAccount applies a partial profile update
// @Summary Update an account
// @Param id path string true "Account ID"
// @Accept json
// @Param request body UpdateAccountRequest true "Update request"
// @Produce json
// @Success 200 {object} AccountResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /users/{id} [put]
func (h *AccountHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		pkghttp.WriteBadRequest(w, "Account ID is required")
		return
	}

	if err := h.checkAccountAccess(r, accountID); err != nil {
		pkghttp.WriteForbidden(w, "You cannot access this resource")
		return
	}

	var req UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	update := &services.AccountUpdate{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		MobilePhone: req.MobilePhone,
		Country:     req.Country,
		City:        req.City,
		PhotoURL:    req.PhotoURL,
		Employment:  employmentToModel(req.Employment),
		Practice:    practiceToModel(req.Practice),
	}

	account, err := h.service.UpdateAccount(r.Context(), accountID, update)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "Account not found")
		case errors.Is(err, models.ErrConflict):
			pkghttp.WriteConflict(w, "Account was modified concurrently, retry the update")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(accountModelToResponse(account))
}

// DeleteAccount removes an account (admin only)
// @Summary Delete an account
// @Param id path string true "Account ID"
// @Produce json
// @Success 200
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /users/{id} [delete]
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		pkghttp.WriteBadRequest(w, "Account ID is required")
		return
	}

	if err := h.service.DeleteAccount(r.Context(), accountID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Account not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Account deleted"})
}

// ChangeRole assigns a new role to an account (admin only)
// @Summary Change an account's role
// @Param id path string true "Account ID"
// @Accept json
// @Param request body ChangeRoleRequest true "Role change request"
// @Produce json
// @Success 200 {object} AccountResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /users/{id}/role [put]
func (h *AccountHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		pkghttp.WriteBadRequest(w, "Account ID is required")
		return
	}

	var req ChangeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	account, err := h.service.ChangeRole(r.Context(), accountID, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "Account not found")
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, "Invalid role")
		case errors.Is(err, models.ErrConflict):
			pkghttp.WriteConflict(w, "Account was modified concurrently, retry the update")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(accountModelToResponse(account))
}

// parseIntParam parses a bounded integer query parameter into dst.
func parseIntParam(raw string, dst *int, min, max int) error {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return err
	}
	if v < min || v > max {
		return errors.New("out of range")
	}
	*dst = v
	return nil
}
