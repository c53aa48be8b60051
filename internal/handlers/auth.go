package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/mwicker/ledgerpass/internal/auth"
	"github.com/mwicker/ledgerpass/internal/models"
	"github.com/mwicker/ledgerpass/internal/services"
	pkgauth "github.com/mwicker/ledgerpass/pkg/auth"
	pkghttp "github.com/mwicker/ledgerpass/pkg/http"
)

// AuthServiceInterface defines the interface for auth business logic
type AuthServiceInterface interface {
	Register(ctx context.Context, account *models.Account, password string) (*services.RegisterResult, error)
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	Logout(ctx context.Context, account *models.Account, accessToken string) error
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	service AuthServiceInterface
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

// Request DTOs

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Email       string                `json:"email" validate:"required,email"`
	Password    string                `json:"password" validate:"required"`
	FirstName   string                `json:"first_name" validate:"required,min=1"`
	LastName    string                `json:"last_name" validate:"required,min=1"`
	MobilePhone string                `json:"mobile_phone" validate:"required,min=1"`
	BirthDate   string                `json:"birth_date" validate:"required,datetime=2006-01-02"`
	Country     string                `json:"country" validate:"required,min=1"`
	City        string                `json:"city" validate:"required,min=1"`
	Gender      string                `json:"gender" validate:"required,min=1"`
	PhotoURL    string                `json:"photo_url" validate:"omitempty,url"`
	Kind        string                `json:"kind" validate:"required,oneof=customer business_manager employee specialist administrator"`
	Employment  *EmploymentProfileDTO `json:"employment"`
	Practice    *PracticeProfileDTO   `json:"practice"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterResponse carries the issued token pair next to the created account.
type RegisterResponse struct {
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	Account      *AccountResponse `json:"account"`
}

// LoginResponse carries the access token; the refresh token stays server-side.
type LoginResponse struct {
	AccessToken string           `json:"access_token"`
	ExpiresAt   int64            `json:"expires_at"`
	Account     *AccountResponse `json:"account"`
}

// Register handles account registration
// @Summary Register a new account
// @Accept json
// @Param request body RegisterRequest true "Register request"
// @Produce json
// @Success 201 {object} RegisterResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /users/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	birthDate, err := time.Parse(birthDateLayout, req.BirthDate)
	if err != nil {
		pkghttp.WriteBadRequest(w, "Invalid birth_date")
		return
	}

	account := &models.Account{
		Email:       req.Email,
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		MobilePhone: strings.TrimSpace(req.MobilePhone),
		BirthDate:   birthDate,
		Country:     req.Country,
		City:        req.City,
		Gender:      req.Gender,
		PhotoURL:    req.PhotoURL,
		Kind:        req.Kind,
		Employment:  employmentToModel(req.Employment),
		Practice:    practiceToModel(req.Practice),
	}

	result, err := h.service.Register(r.Context(), account, req.Password)
	if err != nil {
		var passwordErr *pkgauth.PasswordValidationError
		switch {
		case errors.Is(err, models.ErrConflict):
			pkghttp.WriteBadRequest(w, "Email is already registered")
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, "Invalid registration data")
		case errors.As(err, &passwordErr):
			pkghttp.WriteBadRequest(w, passwordErr.Error())
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(&RegisterResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.SealedRefreshToken,
		Account:      accountModelToResponse(result.Account),
	})
}

// Login handles account login
// @Summary Account login
// @Accept json
// @Param request body LoginRequest true "Login request"
// @Produce json
// @Success 200 {object} LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /users/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrAccountLocked):
			pkghttp.WriteUnauthorized(w, "Account is temporarily locked. Try again later.")
		case errors.Is(err, models.ErrInvalidCredentials):
			pkghttp.WriteForbidden(w, "Invalid email or password")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	auth.SetAccessTokenCookie(w, result.AccessToken, time.Unix(result.ExpiresAt, 0))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(&LoginResponse{
		AccessToken: result.AccessToken,
		ExpiresAt:   result.ExpiresAt,
		Account:     accountModelToResponse(result.Account),
	})
}

// Logout revokes the caller's access token and stored refresh token
// @Summary Account logout
// @Security BearerAuth
// @Produce json
// @Success 200
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /users/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	account := auth.AccountFromContext(r)
	if account == nil {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	accessToken := auth.TokenFromContext(r)

	if err := h.service.Logout(r.Context(), account, accessToken); err != nil {
		if errors.Is(err, models.ErrMissingTokens) {
			pkghttp.WriteBadRequest(w, "No active session tokens to revoke")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	auth.ClearAccessTokenCookie(w)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Logged out"})
}
