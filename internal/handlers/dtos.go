package handlers

import (
	"time"

	"github.com/mwicker/ledgerpass/internal/models"
)

const birthDateLayout = "2006-01-02"

// EmploymentProfileDTO carries the employee/business-manager extension fields.
type EmploymentProfileDTO struct {
	CompanyPosition        string `json:"company_position" validate:"required,min=1"`
	YearsOfExperience      int    `json:"years_of_experience" validate:"gte=0"`
	ProfessionalExperience string `json:"professional_experience"`
}

// PracticeProfileDTO carries the specialist extension fields.
type PracticeProfileDTO struct {
	Specialty         string   `json:"specialty" validate:"required,min=1"`
	Expertise         string   `json:"expertise"`
	Licence           string   `json:"licence" validate:"required,min=1"`
	Description       string   `json:"description"`
	OfferedServices   []string `json:"offered_services"`
	TherapyPrice      float64  `json:"therapy_price" validate:"gte=0"`
	ConsultationPrice float64  `json:"consultation_price" validate:"gte=0"`
	YearsOfExperience int      `json:"years_of_experience" validate:"gte=0"`
}

// AccountResponse represents an account in the HTTP response. Password hash,
// sealed refresh token, and lockout state never leave the server.
type AccountResponse struct {
	ID          string                `json:"id"`
	Email       string                `json:"email"`
	FirstName   string                `json:"first_name"`
	LastName    string                `json:"last_name"`
	MobilePhone string                `json:"mobile_phone"`
	BirthDate   string                `json:"birth_date"`
	Country     string                `json:"country"`
	City        string                `json:"city"`
	Gender      string                `json:"gender"`
	PhotoURL    string                `json:"photo_url,omitempty"`
	Kind        string                `json:"kind"`
	Role        string                `json:"role"`
	Employment  *EmploymentProfileDTO `json:"employment,omitempty"`
	Practice    *PracticeProfileDTO   `json:"practice,omitempty"`
	CreatedAt   string                `json:"created_at"`
	UpdatedAt   string                `json:"updated_at"`
}

// ListAccountsResponse represents a page of accounts
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int                `json:"total"`
}

func employmentToModel(dto *EmploymentProfileDTO) *models.EmploymentProfile {
	if dto == nil {
		return nil
	}
	return &models.EmploymentProfile{
		CompanyPosition:        dto.CompanyPosition,
		YearsOfExperience:      dto.YearsOfExperience,
		ProfessionalExperience: dto.ProfessionalExperience,
	}
}

func practiceToModel(dto *PracticeProfileDTO) *models.PracticeProfile {
	if dto == nil {
		return nil
	}
	return &models.PracticeProfile{
		Specialty:         dto.Specialty,
		Expertise:         dto.Expertise,
		Licence:           dto.Licence,
		Description:       dto.Description,
		OfferedServices:   dto.OfferedServices,
		TherapyPrice:      dto.TherapyPrice,
		ConsultationPrice: dto.ConsultationPrice,
		YearsOfExperience: dto.YearsOfExperience,
	}
}

// accountModelToResponse converts an account model to a response DTO
func accountModelToResponse(account *models.Account) *AccountResponse {
	resp := &AccountResponse{
		ID:          account.ID,
		Email:       account.Email,
		FirstName:   account.FirstName,
		LastName:    account.LastName,
		MobilePhone: account.MobilePhone,
		BirthDate:   account.BirthDate.Format(birthDateLayout),
		Country:     account.Country,
		City:        account.City,
		Gender:      account.Gender,
		PhotoURL:    account.PhotoURL,
		Kind:        account.Kind,
		Role:        account.Role,
		CreatedAt:   account.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   account.UpdatedAt.Format(time.RFC3339),
	}

	if account.Employment != nil {
		resp.Employment = &EmploymentProfileDTO{
			CompanyPosition:        account.Employment.CompanyPosition,
			YearsOfExperience:      account.Employment.YearsOfExperience,
			ProfessionalExperience: account.Employment.ProfessionalExperience,
		}
	}
	if account.Practice != nil {
		resp.Practice = &PracticeProfileDTO{
			Specialty:         account.Practice.Specialty,
			Expertise:         account.Practice.Expertise,
			Licence:           account.Practice.Licence,
			Description:       account.Practice.Description,
			OfferedServices:   account.Practice.OfferedServices,
			TherapyPrice:      account.Practice.TherapyPrice,
			ConsultationPrice: account.Practice.ConsultationPrice,
			YearsOfExperience: account.Practice.YearsOfExperience,
		}
	}

	return resp
}
