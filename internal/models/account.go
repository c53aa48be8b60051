package models

import (
	"time"
)

// Account kinds. The kind selects which profile extension applies.
const (
	KindCustomer        = "customer"
	KindBusinessManager = "business_manager"
	KindEmployee        = "employee"
	KindSpecialist      = "specialist"
	KindAdministrator   = "administrator"
)

// Authorization roles, orthogonal to the profile kind.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ValidKinds lists every accepted account kind.
var ValidKinds = []string{
	KindCustomer,
	KindBusinessManager,
	KindEmployee,
	KindSpecialist,
	KindAdministrator,
}

type Account struct {
	ID           string
	Email        string
	PasswordHash string

	FirstName   string
	LastName    string
	MobilePhone string
	BirthDate   time.Time
	Country     string
	City        string
	Gender      string
	PhotoURL    string

	Kind string
	Role string

	// Kind-specific extensions. At most one is non-nil, selected by Kind.
	Employment *EmploymentProfile
	Practice   *PracticeProfile

	// At most one outstanding sealed refresh token, overwritten on login.
	SealedRefreshToken *string

	LoginAttempts int
	LockoutTime   *time.Time

	// Version guards read-modify-write updates against lost writes.
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EmploymentProfile extends business manager and employee accounts.
type EmploymentProfile struct {
	CompanyPosition        string
	YearsOfExperience      int
	ProfessionalExperience string
}

// PracticeProfile extends specialist accounts.
type PracticeProfile struct {
	Specialty         string
	Expertise         string
	Licence           string
	Description       string
	OfferedServices   []string
	TherapyPrice      float64
	ConsultationPrice float64
	YearsOfExperience int
}

// IsValidKind reports whether kind names a known account kind.
func IsValidKind(kind string) bool {
	for _, k := range ValidKinds {
		if k == kind {
			return true
		}
	}
	return false
}
