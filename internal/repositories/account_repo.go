package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"github.com/mwicker/ledgerpass/internal/database"
	"github.com/mwicker/ledgerpass/internal/models"
)

const accountColumns = `
	id, email, password_hash,
	first_name, last_name, mobile_phone, birth_date, country, city, gender, photo_url,
	kind, role,
	company_position, professional_experience, years_of_experience,
	specialty, expertise, licence, description, offered_services, therapy_price, consultation_price,
	sealed_refresh_token, login_attempts, lockout_time,
	version, created_at, updated_at
`

type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{pool: db.Pool}
}

// rowScanner interface for scanning account rows (single row and multiple rows)
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanAccountRow handles nullable fields and assembles the kind-specific
// profile extension from the flat column set.
func scanAccountRow(scanner rowScanner) (*models.Account, error) {
	var account models.Account
	var companyPosition, professionalExperience *string
	var yearsOfExperience *int
	var specialty, expertise, licence, description *string
	var offeredServices []string
	var therapyPrice, consultationPrice *float64
	var sealedRefreshToken *string
	var lockoutTime *time.Time

	err := scanner.Scan(
		&account.ID, &account.Email, &account.PasswordHash,
		&account.FirstName, &account.LastName, &account.MobilePhone, &account.BirthDate,
		&account.Country, &account.City, &account.Gender, &account.PhotoURL,
		&account.Kind, &account.Role,
		&companyPosition, &professionalExperience, &yearsOfExperience,
		&specialty, &expertise, &licence, &description,
		pq.Array(&offeredServices), &therapyPrice, &consultationPrice,
		&sealedRefreshToken, &account.LoginAttempts, &lockoutTime,
		&account.Version, &account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	account.SealedRefreshToken = sealedRefreshToken
	account.LockoutTime = lockoutTime

	switch account.Kind {
	case models.KindBusinessManager, models.KindEmployee:
		account.Employment = &models.EmploymentProfile{}
		if companyPosition != nil {
			account.Employment.CompanyPosition = *companyPosition
		}
		if professionalExperience != nil {
			account.Employment.ProfessionalExperience = *professionalExperience
		}
		if yearsOfExperience != nil {
			account.Employment.YearsOfExperience = *yearsOfExperience
		}
	case models.KindSpecialist:
		account.Practice = &models.PracticeProfile{OfferedServices: offeredServices}
		if specialty != nil {
			account.Practice.Specialty = *specialty
		}
		if expertise != nil {
			account.Practice.Expertise = *expertise
		}
		if licence != nil {
			account.Practice.Licence = *licence
		}
		if description != nil {
			account.Practice.Description = *description
		}
		if therapyPrice != nil {
			account.Practice.TherapyPrice = *therapyPrice
		}
		if consultationPrice != nil {
			account.Practice.ConsultationPrice = *consultationPrice
		}
		if yearsOfExperience != nil {
			account.Practice.YearsOfExperience = *yearsOfExperience
		}
	}

	return &account, nil
}

func scanAccountRows(rows pgx.Rows) ([]*models.Account, error) {
	defer rows.Close()

	accounts := make([]*models.Account, 0)

	for rows.Next() {
		account, err := scanAccountRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return accounts, nil
}

// extensionColumns flattens the kind-specific profile into column values.
func extensionColumns(account *models.Account) (companyPosition, professionalExperience *string, yearsOfExperience *int,
	specialty, expertise, licence, description *string, offeredServices []string, therapyPrice, consultationPrice *float64) {

	if e := account.Employment; e != nil {
		if e.CompanyPosition != "" {
			companyPosition = &e.CompanyPosition
		}
		if e.ProfessionalExperience != "" {
			professionalExperience = &e.ProfessionalExperience
		}
		if e.YearsOfExperience != 0 {
			yearsOfExperience = &e.YearsOfExperience
		}
	}
	if p := account.Practice; p != nil {
		if p.Specialty != "" {
			specialty = &p.Specialty
		}
		if p.Expertise != "" {
			expertise = &p.Expertise
		}
		if p.Licence != "" {
			licence = &p.Licence
		}
		if p.Description != "" {
			description = &p.Description
		}
		offeredServices = p.OfferedServices
		if p.TherapyPrice != 0 {
			therapyPrice = &p.TherapyPrice
		}
		if p.ConsultationPrice != 0 {
			consultationPrice = &p.ConsultationPrice
		}
		if p.YearsOfExperience != 0 {
			yearsOfExperience = &p.YearsOfExperience
		}
	}
	return
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	return scanAccountRow(r.pool.QueryRow(ctx, query, id))
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`

	return scanAccountRow(r.pool.QueryRow(ctx, query, email))
}

func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}

	return scanAccountRows(rows)
}

func (r *AccountRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	account.ID = uuid.New().String()

	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now

	if account.Role == "" {
		account.Role = models.RoleUser
	}

	companyPosition, professionalExperience, yearsOfExperience,
		specialty, expertise, licence, description, offeredServices,
		therapyPrice, consultationPrice := extensionColumns(account)

	query := `
		INSERT INTO accounts (
			id, email, password_hash,
			first_name, last_name, mobile_phone, birth_date, country, city, gender, photo_url,
			kind, role,
			company_position, professional_experience, years_of_experience,
			specialty, expertise, licence, description, offered_services, therapy_price, consultation_price,
			sealed_refresh_token, login_attempts, lockout_time,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
				$17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28)
		RETURNING ` + accountColumns

	return scanAccountRow(r.pool.QueryRow(ctx, query,
		account.ID, account.Email, account.PasswordHash,
		account.FirstName, account.LastName, account.MobilePhone, account.BirthDate,
		account.Country, account.City, account.Gender, account.PhotoURL,
		account.Kind, account.Role,
		companyPosition, professionalExperience, yearsOfExperience,
		specialty, expertise, licence, description, pq.Array(offeredServices),
		therapyPrice, consultationPrice,
		account.SealedRefreshToken, account.LoginAttempts, account.LockoutTime,
		account.CreatedAt, account.UpdatedAt,
	))
}

// Update writes every mutable field, guarded by the row version to prevent
// lost updates. A stale version surfaces as ErrConflict; callers re-read and
// retry or accept last-writer-wins.
func (r *AccountRepository) Update(ctx context.Context, account *models.Account) (*models.Account, error) {
	account.UpdatedAt = time.Now()

	companyPosition, professionalExperience, yearsOfExperience,
		specialty, expertise, licence, description, offeredServices,
		therapyPrice, consultationPrice := extensionColumns(account)

	query := `
		UPDATE accounts SET
			first_name = $1, last_name = $2, mobile_phone = $3, birth_date = $4,
			country = $5, city = $6, gender = $7, photo_url = $8,
			role = $9,
			company_position = $10, professional_experience = $11, years_of_experience = $12,
			specialty = $13, expertise = $14, licence = $15, description = $16,
			offered_services = $17, therapy_price = $18, consultation_price = $19,
			sealed_refresh_token = $20, login_attempts = $21, lockout_time = $22,
			version = version + 1, updated_at = $23
		WHERE id = $24 AND version = $25
		RETURNING ` + accountColumns

	updated, err := scanAccountRow(r.pool.QueryRow(ctx, query,
		account.FirstName, account.LastName, account.MobilePhone, account.BirthDate,
		account.Country, account.City, account.Gender, account.PhotoURL,
		account.Role,
		companyPosition, professionalExperience, yearsOfExperience,
		specialty, expertise, licence, description,
		pq.Array(offeredServices), therapyPrice, consultationPrice,
		account.SealedRefreshToken, account.LoginAttempts, account.LockoutTime,
		account.UpdatedAt, account.ID, account.Version,
	))
	if errors.Is(err, models.ErrNotFound) {
		// Row gone or version stale; either way the caller's copy is outdated.
		return nil, models.ErrConflict
	}
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM accounts WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
