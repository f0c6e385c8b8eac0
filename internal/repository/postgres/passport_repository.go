package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"CaseFilePlatform/internal/domain"
	"CaseFilePlatform/internal/repository"
	pkgerrors "CaseFilePlatform/pkg/errors"
	"CaseFilePlatform/pkg/logger"
)

// PassportRepository реализация репозитория паспортов для PostgreSQL
type PassportRepository struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

// NewPassportRepository создает новый репозиторий паспортов
func NewPassportRepository(pool *pgxpool.Pool, logger logger.Logger) repository.PassportRepository {
	return &PassportRepository{pool: pool, logger: logger}
}

const passportColumns = `passport_id, client_id, full_name, birth_date, birth_place, series_number,
		COALESCE(department_code, ''), issued_by, issue_date, expiry_date, registration_address,
		version, created_at`

// Create создает паспорт клиента
func (r *PassportRepository) Create(ctx context.Context, passport *domain.Passport) error {
	query := `
		INSERT INTO passports (
			passport_id, client_id, full_name, birth_date, birth_place, series_number,
			department_code, issued_by, issue_date, expiry_date, registration_address,
			version, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10, $11, $12, $13)
	`

	_, err := r.pool.Exec(ctx, query,
		passport.PassportID,
		passport.ClientID,
		passport.FullName,
		passport.BirthDate,
		passport.BirthPlace,
		passport.SeriesNumber,
		passport.DepartmentCode,
		passport.IssuedBy,
		passport.IssueDate,
		passport.ExpiryDate,
		passport.RegistrationAddress,
		passport.Version,
		passport.CreatedAt,
	)
	if err != nil {
		if isPgCode(err, pgForeignKeyViolation) {
			return pkgerrors.Wrap(err, pkgerrors.ErrNotFound, "client not found")
		}
		return pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to create passport")
	}

	return nil
}

// FindByID возвращает паспорт по идентификатору
func (r *PassportRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Passport, error) {
	query := fmt.Sprintf(`SELECT %s FROM passports WHERE passport_id = $1`, passportColumns)

	var passport domain.Passport
	if err := r.scanPassportRow(r.pool.QueryRow(ctx, query, id), &passport); err != nil {
		return nil, err
	}
	return &passport, nil
}

// ListByClient возвращает паспорта клиента в порядке создания
func (r *PassportRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.Passport, error) {
	query := fmt.Sprintf(`SELECT %s FROM passports WHERE client_id = $1 ORDER BY created_at`, passportColumns)

	rows, err := r.pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to list passports")
	}
	defer rows.Close()

	passports := []domain.Passport{}
	for rows.Next() {
		var passport domain.Passport
		if err := r.scanPassportRow(rows, &passport); err != nil {
			return nil, err
		}
		passports = append(passports, passport)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to read passport rows")
	}

	return passports, nil
}

// Update обновляет паспорт вместе с номером версии
func (r *PassportRepository) Update(ctx context.Context, passport *domain.Passport) error {
	query := `
		UPDATE passports SET
			full_name = $2,
			birth_date = $3,
			birth_place = $4,
			series_number = $5,
			department_code = NULLIF($6, ''),
			issued_by = $7,
			issue_date = $8,
			expiry_date = $9,
			registration_address = $10,
			version = $11
		WHERE passport_id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		passport.PassportID,
		passport.FullName,
		passport.BirthDate,
		passport.BirthPlace,
		passport.SeriesNumber,
		passport.DepartmentCode,
		passport.IssuedBy,
		passport.IssueDate,
		passport.ExpiryDate,
		passport.RegistrationAddress,
		passport.Version,
	)
	if err != nil {
		return pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to update passport")
	}
	if result.RowsAffected() == 0 {
		return pkgerrors.New(pkgerrors.ErrNotFound, "passport not found")
	}

	return nil
}

// Delete удаляет паспорт по идентификатору
func (r *PassportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM passports WHERE passport_id = $1`, id)
	if err != nil {
		return pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to delete passport")
	}
	if result.RowsAffected() == 0 {
		return pkgerrors.New(pkgerrors.ErrNotFound, "passport not found")
	}
	return nil
}

func (r *PassportRepository) scanPassportRow(row pgx.Row, passport *domain.Passport) error {
	err := row.Scan(
		&passport.PassportID,
		&passport.ClientID,
		&passport.FullName,
		&passport.BirthDate,
		&passport.BirthPlace,
		&passport.SeriesNumber,
		&passport.DepartmentCode,
		&passport.IssuedBy,
		&passport.IssueDate,
		&passport.ExpiryDate,
		&passport.RegistrationAddress,
		&passport.Version,
		&passport.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return pkgerrors.New(pkgerrors.ErrNotFound, "passport not found")
		}
		return pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to get passport")
	}
	return nil
}
