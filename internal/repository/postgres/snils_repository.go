package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"CaseFilePlatform/internal/domain"
	"CaseFilePlatform/internal/repository"
	pkgerrors "CaseFilePlatform/pkg/errors"
	"CaseFilePlatform/pkg/logger"
)

// SnilsRepository реализация репозитория записей СНИЛС для PostgreSQL
type SnilsRepository struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

// NewSnilsRepository создает новый репозиторий записей СНИЛС
func NewSnilsRepository(pool *pgxpool.Pool, logger logger.Logger) repository.SnilsRepository {
	return &SnilsRepository{pool: pool, logger: logger}
}

// Create создает запись СНИЛС клиента
func (r *SnilsRepository) Create(ctx context.Context, snils *domain.Snils) error {
	query := `
		INSERT INTO snils_records (snils_id, client_id, number, issued_date, version, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		snils.SnilsID,
		snils.ClientID,
		snils.Number,
		snils.IssuedDate,
		snils.Version,
		snils.CreatedAt,
	)
	if err != nil {
		if isPgCode(err, pgForeignKeyViolation) {
			return pkgerrors.Wrap(err, pkgerrors.ErrNotFound, "client not found")
		}
		return pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to create snils record")
	}

	return nil
}

// FindByID возвращает запись СНИЛС по идентификатору
func (r *SnilsRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Snils, error) {
	query := `SELECT snils_id, client_id, number, issued_date, version, created_at
		FROM snils_records WHERE snils_id = $1`

	var snils domain.Snils
	if err := r.scanSnilsRow(r.pool.QueryRow(ctx, query, id), &snils); err != nil {
		return nil, err
	}
	return &snils, nil
}

// ListByClient возвращает записи СНИЛС клиента в порядке создания
func (r *SnilsRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.Snils, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT snils_id, client_id, number, issued_date, version, created_at
		FROM snils_records WHERE client_id = $1 ORDER BY created_at`,
		clientID,
	)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to list snils records")
	}
	defer rows.Close()

	records := []domain.Snils{}
	for rows.Next() {
		var snils domain.Snils
		if err := r.scanSnilsRow(rows, &snils); err != nil {
			return nil, err
		}
		records = append(records, snils)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to read snils rows")
	}

	return records, nil
}

// Update обновляет запись СНИЛС вместе с номером версии
func (r *SnilsRepository) Update(ctx context.Context, snils *domain.Snils) error {
	query := `
		UPDATE snils_records SET number = $2, issued_date = $3, version = $4
		WHERE snils_id = $1
	`

	result, err := r.pool.Exec(ctx, query, snils.SnilsID, snils.Number, snils.IssuedDate, snils.Version)
	if err != nil {
		return pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to update snils record")
	}
	if result.RowsAffected() == 0 {
		return pkgerrors.New(pkgerrors.ErrNotFound, "snils record not found")
	}

	return nil
}

// Delete удаляет запись СНИЛС по идентификатору
func (r *SnilsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM snils_records WHERE snils_id = $1`, id)
	if err != nil {
		return pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to delete snils record")
	}
	if result.RowsAffected() == 0 {
		return pkgerrors.New(pkgerrors.ErrNotFound, "snils record not found")
	}
	return nil
}

func (r *SnilsRepository) scanSnilsRow(row pgx.Row, snils *domain.Snils) error {
	err := row.Scan(
		&snils.SnilsID,
		&snils.ClientID,
		&snils.Number,
		&snils.IssuedDate,
		&snils.Version,
		&snils.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return pkgerrors.New(pkgerrors.ErrNotFound, "snils record not found")
		}
		return pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to get snils record")
	}
	return nil
}
