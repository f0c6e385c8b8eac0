package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"CaseFilePlatform/internal/domain"
	"CaseFilePlatform/internal/repository"
	pkgerrors "CaseFilePlatform/pkg/errors"
	"CaseFilePlatform/pkg/logger"
)

// PhoneRepository реализация репозитория телефонов для PostgreSQL
type PhoneRepository struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

// NewPhoneRepository создает новый репозиторий телефонов
func NewPhoneRepository(pool *pgxpool.Pool, logger logger.Logger) repository.PhoneRepository {
	return &PhoneRepository{pool: pool, logger: logger}
}

// Create создает телефон. Идентификатор выдается базой и записывается
// в переданную структуру.
func (r *PhoneRepository) Create(ctx context.Context, phone *domain.Phone) error {
	query := `
		INSERT INTO phones (client_id, number, created_at)
		VALUES ($1, $2, $3)
		RETURNING phone_id
	`

	err := r.pool.QueryRow(ctx, query, phone.ClientID, phone.Number, phone.CreatedAt).Scan(&phone.PhoneID)
	if err != nil {
		if isPgCode(err, pgForeignKeyViolation) {
			return pkgerrors.Wrap(err, pkgerrors.ErrNotFound, "client not found")
		}
		return pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to create phone")
	}

	return nil
}

// ListByClient возвращает телефоны клиента в порядке создания
func (r *PhoneRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.Phone, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT phone_id, client_id, number, created_at FROM phones WHERE client_id = $1 ORDER BY phone_id`,
		clientID,
	)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to list phones")
	}
	defer rows.Close()

	phones := []domain.Phone{}
	for rows.Next() {
		var phone domain.Phone
		if err := rows.Scan(&phone.PhoneID, &phone.ClientID, &phone.Number, &phone.CreatedAt); err != nil {
			return nil, pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to scan phone row")
		}
		phones = append(phones, phone)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to read phone rows")
	}

	return phones, nil
}

// Delete удаляет телефон по идентификатору
func (r *PhoneRepository) Delete(ctx context.Context, phoneID int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM phones WHERE phone_id = $1`, phoneID)
	if err != nil {
		return pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to delete phone")
	}
	if result.RowsAffected() == 0 {
		return pkgerrors.New(pkgerrors.ErrNotFound, "phone not found")
	}
	return nil
}
