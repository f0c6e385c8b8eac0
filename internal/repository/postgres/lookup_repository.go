package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"CaseFilePlatform/internal/domain"
	"CaseFilePlatform/internal/repository"
	pkgerrors "CaseFilePlatform/pkg/errors"
	"CaseFilePlatform/pkg/logger"
)

// LookupRepository реализация репозитория справочников для PostgreSQL
type LookupRepository struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

// NewLookupRepository создает новый репозиторий справочников
func NewLookupRepository(pool *pgxpool.Pool, logger logger.Logger) repository.LookupRepository {
	return &LookupRepository{pool: pool, logger: logger}
}

// CreateStatus создает запись справочника статусов
func (r *LookupRepository) CreateStatus(ctx context.Context, status *domain.Status) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO statuses (status_code, description) VALUES ($1, $2)`,
		status.StatusCode, status.Description,
	)
	if err != nil {
		if isPgCode(err, pgUniqueViolation) {
			return pkgerrors.New(pkgerrors.ErrConflict, "status code already exists")
		}
		return pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to create status")
	}
	return nil
}

// FindStatus возвращает запись справочника статусов по коду
func (r *LookupRepository) FindStatus(ctx context.Context, code string) (*domain.Status, error) {
	var status domain.Status
	err := r.pool.QueryRow(ctx,
		`SELECT status_code, description FROM statuses WHERE status_code = $1`, code,
	).Scan(&status.StatusCode, &status.Description)
	if err != nil {
		if isNoRows(err) {
			return nil, pkgerrors.New(pkgerrors.ErrNotFound, "status not found")
		}
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to get status")
	}
	return &status, nil
}

// ListStatuses возвращает все записи справочника статусов
func (r *LookupRepository) ListStatuses(ctx context.Context) ([]domain.Status, error) {
	rows, err := r.pool.Query(ctx, `SELECT status_code, description FROM statuses ORDER BY status_code`)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to list statuses")
	}
	defer rows.Close()

	statuses := []domain.Status{}
	for rows.Next() {
		var status domain.Status
		if err := rows.Scan(&status.StatusCode, &status.Description); err != nil {
			return nil, pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to scan status row")
		}
		statuses = append(statuses, status)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to read status rows")
	}

	return statuses, nil
}

// CreateStage создает запись справочника этапов
func (r *LookupRepository) CreateStage(ctx context.Context, stage *domain.Stage) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO stages (stage_code, description) VALUES ($1, $2)`,
		stage.StageCode, stage.Description,
	)
	if err != nil {
		if isPgCode(err, pgUniqueViolation) {
			return pkgerrors.New(pkgerrors.ErrConflict, "stage code already exists")
		}
		return pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to create stage")
	}
	return nil
}

// FindStage возвращает запись справочника этапов по коду
func (r *LookupRepository) FindStage(ctx context.Context, code string) (*domain.Stage, error) {
	var stage domain.Stage
	err := r.pool.QueryRow(ctx,
		`SELECT stage_code, description FROM stages WHERE stage_code = $1`, code,
	).Scan(&stage.StageCode, &stage.Description)
	if err != nil {
		if isNoRows(err) {
			return nil, pkgerrors.New(pkgerrors.ErrNotFound, "stage not found")
		}
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to get stage")
	}
	return &stage, nil
}

// ListStages возвращает все записи справочника этапов
func (r *LookupRepository) ListStages(ctx context.Context) ([]domain.Stage, error) {
	rows, err := r.pool.Query(ctx, `SELECT stage_code, description FROM stages ORDER BY stage_code`)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to list stages")
	}
	defer rows.Close()

	stages := []domain.Stage{}
	for rows.Next() {
		var stage domain.Stage
		if err := rows.Scan(&stage.StageCode, &stage.Description); err != nil {
			return nil, pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to scan stage row")
		}
		stages = append(stages, stage)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to read stage rows")
	}

	return stages, nil
}
