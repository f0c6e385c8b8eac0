package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"CaseFilePlatform/internal/domain"
	"CaseFilePlatform/internal/repository"
	pkgerrors "CaseFilePlatform/pkg/errors"
	"CaseFilePlatform/pkg/logger"
)

// AgentRepository реализация репозитория агентов для PostgreSQL
type AgentRepository struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

// NewAgentRepository создает новый репозиторий агентов
func NewAgentRepository(pool *pgxpool.Pool, logger logger.Logger) repository.AgentRepository {
	return &AgentRepository{pool: pool, logger: logger}
}

const agentColumns = `agent_id, external_id, last_name, first_name, COALESCE(middle_name, ''),
		legal_address, actual_address, inn, ogrnip, account_number, correspondent_account, bic`

// Create сохраняет нового агента в базе данных
func (r *AgentRepository) Create(ctx context.Context, agent *domain.Agent) error {
	r.logger.Debug("Creating agent",
		logger.String("agent_id", agent.AgentID.String()),
		logger.Int64("external_id", agent.ExternalID),
	)

	query := `
		INSERT INTO agents (
			agent_id, external_id, last_name, first_name, middle_name,
			legal_address, actual_address, inn, ogrnip, account_number, correspondent_account, bic
		) VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.pool.Exec(ctx, query,
		agent.AgentID,
		agent.ExternalID,
		agent.LastName,
		agent.FirstName,
		agent.MiddleName,
		agent.LegalAddress,
		agent.ActualAddress,
		agent.INN,
		agent.OGRNIP,
		agent.AccountNumber,
		agent.CorrespondentAccount,
		agent.BIC,
	)
	if err != nil {
		if isPgCode(err, pgUniqueViolation) {
			return pkgerrors.Wrap(err, pkgerrors.ErrConflict, "agent external id already exists")
		}
		return pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to create agent")
	}

	return nil
}

// FindByID возвращает агента по внутреннему идентификатору
func (r *AgentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Agent, error) {
	query := fmt.Sprintf(`SELECT %s FROM agents WHERE agent_id = $1`, agentColumns)

	agent, err := r.scanAgent(ctx, query, id)
	if err != nil {
		return nil, err
	}
	return agent, nil
}

// FindByExternalID возвращает агента по внешнему номеру
func (r *AgentRepository) FindByExternalID(ctx context.Context, externalID int64) (*domain.Agent, error) {
	query := fmt.Sprintf(`SELECT %s FROM agents WHERE external_id = $1`, agentColumns)

	agent, err := r.scanAgent(ctx, query, externalID)
	if err != nil {
		return nil, err
	}
	return agent, nil
}

// List возвращает агентов с поиском по ФИО и пагинацией.
// Сортировка — по фамилии и имени.
func (r *AgentRepository) List(ctx context.Context, filter domain.AgentFilter) ([]*domain.Agent, error) {
	query := fmt.Sprintf(`SELECT %s FROM agents`, agentColumns)
	args := []interface{}{}

	if filter.Query != "" {
		query += ` WHERE last_name ILIKE $1 OR first_name ILIKE $1 OR middle_name ILIKE $1`
		args = append(args, "%"+filter.Query+"%")
	}

	query += fmt.Sprintf(` ORDER BY last_name, first_name OFFSET $%d LIMIT $%d`, len(args)+1, len(args)+2)
	args = append(args, filter.Skip, filter.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to list agents")
	}
	defer rows.Close()

	agents := []*domain.Agent{}
	for rows.Next() {
		var agent domain.Agent
		if err := rows.Scan(
			&agent.AgentID,
			&agent.ExternalID,
			&agent.LastName,
			&agent.FirstName,
			&agent.MiddleName,
			&agent.LegalAddress,
			&agent.ActualAddress,
			&agent.INN,
			&agent.OGRNIP,
			&agent.AccountNumber,
			&agent.CorrespondentAccount,
			&agent.BIC,
		); err != nil {
			return nil, pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to scan agent row")
		}
		agents = append(agents, &agent)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to read agent rows")
	}

	return agents, nil
}

// Update обновляет существующего агента
func (r *AgentRepository) Update(ctx context.Context, agent *domain.Agent) error {
	query := `
		UPDATE agents SET
			last_name = $2,
			first_name = $3,
			middle_name = NULLIF($4, ''),
			legal_address = $5,
			actual_address = $6,
			inn = $7,
			ogrnip = $8,
			account_number = $9,
			correspondent_account = $10,
			bic = $11
		WHERE agent_id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		agent.AgentID,
		agent.LastName,
		agent.FirstName,
		agent.MiddleName,
		agent.LegalAddress,
		agent.ActualAddress,
		agent.INN,
		agent.OGRNIP,
		agent.AccountNumber,
		agent.CorrespondentAccount,
		agent.BIC,
	)
	if err != nil {
		return pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to update agent")
	}

	if result.RowsAffected() == 0 {
		return pkgerrors.New(pkgerrors.ErrNotFound, "agent not found")
	}

	return nil
}

// Delete удаляет агента. Удаление запрещено, пока на агента ссылается
// хотя бы один клиент: проверка и удаление выполняются в одной транзакции,
// FK с ON DELETE RESTRICT страхует от гонки.
func (r *AgentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	var dependents int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM clients WHERE agent_id = $1`, id).Scan(&dependents); err != nil {
		return pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to count dependent clients")
	}
	if dependents > 0 {
		return pkgerrors.New(pkgerrors.ErrConflict, "agent has linked clients and cannot be deleted").
			WithDetails(fmt.Sprintf("dependent clients: %d", dependents))
	}

	result, err := tx.Exec(ctx, `DELETE FROM agents WHERE agent_id = $1`, id)
	if err != nil {
		if isPgCode(err, pgForeignKeyViolation) {
			return pkgerrors.Wrap(err, pkgerrors.ErrConflict, "agent has linked clients and cannot be deleted")
		}
		return pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to delete agent")
	}
	if result.RowsAffected() == 0 {
		return pkgerrors.New(pkgerrors.ErrNotFound, "agent not found")
	}

	if err := tx.Commit(ctx); err != nil {
		return pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to commit transaction")
	}

	return nil
}

// CountClients возвращает число клиентов, закрепленных за агентом
func (r *AgentRepository) CountClients(ctx context.Context, agentID uuid.UUID) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM clients WHERE agent_id = $1`, agentID).Scan(&count)
	if err != nil {
		return 0, pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to count clients")
	}
	return count, nil
}

// scanAgent выполняет запрос, возвращающий одну строку агента
func (r *AgentRepository) scanAgent(ctx context.Context, query string, arg interface{}) (*domain.Agent, error) {
	var agent domain.Agent
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&agent.AgentID,
		&agent.ExternalID,
		&agent.LastName,
		&agent.FirstName,
		&agent.MiddleName,
		&agent.LegalAddress,
		&agent.ActualAddress,
		&agent.INN,
		&agent.OGRNIP,
		&agent.AccountNumber,
		&agent.CorrespondentAccount,
		&agent.BIC,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, pkgerrors.New(pkgerrors.ErrNotFound, "agent not found")
		}
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to get agent")
	}
	return &agent, nil
}
