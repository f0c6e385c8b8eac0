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

// ClientRepository реализация репозитория клиентов для PostgreSQL
type ClientRepository struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

// NewClientRepository создает новый репозиторий клиентов
func NewClientRepository(pool *pgxpool.Pool, logger logger.Logger) repository.ClientRepository {
	return &ClientRepository{pool: pool, logger: logger}
}

const clientColumns = `client_id, external_id, last_name, first_name, COALESCE(middle_name, ''),
		status_code, current_stage, agent_id, deadline, created_at, updated_at, COALESCE(notes, '')`

// CreateWithPhones атомарно создает клиента и его телефоны.
// Частичная запись (клиент без телефонов) не может стать видимой:
// все вставки выполняются в одной транзакции.
func (r *ClientRepository) CreateWithPhones(ctx context.Context, client *domain.Client, phoneNumbers []string) error {
	r.logger.Debug("Creating client with phones",
		logger.String("client_id", client.ClientID.String()),
		logger.Int("phones", len(phoneNumbers)),
	)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO clients (
			client_id, external_id, last_name, first_name, middle_name,
			status_code, current_stage, agent_id, deadline, created_at, updated_at, notes
		) VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, $10, $11, NULLIF($12, ''))
	`

	_, err = tx.Exec(ctx, query,
		client.ClientID,
		client.ExternalID,
		client.LastName,
		client.FirstName,
		client.MiddleName,
		client.StatusCode,
		client.CurrentStage,
		client.AgentID,
		client.Deadline,
		client.CreatedAt,
		client.UpdatedAt,
		client.Notes,
	)
	if err != nil {
		if isPgCode(err, pgForeignKeyViolation) {
			return pkgerrors.Wrap(err, pkgerrors.ErrReferenceNotFound, "referenced agent, status or stage does not exist")
		}
		if isPgCode(err, pgUniqueViolation) {
			return pkgerrors.Wrap(err, pkgerrors.ErrConflict, "client external id already exists")
		}
		return pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to create client")
	}

	for _, number := range phoneNumbers {
		_, err = tx.Exec(ctx,
			`INSERT INTO phones (client_id, number, created_at) VALUES ($1, $2, $3)`,
			client.ClientID, number, client.CreatedAt,
		)
		if err != nil {
			return pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to create client phone")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to commit transaction")
	}

	return nil
}

// FindByID возвращает клиента без связанных сущностей
func (r *ClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	query := fmt.Sprintf(`SELECT %s FROM clients WHERE client_id = $1`, clientColumns)

	var client domain.Client
	if err := r.scanClientRow(r.pool.QueryRow(ctx, query, id), &client); err != nil {
		return nil, err
	}
	return &client, nil
}

// FindBundleByID возвращает клиента с жадно загруженными связями:
// агентом, телефонами, паспортами и записями СНИЛС
func (r *ClientRepository) FindBundleByID(ctx context.Context, id uuid.UUID) (*domain.ClientBundle, error) {
	client, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	bundles, err := r.loadRelations(ctx, []*domain.Client{client})
	if err != nil {
		return nil, err
	}

	return bundles[0], nil
}

// List возвращает страницу клиентов с жадно загруженными связями.
// Фильтры объединяются по И; сортировка всегда по внешнему номеру.
func (r *ClientRepository) List(ctx context.Context, filter domain.ClientFilter) ([]*domain.ClientBundle, error) {
	query := fmt.Sprintf(`SELECT %s FROM clients`, clientColumns)
	args := []interface{}{}
	conditions := []string{}

	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		n := len(args)
		conditions = append(conditions,
			fmt.Sprintf(`(last_name ILIKE $%d OR first_name ILIKE $%d OR middle_name ILIKE $%d)`, n, n, n))
	}
	if filter.StatusCode != "" {
		args = append(args, filter.StatusCode)
		conditions = append(conditions, fmt.Sprintf(`status_code = $%d`, len(args)))
	}
	if filter.AgentID != nil {
		args = append(args, *filter.AgentID)
		conditions = append(conditions, fmt.Sprintf(`agent_id = $%d`, len(args)))
	}
	if filter.CurrentStage != "" {
		args = append(args, filter.CurrentStage)
		conditions = append(conditions, fmt.Sprintf(`current_stage = $%d`, len(args)))
	}

	for i, condition := range conditions {
		if i == 0 {
			query += ` WHERE ` + condition
		} else {
			query += ` AND ` + condition
		}
	}

	query += fmt.Sprintf(` ORDER BY external_id OFFSET $%d LIMIT $%d`,
		len(args)+1, len(args)+2)
	args = append(args, filter.Skip, filter.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to list clients")
	}
	defer rows.Close()

	clients := []*domain.Client{}
	for rows.Next() {
		var client domain.Client
		if err := r.scanClientRow(rows, &client); err != nil {
			return nil, err
		}
		clients = append(clients, &client)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to read client rows")
	}

	return r.loadRelations(ctx, clients)
}

// Update обновляет существующего клиента
func (r *ClientRepository) Update(ctx context.Context, client *domain.Client) error {
	query := `
		UPDATE clients SET
			last_name = $2,
			first_name = $3,
			middle_name = NULLIF($4, ''),
			status_code = $5,
			current_stage = $6,
			agent_id = $7,
			deadline = $8,
			updated_at = $9,
			notes = NULLIF($10, '')
		WHERE client_id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		client.ClientID,
		client.LastName,
		client.FirstName,
		client.MiddleName,
		client.StatusCode,
		client.CurrentStage,
		client.AgentID,
		client.Deadline,
		client.UpdatedAt,
		client.Notes,
	)
	if err != nil {
		if isPgCode(err, pgForeignKeyViolation) {
			return pkgerrors.Wrap(err, pkgerrors.ErrReferenceNotFound, "referenced agent, status or stage does not exist")
		}
		return pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to update client")
	}

	if result.RowsAffected() == 0 {
		return pkgerrors.New(pkgerrors.ErrNotFound, "client not found")
	}

	return nil
}

// Delete удаляет клиента. Телефоны, паспорта и записи СНИЛС удаляются
// каскадно (ON DELETE CASCADE), осиротевших записей не остается.
func (r *ClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM clients WHERE client_id = $1`, id)
	if err != nil {
		return pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to delete client")
	}
	if result.RowsAffected() == 0 {
		return pkgerrors.New(pkgerrors.ErrNotFound, "client not found")
	}
	return nil
}

// loadRelations дозагружает связи для набора клиентов: по одному запросу
// на коллекцию для всей страницы, а не по запросу на клиента
func (r *ClientRepository) loadRelations(ctx context.Context, clients []*domain.Client) ([]*domain.ClientBundle, error) {
	bundles := make([]*domain.ClientBundle, len(clients))
	if len(clients) == 0 {
		return bundles, nil
	}

	clientIDs := make([]uuid.UUID, 0, len(clients))
	agentIDs := make([]uuid.UUID, 0, len(clients))
	seenAgents := map[uuid.UUID]bool{}
	for _, client := range clients {
		clientIDs = append(clientIDs, client.ClientID)
		if !seenAgents[client.AgentID] {
			seenAgents[client.AgentID] = true
			agentIDs = append(agentIDs, client.AgentID)
		}
	}

	agents, err := r.loadAgents(ctx, agentIDs)
	if err != nil {
		return nil, err
	}
	phones, err := r.loadPhones(ctx, clientIDs)
	if err != nil {
		return nil, err
	}
	passports, err := r.loadPassports(ctx, clientIDs)
	if err != nil {
		return nil, err
	}
	snils, err := r.loadSnils(ctx, clientIDs)
	if err != nil {
		return nil, err
	}

	for i, client := range clients {
		bundle := &domain.ClientBundle{
			Client:    *client,
			Agent:     agents[client.AgentID],
			Phones:    phones[client.ClientID],
			Passports: passports[client.ClientID],
			Snils:     snils[client.ClientID],
		}
		if bundle.Phones == nil {
			bundle.Phones = []domain.Phone{}
		}
		if bundle.Passports == nil {
			bundle.Passports = []domain.Passport{}
		}
		if bundle.Snils == nil {
			bundle.Snils = []domain.Snils{}
		}
		bundles[i] = bundle
	}

	return bundles, nil
}

func (r *ClientRepository) loadAgents(ctx context.Context, agentIDs []uuid.UUID) (map[uuid.UUID]*domain.Agent, error) {
	query := fmt.Sprintf(`SELECT %s FROM agents WHERE agent_id = ANY($1)`, agentColumns)

	rows, err := r.pool.Query(ctx, query, agentIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to load client agents")
	}
	defer rows.Close()

	agents := map[uuid.UUID]*domain.Agent{}
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
		agents[agent.AgentID] = &agent
	}
	return agents, rows.Err()
}

func (r *ClientRepository) loadPhones(ctx context.Context, clientIDs []uuid.UUID) (map[uuid.UUID][]domain.Phone, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT phone_id, client_id, number, created_at FROM phones WHERE client_id = ANY($1) ORDER BY phone_id`,
		clientIDs,
	)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to load client phones")
	}
	defer rows.Close()

	phones := map[uuid.UUID][]domain.Phone{}
	for rows.Next() {
		var phone domain.Phone
		if err := rows.Scan(&phone.PhoneID, &phone.ClientID, &phone.Number, &phone.CreatedAt); err != nil {
			return nil, pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to scan phone row")
		}
		phones[phone.ClientID] = append(phones[phone.ClientID], phone)
	}
	return phones, rows.Err()
}

func (r *ClientRepository) loadPassports(ctx context.Context, clientIDs []uuid.UUID) (map[uuid.UUID][]domain.Passport, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT passport_id, client_id, full_name, birth_date, birth_place, series_number,
			COALESCE(department_code, ''), issued_by, issue_date, expiry_date, registration_address,
			version, created_at
		FROM passports WHERE client_id = ANY($1) ORDER BY created_at`,
		clientIDs,
	)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to load client passports")
	}
	defer rows.Close()

	passports := map[uuid.UUID][]domain.Passport{}
	for rows.Next() {
		var passport domain.Passport
		if err := rows.Scan(
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
		); err != nil {
			return nil, pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to scan passport row")
		}
		passports[passport.ClientID] = append(passports[passport.ClientID], passport)
	}
	return passports, rows.Err()
}

func (r *ClientRepository) loadSnils(ctx context.Context, clientIDs []uuid.UUID) (map[uuid.UUID][]domain.Snils, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT snils_id, client_id, number, issued_date, version, created_at
		FROM snils_records WHERE client_id = ANY($1) ORDER BY created_at`,
		clientIDs,
	)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to load client snils records")
	}
	defer rows.Close()

	records := map[uuid.UUID][]domain.Snils{}
	for rows.Next() {
		var snils domain.Snils
		if err := rows.Scan(
			&snils.SnilsID,
			&snils.ClientID,
			&snils.Number,
			&snils.IssuedDate,
			&snils.Version,
			&snils.CreatedAt,
		); err != nil {
			return nil, pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to scan snils row")
		}
		records[snils.ClientID] = append(records[snils.ClientID], snils)
	}
	return records, rows.Err()
}

// scanClientRow сканирует одну строку клиента
func (r *ClientRepository) scanClientRow(row pgx.Row, client *domain.Client) error {
	err := row.Scan(
		&client.ClientID,
		&client.ExternalID,
		&client.LastName,
		&client.FirstName,
		&client.MiddleName,
		&client.StatusCode,
		&client.CurrentStage,
		&client.AgentID,
		&client.Deadline,
		&client.CreatedAt,
		&client.UpdatedAt,
		&client.Notes,
	)
	if err != nil {
		if isNoRows(err) {
			return pkgerrors.New(pkgerrors.ErrNotFound, "client not found")
		}
		return pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to get client")
	}
	return nil
}
