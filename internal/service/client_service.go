package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"CaseFilePlatform/internal/domain"
	"CaseFilePlatform/internal/metrics"
	"CaseFilePlatform/internal/repository"
	"CaseFilePlatform/internal/validation"
	"CaseFilePlatform/pkg/config"
	"CaseFilePlatform/pkg/logger"
)

// CreateClientInput данные для создания карточки клиента
type CreateClientInput struct {
	LastName     string     `json:"last_name"`
	FirstName    string     `json:"first_name"`
	MiddleName   string     `json:"middle_name"`
	StatusCode   string     `json:"status_code"`
	CurrentStage string     `json:"current_stage"`
	AgentID      uuid.UUID  `json:"agent_id"`
	Deadline     *time.Time `json:"deadline"`
	Notes        string     `json:"notes"`
	Phones       []string   `json:"phones"`
}

// ClientService интерфейс сервиса клиентов.
// Все операции чтения возвращают досье — каноническое внешнее
// представление клиента со связями.
type ClientService interface {
	CreateClient(ctx context.Context, input CreateClientInput) (*domain.ClientDossier, error)
	GetClientDossier(ctx context.Context, id uuid.UUID) (*domain.ClientDossier, error)
	ListClients(ctx context.Context, filter domain.ClientFilter) ([]*domain.ClientDossier, error)
	UpdateClient(ctx context.Context, id uuid.UUID, patch domain.ClientPatch) (*domain.ClientDossier, error)
	DeleteClient(ctx context.Context, id uuid.UUID) error
}

type clientService struct {
	clients    repository.ClientRepository
	lookups    repository.LookupRepository
	issuer     repository.IdentifierIssuer
	validator  *validation.ClientValidator
	pagination config.PaginationConfig
	logger     logger.Logger
	metrics    *metrics.CRMMetrics
	tracer     trace.Tracer
}

// NewClientService создает новый сервис клиентов
func NewClientService(
	clients repository.ClientRepository,
	lookups repository.LookupRepository,
	issuer repository.IdentifierIssuer,
	pagination config.PaginationConfig,
	log logger.Logger,
	crmMetrics *metrics.CRMMetrics,
) ClientService {
	return &clientService{
		clients:    clients,
		lookups:    lookups,
		issuer:     issuer,
		validator:  validation.NewClientValidator(),
		pagination: pagination,
		logger:     log,
		metrics:    crmMetrics,
		tracer:     otel.Tracer("client-service"),
	}
}

// CreateClient создает карточку клиента вместе с телефонами.
// Карточка и телефоны записываются атомарно; при недействительной
// ссылке на агента, статус или этап не сохраняется ничего.
func (s *clientService) CreateClient(ctx context.Context, input CreateClientInput) (*domain.ClientDossier, error) {
	ctx, span := s.tracer.Start(ctx, "CreateClient")
	defer span.End()
	start := time.Now()

	now := time.Now().UTC()
	client := &domain.Client{
		ClientID:     uuid.New(),
		LastName:     strings.TrimSpace(input.LastName),
		FirstName:    strings.TrimSpace(input.FirstName),
		MiddleName:   strings.TrimSpace(input.MiddleName),
		StatusCode:   strings.TrimSpace(input.StatusCode),
		CurrentStage: strings.TrimSpace(input.CurrentStage),
		AgentID:      input.AgentID,
		Deadline:     input.Deadline,
		CreatedAt:    now,
		UpdatedAt:    now,
		Notes:        strings.TrimSpace(input.Notes),
	}

	if err := s.validator.ValidateClient(client); err != nil {
		s.recordOp("client", "create", start, err)
		return nil, err
	}

	phones := make([]string, 0, len(input.Phones))
	for _, number := range input.Phones {
		number = strings.TrimSpace(number)
		if err := s.validator.ValidatePhoneNumber(number); err != nil {
			s.recordOp("client", "create", start, err)
			return nil, err
		}
		phones = append(phones, number)
	}

	externalID, err := s.issuer.Next(ctx, repository.KindClient)
	if err != nil {
		s.recordOp("client", "create", start, err)
		return nil, err
	}
	client.ExternalID = externalID
	s.metrics.RecordExternalIDIssued("client")

	if err := s.clients.CreateWithPhones(ctx, client, phones); err != nil {
		s.recordOp("client", "create", start, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int64("client.external_id", client.ExternalID))
	s.logger.Info("Client created",
		logger.String("client_id", client.ClientID.String()),
		logger.Int64("external_id", client.ExternalID),
		logger.Int("phones", len(phones)),
	)
	s.recordOp("client", "create", start, nil)

	return s.GetClientDossier(ctx, client.ClientID)
}

// GetClientDossier возвращает досье клиента
func (s *clientService) GetClientDossier(ctx context.Context, id uuid.UUID) (*domain.ClientDossier, error) {
	ctx, span := s.tracer.Start(ctx, "GetClientDossier")
	defer span.End()

	bundle, err := s.clients.FindBundleByID(ctx, id)
	if err != nil {
		return nil, err
	}

	index, err := loadLookupIndex(ctx, s.lookups)
	if err != nil {
		return nil, err
	}

	dossier := assembleDossier(bundle, index)
	s.metrics.RecordDossierRelations("phones", len(dossier.Phones))
	s.metrics.RecordDossierRelations("passports", len(dossier.Passports))
	s.metrics.RecordDossierRelations("snils", len(dossier.Snils))
	return dossier, nil
}

// ListClients возвращает страницу досье с нормализованной пагинацией
func (s *clientService) ListClients(ctx context.Context, filter domain.ClientFilter) ([]*domain.ClientDossier, error) {
	ctx, span := s.tracer.Start(ctx, "ListClients")
	defer span.End()

	filter.Query = strings.TrimSpace(filter.Query)
	filter.StatusCode = strings.TrimSpace(filter.StatusCode)
	filter.CurrentStage = strings.TrimSpace(filter.CurrentStage)
	filter.Skip, filter.Limit = normalizePagination(filter.Skip, filter.Limit, s.pagination)

	bundles, err := s.clients.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	index, err := loadLookupIndex(ctx, s.lookups)
	if err != nil {
		return nil, err
	}

	dossiers := make([]*domain.ClientDossier, len(bundles))
	for i, bundle := range bundles {
		dossiers[i] = assembleDossier(bundle, index)
	}

	span.SetAttributes(attribute.Int("clients.count", len(dossiers)))
	return dossiers, nil
}

// UpdateClient применяет частичное обновление и обновляет метку
// времени изменения. Изменяются только явно заданные поля.
func (s *clientService) UpdateClient(ctx context.Context, id uuid.UUID, patch domain.ClientPatch) (*domain.ClientDossier, error) {
	ctx, span := s.tracer.Start(ctx, "UpdateClient")
	defer span.End()
	start := time.Now()

	client, err := s.clients.FindByID(ctx, id)
	if err != nil {
		s.recordOp("client", "update", start, err)
		return nil, err
	}

	applyString := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	applyString(&client.LastName, patch.LastName)
	applyString(&client.FirstName, patch.FirstName)
	applyString(&client.MiddleName, patch.MiddleName)
	applyString(&client.StatusCode, patch.StatusCode)
	applyString(&client.CurrentStage, patch.CurrentStage)
	applyString(&client.Notes, patch.Notes)
	if patch.AgentID != nil {
		client.AgentID = *patch.AgentID
	}
	if patch.Deadline != nil {
		client.Deadline = patch.Deadline
	}

	if err := s.validator.ValidateClient(client); err != nil {
		s.recordOp("client", "update", start, err)
		return nil, err
	}

	client.UpdatedAt = time.Now().UTC()

	if err := s.clients.Update(ctx, client); err != nil {
		s.recordOp("client", "update", start, err)
		return nil, err
	}

	s.logger.Info("Client updated", logger.String("client_id", client.ClientID.String()))
	s.recordOp("client", "update", start, nil)

	return s.GetClientDossier(ctx, client.ClientID)
}

// DeleteClient удаляет клиента и каскадно все принадлежащие ему записи
func (s *clientService) DeleteClient(ctx context.Context, id uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "DeleteClient")
	defer span.End()
	start := time.Now()

	if err := s.clients.Delete(ctx, id); err != nil {
		s.recordOp("client", "delete", start, err)
		return err
	}

	s.logger.Info("Client deleted", logger.String("client_id", id.String()))
	s.recordOp("client", "delete", start, nil)
	return nil
}

func (s *clientService) recordOp(entity, operation string, start time.Time, err error) {
	s.metrics.RecordOperation(entity, operation, opResult(err), time.Since(start))
}
