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
	pkgerrors "CaseFilePlatform/pkg/errors"
	"CaseFilePlatform/pkg/logger"
)

// CreateAgentInput данные для создания агента
type CreateAgentInput struct {
	LastName             string `json:"last_name"`
	FirstName            string `json:"first_name"`
	MiddleName           string `json:"middle_name"`
	LegalAddress         string `json:"legal_address"`
	ActualAddress        string `json:"actual_address"`
	INN                  string `json:"inn"`
	OGRNIP               string `json:"ogrnip"`
	AccountNumber        string `json:"account_number"`
	CorrespondentAccount string `json:"correspondent_account"`
	BIC                  string `json:"bic"`
}

// AgentService интерфейс сервиса агентов
type AgentService interface {
	CreateAgent(ctx context.Context, input CreateAgentInput) (*domain.Agent, error)
	GetAgent(ctx context.Context, id uuid.UUID) (*domain.Agent, error)
	GetAgentByExternalID(ctx context.Context, externalID int64) (*domain.Agent, error)
	ListAgents(ctx context.Context, filter domain.AgentFilter) ([]*domain.Agent, error)
	UpdateAgent(ctx context.Context, id uuid.UUID, patch domain.AgentPatch) (*domain.Agent, error)
	DeleteAgent(ctx context.Context, id uuid.UUID) error
}

type agentService struct {
	agents     repository.AgentRepository
	issuer     repository.IdentifierIssuer
	validator  *validation.AgentValidator
	pagination config.PaginationConfig
	logger     logger.Logger
	metrics    *metrics.CRMMetrics
	tracer     trace.Tracer
}

// NewAgentService создает новый сервис агентов
func NewAgentService(
	agents repository.AgentRepository,
	issuer repository.IdentifierIssuer,
	pagination config.PaginationConfig,
	log logger.Logger,
	crmMetrics *metrics.CRMMetrics,
) AgentService {
	return &agentService{
		agents:     agents,
		issuer:     issuer,
		validator:  validation.NewAgentValidator(),
		pagination: pagination,
		logger:     log,
		metrics:    crmMetrics,
		tracer:     otel.Tracer("agent-service"),
	}
}

// CreateAgent создает агента: нормализует поля, проверяет реквизиты,
// подставляет корреспондентский счет из расчетного при его отсутствии
// и выдает внешний номер
func (s *agentService) CreateAgent(ctx context.Context, input CreateAgentInput) (*domain.Agent, error) {
	ctx, span := s.tracer.Start(ctx, "CreateAgent")
	defer span.End()
	start := time.Now()

	agent := &domain.Agent{
		AgentID:              uuid.New(),
		LastName:             strings.TrimSpace(input.LastName),
		FirstName:            strings.TrimSpace(input.FirstName),
		MiddleName:           strings.TrimSpace(input.MiddleName),
		LegalAddress:         strings.TrimSpace(input.LegalAddress),
		ActualAddress:        strings.TrimSpace(input.ActualAddress),
		INN:                  strings.TrimSpace(input.INN),
		OGRNIP:               strings.TrimSpace(input.OGRNIP),
		AccountNumber:        strings.TrimSpace(input.AccountNumber),
		CorrespondentAccount: strings.TrimSpace(input.CorrespondentAccount),
		BIC:                  strings.TrimSpace(input.BIC),
	}
	if agent.CorrespondentAccount == "" {
		agent.CorrespondentAccount = agent.AccountNumber
	}

	if err := s.validator.ValidateAgent(agent); err != nil {
		s.recordOp("agent", "create", start, err)
		return nil, err
	}

	externalID, err := s.issuer.Next(ctx, repository.KindAgent)
	if err != nil {
		s.recordOp("agent", "create", start, err)
		return nil, err
	}
	agent.ExternalID = externalID
	s.metrics.RecordExternalIDIssued("agent")

	if err := s.agents.Create(ctx, agent); err != nil {
		s.recordOp("agent", "create", start, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int64("agent.external_id", agent.ExternalID))
	s.logger.Info("Agent created",
		logger.String("agent_id", agent.AgentID.String()),
		logger.Int64("external_id", agent.ExternalID),
	)
	s.recordOp("agent", "create", start, nil)
	return agent, nil
}

// GetAgent возвращает агента по внутреннему идентификатору
func (s *agentService) GetAgent(ctx context.Context, id uuid.UUID) (*domain.Agent, error) {
	ctx, span := s.tracer.Start(ctx, "GetAgent")
	defer span.End()

	return s.agents.FindByID(ctx, id)
}

// GetAgentByExternalID возвращает агента по внешнему номеру
func (s *agentService) GetAgentByExternalID(ctx context.Context, externalID int64) (*domain.Agent, error) {
	ctx, span := s.tracer.Start(ctx, "GetAgentByExternalID")
	defer span.End()

	return s.agents.FindByExternalID(ctx, externalID)
}

// ListAgents возвращает страницу агентов с нормализованной пагинацией
func (s *agentService) ListAgents(ctx context.Context, filter domain.AgentFilter) ([]*domain.Agent, error) {
	ctx, span := s.tracer.Start(ctx, "ListAgents")
	defer span.End()

	filter.Query = strings.TrimSpace(filter.Query)
	filter.Skip, filter.Limit = normalizePagination(filter.Skip, filter.Limit, s.pagination)

	return s.agents.List(ctx, filter)
}

// UpdateAgent применяет частичное обновление: изменяются только явно
// заданные поля, итог проверяется валидатором целиком
func (s *agentService) UpdateAgent(ctx context.Context, id uuid.UUID, patch domain.AgentPatch) (*domain.Agent, error) {
	ctx, span := s.tracer.Start(ctx, "UpdateAgent")
	defer span.End()
	start := time.Now()

	agent, err := s.agents.FindByID(ctx, id)
	if err != nil {
		s.recordOp("agent", "update", start, err)
		return nil, err
	}

	applyString := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	applyString(&agent.LastName, patch.LastName)
	applyString(&agent.FirstName, patch.FirstName)
	applyString(&agent.MiddleName, patch.MiddleName)
	applyString(&agent.LegalAddress, patch.LegalAddress)
	applyString(&agent.ActualAddress, patch.ActualAddress)
	applyString(&agent.INN, patch.INN)
	applyString(&agent.OGRNIP, patch.OGRNIP)
	applyString(&agent.AccountNumber, patch.AccountNumber)
	applyString(&agent.CorrespondentAccount, patch.CorrespondentAccount)
	applyString(&agent.BIC, patch.BIC)

	if err := s.validator.ValidateAgent(agent); err != nil {
		s.recordOp("agent", "update", start, err)
		return nil, err
	}

	if err := s.agents.Update(ctx, agent); err != nil {
		s.recordOp("agent", "update", start, err)
		return nil, err
	}

	s.logger.Info("Agent updated", logger.String("agent_id", agent.AgentID.String()))
	s.recordOp("agent", "update", start, nil)
	return agent, nil
}

// DeleteAgent удаляет агента. Удаление отклоняется с ошибкой CONFLICT,
// пока на агента ссылается хотя бы один клиент.
func (s *agentService) DeleteAgent(ctx context.Context, id uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "DeleteAgent")
	defer span.End()
	start := time.Now()

	if err := s.agents.Delete(ctx, id); err != nil {
		s.recordOp("agent", "delete", start, err)
		return err
	}

	s.logger.Info("Agent deleted", logger.String("agent_id", id.String()))
	s.recordOp("agent", "delete", start, nil)
	return nil
}

func (s *agentService) recordOp(entity, operation string, start time.Time, err error) {
	s.metrics.RecordOperation(entity, operation, opResult(err), time.Since(start))
}

// opResult возвращает метку результата операции для метрик
func opResult(err error) string {
	if err == nil {
		return "success"
	}
	return strings.ToLower(string(pkgerrors.CodeOf(err)))
}

// normalizePagination приводит параметры страницы к допустимым границам
func normalizePagination(skip, limit int, cfg config.PaginationConfig) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = cfg.DefaultLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	return skip, limit
}
