package service

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"CaseFilePlatform/internal/domain"
	"CaseFilePlatform/internal/metrics"
	"CaseFilePlatform/internal/repository"
	"CaseFilePlatform/internal/validation"
	"CaseFilePlatform/pkg/logger"
)

// LookupService интерфейс сервиса справочников статусов и этапов
type LookupService interface {
	CreateStatus(ctx context.Context, code, description string) (*domain.Status, error)
	GetStatus(ctx context.Context, code string) (*domain.Status, error)
	ListStatuses(ctx context.Context) ([]domain.Status, error)
	CreateStage(ctx context.Context, code, description string) (*domain.Stage, error)
	GetStage(ctx context.Context, code string) (*domain.Stage, error)
	ListStages(ctx context.Context) ([]domain.Stage, error)
}

type lookupService struct {
	lookups   repository.LookupRepository
	validator *validation.ClientValidator
	logger    logger.Logger
	metrics   *metrics.CRMMetrics
	tracer    trace.Tracer
}

// NewLookupService создает новый сервис справочников
func NewLookupService(
	lookups repository.LookupRepository,
	log logger.Logger,
	crmMetrics *metrics.CRMMetrics,
) LookupService {
	return &lookupService{
		lookups:   lookups,
		validator: validation.NewClientValidator(),
		logger:    log,
		metrics:   crmMetrics,
		tracer:    otel.Tracer("lookup-service"),
	}
}

// CreateStatus создает запись справочника статусов.
// Повторный код отклоняется с ошибкой CONFLICT.
func (s *lookupService) CreateStatus(ctx context.Context, code, description string) (*domain.Status, error) {
	ctx, span := s.tracer.Start(ctx, "CreateStatus")
	defer span.End()
	start := time.Now()

	status := &domain.Status{
		StatusCode:  strings.TrimSpace(code),
		Description: strings.TrimSpace(description),
	}
	if err := s.validator.ValidateLookup(status.StatusCode, status.Description); err != nil {
		s.recordOp("status", "create", start, err)
		return nil, err
	}

	if err := s.lookups.CreateStatus(ctx, status); err != nil {
		s.recordOp("status", "create", start, err)
		return nil, err
	}

	s.logger.Info("Status created", logger.String("status_code", status.StatusCode))
	s.recordOp("status", "create", start, nil)
	return status, nil
}

// GetStatus возвращает запись справочника статусов по коду
func (s *lookupService) GetStatus(ctx context.Context, code string) (*domain.Status, error) {
	ctx, span := s.tracer.Start(ctx, "GetStatus")
	defer span.End()

	return s.lookups.FindStatus(ctx, strings.TrimSpace(code))
}

// ListStatuses возвращает все записи справочника статусов
func (s *lookupService) ListStatuses(ctx context.Context) ([]domain.Status, error) {
	ctx, span := s.tracer.Start(ctx, "ListStatuses")
	defer span.End()

	return s.lookups.ListStatuses(ctx)
}

// CreateStage создает запись справочника этапов.
// Повторный код отклоняется с ошибкой CONFLICT.
func (s *lookupService) CreateStage(ctx context.Context, code, description string) (*domain.Stage, error) {
	ctx, span := s.tracer.Start(ctx, "CreateStage")
	defer span.End()
	start := time.Now()

	stage := &domain.Stage{
		StageCode:   strings.TrimSpace(code),
		Description: strings.TrimSpace(description),
	}
	if err := s.validator.ValidateLookup(stage.StageCode, stage.Description); err != nil {
		s.recordOp("stage", "create", start, err)
		return nil, err
	}

	if err := s.lookups.CreateStage(ctx, stage); err != nil {
		s.recordOp("stage", "create", start, err)
		return nil, err
	}

	s.logger.Info("Stage created", logger.String("stage_code", stage.StageCode))
	s.recordOp("stage", "create", start, nil)
	return stage, nil
}

// GetStage возвращает запись справочника этапов по коду
func (s *lookupService) GetStage(ctx context.Context, code string) (*domain.Stage, error) {
	ctx, span := s.tracer.Start(ctx, "GetStage")
	defer span.End()

	return s.lookups.FindStage(ctx, strings.TrimSpace(code))
}

// ListStages возвращает все записи справочника этапов
func (s *lookupService) ListStages(ctx context.Context) ([]domain.Stage, error) {
	ctx, span := s.tracer.Start(ctx, "ListStages")
	defer span.End()

	return s.lookups.ListStages(ctx)
}

func (s *lookupService) recordOp(entity, operation string, start time.Time, err error) {
	s.metrics.RecordOperation(entity, operation, opResult(err), time.Since(start))
}
