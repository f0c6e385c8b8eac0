package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"CaseFilePlatform/internal/domain"
	"CaseFilePlatform/internal/metrics"
	"CaseFilePlatform/internal/repository"
	"CaseFilePlatform/internal/validation"
	pkgerrors "CaseFilePlatform/pkg/errors"
	"CaseFilePlatform/pkg/logger"
)

// PassportInput данные для создания паспорта
type PassportInput struct {
	FullName            string     `json:"full_name"`
	BirthDate           *time.Time `json:"birth_date"`
	BirthPlace          string     `json:"birth_place"`
	SeriesNumber        string     `json:"series_number"`
	DepartmentCode      string     `json:"department_code"`
	IssuedBy            string     `json:"issued_by"`
	IssueDate           time.Time  `json:"issue_date"`
	ExpiryDate          *time.Time `json:"expiry_date"`
	RegistrationAddress string     `json:"registration_address"`
}

// SnilsInput данные для создания записи СНИЛС
type SnilsInput struct {
	Number     string     `json:"number"`
	IssuedDate *time.Time `json:"issued_date"`
}

// DocumentService интерфейс сервиса записей, принадлежащих клиенту:
// телефонов, паспортов и записей СНИЛС
type DocumentService interface {
	AddPhone(ctx context.Context, clientID uuid.UUID, number string) (*domain.Phone, error)
	ListPhones(ctx context.Context, clientID uuid.UUID) ([]domain.Phone, error)
	DeletePhone(ctx context.Context, phoneID int64) error

	CreatePassport(ctx context.Context, clientID uuid.UUID, input PassportInput) (*domain.Passport, error)
	GetPassport(ctx context.Context, id uuid.UUID) (*domain.Passport, error)
	ListPassports(ctx context.Context, clientID uuid.UUID) ([]domain.Passport, error)
	UpdatePassport(ctx context.Context, id uuid.UUID, patch domain.PassportPatch) (*domain.Passport, error)
	DeletePassport(ctx context.Context, id uuid.UUID) error

	CreateSnils(ctx context.Context, clientID uuid.UUID, input SnilsInput) (*domain.Snils, error)
	GetSnils(ctx context.Context, id uuid.UUID) (*domain.Snils, error)
	ListSnils(ctx context.Context, clientID uuid.UUID) ([]domain.Snils, error)
	UpdateSnils(ctx context.Context, id uuid.UUID, patch domain.SnilsPatch) (*domain.Snils, error)
	DeleteSnils(ctx context.Context, id uuid.UUID) error
}

type documentService struct {
	clients   repository.ClientRepository
	phones    repository.PhoneRepository
	passports repository.PassportRepository
	snils     repository.SnilsRepository
	validator *validation.ClientValidator
	logger    logger.Logger
	metrics   *metrics.CRMMetrics
	tracer    trace.Tracer
}

// NewDocumentService создает новый сервис записей клиента
func NewDocumentService(
	clients repository.ClientRepository,
	phones repository.PhoneRepository,
	passports repository.PassportRepository,
	snils repository.SnilsRepository,
	log logger.Logger,
	crmMetrics *metrics.CRMMetrics,
) DocumentService {
	return &documentService{
		clients:   clients,
		phones:    phones,
		passports: passports,
		snils:     snils,
		validator: validation.NewClientValidator(),
		logger:    log,
		metrics:   crmMetrics,
		tracer:    otel.Tracer("document-service"),
	}
}

// requireClient проверяет существование клиента перед созданием
// принадлежащей ему записи
func (s *documentService) requireClient(ctx context.Context, clientID uuid.UUID) error {
	if _, err := s.clients.FindByID(ctx, clientID); err != nil {
		if isNotFound(err) {
			return pkgerrors.New(pkgerrors.ErrReferenceNotFound, "client not found")
		}
		return err
	}
	return nil
}

// AddPhone добавляет телефон клиенту
func (s *documentService) AddPhone(ctx context.Context, clientID uuid.UUID, number string) (*domain.Phone, error) {
	ctx, span := s.tracer.Start(ctx, "AddPhone")
	defer span.End()
	start := time.Now()

	number = strings.TrimSpace(number)
	if err := s.validator.ValidatePhoneNumber(number); err != nil {
		s.recordOp("phone", "create", start, err)
		return nil, err
	}
	if err := s.requireClient(ctx, clientID); err != nil {
		s.recordOp("phone", "create", start, err)
		return nil, err
	}

	phone := &domain.Phone{
		ClientID:  clientID,
		Number:    number,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.phones.Create(ctx, phone); err != nil {
		s.recordOp("phone", "create", start, err)
		return nil, err
	}

	s.logger.Info("Phone added",
		logger.String("client_id", clientID.String()),
		logger.Int64("phone_id", phone.PhoneID),
	)
	s.recordOp("phone", "create", start, nil)
	return phone, nil
}

// ListPhones возвращает телефоны клиента
func (s *documentService) ListPhones(ctx context.Context, clientID uuid.UUID) ([]domain.Phone, error) {
	ctx, span := s.tracer.Start(ctx, "ListPhones")
	defer span.End()

	if _, err := s.clients.FindByID(ctx, clientID); err != nil {
		return nil, err
	}
	return s.phones.ListByClient(ctx, clientID)
}

// DeletePhone удаляет телефон по идентификатору
func (s *documentService) DeletePhone(ctx context.Context, phoneID int64) error {
	ctx, span := s.tracer.Start(ctx, "DeletePhone")
	defer span.End()
	start := time.Now()

	if err := s.phones.Delete(ctx, phoneID); err != nil {
		s.recordOp("phone", "delete", start, err)
		return err
	}

	s.logger.Info("Phone deleted", logger.Int64("phone_id", phoneID))
	s.recordOp("phone", "delete", start, nil)
	return nil
}

// CreatePassport создает паспорт клиента с версией 1
func (s *documentService) CreatePassport(ctx context.Context, clientID uuid.UUID, input PassportInput) (*domain.Passport, error) {
	ctx, span := s.tracer.Start(ctx, "CreatePassport")
	defer span.End()
	start := time.Now()

	passport := &domain.Passport{
		PassportID:          uuid.New(),
		ClientID:            clientID,
		FullName:            strings.TrimSpace(input.FullName),
		BirthDate:           input.BirthDate,
		BirthPlace:          strings.TrimSpace(input.BirthPlace),
		SeriesNumber:        strings.TrimSpace(input.SeriesNumber),
		DepartmentCode:      strings.TrimSpace(input.DepartmentCode),
		IssuedBy:            strings.TrimSpace(input.IssuedBy),
		IssueDate:           input.IssueDate,
		ExpiryDate:          input.ExpiryDate,
		RegistrationAddress: strings.TrimSpace(input.RegistrationAddress),
		Version:             1,
		CreatedAt:           time.Now().UTC(),
	}

	if err := s.validator.ValidatePassport(passport); err != nil {
		s.recordOp("passport", "create", start, err)
		return nil, err
	}
	if err := s.requireClient(ctx, clientID); err != nil {
		s.recordOp("passport", "create", start, err)
		return nil, err
	}

	if err := s.passports.Create(ctx, passport); err != nil {
		s.recordOp("passport", "create", start, err)
		return nil, err
	}

	s.logger.Info("Passport created",
		logger.String("client_id", clientID.String()),
		logger.String("passport_id", passport.PassportID.String()),
	)
	s.recordOp("passport", "create", start, nil)
	return passport, nil
}

// GetPassport возвращает паспорт по идентификатору
func (s *documentService) GetPassport(ctx context.Context, id uuid.UUID) (*domain.Passport, error) {
	ctx, span := s.tracer.Start(ctx, "GetPassport")
	defer span.End()

	return s.passports.FindByID(ctx, id)
}

// ListPassports возвращает паспорта клиента
func (s *documentService) ListPassports(ctx context.Context, clientID uuid.UUID) ([]domain.Passport, error) {
	ctx, span := s.tracer.Start(ctx, "ListPassports")
	defer span.End()

	if _, err := s.clients.FindByID(ctx, clientID); err != nil {
		return nil, err
	}
	return s.passports.ListByClient(ctx, clientID)
}

// UpdatePassport применяет частичное обновление и увеличивает версию
func (s *documentService) UpdatePassport(ctx context.Context, id uuid.UUID, patch domain.PassportPatch) (*domain.Passport, error) {
	ctx, span := s.tracer.Start(ctx, "UpdatePassport")
	defer span.End()
	start := time.Now()

	passport, err := s.passports.FindByID(ctx, id)
	if err != nil {
		s.recordOp("passport", "update", start, err)
		return nil, err
	}

	applyString := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	applyString(&passport.FullName, patch.FullName)
	applyString(&passport.BirthPlace, patch.BirthPlace)
	applyString(&passport.SeriesNumber, patch.SeriesNumber)
	applyString(&passport.DepartmentCode, patch.DepartmentCode)
	applyString(&passport.IssuedBy, patch.IssuedBy)
	applyString(&passport.RegistrationAddress, patch.RegistrationAddress)
	if patch.BirthDate != nil {
		passport.BirthDate = patch.BirthDate
	}
	if patch.IssueDate != nil {
		passport.IssueDate = *patch.IssueDate
	}
	if patch.ExpiryDate != nil {
		passport.ExpiryDate = patch.ExpiryDate
	}

	if err := s.validator.ValidatePassport(passport); err != nil {
		s.recordOp("passport", "update", start, err)
		return nil, err
	}

	passport.Version++

	if err := s.passports.Update(ctx, passport); err != nil {
		s.recordOp("passport", "update", start, err)
		return nil, err
	}

	s.logger.Info("Passport updated",
		logger.String("passport_id", passport.PassportID.String()),
		logger.Int("version", passport.Version),
	)
	s.recordOp("passport", "update", start, nil)
	return passport, nil
}

// DeletePassport удаляет паспорт по идентификатору
func (s *documentService) DeletePassport(ctx context.Context, id uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "DeletePassport")
	defer span.End()
	start := time.Now()

	if err := s.passports.Delete(ctx, id); err != nil {
		s.recordOp("passport", "delete", start, err)
		return err
	}

	s.logger.Info("Passport deleted", logger.String("passport_id", id.String()))
	s.recordOp("passport", "delete", start, nil)
	return nil
}

// CreateSnils создает запись СНИЛС клиента с версией 1
func (s *documentService) CreateSnils(ctx context.Context, clientID uuid.UUID, input SnilsInput) (*domain.Snils, error) {
	ctx, span := s.tracer.Start(ctx, "CreateSnils")
	defer span.End()
	start := time.Now()

	record := &domain.Snils{
		SnilsID:    uuid.New(),
		ClientID:   clientID,
		Number:     strings.TrimSpace(input.Number),
		IssuedDate: input.IssuedDate,
		Version:    1,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.validator.ValidateSnils(record); err != nil {
		s.recordOp("snils", "create", start, err)
		return nil, err
	}
	if err := s.requireClient(ctx, clientID); err != nil {
		s.recordOp("snils", "create", start, err)
		return nil, err
	}

	if err := s.snils.Create(ctx, record); err != nil {
		s.recordOp("snils", "create", start, err)
		return nil, err
	}

	s.logger.Info("Snils record created",
		logger.String("client_id", clientID.String()),
		logger.String("snils_id", record.SnilsID.String()),
	)
	s.recordOp("snils", "create", start, nil)
	return record, nil
}

// GetSnils возвращает запись СНИЛС по идентификатору
func (s *documentService) GetSnils(ctx context.Context, id uuid.UUID) (*domain.Snils, error) {
	ctx, span := s.tracer.Start(ctx, "GetSnils")
	defer span.End()

	return s.snils.FindByID(ctx, id)
}

// ListSnils возвращает записи СНИЛС клиента
func (s *documentService) ListSnils(ctx context.Context, clientID uuid.UUID) ([]domain.Snils, error) {
	ctx, span := s.tracer.Start(ctx, "ListSnils")
	defer span.End()

	if _, err := s.clients.FindByID(ctx, clientID); err != nil {
		return nil, err
	}
	return s.snils.ListByClient(ctx, clientID)
}

// UpdateSnils применяет частичное обновление и увеличивает версию
func (s *documentService) UpdateSnils(ctx context.Context, id uuid.UUID, patch domain.SnilsPatch) (*domain.Snils, error) {
	ctx, span := s.tracer.Start(ctx, "UpdateSnils")
	defer span.End()
	start := time.Now()

	record, err := s.snils.FindByID(ctx, id)
	if err != nil {
		s.recordOp("snils", "update", start, err)
		return nil, err
	}

	if patch.Number != nil {
		record.Number = strings.TrimSpace(*patch.Number)
	}
	if patch.IssuedDate != nil {
		record.IssuedDate = patch.IssuedDate
	}

	if err := s.validator.ValidateSnils(record); err != nil {
		s.recordOp("snils", "update", start, err)
		return nil, err
	}

	record.Version++

	if err := s.snils.Update(ctx, record); err != nil {
		s.recordOp("snils", "update", start, err)
		return nil, err
	}

	s.logger.Info("Snils record updated",
		logger.String("snils_id", record.SnilsID.String()),
		logger.Int("version", record.Version),
	)
	s.recordOp("snils", "update", start, nil)
	return record, nil
}

// DeleteSnils удаляет запись СНИЛС по идентификатору
func (s *documentService) DeleteSnils(ctx context.Context, id uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "DeleteSnils")
	defer span.End()
	start := time.Now()

	if err := s.snils.Delete(ctx, id); err != nil {
		s.recordOp("snils", "delete", start, err)
		return err
	}

	s.logger.Info("Snils record deleted", logger.String("snils_id", id.String()))
	s.recordOp("snils", "delete", start, nil)
	return nil
}

func (s *documentService) recordOp(entity, operation string, start time.Time, err error) {
	s.metrics.RecordOperation(entity, operation, opResult(err), time.Since(start))
}
