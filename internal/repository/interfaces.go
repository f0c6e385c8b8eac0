package repository

import (
	"context"

	"github.com/google/uuid"

	"CaseFilePlatform/internal/domain"
)

// EntityKind представляет вид сущности для выдачи внешних номеров
type EntityKind string

const (
	KindAgent  EntityKind = "agent"
	KindClient EntityKind = "client"
)

// IdentifierIssuer выдает внешние порядковые номера.
// Гарантии: номера уникальны в рамках вида сущности, строго возрастают
// и остаются корректными при конкурентных вызовах (атомарный инкремент
// на уровне хранилища, не чтение-затем-запись).
type IdentifierIssuer interface {
	Next(ctx context.Context, kind EntityKind) (int64, error)
}

// AgentRepository интерфейс для работы с агентами
type AgentRepository interface {
	Create(ctx context.Context, agent *domain.Agent) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Agent, error)
	FindByExternalID(ctx context.Context, externalID int64) (*domain.Agent, error)
	List(ctx context.Context, filter domain.AgentFilter) ([]*domain.Agent, error)
	Update(ctx context.Context, agent *domain.Agent) error
	// Delete удаляет агента. Возвращает ошибку с кодом CONFLICT,
	// если на агента ссылается хотя бы один клиент.
	Delete(ctx context.Context, id uuid.UUID) error
	CountClients(ctx context.Context, agentID uuid.UUID) (int64, error)
}

// ClientRepository интерфейс для работы с клиентами
type ClientRepository interface {
	// CreateWithPhones атомарно создает клиента и его телефоны:
	// либо фиксируются все записи, либо ни одной.
	CreateWithPhones(ctx context.Context, client *domain.Client, phoneNumbers []string) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Client, error)
	// FindBundleByID возвращает клиента с жадно загруженными связями
	FindBundleByID(ctx context.Context, id uuid.UUID) (*domain.ClientBundle, error)
	// List возвращает клиентов с жадно загруженными связями,
	// отфильтрованных и отсортированных по внешнему номеру
	List(ctx context.Context, filter domain.ClientFilter) ([]*domain.ClientBundle, error)
	Update(ctx context.Context, client *domain.Client) error
	// Delete удаляет клиента и каскадно все принадлежащие ему записи
	Delete(ctx context.Context, id uuid.UUID) error
}

// PhoneRepository интерфейс для работы с телефонами клиентов
type PhoneRepository interface {
	Create(ctx context.Context, phone *domain.Phone) error
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.Phone, error)
	Delete(ctx context.Context, phoneID int64) error
}

// PassportRepository интерфейс для работы с паспортами клиентов
type PassportRepository interface {
	Create(ctx context.Context, passport *domain.Passport) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Passport, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.Passport, error)
	Update(ctx context.Context, passport *domain.Passport) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SnilsRepository интерфейс для работы с записями СНИЛС
type SnilsRepository interface {
	Create(ctx context.Context, snils *domain.Snils) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Snils, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.Snils, error)
	Update(ctx context.Context, snils *domain.Snils) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// LookupRepository интерфейс для работы со справочниками статусов и этапов
type LookupRepository interface {
	CreateStatus(ctx context.Context, status *domain.Status) error
	FindStatus(ctx context.Context, code string) (*domain.Status, error)
	ListStatuses(ctx context.Context) ([]domain.Status, error)
	CreateStage(ctx context.Context, stage *domain.Stage) error
	FindStage(ctx context.Context, code string) (*domain.Stage, error)
	ListStages(ctx context.Context) ([]domain.Stage, error)
}
