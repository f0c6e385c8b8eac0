// Package memory содержит потокобезопасное хранилище в памяти.
// Используется в тестах и для локального запуска без PostgreSQL.
// Семантика повторяет реализацию на PostgreSQL: каскадное удаление
// принадлежащих клиенту записей, запрет удаления агента с клиентами,
// атомарная выдача внешних номеров.
package memory

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"CaseFilePlatform/internal/domain"
	"CaseFilePlatform/internal/repository"
	pkgerrors "CaseFilePlatform/pkg/errors"
)

// Store хранилище в памяти. Доступ к отдельным коллекциям предоставляют
// методы Agents, Clients, Phones, Passports, Snils и Lookups; выдачу
// внешних номеров — сам Store.
type Store struct {
	mu sync.RWMutex

	agents    map[uuid.UUID]domain.Agent
	clients   map[uuid.UUID]domain.Client
	phones    map[int64]domain.Phone
	passports map[uuid.UUID]domain.Passport
	snils     map[uuid.UUID]domain.Snils
	statuses  map[string]domain.Status
	stages    map[string]domain.Stage

	nextPhoneID   int64
	agentCounter  atomic.Int64
	clientCounter atomic.Int64
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		agents:    make(map[uuid.UUID]domain.Agent),
		clients:   make(map[uuid.UUID]domain.Client),
		phones:    make(map[int64]domain.Phone),
		passports: make(map[uuid.UUID]domain.Passport),
		snils:     make(map[uuid.UUID]domain.Snils),
		statuses:  make(map[string]domain.Status),
		stages:    make(map[string]domain.Stage),
	}
}

// Agents возвращает репозиторий агентов
func (s *Store) Agents() repository.AgentRepository { return &agentStore{s} }

// Clients возвращает репозиторий клиентов
func (s *Store) Clients() repository.ClientRepository { return &clientStore{s} }

// Phones возвращает репозиторий телефонов
func (s *Store) Phones() repository.PhoneRepository { return &phoneStore{s} }

// Passports возвращает репозиторий паспортов
func (s *Store) Passports() repository.PassportRepository { return &passportStore{s} }

// Snils возвращает репозиторий записей СНИЛС
func (s *Store) Snils() repository.SnilsRepository { return &snilsStore{s} }

// Lookups возвращает репозиторий справочников
func (s *Store) Lookups() repository.LookupRepository { return &lookupStore{s} }

// Next выдает очередной внешний номер для вида сущности.
// Номера строго возрастают и не переиспользуются даже после удаления.
func (s *Store) Next(_ context.Context, kind repository.EntityKind) (int64, error) {
	switch kind {
	case repository.KindAgent:
		return s.agentCounter.Add(1), nil
	case repository.KindClient:
		return s.clientCounter.Add(1), nil
	default:
		return 0, pkgerrors.New(pkgerrors.ErrInternal, "unknown entity kind")
	}
}

// DropStatus удаляет запись справочника статусов, не трогая клиентов,
// которые на нее ссылаются. Нужен тестам сценария "код без справочника".
func (s *Store) DropStatus(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.statuses, code)
}

// containsFold сообщает, содержит ли s подстроку substr без учета регистра
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
