package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"CaseFilePlatform/internal/domain"
	pkgerrors "CaseFilePlatform/pkg/errors"
)

type clientStore struct {
	*Store
}

// CreateWithPhones атомарно создает клиента и его телефоны.
// Ссылки на агента, статус и этап проверяются до записи: при отсутствии
// любой из них ничего не сохраняется.
func (s *clientStore) CreateWithPhones(_ context.Context, client *domain.Client, phoneNumbers []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.agents[client.AgentID]; !ok {
		return pkgerrors.New(pkgerrors.ErrReferenceNotFound, "referenced agent does not exist")
	}
	if _, ok := s.statuses[client.StatusCode]; !ok {
		return pkgerrors.New(pkgerrors.ErrReferenceNotFound, "referenced status does not exist")
	}
	if _, ok := s.stages[client.CurrentStage]; !ok {
		return pkgerrors.New(pkgerrors.ErrReferenceNotFound, "referenced stage does not exist")
	}
	for _, existing := range s.clients {
		if existing.ExternalID == client.ExternalID {
			return pkgerrors.New(pkgerrors.ErrConflict, "client external id already exists")
		}
	}

	s.clients[client.ClientID] = *client
	for _, number := range phoneNumbers {
		s.nextPhoneID++
		s.phones[s.nextPhoneID] = domain.Phone{
			PhoneID:   s.nextPhoneID,
			ClientID:  client.ClientID,
			Number:    number,
			CreatedAt: client.CreatedAt,
		}
	}

	return nil
}

// FindByID возвращает клиента без связанных сущностей
func (s *clientStore) FindByID(_ context.Context, id uuid.UUID) (*domain.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	client, ok := s.clients[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.ErrNotFound, "client not found")
	}
	return &client, nil
}

// FindBundleByID возвращает клиента с загруженными связями
func (s *clientStore) FindBundleByID(_ context.Context, id uuid.UUID) (*domain.ClientBundle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	client, ok := s.clients[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.ErrNotFound, "client not found")
	}
	return s.buildBundle(client), nil
}

// List возвращает страницу клиентов с загруженными связями.
// Фильтры объединяются по И; сортировка всегда по внешнему номеру.
func (s *clientStore) List(_ context.Context, filter domain.ClientFilter) ([]*domain.ClientBundle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := []domain.Client{}
	for _, client := range s.clients {
		if filter.Query != "" &&
			!containsFold(client.LastName, filter.Query) &&
			!containsFold(client.FirstName, filter.Query) &&
			!containsFold(client.MiddleName, filter.Query) {
			continue
		}
		if filter.StatusCode != "" && client.StatusCode != filter.StatusCode {
			continue
		}
		if filter.AgentID != nil && client.AgentID != *filter.AgentID {
			continue
		}
		if filter.CurrentStage != "" && client.CurrentStage != filter.CurrentStage {
			continue
		}
		matched = append(matched, client)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ExternalID < matched[j].ExternalID
	})

	if filter.Skip >= len(matched) {
		return []*domain.ClientBundle{}, nil
	}
	matched = matched[filter.Skip:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}

	bundles := make([]*domain.ClientBundle, len(matched))
	for i, client := range matched {
		bundles[i] = s.buildBundle(client)
	}
	return bundles, nil
}

// Update обновляет существующего клиента
func (s *clientStore) Update(_ context.Context, client *domain.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[client.ClientID]; !ok {
		return pkgerrors.New(pkgerrors.ErrNotFound, "client not found")
	}
	if _, ok := s.agents[client.AgentID]; !ok {
		return pkgerrors.New(pkgerrors.ErrReferenceNotFound, "referenced agent does not exist")
	}
	if _, ok := s.statuses[client.StatusCode]; !ok {
		return pkgerrors.New(pkgerrors.ErrReferenceNotFound, "referenced status does not exist")
	}
	if _, ok := s.stages[client.CurrentStage]; !ok {
		return pkgerrors.New(pkgerrors.ErrReferenceNotFound, "referenced stage does not exist")
	}

	s.clients[client.ClientID] = *client
	return nil
}

// Delete удаляет клиента и каскадно все принадлежащие ему записи
func (s *clientStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[id]; !ok {
		return pkgerrors.New(pkgerrors.ErrNotFound, "client not found")
	}

	delete(s.clients, id)
	for phoneID, phone := range s.phones {
		if phone.ClientID == id {
			delete(s.phones, phoneID)
		}
	}
	for passportID, passport := range s.passports {
		if passport.ClientID == id {
			delete(s.passports, passportID)
		}
	}
	for snilsID, record := range s.snils {
		if record.ClientID == id {
			delete(s.snils, snilsID)
		}
	}

	return nil
}

// buildBundle собирает связи клиента. Вызывается под блокировкой.
func (s *clientStore) buildBundle(client domain.Client) *domain.ClientBundle {
	bundle := &domain.ClientBundle{
		Client:    client,
		Phones:    []domain.Phone{},
		Passports: []domain.Passport{},
		Snils:     []domain.Snils{},
	}

	if agent, ok := s.agents[client.AgentID]; ok {
		bundle.Agent = &agent
	}
	for _, phone := range s.phones {
		if phone.ClientID == client.ClientID {
			bundle.Phones = append(bundle.Phones, phone)
		}
	}
	sort.Slice(bundle.Phones, func(i, j int) bool {
		return bundle.Phones[i].PhoneID < bundle.Phones[j].PhoneID
	})

	for _, passport := range s.passports {
		if passport.ClientID == client.ClientID {
			bundle.Passports = append(bundle.Passports, passport)
		}
	}
	sort.Slice(bundle.Passports, func(i, j int) bool {
		return bundle.Passports[i].CreatedAt.Before(bundle.Passports[j].CreatedAt)
	})

	for _, record := range s.snils {
		if record.ClientID == client.ClientID {
			bundle.Snils = append(bundle.Snils, record)
		}
	}
	sort.Slice(bundle.Snils, func(i, j int) bool {
		return bundle.Snils[i].CreatedAt.Before(bundle.Snils[j].CreatedAt)
	})

	return bundle
}
