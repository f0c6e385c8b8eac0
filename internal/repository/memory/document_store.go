package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"CaseFilePlatform/internal/domain"
	pkgerrors "CaseFilePlatform/pkg/errors"
)

type phoneStore struct {
	*Store
}

// Create создает телефон. Идентификатор выдается хранилищем и
// записывается в переданную структуру.
func (s *phoneStore) Create(_ context.Context, phone *domain.Phone) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[phone.ClientID]; !ok {
		return pkgerrors.New(pkgerrors.ErrNotFound, "client not found")
	}

	s.nextPhoneID++
	phone.PhoneID = s.nextPhoneID
	s.phones[phone.PhoneID] = *phone
	return nil
}

// ListByClient возвращает телефоны клиента в порядке создания
func (s *phoneStore) ListByClient(_ context.Context, clientID uuid.UUID) ([]domain.Phone, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	phones := []domain.Phone{}
	for _, phone := range s.phones {
		if phone.ClientID == clientID {
			phones = append(phones, phone)
		}
	}
	sort.Slice(phones, func(i, j int) bool {
		return phones[i].PhoneID < phones[j].PhoneID
	})
	return phones, nil
}

// Delete удаляет телефон по идентификатору
func (s *phoneStore) Delete(_ context.Context, phoneID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.phones[phoneID]; !ok {
		return pkgerrors.New(pkgerrors.ErrNotFound, "phone not found")
	}
	delete(s.phones, phoneID)
	return nil
}

type passportStore struct {
	*Store
}

// Create создает паспорт клиента
func (s *passportStore) Create(_ context.Context, passport *domain.Passport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[passport.ClientID]; !ok {
		return pkgerrors.New(pkgerrors.ErrNotFound, "client not found")
	}
	s.passports[passport.PassportID] = *passport
	return nil
}

// FindByID возвращает паспорт по идентификатору
func (s *passportStore) FindByID(_ context.Context, id uuid.UUID) (*domain.Passport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	passport, ok := s.passports[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.ErrNotFound, "passport not found")
	}
	return &passport, nil
}

// ListByClient возвращает паспорта клиента в порядке создания
func (s *passportStore) ListByClient(_ context.Context, clientID uuid.UUID) ([]domain.Passport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	passports := []domain.Passport{}
	for _, passport := range s.passports {
		if passport.ClientID == clientID {
			passports = append(passports, passport)
		}
	}
	sort.Slice(passports, func(i, j int) bool {
		return passports[i].CreatedAt.Before(passports[j].CreatedAt)
	})
	return passports, nil
}

// Update обновляет паспорт вместе с номером версии
func (s *passportStore) Update(_ context.Context, passport *domain.Passport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.passports[passport.PassportID]; !ok {
		return pkgerrors.New(pkgerrors.ErrNotFound, "passport not found")
	}
	s.passports[passport.PassportID] = *passport
	return nil
}

// Delete удаляет паспорт по идентификатору
func (s *passportStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.passports[id]; !ok {
		return pkgerrors.New(pkgerrors.ErrNotFound, "passport not found")
	}
	delete(s.passports, id)
	return nil
}

type snilsStore struct {
	*Store
}

// Create создает запись СНИЛС клиента
func (s *snilsStore) Create(_ context.Context, record *domain.Snils) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[record.ClientID]; !ok {
		return pkgerrors.New(pkgerrors.ErrNotFound, "client not found")
	}
	s.snils[record.SnilsID] = *record
	return nil
}

// FindByID возвращает запись СНИЛС по идентификатору
func (s *snilsStore) FindByID(_ context.Context, id uuid.UUID) (*domain.Snils, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.snils[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.ErrNotFound, "snils record not found")
	}
	return &record, nil
}

// ListByClient возвращает записи СНИЛС клиента в порядке создания
func (s *snilsStore) ListByClient(_ context.Context, clientID uuid.UUID) ([]domain.Snils, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := []domain.Snils{}
	for _, record := range s.snils {
		if record.ClientID == clientID {
			records = append(records, record)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return records, nil
}

// Update обновляет запись СНИЛС вместе с номером версии
func (s *snilsStore) Update(_ context.Context, record *domain.Snils) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.snils[record.SnilsID]; !ok {
		return pkgerrors.New(pkgerrors.ErrNotFound, "snils record not found")
	}
	s.snils[record.SnilsID] = *record
	return nil
}

// Delete удаляет запись СНИЛС по идентификатору
func (s *snilsStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.snils[id]; !ok {
		return pkgerrors.New(pkgerrors.ErrNotFound, "snils record not found")
	}
	delete(s.snils, id)
	return nil
}
