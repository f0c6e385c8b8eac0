package memory

import (
	"context"
	"sort"

	"CaseFilePlatform/internal/domain"
	pkgerrors "CaseFilePlatform/pkg/errors"
)

type lookupStore struct {
	*Store
}

// CreateStatus создает запись справочника статусов
func (s *lookupStore) CreateStatus(_ context.Context, status *domain.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.statuses[status.StatusCode]; ok {
		return pkgerrors.New(pkgerrors.ErrConflict, "status code already exists")
	}
	s.statuses[status.StatusCode] = *status
	return nil
}

// FindStatus возвращает запись справочника статусов по коду
func (s *lookupStore) FindStatus(_ context.Context, code string) (*domain.Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status, ok := s.statuses[code]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.ErrNotFound, "status not found")
	}
	return &status, nil
}

// ListStatuses возвращает все записи справочника статусов
func (s *lookupStore) ListStatuses(_ context.Context) ([]domain.Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	statuses := make([]domain.Status, 0, len(s.statuses))
	for _, status := range s.statuses {
		statuses = append(statuses, status)
	}
	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].StatusCode < statuses[j].StatusCode
	})
	return statuses, nil
}

// CreateStage создает запись справочника этапов
func (s *lookupStore) CreateStage(_ context.Context, stage *domain.Stage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.stages[stage.StageCode]; ok {
		return pkgerrors.New(pkgerrors.ErrConflict, "stage code already exists")
	}
	s.stages[stage.StageCode] = *stage
	return nil
}

// FindStage возвращает запись справочника этапов по коду
func (s *lookupStore) FindStage(_ context.Context, code string) (*domain.Stage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stage, ok := s.stages[code]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.ErrNotFound, "stage not found")
	}
	return &stage, nil
}

// ListStages возвращает все записи справочника этапов
func (s *lookupStore) ListStages(_ context.Context) ([]domain.Stage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stages := make([]domain.Stage, 0, len(s.stages))
	for _, stage := range s.stages {
		stages = append(stages, stage)
	}
	sort.Slice(stages, func(i, j int) bool {
		return stages[i].StageCode < stages[j].StageCode
	})
	return stages, nil
}
