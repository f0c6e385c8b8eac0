package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"CaseFilePlatform/internal/domain"
	pkgerrors "CaseFilePlatform/pkg/errors"
)

type agentStore struct {
	*Store
}

// Create создает агента
func (s *agentStore) Create(_ context.Context, agent *domain.Agent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.agents {
		if existing.ExternalID == agent.ExternalID {
			return pkgerrors.New(pkgerrors.ErrConflict, "agent external id already exists")
		}
	}

	s.agents[agent.AgentID] = *agent
	return nil
}

// FindByID возвращает агента по внутреннему идентификатору
func (s *agentStore) FindByID(_ context.Context, id uuid.UUID) (*domain.Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	agent, ok := s.agents[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.ErrNotFound, "agent not found")
	}
	return &agent, nil
}

// FindByExternalID возвращает агента по внешнему номеру
func (s *agentStore) FindByExternalID(_ context.Context, externalID int64) (*domain.Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, agent := range s.agents {
		if agent.ExternalID == externalID {
			found := agent
			return &found, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.ErrNotFound, "agent not found")
}

// List возвращает страницу агентов, отсортированных по фамилии и имени
func (s *agentStore) List(_ context.Context, filter domain.AgentFilter) ([]*domain.Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := []domain.Agent{}
	for _, agent := range s.agents {
		if filter.Query != "" &&
			!containsFold(agent.LastName, filter.Query) &&
			!containsFold(agent.FirstName, filter.Query) &&
			!containsFold(agent.MiddleName, filter.Query) {
			continue
		}
		matched = append(matched, agent)
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].LastName != matched[j].LastName {
			return matched[i].LastName < matched[j].LastName
		}
		return matched[i].FirstName < matched[j].FirstName
	})

	return pageAgents(matched, filter.Skip, filter.Limit), nil
}

// Update обновляет существующего агента
func (s *agentStore) Update(_ context.Context, agent *domain.Agent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.agents[agent.AgentID]; !ok {
		return pkgerrors.New(pkgerrors.ErrNotFound, "agent not found")
	}
	s.agents[agent.AgentID] = *agent
	return nil
}

// Delete удаляет агента. Агент с привязанными клиентами не удаляется.
func (s *agentStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.agents[id]; !ok {
		return pkgerrors.New(pkgerrors.ErrNotFound, "agent not found")
	}

	dependents := 0
	for _, client := range s.clients {
		if client.AgentID == id {
			dependents++
		}
	}
	if dependents > 0 {
		return pkgerrors.New(pkgerrors.ErrConflict, "agent has assigned clients").
			WithDetails(fmt.Sprintf("dependent clients: %d", dependents))
	}

	delete(s.agents, id)
	return nil
}

// CountClients возвращает число клиентов, привязанных к агенту
func (s *agentStore) CountClients(_ context.Context, agentID uuid.UUID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, client := range s.clients {
		if client.AgentID == agentID {
			count++
		}
	}
	return count, nil
}

func pageAgents(agents []domain.Agent, skip, limit int) []*domain.Agent {
	if skip >= len(agents) {
		return []*domain.Agent{}
	}
	agents = agents[skip:]
	if limit > 0 && limit < len(agents) {
		agents = agents[:limit]
	}

	page := make([]*domain.Agent, len(agents))
	for i := range agents {
		agent := agents[i]
		page[i] = &agent
	}
	return page
}
