package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"CaseFilePlatform/internal/domain"
	"CaseFilePlatform/internal/metrics"
	"CaseFilePlatform/internal/repository/memory"
	"CaseFilePlatform/pkg/config"
	"CaseFilePlatform/pkg/logger"
)

// testEnv собирает сервисы поверх хранилища в памяти
type testEnv struct {
	store     *memory.Store
	agents    AgentService
	clients   ClientService
	documents DocumentService
	lookups   LookupService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log, err := logger.NewLogger("development", "error", "test-service")
	require.NoError(t, err)

	crmMetrics := metrics.NewCRMMetrics("test_service")
	pagination := config.PaginationConfig{DefaultLimit: 50, MaxLimit: 200}
	store := memory.NewStore()

	return &testEnv{
		store:     store,
		agents:    NewAgentService(store.Agents(), store, pagination, log, crmMetrics),
		clients:   NewClientService(store.Clients(), store.Lookups(), store, pagination, log, crmMetrics),
		documents: NewDocumentService(store.Clients(), store.Phones(), store.Passports(), store.Snils(), log, crmMetrics),
		lookups:   NewLookupService(store.Lookups(), log, crmMetrics),
	}
}

// seedLookups заполняет справочники минимальным набором кодов
func (e *testEnv) seedLookups(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	_, err := e.lookups.CreateStatus(ctx, "WORKING", "В работе")
	require.NoError(t, err)
	_, err = e.lookups.CreateStage(ctx, "MTZ", "Снятие мерок и изготовление")
	require.NoError(t, err)
}

func (e *testEnv) createAgent(t *testing.T, lastName string) *domain.Agent {
	t.Helper()

	agent, err := e.agents.CreateAgent(context.Background(), CreateAgentInput{
		LastName:      lastName,
		FirstName:     "Jane",
		LegalAddress:  "A",
		ActualAddress: "A",
		INN:           "1234567890",
		OGRNIP:        "123456789012345",
		AccountNumber: "12345678901234567890",
		BIC:           "123456789",
	})
	require.NoError(t, err)
	return agent
}

func (e *testEnv) createClient(t *testing.T, agentID uuid.UUID, lastName string, phones ...string) *domain.ClientDossier {
	t.Helper()

	dossier, err := e.clients.CreateClient(context.Background(), CreateClientInput{
		LastName:     lastName,
		FirstName:    "Jane",
		StatusCode:   "WORKING",
		CurrentStage: "MTZ",
		AgentID:      agentID,
		Phones:       phones,
	})
	require.NoError(t, err)
	return dossier
}
