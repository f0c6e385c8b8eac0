package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CaseFilePlatform/internal/domain"
	"CaseFilePlatform/internal/repository"
	pkgerrors "CaseFilePlatform/pkg/errors"
)

func TestCreateAgent_SequentialExternalIDs(t *testing.T) {
	env := newTestEnv(t)

	first := env.createAgent(t, "Smith")
	second := env.createAgent(t, "Jones")

	assert.Equal(t, int64(1), first.ExternalID)
	assert.Equal(t, int64(2), second.ExternalID)
}

func TestCreateAgent_DefaultsCorrespondentAccount(t *testing.T) {
	env := newTestEnv(t)

	agent, err := env.agents.CreateAgent(context.Background(), CreateAgentInput{
		LastName:      "Smith",
		FirstName:     "Jane",
		LegalAddress:  "A",
		ActualAddress: "A",
		INN:           "1234567890",
		OGRNIP:        "123456789012345",
		AccountNumber: "12345678901234567890",
		BIC:           "123456789",
	})
	require.NoError(t, err)

	assert.Equal(t, agent.AccountNumber, agent.CorrespondentAccount)
}

func TestCreateAgent_TrimsWhitespace(t *testing.T) {
	env := newTestEnv(t)

	agent, err := env.agents.CreateAgent(context.Background(), CreateAgentInput{
		LastName:      "  Smith  ",
		FirstName:     " Jane ",
		LegalAddress:  " A ",
		ActualAddress: "A",
		INN:           " 1234567890 ",
		OGRNIP:        "123456789012345",
		AccountNumber: "12345678901234567890",
		BIC:           "123456789",
	})
	require.NoError(t, err)

	assert.Equal(t, "Smith", agent.LastName)
	assert.Equal(t, "Jane", agent.FirstName)
	assert.Equal(t, "1234567890", agent.INN)
}

func TestCreateAgent_ValidationError(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.agents.CreateAgent(context.Background(), CreateAgentInput{
		LastName:      "Smith",
		FirstName:     "Jane",
		LegalAddress:  "A",
		ActualAddress: "A",
		INN:           "12345",
		OGRNIP:        "123456789012345",
		AccountNumber: "12345678901234567890",
		BIC:           "123456789",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.ErrValidation, pkgerrors.CodeOf(err))
}

func TestIdentifierIssuer_ConcurrentIssuance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	const workers = 20
	ids := make([]int64, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := env.store.Next(ctx, repository.KindAgent)
			assert.NoError(t, err)
			ids[i] = id
		}(i)
	}
	wg.Wait()

	seen := map[int64]bool{}
	for _, id := range ids {
		assert.False(t, seen[id], "external id issued twice: %d", id)
		assert.GreaterOrEqual(t, id, int64(1))
		assert.LessOrEqual(t, id, int64(workers))
		seen[id] = true
	}
}

func TestIdentifierIssuer_IndependentSequences(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	agentID, err := env.store.Next(ctx, repository.KindAgent)
	require.NoError(t, err)
	clientID, err := env.store.Next(ctx, repository.KindClient)
	require.NoError(t, err)

	assert.Equal(t, int64(1), agentID)
	assert.Equal(t, int64(1), clientID)
}

func TestGetAgentByExternalID(t *testing.T) {
	env := newTestEnv(t)

	created := env.createAgent(t, "Smith")

	found, err := env.agents.GetAgentByExternalID(context.Background(), created.ExternalID)
	require.NoError(t, err)
	assert.Equal(t, created.AgentID, found.AgentID)

	_, err = env.agents.GetAgentByExternalID(context.Background(), 999)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.ErrNotFound, pkgerrors.CodeOf(err))
}

func TestListAgents_QueryFilter(t *testing.T) {
	env := newTestEnv(t)

	env.createAgent(t, "Smith")
	env.createAgent(t, "Jones")

	agents, err := env.agents.ListAgents(context.Background(), domain.AgentFilter{Query: "smi"})
	require.NoError(t, err)
	require.Len(t, agents, 1)
	assert.Equal(t, "Smith", agents[0].LastName)
}

func TestUpdateAgent_MergePatch(t *testing.T) {
	env := newTestEnv(t)

	created := env.createAgent(t, "Smith")
	newBIC := "987654321"

	updated, err := env.agents.UpdateAgent(context.Background(), created.AgentID, domain.AgentPatch{
		BIC: &newBIC,
	})
	require.NoError(t, err)

	// Меняется только заданное поле
	assert.Equal(t, "987654321", updated.BIC)
	assert.Equal(t, created.LastName, updated.LastName)
	assert.Equal(t, created.INN, updated.INN)
	assert.Equal(t, created.ExternalID, updated.ExternalID)
}

func TestUpdateAgent_InvalidPatchRejected(t *testing.T) {
	env := newTestEnv(t)

	created := env.createAgent(t, "Smith")
	badINN := "abc"

	_, err := env.agents.UpdateAgent(context.Background(), created.AgentID, domain.AgentPatch{
		INN: &badINN,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.ErrValidation, pkgerrors.CodeOf(err))

	// Прежнее значение не изменилось
	current, err := env.agents.GetAgent(context.Background(), created.AgentID)
	require.NoError(t, err)
	assert.Equal(t, created.INN, current.INN)
}

func TestDeleteAgent_RestrictedWithClients(t *testing.T) {
	env := newTestEnv(t)
	env.seedLookups(t)

	agent := env.createAgent(t, "Smith")
	env.createClient(t, agent.AgentID, "Петров")

	err := env.agents.DeleteAgent(context.Background(), agent.AgentID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.ErrConflict, pkgerrors.CodeOf(err))

	// Агент остался на месте
	_, err = env.agents.GetAgent(context.Background(), agent.AgentID)
	assert.NoError(t, err)
}

func TestDeleteAgent_WithoutClients(t *testing.T) {
	env := newTestEnv(t)

	agent := env.createAgent(t, "Smith")
	require.NoError(t, env.agents.DeleteAgent(context.Background(), agent.AgentID))

	_, err := env.agents.GetAgent(context.Background(), agent.AgentID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.ErrNotFound, pkgerrors.CodeOf(err))
}

func TestDeleteAgent_NotFound(t *testing.T) {
	env := newTestEnv(t)

	err := env.agents.DeleteAgent(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.ErrNotFound, pkgerrors.CodeOf(err))
}

func TestExternalIDsNotReusedAfterDelete(t *testing.T) {
	env := newTestEnv(t)

	first := env.createAgent(t, "Smith")
	require.NoError(t, env.agents.DeleteAgent(context.Background(), first.AgentID))

	second := env.createAgent(t, "Jones")
	assert.Equal(t, int64(2), second.ExternalID)
}
