package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CaseFilePlatform/internal/domain"
	pkgerrors "CaseFilePlatform/pkg/errors"
)

func TestCreateClient_DossierWithPhones(t *testing.T) {
	env := newTestEnv(t)
	env.seedLookups(t)
	agent := env.createAgent(t, "Smith")

	dossier, err := env.clients.CreateClient(context.Background(), CreateClientInput{
		LastName:     "Петров",
		FirstName:    "Петр",
		StatusCode:   "WORKING",
		CurrentStage: "MTZ",
		AgentID:      agent.AgentID,
		Phones:       []string{"+1000", "+1001"},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), dossier.ExternalID)
	require.Len(t, dossier.Phones, 2)
	assert.Equal(t, "+1000", dossier.Phones[0].Number)
	assert.Equal(t, "+1001", dossier.Phones[1].Number)

	require.NotNil(t, dossier.Agent)
	assert.Equal(t, agent.AgentID, dossier.Agent.AgentID)
	assert.Equal(t, "Smith", dossier.Agent.LastName)

	require.NotNil(t, dossier.Status)
	assert.Equal(t, "В работе", dossier.Status.Description)
	require.NotNil(t, dossier.Stage)
	assert.Equal(t, "MTZ", dossier.Stage.StageCode)

	assert.NotNil(t, dossier.Passports)
	assert.NotNil(t, dossier.Snils)
	assert.Empty(t, dossier.Passports)
	assert.Empty(t, dossier.Snils)
}

func TestCreateClient_UnknownAgentNothingPersisted(t *testing.T) {
	env := newTestEnv(t)
	env.seedLookups(t)

	_, err := env.clients.CreateClient(context.Background(), CreateClientInput{
		LastName:     "Петров",
		FirstName:    "Петр",
		StatusCode:   "WORKING",
		CurrentStage: "MTZ",
		AgentID:      uuid.New(),
		Phones:       []string{"+1000"},
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.ErrReferenceNotFound, pkgerrors.CodeOf(err))

	// Частичная запись не видна
	dossiers, err := env.clients.ListClients(context.Background(), domain.ClientFilter{})
	require.NoError(t, err)
	assert.Empty(t, dossiers)
}

func TestCreateClient_UnknownStatusRejected(t *testing.T) {
	env := newTestEnv(t)
	env.seedLookups(t)
	agent := env.createAgent(t, "Smith")

	_, err := env.clients.CreateClient(context.Background(), CreateClientInput{
		LastName:     "Петров",
		FirstName:    "Петр",
		StatusCode:   "NO_SUCH_STATUS",
		CurrentStage: "MTZ",
		AgentID:      agent.AgentID,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.ErrReferenceNotFound, pkgerrors.CodeOf(err))
}

func TestCreateClient_MissingRequiredFields(t *testing.T) {
	env := newTestEnv(t)
	env.seedLookups(t)
	agent := env.createAgent(t, "Smith")

	_, err := env.clients.CreateClient(context.Background(), CreateClientInput{
		LastName:     "",
		FirstName:    "Петр",
		StatusCode:   "WORKING",
		CurrentStage: "MTZ",
		AgentID:      agent.AgentID,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.ErrValidation, pkgerrors.CodeOf(err))
}

func TestListClients_QueryFilter(t *testing.T) {
	env := newTestEnv(t)
	env.seedLookups(t)
	agent := env.createAgent(t, "Smith")

	env.createClient(t, agent.AgentID, "Smith")
	env.createClient(t, agent.AgentID, "Jones")

	dossiers, err := env.clients.ListClients(context.Background(), domain.ClientFilter{Query: "Smith"})
	require.NoError(t, err)
	require.Len(t, dossiers, 1)
	assert.Equal(t, "Smith", dossiers[0].LastName)

	// Поиск без учета регистра
	dossiers, err = env.clients.ListClients(context.Background(), domain.ClientFilter{Query: "smith"})
	require.NoError(t, err)
	assert.Len(t, dossiers, 1)
}

func TestListClients_CombinedFilters(t *testing.T) {
	env := newTestEnv(t)
	env.seedLookups(t)
	firstAgent := env.createAgent(t, "Smith")
	secondAgent := env.createAgent(t, "Jones")

	env.createClient(t, firstAgent.AgentID, "Петров")
	env.createClient(t, secondAgent.AgentID, "Петров")

	dossiers, err := env.clients.ListClients(context.Background(), domain.ClientFilter{
		Query:   "Петров",
		AgentID: &firstAgent.AgentID,
	})
	require.NoError(t, err)
	require.Len(t, dossiers, 1)
	assert.Equal(t, firstAgent.AgentID, dossiers[0].AgentID)
}

func TestListClients_OrderedByExternalID(t *testing.T) {
	env := newTestEnv(t)
	env.seedLookups(t)
	agent := env.createAgent(t, "Smith")

	env.createClient(t, agent.AgentID, "Яковлев")
	env.createClient(t, agent.AgentID, "Антонов")
	env.createClient(t, agent.AgentID, "Борисов")

	dossiers, err := env.clients.ListClients(context.Background(), domain.ClientFilter{})
	require.NoError(t, err)
	require.Len(t, dossiers, 3)
	assert.Equal(t, int64(1), dossiers[0].ExternalID)
	assert.Equal(t, int64(2), dossiers[1].ExternalID)
	assert.Equal(t, int64(3), dossiers[2].ExternalID)
}

func TestListClients_PaginationCapped(t *testing.T) {
	env := newTestEnv(t)
	env.seedLookups(t)
	agent := env.createAgent(t, "Smith")

	for i := 0; i < 5; i++ {
		env.createClient(t, agent.AgentID, "Петров")
	}

	dossiers, err := env.clients.ListClients(context.Background(), domain.ClientFilter{Skip: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, dossiers, 2)
	assert.Equal(t, int64(3), dossiers[0].ExternalID)

	// Запрос сверх лимита не падает, просто ограничивается максимумом
	dossiers, err = env.clients.ListClients(context.Background(), domain.ClientFilter{Limit: 100000})
	require.NoError(t, err)
	assert.Len(t, dossiers, 5)
}

func TestUpdateClient_MergePatchRefreshesUpdatedAt(t *testing.T) {
	env := newTestEnv(t)
	env.seedLookups(t)
	agent := env.createAgent(t, "Smith")
	created := env.createClient(t, agent.AgentID, "Петров", "+1000")

	notes := "перезвонить"
	time.Sleep(5 * time.Millisecond)
	updated, err := env.clients.UpdateClient(context.Background(), created.ClientID, domain.ClientPatch{
		Notes: &notes,
	})
	require.NoError(t, err)

	assert.Equal(t, "перезвонить", updated.Notes)
	assert.Equal(t, created.LastName, updated.LastName)
	assert.Equal(t, created.StatusCode, updated.StatusCode)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	// Телефоны не затронуты
	require.Len(t, updated.Phones, 1)
}

func TestUpdateClient_UnknownStageRejected(t *testing.T) {
	env := newTestEnv(t)
	env.seedLookups(t)
	agent := env.createAgent(t, "Smith")
	created := env.createClient(t, agent.AgentID, "Петров")

	badStage := "NO_SUCH_STAGE"
	_, err := env.clients.UpdateClient(context.Background(), created.ClientID, domain.ClientPatch{
		CurrentStage: &badStage,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.ErrReferenceNotFound, pkgerrors.CodeOf(err))
}

func TestDeleteClient_CascadesOwnedRecords(t *testing.T) {
	env := newTestEnv(t)
	env.seedLookups(t)
	agent := env.createAgent(t, "Smith")
	created := env.createClient(t, agent.AgentID, "Петров", "+1000", "+1001")

	_, err := env.documents.CreateSnils(context.Background(), created.ClientID, SnilsInput{
		Number: "123-456-789 00",
	})
	require.NoError(t, err)

	require.NoError(t, env.clients.DeleteClient(context.Background(), created.ClientID))

	_, err = env.clients.GetClientDossier(context.Background(), created.ClientID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.ErrNotFound, pkgerrors.CodeOf(err))

	// Принадлежащие записи удалены вместе с клиентом
	_, err = env.documents.ListPhones(context.Background(), created.ClientID)
	assert.Equal(t, pkgerrors.ErrNotFound, pkgerrors.CodeOf(err))
}

func TestGetClientDossier_MissingLookupSummariesOmitted(t *testing.T) {
	env := newTestEnv(t)
	env.seedLookups(t)
	agent := env.createAgent(t, "Smith")
	created := env.createClient(t, agent.AgentID, "Петров")

	// Код статуса остается в карточке, но запись справочника исчезает
	env.store.DropStatus("WORKING")

	dossier, err := env.clients.GetClientDossier(context.Background(), created.ClientID)
	require.NoError(t, err)
	assert.Equal(t, "WORKING", dossier.StatusCode)
	assert.Nil(t, dossier.Status)
	require.NotNil(t, dossier.Stage)
}
