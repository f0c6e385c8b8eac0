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

func validPassportInput() PassportInput {
	return PassportInput{
		FullName:            "Петров Петр Петрович",
		BirthPlace:          "г. Казань",
		SeriesNumber:        "1234 567890",
		DepartmentCode:      "770-001",
		IssuedBy:            "ОВД района",
		IssueDate:           time.Date(2015, 3, 10, 0, 0, 0, 0, time.UTC),
		RegistrationAddress: "г. Казань, ул. Баумана, 5",
	}
}

func TestAddPhone(t *testing.T) {
	env := newTestEnv(t)
	env.seedLookups(t)
	agent := env.createAgent(t, "Smith")
	client := env.createClient(t, agent.AgentID, "Петров")

	phone, err := env.documents.AddPhone(context.Background(), client.ClientID, "+79001234567")
	require.NoError(t, err)
	assert.NotZero(t, phone.PhoneID)
	assert.Equal(t, client.ClientID, phone.ClientID)

	phones, err := env.documents.ListPhones(context.Background(), client.ClientID)
	require.NoError(t, err)
	require.Len(t, phones, 1)
	assert.Equal(t, "+79001234567", phones[0].Number)
}

func TestAddPhone_UnknownClient(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.documents.AddPhone(context.Background(), uuid.New(), "+79001234567")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.ErrReferenceNotFound, pkgerrors.CodeOf(err))
}

func TestDeletePhone(t *testing.T) {
	env := newTestEnv(t)
	env.seedLookups(t)
	agent := env.createAgent(t, "Smith")
	client := env.createClient(t, agent.AgentID, "Петров", "+1000")

	phones, err := env.documents.ListPhones(context.Background(), client.ClientID)
	require.NoError(t, err)
	require.Len(t, phones, 1)
	phoneID := phones[0].PhoneID

	require.NoError(t, env.documents.DeletePhone(context.Background(), phoneID))

	phones, err = env.documents.ListPhones(context.Background(), client.ClientID)
	require.NoError(t, err)
	assert.Empty(t, phones)

	// Повторное удаление — NotFound
	err = env.documents.DeletePhone(context.Background(), phoneID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.ErrNotFound, pkgerrors.CodeOf(err))
}

func TestCreatePassport_RoundTripInDossier(t *testing.T) {
	env := newTestEnv(t)
	env.seedLookups(t)
	agent := env.createAgent(t, "Smith")
	client := env.createClient(t, agent.AgentID, "Петров")

	created, err := env.documents.CreatePassport(context.Background(), client.ClientID, validPassportInput())
	require.NoError(t, err)
	assert.Equal(t, 1, created.Version)

	dossier, err := env.clients.GetClientDossier(context.Background(), client.ClientID)
	require.NoError(t, err)
	require.Len(t, dossier.Passports, 1)

	got := dossier.Passports[0]
	assert.Equal(t, created.PassportID, got.PassportID)
	assert.Equal(t, created.FullName, got.FullName)
	assert.Equal(t, created.SeriesNumber, got.SeriesNumber)
	assert.Equal(t, created.DepartmentCode, got.DepartmentCode)
	assert.Equal(t, created.IssueDate, got.IssueDate)
	assert.Equal(t, created.RegistrationAddress, got.RegistrationAddress)
}

func TestCreatePassport_UnknownClient(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.documents.CreatePassport(context.Background(), uuid.New(), validPassportInput())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.ErrReferenceNotFound, pkgerrors.CodeOf(err))
}

func TestCreatePassport_InvalidDepartmentCode(t *testing.T) {
	env := newTestEnv(t)
	env.seedLookups(t)
	agent := env.createAgent(t, "Smith")
	client := env.createClient(t, agent.AgentID, "Петров")

	input := validPassportInput()
	input.DepartmentCode = "770001"

	_, err := env.documents.CreatePassport(context.Background(), client.ClientID, input)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.ErrValidation, pkgerrors.CodeOf(err))
}

func TestUpdatePassport_IncrementsVersion(t *testing.T) {
	env := newTestEnv(t)
	env.seedLookups(t)
	agent := env.createAgent(t, "Smith")
	client := env.createClient(t, agent.AgentID, "Петров")

	created, err := env.documents.CreatePassport(context.Background(), client.ClientID, validPassportInput())
	require.NoError(t, err)

	newSeries := "4321 098765"
	updated, err := env.documents.UpdatePassport(context.Background(), created.PassportID, domain.PassportPatch{
		SeriesNumber: &newSeries,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, updated.Version)
	assert.Equal(t, "4321 098765", updated.SeriesNumber)
	// Остальные поля не тронуты
	assert.Equal(t, created.FullName, updated.FullName)
	assert.Equal(t, created.IssuedBy, updated.IssuedBy)

	updated, err = env.documents.UpdatePassport(context.Background(), created.PassportID, domain.PassportPatch{
		SeriesNumber: &newSeries,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Version)
}

func TestDeletePassport(t *testing.T) {
	env := newTestEnv(t)
	env.seedLookups(t)
	agent := env.createAgent(t, "Smith")
	client := env.createClient(t, agent.AgentID, "Петров")

	created, err := env.documents.CreatePassport(context.Background(), client.ClientID, validPassportInput())
	require.NoError(t, err)

	require.NoError(t, env.documents.DeletePassport(context.Background(), created.PassportID))

	_, err = env.documents.GetPassport(context.Background(), created.PassportID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.ErrNotFound, pkgerrors.CodeOf(err))
}

func TestCreateSnils(t *testing.T) {
	env := newTestEnv(t)
	env.seedLookups(t)
	agent := env.createAgent(t, "Smith")
	client := env.createClient(t, agent.AgentID, "Петров")

	created, err := env.documents.CreateSnils(context.Background(), client.ClientID, SnilsInput{
		Number: "123-456-789 00",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, created.Version)

	records, err := env.documents.ListSnils(context.Background(), client.ClientID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "123-456-789 00", records[0].Number)
}

func TestCreateSnils_NumberTooLong(t *testing.T) {
	env := newTestEnv(t)
	env.seedLookups(t)
	agent := env.createAgent(t, "Smith")
	client := env.createClient(t, agent.AgentID, "Петров")

	_, err := env.documents.CreateSnils(context.Background(), client.ClientID, SnilsInput{
		Number: "123-456-789 000",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.ErrValidation, pkgerrors.CodeOf(err))
}

func TestUpdateSnils_IncrementsVersion(t *testing.T) {
	env := newTestEnv(t)
	env.seedLookups(t)
	agent := env.createAgent(t, "Smith")
	client := env.createClient(t, agent.AgentID, "Петров")

	created, err := env.documents.CreateSnils(context.Background(), client.ClientID, SnilsInput{
		Number: "123-456-789 00",
	})
	require.NoError(t, err)

	issued := time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC)
	updated, err := env.documents.UpdateSnils(context.Background(), created.SnilsID, domain.SnilsPatch{
		IssuedDate: &issued,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, updated.Version)
	require.NotNil(t, updated.IssuedDate)
	assert.Equal(t, issued, *updated.IssuedDate)
	assert.Equal(t, created.Number, updated.Number)
}

func TestDeleteSnils(t *testing.T) {
	env := newTestEnv(t)
	env.seedLookups(t)
	agent := env.createAgent(t, "Smith")
	client := env.createClient(t, agent.AgentID, "Петров")

	created, err := env.documents.CreateSnils(context.Background(), client.ClientID, SnilsInput{
		Number: "123-456-789 00",
	})
	require.NoError(t, err)

	require.NoError(t, env.documents.DeleteSnils(context.Background(), created.SnilsID))

	_, err = env.documents.GetSnils(context.Background(), created.SnilsID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.ErrNotFound, pkgerrors.CodeOf(err))
}
