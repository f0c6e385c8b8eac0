//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"CaseFilePlatform/internal/domain"
	"CaseFilePlatform/internal/repository"
	"CaseFilePlatform/migrations"
	"CaseFilePlatform/pkg/database"
	pkgerrors "CaseFilePlatform/pkg/errors"
	"CaseFilePlatform/pkg/logger"
)

// setupPostgres поднимает контейнер PostgreSQL, применяет миграции
// и возвращает пул соединений
func setupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("casefile"),
		tcpostgres.WithUsername("casefile"),
		tcpostgres.WithPassword("casefile"),
		tcpostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err, "failed to start postgres container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, database.Migrate(dsn, migrations.FS, "."))

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

func testLogger(t *testing.T) logger.Logger {
	t.Helper()
	log, err := logger.NewLogger("development", "error", "integration-test")
	require.NoError(t, err)
	return log
}

func sampleAgent(externalID int64) *domain.Agent {
	return &domain.Agent{
		AgentID:              uuid.New(),
		ExternalID:           externalID,
		LastName:             "Петров",
		FirstName:            "Иван",
		LegalAddress:         "г. Москва, ул. Ленина, д. 1",
		ActualAddress:        "г. Москва, ул. Ленина, д. 1",
		INN:                  "123456789012",
		OGRNIP:               "123456789012345",
		AccountNumber:        "40817810000000000001",
		CorrespondentAccount: "30101810000000000001",
		BIC:                  "044525225",
	}
}

func TestSequenceIssuer(t *testing.T) {
	pool := setupPostgres(t)
	issuer := NewSequenceIssuer(pool)
	ctx := context.Background()

	t.Run("sequential per kind", func(t *testing.T) {
		first, err := issuer.Next(ctx, repository.KindAgent)
		require.NoError(t, err)
		second, err := issuer.Next(ctx, repository.KindAgent)
		require.NoError(t, err)
		assert.Equal(t, first+1, second)
	})

	t.Run("kinds are independent", func(t *testing.T) {
		clientID, err := issuer.Next(ctx, repository.KindClient)
		require.NoError(t, err)
		assert.Equal(t, int64(1), clientID)
	})
}

func TestAgentRepository(t *testing.T) {
	pool := setupPostgres(t)
	log := testLogger(t)
	repo := NewAgentRepository(pool, log)
	ctx := context.Background()

	t.Run("create and find", func(t *testing.T) {
		agent := sampleAgent(1)
		require.NoError(t, repo.Create(ctx, agent))

		found, err := repo.FindByID(ctx, agent.AgentID)
		require.NoError(t, err)
		assert.Equal(t, agent.LastName, found.LastName)
		assert.Equal(t, agent.INN, found.INN)

		byExternal, err := repo.FindByExternalID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, agent.AgentID, byExternal.AgentID)
	})

	t.Run("duplicate external id", func(t *testing.T) {
		dup := sampleAgent(1)
		err := repo.Create(ctx, dup)
		require.Error(t, err)
		assert.Equal(t, pkgerrors.ErrConflict, pkgerrors.CodeOf(err))
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		require.Error(t, err)
		assert.Equal(t, pkgerrors.ErrNotFound, pkgerrors.CodeOf(err))
	})

	t.Run("update", func(t *testing.T) {
		agent := sampleAgent(2)
		require.NoError(t, repo.Create(ctx, agent))

		agent.LastName = "Сидоров"
		require.NoError(t, repo.Update(ctx, agent))

		found, err := repo.FindByID(ctx, agent.AgentID)
		require.NoError(t, err)
		assert.Equal(t, "Сидоров", found.LastName)
	})
}

func TestClientRepository(t *testing.T) {
	pool := setupPostgres(t)
	log := testLogger(t)
	agents := NewAgentRepository(pool, log)
	clients := NewClientRepository(pool, log)
	phones := NewPhoneRepository(pool, log)
	passports := NewPassportRepository(pool, log)
	ctx := context.Background()

	agent := sampleAgent(1)
	require.NoError(t, agents.Create(ctx, agent))

	newClient := func(externalID int64) *domain.Client {
		now := time.Now().UTC()
		return &domain.Client{
			ClientID:     uuid.New(),
			ExternalID:   externalID,
			LastName:     "Смирнов",
			FirstName:    "Алексей",
			StatusCode:   "WORKING",
			CurrentStage: "MTZ",
			AgentID:      agent.AgentID,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
	}

	t.Run("create with phones is atomic", func(t *testing.T) {
		client := newClient(1)
		require.NoError(t, clients.CreateWithPhones(ctx, client, []string{"+79990000001", "+79990000002"}))

		bundle, err := clients.FindBundleByID(ctx, client.ClientID)
		require.NoError(t, err)
		require.Len(t, bundle.Phones, 2)
		require.NotNil(t, bundle.Agent)
		assert.Equal(t, agent.AgentID, bundle.Agent.AgentID)
	})

	t.Run("unknown agent rejects whole batch", func(t *testing.T) {
		client := newClient(2)
		client.AgentID = uuid.New()
		err := clients.CreateWithPhones(ctx, client, []string{"+79990000003"})
		require.Error(t, err)
		assert.Equal(t, pkgerrors.ErrReferenceNotFound, pkgerrors.CodeOf(err))

		_, err = clients.FindByID(ctx, client.ClientID)
		assert.Equal(t, pkgerrors.ErrNotFound, pkgerrors.CodeOf(err))
	})

	t.Run("list filters by query", func(t *testing.T) {
		bundles, err := clients.List(ctx, domain.ClientFilter{Query: "смирн", Limit: 10})
		require.NoError(t, err)
		require.Len(t, bundles, 1)
		assert.Equal(t, int64(1), bundles[0].Client.ExternalID)
	})

	t.Run("delete cascades to owned records", func(t *testing.T) {
		client := newClient(3)
		require.NoError(t, clients.CreateWithPhones(ctx, client, []string{"+79990000004"}))

		passport := &domain.Passport{
			PassportID:          uuid.New(),
			ClientID:            client.ClientID,
			FullName:            "Смирнов Алексей",
			BirthPlace:          "г. Москва",
			SeriesNumber:        "4500 123456",
			IssuedBy:            "ОВД района",
			IssueDate:           time.Date(2015, 6, 1, 0, 0, 0, 0, time.UTC),
			RegistrationAddress: "г. Москва, ул. Мира, д. 5",
			Version:             1,
			CreatedAt:           time.Now().UTC(),
		}
		require.NoError(t, passports.Create(ctx, passport))

		require.NoError(t, clients.Delete(ctx, client.ClientID))

		_, err := clients.FindByID(ctx, client.ClientID)
		assert.Equal(t, pkgerrors.ErrNotFound, pkgerrors.CodeOf(err))
		_, err = passports.FindByID(ctx, passport.PassportID)
		assert.Equal(t, pkgerrors.ErrNotFound, pkgerrors.CodeOf(err))
		listed, err := phones.ListByClient(ctx, client.ClientID)
		require.NoError(t, err)
		assert.Empty(t, listed)
	})

	t.Run("agent with clients cannot be deleted", func(t *testing.T) {
		err := agents.Delete(ctx, agent.AgentID)
		require.Error(t, err)
		assert.Equal(t, pkgerrors.ErrConflict, pkgerrors.CodeOf(err))
	})
}

func TestPassportRepositoryVersioning(t *testing.T) {
	pool := setupPostgres(t)
	log := testLogger(t)
	agents := NewAgentRepository(pool, log)
	clients := NewClientRepository(pool, log)
	passports := NewPassportRepository(pool, log)
	ctx := context.Background()

	agent := sampleAgent(1)
	require.NoError(t, agents.Create(ctx, agent))

	now := time.Now().UTC()
	client := &domain.Client{
		ClientID:     uuid.New(),
		ExternalID:   1,
		LastName:     "Иванова",
		FirstName:    "Мария",
		StatusCode:   "WORKING",
		CurrentStage: "MTZ",
		AgentID:      agent.AgentID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, clients.CreateWithPhones(ctx, client, nil))

	passport := &domain.Passport{
		PassportID:          uuid.New(),
		ClientID:            client.ClientID,
		FullName:            "Иванова Мария",
		BirthPlace:          "г. Казань",
		SeriesNumber:        "9200 654321",
		IssuedBy:            "МВД",
		IssueDate:           time.Date(2018, 3, 15, 0, 0, 0, 0, time.UTC),
		RegistrationAddress: "г. Казань, ул. Баумана, д. 10",
		Version:             1,
		CreatedAt:           now,
	}
	require.NoError(t, passports.Create(ctx, passport))

	passport.SeriesNumber = "9200 654322"
	passport.Version = 2
	require.NoError(t, passports.Update(ctx, passport))

	found, err := passports.FindByID(ctx, passport.PassportID)
	require.NoError(t, err)
	assert.Equal(t, 2, found.Version)
	assert.Equal(t, "9200 654322", found.SeriesNumber)
}
