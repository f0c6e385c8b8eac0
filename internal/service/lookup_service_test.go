package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "CaseFilePlatform/pkg/errors"
)

func TestCreateStatus_DuplicateCodeConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.lookups.CreateStatus(ctx, "WORKING", "В работе")
	require.NoError(t, err)

	_, err = env.lookups.CreateStatus(ctx, "WORKING", "Другое описание")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.ErrConflict, pkgerrors.CodeOf(err))
}

func TestCreateStage_DuplicateCodeConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.lookups.CreateStage(ctx, "MTZ", "Снятие мерок")
	require.NoError(t, err)

	_, err = env.lookups.CreateStage(ctx, "MTZ", "Другое описание")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.ErrConflict, pkgerrors.CodeOf(err))
}

func TestLookupValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.lookups.CreateStatus(ctx, "", "В работе")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.ErrValidation, pkgerrors.CodeOf(err))

	_, err = env.lookups.CreateStage(ctx, "MTZ", "  ")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.ErrValidation, pkgerrors.CodeOf(err))
}

func TestListLookups_Sorted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, code := range []string{"DONE", "CANCELLED", "WORKING"} {
		_, err := env.lookups.CreateStatus(ctx, code, code)
		require.NoError(t, err)
	}

	statuses, err := env.lookups.ListStatuses(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 3)
	assert.Equal(t, "CANCELLED", statuses[0].StatusCode)
	assert.Equal(t, "DONE", statuses[1].StatusCode)
	assert.Equal(t, "WORKING", statuses[2].StatusCode)
}

func TestGetStatus_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.lookups.GetStatus(context.Background(), "MISSING")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.ErrNotFound, pkgerrors.CodeOf(err))
}
