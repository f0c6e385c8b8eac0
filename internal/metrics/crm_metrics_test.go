package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCRMMetrics(t *testing.T) {
	m := NewCRMMetrics("test_service")

	require.NotNil(t, m)
	require.NotNil(t, m.base)
	require.NotNil(t, m.operationTotal)
	require.NotNil(t, m.operationDuration)
	require.NotNil(t, m.externalIDsIssued)
	require.NotNil(t, m.dossierRelations)
}

func TestNewCRMMetrics_DoubleRegistration(t *testing.T) {
	// Повторное создание с тем же именем сервиса не должно паниковать
	assert.NotPanics(t, func() {
		NewCRMMetrics("test_service")
		NewCRMMetrics("test_service")
	})
}

func TestRecordOperation(t *testing.T) {
	m := NewCRMMetrics("test_service")

	assert.NotPanics(t, func() {
		m.RecordOperation("client", "create", "success", 15*time.Millisecond)
		m.RecordOperation("agent", "delete", "conflict", time.Millisecond)
	})
}

func TestRecordExternalIDIssued(t *testing.T) {
	m := NewCRMMetrics("test_service")

	assert.NotPanics(t, func() {
		m.RecordExternalIDIssued("agent")
		m.RecordExternalIDIssued("client")
	})
}

func TestRecordDossierRelations(t *testing.T) {
	m := NewCRMMetrics("test_service")

	assert.NotPanics(t, func() {
		m.RecordDossierRelations("phones", 2)
		m.RecordDossierRelations("passports", 0)
	})
}
