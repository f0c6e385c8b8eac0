package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"CaseFilePlatform/internal/domain"
	pkgerrors "CaseFilePlatform/pkg/errors"
)

func validAgent() *domain.Agent {
	return &domain.Agent{
		LastName:             "Смирнов",
		FirstName:            "Иван",
		LegalAddress:         "г. Москва, ул. Ленина, 1",
		ActualAddress:        "г. Москва, ул. Ленина, 1",
		INN:                  "1234567890",
		OGRNIP:               "123456789012345",
		AccountNumber:        "12345678901234567890",
		CorrespondentAccount: "12345678901234567890",
		BIC:                  "123456789",
	}
}

func TestValidateAgent_Valid(t *testing.T) {
	v := NewAgentValidator()
	assert.NoError(t, v.ValidateAgent(validAgent()))
}

func TestValidateAgent_TwelveDigitINN(t *testing.T) {
	v := NewAgentValidator()
	agent := validAgent()
	agent.INN = "123456789012"
	assert.NoError(t, v.ValidateAgent(agent))
}

func TestValidateAgent_MissingRequired(t *testing.T) {
	v := NewAgentValidator()

	tests := []struct {
		name   string
		mutate func(*domain.Agent)
	}{
		{"empty last name", func(a *domain.Agent) { a.LastName = "" }},
		{"empty first name", func(a *domain.Agent) { a.FirstName = "" }},
		{"whitespace legal address", func(a *domain.Agent) { a.LegalAddress = "   " }},
		{"empty inn", func(a *domain.Agent) { a.INN = "" }},
		{"empty bic", func(a *domain.Agent) { a.BIC = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agent := validAgent()
			tt.mutate(agent)
			err := v.ValidateAgent(agent)
			assert.Error(t, err)
			assert.Equal(t, pkgerrors.ErrValidation, pkgerrors.CodeOf(err))
		})
	}
}

func TestValidateAgent_MalformedRequisites(t *testing.T) {
	v := NewAgentValidator()

	tests := []struct {
		name   string
		mutate func(*domain.Agent)
	}{
		{"short inn", func(a *domain.Agent) { a.INN = "12345" }},
		{"eleven digit inn", func(a *domain.Agent) { a.INN = "12345678901" }},
		{"letters in inn", func(a *domain.Agent) { a.INN = "12345abcde" }},
		{"short ogrnip", func(a *domain.Agent) { a.OGRNIP = "12345678901234" }},
		{"short bic", func(a *domain.Agent) { a.BIC = "12345678" }},
		{"short account", func(a *domain.Agent) { a.AccountNumber = "1234567890123456789" }},
		{"too long account", func(a *domain.Agent) { a.AccountNumber = "12345678901234567890123456789012345" }},
		{"bad correspondent account", func(a *domain.Agent) { a.CorrespondentAccount = "abc" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agent := validAgent()
			tt.mutate(agent)
			err := v.ValidateAgent(agent)
			assert.Error(t, err)
			assert.Equal(t, pkgerrors.ErrValidation, pkgerrors.CodeOf(err))
		})
	}
}

func TestValidateAgent_EmptyCorrespondentAccountAllowed(t *testing.T) {
	v := NewAgentValidator()
	agent := validAgent()
	agent.CorrespondentAccount = ""
	assert.NoError(t, v.ValidateAgent(agent))
}
