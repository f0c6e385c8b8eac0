package validation

import (
	"regexp"

	"CaseFilePlatform/internal/domain"
	pkgerrors "CaseFilePlatform/pkg/errors"
	"CaseFilePlatform/pkg/validation"
)

// Форматы банковских и регистрационных реквизитов.
// ИНН: 10 цифр для юридических лиц, 12 для индивидуальных предпринимателей.
var (
	innPattern     = regexp.MustCompile(`^\d{10}(\d{2})?$`)
	ogrnipPattern  = regexp.MustCompile(`^\d{15}$`)
	bicPattern     = regexp.MustCompile(`^\d{9}$`)
	accountPattern = regexp.MustCompile(`^\d{20,34}$`)
)

// AgentValidator валидатор данных агента
type AgentValidator struct {
	validator *validation.Validator
}

// NewAgentValidator создает новый валидатор агентов
func NewAgentValidator() *AgentValidator {
	return &AgentValidator{validator: validation.NewValidator()}
}

// ValidateAgent проверяет заполненность обязательных полей и форматы
// реквизитов агента. Вызывается после нормализации пробелов.
func (v *AgentValidator) ValidateAgent(agent *domain.Agent) error {
	required := map[string]string{
		"last_name":      agent.LastName,
		"first_name":     agent.FirstName,
		"legal_address":  agent.LegalAddress,
		"actual_address": agent.ActualAddress,
		"inn":            agent.INN,
		"ogrnip":         agent.OGRNIP,
		"account_number": agent.AccountNumber,
		"bic":            agent.BIC,
	}
	for field, value := range required {
		if err := v.validator.ValidateRequired(value, field); err != nil {
			return pkgerrors.Wrap(err, pkgerrors.ErrValidation, "invalid agent data")
		}
	}

	if err := v.validator.ValidatePattern(agent.INN, "inn", innPattern, "10 or 12 digits"); err != nil {
		return pkgerrors.Wrap(err, pkgerrors.ErrValidation, "invalid agent data")
	}
	if err := v.validator.ValidatePattern(agent.OGRNIP, "ogrnip", ogrnipPattern, "15 digits"); err != nil {
		return pkgerrors.Wrap(err, pkgerrors.ErrValidation, "invalid agent data")
	}
	if err := v.validator.ValidatePattern(agent.BIC, "bic", bicPattern, "9 digits"); err != nil {
		return pkgerrors.Wrap(err, pkgerrors.ErrValidation, "invalid agent data")
	}
	if err := v.validator.ValidatePattern(agent.AccountNumber, "account_number", accountPattern, "20 to 34 digits"); err != nil {
		return pkgerrors.Wrap(err, pkgerrors.ErrValidation, "invalid agent data")
	}
	if agent.CorrespondentAccount != "" {
		if err := v.validator.ValidatePattern(agent.CorrespondentAccount, "correspondent_account", accountPattern, "20 to 34 digits"); err != nil {
			return pkgerrors.Wrap(err, pkgerrors.ErrValidation, "invalid agent data")
		}
	}

	return nil
}
