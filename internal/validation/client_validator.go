package validation

import (
	"regexp"

	"CaseFilePlatform/internal/domain"
	pkgerrors "CaseFilePlatform/pkg/errors"
	"CaseFilePlatform/pkg/validation"
)

var departmentCodePattern = regexp.MustCompile(`^\d{3}-\d{3}$`)

// ClientValidator валидатор данных клиента и принадлежащих ему записей
type ClientValidator struct {
	validator *validation.Validator
}

// NewClientValidator создает новый валидатор клиентов
func NewClientValidator() *ClientValidator {
	return &ClientValidator{validator: validation.NewValidator()}
}

// ValidateClient проверяет заполненность обязательных полей клиента
func (v *ClientValidator) ValidateClient(client *domain.Client) error {
	required := map[string]string{
		"last_name":     client.LastName,
		"first_name":    client.FirstName,
		"status_code":   client.StatusCode,
		"current_stage": client.CurrentStage,
	}
	for field, value := range required {
		if err := v.validator.ValidateRequired(value, field); err != nil {
			return pkgerrors.Wrap(err, pkgerrors.ErrValidation, "invalid client data")
		}
	}
	return nil
}

// ValidatePhoneNumber проверяет номер телефона
func (v *ClientValidator) ValidatePhoneNumber(number string) error {
	if err := v.validator.ValidateStringLength(number, "number", 3, 32); err != nil {
		return pkgerrors.Wrap(err, pkgerrors.ErrValidation, "invalid phone number")
	}
	return nil
}

// ValidatePassport проверяет обязательные поля и форматы паспорта
func (v *ClientValidator) ValidatePassport(passport *domain.Passport) error {
	required := map[string]string{
		"full_name":            passport.FullName,
		"birth_place":          passport.BirthPlace,
		"series_number":        passport.SeriesNumber,
		"issued_by":            passport.IssuedBy,
		"registration_address": passport.RegistrationAddress,
	}
	for field, value := range required {
		if err := v.validator.ValidateRequired(value, field); err != nil {
			return pkgerrors.Wrap(err, pkgerrors.ErrValidation, "invalid passport data")
		}
	}
	if passport.IssueDate.IsZero() {
		return pkgerrors.New(pkgerrors.ErrValidation, "passport issue_date is required")
	}
	if passport.BirthDate != nil {
		if err := v.validator.ValidateDateNotFuture(*passport.BirthDate, "birth_date"); err != nil {
			return pkgerrors.Wrap(err, pkgerrors.ErrValidation, "invalid passport data")
		}
	}
	if passport.DepartmentCode != "" {
		if err := v.validator.ValidatePattern(passport.DepartmentCode, "department_code", departmentCodePattern, "ddd-ddd"); err != nil {
			return pkgerrors.Wrap(err, pkgerrors.ErrValidation, "invalid passport data")
		}
	}
	return nil
}

// ValidateSnils проверяет номер записи СНИЛС
func (v *ClientValidator) ValidateSnils(snils *domain.Snils) error {
	if err := v.validator.ValidateRequired(snils.Number, "number"); err != nil {
		return pkgerrors.Wrap(err, pkgerrors.ErrValidation, "invalid snils data")
	}
	if err := v.validator.ValidateStringLength(snils.Number, "number", 1, 14); err != nil {
		return pkgerrors.Wrap(err, pkgerrors.ErrValidation, "invalid snils data")
	}
	return nil
}

// ValidateLookup проверяет код и описание записи справочника
func (v *ClientValidator) ValidateLookup(code, description string) error {
	if err := v.validator.ValidateRequired(code, "code"); err != nil {
		return pkgerrors.Wrap(err, pkgerrors.ErrValidation, "invalid lookup data")
	}
	if err := v.validator.ValidateStringLength(code, "code", 1, 32); err != nil {
		return pkgerrors.Wrap(err, pkgerrors.ErrValidation, "invalid lookup data")
	}
	if err := v.validator.ValidateRequired(description, "description"); err != nil {
		return pkgerrors.Wrap(err, pkgerrors.ErrValidation, "invalid lookup data")
	}
	return nil
}
