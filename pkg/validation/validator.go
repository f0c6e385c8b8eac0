package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Validator предоставляет общие функции валидации
type Validator struct{}

// NewValidator создает новый Validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateRequired проверяет, что строка непуста после обрезки пробелов
func (v *Validator) ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}

// ValidateStringLength проверяет длину строки
func (v *Validator) ValidateStringLength(value, fieldName string, min, max int) error {
	length := len(value)
	if length < min {
		return fmt.Errorf("%s must be at least %d characters, got: %d", fieldName, min, length)
	}
	if length > max {
		return fmt.Errorf("%s must not exceed %d characters, got: %d", fieldName, max, length)
	}
	return nil
}

// ValidatePattern проверяет значение на соответствие регулярному выражению
func (v *Validator) ValidatePattern(value, fieldName string, pattern *regexp.Regexp, hint string) error {
	if !pattern.MatchString(value) {
		return fmt.Errorf("invalid %s format: expected %s", fieldName, hint)
	}
	return nil
}

// ValidateDigits проверяет, что значение состоит только из цифр
// и имеет одну из допустимых длин
func (v *Validator) ValidateDigits(value, fieldName string, lengths ...int) error {
	for _, r := range value {
		if r < '0' || r > '9' {
			return fmt.Errorf("%s must contain only digits", fieldName)
		}
	}
	for _, l := range lengths {
		if len(value) == l {
			return nil
		}
	}
	return fmt.Errorf("invalid %s length: %d", fieldName, len(value))
}

// ValidateDateNotFuture проверяет, что дата не находится в будущем
func (v *Validator) ValidateDateNotFuture(ts time.Time, fieldName string) error {
	if ts.After(time.Now().Add(24 * time.Hour)) {
		return fmt.Errorf("%s cannot be in the future", fieldName)
	}
	return nil
}
