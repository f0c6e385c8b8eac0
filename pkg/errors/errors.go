package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Error представляет кастомную ошибку с дополнительной информацией
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Cause   error     `json:"-"`
}

// ErrorCode представляет код ошибки
type ErrorCode string

// Определение кодов ошибок
const (
	// ErrNotFound — запрошенная сущность не существует
	ErrNotFound ErrorCode = "NOT_FOUND"
	// ErrReferenceNotFound — не существует сущность, на которую ссылается создаваемая запись
	// (агент для клиента, клиент для телефона/паспорта/СНИЛС)
	ErrReferenceNotFound ErrorCode = "REFERENCE_NOT_FOUND"
	// ErrValidation — содержимое полей не соответствует формату
	ErrValidation ErrorCode = "VALIDATION_ERROR"
	// ErrConflict — нарушение уникальности или запрет удаления из-за зависимых записей
	ErrConflict ErrorCode = "CONFLICT"
	// ErrStorage — сбой хранилища; транзакция откачена
	ErrStorage ErrorCode = "STORAGE_ERROR"
	// ErrInternal — прочие внутренние ошибки
	ErrInternal ErrorCode = "INTERNAL_ERROR"
)

// Error возвращает сообщение об ошибке
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap возвращает причину ошибки
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is проверяет, является ли ошибка указанного типа
func (e *Error) Is(target error) bool {
	if targetError, ok := target.(*Error); ok {
		return e.Code == targetError.Code
	}
	return false
}

// New создает новую кастомную ошибку
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap оборачивает существующую ошибку в кастомную
func Wrap(err error, code ErrorCode, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// WithDetails добавляет детали к ошибке
func (e *Error) WithDetails(details string) *Error {
	if e == nil {
		return nil
	}
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// CodeOf возвращает код ошибки; для не-кастомных ошибок возвращает ErrInternal
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	if customErr, ok := err.(*Error); ok {
		return customErr.Code
	}
	return ErrInternal
}

// HTTPStatus возвращает соответствующий HTTP статус для ошибки
func (e *Error) HTTPStatus() int {
	if e == nil {
		return http.StatusOK
	}

	switch e.Code {
	case ErrNotFound, ErrReferenceNotFound:
		return http.StatusNotFound
	case ErrValidation:
		return http.StatusBadRequest
	case ErrConflict:
		return http.StatusConflict
	case ErrStorage, ErrInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// GetUserMessage возвращает пользовательское сообщение об ошибке
func (e *Error) GetUserMessage() string {
	if e == nil {
		return ""
	}

	// Возвращаем сообщения на русском по умолчанию
	switch e.Code {
	case ErrNotFound:
		return "Запись не найдена"
	case ErrReferenceNotFound:
		return "Связанная запись не найдена"
	case ErrValidation:
		return "Ошибка валидации данных"
	case ErrConflict:
		return "Конфликт данных (дубликат или зависимые записи)"
	case ErrStorage:
		return "Ошибка хранилища"
	case ErrInternal:
		return "Внутренняя ошибка сервера"
	default:
		return "Произошла ошибка"
	}
}

// SendErrorResponse отправляет JSON ответ с ошибкой
func SendErrorResponse(w http.ResponseWriter, err *Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.HTTPStatus())

	// Формируем ответ
	response := map[string]interface{}{
		"error": map[string]interface{}{
			"code":    err.Code,
			"message": err.GetUserMessage(),
			"details": err.Details,
		},
	}

	jsonData, jsonErr := json.Marshal(response)
	if jsonErr != nil {
		// Если не удалось сериализовать ответ, отправляем базовую ошибку
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"code":"INTERNAL_ERROR","message":"Internal server error"}}`))
		return
	}

	w.Write(jsonData)
}
