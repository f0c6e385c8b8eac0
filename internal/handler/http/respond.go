package http

import (
	"encoding/json"
	"net/http"

	pkgerrors "CaseFilePlatform/pkg/errors"
)

// writeJSON записывает успешный ответ в формате JSON
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// writeError записывает ошибку в ответ используя pkg/errors
func writeError(w http.ResponseWriter, err error) {
	if customErr, ok := err.(*pkgerrors.Error); ok {
		pkgerrors.SendErrorResponse(w, customErr)
		return
	}
	pkgerrors.SendErrorResponse(w, pkgerrors.Wrap(err, pkgerrors.ErrInternal, "internal error"))
}

// decodeJSON разбирает тело запроса. Неизвестные поля отклоняются:
// опечатка в имени поля частичного обновления не должна молча
// превращаться в no-op.
func decodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return pkgerrors.Wrap(err, pkgerrors.ErrValidation, "invalid request body")
	}
	return nil
}
