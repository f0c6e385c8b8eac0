package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"CaseFilePlatform/internal/domain"
	"CaseFilePlatform/internal/service"
	pkgerrors "CaseFilePlatform/pkg/errors"
	"CaseFilePlatform/pkg/logger"
)

// DocumentHandler обрабатывает HTTP запросы для записей, принадлежащих
// клиенту: телефонов, паспортов и записей СНИЛС
type DocumentHandler struct {
	documentService service.DocumentService
	logger          logger.Logger
}

// NewDocumentHandler создает новый экземпляр DocumentHandler
func NewDocumentHandler(documentService service.DocumentService, logger logger.Logger) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		logger:          logger,
	}
}

// Register регистрирует маршруты записей клиента
func (h *DocumentHandler) Register(r chi.Router) {
	r.Route("/api/v1/clients/{clientID}", func(r chi.Router) {
		r.Post("/phones", h.AddPhone)
		r.Get("/phones", h.ListPhones)
		r.Post("/passports", h.CreatePassport)
		r.Get("/passports", h.ListPassports)
		r.Post("/snils", h.CreateSnils)
		r.Get("/snils", h.ListSnils)
	})
	r.Delete("/api/v1/phones/{phoneID}", h.DeletePhone)
	r.Route("/api/v1/passports/{id}", func(r chi.Router) {
		r.Get("/", h.GetPassport)
		r.Patch("/", h.UpdatePassport)
		r.Delete("/", h.DeletePassport)
	})
	r.Route("/api/v1/snils/{id}", func(r chi.Router) {
		r.Get("/", h.GetSnils)
		r.Patch("/", h.UpdateSnils)
		r.Delete("/", h.DeleteSnils)
	})
}

// AddPhone добавляет телефон клиенту
func (h *DocumentHandler) AddPhone(w http.ResponseWriter, r *http.Request) {
	clientID, err := parseUUID(chi.URLParam(r, "clientID"))
	if err != nil {
		writeError(w, err)
		return
	}

	var input struct {
		Number string `json:"number"`
	}
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, err)
		return
	}

	phone, err := h.documentService.AddPhone(r.Context(), clientID, input.Number)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, phone)
}

// ListPhones возвращает телефоны клиента
func (h *DocumentHandler) ListPhones(w http.ResponseWriter, r *http.Request) {
	clientID, err := parseUUID(chi.URLParam(r, "clientID"))
	if err != nil {
		writeError(w, err)
		return
	}

	phones, err := h.documentService.ListPhones(r.Context(), clientID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, phones)
}

// DeletePhone удаляет телефон по идентификатору
func (h *DocumentHandler) DeletePhone(w http.ResponseWriter, r *http.Request) {
	phoneID, err := strconv.ParseInt(chi.URLParam(r, "phoneID"), 10, 64)
	if err != nil {
		writeError(w, pkgerrors.New(pkgerrors.ErrValidation, "invalid phone id"))
		return
	}

	if err := h.documentService.DeletePhone(r.Context(), phoneID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}

// CreatePassport создает паспорт клиента
func (h *DocumentHandler) CreatePassport(w http.ResponseWriter, r *http.Request) {
	clientID, err := parseUUID(chi.URLParam(r, "clientID"))
	if err != nil {
		writeError(w, err)
		return
	}

	var input service.PassportInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, err)
		return
	}

	passport, err := h.documentService.CreatePassport(r.Context(), clientID, input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, passport)
}

// ListPassports возвращает паспорта клиента
func (h *DocumentHandler) ListPassports(w http.ResponseWriter, r *http.Request) {
	clientID, err := parseUUID(chi.URLParam(r, "clientID"))
	if err != nil {
		writeError(w, err)
		return
	}

	passports, err := h.documentService.ListPassports(r.Context(), clientID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, passports)
}

// GetPassport возвращает паспорт по идентификатору
func (h *DocumentHandler) GetPassport(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	passport, err := h.documentService.GetPassport(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, passport)
}

// UpdatePassport применяет частичное обновление паспорта
func (h *DocumentHandler) UpdatePassport(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	var patch domain.PassportPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, err)
		return
	}

	passport, err := h.documentService.UpdatePassport(r.Context(), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, passport)
}

// DeletePassport удаляет паспорт по идентификатору
func (h *DocumentHandler) DeletePassport(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.documentService.DeletePassport(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}

// CreateSnils создает запись СНИЛС клиента
func (h *DocumentHandler) CreateSnils(w http.ResponseWriter, r *http.Request) {
	clientID, err := parseUUID(chi.URLParam(r, "clientID"))
	if err != nil {
		writeError(w, err)
		return
	}

	var input service.SnilsInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, err)
		return
	}

	record, err := h.documentService.CreateSnils(r.Context(), clientID, input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, record)
}

// ListSnils возвращает записи СНИЛС клиента
func (h *DocumentHandler) ListSnils(w http.ResponseWriter, r *http.Request) {
	clientID, err := parseUUID(chi.URLParam(r, "clientID"))
	if err != nil {
		writeError(w, err)
		return
	}

	records, err := h.documentService.ListSnils(r.Context(), clientID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, records)
}

// GetSnils возвращает запись СНИЛС по идентификатору
func (h *DocumentHandler) GetSnils(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	record, err := h.documentService.GetSnils(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// UpdateSnils применяет частичное обновление записи СНИЛС
func (h *DocumentHandler) UpdateSnils(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	var patch domain.SnilsPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, err)
		return
	}

	record, err := h.documentService.UpdateSnils(r.Context(), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// DeleteSnils удаляет запись СНИЛС по идентификатору
func (h *DocumentHandler) DeleteSnils(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.documentService.DeleteSnils(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}
