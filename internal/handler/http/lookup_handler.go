package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"CaseFilePlatform/internal/service"
	"CaseFilePlatform/pkg/logger"
)

// LookupHandler обрабатывает HTTP запросы для справочников статусов и этапов
type LookupHandler struct {
	lookupService service.LookupService
	logger        logger.Logger
}

// NewLookupHandler создает новый экземпляр LookupHandler
func NewLookupHandler(lookupService service.LookupService, logger logger.Logger) *LookupHandler {
	return &LookupHandler{
		lookupService: lookupService,
		logger:        logger,
	}
}

// Register регистрирует маршруты справочников
func (h *LookupHandler) Register(r chi.Router) {
	r.Route("/api/v1/statuses", func(r chi.Router) {
		r.Post("/", h.CreateStatus)
		r.Get("/", h.ListStatuses)
		r.Get("/{code}", h.GetStatus)
	})
	r.Route("/api/v1/stages", func(r chi.Router) {
		r.Post("/", h.CreateStage)
		r.Get("/", h.ListStages)
		r.Get("/{code}", h.GetStage)
	})
}

type lookupInput struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// CreateStatus создает запись справочника статусов
func (h *LookupHandler) CreateStatus(w http.ResponseWriter, r *http.Request) {
	var input lookupInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, err)
		return
	}

	status, err := h.lookupService.CreateStatus(r.Context(), input.Code, input.Description)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, status)
}

// GetStatus возвращает запись справочника статусов по коду
func (h *LookupHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.lookupService.GetStatus(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, status)
}

// ListStatuses возвращает все записи справочника статусов
func (h *LookupHandler) ListStatuses(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.lookupService.ListStatuses(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statuses)
}

// CreateStage создает запись справочника этапов
func (h *LookupHandler) CreateStage(w http.ResponseWriter, r *http.Request) {
	var input lookupInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, err)
		return
	}

	stage, err := h.lookupService.CreateStage(r.Context(), input.Code, input.Description)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, stage)
}

// GetStage возвращает запись справочника этапов по коду
func (h *LookupHandler) GetStage(w http.ResponseWriter, r *http.Request) {
	stage, err := h.lookupService.GetStage(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stage)
}

// ListStages возвращает все записи справочника этапов
func (h *LookupHandler) ListStages(w http.ResponseWriter, r *http.Request) {
	stages, err := h.lookupService.ListStages(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stages)
}
