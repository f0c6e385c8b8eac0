package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"CaseFilePlatform/internal/domain"
	"CaseFilePlatform/internal/service"
	pkgerrors "CaseFilePlatform/pkg/errors"
	"CaseFilePlatform/pkg/logger"
)

// AgentHandler обрабатывает HTTP запросы для работы с агентами
type AgentHandler struct {
	agentService service.AgentService
	logger       logger.Logger
}

// NewAgentHandler создает новый экземпляр AgentHandler
func NewAgentHandler(agentService service.AgentService, logger logger.Logger) *AgentHandler {
	return &AgentHandler{
		agentService: agentService,
		logger:       logger,
	}
}

// Register регистрирует маршруты агентов
func (h *AgentHandler) Register(r chi.Router) {
	r.Route("/api/v1/agents", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/external/{externalID}", h.GetByExternalID)
		r.Get("/{id}", h.Get)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// Create создает агента
func (h *AgentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateAgentInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, err)
		return
	}

	agent, err := h.agentService.CreateAgent(r.Context(), input)
	if err != nil {
		h.logger.Error("Failed to create agent", logger.Error(err))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, agent)
}

// Get возвращает агента по внутреннему идентификатору
func (h *AgentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	agent, err := h.agentService.GetAgent(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, agent)
}

// GetByExternalID возвращает агента по внешнему номеру
func (h *AgentHandler) GetByExternalID(w http.ResponseWriter, r *http.Request) {
	externalID, err := strconv.ParseInt(chi.URLParam(r, "externalID"), 10, 64)
	if err != nil {
		writeError(w, pkgerrors.New(pkgerrors.ErrValidation, "invalid external id"))
		return
	}

	agent, err := h.agentService.GetAgentByExternalID(r.Context(), externalID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, agent)
}

// List возвращает страницу агентов
func (h *AgentHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.AgentFilter{
		Query: r.URL.Query().Get("q"),
		Skip:  parseIntParam(r, "skip"),
		Limit: parseIntParam(r, "limit"),
	}

	agents, err := h.agentService.ListAgents(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, agents)
}

// Update применяет частичное обновление агента
func (h *AgentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	var patch domain.AgentPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, err)
		return
	}

	agent, err := h.agentService.UpdateAgent(r.Context(), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, agent)
}

// Delete удаляет агента
func (h *AgentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.agentService.DeleteAgent(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}

// parseUUID разбирает идентификатор из параметра пути
func parseUUID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.ErrValidation, "invalid id format")
	}
	return id, nil
}

// parseIntParam разбирает числовой query-параметр; отсутствие и мусор
// трактуются как ноль, границы нормализует сервисный слой
func parseIntParam(r *http.Request, name string) int {
	value, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return value
}
