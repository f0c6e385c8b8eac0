package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"CaseFilePlatform/internal/domain"
	"CaseFilePlatform/internal/service"
	"CaseFilePlatform/pkg/logger"
)

// ClientHandler обрабатывает HTTP запросы для работы с карточками клиентов
type ClientHandler struct {
	clientService service.ClientService
	logger        logger.Logger
}

// NewClientHandler создает новый экземпляр ClientHandler
func NewClientHandler(clientService service.ClientService, logger logger.Logger) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
		logger:        logger,
	}
}

// Register регистрирует маршруты клиентов
func (h *ClientHandler) Register(r chi.Router) {
	r.Route("/api/v1/clients", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// Create создает карточку клиента вместе с телефонами
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateClientInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, err)
		return
	}

	dossier, err := h.clientService.CreateClient(r.Context(), input)
	if err != nil {
		h.logger.Error("Failed to create client", logger.Error(err))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dossier)
}

// Get возвращает досье клиента
func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	dossier, err := h.clientService.GetClientDossier(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dossier)
}

// List возвращает страницу досье клиентов
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := domain.ClientFilter{
		Query:        query.Get("q"),
		StatusCode:   query.Get("status"),
		CurrentStage: query.Get("stage"),
		Skip:         parseIntParam(r, "skip"),
		Limit:        parseIntParam(r, "limit"),
	}
	if raw := query.Get("agent_id"); raw != "" {
		agentID, err := parseUUID(raw)
		if err != nil {
			writeError(w, err)
			return
		}
		filter.AgentID = &agentID
	}

	dossiers, err := h.clientService.ListClients(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dossiers)
}

// Update применяет частичное обновление карточки клиента
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	var patch domain.ClientPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, err)
		return
	}

	dossier, err := h.clientService.UpdateClient(r.Context(), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dossier)
}

// Delete удаляет клиента вместе с принадлежащими ему записями
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.clientService.DeleteClient(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}
