package incidents

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/junior231/incident-hub/internal/domain"
	"github.com/junior231/incident-hub/internal/pkg/httputil"
)

var errorMappings = []httputil.ErrorMapping{
	{Error: ErrIncidentNotFound, Status: http.StatusNotFound, Message: "incident not found"},
	{Error: ErrTitleRequired, Status: http.StatusBadRequest, Message: "title must not be blank"},
	{Error: ErrInvalidSeverity, Status: http.StatusBadRequest, Message: "invalid severity"},
	{Error: ErrInvalidStatus, Status: http.StatusBadRequest, Message: "invalid status"},
}

// Handler handles HTTP requests for the incidents module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new incidents handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterRoutes registers all HTTP routes for the incidents module.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/incidents", func(r chi.Router) {
		r.Get("/", h.ListIncidents)
		r.Post("/", h.CreateIncident)
		r.Get("/{id}", h.GetIncident)
		r.Put("/{id}", h.UpdateIncident)
		r.Delete("/{id}", h.DeleteIncident)
	})
}

// CreateIncidentRequest represents the request body for creating an incident.
type CreateIncidentRequest struct {
	Title       string          `json:"title" validate:"required,max=240"`
	Description *string         `json:"description" validate:"omitempty,max=4000"`
	Severity    domain.Severity `json:"severity" validate:"omitempty,min=1,max=4"`
	Assignee    *string         `json:"assignee"`
}

// ToInput converts the request to a service input.
func (r *CreateIncidentRequest) ToInput() CreateIncidentInput {
	return CreateIncidentInput{
		Title:       r.Title,
		Description: r.Description,
		Severity:    r.Severity,
		Assignee:    r.Assignee,
	}
}

// UpdateIncidentRequest represents the request body for a partial update.
// Absent fields are left unchanged; an explicit empty string clears
// description or assignee.
type UpdateIncidentRequest struct {
	Title       *string          `json:"title" validate:"omitempty,max=240"`
	Description *string          `json:"description" validate:"omitempty,max=4000"`
	Severity    *domain.Severity `json:"severity"`
	Status      *domain.Status   `json:"status"`
	Assignee    *string          `json:"assignee"`
}

// ToInput converts the request to a service input.
func (r *UpdateIncidentRequest) ToInput() UpdateIncidentInput {
	return UpdateIncidentInput{
		Title:       r.Title,
		Description: r.Description,
		Severity:    r.Severity,
		Status:      r.Status,
		Assignee:    r.Assignee,
	}
}

// CreateIncident handles POST /incidents request.
func (h *Handler) CreateIncident(w http.ResponseWriter, r *http.Request) {
	var req CreateIncidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	incident, err := h.service.Create(r.Context(), req.ToInput())
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	recordIncidentCreated(incident.Severity.String())

	httputil.JSON(w, http.StatusCreated, map[string]string{"id": incident.ID})
}

// GetIncident handles GET /incidents/{id} request.
func (h *Handler) GetIncident(w http.ResponseWriter, r *http.Request) {
	id, ok := h.incidentID(w, r)
	if !ok {
		return
	}

	incident, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.JSON(w, http.StatusOK, incident)
}

// ListIncidents handles GET /incidents request.
func (h *Handler) ListIncidents(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", DefaultPage)
	pageSize := queryInt(r, "pageSize", DefaultPageSize)

	result, err := h.service.List(r.Context(), page, pageSize)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.JSON(w, http.StatusOK, result)
}

// UpdateIncident handles PUT /incidents/{id} request.
func (h *Handler) UpdateIncident(w http.ResponseWriter, r *http.Request) {
	id, ok := h.incidentID(w, r)
	if !ok {
		return
	}

	var req UpdateIncidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	if err := h.service.Update(r.Context(), id, req.ToInput()); err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	if req.Status != nil {
		recordStatusChange(req.Status.String())
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteIncident handles DELETE /incidents/{id} request.
func (h *Handler) DeleteIncident(w http.ResponseWriter, r *http.Request) {
	id, ok := h.incidentID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	recordIncidentDeleted()

	w.WriteHeader(http.StatusNoContent)
}

// incidentID extracts and validates the id path parameter. A malformed id
// can never match a stored incident, so it is reported as not found.
func (h *Handler) incidentID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		httputil.Error(w, http.StatusNotFound, ErrIncidentNotFound.Error())
		return "", false
	}
	return id, true
}

// queryInt parses an integer query parameter, falling back to def when the
// parameter is missing or not a number. Range clamping happens in the service.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return parsed
}
