package category

import (
	"encoding/json"
	"net/http"
	"strconv"

	"comptoir/internal/domain"
	apperrors "comptoir/internal/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Controller struct {
	service Service
	logger  *zap.Logger
}

func NewController(service Service, logger *zap.Logger) *Controller {
	return &Controller{
		service: service,
		logger:  logger,
	}
}

func (c *Controller) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if req.Name == "" {
		c.writeValidationError(w, "validation failed", apperrors.ValidationDetail{
			Field:   "name",
			Message: "name is required",
		})
		return
	}

	created, err := c.service.Create(r.Context(), domain.Category{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		c.handleError(w, err)
		return
	}

	c.writeData(w, http.StatusCreated, toDTO(*created))
}

func (c *Controller) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		c.writeValidationError(w, "invalid id", apperrors.ValidationDetail{
			Field:   "id",
			Message: "id must be a positive integer",
		})
		return
	}

	var req CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if req.Name == "" {
		c.writeValidationError(w, "validation failed", apperrors.ValidationDetail{
			Field:   "name",
			Message: "name is required",
		})
		return
	}

	updated, err := c.service.Update(r.Context(), domain.Category{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		c.handleError(w, err)
		return
	}

	c.writeData(w, http.StatusOK, toDTO(*updated))
}

func (c *Controller) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		c.writeValidationError(w, "invalid id", apperrors.ValidationDetail{
			Field:   "id",
			Message: "id must be a positive integer",
		})
		return
	}

	if err := c.service.Delete(r.Context(), id); err != nil {
		c.handleError(w, err)
		return
	}

	c.writeMessage(w, http.StatusOK, "category deleted")
}

func (c *Controller) HandleList(w http.ResponseWriter, r *http.Request) {
	categories, err := c.service.List(r.Context())
	if err != nil {
		c.handleError(w, err)
		return
	}

	dtos := make([]CategoryDTO, 0, len(categories))
	for _, cat := range categories {
		dtos = append(dtos, toDTO(cat))
	}

	c.writeData(w, http.StatusOK, dtos)
}

func toDTO(c domain.Category) CategoryDTO {
	return CategoryDTO{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
	}
}

func (c *Controller) handleError(w http.ResponseWriter, err error) {
	if nf, ok := apperrors.IsNotFoundError(err); ok {
		c.writeError(w, http.StatusNotFound, nf.Message)
		return
	}
	if ce, ok := apperrors.IsConflictError(err); ok {
		c.writeError(w, http.StatusConflict, ce.Message)
		return
	}

	c.logger.Error("category request failed", zap.Error(err))
	c.writeError(w, http.StatusInternalServerError, "an unexpected error occurred")
}

type envelope struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

type validationErrorResponse struct {
	Status  string                       `json:"status"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func (c *Controller) writeData(w http.ResponseWriter, status int, data interface{}) {
	c.writeJSON(w, status, envelope{Status: "success", Data: data})
}

func (c *Controller) writeMessage(w http.ResponseWriter, status int, message string) {
	c.writeJSON(w, status, envelope{Status: "success", Message: message})
}

func (c *Controller) writeError(w http.ResponseWriter, status int, message string) {
	c.writeJSON(w, status, envelope{Status: "error", Message: message})
}

func (c *Controller) writeValidationError(w http.ResponseWriter, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		Status:  "error",
		Message: message,
		Details: details,
	})
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
