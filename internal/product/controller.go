package product

import (
	"encoding/json"
	"net/http"
	"strconv"

	apperrors "comptoir/internal/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Controller struct {
	useCase UseCase
	logger  *zap.Logger
}

func NewController(useCase UseCase, logger *zap.Logger) *Controller {
	return &Controller{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *Controller) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if err := validateProductRequest(req); err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	dto, err := c.useCase.Create(r.Context(), req)
	if err != nil {
		c.handleError(w, err)
		return
	}

	c.writeData(w, http.StatusCreated, dto)
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

	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if err := validateProductRequest(req); err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	dto, err := c.useCase.Update(r.Context(), id, req)
	if err != nil {
		c.handleError(w, err)
		return
	}

	c.writeData(w, http.StatusOK, dto)
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

	if err := c.useCase.Delete(r.Context(), id); err != nil {
		c.handleError(w, err)
		return
	}

	c.writeMessage(w, http.StatusOK, "product deleted")
}

func (c *Controller) HandleGetByReference(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")
	if reference == "" {
		c.writeValidationError(w, "invalid reference", apperrors.ValidationDetail{
			Field:   "reference",
			Message: "reference is required",
		})
		return
	}

	dto, err := c.useCase.GetByReference(r.Context(), reference)
	if err != nil {
		c.handleError(w, err)
		return
	}

	c.writeData(w, http.StatusOK, dto)
}

func (c *Controller) HandleList(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Search: r.URL.Query().Get("search"),
	}
	filter.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	filter.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))

	resp, err := c.useCase.List(r.Context(), filter)
	if err != nil {
		c.handleError(w, err)
		return
	}

	c.writeData(w, http.StatusOK, resp)
}

func validateProductRequest(req ProductRequest) error {
	var details []apperrors.ValidationDetail

	if req.Reference == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "reference",
			Message: "reference is required",
		})
	}

	if req.Designation == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "designation",
			Message: "designation is required",
		})
	}

	if req.Quantity < 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "quantity",
			Message: "quantity must be non-negative",
		})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	return nil
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

	c.logger.Error("product request failed", zap.Error(err))
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
