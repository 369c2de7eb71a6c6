package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"comptoir/internal/domain"
	"comptoir/internal/dto"
	apperrors "comptoir/internal/errors"
	"comptoir/internal/invoice"
	"comptoir/internal/stock"
)

type CreateSaleUseCase interface {
	CreateSale(ctx context.Context, req dto.CreateSaleRequest) (*dto.CreateSaleResult, error)
}

type GetSaleUseCase interface {
	GetSale(ctx context.Context, id uint) (*dto.SaleDTO, error)
	ListSales(ctx context.Context, page, limit int) (*dto.SaleListResponse, error)
	BuildDocument(ctx context.Context, id uint, format invoice.Format) (string, error)
}

type StockChecker interface {
	Validate(ctx context.Context, items []domain.LineItem) *stock.Report
}

type SaleController struct {
	createUseCase CreateSaleUseCase
	getUseCase    GetSaleUseCase
	stockChecker  StockChecker
	logger        *zap.Logger
}

func NewSaleController(
	createUseCase CreateSaleUseCase,
	getUseCase GetSaleUseCase,
	stockChecker StockChecker,
	logger *zap.Logger,
) *SaleController {
	return &SaleController{
		createUseCase: createUseCase,
		getUseCase:    getUseCase,
		stockChecker:  stockChecker,
		logger:        logger,
	}
}

func (c *SaleController) HandleCreate(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.CreateSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if err := validateCreateSaleRequest(req); err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	result, err := c.createUseCase.CreateSale(r.Context(), req)
	if err != nil {
		c.handleError(w, err, logger)
		return
	}

	if result.Blocked {
		c.writeJSON(w, http.StatusUnprocessableEntity, envelope{
			Status:  "error",
			Message: "insufficient stock",
			Data:    result,
		})
		return
	}

	c.writeData(w, http.StatusCreated, result)
}

func (c *SaleController) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := c.parseID(w, r)
	if !ok {
		return
	}

	sale, err := c.getUseCase.GetSale(r.Context(), id)
	if err != nil {
		c.handleError(w, err, c.logger)
		return
	}

	c.writeData(w, http.StatusOK, sale)
}

func (c *SaleController) HandleList(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	resp, err := c.getUseCase.ListSales(r.Context(), page, limit)
	if err != nil {
		c.handleError(w, err, c.logger)
		return
	}

	c.writeData(w, http.StatusOK, resp)
}

func (c *SaleController) HandleValidateStock(w http.ResponseWriter, r *http.Request) {
	var req dto.ValidateStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if err := validateItems(req.Items); err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	items := make([]domain.LineItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = domain.NewLineItem(item.Reference, "", 0, 0, item.Quantity)
	}

	report := c.stockChecker.Validate(r.Context(), items)
	c.writeData(w, http.StatusOK, report)
}

func (c *SaleController) HandleDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := c.parseID(w, r)
	if !ok {
		return
	}

	format, err := invoice.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		c.writeValidationError(w, "invalid format", apperrors.ValidationDetail{
			Field:   "format",
			Message: "format must be one of A4, A5, BL-A4, BL-A5, T80, T58",
		})
		return
	}

	html, err := c.getUseCase.BuildDocument(r.Context(), id, format)
	if err != nil {
		c.handleError(w, err, c.logger)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(html)); err != nil {
		c.logger.Error("failed to write document", zap.Error(err))
	}
}

func (c *SaleController) parseID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		c.writeValidationError(w, "invalid id", apperrors.ValidationDetail{
			Field:   "id",
			Message: "id must be a positive integer",
		})
		return 0, false
	}
	return uint(id), true
}

func validateCreateSaleRequest(req dto.CreateSaleRequest) error {
	var details []apperrors.ValidationDetail

	if req.CustomerID <= 0 {
		msg := "customerId must be a positive integer"
		if req.CustomerID == 0 {
			msg = "customerId is required"
		}
		details = append(details, apperrors.ValidationDetail{
			Field:   "customerId",
			Message: msg,
		})
	}

	if err := validateItems(req.Items); err != nil {
		ve, _ := apperrors.IsValidationError(err)
		details = append(details, ve.Details...)
	}

	if req.Discount != nil {
		kind := req.Discount.Kind
		if kind != "PERCENT" && kind != "ABSOLUTE" {
			details = append(details, apperrors.ValidationDetail{
				Field:   "discount.kind",
				Message: "discount kind must be PERCENT or ABSOLUTE",
			})
		}
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	return nil
}

func validateItems(items []dto.SaleItemRequest) error {
	var details []apperrors.ValidationDetail

	if len(items) == 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: "items must not be empty",
		})
	}

	if len(items) > 100 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: "items exceeds maximum of 100",
		})
	}

	seen := make(map[string]bool)

	for idx, item := range items {
		if item.Reference == "" {
			details = append(details, apperrors.ValidationDetail{
				Field:   "items[" + strconv.Itoa(idx) + "].reference",
				Message: "reference is required",
			})
		}

		if seen[item.Reference] {
			details = append(details, apperrors.ValidationDetail{
				Field:   "items[" + strconv.Itoa(idx) + "].reference",
				Message: "reference must not be duplicated",
			})
		}
		seen[item.Reference] = true

		if item.Quantity < 1 || item.Quantity > 10000 {
			details = append(details, apperrors.ValidationDetail{
				Field:   "items[" + strconv.Itoa(idx) + "].quantity",
				Message: "quantity must be between 1 and 10000",
			})
		}
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	return nil
}

func (c *SaleController) handleError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if nf, ok := apperrors.IsNotFoundError(err); ok {
		c.writeError(w, http.StatusNotFound, nf.Message)
		return
	}
	if ce, ok := apperrors.IsConflictError(err); ok {
		c.writeError(w, http.StatusConflict, ce.Message)
		return
	}
	if de, ok := apperrors.IsDeadlockError(err); ok {
		c.writeError(w, http.StatusConflict, de.Message)
		return
	}

	logger.Error("unexpected error", zap.Error(err))
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

func (c *SaleController) writeData(w http.ResponseWriter, status int, data interface{}) {
	c.writeJSON(w, status, envelope{Status: "success", Data: data})
}

func (c *SaleController) writeError(w http.ResponseWriter, status int, message string) {
	c.writeJSON(w, status, envelope{Status: "error", Message: message})
}

func (c *SaleController) writeValidationError(w http.ResponseWriter, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		Status:  "error",
		Message: message,
		Details: details,
	})
}

func (c *SaleController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
