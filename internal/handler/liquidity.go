package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/opsdash/liquidity-engine/internal/domain"
	"github.com/opsdash/liquidity-engine/internal/service"
	customError "github.com/opsdash/liquidity-engine/pkg/errors"
	"github.com/opsdash/liquidity-engine/pkg/response"
)

type LiquidityHandler struct {
	service   *service.LiquidityService
	validator *validator.Validate
	logger    *logrus.Logger
}

func NewLiquidityHandler(service *service.LiquidityService, logger *logrus.Logger) *LiquidityHandler {
	return &LiquidityHandler{
		service:   service,
		validator: validator.New(),
		logger:    logger,
	}
}

// CreateWeek handles POST /weeks. A seed failure does not undo the created
// week: the week is returned anyway and the failure is logged.
func (h *LiquidityHandler) CreateWeek(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateWeekRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Invalid request", err)
		return
	}

	week, err := h.service.CreateWeek(r.Context(), &request)
	if err != nil {
		if week != nil && isCode(err, customError.ErrCodeSeedError) {
			h.logger.WithError(err).WithField("week_id", week.ID).Warn("week created, seeding failed")
			response.Created(w, week)
			return
		}
		h.respondError(w, "Error creating week", err)
		return
	}

	response.Created(w, week)
}

// EnsureCurrentWeek handles POST /weeks/current. As with CreateWeek, a seed
// failure leaves the week usable and is not a blocking error.
func (h *LiquidityHandler) EnsureCurrentWeek(w http.ResponseWriter, r *http.Request) {
	week, err := h.service.EnsureCurrentWeek(r.Context())
	if err != nil {
		if week != nil && isCode(err, customError.ErrCodeSeedError) {
			h.logger.WithError(err).WithField("week_id", week.ID).Warn("current week created, seeding failed")
			response.Success(w, week)
			return
		}
		h.respondError(w, "Error ensuring current week", err)
		return
	}

	response.Success(w, week)
}

// ListWeeks handles GET /weeks
func (h *LiquidityHandler) ListWeeks(w http.ResponseWriter, r *http.Request) {
	weeks, err := h.service.ListWeeks(r.Context())
	if err != nil {
		h.respondError(w, "Error listing weeks", err)
		return
	}

	response.Success(w, weeks)
}

// GetWeek handles GET /weeks/{weekId}
func (h *LiquidityHandler) GetWeek(w http.ResponseWriter, r *http.Request) {
	weekID, ok := pathUUID(w, r, "weekId")
	if !ok {
		return
	}

	detail, err := h.service.GetWeek(r.Context(), weekID)
	if err != nil {
		h.respondError(w, "Error loading week", err)
		return
	}

	response.Success(w, detail)
}

// UpdateWeek handles PATCH /weeks/{weekId}
func (h *LiquidityHandler) UpdateWeek(w http.ResponseWriter, r *http.Request) {
	weekID, ok := pathUUID(w, r, "weekId")
	if !ok {
		return
	}

	var request domain.UpdateWeekRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	week, err := h.service.UpdateWeek(r.Context(), weekID, &domain.WeekUpdate{
		OpeningBalance: request.OpeningBalance,
		AlertThreshold: request.AlertThreshold,
		Notes:          request.Notes,
	})
	if err != nil {
		h.respondError(w, "Error updating week", err)
		return
	}

	response.Success(w, week)
}

// AddLineItem handles POST /weeks/{weekId}/items
func (h *LiquidityHandler) AddLineItem(w http.ResponseWriter, r *http.Request) {
	weekID, ok := pathUUID(w, r, "weekId")
	if !ok {
		return
	}

	var request domain.AddLineItemRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Invalid request", err)
		return
	}

	item, err := h.service.AddLineItem(r.Context(), weekID, &request)
	if err != nil {
		h.respondError(w, "Failed to add item", err)
		return
	}

	response.Created(w, item)
}

// UpdateLineItem handles PATCH /items/{itemId}
func (h *LiquidityHandler) UpdateLineItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := pathUUID(w, r, "itemId")
	if !ok {
		return
	}

	var request domain.UpdateLineItemRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Invalid request", err)
		return
	}

	update := &domain.LineItemUpdate{
		ActualAmount: request.ActualAmount,
		Status:       request.Status,
	}
	if request.PaymentDate != nil {
		parsed, err := time.ParseInLocation("2006-01-02", *request.PaymentDate, time.UTC)
		if err != nil {
			response.BadRequest(w, "Invalid payment date", err)
			return
		}
		update.PaymentDate = &parsed
	}

	item, err := h.service.UpdateLineItem(r.Context(), itemID, update)
	if err != nil {
		h.respondError(w, "Failed to update item", err)
		return
	}

	response.Success(w, item)
}

// MarkDone handles POST /items/{itemId}/done
func (h *LiquidityHandler) MarkDone(w http.ResponseWriter, r *http.Request) {
	itemID, ok := pathUUID(w, r, "itemId")
	if !ok {
		return
	}

	item, err := h.service.MarkDone(r.Context(), itemID)
	if err != nil {
		h.respondError(w, "Failed to mark item done", err)
		return
	}

	response.Success(w, item)
}

// RecordActual handles POST /items/{itemId}/actual
func (h *LiquidityHandler) RecordActual(w http.ResponseWriter, r *http.Request) {
	itemID, ok := pathUUID(w, r, "itemId")
	if !ok {
		return
	}

	var request domain.RecordActualRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	item, err := h.service.RecordActual(r.Context(), itemID, request.Amount)
	if err != nil {
		h.respondError(w, "Failed to record actual amount", err)
		return
	}

	response.Success(w, item)
}

// DeleteLineItem handles DELETE /items/{itemId}
func (h *LiquidityHandler) DeleteLineItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := pathUUID(w, r, "itemId")
	if !ok {
		return
	}

	if err := h.service.DeleteLineItem(r.Context(), itemID); err != nil {
		h.respondError(w, "Failed to delete item", err)
		return
	}

	response.NoContent(w)
}

// MonthlyCalendar handles GET /calendar/{year}/{month}
func (h *LiquidityHandler) MonthlyCalendar(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	year, err := strconv.Atoi(vars["year"])
	if err != nil {
		response.BadRequest(w, "Invalid year", err)
		return
	}

	month, err := strconv.Atoi(vars["month"])
	if err != nil || month < 1 || month > 12 {
		response.BadRequest(w, "Invalid month", err)
		return
	}

	days, err := h.service.MonthlyPaymentDays(r.Context(), year, time.Month(month))
	if err != nil {
		h.respondError(w, "Error loading monthly calendar", err)
		return
	}

	response.Success(w, days)
}

// ExportWeek handles GET /weeks/{weekId}/export
func (h *LiquidityHandler) ExportWeek(w http.ResponseWriter, r *http.Request) {
	weekID, ok := pathUUID(w, r, "weekId")
	if !ok {
		return
	}

	f, err := h.service.ExportWeekXLSX(r.Context(), weekID)
	if err != nil {
		h.respondError(w, "Error exporting week", err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=week-"+weekID.String()+".xlsx")
	if err := f.Write(w); err != nil {
		h.logger.WithError(err).Error("writing workbook")
	}
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.BadRequest(w, "Invalid "+name, err)
		return uuid.Nil, false
	}
	return id, true
}

func (h *LiquidityHandler) respondError(w http.ResponseWriter, message string, err error) {
	var businessErr *customError.BusinessError
	if errors.As(err, &businessErr) {
		switch businessErr.Code {
		case customError.ErrCodeWeekNotFound, customError.ErrCodeLineItemNotFound, customError.ErrCodeInvoiceNotFound:
			response.Error(w, http.StatusNotFound, message, err)
			return
		case customError.ErrCodeWeekAlreadyExists:
			response.Conflict(w, message, err)
			return
		}
	}

	response.InternalServerError(w, message, err)
}

func isCode(err error, code string) bool {
	var businessErr *customError.BusinessError
	return errors.As(err, &businessErr) && businessErr.Code == code
}
