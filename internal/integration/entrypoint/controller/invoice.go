package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/card-invoices/internal/application/usecase/invoice"
	domainerror "github.com/finance-tracker/card-invoices/internal/domain/error"
	"github.com/finance-tracker/card-invoices/internal/integration/entrypoint/dto"
)

// InvoiceController handles invoice endpoints.
type InvoiceController struct {
	listCardUseCase *invoice.ListCardInvoicesUseCase
	toggleUseCase   *invoice.TogglePaidCycleUseCase
	resolveUseCase  *invoice.ResolveCycleUseCase
	overviewUseCase *invoice.ListAllInvoicesUseCase
	loc             *time.Location
}

// NewInvoiceController creates a new invoice controller instance.
func NewInvoiceController(
	listCardUseCase *invoice.ListCardInvoicesUseCase,
	toggleUseCase *invoice.TogglePaidCycleUseCase,
	resolveUseCase *invoice.ResolveCycleUseCase,
	overviewUseCase *invoice.ListAllInvoicesUseCase,
	loc *time.Location,
) *InvoiceController {
	return &InvoiceController{
		listCardUseCase: listCardUseCase,
		toggleUseCase:   toggleUseCase,
		resolveUseCase:  resolveUseCase,
		overviewUseCase: overviewUseCase,
		loc:             loc,
	}
}

// ListForCard handles GET /cards/:id/invoices requests.
func (c *InvoiceController) ListForCard(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	cardID, ok := parseIDParam(ctx, "id", "card")
	if !ok {
		return
	}

	output, err := c.listCardUseCase.Execute(ctx.Request.Context(), invoice.ListCardInvoicesInput{
		OwnerID: userID,
		CardID:  cardID,
	})
	if err != nil {
		c.handleInvoiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCardInvoicesResponse(&output.CardInvoices))
}

// TogglePaid handles POST /cards/:id/invoices/:cycle_id/toggle-paid requests.
func (c *InvoiceController) TogglePaid(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	cardID, ok := parseIDParam(ctx, "id", "card")
	if !ok {
		return
	}

	output, err := c.toggleUseCase.Execute(ctx.Request.Context(), invoice.TogglePaidCycleInput{
		OwnerID: userID,
		CardID:  cardID,
		CycleID: ctx.Param("cycle_id"),
	})
	if err != nil {
		c.handleInvoiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTogglePaidResponse(output))
}

// Resolve handles GET /cards/:id/invoices/resolve?date= requests.
func (c *InvoiceController) Resolve(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	cardID, ok := parseIDParam(ctx, "id", "card")
	if !ok {
		return
	}

	dateStr := ctx.Query("date")
	if dateStr == "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "date query parameter is required",
			Code:  string(domainerror.ErrCodeInvalidInvoiceDate),
		})
		return
	}
	date, err := dto.ParseDate(dateStr, c.loc)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid date",
			Code:    string(domainerror.ErrCodeInvalidInvoiceDate),
			Details: err.Error(),
		})
		return
	}

	output, err := c.resolveUseCase.Execute(ctx.Request.Context(), invoice.ResolveCycleInput{
		OwnerID: userID,
		CardID:  cardID,
		Date:    date,
	})
	if err != nil {
		c.handleInvoiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToResolveCycleResponse(output))
}

// Overview handles GET /invoices requests.
func (c *InvoiceController) Overview(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	output, err := c.overviewUseCase.Execute(ctx.Request.Context(), invoice.ListAllInvoicesInput{OwnerID: userID})
	if err != nil {
		c.handleInvoiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToInvoiceOverviewResponse(output))
}

// handleInvoiceError handles invoice errors and returns appropriate HTTP responses.
func (c *InvoiceController) handleInvoiceError(ctx *gin.Context, err error) {
	var invErr *domainerror.InvoiceError
	if errors.As(err, &invErr) {
		ctx.JSON(c.getStatusCodeForInvoiceError(invErr.Code), dto.ErrorResponse{
			Error: invErr.Message,
			Code:  string(invErr.Code),
		})
		return
	}

	slog.ErrorContext(ctx.Request.Context(), "Invoice request failed", "error", err)
	writeInternalError(ctx)
}

// getStatusCodeForInvoiceError maps invoice error codes to HTTP status codes.
func (c *InvoiceController) getStatusCodeForInvoiceError(code domainerror.InvoiceErrorCode) int {
	switch code {
	case domainerror.ErrCodeInvoiceCardNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeInvoiceCardNotOwned:
		return http.StatusForbidden
	case domainerror.ErrCodeInvalidCycleID, domainerror.ErrCodeInvalidInvoiceDate:
		return http.StatusBadRequest
	case domainerror.ErrCodeInvalidCardConfiguration:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
