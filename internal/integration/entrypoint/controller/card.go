package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/card-invoices/internal/application/usecase/card"
	"github.com/finance-tracker/card-invoices/internal/domain/entity"
	domainerror "github.com/finance-tracker/card-invoices/internal/domain/error"
	"github.com/finance-tracker/card-invoices/internal/integration/entrypoint/dto"
)

// CardController handles card endpoints.
type CardController struct {
	listUseCase   *card.ListCardsUseCase
	createUseCase *card.CreateCardUseCase
	getUseCase    *card.GetCardUseCase
	updateUseCase *card.UpdateCardUseCase
	deleteUseCase *card.DeleteCardUseCase
}

// NewCardController creates a new card controller instance.
func NewCardController(
	listUseCase *card.ListCardsUseCase,
	createUseCase *card.CreateCardUseCase,
	getUseCase *card.GetCardUseCase,
	updateUseCase *card.UpdateCardUseCase,
	deleteUseCase *card.DeleteCardUseCase,
) *CardController {
	return &CardController{
		listUseCase:   listUseCase,
		createUseCase: createUseCase,
		getUseCase:    getUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
	}
}

// List handles GET /cards requests.
func (c *CardController) List(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), card.ListCardsInput{OwnerID: userID})
	if err != nil {
		slog.ErrorContext(ctx.Request.Context(), "Failed to list cards", "error", err, "userID", userID)
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "Failed to retrieve cards",
		})
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCardListResponse(output.Cards))
}

// Create handles POST /cards requests.
func (c *CardController) Create(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateCardRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  string(domainerror.ErrCodeMissingCardFields),
		})
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), card.CreateCardInput{
		OwnerID:          userID,
		Name:             req.Name,
		Type:             entity.CardType(req.Type),
		BillingAnchorDay: req.BillingAnchorDay,
	})
	if err != nil {
		c.handleCardError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToCardResponse(output.Card))
}

// Get handles GET /cards/:id requests.
func (c *CardController) Get(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	cardID, ok := parseIDParam(ctx, "id", "card")
	if !ok {
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), card.GetCardInput{CardID: cardID, OwnerID: userID})
	if err != nil {
		c.handleCardError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCardResponse(output.Card))
}

// Update handles PATCH /cards/:id requests.
func (c *CardController) Update(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	cardID, ok := parseIDParam(ctx, "id", "card")
	if !ok {
		return
	}

	var req dto.UpdateCardRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  string(domainerror.ErrCodeMissingCardFields),
		})
		return
	}

	input := card.UpdateCardInput{
		CardID:           cardID,
		OwnerID:          userID,
		Name:             req.Name,
		BillingAnchorDay: req.BillingAnchorDay,
	}
	if req.Type != nil {
		cardType := entity.CardType(*req.Type)
		input.Type = &cardType
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleCardError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCardResponse(output.Card))
}

// Delete handles DELETE /cards/:id requests.
func (c *CardController) Delete(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	cardID, ok := parseIDParam(ctx, "id", "card")
	if !ok {
		return
	}

	if err := c.deleteUseCase.Execute(ctx.Request.Context(), card.DeleteCardInput{CardID: cardID, OwnerID: userID}); err != nil {
		c.handleCardError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// handleCardError handles card errors and returns appropriate HTTP responses.
func (c *CardController) handleCardError(ctx *gin.Context, err error) {
	var cardErr *domainerror.CardError
	if errors.As(err, &cardErr) {
		ctx.JSON(c.getStatusCodeForCardError(cardErr.Code), dto.ErrorResponse{
			Error: cardErr.Message,
			Code:  string(cardErr.Code),
		})
		return
	}

	slog.ErrorContext(ctx.Request.Context(), "Card request failed", "error", err)
	writeInternalError(ctx)
}

// getStatusCodeForCardError maps card error codes to HTTP status codes.
func (c *CardController) getStatusCodeForCardError(code domainerror.CardErrorCode) int {
	switch code {
	case domainerror.ErrCodeCardNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeNotAuthorizedCard:
		return http.StatusForbidden
	case domainerror.ErrCodeInvalidCardType,
		domainerror.ErrCodeInvalidBillingAnchor,
		domainerror.ErrCodeCardNameRequired,
		domainerror.ErrCodeCardNameTooLong,
		domainerror.ErrCodeMissingCardFields:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
