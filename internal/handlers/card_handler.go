package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "dompet/internal/errors"
	"dompet/internal/models"
	"dompet/internal/pagination"
	"dompet/internal/services"
)

// CardHandler handles saved payment-card requests.
type CardHandler struct {
	cardService  services.CardServicer
	auditService services.AuditServicer
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(cardService services.CardServicer, auditService services.AuditServicer) *CardHandler {
	return &CardHandler{cardService: cardService, auditService: auditService}
}

// CreateCardRequest represents the request payload for saving a card
type CreateCardRequest struct {
	Alias      string             `json:"alias" binding:"required,max=100"`
	HolderName string             `json:"holder_name" binding:"required,max=100"`
	CardNumber string             `json:"card_number" binding:"required,max=32"`
	Expiry     string             `json:"expiry" binding:"required,card_expiry"`
	CVV        string             `json:"cvv" binding:"omitempty,numeric,min=3,max=4"`
	Network    models.CardNetwork `json:"network" binding:"omitempty,card_network"`
	Color      string             `json:"color" binding:"max=50"`
	BankName   string             `json:"bank_name" binding:"max=100"`
}

// UpdateCardRequest represents a partial card edit
type UpdateCardRequest struct {
	Alias      *string             `json:"alias" binding:"omitempty,min=1,max=100"`
	HolderName *string             `json:"holder_name" binding:"omitempty,min=1,max=100"`
	CardNumber *string             `json:"card_number" binding:"omitempty,max=32"`
	Expiry     *string             `json:"expiry" binding:"omitempty,card_expiry"`
	CVV        *string             `json:"cvv"`
	Network    *models.CardNetwork `json:"network" binding:"omitempty,card_network"`
	Color      *string             `json:"color" binding:"omitempty,max=50"`
	BankName   *string             `json:"bank_name" binding:"omitempty,max=100"`
}

// CreateCard handles saving a new card
// @Summary     Save a card
// @Description The card number and CVV are sealed at rest; only the last four digits are listed.
// @Tags        cards
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateCardRequest true "Card details"
// @Success     201 {object} models.SavedCard "Card saved"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /cards [post]
func (h *CardHandler) CreateCard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	card, err := h.cardService.CreateCard(userID, services.CardInput{
		Alias:      req.Alias,
		HolderName: req.HolderName,
		CardNumber: req.CardNumber,
		Expiry:     req.Expiry,
		CVV:        req.CVV,
		Network:    req.Network,
		Color:      req.Color,
		BankName:   req.BankName,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_CARD", "card", card.ID, c.ClientIP(),
		map[string]interface{}{"last4": card.Last4, "network": card.Network})

	c.JSON(http.StatusCreated, gin.H{"card": card})
}

// GetUserCards lists saved cards
// @Summary     List saved cards
// @Tags        cards
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.SavedCard] "Paginated cards"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /cards [get]
func (h *CardHandler) GetUserCards(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.cardService.GetUserCards(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetCardByID returns one card with its full number
// @Summary     Get a saved card
// @Tags        cards
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Card ID"
// @Success     200 {object} models.SavedCard "Card"
// @Failure     404 {object} ErrorResponse "Card not found"
// @Router      /cards/{id} [get]
func (h *CardHandler) GetCardByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	card, err := h.cardService.GetCardByID(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "REVEAL_CARD", "card", card.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"card": card})
}

// UpdateCard handles a partial card edit
// @Summary     Update a saved card
// @Tags        cards
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Card ID"
// @Param       request body UpdateCardRequest true "Fields to change"
// @Success     200 {object} models.SavedCard "Updated card"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Card not found"
// @Router      /cards/{id} [put]
func (h *CardHandler) UpdateCard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	card, err := h.cardService.UpdateCard(userID, c.Param("id"), services.CardUpdateFields{
		Alias:      req.Alias,
		HolderName: req.HolderName,
		CardNumber: req.CardNumber,
		Expiry:     req.Expiry,
		CVV:        req.CVV,
		Network:    req.Network,
		Color:      req.Color,
		BankName:   req.BankName,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"card": card})
}

// DeleteCard handles removing a saved card
// @Summary     Delete a saved card
// @Tags        cards
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Card ID"
// @Success     200 {object} MessageResponse "Card deleted"
// @Failure     404 {object} ErrorResponse "Card not found"
// @Router      /cards/{id} [delete]
func (h *CardHandler) DeleteCard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	cardID := c.Param("id")
	if err := h.cardService.DeleteCard(userID, cardID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_CARD", "card", cardID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Card deleted successfully"})
}
