package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "dompet/internal/errors"
	"dompet/internal/models"
	"dompet/internal/pagination"
	"dompet/internal/services"
)

// WalletHandler handles wallet-related requests.
type WalletHandler struct {
	walletService       services.WalletServicer
	notificationService services.NotificationServicer
	auditService        services.AuditServicer
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletService services.WalletServicer, notificationService services.NotificationServicer, auditService services.AuditServicer) *WalletHandler {
	return &WalletHandler{
		walletService:       walletService,
		notificationService: notificationService,
		auditService:        auditService,
	}
}

// CreateWalletRequest represents the request payload for creating a wallet
type CreateWalletRequest struct {
	Name           string            `json:"name" binding:"required,max=100"`
	Kind           models.WalletKind `json:"kind" binding:"required,wallet_kind"`
	InitialBalance int64             `json:"initial_balance"`
	DailyLimit     int64             `json:"daily_limit" binding:"min=0"`
	WeeklyLimit    int64             `json:"weekly_limit" binding:"min=0"`
	MonthlyLimit   int64             `json:"monthly_limit" binding:"min=0"`
}

// UpdateWalletRequest represents the request payload for editing a wallet.
// Omitted fields are left unchanged.
type UpdateWalletRequest struct {
	Name         *string            `json:"name" binding:"omitempty,min=1,max=100"`
	Kind         *models.WalletKind `json:"kind" binding:"omitempty,wallet_kind"`
	DailyLimit   *int64             `json:"daily_limit" binding:"omitempty,min=0"`
	WeeklyLimit  *int64             `json:"weekly_limit" binding:"omitempty,min=0"`
	MonthlyLimit *int64             `json:"monthly_limit" binding:"omitempty,min=0"`
	IsFrozen     *bool              `json:"is_frozen"`
}

// SetBalanceRequest overrides a wallet balance.
type SetBalanceRequest struct {
	Balance *int64 `json:"balance" binding:"required"`
}

// WalletResponse wraps a wallet with the notifications current after the change.
type WalletResponse struct {
	Wallet        *models.Wallet        `json:"wallet"`
	Notifications []models.Notification `json:"notifications,omitempty"`
}

// CreateWallet handles the creation of a new wallet
// @Summary     Create a wallet
// @Description Create a cash, bank or e-wallet holder with an opening balance and optional spend limits
// @Tags        wallets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateWalletRequest true "Wallet details"
// @Success     201 {object} WalletResponse "Wallet created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /wallets [post]
func (h *WalletHandler) CreateWallet(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	wallet, err := h.walletService.CreateWallet(userID, req.Name, req.Kind, req.InitialBalance, services.WalletLimits{
		Daily:   req.DailyLimit,
		Weekly:  req.WeeklyLimit,
		Monthly: req.MonthlyLimit,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_WALLET", "wallet", wallet.ID, c.ClientIP(),
		map[string]interface{}{"kind": req.Kind, "initial_balance": req.InitialBalance})

	c.JSON(http.StatusCreated, WalletResponse{Wallet: wallet})
}

// GetUserWallets handles listing the caller's wallets
// @Summary     List wallets
// @Tags        wallets
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Param       sort      query string false "name, balance or created_at; prefix with - for descending"
// @Success     200 {object} pagination.PageResponse[models.Wallet] "Paginated wallets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /wallets [get]
func (h *WalletHandler) GetUserWallets(c *gin.Context) {
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

	result, err := h.walletService.GetUserWallets(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetWalletByID handles fetching one wallet
// @Summary     Get a wallet
// @Tags        wallets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Wallet ID"
// @Success     200 {object} WalletResponse "Wallet"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Wallet not found"
// @Router      /wallets/{id} [get]
func (h *WalletHandler) GetWalletByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	wallet, err := h.walletService.GetWalletByID(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, WalletResponse{Wallet: wallet})
}

// UpdateWallet handles editing a wallet's name, kind, limits or frozen flag
// @Summary     Update a wallet
// @Description Partial edit. The balance is not editable here; use the balance endpoint.
// @Tags        wallets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string              true "Wallet ID"
// @Param       request body UpdateWalletRequest true "Fields to change"
// @Success     200 {object} WalletResponse "Updated wallet and current notifications"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Wallet not found"
// @Router      /wallets/{id} [put]
func (h *WalletHandler) UpdateWallet(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	wallet, err := h.walletService.UpdateWallet(userID, c.Param("id"), services.WalletUpdateFields{
		Name:         req.Name,
		Kind:         req.Kind,
		DailyLimit:   req.DailyLimit,
		WeeklyLimit:  req.WeeklyLimit,
		MonthlyLimit: req.MonthlyLimit,
		IsFrozen:     req.IsFrozen,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	if req.IsFrozen != nil {
		h.auditService.Log(userID, "FREEZE_WALLET", "wallet", wallet.ID, c.ClientIP(),
			map[string]interface{}{"is_frozen": *req.IsFrozen})
	}

	c.JSON(http.StatusOK, WalletResponse{
		Wallet:        wallet,
		Notifications: currentNotifications(c, h.notificationService, userID),
	})
}

// SetWalletBalance handles a manual balance override
// @Summary     Override a wallet balance
// @Description Sets the balance directly without recording a transaction. Rejected for frozen wallets.
// @Tags        wallets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Wallet ID"
// @Param       request body SetBalanceRequest true "New balance"
// @Success     200 {object} WalletResponse "Updated wallet"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Wallet not found"
// @Failure     409 {object} ErrorResponse "Wallet frozen"
// @Router      /wallets/{id}/balance [put]
func (h *WalletHandler) SetWalletBalance(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	wallet, err := h.walletService.SetWalletBalance(userID, c.Param("id"), *req.Balance)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "SET_WALLET_BALANCE", "wallet", wallet.ID, c.ClientIP(),
		map[string]interface{}{"balance": *req.Balance})

	c.JSON(http.StatusOK, WalletResponse{Wallet: wallet})
}

// DeleteWallet handles removing a wallet without transactions
// @Summary     Delete a wallet
// @Tags        wallets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Wallet ID"
// @Success     200 {object} MessageResponse "Wallet deleted"
// @Failure     404 {object} ErrorResponse "Wallet not found"
// @Failure     409 {object} ErrorResponse "Wallet still has transactions"
// @Router      /wallets/{id} [delete]
func (h *WalletHandler) DeleteWallet(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	walletID := c.Param("id")
	if err := h.walletService.DeleteWallet(userID, walletID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_WALLET", "wallet", walletID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Wallet deleted successfully"})
}
