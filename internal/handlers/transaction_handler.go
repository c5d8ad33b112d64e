package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "dompet/internal/errors"
	"dompet/internal/events"
	"dompet/internal/models"
	"dompet/internal/pagination"
	"dompet/internal/services"
)

// TransactionHandler handles transaction and transfer requests.
type TransactionHandler struct {
	transactionService  services.TransactionServicer
	transferService     services.TransferServicer
	notificationService services.NotificationServicer
	publisher           events.Publisher
	auditService        services.AuditServicer
	loc                 *time.Location
}

// NewTransactionHandler creates a new TransactionHandler. Date-only inputs
// are read in loc.
func NewTransactionHandler(
	transactionService services.TransactionServicer,
	transferService services.TransferServicer,
	notificationService services.NotificationServicer,
	publisher events.Publisher,
	auditService services.AuditServicer,
	loc *time.Location,
) *TransactionHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &TransactionHandler{
		transactionService:  transactionService,
		transferService:     transferService,
		notificationService: notificationService,
		publisher:           publisher,
		auditService:        auditService,
		loc:                 loc,
	}
}

// CreateTransactionRequest represents the request payload for creating a transaction
type CreateTransactionRequest struct {
	WalletID   string                 `json:"wallet_id" binding:"required"`
	CategoryID string                 `json:"category_id" binding:"required"`
	Type       models.TransactionType `json:"type" binding:"required,transaction_type"`
	Amount     int64                  `json:"amount" binding:"required,gt=0"`
	Note       string                 `json:"note" binding:"max=500"`
	ReceiptURL string                 `json:"receipt_url" binding:"omitempty,url,max=2048"`
	Date       *string                `json:"date"`
}

// UpdateTransactionRequest represents a partial transaction edit.
type UpdateTransactionRequest struct {
	WalletID   *string                 `json:"wallet_id" binding:"omitempty,min=1"`
	CategoryID *string                 `json:"category_id" binding:"omitempty,min=1"`
	Type       *models.TransactionType `json:"type" binding:"omitempty,transaction_type"`
	Amount     *int64                  `json:"amount" binding:"omitempty,gt=0"`
	Note       *string                 `json:"note" binding:"omitempty,max=500"`
	ReceiptURL *string                 `json:"receipt_url" binding:"omitempty,max=2048"`
	Date       *string                 `json:"date"`
}

// CreateTransferRequest represents the request payload for creating a transfer
type CreateTransferRequest struct {
	FromWalletID string  `json:"from_wallet_id" binding:"required"`
	ToWalletID   string  `json:"to_wallet_id" binding:"required"`
	Amount       int64   `json:"amount" binding:"required,gt=0"`
	Note         string  `json:"note" binding:"max=500"`
	Date         *string `json:"date"`
}

// LedgerResponse is returned by every balance-affecting transaction call.
type LedgerResponse struct {
	Transaction   *models.Transaction   `json:"transaction"`
	Wallets       []models.Wallet       `json:"wallets"`
	Notifications []models.Notification `json:"notifications"`
}

// TransferResponse is returned by the transfer endpoint.
type TransferResponse struct {
	*services.TransferResult
	Notifications []models.Notification `json:"notifications"`
}

// CreateTransaction handles the creation of a new transaction
// @Summary     Create a transaction
// @Description Record an income or expense against a wallet. The response carries the new wallet balance and current notifications.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} LedgerResponse "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input or category mismatch"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Wallet or category not found"
// @Failure     409 {object} ErrorResponse "Wallet frozen"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date, err := parseDate(req.Date, h.loc)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.CreateTransaction(
		userID,
		req.WalletID,
		req.CategoryID,
		req.Type,
		req.Amount,
		req.Note,
		req.ReceiptURL,
		date,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_TRANSACTION", "transaction", result.Transaction.ID, c.ClientIP(),
		map[string]interface{}{"type": req.Type, "amount": req.Amount, "wallet_id": req.WalletID})
	publish(c, h.publisher, events.Event{
		Type:           events.TransactionCreated,
		UserID:         userID,
		TransactionIDs: []string{result.Transaction.ID},
		WalletIDs:      walletIDs(result.Wallets),
		Amount:         result.Transaction.Amount,
	})

	c.JSON(http.StatusCreated, h.ledgerResponse(c, userID, result))
}

// UpdateTransaction handles a partial transaction edit
// @Summary     Update a transaction
// @Description Changing the wallet, type or amount moves the balance effect. Transfer legs accept only date, note and receipt edits.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                   true "Transaction ID"
// @Param       request body UpdateTransactionRequest true "Fields to change"
// @Success     200 {object} LedgerResponse "Transaction updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Transaction, wallet or category not found"
// @Failure     409 {object} ErrorResponse "Wallet frozen"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	fields := services.TransactionUpdateFields{
		WalletID:   req.WalletID,
		CategoryID: req.CategoryID,
		Type:       req.Type,
		Amount:     req.Amount,
		Note:       req.Note,
		ReceiptURL: req.ReceiptURL,
	}
	if req.Date != nil {
		date, err := parseDate(req.Date, h.loc)
		if err != nil {
			respondWithError(c, err)
			return
		}
		fields.Date = &date
	}

	result, err := h.transactionService.UpdateTransaction(userID, c.Param("id"), fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_TRANSACTION", "transaction", result.Transaction.ID, c.ClientIP(), nil)
	publish(c, h.publisher, events.Event{
		Type:           events.TransactionUpdated,
		UserID:         userID,
		TransactionIDs: []string{result.Transaction.ID},
		WalletIDs:      walletIDs(result.Wallets),
		Amount:         result.Transaction.Amount,
	})

	c.JSON(http.StatusOK, h.ledgerResponse(c, userID, result))
}

// DeleteTransaction handles deleting a transaction
// @Summary     Delete a transaction
// @Description Reverts the balance effect. Deleting either leg of a transfer removes both.
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} LedgerResponse "Deleted transaction and affected wallets"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     409 {object} ErrorResponse "Wallet frozen"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.DeleteTransaction(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	ev := events.Event{
		Type:           events.TransactionDeleted,
		UserID:         userID,
		TransactionIDs: []string{result.Transaction.ID},
		WalletIDs:      walletIDs(result.Wallets),
		Amount:         result.Transaction.Amount,
	}
	if result.Transaction.TransferID != nil {
		ev.TransferID = *result.Transaction.TransferID
	}
	h.auditService.Log(userID, "DELETE_TRANSACTION", "transaction", result.Transaction.ID, c.ClientIP(),
		map[string]interface{}{"amount": result.Transaction.Amount, "wallet_id": result.Transaction.WalletID})
	publish(c, h.publisher, ev)

	c.JSON(http.StatusOK, h.ledgerResponse(c, userID, result))
}

// CreateTransfer handles a transfer between two wallets
// @Summary     Create a transfer
// @Description Move money between two of the caller's wallets as a linked expense and income pair.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransferRequest true "Transfer details"
// @Success     201 {object} TransferResponse "Transfer created"
// @Failure     400 {object} ErrorResponse "Invalid transfer"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Wallet not found"
// @Failure     500 {object} ErrorResponse "Transfer failed"
// @Router      /transactions/transfer [post]
func (h *TransactionHandler) CreateTransfer(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidTransfer, err.Error()))
		return
	}

	date, err := parseDate(req.Date, h.loc)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transferService.CreateTransfer(userID, req.FromWalletID, req.ToWalletID, req.Amount, req.Note, date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_TRANSFER", "transfer", result.TransferID, c.ClientIP(),
		map[string]interface{}{
			"from_wallet_id": req.FromWalletID,
			"to_wallet_id":   req.ToWalletID,
			"amount":         req.Amount,
		})
	publish(c, h.publisher, events.Event{
		Type:           events.TransferCreated,
		UserID:         userID,
		TransactionIDs: []string{result.Outgoing.ID, result.Incoming.ID},
		TransferID:     result.TransferID,
		WalletIDs:      walletIDs(result.Wallets),
		Amount:         req.Amount,
	})

	c.JSON(http.StatusCreated, TransferResponse{
		TransferResult: result,
		Notifications:  currentNotifications(c, h.notificationService, userID),
	})
}

// GetTransactionByID handles fetching one transaction
// @Summary     Get a transaction
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} models.Transaction "Transaction"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// GetUserTransactions handles the retrieval of all transactions for the authenticated user
// @Summary     List transactions
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Param       sort        query string false "date, amount or created_at; prefix with - for descending (default -date)"
// @Param       wallet_id   query string false "Filter by wallet"
// @Param       category_id query string false "Filter by category"
// @Param       type        query string false "income or expense"
// @Param       from_date   query string false "RFC3339 or YYYY-MM-DD"
// @Param       to_date     query string false "RFC3339 or YYYY-MM-DD (whole day included)"
// @Param       min_amount  query int    false "Minimum amount"
// @Param       max_amount  query int    false "Maximum amount"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /transactions [get]
func (h *TransactionHandler) GetUserTransactions(c *gin.Context) {
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

	filter, err := parseTransactionFilter(c, h.loc)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if v := c.Query("wallet_id"); v != "" {
		filter.WalletID = &v
	}

	result, err := h.transactionService.GetUserTransactions(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetWalletTransactions handles the retrieval of transactions for one wallet
// @Summary     List wallet transactions
// @Tags        wallets,transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id          path  string true  "Wallet ID"
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Param       category_id query string false "Filter by category"
// @Param       type        query string false "income or expense"
// @Param       from_date   query string false "RFC3339 or YYYY-MM-DD"
// @Param       to_date     query string false "RFC3339 or YYYY-MM-DD (whole day included)"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     404 {object} ErrorResponse "Wallet not found"
// @Router      /wallets/{id}/transactions [get]
func (h *TransactionHandler) GetWalletTransactions(c *gin.Context) {
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

	filter, err := parseTransactionFilter(c, h.loc)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.GetWalletTransactions(userID, c.Param("id"), page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *TransactionHandler) ledgerResponse(c *gin.Context, userID string, result *services.LedgerResult) LedgerResponse {
	return LedgerResponse{
		Transaction:   result.Transaction,
		Wallets:       result.Wallets,
		Notifications: currentNotifications(c, h.notificationService, userID),
	}
}

func parseTransactionFilter(c *gin.Context, loc *time.Location) (services.TransactionFilter, error) {
	var filter services.TransactionFilter

	if v := c.Query("from_date"); v != "" {
		t, _, err := parseFlexibleTime(v, loc)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid from_date format, use RFC3339 or YYYY-MM-DD")
		}
		filter.FromDate = &t
	}

	if v := c.Query("to_date"); v != "" {
		t, dateOnly, err := parseFlexibleTime(v, loc)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid to_date format, use RFC3339 or YYYY-MM-DD")
		}
		if dateOnly {
			t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		filter.ToDate = &t
	}

	if v := c.Query("type"); v != "" {
		txType := models.TransactionType(v)
		if !txType.Valid() {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid type, must be income or expense")
		}
		filter.Type = &txType
	}

	if v := c.Query("category_id"); v != "" {
		filter.CategoryID = &v
	}

	if v := c.Query("min_amount"); v != "" {
		amt, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid min_amount")
		}
		filter.MinAmount = &amt
	}

	if v := c.Query("max_amount"); v != "" {
		amt, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid max_amount")
		}
		filter.MaxAmount = &amt
	}

	return filter, nil
}
