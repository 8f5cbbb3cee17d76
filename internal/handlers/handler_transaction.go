package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/evalladares-t/transaction-service/internal/apperrors"
	portssvc "github.com/evalladares-t/transaction-service/internal/core/ports/services"
	"github.com/evalladares-t/transaction-service/internal/dto"
	"github.com/evalladares-t/transaction-service/internal/middleware"
)

// transactionHandler handles HTTP requests related to transactions.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

// newTransactionHandler creates a new transactionHandler.
func newTransactionHandler(ts portssvc.TransactionSvcFacade) *transactionHandler {
	return &transactionHandler{
		transactionService: ts,
	}
}

// registerTransactionRoutes registers routes related to transactions.
func registerTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade) {
	h := newTransactionHandler(transactionService)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.createTransaction)
		transactions.GET("/:id", h.getTransaction)
		transactions.GET("", h.listTransactions)
		transactions.PUT("/:id", h.updateTransaction)
		transactions.PATCH("/:id", h.patchTransaction)
		transactions.DELETE("/:id", h.deleteTransaction)
		transactions.GET("/account/:id", h.listByAccount)
		transactions.GET("/credit/:id", h.listByCredit)
	}
}

// bindingErrorMessage turns a gin binding error into a client-facing message.
func bindingErrorMessage(err error) string {
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) && len(vErrs) > 0 {
		return "Invalid value for field '" + vErrs[0].Field() + "'"
	}
	return "Invalid request format: " + err.Error()
}

// respondWithServiceError maps engine errors to HTTP statuses.
func respondWithServiceError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrLimitExceeded),
		errors.Is(err, apperrors.ErrTransferNotAllowed),
		errors.Is(err, apperrors.ErrInsufficientFunds),
		errors.Is(err, apperrors.ErrProductInactive),
		errors.Is(err, apperrors.ErrDateNotAllowed):
		logger.Warn("Business rule rejected transaction", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrRemoteUnavailable):
		logger.Error("Remote balance service unavailable", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Balance service unavailable"})
	default:
		logger.Error("Unhandled service error", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// createTransaction godoc
// @Summary Create a new transaction
// @Description Validates a transaction draft against the targeted account or credit line and persists it. A bank transfer returns both legs.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transaction body dto.CreateTransactionRequest true "Transaction draft"
// @Success 201 {array} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 422 {object} map[string]string "Business rule rejected the transaction"
// @Failure 502 {object} map[string]string "Balance service unavailable"
// @Router /transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	logger.Info("Received request to create transaction",
		slog.String("type", string(req.TransactionType)),
		slog.String("account_id", req.AccountID),
		slog.String("credit_id", req.CreditID))

	txns, err := h.transactionService.CreateTransaction(c.Request.Context(), req)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}

	logger.Info("Transaction created successfully", slog.Int("records", len(txns)))
	c.JSON(http.StatusCreated, dto.ToListTransactionResponse(txns))
}

// getTransaction godoc
// @Summary Get a transaction by ID
// @Tags transactions
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Router /transactions/{id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	transactionID := c.Param("id")

	txn, err := h.transactionService.GetTransactionByID(c.Request.Context(), transactionID)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List all transactions
// @Tags transactions
// @Produce  json
// @Success 200 {array} dto.TransactionResponse
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	txns, err := h.transactionService.ListTransactions(c.Request.Context())
	if err != nil {
		respondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListTransactionResponse(txns))
}

// updateTransaction godoc
// @Summary Replace a transaction
// @Description Replaces every mutable field of a stored transaction.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Param   transaction body dto.UpdateTransactionRequest true "Replacement fields"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Router /transactions/{id} [put]
func (h *transactionHandler) updateTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")

	var req dto.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	txn, err := h.transactionService.UpdateTransaction(c.Request.Context(), transactionID, req)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// patchTransaction godoc
// @Summary Partially update a transaction
// @Description Merges the provided fields onto a stored transaction. Absent fields are left untouched.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Param   transaction body dto.PatchTransactionRequest true "Fields to update"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Router /transactions/{id} [patch]
func (h *transactionHandler) patchTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")

	var req dto.PatchTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PatchTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	txn, err := h.transactionService.PatchTransaction(c.Request.Context(), transactionID, req)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// deleteTransaction godoc
// @Summary Delete a transaction
// @Tags transactions
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse "The deleted transaction"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Router /transactions/{id} [delete]
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	transactionID := c.Param("id")

	txn, err := h.transactionService.DeleteTransaction(c.Request.Context(), transactionID)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// listByAccount godoc
// @Summary List transactions for an account
// @Tags transactions
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {array} dto.TransactionResponse
// @Router /transactions/account/{id} [get]
func (h *transactionHandler) listByAccount(c *gin.Context) {
	accountID := c.Param("id")

	txns, err := h.transactionService.ListTransactionsByAccountID(c.Request.Context(), accountID)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListTransactionResponse(txns))
}

// listByCredit godoc
// @Summary List transactions for a credit line
// @Tags transactions
// @Produce  json
// @Param   id path string true "Credit ID"
// @Success 200 {array} dto.TransactionResponse
// @Router /transactions/credit/{id} [get]
func (h *transactionHandler) listByCredit(c *gin.Context) {
	creditID := c.Param("id")

	txns, err := h.transactionService.ListTransactionsByCreditID(c.Request.Context(), creditID)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListTransactionResponse(txns))
}
