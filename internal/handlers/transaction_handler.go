package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "totality/internal/errors"
	"totality/internal/ledger"
	"totality/internal/services"
)

// TransactionHandler handles transaction posting and read requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, auditService: auditService}
}

// LineRequest is one split of a transaction. Field names follow the stored
// line format so posted payloads round-trip unchanged.
type LineRequest struct {
	Type           string `json:"type" binding:"required,line_type"`
	Amount         int64  `json:"amount" binding:"required"`
	Payee          string `json:"payee" binding:"max=250"`
	OtherAccountID string `json:"otherAccountId" binding:"omitempty,uuid"`
	OtherAmount    *int64 `json:"otherAmount"`
	BucketID       string `json:"bucketId" binding:"omitempty,uuid"`
}

func (r LineRequest) toLine() ledger.Line {
	return ledger.Line{
		Type:           ledger.LineType(r.Type),
		Amount:         r.Amount,
		Payee:          r.Payee,
		OtherAccountID: r.OtherAccountID,
		OtherAmount:    r.OtherAmount,
		BucketID:       r.BucketID,
	}
}

// PostTransactionRequest represents the request payload for posting a
// transaction. When TransactionID is set the posting supersedes that
// transaction instead of creating a fresh chain.
type PostTransactionRequest struct {
	TransactionID string            `json:"transaction_id" binding:"omitempty,uuid"`
	Date          string            `json:"date" binding:"required"`
	Note          string            `json:"note" binding:"max=250"`
	Lines         []LineRequest     `json:"data" binding:"required,min=1,dive"`
	Meta          map[string]string `json:"meta"`
	CreatedBy     string            `json:"created_by" binding:"max=100"`
}

// ImportTransactionsRequest represents the request payload for a bulk import.
type ImportTransactionsRequest struct {
	Transactions []ImportedTransaction `json:"transactions" binding:"required,min=1,dive"`
}

// ImportedTransaction is one transaction within a bulk import.
type ImportedTransaction struct {
	Date      string            `json:"date" binding:"required"`
	Note      string            `json:"note" binding:"max=250"`
	Lines     []LineRequest     `json:"data" binding:"required,min=1,dive"`
	Meta      map[string]string `json:"meta"`
	CreatedBy string            `json:"created_by" binding:"max=100"`
}

func buildEntry(date, note string, lines []LineRequest, meta map[string]string, createdBy string) (services.TransactionEntry, error) {
	entryDate, err := parseFlexibleTime(date)
	if err != nil {
		return services.TransactionEntry{}, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}

	entry := services.TransactionEntry{
		Date:      entryDate,
		Note:      note,
		Lines:     make([]ledger.Line, 0, len(lines)),
		Meta:      meta,
		CreatedBy: createdBy,
	}
	for _, l := range lines {
		entry.Lines = append(entry.Lines, l.toLine())
	}
	return entry, nil
}

// PostTransaction posts a new transaction, or supersedes an existing one when
// the payload names a transaction ID.
func (h *TransactionHandler) PostTransaction(c *gin.Context) {
	workspaceID, err := parsePathID(c, "workspace_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	accountID, err := parsePathID(c, "account_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PostTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	entry, err := buildEntry(req.Date, req.Note, req.Lines, req.Meta, req.CreatedBy)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if req.TransactionID != "" {
		updated, err := h.transactionService.UpdateTransaction(workspaceID, accountID, req.TransactionID, entry)
		if err != nil {
			respondWithError(c, err)
			return
		}

		h.auditService.Log(workspaceID, "UPDATE_TRANSACTION", "transaction", updated.ID, c.ClientIP(),
			map[string]interface{}{"superseded": req.TransactionID})
		c.JSON(http.StatusOK, gin.H{"transaction": updated})
		return
	}

	created, err := h.transactionService.PostTransaction(workspaceID, accountID, entry)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(workspaceID, "POST_TRANSACTION", "transaction", created.ID, c.ClientIP(),
		map[string]interface{}{"account_id": accountID, "lines": len(req.Lines)})

	c.JSON(http.StatusCreated, gin.H{"transaction": created})
}

// ImportTransactions posts a batch of transactions atomically under a single
// balance snapshot.
func (h *TransactionHandler) ImportTransactions(c *gin.Context) {
	workspaceID, err := parsePathID(c, "workspace_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	accountID, err := parsePathID(c, "account_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ImportTransactionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	entries := make([]services.TransactionEntry, 0, len(req.Transactions))
	for _, t := range req.Transactions {
		entry, err := buildEntry(t.Date, t.Note, t.Lines, t.Meta, t.CreatedBy)
		if err != nil {
			respondWithError(c, err)
			return
		}
		entries = append(entries, entry)
	}

	if err := h.transactionService.PostTransactions(workspaceID, accountID, entries); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(workspaceID, "IMPORT_TRANSACTIONS", "transaction", accountID, c.ClientIP(),
		map[string]interface{}{"count": len(entries)})

	c.JSON(http.StatusCreated, gin.H{"imported": len(entries)})
}

// DeleteTransaction reverses a transaction's effect and records a deletion
// marker at the head of its chain.
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	workspaceID, err := parsePathID(c, "workspace_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	accountID, err := parsePathID(c, "account_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	transactionID, err := parsePathID(c, "transaction_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	marker, err := h.transactionService.DeleteTransaction(workspaceID, accountID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(workspaceID, "DELETE_TRANSACTION", "transaction", transactionID, c.ClientIP(),
		map[string]interface{}{"marker_id": marker.ID})

	c.JSON(http.StatusOK, gin.H{"transaction": marker})
}

// GetTransactions returns the workspace's live transactions oriented to the
// queried account: rows owned by other accounts that transfer into this one
// appear with the amounts and account IDs swapped.
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	workspaceID, err := parsePathID(c, "workspace_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	accountID, err := parsePathID(c, "account_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactions, err := h.transactionService.GetTransactions(workspaceID, accountID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}
