package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "totality/internal/errors"
	"totality/internal/pagination"
	"totality/internal/services"
)

// AccountHandler handles account directory and balance read requests.
type AccountHandler struct {
	accountService services.AccountServicer
	balanceService services.BalanceServicer
	auditService   services.AuditServicer
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService services.AccountServicer, balanceService services.BalanceServicer, auditService services.AuditServicer) *AccountHandler {
	return &AccountHandler{accountService: accountService, balanceService: balanceService, auditService: auditService}
}

// CreateAccountRequest represents the request payload for creating an account
type CreateAccountRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Currency    string `json:"currency" binding:"required,iso4217"`
	Description string `json:"description" binding:"max=500"`
}

// CreateAccount handles the creation of a new account.
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	workspaceID, err := parsePathID(c, "workspace_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	account, err := h.accountService.CreateAccount(workspaceID, req.Name, req.Currency, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(workspaceID, "CREATE_ACCOUNT", "account", account.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "currency": req.Currency})

	c.JSON(http.StatusCreated, gin.H{"account": account})
}

// GetAccounts returns the workspace's accounts, paginated.
func (h *AccountHandler) GetAccounts(c *gin.Context) {
	workspaceID, err := parsePathID(c, "workspace_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	page.Defaults()

	resp, err := h.accountService.GetWorkspaceAccounts(workspaceID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetAccount returns a single account by ID.
func (h *AccountHandler) GetAccount(c *gin.Context) {
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

	account, err := h.accountService.GetAccountByID(workspaceID, accountID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// GetBalances returns every account in the workspace alongside the current
// ledger snapshot, so the client can pair account rows with their balances.
func (h *AccountHandler) GetBalances(c *gin.Context) {
	workspaceID, err := parsePathID(c, "workspace_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	accounts, ledgerBalance, err := h.balanceService.GetAccountBalances(workspaceID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accounts": accounts,
		"ledger":   ledgerBalance,
	})
}

// GetCurrencies returns the currency directory.
func (h *AccountHandler) GetCurrencies(c *gin.Context) {
	currencies, err := h.accountService.GetCurrencies()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"currencies": currencies})
}
