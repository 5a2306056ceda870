package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "totality/internal/errors"
	"totality/internal/models"
	"totality/internal/pagination"
)

// accountService handles the account directory.
type accountService struct {
	db *gorm.DB
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB) AccountServicer {
	return &accountService{db: db}
}

// CreateAccount creates a new account in a workspace. The currency must
// exist in the currency directory; it fixes the denomination of every
// amount the account will ever carry.
func (s *accountService) CreateAccount(workspaceID, name, currency, description string) (*models.Account, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
	}
	if currency == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account currency is required")
	}

	var workspaceCount int64
	if err := s.db.Model(&models.Workspace{}).Where("id = ?", workspaceID).Count(&workspaceCount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if workspaceCount == 0 {
		return nil, apperrors.ErrWorkspaceNotFound
	}

	var currencyCount int64
	if err := s.db.Model(&models.Currency{}).Where("code = ?", currency).Count(&currencyCount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if currencyCount == 0 {
		return nil, apperrors.ErrCurrencyNotFound
	}

	account := &models.Account{
		WorkspaceID: workspaceID,
		Name:        name,
		Currency:    currency,
		Description: description,
	}
	if err := s.db.Create(account).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return account, nil
}

// GetWorkspaceAccounts retrieves a paginated list of a workspace's accounts.
func (s *accountService) GetWorkspaceAccounts(workspaceID string, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error) {
	page.Defaults()

	base := s.db.Model(&models.Account{}).Where("workspace_id = ?", workspaceID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var accounts []models.Account
	if err := base.Scopes(pagination.Paginate(page)).
		Order("name ASC").
		Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(accounts, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetAccountByID retrieves an account by ID within a workspace.
func (s *accountService) GetAccountByID(workspaceID, accountID string) (*models.Account, error) {
	var account models.Account
	if err := s.db.Where("id = ? AND workspace_id = ?", accountID, workspaceID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// GetCurrencies returns the seeded currency directory.
func (s *accountService) GetCurrencies() ([]models.Currency, error) {
	var currencies []models.Currency
	if err := s.db.Order("code ASC").Find(&currencies).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return currencies, nil
}
