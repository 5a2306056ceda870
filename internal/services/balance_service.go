package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "totality/internal/errors"
	"totality/internal/ledger"
	"totality/internal/models"
)

// balanceService implements the read paths over the current snapshot.
type balanceService struct {
	db *gorm.DB
}

// NewBalanceService creates a new BalanceServicer.
func NewBalanceService(db *gorm.DB) BalanceServicer {
	return &balanceService{db: db}
}

// GetAccountBalances returns the workspace's accounts together with the
// current ledger balance. A workspace that has never posted gets the
// all-zero ledger rather than an error.
func (s *balanceService) GetAccountBalances(workspaceID string) ([]models.Account, ledger.LedgerBalance, error) {
	var workspaceCount int64
	if err := s.db.Model(&models.Workspace{}).Where("id = ?", workspaceID).Count(&workspaceCount).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if workspaceCount == 0 {
		return nil, nil, apperrors.ErrWorkspaceNotFound
	}

	var accounts []models.Account
	if err := s.db.Where("workspace_id = ?", workspaceID).Order("name ASC").Find(&accounts).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	bal, err := s.currentLedger(workspaceID)
	if err != nil {
		return nil, nil, err
	}
	return accounts, bal, nil
}

// GetBucketBalances returns every bucket of the workspace with its
// per-currency allocated amounts from the current snapshot.
func (s *balanceService) GetBucketBalances(workspaceID string) ([]BucketBalanceView, error) {
	var buckets []models.Bucket
	if err := s.db.Where("workspace_id = ?", workspaceID).Order("name ASC").Find(&buckets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	bal, err := s.currentLedger(workspaceID)
	if err != nil {
		return nil, err
	}

	views := make([]BucketBalanceView, 0, len(buckets))
	for _, bucket := range buckets {
		view := BucketBalanceView{Bucket: bucket, Amounts: map[string]int64{}}
		for currency := range bal {
			if amount := bal.BucketBalance(bucket.ID, currency); amount != 0 {
				view.Amounts[currency] = amount
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// currentLedger loads the current snapshot's ledger, or a zero ledger when
// the workspace has no snapshot yet.
func (s *balanceService) currentLedger(workspaceID string) (ledger.LedgerBalance, error) {
	var balance models.Balance
	err := s.db.Where("workspace_id = ? AND superseded_by IS NULL", workspaceID).First(&balance).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ledger.New(), nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return ledger.LedgerBalance(balance.LedgerBalance), nil
}
