package services

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	apperrors "totality/internal/errors"
	"totality/internal/ledger"
	"totality/internal/logger"
	"totality/internal/models"
)

// maxPostAttempts bounds the retry loop around serialization conflicts.
const maxPostAttempts = 3

// transactionService implements the posting orchestration. Every mutation
// follows the same protocol inside one atomic database transaction: load
// the workspace's current balance snapshot, apply (or reverse) the lines on
// a working copy, verify the zero-sum invariant, cut a new snapshot, and
// supersede the previous snapshot and transaction rows. The single
// non-superseded snapshot per workspace is the serialization point between
// concurrent posters.
type transactionService struct {
	db             *gorm.DB
	accountService AccountServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, accountService AccountServicer) TransactionServicer {
	return &transactionService{
		db:             db,
		accountService: accountService,
	}
}

// txOptions returns the isolation options for posting transactions.
// Repeatable read makes two posters that both read the same current
// snapshot unable to both commit; the loser surfaces a serialization
// failure that withRetry replays. sqlite (used in tests) rejects explicit
// isolation levels and serializes writers with its own lock.
func (s *transactionService) txOptions() []*sql.TxOptions {
	if s.db.Dialector.Name() != "postgres" {
		return nil
	}
	return []*sql.TxOptions{{Isolation: sql.LevelRepeatableRead}}
}

// withRetry re-runs fn from the top when the store reports a serialization
// failure, reloading the current snapshot on each attempt. Any other error
// passes straight through.
func (s *transactionService) withRetry(fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxPostAttempts; attempt++ {
		err = fn()
		if err == nil || !isSerializationFailure(err) {
			return err
		}
		logger.Get().Warnw("retrying after serialization conflict", "attempt", attempt)
	}
	return apperrors.Wrap(apperrors.ErrConflict, err)
}

// isSerializationFailure reports whether err is a postgres
// serialization_failure or deadlock_detected condition.
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// validateEntry checks the boundary constraints on a transaction entry.
func validateEntry(entry TransactionEntry) error {
	if len(entry.Lines) == 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "transaction requires at least one line")
	}
	for _, line := range entry.Lines {
		if err := line.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// currentBalance loads the workspace's non-superseded balance snapshot, or
// nil when the workspace has never posted.
func currentBalance(tx *gorm.DB, workspaceID string) (*models.Balance, error) {
	var balance models.Balance
	err := tx.Where("workspace_id = ? AND superseded_by IS NULL", workspaceID).First(&balance).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &balance, nil
}

// workingLedger returns a mutable copy of the snapshot's ledger, or a fresh
// zero ledger when there is no snapshot yet.
func workingLedger(snapshot *models.Balance) ledger.LedgerBalance {
	if snapshot == nil {
		return ledger.New()
	}
	return ledger.LedgerBalance(snapshot.LedgerBalance).Clone()
}

// liveTransaction loads the non-superseded, non-deleted transaction for a
// workspace by ID.
func liveTransaction(tx *gorm.DB, workspaceID, transactionID string) (*models.Transaction, error) {
	var txn models.Transaction
	err := tx.Where("id = ? AND workspace_id = ? AND superseded_by IS NULL AND deleted = ?", transactionID, workspaceID, false).
		First(&txn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrTransactionNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &txn, nil
}

// findAccount fetches an account inside the posting transaction so the
// lookup shares the operation's isolation.
func findAccount(tx *gorm.DB, workspaceID, accountID string) (*models.Account, error) {
	var account models.Account
	err := tx.Where("id = ? AND workspace_id = ?", accountID, workspaceID).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrAccountNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// requireBucket checks bucket existence inside the posting transaction.
func requireBucket(tx *gorm.DB, workspaceID, bucketID string) error {
	var count int64
	if err := tx.Model(&models.Bucket{}).
		Where("id = ? AND workspace_id = ?", bucketID, workspaceID).
		Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.ErrBucketNotFound
	}
	return nil
}

// applyLines applies or reverses a batch of lines on the working ledger on
// behalf of the given primary account, resolving transfer counterparts and
// bucket references against the directory as it goes.
func applyLines(tx *gorm.DB, bal ledger.LedgerBalance, account *models.Account, lines []ledger.Line, reverse bool) error {
	for _, line := range lines {
		otherCurrency := account.Currency

		switch line.Type {
		case ledger.LineTypeTransfer:
			if line.OtherAccountID == account.ID {
				return apperrors.ErrSameAccountTransfer
			}
			other, err := findAccount(tx, account.WorkspaceID, line.OtherAccountID)
			if err != nil {
				return err
			}
			otherCurrency = other.Currency
		case ledger.LineTypeExternal:
			if err := requireBucket(tx, account.WorkspaceID, line.BucketID); err != nil {
				return err
			}
		}

		var err error
		if reverse {
			err = bal.ReverseLine(account.ID, account.Currency, line, otherCurrency)
		} else {
			err = bal.ApplyLine(account.ID, account.Currency, line, otherCurrency)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// cutSnapshot verifies the working ledger, inserts it as the new current
// snapshot, and points the previous snapshot (if any) at it. This is the
// only write path for balance history; old snapshots are never mutated
// beyond the superseded_by pointer.
func cutSnapshot(tx *gorm.DB, workspaceID string, prev *models.Balance, working ledger.LedgerBalance) (*models.Balance, error) {
	if err := working.Verify(); err != nil {
		return nil, err
	}

	snapshot := &models.Balance{
		WorkspaceID:   workspaceID,
		LedgerBalance: models.LedgerSnapshot(working),
	}
	if prev != nil {
		snapshot.BudgetBalance = prev.BudgetBalance
	}
	if err := tx.Create(snapshot).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if prev != nil {
		if err := tx.Model(&models.Balance{}).
			Where("id = ?", prev.ID).
			Update("superseded_by", snapshot.ID).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return snapshot, nil
}

// supersedeTransaction points an old transaction row at its successor.
func supersedeTransaction(tx *gorm.DB, oldID, newID string) error {
	if err := tx.Model(&models.Transaction{}).
		Where("id = ?", oldID).
		Update("superseded_by", newID).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// PostTransaction posts a new transaction against an account and cuts a new
// balance snapshot, all in one atomic unit.
func (s *transactionService) PostTransaction(workspaceID, accountID string, entry TransactionEntry) (*models.Transaction, error) {
	if err := validateEntry(entry); err != nil {
		return nil, err
	}

	// Fail fast before opening the write transaction.
	if _, err := s.accountService.GetAccountByID(workspaceID, accountID); err != nil {
		return nil, err
	}

	var result *models.Transaction
	err := s.withRetry(func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			account, err := findAccount(tx, workspaceID, accountID)
			if err != nil {
				return err
			}

			prev, err := currentBalance(tx, workspaceID)
			if err != nil {
				return err
			}
			working := workingLedger(prev)

			if err := applyLines(tx, working, account, entry.Lines, false); err != nil {
				return err
			}

			snapshot, err := cutSnapshot(tx, workspaceID, prev, working)
			if err != nil {
				return err
			}

			txn := &models.Transaction{
				WorkspaceID: workspaceID,
				AccountID:   accountID,
				BalanceID:   snapshot.ID,
				Date:        entry.Date,
				Note:        entry.Note,
				Lines:       models.LineList(entry.Lines),
				Meta:        models.MetaMap(entry.Meta),
				CreatedBy:   entry.CreatedBy,
			}
			if err := tx.Create(txn).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}

			result = txn
			return nil
		}, s.txOptions()...)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateTransaction replaces a live transaction with a new version. The old
// lines are reversed and the new lines applied against the same working
// copy, so the whole edit lands in exactly one new snapshot. The old
// transaction row stays immutable apart from its superseded_by pointer.
func (s *transactionService) UpdateTransaction(workspaceID, accountID, transactionID string, entry TransactionEntry) (*models.Transaction, error) {
	if err := validateEntry(entry); err != nil {
		return nil, err
	}

	if _, err := s.accountService.GetAccountByID(workspaceID, accountID); err != nil {
		return nil, err
	}

	var result *models.Transaction
	err := s.withRetry(func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			oldTxn, err := liveTransaction(tx, workspaceID, transactionID)
			if err != nil {
				return err
			}

			oldAccount, err := findAccount(tx, workspaceID, oldTxn.AccountID)
			if err != nil {
				return err
			}
			newAccount, err := findAccount(tx, workspaceID, accountID)
			if err != nil {
				return err
			}

			prev, err := currentBalance(tx, workspaceID)
			if err != nil {
				return err
			}
			if prev == nil {
				// A live transaction without a snapshot means corrupt state.
				return apperrors.ErrBalanceNotFound
			}
			working := workingLedger(prev)

			if err := applyLines(tx, working, oldAccount, []ledger.Line(oldTxn.Lines), true); err != nil {
				return err
			}
			if err := working.Verify(); err != nil {
				return err
			}
			if err := applyLines(tx, working, newAccount, entry.Lines, false); err != nil {
				return err
			}

			snapshot, err := cutSnapshot(tx, workspaceID, prev, working)
			if err != nil {
				return err
			}

			meta := oldTxn.Meta
			if entry.Meta != nil {
				meta = models.MetaMap(entry.Meta)
			}
			newTxn := &models.Transaction{
				WorkspaceID: workspaceID,
				AccountID:   accountID,
				BalanceID:   snapshot.ID,
				Date:        entry.Date,
				Note:        entry.Note,
				Lines:       models.LineList(entry.Lines),
				Meta:        meta,
				CreatedBy:   entry.CreatedBy,
			}
			if err := tx.Create(newTxn).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}

			if err := supersedeTransaction(tx, oldTxn.ID, newTxn.ID); err != nil {
				return err
			}

			result = newTxn
			return nil
		}, s.txOptions()...)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteTransaction reverses a live transaction's effect and supersedes it
// with a deletion marker. The marker keeps the original line data for
// audit; only its deleted flag distinguishes it.
func (s *transactionService) DeleteTransaction(workspaceID, accountID, transactionID string) (*models.Transaction, error) {
	if _, err := s.accountService.GetAccountByID(workspaceID, accountID); err != nil {
		return nil, err
	}

	var result *models.Transaction
	err := s.withRetry(func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			oldTxn, err := liveTransaction(tx, workspaceID, transactionID)
			if err != nil {
				return err
			}
			if oldTxn.AccountID != accountID {
				return apperrors.ErrTransactionNotFound
			}

			account, err := findAccount(tx, workspaceID, oldTxn.AccountID)
			if err != nil {
				return err
			}

			prev, err := currentBalance(tx, workspaceID)
			if err != nil {
				return err
			}
			if prev == nil {
				return apperrors.ErrBalanceNotFound
			}
			working := workingLedger(prev)

			if err := applyLines(tx, working, account, []ledger.Line(oldTxn.Lines), true); err != nil {
				return err
			}

			snapshot, err := cutSnapshot(tx, workspaceID, prev, working)
			if err != nil {
				return err
			}

			marker := &models.Transaction{
				WorkspaceID: workspaceID,
				AccountID:   oldTxn.AccountID,
				BalanceID:   snapshot.ID,
				Date:        oldTxn.Date,
				Note:        oldTxn.Note,
				Lines:       oldTxn.Lines,
				Meta:        oldTxn.Meta,
				Deleted:     true,
				CreatedBy:   oldTxn.CreatedBy,
			}
			if err := tx.Create(marker).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}

			if err := supersedeTransaction(tx, oldTxn.ID, marker.ID); err != nil {
				return err
			}

			result = marker
			return nil
		}, s.txOptions()...)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// PostTransactions posts a batch of transactions (the bulk import path) as
// one ledger movement: all lines fold into a single working copy, verified
// once, and every created row references the one new snapshot. Imported
// batches either land whole or not at all.
func (s *transactionService) PostTransactions(workspaceID, accountID string, entries []TransactionEntry) error {
	if len(entries) == 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "import requires at least one transaction")
	}
	for _, entry := range entries {
		if err := validateEntry(entry); err != nil {
			return err
		}
	}

	if _, err := s.accountService.GetAccountByID(workspaceID, accountID); err != nil {
		return err
	}

	return s.withRetry(func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			account, err := findAccount(tx, workspaceID, accountID)
			if err != nil {
				return err
			}

			prev, err := currentBalance(tx, workspaceID)
			if err != nil {
				return err
			}
			working := workingLedger(prev)

			for _, entry := range entries {
				if err := applyLines(tx, working, account, entry.Lines, false); err != nil {
					return err
				}
			}

			snapshot, err := cutSnapshot(tx, workspaceID, prev, working)
			if err != nil {
				return err
			}

			txns := make([]*models.Transaction, 0, len(entries))
			for _, entry := range entries {
				txns = append(txns, &models.Transaction{
					WorkspaceID: workspaceID,
					AccountID:   accountID,
					BalanceID:   snapshot.ID,
					Date:        entry.Date,
					Note:        entry.Note,
					Lines:       models.LineList(entry.Lines),
					Meta:        models.MetaMap(entry.Meta),
					CreatedBy:   entry.CreatedBy,
				})
			}
			if err := tx.Create(&txns).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			return nil
		}, s.txOptions()...)
	})
}

// GetTransactions returns the live (non-superseded, non-deleted)
// transactions touching an account, newest first. Rows where the account is
// the transfer counterpart are re-oriented so the queried account reads as
// the primary side; that is a presentation rule, the stored rows are
// untouched.
func (s *transactionService) GetTransactions(workspaceID, accountID string) ([]models.Transaction, error) {
	if _, err := s.accountService.GetAccountByID(workspaceID, accountID); err != nil {
		return nil, err
	}

	var txns []models.Transaction
	if err := s.db.
		Where("workspace_id = ? AND superseded_by IS NULL AND deleted = ?", workspaceID, false).
		Order("date DESC, created_at DESC").
		Find(&txns).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	out := make([]models.Transaction, 0, len(txns))
	for _, txn := range txns {
		if txn.AccountID == accountID {
			out = append(out, txn)
			continue
		}
		if reoriented, ok := reorientTransaction(txn, accountID); ok {
			out = append(out, reoriented)
		}
	}
	return out, nil
}

// reorientTransaction presents a transaction from the counterpart account's
// point of view. Only transfer lines referencing the queried account carry
// over; each is mirrored so sign and account ids swap. For cross-currency
// legs the mirrored amount is the counterpart's actual delta and the
// original primary amount becomes the other-amount magnitude.
func reorientTransaction(txn models.Transaction, accountID string) (models.Transaction, bool) {
	var mirrored models.LineList
	for _, line := range txn.Lines {
		if line.Type != ledger.LineTypeTransfer || line.OtherAccountID != accountID {
			continue
		}

		flipped := line
		flipped.OtherAccountID = txn.AccountID
		if line.OtherAmount == nil {
			// Same-currency transfer: the counterpart saw the negated amount.
			flipped.Amount = -line.Amount
		} else {
			other := *line.OtherAmount
			if other < 0 {
				other = -other
			}
			if line.Amount > 0 {
				flipped.Amount = -other
			} else {
				flipped.Amount = other
			}
			orig := line.Amount
			if orig < 0 {
				orig = -orig
			}
			flipped.OtherAmount = &orig
		}
		mirrored = append(mirrored, flipped)
	}

	if len(mirrored) == 0 {
		return models.Transaction{}, false
	}

	txn.AccountID = accountID
	txn.Lines = mirrored
	return txn, true
}
