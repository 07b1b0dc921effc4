package service

import (
	"errors"
	"strings"

	"reportly/config"
	"reportly/internal/models"

	"gorm.io/gorm"
)

var (
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrWalletConflict      = errors.New("wallet is busy, try again")
)

// CreditService maintains per-user credit balances and the transaction log.
// Every mutation pairs one guarded wallet update with exactly one transaction
// row inside a single database transaction, so the balance always equals the
// sum of recorded deltas.
type CreditService struct {
	db  *gorm.DB
	cfg *config.CreditsConfig
}

func NewCreditService(db *gorm.DB, cfg *config.CreditsConfig) *CreditService {
	return &CreditService{db: db, cfg: cfg}
}

// GetOrCreateWallet returns the user's wallet, creating it lazily with the
// user's legacy credits field as the initial balance. Safe under concurrent
// calls: a lost create race falls back to refetching the winner's row.
func (s *CreditService) GetOrCreateWallet(user *models.User) (*models.CreditWallet, error) {
	return s.getOrCreateWallet(s.db, user)
}

func (s *CreditService) getOrCreateWallet(db *gorm.DB, user *models.User) (*models.CreditWallet, error) {
	var w models.CreditWallet
	err := db.Where("user_id = ?", user.ID).First(&w).Error
	if err == nil {
		return &w, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	w = models.CreditWallet{UserID: user.ID, Balance: user.Credits}
	if err := db.Create(&w).Error; err != nil {
		// unique index on user_id: someone else created it first
		var existing models.CreditWallet
		if ferr := db.Where("user_id = ?", user.ID).First(&existing).Error; ferr == nil {
			return &existing, nil
		}
		return nil, err
	}
	return &w, nil
}

func (s *CreditService) GetBalance(user *models.User) (int64, error) {
	w, err := s.GetOrCreateWallet(user)
	if err != nil {
		return 0, err
	}
	return w.Balance, nil
}

func (s *CreditService) HasEnoughCredits(user *models.User, required int64) (bool, error) {
	balance, err := s.GetBalance(user)
	if err != nil {
		return false, err
	}
	return balance >= required, nil
}

// AddCredits increases the balance and appends a transaction with a positive
// delta and the resulting balance snapshot.
func (s *CreditService) AddCredits(user *models.User, amount int64, kind, referenceID, description string) (*models.CreditTransaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return s.mutate(user, amount, kind, referenceID, description, false)
}

// DeductCredits decreases the balance and appends a transaction with a
// negative delta. Fails with ErrInsufficientCredits when the balance is too
// low; the check and the update are a single guarded statement, so two
// concurrent deductions can never drive the balance negative.
func (s *CreditService) DeductCredits(user *models.User, amount int64, kind, referenceID, description string) (*models.CreditTransaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return s.mutate(user, -amount, kind, referenceID, description, true)
}

func (s *CreditService) mutate(user *models.User, delta int64, kind, referenceID, description string, guarded bool) (*models.CreditTransaction, error) {
	if _, err := s.GetOrCreateWallet(user); err != nil {
		return nil, err
	}

	retries := s.cfg.LedgerRetries
	if retries < 1 {
		retries = 1
	}
	var txn *models.CreditTransaction
	var err error
	for attempt := 0; attempt < retries; attempt++ {
		txn, err = s.mutateOnce(user, delta, kind, referenceID, description, guarded)
		if err == nil || !isRetryable(err) {
			return txn, err
		}
	}
	if err != nil && isRetryable(err) {
		return nil, ErrWalletConflict
	}
	return txn, err
}

func (s *CreditService) mutateOnce(user *models.User, delta int64, kind, referenceID, description string, guarded bool) (*models.CreditTransaction, error) {
	var txn *models.CreditTransaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		t, err := s.applyMutation(tx, user, delta, kind, referenceID, description, guarded)
		if err != nil {
			return err
		}
		txn = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// AddCreditsTx credits the wallet inside the caller's transaction so the
// grant commits or rolls back together with the caller's own writes. No
// retry here: contention fails the whole transaction and the caller decides
// whether to replay.
func (s *CreditService) AddCreditsTx(tx *gorm.DB, user *models.User, amount int64, kind, referenceID, description string) (*models.CreditTransaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if _, err := s.getOrCreateWallet(tx, user); err != nil {
		return nil, err
	}
	return s.applyMutation(tx, user, amount, kind, referenceID, description, false)
}

func (s *CreditService) applyMutation(tx *gorm.DB, user *models.User, delta int64, kind, referenceID, description string, guarded bool) (*models.CreditTransaction, error) {
	update := tx.Model(&models.CreditWallet{}).Where("user_id = ?", user.ID)
	if guarded {
		update = update.Where("balance >= ?", -delta)
	}
	res := update.Update("balance", gorm.Expr("balance + ?", delta))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrInsufficientCredits
	}

	// The wallet row stays locked until commit, so this read is the
	// post-mutation balance in a consistent total order.
	var w models.CreditWallet
	if err := tx.Where("user_id = ?", user.ID).First(&w).Error; err != nil {
		return nil, err
	}

	txn := models.CreditTransaction{
		UserID:       user.ID,
		Kind:         kind,
		Delta:        delta,
		ReferenceID:  referenceID,
		Description:  description,
		BalanceAfter: w.Balance,
	}
	if err := tx.Create(&txn).Error; err != nil {
		return nil, err
	}

	// Keep the legacy users.credits column mirrored.
	if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Update("credits", w.Balance).Error; err != nil {
		return nil, err
	}
	user.Credits = w.Balance
	return &txn, nil
}

// GetTransactionHistory returns the user's transactions newest first.
// limit <= 0 returns the full history.
func (s *CreditService) GetTransactionHistory(userID uint, limit int) ([]models.CreditTransaction, error) {
	q := s.db.Where("user_id = ?", userID).Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var txns []models.CreditTransaction
	err := q.Find(&txns).Error
	return txns, err
}

// isRetryable reports whether the error is storage-level write contention
// worth retrying (deadlock, lock wait timeout, sqlite busy).
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "deadlock") ||
		strings.Contains(msg, "lock wait timeout") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "busy")
}
