package service

import (
	"sync"
	"testing"

	"reportly/internal/domain"
	"reportly/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateWalletSeedsFromLegacyCredits(t *testing.T) {
	db := newTestDB(t)
	svc := NewCreditService(db, testCreditsConfig())
	user := newTestUser(t, db, "wallet@example.com", 25)

	w, err := svc.GetOrCreateWallet(user)
	require.NoError(t, err)
	assert.Equal(t, int64(25), w.Balance)

	// second call returns the same wallet, no duplicate
	w2, err := svc.GetOrCreateWallet(user)
	require.NoError(t, err)
	assert.Equal(t, w.ID, w2.ID)

	var count int64
	db.Model(&models.CreditWallet{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestAddCreditsRecordsTransaction(t *testing.T) {
	db := newTestDB(t)
	svc := NewCreditService(db, testCreditsConfig())
	user := newTestUser(t, db, "add@example.com", 0)

	txn, err := svc.AddCredits(user, 50, domain.TxPurchase, "pay-1", "Purchased starter pack")
	require.NoError(t, err)
	assert.Equal(t, int64(50), txn.Delta)
	assert.Equal(t, int64(50), txn.BalanceAfter)
	assert.Equal(t, domain.TxPurchase, txn.Kind)
	assert.Equal(t, "pay-1", txn.ReferenceID)

	balance, err := svc.GetBalance(user)
	require.NoError(t, err)
	assert.Equal(t, int64(50), balance)
	assert.Equal(t, int64(50), user.Credits, "legacy mirror should track the wallet")
}

func TestDeductCreditsInsufficientLeavesBalanceUnchanged(t *testing.T) {
	db := newTestDB(t)
	svc := NewCreditService(db, testCreditsConfig())
	user := newTestUser(t, db, "poor@example.com", 3)

	_, err := svc.DeductCredits(user, 5, domain.TxReportUsage, "1", "report")
	assert.ErrorIs(t, err, ErrInsufficientCredits)

	balance, err := svc.GetBalance(user)
	require.NoError(t, err)
	assert.Equal(t, int64(3), balance)

	txns, err := svc.GetTransactionHistory(user.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, txns, "failed deduction must not append a transaction")
}

func TestMutationRejectsNonPositiveAmounts(t *testing.T) {
	db := newTestDB(t)
	svc := NewCreditService(db, testCreditsConfig())
	user := newTestUser(t, db, "zero@example.com", 10)

	_, err := svc.AddCredits(user, 0, domain.TxBonus, "", "")
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = svc.AddCredits(user, -5, domain.TxBonus, "", "")
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = svc.DeductCredits(user, 0, domain.TxReportUsage, "", "")
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = svc.DeductCredits(user, -1, domain.TxReportUsage, "", "")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestSignupGrantThenReportDeduction(t *testing.T) {
	db := newTestDB(t)
	cfg := testCreditsConfig()
	svc := NewCreditService(db, cfg)
	user := newTestUser(t, db, "new@example.com", 0)

	_, err := svc.AddCredits(user, cfg.SignupGrant, domain.TxBonus, "", "Welcome bonus")
	require.NoError(t, err)

	txn, err := svc.DeductCredits(user, cfg.ReportCost, domain.TxReportUsage, "42", "Generated report")
	require.NoError(t, err)
	assert.Equal(t, int64(-1), txn.Delta)
	assert.Equal(t, int64(999), txn.BalanceAfter)

	balance, err := svc.GetBalance(user)
	require.NoError(t, err)
	assert.Equal(t, int64(999), balance)
}

func TestBalanceEqualsSumOfDeltas(t *testing.T) {
	db := newTestDB(t)
	svc := NewCreditService(db, testCreditsConfig())
	user := newTestUser(t, db, "sum@example.com", 0)

	_, err := svc.AddCredits(user, 100, domain.TxPurchase, "p1", "")
	require.NoError(t, err)
	_, err = svc.DeductCredits(user, 30, domain.TxReportUsage, "r1", "")
	require.NoError(t, err)
	_, err = svc.AddCredits(user, 7, domain.TxAdminAdjustment, "", "goodwill")
	require.NoError(t, err)
	_, err = svc.DeductCredits(user, 2, domain.TxReportUsage, "r2", "")
	require.NoError(t, err)

	txns, err := svc.GetTransactionHistory(user.ID, 0)
	require.NoError(t, err)
	var sum int64
	for _, txn := range txns {
		sum += txn.Delta
	}
	balance, err := svc.GetBalance(user)
	require.NoError(t, err)
	assert.Equal(t, balance, sum)
	assert.Equal(t, int64(75), balance)
}

func TestTransactionHistoryNewestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := NewCreditService(db, testCreditsConfig())
	user := newTestUser(t, db, "history@example.com", 0)

	_, err := svc.AddCredits(user, 10, domain.TxPurchase, "first", "")
	require.NoError(t, err)
	_, err = svc.AddCredits(user, 20, domain.TxPurchase, "second", "")
	require.NoError(t, err)
	_, err = svc.DeductCredits(user, 5, domain.TxReportUsage, "third", "")
	require.NoError(t, err)

	txns, err := svc.GetTransactionHistory(user.ID, 0)
	require.NoError(t, err)
	require.Len(t, txns, 3)
	assert.Equal(t, "third", txns[0].ReferenceID)
	assert.Equal(t, "second", txns[1].ReferenceID)
	assert.Equal(t, "first", txns[2].ReferenceID)

	limited, err := svc.GetTransactionHistory(user.ID, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestConcurrentDeductionsNeverOverspend(t *testing.T) {
	db := newTestDB(t)
	svc := NewCreditService(db, testCreditsConfig())
	user := newTestUser(t, db, "race@example.com", 10)
	_, err := svc.GetOrCreateWallet(user)
	require.NoError(t, err)

	// Two deductions of 6 against a balance of 10: exactly one can win.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u := &models.User{ID: user.ID, Credits: 10}
			_, errs[i] = svc.DeductCredits(u, 6, domain.TxReportUsage, "race", "")
		}(i)
	}
	wg.Wait()

	var failures int
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, ErrInsufficientCredits)
			failures++
		}
	}
	assert.Equal(t, 1, failures, "exactly one of the two deductions must fail")

	balance, err := svc.GetBalance(user)
	require.NoError(t, err)
	assert.Equal(t, int64(4), balance)

	txns, err := svc.GetTransactionHistory(user.ID, 0)
	require.NoError(t, err)
	assert.Len(t, txns, 1)
}
