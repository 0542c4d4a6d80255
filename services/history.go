package services

import (
	"time"

	"github.com/stellar/go/clients/horizonclient"
	hprotocol "github.com/stellar/go/protocols/horizon"
	"github.com/stellar/go/protocols/horizon/operations"

	"github.com/stellarpay/wallet-core/models"
)

// historyPageLimit caps how many operations are pulled from Horizon
// for one reconstruction.
const historyPageLimit = 100

// horizonHistory is the slice of the Horizon client the history
// service needs. *horizonclient.Client satisfies it.
type horizonHistory interface {
	Payments(request horizonclient.OperationRequest) (operations.OperationsPage, error)
	Transactions(request horizonclient.TransactionRequest) (hprotocol.TransactionsPage, error)
}

// HistoryService reconstructs balance-over-time series and lists
// recent transactions for an account. The reconstruction is a
// best-effort display aid: only native payments move the running
// balance, so accounts with trades or merges will drift.
type HistoryService struct {
	Horizon  horizonHistory
	Accounts *AccountService
}

// NewHistoryService creates a HistoryService instance.
func NewHistoryService(horizon horizonHistory, accounts *AccountService) *HistoryService {
	return &HistoryService{Horizon: horizon, Accounts: accounts}
}

// ReconstructBalanceHistory replays a newest-first native payment log
// backward from currentBalance (stroops) and returns oldest-first
// samples. Each payment contributes the balance as it stood just after
// that payment; a boundary sample one day before the earliest payment
// carries the fully unwound balance, and a final sample pins
// currentBalance at now. A positive limit keeps only the most recent
// limit samples.
func ReconstructBalanceHistory(currentBalance int64, payments []models.PaymentRecord, subject string, now time.Time, limit int) []models.BalanceSample {
	if len(payments) == 0 {
		return []models.BalanceSample{{Timestamp: now, Balance: FormatNativeAmount(currentBalance)}}
	}

	// Newest first: emit, then undo the payment to step further back.
	running := currentBalance
	samples := make([]models.BalanceSample, 0, len(payments)+2)
	for _, p := range payments {
		samples = append(samples, models.BalanceSample{
			Timestamp: p.Timestamp,
			Balance:   FormatNativeAmount(running),
		})
		switch subject {
		case p.From:
			running += p.Amount
		case p.To:
			running -= p.Amount
		}
	}

	earliest := payments[len(payments)-1].Timestamp
	samples = append(samples, models.BalanceSample{
		Timestamp: earliest.Add(-24 * time.Hour),
		Balance:   FormatNativeAmount(running),
	})

	// Reverse to oldest first, then pin the present.
	for i, j := 0, len(samples)-1; i < j; i, j = i+1, j-1 {
		samples[i], samples[j] = samples[j], samples[i]
	}
	samples = append(samples, models.BalanceSample{
		Timestamp: now,
		Balance:   FormatNativeAmount(currentBalance),
	})

	if limit > 0 && len(samples) > limit {
		samples = samples[len(samples)-limit:]
	}
	return samples
}

// BalanceHistory fetches the account's native payment log from Horizon
// and reconstructs its balance series.
func (s *HistoryService) BalanceHistory(address string, limit int) ([]models.BalanceSample, error) {
	snapshot, err := s.Accounts.Snapshot(address)
	if err != nil {
		return nil, err
	}

	page, err := s.Horizon.Payments(horizonclient.OperationRequest{
		ForAccount: address,
		Order:      horizonclient.OrderDesc,
		Limit:      historyPageLimit,
	})
	if err != nil {
		return nil, classifyHorizonError(err)
	}

	payments := make([]models.PaymentRecord, 0, len(page.Embedded.Records))
	for _, record := range page.Embedded.Records {
		p, ok := record.(operations.Payment)
		if !ok {
			continue
		}
		// Other asset types must not perturb the native running balance.
		if p.Asset.Type != "native" {
			continue
		}
		stroops, err := ParseNativeAmount(p.Amount)
		if err != nil {
			continue
		}
		payments = append(payments, models.PaymentRecord{
			From:      p.From,
			To:        p.To,
			Amount:    stroops,
			Timestamp: p.LedgerCloseTime,
		})
	}

	return ReconstructBalanceHistory(NativeBalance(snapshot), payments, address, time.Now().UTC(), limit), nil
}

// RecentTransactions lists the account's most recent transactions,
// newest first.
func (s *HistoryService) RecentTransactions(address string, limit int) ([]models.TransactionRecord, error) {
	if limit <= 0 || limit > historyPageLimit {
		limit = 10
	}

	page, err := s.Horizon.Transactions(horizonclient.TransactionRequest{
		ForAccount: address,
		Order:      horizonclient.OrderDesc,
		Limit:      uint(limit),
	})
	if err != nil {
		return nil, classifyHorizonError(err)
	}

	records := make([]models.TransactionRecord, 0, len(page.Embedded.Records))
	for _, tx := range page.Embedded.Records {
		records = append(records, models.TransactionRecord{
			Hash:            tx.Hash,
			LedgerCloseTime: tx.LedgerCloseTime,
			Successful:      tx.Successful,
			FeeCharged:      tx.FeeCharged,
			Memo:            tx.Memo,
		})
	}
	return records, nil
}
