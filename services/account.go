package services

import (
	"errors"
	"net/http"

	"github.com/stellar/go/clients/horizonclient"
	"github.com/stellar/go/keypair"
	hprotocol "github.com/stellar/go/protocols/horizon"

	"github.com/stellarpay/wallet-core/models"
)

// horizonAccounts is the slice of the Horizon client the account
// service needs. *horizonclient.Client satisfies it.
type horizonAccounts interface {
	AccountDetail(request horizonclient.AccountRequest) (hprotocol.Account, error)
}

// AccountService reads ledger account snapshots from Horizon.
type AccountService struct {
	Horizon horizonAccounts
}

// NewAccountService creates a new AccountService instance.
func NewAccountService(client horizonAccounts) *AccountService {
	return &AccountService{Horizon: client}
}

// Snapshot fetches the current state of an account. The returned
// sequence number is only valid for the next transaction built against
// it; callers must re-fetch per flow.
func (s *AccountService) Snapshot(publicKey string) (models.LedgerAccount, error) {
	if _, err := keypair.ParseAddress(publicKey); err != nil {
		return models.LedgerAccount{}, &models.ValidationError{Field: "address", Reason: "not a valid account address"}
	}

	account, err := s.Horizon.AccountDetail(horizonclient.AccountRequest{AccountID: publicKey})
	if err != nil {
		return models.LedgerAccount{}, classifyHorizonError(err)
	}

	return models.LedgerAccount{
		Address:        publicKey,
		SequenceNumber: account.Sequence,
		Balances:       convertBalances(account.Balances),
	}, nil
}

// Details retrieves the API view of an account. A missing account is
// reported as exists=false rather than an error.
func (s *AccountService) Details(publicKey string) (*models.AccountDetailsResponse, error) {
	snapshot, err := s.Snapshot(publicKey)
	if err != nil {
		if errors.Is(err, models.ErrAccountNotFound) {
			return &models.AccountDetailsResponse{
				PublicKey: publicKey,
				Exists:    false,
				Balances:  []models.Balance{},
			}, nil
		}
		return nil, err
	}

	return &models.AccountDetailsResponse{
		PublicKey:      snapshot.Address,
		Exists:         true,
		Balances:       snapshot.Balances,
		SequenceNumber: snapshot.SequenceNumber,
	}, nil
}

// NativeBalance returns the account's native balance in stroops.
// Accounts without a native balance line report zero.
func NativeBalance(account models.LedgerAccount) int64 {
	for _, b := range account.Balances {
		if b.AssetType == "native" {
			v, err := ParseNativeAmount(b.Balance)
			if err != nil {
				return 0
			}
			return v
		}
	}
	return 0
}

func convertBalances(in []hprotocol.Balance) []models.Balance {
	out := make([]models.Balance, 0, len(in))
	for _, b := range in {
		out = append(out, models.Balance{
			AssetType: b.Type,
			AssetCode: b.Code,
			Issuer:    b.Issuer,
			Balance:   b.Balance,
		})
	}
	return out
}

// classifyHorizonError maps Horizon client failures onto the error
// taxonomy: a 404 means the account does not exist on the ledger,
// everything else from the read path is transport trouble.
func classifyHorizonError(err error) error {
	if herr, ok := err.(*horizonclient.Error); ok {
		if herr.Problem.Status == http.StatusNotFound {
			return models.ErrAccountNotFound
		}
	}
	return &models.NetworkError{Cause: err}
}
