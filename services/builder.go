package services

import (
	"errors"

	"github.com/stellar/go/keypair"
	hprotocol "github.com/stellar/go/protocols/horizon"
	"github.com/stellar/go/txnbuild"

	"github.com/stellarpay/wallet-core/models"
)

// envelopeTimeout bounds the validity window of built envelopes, in
// seconds from now.
const envelopeTimeout = 30

// feeStats is the slice of the Horizon client the builder consults for
// the current base fee. *horizonclient.Client satisfies it.
type feeStats interface {
	FeeStats() (hprotocol.FeeStats, error)
}

// TransactionBuilder assembles unsigned payment envelopes. Construction
// is pure: all validation happens locally and the only optional network
// touch is the base-fee read, which runs after validation passes.
type TransactionBuilder struct {
	BaseFee int64
	Horizon feeStats
}

// NewTransactionBuilder creates a builder with the given fee floor.
func NewTransactionBuilder(baseFee int64, horizon feeStats) *TransactionBuilder {
	return &TransactionBuilder{BaseFee: baseFee, Horizon: horizon}
}

// Build constructs an unsigned single-payment envelope against the
// given account snapshot. The envelope's sequence number is the
// snapshot's sequence plus one; the snapshot must be freshly fetched or
// the network will reject the result with a bad-sequence code.
func (b *TransactionBuilder) Build(account models.LedgerAccount, destination, amountStr string) (*models.BuildPaymentResponse, error) {
	stroops, err := ParseNativeAmount(amountStr)
	if err != nil {
		return nil, err
	}
	if _, err := keypair.ParseAddress(destination); err != nil {
		return nil, &models.ValidationError{Field: "destination", Reason: "not a valid account address"}
	}
	if balance := NativeBalance(account); stroops > balance {
		return nil, &models.ValidationError{Field: "amount", Reason: "insufficient balance"}
	}

	fee := b.currentBaseFee()

	sourceAccount := txnbuild.SimpleAccount{
		AccountID: account.Address,
		Sequence:  account.SequenceNumber,
	}
	paymentOp := txnbuild.Payment{
		Destination: destination,
		Amount:      FormatNativeAmount(stroops),
		Asset:       txnbuild.NativeAsset{},
	}

	tx, err := txnbuild.NewTransaction(
		txnbuild.TransactionParams{
			SourceAccount:        &sourceAccount,
			Operations:           []txnbuild.Operation{&paymentOp},
			BaseFee:              fee,
			Preconditions:        txnbuild.Preconditions{TimeBounds: txnbuild.NewTimeout(envelopeTimeout)},
			IncrementSequenceNum: true,
		},
	)
	if err != nil {
		return nil, errors.New("failed to build transaction: " + err.Error())
	}

	xdrBase64, err := tx.Base64()
	if err != nil {
		return nil, errors.New("failed to encode transaction: " + err.Error())
	}

	return &models.BuildPaymentResponse{
		TransactionXDR: xdrBase64,
		SequenceNumber: account.SequenceNumber + 1,
		Fee:            tx.BaseFee(),
	}, nil
}

// currentBaseFee asks Horizon for the last ledger's base fee, floored
// at the configured minimum. Fee-stat failures fall back to the floor
// rather than failing the build.
func (b *TransactionBuilder) currentBaseFee() int64 {
	if b.Horizon == nil {
		return b.BaseFee
	}
	stats, err := b.Horizon.FeeStats()
	if err != nil || stats.LastLedgerBaseFee < b.BaseFee {
		return b.BaseFee
	}
	return stats.LastLedgerBaseFee
}
