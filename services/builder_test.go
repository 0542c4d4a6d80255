package services

import (
	"testing"

	"github.com/stellar/go/keypair"
	hprotocol "github.com/stellar/go/protocols/horizon"
	"github.com/stellar/go/txnbuild"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellarpay/wallet-core/models"
)

type countingFeeStats struct {
	calls   int
	baseFee int64
	err     error
}

func (f *countingFeeStats) FeeStats() (hprotocol.FeeStats, error) {
	f.calls++
	return hprotocol.FeeStats{LastLedgerBaseFee: f.baseFee}, f.err
}

func testAccount(sequence int64, nativeBalance string) models.LedgerAccount {
	return models.LedgerAccount{
		Address:        keypair.MustRandom().Address(),
		SequenceNumber: sequence,
		Balances: []models.Balance{
			{AssetType: "native", Balance: nativeBalance},
		},
	}
}

func TestBuildPayment(t *testing.T) {
	fees := &countingFeeStats{baseFee: 100}
	builder := NewTransactionBuilder(100, fees)
	account := testAccount(42, "100.0000000")
	destination := keypair.MustRandom().Address()

	resp, err := builder.Build(account, destination, "25.5")
	require.NoError(t, err)

	assert.Equal(t, int64(43), resp.SequenceNumber)
	assert.GreaterOrEqual(t, resp.Fee, int64(100))

	generic, err := txnbuild.TransactionFromXDR(resp.TransactionXDR)
	require.NoError(t, err)
	tx, ok := generic.Transaction()
	require.True(t, ok)

	assert.Equal(t, int64(43), tx.SourceAccount().Sequence)
	require.Len(t, tx.Operations(), 1)
	payment, ok := tx.Operations()[0].(*txnbuild.Payment)
	require.True(t, ok)
	assert.Equal(t, destination, payment.Destination)
	assert.Equal(t, "25.5000000", payment.Amount)
	assert.Empty(t, tx.Signatures(), "built envelope must be unsigned")
}

func TestBuildRejectsZeroAmountWithoutNetworkCall(t *testing.T) {
	fees := &countingFeeStats{baseFee: 100}
	builder := NewTransactionBuilder(100, fees)

	_, err := builder.Build(testAccount(1, "100.0000000"), keypair.MustRandom().Address(), "0")
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Zero(t, fees.calls, "validation failures must not touch the network")
}

func TestBuildRejectsInsufficientBalanceLocally(t *testing.T) {
	fees := &countingFeeStats{baseFee: 100}
	builder := NewTransactionBuilder(100, fees)

	_, err := builder.Build(testAccount(1, "100.0000000"), keypair.MustRandom().Address(), "150")
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Reason, "insufficient balance")
	assert.Zero(t, fees.calls)
}

func TestBuildRejectsInvalidDestination(t *testing.T) {
	builder := NewTransactionBuilder(100, nil)

	_, err := builder.Build(testAccount(1, "100.0000000"), "not-an-address", "1")
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "destination", verr.Field)
}

func TestBuildUsesCurrentBaseFeeWithFloor(t *testing.T) {
	builder := NewTransactionBuilder(100, &countingFeeStats{baseFee: 500})
	resp, err := builder.Build(testAccount(1, "100.0000000"), keypair.MustRandom().Address(), "1")
	require.NoError(t, err)
	assert.Equal(t, int64(500), resp.Fee)

	// Fee-stat failures fall back to the configured floor.
	builder = NewTransactionBuilder(100, &countingFeeStats{baseFee: 0, err: assert.AnError})
	resp, err = builder.Build(testAccount(1, "100.0000000"), keypair.MustRandom().Address(), "1")
	require.NoError(t, err)
	assert.Equal(t, int64(100), resp.Fee)
}

func TestAddressValidationRoundTrip(t *testing.T) {
	// Addresses produced by our own key generation always validate.
	for i := 0; i < 10; i++ {
		addr := keypair.MustRandom().Address()
		_, err := keypair.ParseAddress(addr)
		assert.NoError(t, err)
	}
}
