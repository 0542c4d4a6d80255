package signers

import (
	"context"
	"errors"
	"testing"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/network"
	"github.com/stellar/go/txnbuild"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellarpay/wallet-core/models"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		message string
		kind    models.SignerErrorKind
	}{
		{"wallet extension not installed", models.SignerNotInstalled},
		{"signer not found", models.SignerNotInstalled},
		{"signer unavailable: connection refused", models.SignerNotInstalled},
		{"User rejected the request", models.SignerUserRejected},
		{"request declined", models.SignerUserRejected},
		{"access denied by user", models.SignerUserRejected},
		{"something unexpected broke", models.SignerGeneric},
	}
	for _, tc := range cases {
		t.Run(tc.message, func(t *testing.T) {
			serr := Classify(errors.New(tc.message))
			assert.Equal(t, tc.kind, serr.Kind)
			assert.Equal(t, tc.message, serr.Message)
		})
	}
}

func TestClassifyPassesThroughSignerError(t *testing.T) {
	original := &models.SignerError{Kind: models.SignerUserRejected, Message: "nope"}
	assert.Same(t, original, Classify(original))
}

func TestRegistryAdd(t *testing.T) {
	kp := keypair.MustRandom()
	local, err := NewLocal(kp.Seed())
	require.NoError(t, err)

	registry := Registry{}
	registry.Add(local)
	assert.Same(t, Backend(local), registry[LocalID])
}

func TestLocalRejectsBadSeed(t *testing.T) {
	_, err := NewLocal("not-a-seed")
	assert.Error(t, err)
}

func TestLocalRequestAddress(t *testing.T) {
	kp := keypair.MustRandom()
	local, err := NewLocal(kp.Seed())
	require.NoError(t, err)

	assert.True(t, local.Discover(context.Background()))
	address, err := local.RequestAddress(context.Background())
	require.NoError(t, err)
	assert.Equal(t, kp.Address(), address)
}

func TestLocalSign(t *testing.T) {
	kp := keypair.MustRandom()
	local, err := NewLocal(kp.Seed())
	require.NoError(t, err)

	source := txnbuild.SimpleAccount{AccountID: kp.Address(), Sequence: 1}
	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount: &source,
		Operations: []txnbuild.Operation{&txnbuild.Payment{
			Destination: keypair.MustRandom().Address(),
			Amount:      "1",
			Asset:       txnbuild.NativeAsset{},
		}},
		BaseFee:              txnbuild.MinBaseFee,
		Preconditions:        txnbuild.Preconditions{TimeBounds: txnbuild.NewTimeout(300)},
		IncrementSequenceNum: true,
	})
	require.NoError(t, err)
	unsigned, err := tx.Base64()
	require.NoError(t, err)

	signed, err := local.Sign(context.Background(), unsigned, network.TestNetworkPassphrase)
	require.NoError(t, err)
	assert.NotEqual(t, unsigned, signed)

	generic, err := txnbuild.TransactionFromXDR(signed)
	require.NoError(t, err)
	parsed, ok := generic.Transaction()
	require.True(t, ok)
	assert.Len(t, parsed.Signatures(), 1)

	// The unsigned input was not mutated.
	reparsed, err := txnbuild.TransactionFromXDR(unsigned)
	require.NoError(t, err)
	original, ok := reparsed.Transaction()
	require.True(t, ok)
	assert.Empty(t, original.Signatures())
}

func TestLocalSignMalformedEnvelope(t *testing.T) {
	local, err := NewLocal(keypair.MustRandom().Seed())
	require.NoError(t, err)

	_, err = local.Sign(context.Background(), "garbage", network.TestNetworkPassphrase)
	assert.Error(t, err)
}
