package signers

import (
	"context"
	"errors"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/txnbuild"
)

// LocalID is the backend ID of the in-process keypair signer.
const LocalID = "local"

// Local signs with a keypair held in process memory. It exists for
// server-side wallets and tests; interactive wallets use Remote.
type Local struct {
	kp *keypair.Full
}

// NewLocal creates a Local backend from a secret seed.
func NewLocal(seed string) (*Local, error) {
	kp, err := keypair.ParseFull(seed)
	if err != nil {
		return nil, errors.New("invalid signer seed")
	}
	return &Local{kp: kp}, nil
}

// ID implements Backend.
func (l *Local) ID() string { return LocalID }

// Discover implements Backend. A parsed keypair is always available.
func (l *Local) Discover(ctx context.Context) bool { return l.kp != nil }

// RequestAddress implements Backend.
func (l *Local) RequestAddress(ctx context.Context) (string, error) {
	if l.kp == nil {
		return "", errors.New("signer not found")
	}
	return l.kp.Address(), nil
}

// Sign implements Backend. The signed envelope is a new value; the
// unsigned input stays untouched.
func (l *Local) Sign(ctx context.Context, envelopeXDR, networkPassphrase string) (string, error) {
	if l.kp == nil {
		return "", errors.New("signer not found")
	}

	generic, err := txnbuild.TransactionFromXDR(envelopeXDR)
	if err != nil {
		return "", errors.New("malformed transaction envelope: " + err.Error())
	}
	tx, ok := generic.Transaction()
	if !ok {
		return "", errors.New("unsupported envelope type")
	}

	signed, err := tx.Sign(networkPassphrase, l.kp)
	if err != nil {
		return "", errors.New("failed to sign transaction: " + err.Error())
	}
	return signed.Base64()
}
