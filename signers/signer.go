// Package signers holds the interchangeable signer backends a wallet
// session can connect to. The session depends only on the three
// capabilities below and never branches on a backend's identity.
package signers

import (
	"context"
	"strings"

	"github.com/stellarpay/wallet-core/models"
)

// Backend is the capability set every signer integration provides.
type Backend interface {
	// ID identifies the backend in configuration and persisted sessions.
	ID() string
	// Discover reports whether the backend is reachable at all.
	Discover(ctx context.Context) bool
	// RequestAddress asks the backend for the address it signs for.
	RequestAddress(ctx context.Context) (string, error)
	// Sign authorizes an unsigned base64 envelope for the given network
	// passphrase and returns a new signed envelope. The input is never
	// mutated. The call may block on user interaction with no timeout
	// enforced here.
	Sign(ctx context.Context, envelopeXDR, networkPassphrase string) (string, error)
}

// Registry resolves backend IDs to configured backends.
type Registry map[string]Backend

// Add registers a backend under its own ID.
func (r Registry) Add(b Backend) { r[b.ID()] = b }

// Classify buckets a backend failure by inspecting its message. The
// substrings match what the known signer integrations report.
func Classify(err error) *models.SignerError {
	if serr, ok := err.(*models.SignerError); ok {
		return serr
	}
	msg := err.Error()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "not installed"),
		strings.Contains(lower, "not found"),
		strings.Contains(lower, "unavailable"):
		return &models.SignerError{Kind: models.SignerNotInstalled, Message: msg}
	case strings.Contains(lower, "reject"),
		strings.Contains(lower, "declin"),
		strings.Contains(lower, "denied"):
		return &models.SignerError{Kind: models.SignerUserRejected, Message: msg}
	default:
		return &models.SignerError{Kind: models.SignerGeneric, Message: msg}
	}
}
