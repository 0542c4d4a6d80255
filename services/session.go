package services

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/stellarpay/wallet-core/models"
	"github.com/stellarpay/wallet-core/sessionstore"
	"github.com/stellarpay/wallet-core/signers"
)

// Session states.
const (
	StateDisconnected = "disconnected"
	StateConnecting   = "connecting"
	StateConnected    = "connected"
	StateError        = "error"
)

// WalletSession is the process-wide wallet session state machine.
// Exactly one instance exists per process, constructed at startup and
// passed to whoever needs it; only its own methods mutate the state.
//
// Transitions:
//
//	Disconnected -> Connecting -> Connected | Error
//	Error        -> Disconnected (dismiss) | Connecting (retry)
//	Connected    -> Disconnected
//
// Signing happens in Connected and never changes state, even on
// failure. A disconnect during Connecting bumps the generation counter
// so the in-flight attempt's late result is discarded.
type WalletSession struct {
	mu         sync.Mutex
	state      string
	backendID  string
	address    string
	errMsg     string
	generation uint64

	network    string
	passphrase string
	backends   signers.Registry
	store      sessionstore.Store
	log        *logrus.Entry
}

// NewWalletSession creates a session in the Disconnected state.
func NewWalletSession(backends signers.Registry, store sessionstore.Store, network, passphrase string, log *logrus.Entry) *WalletSession {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &WalletSession{
		state:      StateDisconnected,
		network:    network,
		passphrase: passphrase,
		backends:   backends,
		store:      store,
		log:        log,
	}
}

// State returns a snapshot of the session for API callers.
func (s *WalletSession) State() models.SessionResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp := models.SessionResponse{State: s.state}
	switch s.state {
	case StateConnecting:
		resp.BackendID = s.backendID
	case StateConnected:
		resp.BackendID = s.backendID
		resp.Address = s.address
		resp.Network = s.network
	case StateError:
		resp.Error = s.errMsg
	}
	return resp
}

// Connect discovers the backend, requests its address and moves the
// session to Connected. On failure the session lands in Error with a
// classified message. Connect is legal from Disconnected and from
// Error (retry).
func (s *WalletSession) Connect(ctx context.Context, backendID string) error {
	s.mu.Lock()
	if s.state != StateDisconnected && s.state != StateError {
		s.mu.Unlock()
		return models.ErrSessionState
	}
	s.state = StateConnecting
	s.backendID = backendID
	s.errMsg = ""
	gen := s.generation
	s.mu.Unlock()

	backend, ok := s.backends[backendID]
	if !ok {
		return s.failConnect(gen, &models.SignerError{
			Kind:    models.SignerNotInstalled,
			Message: "wallet backend " + backendID + " is not configured",
		})
	}
	if !backend.Discover(ctx) {
		return s.failConnect(gen, &models.SignerError{
			Kind:    models.SignerNotInstalled,
			Message: "wallet is not installed or not reachable",
		})
	}

	address, err := backend.RequestAddress(ctx)
	if err != nil {
		return s.failConnect(gen, signers.Classify(err))
	}

	// Persist before committing the transition. Whichever way a racing
	// disconnect interleaves with the save, the stale-generation check
	// below sees it and clears the record again.
	if err := s.store.Save(ctx, sessionstore.Record{BackendID: backendID, Address: address}); err != nil {
		s.log.WithError(err).Warn("failed to persist session; restart will not rehydrate")
	}

	s.mu.Lock()
	if s.generation != gen || s.state != StateConnecting {
		s.mu.Unlock()
		if cerr := s.store.Clear(ctx); cerr != nil {
			s.log.WithError(cerr).Warn("failed to clear stale session record")
		}
		s.log.WithField("backend", backendID).Warn("discarding stale connect result")
		return models.ErrSessionState
	}
	s.state = StateConnected
	s.address = address
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{"backend": backendID, "address": address}).Info("wallet connected")
	return nil
}

func (s *WalletSession) failConnect(gen uint64, serr *models.SignerError) error {
	s.mu.Lock()
	if s.generation == gen && s.state == StateConnecting {
		s.state = StateError
		s.errMsg = serr.Message
	}
	s.mu.Unlock()
	return serr
}

// Disconnect moves the session to Disconnected from any state and
// clears the persisted record. A connect attempt still in flight is
// invalidated: its late result will be discarded.
func (s *WalletSession) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	s.generation++
	s.state = StateDisconnected
	s.backendID = ""
	s.address = ""
	s.errMsg = ""
	s.mu.Unlock()

	if err := s.store.Clear(ctx); err != nil {
		return errors.New("failed to clear persisted session: " + err.Error())
	}
	return nil
}

// Sign authorizes an unsigned envelope through the connected backend
// and returns a new signed envelope. State is untouched either way: a
// failed sign leaves the session Connected with the same address.
func (s *WalletSession) Sign(ctx context.Context, envelopeXDR string) (string, error) {
	s.mu.Lock()
	if s.state != StateConnected {
		s.mu.Unlock()
		return "", models.ErrSessionState
	}
	backend := s.backends[s.backendID]
	gen := s.generation
	s.mu.Unlock()

	if backend == nil {
		return "", &models.SignerError{Kind: models.SignerNotInstalled, Message: "wallet backend is no longer configured"}
	}

	signed, err := backend.Sign(ctx, envelopeXDR, s.passphrase)
	if err != nil {
		return "", signers.Classify(err)
	}

	s.mu.Lock()
	stale := s.generation != gen
	s.mu.Unlock()
	if stale {
		s.log.Warn("discarding stale sign result")
		return "", models.ErrSessionState
	}
	return signed, nil
}

// Rehydrate restores Connected state from the persisted record, if
// any. Restoration is optimistic: the signer is not probed here, so a
// stale record can look connected until the first sign attempt fails.
func (s *WalletSession) Rehydrate(ctx context.Context) error {
	rec, found, err := s.store.Load(ctx)
	if err != nil {
		return errors.New("failed to load persisted session: " + err.Error())
	}
	if !found {
		return nil
	}
	if _, ok := s.backends[rec.BackendID]; !ok {
		s.log.WithField("backend", rec.BackendID).Warn("persisted session references unknown backend; clearing")
		return s.store.Clear(ctx)
	}

	s.mu.Lock()
	s.state = StateConnected
	s.backendID = rec.BackendID
	s.address = rec.Address
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{"backend": rec.BackendID, "address": rec.Address}).Info("wallet session rehydrated")
	return nil
}
