package models

import (
	"errors"
	"fmt"
)

// SignerErrorKind buckets failures reported by a signer backend.
type SignerErrorKind string

const (
	// SignerNotInstalled means the backend could not be discovered at all.
	SignerNotInstalled SignerErrorKind = "not_installed"
	// SignerUserRejected means the user declined the request in the signer.
	SignerUserRejected SignerErrorKind = "user_rejected"
	// SignerGeneric covers every other backend failure.
	SignerGeneric SignerErrorKind = "generic"
)

// ValidationError reports input rejected locally, before any network
// call. It is never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// SignerError reports a failure from a signer backend, classified by
// inspecting the backend's error message.
type SignerError struct {
	Kind    SignerErrorKind
	Message string
}

func (e *SignerError) Error() string {
	return fmt.Sprintf("signer error (%s): %s", e.Kind, e.Message)
}

// SimulationError means the contract invocation would fail on-chain.
// The flow halts before signing.
type SimulationError struct {
	Diagnostic string
}

func (e *SimulationError) Error() string {
	return "simulation failed: " + e.Diagnostic
}

// NetworkError is a transport failure at a network boundary. No server
// state was mutated, so the caller may retry.
type NetworkError struct {
	Cause error
}

func (e *NetworkError) Error() string {
	return "network error: " + e.Cause.Error()
}

func (e *NetworkError) Unwrap() error { return e.Cause }

// ErrSessionState is returned when a session operation is requested in
// a state that does not permit it.
var ErrSessionState = errors.New("operation not permitted in current session state")

// ErrAccountNotFound is returned when the ledger has no entry for the
// requested account.
var ErrAccountNotFound = errors.New("account not found")
