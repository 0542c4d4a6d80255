package signers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

// RemoteID is the backend ID of the external signer daemon.
const RemoteID = "remote"

// Remote talks to an external signer daemon over HTTP. The daemon owns
// the key material; this process only ever sees unsigned and signed
// envelopes. Signing may block on a human approving the request on the
// daemon's side.
type Remote struct {
	BaseURL string
	HTTP    *http.Client
}

// NewRemote creates a Remote backend for the daemon at baseURL.
func NewRemote(baseURL string) *Remote {
	return &Remote{BaseURL: baseURL, HTTP: http.DefaultClient}
}

// ID implements Backend.
func (r *Remote) ID() string { return RemoteID }

// Discover implements Backend via the daemon's health endpoint.
func (r *Remote) Discover(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.BaseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := r.client().Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

type addressResponse struct {
	Address string `json:"address"`
	Error   string `json:"error,omitempty"`
}

// RequestAddress implements Backend.
func (r *Remote) RequestAddress(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.BaseURL+"/address", nil)
	if err != nil {
		return "", err
	}
	resp, err := r.client().Do(req)
	if err != nil {
		return "", errors.New("signer unavailable: " + err.Error())
	}
	defer resp.Body.Close()

	var decoded addressResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", errors.New("malformed signer response")
	}
	if decoded.Error != "" {
		return "", errors.New(decoded.Error)
	}
	if decoded.Address == "" {
		return "", errors.New("signer returned no address")
	}
	return decoded.Address, nil
}

type signRequest struct {
	TransactionXDR    string `json:"transaction_xdr"`
	NetworkPassphrase string `json:"network_passphrase"`
}

type signResponse struct {
	SignedXDR string `json:"signed_xdr"`
	Error     string `json:"error,omitempty"`
}

// Sign implements Backend. No timeout beyond the context: the daemon
// may be waiting on user approval.
func (r *Remote) Sign(ctx context.Context, envelopeXDR, networkPassphrase string) (string, error) {
	body, err := json.Marshal(signRequest{
		TransactionXDR:    envelopeXDR,
		NetworkPassphrase: networkPassphrase,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.BaseURL+"/sign", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client().Do(req)
	if err != nil {
		return "", errors.New("signer unavailable: " + err.Error())
	}
	defer resp.Body.Close()

	var decoded signResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", errors.New("malformed signer response")
	}
	if decoded.Error != "" {
		return "", errors.New(decoded.Error)
	}
	if decoded.SignedXDR == "" {
		return "", errors.New("signer returned no envelope")
	}
	return decoded.SignedXDR, nil
}

func (r *Remote) client() *http.Client {
	if r.HTTP != nil {
		return r.HTTP
	}
	return http.DefaultClient
}
