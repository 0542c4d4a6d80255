package services

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/stellar/go/keypair"

	"github.com/stellarpay/wallet-core/models"
)

// FriendbotService funds test-network accounts from a faucet endpoint.
// Repeated calls for the same address may be rate limited by the
// faucet, so a rejection is reported, not treated as fatal.
type FriendbotService struct {
	URL     string
	Network string
	HTTP    *http.Client
}

// NewFriendbotService creates a funding service for the given faucet.
func NewFriendbotService(faucetURL, networkName string) *FriendbotService {
	return &FriendbotService{URL: faucetURL, Network: networkName, HTTP: http.DefaultClient}
}

// Fund asks the faucet to fund the address. Only available on testnet.
func (s *FriendbotService) Fund(ctx context.Context, address string) (*models.FundResponse, error) {
	if s.Network != "testnet" {
		return nil, &models.ValidationError{Field: "network", Reason: "funding is only available on testnet"}
	}
	if _, err := keypair.ParseAddress(address); err != nil {
		return nil, &models.ValidationError{Field: "address", Reason: "not a valid account address"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL+"?addr="+url.QueryEscape(address), nil)
	if err != nil {
		return nil, err
	}

	httpClient := s.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &models.NetworkError{Cause: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return &models.FundResponse{Funded: true, Message: "account funded"}, nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return &models.FundResponse{Funded: false, Message: "account may already be funded or rate limited"}, nil
	default:
		return nil, &models.NetworkError{Cause: errors.New("faucet returned status " + resp.Status)}
	}
}
