package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stellar/go/keypair"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellarpay/wallet-core/models"
)

func faucet(t *testing.T, status int, wantAddr *string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if wantAddr != nil {
			*wantAddr = r.URL.Query().Get("addr")
		}
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFund(t *testing.T) {
	var seenAddr string
	server := faucet(t, http.StatusOK, &seenAddr)
	svc := NewFriendbotService(server.URL, "testnet")
	address := keypair.MustRandom().Address()

	resp, err := svc.Fund(context.Background(), address)
	require.NoError(t, err)
	assert.True(t, resp.Funded)
	assert.Equal(t, address, seenAddr)
}

func TestFundAlreadyFunded(t *testing.T) {
	server := faucet(t, http.StatusBadRequest, nil)
	svc := NewFriendbotService(server.URL, "testnet")

	resp, err := svc.Fund(context.Background(), keypair.MustRandom().Address())
	require.NoError(t, err)
	assert.False(t, resp.Funded)
	assert.NotEmpty(t, resp.Message)
}

func TestFundFaucetDown(t *testing.T) {
	server := faucet(t, http.StatusInternalServerError, nil)
	svc := NewFriendbotService(server.URL, "testnet")

	_, err := svc.Fund(context.Background(), keypair.MustRandom().Address())
	var nerr *models.NetworkError
	assert.ErrorAs(t, err, &nerr)
}

func TestFundRefusedOffTestnet(t *testing.T) {
	svc := NewFriendbotService("http://unused", "public")

	_, err := svc.Fund(context.Background(), keypair.MustRandom().Address())
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "network", verr.Field)
}

func TestFundInvalidAddress(t *testing.T) {
	svc := NewFriendbotService("http://unused", "testnet")

	_, err := svc.Fund(context.Background(), "nonsense")
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)
}
