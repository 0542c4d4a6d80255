// Package sorobanrpc is a minimal client for the Soroban JSON-RPC
// endpoint, covering the calls the wallet core needs: account sequence
// reads, transaction simulation and transaction submission.
package sorobanrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/stellar/go/xdr"
)

// Client talks JSON-RPC 2.0 to a Soroban RPC server.
type Client struct {
	URL  string
	HTTP *http.Client

	nextID uint64
}

// NewClient creates a Client for the given endpoint URL.
func NewClient(url string) *Client {
	return &Client{URL: url, HTTP: http.DefaultClient}
}

// Error is a JSON-RPC error returned by the server.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      uint64      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *Error          `json:"error"`
}

func (c *Client) call(ctx context.Context, method string, params, result interface{}) error {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      atomic.AddUint64(&c.nextID, 1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("rpc endpoint returned status %d", resp.StatusCode)
	}

	var decoded rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return fmt.Errorf("decoding rpc response: %w", err)
	}
	if decoded.Error != nil {
		return decoded.Error
	}
	return json.Unmarshal(decoded.Result, result)
}

type getLedgerEntriesParams struct {
	Keys []string `json:"keys"`
}

type getLedgerEntriesResponse struct {
	Entries []struct {
		XDR string `json:"xdr"`
	} `json:"entries"`
	LatestLedger uint32 `json:"latestLedger"`
}

// GetAccountSequence reads the current sequence number of an account
// through a ledger-entry lookup.
func (c *Client) GetAccountSequence(ctx context.Context, address string) (int64, error) {
	accountID, err := xdr.AddressToAccountId(address)
	if err != nil {
		return 0, fmt.Errorf("invalid account address: %w", err)
	}
	key := xdr.LedgerKey{
		Type:    xdr.LedgerEntryTypeAccount,
		Account: &xdr.LedgerKeyAccount{AccountId: accountID},
	}
	keyBase64, err := xdr.MarshalBase64(key)
	if err != nil {
		return 0, err
	}

	var resp getLedgerEntriesResponse
	if err := c.call(ctx, "getLedgerEntries", getLedgerEntriesParams{Keys: []string{keyBase64}}, &resp); err != nil {
		return 0, err
	}
	if len(resp.Entries) == 0 {
		return 0, fmt.Errorf("account %s not found on ledger", address)
	}

	var data xdr.LedgerEntryData
	if err := xdr.SafeUnmarshalBase64(resp.Entries[0].XDR, &data); err != nil {
		return 0, fmt.Errorf("decoding account entry: %w", err)
	}
	if data.Type != xdr.LedgerEntryTypeAccount || data.Account == nil {
		return 0, fmt.Errorf("unexpected ledger entry type %v", data.Type)
	}
	return int64(data.Account.SeqNum), nil
}

// SimulateResult is one per-operation result of a successful simulation.
type SimulateResult struct {
	XDR  string   `json:"xdr"`
	Auth []string `json:"auth"`
}

// SimulateResponse is the server's answer to simulateTransaction.
// A non-empty Error means the invocation would fail on-chain; the
// remaining fields are then unusable.
type SimulateResponse struct {
	Error           string           `json:"error,omitempty"`
	TransactionData string           `json:"transactionData"`
	MinResourceFee  string           `json:"minResourceFee"`
	Results         []SimulateResult `json:"results"`
	LatestLedger    uint32           `json:"latestLedger"`
}

// MinFee parses the minimum resource fee. Zero when absent.
func (r *SimulateResponse) MinFee() int64 {
	v, err := strconv.ParseInt(r.MinResourceFee, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

type transactionParams struct {
	Transaction string `json:"transaction"`
}

// SimulateTransaction runs a read-only, no-commit execution of the
// given envelope to determine its resource footprint and fee.
func (c *Client) SimulateTransaction(ctx context.Context, txBase64 string) (*SimulateResponse, error) {
	var resp SimulateResponse
	if err := c.call(ctx, "simulateTransaction", transactionParams{Transaction: txBase64}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Send statuses reported by sendTransaction. Only PENDING and
// DUPLICATE mean the transaction reached the queue; TRY_AGAIN_LATER
// means it was dropped without being queued.
const (
	SendStatusPending       = "PENDING"
	SendStatusDuplicate     = "DUPLICATE"
	SendStatusError         = "ERROR"
	SendStatusTryAgainLater = "TRY_AGAIN_LATER"
)

// SendResponse is the server's answer to sendTransaction.
type SendResponse struct {
	Status                string `json:"status"`
	Hash                  string `json:"hash"`
	ErrorResultXDR        string `json:"errorResultXdr,omitempty"`
	LatestLedger          uint32 `json:"latestLedger"`
	LatestLedgerCloseTime string `json:"latestLedgerCloseTime"`
}

// CloseTimeUnix parses the latest ledger close time. Zero when absent.
func (r *SendResponse) CloseTimeUnix() int64 {
	v, err := strconv.ParseInt(r.LatestLedgerCloseTime, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// SendTransaction submits a signed envelope to the network through the
// RPC endpoint. The call does not wait for inclusion in a ledger.
func (c *Client) SendTransaction(ctx context.Context, signedBase64 string) (*SendResponse, error) {
	var resp SendResponse
	if err := c.call(ctx, "sendTransaction", transactionParams{Transaction: signedBase64}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
