package models

import "time"

// Balance is one asset balance held by a ledger account.
type Balance struct {
	AssetType string `json:"asset_type"`
	AssetCode string `json:"asset_code,omitempty"`
	Issuer    string `json:"issuer,omitempty"`
	Balance   string `json:"balance"`
}

// LedgerAccount is a point-in-time snapshot of an account read from
// Horizon. The sequence number is stale as soon as a transaction built
// against it is submitted; callers must re-fetch before reuse.
type LedgerAccount struct {
	Address        string    `json:"address"`
	SequenceNumber int64     `json:"sequence_number"`
	Balances       []Balance `json:"balances"`
}

// AccountDetailsResponse is the API response for account details.
type AccountDetailsResponse struct {
	PublicKey      string    `json:"public_key"`
	Exists         bool      `json:"exists"`
	Balances       []Balance `json:"balances"`
	SequenceNumber int64     `json:"sequence_number"`
}

// BuildPaymentRequest is the request body for building an unsigned
// native-asset payment envelope.
type BuildPaymentRequest struct {
	SourcePublicKey string `json:"source_public_key" binding:"required"`
	Destination     string `json:"destination" binding:"required"`
	Amount          string `json:"amount" binding:"required"`
}

// BuildPaymentResponse carries the unsigned envelope back to the caller.
type BuildPaymentResponse struct {
	TransactionXDR string `json:"transaction_xdr"`
	SequenceNumber int64  `json:"sequence_number"`
	Fee            int64  `json:"fee"`
}

// ContractArg is one typed argument for a contract invocation.
// Supported types: address, i128, u64, i64, u32, symbol, string, bool.
// Monetary i128 values are decimal token strings scaled to stroops.
type ContractArg struct {
	Type  string `json:"type" binding:"required"`
	Value string `json:"value" binding:"required"`
}

// PrepareContractRequest is the request body for preparing a
// simulation-assembled contract invocation.
type PrepareContractRequest struct {
	SourcePublicKey string        `json:"source_public_key" binding:"required"`
	ContractID      string        `json:"contract_id" binding:"required"`
	Function        string        `json:"function" binding:"required"`
	Args            []ContractArg `json:"args"`
}

// PrepareContractResponse carries the assembled, fee-correct envelope.
type PrepareContractResponse struct {
	TransactionXDR string `json:"transaction_xdr"`
	Fee            int64  `json:"fee"`
	MinResourceFee int64  `json:"min_resource_fee"`
}

// ContractQueryRequest invokes a read-only contract function. The
// invocation is simulated only, never signed or submitted.
type ContractQueryRequest struct {
	SourcePublicKey string        `json:"source_public_key" binding:"required"`
	ContractID      string        `json:"contract_id" binding:"required"`
	Function        string        `json:"function" binding:"required"`
	Args            []ContractArg `json:"args"`
}

// ContractQueryResponse carries the decoded return value of a
// read-only invocation. Monetary i128 values are descaled back to
// 7-decimal token strings.
type ContractQueryResponse struct {
	Type         string `json:"type"`
	Value        string `json:"value"`
	LatestLedger uint32 `json:"latest_ledger"`
}

// SubmitRequest is the request body for submitting a signed envelope.
// Channel selects the submission path: "horizon" (default) or "rpc".
type SubmitRequest struct {
	SignedXDR string `json:"signed_xdr" binding:"required"`
	Channel   string `json:"channel"`
}

// SubmissionOutcome classifies the result of a submission. Exactly one
// of the three shapes is populated, discriminated by Status.
type SubmissionOutcome struct {
	Status               string    `json:"status"`
	Hash                 string    `json:"hash,omitempty"`
	LedgerCloseTime      time.Time `json:"ledger_close_time,omitempty"`
	ResultCode           string    `json:"result_code,omitempty"`
	OperationResultCodes []string  `json:"operation_result_codes,omitempty"`
	Cause                string    `json:"cause,omitempty"`
}

// Outcome status values.
const (
	OutcomeAccepted     = "accepted"
	OutcomeRejected     = "rejected"
	OutcomeNetworkError = "network_error"
)

// PaymentRecord is one native payment from an account's operation log,
// ordered newest first when fed to the history reconstructor.
type PaymentRecord struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	Amount    int64     `json:"amount"` // stroops
	Timestamp time.Time `json:"timestamp"`
}

// BalanceSample is one point of a reconstructed balance-over-time
// series. Samples are ordered oldest first.
type BalanceSample struct {
	Timestamp time.Time `json:"timestamp"`
	Balance   string    `json:"balance"`
}

// TransactionRecord is one entry of an account's recent transactions.
type TransactionRecord struct {
	Hash            string    `json:"hash"`
	LedgerCloseTime time.Time `json:"ledger_close_time"`
	Successful      bool      `json:"successful"`
	FeeCharged      int64     `json:"fee_charged"`
	Memo            string    `json:"memo,omitempty"`
}

// SessionResponse is the API view of the wallet session state machine.
type SessionResponse struct {
	State     string `json:"state"`
	BackendID string `json:"backend_id,omitempty"`
	Address   string `json:"address,omitempty"`
	Network   string `json:"network,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ConnectRequest selects the signer backend to connect.
type ConnectRequest struct {
	BackendID string `json:"backend_id" binding:"required"`
}

// SignRequest asks the connected session to sign an unsigned envelope.
type SignRequest struct {
	TransactionXDR string `json:"transaction_xdr" binding:"required"`
}

// SignResponse carries the signed envelope. The unsigned input is not
// mutated; signing always produces a new value.
type SignResponse struct {
	SignedXDR string `json:"signed_xdr"`
}

// FundResponse is the API response for friendbot funding.
type FundResponse struct {
	Funded  bool   `json:"funded"`
	Message string `json:"message"`
}
