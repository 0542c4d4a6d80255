package services

import (
	"context"
	"strings"
	"time"

	"github.com/stellar/go/clients/horizonclient"
	hprotocol "github.com/stellar/go/protocols/horizon"
	"github.com/stellar/go/xdr"

	"github.com/stellarpay/wallet-core/models"
	"github.com/stellarpay/wallet-core/sorobanrpc"
)

// Submission channels.
const (
	ChannelHorizon = "horizon"
	ChannelRPC     = "rpc"
)

// horizonSubmitter is the slice of the Horizon client the submitter
// needs. *horizonclient.Client satisfies it.
type horizonSubmitter interface {
	SubmitTransactionXDR(transactionXdr string) (hprotocol.Transaction, error)
}

// rpcSender is the slice of the RPC client the submitter needs.
type rpcSender interface {
	SendTransaction(ctx context.Context, signedBase64 string) (*sorobanrpc.SendResponse, error)
}

// Submitter sends a signed envelope to the network exactly once and
// classifies the outcome. It is stateless and never retries; retry
// policy belongs to the caller, who must rebuild with a fresh sequence
// number after a rejection.
type Submitter struct {
	Horizon horizonSubmitter
	RPC     rpcSender
}

// NewSubmitter creates a Submitter over both submission channels.
func NewSubmitter(horizon horizonSubmitter, rpc rpcSender) *Submitter {
	return &Submitter{Horizon: horizon, RPC: rpc}
}

// Submit sends the signed envelope over the selected channel. The
// outcome is always a classification, never a bare error: transport
// failures come back as a network_error outcome.
func (s *Submitter) Submit(ctx context.Context, signedXDR, channel string) (*models.SubmissionOutcome, error) {
	switch strings.ToLower(channel) {
	case "", ChannelHorizon:
		return s.submitHorizon(signedXDR), nil
	case ChannelRPC:
		return s.submitRPC(ctx, signedXDR), nil
	default:
		return nil, &models.ValidationError{Field: "channel", Reason: "must be horizon or rpc"}
	}
}

func (s *Submitter) submitHorizon(signedXDR string) *models.SubmissionOutcome {
	resp, err := s.Horizon.SubmitTransactionXDR(signedXDR)
	if err != nil {
		if herr, ok := err.(*horizonclient.Error); ok {
			outcome := &models.SubmissionOutcome{
				Status:     models.OutcomeRejected,
				ResultCode: herr.Problem.Title,
			}
			if codes, cerr := herr.ResultCodes(); cerr == nil {
				outcome.ResultCode = codes.TransactionCode
				outcome.OperationResultCodes = codes.OperationCodes
			}
			return outcome
		}
		return &models.SubmissionOutcome{Status: models.OutcomeNetworkError, Cause: err.Error()}
	}

	return &models.SubmissionOutcome{
		Status:          models.OutcomeAccepted,
		Hash:            resp.Hash,
		LedgerCloseTime: resp.LedgerCloseTime,
	}
}

func (s *Submitter) submitRPC(ctx context.Context, signedXDR string) *models.SubmissionOutcome {
	resp, err := s.RPC.SendTransaction(ctx, signedXDR)
	if err != nil {
		return &models.SubmissionOutcome{Status: models.OutcomeNetworkError, Cause: err.Error()}
	}

	switch resp.Status {
	case sorobanrpc.SendStatusPending, sorobanrpc.SendStatusDuplicate:
		return &models.SubmissionOutcome{
			Status:          models.OutcomeAccepted,
			Hash:            resp.Hash,
			LedgerCloseTime: time.Unix(resp.CloseTimeUnix(), 0).UTC(),
		}
	case sorobanrpc.SendStatusError:
		return &models.SubmissionOutcome{
			Status:     models.OutcomeRejected,
			ResultCode: decodeResultCode(resp.ErrorResultXDR),
		}
	default:
		// TRY_AGAIN_LATER and anything unrecognized: not queued.
		return &models.SubmissionOutcome{
			Status:     models.OutcomeRejected,
			ResultCode: resp.Status,
		}
	}
}

// decodeResultCode extracts the transaction result code from the RPC
// error payload, falling back to the raw payload when undecodable.
func decodeResultCode(errorResultXDR string) string {
	var result xdr.TransactionResult
	if err := xdr.SafeUnmarshalBase64(errorResultXDR, &result); err != nil {
		return errorResultXDR
	}
	return result.Result.Code.String()
}
