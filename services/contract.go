package services

import (
	"context"
	"errors"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/txnbuild"
	"github.com/stellar/go/xdr"

	"github.com/stellarpay/wallet-core/models"
	"github.com/stellarpay/wallet-core/sorobanrpc"
)

// draftInvocationFee is the nominal fee carried by the draft envelope
// sent to simulation. The real fee is known only after simulation.
const draftInvocationFee = 100_000

// sorobanClient is the slice of the RPC client the preparer needs.
// *sorobanrpc.Client satisfies it.
type sorobanClient interface {
	GetAccountSequence(ctx context.Context, address string) (int64, error)
	SimulateTransaction(ctx context.Context, txBase64 string) (*sorobanrpc.SimulateResponse, error)
}

// ContractInvocationPreparer builds contract-call envelopes: it drafts
// the invocation, simulates it, and on success assembles the simulation
// footprint and fee into a final envelope ready for signing. Each call
// performs independent network round trips; nothing is cached.
type ContractInvocationPreparer struct {
	RPC sorobanClient
}

// NewContractInvocationPreparer creates a preparer over the given RPC client.
func NewContractInvocationPreparer(rpc sorobanClient) *ContractInvocationPreparer {
	return &ContractInvocationPreparer{RPC: rpc}
}

// draft validates the request, builds the invoke operation and encodes
// a draft envelope ready for simulation.
func (p *ContractInvocationPreparer) draft(ctx context.Context, req models.PrepareContractRequest) (*txnbuild.InvokeHostFunction, string, int64, error) {
	if _, err := keypair.ParseAddress(req.SourcePublicKey); err != nil {
		return nil, "", 0, &models.ValidationError{Field: "source_public_key", Reason: "not a valid account address"}
	}
	contractAddr, err := scAddressFromString(req.ContractID)
	if err != nil || contractAddr.Type != xdr.ScAddressTypeScAddressTypeContract {
		return nil, "", 0, &models.ValidationError{Field: "contract_id", Reason: "not a valid contract address"}
	}
	if req.Function == "" || len(req.Function) > 32 {
		return nil, "", 0, &models.ValidationError{Field: "function", Reason: "must be a symbol of 1-32 characters"}
	}

	args := make([]xdr.ScVal, 0, len(req.Args))
	for _, a := range req.Args {
		v, err := scValFromArg(a)
		if err != nil {
			return nil, "", 0, err
		}
		args = append(args, v)
	}

	sequence, err := p.RPC.GetAccountSequence(ctx, req.SourcePublicKey)
	if err != nil {
		return nil, "", 0, &models.NetworkError{Cause: err}
	}

	invokeOp := &txnbuild.InvokeHostFunction{
		HostFunction: xdr.HostFunction{
			Type: xdr.HostFunctionTypeHostFunctionTypeInvokeContract,
			InvokeContract: &xdr.InvokeContractArgs{
				ContractAddress: contractAddr,
				FunctionName:    xdr.ScSymbol(req.Function),
				Args:            args,
			},
		},
		SourceAccount: req.SourcePublicKey,
	}

	tx, err := p.buildInvocation(req.SourcePublicKey, sequence, invokeOp, draftInvocationFee)
	if err != nil {
		return nil, "", 0, err
	}
	draftXDR, err := tx.Base64()
	if err != nil {
		return nil, "", 0, errors.New("failed to encode draft transaction: " + err.Error())
	}
	return invokeOp, draftXDR, sequence, nil
}

// Prepare runs the full draft -> simulate -> assemble pipeline. A
// failed simulation returns SimulationError and no envelope: a call
// the network reports as doomed must never reach the signing stage.
func (p *ContractInvocationPreparer) Prepare(ctx context.Context, req models.PrepareContractRequest) (*models.PrepareContractResponse, error) {
	invokeOp, draftXDR, sequence, err := p.draft(ctx, req)
	if err != nil {
		return nil, err
	}

	sim, err := p.RPC.SimulateTransaction(ctx, draftXDR)
	if err != nil {
		return nil, &models.NetworkError{Cause: err}
	}
	if sim.Error != "" {
		return nil, &models.SimulationError{Diagnostic: sim.Error}
	}

	assembled, err := assembleInvocation(invokeOp, sim)
	if err != nil {
		return nil, err
	}
	minFee := sim.MinFee()
	final, err := p.buildInvocation(req.SourcePublicKey, sequence, assembled, draftInvocationFee+minFee)
	if err != nil {
		return nil, err
	}
	finalXDR, err := final.Base64()
	if err != nil {
		return nil, errors.New("failed to encode assembled transaction: " + err.Error())
	}

	return &models.PrepareContractResponse{
		TransactionXDR: finalXDR,
		Fee:            final.BaseFee(),
		MinResourceFee: minFee,
	}, nil
}

// Query runs a read-only contract function through simulation and
// decodes its return value. Nothing is signed or submitted; the ledger
// is never touched.
func (p *ContractInvocationPreparer) Query(ctx context.Context, req models.ContractQueryRequest) (*models.ContractQueryResponse, error) {
	_, draftXDR, _, err := p.draft(ctx, models.PrepareContractRequest(req))
	if err != nil {
		return nil, err
	}

	sim, err := p.RPC.SimulateTransaction(ctx, draftXDR)
	if err != nil {
		return nil, &models.NetworkError{Cause: err}
	}
	if sim.Error != "" {
		return nil, &models.SimulationError{Diagnostic: sim.Error}
	}
	if len(sim.Results) == 0 || sim.Results[0].XDR == "" {
		return nil, &models.SimulationError{Diagnostic: "simulation returned no value"}
	}

	var retval xdr.ScVal
	if err := xdr.SafeUnmarshalBase64(sim.Results[0].XDR, &retval); err != nil {
		return nil, errors.New("malformed simulation return value: " + err.Error())
	}
	valueType, value, err := renderScVal(retval)
	if err != nil {
		return nil, err
	}

	return &models.ContractQueryResponse{
		Type:         valueType,
		Value:        value,
		LatestLedger: sim.LatestLedger,
	}, nil
}

// buildInvocation wraps one invoke operation into an envelope at the
// given fee. A fresh SimpleAccount is used each time so the sequence
// increment applies exactly once per build.
func (p *ContractInvocationPreparer) buildInvocation(source string, sequence int64, op *txnbuild.InvokeHostFunction, fee int64) (*txnbuild.Transaction, error) {
	sourceAccount := txnbuild.SimpleAccount{AccountID: source, Sequence: sequence}
	tx, err := txnbuild.NewTransaction(
		txnbuild.TransactionParams{
			SourceAccount:        &sourceAccount,
			Operations:           []txnbuild.Operation{op},
			BaseFee:              fee,
			Preconditions:        txnbuild.Preconditions{TimeBounds: txnbuild.NewTimeout(envelopeTimeout)},
			IncrementSequenceNum: true,
		},
	)
	if err != nil {
		return nil, errors.New("failed to build transaction: " + err.Error())
	}
	return tx, nil
}

// assembleInvocation merges the simulation's resource footprint and
// authorization entries into a copy of the draft operation.
func assembleInvocation(op *txnbuild.InvokeHostFunction, sim *sorobanrpc.SimulateResponse) (*txnbuild.InvokeHostFunction, error) {
	var sorobanData xdr.SorobanTransactionData
	if err := xdr.SafeUnmarshalBase64(sim.TransactionData, &sorobanData); err != nil {
		return nil, errors.New("malformed simulation transaction data: " + err.Error())
	}

	assembled := *op
	assembled.Ext = xdr.TransactionExt{V: 1, SorobanData: &sorobanData}

	if len(sim.Results) > 0 {
		auth := make([]xdr.SorobanAuthorizationEntry, 0, len(sim.Results[0].Auth))
		for _, encoded := range sim.Results[0].Auth {
			var entry xdr.SorobanAuthorizationEntry
			if err := xdr.SafeUnmarshalBase64(encoded, &entry); err != nil {
				return nil, errors.New("malformed simulation auth entry: " + err.Error())
			}
			auth = append(auth, entry)
		}
		assembled.Auth = auth
	}
	return &assembled, nil
}
