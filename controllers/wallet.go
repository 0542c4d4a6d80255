package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/stellarpay/wallet-core/models"
	"github.com/stellarpay/wallet-core/services"
)

// WalletController handles wallet-related HTTP requests.
type WalletController struct {
	Accounts  *services.AccountService
	Builder   *services.TransactionBuilder
	Preparer  *services.ContractInvocationPreparer
	Submitter *services.Submitter
	History   *services.HistoryService
	Session   *services.WalletSession
	Friendbot *services.FriendbotService
}

// GetAccountDetails handles GET /api/v1/accounts/:address.
func (ctrl *WalletController) GetAccountDetails(c *gin.Context) {
	response, err := ctrl.Accounts.Details(c.Param("address"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// GetBalanceHistory handles GET /api/v1/accounts/:address/history.
func (ctrl *WalletController) GetBalanceHistory(c *gin.Context) {
	samples, err := ctrl.History.BalanceHistory(c.Param("address"), limitParam(c, 10))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"samples": samples})
}

// GetTransactions handles GET /api/v1/accounts/:address/transactions.
func (ctrl *WalletController) GetTransactions(c *gin.Context) {
	records, err := ctrl.History.RecentTransactions(c.Param("address"), limitParam(c, 10))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": records})
}

// FundAccount handles POST /api/v1/accounts/:address/fund.
func (ctrl *WalletController) FundAccount(c *gin.Context) {
	response, err := ctrl.Friendbot.Fund(c.Request.Context(), c.Param("address"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// BuildPayment handles POST /api/v1/transactions/payment. The source
// account's sequence number is re-fetched here so the envelope is
// built against the latest network value.
func (ctrl *WalletController) BuildPayment(c *gin.Context) {
	var req models.BuildPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	account, err := ctrl.Accounts.Snapshot(req.SourcePublicKey)
	if err != nil {
		respondError(c, err)
		return
	}
	response, err := ctrl.Builder.Build(account, req.Destination, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// PrepareContract handles POST /api/v1/transactions/contract.
func (ctrl *WalletController) PrepareContract(c *gin.Context) {
	var req models.PrepareContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	response, err := ctrl.Preparer.Prepare(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// QueryContract handles POST /api/v1/contracts/query. The invocation
// is simulated read-only; nothing reaches the ledger.
func (ctrl *WalletController) QueryContract(c *gin.Context) {
	var req models.ContractQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	response, err := ctrl.Preparer.Query(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// SubmitTransaction handles POST /api/v1/transactions/submit.
func (ctrl *WalletController) SubmitTransaction(c *gin.Context) {
	var req models.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	outcome, err := ctrl.Submitter.Submit(c.Request.Context(), req.SignedXDR, req.Channel)
	if err != nil {
		respondError(c, err)
		return
	}
	switch outcome.Status {
	case models.OutcomeAccepted:
		c.JSON(http.StatusOK, outcome)
	case models.OutcomeRejected:
		c.JSON(http.StatusBadRequest, outcome)
	default:
		c.JSON(http.StatusBadGateway, outcome)
	}
}

// GetSession handles GET /api/v1/session.
func (ctrl *WalletController) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, ctrl.Session.State())
}

// ConnectSession handles POST /api/v1/session/connect.
func (ctrl *WalletController) ConnectSession(c *gin.Context) {
	var req models.ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	if err := ctrl.Session.Connect(c.Request.Context(), req.BackendID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctrl.Session.State())
}

// DisconnectSession handles POST /api/v1/session/disconnect.
func (ctrl *WalletController) DisconnectSession(c *gin.Context) {
	if err := ctrl.Session.Disconnect(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ctrl.Session.State())
}

// SignTransaction handles POST /api/v1/session/sign.
func (ctrl *WalletController) SignTransaction(c *gin.Context) {
	var req models.SignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	signed, err := ctrl.Session.Sign(c.Request.Context(), req.TransactionXDR)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SignResponse{SignedXDR: signed})
}

// limitParam parses the limit query parameter, falling back on
// garbage or non-positive values.
func limitParam(c *gin.Context, fallback int) int {
	n, err := strconv.Atoi(c.DefaultQuery("limit", ""))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// respondError maps the error taxonomy onto HTTP statuses. Each bucket
// carries a distinct, actionable message for the caller.
func respondError(c *gin.Context, err error) {
	var verr *models.ValidationError
	var serr *models.SignerError
	var simErr *models.SimulationError
	var nerr *models.NetworkError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	case errors.As(err, &serr):
		switch serr.Kind {
		case models.SignerNotInstalled:
			c.JSON(http.StatusFailedDependency, gin.H{"error": serr.Message, "hint": "install the wallet"})
		case models.SignerUserRejected:
			c.JSON(http.StatusForbidden, gin.H{"error": serr.Message, "hint": "approve the request in the wallet"})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": serr.Message})
		}
	case errors.As(err, &simErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": simErr.Error()})
	case errors.As(err, &nerr):
		c.JSON(http.StatusBadGateway, gin.H{"error": nerr.Error()})
	case errors.Is(err, models.ErrSessionState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
