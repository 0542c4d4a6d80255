package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stellar/go/clients/horizonclient"

	"github.com/stellarpay/wallet-core/config"
	"github.com/stellarpay/wallet-core/controllers"
	"github.com/stellarpay/wallet-core/services"
	"github.com/stellarpay/wallet-core/sessionstore"
	"github.com/stellarpay/wallet-core/signers"
	"github.com/stellarpay/wallet-core/sorobanrpc"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load configuration: %v", err)
	}

	log := logrus.New()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}
	log.SetFormatter(&logrus.JSONFormatter{})

	horizon := &horizonclient.Client{
		HorizonURL: cfg.HorizonURL,
		HTTP:       http.DefaultClient,
	}
	rpc := sorobanrpc.NewClient(cfg.SorobanRPC)

	store, err := sessionstore.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to open session store: %v", err)
	}
	defer store.Close()

	backends := signers.Registry{}
	switch cfg.SignerBackend {
	case "local":
		local, err := signers.NewLocal(cfg.SignerSeed)
		if err != nil {
			log.Fatalf("failed to configure local signer: %v", err)
		}
		backends.Add(local)
	case "remote":
		backends.Add(signers.NewRemote(cfg.SignerURL))
	}

	accounts := services.NewAccountService(horizon)
	session := services.NewWalletSession(backends, store, cfg.Network, cfg.Passphrase(), logrus.NewEntry(log))
	if err := session.Rehydrate(context.Background()); err != nil {
		log.WithError(err).Warn("session rehydration failed; starting disconnected")
	}

	ctrl := &controllers.WalletController{
		Accounts:  accounts,
		Builder:   services.NewTransactionBuilder(cfg.BaseFee, horizon),
		Preparer:  services.NewContractInvocationPreparer(rpc),
		Submitter: services.NewSubmitter(horizon, rpc),
		History:   services.NewHistoryService(horizon, accounts),
		Session:   session,
		Friendbot: services.NewFriendbotService(cfg.FriendbotURL, cfg.Network),
	}

	router := gin.Default()
	router.Use(requestID())

	api := router.Group("/api/v1")
	{
		api.GET("/accounts/:address", ctrl.GetAccountDetails)
		api.GET("/accounts/:address/history", ctrl.GetBalanceHistory)
		api.GET("/accounts/:address/transactions", ctrl.GetTransactions)
		api.POST("/accounts/:address/fund", ctrl.FundAccount)

		api.POST("/transactions/payment", ctrl.BuildPayment)
		api.POST("/transactions/contract", ctrl.PrepareContract)
		api.POST("/contracts/query", ctrl.QueryContract)
		api.POST("/transactions/submit", ctrl.SubmitTransaction)

		api.GET("/session", ctrl.GetSession)
		api.POST("/session/connect", ctrl.ConnectSession)
		api.POST("/session/disconnect", ctrl.DisconnectSession)
		api.POST("/session/sign", ctrl.SignTransaction)
	}

	log.WithFields(logrus.Fields{"network": cfg.Network, "addr": cfg.Address()}).Info("starting wallet core")
	if err := router.Run(cfg.Address()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

// requestID tags every request with an id for log correlation.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}
