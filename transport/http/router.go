package http

import (
	"github.com/gin-gonic/gin"

	"github.com/Sandipan3/hackoasis-backend/ports"
	"github.com/Sandipan3/hackoasis-backend/service"
)

// SetupRouter sets up the Gin router
func SetupRouter(authService *service.AuthService, tokenizer ports.Tokenizer, ledger ports.Ledger) *gin.Engine {
	router := gin.Default()

	authHandlers := NewAuthHandlers(authService)
	ledgerHandlers := NewLedgerHandlers(ledger)

	// Wallet authentication
	router.POST("/nonce", authHandlers.Nonce)
	router.POST("/login", authHandlers.Login)

	// Protected API routes
	api := router.Group("/api")
	api.Use(AuthMiddleware(tokenizer))
	{
		api.GET("/me", authHandlers.Me)
	}

	// Protected contract pass-through
	vote := router.Group("/vote")
	vote.Use(AuthMiddleware(tokenizer))
	{
		vote.POST("/create", ledgerHandlers.CreateElection)
		vote.POST("/register", ledgerHandlers.RegisterVoters)
		vote.POST("/vote", ledgerHandlers.CastVote)
		vote.POST("/add-admin", ledgerHandlers.AddAdmin)
		vote.POST("/role", ledgerHandlers.Role)
		vote.POST("/candidate/register", ledgerHandlers.RegisterCandidate)
		vote.GET("/candidate/:electionId/:candidateId", ledgerHandlers.Candidate)
		vote.GET("/count/:electionId/:candidateId", ledgerHandlers.VoteCount)
	}

	return router
}
