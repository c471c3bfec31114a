package http

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"

	"github.com/Sandipan3/hackoasis-backend/ports"
)

// LedgerHandlers are thin pass-throughs to the voting contract: marshal the
// request body into a contract call, relay the receipt.
type LedgerHandlers struct {
	ledger ports.Ledger
}

// NewLedgerHandlers creates new ledger handlers
func NewLedgerHandlers(ledger ports.Ledger) *LedgerHandlers {
	return &LedgerHandlers{
		ledger: ledger,
	}
}

// CreateElection handles election creation
func (h *LedgerHandlers) CreateElection(c *gin.Context) {
	var req struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing title or description"})
		return
	}

	electionID, txHash, err := h.ledger.CreateElection(c.Request.Context(), req.Title, req.Description)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Election created successfully",
		"electionId": electionID.String(),
		"txHash":     txHash,
	})
}

// RegisterVoters handles voter registration
func (h *LedgerHandlers) RegisterVoters(c *gin.Context) {
	var req struct {
		ElectionID          uint64   `json:"electionId"`
		IdentityCommitments []string `json:"identityCommitments" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing electionId or identityCommitments"})
		return
	}

	commitments := make([]common.Hash, 0, len(req.IdentityCommitments))
	for _, raw := range req.IdentityCommitments {
		commitment, ok := parseBytes32(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid identity commitment"})
			return
		}
		commitments = append(commitments, commitment)
	}

	txHash, err := h.ledger.RegisterVoters(c.Request.Context(), new(big.Int).SetUint64(req.ElectionID), commitments)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Voters registered successfully", "txHash": txHash})
}

// CastVote handles vote submission
func (h *LedgerHandlers) CastVote(c *gin.Context) {
	var req struct {
		ElectionID         uint64 `json:"electionId"`
		CandidateID        uint64 `json:"candidateId"`
		Nullifier          string `json:"nullifier" binding:"required"`
		IdentityCommitment string `json:"identityCommitment" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid vote request"})
		return
	}

	nullifier, ok := parseBytes32(req.Nullifier)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid nullifier"})
		return
	}
	commitment, ok := parseBytes32(req.IdentityCommitment)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid identity commitment"})
		return
	}

	txHash, err := h.ledger.CastVote(
		c.Request.Context(),
		new(big.Int).SetUint64(req.ElectionID),
		new(big.Int).SetUint64(req.CandidateID),
		nullifier,
		commitment,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vote cast successfully", "txHash": txHash})
}

// RegisterCandidate handles candidate registration
func (h *LedgerHandlers) RegisterCandidate(c *gin.Context) {
	var req struct {
		ElectionID  uint64 `json:"electionId"`
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing electionId or name"})
		return
	}

	txHash, err := h.ledger.RegisterCandidate(c.Request.Context(), new(big.Int).SetUint64(req.ElectionID), req.Name, req.Description)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Candidate registered successfully", "txHash": txHash})
}

// AddAdmin handles granting the admin role
func (h *LedgerHandlers) AddAdmin(c *gin.Context) {
	var req struct {
		NewAdmin string `json:"newAdmin" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil || !common.IsHexAddress(req.NewAdmin) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid admin address"})
		return
	}

	txHash, err := h.ledger.AddAdmin(c.Request.Context(), common.HexToAddress(req.NewAdmin))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Admin role granted", "txHash": txHash})
}

// Role reports whether an address holds the admin role
func (h *LedgerHandlers) Role(c *gin.Context) {
	var req struct {
		UserAddress string `json:"userAddress" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil || !common.IsHexAddress(req.UserAddress) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user address"})
		return
	}

	isAdmin, err := h.ledger.IsAdmin(c.Request.Context(), common.HexToAddress(req.UserAddress))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"isAdmin": isAdmin})
}

// VoteCount returns the tally for a candidate
func (h *LedgerHandlers) VoteCount(c *gin.Context) {
	electionID, ok := parseID(c.Param("electionId"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid election id"})
		return
	}
	candidateID, ok := parseID(c.Param("candidateId"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid candidate id"})
		return
	}

	votes, err := h.ledger.VoteCount(c.Request.Context(), electionID, candidateID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"electionId":  electionID.String(),
		"candidateId": candidateID.String(),
		"votes":       votes.String(),
	})
}

// Candidate returns a candidate's name and description
func (h *LedgerHandlers) Candidate(c *gin.Context) {
	electionID, ok := parseID(c.Param("electionId"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid election id"})
		return
	}
	candidateID, ok := parseID(c.Param("candidateId"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid candidate id"})
		return
	}

	name, description, err := h.ledger.Candidate(c.Request.Context(), electionID, candidateID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"electionId":  electionID.String(),
		"candidateId": candidateID.String(),
		"name":        name,
		"description": description,
	})
}

func parseID(raw string) (*big.Int, bool) {
	id, ok := new(big.Int).SetString(raw, 10)
	if !ok || id.Sign() < 0 {
		return nil, false
	}
	return id, true
}

func parseBytes32(raw string) (common.Hash, bool) {
	decoded, err := hexutil.Decode(raw)
	if err != nil || len(decoded) != common.HashLength {
		return common.Hash{}, false
	}
	return common.BytesToHash(decoded), true
}
