package ports

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Ledger is the on-chain voting contract seen as an opaque collaborator:
// submit a transaction, await its receipt, surface typed values. Election
// semantics live entirely in the contract.
type Ledger interface {
	// CreateElection submits a new election and returns the id extracted
	// from the ElectionCreated event.
	CreateElection(ctx context.Context, title, description string) (electionID *big.Int, txHash string, err error)

	// RegisterVoters submits a batch of identity commitments for an election.
	RegisterVoters(ctx context.Context, electionID *big.Int, commitments []common.Hash) (txHash string, err error)

	// CastVote submits a vote with its nullifier and commitment.
	CastVote(ctx context.Context, electionID, candidateID *big.Int, nullifier, commitment common.Hash) (txHash string, err error)

	// RegisterCandidate adds a candidate to an election.
	RegisterCandidate(ctx context.Context, electionID *big.Int, name, description string) (txHash string, err error)

	// AddAdmin grants the admin role to an address.
	AddAdmin(ctx context.Context, admin common.Address) (txHash string, err error)

	// VoteCount reads the tally for a candidate.
	VoteCount(ctx context.Context, electionID, candidateID *big.Int) (*big.Int, error)

	// Candidate reads a candidate's name and description.
	Candidate(ctx context.Context, electionID, candidateID *big.Int) (name, description string, err error)

	// IsAdmin reports whether an address holds the admin role.
	IsAdmin(ctx context.Context, user common.Address) (bool, error)
}
