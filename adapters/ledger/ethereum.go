package ledger

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/Sandipan3/hackoasis-backend/ports"
)

// votingABI is the exposed surface of the voting contract. The contract's
// election semantics are opaque to this service; only the call signatures and
// receipt events matter here.
const votingABI = `[
	{"type":"function","name":"createElection","stateMutability":"nonpayable","inputs":[{"name":"title","type":"string"},{"name":"description","type":"string"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"registerVoters","stateMutability":"nonpayable","inputs":[{"name":"electionId","type":"uint256"},{"name":"identityCommitments","type":"bytes32[]"}],"outputs":[]},
	{"type":"function","name":"castVote","stateMutability":"nonpayable","inputs":[{"name":"electionId","type":"uint256"},{"name":"candidateId","type":"uint256"},{"name":"nullifier","type":"bytes32"},{"name":"identityCommitment","type":"bytes32"}],"outputs":[]},
	{"type":"function","name":"getVoteCount","stateMutability":"view","inputs":[{"name":"electionId","type":"uint256"},{"name":"candidateId","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"isAdmin","stateMutability":"view","inputs":[{"name":"user","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"addAdmin","stateMutability":"nonpayable","inputs":[{"name":"newAdmin","type":"address"}],"outputs":[]},
	{"type":"function","name":"registerCandidate","stateMutability":"nonpayable","inputs":[{"name":"electionId","type":"uint256"},{"name":"name","type":"string"},{"name":"description","type":"string"}],"outputs":[]},
	{"type":"function","name":"getCandidate","stateMutability":"view","inputs":[{"name":"electionId","type":"uint256"},{"name":"candidateId","type":"uint256"}],"outputs":[{"name":"name","type":"string"},{"name":"description","type":"string"}]},
	{"type":"event","name":"ElectionCreated","anonymous":false,"inputs":[{"name":"electionId","type":"uint256","indexed":true},{"name":"title","type":"string","indexed":false}]},
	{"type":"event","name":"VoterRegistered","anonymous":false,"inputs":[{"name":"electionId","type":"uint256","indexed":true},{"name":"identityCommitment","type":"bytes32","indexed":false}]},
	{"type":"event","name":"VoteCasted","anonymous":false,"inputs":[{"name":"electionId","type":"uint256","indexed":true},{"name":"candidateId","type":"uint256","indexed":false},{"name":"nullifier","type":"bytes32","indexed":false}]},
	{"type":"event","name":"CandidateRegistered","anonymous":false,"inputs":[{"name":"electionId","type":"uint256","indexed":true},{"name":"candidateId","type":"uint256","indexed":true},{"name":"name","type":"string","indexed":false}]}
]`

// ContractLedger talks to the voting contract over JSON-RPC, transacting with
// the server's admin key. It is constructed once in main and injected into
// the handlers; Close releases the RPC connection.
type ContractLedger struct {
	client   *ethclient.Client
	abi      abi.ABI
	contract *bind.BoundContract
	opts     *bind.TransactOpts

	// Serializes admin transactions so concurrent requests cannot race the
	// account nonce.
	mu sync.Mutex
}

// NewContractLedger dials the RPC endpoint and binds the contract.
func NewContractLedger(ctx context.Context, rpcURL, contractAddress, adminKeyHex string) (*ContractLedger, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial RPC endpoint: %w", err)
	}

	parsedABI, err := abi.JSON(strings.NewReader(votingABI))
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to parse contract ABI: %w", err)
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(adminKeyHex, "0x"))
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to parse admin key: %w", err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to fetch chain id: %w", err)
	}

	opts, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}

	addr := common.HexToAddress(contractAddress)
	contract := bind.NewBoundContract(addr, parsedABI, client, client, client)

	return &ContractLedger{
		client:   client,
		abi:      parsedABI,
		contract: contract,
		opts:     opts,
	}, nil
}

// Close releases the underlying RPC connection.
func (l *ContractLedger) Close() {
	l.client.Close()
}

// transact submits a state-changing call and waits for its receipt.
func (l *ContractLedger) transact(ctx context.Context, method string, args ...interface{}) (*types.Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	opts := *l.opts
	opts.Context = ctx

	tx, err := l.contract.Transact(&opts, method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to submit %s: %w", method, err)
	}

	receipt, err := bind.WaitMined(ctx, l.client, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to await %s receipt: %w", method, err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("transaction %s reverted", tx.Hash().Hex())
	}

	return receipt, nil
}

// call executes a view method.
func (l *ContractLedger) call(ctx context.Context, out *[]interface{}, method string, args ...interface{}) error {
	if err := l.contract.Call(&bind.CallOpts{Context: ctx}, out, method, args...); err != nil {
		return fmt.Errorf("failed to call %s: %w", method, err)
	}
	return nil
}

// CreateElection submits a new election and extracts its id from the
// ElectionCreated event in the receipt.
func (l *ContractLedger) CreateElection(ctx context.Context, title, description string) (*big.Int, string, error) {
	receipt, err := l.transact(ctx, "createElection", title, description)
	if err != nil {
		return nil, "", err
	}

	eventID := l.abi.Events["ElectionCreated"].ID
	for _, log := range receipt.Logs {
		if len(log.Topics) < 2 || log.Topics[0] != eventID {
			continue
		}
		// electionId is the first indexed topic
		electionID := new(big.Int).SetBytes(log.Topics[1].Bytes())
		return electionID, receipt.TxHash.Hex(), nil
	}

	return nil, "", fmt.Errorf("ElectionCreated event not found in receipt %s", receipt.TxHash.Hex())
}

// RegisterVoters submits a batch of identity commitments.
func (l *ContractLedger) RegisterVoters(ctx context.Context, electionID *big.Int, commitments []common.Hash) (string, error) {
	raw := make([][32]byte, len(commitments))
	for i, c := range commitments {
		raw[i] = c
	}

	receipt, err := l.transact(ctx, "registerVoters", electionID, raw)
	if err != nil {
		return "", err
	}
	return receipt.TxHash.Hex(), nil
}

// CastVote submits a vote.
func (l *ContractLedger) CastVote(ctx context.Context, electionID, candidateID *big.Int, nullifier, commitment common.Hash) (string, error) {
	receipt, err := l.transact(ctx, "castVote", electionID, candidateID, [32]byte(nullifier), [32]byte(commitment))
	if err != nil {
		return "", err
	}
	return receipt.TxHash.Hex(), nil
}

// RegisterCandidate adds a candidate to an election.
func (l *ContractLedger) RegisterCandidate(ctx context.Context, electionID *big.Int, name, description string) (string, error) {
	receipt, err := l.transact(ctx, "registerCandidate", electionID, name, description)
	if err != nil {
		return "", err
	}
	return receipt.TxHash.Hex(), nil
}

// AddAdmin grants the admin role to an address.
func (l *ContractLedger) AddAdmin(ctx context.Context, admin common.Address) (string, error) {
	receipt, err := l.transact(ctx, "addAdmin", admin)
	if err != nil {
		return "", err
	}
	return receipt.TxHash.Hex(), nil
}

// VoteCount reads the tally for a candidate.
func (l *ContractLedger) VoteCount(ctx context.Context, electionID, candidateID *big.Int) (*big.Int, error) {
	var out []interface{}
	if err := l.call(ctx, &out, "getVoteCount", electionID, candidateID); err != nil {
		return nil, err
	}

	count, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected getVoteCount result type %T", out[0])
	}
	return count, nil
}

// Candidate reads a candidate's name and description.
func (l *ContractLedger) Candidate(ctx context.Context, electionID, candidateID *big.Int) (string, string, error) {
	var out []interface{}
	if err := l.call(ctx, &out, "getCandidate", electionID, candidateID); err != nil {
		return "", "", err
	}
	if len(out) != 2 {
		return "", "", fmt.Errorf("unexpected getCandidate result length %d", len(out))
	}

	name, ok := out[0].(string)
	if !ok {
		return "", "", fmt.Errorf("unexpected getCandidate name type %T", out[0])
	}
	description, ok := out[1].(string)
	if !ok {
		return "", "", fmt.Errorf("unexpected getCandidate description type %T", out[1])
	}
	return name, description, nil
}

// IsAdmin reports whether an address holds the admin role.
func (l *ContractLedger) IsAdmin(ctx context.Context, user common.Address) (bool, error) {
	var out []interface{}
	if err := l.call(ctx, &out, "isAdmin", user); err != nil {
		return false, err
	}

	isAdmin, ok := out[0].(bool)
	if !ok {
		return false, fmt.Errorf("unexpected isAdmin result type %T", out[0])
	}
	return isAdmin, nil
}

var _ ports.Ledger = (*ContractLedger)(nil)
