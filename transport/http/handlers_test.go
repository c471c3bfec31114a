package http

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sandipan3/hackoasis-backend/adapters/store"
	"github.com/Sandipan3/hackoasis-backend/adapters/tokenizer"
	"github.com/Sandipan3/hackoasis-backend/core"
	"github.com/Sandipan3/hackoasis-backend/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubLedger satisfies ports.Ledger without touching a chain.
type stubLedger struct{}

func (stubLedger) CreateElection(ctx context.Context, title, description string) (*big.Int, string, error) {
	return big.NewInt(7), "0xtx-create", nil
}

func (stubLedger) RegisterVoters(ctx context.Context, electionID *big.Int, commitments []common.Hash) (string, error) {
	return "0xtx-register", nil
}

func (stubLedger) CastVote(ctx context.Context, electionID, candidateID *big.Int, nullifier, commitment common.Hash) (string, error) {
	return "0xtx-vote", nil
}

func (stubLedger) RegisterCandidate(ctx context.Context, electionID *big.Int, name, description string) (string, error) {
	return "0xtx-candidate", nil
}

func (stubLedger) AddAdmin(ctx context.Context, admin common.Address) (string, error) {
	return "0xtx-admin", nil
}

func (stubLedger) VoteCount(ctx context.Context, electionID, candidateID *big.Int) (*big.Int, error) {
	return big.NewInt(42), nil
}

func (stubLedger) Candidate(ctx context.Context, electionID, candidateID *big.Int) (string, string, error) {
	return "Alice", "candidate one", nil
}

func (stubLedger) IsAdmin(ctx context.Context, user common.Address) (bool, error) {
	return true, nil
}

func newTestRouter() *gin.Engine {
	tok := tokenizer.NewJWTTokenizer([]byte("test-secret"), time.Hour)
	authService := service.NewAuthService(store.NewMemoryStore(), tok, nil)
	return SetupRouter(authService, tok, stubLedger{})
}

func doJSON(router *gin.Engine, method, path, body, token string) (*httptest.ResponseRecorder, map[string]interface{}) {
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var parsed map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &parsed)
	return w, parsed
}

func newWallet(t *testing.T) (*ecdsa.PrivateKey, string) {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return key, crypto.PubkeyToAddress(key.PublicKey).Hex()
}

func signChallenge(t *testing.T, key *ecdsa.PrivateKey, nonce string) string {
	t.Helper()
	message := []byte(core.ChallengeMessage(nonce))
	sig, err := crypto.Sign(accounts.TextHash(message), key)
	require.NoError(t, err)
	sig[64] += 27
	return hexutil.Encode(sig)
}

// login walks the full challenge/response flow and returns the bearer token.
func login(t *testing.T, router *gin.Engine, key *ecdsa.PrivateKey, address string) string {
	t.Helper()

	w, body := doJSON(router, http.MethodPost, "/nonce", fmt.Sprintf(`{"publicAddress":%q}`, address), "")
	require.Equal(t, http.StatusOK, w.Code)
	nonce, _ := body["nonce"].(string)
	require.Len(t, nonce, 64)

	payload := fmt.Sprintf(`{"publicAddress":%q,"signature":%q}`, address, signChallenge(t, key, nonce))
	w, body = doJSON(router, http.MethodPost, "/login", payload, "")
	require.Equal(t, http.StatusOK, w.Code)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestNonceEmptyBody(t *testing.T) {
	router := newTestRouter()

	w, body := doJSON(router, http.MethodPost, "/nonce", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Public address is required", body["message"])
}

func TestNonceMissingAddress(t *testing.T) {
	router := newTestRouter()

	w, body := doJSON(router, http.MethodPost, "/nonce", `{}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Public address is required", body["message"])
}

func TestNonceIsStableAcrossRequests(t *testing.T) {
	router := newTestRouter()
	_, address := newWallet(t)
	payload := fmt.Sprintf(`{"publicAddress":%q}`, address)

	w, body := doJSON(router, http.MethodPost, "/nonce", payload, "")
	require.Equal(t, http.StatusOK, w.Code)
	first := body["nonce"]

	w, body = doJSON(router, http.MethodPost, "/nonce", payload, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, first, body["nonce"])
}

func TestLoginWithoutNonceRequest(t *testing.T) {
	router := newTestRouter()
	key, address := newWallet(t)

	payload := fmt.Sprintf(`{"publicAddress":%q,"signature":%q}`, address, signChallenge(t, key, "nope"))
	w, body := doJSON(router, http.MethodPost, "/login", payload, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", body["message"])
}

func TestLoginMissingFields(t *testing.T) {
	router := newTestRouter()
	_, address := newWallet(t)

	w, body := doJSON(router, http.MethodPost, "/login", fmt.Sprintf(`{"publicAddress":%q}`, address), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing publicAddress or signature", body["message"])
}

func TestLoginFlowAndReplay(t *testing.T) {
	router := newTestRouter()
	key, address := newWallet(t)

	w, body := doJSON(router, http.MethodPost, "/nonce", fmt.Sprintf(`{"publicAddress":%q}`, address), "")
	require.Equal(t, http.StatusOK, w.Code)
	nonce := body["nonce"].(string)

	signature := signChallenge(t, key, nonce)
	payload := fmt.Sprintf(`{"publicAddress":%q,"signature":%q}`, address, signature)

	w, body = doJSON(router, http.MethodPost, "/login", payload, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, body["token"])
	assert.NotEmpty(t, body["publicAddress"])

	// The nonce rotated on login; the captured signature is now worthless.
	w, body = doJSON(router, http.MethodPost, "/login", payload, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Signature verification failed", body["message"])
}

func TestLoginWrongSigner(t *testing.T) {
	router := newTestRouter()
	_, address := newWallet(t)
	otherKey, _ := newWallet(t)

	w, body := doJSON(router, http.MethodPost, "/nonce", fmt.Sprintf(`{"publicAddress":%q}`, address), "")
	require.Equal(t, http.StatusOK, w.Code)
	nonce := body["nonce"].(string)

	payload := fmt.Sprintf(`{"publicAddress":%q,"signature":%q}`, address, signChallenge(t, otherKey, nonce))
	w, body = doJSON(router, http.MethodPost, "/login", payload, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Signature verification failed", body["message"])
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	router := newTestRouter()

	w, _ := doJSON(router, http.MethodGet, "/api/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req)
	assert.Equal(t, http.StatusUnauthorized, w2.Code)

	w, _ = doJSON(router, http.MethodGet, "/api/me", "", "garbage-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMeReturnsClaims(t *testing.T) {
	router := newTestRouter()
	key, address := newWallet(t)
	token := login(t, router, key, address)

	w, body := doJSON(router, http.MethodGet, "/api/me", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, body["id"])
	assert.Equal(t, strings.ToLower(address), body["address"])
}

func TestExpiredTokenRejected(t *testing.T) {
	expired := tokenizer.NewJWTTokenizer([]byte("test-secret"), -time.Second)
	token, err := expired.Issue(&core.Identity{
		ID:      "id-1",
		Address: "0xabc0000000000000000000000000000000000001",
	})
	require.NoError(t, err)

	router := newTestRouter()
	w, body := doJSON(router, http.MethodGet, "/api/me", "", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Token expired", body["message"])
}

func TestVoteRoutesProtected(t *testing.T) {
	router := newTestRouter()

	w, _ := doJSON(router, http.MethodPost, "/vote/create", `{"title":"t","description":"d"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateElectionPassThrough(t *testing.T) {
	router := newTestRouter()
	key, address := newWallet(t)
	token := login(t, router, key, address)

	w, body := doJSON(router, http.MethodPost, "/vote/create", `{"title":"Board election","description":"2026"}`, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Election created successfully", body["message"])
	assert.Equal(t, "7", body["electionId"])
	assert.Equal(t, "0xtx-create", body["txHash"])
}

func TestCastVotePassThrough(t *testing.T) {
	router := newTestRouter()
	key, address := newWallet(t)
	token := login(t, router, key, address)

	commitment := "0x" + fmt.Sprintf("%064x", 1)
	nullifier := "0x" + fmt.Sprintf("%064x", 2)
	payload := fmt.Sprintf(`{"electionId":7,"candidateId":1,"nullifier":%q,"identityCommitment":%q}`, nullifier, commitment)

	w, body := doJSON(router, http.MethodPost, "/vote/vote", payload, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Vote cast successfully", body["message"])
	assert.Equal(t, "0xtx-vote", body["txHash"])
}

func TestCastVoteInvalidCommitment(t *testing.T) {
	router := newTestRouter()
	key, address := newWallet(t)
	token := login(t, router, key, address)

	payload := `{"electionId":7,"candidateId":1,"nullifier":"0x1234","identityCommitment":"0x1234"}`
	w, body := doJSON(router, http.MethodPost, "/vote/vote", payload, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid nullifier", body["message"])
}

func TestVoteCountPassThrough(t *testing.T) {
	router := newTestRouter()
	key, address := newWallet(t)
	token := login(t, router, key, address)

	w, body := doJSON(router, http.MethodGet, "/vote/count/7/1", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "42", body["votes"])
	assert.Equal(t, "7", body["electionId"])
	assert.Equal(t, "1", body["candidateId"])
}

func TestVoteCountInvalidID(t *testing.T) {
	router := newTestRouter()
	key, address := newWallet(t)
	token := login(t, router, key, address)

	w, body := doJSON(router, http.MethodGet, "/vote/count/abc/1", "", token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid election id", body["message"])
}

func TestCandidatePassThrough(t *testing.T) {
	router := newTestRouter()
	key, address := newWallet(t)
	token := login(t, router, key, address)

	w, body := doJSON(router, http.MethodGet, "/vote/candidate/7/1", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Alice", body["name"])
	assert.Equal(t, "candidate one", body["description"])
}

func TestRolePassThrough(t *testing.T) {
	router := newTestRouter()
	key, address := newWallet(t)
	token := login(t, router, key, address)

	w, body := doJSON(router, http.MethodPost, "/vote/role", fmt.Sprintf(`{"userAddress":%q}`, address), token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["isAdmin"])
}
