package chain

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"jup-swap/pkg/txsign"
)

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

// newRPCServer answers JSON-RPC calls with the result returned by handle
func newRPCServer(t *testing.T, skipPreflight bool, handle func(req rpcRequest) interface{}) *SolanaClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  handle(req),
		}))
	}))
	t.Cleanup(srv.Close)

	return NewSolanaClient(&Config{
		RPCURL:        srv.URL,
		Commitment:    "finalized",
		SkipPreflight: skipPreflight,
		Logger:        zaptest.NewLogger(t),
	})
}

func withContext(value interface{}) map[string]interface{} {
	return map[string]interface{}{
		"context": map[string]interface{}{"slot": 1},
		"value":   value,
	}
}

func testPubkey(b byte) solana.PublicKey {
	var pk solana.PublicKey
	pk[0] = b
	pk[31] = b
	return pk
}

func TestParseCommitment(t *testing.T) {
	tests := []struct {
		in   string
		want rpc.CommitmentType
	}{
		{"finalized", rpc.CommitmentFinalized},
		{"Confirmed", rpc.CommitmentConfirmed},
		{" processed ", rpc.CommitmentProcessed},
		{"", rpc.CommitmentConfirmed},
		{"max", rpc.CommitmentConfirmed},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCommitment(tt.in))
		})
	}
}

func TestNewSolanaClient_Defaults(t *testing.T) {
	c := NewSolanaClient(nil)
	assert.Equal(t, DefaultRPCURL, c.config.RPCURL)
	assert.Equal(t, rpc.CommitmentConfirmed, c.Commitment())
}

func TestSolanaClient_Balance(t *testing.T) {
	c := newRPCServer(t, false, func(req rpcRequest) interface{} {
		assert.Equal(t, "getBalance", req.Method)
		return withContext(5000)
	})

	balance, err := c.Balance(context.Background(), testPubkey(1))
	require.NoError(t, err)
	assert.Equal(t, uint64(5000), balance)
}

func TestSolanaClient_LatestBlockhash(t *testing.T) {
	hash := solana.Hash{1, 2, 3}
	c := newRPCServer(t, false, func(req rpcRequest) interface{} {
		assert.Equal(t, "getLatestBlockhash", req.Method)
		return withContext(map[string]interface{}{
			"blockhash":            hash.String(),
			"lastValidBlockHeight": 150,
		})
	})

	bh, err := c.LatestBlockhash(context.Background())
	require.NoError(t, err)
	assert.Equal(t, hash, bh.Hash)
	assert.Equal(t, uint64(150), bh.LastValidBlockHeight)
}

func TestSolanaClient_GetAccountInfo_Missing(t *testing.T) {
	c := newRPCServer(t, false, func(req rpcRequest) interface{} {
		return withContext(nil)
	})

	_, err := c.GetAccountInfo(context.Background(), testPubkey(2))
	assert.ErrorIs(t, err, rpc.ErrNotFound)

	_, err = c.TokenDecimals(context.Background(), testPubkey(2))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSolanaClient_TokenDecimals(t *testing.T) {
	data := make([]byte, 82)
	data[44] = 6
	c := newRPCServer(t, false, func(req rpcRequest) interface{} {
		assert.Equal(t, "getAccountInfo", req.Method)
		return withContext(map[string]interface{}{
			"data":       []string{base64.StdEncoding.EncodeToString(data), "base64"},
			"executable": false,
			"lamports":   1461600,
			"owner":      solana.TokenProgramID.String(),
			"rentEpoch":  0,
		})
	})

	decimals, err := c.TokenDecimals(context.Background(), testPubkey(3))
	require.NoError(t, err)
	assert.Equal(t, uint8(6), decimals)
}

func TestSolanaClient_SignatureStatus(t *testing.T) {
	sig := solana.Signature{9}
	t.Run("finalized", func(t *testing.T) {
		c := newRPCServer(t, false, func(req rpcRequest) interface{} {
			assert.Equal(t, "getSignatureStatuses", req.Method)
			return withContext([]interface{}{map[string]interface{}{
				"slot":               42,
				"confirmations":      nil,
				"err":                nil,
				"confirmationStatus": "finalized",
			}})
		})

		status, err := c.SignatureStatus(context.Background(), sig.String())
		require.NoError(t, err)
		assert.Equal(t, uint64(42), status.Slot)
		assert.True(t, status.Landed())
		assert.Empty(t, status.Err)
	})

	t.Run("unknown", func(t *testing.T) {
		c := newRPCServer(t, false, func(req rpcRequest) interface{} {
			return withContext([]interface{}{nil})
		})

		_, err := c.SignatureStatus(context.Background(), sig.String())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("malformed signature", func(t *testing.T) {
		c := NewSolanaClient(nil)
		_, err := c.SignatureStatus(context.Background(), "not-a-signature")
		assert.Error(t, err)
	})
}

func TestSolanaClient_SendEnvelope(t *testing.T) {
	key := solana.PrivateKey(ed25519.NewKeyFromSeed(make([]byte, ed25519.SeedSize)))
	tx, err := solana.NewTransaction(
		[]solana.Instruction{solana.NewInstruction(
			solana.SystemProgramID,
			solana.AccountMetaSlice{solana.Meta(key.PublicKey()).WRITE().SIGNER()},
			[]byte{2, 0, 0, 0},
		)},
		solana.Hash{7},
		solana.TransactionPayer(key.PublicKey()),
	)
	require.NoError(t, err)
	tx.Signatures = nil
	want, err := txsign.SignTransaction(tx, key)
	require.NoError(t, err)
	envelope, err := txsign.EncodeEnvelope(tx)
	require.NoError(t, err)

	c := newRPCServer(t, true, func(req rpcRequest) interface{} {
		assert.Equal(t, "sendTransaction", req.Method)
		require.Len(t, req.Params, 2)

		var opts map[string]interface{}
		require.NoError(t, json.Unmarshal(req.Params[1], &opts))
		assert.Equal(t, true, opts["skipPreflight"])
		assert.Equal(t, "finalized", opts["preflightCommitment"])
		return want.String()
	})

	got, err := c.SendEnvelope(context.Background(), envelope)
	require.NoError(t, err)
	assert.Equal(t, want.String(), got)

	_, err = c.SendEnvelope(context.Background(), "%%%")
	assert.ErrorIs(t, err, txsign.ErrDecode)
}
