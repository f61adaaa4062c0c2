package txsign

import (
	"bytes"
	"crypto/ed25519"
	"encoding/base64"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(seed byte) ed25519.PrivateKey {
	return ed25519.NewKeyFromSeed(bytes.Repeat([]byte{seed}, ed25519.SeedSize))
}

func testPubkey(key ed25519.PrivateKey) solana.PublicKey {
	return solana.PublicKeyFromBytes(key.Public().(ed25519.PublicKey))
}

// unsignedTx builds a transfer-shaped transaction paid by payer, with
// additional signers when extra keys are given.
func unsignedTx(t *testing.T, payer solana.PublicKey, extra ...solana.PublicKey) *solana.Transaction {
	t.Helper()

	program := solana.MustPublicKeyFromBase58("11111111111111111111111111111111")
	accounts := solana.AccountMetaSlice{
		solana.Meta(payer).WRITE().SIGNER(),
		solana.Meta(solana.PublicKeyFromBytes(bytes.Repeat([]byte{9}, 32))).WRITE(),
	}
	for _, k := range extra {
		accounts = append(accounts, solana.Meta(k).SIGNER())
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{solana.NewInstruction(program, accounts, []byte{2, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0})},
		solana.Hash(bytes.Repeat([]byte{3}, 32)),
		solana.TransactionPayer(payer),
	)
	require.NoError(t, err)
	tx.Signatures = nil
	return tx
}

func encode(t *testing.T, tx *solana.Transaction) string {
	t.Helper()
	envelope, err := EncodeEnvelope(tx)
	require.NoError(t, err)
	return envelope
}

func TestSign_EmptySlots(t *testing.T) {
	key := testKey(7)
	tx := unsignedTx(t, testPubkey(key))

	signed, err := Sign(encode(t, tx), key)
	require.NoError(t, err)

	out, err := DecodeEnvelope(signed)
	require.NoError(t, err)
	require.Len(t, out.Signatures, 1)

	message, err := out.Message.MarshalBinary()
	require.NoError(t, err)
	assert.True(t, out.Signatures[0].Verify(testPubkey(key), message))

	ok, err := Verify(signed)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSign_OverwritesPlaceholder(t *testing.T) {
	key := testKey(7)
	tx := unsignedTx(t, testPubkey(key))
	tx.Signatures = []solana.Signature{{}}

	signed, err := Sign(encode(t, tx), key)
	require.NoError(t, err)

	out, err := DecodeEnvelope(signed)
	require.NoError(t, err)
	require.Len(t, out.Signatures, 1)
	assert.NotEqual(t, solana.Signature{}, out.Signatures[0])
}

func TestSign_Deterministic(t *testing.T) {
	key := testKey(7)
	tx := unsignedTx(t, testPubkey(key))
	message, err := tx.Message.MarshalBinary()
	require.NoError(t, err)

	signed, err := Sign(encode(t, tx), key)
	require.NoError(t, err)
	again, err := Sign(encode(t, tx), key)
	require.NoError(t, err)
	assert.Equal(t, signed, again)

	out, err := DecodeEnvelope(signed)
	require.NoError(t, err)
	assert.Equal(t, ed25519.Sign(key, message), out.Signatures[0][:])
}

func TestSign_OnlyTouchesFirstSlot(t *testing.T) {
	payer := testKey(7)
	cosigner := testKey(8)
	tx := unsignedTx(t, testPubkey(payer), testPubkey(cosigner))

	var marker solana.Signature
	for i := range marker {
		marker[i] = 0xAB
	}
	tx.Signatures = []solana.Signature{{}, marker}

	assertOnlyFirstSlotSigned(t, tx, payer)
}

func TestSign_VersionedMessage(t *testing.T) {
	payer := testKey(7)
	cosigner := testKey(8)
	tx := unsignedTx(t, testPubkey(payer), testPubkey(cosigner))
	tx.Message.AddAddressTableLookup(solana.MessageAddressTableLookup{
		AccountKey:      solana.PublicKeyFromBytes(bytes.Repeat([]byte{4}, 32)),
		WritableIndexes: []uint8{0},
		ReadonlyIndexes: []uint8{1, 2},
	})
	require.True(t, tx.Message.IsVersioned())

	var marker solana.Signature
	for i := range marker {
		marker[i] = 0xCD
	}
	tx.Signatures = []solana.Signature{{}, marker}

	signed := assertOnlyFirstSlotSigned(t, tx, payer)

	out, err := DecodeEnvelope(signed)
	require.NoError(t, err)
	assert.True(t, out.Message.IsVersioned())
	require.Len(t, out.Message.AddressTableLookups, 1)
	assert.Equal(t, marker, out.Signatures[1])

	ok, err := Verify(signed)
	require.NoError(t, err)
	assert.True(t, ok)
}

// assertOnlyFirstSlotSigned signs tx with key and checks that the slot
// count and every byte after slot 0 survive.
func assertOnlyFirstSlotSigned(t *testing.T, tx *solana.Transaction, key ed25519.PrivateKey) string {
	t.Helper()

	before, err := tx.MarshalBinary()
	require.NoError(t, err)

	signed, err := Sign(base64.StdEncoding.EncodeToString(before), key)
	require.NoError(t, err)
	after, err := base64.StdEncoding.DecodeString(signed)
	require.NoError(t, err)

	require.Len(t, after, len(before))
	// count prefix
	assert.Equal(t, before[0], after[0])
	// slot 0 changed, everything from slot 1 on is preserved
	assert.NotEqual(t, before[1:65], after[1:65])
	assert.Equal(t, before[65:], after[65:])
	return signed
}

func TestEncodeEnvelope_MatchesWireFormat(t *testing.T) {
	payer := testKey(7)
	cosigner := testKey(8)

	for _, slots := range []int{0, 1, 2} {
		tx := unsignedTx(t, testPubkey(payer), testPubkey(cosigner))
		tx.Signatures = make([]solana.Signature, slots)
		for i := range tx.Signatures {
			tx.Signatures[i][0] = byte(i + 1)
		}

		raw, err := tx.MarshalBinary()
		require.NoError(t, err)
		assert.Equal(t, base64.StdEncoding.EncodeToString(raw), encode(t, tx), "slots=%d", slots)
		assert.Equal(t, byte(slots), raw[0])
	}
}

func TestEnvelope_RoundTrip(t *testing.T) {
	key := testKey(7)
	tx := unsignedTx(t, testPubkey(key))
	_, err := SignTransaction(tx, solana.PrivateKey(key))
	require.NoError(t, err)

	raw, err := tx.MarshalBinary()
	require.NoError(t, err)

	decoded, err := UnmarshalEnvelope(raw)
	require.NoError(t, err)

	again, err := decoded.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, raw, again)
}

func TestSign_Errors(t *testing.T) {
	key := testKey(7)
	valid := encode(t, unsignedTx(t, testPubkey(key)))

	raw, err := base64.StdEncoding.DecodeString(valid)
	require.NoError(t, err)
	truncated := base64.StdEncoding.EncodeToString(raw[:len(raw)/2])

	mismatched := make([]byte, ed25519.PrivateKeySize)
	copy(mismatched, key)
	copy(mismatched[ed25519.SeedSize:], testKey(8)[ed25519.SeedSize:])

	tests := []struct {
		name     string
		envelope string
		key      []byte
		wantErr  error
	}{
		{"not base64", "!!not-base64!!", key, ErrDecode},
		{"empty", "", key, ErrDeserialize},
		{"truncated", truncated, key, ErrDeserialize},
		{"short key", valid, key[:32], ErrInvalidKey},
		{"mismatched public half", valid, mismatched, ErrInvalidKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Sign(tt.envelope, tt.key)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, out)
		})
	}
}

func TestVerify_Unsigned(t *testing.T) {
	key := testKey(7)
	ok, err := Verify(encode(t, unsignedTx(t, testPubkey(key))))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPrivateKeyFromBytes(t *testing.T) {
	key := testKey(5)
	got, err := PrivateKeyFromBytes(key)
	require.NoError(t, err)
	assert.Equal(t, testPubkey(key), got.PublicKey())

	// the returned key does not alias the input
	got[0] ^= 0xFF
	assert.NotEqual(t, got[0], key[0])
}
