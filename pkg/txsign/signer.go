// Package txsign signs wire-encoded Solana transaction envelopes returned by
// the Jupiter APIs.
//
// Signing always targets signature slot 0, the fee payer. Envelopes that need
// more than one signer get slot 0 filled and every other slot left untouched.
package txsign

import (
	"bytes"
	"crypto/ed25519"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

var (
	// ErrDecode is returned when the envelope is not valid base64
	ErrDecode = errors.New("malformed base64 envelope")
	// ErrDeserialize is returned when the envelope bytes are not a transaction
	ErrDeserialize = errors.New("malformed transaction envelope")
	// ErrInvalidKey is returned when the secret key cannot sign
	ErrInvalidKey = errors.New("invalid signing key")
)

// Sign signs a base64 envelope with secretKey and returns the re-encoded
// envelope. If the envelope has no signature slots the signature becomes the
// only entry, otherwise it replaces slot 0.
func Sign(envelope string, secretKey []byte) (string, error) {
	tx, err := DecodeEnvelope(envelope)
	if err != nil {
		return "", err
	}

	key, err := PrivateKeyFromBytes(secretKey)
	if err != nil {
		return "", err
	}

	if _, err := SignTransaction(tx, key); err != nil {
		return "", err
	}

	return EncodeEnvelope(tx)
}

// SignTransaction signs the serialized message of tx and places the
// signature in slot 0. The number of slots never changes unless it was zero.
func SignTransaction(tx *solana.Transaction, key solana.PrivateKey) (solana.Signature, error) {
	if len(key) != ed25519.PrivateKeySize {
		return solana.Signature{}, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKey, len(key), ed25519.PrivateKeySize)
	}

	message, err := tx.Message.MarshalBinary()
	if err != nil {
		return solana.Signature{}, fmt.Errorf("%w: failed to serialize message: %v", ErrDeserialize, err)
	}

	sig, err := key.Sign(message)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to sign message: %w", err)
	}

	if len(tx.Signatures) == 0 {
		tx.Signatures = append(tx.Signatures, sig)
	} else {
		tx.Signatures[0] = sig
	}

	return sig, nil
}

// PrivateKeyFromBytes validates a 64-byte ed25519 secret (seed followed by
// public key) and returns it as a solana private key.
func PrivateKeyFromBytes(secret []byte) (solana.PrivateKey, error) {
	if len(secret) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKey, len(secret), ed25519.PrivateKeySize)
	}

	derived := ed25519.NewKeyFromSeed(secret[:ed25519.SeedSize])
	if !bytes.Equal(derived[ed25519.SeedSize:], secret[ed25519.SeedSize:]) {
		return nil, fmt.Errorf("%w: public key does not match seed", ErrInvalidKey)
	}

	key := make(solana.PrivateKey, ed25519.PrivateKeySize)
	copy(key, secret)
	return key, nil
}

// Verify reports whether slot 0 of the envelope holds a valid fee payer
// signature over the message.
func Verify(envelope string) (bool, error) {
	tx, err := DecodeEnvelope(envelope)
	if err != nil {
		return false, err
	}
	if len(tx.Signatures) == 0 {
		return false, nil
	}

	message, err := tx.Message.MarshalBinary()
	if err != nil {
		return false, fmt.Errorf("%w: failed to serialize message: %v", ErrDeserialize, err)
	}

	return tx.Signatures[0].Verify(tx.Message.AccountKeys[0], message), nil
}
