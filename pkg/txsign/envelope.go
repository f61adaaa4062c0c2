package txsign

import (
	"encoding/base64"
	"fmt"
	"strings"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// DecodeEnvelope decodes a base64 wire envelope into a transaction.
// Both legacy and v0 messages are accepted.
func DecodeEnvelope(envelope string) (*solana.Transaction, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(envelope))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return UnmarshalEnvelope(raw)
}

// UnmarshalEnvelope deserializes raw envelope bytes
func UnmarshalEnvelope(raw []byte) (*solana.Transaction, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty envelope", ErrDeserialize)
	}

	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeserialize, err)
	}

	// A message always carries at least the fee payer.
	if len(tx.Message.AccountKeys) == 0 {
		return nil, fmt.Errorf("%w: message has no account keys", ErrDeserialize)
	}

	return tx, nil
}

// EncodeEnvelope serializes tx and base64 encodes the result. The slot
// count is written as-is, so partially signed envelopes keep their
// placeholder slots.
func EncodeEnvelope(tx *solana.Transaction) (string, error) {
	raw, err := tx.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("failed to serialize transaction: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}
