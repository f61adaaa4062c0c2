// Package txbuild turns the API's textual instruction sets into a compiled
// v0 transaction ready for signing.
package txbuild

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	addresslookuptable "github.com/gagliardetto/solana-go/programs/address-lookup-table"
	"github.com/gagliardetto/solana-go/rpc"
	"golang.org/x/sync/errgroup"

	"jup-swap/pkg/types"
)

// Wire format limits
const (
	MaxAccountKeys = 256
	PacketDataSize = 1232
)

var (
	ErrInvalidAddress = errors.New("invalid address")
	ErrInvalidPayload = errors.New("invalid instruction payload")
	ErrLookupNotFound = errors.New("address lookup table not found")
	ErrCompilation    = errors.New("failed to compile message")
)

// AccountFetcher reads raw account data. *rpc.Client satisfies it.
type AccountFetcher interface {
	GetAccountInfo(ctx context.Context, account solana.PublicKey) (*rpc.GetAccountInfoResult, error)
}

// Params are the inputs of Assemble
type Params struct {
	Instructions    []types.Instruction
	LookupTables    []string
	Payer           solana.PublicKey
	RecentBlockhash solana.Hash
}

// Assemble converts the instructions, resolves every lookup table through
// fetcher and compiles a v0 transaction paid by Payer. The returned
// transaction carries one empty signature slot per required signer.
func Assemble(ctx context.Context, p Params, fetcher AccountFetcher) (*solana.Transaction, error) {
	if len(p.Instructions) == 0 {
		return nil, fmt.Errorf("%w: no instructions", ErrCompilation)
	}
	if p.Payer.IsZero() {
		return nil, fmt.Errorf("%w: payer is required", ErrCompilation)
	}

	instructions := make([]solana.Instruction, 0, len(p.Instructions))
	for i, in := range p.Instructions {
		converted, err := ConvertInstruction(in)
		if err != nil {
			return nil, fmt.Errorf("instruction %d: %w", i, err)
		}
		instructions = append(instructions, converted)
	}

	if n := countAccountKeys(p.Payer, instructions); n > MaxAccountKeys {
		return nil, fmt.Errorf("%w: %d account keys exceeds %d", ErrCompilation, n, MaxAccountKeys)
	}

	tables, err := ResolveLookupTables(ctx, fetcher, p.LookupTables)
	if err != nil {
		return nil, err
	}

	opts := []solana.TransactionOption{solana.TransactionPayer(p.Payer)}
	if len(tables) > 0 {
		opts = append(opts, solana.TransactionAddressTables(tables))
	}

	tx, err := solana.NewTransaction(instructions, p.RecentBlockhash, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompilation, err)
	}
	tx.Message.SetVersion(solana.MessageVersionV0)
	tx.Signatures = make([]solana.Signature, tx.Message.Header.NumRequiredSignatures)

	raw, err := tx.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompilation, err)
	}
	if len(raw) > PacketDataSize {
		return nil, fmt.Errorf("%w: transaction is %d bytes, limit is %d", ErrCompilation, len(raw), PacketDataSize)
	}

	return tx, nil
}

// ConvertInstruction parses the program id, account ids and base64 payload
// of an API instruction. Signer and writable flags are kept as given.
func ConvertInstruction(in types.Instruction) (solana.Instruction, error) {
	programID, err := solana.PublicKeyFromBase58(in.ProgramID)
	if err != nil {
		return nil, fmt.Errorf("%w: program id %q: %v", ErrInvalidAddress, in.ProgramID, err)
	}

	accounts := make(solana.AccountMetaSlice, 0, len(in.Accounts))
	for _, a := range in.Accounts {
		pubkey, err := solana.PublicKeyFromBase58(a.Pubkey)
		if err != nil {
			return nil, fmt.Errorf("%w: account %q: %v", ErrInvalidAddress, a.Pubkey, err)
		}
		accounts = append(accounts, &solana.AccountMeta{
			PublicKey:  pubkey,
			IsSigner:   a.IsSigner,
			IsWritable: a.IsWritable,
		})
	}

	data, err := base64.StdEncoding.DecodeString(in.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	return solana.NewInstruction(programID, accounts, data), nil
}

// ResolveLookupTables fetches and decodes each table. Fetches run
// concurrently; any failure aborts the whole resolution.
func ResolveLookupTables(ctx context.Context, fetcher AccountFetcher, addresses []string) (map[solana.PublicKey]solana.PublicKeySlice, error) {
	if len(addresses) == 0 {
		return nil, nil
	}

	keys := make([]solana.PublicKey, len(addresses))
	for i, addr := range addresses {
		key, err := solana.PublicKeyFromBase58(addr)
		if err != nil {
			return nil, fmt.Errorf("%w: lookup table %q: %v", ErrInvalidAddress, addr, err)
		}
		keys[i] = key
	}

	resolved := make([]solana.PublicKeySlice, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			addrs, err := fetchLookupTable(gctx, fetcher, key)
			if err != nil {
				return err
			}
			resolved[i] = addrs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tables := make(map[solana.PublicKey]solana.PublicKeySlice, len(keys))
	for i, key := range keys {
		tables[key] = resolved[i]
	}
	return tables, nil
}

func fetchLookupTable(ctx context.Context, fetcher AccountFetcher, key solana.PublicKey) (solana.PublicKeySlice, error) {
	info, err := fetcher.GetAccountInfo(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLookupNotFound, key, err)
	}
	if info == nil || info.Value == nil || info.Value.Data == nil {
		return nil, fmt.Errorf("%w: %s", ErrLookupNotFound, key)
	}

	data := info.Value.Data.GetBinary()
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s has no data", ErrLookupNotFound, key)
	}

	state, err := addresslookuptable.DecodeAddressLookupTableState(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: failed to decode table: %v", ErrLookupNotFound, key, err)
	}

	return state.Addresses, nil
}

func countAccountKeys(payer solana.PublicKey, instructions []solana.Instruction) int {
	seen := map[solana.PublicKey]struct{}{payer: {}}
	for _, in := range instructions {
		seen[in.ProgramID()] = struct{}{}
		for _, meta := range in.Accounts() {
			seen[meta.PublicKey] = struct{}{}
		}
	}
	return len(seen)
}
