package txbuild

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jup-swap/pkg/types"
)

type fakeFetcher struct {
	mu       sync.Mutex
	accounts map[solana.PublicKey][]byte
	delays   map[solana.PublicKey]time.Duration
	err      error
	calls    int
}

func (f *fakeFetcher) GetAccountInfo(ctx context.Context, account solana.PublicKey) (*rpc.GetAccountInfoResult, error) {
	f.mu.Lock()
	f.calls++
	delay := f.delays[account]
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	data, ok := f.accounts[account]
	if !ok {
		return nil, rpc.ErrNotFound
	}
	return &rpc.GetAccountInfoResult{
		Value: &rpc.Account{Data: rpc.DataBytesOrJSONFromBytes(data)},
	}, nil
}

func key(b byte) solana.PublicKey {
	return solana.PublicKeyFromBytes(bytes.Repeat([]byte{b}, 32))
}

// lookupTableData lays out an active table with an authority, followed by
// its addresses.
func lookupTableData(addrs ...solana.PublicKey) []byte {
	buf := make([]byte, 56)
	binary.LittleEndian.PutUint32(buf[0:4], 1)
	binary.LittleEndian.PutUint64(buf[4:12], math.MaxUint64)
	buf[21] = 1
	authority := key(0xAA)
	copy(buf[22:54], authority[:])
	for _, a := range addrs {
		buf = append(buf, a[:]...)
	}
	return buf
}

func instruction(program solana.PublicKey, data byte, accounts ...types.AccountMeta) types.Instruction {
	return types.Instruction{
		ProgramID: program.String(),
		Accounts:  accounts,
		Data:      base64.StdEncoding.EncodeToString([]byte{data}),
	}
}

func TestAssemble_Basic(t *testing.T) {
	payer := key(1)
	tx, err := Assemble(context.Background(), Params{
		Instructions: []types.Instruction{
			instruction(key(2), 7, types.AccountMeta{Pubkey: payer.String(), IsSigner: true, IsWritable: true}),
		},
		Payer:           payer,
		RecentBlockhash: solana.Hash(key(3)),
	}, &fakeFetcher{})
	require.NoError(t, err)

	assert.True(t, tx.Message.IsVersioned())
	assert.Equal(t, payer, tx.Message.AccountKeys[0])
	assert.Equal(t, solana.Hash(key(3)), tx.Message.RecentBlockhash)
	require.Len(t, tx.Signatures, 1)
	assert.Equal(t, solana.Signature{}, tx.Signatures[0])
	require.Len(t, tx.Message.Instructions, 1)
	assert.Equal(t, []byte{7}, []byte(tx.Message.Instructions[0].Data))
}

func TestAssemble_InvalidInput(t *testing.T) {
	payer := key(1)
	tests := []struct {
		name    string
		params  Params
		wantErr error
	}{
		{
			name: "bad program id",
			params: Params{
				Instructions: []types.Instruction{{ProgramID: "not-a-key", Data: ""}},
				Payer:        payer,
			},
			wantErr: ErrInvalidAddress,
		},
		{
			name: "bad account id",
			params: Params{
				Instructions: []types.Instruction{instruction(key(2), 1, types.AccountMeta{Pubkey: "0OIl"})},
				Payer:        payer,
			},
			wantErr: ErrInvalidAddress,
		},
		{
			name: "bad payload",
			params: Params{
				Instructions: []types.Instruction{{ProgramID: key(2).String(), Data: "%%%"}},
				Payer:        payer,
			},
			wantErr: ErrInvalidPayload,
		},
		{
			name:    "no instructions",
			params:  Params{Payer: payer},
			wantErr: ErrCompilation,
		},
		{
			name: "bad lookup table address",
			params: Params{
				Instructions: []types.Instruction{instruction(key(2), 1)},
				LookupTables: []string{"bogus!"},
				Payer:        payer,
			},
			wantErr: ErrInvalidAddress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := Assemble(context.Background(), tt.params, &fakeFetcher{})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, tx)
		})
	}
}

func TestAssemble_LookupNotFound(t *testing.T) {
	fetcher := &fakeFetcher{accounts: map[solana.PublicKey][]byte{}}
	tx, err := Assemble(context.Background(), Params{
		Instructions: []types.Instruction{instruction(key(2), 1)},
		LookupTables: []string{key(9).String()},
		Payer:        key(1),
	}, fetcher)
	assert.ErrorIs(t, err, ErrLookupNotFound)
	assert.Nil(t, tx)
}

func TestAssemble_LookupUndecodable(t *testing.T) {
	fetcher := &fakeFetcher{accounts: map[solana.PublicKey][]byte{key(9): {1, 2, 3}}}
	tx, err := Assemble(context.Background(), Params{
		Instructions: []types.Instruction{instruction(key(2), 1)},
		LookupTables: []string{key(9).String()},
		Payer:        key(1),
	}, fetcher)
	assert.ErrorIs(t, err, ErrLookupNotFound)
	assert.Nil(t, tx)
}

func TestAssemble_WithLookupTable(t *testing.T) {
	payer := key(1)
	table := key(9)
	looked := key(5)
	fetcher := &fakeFetcher{accounts: map[solana.PublicKey][]byte{
		table: lookupTableData(key(4), looked),
	}}

	tx, err := Assemble(context.Background(), Params{
		Instructions: []types.Instruction{
			instruction(key(2), 1,
				types.AccountMeta{Pubkey: payer.String(), IsSigner: true, IsWritable: true},
				types.AccountMeta{Pubkey: looked.String(), IsWritable: true},
			),
		},
		LookupTables: []string{table.String()},
		Payer:        payer,
	}, fetcher)
	require.NoError(t, err)

	require.Len(t, tx.Message.AddressTableLookups, 1)
	assert.Equal(t, table, tx.Message.AddressTableLookups[0].AccountKey)
	assert.NotContains(t, tx.Message.AccountKeys, looked)
}

func TestAssemble_Ordering(t *testing.T) {
	payer := key(1)
	program := key(2)
	resp := &types.SwapInstructionsResponse{
		ComputeBudgetInstructions: []types.Instruction{instruction(program, 1)},
		SetupInstructions:         []types.Instruction{instruction(program, 2)},
		SwapInstruction:           instruction(program, 3),
		CleanupInstruction:        ptr(instruction(program, 4)),
		OtherInstructions:         []types.Instruction{instruction(program, 5)},
	}

	tx, err := Assemble(context.Background(), Params{
		Instructions: OrderInstructions(resp),
		Payer:        payer,
	}, &fakeFetcher{})
	require.NoError(t, err)

	var got []byte
	for _, in := range tx.Message.Instructions {
		got = append(got, in.Data...)
	}
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, got)
}

func TestAssemble_Limits(t *testing.T) {
	payer := key(1)

	t.Run("too many accounts", func(t *testing.T) {
		var accounts []types.AccountMeta
		for i := 0; i < MaxAccountKeys+1; i++ {
			var k solana.PublicKey
			binary.BigEndian.PutUint32(k[:4], uint32(i+100))
			accounts = append(accounts, types.AccountMeta{Pubkey: k.String()})
		}
		tx, err := Assemble(context.Background(), Params{
			Instructions: []types.Instruction{instruction(key(2), 1, accounts...)},
			Payer:        payer,
		}, &fakeFetcher{})
		assert.ErrorIs(t, err, ErrCompilation)
		assert.Nil(t, tx)
	})

	t.Run("oversized packet", func(t *testing.T) {
		big := types.Instruction{
			ProgramID: key(2).String(),
			Data:      base64.StdEncoding.EncodeToString(make([]byte, PacketDataSize)),
		}
		tx, err := Assemble(context.Background(), Params{
			Instructions: []types.Instruction{big},
			Payer:        payer,
		}, &fakeFetcher{})
		assert.ErrorIs(t, err, ErrCompilation)
		assert.Nil(t, tx)
	})
}

func TestResolveLookupTables_PreservesOrder(t *testing.T) {
	first, second := key(8), key(9)
	fetcher := &fakeFetcher{
		accounts: map[solana.PublicKey][]byte{
			first:  lookupTableData(key(10)),
			second: lookupTableData(key(11), key(12)),
		},
		delays: map[solana.PublicKey]time.Duration{first: 20 * time.Millisecond},
	}

	tables, err := ResolveLookupTables(context.Background(), fetcher, []string{first.String(), second.String()})
	require.NoError(t, err)
	assert.Equal(t, solana.PublicKeySlice{key(10)}, tables[first])
	assert.Equal(t, solana.PublicKeySlice{key(11), key(12)}, tables[second])
	assert.Equal(t, 2, fetcher.calls)
}

func TestResolveLookupTables_TransportError(t *testing.T) {
	boom := errors.New("connection refused")
	_, err := ResolveLookupTables(context.Background(), &fakeFetcher{err: boom}, []string{key(9).String()})
	assert.ErrorIs(t, err, ErrLookupNotFound)
	assert.ErrorIs(t, err, boom)
}

func TestOrderInstructions_TokenLedger(t *testing.T) {
	program := key(2)
	resp := &types.SwapInstructionsResponse{
		TokenLedgerInstruction: ptr(instruction(program, 9)),
		SetupInstructions:      []types.Instruction{instruction(program, 2)},
		SwapInstruction:        instruction(program, 3),
	}

	ordered := OrderInstructions(resp)
	require.Len(t, ordered, 3)
	assert.Equal(t, resp.TokenLedgerInstruction.Data, ordered[0].Data)
	assert.Equal(t, resp.SwapInstruction.Data, ordered[2].Data)
	assert.Nil(t, OrderInstructions(nil))
}

func ptr[T any](v T) *T { return &v }
