package swapdecode

import (
	"encoding/binary"
	"reflect"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/sirupsen/logrus"
)

func testKey(b byte) solana.PublicKey {
	var raw [32]byte
	raw[0] = b
	raw[31] = b
	return solana.PublicKeyFromBytes(raw[:])
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}

func tokenBalance(index uint16, mint solana.PublicKey, amount string, decimals uint8) rpc.TokenBalance {
	owner := testKey(200)
	prog := solana.TokenProgramID
	return rpc.TokenBalance{
		AccountIndex: index,
		Mint:         mint,
		Owner:        &owner,
		ProgramId:    &prog,
		UiTokenAmount: &rpc.UiTokenAmount{
			Amount:   amount,
			Decimals: decimals,
		},
	}
}

// solfiInnerSwapTx carries one SolFi swap as a CPI under an unlisted
// router program. The output vault resolves through the loaded
// writable partition rather than the static keys.
func solfiInnerSwapTx() (*solana.Transaction, *rpc.TransactionMeta) {
	signer, router := testKey(1), testKey(2)
	pool, vaultIn := testKey(3), testKey(4)
	userA, userB := testKey(6), testKey(7)
	vaultOut := testKey(5)
	mintX, mintY := testKey(10), testKey(11)

	tx := &solana.Transaction{
		Signatures: []solana.Signature{{1}},
		Message: solana.Message{
			AccountKeys: []solana.PublicKey{signer, router, SolFiProgram, pool, vaultIn, userA, userB},
			Instructions: []solana.CompiledInstruction{
				{ProgramIDIndex: 1, Accounts: []uint16{0}, Data: solana.Base58{}},
			},
		},
	}
	meta := &rpc.TransactionMeta{
		Fee: 5000,
		LoadedAddresses: rpc.LoadedAddresses{
			Writable: solana.PublicKeySlice{vaultOut},
		},
		InnerInstructions: []rpc.InnerInstruction{
			{
				Index: 0,
				Instructions: []rpc.CompiledInstruction{
					{ProgramIDIndex: 2, Accounts: []uint16{0, 3, 4, 7, 5, 6}, Data: solana.Base58{solfiSwapOpcode, 0}},
				},
			},
		},
		PreTokenBalances: []rpc.TokenBalance{
			tokenBalance(4, mintX, "1000", 6),
			tokenBalance(7, mintY, "1000", 6),
		},
		PostTokenBalances: []rpc.TokenBalance{
			tokenBalance(4, mintX, "1100", 6),
			tokenBalance(7, mintY, "910", 6),
		},
	}
	return tx, meta
}

func TestParseSwapEventsInnerOrigin(t *testing.T) {
	tx, meta := solfiInnerSwapTx()
	p, err := NewTransactionParserFromTransaction(tx, meta, testLogger())
	if err != nil {
		t.Fatalf("NewTransactionParserFromTransaction: %v", err)
	}

	events := p.ParseSwapEvents()
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}

	ev := events[0]
	if ev.PoolAddress != testKey(3).String() {
		t.Errorf("pool = %s", ev.PoolAddress)
	}
	if ev.Protocol != "SOLFI" || ev.ProgramID != SolFiProgram.String() {
		t.Errorf("protocol = %s program = %s", ev.Protocol, ev.ProgramID)
	}
	if ev.TokenIn != testKey(10).String() || ev.AmountIn.Int64() != 100 {
		t.Errorf("tokenIn = %s amount = %s", ev.TokenIn, ev.AmountIn)
	}
	if ev.TokenOut != testKey(11).String() || ev.AmountOut.Int64() != 90 {
		t.Errorf("tokenOut = %s amount = %s", ev.TokenOut, ev.AmountOut)
	}
	if ev.Sender != testKey(6).String() || ev.Recipient != testKey(7).String() {
		t.Errorf("sender = %s recipient = %s", ev.Sender, ev.Recipient)
	}
}

func TestParseSwapEventsIsIdempotent(t *testing.T) {
	tx, meta := solfiInnerSwapTx()
	p, err := NewTransactionParserFromTransaction(tx, meta, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	first := p.ParseSwapEvents()
	second := p.ParseSwapEvents()
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated decode diverged:\n%+v\n%+v", first, second)
	}
}

// Outer-origin invocations have no per-invocation balance deltas to
// lean on; amounts come from the SPL transfers of the inner set.
func TestParseSwapEventsOuterOrigin(t *testing.T) {
	signer := testKey(1)
	pool, vaultIn, vaultOut := testKey(3), testKey(4), testKey(5)
	userA, userB := testKey(6), testKey(7)
	mintX, mintY := testKey(10), testKey(11)

	checked := func(amount uint64, decimals uint8) solana.Base58 {
		data := make([]byte, 10)
		data[0] = splTransferCheckedOpcode
		binary.LittleEndian.PutUint64(data[1:9], amount)
		data[9] = decimals
		return solana.Base58(data)
	}

	tx := &solana.Transaction{
		Signatures: []solana.Signature{{2}},
		Message: solana.Message{
			AccountKeys: []solana.PublicKey{
				signer, SolFiProgram, solana.TokenProgramID,
				pool, vaultIn, vaultOut, userA, userB, mintX, mintY,
			},
			Instructions: []solana.CompiledInstruction{
				{ProgramIDIndex: 1, Accounts: []uint16{0, 3, 4, 5, 6, 7}, Data: solana.Base58{solfiSwapOpcode, 0}},
			},
		},
	}
	meta := &rpc.TransactionMeta{
		InnerInstructions: []rpc.InnerInstruction{
			{
				Index: 0,
				Instructions: []rpc.CompiledInstruction{
					{ProgramIDIndex: 2, Accounts: []uint16{6, 8, 4, 0}, Data: checked(100, 6)},
					{ProgramIDIndex: 2, Accounts: []uint16{5, 9, 7, 0}, Data: checked(90, 6)},
				},
			},
		},
	}

	p, err := NewTransactionParserFromTransaction(tx, meta, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	events := p.ParseSwapEvents()
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	ev := events[0]
	if ev.TokenIn != mintX.String() || ev.AmountIn.Int64() != 100 {
		t.Errorf("tokenIn = %s amount = %s", ev.TokenIn, ev.AmountIn)
	}
	if ev.TokenOut != mintY.String() || ev.AmountOut.Int64() != 90 {
		t.Errorf("tokenOut = %s amount = %s", ev.TokenOut, ev.AmountOut)
	}
}

func TestParseSwapEventsIgnoresUnknownPrograms(t *testing.T) {
	tx, meta := solfiInnerSwapTx()
	// Repoint the inner instruction at the router, which is not in the
	// dispatch table.
	meta.InnerInstructions[0].Instructions[0].ProgramIDIndex = 1

	p, err := NewTransactionParserFromTransaction(tx, meta, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	if events := p.ParseSwapEvents(); len(events) != 0 {
		t.Fatalf("got %d events from unknown program", len(events))
	}
}

func TestTokenBalanceChangesOneSided(t *testing.T) {
	signer := testKey(1)
	acctA, acctB := testKey(2), testKey(3)
	mint := testKey(10)

	tx := &solana.Transaction{
		Signatures: []solana.Signature{{3}},
		Message: solana.Message{
			AccountKeys: []solana.PublicKey{signer, acctA, acctB},
		},
	}
	meta := &rpc.TransactionMeta{
		// acctA exists only before the transaction: it was emptied and
		// closed. acctB exists only after: freshly created.
		PreTokenBalances:  []rpc.TokenBalance{tokenBalance(1, mint, "250", 6)},
		PostTokenBalances: []rpc.TokenBalance{tokenBalance(2, mint, "400", 6)},
	}

	p, err := NewTransactionParserFromTransaction(tx, meta, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	changes := p.TokenBalanceChanges()
	if len(changes) != 2 {
		t.Fatalf("got %d changes, want 2", len(changes))
	}
	if changes[0].Account != acctA.String() || changes[0].Delta.Int64() != -250 {
		t.Errorf("pre-only delta = %s", changes[0].Delta)
	}
	if changes[1].Account != acctB.String() || changes[1].Delta.Int64() != 400 {
		t.Errorf("post-only delta = %s", changes[1].Delta)
	}
}

func TestTokenBalanceChangesLoadedPartition(t *testing.T) {
	tx, meta := solfiInnerSwapTx()
	p, err := NewTransactionParserFromTransaction(tx, meta, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	changes := p.TokenBalanceChanges()
	if len(changes) != 2 {
		t.Fatalf("got %d changes, want 2", len(changes))
	}
	// Index 7 points one past the static keys into the loaded writable
	// set.
	if changes[1].Account != testKey(5).String() {
		t.Errorf("loaded account = %s, want %s", changes[1].Account, testKey(5))
	}
	if changes[1].Delta.Int64() != -90 {
		t.Errorf("loaded delta = %s", changes[1].Delta)
	}
}
