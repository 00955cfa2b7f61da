package swapdecode

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/sirupsen/logrus"
)

// Parser decodes the swap activity of a single confirmed transaction.
// It holds no state beyond the transaction itself; decoding the same
// transaction twice yields identical results.
type Parser struct {
	txMeta         *rpc.TransactionMeta
	txInfo         *solana.Transaction
	allAccountKeys solana.PublicKeySlice
	registry       *Registry
	Log            *logrus.Logger
}

func NewTransactionParser(tx *rpc.GetTransactionResult, log *logrus.Logger) (*Parser, error) {
	txInfo, err := tx.Transaction.GetTransaction()
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return NewTransactionParserFromTransaction(txInfo, tx.Meta, log)
}

func NewTransactionParserFromTransaction(tx *solana.Transaction, txMeta *rpc.TransactionMeta, log *logrus.Logger) (*Parser, error) {
	if tx == nil || txMeta == nil {
		return nil, fmt.Errorf("transaction and meta are required")
	}

	allAccountKeys := append(solana.PublicKeySlice{}, tx.Message.AccountKeys...)
	allAccountKeys = append(allAccountKeys, txMeta.LoadedAddresses.Writable...)
	allAccountKeys = append(allAccountKeys, txMeta.LoadedAddresses.ReadOnly...)

	if log == nil {
		log = logrus.New()
		log.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
			FullTimestamp:   true,
		})
	}

	return &Parser{
		txMeta:         txMeta,
		txInfo:         tx,
		allAccountKeys: allAccountKeys,
		registry:       NewRegistry(log),
		Log:            log,
	}, nil
}

// Signer returns the transaction's fee payer.
func (p *Parser) Signer() solana.PublicKey {
	if len(p.txInfo.Message.AccountKeys) == 0 {
		return solana.PublicKey{}
	}
	return p.txInfo.Message.AccountKeys[0]
}

// ParseSwapEvents walks every invocation of the transaction, dispatches
// the ones owned by known DEX programs to their protocol decoders, and
// returns the decoded swap legs in invocation order.
func (p *Parser) ParseSwapEvents() []SwapEvent {
	deltas := p.TokenBalanceChanges()
	invs := p.flattenInvocations()

	innerByOuter := make(map[int][]Invocation)
	for _, inv := range invs {
		if !inv.Outer {
			innerByOuter[inv.OuterIndex] = append(innerByOuter[inv.OuterIndex], inv)
		}
	}

	var events []SwapEvent
	for _, inv := range invs {
		if !IsDEXProgram(inv.ProgramID) {
			continue
		}

		cor := &Correlation{Deltas: restrictDeltas(deltas, inv.Accounts)}
		if inv.Outer {
			cor.Transfers = ParseTransferEvents(innerByOuter[inv.OuterIndex], deltas)
		}

		evs := p.registry.Decode(inv, cor)
		for i := range evs {
			evs[i].InstructionIndex = inv.Seq
		}
		events = append(events, evs...)
	}

	return events
}

// restrictDeltas keeps only the balance changes whose token account is
// referenced by the invocation, so parallel swaps in the same
// transaction cannot bleed into each other's vault correlation.
func restrictDeltas(deltas []TokenBalanceChange, accounts []solana.PublicKey) []TokenBalanceChange {
	inScope := make(map[string]bool, len(accounts))
	for _, a := range accounts {
		inScope[a.String()] = true
	}

	var out []TokenBalanceChange
	for _, d := range deltas {
		if inScope[d.Account] {
			out = append(out, d)
		}
	}
	return out
}
