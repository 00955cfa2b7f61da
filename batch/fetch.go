package batch

import (
	"context"
	"errors"
	"time"

	"github.com/AlekSi/pointer"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"github.com/sirupsen/logrus"
)

// BlockData is one block decoded to the pieces analysis needs.
type BlockData struct {
	Slot         uint64
	BlockTime    time.Time
	Transactions []BlockTx
}

type BlockTx struct {
	Tx   *solana.Transaction
	Meta *rpc.TransactionMeta
}

// BlockFetcher yields one block per slot. A nil block with nil error
// means the slot was skipped by the cluster.
type BlockFetcher interface {
	GetBlock(ctx context.Context, slot uint64) (*BlockData, error)
}

// RPCFetcher fetches confirmed blocks over JSON-RPC.
type RPCFetcher struct {
	client *rpc.Client
	log    *logrus.Logger
}

func NewRPCFetcher(client *rpc.Client, log *logrus.Logger) *RPCFetcher {
	return &RPCFetcher{client: client, log: log}
}

// Codes the cluster answers for slots that carry no block.
const (
	rpcErrBlockNotAvailable = -32004
	rpcErrSlotSkipped       = -32007
	rpcErrLongTermSkipped   = -32009
)

func (f *RPCFetcher) GetBlock(ctx context.Context, slot uint64) (*BlockData, error) {
	block, err := f.client.GetBlockWithOpts(ctx, slot, &rpc.GetBlockOpts{
		Encoding:                       solana.EncodingBase64,
		Commitment:                     rpc.CommitmentConfirmed,
		TransactionDetails:             rpc.TransactionDetailsFull,
		Rewards:                        pointer.ToBool(false),
		MaxSupportedTransactionVersion: pointer.ToUint64(0),
	})
	if err != nil {
		var rpcErr *jsonrpc.RPCError
		if errors.As(err, &rpcErr) {
			switch rpcErr.Code {
			case rpcErrBlockNotAvailable, rpcErrSlotSkipped, rpcErrLongTermSkipped:
				return nil, nil
			}
		}
		return nil, err
	}
	if block == nil {
		return nil, nil
	}

	out := &BlockData{Slot: slot}
	if block.BlockTime != nil {
		out.BlockTime = block.BlockTime.Time()
	}
	for i := range block.Transactions {
		txw := &block.Transactions[i]
		tx, err := txw.GetTransaction()
		if err != nil {
			f.log.WithField("slot", slot).Warnf("undecodable transaction: %v", err)
			continue
		}
		out.Transactions = append(out.Transactions, BlockTx{Tx: tx, Meta: txw.Meta})
	}
	return out, nil
}
