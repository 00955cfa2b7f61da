package swapdecode

import (
	bin "github.com/gagliardetto/binary"
	"github.com/sirupsen/logrus"
)

var (
	pumpFunBuyDisc  = [8]byte{102, 6, 61, 18, 1, 218, 235, 234}
	pumpFunSellDisc = [8]byte{51, 230, 133, 164, 1, 127, 131, 173}
)

var (
	pumpFunBuyAccounts  = [5]int{0, 6, 5, 8, 7}
	pumpFunSellAccounts = [5]int{0, 5, 6, 7, 8}
)

// PumpFunDecoder covers buy/sell on the bonding curve program and the
// same instruction pair on the pump AMM.
type PumpFunDecoder struct {
	log *logrus.Logger
}

func (d *PumpFunDecoder) Decode(inv Invocation, cor *Correlation) []SwapEvent {
	info, ok := ProgramInfoFor(inv.ProgramID)
	if !ok {
		return nil
	}

	var idx [5]int
	switch {
	case hasDiscriminator(inv.Data, pumpFunBuyDisc):
		idx = pumpFunBuyAccounts
	case hasDiscriminator(inv.Data, pumpFunSellDisc):
		idx = pumpFunSellAccounts
	default:
		return nil
	}

	var args struct {
		Amount uint64
		Limit  uint64
	}
	if err := bin.NewBinDecoder(inv.Data[8:]).Decode(&args); err == nil {
		d.log.WithFields(logrus.Fields{
			"amount": args.Amount,
			"limit":  args.Limit,
		}).Debug("pumpfun trade args")
	}

	roles, ok := rolesFrom(inv.Accounts, idx)
	if !ok {
		return nil
	}
	return single(buildSwapEvent(roles, info, inv, cor))
}
