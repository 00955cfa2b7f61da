package swapdecode

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
)

const (
	splTransferOpcode        = 3
	splTransferCheckedOpcode = 12
)

func isTransfer(inv Invocation) bool {
	return inv.ProgramID.Equals(solana.TokenProgramID) &&
		len(inv.Accounts) >= 3 &&
		len(inv.Data) >= 9 &&
		inv.Data[0] == splTransferOpcode
}

func isTransferChecked(inv Invocation) bool {
	if !inv.ProgramID.Equals(solana.TokenProgramID) && !inv.ProgramID.Equals(solana.Token2022ProgramID) {
		return false
	}
	return len(inv.Accounts) >= 4 &&
		len(inv.Data) >= 10 &&
		inv.Data[0] == splTransferCheckedOpcode
}

// ParseTransferEvents decodes the SPL transfers among the given
// invocations. A plain transfer carries no mint on the wire, so it is
// borrowed from the balance-change table when the source or
// destination account appears there.
func ParseTransferEvents(invs []Invocation, deltas []TokenBalanceChange) []TransferEvent {
	var events []TransferEvent
	for _, inv := range invs {
		switch {
		case isTransfer(inv):
			ev := TransferEvent{
				Kind:        "transfer",
				Source:      inv.Accounts[0].String(),
				Destination: inv.Accounts[1].String(),
				Authority:   inv.Accounts[2].String(),
				Amount:      binary.LittleEndian.Uint64(inv.Data[1:9]),
			}
			for _, d := range deltas {
				if d.Account == ev.Source || d.Account == ev.Destination {
					ev.Mint = d.Mint
					ev.Decimals = d.Decimals
					break
				}
			}
			events = append(events, ev)

		case isTransferChecked(inv):
			events = append(events, TransferEvent{
				Kind:        "transferChecked",
				Source:      inv.Accounts[0].String(),
				Mint:        inv.Accounts[1].String(),
				Destination: inv.Accounts[2].String(),
				Authority:   inv.Accounts[3].String(),
				Amount:      binary.LittleEndian.Uint64(inv.Data[1:9]),
				Decimals:    inv.Data[9],
			})
		}
	}
	return events
}
