package swapdecode

import (
	bin "github.com/gagliardetto/binary"
	"github.com/sirupsen/logrus"
)

type raydiumKind int

const (
	raydiumAMM raydiumKind = iota
	raydiumCLMM
	raydiumCPMM
)

const (
	raydiumSwapBaseInOpcode  = 9
	raydiumSwapBaseOutOpcode = 11
)

var (
	raydiumCLMMSwapDisc        = [8]byte{248, 198, 158, 145, 225, 117, 135, 200}
	raydiumCLMMSwapRouterDisc  = [8]byte{69, 125, 115, 218, 245, 186, 242, 196}
	raydiumCLMMSwapV2Disc      = [8]byte{43, 4, 237, 11, 26, 201, 30, 98}
	raydiumCPMMSwapBaseInDisc  = [8]byte{143, 190, 90, 218, 196, 30, 51, 222}
	raydiumCPMMSwapBaseOutDisc = [8]byte{55, 217, 98, 86, 163, 74, 180, 173}
)

var (
	raydiumCLMMSwapAccounts = [5]int{2, 3, 4, 5, 6}
	raydiumCPMMSwapAccounts = [5]int{3, 4, 5, 6, 7}
)

// RaydiumDecoder covers the v4 AMM (single-byte opcodes), the
// concentrated liquidity program and the CP swap program (anchor
// discriminators).
type RaydiumDecoder struct {
	kind raydiumKind
	log  *logrus.Logger
}

func (d *RaydiumDecoder) Decode(inv Invocation, cor *Correlation) []SwapEvent {
	info, ok := ProgramInfoFor(inv.ProgramID)
	if !ok {
		return nil
	}

	switch d.kind {
	case raydiumCLMM:
		if !hasDiscriminator(inv.Data, raydiumCLMMSwapDisc) &&
			!hasDiscriminator(inv.Data, raydiumCLMMSwapRouterDisc) &&
			!hasDiscriminator(inv.Data, raydiumCLMMSwapV2Disc) {
			return nil
		}
		roles, ok := rolesFrom(inv.Accounts, raydiumCLMMSwapAccounts)
		if !ok {
			return nil
		}
		return single(buildSwapEvent(roles, info, inv, cor))

	case raydiumCPMM:
		if !hasDiscriminator(inv.Data, raydiumCPMMSwapBaseInDisc) &&
			!hasDiscriminator(inv.Data, raydiumCPMMSwapBaseOutDisc) {
			return nil
		}
		roles, ok := rolesFrom(inv.Accounts, raydiumCPMMSwapAccounts)
		if !ok {
			return nil
		}
		return single(buildSwapEvent(roles, info, inv, cor))

	case raydiumAMM:
		return d.decodeAMM(inv, cor, info)
	}

	return nil
}

// decodeAMM handles the v4 swap layouts. The instruction comes with 17
// or 18 accounts depending on whether target orders are present; the
// coin/pc ordering of the two vaults depends on the pool, so the input
// vault is picked by delta sign rather than by position.
func (d *RaydiumDecoder) decodeAMM(inv Invocation, cor *Correlation, info ProgramInfo) []SwapEvent {
	if len(inv.Data) < 17 || len(inv.Accounts) < 17 {
		return nil
	}
	if inv.Data[0] != raydiumSwapBaseInOpcode && inv.Data[0] != raydiumSwapBaseOutOpcode {
		return nil
	}

	var args struct {
		Amount uint64
		Limit  uint64
	}
	if err := bin.NewBinDecoder(inv.Data[1:]).Decode(&args); err == nil {
		d.log.WithFields(logrus.Fields{
			"opcode": inv.Data[0],
			"amount": args.Amount,
			"limit":  args.Limit,
		}).Debug("raydium amm swap args")
	}

	vaultA, vaultB := 4, 5
	if len(inv.Accounts) >= 18 {
		vaultA, vaultB = 5, 6
	}
	inVault, outVault := pickVaults(cor, inv.Accounts[vaultA].String(), inv.Accounts[vaultB].String())
	if inVault == "" {
		return nil
	}

	roles := accountRoles{
		Pool:     inv.Accounts[1].String(),
		UserIn:   inv.Accounts[len(inv.Accounts)-3].String(),
		UserOut:  inv.Accounts[len(inv.Accounts)-2].String(),
		InVault:  inVault,
		OutVault: outVault,
	}
	return single(buildSwapEvent(roles, info, inv, cor))
}
