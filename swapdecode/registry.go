package swapdecode

import (
	"bytes"
	"crypto/sha256"
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"
)

// Correlation carries the evidence a decoder resolves vault amounts
// against: token balance deltas restricted to the invocation's account
// list, and for outer invocations the SPL transfers of its inner set.
type Correlation struct {
	Deltas    []TokenBalanceChange
	Transfers []TransferEvent
}

// Decoder turns one invocation of a known DEX program into zero or
// more swap events. Decoders return nil on discriminator mismatch or
// malformed input; they never panic past the registry.
type Decoder interface {
	Decode(inv Invocation, cor *Correlation) []SwapEvent
}

// Registry is the closed dispatch table from program ID to protocol
// decoder. Programs outside the table decode to nothing.
type Registry struct {
	decoders map[solana.PublicKey]Decoder
	log      *logrus.Logger
}

func NewRegistry(log *logrus.Logger) *Registry {
	r := &Registry{
		decoders: make(map[solana.PublicKey]Decoder),
		log:      log,
	}

	r.decoders[RaydiumAMMV4Program] = &RaydiumDecoder{kind: raydiumAMM, log: log}
	r.decoders[RaydiumCLMMProgram] = &RaydiumDecoder{kind: raydiumCLMM, log: log}
	r.decoders[RaydiumCPMMProgram] = &RaydiumDecoder{kind: raydiumCPMM, log: log}
	r.decoders[OrcaTokenSwapV1Program] = &OrcaDecoder{tokenSwap: true}
	r.decoders[OrcaTokenSwapV2Program] = &OrcaDecoder{tokenSwap: true}
	r.decoders[OrcaWhirlpoolProgram] = &OrcaDecoder{}
	r.decoders[MeteoraDLMMProgram] = &MeteoraDecoder{}
	r.decoders[PumpFunProgram] = &PumpFunDecoder{log: log}
	r.decoders[PumpSwapAMMProgram] = &PumpFunDecoder{log: log}
	r.decoders[LifinityV1Program] = &LifinityDecoder{}
	r.decoders[LifinityV2Program] = &LifinityDecoder{}
	r.decoders[SolFiProgram] = &SolFiDecoder{}
	r.decoders[OpenBookV2Program] = &OpenBookDecoder{}

	return r
}

func (r *Registry) Decode(inv Invocation, cor *Correlation) []SwapEvent {
	dec, ok := r.decoders[inv.ProgramID]
	if !ok {
		return nil
	}
	return dec.Decode(inv, cor)
}

// anchorDiscriminator derives the 8-byte anchor instruction prefix for
// a global instruction name.
func anchorDiscriminator(name string) [8]byte {
	h := sha256.Sum256([]byte("global:" + name))
	var d [8]byte
	copy(d[:], h[:8])
	return d
}

func hasDiscriminator(data []byte, disc [8]byte) bool {
	return len(data) >= 8 && bytes.Equal(data[:8], disc[:])
}

func single(ev *SwapEvent) []SwapEvent {
	if ev == nil {
		return nil
	}
	return []SwapEvent{*ev}
}

// accountRoles are the five accounts every decoder resolves from its
// positional map: pool, user source, user destination, the vault that
// receives tokenIn and the vault that pays tokenOut.
type accountRoles struct {
	Pool     string
	UserIn   string
	UserOut  string
	InVault  string
	OutVault string
}

// rolesFrom applies a positional account map. Any index outside the
// invocation's account list invalidates the whole map.
func rolesFrom(accounts []solana.PublicKey, idx [5]int) (accountRoles, bool) {
	for _, i := range idx {
		if i < 0 || i >= len(accounts) {
			return accountRoles{}, false
		}
	}
	return accountRoles{
		Pool:     accounts[idx[0]].String(),
		UserIn:   accounts[idx[1]].String(),
		UserOut:  accounts[idx[2]].String(),
		InVault:  accounts[idx[3]].String(),
		OutVault: accounts[idx[4]].String(),
	}, true
}

// buildSwapEvent resolves the amounts for a role assignment. Outer
// invocations correlate against the SPL transfers of their inner set;
// inner invocations against the vault balance deltas. A leg whose
// amounts or mints cannot both be resolved yields no event.
func buildSwapEvent(roles accountRoles, info ProgramInfo, inv Invocation, cor *Correlation) *SwapEvent {
	var amountIn, amountOut *big.Int
	var tokenIn, tokenOut string

	if inv.Outer {
		for _, t := range cor.Transfers {
			if t.Destination == roles.InVault && amountIn == nil {
				amountIn = new(big.Int).SetUint64(t.Amount)
				tokenIn = t.Mint
			}
			if t.Source == roles.OutVault && amountOut == nil {
				amountOut = new(big.Int).SetUint64(t.Amount)
				tokenOut = t.Mint
			}
		}
	}

	for _, d := range cor.Deltas {
		switch d.Account {
		case roles.InVault:
			if amountIn == nil {
				amountIn = new(big.Int).Abs(d.Delta)
			}
			if tokenIn == "" {
				tokenIn = d.Mint
			}
		case roles.OutVault:
			if amountOut == nil {
				amountOut = new(big.Int).Abs(d.Delta)
			}
			if tokenOut == "" {
				tokenOut = d.Mint
			}
		}
	}

	if amountIn == nil || amountOut == nil || tokenIn == "" || tokenOut == "" {
		return nil
	}
	if amountIn.Sign() == 0 || amountOut.Sign() == 0 {
		return nil
	}

	return &SwapEvent{
		PoolAddress: roles.Pool,
		Protocol:    info.Protocol,
		PoolType:    info.PoolType,
		ProgramID:   inv.ProgramID.String(),
		TokenIn:     tokenIn,
		TokenOut:    tokenOut,
		AmountIn:    amountIn,
		AmountOut:   amountOut,
		Sender:      roles.UserIn,
		Recipient:   roles.UserOut,
	}
}

// pickVaults decides which of two vault candidates received the user's
// tokens. The vault with a positive delta took tokenIn; with only
// transfer evidence, the transfer destination did.
func pickVaults(cor *Correlation, a, b string) (string, string) {
	for _, d := range cor.Deltas {
		if d.Account != a && d.Account != b {
			continue
		}
		other := b
		if d.Account == b {
			other = a
		}
		if d.Delta.Sign() > 0 {
			return d.Account, other
		}
		if d.Delta.Sign() < 0 {
			return other, d.Account
		}
	}
	for _, t := range cor.Transfers {
		if t.Destination == a {
			return a, b
		}
		if t.Destination == b {
			return b, a
		}
	}
	return "", ""
}
