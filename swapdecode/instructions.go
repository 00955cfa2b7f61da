package swapdecode

import (
	"encoding/base64"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/mr-tron/base58"
)

// Invocation is one program call with indices resolved to keys and its
// payload decoded to raw bytes. Seq is the position in the flattened
// invocation list; OuterIndex is the outer instruction it belongs to.
type Invocation struct {
	ProgramID  solana.PublicKey
	Accounts   []solana.PublicKey
	Data       []byte
	Outer      bool
	OuterIndex int
	Seq        int
}

// flattenInvocations interleaves each outer instruction with its inner
// (CPI) instructions in recorded order.
func (p *Parser) flattenInvocations() []Invocation {
	var out []Invocation
	seq := 0
	for i, outer := range p.txInfo.Message.Instructions {
		out = append(out, p.toInvocation(outer, true, i, seq))
		seq++
		for _, set := range p.txMeta.InnerInstructions {
			if set.Index != uint16(i) {
				continue
			}
			for _, inner := range set.Instructions {
				out = append(out, p.toInvocation(p.convertRPCToSolanaInstruction(inner), false, i, seq))
				seq++
			}
		}
	}
	return out
}

func (p *Parser) convertRPCToSolanaInstruction(inst rpc.CompiledInstruction) solana.CompiledInstruction {
	return solana.CompiledInstruction{
		ProgramIDIndex: inst.ProgramIDIndex,
		Accounts:       inst.Accounts,
		Data:           inst.Data,
	}
}

func (p *Parser) toInvocation(inst solana.CompiledInstruction, outer bool, outerIndex, seq int) Invocation {
	progID, err := p.resolveAccount(inst.ProgramIDIndex)
	if err != nil {
		p.Log.Warnf("instruction %d: %v", outerIndex, err)
	}

	accounts := make([]solana.PublicKey, len(inst.Accounts))
	for i, ai := range inst.Accounts {
		key, err := p.resolveAccount(ai)
		if err != nil {
			p.Log.Warnf("instruction %d account %d: %v", outerIndex, i, err)
			continue
		}
		accounts[i] = key
	}

	return Invocation{
		ProgramID:  progID,
		Accounts:   accounts,
		Data:       decodeInstructionData(inst.Data),
		Outer:      outer,
		OuterIndex: outerIndex,
		Seq:        seq,
	}
}

// decodeInstructionData normalizes an instruction payload to raw bytes.
// Base58 is the primary text encoding; base64 is the fallback. A
// payload that decodes under neither yields nil rather than an error.
func decodeInstructionData(data solana.Base58) []byte {
	enc := data.String()
	if raw, err := base58.Decode(enc); err == nil {
		return raw
	}
	if raw, err := base64.StdEncoding.DecodeString(enc); err == nil {
		return raw
	}
	return nil
}
