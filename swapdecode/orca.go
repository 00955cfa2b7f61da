package swapdecode

var (
	orcaSwapDisc     = [8]byte{248, 198, 158, 145, 225, 117, 135, 200}
	orcaSwapV2Disc   = [8]byte{43, 4, 237, 11, 26, 201, 30, 98}
	orcaTwoHopDisc   = [8]byte{195, 96, 237, 108, 68, 162, 219, 230}
	orcaTwoHopV2Disc = [8]byte{186, 143, 209, 29, 254, 2, 194, 117}
)

const orcaTokenSwapOpcode = 1

var (
	orcaTokenSwapAccounts = [5]int{0, 3, 6, 4, 5}

	orcaSwapAToBAccounts   = [5]int{2, 3, 5, 4, 6}
	orcaSwapBToAAccounts   = [5]int{2, 5, 3, 6, 4}
	orcaSwapV2AToBAccounts = [5]int{4, 7, 9, 8, 10}
	orcaSwapV2BToAAccounts = [5]int{4, 9, 7, 10, 8}

	orcaTwoHopOneAToB = [5]int{2, 4, 6, 5, 7}
	orcaTwoHopOneBToA = [5]int{2, 6, 4, 7, 5}
	orcaTwoHopTwoAToB = [5]int{3, 8, 10, 9, 11}
	orcaTwoHopTwoBToA = [5]int{3, 10, 8, 11, 9}

	orcaTwoHopV2OneAccounts = [5]int{0, 8, 11, 9, 10}
	orcaTwoHopV2TwoAccounts = [5]int{1, 10, 13, 11, 12}
)

// OrcaDecoder covers the legacy token-swap programs (single-byte
// opcode) and the Whirlpool program. Whirlpool account roles flip with
// the a-to-b direction flag, and two-hop swaps produce two legs.
type OrcaDecoder struct {
	tokenSwap bool
}

func (d *OrcaDecoder) Decode(inv Invocation, cor *Correlation) []SwapEvent {
	info, ok := ProgramInfoFor(inv.ProgramID)
	if !ok {
		return nil
	}

	if d.tokenSwap {
		if len(inv.Data) == 0 || inv.Data[0] != orcaTokenSwapOpcode {
			return nil
		}
		roles, ok := rolesFrom(inv.Accounts, orcaTokenSwapAccounts)
		if !ok {
			return nil
		}
		return single(buildSwapEvent(roles, info, inv, cor))
	}

	switch {
	case hasDiscriminator(inv.Data, orcaSwapDisc):
		if len(inv.Data) < 9 {
			return nil
		}
		idx := orcaSwapBToAAccounts
		if inv.Data[len(inv.Data)-1] == 1 {
			idx = orcaSwapAToBAccounts
		}
		roles, ok := rolesFrom(inv.Accounts, idx)
		if !ok {
			return nil
		}
		return single(buildSwapEvent(roles, info, inv, cor))

	case hasDiscriminator(inv.Data, orcaSwapV2Disc):
		if len(inv.Data) < 10 {
			return nil
		}
		idx := orcaSwapV2BToAAccounts
		if inv.Data[len(inv.Data)-2] == 1 {
			idx = orcaSwapV2AToBAccounts
		}
		roles, ok := rolesFrom(inv.Accounts, idx)
		if !ok {
			return nil
		}
		return single(buildSwapEvent(roles, info, inv, cor))

	case hasDiscriminator(inv.Data, orcaTwoHopDisc):
		if len(inv.Data) < 27 {
			return nil
		}
		one := orcaTwoHopOneBToA
		if inv.Data[25] == 1 {
			one = orcaTwoHopOneAToB
		}
		two := orcaTwoHopTwoBToA
		if inv.Data[26] == 1 {
			two = orcaTwoHopTwoAToB
		}
		return d.twoHop(inv, cor, info, one, two)

	case hasDiscriminator(inv.Data, orcaTwoHopV2Disc):
		return d.twoHop(inv, cor, info, orcaTwoHopV2OneAccounts, orcaTwoHopV2TwoAccounts)
	}

	return nil
}

func (d *OrcaDecoder) twoHop(inv Invocation, cor *Correlation, info ProgramInfo, one, two [5]int) []SwapEvent {
	var events []SwapEvent
	for _, idx := range [][5]int{one, two} {
		roles, ok := rolesFrom(inv.Accounts, idx)
		if !ok {
			continue
		}
		if ev := buildSwapEvent(roles, info, inv, cor); ev != nil {
			events = append(events, *ev)
		}
	}
	return events
}
