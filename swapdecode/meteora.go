package swapdecode

var (
	meteoraSwapDisc         = [8]byte{248, 198, 158, 145, 225, 117, 135, 200}
	meteoraSwapExactOutDisc = [8]byte{250, 73, 101, 33, 38, 207, 75, 184}
)

var meteoraSwapAccounts = [5]int{0, 4, 5, 2, 3}

// MeteoraDecoder covers DLMM swap and swapExactOut, which share one
// account layout.
type MeteoraDecoder struct{}

func (d *MeteoraDecoder) Decode(inv Invocation, cor *Correlation) []SwapEvent {
	info, ok := ProgramInfoFor(inv.ProgramID)
	if !ok {
		return nil
	}
	if !hasDiscriminator(inv.Data, meteoraSwapDisc) &&
		!hasDiscriminator(inv.Data, meteoraSwapExactOutDisc) {
		return nil
	}
	roles, ok := rolesFrom(inv.Accounts, meteoraSwapAccounts)
	if !ok {
		return nil
	}
	return single(buildSwapEvent(roles, info, inv, cor))
}
