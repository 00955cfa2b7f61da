package swapdecode

var lifinitySwapDisc = [8]byte{248, 198, 158, 145, 225, 117, 135, 200}

var lifinitySwapAccounts = [5]int{1, 3, 4, 5, 6}

// LifinityDecoder covers v1 and v2, which share the swap layout.
type LifinityDecoder struct{}

func (d *LifinityDecoder) Decode(inv Invocation, cor *Correlation) []SwapEvent {
	info, ok := ProgramInfoFor(inv.ProgramID)
	if !ok {
		return nil
	}
	if !hasDiscriminator(inv.Data, lifinitySwapDisc) {
		return nil
	}
	roles, ok := rolesFrom(inv.Accounts, lifinitySwapAccounts)
	if !ok {
		return nil
	}
	return single(buildSwapEvent(roles, info, inv, cor))
}
