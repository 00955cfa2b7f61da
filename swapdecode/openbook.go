package swapdecode

var openBookPlaceTakeOrderDisc = [8]byte{3, 44, 71, 3, 26, 199, 203, 85}

const (
	openBookSideBid = 0
	openBookSideAsk = 1
)

var (
	openBookBidAccounts = [5]int{2, 10, 9, 7, 6}
	openBookAskAccounts = [5]int{2, 9, 10, 6, 7}
)

// OpenBookDecoder decodes placeTakeOrder fills; the side byte after
// the discriminator flips the base/quote roles.
type OpenBookDecoder struct{}

func (d *OpenBookDecoder) Decode(inv Invocation, cor *Correlation) []SwapEvent {
	info, ok := ProgramInfoFor(inv.ProgramID)
	if !ok {
		return nil
	}
	if !hasDiscriminator(inv.Data, openBookPlaceTakeOrderDisc) || len(inv.Data) < 9 {
		return nil
	}

	var idx [5]int
	switch inv.Data[8] {
	case openBookSideBid:
		idx = openBookBidAccounts
	case openBookSideAsk:
		idx = openBookAskAccounts
	default:
		return nil
	}

	roles, ok := rolesFrom(inv.Accounts, idx)
	if !ok {
		return nil
	}
	return single(buildSwapEvent(roles, info, inv, cor))
}
