package swapdecode

const solfiSwapOpcode = 7

var (
	solfiAToBAccounts = [5]int{1, 5, 4, 3, 2}
	solfiBToAAccounts = [5]int{1, 4, 5, 2, 3}
)

// SolFiDecoder decodes the single swap instruction; the trailing
// payload byte carries the a-to-b direction.
type SolFiDecoder struct{}

func (d *SolFiDecoder) Decode(inv Invocation, cor *Correlation) []SwapEvent {
	info, ok := ProgramInfoFor(inv.ProgramID)
	if !ok {
		return nil
	}
	if len(inv.Data) < 2 || inv.Data[0] != solfiSwapOpcode {
		return nil
	}

	idx := solfiBToAAccounts
	if inv.Data[len(inv.Data)-1] == 1 {
		idx = solfiAToBAccounts
	}
	roles, ok := rolesFrom(inv.Accounts, idx)
	if !ok {
		return nil
	}
	return single(buildSwapEvent(roles, info, inv, cor))
}
