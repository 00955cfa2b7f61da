package swapdecode

import "github.com/gagliardetto/solana-go"

var (
	RaydiumAMMV4Program    = solana.MustPublicKeyFromBase58("675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8")
	RaydiumCLMMProgram     = solana.MustPublicKeyFromBase58("CAMMCzo5YL8w4VFF8KVHrK22GGUsp5VTaW7grrKgrWqK")
	RaydiumCPMMProgram     = solana.MustPublicKeyFromBase58("CPMMoo8L3F4NbTegBCKVNunggL7H1ZpdTHKxQB5qKP1C")
	OrcaTokenSwapV1Program = solana.MustPublicKeyFromBase58("DjVE6JNiYqPL2QXyCUUh8rNjHrbz9hXHNYt99MQ59qw1")
	OrcaTokenSwapV2Program = solana.MustPublicKeyFromBase58("9W959DqEETiGZocYWCQPaJ6sBmUzgfxXfqGeTEdp3aQP")
	OrcaWhirlpoolProgram   = solana.MustPublicKeyFromBase58("whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc")
	MeteoraDLMMProgram     = solana.MustPublicKeyFromBase58("LBUZKhRxPF3XUpBCjp4YzTKgLccjZhTSDM9YuVaPwxo")
	PumpFunProgram         = solana.MustPublicKeyFromBase58("6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P")
	PumpSwapAMMProgram     = solana.MustPublicKeyFromBase58("pAMMBay6oceH9fJKBRHGP5D4bD4sWpmSwMn52FMfXEA")
	LifinityV1Program      = solana.MustPublicKeyFromBase58("EewxydAPCCVuNEyrVN68PuSYdQ7wKn27V9Gjeoi8dy3S")
	LifinityV2Program      = solana.MustPublicKeyFromBase58("2wT8Yq49kHgDzXuPxZSaeLaH1qbmGXtEyPy64bL7aD3c")
	SolFiProgram           = solana.MustPublicKeyFromBase58("SoLFiHG9TfgtdUXUjWAxi3LtvYuFyDLVhBWxdMZxyCe")
	OpenBookV2Program      = solana.MustPublicKeyFromBase58("opnb2LAfJYbRMAHHvqjCwQxanZn7ReEHp1k81EohpZb")

	WSOLMint = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
)

// ProgramInfo identifies the venue behind a program ID.
type ProgramInfo struct {
	Protocol string
	PoolType string
}

var dexPrograms = map[solana.PublicKey]ProgramInfo{
	RaydiumAMMV4Program:    {Protocol: "RAYDIUM", PoolType: "AMM"},
	RaydiumCLMMProgram:     {Protocol: "RAYDIUM", PoolType: "CLMM"},
	RaydiumCPMMProgram:     {Protocol: "RAYDIUM", PoolType: "CPMM"},
	OrcaTokenSwapV1Program: {Protocol: "ORCA", PoolType: "TOKEN_SWAP_V1"},
	OrcaTokenSwapV2Program: {Protocol: "ORCA", PoolType: "TOKEN_SWAP_V2"},
	OrcaWhirlpoolProgram:   {Protocol: "ORCA", PoolType: "WHIRLPOOL"},
	MeteoraDLMMProgram:     {Protocol: "METEORA", PoolType: "DLMM"},
	PumpFunProgram:         {Protocol: "PUMPFUN", PoolType: "BONDING_CURVE"},
	PumpSwapAMMProgram:     {Protocol: "PUMPFUN", PoolType: "AMM"},
	LifinityV1Program:      {Protocol: "LIFINITY", PoolType: "MMAAS"},
	LifinityV2Program:      {Protocol: "LIFINITY", PoolType: "MMAAS_V2"},
	SolFiProgram:           {Protocol: "SOLFI", PoolType: "AMM"},
	OpenBookV2Program:      {Protocol: "OPENBOOK", PoolType: "DEX_V2"},
}

// IsDEXProgram reports whether the program ID belongs to a venue the
// decoder registry understands.
func IsDEXProgram(id solana.PublicKey) bool {
	_, ok := dexPrograms[id]
	return ok
}

// ProgramInfoFor returns the venue info for a program ID.
func ProgramInfoFor(id solana.PublicKey) (ProgramInfo, bool) {
	info, ok := dexPrograms[id]
	return info, ok
}
