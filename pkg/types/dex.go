package types

import "strings"

// Dex is a liquidity venue label accepted by the quote endpoint's dexes and
// excludeDexes filters.
type Dex string

const (
	DexWoofi               Dex = "Woofi"
	DexPumpFun             Dex = "Pump.fun"
	DexWhirlpool           Dex = "Whirlpool"
	DexVirtuals            Dex = "Virtuals"
	DexDaosFun             Dex = "Daos.fun"
	DexLifinityV2          Dex = "Lifinity V2"
	DexStabbleStableSwap   Dex = "Stabble Stable Swap"
	DexTokenMill           Dex = "Token Mill"
	DexMeteora             Dex = "Meteora"
	DexOasis               Dex = "Oasis"
	DexAldrin              Dex = "Aldrin"
	DexGooseFXGamma        Dex = "GooseFX GAMMA"
	DexPerps               Dex = "Perps"
	DexSolFi               Dex = "SolFi"
	DexDexLab              Dex = "DexLab"
	DexTokenSwap           Dex = "Token Swap"
	DexZeroFi              Dex = "ZeroFi"
	DexCropper             Dex = "Cropper"
	DexObricV2             Dex = "Obric V2"
	DexStabbleWeightedSwap Dex = "Stabble Weighted Swap"
	DexSanctumInfinity     Dex = "Sanctum Infinity"
	DexMoonit              Dex = "Moonit"
	DexSanctum             Dex = "Sanctum"
	DexRaydiumCP           Dex = "Raydium CP"
	DexPhoenix             Dex = "Phoenix"
	DexPumpFunAmm          Dex = "Pump.fun Amm"
	DexSaber               Dex = "Saber"
	DexSaberDecimals       Dex = "Saber (Decimals)"
	DexRaydiumCLMM         Dex = "Raydium CLMM"
	Dex1DEX                Dex = "1DEX"
	DexPenguin             Dex = "Penguin"
	DexOrcaV2              Dex = "Orca V2"
	DexFluxBeam            Dex = "FluxBeam"
	DexRaydium             Dex = "Raydium"
	DexMeteoraDLMM         Dex = "Meteora DLMM"
	DexBonkswap            Dex = "Bonkswap"
	DexSolayer             Dex = "Solayer"
	DexStepN               Dex = "StepN"
	DexHeliumNetwork       Dex = "Helium Network"
	DexMercurial           Dex = "Mercurial"
	DexPerena              Dex = "Perena"
	DexOrcaV1              Dex = "Orca V1"
	DexAldrinV2            Dex = "Aldrin V2"
	DexSaros               Dex = "Saros"
	DexOpenBookV2          Dex = "OpenBook V2"
	DexCrema               Dex = "Crema"
	DexOpenBook            Dex = "Openbook"
	DexInvariant           Dex = "Invariant"
	DexGuacswap            Dex = "Guacswap"
)

// KnownDexes lists every label above
var KnownDexes = []Dex{
	DexWoofi, DexPumpFun, DexWhirlpool, DexVirtuals, DexDaosFun, DexLifinityV2,
	DexStabbleStableSwap, DexTokenMill, DexMeteora, DexOasis, DexAldrin, DexGooseFXGamma,
	DexPerps, DexSolFi, DexDexLab, DexTokenSwap, DexZeroFi, DexCropper, DexObricV2,
	DexStabbleWeightedSwap, DexSanctumInfinity, DexMoonit, DexSanctum, DexRaydiumCP,
	DexPhoenix, DexPumpFunAmm, DexSaber, DexSaberDecimals, DexRaydiumCLMM, Dex1DEX,
	DexPenguin, DexOrcaV2, DexFluxBeam, DexRaydium, DexMeteoraDLMM, DexBonkswap,
	DexSolayer, DexStepN, DexHeliumNetwork, DexMercurial, DexPerena, DexOrcaV1,
	DexAldrinV2, DexSaros, DexOpenBookV2, DexCrema, DexOpenBook, DexInvariant, DexGuacswap,
}

// ParseDex matches a label case-insensitively
func ParseDex(label string) (Dex, bool) {
	label = strings.TrimSpace(label)
	for _, d := range KnownDexes {
		if strings.EqualFold(string(d), label) {
			return d, true
		}
	}
	return "", false
}

func dexLabels(dexes []Dex) []string {
	out := make([]string, len(dexes))
	for i, d := range dexes {
		out[i] = string(d)
	}
	return out
}
