package scanner

import (
	"context"

	"walletscan/internal/config"
	"walletscan/internal/models"
)

const solanaDefaultDecimals = 9

// interfaceTokenTypes maps a DAS asset interface to the unified token type.
// Unrecognized interfaces pass through verbatim.
var interfaceTokenTypes = map[string]string{
	"FungibleToken":   models.TokenTypeSPL,
	"FungibleAsset":   models.TokenTypeSPL,
	"V1_NFT":          models.TokenTypeNFT,
	"V2_NFT":          models.TokenTypeNFT,
	"ProgrammableNFT": models.TokenTypePNFT,
	"MplCoreAsset":    models.TokenTypeMPL,
}

// solanaScanner scans Solana wallets via the DAS API. The DAS API provides
// no spam signal, so the spam list is always empty.
type solanaScanner struct {
	client AssetClient
	chain  models.Network
}

func (s *solanaScanner) Scan(ctx context.Context, wallet string) models.ScanResult {
	result := models.ScanResult{Chain: s.chain}

	solanaAssets, err := s.client.AssetsByOwner(ctx, wallet)
	if err != nil {
		return errorResult(s.chain, err)
	}

	for _, sa := range solanaAssets {
		tokenType, ok := interfaceTokenTypes[sa.Interface]
		if !ok {
			tokenType = sa.Interface
		}

		fungible := (sa.Interface == "FungibleToken" || sa.Interface == "FungibleAsset") && sa.Balance != nil

		if fungible {
			decimals := solanaDefaultDecimals
			if sa.Decimals != nil {
				decimals = *sa.Decimals
			}
			quantity := formatUint(*sa.Balance, decimals)

			// The DAS API reports native SOL as wrapped SOL when
			// showNativeBalance is set.
			if sa.Symbol == "SOL" && sa.ID == config.WrappedSOLMint {
				name := sa.Name
				if name == "" {
					name = "Solana"
				}
				result.Assets = append(result.Assets, models.Asset{
					Chain:     s.chain,
					Name:      name,
					Symbol:    "SOL",
					Address:   models.NativeAddress,
					Quantity:  quantity,
					TokenType: models.TokenTypeNative,
				})
				result.NativeCount = 1
				continue
			}

			result.Assets = append(result.Assets, models.Asset{
				Chain:     s.chain,
				Name:      sa.Name,
				Symbol:    sa.Symbol,
				Address:   sa.ID,
				Quantity:  quantity,
				TokenType: tokenType,
			})
			result.TokenCount++
			continue
		}

		// Non-fungible: the mint address doubles as the token id, since
		// Solana has no separate token-id concept.
		result.Assets = append(result.Assets, models.Asset{
			Chain:     s.chain,
			Name:      sa.Name,
			Symbol:    sa.Symbol,
			Address:   sa.ID,
			Quantity:  "1",
			TokenType: tokenType,
			TokenID:   sa.ID,
		})
		result.NFTCount++
	}

	return result
}
