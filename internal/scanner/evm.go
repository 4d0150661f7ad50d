package scanner

import (
	"context"
	"log/slog"

	"walletscan/internal/alchemy"
	"walletscan/internal/config"
	"walletscan/internal/models"
)

const evmDefaultDecimals = 18

// evmScanner scans EVM-family chains: native coin, ERC-20 tokens, and NFTs.
type evmScanner struct {
	client AssetClient
	chain  models.Network
}

func (s *evmScanner) Scan(ctx context.Context, wallet string) models.ScanResult {
	result := models.ScanResult{Chain: s.chain}

	// Native balance. Exactly zero yields no native asset.
	nativeBalance, err := s.client.NativeBalance(ctx, s.chain, wallet)
	if err != nil {
		return errorResult(s.chain, err)
	}
	if nativeBalance.Sign() > 0 {
		info, err := alchemy.NativeTokenInfo(s.chain)
		if err != nil {
			return errorResult(s.chain, err)
		}
		result.Assets = append(result.Assets, models.Asset{
			Chain:     s.chain,
			Name:      info.Name,
			Symbol:    info.Symbol,
			Address:   models.NativeAddress,
			Quantity:  FormatQuantity(nativeBalance, info.Decimals),
			TokenType: models.TokenTypeNative,
		})
		result.NativeCount = 1
	}

	// ERC-20 balances, already zero-filtered by the client. A metadata
	// failure skips that token instead of aborting the scan.
	tokenBalances, err := s.client.TokenBalances(ctx, s.chain, wallet)
	if err != nil {
		return errorResult(s.chain, err)
	}
	for _, tb := range tokenBalances {
		metadata, err := s.client.TokenMetadata(ctx, s.chain, tb.ContractAddress)
		if err != nil {
			if config.IsAPIError(err) {
				result.SkippedTokens++
				continue
			}
			return errorResult(s.chain, err)
		}

		// SkippedTokens tracks metadata failures only; a balance the
		// upstream let through unparseable is dropped with its own log line.
		balance, err := parseHexBalance(tb.Balance)
		if err != nil {
			slog.Warn("unparseable token balance, dropping token",
				"chain", s.chain,
				"contract", tb.ContractAddress,
			)
			continue
		}

		decimals := evmDefaultDecimals
		if metadata.Decimals != nil {
			decimals = *metadata.Decimals
		}

		result.Assets = append(result.Assets, models.Asset{
			Chain:     s.chain,
			Name:      metadata.Name,
			Symbol:    metadata.Symbol,
			Address:   tb.ContractAddress,
			Quantity:  FormatQuantity(balance, decimals),
			TokenType: models.TokenTypeERC20,
		})
		result.TokenCount++
	}
	if result.SkippedTokens > 0 {
		// One summary line per chain scan, not one per skip.
		slog.Warn("skipped tokens due to metadata fetch failures",
			"chain", s.chain,
			"skipped", result.SkippedTokens,
		)
	}

	// NFTs. Spam-flagged records go to the spam list and are excluded from
	// the main counters. Balance is kept verbatim, not reformatted.
	nfts, err := s.client.NFTsForOwner(ctx, s.chain, wallet)
	if err != nil {
		return errorResult(s.chain, err)
	}
	for _, nft := range nfts {
		asset := models.Asset{
			Chain:          s.chain,
			Name:           nft.Name,
			Address:        nft.ContractAddress,
			Quantity:       nft.Balance,
			TokenType:      nft.TokenType,
			TokenID:        nft.TokenID,
			CollectionName: nft.CollectionName,
			IsSpam:         nft.IsSpam,
		}

		if nft.IsSpam {
			result.SpamAssets = append(result.SpamAssets, asset)
			continue
		}

		result.Assets = append(result.Assets, asset)
		result.NFTCount++
		switch nft.TokenType {
		case models.TokenTypeERC721:
			result.ERC721Count++
		case models.TokenTypeERC1155:
			result.ERC1155Count++
		}
	}
	result.SpamCount = len(result.SpamAssets)

	return result
}
