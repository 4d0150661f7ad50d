package alchemy

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"walletscan/internal/config"
	"walletscan/internal/models"
)

// assetsByOwnerParams is the DAS getAssetsByOwner request payload.
type assetsByOwnerParams struct {
	OwnerAddress   string         `json:"ownerAddress"`
	Page           int            `json:"page"`
	Limit          int            `json:"limit"`
	DisplayOptions displayOptions `json:"displayOptions"`
}

type displayOptions struct {
	ShowFungible      bool `json:"showFungible"`
	ShowNativeBalance bool `json:"showNativeBalance"`
}

// assetsByOwnerResult is the DAS getAssetsByOwner result shape, reduced to
// the fields the scanner consumes.
type assetsByOwnerResult struct {
	Items []struct {
		ID        string `json:"id"`
		Interface string `json:"interface"`
		Content   struct {
			Metadata struct {
				Name   string `json:"name"`
				Symbol string `json:"symbol"`
			} `json:"metadata"`
		} `json:"content"`
		TokenInfo struct {
			Balance  *uint64 `json:"balance"`
			Decimals *int    `json:"decimals"`
		} `json:"token_info"`
	} `json:"items"`
	Total int `json:"total"`
}

// AssetsByOwner returns all DAS assets for a Solana wallet.
//
// Pagination uses a 1-based page counter with a fixed page size and stops
// when a page returns fewer items than the page size. There is no explicit
// cursor; an exactly-full final page costs one extra (empty) request.
func (c *Client) AssetsByOwner(ctx context.Context, wallet string) ([]models.SolanaAsset, error) {
	var assets []models.SolanaAsset

	for page := 1; ; page++ {
		if page > config.MaxPaginationPages {
			return nil, config.NewAPIError(config.ErrPaginationCap, 0,
				fmt.Sprintf("asset pagination exceeded %d pages", config.MaxPaginationPages))
		}

		params := assetsByOwnerParams{
			OwnerAddress: wallet,
			Page:         page,
			Limit:        config.SolanaAssetPageLimit,
			DisplayOptions: displayOptions{
				ShowFungible:      true,
				ShowNativeBalance: true,
			},
		}

		raw, err := c.call(ctx, models.NetworkSolana, "getAssetsByOwner", params, 1)
		if err != nil {
			return nil, err
		}

		var result assetsByOwnerResult
		if err := json.Unmarshal(raw, &result); err != nil {
			return nil, config.NewAPIError(config.ErrUpstream, 0, c.redact("decode DAS response: "+err.Error()))
		}

		for _, item := range result.Items {
			assets = append(assets, models.SolanaAsset{
				ID:        item.ID,
				Interface: item.Interface,
				Name:      item.Content.Metadata.Name,
				Symbol:    item.Content.Metadata.Symbol,
				Balance:   item.TokenInfo.Balance,
				Decimals:  item.TokenInfo.Decimals,
			})
		}

		if len(result.Items) < config.SolanaAssetPageLimit {
			break
		}
	}

	slog.Debug("solana assets fetched",
		"wallet", wallet,
		"count", len(assets),
	)

	return assets, nil
}
