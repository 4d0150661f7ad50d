package alchemy

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/big"
	"net/url"
	"strconv"
	"strings"

	"walletscan/internal/config"
	"walletscan/internal/models"
)

// requireEVM fails fast when an EVM-only operation is called for a
// non-EVM network. No network I/O happens after a failure.
func requireEVM(network models.Network, op string) error {
	if !network.IsEVM() {
		return fmt.Errorf("%w: %s is EVM-only, got %q", config.ErrInvalidNetwork, op, network)
	}
	return nil
}

// parseHexBig parses a 0x-prefixed hex quantity into a big.Int.
func parseHexBig(s string) (*big.Int, error) {
	t := strings.TrimPrefix(s, "0x")
	if t == "" {
		return big.NewInt(0), nil
	}
	n, ok := new(big.Int).SetString(t, 16)
	if !ok {
		return nil, fmt.Errorf("invalid hex quantity %q", s)
	}
	return n, nil
}

// NativeBalance returns the native coin balance in wei for an EVM wallet.
func (c *Client) NativeBalance(ctx context.Context, network models.Network, wallet string) (*big.Int, error) {
	if err := requireEVM(network, "NativeBalance"); err != nil {
		return nil, err
	}

	result, err := c.call(ctx, network, "eth_getBalance", []any{wallet, "latest"}, 1)
	if err != nil {
		return nil, err
	}

	var hexBalance string
	if err := json.Unmarshal(result, &hexBalance); err != nil {
		return nil, config.NewAPIError(config.ErrUpstream, 0, c.redact("decode balance result: "+err.Error()))
	}

	balance, err := parseHexBig(hexBalance)
	if err != nil {
		return nil, config.NewAPIError(config.ErrUpstream, 0, c.redact(err.Error()))
	}

	slog.Debug("native balance fetched",
		"network", network,
		"wallet", wallet,
		"balance", balance.String(),
	)

	return balance, nil
}

// tokenBalancesResult is the alchemy_getTokenBalances result shape.
type tokenBalancesResult struct {
	Address       string `json:"address"`
	TokenBalances []struct {
		ContractAddress string `json:"contractAddress"`
		TokenBalance    string `json:"tokenBalance"`
	} `json:"tokenBalances"`
	PageKey string `json:"pageKey,omitempty"`
}

// TokenBalances returns all non-zero ERC-20 balances for a wallet,
// following the pageKey cursor until upstream stops returning one.
func (c *Client) TokenBalances(ctx context.Context, network models.Network, wallet string) ([]models.TokenBalance, error) {
	if err := requireEVM(network, "TokenBalances"); err != nil {
		return nil, err
	}

	var balances []models.TokenBalance
	pageKey := ""

	for page := 0; ; page++ {
		if page >= config.MaxPaginationPages {
			return nil, config.NewAPIError(config.ErrPaginationCap, 0,
				fmt.Sprintf("token balance pagination exceeded %d pages", config.MaxPaginationPages))
		}

		params := []any{wallet, "erc20"}
		if pageKey != "" {
			params = append(params, map[string]string{"pageKey": pageKey})
		}

		raw, err := c.call(ctx, network, "alchemy_getTokenBalances", params, 1)
		if err != nil {
			return nil, err
		}

		var result tokenBalancesResult
		if err := json.Unmarshal(raw, &result); err != nil {
			return nil, config.NewAPIError(config.ErrUpstream, 0, c.redact("decode token balances: "+err.Error()))
		}

		for _, tb := range result.TokenBalances {
			if tb.TokenBalance == "" {
				continue
			}
			n, err := parseHexBig(tb.TokenBalance)
			if err != nil || n.Sign() <= 0 {
				// Zero or unparseable balances carry no information.
				continue
			}
			balances = append(balances, models.TokenBalance{
				ContractAddress: tb.ContractAddress,
				Balance:         tb.TokenBalance,
			})
		}

		if result.PageKey == "" {
			break
		}
		pageKey = result.PageKey
	}

	slog.Debug("token balances fetched",
		"network", network,
		"wallet", wallet,
		"count", len(balances),
	)

	return balances, nil
}

// tokenMetadataResult is the alchemy_getTokenMetadata result shape.
type tokenMetadataResult struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals *int   `json:"decimals"`
	Logo     string `json:"logo"`
}

// TokenMetadata returns name, symbol, and decimals for a token contract.
// Absent decimals stay nil; defaulting is the caller's decision.
func (c *Client) TokenMetadata(ctx context.Context, network models.Network, contract string) (models.TokenMetadata, error) {
	if err := requireEVM(network, "TokenMetadata"); err != nil {
		return models.TokenMetadata{}, err
	}

	raw, err := c.call(ctx, network, "alchemy_getTokenMetadata", []any{contract}, 1)
	if err != nil {
		return models.TokenMetadata{}, err
	}

	var result tokenMetadataResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return models.TokenMetadata{}, config.NewAPIError(config.ErrUpstream, 0,
			c.redact("decode token metadata: "+err.Error()))
	}

	return models.TokenMetadata{
		Name:     result.Name,
		Symbol:   result.Symbol,
		Decimals: result.Decimals,
		Logo:     result.Logo,
	}, nil
}

// nftsForOwnerResponse is the getNFTsForOwner REST response shape.
type nftsForOwnerResponse struct {
	OwnedNfts []struct {
		TokenID   string `json:"tokenId"`
		TokenType string `json:"tokenType"`
		Name      string `json:"name"`
		Balance   string `json:"balance"`
		Contract  struct {
			Address   string `json:"address"`
			Name      string `json:"name"`
			TokenType string `json:"tokenType"`
			IsSpam    bool   `json:"isSpam"`
		} `json:"contract"`
	} `json:"ownedNfts"`
	PageKey    string `json:"pageKey,omitempty"`
	TotalCount int    `json:"totalCount"`
}

// NFTsForOwner returns all NFTs owned by a wallet, following the pageKey
// cursor with pages of up to NFTPageSize items.
func (c *Client) NFTsForOwner(ctx context.Context, network models.Network, wallet string) ([]models.NFTRecord, error) {
	if err := requireEVM(network, "NFTsForOwner"); err != nil {
		return nil, err
	}

	var nfts []models.NFTRecord
	pageKey := ""

	for page := 0; ; page++ {
		if page >= config.MaxPaginationPages {
			return nil, config.NewAPIError(config.ErrPaginationCap, 0,
				fmt.Sprintf("NFT pagination exceeded %d pages", config.MaxPaginationPages))
		}

		params := url.Values{}
		params.Set("owner", wallet)
		params.Set("withMetadata", "true")
		params.Set("pageSize", strconv.Itoa(config.NFTPageSize))
		if pageKey != "" {
			params.Set("pageKey", pageKey)
		}

		raw, err := c.restGet(ctx, network, "getNFTsForOwner", params)
		if err != nil {
			return nil, err
		}

		var result nftsForOwnerResponse
		if err := json.Unmarshal(raw, &result); err != nil {
			return nil, config.NewAPIError(config.ErrUpstream, 0, c.redact("decode NFT response: "+err.Error()))
		}

		for _, nft := range result.OwnedNfts {
			tokenType := nft.TokenType
			if tokenType == "" {
				tokenType = nft.Contract.TokenType
			}
			balance := nft.Balance
			if balance == "" {
				balance = "1"
			}
			nfts = append(nfts, models.NFTRecord{
				ContractAddress: nft.Contract.Address,
				TokenID:         nft.TokenID,
				TokenType:       tokenType,
				Name:            nft.Name,
				CollectionName:  nft.Contract.Name,
				Balance:         balance,
				IsSpam:          nft.Contract.IsSpam,
			})
		}

		if result.PageKey == "" {
			break
		}
		pageKey = result.PageKey
	}

	slog.Debug("NFTs fetched",
		"network", network,
		"wallet", wallet,
		"count", len(nfts),
	)

	return nfts, nil
}
