package models

import (
	"fmt"
	"strings"

	"walletscan/internal/config"
)

// Network identifies a supported blockchain network.
type Network string

const (
	NetworkEthereum Network = "ethereum"
	NetworkPolygon  Network = "polygon"
	NetworkBase     Network = "base"
	NetworkBNB      Network = "bnb"
	NetworkSolana   Network = "solana"
)

// AllNetworks is the ordered list of supported networks.
var AllNetworks = []Network{
	NetworkEthereum,
	NetworkPolygon,
	NetworkBase,
	NetworkBNB,
	NetworkSolana,
}

// ParseNetwork normalizes a network name to lowercase and validates it.
func ParseNetwork(s string) (Network, error) {
	n := Network(strings.ToLower(s))
	for _, known := range AllNetworks {
		if n == known {
			return n, nil
		}
	}
	return "", fmt.Errorf("%w: %q", config.ErrInvalidNetwork, s)
}

// IsEVM returns true for EVM-family networks.
func (n Network) IsEVM() bool {
	switch n {
	case NetworkEthereum, NetworkPolygon, NetworkBase, NetworkBNB:
		return true
	}
	return false
}

// NativeToken describes a network's base currency.
type NativeToken struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals int    `json:"decimals"`
}

// TokenBalance is a raw ERC-20 balance entry from the token balance API.
// Balance is a hex string ("0x...").
type TokenBalance struct {
	ContractAddress string
	Balance         string
}

// TokenMetadata holds ERC-20 metadata. All fields are optional upstream;
// Decimals is a pointer so that "absent" stays distinguishable from 0 and
// defaulting happens at the point of use.
type TokenMetadata struct {
	Name     string
	Symbol   string
	Decimals *int
	Logo     string
}

// NFTRecord is a single NFT from the NFT REST API.
type NFTRecord struct {
	ContractAddress string
	TokenID         string
	TokenType       string // ERC721, ERC1155, or whatever upstream reports
	Name            string
	CollectionName  string
	Balance         string // "1" for ERC721, can be >1 for ERC1155
	IsSpam          bool
}

// SolanaAsset is a single asset from the Solana DAS API.
// There is no spam flag; the DAS API provides none.
type SolanaAsset struct {
	ID        string
	Interface string // FungibleToken, V1_NFT, ProgrammableNFT, ...
	Name      string
	Symbol    string
	Balance   *uint64
	Decimals  *int
}

// Token type values used in the unified Asset model.
const (
	TokenTypeNative  = "NATIVE"
	TokenTypeERC20   = "ERC20"
	TokenTypeERC721  = "ERC721"
	TokenTypeERC1155 = "ERC1155"
	TokenTypeSPL     = "SPL"
	TokenTypeNFT     = "NFT"
	TokenTypePNFT    = "pNFT"
	TokenTypeMPL     = "MPL"
)

// NativeAddress is the asset address used for native coins.
const NativeAddress = "NATIVE"

// CSVColumns is the report column order. This exact set and order is a
// compatibility contract with report consumers.
var CSVColumns = []string{
	"chain",
	"asset_name",
	"symbol",
	"asset_address",
	"quantity",
	"token_type",
	"token_id",
	"collection_name",
}

// Asset is the unified output entity for all chains and asset classes.
type Asset struct {
	Chain          Network `json:"chain"`
	Name           string  `json:"assetName"`
	Symbol         string  `json:"symbol"`
	Address        string  `json:"assetAddress"`
	Quantity       string  `json:"quantity"`
	TokenType      string  `json:"tokenType"`
	TokenID        string  `json:"tokenId,omitempty"`
	CollectionName string  `json:"collectionName,omitempty"`
	IsSpam         bool    `json:"isSpam"`
}

// CSVRow converts the asset to a CSV row in CSVColumns order.
// Absent optional fields become empty strings.
func (a Asset) CSVRow() []string {
	return []string{
		string(a.Chain),
		a.Name,
		a.Symbol,
		a.Address,
		a.Quantity,
		a.TokenType,
		a.TokenID,
		a.CollectionName,
	}
}

// ScanResult is the per-chain output of one wallet scan.
// If Error is non-empty, the asset lists are empty and all counts are zero.
type ScanResult struct {
	Chain         Network `json:"chain"`
	Assets        []Asset `json:"assets"`
	SpamAssets    []Asset `json:"spamAssets"`
	NativeCount   int     `json:"nativeCount"`
	TokenCount    int     `json:"tokenCount"`
	NFTCount      int     `json:"nftCount"`
	ERC721Count   int     `json:"erc721Count"`
	ERC1155Count  int     `json:"erc1155Count"`
	SpamCount     int     `json:"spamCount"`
	SkippedTokens int     `json:"skippedTokens"`
	Error         string  `json:"error,omitempty"`
}
