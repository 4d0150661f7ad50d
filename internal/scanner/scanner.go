// Package scanner maps heterogeneous per-chain API responses into the
// unified Asset model and separates spam. One scanner variant per chain
// family; both satisfy the same Scanner contract.
package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"walletscan/internal/config"
	"walletscan/internal/models"
	"walletscan/internal/validate"
)

// AssetClient is the slice of the Alchemy client the scanners consume.
type AssetClient interface {
	NativeBalance(ctx context.Context, network models.Network, wallet string) (*big.Int, error)
	TokenBalances(ctx context.Context, network models.Network, wallet string) ([]models.TokenBalance, error)
	TokenMetadata(ctx context.Context, network models.Network, contract string) (models.TokenMetadata, error)
	NFTsForOwner(ctx context.Context, network models.Network, wallet string) ([]models.NFTRecord, error)
	AssetsByOwner(ctx context.Context, wallet string) ([]models.SolanaAsset, error)
}

// Scanner scans one wallet on one chain.
type Scanner interface {
	// Scan fetches all assets for a wallet. A failed scan returns a
	// ScanResult with only Chain and Error set — it never propagates an
	// error past the scanner boundary, so other chains proceed.
	Scan(ctx context.Context, wallet string) models.ScanResult
}

// New returns the scanner for a network: the EVM variant for EVM-family
// networks, the Solana variant for solana.
func New(client AssetClient, network models.Network) (Scanner, error) {
	switch {
	case network.IsEVM():
		return &evmScanner{client: client, chain: network}, nil
	case network == models.NetworkSolana:
		return &solanaScanner{client: client, chain: network}, nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidNetwork, network)
	}
}

// errorResult builds the zero-asset result for a failed chain scan.
// Error messages have already been credential-redacted by the client.
func errorResult(chain models.Network, err error) models.ScanResult {
	return models.ScanResult{
		Chain: chain,
		Error: err.Error(),
	}
}

// ScanAll scans each requested network in order and returns one result per
// network. A failed network yields an error result and does not block the
// others. A wallet whose address family does not match a network (an EVM hex
// address on solana, say) is treated the same way: that network is skipped
// with an error result and the rest proceed.
func ScanAll(ctx context.Context, client AssetClient, networks []models.Network, wallet string) []models.ScanResult {
	results := make([]models.ScanResult, 0, len(networks))

	for _, network := range networks {
		slog.Info("starting wallet scan", "network", network, "wallet", wallet)

		if err := validate.WalletAddress(network, wallet); err != nil {
			slog.Warn("wallet not valid for network, skipping", "network", network, "error", err)
			results = append(results, errorResult(network, err))
			continue
		}

		s, err := New(client, network)
		if err != nil {
			slog.Error("scanner creation failed", "network", network, "error", err)
			results = append(results, errorResult(network, err))
			continue
		}

		result := s.Scan(ctx, wallet)
		if result.Error != "" {
			slog.Error("scan failed, skipping network",
				"network", network,
				"error", result.Error,
			)
		} else {
			slog.Info("scan finished",
				"network", network,
				"native", result.NativeCount,
				"tokens", result.TokenCount,
				"nfts", result.NFTCount,
				"spam", result.SpamCount,
			)
		}
		results = append(results, result)
	}

	return results
}
