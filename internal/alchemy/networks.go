package alchemy

import (
	"fmt"

	"walletscan/internal/config"
	"walletscan/internal/models"
)

// networkEndpoints maps a network to its Alchemy API hostname.
// Initialized once; never mutated at runtime.
var networkEndpoints = map[models.Network]string{
	models.NetworkEthereum: "eth-mainnet.g.alchemy.com",
	models.NetworkPolygon:  "polygon-mainnet.g.alchemy.com",
	models.NetworkBase:     "base-mainnet.g.alchemy.com",
	models.NetworkBNB:      "bnb-mainnet.g.alchemy.com",
	models.NetworkSolana:   "solana-mainnet.g.alchemy.com",
}

// nativeTokens maps a network to its base currency descriptor.
var nativeTokens = map[models.Network]models.NativeToken{
	models.NetworkEthereum: {Symbol: "ETH", Name: "Ethereum", Decimals: 18},
	models.NetworkPolygon:  {Symbol: "MATIC", Name: "Polygon", Decimals: 18},
	models.NetworkBase:     {Symbol: "ETH", Name: "Ethereum", Decimals: 18},
	models.NetworkBNB:      {Symbol: "BNB", Name: "BNB", Decimals: 18},
	models.NetworkSolana:   {Symbol: "SOL", Name: "Solana", Decimals: 9},
}

// NativeTokenInfo returns the native token descriptor for a network.
func NativeTokenInfo(network models.Network) (models.NativeToken, error) {
	info, ok := nativeTokens[network]
	if !ok {
		return models.NativeToken{}, fmt.Errorf("%w: %q", config.ErrInvalidNetwork, network)
	}
	return info, nil
}

// endpoint returns the API hostname for a network.
func endpoint(network models.Network) (string, error) {
	host, ok := networkEndpoints[network]
	if !ok {
		return "", fmt.Errorf("%w: %q", config.ErrInvalidNetwork, network)
	}
	return host, nil
}
