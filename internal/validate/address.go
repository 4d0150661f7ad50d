// Package validate checks wallet address shape per network before any
// upstream call is made.
package validate

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mr-tron/base58"

	"walletscan/internal/config"
	"walletscan/internal/models"
)

// WalletAddress validates that addr is a well-formed wallet address for the
// given network: a 0x hex address for EVM networks, a base58-encoded 32-byte
// public key for Solana.
func WalletAddress(network models.Network, addr string) error {
	switch {
	case network.IsEVM():
		return validateEVM(addr)
	case network == models.NetworkSolana:
		return validateSolana(addr)
	default:
		return fmt.Errorf("%w: %q", config.ErrInvalidNetwork, network)
	}
}

func validateEVM(addr string) error {
	if !common.IsHexAddress(addr) {
		return fmt.Errorf("%w: %q is not a valid EVM address", config.ErrInvalidAddress, addr)
	}
	return nil
}

func validateSolana(addr string) error {
	decoded, err := base58.Decode(addr)
	if err != nil {
		return fmt.Errorf("%w: %q is not valid base58: %v", config.ErrInvalidAddress, addr, err)
	}
	if len(decoded) != 32 {
		return fmt.Errorf("%w: %q decodes to %d bytes, want 32", config.ErrInvalidAddress, addr, len(decoded))
	}
	return nil
}
