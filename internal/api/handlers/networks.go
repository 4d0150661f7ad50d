package handlers

import (
	"net/http"

	"walletscan/internal/alchemy"
	"walletscan/internal/httputil"
	"walletscan/internal/models"
)

type networkInfo struct {
	Network     models.Network     `json:"network"`
	NativeToken models.NativeToken `json:"nativeToken"`
	EVM         bool               `json:"evm"`
}

// NetworksHandler returns a handler for the GET /api/networks endpoint,
// listing supported networks and their native token descriptors.
func NetworksHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		networks := make([]networkInfo, 0, len(models.AllNetworks))
		for _, n := range models.AllNetworks {
			info, err := alchemy.NativeTokenInfo(n)
			if err != nil {
				continue
			}
			networks = append(networks, networkInfo{
				Network:     n,
				NativeToken: info,
				EVM:         n.IsEVM(),
			})
		}

		httputil.JSON(w, http.StatusOK, networks)
	}
}
