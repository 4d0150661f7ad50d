package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"walletscan/internal/config"
	"walletscan/internal/httputil"
	"walletscan/internal/models"
	"walletscan/internal/report"
	"walletscan/internal/scanner"
	"walletscan/internal/validate"
)

// scanParams holds the validated query parameters of a scan request.
type scanParams struct {
	Wallet   string
	Networks []models.Network
}

// parseScanParams validates wallet and networks query parameters.
func parseScanParams(r *http.Request) (scanParams, string, string) {
	wallet := strings.TrimSpace(r.URL.Query().Get("wallet"))
	if wallet == "" {
		return scanParams{}, config.ErrorInvalidAddress, "missing wallet parameter"
	}

	networksParam := strings.TrimSpace(r.URL.Query().Get("networks"))
	var names []string
	if networksParam == "" {
		for _, n := range models.AllNetworks {
			names = append(names, string(n))
		}
	} else {
		names = strings.Split(networksParam, ",")
	}

	networks := make([]models.Network, 0, len(names))
	validForAny := false
	for _, name := range names {
		n, err := models.ParseNetwork(strings.TrimSpace(name))
		if err != nil {
			return scanParams{}, config.ErrorInvalidNetwork, err.Error()
		}
		if validate.WalletAddress(n, wallet) == nil {
			validForAny = true
		}
		networks = append(networks, n)
	}

	// A family mismatch on some networks is fine: those yield error results
	// in the scan output. Reject only when the wallet fits no requested
	// network at all.
	if !validForAny {
		return scanParams{}, config.ErrorInvalidAddress,
			fmt.Sprintf("wallet %q is not valid for any requested network", wallet)
	}

	return scanParams{Wallet: wallet, Networks: networks}, "", ""
}

// ScanHandler returns a handler for GET /api/scan?wallet=&networks=a,b.
// Networks are scanned sequentially; a failed network yields an error entry
// in the response without failing the request.
func ScanHandler(client scanner.AssetClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, code, message := parseScanParams(r)
		if code != "" {
			httputil.Error(w, http.StatusBadRequest, code, message)
			return
		}

		results := scanner.ScanAll(r.Context(), client, params.Networks, params.Wallet)
		httputil.JSON(w, http.StatusOK, results)
	}
}

// ScanCSVHandler returns a handler for GET /api/scan/csv. It runs the same
// scan as ScanHandler and streams the combined report as a CSV attachment.
// With spam=true, the spam asset list is returned instead of the main one.
func ScanCSVHandler(client scanner.AssetClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, code, message := parseScanParams(r)
		if code != "" {
			httputil.Error(w, http.StatusBadRequest, code, message)
			return
		}

		results := scanner.ScanAll(r.Context(), client, params.Networks, params.Wallet)
		assets, spamAssets := report.Combine(results)

		filename := "wallet_report.csv"
		rows := assets
		if r.URL.Query().Get("spam") == "true" {
			filename = "wallet_report_spam.csv"
			rows = spamAssets
		}

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

		if err := report.Write(w, rows); err != nil {
			slog.Error("failed to stream csv report", "error", err)
		}
	}
}
