package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"walletscan/internal/alchemy"
	"walletscan/internal/api"
	"walletscan/internal/config"
	"walletscan/internal/logging"
	"walletscan/internal/models"
	"walletscan/internal/report"
	"walletscan/internal/scanner"
	"walletscan/internal/validate"
)

var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "scan":
		if err := runScan(os.Args[2:]); err != nil {
			slog.Error("scan error", "error", err)
			os.Exit(1)
		}
	case "serve":
		if err := runServe(); err != nil {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("walletscan %s\n", version)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: walletscan <command>

Commands:
  scan      Scan a wallet across networks and write a CSV report
  serve     Start the HTTP server
  version   Print version information

Scan flags:
  -wallet    Wallet address to scan (required)
  -networks  Comma-separated networks (default: all supported)
  -output    Report base path; timestamp is appended. Omit for stdout.
  -api-key   Alchemy API key (overrides WALLETSCAN_ALCHEMY_API_KEY)
`)
}

func runScan(args []string) error {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	wallet := fs.String("wallet", "", "wallet address to scan")
	networksFlag := fs.String("networks", "", "comma-separated networks to scan")
	output := fs.String("output", "", "report base path (stdout if empty)")
	apiKey := fs.String("api-key", "", "Alchemy API key")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if *apiKey != "" {
		cfg.AlchemyAPIKey = *apiKey
	}
	if cfg.AlchemyAPIKey == "" {
		return fmt.Errorf("%w: Alchemy API key is required (set WALLETSCAN_ALCHEMY_API_KEY or -api-key)", config.ErrInvalidConfig)
	}
	if *wallet == "" {
		return errors.New("-wallet is required")
	}

	logCloser, err := logging.Setup(cfg.LogLevel, cfg.LogDir)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	defer logCloser.Close()

	networks, err := parseNetworks(*networksFlag)
	if err != nil {
		return err
	}
	// Mismatched address families surface as per-network error results in the
	// scan; abort only when the wallet fits none of the requested networks.
	validForAny := false
	for _, n := range networks {
		if validate.WalletAddress(n, *wallet) == nil {
			validForAny = true
			break
		}
	}
	if !validForAny {
		return fmt.Errorf("%w: %q is not valid for any of the requested networks", config.ErrInvalidAddress, *wallet)
	}

	slog.Info("starting walletscan",
		"version", version,
		"wallet", *wallet,
		"networks", networks,
	)

	client := alchemy.NewClientFromConfig(cfg)
	results := scanner.ScanAll(context.Background(), client, networks, *wallet)
	assets, spamAssets := report.Combine(results)

	if *output == "" {
		return report.Write(os.Stdout, assets)
	}

	mainFile, spamFile, err := report.WriteFiles(assets, spamAssets, *output)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\nResults written to: %s\n", mainFile)
	if spamFile != "" {
		fmt.Fprintf(os.Stderr, "Spam assets written to: %s\n", spamFile)
	}

	return nil
}

func parseNetworks(value string) ([]models.Network, error) {
	if value == "" {
		return models.AllNetworks, nil
	}

	parts := strings.Split(value, ",")
	networks := make([]models.Network, 0, len(parts))
	for _, part := range parts {
		n, err := models.ParseNetwork(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		networks = append(networks, n)
	}
	return networks, nil
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.AlchemyAPIKey == "" {
		return fmt.Errorf("%w: Alchemy API key is required (set WALLETSCAN_ALCHEMY_API_KEY)", config.ErrInvalidConfig)
	}

	logCloser, err := logging.Setup(cfg.LogLevel, cfg.LogDir)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	defer logCloser.Close()

	slog.Info("starting walletscan server",
		"version", version,
		"port", cfg.Port,
		"logLevel", cfg.LogLevel,
	)

	client := alchemy.NewClientFromConfig(cfg)
	api.Version = version
	router := api.NewRouter(client)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 10 * time.Minute, // scans are slow; retries can stack up
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		slog.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
