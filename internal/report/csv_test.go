package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"walletscan/internal/models"
)

var sampleAssets = []models.Asset{
	{
		Chain:     models.NetworkEthereum,
		Name:      "Ethereum",
		Symbol:    "ETH",
		Address:   models.NativeAddress,
		Quantity:  "1.5",
		TokenType: models.TokenTypeNative,
	},
	{
		Chain:          models.NetworkEthereum,
		Name:           "Ape",
		Address:        "0xnft",
		Quantity:       "1",
		TokenType:      models.TokenTypeERC721,
		TokenID:        "42",
		CollectionName: "Apes",
	},
}

func TestWrite(t *testing.T) {
	var sb strings.Builder
	if err := Write(&sb, sampleAssets); err != nil {
		t.Fatalf("Write: %v", err)
	}

	rows, err := csv.NewReader(strings.NewReader(sb.String())).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3 (header + 2 assets)", len(rows))
	}

	wantHeader := []string{"chain", "asset_name", "symbol", "asset_address", "quantity", "token_type", "token_id", "collection_name"}
	for i, col := range wantHeader {
		if rows[0][i] != col {
			t.Errorf("header[%d] = %q, want %q", i, rows[0][i], col)
		}
	}

	native := rows[1]
	if native[0] != "ethereum" || native[2] != "ETH" || native[4] != "1.5" || native[6] != "" {
		t.Errorf("native row wrong: %v", native)
	}
	nft := rows[2]
	if nft[6] != "42" || nft[7] != "Apes" {
		t.Errorf("nft row wrong: %v", nft)
	}
}

func TestWriteEmpty(t *testing.T) {
	var sb strings.Builder
	if err := Write(&sb, nil); err != nil {
		t.Fatalf("Write: %v", err)
	}
	rows, err := csv.NewReader(strings.NewReader(sb.String())).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("empty report must still carry the header, got %d rows", len(rows))
	}
}

func TestFilenames(t *testing.T) {
	tests := []struct {
		base     string
		wantMain string
		wantSpam string
	}{
		{"report.csv", "report_20241214_153022.csv", "report_20241214_153022_spam.csv"},
		{"out/assets.csv", filepath.Join("out", "assets_20241214_153022.csv"), filepath.Join("out", "assets_20241214_153022_spam.csv")},
		{"report", "report_20241214_153022.csv", "report_20241214_153022_spam.csv"},
	}
	for _, tt := range tests {
		mainFile, spamFile := Filenames(tt.base, "20241214_153022")
		if mainFile != tt.wantMain || spamFile != tt.wantSpam {
			t.Errorf("Filenames(%q) = %q, %q, want %q, %q",
				tt.base, mainFile, spamFile, tt.wantMain, tt.wantSpam)
		}
	}
}

func TestWriteFilesNoSpam(t *testing.T) {
	dir := t.TempDir()
	mainFile, spamFile, err := WriteFiles(sampleAssets, nil, filepath.Join(dir, "report.csv"))
	if err != nil {
		t.Fatalf("WriteFiles: %v", err)
	}
	if spamFile != "" {
		t.Errorf("spam file must not be created without spam assets, got %q", spamFile)
	}
	if _, err := os.Stat(mainFile); err != nil {
		t.Errorf("main file missing: %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("directory has %d files, want 1", len(entries))
	}
}

func TestWriteFilesWithSpam(t *testing.T) {
	dir := t.TempDir()
	spam := []models.Asset{{Chain: models.NetworkEthereum, Name: "FREE AIRDROP", Quantity: "1", TokenType: models.TokenTypeERC721, IsSpam: true}}

	mainFile, spamFile, err := WriteFiles(sampleAssets, spam, filepath.Join(dir, "report.csv"))
	if err != nil {
		t.Fatalf("WriteFiles: %v", err)
	}
	if spamFile == "" {
		t.Fatal("spam file path empty")
	}
	for _, path := range []string{mainFile, spamFile} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing file %q: %v", path, err)
		}
	}
	if !strings.HasSuffix(spamFile, "_spam.csv") {
		t.Errorf("spam file = %q, want _spam.csv suffix", spamFile)
	}
}

func TestCombineSkipsErrorResults(t *testing.T) {
	results := []models.ScanResult{
		{Chain: models.NetworkEthereum, Assets: sampleAssets[:1]},
		{Chain: models.NetworkPolygon, Error: "rate limit exceeded"},
		{
			Chain:      models.NetworkBase,
			Assets:     sampleAssets[1:],
			SpamAssets: []models.Asset{{Chain: models.NetworkBase, Name: "junk", IsSpam: true}},
		},
	}

	assets, spam := Combine(results)
	if len(assets) != 2 {
		t.Errorf("assets = %d, want 2", len(assets))
	}
	if len(spam) != 1 || spam[0].Name != "junk" {
		t.Errorf("spam = %+v, want single junk entry", spam)
	}
	// Order follows result order.
	if assets[0].Chain != models.NetworkEthereum || assets[1].Chain != models.NetworkBase {
		t.Errorf("asset order wrong: %+v", assets)
	}
}
