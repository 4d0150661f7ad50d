// Package report serializes aggregated scan results to CSV, with spam
// assets segregated into a companion file.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"walletscan/internal/models"
)

// Timestamp returns the filename timestamp for the current time,
// in YYYYMMDD_HHMMSS format.
func Timestamp() string {
	return time.Now().Format("20060102_150405")
}

// Filenames derives the main and spam report paths from a base path and
// timestamp:
//
//	Filenames("report.csv", "20241214_153022")
//	-> "report_20241214_153022.csv", "report_20241214_153022_spam.csv"
func Filenames(basePath, timestamp string) (mainFile, spamFile string) {
	dir := filepath.Dir(basePath)
	base := filepath.Base(basePath)
	ext := filepath.Ext(base)
	if ext == "" {
		ext = ".csv"
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	mainFile = filepath.Join(dir, fmt.Sprintf("%s_%s%s", stem, timestamp, ext))
	spamFile = filepath.Join(dir, fmt.Sprintf("%s_%s_spam%s", stem, timestamp, ext))
	return mainFile, spamFile
}

// Write writes the header row and one row per asset to w.
func Write(w io.Writer, assets []models.Asset) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(models.CSVColumns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, a := range assets {
		if err := cw.Write(a.CSVRow()); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFiles writes assets to timestamped files derived from outputPath.
// The spam file is only created when there are spam assets; its path is
// returned empty otherwise.
func WriteFiles(assets, spamAssets []models.Asset, outputPath string) (mainFile, spamFile string, err error) {
	mainFile, spamPath := Filenames(outputPath, Timestamp())

	f, err := os.Create(mainFile)
	if err != nil {
		return "", "", fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()
	if err := Write(f, assets); err != nil {
		return "", "", err
	}

	if len(spamAssets) == 0 {
		return mainFile, "", nil
	}

	sf, err := os.Create(spamPath)
	if err != nil {
		return "", "", fmt.Errorf("create spam report file: %w", err)
	}
	defer sf.Close()
	if err := Write(sf, spamAssets); err != nil {
		return "", "", err
	}

	return mainFile, spamPath, nil
}

// Combine merges per-chain scan results into unified asset lists, in result
// order. Failed results contribute nothing.
func Combine(results []models.ScanResult) (assets, spamAssets []models.Asset) {
	for _, r := range results {
		if r.Error != "" {
			continue
		}
		assets = append(assets, r.Assets...)
		spamAssets = append(spamAssets, r.SpamAssets...)
	}
	return assets, spamAssets
}
