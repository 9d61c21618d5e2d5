// Command extractor runs one extraction batch from the command line:
// it reads a CSV of (ein, year) rows, fetches and parses the matching
// filings, and writes the consolidated table.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"form990x/internal/config"
	"form990x/internal/exporter"
	"form990x/internal/infrastructure"
	"form990x/internal/services"
)

func main() {
	input := flag.String("input", "", "path to input CSV with 'ein' and 'year' columns (required)")
	output := flag.String("output", "nonprofit_data_extract.csv", "path to write the consolidated table")
	format := flag.String("format", "csv", "output format: csv | xlsx")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Error: -input is required")
		flag.Usage()
		os.Exit(2)
	}
	if *format != "csv" && *format != "xlsx" {
		fmt.Fprintf(os.Stderr, "Error: unknown format %q\n", *format)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := infrastructure.NewLogger(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	file, err := os.Open(*input)
	if err != nil {
		logger.Error("failed to open input file", slog.String("error", err.Error()))
		os.Exit(1)
	}

	service := services.NewExtractService(cfg, logger)
	requests, err := service.ReadRequests(file)
	file.Close()
	if err != nil {
		logger.Error("invalid input file", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("starting extraction",
		slog.Int("requests", len(requests)),
		slog.Int("workers", cfg.Pipeline.Workers))

	rows, err := service.Extract(ctx, requests)
	if err != nil {
		logger.Error("extraction aborted", slog.String("error", err.Error()))
		os.Exit(1)
	}

	switch *format {
	case "xlsx":
		err = exporter.WriteXLSXFile(ensureExt(*output, ".xlsx"), rows)
	default:
		err = exporter.WriteCSVFile(*output, rows)
	}
	if err != nil {
		logger.Error("failed to write output", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("extraction complete",
		slog.Int("rows", len(rows)),
		slog.String("output", *output))
}

func ensureExt(path, ext string) string {
	if strings.HasSuffix(strings.ToLower(path), ext) {
		return path
	}
	return strings.TrimSuffix(path, ".csv") + ext
}
