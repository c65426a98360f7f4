package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rotisserie/eris"

	"earring-market/config"
	"earring-market/models"
	"earring-market/render"
	"earring-market/services"
	"earring-market/storage"
	"earring-market/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLoggerWithLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Earring Market Analysis starting ===")
	logger.Info("Config: input %s | rate %.2f | shipping ¥%.0f | fee %.0f%% | concurrency %d",
		cfg.InputPath, cfg.ExchangeRate, cfg.ShippingJPY, cfg.FeeRate*100, cfg.MaxConcurrency)

	report, err := run(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("%v", err)
		logger.Sync()
		os.Exit(1)
	}

	fmt.Printf("  Done. %d listings → %s\n\n", report.TotalListings, cfg.OutputPath)
}

// run executes the pipeline: load, clean, derive, aggregate, render, write.
func run(ctx context.Context, cfg *config.Config, logger *utils.Logger) (*models.InsightReport, error) {
	rules, err := services.LoadRules(cfg.RulesPath)
	if err != nil {
		return nil, eris.Wrap(err, "load rules")
	}

	raw, err := storage.NewListingReader(cfg.InputPath).Read()
	if err != nil {
		return nil, eris.Wrap(err, "load listings")
	}
	logger.Info("[loader] Read %d rows from %s", len(raw), cfg.InputPath)

	listings, err := services.NewCleaner(logger).Clean(raw)
	if err != nil {
		return nil, eris.Wrap(err, "clean listings")
	}

	pricing := cfg.Pricing()
	listings = services.NewDeriver(rules, pricing, logger, cfg.MaxConcurrency).Derive(listings)

	opts := services.InsightOptions{
		TopBrands:          cfg.TopBrands,
		TopRecommendations: cfg.TopRecommendations,
		TopItems:           cfg.TopItems,
		TopNovelty:         services.DefaultInsightOptions().TopNovelty,
	}
	insights := services.NewInsightService(logger, rules, pricing, opts)
	report := insights.Generate(listings, cfg.InputPath)

	if cfg.DerivedCSVPath != "" {
		csvWriter, err := storage.NewCSVWriter(cfg.DerivedCSVPath)
		if err != nil {
			return nil, eris.Wrap(err, "export derived listings")
		}
		if err := writeDerived(csvWriter, listings); err != nil {
			return nil, eris.Wrap(err, "export derived listings")
		}
		logger.Info("[writer] Derived listings saved to %s", cfg.DerivedCSVPath)
	}

	renderer, err := render.NewHTMLRenderer()
	if err != nil {
		return nil, eris.Wrap(err, "render dashboard")
	}
	html, err := renderer.Render(report)
	if err != nil {
		return nil, eris.Wrap(err, "render dashboard")
	}
	if err := storage.NewFileWriter(cfg.OutputPath).WriteDocument(html); err != nil {
		return nil, eris.Wrap(err, "write dashboard")
	}
	logger.Info("[writer] Dashboard saved to %s (%d bytes)", cfg.OutputPath, len(html))

	if cfg.PDFOutputPath != "" {
		exporter := render.NewPDFExporter(cfg.ChromeBin, logger)
		if err := exporter.Export(ctx, cfg.OutputPath, storage.NewFileWriter(cfg.PDFOutputPath)); err != nil {
			return nil, eris.Wrap(err, "export pdf")
		}
		logger.Info("[writer] PDF snapshot saved to %s", cfg.PDFOutputPath)
	}

	insights.Print(report)
	return report, nil
}

func writeDerived(w storage.ListingWriter, listings []*models.Listing) error {
	if err := w.Write(listings); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
