package main

import (
	"flag"
	"fmt"
	"os"

	"product-research/config"
	"product-research/models"
	"product-research/services"
	"product-research/storage"
	"product-research/utils"
)

func main() {
	socialPath := flag.String("social-data", "", "Path to the social posts dataset (CSV/JSON)")
	catalogPath := flag.String("catalog-data", "", "Path to the product catalog dataset (CSV/JSON)")
	imageMatchPath := flag.String("image-matches", "", "Optional image-match dataset mapping image_id to product_id")
	outputDir := flag.String("output-dir", "", "Output directory (overrides OUTPUT_DIR)")
	flag.Parse()

	logger := utils.NewLogger()
	cfg := config.Load()
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}

	if *socialPath == "" || *catalogPath == "" {
		logger.Error("Usage: product-research -social-data posts.csv -catalog-data catalog.csv [-image-matches matches.csv]")
		os.Exit(1)
	}

	logger.Info("=== Product research pipeline starting ===")
	logger.Info("Config — strategy: %s | match threshold: %d | trend window: %dm/%dm | top-n: %d",
		cfg.BrandStrategy, cfg.MatchThreshold, cfg.TrendRecentMonths, cfg.TrendPriorMonths, cfg.TopN)

	// Validate every input before any computation, so a run reports all
	// schema problems at once.
	rawPosts, postsErr := storage.ReadPosts(*socialPath)
	rawCatalog, catalogErr := storage.ReadCatalog(*catalogPath)
	imageMatches, matchErr := storage.ReadImageMatches(*imageMatchPath)

	failed := false
	for _, err := range []error{postsErr, catalogErr, matchErr} {
		if err != nil {
			logger.Error("%v", err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}

	writer, err := storage.NewCSVResultWriter(cfg.OutputDir)
	if err != nil {
		logger.Error("Failed to prepare output directory: %v", err)
		os.Exit(1)
	}

	pipeline := services.NewPipeline(cfg, logger)
	result := pipeline.Run(rawPosts, rawCatalog, imageMatches)

	if err := writeResult(writer, result); err != nil {
		logger.Error("Failed to write results: %v", err)
		os.Exit(1)
	}

	services.NewReportService(logger).Print(result)

	fmt.Printf("  Done. Results → %s (%s, %s, %s)\n\n",
		writer.Dir(), storage.ProductsFile, storage.TopProductsFile, storage.TopCategoriesFile)
}

func writeResult(writer storage.ResultWriter, result *models.RunResult) error {
	if err := writer.WriteProducts(result.Products); err != nil {
		return err
	}
	if err := writer.WriteTopProducts(result.TopProducts); err != nil {
		return err
	}
	return writer.WriteCategories(result.TopCategories)
}
