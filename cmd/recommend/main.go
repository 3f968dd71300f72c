package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"ProductRecommender/internal/app"
	"ProductRecommender/internal/config"
	"ProductRecommender/internal/domain"
	"ProductRecommender/internal/logging"
)

func main() {
	_ = godotenv.Load()

	output := flag.String("o", "recommendations.csv", "output CSV path")
	dataDir := flag.String("d", "", "data directory (overrides config)")
	message := flag.String("message", "", "single message to recommend for instead of the batch run")
	flag.Parse()

	cfg := config.Load()
	if *dataDir != "" {
		cfg.Data.Dir = *dataDir
	}
	logger := logging.New(cfg.Logging.Level)

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("application setup failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	if *message != "" {
		result, catalog, err := application.RunSingle(ctx, *message)
		if err != nil {
			logger.Error("single-message run failed", "error", err)
			os.Exit(1)
		}
		printResult(*message, result, catalog)
		if result.Failed() {
			os.Exit(1)
		}
		return
	}

	if err := application.RunBatch(ctx, *output); err != nil {
		logger.Error("batch run failed", "error", err)
		os.Exit(1)
	}
}

func printResult(message string, result domain.MessageResult, catalog map[string]domain.Product) {
	fmt.Printf("\nMESSAGE: %s\n", message)

	switch result.Status {
	case domain.StatusFailed:
		fmt.Printf("\nProcessing failed: %s\n", result.Reasoning)
	case domain.StatusNoIntent:
		fmt.Printf("\nNo recommendations - user does not appear to have purchase intent.\nReasoning: %s\n", result.Reasoning)
	case domain.StatusNoCandidates:
		fmt.Printf("\nNo recommendations - %s\n", result.Reasoning)
	default:
		labels := make([]string, len(result.Categories))
		for i, category := range result.Categories {
			labels[i] = string(category)
		}
		fmt.Printf("\nCATEGORIES: %s\n", strings.Join(labels, ", "))
		fmt.Println("RECOMMENDATIONS:")
		for _, rec := range result.Recommendations {
			product := catalog[rec.ProductID]
			fmt.Printf("  %-6s %-32s $%8.2f  %.1f*  confidence %.2f\n",
				rec.ProductID, product.Name, product.Price, product.Rating, rec.Confidence)
		}
		fmt.Printf("REASONING: %s\n", result.Recommendations[0].Reasoning)
	}
}
