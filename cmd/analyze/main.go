package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"ProductRecommender/internal/config"
	"ProductRecommender/internal/infrastructure/csvstore"
	"ProductRecommender/internal/logging"
	"ProductRecommender/internal/usecase"
)

func main() {
	_ = godotenv.Load()

	recsPath := flag.String("r", "", "path to recommendations CSV (default: historical baseline)")
	compare := flag.Bool("compare", false, "compare provided recommendations against the historical baseline")
	dataDir := flag.String("d", "", "data directory (overrides config)")
	flag.Parse()

	cfg := config.Load()
	if *dataDir != "" {
		cfg.Data.Dir = *dataDir
	}
	logger := logging.New(cfg.Logging.Level)

	store := csvstore.NewStore(cfg.Data.Dir, logger.With("component", "csvstore"))
	ctx := context.Background()

	messages, err := store.LoadMessages(ctx)
	exitOn(logger, "load messages", err)
	products, err := store.LoadProducts(ctx)
	exitOn(logger, "load products", err)
	outcomes, err := store.LoadOutcomes(ctx)
	exitOn(logger, "load outcomes", err)

	var analyzer usecase.Analyzer

	if *compare {
		if *recsPath == "" {
			logger.Error("compare mode requires -r with a recommendations CSV")
			os.Exit(1)
		}

		history, err := store.LoadRecommendations("")
		exitOn(logger, "load historical recommendations", err)
		candidate, err := store.LoadRecommendations(*recsPath)
		exitOn(logger, "load recommendations", err)

		baselineReport := analyzer.Analyze(messages, products, history, outcomes)
		candidateReport := analyzer.Analyze(messages, products, candidate, outcomes)

		fmt.Print(baselineReport.Format("Historical Recommendations"))
		fmt.Print(candidateReport.Format("New Recommendations"))
		fmt.Print(analyzer.Compare(baselineReport, candidateReport).Format())
		return
	}

	recs, err := store.LoadRecommendations(*recsPath)
	exitOn(logger, "load recommendations", err)

	name := "Historical Recommendations"
	if *recsPath != "" {
		name = "Analysis: " + *recsPath
	}
	fmt.Print(analyzer.Analyze(messages, products, recs, outcomes).Format(name))
}

func exitOn(logger *slog.Logger, step string, err error) {
	if err != nil {
		logger.Error(step, "error", err)
		os.Exit(1)
	}
}
