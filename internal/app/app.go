package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"ProductRecommender/internal/config"
	"ProductRecommender/internal/domain"
	"ProductRecommender/internal/infrastructure/csvstore"
	"ProductRecommender/internal/infrastructure/llm"
	"ProductRecommender/internal/infrastructure/storage"
	"ProductRecommender/internal/logging"
	"ProductRecommender/internal/ports"
	"ProductRecommender/internal/usecase"
)

// Application wires configs to use cases and run modes.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	store    ports.CatalogStore
	pipeline *usecase.Pipeline
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	store := csvstore.NewStore(cfg.Data.Dir, baseLogger.With("component", "csvstore"))
	inference := llm.NewClient(cfg.OpenAI, baseLogger.With("component", "llm"))

	classifier := usecase.NewClassifier(inference, baseLogger.With("component", "classifier"))
	selector := usecase.NewSelector(inference,
		cfg.Selector.MaxCandidates, cfg.Selector.MaxRecommendations,
		baseLogger.With("component", "selector"))

	var repository ports.RunRepository
	if cfg.Database.DSN != "" {
		db, err := sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		repository = storage.NewPostgresRepository(db)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Classifier: classifier,
		Selector:   selector,
		Rules:      usecase.Rules{MinRating: cfg.Rules.MinRating},
		Repository: repository,
		Logger:     baseLogger.With("component", "pipeline"),
	})

	return &Application{
		cfg:      cfg,
		logger:   baseLogger,
		store:    store,
		pipeline: pipeline,
	}, nil
}

// RunBatch processes the whole message log and writes the recommendation CSV.
func (a *Application) RunBatch(ctx context.Context, outputPath string) error {
	products, err := a.store.LoadProducts(ctx)
	if err != nil {
		return fmt.Errorf("load products: %w", err)
	}

	messages, err := a.store.LoadMessages(ctx)
	if err != nil {
		return fmt.Errorf("load messages: %w", err)
	}

	a.logger.Info("processing messages", "count", len(messages), "products", len(products))
	results := a.pipeline.ProcessAll(ctx, messages, products)

	if err := csvstore.WriteResults(outputPath, results); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	var recommended, failed int
	for _, result := range results {
		switch {
		case result.Status == domain.StatusRecommended:
			recommended++
		case result.Failed():
			failed++
		}
	}
	a.logger.Info("batch complete",
		"output", outputPath,
		"messages", len(results),
		"recommended", recommended,
		"failed", failed)

	return nil
}

// RunSingle processes one ad-hoc message and returns the result together with
// the catalog index for enriched display.
func (a *Application) RunSingle(ctx context.Context, body string) (domain.MessageResult, map[string]domain.Product, error) {
	products, err := a.store.LoadProducts(ctx)
	if err != nil {
		return domain.MessageResult{}, nil, fmt.Errorf("load products: %w", err)
	}

	catalog := make(map[string]domain.Product, len(products))
	for _, product := range products {
		catalog[product.ID] = product
	}

	msg := domain.Message{ID: "adhoc", Body: body, SentAt: time.Now()}
	return a.pipeline.ProcessOne(ctx, msg, products), catalog, nil
}
