package ports

import (
	"context"
	"errors"

	"ProductRecommender/internal/domain"
)

// ErrClassificationUnavailable marks an intent classification that could not
// be obtained: the inference service failed or returned unusable output.
// Distinct from a valid "no purchase intent" verdict.
var ErrClassificationUnavailable = errors.New("classification unavailable")

// ErrSelectionUnavailable marks a ranking that could not be trusted: the
// inference service failed, or referenced a product outside the candidate set.
var ErrSelectionUnavailable = errors.New("selection unavailable")

// CatalogStore provides read-only access to the catalog snapshot, the message
// log, and the behavioral ground truth. Loaded once per run.
type CatalogStore interface {
	LoadProducts(ctx context.Context) ([]domain.Product, error)
	LoadMessages(ctx context.Context) ([]domain.Message, error)
	LoadOutcomes(ctx context.Context) (map[string]domain.HistoricalOutcome, error)
}

// InferenceService is the capability interface over the external text model.
// Both operations are synchronous with a bounded timeout and may fail.
type InferenceService interface {
	Classify(ctx context.Context, messageText string, categories []domain.Category) (domain.ClassificationResult, error)
	Rank(ctx context.Context, messageText string, candidates []domain.Candidate) (domain.Selection, error)
}

// RunRepository persists emitted results for audit and lets batch runs resume
// without reprocessing messages.
type RunRepository interface {
	AlreadyProcessed(ctx context.Context, messageIDs []string) (map[string]bool, error)
	SaveResult(ctx context.Context, result domain.MessageResult) error
}
