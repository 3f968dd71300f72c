package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"ProductRecommender/internal/domain"
	"ProductRecommender/internal/ports"
)

const maxCategories = 3

// Classifier decides purchase intent and candidate categories for one message.
type Classifier struct {
	inference ports.InferenceService
	logger    *slog.Logger
}

// NewClassifier wires the inference capability into the classification step.
func NewClassifier(inference ports.InferenceService, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{inference: inference, logger: logger}
}

// Classify returns the intent verdict for one message. Category labels outside
// the closed taxonomy are dropped; at most three survive, order preserved.
// Any inference failure surfaces as an error so the caller can mark the
// message failed rather than defaulting to "no intent".
func (c *Classifier) Classify(ctx context.Context, msg domain.Message) (domain.ClassificationResult, error) {
	result, err := c.inference.Classify(ctx, msg.Body, domain.Categories())
	if err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("classify message %s: %w", msg.ID, err)
	}

	if !result.HasPurchaseIntent {
		result.Categories = nil
		return result, nil
	}

	result.Categories = validCategories(result.Categories)
	if len(result.Categories) == 0 {
		// Intent asserted but no usable category: the verdict cannot drive
		// filtering, so it is unavailable rather than a business zero.
		return domain.ClassificationResult{}, fmt.Errorf("classify message %s: intent without valid categories: %w",
			msg.ID, ports.ErrClassificationUnavailable)
	}

	return result, nil
}

func validCategories(labels []domain.Category) []domain.Category {
	seen := make(map[domain.Category]bool, len(labels))
	var out []domain.Category
	for _, label := range labels {
		category, ok := domain.ParseCategory(string(label))
		if !ok || seen[category] {
			continue
		}
		seen[category] = true
		out = append(out, category)
		if len(out) == maxCategories {
			break
		}
	}
	return out
}
