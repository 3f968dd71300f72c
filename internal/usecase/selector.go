package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"ProductRecommender/internal/domain"
	"ProductRecommender/internal/ports"
)

// Selector delegates final ranking and confidence scoring to the inference
// service and validates everything it returns.
type Selector struct {
	inference          ports.InferenceService
	maxCandidates      int
	maxRecommendations int
	logger             *slog.Logger
}

// maxOutput is the hard ceiling on recommendations per message.
const maxOutput = 3

// NewSelector builds the ranking step. maxCandidates bounds the candidate list
// handed to the model; maxRecommendations caps the emitted rows per message
// and can only lower the hard ceiling, never raise it.
func NewSelector(inference ports.InferenceService, maxCandidates, maxRecommendations int, logger *slog.Logger) *Selector {
	if logger == nil {
		logger = slog.Default()
	}
	if maxRecommendations <= 0 || maxRecommendations > maxOutput {
		maxRecommendations = maxOutput
	}
	return &Selector{
		inference:          inference,
		maxCandidates:      maxCandidates,
		maxRecommendations: maxRecommendations,
		logger:             logger,
	}
}

// Select emits up to maxRecommendations scored recommendations for the
// message. An empty candidate set skips the inference call entirely and
// yields zero rows. A ranking that references a product outside the supplied
// candidates is rejected as unavailable, never accepted.
func (s *Selector) Select(ctx context.Context, msg domain.Message, candidates []domain.Candidate) ([]domain.Recommendation, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	shortlist := s.shortlist(candidates)
	if dropped := len(candidates) - len(shortlist); dropped > 0 {
		s.logger.Debug("truncated candidate list for ranking",
			"message_id", msg.ID, "kept", len(shortlist), "dropped", dropped)
	}

	selection, err := s.inference.Rank(ctx, msg.Body, shortlist)
	if err != nil {
		return nil, fmt.Errorf("rank message %s: %w", msg.ID, err)
	}

	allowed := make(map[string]bool, len(shortlist))
	for _, candidate := range shortlist {
		allowed[candidate.Product.ID] = true
	}

	for _, ranked := range selection.Ranked {
		if !allowed[ranked.ProductID] {
			return nil, fmt.Errorf("message %s: ranking references unknown product %s: %w",
				msg.ID, ranked.ProductID, ports.ErrSelectionUnavailable)
		}
	}

	var recs []domain.Recommendation
	for _, ranked := range selection.Ranked {
		recs = append(recs, domain.Recommendation{
			MessageID:  msg.ID,
			ProductID:  ranked.ProductID,
			Confidence: clamp01(ranked.Confidence),
			Reasoning:  selection.Reasoning,
		})
		if len(recs) == s.maxRecommendations {
			break
		}
	}

	return recs, nil
}

// shortlist orders candidates by matched category rank, then rating, and
// applies the token-safety cap before the ranking call.
func (s *Selector) shortlist(candidates []domain.Candidate) []domain.Candidate {
	ordered := make([]domain.Candidate, len(candidates))
	copy(ordered, candidates)

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].CategoryRank != ordered[j].CategoryRank {
			return ordered[i].CategoryRank < ordered[j].CategoryRank
		}
		return ordered[i].Product.Rating > ordered[j].Product.Rating
	})

	if s.maxCandidates > 0 && len(ordered) > s.maxCandidates {
		ordered = ordered[:s.maxCandidates]
	}

	return ordered
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
