package usecase

import (
	"context"
	"log/slog"

	"ProductRecommender/internal/domain"
	"ProductRecommender/internal/ports"
)

// PipelineDeps wires the pipeline steps and optional collaborators.
type PipelineDeps struct {
	Classifier *Classifier
	Selector   *Selector
	Rules      Rules
	Repository ports.RunRepository
	Logger     *slog.Logger
}

// Pipeline orchestrates classification, filtering, and selection per message.
type Pipeline struct {
	classifier *Classifier
	selector   *Selector
	rules      Rules
	repository ports.RunRepository
	logger     *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		classifier: deps.Classifier,
		selector:   deps.Selector,
		rules:      deps.Rules,
		repository: deps.Repository,
		logger:     logger,
	}
}

// ProcessOne runs the full decision pipeline for a single message against the
// catalog snapshot. Failures never escape as errors: they are encoded as a
// failed status so batch callers keep their isolation guarantee.
func (p *Pipeline) ProcessOne(ctx context.Context, msg domain.Message, products []domain.Product) domain.MessageResult {
	classification, err := p.classifier.Classify(ctx, msg)
	if err != nil {
		p.logger.Error("classification failed", "message_id", msg.ID, "error", err)
		return domain.MessageResult{
			MessageID: msg.ID,
			Status:    domain.StatusFailed,
			Reasoning: err.Error(),
		}
	}

	if !classification.HasPurchaseIntent {
		reasoning := classification.Reasoning
		if reasoning == "" {
			reasoning = "no purchase intent detected"
		}
		return domain.MessageResult{
			MessageID: msg.ID,
			Status:    domain.StatusNoIntent,
			Reasoning: reasoning,
		}
	}

	candidates := FilterCandidates(products, classification, p.rules)
	if len(candidates) == 0 {
		return domain.MessageResult{
			MessageID:  msg.ID,
			Status:     domain.StatusNoCandidates,
			Categories: classification.Categories,
			Reasoning:  "no eligible products in matching categories",
		}
	}

	recs, err := p.selector.Select(ctx, msg, candidates)
	if err != nil {
		p.logger.Error("selection failed", "message_id", msg.ID, "error", err)
		return domain.MessageResult{
			MessageID:  msg.ID,
			Status:     domain.StatusFailed,
			Categories: classification.Categories,
			Reasoning:  err.Error(),
		}
	}

	if len(recs) == 0 {
		return domain.MessageResult{
			MessageID:  msg.ID,
			Status:     domain.StatusNoCandidates,
			Categories: classification.Categories,
			Reasoning:  "ranking found no suitable product among candidates",
		}
	}

	return domain.MessageResult{
		MessageID:       msg.ID,
		Status:          domain.StatusRecommended,
		Categories:      classification.Categories,
		Recommendations: recs,
	}
}

// ProcessAll runs every message independently; a failure on one message never
// aborts the rest. Messages already recorded by the run repository are skipped
// so interrupted batches can resume.
func (p *Pipeline) ProcessAll(ctx context.Context, messages []domain.Message, products []domain.Product) []domain.MessageResult {
	skip := p.alreadyProcessed(ctx, messages)

	results := make([]domain.MessageResult, 0, len(messages))
	for i, msg := range messages {
		if skip[msg.ID] {
			p.logger.Debug("skipping already processed message", "message_id", msg.ID)
			continue
		}

		result := p.ProcessOne(ctx, msg, products)
		results = append(results, result)

		if p.repository != nil && !result.Failed() {
			if err := p.repository.SaveResult(ctx, result); err != nil {
				p.logger.Warn("persist result", "message_id", msg.ID, "error", err)
			}
		}

		if (i+1)%10 == 0 {
			p.logger.Info("batch progress", "processed", i+1, "total", len(messages))
		}
	}

	return results
}

func (p *Pipeline) alreadyProcessed(ctx context.Context, messages []domain.Message) map[string]bool {
	if p.repository == nil || len(messages) == 0 {
		return map[string]bool{}
	}

	ids := make([]string, len(messages))
	for i, msg := range messages {
		ids[i] = msg.ID
	}

	skip, err := p.repository.AlreadyProcessed(ctx, ids)
	if err != nil {
		p.logger.Warn("load processed messages", "error", err)
		return map[string]bool{}
	}

	return skip
}
