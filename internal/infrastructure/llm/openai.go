package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"ProductRecommender/internal/config"
	"ProductRecommender/internal/domain"
	"ProductRecommender/internal/ports"
)

// Client implements ports.InferenceService backed by OpenAI chat completions.
// Calls are rate-paced for free-tier quotas, retried with exponential backoff
// on transient failures, and wrapped in a circuit breaker so a dead provider
// fails fast mid-batch.
type Client struct {
	api        *openai.Client
	model      string
	timeout    time.Duration
	maxRetries uint64
	breaker    *gobreaker.CircuitBreaker
	limiter    *rate.Limiter
	logger     *slog.Logger
}

var _ ports.InferenceService = (*Client)(nil)

// NewClient builds a client from configuration.
func NewClient(cfg config.OpenAIConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	perSecond := rate.Limit(cfg.RequestsPerMinute / 60)
	if perSecond <= 0 {
		perSecond = rate.Inf
	}

	return &Client{
		api:        openai.NewClient(cfg.APIKey),
		model:      cfg.Model,
		timeout:    time.Duration(cfg.TimeoutSeconds) * time.Second,
		maxRetries: uint64(cfg.MaxRetries),
		breaker:    gobreaker.NewCircuitBreaker(gobreaker.Settings{Name: "openai"}),
		limiter:    rate.NewLimiter(perSecond, 1),
		logger:     logger,
	}
}

// Classify asks the model for a purchase-intent verdict and up to three
// relevant categories. Labels outside the supplied taxonomy are dropped.
func (c *Client) Classify(ctx context.Context, messageText string, categories []domain.Category) (domain.ClassificationResult, error) {
	raw, err := c.complete(ctx, classifyPrompt(messageText, categories))
	if err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("%w: %v", ports.ErrClassificationUnavailable, err)
	}

	parsed, err := parseClassification(raw)
	if err != nil {
		return domain.ClassificationResult{}, err
	}

	result := domain.ClassificationResult{
		HasPurchaseIntent: parsed.ShouldRecommend,
		Reasoning:         parsed.Reasoning,
	}
	for _, label := range parsed.Categories {
		category, ok := domain.ParseCategory(label)
		if !ok {
			c.logger.Warn("model returned unknown category", "label", label)
			continue
		}
		result.Categories = append(result.Categories, category)
	}

	return result, nil
}

// Rank asks the model to order the candidates and score each with a
// confidence in [0,1].
func (c *Client) Rank(ctx context.Context, messageText string, candidates []domain.Candidate) (domain.Selection, error) {
	raw, err := c.complete(ctx, rankPrompt(messageText, candidates))
	if err != nil {
		return domain.Selection{}, fmt.Errorf("%w: %v", ports.ErrSelectionUnavailable, err)
	}

	parsed, err := parseRanking(raw)
	if err != nil {
		return domain.Selection{}, err
	}

	selection := domain.Selection{Reasoning: parsed.Reasoning}
	for _, rec := range parsed.Recommendations {
		selection.Ranked = append(selection.Ranked, domain.RankedProduct{
			ProductID:  rec.ProductID,
			Confidence: rec.Confidence,
		})
	}

	return selection, nil
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	operation := func() (string, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", backoff.Permanent(err)
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		raw, err := c.breaker.Execute(func() (any, error) {
			return c.api.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
				Model: c.model,
				Messages: []openai.ChatCompletionMessage{
					{Role: openai.ChatMessageRoleUser, Content: prompt},
				},
			})
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return "", backoff.Permanent(err)
			}
			if !transient(err) {
				return "", backoff.Permanent(err)
			}
			c.logger.Warn("transient completion failure, retrying", "error", err)
			return "", err
		}

		resp := raw.(openai.ChatCompletionResponse)
		if len(resp.Choices) == 0 {
			return "", backoff.Permanent(errors.New("completion returned no choices"))
		}
		return resp.Choices[0].Message.Content, nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)
	return backoff.RetryWithData(operation, policy)
}

// transient reports whether the failure is worth retrying: rate limits,
// server errors, and transport faults. Anything else is permanent.
func transient(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests ||
			apiErr.HTTPStatusCode >= http.StatusInternalServerError
	}
	return true
}
