package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"ProductRecommender/internal/domain"
	"ProductRecommender/internal/ports"
)

func classifyPrompt(messageText string, categories []domain.Category) string {
	labels, _ := json.MarshalIndent(categories, "", "  ")

	return fmt.Sprintf(`You are a product recommendation assistant. Analyze this user message:

%q

Available product categories:
%s

Determine:
1. Does this user have purchase intent? Someone looking to buy something has intent;
   someone complaining about a past purchase, asking a support question, or just
   chatting does not, even when they mention a product category.
2. If yes, which up to 3 categories are most relevant to their needs, most relevant first?

Return ONLY valid JSON (no markdown):
{
    "should_recommend": true/false,
    "categories": ["Category1", "Category2", "Category3"],
    "reasoning": "brief explanation"
}

If should_recommend is false, categories must be an empty array.`, messageText, labels)
}

func rankPrompt(messageText string, candidates []domain.Candidate) string {
	var lines []string
	for _, c := range candidates {
		p := c.Product
		lines = append(lines, fmt.Sprintf("- %s: %s | %s | $%.2f | %.1f* | %s",
			p.ID, p.Name, p.Category, p.Price, p.Rating, p.Description))
	}

	return fmt.Sprintf(`You are a product recommendation assistant. A user sent this message:

%q

Available products (eligible, good ratings):
%s

Select the TOP 3 products that best match what the user is looking for, ranked by relevance.

Consider:
1. How well each product matches the user's stated need
2. Product quality (rating)
3. Value for the price point

Return ONLY valid JSON (no markdown), using only product ids from the list above:
{
    "recommendations": [
        {"product_id": "P0XX", "confidence": 0.95},
        {"product_id": "P0YY", "confidence": 0.80},
        {"product_id": "P0ZZ", "confidence": 0.65}
    ],
    "reasoning": "one sentence explaining why these products in this order"
}

Confidence must reflect how well each product matches the user's needs (0.0-1.0).`,
		messageText, strings.Join(lines, "\n"))
}

type classifyResponse struct {
	ShouldRecommend bool     `json:"should_recommend"`
	Categories      []string `json:"categories"`
	Reasoning       string   `json:"reasoning"`
}

type rankResponse struct {
	Recommendations []struct {
		ProductID  string  `json:"product_id"`
		Confidence float64 `json:"confidence"`
	} `json:"recommendations"`
	Reasoning string `json:"reasoning"`
}

func parseClassification(raw string) (classifyResponse, error) {
	var parsed classifyResponse
	if err := json.Unmarshal([]byte(extractJSON(raw)), &parsed); err != nil {
		return classifyResponse{}, fmt.Errorf("parse classification output: %w", ports.ErrClassificationUnavailable)
	}
	return parsed, nil
}

func parseRanking(raw string) (rankResponse, error) {
	var parsed rankResponse
	if err := json.Unmarshal([]byte(extractJSON(raw)), &parsed); err != nil {
		return rankResponse{}, fmt.Errorf("parse ranking output: %w", ports.ErrSelectionUnavailable)
	}
	return parsed, nil
}

// extractJSON strips the markdown code fences models wrap JSON in despite
// instructions.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		parts := strings.SplitN(text, "```", 3)
		if len(parts) >= 2 {
			text = parts[1]
		}
		text = strings.TrimPrefix(text, "json")
	}
	return strings.TrimSpace(text)
}
