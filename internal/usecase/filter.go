package usecase

import "ProductRecommender/internal/domain"

// Rules carries the hard eligibility thresholds for candidate filtering.
type Rules struct {
	MinRating float64
}

// FilterCandidates narrows the catalog to products eligible for the message.
// Each rule is independently sufficient to exclude a product: the category
// must be among the classifier's categories, the product must be purchasable
// (stock on hand or preorder path), and the rating must meet the minimum.
// Candidates are annotated with the rank of the matched category so the
// selector can use relevance as a tie-break. An empty result is a legitimate
// business outcome, not an error.
func FilterCandidates(products []domain.Product, classification domain.ClassificationResult, rules Rules) []domain.Candidate {
	ranks := make(map[domain.Category]int, len(classification.Categories))
	for i, category := range classification.Categories {
		ranks[category] = i
	}

	var candidates []domain.Candidate
	for _, product := range products {
		rank, ok := ranks[product.Category]
		if !ok {
			continue
		}
		if !product.Purchasable() {
			continue
		}
		if product.Rating < rules.MinRating {
			continue
		}
		candidates = append(candidates, domain.Candidate{Product: product, CategoryRank: rank})
	}

	return candidates
}
