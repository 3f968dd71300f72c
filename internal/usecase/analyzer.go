package usecase

import (
	"fmt"
	"strings"

	"ProductRecommender/internal/domain"
)

// Report aggregates recommendation quality against behavioral ground truth.
//
// Denominator conventions are fixed system-wide:
//   - click-through, purchase, and recommendation rates are over all
//     evaluated messages;
//   - out-of-stock rate is per recommendation row emitted;
//   - exact/category match rates are per message with a purchase outcome,
//     since ground-truth category only exists when a purchase happened.
type Report struct {
	TotalMessages        int
	MessagesWithPurchase int
	RecommendedMessages  int
	RecommendationsMade  int
	ExactMatches         int
	CategoryMatches      int
	Clicks               int
	Purchases            int
	OutOfStock           int
	MeanConfidence       float64
	MeanRating           float64
}

// RecommendationRate is the fraction of messages receiving at least one
// recommendation.
func (r Report) RecommendationRate() float64 {
	return ratio(r.RecommendedMessages, r.TotalMessages)
}

// ClickThroughRate is clicks on recommended products over all messages.
func (r Report) ClickThroughRate() float64 {
	return ratio(r.Clicks, r.TotalMessages)
}

// PurchaseRate is recommended messages that converted, over all messages.
func (r Report) PurchaseRate() float64 {
	return ratio(r.Purchases, r.TotalMessages)
}

// OutOfStockRate is unfulfillable recommendations per recommendation made.
// Under the eligibility rules it must stay at zero; anything else is a
// regression signal.
func (r Report) OutOfStockRate() float64 {
	return ratio(r.OutOfStock, r.RecommendationsMade)
}

// ExactMatchRate is top recommendations matching the purchased product, per
// message with a purchase outcome.
func (r Report) ExactMatchRate() float64 {
	return ratio(r.ExactMatches, r.MessagesWithPurchase)
}

// CategoryMatchRate is top recommendations in the purchased product's
// category, per message with a purchase outcome.
func (r Report) CategoryMatchRate() float64 {
	return ratio(r.CategoryMatches, r.MessagesWithPurchase)
}

// Analyzer scores recommendation sets against historical outcomes. It never
// mutates its inputs.
type Analyzer struct{}

// Analyze joins recommendation rows with outcomes by message id and computes
// the aggregate report. Rows with an empty product id are explicit
// zero-recommendation outcomes: they count toward denominators only.
func (Analyzer) Analyze(
	messages []domain.Message,
	products []domain.Product,
	recs []domain.Recommendation,
	outcomes map[string]domain.HistoricalOutcome,
) Report {
	catalog := make(map[string]domain.Product, len(products))
	for _, product := range products {
		catalog[product.ID] = product
	}

	byMessage := make(map[string][]domain.Recommendation, len(messages))
	for _, rec := range recs {
		if !rec.Recommended() {
			continue
		}
		byMessage[rec.MessageID] = append(byMessage[rec.MessageID], rec)
	}

	report := Report{TotalMessages: len(messages)}
	var confidenceSum, ratingSum float64
	var ratingCount int

	for _, msg := range messages {
		outcome := outcomes[msg.ID]
		if outcome.HasPurchase() {
			report.MessagesWithPurchase++
		}

		rows := byMessage[msg.ID]
		if len(rows) == 0 {
			continue
		}

		report.RecommendedMessages++
		report.RecommendationsMade += len(rows)

		for _, rec := range rows {
			confidenceSum += rec.Confidence
			if product, ok := catalog[rec.ProductID]; ok {
				ratingSum += product.Rating
				ratingCount++
				if !product.Purchasable() {
					report.OutOfStock++
				}
			}
		}

		if outcome.Clicked {
			report.Clicks++
		}
		if outcome.HasPurchase() {
			report.Purchases++

			// Match metrics consider the top-ranked recommendation only.
			top := rows[0]
			if top.ProductID == outcome.PurchasedProductID {
				report.ExactMatches++
			}
			purchased, purchasedOK := catalog[outcome.PurchasedProductID]
			recommended, recommendedOK := catalog[top.ProductID]
			if purchasedOK && recommendedOK && purchased.Category == recommended.Category {
				report.CategoryMatches++
			}
		}
	}

	if report.RecommendationsMade > 0 {
		report.MeanConfidence = confidenceSum / float64(report.RecommendationsMade)
	}
	if ratingCount > 0 {
		report.MeanRating = ratingSum / float64(ratingCount)
	}

	return report
}

// Comparison contrasts a baseline report with a candidate report. Every delta
// is signed so that positive means the candidate set is better; for the
// out-of-stock rate the sign is therefore flipped (lower is better).
type Comparison struct {
	Baseline  Report
	Candidate Report

	RecommendationRateDelta float64
	ClickThroughRateDelta   float64
	PurchaseRateDelta       float64
	ExactMatchRateDelta     float64
	CategoryMatchRateDelta  float64
	OutOfStockRateDelta     float64
	MeanConfidenceDelta     float64
}

// Compare computes signed metric deltas between two reports.
func (Analyzer) Compare(baseline, candidate Report) Comparison {
	return Comparison{
		Baseline:  baseline,
		Candidate: candidate,

		RecommendationRateDelta: candidate.RecommendationRate() - baseline.RecommendationRate(),
		ClickThroughRateDelta:   candidate.ClickThroughRate() - baseline.ClickThroughRate(),
		PurchaseRateDelta:       candidate.PurchaseRate() - baseline.PurchaseRate(),
		ExactMatchRateDelta:     candidate.ExactMatchRate() - baseline.ExactMatchRate(),
		CategoryMatchRateDelta:  candidate.CategoryMatchRate() - baseline.CategoryMatchRate(),
		OutOfStockRateDelta:     baseline.OutOfStockRate() - candidate.OutOfStockRate(),
		MeanConfidenceDelta:     candidate.MeanConfidence - baseline.MeanConfidence,
	}
}

// Format renders the report as a human-readable summary block.
func (r Report) Format(name string) string {
	var b strings.Builder
	rule := strings.Repeat("=", 50)

	fmt.Fprintf(&b, "\n%s\n %s\n%s\n\n", rule, name, rule)
	fmt.Fprintf(&b, "Accuracy:\n")
	fmt.Fprintf(&b, "  Exact Match Rate:      %6.1f%%  (%d/%d)\n",
		r.ExactMatchRate()*100, r.ExactMatches, r.MessagesWithPurchase)
	fmt.Fprintf(&b, "  Category Match Rate:   %6.1f%%  (%d/%d)\n\n",
		r.CategoryMatchRate()*100, r.CategoryMatches, r.MessagesWithPurchase)
	fmt.Fprintf(&b, "Coverage:\n")
	fmt.Fprintf(&b, "  Messages Evaluated:     %d\n", r.TotalMessages)
	fmt.Fprintf(&b, "  Recommended Messages:   %d\n", r.RecommendedMessages)
	fmt.Fprintf(&b, "  Recommendation Rate:    %.1f%%\n", r.RecommendationRate()*100)
	fmt.Fprintf(&b, "  Click-Through Rate:     %.1f%%\n", r.ClickThroughRate()*100)
	fmt.Fprintf(&b, "  Purchase Rate:          %.1f%%\n\n", r.PurchaseRate()*100)
	fmt.Fprintf(&b, "Quality:\n")
	fmt.Fprintf(&b, "  Out-of-Stock Rate:     %6.1f%%\n", r.OutOfStockRate()*100)
	fmt.Fprintf(&b, "  Avg Product Rating:    %6.2f\n", r.MeanRating)
	if r.RecommendationsMade > 0 {
		fmt.Fprintf(&b, "  Avg Confidence:        %6.2f\n", r.MeanConfidence)
	}

	return b.String()
}

// Format renders the comparison summary; positive deltas always mean the
// candidate set is better.
func (c Comparison) Format() string {
	var b strings.Builder
	rule := strings.Repeat("=", 50)

	fmt.Fprintf(&b, "%s\n COMPARISON (positive delta = new set better)\n%s\n", rule, rule)
	fmt.Fprintf(&b, "  Recommendation Rate: %s\n",
		deltaLine(c.Baseline.RecommendationRate(), c.Candidate.RecommendationRate(), c.RecommendationRateDelta))
	fmt.Fprintf(&b, "  Click-Through:       %s\n",
		deltaLine(c.Baseline.ClickThroughRate(), c.Candidate.ClickThroughRate(), c.ClickThroughRateDelta))
	fmt.Fprintf(&b, "  Purchase Rate:       %s\n",
		deltaLine(c.Baseline.PurchaseRate(), c.Candidate.PurchaseRate(), c.PurchaseRateDelta))
	fmt.Fprintf(&b, "  Exact Match:         %s\n",
		deltaLine(c.Baseline.ExactMatchRate(), c.Candidate.ExactMatchRate(), c.ExactMatchRateDelta))
	fmt.Fprintf(&b, "  Category Match:      %s\n",
		deltaLine(c.Baseline.CategoryMatchRate(), c.Candidate.CategoryMatchRate(), c.CategoryMatchRateDelta))
	fmt.Fprintf(&b, "  Out-of-Stock:        %s\n",
		deltaLine(c.Baseline.OutOfStockRate(), c.Candidate.OutOfStockRate(), c.OutOfStockRateDelta))

	return b.String()
}

func deltaLine(baseline, candidate, delta float64) string {
	return fmt.Sprintf("%5.1f%% -> %5.1f%%  (%+.1fpp)", baseline*100, candidate*100, delta*100)
}

func ratio(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return float64(numerator) / float64(denominator)
}
