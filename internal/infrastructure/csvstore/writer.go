package csvstore

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"ProductRecommender/internal/domain"
)

// WriteResults emits the fixed output column set, one row per recommendation
// in rank order. A message without recommendations contributes exactly one
// row with an empty product id and an empty confidence, carrying the
// explanatory reasoning.
func WriteResults(path string, results []domain.MessageResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{"message_id", "recommended_product_id", "confidence", "reasoning"}); err != nil {
		_ = f.Close()
		return fmt.Errorf("write header: %w", err)
	}

	for _, result := range results {
		for _, row := range result.Rows() {
			confidence := ""
			if row.Recommended() {
				confidence = strconv.FormatFloat(row.Confidence, 'f', -1, 64)
			}
			record := []string{row.MessageID, row.ProductID, confidence, row.Reasoning}
			if err := w.Write(record); err != nil {
				_ = f.Close()
				return fmt.Errorf("write row for message %s: %w", row.MessageID, err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}

	return f.Close()
}
