package usecase

import (
	"testing"

	"ProductRecommender/internal/domain"
)

func TestFilterCandidatesRules(t *testing.T) {
	t.Parallel()

	products := []domain.Product{
		{ID: "P001", Category: domain.CategoryRunningShoes, Rating: 4.5, StockCount: 12},
		{ID: "P002", Category: domain.CategoryRunningShoes, Rating: 4.8, StockCount: 0},
		{ID: "P003", Category: domain.CategoryRunningShoes, Rating: 4.2, StockCount: 0, PreorderEligible: true},
		{ID: "P004", Category: domain.CategoryRunningShoes, Rating: 2.9, StockCount: 40},
		{ID: "P005", Category: domain.CategoryLaptops, Rating: 4.9, StockCount: 5},
		{ID: "P006", Category: domain.CategoryFitness, Rating: 4.0, StockCount: 3},
	}

	classification := domain.ClassificationResult{
		HasPurchaseIntent: true,
		Categories:        []domain.Category{domain.CategoryRunningShoes, domain.CategoryFitness},
	}

	candidates := FilterCandidates(products, classification, Rules{MinRating: 3.5})

	got := map[string]int{}
	for _, c := range candidates {
		got[c.Product.ID] = c.CategoryRank
	}

	if len(got) != 3 {
		t.Fatalf("expected 3 candidates, got %d: %v", len(got), got)
	}
	if rank, ok := got["P001"]; !ok || rank != 0 {
		t.Fatalf("expected P001 at category rank 0, got %v (present=%v)", rank, ok)
	}
	if rank, ok := got["P003"]; !ok || rank != 0 {
		t.Fatalf("expected preorder-eligible P003 at rank 0, got %v (present=%v)", rank, ok)
	}
	if rank, ok := got["P006"]; !ok || rank != 1 {
		t.Fatalf("expected P006 at category rank 1, got %v (present=%v)", rank, ok)
	}
	if _, ok := got["P002"]; ok {
		t.Fatal("out-of-stock product without preorder must be excluded")
	}
	if _, ok := got["P004"]; ok {
		t.Fatal("below-threshold rating must be excluded")
	}
	if _, ok := got["P005"]; ok {
		t.Fatal("product outside classified categories must be excluded")
	}
}

func TestFilterCandidatesEmptyResult(t *testing.T) {
	t.Parallel()

	products := []domain.Product{
		{ID: "P001", Category: domain.CategoryKitchen, Rating: 4.6, StockCount: 9},
	}
	classification := domain.ClassificationResult{
		HasPurchaseIntent: true,
		Categories:        []domain.Category{domain.CategoryTablets},
	}

	candidates := FilterCandidates(products, classification, Rules{MinRating: 3.5})
	if len(candidates) != 0 {
		t.Fatalf("expected empty candidate set, got %d", len(candidates))
	}
}
