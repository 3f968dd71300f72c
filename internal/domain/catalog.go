package domain

import (
	"strings"
	"time"
)

// Category is one label from the closed catalog taxonomy shared by the
// classifier and the candidate filter.
type Category string

const (
	CategoryRunningShoes Category = "Running Shoes"
	CategoryYoga         Category = "Yoga"
	CategoryLaptops      Category = "Laptops"
	CategoryElectronics  Category = "Electronics"
	CategoryHeadphones   Category = "Headphones"
	CategoryOuterwear    Category = "Outerwear"
	CategoryWaterBottles Category = "Water Bottles"
	CategoryKitchen      Category = "Kitchen"
	CategoryFitness      Category = "Fitness"
	CategoryCamping      Category = "Camping"
	CategoryWearables    Category = "Wearables"
	CategoryAudio        Category = "Audio"
	CategoryWorkwear     Category = "Workwear"
	CategoryTablets      Category = "Tablets"
	CategoryHome         Category = "Home"
)

// Categories returns the full taxonomy in presentation order.
func Categories() []Category {
	return []Category{
		CategoryRunningShoes,
		CategoryYoga,
		CategoryLaptops,
		CategoryElectronics,
		CategoryHeadphones,
		CategoryOuterwear,
		CategoryWaterBottles,
		CategoryKitchen,
		CategoryFitness,
		CategoryCamping,
		CategoryWearables,
		CategoryAudio,
		CategoryWorkwear,
		CategoryTablets,
		CategoryHome,
	}
}

// ParseCategory resolves a free-form label against the taxonomy,
// case-insensitively. Labels outside the closed set are rejected.
func ParseCategory(label string) (Category, bool) {
	label = strings.TrimSpace(label)
	for _, c := range Categories() {
		if strings.EqualFold(label, string(c)) {
			return c, true
		}
	}
	return "", false
}

// Message is one free-text user message, immutable once ingested.
type Message struct {
	ID     string
	UserID string
	Body   string
	SentAt time.Time
}

// Product is a read-only catalog snapshot entry.
type Product struct {
	ID               string
	Name             string
	Category         Category
	Description      string
	Price            float64
	Rating           float64
	StockCount       int
	PreorderEligible bool
}

// Purchasable reports whether the product can actually be fulfilled:
// stock on hand, or an open preorder path.
func (p Product) Purchasable() bool {
	return p.StockCount > 0 || p.PreorderEligible
}

// HistoricalOutcome is the per-message ground truth recorded after the fact.
type HistoricalOutcome struct {
	Clicked            bool
	PurchasedProductID string
}

// HasPurchase reports whether the message converted to a purchase.
func (o HistoricalOutcome) HasPurchase() bool {
	return o.PurchasedProductID != ""
}
