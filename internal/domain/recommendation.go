package domain

// ClassificationResult is the intent verdict for one message. Categories are
// ordered most-relevant first; the order itself encodes priority.
type ClassificationResult struct {
	HasPurchaseIntent bool
	Categories        []Category
	Reasoning         string
}

// Candidate pairs a product with the rank of the classifier category it
// matched (0 = most relevant). Exists only within one pipeline invocation.
type Candidate struct {
	Product      Product
	CategoryRank int
}

// RankedProduct is one entry of the inference service's ranking output.
type RankedProduct struct {
	ProductID  string
	Confidence float64
}

// Selection is the raw ranking verdict before validation.
type Selection struct {
	Ranked    []RankedProduct
	Reasoning string
}

// Recommendation is one emitted output row. An empty ProductID encodes an
// explicit "no recommendation" outcome, never a fallback guess.
type Recommendation struct {
	MessageID  string
	ProductID  string
	Confidence float64
	Reasoning  string
}

// Recommended reports whether the row names an actual product.
func (r Recommendation) Recommended() bool {
	return r.ProductID != ""
}

// MessageStatus distinguishes valid zero-recommendation business outcomes
// from processing failures.
type MessageStatus string

const (
	StatusRecommended  MessageStatus = "recommended"
	StatusNoIntent     MessageStatus = "no_intent"
	StatusNoCandidates MessageStatus = "no_candidates"
	StatusFailed       MessageStatus = "failed"
)

// MessageResult is the pipeline outcome for a single message.
type MessageResult struct {
	MessageID       string
	Status          MessageStatus
	Categories      []Category
	Recommendations []Recommendation
	Reasoning       string
}

// Failed reports whether the message could not be processed, as opposed to
// legitimately yielding no recommendation.
func (r MessageResult) Failed() bool {
	return r.Status == StatusFailed
}

// Rows flattens the result into output rows. A message with recommendations
// contributes one row per recommendation in rank order; a message without any
// contributes exactly one row with an empty product id and the explanatory
// reasoning, so every processed message stays visible in the output.
func (r MessageResult) Rows() []Recommendation {
	if len(r.Recommendations) > 0 {
		return r.Recommendations
	}
	return []Recommendation{{MessageID: r.MessageID, Reasoning: r.Reasoning}}
}
