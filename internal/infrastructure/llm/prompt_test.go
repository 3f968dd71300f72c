package llm

import (
	"errors"
	"strings"
	"testing"

	"ProductRecommender/internal/domain"
	"ProductRecommender/internal/ports"
)

func TestExtractJSONStripsFences(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  {\"a\":1}  \n", `{"a":1}`},
	}

	for _, tc := range cases {
		if got := extractJSON(tc.in); got != tc.want {
			t.Fatalf("extractJSON(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseClassification(t *testing.T) {
	t.Parallel()

	raw := "```json\n{\"should_recommend\": true, \"categories\": [\"Running Shoes\", \"Fitness\"], \"reasoning\": \"marathon prep\"}\n```"
	parsed, err := parseClassification(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !parsed.ShouldRecommend {
		t.Fatal("expected should_recommend true")
	}
	if len(parsed.Categories) != 2 || parsed.Categories[0] != "Running Shoes" {
		t.Fatalf("unexpected categories: %v", parsed.Categories)
	}
}

func TestParseClassificationMalformed(t *testing.T) {
	t.Parallel()

	_, err := parseClassification("I think the user wants shoes")
	if !errors.Is(err, ports.ErrClassificationUnavailable) {
		t.Fatalf("malformed output must map to classification-unavailable, got %v", err)
	}
}

func TestParseRankingMalformed(t *testing.T) {
	t.Parallel()

	_, err := parseRanking("```json\n{broken\n```")
	if !errors.Is(err, ports.ErrSelectionUnavailable) {
		t.Fatalf("malformed output must map to selection-unavailable, got %v", err)
	}
}

func TestRankPromptListsCandidates(t *testing.T) {
	t.Parallel()

	candidates := []domain.Candidate{
		{Product: domain.Product{
			ID:          "P042",
			Name:        "Trail Mix 2",
			Category:    domain.CategoryRunningShoes,
			Price:       129.99,
			Rating:      4.6,
			Description: "cushioned trail shoe",
		}},
	}

	prompt := rankPrompt("shoes for trail running", candidates)
	if !strings.Contains(prompt, "P042") {
		t.Fatal("rank prompt must include candidate product ids")
	}
	if !strings.Contains(prompt, "Trail Mix 2") {
		t.Fatal("rank prompt must include candidate names")
	}
}

func TestClassifyPromptListsTaxonomy(t *testing.T) {
	t.Parallel()

	prompt := classifyPrompt("need a new laptop", domain.Categories())
	if !strings.Contains(prompt, string(domain.CategoryLaptops)) {
		t.Fatal("classify prompt must enumerate the closed category set")
	}
}
