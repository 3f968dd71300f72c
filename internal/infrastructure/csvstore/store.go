package csvstore

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"ProductRecommender/internal/domain"
	"ProductRecommender/internal/ports"
)

const (
	productsFile = "products.csv"
	messagesFile = "messages.csv"
	historyFile  = "recommendations_history.csv"
)

// Store implements ports.CatalogStore over flat CSV files in a data
// directory. Malformed rows are skipped with a warning; they never abort a
// load.
type Store struct {
	dir    string
	logger *slog.Logger
}

var _ ports.CatalogStore = (*Store)(nil)

// NewStore wires a CSV-backed catalog and history store.
func NewStore(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dir: dir, logger: logger}
}

// LoadProducts reads the catalog snapshot.
func (s *Store) LoadProducts(_ context.Context) ([]domain.Product, error) {
	header, records, err := readAll(filepath.Join(s.dir, productsFile))
	if err != nil {
		return nil, err
	}

	var products []domain.Product
	for i, record := range records {
		product, err := parseProduct(header, record)
		if err != nil {
			s.logger.Warn("skipping malformed product row", "line", i+2, "error", err)
			continue
		}
		products = append(products, product)
	}

	return products, nil
}

// LoadMessages reads the user message log.
func (s *Store) LoadMessages(_ context.Context) ([]domain.Message, error) {
	header, records, err := readAll(filepath.Join(s.dir, messagesFile))
	if err != nil {
		return nil, err
	}

	var messages []domain.Message
	for i, record := range records {
		msg, err := parseMessage(header, record)
		if err != nil {
			s.logger.Warn("skipping malformed message row", "line", i+2, "error", err)
			continue
		}
		messages = append(messages, msg)
	}

	return messages, nil
}

// LoadOutcomes reads the click/purchase ground truth recorded alongside each
// message.
func (s *Store) LoadOutcomes(_ context.Context) (map[string]domain.HistoricalOutcome, error) {
	header, records, err := readAll(filepath.Join(s.dir, messagesFile))
	if err != nil {
		return nil, err
	}

	outcomes := make(map[string]domain.HistoricalOutcome, len(records))
	for _, record := range records {
		id := field(header, record, "message_id")
		if id == "" {
			continue
		}
		clicked, _ := strconv.ParseBool(field(header, record, "clicked"))
		outcomes[id] = domain.HistoricalOutcome{
			Clicked:            clicked,
			PurchasedProductID: field(header, record, "converted_to_purchase"),
		}
	}

	return outcomes, nil
}

// LoadRecommendations reads a recommendation set from the given path. An
// empty path loads the historical baseline shipped with the data directory.
func (s *Store) LoadRecommendations(path string) ([]domain.Recommendation, error) {
	if path == "" {
		path = filepath.Join(s.dir, historyFile)
	}

	header, records, err := readAll(path)
	if err != nil {
		return nil, err
	}

	var recs []domain.Recommendation
	for i, record := range records {
		id := field(header, record, "message_id")
		if id == "" {
			s.logger.Warn("skipping recommendation row without message id", "line", i+2)
			continue
		}

		rec := domain.Recommendation{
			MessageID: id,
			ProductID: field(header, record, "recommended_product_id"),
			Reasoning: field(header, record, "reasoning"),
		}
		if raw := field(header, record, "confidence"); raw != "" {
			confidence, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				s.logger.Warn("skipping recommendation row with bad confidence", "line", i+2, "error", err)
				continue
			}
			rec.Confidence = confidence
		}
		recs = append(recs, rec)
	}

	return recs, nil
}

func parseProduct(header map[string]int, record []string) (domain.Product, error) {
	id := field(header, record, "product_id")
	if id == "" {
		return domain.Product{}, fmt.Errorf("missing product_id")
	}

	category, ok := domain.ParseCategory(field(header, record, "category"))
	if !ok {
		return domain.Product{}, fmt.Errorf("unknown category %q", field(header, record, "category"))
	}

	price, err := strconv.ParseFloat(field(header, record, "price"), 64)
	if err != nil {
		return domain.Product{}, fmt.Errorf("price: %w", err)
	}

	rating, err := strconv.ParseFloat(field(header, record, "avg_rating"), 64)
	if err != nil {
		return domain.Product{}, fmt.Errorf("avg_rating: %w", err)
	}

	stock, err := strconv.Atoi(field(header, record, "stock_quantity"))
	if err != nil || stock < 0 {
		return domain.Product{}, fmt.Errorf("stock_quantity %q invalid", field(header, record, "stock_quantity"))
	}

	preorder, _ := strconv.ParseBool(field(header, record, "preorder_eligible"))

	return domain.Product{
		ID:               id,
		Name:             field(header, record, "name"),
		Category:         category,
		Description:      field(header, record, "description"),
		Price:            price,
		Rating:           rating,
		StockCount:       stock,
		PreorderEligible: preorder,
	}, nil
}

func parseMessage(header map[string]int, record []string) (domain.Message, error) {
	id := field(header, record, "message_id")
	if id == "" {
		return domain.Message{}, fmt.Errorf("missing message_id")
	}

	body := field(header, record, "message")
	if body == "" {
		return domain.Message{}, fmt.Errorf("missing message body")
	}

	msg := domain.Message{
		ID:     id,
		UserID: field(header, record, "user_id"),
		Body:   body,
	}

	if raw := field(header, record, "timestamp"); raw != "" {
		if ts, err := parseTimestamp(raw); err == nil {
			msg.SentAt = ts
		}
	}

	return msg, nil
}

func parseTimestamp(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", raw)
}

func readAll(path string) (map[string]int, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("read %s: empty file", path)
	}

	header := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		header[strings.ToLower(strings.TrimSpace(name))] = i
	}

	return header, rows[1:], nil
}

func field(header map[string]int, record []string, name string) string {
	idx, ok := header[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
