package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"ProductRecommender/internal/domain"
	"ProductRecommender/internal/ports"
)

// PostgresRepository persists emitted recommendation rows into Postgres so
// interrupted batch runs can resume without repeating inference calls.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.RunRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// AlreadyProcessed returns a map with message IDs that already have rows in
// storage.
func (r *PostgresRepository) AlreadyProcessed(ctx context.Context, messageIDs []string) (map[string]bool, error) {
	if r.db == nil || len(messageIDs) == 0 {
		return map[string]bool{}, nil
	}

	query, args, err := r.builder.
		Select("DISTINCT message_id").
		From("recommendations").
		Where(sq.Expr("message_id = ANY(?)", pq.StringArray(messageIDs))).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build processed query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query processed: %w", err)
	}

	result := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan id: %w", err)
		}
		result[id] = true
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return result, nil
}

// SaveResult upserts the output rows for one processed message.
func (r *PostgresRepository) SaveResult(ctx context.Context, result domain.MessageResult) error {
	if r.db == nil {
		return nil
	}

	for rank, row := range result.Rows() {
		productID := sql.NullString{String: row.ProductID, Valid: row.Recommended()}
		confidence := sql.NullFloat64{Float64: row.Confidence, Valid: row.Recommended()}

		query, args, err := r.builder.
			Insert("recommendations").
			Columns("message_id", "rank", "product_id", "confidence", "reasoning", "status").
			Values(row.MessageID, rank, productID, confidence, row.Reasoning, string(result.Status)).
			Suffix(`ON CONFLICT (message_id, rank) DO UPDATE
                    SET product_id = EXCLUDED.product_id,
                        confidence = EXCLUDED.confidence,
                        reasoning = EXCLUDED.reasoning,
                        status = EXCLUDED.status,
                        updated_at = NOW()`).
			ToSql()
		if err != nil {
			return fmt.Errorf("build upsert for message %s: %w", row.MessageID, err)
		}

		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert recommendation %s/%d: %w", row.MessageID, rank, err)
		}
	}

	return nil
}
