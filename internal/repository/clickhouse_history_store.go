package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Nate99091/crypto/internal/domain/models"
	"github.com/Nate99091/crypto/pkg/clickhouse"
	"github.com/Nate99091/crypto/pkg/logger"
)

const recordsTable = "arb.discrepancy_records"

var schemaStatements = []string{
	`CREATE DATABASE IF NOT EXISTS arb`,
	`CREATE TABLE IF NOT EXISTS arb.discrepancy_records (
		timestamp  Int64,
		pair_a     LowCardinality(String),
		pair_b     LowCardinality(String),
		price_a    Float64,
		price_b    Float64,
		raw        Float64,
		adjusted   Float64,
		volume_a   Float64,
		created_at DateTime DEFAULT now()
	)
	ENGINE = ReplacingMergeTree
	ORDER BY (pair_a, pair_b, timestamp)`,
}

// HistoryStore persists discrepancy records in ClickHouse, append-only and
// deduplicated by (pair_a, pair_b, timestamp).
type HistoryStore struct {
	client *clickhouse.Client
	logger *logger.Logger
}

// NewHistoryStore creates the store and ensures the schema exists.
func NewHistoryStore(ctx context.Context, client *clickhouse.Client, log *logger.Logger) (*HistoryStore, error) {
	if err := client.InitSchema(ctx, schemaStatements); err != nil {
		return nil, err
	}
	return &HistoryStore{client: client, logger: log}, nil
}

// Load returns all stored records, ascending by pair combination and
// timestamp.
func (s *HistoryStore) Load(ctx context.Context) ([]models.DiscrepancyRecord, error) {
	query := fmt.Sprintf(`
		SELECT timestamp, pair_a, pair_b, price_a, price_b, raw, adjusted, volume_a
		FROM %s FINAL
		ORDER BY pair_a, pair_b, timestamp`, recordsTable)

	rows, err := s.client.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	defer rows.Close()

	var records []models.DiscrepancyRecord
	for rows.Next() {
		var r models.DiscrepancyRecord
		if err := rows.Scan(&r.Timestamp, &r.PairA, &r.PairB,
			&r.PriceA, &r.PriceB, &r.Raw, &r.Adjusted, &r.VolumeA); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// AppendIfNew inserts records whose (pair_a, pair_b, timestamp) key is not
// already stored and returns how many were inserted. Existing records are
// never mutated.
func (s *HistoryStore) AppendIfNew(ctx context.Context, records []models.DiscrepancyRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	existing, err := s.existingKeys(ctx, records)
	if err != nil {
		return 0, err
	}

	fresh := records[:0:0]
	for i := range records {
		if _, ok := existing[records[i].Key()]; ok {
			continue
		}
		fresh = append(fresh, records[i])
	}
	if len(fresh) == 0 {
		return 0, nil
	}

	tx, err := s.client.DB().BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin append: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (timestamp, pair_a, pair_b, price_a, price_b, raw, adjusted, volume_a)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, recordsTable))
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prepare append: %w", err)
	}

	for i := range fresh {
		r := &fresh[i]
		if _, err := stmt.ExecContext(ctx, r.Timestamp, r.PairA, r.PairB,
			r.PriceA, r.PriceB, r.Raw, r.Adjusted, r.VolumeA); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("append record %s: %w", r.Key(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit append: %w", err)
	}

	s.logger.Debug("records appended", logger.Int("count", len(fresh)))
	return len(fresh), nil
}

// existingKeys fetches stored keys for the pair combinations present in
// records, keeping the dedup check bounded to the touched combinations.
func (s *HistoryStore) existingKeys(ctx context.Context, records []models.DiscrepancyRecord) (map[string]struct{}, error) {
	combos := make(map[[2]string]struct{})
	for i := range records {
		combos[[2]string{records[i].PairA, records[i].PairB}] = struct{}{}
	}

	var (
		clauses []string
		args    []interface{}
	)
	for combo := range combos {
		clauses = append(clauses, "(pair_a = ? AND pair_b = ?)")
		args = append(args, combo[0], combo[1])
	}

	query := fmt.Sprintf(`
		SELECT timestamp, pair_a, pair_b
		FROM %s
		WHERE %s`, recordsTable, strings.Join(clauses, " OR "))

	rows, err := s.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load existing keys: %w", err)
	}
	defer rows.Close()

	keys := make(map[string]struct{})
	for rows.Next() {
		var r models.DiscrepancyRecord
		if err := rows.Scan(&r.Timestamp, &r.PairA, &r.PairB); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys[r.Key()] = struct{}{}
	}
	return keys, rows.Err()
}

// Close closes the underlying connection pool.
func (s *HistoryStore) Close() error {
	return s.client.Close()
}
