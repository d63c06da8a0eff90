// Package store persists comparable snapshots, market metrics, and
// decision history in a local SQLite database. The valuation engine
// itself never touches it; the CLI loads evidence from here and records
// outcomes back.
package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"deal-radar/internal/engine"
	"deal-radar/internal/logger"
)

// Store wraps a SQLite database connection.
type Store struct {
	sql *sql.DB
}

// Open opens (or creates) the snapshot database and runs migrations.
func Open(path string) (*Store, error) {
	sqlDB, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}
	s := &Store{sql: sqlDB}
	if err := s.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate db: %w", err)
	}
	logger.Success("DB", "Opened %s", path)
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.sql.Close()
}

func (s *Store) migrate() error {
	version := 0
	s.sql.QueryRow("SELECT version FROM schema_version ORDER BY version DESC LIMIT 1").Scan(&version)

	if version < 1 {
		_, err := s.sql.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY);

			CREATE TABLE IF NOT EXISTS comparables (
				listing_id    TEXT PRIMARY KEY,
				category      TEXT NOT NULL,
				item_price    REAL NOT NULL,
				shipping_cost REAL NOT NULL DEFAULT 0,
				observed_at   TEXT NOT NULL,
				listed_at     TEXT,
				days_to_sell  REAL NOT NULL DEFAULT 0,
				condition     TEXT,
				title         TEXT,
				status        TEXT NOT NULL DEFAULT 'active',
				region        TEXT
			);
			CREATE INDEX IF NOT EXISTS idx_comparables_category ON comparables(category);

			CREATE TABLE IF NOT EXISTS market_metrics (
				category          TEXT PRIMARY KEY,
				active_listings   INTEGER NOT NULL DEFAULT 0,
				avg_days_to_sell  REAL NOT NULL DEFAULT 0,
				sell_through_rate REAL NOT NULL DEFAULT 0,
				recent_sales_30d  INTEGER NOT NULL DEFAULT 0,
				updated_at        TEXT NOT NULL
			);

			CREATE TABLE IF NOT EXISTS decision_history (
				id           INTEGER PRIMARY KEY AUTOINCREMENT,
				timestamp    TEXT NOT NULL,
				category     TEXT NOT NULL,
				title        TEXT,
				asking_price REAL NOT NULL,
				estimate     REAL,
				confidence   INTEGER NOT NULL,
				deal_score   INTEGER NOT NULL,
				action       TEXT NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_decision_history_ts ON decision_history(timestamp);

			INSERT OR IGNORE INTO schema_version (version) VALUES (1);
		`)
		if err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
		logger.Info("DB", "Applied migration v1")
	}

	return nil
}

// SaveComparables upserts a batch of comparable records for a category.
// Records without a listing id get a generated one so re-ingesting the
// same feed does not silently collapse distinct rows.
func (s *Store) SaveComparables(category string, comps []engine.ComparableInput) error {
	tx, err := s.sql.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO comparables
			(listing_id, category, item_price, shipping_cost, observed_at, listed_at, days_to_sell, condition, title, status, region)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(listing_id) DO UPDATE SET
			item_price = excluded.item_price,
			shipping_cost = excluded.shipping_cost,
			observed_at = excluded.observed_at,
			listed_at = excluded.listed_at,
			days_to_sell = excluded.days_to_sell,
			condition = excluded.condition,
			title = excluded.title,
			status = excluded.status,
			region = excluded.region`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, c := range comps {
		id := c.ListingID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := stmt.Exec(id, category, c.ItemPrice, c.ShippingCost,
			c.ObservedAt, c.ListedAt, c.DaysToSell, c.Condition, c.Title, c.Status, c.Region); err != nil {
			return fmt.Errorf("upsert comparable %s: %w", id, err)
		}
	}
	return tx.Commit()
}

// LoadComparables returns all stored comparable records for a category.
func (s *Store) LoadComparables(category string) ([]engine.ComparableInput, error) {
	rows, err := s.sql.Query(`
		SELECT listing_id, item_price, shipping_cost, observed_at,
		       COALESCE(listed_at, ''), days_to_sell,
		       COALESCE(condition, ''), COALESCE(title, ''), status, COALESCE(region, '')
		FROM comparables WHERE category = ?`, category)
	if err != nil {
		return nil, fmt.Errorf("query comparables: %w", err)
	}
	defer rows.Close()

	var out []engine.ComparableInput
	for rows.Next() {
		var c engine.ComparableInput
		if err := rows.Scan(&c.ListingID, &c.ItemPrice, &c.ShippingCost, &c.ObservedAt,
			&c.ListedAt, &c.DaysToSell, &c.Condition, &c.Title, &c.Status, &c.Region); err != nil {
			return nil, fmt.Errorf("scan comparable: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// SaveMarketMetrics upserts the aggregate category metrics snapshot.
func (s *Store) SaveMarketMetrics(category string, m engine.MarketMetrics, updatedAt string) error {
	_, err := s.sql.Exec(`
		INSERT INTO market_metrics (category, active_listings, avg_days_to_sell, sell_through_rate, recent_sales_30d, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(category) DO UPDATE SET
			active_listings = excluded.active_listings,
			avg_days_to_sell = excluded.avg_days_to_sell,
			sell_through_rate = excluded.sell_through_rate,
			recent_sales_30d = excluded.recent_sales_30d,
			updated_at = excluded.updated_at`,
		category, m.ActiveListings, m.AvgDaysToSell, m.SellThroughRate, m.RecentSales30d, updatedAt)
	if err != nil {
		return fmt.Errorf("upsert market metrics: %w", err)
	}
	return nil
}

// LoadMarketMetrics reads the metrics snapshot for a category. Returns
// nil without error when no snapshot exists.
func (s *Store) LoadMarketMetrics(category string) (*engine.MarketMetrics, error) {
	var m engine.MarketMetrics
	err := s.sql.QueryRow(`
		SELECT active_listings, avg_days_to_sell, sell_through_rate, recent_sales_30d
		FROM market_metrics WHERE category = ?`, category).
		Scan(&m.ActiveListings, &m.AvgDaysToSell, &m.SellThroughRate, &m.RecentSales30d)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query market metrics: %w", err)
	}
	return &m, nil
}

// RecordDecision appends one evaluated deal to the decision history.
func (s *Store) RecordDecision(timestamp string, req *engine.Request, d engine.DecisionPayload) error {
	var estimate any
	if d.TMV.Estimate != nil {
		estimate = *d.TMV.Estimate
	}
	_, err := s.sql.Exec(`
		INSERT INTO decision_history (timestamp, category, title, asking_price, estimate, confidence, deal_score, action)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		timestamp, req.Category, req.Title, req.AskingPrice, estimate,
		d.TMV.Confidence, d.DealScore, d.Action)
	if err != nil {
		return fmt.Errorf("insert decision: %w", err)
	}
	return nil
}
