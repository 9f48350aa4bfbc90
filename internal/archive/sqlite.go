// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pubmed-search/pkg/types"
)

// sqliteStore keeps harvests in two tables: harvests and their articles.
type sqliteStore struct {
	db *sql.DB
}

// openSQLite opens or creates the database at path and its schema.
func openSQLite(path string) (*sqliteStore, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating archive directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &sqliteStore{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func (s *sqliteStore) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS harvests (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			harvested_at TEXT NOT NULL,
			resumption_token TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS articles (
			harvest_id INTEGER NOT NULL REFERENCES harvests(id),
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			pmid TEXT NOT NULL,
			url TEXT NOT NULL,
			abstract TEXT NOT NULL,
			PRIMARY KEY (harvest_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_pmid ON articles(pmid)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save inserts the harvest and its records in one transaction.
func (s *sqliteStore) Save(ctx context.Context, h Harvest) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO harvests (source, harvested_at, resumption_token) VALUES (?, ?, ?)`,
		h.Source, h.HarvestedAt.UTC().Format(time.RFC3339Nano), h.ResumptionToken,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting harvest: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading harvest id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO articles (harvest_id, position, title, pmid, url, abstract)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range h.Records {
		if _, err := stmt.ExecContext(ctx, id, i, r.Title, r.PMID, r.URL, r.Abstract); err != nil {
			return 0, fmt.Errorf("inserting record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing harvest: %w", err)
	}
	return id, nil
}

// List reads every harvest in insertion order.
func (s *sqliteStore) List(ctx context.Context) ([]Harvest, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, harvested_at, COALESCE(resumption_token, '') FROM harvests ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying harvests: %w", err)
	}
	defer rows.Close()

	var harvests []Harvest
	for rows.Next() {
		var h Harvest
		var at string
		if err := rows.Scan(&h.ID, &h.Source, &at, &h.ResumptionToken); err != nil {
			return nil, fmt.Errorf("scanning harvest: %w", err)
		}
		if h.HarvestedAt, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, fmt.Errorf("harvest %d: bad timestamp %q: %w", h.ID, at, err)
		}
		harvests = append(harvests, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range harvests {
		records, err := s.records(ctx, harvests[i].ID)
		if err != nil {
			return nil, err
		}
		harvests[i].Records = records
	}
	return harvests, nil
}

func (s *sqliteStore) records(ctx context.Context, harvestID int64) ([]types.ArticleRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT title, pmid, url, abstract FROM articles WHERE harvest_id = ? ORDER BY position`, harvestID)
	if err != nil {
		return nil, fmt.Errorf("querying articles: %w", err)
	}
	defer rows.Close()

	var records []types.ArticleRecord
	for rows.Next() {
		var r types.ArticleRecord
		if err := rows.Scan(&r.Title, &r.PMID, &r.URL, &r.Abstract); err != nil {
			return nil, fmt.Errorf("scanning article: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
