package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
)

type Store struct {
	db *sql.DB
}

func Open(dsn string) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("missing database dsn")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return &Store{db: db}, nil
}

func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Resolution is one served answer or draft. Inputs and outputs are stored as
// hashes only; notices can carry taxpayer details.
type Resolution struct {
	ID         string
	Operation  string
	Source     string
	Success    bool
	InputHash  string
	OutputHash string
	Client     string
	LatencyMS  int
	CreatedAt  time.Time
}

func (s *Store) RecordResolution(ctx context.Context, r Resolution) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO resolutions (id, operation, source, success, input_hash, output_hash, client, latency_ms)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		r.ID, r.Operation, r.Source, r.Success, r.InputHash, r.OutputHash, r.Client, r.LatencyMS)
	if err != nil {
		return "", err
	}
	return r.ID, nil
}

func (s *Store) ListResolutions(ctx context.Context, limit int) ([]Resolution, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, operation, source, success, input_hash, output_hash, client, latency_ms, created_at
		FROM resolutions ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Resolution
	for rows.Next() {
		var r Resolution
		if err := rows.Scan(&r.ID, &r.Operation, &r.Source, &r.Success, &r.InputHash, &r.OutputHash, &r.Client, &r.LatencyMS, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountBySource aggregates stored resolutions per answer source.
func (s *Store) CountBySource(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT source, count(*) FROM resolutions GROUP BY source`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var source string
		var n int64
		if err := rows.Scan(&source, &n); err != nil {
			return nil, err
		}
		counts[source] = n
	}
	return counts, rows.Err()
}

func Hash(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
