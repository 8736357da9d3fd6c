package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists records to a single-file sqlite database so the dev
// server can keep data across restarts. Records are stored as JSON bodies
// keyed by (resource, id), which keeps the schema-less contract intact.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Single writer keeps "database is locked" errors away under the
	// concurrent handlers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS records (
		resource TEXT NOT NULL,
		id       INTEGER NOT NULL,
		body     TEXT NOT NULL,
		PRIMARY KEY (resource, id)
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) List(ctx context.Context, resource string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, body FROM records WHERE resource = ? ORDER BY id`, resource)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var id int64
		var body string
		if err := rows.Scan(&id, &body); err != nil {
			return nil, err
		}
		rec, err := decodeBody(id, body)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Create(ctx context.Context, resource string, fields Record) (Record, error) {
	body, err := encodeBody(fields)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var id int64
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(id), 0) + 1 FROM records WHERE resource = ?`, resource,
	).Scan(&id); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO records (resource, id, body) VALUES (?, ?, ?)`,
		resource, id, body); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	rec := fields.Clone()
	rec["id"] = id
	return rec, nil
}

func (s *SQLiteStore) Replace(ctx context.Context, resource, id string, fields Record) (Record, bool, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, false, nil
	}
	body, err := encodeBody(fields)
	if err != nil {
		return nil, false, err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE records SET body = ? WHERE resource = ? AND id = ?`,
		body, resource, n)
	if err != nil {
		return nil, false, err
	}
	changed, err := res.RowsAffected()
	if err != nil {
		return nil, false, err
	}
	if changed == 0 {
		return nil, false, nil
	}
	rec := fields.Clone()
	rec["id"] = n
	return rec, true, nil
}

func (s *SQLiteStore) Patch(ctx context.Context, resource, id string, fields Record) (Record, bool, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, false, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	var body string
	err = tx.QueryRowContext(ctx,
		`SELECT body FROM records WHERE resource = ? AND id = ?`, resource, n,
	).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	rec, err := decodeBody(n, body)
	if err != nil {
		return nil, false, err
	}
	for k, v := range fields {
		if k == "id" {
			continue
		}
		rec[k] = v
	}
	merged, err := encodeBody(rec)
	if err != nil {
		return nil, false, err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE records SET body = ? WHERE resource = ? AND id = ?`,
		merged, resource, n); err != nil {
		return nil, false, err
	}
	if err := tx.Commit(); err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, resource, id string) (bool, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return false, nil
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM records WHERE resource = ? AND id = ?`, resource, n)
	if err != nil {
		return false, err
	}
	changed, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return changed > 0, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func encodeBody(fields Record) (string, error) {
	rec := fields.Clone()
	delete(rec, "id")
	b, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("encode record: %w", err)
	}
	return string(b), nil
}

func decodeBody(id int64, body string) (Record, error) {
	var rec Record
	if err := json.Unmarshal([]byte(body), &rec); err != nil {
		return nil, fmt.Errorf("decode record %d: %w", id, err)
	}
	rec["id"] = id
	return rec, nil
}
