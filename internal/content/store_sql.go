package content

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

type SQLRegistry struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
	now    func() time.Time
}

func NewSQLRegistry(db *sql.DB, driver string) *SQLRegistry {
	return &SQLRegistry{db: db, driver: driver, now: time.Now}
}

func (s *SQLRegistry) RegisterOrUpdate(ctx context.Context, externalID, title string) (Record, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return Record{}, errors.New("external content id required")
	}
	var rec Record
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO h5p_content (h5p_id, title, created_at)
		VALUES ($1,$2,$3)
		ON CONFLICT (h5p_id) DO UPDATE SET title=excluded.title
		RETURNING id, h5p_id, title, created_at`,
		externalID, title, s.now().Unix()).
		Scan(&rec.LocalID, &rec.ExternalID, &rec.Title, &rec.CreatedAt)
	return rec, err
}

func (s *SQLRegistry) ResolveByExternalID(ctx context.Context, externalID string) (Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, h5p_id, title, created_at FROM h5p_content WHERE h5p_id=$1`, externalID)
	return scanRecord(row)
}

func (s *SQLRegistry) Get(ctx context.Context, localID int64) (Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, h5p_id, title, created_at FROM h5p_content WHERE id=$1`, localID)
	return scanRecord(row)
}

func (s *SQLRegistry) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, h5p_id, title, created_at FROM h5p_content ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Record{}
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.LocalID, &rec.ExternalID, &rec.Title, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLRegistry) Delete(ctx context.Context, localID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM h5p_content WHERE id=$1`, localID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanRecord(row *sql.Row) (Record, error) {
	var rec Record
	if err := row.Scan(&rec.LocalID, &rec.ExternalID, &rec.Title, &rec.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	return rec, nil
}
