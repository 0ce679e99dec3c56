package grade

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mind-engage/h5p-bridge/internal/content"
)

// Store persists grade events and serves read-back for reporting.
type Store interface {
	Record(ctx context.Context, ev Event) (Record, error)
	ForContent(ctx context.Context, contentID int64) ([]Record, error)
	Latest(ctx context.Context, contentID int64, userID string) (Record, error)
}

type SQLStore struct {
	db       *sql.DB
	registry content.Registry
	now      func() time.Time
}

func NewSQLStore(db *sql.DB, registry content.Registry) *SQLStore {
	return &SQLStore{db: db, registry: registry, now: time.Now}
}

// Record resolves the external content id, applies payload defaults and
// appends exactly one immutable row. Nothing is written when resolution
// fails.
func (s *SQLStore) Record(ctx context.Context, ev Event) (Record, error) {
	c, err := s.registry.ResolveByExternalID(ctx, ev.ExternalContentID)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return Record{}, fmt.Errorf("%w: %s", ErrUnknownContent, ev.ExternalContentID)
		}
		return Record{}, err
	}

	rec := Record{
		ContentID: c.LocalID,
		UserID:    strings.TrimSpace(ev.UserID),
		RawScore:  defaultRawScore,
		MaxScore:  defaultMaxScore,
		Verb:      VerbToken(ev.VerbURI),
		CreatedAt: s.now().Unix(),
	}
	if rec.UserID == "" {
		rec.UserID = AnonymousUser
	}
	if ev.RawScore != nil {
		rec.RawScore = *ev.RawScore
	}
	if ev.MaxScore != nil {
		rec.MaxScore = *ev.MaxScore
	}
	if ev.Completed != nil {
		rec.Completed = *ev.Completed
	}

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO h5p_grades (content_id, user_id, raw_score, max_score, completed, verb, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id`,
		rec.ContentID, rec.UserID, rec.RawScore, rec.MaxScore, rec.Completed, rec.Verb, rec.CreatedAt).
		Scan(&rec.ID)
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *SQLStore) ForContent(ctx context.Context, contentID int64) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content_id, user_id, raw_score, max_score, completed, verb, created_at
		FROM h5p_grades WHERE content_id=$1
		ORDER BY created_at DESC, id DESC`, contentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Record{}
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.ContentID, &r.UserID, &r.RawScore, &r.MaxScore, &r.Completed, &r.Verb, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Latest returns the newest grade row for a (content, user) pair.
func (s *SQLStore) Latest(ctx context.Context, contentID int64, userID string) (Record, error) {
	var r Record
	err := s.db.QueryRowContext(ctx, `
		SELECT id, content_id, user_id, raw_score, max_score, completed, verb, created_at
		FROM h5p_grades WHERE content_id=$1 AND user_id=$2
		ORDER BY created_at DESC, id DESC LIMIT 1`, contentID, userID).
		Scan(&r.ID, &r.ContentID, &r.UserID, &r.RawScore, &r.MaxScore, &r.Completed, &r.Verb, &r.CreatedAt)
	if err != nil {
		return Record{}, err
	}
	return r, nil
}
